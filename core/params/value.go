// Package params provides the parameter context driving rule and formula evaluation.
// Values are wrapped with explicit kind information so evaluators never
// type-assert raw interface{} data.
package params

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValueKind represents the type of a context value
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

// String returns the kind name
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// Value is a kinded parameter value
type Value struct {
	kind      ValueKind
	boolVal   bool
	numberVal decimal.Decimal
	stringVal string
	listVal   []Value
	mapVal    map[string]Value
}

// Null creates a null value
func Null() Value {
	return Value{kind: KindNull}
}

// Bool creates a boolean value
func Bool(v bool) Value {
	return Value{kind: KindBool, boolVal: v}
}

// Number creates a numeric value
func Number(v decimal.Decimal) Value {
	return Value{kind: KindNumber, numberVal: v}
}

// NumberFromFloat creates a numeric value from a float64
func NumberFromFloat(v float64) Value {
	return Value{kind: KindNumber, numberVal: decimal.NewFromFloat(v)}
}

// NumberFromInt creates a numeric value from an integer
func NumberFromInt(v int64) Value {
	return Value{kind: KindNumber, numberVal: decimal.NewFromInt(v)}
}

// String creates a string value
func String(v string) Value {
	return Value{kind: KindString, stringVal: v}
}

// List creates a list value
func List(elements ...Value) Value {
	return Value{kind: KindList, listVal: elements}
}

// Map creates a map value
func Map(elements map[string]Value) Value {
	return Value{kind: KindMap, mapVal: elements}
}

// FromGo converts a plain Go value (typically decoded JSON) to a Value
func FromGo(v interface{}) Value {
	if v == nil {
		return Null()
	}

	switch val := v.(type) {
	case bool:
		return Bool(val)
	case int:
		return NumberFromInt(int64(val))
	case int64:
		return NumberFromInt(val)
	case float64:
		return NumberFromFloat(val)
	case decimal.Decimal:
		return Number(val)
	case string:
		return String(val)
	case []interface{}:
		elements := make([]Value, len(val))
		for i, e := range val {
			elements[i] = FromGo(e)
		}
		return List(elements...)
	case map[string]interface{}:
		elements := make(map[string]Value, len(val))
		for k, e := range val {
			elements[k] = FromGo(e)
		}
		return Map(elements)
	default:
		// Unrecognized types degrade to their string form
		return String(fmt.Sprintf("%v", v))
	}
}

// Kind returns the value kind
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull returns true if the value is null
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsBool returns the boolean value, false if not a bool
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.boolVal, true
}

// AsNumber returns the numeric value.
// Numeric strings coerce, matching how volumes arrive from form input.
func (v Value) AsNumber() (decimal.Decimal, bool) {
	switch v.kind {
	case KindNumber:
		return v.numberVal, true
	case KindString:
		d, err := decimal.NewFromString(strings.TrimSpace(v.stringVal))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case KindBool:
		if v.boolVal {
			return decimal.NewFromInt(1), true
		}
		return decimal.Zero, true
	default:
		return decimal.Zero, false
	}
}

// AsString returns the string value
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.stringVal, true
}

// AsList returns the list elements
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.listVal, true
}

// AsMap returns the map elements
func (v Value) AsMap() (map[string]Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.mapVal, true
}

// Equals compares values for equality.
// Numbers compare by value, so 75000 and 75000.0 are equal.
func (v Value) Equals(other Value) bool {
	if v.kind == KindNumber || other.kind == KindNumber {
		a, aok := v.AsNumber()
		b, bok := other.AsNumber()
		if aok && bok {
			return a.Equal(b)
		}
	}

	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolVal == other.boolVal
	case KindString:
		return v.stringVal == other.stringVal
	case KindList:
		if len(v.listVal) != len(other.listVal) {
			return false
		}
		for i := range v.listVal {
			if !v.listVal[i].Equals(other.listVal[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.mapVal) != len(other.mapVal) {
			return false
		}
		for k, val := range v.mapVal {
			otherVal, ok := other.mapVal[k]
			if !ok || !val.Equals(otherVal) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String returns a display representation
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.boolVal {
			return "true"
		}
		return "false"
	case KindNumber:
		return v.numberVal.String()
	case KindString:
		return v.stringVal
	case KindList:
		parts := make([]string, len(v.listVal))
		for i, e := range v.listVal {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		return fmt.Sprintf("map[%d]", len(v.mapVal))
	default:
		return "(invalid)"
	}
}
