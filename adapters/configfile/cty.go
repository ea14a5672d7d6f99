// Package configfile loads catalogs and parameter contexts from disk.
// Catalog files are HCL; parameter contexts are JSON documents.
package configfile

import (
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"
)

// ctyToGo converts a known cty value into a plain Go value.
// Numbers become decimal strings so no precision is lost on the way in.
// Unknown or null values become nil.
func ctyToGo(val cty.Value) interface{} {
	if !val.IsKnown() || val.IsNull() {
		return nil
	}

	switch {
	case val.Type() == cty.String:
		return val.AsString()

	case val.Type() == cty.Number:
		d, err := decimal.NewFromString(val.AsBigFloat().Text('f', -1))
		if err != nil {
			return nil
		}
		return d

	case val.Type() == cty.Bool:
		return val.True()

	case val.Type().IsListType() || val.Type().IsSetType() || val.Type().IsTupleType():
		if !val.CanIterateElements() {
			return nil
		}
		out := make([]interface{}, 0, val.LengthInt())
		iter := val.ElementIterator()
		for iter.Next() {
			_, v := iter.Element()
			out = append(out, ctyToGo(v))
		}
		return out

	case val.Type().IsMapType() || val.Type().IsObjectType():
		if !val.CanIterateElements() {
			return nil
		}
		out := make(map[string]interface{})
		iter := val.ElementIterator()
		for iter.Next() {
			k, v := iter.Element()
			out[k.AsString()] = ctyToGo(v)
		}
		return out
	}

	return nil
}

// ctyDecimal converts a cty number (or numeric string) to a decimal
func ctyDecimal(val cty.Value) (decimal.Decimal, bool) {
	switch v := ctyToGo(val).(type) {
	case decimal.Decimal:
		return v, true
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}

// ctyString converts a cty string value
func ctyString(val cty.Value) (string, bool) {
	s, ok := ctyToGo(val).(string)
	return s, ok
}

// ctyInt converts a cty number to an int
func ctyInt(val cty.Value) (int, bool) {
	d, ok := ctyDecimal(val)
	if !ok {
		return 0, false
	}
	return int(d.IntPart()), true
}

// ctyBool converts a cty bool value
func ctyBool(val cty.Value) (bool, bool) {
	b, ok := ctyToGo(val).(bool)
	return b, ok
}

// ctyCompare converts a cty value into a comparison operand for conditions.
// Decimals are passed through as-is so numeric comparisons stay exact.
func ctyCompare(val cty.Value) interface{} {
	return ctyToGo(val)
}
