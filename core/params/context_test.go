// Package params - context resolution and value tests
package params

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func nested() *Context {
	return NewContext(map[string]interface{}{
		"institution": map[string]interface{}{
			"type": "bank",
			"address": map[string]interface{}{
				"state": "IA",
			},
		},
		"volumes": map[string]interface{}{
			"monthly_items": 75000,
		},
		"empty":    nil,
		"disabled": false,
	})
}

// TestResolve walks dotted paths of varying depth
func TestResolve(t *testing.T) {
	ctx := nested()

	v, ok := ctx.Resolve("institution.address.state")
	if !ok {
		t.Fatal("three-level path should resolve")
	}
	if s, _ := v.AsString(); s != "IA" {
		t.Errorf("state = %q, want IA", s)
	}

	if _, ok := ctx.Resolve("institution.address.zip"); ok {
		t.Error("absent leaf should not resolve")
	}
	if _, ok := ctx.Resolve("institution.type.extra"); ok {
		t.Error("traversing through a string should not resolve")
	}
	if _, ok := ctx.Resolve(""); ok {
		t.Error("empty path should not resolve")
	}
	if _, ok := ctx.Resolve("empty"); ok {
		t.Error("null leaf should count as absent")
	}

	v, ok = ctx.Resolve("disabled")
	if !ok {
		t.Fatal("false leaf should resolve; absence is not falsiness")
	}
	if b, _ := v.AsBool(); b {
		t.Error("disabled should be false")
	}
}

// TestResolveNilContext stays total on a nil receiver
func TestResolveNilContext(t *testing.T) {
	var ctx *Context
	if _, ok := ctx.Resolve("a.b"); ok {
		t.Error("nil context should resolve nothing")
	}
}

// TestNumericCoercion pins the form-input conventions: numeric strings and
// booleans coerce, other strings do not
func TestNumericCoercion(t *testing.T) {
	if n, ok := String("75000").AsNumber(); !ok || !n.Equal(dec("75000")) {
		t.Errorf("numeric string = %s/%v, want 75000", n, ok)
	}
	if n, ok := String(" 12.5 ").AsNumber(); !ok || !n.Equal(dec("12.5")) {
		t.Errorf("padded numeric string = %s/%v, want 12.5", n, ok)
	}
	if _, ok := String("lots").AsNumber(); ok {
		t.Error("non-numeric string should not coerce")
	}
	if n, ok := Bool(true).AsNumber(); !ok || !n.Equal(dec("1")) {
		t.Errorf("true = %s, want 1", n)
	}
	if _, ok := Null().AsNumber(); ok {
		t.Error("null should not be numeric")
	}
}

// TestEquals covers cross-representation numeric equality
func TestEquals(t *testing.T) {
	if !Number(dec("75000")).Equals(Number(dec("75000.0"))) {
		t.Error("75000 and 75000.0 should be equal")
	}
	if !Number(dec("75000")).Equals(String("75000")) {
		t.Error("number and numeric string should be equal")
	}
	if Number(dec("75000")).Equals(String("bank")) {
		t.Error("number and non-numeric string should differ")
	}
	if !String("bank").Equals(String("bank")) {
		t.Error("equal strings should be equal")
	}
	if String("bank").Equals(Bool(true)) {
		t.Error("string and bool should differ")
	}
}

// TestFromGoKinds checks the decoded-input conversions
func TestFromGoKinds(t *testing.T) {
	cases := []struct {
		in   interface{}
		kind ValueKind
	}{
		{nil, KindNull},
		{true, KindBool},
		{42, KindNumber},
		{int64(42), KindNumber},
		{4.2, KindNumber},
		{dec("4.2"), KindNumber},
		{"bank", KindString},
		{[]interface{}{1, 2}, KindList},
		{map[string]interface{}{"a": 1}, KindMap},
	}
	for _, tc := range cases {
		if got := FromGo(tc.in).Kind(); got != tc.kind {
			t.Errorf("FromGo(%v) kind = %v, want %v", tc.in, got, tc.kind)
		}
	}
}
