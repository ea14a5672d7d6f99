// Package formula - restricted expression grammar tests
package formula

import (
	"testing"

	"github.com/shopspring/decimal"

	"quote-engine/internal/errors"
)

// TestExpressionArithmetic covers precedence, parentheses, and unary minus
func TestExpressionArithmetic(t *testing.T) {
	vars := map[string]decimal.Decimal{
		"base":  dec("100"),
		"items": dec("5000"),
		"rate":  dec("0.02"),
	}

	cases := []struct {
		expr string
		want string
	}{
		{"1 + 2 * 3", "7"},
		{"(1 + 2) * 3", "9"},
		{"base + items * rate", "200"},
		{"-base + 150", "50"},
		{"items / 2", "2500"},
		{"base - -10", "110"},
		{"2 * (base + (items - 4000) * rate)", "240"},
		{"0.1 + 0.2", "0.3"},
	}
	for _, tc := range cases {
		got, err := evaluateExpression(tc.expr, vars)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.expr, err)
		}
		if !got.Equal(dec(tc.want)) {
			t.Errorf("%q = %s, want %s", tc.expr, got, tc.want)
		}
	}
}

// TestExpressionRejectsFunctionCalls proves the grammar has no call syntax.
// Expressions come from catalog files, so anything resembling code execution
// must be rejected outright.
func TestExpressionRejectsFunctionCalls(t *testing.T) {
	cases := []string{
		"max(1, 2)",
		"base + pow(2, 10)",
		"__import__ (1)",
	}
	for _, expr := range cases {
		_, err := evaluateExpression(expr, map[string]decimal.Decimal{"base": dec("1")})
		if err == nil {
			t.Fatalf("%q: expected rejection", expr)
		}
		if !errors.IsType(err, errors.TypeExpression) {
			t.Errorf("%q: error type = %v, want expression error", expr, err)
		}
	}
}

// TestExpressionRejectsMalformedInput covers lexer and parser failures
func TestExpressionRejectsMalformedInput(t *testing.T) {
	cases := []string{
		"",
		"1 +",
		"* 2",
		"(1 + 2",
		"1 2",
		"a @ b",
		"1..2",
	}
	for _, expr := range cases {
		if _, err := evaluateExpression(expr, nil); err == nil {
			t.Errorf("%q: expected error", expr)
		}
	}
}

// TestExpressionDivisionByZero proves division by zero fails the formula
// instead of producing an arbitrary price
func TestExpressionDivisionByZero(t *testing.T) {
	_, err := evaluateExpression("100 / denom", map[string]decimal.Decimal{
		"denom": decimal.Zero,
	})
	if err == nil {
		t.Fatal("expected division by zero error")
	}
	if !errors.IsType(err, errors.TypeExpression) {
		t.Errorf("error type = %v, want expression error", err)
	}
}

// TestExpressionUnknownIdentifier proves unbound identifiers default to zero
func TestExpressionUnknownIdentifier(t *testing.T) {
	got, err := evaluateExpression("50 + mystery", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(dec("50")) {
		t.Errorf("result = %s, want 50", got)
	}
}
