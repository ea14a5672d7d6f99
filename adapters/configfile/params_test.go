// Package configfile - parameter document tests
package configfile

import (
	"testing"
)

// TestParseParams decodes a nested document and resolves dotted paths
func TestParseParams(t *testing.T) {
	src := []byte(`{
		"institution": {"type": "bank", "branch_count": 12},
		"volumes": {"monthly_items": 25000},
		"modules": {
			"check_recognition": {"enabled": true}
		}
	}`)

	ctx, err := ParseParams(src, "prospect.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, ok := ctx.Resolve("institution.type")
	if !ok {
		t.Fatal("institution.type should resolve")
	}
	if s, _ := v.AsString(); s != "bank" {
		t.Errorf("institution.type = %q, want bank", s)
	}

	v, ok = ctx.Resolve("volumes.monthly_items")
	if !ok {
		t.Fatal("volumes.monthly_items should resolve")
	}
	n, numeric := v.AsNumber()
	if !numeric || !n.Equal(dec("25000")) {
		t.Errorf("monthly_items = %s, want 25000", n)
	}

	v, ok = ctx.Resolve("modules.check_recognition.enabled")
	if !ok {
		t.Fatal("module enabled flag should resolve")
	}
	if b, _ := v.AsBool(); !b {
		t.Error("enabled should be true")
	}

	if _, ok := ctx.Resolve("institution.missing"); ok {
		t.Error("missing path should not resolve")
	}
}

// TestParseParamsPreservesPrecision proves large and fractional numbers
// survive without float drift
func TestParseParamsPreservesPrecision(t *testing.T) {
	src := []byte(`{"volumes": {"monthly_items": 9007199254740993, "rate": 0.1}}`)

	ctx, err := ParseParams(src, "big.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, _ := ctx.Resolve("volumes.monthly_items")
	n, _ := v.AsNumber()
	if !n.Equal(dec("9007199254740993")) {
		t.Errorf("monthly_items = %s, lost integer precision", n)
	}

	v, _ = ctx.Resolve("volumes.rate")
	n, _ = v.AsNumber()
	if !n.Equal(dec("0.1")) {
		t.Errorf("rate = %s, want exactly 0.1", n)
	}
}

// TestParseParamsRejectsMalformedJSON maps to a parsing error
func TestParseParamsRejectsMalformedJSON(t *testing.T) {
	if _, err := ParseParams([]byte(`{"a": `), "broken.json"); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if _, err := ParseParams([]byte(`[1, 2, 3]`), "array.json"); err == nil {
		t.Fatal("expected error for non-object document")
	}
}
