// Package formula - pricing formula evaluation tests
package formula

import (
	"testing"

	"github.com/shopspring/decimal"

	"quote-engine/core/params"
	"quote-engine/internal/errors"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func volumeContext(monthlyItems interface{}) *params.Context {
	return params.NewContext(map[string]interface{}{
		"volumes": map[string]interface{}{
			"monthly_items": monthlyItems,
		},
	})
}

// TestFixedPrice pins the trivial variant
func TestFixedPrice(t *testing.T) {
	got, err := Price(Fixed(dec("500")), params.NewContext(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(dec("500")) {
		t.Errorf("fixed price = %s, want 500", got)
	}
}

// TestQuantityBasedPrice covers present, absent, and negative quantities
func TestQuantityBasedPrice(t *testing.T) {
	f := QuantityBased(dec("2.50"), "volumes.monthly_items")

	got, err := Price(f, volumeContext(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(dec("250")) {
		t.Errorf("price = %s, want 250", got)
	}

	// Absent quantity means zero units, not an error
	got, err = Price(f, params.NewContext(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("price with absent quantity = %s, want 0", got)
	}

	// Negative quantities clamp to zero
	got, err = Price(f, volumeContext(-50))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("price with negative quantity = %s, want 0", got)
	}
}

func standardTiers() []Tier {
	return []Tier{
		{Min: dec("0"), Max: decPtr("10000"), Price: dec("180")},
		{Min: dec("10001"), Max: decPtr("50000"), Price: dec("340")},
		{Min: dec("50001"), Price: dec("520")},
	}
}

// TestTieredPrice proves a volume of 25000 lands in the middle band
func TestTieredPrice(t *testing.T) {
	f := Tiered("volumes.monthly_items", standardTiers())

	got, err := Price(f, volumeContext(25000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(dec("340")) {
		t.Errorf("price at 25000 = %s, want 340", got)
	}
}

// TestTieredBoundaries pins inclusive bounds and the open last tier
func TestTieredBoundaries(t *testing.T) {
	f := Tiered("volumes.monthly_items", standardTiers())

	cases := []struct {
		volume string
		want   string
	}{
		{"0", "180"},
		{"10000", "180"},
		{"10001", "340"},
		{"50000", "340"},
		{"50001", "520"},
		{"10000000", "520"},
	}
	for _, tc := range cases {
		got, err := Price(f, volumeContext(tc.volume))
		if err != nil {
			t.Fatalf("volume %s: unexpected error: %v", tc.volume, err)
		}
		if !got.Equal(dec(tc.want)) {
			t.Errorf("price at %s = %s, want %s", tc.volume, got, tc.want)
		}
	}
}

// TestTieredNoMatch proves a gap in the bands is a validation error
func TestTieredNoMatch(t *testing.T) {
	f := Tiered("volumes.monthly_items", []Tier{
		{Min: dec("100"), Max: decPtr("200"), Price: dec("50")},
	})

	_, err := Price(f, volumeContext(50))
	if err == nil {
		t.Fatal("expected error for volume outside every tier")
	}
	if !errors.IsType(err, errors.TypeValidation) {
		t.Errorf("error type = %v, want validation", err)
	}
}

// TestTieredAbsentVolume proves absent volume prices as zero volume
func TestTieredAbsentVolume(t *testing.T) {
	f := Tiered("volumes.monthly_items", standardTiers())

	got, err := Price(f, params.NewContext(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(dec("180")) {
		t.Errorf("price with absent volume = %s, want first-tier 180", got)
	}
}

// TestCalculatedPrice covers the restricted expression variant
func TestCalculatedPrice(t *testing.T) {
	f := Calculated("base + items * 0.02", map[string]string{
		"base":  "pricing.base",
		"items": "volumes.monthly_items",
	})
	ctx := params.NewContext(map[string]interface{}{
		"pricing": map[string]interface{}{"base": 100},
		"volumes": map[string]interface{}{"monthly_items": 5000},
	})

	got, err := Price(f, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(dec("200")) {
		t.Errorf("calculated price = %s, want 200", got)
	}
}

// TestCalculatedUnboundVariable proves unmapped identifiers evaluate as zero
func TestCalculatedUnboundVariable(t *testing.T) {
	f := Calculated("base + mystery", map[string]string{"base": "pricing.base"})
	ctx := params.NewContext(map[string]interface{}{
		"pricing": map[string]interface{}{"base": 75},
	})

	got, err := Price(f, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(dec("75")) {
		t.Errorf("price with unbound variable = %s, want 75", got)
	}
}

// TestCalculatedNegativeClamped proves a negative result clamps to zero
func TestCalculatedNegativeClamped(t *testing.T) {
	f := Calculated("base - 50", map[string]string{"base": "pricing.base"})
	ctx := params.NewContext(map[string]interface{}{
		"pricing": map[string]interface{}{"base": 20},
	})

	got, err := Price(f, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("negative result = %s, want clamp to 0", got)
	}
}

// TestUnknownFormulaKind proves an unrecognized kind is rejected
func TestUnknownFormulaKind(t *testing.T) {
	_, err := Price(&Formula{Kind: Kind("lookup_table")}, params.NewContext(nil))
	if err == nil {
		t.Fatal("expected error for unknown formula kind")
	}
}
