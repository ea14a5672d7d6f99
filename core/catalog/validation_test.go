// Package catalog - structural validation tests
package catalog

import (
	"testing"

	"github.com/shopspring/decimal"

	"quote-engine/core/condition"
	"quote-engine/core/formula"
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

func validCatalog() *Catalog {
	return &Catalog{
		Version: "2026.1",
		Products: []Product{
			{
				Code:      "TELLER-STANDARD",
				Name:      "Teller Capture",
				Selection: condition.Always(),
				Formula:   formula.Fixed(dec("500")),
				SetupRules: []SelectionRule{
					{Condition: condition.Always(), TargetCode: "CHECK-ICL-SETUP"},
				},
			},
		},
		SetupItems: []SetupItem{
			{Code: "CHECK-ICL-SETUP", Name: "Image Cash Letter setup", UnitPrice: decPtr("12500")},
		},
		Modules: []Module{
			{Code: "check_recognition", Name: "Check Recognition", ProductCode: "TELLER-STANDARD"},
		},
		CommissionRate: dec("5"),
		Milestones: MilestoneDefaults{
			InitialPaymentPct: dec("15"),
			ServicesFraction:  dec("0.5"),
		},
	}
}

// TestValidateAcceptsWellFormed establishes the baseline fixture is clean
func TestValidateAcceptsWellFormed(t *testing.T) {
	if errs := Validate(validCatalog()); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

// TestValidateDanglingSetupRule proves a rule targeting an unknown item is a
// configuration reference error
func TestValidateDanglingSetupRule(t *testing.T) {
	cat := validCatalog()
	cat.Products[0].SetupRules = append(cat.Products[0].SetupRules, SelectionRule{
		Condition:  condition.Always(),
		TargetCode: "NO-SUCH-ITEM",
	})

	errs := Validate(cat)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if !errors.IsType(errs[0], errors.TypeConfigReference) {
		t.Errorf("error type = %v, want config reference", errs[0])
	}
}

// TestValidateDanglingModuleProduct covers module -> product references
func TestValidateDanglingModuleProduct(t *testing.T) {
	cat := validCatalog()
	cat.Modules[0].ProductCode = "NO-SUCH-PRODUCT"

	errs := Validate(cat)
	if len(errs) != 1 || !errors.IsType(errs[0], errors.TypeConfigReference) {
		t.Fatalf("expected one config reference error, got %v", errs)
	}
}

// TestValidateDuplicates covers duplicate codes across entity kinds
func TestValidateDuplicates(t *testing.T) {
	cat := validCatalog()
	cat.Products = append(cat.Products, cat.Products[0])
	cat.SetupItems = append(cat.SetupItems, cat.SetupItems[0])
	cat.Modules = append(cat.Modules, cat.Modules[0])

	errs := Validate(cat)
	if len(errs) != 3 {
		t.Fatalf("expected 3 duplicate errors, got %v", errs)
	}
}

// TestValidateFieldBounds sweeps the scalar range checks
func TestValidateFieldBounds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Catalog)
	}{
		{"empty version", func(c *Catalog) { c.Version = "" }},
		{"negative unit price", func(c *Catalog) { c.SetupItems[0].UnitPrice = decPtr("-1") }},
		{"missing formula", func(c *Catalog) { c.Products[0].Formula = nil }},
		{"commission out of range", func(c *Catalog) { c.CommissionRate = dec("101") }},
		{"initial pct out of range", func(c *Catalog) { c.Milestones.InitialPaymentPct = dec("-5") }},
		{"services fraction out of range", func(c *Catalog) { c.Milestones.ServicesFraction = dec("2") }},
		{"parameter min above max", func(c *Catalog) {
			c.Modules[0].Parameters = []ParameterDef{{Name: "volume", Type: "number", Min: decPtr("10"), Max: decPtr("5")}}
		}},
	}

	for _, tc := range cases {
		cat := validCatalog()
		tc.mutate(cat)
		if errs := Validate(cat); len(errs) == 0 {
			t.Errorf("%s: expected a validation error", tc.name)
		}
	}
}

// TestValidateNegativeRuleQuantity proves a negative literal quantity is
// rejected at load time
func TestValidateNegativeRuleQuantity(t *testing.T) {
	cat := validCatalog()
	cat.Products[0].SetupRules[0].Quantity = QuantityRef{Literal: decPtr("-2")}

	errs := Validate(cat)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if !errors.IsType(errs[0], errors.TypeValidation) {
		t.Errorf("error type = %v, want validation", errs[0])
	}
}

// TestValidateTierTables rejects mis-ordered, overlapping, and unreachable
// tier tables while accepting a clean ascending one
func TestValidateTierTables(t *testing.T) {
	tiered := func(tiers []formula.Tier) *Catalog {
		cat := validCatalog()
		cat.Products[0].Formula = formula.Tiered("volumes.monthly_items", tiers)
		return cat
	}

	clean := tiered([]formula.Tier{
		{Min: dec("0"), Max: decPtr("10000"), Price: dec("180")},
		{Min: dec("10001"), Max: decPtr("50000"), Price: dec("340")},
		{Min: dec("50001"), Price: dec("520")},
	})
	if errs := Validate(clean); len(errs) != 0 {
		t.Fatalf("ascending table should be clean, got %v", errs)
	}

	cases := []struct {
		name  string
		tiers []formula.Tier
	}{
		{"descending order", []formula.Tier{
			{Min: dec("10001"), Max: decPtr("50000"), Price: dec("340")},
			{Min: dec("0"), Max: decPtr("10000"), Price: dec("180")},
		}},
		{"overlapping bands", []formula.Tier{
			{Min: dec("0"), Max: decPtr("10000"), Price: dec("180")},
			{Min: dec("10000"), Max: decPtr("50000"), Price: dec("340")},
		}},
		{"max below min", []formula.Tier{
			{Min: dec("5000"), Max: decPtr("100"), Price: dec("180")},
		}},
		{"tier behind unbounded tier", []formula.Tier{
			{Min: dec("0"), Price: dec("180")},
			{Min: dec("10001"), Max: decPtr("50000"), Price: dec("340")},
		}},
	}

	for _, tc := range cases {
		if errs := Validate(tiered(tc.tiers)); len(errs) == 0 {
			t.Errorf("%s: expected a validation error", tc.name)
		}
	}
}

// TestValidateTBDItemIsLegal proves a nil unit price passes validation
func TestValidateTBDItemIsLegal(t *testing.T) {
	cat := validCatalog()
	cat.SetupItems[0].UnitPrice = nil

	if errs := Validate(cat); len(errs) != 0 {
		t.Fatalf("TBD item should be legal, got %v", errs)
	}
}

// TestCatalogLookups covers the by-code accessors
func TestCatalogLookups(t *testing.T) {
	cat := validCatalog()

	if _, ok := cat.Product("TELLER-STANDARD"); !ok {
		t.Error("expected product lookup to succeed")
	}
	if _, ok := cat.Product("MISSING"); ok {
		t.Error("expected product lookup to fail")
	}
	if _, ok := cat.SetupItemByCode("CHECK-ICL-SETUP"); !ok {
		t.Error("expected setup item lookup to succeed")
	}
	if _, ok := cat.TravelZone("ZONE-1"); ok {
		t.Error("expected travel zone lookup to fail on empty table")
	}
	if _, ok := cat.Escalation("STANDARD_4PCT"); ok {
		t.Error("expected escalation lookup to fail on empty table")
	}
}
