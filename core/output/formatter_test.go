// Package output - rendering tests
package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"quote-engine/core/engine"
	"quote-engine/core/milestone"
	"quote-engine/core/selection"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleResult() *engine.Result {
	price := dec("50000")
	return &engine.Result{
		CatalogVersion: "2026.1",
		Summary:        "Teller Capture, 1 module: $3400.00/mo, $50000.00 setup",
		Products: []selection.PricedProduct{
			{Code: "TELLER-STANDARD", Name: "Teller Capture", MonthlyCost: dec("2950")},
		},
		SetupItems: []selection.PricedSetupItem{
			{
				Code:       "CORE-SETUP",
				Name:       "Core installation",
				Quantity:   dec("1"),
				TotalPrice: &price,
				Reasons:    []string{"Platform installation"},
			},
			{
				Code:     "CUSTOM-BRIDGE",
				Name:     "Custom core bridge",
				Quantity: dec("1"),
				Reasons:  []string{"Custom core"},
			},
		},
		Totals: engine.Totals{
			MonthlyRecurring: dec("3400"),
			SetupOneTime:     dec("50000"),
		},
		Milestones: []milestone.Milestone{
			{Label: "Contract execution", Month: 0, Amount: dec("7500")},
		},
	}
}

// TestRenderCLI spot-checks the text layout, including TBD handling
func TestRenderCLI(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleResult(), FormatCLI, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"catalog 2026.1",
		"TELLER-STANDARD",
		"$2950.00",
		"CORE-SETUP",
		"TBD",
		"Monthly recurring: $3400.00",
		"Contract execution",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// TestRenderJSON produces valid JSON with the right top-level fields
func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleResult(), FormatJSON, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["catalog_version"] != "2026.1" {
		t.Errorf("catalog_version = %v", decoded["catalog_version"])
	}
	if _, ok := decoded["totals"]; !ok {
		t.Error("totals missing from JSON output")
	}
}

// TestRenderUnknownFormat is rejected
func TestRenderUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleResult(), Format("yaml"), true); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

// TestRenderEmptyFormatDefaultsToCLI pins the fallback
func TestRenderEmptyFormatDefaultsToCLI(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleResult(), "", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Monthly recurring") {
		t.Error("default format should render the text layout")
	}
}
