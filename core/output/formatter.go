// Package output renders quote calculation results.
// This package produces human and machine-readable outputs.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"quote-engine/core/engine"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI layout
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Render writes a quote result in the requested format
func Render(w io.Writer, result *engine.Result, format Format, showDetails bool) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, result)
	case FormatCLI, "":
		return renderCLI(w, result, showDetails)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func renderJSON(w io.Writer, result *engine.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func renderCLI(w io.Writer, result *engine.Result, showDetails bool) error {
	fmt.Fprintf(w, "Quote (catalog %s)\n", result.CatalogVersion)
	fmt.Fprintf(w, "%s\n\n", result.Summary)

	if showDetails && len(result.Products) > 0 {
		fmt.Fprintln(w, "Recurring products:")
		for _, p := range result.Products {
			line := fmt.Sprintf("  %-28s %12s/mo", p.Code, money(p.MonthlyCost))
			if p.BasisVolume != nil {
				line += fmt.Sprintf("  (%s %s)", p.BasisVolume.String(), p.BasisUnit)
			}
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w)
	}

	if showDetails && len(result.SetupItems) > 0 {
		fmt.Fprintln(w, "One-time setup:")
		for _, item := range result.SetupItems {
			price := "TBD"
			if item.TotalPrice != nil {
				price = money(*item.TotalPrice)
			}
			fmt.Fprintf(w, "  %-28s x%-4s %12s  %s\n", item.Code, item.Quantity.String(), price, item.Reason())
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Monthly recurring: %s\n", money(result.Totals.MonthlyRecurring))
	fmt.Fprintf(w, "One-time setup:    %s\n", money(result.Totals.SetupOneTime))

	if result.Discounts != nil {
		d := result.Discounts
		if d.TotalYear1Discount.IsPositive() {
			fmt.Fprintf(w, "Year 1 discount:   %s (setup %s -> %s)\n",
				money(d.TotalYear1Discount), money(d.Setup.Before), money(d.Setup.After))
		}
	}

	if result.Projection != nil {
		fmt.Fprintln(w, "\nMulti-year projection:")
		for _, y := range result.Projection.Years {
			fmt.Fprintf(w, "  Year %d: %s\n", y.Year, money(y.Annual))
		}
		if result.Projection.LevelLoaded != nil {
			fmt.Fprintf(w, "  Level loaded: %s/yr\n", money(result.Projection.RoundedLevelLoaded()))
		}
	}

	if result.Travel != nil && len(result.Travel.Trips) > 0 {
		fmt.Fprintf(w, "\nTravel (%s): %s across %d trip(s)\n",
			result.Travel.ZoneName, money(result.Travel.Total), len(result.Travel.Trips))
	}

	if len(result.Milestones) > 0 {
		fmt.Fprintln(w, "\nPayment schedule:")
		for _, m := range result.Milestones {
			fmt.Fprintf(w, "  Month %2d  %12s  %s\n", m.Month, money(m.Amount), m.Label)
		}
	}

	if result.Commission != nil && result.Commission.Amount.IsPositive() {
		fmt.Fprintf(w, "\nReferral commission: %s (%s%% of %s)\n",
			money(result.Commission.Amount), result.Commission.RatePct.String(), money(result.Commission.Base))
	}

	if result.Failed() {
		fmt.Fprintf(w, "\n%d facet error(s):\n", len(result.Errors))
		for _, fe := range result.Errors {
			fmt.Fprintf(w, "  %s: %v\n", fe.Facet, fe.Err)
		}
	}

	return nil
}

// money formats an amount rounded to cents for display; all rounding in the
// engine happens here, at presentation
func money(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return fmt.Sprintf("$%.2f", f)
}
