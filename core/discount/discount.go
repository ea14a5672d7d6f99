// Package discount applies configured discounts to quote cost buckets and
// reports before/after amounts per bucket.
package discount

import (
	"github.com/shopspring/decimal"

	"quote-engine/internal/errors"
)

// Config holds the caller-requested discounts.
// Every facet is optional; nil pointers mean no discount on that facet.
type Config struct {
	// Year1RecurringPct is a percentage off year-1 recurring costs
	Year1RecurringPct *decimal.Decimal `json:"recurring_year1_pct,omitempty"`

	// AllYearsRecurringPct is a percentage off recurring costs every year
	AllYearsRecurringPct *decimal.Decimal `json:"recurring_all_years_pct,omitempty"`

	// SetupFixed is a fixed amount off one-time setup
	SetupFixed *decimal.Decimal `json:"setup_fixed,omitempty"`

	// SetupPct is a percentage off one-time setup
	SetupPct *decimal.Decimal `json:"setup_pct,omitempty"`
}

// Limits caps what discounts a configuration permits.
// Exceeding a limit is a validation error, distinct from the silent capping
// of a fixed discount at the bucket total.
type Limits struct {
	// MaxRecurringPct caps both recurring percentage facets
	MaxRecurringPct *decimal.Decimal `json:"max_recurring_pct,omitempty"`

	// MaxSetupPct caps the setup percentage facet
	MaxSetupPct *decimal.Decimal `json:"max_setup_pct,omitempty"`

	// MaxSetupFixed caps the setup fixed facet
	MaxSetupFixed *decimal.Decimal `json:"max_setup_fixed,omitempty"`
}

// Totals are the pre-discount cost buckets
type Totals struct {
	// MonthlyRecurring is the recurring monthly baseline
	MonthlyRecurring decimal.Decimal `json:"monthly_recurring"`

	// SetupOneTime is the one-time setup total
	SetupOneTime decimal.Decimal `json:"setup_one_time"`
}

// Bucket reports one cost bucket before and after discounting
type Bucket struct {
	// Before is the pre-discount amount
	Before decimal.Decimal `json:"before"`

	// Discount is the amount taken off
	Discount decimal.Decimal `json:"discount"`

	// After is the post-discount amount, never negative
	After decimal.Decimal `json:"after"`
}

// Result reports the discount impact across all buckets
type Result struct {
	// MonthlyRecurring is the ongoing monthly bucket
	// (all-years percentage applied)
	MonthlyRecurring Bucket `json:"monthly_recurring"`

	// Year1Recurring is the first-year annual recurring bucket
	// (all-years percentage compounded with the year-1 percentage)
	Year1Recurring Bucket `json:"year1_recurring"`

	// Setup is the one-time bucket (fixed applied first, then percentage)
	Setup Bucket `json:"setup"`

	// TotalYear1Discount is the combined first-year discount
	TotalYear1Discount decimal.Decimal `json:"total_year1_discount"`
}

var hundred = decimal.NewFromInt(100)

// Apply computes the discounted totals.
// Percentages are validated to [0,100] and against configured limits. A fixed
// discount larger than its bucket caps silently at the bucket: quotes near
// contract edges legitimately discount to zero, never below.
func Apply(totals Totals, cfg Config, limits *Limits) (*Result, error) {
	year1Pct, err := validatedPct("recurring_year1_pct", cfg.Year1RecurringPct)
	if err != nil {
		return nil, err
	}
	allYearsPct, err := validatedPct("recurring_all_years_pct", cfg.AllYearsRecurringPct)
	if err != nil {
		return nil, err
	}
	setupPct, err := validatedPct("setup_pct", cfg.SetupPct)
	if err != nil {
		return nil, err
	}
	setupFixed := decimal.Zero
	if cfg.SetupFixed != nil {
		setupFixed = *cfg.SetupFixed
		if setupFixed.IsNegative() {
			return nil, errors.Validationf("setup_fixed must be >= 0, got %s", setupFixed)
		}
	}

	if err := checkLimits(limits, year1Pct, allYearsPct, setupPct, setupFixed); err != nil {
		return nil, err
	}

	// Ongoing monthly: all-years percentage only
	monthlyAfter := applyPct(totals.MonthlyRecurring, allYearsPct)

	// Year 1 annual: all-years percentage first, then year-1 percentage on top
	year1Before := totals.MonthlyRecurring.Mul(decimal.NewFromInt(12))
	year1After := applyPct(applyPct(year1Before, allYearsPct), year1Pct)

	// Setup: fixed first (capped at the bucket), then percentage
	setupAfterFixed := totals.SetupOneTime.Sub(setupFixed)
	if setupAfterFixed.IsNegative() {
		setupAfterFixed = decimal.Zero
	}
	setupAfter := applyPct(setupAfterFixed, setupPct)

	result := &Result{
		MonthlyRecurring: bucket(totals.MonthlyRecurring, monthlyAfter),
		Year1Recurring:   bucket(year1Before, year1After),
		Setup:            bucket(totals.SetupOneTime, setupAfter),
	}
	result.TotalYear1Discount = result.Year1Recurring.Discount.Add(result.Setup.Discount)
	return result, nil
}

func bucket(before, after decimal.Decimal) Bucket {
	if after.IsNegative() {
		after = decimal.Zero
	}
	return Bucket{
		Before:   before,
		Discount: before.Sub(after),
		After:    after,
	}
}

func applyPct(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(1).Sub(pct.Div(hundred)))
}

func validatedPct(name string, pct *decimal.Decimal) (decimal.Decimal, error) {
	if pct == nil {
		return decimal.Zero, nil
	}
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return decimal.Zero, errors.Validationf("%s must be within [0, 100], got %s", name, pct)
	}
	return *pct, nil
}

func checkLimits(limits *Limits, year1Pct, allYearsPct, setupPct, setupFixed decimal.Decimal) error {
	if limits == nil {
		return nil
	}
	if limits.MaxRecurringPct != nil {
		if year1Pct.GreaterThan(*limits.MaxRecurringPct) {
			return errors.Validationf("recurring_year1_pct %s exceeds configured limit %s", year1Pct, limits.MaxRecurringPct)
		}
		if allYearsPct.GreaterThan(*limits.MaxRecurringPct) {
			return errors.Validationf("recurring_all_years_pct %s exceeds configured limit %s", allYearsPct, limits.MaxRecurringPct)
		}
	}
	if limits.MaxSetupPct != nil && setupPct.GreaterThan(*limits.MaxSetupPct) {
		return errors.Validationf("setup_pct %s exceeds configured limit %s", setupPct, limits.MaxSetupPct)
	}
	if limits.MaxSetupFixed != nil && setupFixed.GreaterThan(*limits.MaxSetupFixed) {
		return errors.Validationf("setup_fixed %s exceeds configured limit %s", setupFixed, limits.MaxSetupFixed)
	}
	return nil
}
