// Package projection computes multi-year recurring cost projections under an
// escalation policy, with optional level loading.
package projection

import (
	"github.com/shopspring/decimal"

	"quote-engine/internal/errors"
)

// PolicyKind identifies how recurring costs escalate year over year
type PolicyKind string

const (
	// KindCompound escalates every year after the first
	KindCompound PolicyKind = "compound"

	// KindFreeze holds the amount flat for the first FreezeYears, then compounds
	KindFreeze PolicyKind = "freeze"

	// KindNone never escalates
	KindNone PolicyKind = "none"
)

// Policy is a named escalation policy
type Policy struct {
	// Code identifies the policy (e.g. "STANDARD_4PCT")
	Code string `json:"code"`

	// Kind selects the escalation behavior
	Kind PolicyKind `json:"kind"`

	// Rate is the annual escalation rate (0.04 = 4%)
	Rate decimal.Decimal `json:"rate"`

	// FreezeYears is how many initial years stay flat (freeze kind only)
	FreezeYears int `json:"freeze_years,omitempty"`
}

// YearAmount is one projected year
type YearAmount struct {
	// Year is 1-based
	Year int `json:"year"`

	// Monthly is the recurring monthly amount for this year
	Monthly decimal.Decimal `json:"monthly"`

	// Annual is Monthly x 12
	Annual decimal.Decimal `json:"annual"`
}

// Result is a multi-year projection.
// Amounts carry full precision; use Rounded views for display. Rounding only
// at presentation keeps level loading revenue-neutral by construction.
type Result struct {
	// Years holds the per-year amounts
	Years []YearAmount `json:"years"`

	// Total is the sum of all annual amounts
	Total decimal.Decimal `json:"total"`

	// LevelLoaded is the constant annual amount with the same total,
	// nil when level loading was not requested
	LevelLoaded *decimal.Decimal `json:"level_loaded,omitempty"`

	// PolicyCode is the escalation policy applied
	PolicyCode string `json:"policy_code"`
}

// Project computes year-by-year annual costs from a monthly baseline.
// Year 1 annual = monthly x 12; later years follow the policy, compounding
// annually. years must be >= 1.
func Project(monthly decimal.Decimal, policy Policy, years int, levelLoad bool) (*Result, error) {
	if years <= 0 {
		return nil, errors.Validationf("projection years must be >= 1, got %d", years)
	}
	if monthly.IsNegative() {
		return nil, errors.Validationf("monthly baseline must not be negative, got %s", monthly)
	}
	if policy.Rate.IsNegative() {
		return nil, errors.Validationf("escalation rate must not be negative, got %s", policy.Rate)
	}

	result := &Result{
		Years:      make([]YearAmount, 0, years),
		Total:      decimal.Zero,
		PolicyCode: policy.Code,
	}

	twelve := decimal.NewFromInt(12)
	growth := decimal.NewFromInt(1).Add(policy.Rate)
	current := monthly

	for year := 1; year <= years; year++ {
		if year > 1 && escalates(policy, year) {
			current = current.Mul(growth)
		}
		annual := current.Mul(twelve)
		result.Years = append(result.Years, YearAmount{
			Year:    year,
			Monthly: current,
			Annual:  annual,
		})
		result.Total = result.Total.Add(annual)
	}

	if levelLoad {
		level := result.Total.Div(decimal.NewFromInt(int64(years)))
		result.LevelLoaded = &level
	}

	return result, nil
}

// escalates reports whether the amount grows entering the given year
func escalates(policy Policy, year int) bool {
	switch policy.Kind {
	case KindCompound:
		return true
	case KindFreeze:
		return year > policy.FreezeYears
	case KindNone:
		return false
	default:
		return false
	}
}

// RoundedAnnuals returns the per-year annual amounts rounded to cents
func (r *Result) RoundedAnnuals() []decimal.Decimal {
	out := make([]decimal.Decimal, len(r.Years))
	for i, y := range r.Years {
		out[i] = y.Annual.Round(2)
	}
	return out
}

// RoundedLevelLoaded returns the level-loaded amount rounded to cents
func (r *Result) RoundedLevelLoaded() decimal.Decimal {
	if r.LevelLoaded == nil {
		return decimal.Zero
	}
	return r.LevelLoaded.Round(2)
}
