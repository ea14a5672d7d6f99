// Package commission computes referral commissions.
package commission

import (
	"github.com/shopspring/decimal"

	"quote-engine/internal/errors"
)

// Result is a computed referral commission
type Result struct {
	// Base is the amount the commission was computed from
	Base decimal.Decimal `json:"base"`

	// RatePct is the applied rate in percent
	RatePct decimal.Decimal `json:"rate_pct"`

	// Amount is base x rate / 100
	Amount decimal.Decimal `json:"amount"`
}

// Calculate computes a referral commission from a designated total.
// A zero rate yields a zero commission; negative rates are invalid.
func Calculate(base, ratePct decimal.Decimal) (*Result, error) {
	if ratePct.IsNegative() {
		return nil, errors.Validationf("commission rate must be >= 0, got %s", ratePct)
	}
	if base.IsNegative() {
		return nil, errors.Validationf("commission base must be >= 0, got %s", base)
	}

	return &Result{
		Base:    base,
		RatePct: ratePct,
		Amount:  base.Mul(ratePct).Div(decimal.NewFromInt(100)),
	}, nil
}
