package formula

import (
	"github.com/shopspring/decimal"

	"quote-engine/core/params"
	"quote-engine/internal/errors"
)

// Price computes the monetary amount for a formula against a context.
// The result is never negative; intermediate math keeps full precision and
// rounding happens only at presentation.
func Price(f *Formula, ctx *params.Context) (decimal.Decimal, error) {
	if f == nil {
		return decimal.Zero, errors.Validation("pricing formula is nil")
	}

	switch f.Kind {
	case KindFixed:
		return clampNonNegative(f.Amount), nil

	case KindQuantityBased:
		quantity := resolveNumber(ctx, f.QuantityPath)
		return clampNonNegative(f.PerUnit.Mul(quantity)), nil

	case KindTiered:
		volume := resolveNumber(ctx, f.VolumePath)
		return tieredPrice(f.Tiers, volume)

	case KindCalculated:
		vars := make(map[string]decimal.Decimal, len(f.Variables))
		for name, path := range f.Variables {
			vars[name] = resolveNumber(ctx, path)
		}
		result, err := evaluateExpression(f.Expression, vars)
		if err != nil {
			return decimal.Zero, err
		}
		return clampNonNegative(result), nil

	default:
		return decimal.Zero, errors.Validationf("unknown formula type: %s", f.Kind)
	}
}

// tieredPrice walks tiers in definition order and returns the first match.
// Tier tables are expected to start at zero and not overlap; if ranges do
// overlap the first match in ascending-min order wins.
func tieredPrice(tiers []Tier, volume decimal.Decimal) (decimal.Decimal, error) {
	if len(tiers) == 0 {
		return decimal.Zero, errors.Validation("tiered formula has no tiers")
	}
	for _, tier := range tiers {
		if tier.Contains(volume) {
			return clampNonNegative(tier.Price), nil
		}
	}
	return decimal.Zero, errors.Validationf("no tier matches volume %s", volume)
}

// resolveNumber resolves a context path to a number, zero when absent or
// non-numeric. The absent-parameter rule applies to quantities, volumes, and
// calculated-formula variables alike.
func resolveNumber(ctx *params.Context, path string) decimal.Decimal {
	v, ok := ctx.Resolve(path)
	if !ok {
		return decimal.Zero
	}
	n, ok := v.AsNumber()
	if !ok {
		return decimal.Zero
	}
	return n
}

func clampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// RoundAmount rounds a monetary amount to the smallest currency unit.
// decimal.Round is round-half-away-from-zero, which for the non-negative
// amounts produced here is round half up.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
