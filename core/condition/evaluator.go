package condition

import (
	"github.com/shopspring/decimal"

	"quote-engine/core/params"
)

// Evaluate evaluates a condition against a parameter context.
// It is a total function: every well-formed condition yields a boolean.
// Comparisons against absent paths fail closed (false) so an unconfigured
// parameter never spuriously enables pricing; Exists is the one kind that
// distinguishes presence from truthiness.
func Evaluate(c *Condition, ctx *params.Context) bool {
	if c == nil {
		return false
	}

	switch c.Kind {
	case KindAlways:
		return true

	case KindNever:
		return false

	case KindEquals:
		actual, ok := ctx.Resolve(c.Parameter)
		if !ok {
			return false
		}
		return actual.Equals(params.FromGo(c.Value))

	case KindNotEquals:
		actual, ok := ctx.Resolve(c.Parameter)
		if !ok {
			return false
		}
		return !actual.Equals(params.FromGo(c.Value))

	case KindIn:
		actual, ok := ctx.Resolve(c.Parameter)
		if !ok {
			return false
		}
		for _, candidate := range c.Values {
			if actual.Equals(params.FromGo(candidate)) {
				return true
			}
		}
		return false

	case KindGreaterThan:
		actual, threshold, ok := resolveNumericPair(ctx, c.Parameter, c.Value)
		if !ok {
			return false
		}
		return actual.GreaterThan(threshold)

	case KindLessThan:
		actual, threshold, ok := resolveNumericPair(ctx, c.Parameter, c.Value)
		if !ok {
			return false
		}
		return actual.LessThan(threshold)

	case KindBetween:
		actual, min, ok := resolveNumericPair(ctx, c.Parameter, c.Min)
		if !ok {
			return false
		}
		max, maxOK := params.FromGo(c.Max).AsNumber()
		if !maxOK {
			return false
		}
		return actual.GreaterThanOrEqual(min) && actual.LessThanOrEqual(max)

	case KindExists:
		_, ok := ctx.Resolve(c.Parameter)
		return ok

	case KindAnd:
		for _, sub := range c.Conditions {
			if !Evaluate(sub, ctx) {
				return false
			}
		}
		return true

	case KindOr:
		// An empty compound of either operator carries no constraints and
		// matches vacuously
		if len(c.Conditions) == 0 {
			return true
		}
		for _, sub := range c.Conditions {
			if Evaluate(sub, ctx) {
				return true
			}
		}
		return false

	default:
		// Unknown kinds fail closed
		return false
	}
}

func resolveNumericPair(ctx *params.Context, path string, operand interface{}) (actual, other decimal.Decimal, ok bool) {
	v, found := ctx.Resolve(path)
	if !found {
		return actual, other, false
	}
	actual, aok := v.AsNumber()
	if !aok {
		return actual, other, false
	}
	other, bok := params.FromGo(operand).AsNumber()
	if !bok {
		return actual, other, false
	}
	return actual, other, true
}
