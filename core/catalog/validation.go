package catalog

import (
	"github.com/shopspring/decimal"

	"quote-engine/core/formula"
	"quote-engine/internal/errors"
)

// Validate checks the catalog for dangling references and malformed entries.
// The engine assumes a validated catalog; callers run this once per loaded
// version, before any calculation.
func Validate(c *Catalog) []error {
	var errs []error

	if c.Version == "" {
		errs = append(errs, errors.Validation("catalog version must not be empty"))
	}

	seenItems := make(map[string]bool, len(c.SetupItems))
	for _, item := range c.SetupItems {
		if item.Code == "" {
			errs = append(errs, errors.Validation("setup item with empty code"))
			continue
		}
		if seenItems[item.Code] {
			errs = append(errs, errors.Validationf("duplicate setup item code: %s", item.Code))
		}
		seenItems[item.Code] = true
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			errs = append(errs, errors.Validationf("setup item %s has negative unit price", item.Code))
		}
	}

	seenProducts := make(map[string]bool, len(c.Products))
	for _, p := range c.Products {
		if p.Code == "" {
			errs = append(errs, errors.Validation("product with empty code"))
			continue
		}
		if seenProducts[p.Code] {
			errs = append(errs, errors.Validationf("duplicate product code: %s", p.Code))
		}
		seenProducts[p.Code] = true
		if p.Formula == nil {
			errs = append(errs, errors.Validationf("product %s has no pricing formula", p.Code))
		} else if p.Formula.Kind == formula.KindTiered {
			errs = append(errs, validateTiers("product "+p.Code, p.Formula.Tiers)...)
		}
		errs = append(errs, validateRules("product "+p.Code, p.SetupRules, seenItems)...)
	}

	seenModules := make(map[string]bool, len(c.Modules))
	for _, m := range c.Modules {
		if m.Code == "" {
			errs = append(errs, errors.Validation("module with empty code"))
			continue
		}
		if seenModules[m.Code] {
			errs = append(errs, errors.Validationf("duplicate module code: %s", m.Code))
		}
		seenModules[m.Code] = true
		if m.ProductCode != "" && !seenProducts[m.ProductCode] {
			errs = append(errs, errors.ConfigReference("module "+m.Code, m.ProductCode))
		}
		for _, pd := range m.Parameters {
			if pd.Min != nil && pd.Max != nil && pd.Min.GreaterThan(*pd.Max) {
				errs = append(errs, errors.Validationf("module %s parameter %s has min > max", m.Code, pd.Name))
			}
		}
		errs = append(errs, validateRules("module "+m.Code, m.SetupRules, seenItems)...)
	}

	hundred := decimal.NewFromInt(100)
	if c.CommissionRate.IsNegative() || c.CommissionRate.GreaterThan(hundred) {
		errs = append(errs, errors.Validationf("commission rate must be within [0, 100], got %s", c.CommissionRate))
	}
	if c.Milestones.InitialPaymentPct.IsNegative() || c.Milestones.InitialPaymentPct.GreaterThan(hundred) {
		errs = append(errs, errors.Validationf("initial payment percentage must be within [0, 100], got %s", c.Milestones.InitialPaymentPct))
	}
	if c.Milestones.ServicesFraction.IsNegative() || c.Milestones.ServicesFraction.GreaterThan(decimal.NewFromInt(1)) {
		errs = append(errs, errors.Validationf("services fraction must be within [0, 1], got %s", c.Milestones.ServicesFraction))
	}

	return errs
}

func validateRules(source string, rules []SelectionRule, items map[string]bool) []error {
	var errs []error
	for _, r := range rules {
		if r.TargetCode == "" {
			errs = append(errs, errors.Validationf("%s has a setup rule with no target code", source))
			continue
		}
		if !items[r.TargetCode] {
			errs = append(errs, errors.ConfigReference(source, r.TargetCode))
		}
		if r.Condition == nil {
			errs = append(errs, errors.Validationf("%s rule targeting %s has no condition", source, r.TargetCode))
		}
		if r.Quantity.Literal != nil && r.Quantity.Literal.IsNegative() {
			errs = append(errs, errors.Validationf("%s rule targeting %s has negative quantity %s", source, r.TargetCode, r.Quantity.Literal))
		}
	}
	return errs
}

// validateTiers enforces ascending, non-overlapping tier tables so that the
// first matching tier is unambiguous regardless of walk order
func validateTiers(source string, tiers []formula.Tier) []error {
	var errs []error
	for i, t := range tiers {
		if t.Max != nil && t.Max.LessThan(t.Min) {
			errs = append(errs, errors.Validationf("%s tier %d has max %s below min %s", source, i, t.Max, t.Min))
		}
		if i == 0 {
			continue
		}
		prev := tiers[i-1]
		if prev.Max == nil {
			errs = append(errs, errors.Validationf("%s tier %d is unreachable behind an unbounded tier", source, i))
			continue
		}
		if !t.Min.GreaterThan(*prev.Max) {
			errs = append(errs, errors.Validationf("%s tiers %d and %d overlap", source, i-1, i))
		}
	}
	return errs
}
