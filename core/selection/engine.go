// Package selection decides which recurring products and one-time setup items
// a parameter set selects, and prices each inclusion.
package selection

import (
	"strings"

	"github.com/shopspring/decimal"

	"quote-engine/core/catalog"
	"quote-engine/core/condition"
	"quote-engine/core/formula"
	"quote-engine/core/params"
	"quote-engine/internal/errors"
)

// PricedProduct is a selected recurring offering
type PricedProduct struct {
	// Code is the product code
	Code string `json:"code"`

	// Name is the display name
	Name string `json:"name"`

	// Category groups products for display
	Category string `json:"category,omitempty"`

	// MonthlyCost is the priced monthly amount
	MonthlyCost decimal.Decimal `json:"monthly_cost"`

	// BasisVolume is the volume that drove a tiered price, nil otherwise
	BasisVolume *decimal.Decimal `json:"basis_volume,omitempty"`

	// BasisUnit names the volume parameter for display
	BasisUnit string `json:"basis_unit,omitempty"`

	// Reason explains the inclusion
	Reason string `json:"reason,omitempty"`
}

// PricedSetupItem is a selected one-time item.
// TotalPrice is nil when the unit price is to-be-determined.
type PricedSetupItem struct {
	// Code is the setup item code
	Code string `json:"code"`

	// Name is the display name
	Name string `json:"name"`

	// Quantity is the included quantity
	Quantity decimal.Decimal `json:"quantity"`

	// UnitPrice is the per-unit price, nil for TBD
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`

	// TotalPrice is unit price x quantity, nil for TBD
	TotalPrice *decimal.Decimal `json:"total_price,omitempty"`

	// EstimatedEffortHours is the optional implementation effort
	EstimatedEffortHours *decimal.Decimal `json:"estimated_effort_hours,omitempty"`

	// Reasons lists every rule reason that triggered this item
	Reasons []string `json:"reasons"`

	// CompletionMonth is the deliverable completion month from the first
	// matching rule
	CompletionMonth int `json:"completion_month,omitempty"`

	// MilestonePct is the deliverable milestone share from the first
	// matching rule
	MilestonePct decimal.Decimal `json:"milestone_pct,omitempty"`
}

// Reason joins the triggering reasons for display
func (p *PricedSetupItem) Reason() string {
	return strings.Join(p.Reasons, "; ")
}

// Result is the selection outcome
type Result struct {
	// Products are the selected recurring offerings
	Products []PricedProduct `json:"products"`

	// SetupItems are the selected one-time items, deduplicated by code
	SetupItems []PricedSetupItem `json:"setup_items"`

	// MonthlyRecurring is the recurring monthly total
	MonthlyRecurring decimal.Decimal `json:"monthly_recurring"`

	// SetupOneTime is the one-time total over priced items (TBD items are
	// excluded, never counted as zero-cost certainties)
	SetupOneTime decimal.Decimal `json:"setup_one_time"`
}

// Select walks the catalog against a parameter context: products gated by
// their selection condition, then module setup rules for enabled modules.
// Rules targeting unknown codes are configuration errors and are aggregated
// rather than silently skipped; selection still completes for valid rules.
func Select(cat *catalog.Catalog, ctx *params.Context) (*Result, []error) {
	var errs []error
	result := &Result{
		Products:         []PricedProduct{},
		SetupItems:       []PricedSetupItem{},
		MonthlyRecurring: decimal.Zero,
		SetupOneTime:     decimal.Zero,
	}

	// index of setup item code -> position in result.SetupItems, for dedup
	seen := make(map[string]int)

	for i := range cat.Products {
		p := &cat.Products[i]
		if !condition.Evaluate(p.Selection, ctx) {
			continue
		}

		priced, err := priceProduct(p, ctx)
		if err != nil {
			errs = append(errs, errors.Wrapf(errors.TypeValidation, err, "pricing product %s", p.Code))
			continue
		}
		result.Products = append(result.Products, priced)
		result.MonthlyRecurring = result.MonthlyRecurring.Add(priced.MonthlyCost)

		errs = append(errs, applyRules(cat, "product "+p.Code, p.SetupRules, ctx, result, seen)...)
	}

	for i := range cat.Modules {
		m := &cat.Modules[i]
		enabled, ok := ctx.Resolve("modules." + m.Code + ".enabled")
		if !ok {
			continue
		}
		if b, isBool := enabled.AsBool(); !isBool || !b {
			continue
		}

		if err := validateModuleParams(m, ctx); err != nil {
			errs = append(errs, err)
			continue
		}

		errs = append(errs, applyRules(cat, "module "+m.Code, m.SetupRules, ctx, result, seen)...)
	}

	return result, errs
}

func priceProduct(p *catalog.Product, ctx *params.Context) (PricedProduct, error) {
	monthly, err := formula.Price(p.Formula, ctx)
	if err != nil {
		return PricedProduct{}, err
	}

	priced := PricedProduct{
		Code:        p.Code,
		Name:        p.Name,
		Category:    p.Category,
		MonthlyCost: monthly,
		Reason:      p.Name + " selected",
	}

	// Tag tiered products with the volume that drove their price
	if p.Formula != nil && p.Formula.Kind == formula.KindTiered {
		if v, ok := ctx.Resolve(p.Formula.VolumePath); ok {
			if n, numeric := v.AsNumber(); numeric {
				priced.BasisVolume = &n
				segments := strings.Split(p.Formula.VolumePath, ".")
				priced.BasisUnit = strings.ReplaceAll(segments[len(segments)-1], "_", " ")
			}
		}
	}

	return priced, nil
}

// applyRules evaluates setup rules and appends matches, deduplicating by
// target code: the first matching rule in definition order fixes quantity and
// deliverable metadata, later matches only contribute their reasons.
func applyRules(cat *catalog.Catalog, source string, rules []catalog.SelectionRule, ctx *params.Context, result *Result, seen map[string]int) []error {
	var errs []error

	for _, rule := range rules {
		if !condition.Evaluate(rule.Condition, ctx) {
			continue
		}

		item, found := cat.SetupItemByCode(rule.TargetCode)
		if !found {
			errs = append(errs, errors.ConfigReference(source, rule.TargetCode))
			continue
		}

		reason := rule.Reason
		if reason == "" {
			reason = "Required by " + source
		}

		if idx, dup := seen[rule.TargetCode]; dup {
			existing := &result.SetupItems[idx]
			if !containsString(existing.Reasons, reason) {
				existing.Reasons = append(existing.Reasons, reason)
			}
			continue
		}

		quantity, qtyErr := resolveQuantity(rule, ctx)
		if qtyErr != nil {
			errs = append(errs, qtyErr)
			continue
		}
		priced := PricedSetupItem{
			Code:                 item.Code,
			Name:                 item.Name,
			Quantity:             quantity,
			UnitPrice:            item.UnitPrice,
			EstimatedEffortHours: item.EstimatedEffortHours,
			Reasons:              []string{reason},
			CompletionMonth:      rule.CompletionMonth,
			MilestonePct:         rule.MilestonePct,
		}
		if item.UnitPrice != nil {
			total := item.UnitPrice.Mul(quantity)
			priced.TotalPrice = &total
			result.SetupOneTime = result.SetupOneTime.Add(total)
		}

		seen[rule.TargetCode] = len(result.SetupItems)
		result.SetupItems = append(result.SetupItems, priced)
	}

	return errs
}

// resolveQuantity resolves a rule quantity. Absent quantities and paths that
// resolve to zero or nothing default to 1; a present negative quantity is a
// validation error, not repaired.
func resolveQuantity(rule catalog.SelectionRule, ctx *params.Context) (decimal.Decimal, error) {
	one := decimal.NewFromInt(1)
	q := rule.Quantity
	if q.Literal != nil {
		if q.Literal.IsNegative() {
			return decimal.Decimal{}, errors.Validationf("rule targeting %s has negative quantity %s", rule.TargetCode, q.Literal)
		}
		if q.Literal.IsPositive() {
			return *q.Literal, nil
		}
		return one, nil
	}
	if q.Path != "" {
		if v, ok := ctx.Resolve(q.Path); ok {
			if n, numeric := v.AsNumber(); numeric {
				if n.IsNegative() {
					return decimal.Decimal{}, errors.Validationf("quantity at %s for %s is negative: %s", q.Path, rule.TargetCode, n)
				}
				if n.IsPositive() {
					return n, nil
				}
			}
		}
	}
	return one, nil
}

// validateModuleParams checks an enabled module's inputs against its
// parameter definitions
func validateModuleParams(m *catalog.Module, ctx *params.Context) error {
	for _, def := range m.Parameters {
		path := "modules." + m.Code + "." + def.Name
		v, present := ctx.Resolve(path)
		if !present {
			if def.Required {
				return errors.Validationf("module %s requires parameter %s", m.Code, def.Name)
			}
			continue
		}
		if def.Type == "number" {
			n, numeric := v.AsNumber()
			if !numeric {
				return errors.Validationf("module %s parameter %s must be numeric", m.Code, def.Name)
			}
			if def.Min != nil && n.LessThan(*def.Min) {
				return errors.Validationf("module %s parameter %s below minimum %s", m.Code, def.Name, def.Min)
			}
			if def.Max != nil && n.GreaterThan(*def.Max) {
				return errors.Validationf("module %s parameter %s above maximum %s", m.Code, def.Name, def.Max)
			}
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
