package configfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"quote-engine/core/catalog"
	"quote-engine/core/condition"
	"quote-engine/core/discount"
	"quote-engine/core/engine"
	"quote-engine/core/formula"
	"quote-engine/core/projection"
	"quote-engine/core/travel"
	"quote-engine/internal/errors"
	"quote-engine/internal/logging"
)

// Loader parses versioned catalog files written in HCL
type Loader struct {
	parser *hclparse.Parser
	cache  *engine.CatalogCache
}

// NewLoader creates a catalog loader
func NewLoader() *Loader {
	return &Loader{
		parser: hclparse.NewParser(),
	}
}

// WithCache attaches a catalog cache, keyed by source path. Subsequent loads
// of an already-cached path skip parsing until the entry expires.
func (l *Loader) WithCache(cache *engine.CatalogCache) *Loader {
	l.cache = cache
	return l
}

var catalogSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "version", Required: true},
		{Name: "commission_rate"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "product", LabelNames: []string{"code"}},
		{Type: "setup_item", LabelNames: []string{"code"}},
		{Type: "module", LabelNames: []string{"code"}},
		{Type: "travel_zone", LabelNames: []string{"code"}},
		{Type: "escalation", LabelNames: []string{"code"}},
		{Type: "discount_limits"},
		{Type: "milestones"},
	},
}

// LoadCatalog reads and validates a catalog file.
// The returned catalog passed structural validation; a catalog with dangling
// references or duplicate codes is rejected here, never at quote time.
func (l *Loader) LoadCatalog(path string) (*catalog.Catalog, error) {
	if l.cache != nil {
		if cached, ok := l.cache.Get(path); ok {
			logging.Sugar.Debugw("catalog cache hit", "path", path, "version", cached.Version)
			return cached, nil
		}
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Parsing(fmt.Sprintf("failed to read catalog file %s", path), err)
	}

	file, diags := l.parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, errors.Parsing(diagsMessage(diags), diags)
	}

	content, _, diags := file.Body.PartialContent(catalogSchema)
	if diags.HasErrors() {
		return nil, errors.Parsing(diagsMessage(diags), diags)
	}

	cat := &catalog.Catalog{}

	if attr, ok := content.Attributes["version"]; ok {
		val, _ := attr.Expr.Value(nil)
		if s, ok := ctyString(val); ok {
			cat.Version = s
		}
	}
	if cat.Version == "" {
		return nil, errors.Parsing(fmt.Sprintf("catalog %s has no version", path), nil)
	}

	if attr, ok := content.Attributes["commission_rate"]; ok {
		val, _ := attr.Expr.Value(nil)
		if d, ok := ctyDecimal(val); ok {
			cat.CommissionRate = d
		}
	}

	var parseErrs []error
	for _, block := range content.Blocks {
		switch block.Type {
		case "product":
			p, err := l.parseProduct(block)
			if err != nil {
				parseErrs = append(parseErrs, err)
				continue
			}
			cat.Products = append(cat.Products, *p)
		case "setup_item":
			cat.SetupItems = append(cat.SetupItems, l.parseSetupItem(block))
		case "module":
			m, err := l.parseModule(block)
			if err != nil {
				parseErrs = append(parseErrs, err)
				continue
			}
			cat.Modules = append(cat.Modules, *m)
		case "travel_zone":
			cat.TravelZones = append(cat.TravelZones, l.parseTravelZone(block))
		case "escalation":
			cat.Escalations = append(cat.Escalations, l.parseEscalation(block))
		case "discount_limits":
			cat.DiscountLimits = l.parseDiscountLimits(block)
		case "milestones":
			cat.Milestones = l.parseMilestoneDefaults(block)
		}
	}
	if len(parseErrs) > 0 {
		return nil, errors.Parsing(joinErrors(parseErrs), nil)
	}

	if errs := catalog.Validate(cat); len(errs) > 0 {
		return nil, errors.Validation(joinErrors(errs))
	}

	logging.Sugar.Debugw("catalog loaded",
		"path", path,
		"version", cat.Version,
		"products", len(cat.Products),
		"setup_items", len(cat.SetupItems),
		"modules", len(cat.Modules))

	if l.cache != nil {
		l.cache.Put(path, cat)
	}

	return cat, nil
}

func (l *Loader) parseProduct(block *hcl.Block) (*catalog.Product, error) {
	p := &catalog.Product{Code: block.Labels[0]}

	content, _, _ := block.Body.PartialContent(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "name"},
			{Name: "category"},
		},
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "selection"},
			{Type: "formula"},
			{Type: "setup_rule"},
		},
	})

	attrs := attrValues(content.Attributes)
	p.Name, _ = ctyString(attrs["name"])
	p.Category, _ = ctyString(attrs["category"])

	for _, inner := range content.Blocks {
		switch inner.Type {
		case "selection":
			cond, err := l.parseCondition(inner, p.Code)
			if err != nil {
				return nil, err
			}
			p.Selection = cond
		case "formula":
			f, err := l.parseFormula(inner, p.Code)
			if err != nil {
				return nil, err
			}
			p.Formula = f
		case "setup_rule":
			rule, err := l.parseSetupRule(inner, p.Code)
			if err != nil {
				return nil, err
			}
			p.SetupRules = append(p.SetupRules, *rule)
		}
	}

	return p, nil
}

func (l *Loader) parseSetupItem(block *hcl.Block) catalog.SetupItem {
	item := catalog.SetupItem{Code: block.Labels[0]}

	content, _, _ := block.Body.PartialContent(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "name"},
			{Name: "unit_price"},
			{Name: "estimated_effort_hours"},
		},
	})

	attrs := attrValues(content.Attributes)
	item.Name, _ = ctyString(attrs["name"])

	// An absent unit_price is to-be-determined pricing, not zero
	if val, ok := attrs["unit_price"]; ok {
		if d, ok := ctyDecimal(val); ok {
			item.UnitPrice = &d
		}
	}
	if val, ok := attrs["estimated_effort_hours"]; ok {
		if d, ok := ctyDecimal(val); ok {
			item.EstimatedEffortHours = &d
		}
	}

	return item
}

func (l *Loader) parseModule(block *hcl.Block) (*catalog.Module, error) {
	m := &catalog.Module{Code: block.Labels[0]}

	content, _, _ := block.Body.PartialContent(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "name"},
			{Name: "product_code"},
		},
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "parameter", LabelNames: []string{"name"}},
			{Type: "setup_rule"},
		},
	})

	attrs := attrValues(content.Attributes)
	m.Name, _ = ctyString(attrs["name"])
	m.ProductCode, _ = ctyString(attrs["product_code"])

	for _, inner := range content.Blocks {
		switch inner.Type {
		case "parameter":
			m.Parameters = append(m.Parameters, l.parseParameterDef(inner))
		case "setup_rule":
			rule, err := l.parseSetupRule(inner, m.Code)
			if err != nil {
				return nil, err
			}
			m.SetupRules = append(m.SetupRules, *rule)
		}
	}

	return m, nil
}

func (l *Loader) parseParameterDef(block *hcl.Block) catalog.ParameterDef {
	def := catalog.ParameterDef{Name: block.Labels[0]}

	content, _, _ := block.Body.PartialContent(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "type"},
			{Name: "min"},
			{Name: "max"},
			{Name: "required"},
		},
	})

	attrs := attrValues(content.Attributes)
	def.Type, _ = ctyString(attrs["type"])
	def.Required, _ = ctyBool(attrs["required"])
	if val, ok := attrs["min"]; ok {
		if d, ok := ctyDecimal(val); ok {
			def.Min = &d
		}
	}
	if val, ok := attrs["max"]; ok {
		if d, ok := ctyDecimal(val); ok {
			def.Max = &d
		}
	}

	return def
}

func (l *Loader) parseTravelZone(block *hcl.Block) travel.Zone {
	zone := travel.Zone{Code: block.Labels[0]}

	content, _, _ := block.Body.PartialContent(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "name"},
			{Name: "airfare"},
			{Name: "hotel_per_night"},
			{Name: "per_diem_per_day"},
			{Name: "vehicle_per_day"},
		},
	})

	attrs := attrValues(content.Attributes)
	zone.Name, _ = ctyString(attrs["name"])
	zone.Airfare, _ = ctyDecimal(attrs["airfare"])
	zone.HotelPerNight, _ = ctyDecimal(attrs["hotel_per_night"])
	zone.PerDiemPerDay, _ = ctyDecimal(attrs["per_diem_per_day"])
	zone.VehiclePerDay, _ = ctyDecimal(attrs["vehicle_per_day"])

	return zone
}

func (l *Loader) parseEscalation(block *hcl.Block) projection.Policy {
	policy := projection.Policy{Code: block.Labels[0]}

	content, _, _ := block.Body.PartialContent(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "kind"},
			{Name: "rate"},
			{Name: "freeze_years"},
		},
	})

	attrs := attrValues(content.Attributes)
	if s, ok := ctyString(attrs["kind"]); ok {
		policy.Kind = projection.PolicyKind(s)
	}
	policy.Rate, _ = ctyDecimal(attrs["rate"])
	policy.FreezeYears, _ = ctyInt(attrs["freeze_years"])

	return policy
}

func (l *Loader) parseDiscountLimits(block *hcl.Block) *discount.Limits {
	limits := &discount.Limits{}

	content, _, _ := block.Body.PartialContent(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "max_recurring_pct"},
			{Name: "max_setup_pct"},
			{Name: "max_setup_fixed"},
		},
	})

	attrs := attrValues(content.Attributes)
	if val, ok := attrs["max_recurring_pct"]; ok {
		if d, ok := ctyDecimal(val); ok {
			limits.MaxRecurringPct = &d
		}
	}
	if val, ok := attrs["max_setup_pct"]; ok {
		if d, ok := ctyDecimal(val); ok {
			limits.MaxSetupPct = &d
		}
	}
	if val, ok := attrs["max_setup_fixed"]; ok {
		if d, ok := ctyDecimal(val); ok {
			limits.MaxSetupFixed = &d
		}
	}

	return limits
}

func (l *Loader) parseMilestoneDefaults(block *hcl.Block) catalog.MilestoneDefaults {
	defaults := catalog.MilestoneDefaults{}

	content, _, _ := block.Body.PartialContent(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "initial_payment_pct"},
			{Name: "services_fraction"},
		},
	})

	attrs := attrValues(content.Attributes)
	defaults.InitialPaymentPct, _ = ctyDecimal(attrs["initial_payment_pct"])
	defaults.ServicesFraction, _ = ctyDecimal(attrs["services_fraction"])

	return defaults
}

func (l *Loader) parseSetupRule(block *hcl.Block, source string) (*catalog.SelectionRule, error) {
	rule := &catalog.SelectionRule{}

	content, _, _ := block.Body.PartialContent(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "target_code"},
			{Name: "quantity"},
			{Name: "quantity_parameter"},
			{Name: "reason"},
			{Name: "completion_month"},
			{Name: "milestone_pct"},
		},
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "condition"},
		},
	})

	attrs := attrValues(content.Attributes)
	rule.TargetCode, _ = ctyString(attrs["target_code"])
	if rule.TargetCode == "" {
		return nil, errors.Validationf("setup_rule in %q has no target_code", source)
	}
	rule.Reason, _ = ctyString(attrs["reason"])
	rule.CompletionMonth, _ = ctyInt(attrs["completion_month"])
	rule.MilestonePct, _ = ctyDecimal(attrs["milestone_pct"])

	if val, ok := attrs["quantity"]; ok {
		if d, ok := ctyDecimal(val); ok {
			rule.Quantity.Literal = &d
		}
	}
	if path, ok := ctyString(attrs["quantity_parameter"]); ok {
		rule.Quantity.Path = path
	}

	for _, inner := range content.Blocks {
		if inner.Type == "condition" {
			cond, err := l.parseCondition(inner, source)
			if err != nil {
				return nil, err
			}
			rule.Condition = cond
			break
		}
	}
	if rule.Condition == nil {
		rule.Condition = condition.Always()
	}

	return rule, nil
}

// parseCondition decodes a condition block, recursing into nested condition
// blocks for the and/or kinds
func (l *Loader) parseCondition(block *hcl.Block, source string) (*condition.Condition, error) {
	content, _, _ := block.Body.PartialContent(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "type"},
			{Name: "parameter"},
			{Name: "value"},
			{Name: "values"},
			{Name: "min"},
			{Name: "max"},
		},
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "condition"},
		},
	})

	attrs := attrValues(content.Attributes)
	kind, ok := ctyString(attrs["type"])
	if !ok || kind == "" {
		return nil, errors.Validationf("condition in %q has no type", source)
	}

	cond := &condition.Condition{Kind: condition.Kind(kind)}
	cond.Parameter, _ = ctyString(attrs["parameter"])
	if val, ok := attrs["value"]; ok {
		cond.Value = ctyCompare(val)
	}
	if val, ok := attrs["values"]; ok {
		if list, ok := ctyToGo(val).([]interface{}); ok {
			cond.Values = list
		}
	}
	if val, ok := attrs["min"]; ok {
		cond.Min = ctyCompare(val)
	}
	if val, ok := attrs["max"]; ok {
		cond.Max = ctyCompare(val)
	}

	for _, inner := range content.Blocks {
		sub, err := l.parseCondition(inner, source)
		if err != nil {
			return nil, err
		}
		cond.Conditions = append(cond.Conditions, sub)
	}

	return cond, nil
}

func (l *Loader) parseFormula(block *hcl.Block, source string) (*formula.Formula, error) {
	content, _, _ := block.Body.PartialContent(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "type"},
			{Name: "price"},
			{Name: "price_per_unit"},
			{Name: "quantity_parameter"},
			{Name: "volume_parameter"},
			{Name: "formula"},
			{Name: "variables"},
		},
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "tier"},
		},
	})

	attrs := attrValues(content.Attributes)
	kind, ok := ctyString(attrs["type"])
	if !ok || kind == "" {
		return nil, errors.Validationf("formula in %q has no type", source)
	}

	f := &formula.Formula{Kind: formula.Kind(kind)}
	f.Amount, _ = ctyDecimal(attrs["price"])
	f.PerUnit, _ = ctyDecimal(attrs["price_per_unit"])
	f.QuantityPath, _ = ctyString(attrs["quantity_parameter"])
	f.VolumePath, _ = ctyString(attrs["volume_parameter"])
	f.Expression, _ = ctyString(attrs["formula"])

	if val, ok := attrs["variables"]; ok {
		if m, ok := ctyToGo(val).(map[string]interface{}); ok {
			f.Variables = make(map[string]string, len(m))
			for k, v := range m {
				if s, ok := v.(string); ok {
					f.Variables[k] = s
				}
			}
		}
	}

	for _, inner := range content.Blocks {
		if inner.Type != "tier" {
			continue
		}
		tier, err := l.parseTier(inner, source)
		if err != nil {
			return nil, err
		}
		f.Tiers = append(f.Tiers, *tier)
	}

	return f, nil
}

func (l *Loader) parseTier(block *hcl.Block, source string) (*formula.Tier, error) {
	content, _, _ := block.Body.PartialContent(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "min_volume", Required: true},
			{Name: "max_volume"},
			{Name: "price", Required: true},
		},
	})

	attrs := attrValues(content.Attributes)
	tier := &formula.Tier{}

	min, ok := ctyDecimal(attrs["min_volume"])
	if !ok {
		return nil, errors.Validationf("tier in %q has no min_volume", source)
	}
	tier.Min = min

	if val, ok := attrs["max_volume"]; ok {
		if d, ok := ctyDecimal(val); ok {
			tier.Max = &d
		}
	}

	price, ok := ctyDecimal(attrs["price"])
	if !ok {
		return nil, errors.Validationf("tier in %q has no price", source)
	}
	tier.Price = price

	return tier, nil
}

// attrValues evaluates attribute expressions with no variable scope.
// Catalog files are pure data; references and functions are not available.
func attrValues(attrs hcl.Attributes) map[string]cty.Value {
	out := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			continue
		}
		out[name] = val
	}
	return out
}

func diagsMessage(diags hcl.Diagnostics) string {
	parts := make([]string, 0, len(diags))
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		msg := diag.Summary
		if diag.Detail != "" {
			msg += ": " + diag.Detail
		}
		if diag.Subject != nil {
			msg = fmt.Sprintf("%s:%d: %s", diag.Subject.Filename, diag.Subject.Start.Line, msg)
		}
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}

func joinErrors(errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}
