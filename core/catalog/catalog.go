// Package catalog defines the versioned pricing configuration consumed by the
// quote engine. A catalog is immutable once referenced by a computed quote;
// new values require a new version.
package catalog

import (
	"github.com/shopspring/decimal"

	"quote-engine/core/condition"
	"quote-engine/core/discount"
	"quote-engine/core/formula"
	"quote-engine/core/projection"
	"quote-engine/core/travel"
)

// QuantityRef is a rule quantity: either a literal or a context path
type QuantityRef struct {
	// Literal is the fixed quantity, nil when Path is set
	Literal *decimal.Decimal `json:"literal,omitempty"`

	// Path is the dotted context path resolving the quantity
	Path string `json:"path,omitempty"`
}

// SelectionRule pairs a condition with a target code: "include X when the
// condition holds". Used for recurring products and one-time setup items.
type SelectionRule struct {
	// Condition gates the rule
	Condition *condition.Condition `json:"condition"`

	// TargetCode is the product or setup item code to include
	TargetCode string `json:"target_code"`

	// Quantity resolves the included quantity, defaulting to 1
	Quantity QuantityRef `json:"quantity"`

	// Reason explains the inclusion for display
	Reason string `json:"reason,omitempty"`

	// CompletionMonth schedules the deliverable milestone for this item
	CompletionMonth int `json:"completion_month,omitempty"`

	// MilestonePct is the share of the item price paid at completion
	MilestonePct decimal.Decimal `json:"milestone_pct,omitempty"`
}

// Product is a recurring offering definition
type Product struct {
	// Code identifies the product (e.g. "TELLER-STANDARD")
	Code string `json:"code"`

	// Name is the display name
	Name string `json:"name"`

	// Category groups products for display (Core, Module, Interface)
	Category string `json:"category,omitempty"`

	// Selection gates inclusion of this product
	Selection *condition.Condition `json:"selection"`

	// Formula prices the product's monthly cost
	Formula *formula.Formula `json:"formula"`

	// SetupRules auto-add one-time items when this product is selected
	SetupRules []SelectionRule `json:"setup_rules,omitempty"`
}

// SetupItem is a one-time item definition.
// A nil UnitPrice means to-be-determined pricing; it propagates as nil and is
// never coerced to zero.
type SetupItem struct {
	// Code identifies the item (e.g. "CHECK-ICL-SETUP")
	Code string `json:"code"`

	// Name is the display name
	Name string `json:"name"`

	// UnitPrice is the per-unit price, nil for TBD
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`

	// EstimatedEffortHours is the optional implementation effort
	EstimatedEffortHours *decimal.Decimal `json:"estimated_effort_hours,omitempty"`
}

// ParameterDef declares a typed module parameter with validation bounds
type ParameterDef struct {
	// Name is the parameter name under modules.<module>.<name>
	Name string `json:"name"`

	// Type is the expected kind: "bool", "number", or "string"
	Type string `json:"type"`

	// Min is the inclusive lower bound for numbers
	Min *decimal.Decimal `json:"min,omitempty"`

	// Max is the inclusive upper bound for numbers
	Max *decimal.Decimal `json:"max,omitempty"`

	// Required marks the parameter mandatory when the module is enabled
	Required bool `json:"required,omitempty"`
}

// Module bundles a recurring product with parameters and setup rules.
// A module participates only when modules.<code>.enabled is true.
type Module struct {
	// Code identifies the module (e.g. "check_recognition")
	Code string `json:"code"`

	// Name is the display name
	Name string `json:"name"`

	// ProductCode references the recurring product this module bills as
	ProductCode string `json:"product_code,omitempty"`

	// Parameters are the module's typed inputs
	Parameters []ParameterDef `json:"parameters,omitempty"`

	// SetupRules auto-add one-time items for this module
	SetupRules []SelectionRule `json:"setup_rules,omitempty"`
}

// MilestoneDefaults are catalog-level payment schedule defaults
type MilestoneDefaults struct {
	// InitialPaymentPct is the default initial payment percentage
	InitialPaymentPct decimal.Decimal `json:"initial_payment_pct"`

	// ServicesFraction is the default monthly services share for
	// deliverable-based schedules
	ServicesFraction decimal.Decimal `json:"services_fraction"`
}

// Catalog is one immutable version of the pricing configuration
type Catalog struct {
	// Version identifies this catalog snapshot
	Version string `json:"version"`

	// Products are the recurring offerings
	Products []Product `json:"products"`

	// SetupItems are the one-time items
	SetupItems []SetupItem `json:"setup_items"`

	// Modules are the parameterized bundles
	Modules []Module `json:"modules"`

	// TravelZones is the zone rate table
	TravelZones []travel.Zone `json:"travel_zones"`

	// Escalations are the named escalation policies
	Escalations []projection.Policy `json:"escalations"`

	// DiscountLimits caps requestable discounts, nil for no caps
	DiscountLimits *discount.Limits `json:"discount_limits,omitempty"`

	// CommissionRate is the default referral percentage
	CommissionRate decimal.Decimal `json:"commission_rate"`

	// Milestones holds payment schedule defaults
	Milestones MilestoneDefaults `json:"milestones"`
}

// Product returns a product by code
func (c *Catalog) Product(code string) (*Product, bool) {
	for i := range c.Products {
		if c.Products[i].Code == code {
			return &c.Products[i], true
		}
	}
	return nil, false
}

// SetupItemByCode returns a setup item by code
func (c *Catalog) SetupItemByCode(code string) (*SetupItem, bool) {
	for i := range c.SetupItems {
		if c.SetupItems[i].Code == code {
			return &c.SetupItems[i], true
		}
	}
	return nil, false
}

// TravelZone returns a travel zone by code
func (c *Catalog) TravelZone(code string) (*travel.Zone, bool) {
	for i := range c.TravelZones {
		if c.TravelZones[i].Code == code {
			return &c.TravelZones[i], true
		}
	}
	return nil, false
}

// Escalation returns an escalation policy by code
func (c *Catalog) Escalation(code string) (*projection.Policy, bool) {
	for i := range c.Escalations {
		if c.Escalations[i].Code == code {
			return &c.Escalations[i], true
		}
	}
	return nil, false
}
