// Package formula provides pricing formula evaluation.
// Formulas are configuration data: a closed set of kinds (fixed, quantity
// based, tiered, calculated) priced against a parameter context.
package formula

import (
	"github.com/shopspring/decimal"
)

// Kind identifies the formula variant
type Kind string

const (
	// KindFixed returns a literal amount
	KindFixed Kind = "fixed"

	// KindQuantityBased multiplies a unit price by a context quantity
	KindQuantityBased Kind = "quantity_based"

	// KindTiered selects a price by volume band
	KindTiered Kind = "tiered"

	// KindCalculated evaluates a restricted arithmetic expression
	KindCalculated Kind = "calculated"
)

// Tier is one contiguous volume band.
// Min is inclusive; a nil Max means "and above".
type Tier struct {
	// Min is the inclusive lower volume bound
	Min decimal.Decimal `json:"min_volume"`

	// Max is the inclusive upper volume bound, nil for unbounded
	Max *decimal.Decimal `json:"max_volume,omitempty"`

	// Price is the monthly price for this band
	Price decimal.Decimal `json:"price"`
}

// Contains reports whether a volume falls in this band
func (t Tier) Contains(volume decimal.Decimal) bool {
	if volume.LessThan(t.Min) {
		return false
	}
	if t.Max == nil {
		return true
	}
	return volume.LessThanOrEqual(*t.Max)
}

// Formula is a tagged-variant pricing definition
type Formula struct {
	// Kind selects the variant
	Kind Kind `json:"type"`

	// Amount is the literal price (fixed)
	Amount decimal.Decimal `json:"price,omitempty"`

	// PerUnit is the unit price (quantity_based)
	PerUnit decimal.Decimal `json:"price_per_unit,omitempty"`

	// QuantityPath is the context path of the quantity (quantity_based)
	QuantityPath string `json:"quantity_parameter,omitempty"`

	// VolumePath is the context path of the volume (tiered)
	VolumePath string `json:"volume_parameter,omitempty"`

	// Tiers are the volume bands in ascending Min order (tiered)
	Tiers []Tier `json:"tiers,omitempty"`

	// Expression is the restricted arithmetic expression (calculated)
	Expression string `json:"formula,omitempty"`

	// Variables maps expression variable names to context paths (calculated)
	Variables map[string]string `json:"variables,omitempty"`
}

// Fixed returns a fixed-price formula
func Fixed(amount decimal.Decimal) *Formula {
	return &Formula{Kind: KindFixed, Amount: amount}
}

// QuantityBased returns a per-unit formula
func QuantityBased(perUnit decimal.Decimal, quantityPath string) *Formula {
	return &Formula{Kind: KindQuantityBased, PerUnit: perUnit, QuantityPath: quantityPath}
}

// Tiered returns a volume-banded formula
func Tiered(volumePath string, tiers []Tier) *Formula {
	return &Formula{Kind: KindTiered, VolumePath: volumePath, Tiers: tiers}
}

// Calculated returns an expression formula
func Calculated(expression string, variables map[string]string) *Formula {
	return &Formula{Kind: KindCalculated, Expression: expression, Variables: variables}
}
