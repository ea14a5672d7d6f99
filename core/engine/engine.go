// Package engine composes the quote calculators into one entry point.
// Calculate is the only public surface other layers call: it is a pure
// function of the catalog, the parameter context, and the request, with no
// I/O and no shared state, so concurrent invocations need no coordination.
package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"quote-engine/core/catalog"
	"quote-engine/core/commission"
	"quote-engine/core/discount"
	"quote-engine/core/milestone"
	"quote-engine/core/params"
	"quote-engine/core/projection"
	"quote-engine/core/selection"
	"quote-engine/core/travel"
	"quote-engine/internal/errors"
)

// Request carries the caller's per-quote choices
type Request struct {
	// ProjectionYears is how many years to project (>= 1)
	ProjectionYears int `json:"projection_years"`

	// EscalationCode names the escalation policy to apply
	EscalationCode string `json:"escalation_code"`

	// LevelLoad requests a level-loaded constant annual amount
	LevelLoad bool `json:"level_load"`

	// MilestoneStyle selects the payment schedule layout
	MilestoneStyle milestone.Style `json:"milestone_style"`

	// InitialPaymentPct overrides the catalog default when set
	InitialPaymentPct *decimal.Decimal `json:"initial_payment_pct,omitempty"`

	// DurationMonths is the implementation duration (>= 1)
	DurationMonths int `json:"duration_months"`

	// TravelZoneCode selects the travel zone; empty means no travel
	TravelZoneCode string `json:"travel_zone_code,omitempty"`

	// Trips are the planned on-site visits
	Trips []travel.Trip `json:"trips,omitempty"`

	// Discounts are the requested discounts
	Discounts discount.Config `json:"discounts"`

	// CommissionRatePct overrides the catalog default when set
	CommissionRatePct *decimal.Decimal `json:"commission_rate_pct,omitempty"`
}

// Facet names an independently-evaluated calculation facet
type Facet string

const (
	FacetSelection  Facet = "selection"
	FacetProjection Facet = "projection"
	FacetDiscount   Facet = "discount"
	FacetTravel     Facet = "travel"
	FacetMilestones Facet = "milestones"
	FacetCommission Facet = "commission"
)

// FacetError records a failure in one facet
type FacetError struct {
	// Facet is the facet that failed
	Facet Facet `json:"facet"`

	// Err is the underlying typed error
	Err error `json:"error"`
}

// Error implements the error interface
func (e FacetError) Error() string {
	return fmt.Sprintf("%s: %v", e.Facet, e.Err)
}

// Unwrap returns the underlying error
func (e FacetError) Unwrap() error {
	return e.Err
}

// Totals are the headline quote totals
type Totals struct {
	// MonthlyRecurring is the recurring monthly total before discounts
	MonthlyRecurring decimal.Decimal `json:"monthly_recurring"`

	// SetupOneTime is the one-time setup total before discounts
	SetupOneTime decimal.Decimal `json:"setup_one_time"`
}

// Result is one complete quote calculation.
// Constructed fresh per Calculate call and never mutated after return.
type Result struct {
	// CatalogVersion is the pricing catalog version used
	CatalogVersion string `json:"catalog_version"`

	// Products are the selected recurring offerings
	Products []selection.PricedProduct `json:"products"`

	// SetupItems are the selected one-time items
	SetupItems []selection.PricedSetupItem `json:"setup_items"`

	// Totals are the pre-discount totals
	Totals Totals `json:"totals"`

	// Projection is the multi-year recurring projection (post-discount
	// baseline), nil if that facet failed
	Projection *projection.Result `json:"projection,omitempty"`

	// Discounts reports per-bucket discount impact, nil if that facet failed
	Discounts *discount.Result `json:"discounts,omitempty"`

	// Travel is the travel cost breakdown, nil when no travel was requested
	// or the facet failed
	Travel *travel.Result `json:"travel,omitempty"`

	// Milestones is the payment schedule, nil if that facet failed
	Milestones []milestone.Milestone `json:"milestones,omitempty"`

	// Commission is the referral commission, nil if that facet failed
	Commission *commission.Result `json:"commission,omitempty"`

	// Summary is a one-line description of the quote
	Summary string `json:"summary"`

	// Errors lists every facet failure; independent facets still complete
	Errors []FacetError `json:"errors,omitempty"`
}

// Failed reports whether any facet failed
func (r *Result) Failed() bool {
	return len(r.Errors) > 0
}

// Calculate computes a quote from a catalog and a parameter context.
// Selection runs first since downstream facets consume its totals; the
// remaining facets evaluate independently, and a failure in one is recorded
// without aborting the others. The returned error is non-nil when any facet
// failed; the partial result is still populated.
func Calculate(cat *catalog.Catalog, ctx *params.Context, req Request) (*Result, error) {
	if cat == nil {
		return nil, errors.Validation("pricing catalog is nil")
	}
	if ctx == nil {
		ctx = params.NewContext(nil)
	}

	result := &Result{CatalogVersion: cat.Version}

	sel, selErrs := selection.Select(cat, ctx)
	for _, err := range selErrs {
		result.Errors = append(result.Errors, FacetError{Facet: FacetSelection, Err: err})
	}
	result.Products = sel.Products
	result.SetupItems = sel.SetupItems
	result.Totals = Totals{
		MonthlyRecurring: sel.MonthlyRecurring,
		SetupOneTime:     sel.SetupOneTime,
	}

	disc := calcDiscounts(cat, sel, req, result)
	calcProjection(cat, sel, disc, req, result)
	calcTravel(cat, req, result)
	calcMilestones(cat, sel, disc, req, result)
	calcCommission(cat, disc, sel, req, result)

	result.Summary = summarize(sel)

	if result.Failed() {
		return result, errors.Newf(errors.TypeValidation, "quote calculation completed with %d facet error(s)", len(result.Errors))
	}
	return result, nil
}

func calcDiscounts(cat *catalog.Catalog, sel *selection.Result, req Request, result *Result) *discount.Result {
	disc, err := discount.Apply(discount.Totals{
		MonthlyRecurring: sel.MonthlyRecurring,
		SetupOneTime:     sel.SetupOneTime,
	}, req.Discounts, cat.DiscountLimits)
	if err != nil {
		result.Errors = append(result.Errors, FacetError{Facet: FacetDiscount, Err: err})
		return nil
	}
	result.Discounts = disc
	return disc
}

func calcProjection(cat *catalog.Catalog, sel *selection.Result, disc *discount.Result, req Request, result *Result) {
	policy := projection.Policy{Code: "NONE", Kind: projection.KindNone}
	if req.EscalationCode != "" {
		found, ok := cat.Escalation(req.EscalationCode)
		if !ok {
			result.Errors = append(result.Errors, FacetError{
				Facet: FacetProjection,
				Err:   errors.NotFound("escalation policy", req.EscalationCode),
			})
			return
		}
		policy = *found
	}

	// Project from the post-discount recurring baseline when available
	monthly := sel.MonthlyRecurring
	if disc != nil {
		monthly = disc.MonthlyRecurring.After
	}

	proj, err := projection.Project(monthly, policy, req.ProjectionYears, req.LevelLoad)
	if err != nil {
		result.Errors = append(result.Errors, FacetError{Facet: FacetProjection, Err: err})
		return
	}
	result.Projection = proj
}

func calcTravel(cat *catalog.Catalog, req Request, result *Result) {
	if req.TravelZoneCode == "" || len(req.Trips) == 0 {
		return
	}

	zone, ok := cat.TravelZone(req.TravelZoneCode)
	if !ok {
		result.Errors = append(result.Errors, FacetError{
			Facet: FacetTravel,
			Err:   errors.NotFound("travel zone", req.TravelZoneCode),
		})
		return
	}

	trav, err := travel.Calculate(*zone, req.Trips)
	if err != nil {
		result.Errors = append(result.Errors, FacetError{Facet: FacetTravel, Err: err})
		return
	}
	result.Travel = trav
}

func calcMilestones(cat *catalog.Catalog, sel *selection.Result, disc *discount.Result, req Request, result *Result) {
	setupTotal := sel.SetupOneTime
	if disc != nil {
		setupTotal = disc.Setup.After
	}

	initialPct := cat.Milestones.InitialPaymentPct
	if req.InitialPaymentPct != nil {
		initialPct = *req.InitialPaymentPct
	}

	opts := milestone.Options{ServicesFraction: cat.Milestones.ServicesFraction}
	if req.MilestoneStyle == milestone.StyleDeliverable {
		opts.Deliverables = deliverablesFrom(sel.SetupItems)
	}

	schedule, err := milestone.Schedule(setupTotal, req.MilestoneStyle, initialPct, req.DurationMonths, opts)
	if err != nil {
		result.Errors = append(result.Errors, FacetError{Facet: FacetMilestones, Err: err})
		return
	}
	result.Milestones = schedule
}

func calcCommission(cat *catalog.Catalog, disc *discount.Result, sel *selection.Result, req Request, result *Result) {
	rate := cat.CommissionRate
	if req.CommissionRatePct != nil {
		rate = *req.CommissionRatePct
	}

	// Commission is earned on the discounted setup total
	base := sel.SetupOneTime
	if disc != nil {
		base = disc.Setup.After
	}

	comm, err := commission.Calculate(base, rate)
	if err != nil {
		result.Errors = append(result.Errors, FacetError{Facet: FacetCommission, Err: err})
		return
	}
	result.Commission = comm
}

// deliverablesFrom extracts deliverable milestone candidates from priced
// setup items; TBD-priced items carry no amount to schedule against
func deliverablesFrom(items []selection.PricedSetupItem) []milestone.Deliverable {
	var out []milestone.Deliverable
	for _, item := range items {
		if item.TotalPrice == nil || item.MilestonePct.IsZero() {
			continue
		}
		out = append(out, milestone.Deliverable{
			Code:            item.Code,
			Label:           item.Name,
			Price:           *item.TotalPrice,
			CompletionMonth: item.CompletionMonth,
			Percent:         item.MilestonePct,
		})
	}
	return out
}

// summarize builds the one-line quote description
func summarize(sel *selection.Result) string {
	base := "Quote"
	modules := 0
	interfaces := 0
	for _, p := range sel.Products {
		switch p.Category {
		case "Core":
			base = p.Name
		case "Module":
			modules++
		case "Interface":
			interfaces++
		}
	}

	parts := []string{base}
	if modules > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", modules, plural("module", modules)))
	}
	if interfaces > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", interfaces, plural("integration", interfaces)))
	}

	monthly, _ := sel.MonthlyRecurring.Round(2).Float64()
	setup, _ := sel.SetupOneTime.Round(2).Float64()
	return fmt.Sprintf("%s: $%.2f/mo, $%.2f setup", strings.Join(parts, ", "), monthly, setup)
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
