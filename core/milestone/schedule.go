// Package milestone derives payment schedules from a one-time setup total.
package milestone

import (
	"sort"

	"github.com/shopspring/decimal"

	"quote-engine/internal/errors"
)

// Style selects how the schedule is laid out
type Style string

const (
	// StyleFixedMonthly spreads the remainder evenly across the duration
	StyleFixedMonthly Style = "FIXED_MONTHLY"

	// StyleDeliverable ties payments to setup item completion
	StyleDeliverable Style = "DELIVERABLE_BASED"
)

// Milestone is a single scheduled payment
type Milestone struct {
	// Label describes the payment
	Label string `json:"label"`

	// Month is the contract month (0 = contract execution)
	Month int `json:"month"`

	// Amount is the payment amount
	Amount decimal.Decimal `json:"amount"`
}

// Deliverable is a priced setup item eligible for a deliverable milestone
type Deliverable struct {
	// Code is the setup item code
	Code string `json:"code"`

	// Label is the display name
	Label string `json:"label"`

	// Price is the item's total price
	Price decimal.Decimal `json:"price"`

	// CompletionMonth is when the deliverable completes
	CompletionMonth int `json:"completion_month"`

	// Percent is the share of the item price paid at completion
	Percent decimal.Decimal `json:"percent"`
}

// Options carries style-specific inputs
type Options struct {
	// ServicesFraction is the share of the post-initial remainder billed as
	// a monthly services stream (deliverable style), in [0, 1]
	ServicesFraction decimal.Decimal

	// Deliverables are the candidate deliverable milestones
	Deliverables []Deliverable
}

var hundred = decimal.NewFromInt(100)

// Schedule derives the payment schedule.
// Invariant for both styles: the milestone amounts sum to setupTotal exactly;
// any rounding residue lands in the final milestone.
func Schedule(setupTotal decimal.Decimal, style Style, initialPct decimal.Decimal, durationMonths int, opts Options) ([]Milestone, error) {
	if setupTotal.IsNegative() {
		return nil, errors.Validationf("setup total must be >= 0, got %s", setupTotal)
	}
	if initialPct.IsNegative() || initialPct.GreaterThan(hundred) {
		return nil, errors.Validationf("initial payment percentage must be within [0, 100], got %s", initialPct)
	}
	if durationMonths <= 0 {
		return nil, errors.Validationf("duration months must be >= 1, got %d", durationMonths)
	}

	switch style {
	case StyleFixedMonthly:
		return fixedMonthly(setupTotal, initialPct, durationMonths), nil
	case StyleDeliverable:
		return deliverableBased(setupTotal, initialPct, durationMonths, opts)
	default:
		return nil, errors.Validationf("unknown milestone style: %s", style)
	}
}

func fixedMonthly(setupTotal, initialPct decimal.Decimal, durationMonths int) []Milestone {
	initial := setupTotal.Mul(initialPct).Div(hundred).Round(2)

	if durationMonths == 1 {
		return []Milestone{{Label: "Contract execution", Month: 0, Amount: setupTotal}}
	}

	schedule := []Milestone{{Label: "Contract execution", Month: 0, Amount: initial}}

	remaining := setupTotal.Sub(initial)
	months := durationMonths - 1
	per := remaining.Div(decimal.NewFromInt(int64(months))).Round(2)

	for month := 1; month <= months; month++ {
		schedule = append(schedule, Milestone{
			Label:  "Monthly payment",
			Month:  month,
			Amount: per,
		})
	}

	return settle(schedule, setupTotal)
}

func deliverableBased(setupTotal, initialPct decimal.Decimal, durationMonths int, opts Options) ([]Milestone, error) {
	fraction := opts.ServicesFraction
	if fraction.IsNegative() || fraction.GreaterThan(decimal.NewFromInt(1)) {
		return nil, errors.Validationf("services fraction must be within [0, 1], got %s", fraction)
	}

	initial := setupTotal.Mul(initialPct).Div(hundred).Round(2)
	remaining := setupTotal.Sub(initial)

	// Only priced deliverables with a positive percentage earn milestones
	var deliverables []Deliverable
	weightTotal := decimal.Zero
	for _, d := range opts.Deliverables {
		if d.Price.IsPositive() && d.Percent.IsPositive() {
			deliverables = append(deliverables, d)
			weightTotal = weightTotal.Add(d.Price.Mul(d.Percent))
		}
	}

	// With nothing deliverable, the services stream takes the whole remainder
	servicesTotal := remaining
	deliverableTotal := decimal.Zero
	if len(deliverables) > 0 {
		servicesTotal = remaining.Mul(fraction)
		deliverableTotal = remaining.Sub(servicesTotal)
	}

	schedule := []Milestone{{Label: "Contract execution", Month: 0, Amount: initial}}

	perMonth := servicesTotal.Div(decimal.NewFromInt(int64(durationMonths))).Round(2)
	for month := 1; month <= durationMonths; month++ {
		schedule = append(schedule, Milestone{
			Label:  "Monthly services",
			Month:  month,
			Amount: perMonth,
		})
	}

	// Deliverable milestones share the deliverable pool proportionally to
	// item price x configured percent, so the schedule stays exact
	for _, d := range deliverables {
		weight := d.Price.Mul(d.Percent)
		amount := deliverableTotal.Mul(weight).Div(weightTotal).Round(2)
		month := d.CompletionMonth
		if month < 1 {
			month = 1
		}
		if month > durationMonths {
			month = durationMonths
		}
		label := d.Label
		if label == "" {
			label = d.Code
		}
		schedule = append(schedule, Milestone{
			Label:  label + " completion",
			Month:  month,
			Amount: amount,
		})
	}

	sort.SliceStable(schedule, func(i, j int) bool {
		return schedule[i].Month < schedule[j].Month
	})

	return settle(schedule, setupTotal), nil
}

// settle absorbs rounding residue into the tail of the schedule so the
// amounts sum to the setup total exactly. When per-month rounding overshoots
// a cent-scale total the residue can exceed the final amount, so it walks
// backwards zeroing milestones until the remainder fits; no amount goes
// negative.
func settle(schedule []Milestone, setupTotal decimal.Decimal) []Milestone {
	if len(schedule) == 0 {
		return schedule
	}
	sum := decimal.Zero
	for _, m := range schedule {
		sum = sum.Add(m.Amount)
	}
	residue := setupTotal.Sub(sum)
	for i := len(schedule) - 1; i >= 0; i-- {
		amount := schedule[i].Amount.Add(residue)
		if !amount.IsNegative() {
			schedule[i].Amount = amount
			break
		}
		residue = amount
		schedule[i].Amount = decimal.Zero
	}
	return schedule
}

// Total sums a schedule's amounts
func Total(schedule []Milestone) decimal.Decimal {
	total := decimal.Zero
	for _, m := range schedule {
		total = total.Add(m.Amount)
	}
	return total
}
