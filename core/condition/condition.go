// Package condition provides the declarative predicate model for quote rules.
// Conditions are data, not code: a closed set of kinds with one evaluation
// path per kind, so configuration can never execute host logic.
package condition

// Kind identifies the condition variant
type Kind string

const (
	// KindAlways is always true
	KindAlways Kind = "always"

	// KindNever is always false
	KindNever Kind = "never"

	// KindEquals checks a parameter equals a value
	KindEquals Kind = "parameter_equals"

	// KindNotEquals checks a parameter does not equal a value
	KindNotEquals Kind = "parameter_not_equals"

	// KindIn checks a parameter is a member of a value set
	KindIn Kind = "parameter_in"

	// KindGreaterThan checks a numeric parameter exceeds a threshold
	KindGreaterThan Kind = "parameter_greater_than"

	// KindLessThan checks a numeric parameter is below a threshold
	KindLessThan Kind = "parameter_less_than"

	// KindBetween checks min <= parameter <= max
	KindBetween Kind = "parameter_between"

	// KindExists checks a parameter is present (truthiness is irrelevant)
	KindExists Kind = "parameter_exists"

	// KindAnd combines sub-conditions conjunctively
	KindAnd Kind = "and"

	// KindOr combines sub-conditions disjunctively
	KindOr Kind = "or"
)

// Condition is a tagged-variant predicate over a parameter context
type Condition struct {
	// Kind selects the variant
	Kind Kind `json:"type"`

	// Parameter is the dotted context path (parameter-based kinds)
	Parameter string `json:"parameter,omitempty"`

	// Value is the comparison operand (equals / not_equals / greater / less)
	Value interface{} `json:"value,omitempty"`

	// Values is the membership set (in)
	Values []interface{} `json:"values,omitempty"`

	// Min is the inclusive lower bound (between)
	Min interface{} `json:"min,omitempty"`

	// Max is the inclusive upper bound (between)
	Max interface{} `json:"max,omitempty"`

	// Conditions are the sub-conditions (and / or)
	Conditions []*Condition `json:"conditions,omitempty"`
}

// Always returns an always-true condition
func Always() *Condition {
	return &Condition{Kind: KindAlways}
}

// Never returns an always-false condition
func Never() *Condition {
	return &Condition{Kind: KindNever}
}

// Equals returns a parameter equality condition
func Equals(parameter string, value interface{}) *Condition {
	return &Condition{Kind: KindEquals, Parameter: parameter, Value: value}
}

// NotEquals returns a parameter inequality condition
func NotEquals(parameter string, value interface{}) *Condition {
	return &Condition{Kind: KindNotEquals, Parameter: parameter, Value: value}
}

// In returns a membership condition
func In(parameter string, values ...interface{}) *Condition {
	return &Condition{Kind: KindIn, Parameter: parameter, Values: values}
}

// GreaterThan returns a numeric threshold condition
func GreaterThan(parameter string, value interface{}) *Condition {
	return &Condition{Kind: KindGreaterThan, Parameter: parameter, Value: value}
}

// LessThan returns a numeric threshold condition
func LessThan(parameter string, value interface{}) *Condition {
	return &Condition{Kind: KindLessThan, Parameter: parameter, Value: value}
}

// Between returns an inclusive range condition
func Between(parameter string, min, max interface{}) *Condition {
	return &Condition{Kind: KindBetween, Parameter: parameter, Min: min, Max: max}
}

// Exists returns a presence condition
func Exists(parameter string) *Condition {
	return &Condition{Kind: KindExists, Parameter: parameter}
}

// And combines conditions conjunctively
func And(conditions ...*Condition) *Condition {
	return &Condition{Kind: KindAnd, Conditions: conditions}
}

// Or combines conditions disjunctively
func Or(conditions ...*Condition) *Condition {
	return &Condition{Kind: KindOr, Conditions: conditions}
}
