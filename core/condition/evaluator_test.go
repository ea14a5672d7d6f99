// Package condition - evaluation semantics tests
package condition

import (
	"testing"

	"quote-engine/core/params"
)

func testContext() *params.Context {
	return params.NewContext(map[string]interface{}{
		"institution": map[string]interface{}{
			"type":       "bank",
			"core_system": "jack_henry",
		},
		"volumes": map[string]interface{}{
			"monthly_items": 25000,
		},
		"modules": map[string]interface{}{
			"check_recognition": map[string]interface{}{
				"enabled": true,
			},
		},
		"flags": map[string]interface{}{
			"nullable": nil,
		},
	})
}

// TestEvaluateEquals covers the equality kinds against present values
func TestEvaluateEquals(t *testing.T) {
	ctx := testContext()

	if !Evaluate(Equals("institution.type", "bank"), ctx) {
		t.Error("equals on matching string should be true")
	}
	if Evaluate(Equals("institution.type", "credit_union"), ctx) {
		t.Error("equals on non-matching string should be false")
	}
	if !Evaluate(NotEquals("institution.type", "credit_union"), ctx) {
		t.Error("not_equals on non-matching string should be true")
	}
	if !Evaluate(Equals("modules.check_recognition.enabled", true), ctx) {
		t.Error("equals on bool should be true")
	}
	if !Evaluate(Equals("volumes.monthly_items", 25000), ctx) {
		t.Error("equals on number should be true")
	}
	// Numeric equality crosses representations
	if !Evaluate(Equals("volumes.monthly_items", "25000"), ctx) {
		t.Error("equals should compare numeric string against number")
	}
}

// TestEvaluateAbsentParameterIsFalse proves comparisons fail closed when the
// parameter path does not resolve
func TestEvaluateAbsentParameterIsFalse(t *testing.T) {
	ctx := testContext()

	cases := []*Condition{
		Equals("institution.missing", "bank"),
		NotEquals("institution.missing", "bank"),
		In("institution.missing", "a", "b"),
		GreaterThan("volumes.missing", 10),
		LessThan("volumes.missing", 10),
		Between("volumes.missing", 1, 10),
		Exists("institution.missing"),
		Equals("flags.nullable", true),
	}
	for _, c := range cases {
		if Evaluate(c, ctx) {
			t.Errorf("%s on absent parameter %q should be false", c.Kind, c.Parameter)
		}
	}
}

// TestEvaluateNumericComparisons covers the ordered kinds and their
// inclusive/exclusive boundaries
func TestEvaluateNumericComparisons(t *testing.T) {
	ctx := testContext()

	if !Evaluate(GreaterThan("volumes.monthly_items", 24999), ctx) {
		t.Error("greater_than below actual should be true")
	}
	if Evaluate(GreaterThan("volumes.monthly_items", 25000), ctx) {
		t.Error("greater_than is strict, equal value should be false")
	}
	if !Evaluate(LessThan("volumes.monthly_items", 25001), ctx) {
		t.Error("less_than above actual should be true")
	}
	if Evaluate(LessThan("volumes.monthly_items", 25000), ctx) {
		t.Error("less_than is strict, equal value should be false")
	}
	if !Evaluate(Between("volumes.monthly_items", 25000, 25000), ctx) {
		t.Error("between bounds are inclusive")
	}
	if Evaluate(Between("volumes.monthly_items", 25001, 30000), ctx) {
		t.Error("between below min should be false")
	}
}

// TestEvaluateIn covers membership
func TestEvaluateIn(t *testing.T) {
	ctx := testContext()

	if !Evaluate(In("institution.core_system", "fiserv", "jack_henry"), ctx) {
		t.Error("in with matching member should be true")
	}
	if Evaluate(In("institution.core_system", "fiserv", "fis"), ctx) {
		t.Error("in without matching member should be false")
	}
	if Evaluate(In("institution.core_system"), ctx) {
		t.Error("in with empty value set should be false")
	}
}

// TestEvaluateNested proves composite conditions nest at least three deep
func TestEvaluateNested(t *testing.T) {
	ctx := testContext()

	c := And(
		Equals("institution.type", "bank"),
		Or(
			Equals("institution.core_system", "fiserv"),
			And(
				Equals("institution.core_system", "jack_henry"),
				GreaterThan("volumes.monthly_items", 10000),
			),
		),
	)
	if !Evaluate(c, ctx) {
		t.Error("three-deep nested condition should be true")
	}

	c = And(
		Equals("institution.type", "bank"),
		Or(
			Equals("institution.core_system", "fiserv"),
			And(
				Equals("institution.core_system", "jack_henry"),
				GreaterThan("volumes.monthly_items", 30000),
			),
		),
	)
	if Evaluate(c, ctx) {
		t.Error("nested condition with failing leaf should be false")
	}
}

// TestEvaluateEmptyComposites pins the vacuous truth convention: an empty
// compound of either operator matches, so a degenerate config imposes no
// constraint instead of silently disabling its rule
func TestEvaluateEmptyComposites(t *testing.T) {
	ctx := testContext()

	if !Evaluate(And(), ctx) {
		t.Error("empty and should be true")
	}
	if !Evaluate(Or(), ctx) {
		t.Error("empty or should be true")
	}
}

// TestEvaluateUnknownKind proves unrecognized kinds evaluate false rather
// than failing the quote
func TestEvaluateUnknownKind(t *testing.T) {
	ctx := testContext()

	c := &Condition{Kind: Kind("parameter_matches_regex"), Parameter: "institution.type"}
	if Evaluate(c, ctx) {
		t.Error("unknown condition kind should be false")
	}

	if Evaluate(nil, ctx) {
		t.Error("nil condition should be false")
	}
}

// TestEvaluateAlwaysNever pins the trivial kinds
func TestEvaluateAlwaysNever(t *testing.T) {
	ctx := testContext()

	if !Evaluate(Always(), ctx) {
		t.Error("always should be true")
	}
	if Evaluate(Never(), ctx) {
		t.Error("never should be false")
	}
}

// TestEvaluateExists distinguishes presence from truthiness
func TestEvaluateExists(t *testing.T) {
	ctx := params.NewContext(map[string]interface{}{
		"flags": map[string]interface{}{
			"disabled": false,
			"zero":     0,
			"empty":    "",
		},
	})

	for _, path := range []string{"flags.disabled", "flags.zero", "flags.empty"} {
		if !Evaluate(Exists(path), ctx) {
			t.Errorf("exists(%s) should be true for present falsy values", path)
		}
	}
}
