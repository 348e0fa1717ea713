package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emitN(rule Rule, n int) Rule {
	rule.Evaluate = func(EvalContext) []Violation {
		out := make([]Violation, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, rule.Violation("fund", "f-1"))
		}
		return out
	}
	return rule
}

func TestEvaluateOrdering(t *testing.T) {
	first := emitN(Rule{ID: "r-first", Severity: SeverityWarning, MessageTemplate: "first"}, 2)
	second := emitN(Rule{ID: "r-second", Severity: SeverityCritical, MessageTemplate: "second"}, 1)

	engine := NewEngine([]Rule{first, second}, nil)
	violations := engine.Evaluate(EvalContext{})

	require.Len(t, violations, 3)
	// Registration order, never severity order.
	assert.Equal(t, "r-first", violations[0].RuleID)
	assert.Equal(t, "r-first", violations[1].RuleID)
	assert.Equal(t, "r-second", violations[2].RuleID)
}

func TestEvaluateIsolation(t *testing.T) {
	t.Run("rule lacking its inputs contributes zero violations", func(t *testing.T) {
		needsFunds := Rule{ID: "needs-funds", MessageTemplate: "x", Evaluate: func(ctx EvalContext) []Violation {
			out := []Violation{}
			for _, f := range ctx.Funds {
				if f.CurrentBalance < 0 {
					out = append(out, Violation{RuleID: "needs-funds"})
				}
			}
			return out
		}}
		alwaysFires := emitN(Rule{ID: "always", MessageTemplate: "y"}, 1)

		engine := NewEngine([]Rule{needsFunds, alwaysFires}, nil)
		violations := engine.Evaluate(EvalContext{}) // no funds supplied

		require.Len(t, violations, 1)
		assert.Equal(t, "always", violations[0].RuleID)
	})

	t.Run("panicking rule does not abort the pass", func(t *testing.T) {
		broken := Rule{ID: "broken", Evaluate: func(ctx EvalContext) []Violation {
			return []Violation{{RuleID: ctx.AdditionalData["missing"].(string)}}
		}}
		healthy := emitN(Rule{ID: "healthy", MessageTemplate: "z"}, 1)

		engine := NewEngine([]Rule{broken, healthy}, nil)
		violations := engine.Evaluate(EvalContext{})

		require.Len(t, violations, 1)
		assert.Equal(t, "healthy", violations[0].RuleID)
	})

	t.Run("nil evaluate function is skipped", func(t *testing.T) {
		engine := NewEngine([]Rule{{ID: "metadata-only"}}, nil)
		assert.Empty(t, engine.Evaluate(EvalContext{}))
	})
}

func TestEvaluateBySeverity(t *testing.T) {
	engine := NewEngine([]Rule{
		emitN(Rule{ID: "info", Severity: SeverityInfo, MessageTemplate: "i"}, 1),
		emitN(Rule{ID: "warn", Severity: SeverityWarning, MessageTemplate: "w"}, 1),
		emitN(Rule{ID: "crit", Severity: SeverityCritical, MessageTemplate: "c"}, 1),
	}, nil)

	filtered := engine.EvaluateBySeverity(EvalContext{}, SeverityWarning)
	require.Len(t, filtered, 2)
	assert.Equal(t, "warn", filtered[0].RuleID)
	assert.Equal(t, "crit", filtered[1].RuleID)
}

func TestEngineImmutability(t *testing.T) {
	rules := []Rule{emitN(Rule{ID: "r1", MessageTemplate: "m"}, 1)}
	engine := NewEngine(rules, nil)

	// Mutating the caller's slice after construction must not affect the engine.
	rules[0] = emitN(Rule{ID: "mutated", MessageTemplate: "m"}, 1)

	violations := engine.Evaluate(EvalContext{})
	require.Len(t, violations, 1)
	assert.Equal(t, "r1", violations[0].RuleID)
}

func TestOpinionLookup(t *testing.T) {
	engine := NewEngine(nil, []LegalOpinion{
		{ID: "op-1", Code: "OAG 86-4", Title: "Transfers between funds"},
	})

	op, ok := engine.Opinion("op-1")
	require.True(t, ok)
	assert.Equal(t, "OAG 86-4", op.Code)

	_, ok = engine.Opinion("op-2")
	assert.False(t, ok)
}

func TestRuleViolationBinding(t *testing.T) {
	rule := Rule{
		ID:              "ind-fin-001",
		Name:            "Appropriation Exceeded",
		Category:        "budget",
		Severity:        SeverityError,
		Citation:        "IC 6-1.1-18-4",
		OpinionID:       "op-appropriation",
		MessageTemplate: "fund %s overspent by %.2f",
	}

	v := rule.Violation("fund", "101", "General", 2000.0)
	assert.Equal(t, "ind-fin-001", v.RuleID)
	assert.Equal(t, SeverityError, v.Severity)
	assert.Equal(t, "IC 6-1.1-18-4", v.Citation)
	assert.Equal(t, "fund General overspent by 2000.00", v.Message)
	assert.Equal(t, "fund", v.EntityType)
	assert.Equal(t, "101", v.EntityID)
}

func TestSeverityRanking(t *testing.T) {
	assert.True(t, SeverityCritical.AtLeast(SeverityInfo))
	assert.True(t, SeverityWarning.AtLeast(SeverityWarning))
	assert.False(t, SeverityInfo.AtLeast(SeverityError))
}
