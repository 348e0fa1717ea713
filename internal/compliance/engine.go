package compliance

// Engine holds an immutable set of rules plus linked legal opinions for one
// jurisdiction (or a composite) and evaluates them against snapshots.
//
// Construction is pure: no I/O. A jurisdiction module typically builds one
// engine containing all of its rules at bootstrap.
type Engine struct {
	rules    []Rule
	opinions map[string]LegalOpinion
}

// NewEngine builds an engine over copies of the given rules and opinions, so
// later mutation of the caller's slices cannot corrupt the engine.
func NewEngine(rules []Rule, opinions []LegalOpinion) *Engine {
	rs := make([]Rule, len(rules))
	copy(rs, rules)

	ops := make(map[string]LegalOpinion, len(opinions))
	for _, op := range opinions {
		ops[op.ID] = op
	}
	return &Engine{rules: rs, opinions: ops}
}

// Evaluate runs every rule against the context and concatenates their
// violations: each rule's internal ordering is preserved, and rules appear
// in registration order. No re-sorting by severity happens here.
//
// Rules are isolated: a rule that panics on unexpected input contributes
// zero violations and the remaining rules still run.
func (e *Engine) Evaluate(ctx EvalContext) []Violation {
	violations := []Violation{}
	for _, rule := range e.rules {
		violations = append(violations, e.evaluateOne(rule, ctx)...)
	}
	return violations
}

// EvaluateBySeverity runs Evaluate and keeps only violations at or above
// min. Ordering is unchanged; this is the caller-requested filter, not a
// re-sort.
func (e *Engine) EvaluateBySeverity(ctx EvalContext, min Severity) []Violation {
	filtered := []Violation{}
	for _, v := range e.Evaluate(ctx) {
		if v.Severity.AtLeast(min) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

func (e *Engine) evaluateOne(rule Rule, ctx EvalContext) (out []Violation) {
	if rule.Evaluate == nil {
		return nil
	}
	// Rules are contracted not to panic on missing optional data, but one
	// broken rule must not abort the pass.
	defer func() {
		if r := recover(); r != nil {
			out = nil
		}
	}()
	return rule.Evaluate(ctx)
}

// Rules returns the registered rules in registration order, without their
// evaluate functions exposed to mutation (the slice is a copy).
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Opinion returns the legal opinion registered under id.
func (e *Engine) Opinion(id string) (LegalOpinion, bool) {
	op, ok := e.opinions[id]
	return op, ok
}

// Opinions returns all registered opinions keyed by ID.
func (e *Engine) Opinions() map[string]LegalOpinion {
	out := make(map[string]LegalOpinion, len(e.opinions))
	for k, v := range e.opinions {
		out[k] = v
	}
	return out
}
