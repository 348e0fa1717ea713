package compliance

import "fmt"

// Severity ranks how serious a violation is.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// rank orders severities for caller-requested filtering.
func (s Severity) rank() int {
	switch s {
	case SeverityInfo:
		return 0
	case SeverityWarning:
		return 1
	case SeverityError:
		return 2
	case SeverityCritical:
		return 3
	}
	return -1
}

// AtLeast reports whether s is at or above min.
func (s Severity) AtLeast(min Severity) bool {
	return s.rank() >= min.rank()
}

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	return s.rank() >= 0
}

// Rule is one executable check: identifying metadata, the statute it
// enforces, and a pure evaluation function. Immutable once registered.
//
// Evaluate must be a synchronous function of the context alone. Absence of
// required input data means the rule contributes zero violations, not an
// error; one incomplete rule must never abort the rest of the pass.
type Rule struct {
	ID          string
	Name        string
	Description string
	Category    string
	Severity    Severity
	// Citation is the statutory basis, e.g. "IC 6-1.1-18-4".
	Citation string
	// OpinionID links an explanatory legal opinion, when one exists.
	OpinionID string
	// MessageTemplate is a fmt format string for violation messages.
	MessageTemplate string

	Evaluate func(EvalContext) []Violation
}

// Violation reports one failure of a rule against an entity, carrying the
// rule's metadata so it is self-describing without side lookups.
type Violation struct {
	RuleID    string   `json:"rule_id"`
	RuleName  string   `json:"rule_name"`
	Category  string   `json:"category"`
	Severity  Severity `json:"severity"`
	Citation  string   `json:"citation"`
	OpinionID string   `json:"opinion_id,omitempty"`

	Message           string `json:"message"`
	EntityType        string `json:"entity_type"`
	EntityID          string `json:"entity_id"`
	EntityDescription string `json:"entity_description,omitempty"`

	ActualValue   float64 `json:"actual_value"`
	ExpectedValue float64 `json:"expected_value"`
	// Details carries rule-specific values for audit trails.
	Details map[string]any `json:"details,omitempty"`
}

// Violation builds a violation bound to the rule's metadata. The message is
// the rule's template formatted with args.
func (r Rule) Violation(entityType, entityID string, args ...any) Violation {
	return Violation{
		RuleID:     r.ID,
		RuleName:   r.Name,
		Category:   r.Category,
		Severity:   r.Severity,
		Citation:   r.Citation,
		OpinionID:  r.OpinionID,
		Message:    fmt.Sprintf(r.MessageTemplate, args...),
		EntityType: entityType,
		EntityID:   entityID,
	}
}

// LegalOpinion is static reference material linking rules to their statutory
// basis. Read-only, created at bootstrap.
type LegalOpinion struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Title        string `json:"title"`
	Summary      string `json:"summary"`
	Jurisdiction string `json:"jurisdiction"`
	URL          string `json:"url,omitempty"`
}
