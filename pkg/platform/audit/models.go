// Package audit captures significant platform actions for compliance review.
package audit

import (
	"time"

	id "govern/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance.
	// These require tamper-proof storage and long retention.
	// Examples: compliance evaluations, module enablement changes.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events useful for debugging and operational
	// visibility. These can be sampled or aggregated with shorter retention.
	// Examples: tenant creation, config resolutions.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	TenantID  id.TenantID
	Subject   string
	Action    string
	// Domain names the config/compliance domain involved, when any
	// (e.g. "finance").
	Domain   string
	Decision string
	Reason   string
	// RequestID is the correlation ID from HTTP request context.
	RequestID string
	// ActorID tracks the administrator who performed the action.
	ActorID string
}

type AuditEvent string

const (
	// Tenant lifecycle events
	EventTenantCreated       AuditEvent = "tenant_created"
	EventTenantModuleUpdated AuditEvent = "tenant_module_updated"

	// Jurisdiction/config events
	EventConfigResolved AuditEvent = "config_resolved"

	// Compliance events
	EventComplianceEvaluated AuditEvent = "compliance_evaluated"
)

// eventCategories maps each audit event to its category.
// Compliance: legal/regulatory significance, long retention required.
// Operations: debugging, operational visibility, can be sampled.
var eventCategories = map[AuditEvent]EventCategory{
	EventTenantModuleUpdated: CategoryCompliance,
	EventComplianceEvaluated: CategoryCompliance,

	EventTenantCreated:  CategoryOperations,
	EventConfigResolved: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
