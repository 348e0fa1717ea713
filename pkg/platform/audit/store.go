package audit

import (
	"context"

	id "govern/pkg/domain"
)

// Store persists audit events. Implementations must be safe for concurrent
// use; Append is called from request paths and background workers alike.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByTenant(ctx context.Context, tenantID id.TenantID) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
