// Package failover pairs a primary audit sink with a local fallback so audit
// writes survive broker outages. A circuit breaker decides which side takes
// traffic; reads always come from the fallback since write-only sinks cannot
// serve them.
package failover

import (
	"context"
	"log/slog"

	id "govern/pkg/domain"
	audit "govern/pkg/platform/audit"
	"govern/pkg/platform/circuit"
)

type Store struct {
	primary  audit.Store
	fallback audit.Store
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func New(primary, fallback audit.Store, logger *slog.Logger) *Store {
	return &Store{
		primary:  primary,
		fallback: fallback,
		breaker:  circuit.New("audit-primary", circuit.WithFailureThreshold(3), circuit.WithSuccessThreshold(2)),
		logger:   logger,
	}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	if s.breaker.IsOpen() {
		// Probe the primary so the breaker can close again, but never lose
		// the event: the fallback is authoritative while open.
		if err := s.primary.Append(ctx, event); err == nil {
			if usePrimary, change := s.breaker.RecordSuccess(); usePrimary || change.Closed {
				s.logger.InfoContext(ctx, "audit primary recovered",
					slog.String("breaker", s.breaker.Name()))
			}
			return nil
		}
		return s.fallback.Append(ctx, event)
	}

	err := s.primary.Append(ctx, event)
	if err == nil {
		s.breaker.RecordSuccess()
		return nil
	}

	if _, change := s.breaker.RecordFailure(); change.Opened {
		s.logger.WarnContext(ctx, "audit primary unavailable, failing over",
			slog.String("breaker", s.breaker.Name()),
			slog.String("error", err.Error()))
	}
	return s.fallback.Append(ctx, event)
}

func (s *Store) ListByTenant(ctx context.Context, tenantID id.TenantID) ([]audit.Event, error) {
	return s.fallback.ListByTenant(ctx, tenantID)
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	return s.fallback.ListRecent(ctx, limit)
}
