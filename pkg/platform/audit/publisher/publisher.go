// Package publisher emits audit events to a store, optionally through an
// asynchronous buffer so request paths never block on the sink.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	id "govern/pkg/domain"
	audit "govern/pkg/platform/audit"
)

// ErrBufferFull is returned when the async buffer cannot accept an event.
// Audit emission is best-effort in async mode; callers may log and move on.
var ErrBufferFull = errors.New("audit buffer full")

// ErrClosed is returned by Emit after Close in async mode.
var ErrClosed = errors.New("audit publisher closed")

type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	// async mode; mu orders Emit's channel send against Close so a late
	// Emit returns ErrClosed instead of sending on a closed channel.
	inbox  chan audit.Event
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool

	closeOnce sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer makes Emit non-blocking with the given buffer size.
// Events still pending at Close are drained before Close returns.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan audit.Event, size)
	}
}

// WithLogger sets the logger used to report sink failures in async mode.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for event := range p.inbox {
		if err := p.store.Append(context.Background(), event); err != nil {
			p.logger.Error("audit append failed",
				slog.String("action", event.Action),
				slog.String("error", err.Error()))
		}
	}
}

// Emit records an event. In sync mode it appends directly; in async mode it
// enqueues and returns ErrBufferFull when the buffer is saturated.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	select {
	case p.inbox <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrBufferFull
	}
}

func (p *Publisher) List(ctx context.Context, tenantID id.TenantID) ([]audit.Event, error) {
	return p.store.ListByTenant(ctx, tenantID)
}

// Close drains the async buffer and stops the worker. Safe to call more
// than once.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		if p.inbox == nil {
			return
		}
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.inbox)
		p.wg.Wait()
	})
}
