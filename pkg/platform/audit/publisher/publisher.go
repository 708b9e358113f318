// Package publisher fans audit events out to a store, synchronously or through a bounded buffer.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	audit "zoopito/pkg/platform/audit"
	"zoopito/pkg/requestcontext"
)

// ErrBufferFull is returned in async mode when the buffer cannot take another event.
var ErrBufferFull = errors.New("audit buffer full")

// Publisher enriches events with request metadata and appends them to a store.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	events chan audit.Event
	wg     sync.WaitGroup
	once   sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer makes Emit non-blocking: events are queued and written by a background goroutine.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan audit.Event, size)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// NewPublisher builds a publisher. Call Close to drain the async buffer.
func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.events != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records event. Timestamp, actor, request ID, client IP and device default from ctx.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	event = enrich(ctx, event)
	if p.logger != nil {
		p.logger.InfoContext(ctx, "audit",
			"action", event.Action,
			"subject", event.Subject,
			"subject_id", event.SubjectID,
			"actor_id", event.ActorID,
			"request_id", event.RequestID,
		)
	}

	if p.events == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrBufferFull
	}
}

// List returns stored events, newest first.
func (p *Publisher) List(ctx context.Context, filter audit.Filter, offset, limit int) ([]audit.Event, int, error) {
	return p.store.List(ctx, filter, offset, limit)
}

// Close stops accepting async events and waits until the buffer is written.
func (p *Publisher) Close() {
	if p.events == nil {
		return
	}
	p.once.Do(func() {
		close(p.events)
	})
	p.wg.Wait()
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.events {
		if err := p.store.Append(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Error("failed to persist audit event",
				"action", event.Action,
				"error", err,
			)
		}
	}
}

func enrich(ctx context.Context, event audit.Event) audit.Event {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.ActorID.IsNil() {
		event.ActorID = requestcontext.UserID(ctx)
	}
	if event.ActorRole == "" {
		event.ActorRole = requestcontext.Role(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.Device == "" {
		if ua := requestcontext.UserAgent(ctx); ua != "" {
			event.Device = audit.ParseUserAgent(ua)
		}
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	return event
}
