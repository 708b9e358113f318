package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"zoopito/internal/vaccination/metrics"
	vaccinationmodels "zoopito/internal/vaccination/models"
	"zoopito/pkg/requestcontext"
)

// Source lists the records a sweep reminds about.
type Source interface {
	Upcoming(ctx context.Context, days int) ([]*vaccinationmodels.Vaccination, error)
	Overdue(ctx context.Context) ([]*vaccinationmodels.Vaccination, error)
}

// Publisher delivers reminders.
type Publisher interface {
	Publish(ctx context.Context, n Notification) error
}

// Worker runs the reminder sweep on a fixed interval.
type Worker struct {
	source    Source
	publisher Publisher
	interval  time.Duration
	lookahead time.Duration
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time

	mu   sync.Mutex
	sent map[key]struct{}
}

type Option func(*Worker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

// WithClock replaces the wall clock used to stamp sweeps.
func WithClock(now func() time.Time) Option {
	return func(w *Worker) {
		w.now = now
	}
}

func NewWorker(source Source, publisher Publisher, interval, lookahead time.Duration, opts ...Option) (*Worker, error) {
	if source == nil {
		return nil, fmt.Errorf("source is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("publisher is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive")
	}
	w := &Worker{
		source:    source,
		publisher: publisher,
		interval:  interval,
		lookahead: lookahead,
		now:       time.Now,
		sent:      make(map[key]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w, nil
}

// Run sweeps immediately and then on every tick until ctx is cancelled.
// A failed sweep is logged and retried on the next tick.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.Sweep(ctx); err != nil && ctx.Err() == nil {
			w.logger.ErrorContext(ctx, "reminder sweep failed", "error", err)
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil
		}
	}
}

// Sweep publishes reminders for records not reminded yet and returns how many were sent.
func (w *Worker) Sweep(ctx context.Context) (int, error) {
	now := w.now()
	ctx = requestcontext.WithTime(ctx, now)

	upcoming, err := w.source.Upcoming(ctx, w.lookaheadDays())
	if err != nil {
		return 0, fmt.Errorf("load upcoming vaccinations: %w", err)
	}
	overdue, err := w.source.Overdue(ctx)
	if err != nil {
		return 0, fmt.Errorf("load overdue vaccinations: %w", err)
	}

	pending := make([]Notification, 0, len(upcoming)+len(overdue))
	for _, v := range upcoming {
		if v.NextDueDate != nil {
			pending = append(pending, newNotification(v, KindDue, now))
		}
	}
	for _, v := range overdue {
		if v.NextDueDate != nil {
			pending = append(pending, newNotification(v, KindOverdue, now))
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	live := make(map[key]struct{}, len(pending))
	sent := 0
	var errs []error
	for _, n := range pending {
		k := keyOf(n)
		live[k] = struct{}{}
		if _, done := w.sent[k]; done {
			continue
		}
		if err := w.publisher.Publish(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("publish reminder %s: %w", n.VaccinationID, err))
			continue
		}
		w.sent[k] = struct{}{}
		sent++
		if w.metrics != nil {
			w.metrics.IncrementReminder(string(n.Kind))
		}
	}
	// Records that left both lists were completed or rescheduled; forget them.
	for k := range w.sent {
		if _, ok := live[k]; !ok {
			delete(w.sent, k)
		}
	}

	w.logger.InfoContext(ctx, "reminder sweep finished",
		"upcoming", len(upcoming),
		"overdue", len(overdue),
		"published", sent,
	)
	return sent, errors.Join(errs...)
}

func (w *Worker) lookaheadDays() int {
	days := int(w.lookahead / (24 * time.Hour))
	if days < 1 {
		return vaccinationmodels.UpcomingDefaultDays
	}
	return days
}
