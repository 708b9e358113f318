package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"zoopito/internal/ratelimit/metrics"
	"zoopito/internal/ratelimit/models"
	"zoopito/pkg/platform/circuit"
)

// BucketStore counts requests in a sliding window per key.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

// Limiter checks keys against per-class limits. With a fallback store, a
// circuit breaker moves checks to the fallback after repeated primary errors
// and back once the primary answers again.
type Limiter struct {
	primary  BucketStore
	fallback BucketStore
	breaker  *circuit.Breaker
	limits   map[models.EndpointClass]models.Limit
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type LimiterOption func(*Limiter)

func WithFallback(store BucketStore, breaker *circuit.Breaker) LimiterOption {
	return func(l *Limiter) {
		l.fallback = store
		l.breaker = breaker
	}
}

func WithLimiterLogger(logger *slog.Logger) LimiterOption {
	return func(l *Limiter) {
		l.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) LimiterOption {
	return func(l *Limiter) {
		l.metrics = m
	}
}

func NewLimiter(primary BucketStore, limits map[models.EndpointClass]models.Limit, opts ...LimiterOption) *Limiter {
	l := &Limiter{primary: primary, limits: limits}
	for _, opt := range opts {
		opt(l)
	}
	if l.fallback != nil && l.breaker == nil {
		l.breaker = circuit.New("ratelimit")
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Check admits or rejects one request for key. degraded reports that the
// fallback store answered.
func (l *Limiter) Check(ctx context.Context, key string, class models.EndpointClass) (result *models.RateLimitResult, degraded bool, err error) {
	limit, ok := l.limits[class]
	if !ok {
		return nil, false, fmt.Errorf("no limit configured for class %q", class)
	}

	result, err = l.primary.Allow(ctx, key, limit.RequestsPerWindow, limit.Window)
	if l.fallback == nil {
		if err == nil {
			l.observe(class, result)
		}
		return result, false, err
	}

	if err != nil {
		useFallback, change := l.breaker.RecordFailure()
		if change.Opened {
			l.logger.WarnContext(ctx, "rate limit store unhealthy, using in-memory fallback", "error", err)
			l.setCircuit(true)
		}
		if !useFallback {
			return nil, false, err
		}
		return l.fromFallback(ctx, key, class, limit)
	}

	usePrimary, change := l.breaker.RecordSuccess()
	if change.Closed {
		l.logger.InfoContext(ctx, "rate limit store recovered")
		l.setCircuit(false)
	}
	if !usePrimary {
		return l.fromFallback(ctx, key, class, limit)
	}
	l.observe(class, result)
	return result, false, nil
}

func (l *Limiter) fromFallback(ctx context.Context, key string, class models.EndpointClass, limit models.Limit) (*models.RateLimitResult, bool, error) {
	if l.metrics != nil {
		l.metrics.IncrementFallback()
	}
	result, err := l.fallback.Allow(ctx, key, limit.RequestsPerWindow, limit.Window)
	if err != nil {
		return nil, true, err
	}
	l.observe(class, result)
	return result, true, nil
}

func (l *Limiter) observe(class models.EndpointClass, result *models.RateLimitResult) {
	if l.metrics != nil && result != nil {
		l.metrics.ObserveDecision(string(class), result.Allowed)
	}
}

func (l *Limiter) setCircuit(open bool) {
	if l.metrics != nil {
		l.metrics.SetCircuitOpen(open)
	}
}
