package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"zoopito/internal/ratelimit/models"
	"zoopito/pkg/platform/httputil"
	"zoopito/pkg/requestcontext"
)

// RateLimiter decides whether the request identified by key may proceed.
type RateLimiter interface {
	Check(ctx context.Context, key string, class models.EndpointClass) (*models.RateLimitResult, bool, error)
}

type Middleware struct {
	limiter  RateLimiter
	logger   *slog.Logger
	disabled bool
}

type Option func(*Middleware)

// WithDisabled disables rate limiting entirely (for testing/demo mode).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func New(limiter RateLimiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		limiter: limiter,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimit limits anonymous traffic per client IP.
func (m *Middleware) RateLimit(class models.EndpointClass) func(http.Handler) http.Handler {
	return m.limit(class, "Too many requests from this IP address. Please try again later.",
		func(ctx context.Context) string {
			return models.NewIPKey(requestcontext.ClientIP(ctx), class)
		})
}

// RateLimitUser limits authenticated traffic per user, or per IP when the
// request carries no principal.
func (m *Middleware) RateLimitUser(class models.EndpointClass) func(http.Handler) http.Handler {
	return m.limit(class, "You have exceeded your request quota for this operation.",
		func(ctx context.Context) string {
			if userID := requestcontext.UserID(ctx); !userID.IsNil() {
				return models.NewUserKey(userID.String(), class)
			}
			return models.NewIPKey(requestcontext.ClientIP(ctx), class)
		})
}

func (m *Middleware) limit(class models.EndpointClass, message string, keyOf func(context.Context) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			result, degraded, err := m.limiter.Check(ctx, keyOf(ctx), class)
			if err != nil {
				m.logger.ErrorContext(ctx, "failed to check rate limit",
					"error", err,
					"class", class,
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result, degraded)
			if !result.Allowed {
				m.logger.WarnContext(ctx, "rate limit exceeded",
					"class", class,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeRateLimitExceeded(w, result, message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult, degraded bool) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
	if degraded {
		w.Header().Set("X-RateLimit-Status", "degraded")
	}
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult, message string) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:            "rate_limit_exceeded",
		ErrorDescription: message,
		RetryAfter:       result.RetryAfter,
	})
}
