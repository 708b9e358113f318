package app

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"zoopito/internal/platform/config"
	"zoopito/internal/ratelimit/metrics"
	ratelimitmw "zoopito/internal/ratelimit/middleware"
	"zoopito/internal/ratelimit/models"
	"zoopito/internal/ratelimit/store/bucket"
	"zoopito/pkg/platform/circuit"
)

// NewRateLimit builds the rate limit middleware. With a Redis client the
// windows are shared between instances and fall back to memory while Redis is
// unhealthy; without one they are per process.
func NewRateLimit(cfg config.RateLimitConfig, client *redis.Client, logger *slog.Logger, reg prometheus.Registerer) *ratelimitmw.Middleware {
	limits := map[models.EndpointClass]models.Limit{
		models.ClassPublicWrite: {RequestsPerWindow: cfg.PublicWritePerMinute, Window: time.Minute},
		models.ClassBulk:        {RequestsPerWindow: cfg.BulkPerHour, Window: time.Hour},
	}
	opts := []ratelimitmw.LimiterOption{
		ratelimitmw.WithLimiterLogger(logger),
		ratelimitmw.WithMetrics(metrics.New(reg)),
	}

	var primary ratelimitmw.BucketStore = bucket.New()
	if client != nil {
		primary = bucket.NewRedis(client)
		opts = append(opts, ratelimitmw.WithFallback(bucket.New(), circuit.New("ratelimit-redis")))
	}
	limiter := ratelimitmw.NewLimiter(primary, limits, opts...)
	return ratelimitmw.New(limiter, logger, ratelimitmw.WithDisabled(!cfg.Enabled))
}
