package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"zoopito/internal/ratelimit/metrics"
	"zoopito/internal/ratelimit/models"
	"zoopito/internal/ratelimit/store/bucket"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/circuit"
	"zoopito/pkg/requestcontext"
)

// flakyStore fails while down is set and otherwise delegates to an in-memory bucket.
type flakyStore struct {
	down  bool
	inner *bucket.InMemoryBucketStore
}

func (f *flakyStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	if f.down {
		return nil, errors.New("redis: connection refused")
	}
	return f.inner.Allow(ctx, key, limit, window)
}

var testLimits = map[models.EndpointClass]models.Limit{
	models.ClassPublicWrite: {RequestsPerWindow: 2, Window: time.Minute},
	models.ClassBulk:        {RequestsPerWindow: 1, Window: time.Hour},
}

type RateLimitMiddlewareSuite struct {
	suite.Suite
	primary *flakyStore
	metrics *metrics.Metrics
	limiter *Limiter
	mw      *Middleware
}

func TestRateLimitMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(RateLimitMiddlewareSuite))
}

func (s *RateLimitMiddlewareSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.primary = &flakyStore{inner: bucket.New()}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.limiter = NewLimiter(s.primary, testLimits,
		WithFallback(bucket.New(), circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(1))),
		WithLimiterLogger(logger),
		WithMetrics(s.metrics),
	)
	s.mw = New(s.limiter, logger)
}

func (s *RateLimitMiddlewareSuite) serve(h http.Handler, ip string, userID id.UserID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/contact", nil)
	ctx := requestcontext.WithClientMetadata(req.Context(), ip, "test-agent")
	if !userID.IsNil() {
		ctx = requestcontext.WithPrincipal(ctx, userID, id.RoleSales)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req.WithContext(ctx))
	return rr
}

func ok() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
}

func (s *RateLimitMiddlewareSuite) TestPerIPLimit() {
	h := s.mw.RateLimit(models.ClassPublicWrite)(ok())

	rr := s.serve(h, "10.0.0.1", id.UserID{})
	s.Equal(http.StatusCreated, rr.Code)
	s.Equal("2", rr.Header().Get("X-RateLimit-Limit"))
	s.Equal("1", rr.Header().Get("X-RateLimit-Remaining"))

	s.Equal(http.StatusCreated, s.serve(h, "10.0.0.1", id.UserID{}).Code)
	rr = s.serve(h, "10.0.0.1", id.UserID{})
	s.Equal(http.StatusTooManyRequests, rr.Code)
	s.NotEmpty(rr.Header().Get("Retry-After"))
	s.Contains(rr.Body.String(), "rate_limit_exceeded")

	s.Equal(http.StatusCreated, s.serve(h, "10.0.0.2", id.UserID{}).Code)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Decisions.WithLabelValues("public_write", "blocked")))
}

func (s *RateLimitMiddlewareSuite) TestPerUserLimit() {
	h := s.mw.RateLimitUser(models.ClassBulk)(ok())
	agent := id.NewUserID()

	s.Equal(http.StatusCreated, s.serve(h, "10.0.0.1", agent).Code)
	s.Equal(http.StatusTooManyRequests, s.serve(h, "10.0.0.2", agent).Code)
	s.Equal(http.StatusCreated, s.serve(h, "10.0.0.1", id.NewUserID()).Code)
}

func (s *RateLimitMiddlewareSuite) TestFallbackWhilePrimaryDown() {
	h := s.mw.RateLimit(models.ClassPublicWrite)(ok())
	s.primary.down = true

	// below the failure threshold the error fails open
	rr := s.serve(h, "10.0.0.9", id.UserID{})
	s.Equal(http.StatusCreated, rr.Code)
	s.Empty(rr.Header().Get("X-RateLimit-Status"))

	rr = s.serve(h, "10.0.0.9", id.UserID{})
	s.Equal(http.StatusCreated, rr.Code)
	s.Equal("degraded", rr.Header().Get("X-RateLimit-Status"))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.CircuitOpen))

	s.Equal(http.StatusCreated, s.serve(h, "10.0.0.9", id.UserID{}).Code)
	s.Equal(http.StatusTooManyRequests, s.serve(h, "10.0.0.9", id.UserID{}).Code)

	s.primary.down = false
	rr = s.serve(h, "10.0.0.10", id.UserID{})
	s.Equal(http.StatusCreated, rr.Code)
	s.Empty(rr.Header().Get("X-RateLimit-Status"))
	s.Equal(0.0, testutil.ToFloat64(s.metrics.CircuitOpen))
}

func (s *RateLimitMiddlewareSuite) TestDisabled() {
	mw := New(s.limiter, slog.New(slog.NewTextHandler(io.Discard, nil)), WithDisabled(true))
	h := mw.RateLimit(models.ClassPublicWrite)(ok())
	for range 5 {
		s.Equal(http.StatusCreated, s.serve(h, "10.0.0.1", id.UserID{}).Code)
	}
}

func TestLimiterRejectsUnknownClass(t *testing.T) {
	l := NewLimiter(bucket.New(), testLimits)
	_, _, err := l.Check(context.Background(), "k", models.EndpointClass("export"))
	require.Error(t, err)
}

func TestKeysEscapeDelimiter(t *testing.T) {
	assert.Equal(t, "rl:user:a_b:bulk", models.NewUserKey("a:b", models.ClassBulk))
	assert.Equal(t, "rl:ip:__1:public_write", models.NewIPKey("::1", models.ClassPublicWrite))
}
