package httptransport_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	accountmodels "zoopito/internal/account/models"
	"zoopito/internal/app"
	jwttoken "zoopito/internal/jwt_token"
	"zoopito/internal/platform/config"
	"zoopito/internal/platform/metrics"
	httptransport "zoopito/internal/transport/http"
	id "zoopito/pkg/domain"
	"zoopito/pkg/testutil"
)

type RouterSuite struct {
	suite.Suite
	services *app.Services
	tokens   *jwttoken.JWTService
	router   http.Handler
	admin    string
	sales    string
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	services, err := app.NewServices(app.MemoryStores(time.Minute), app.Options{Logger: logger, Registerer: reg})
	s.Require().NoError(err)
	s.services = services
	s.tokens = jwttoken.NewJWTService("router-test-key", "zoopito")

	s.router = httptransport.NewRouter(httptransport.Deps{
		Logger:         logger,
		Tokens:         jwttoken.NewJWTServiceAdapter(s.tokens),
		Accounts:       services.Accounts,
		Metrics:        metrics.NewWithRegistry(reg),
		Gatherer:       reg,
		RequestTimeout: 5 * time.Second,
		HealthChecks: map[string]httptransport.HealthCheck{
			"store": func(context.Context) error { return nil },
		},
	}, services.Handlers(logger))

	s.admin = s.tokenFor(accountmodels.CreateUserRequest{
		Name: "Root Admin", Email: "root@zoopito.test", Mobile: "9000000001", Role: id.RoleAdmin,
	})
	s.sales = s.tokenFor(accountmodels.CreateUserRequest{
		Name: "Field Agent", Email: "agent@zoopito.test", Mobile: "9000000002", Role: id.RoleSales,
	})
}

func (s *RouterSuite) TearDownTest() {
	s.services.Close()
}

func (s *RouterSuite) tokenFor(req accountmodels.CreateUserRequest) string {
	created, err := s.services.Accounts.Create(context.Background(), req)
	s.Require().NoError(err)
	token, err := s.tokens.GenerateAccessToken(created.ID, created.Role, time.Hour)
	s.Require().NoError(err)
	return token
}

func (s *RouterSuite) do(req *http.Request, token string) int {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return testutil.DoRequest(s.router, req).Code
}

func (s *RouterSuite) TestHealthAndMetrics() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/healthz"))
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "status", "ok")

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/metrics"))
	testutil.AssertStatusOK(s.T(), rr)
	s.Contains(rr.Body.String(), "zoopito_http_requests_total")
}

func (s *RouterSuite) TestDegradedHealth() {
	router := httptransport.NewRouter(httptransport.Deps{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tokens: jwttoken.NewJWTServiceAdapter(s.tokens),
		HealthChecks: map[string]httptransport.HealthCheck{
			"postgres": func(context.Context) error { return errors.New("connection refused") },
		},
	}, s.services.Handlers(slog.Default()))
	rr := testutil.DoRequest(router, testutil.NewRequest(s.T(), http.MethodGet, "/healthz"))
	testutil.AssertStatus(s.T(), rr, http.StatusServiceUnavailable)
	testutil.AssertJSONContains(s.T(), rr, "status", "degraded")
}

func (s *RouterSuite) TestAuthentication() {
	s.Equal(http.StatusUnauthorized, s.do(testutil.NewRequest(s.T(), http.MethodGet, "/admin/users"), ""))
	s.Equal(http.StatusUnauthorized, s.do(testutil.NewRequest(s.T(), http.MethodGet, "/admin/users"), "not-a-token"))

	stranger, err := s.tokens.GenerateAccessToken(id.NewUserID(), id.RoleAdmin, time.Hour)
	s.Require().NoError(err)
	s.Equal(http.StatusForbidden, s.do(testutil.NewRequest(s.T(), http.MethodGet, "/admin/users"), stranger))
}

func (s *RouterSuite) TestRoleGroups() {
	s.Equal(http.StatusOK, s.do(testutil.NewRequest(s.T(), http.MethodGet, "/admin/users"), s.admin))
	s.Equal(http.StatusForbidden, s.do(testutil.NewRequest(s.T(), http.MethodGet, "/admin/users"), s.sales))
	s.Equal(http.StatusOK, s.do(testutil.NewRequest(s.T(), http.MethodGet, "/sales/farmers"), s.sales))
	s.Equal(http.StatusForbidden, s.do(testutil.NewRequest(s.T(), http.MethodGet, "/sales/farmers"), s.admin))
	s.Equal(http.StatusOK, s.do(testutil.NewRequest(s.T(), http.MethodGet, "/vaccinations/stats"), s.sales))
	s.Equal(http.StatusOK, s.do(testutil.NewRequest(s.T(), http.MethodGet, "/admin/audit"), s.admin))
}

func (s *RouterSuite) TestVaccineCatalogueAccess() {
	s.Equal(http.StatusOK, s.do(testutil.NewRequest(s.T(), http.MethodGet, "/vaccines"), ""))

	body := map[string]any{
		"name":                 "FMD Trivalent",
		"brand":                "Raksha",
		"vaccine_type":         "Inactivated",
		"disease_target":       "Foot and Mouth Disease",
		"administration_route": "Subcutaneous",
		"target_species":       []string{"cattle"},
	}
	s.Equal(http.StatusUnauthorized, s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/vaccines", body), ""))
	s.Equal(http.StatusForbidden, s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/vaccines", body), s.sales))
	s.Equal(http.StatusCreated, s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/vaccines", body), s.admin))
}

func (s *RouterSuite) TestPublicOutreach() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/subscribe",
		map[string]string{"email": "reader@zoopito.test"}))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
}

func (s *RouterSuite) TestPublicWritesAreRateLimited() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limits := config.RateLimitConfig{Enabled: true, PublicWritePerMinute: 1, BulkPerHour: 1}
	router := httptransport.NewRouter(httptransport.Deps{
		Logger:    logger,
		Tokens:    jwttoken.NewJWTServiceAdapter(s.tokens),
		Accounts:  s.services.Accounts,
		RateLimit: app.NewRateLimit(limits, nil, logger, prometheus.NewRegistry()),
	}, s.services.Handlers(logger))

	body := map[string]string{"email": "first@zoopito.test"}
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/subscribe", body))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)

	body["email"] = "second@zoopito.test"
	rr = testutil.DoRequest(router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/subscribe", body))
	testutil.AssertStatus(s.T(), rr, http.StatusTooManyRequests)

	// catalogue reads are not limited
	for range 3 {
		rr = testutil.DoRequest(router, testutil.NewRequest(s.T(), http.MethodGet, "/vaccines"))
		testutil.AssertStatusOK(s.T(), rr)
	}
}

func (s *RouterSuite) TestUnknownRoute() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/nowhere"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *RouterSuite) TestRejectsNonJSONBody() {
	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/contact", "name=x")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusUnsupportedMediaType)
}
