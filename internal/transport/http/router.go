// Package httptransport assembles the module handlers into one chi router
// grouped by role prefix.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accounthandler "zoopito/internal/account/handler"
	animalhandler "zoopito/internal/animal/handler"
	audithandler "zoopito/internal/audit"
	farmerhandler "zoopito/internal/farmer/handler"
	outreachhandler "zoopito/internal/outreach/handler"
	paravethandler "zoopito/internal/paravet/handler"
	"zoopito/internal/platform/metrics"
	platformmw "zoopito/internal/platform/middleware"
	ratelimitmw "zoopito/internal/ratelimit/middleware"
	ratelimitmodels "zoopito/internal/ratelimit/models"
	registrationhandler "zoopito/internal/registration/handler"
	saleshandler "zoopito/internal/salesteam/handler"
	vaccinationhandler "zoopito/internal/vaccination/handler"
	vaccinehandler "zoopito/internal/vaccine/handler"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/httputil"
	authmw "zoopito/pkg/platform/middleware/auth"
	"zoopito/pkg/platform/middleware/metadata"
	request "zoopito/pkg/platform/middleware/request"
	"zoopito/pkg/platform/middleware/requesttime"
)

// Handlers are the module handlers mounted by NewRouter.
type Handlers struct {
	Accounts      *accounthandler.Handler
	Farmers       *farmerhandler.Handler
	Paravets      *paravethandler.Handler
	SalesTeam     *saleshandler.Handler
	Vaccines      *vaccinehandler.Handler
	Animals       *animalhandler.Handler
	Vaccinations  *vaccinationhandler.Handler
	Registrations *registrationhandler.Handler
	Outreach      *outreachhandler.Handler
	Audit         *audithandler.Handler
}

// HealthCheck reports whether one backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Deps carries the cross-cutting pieces of the router.
type Deps struct {
	Logger         *slog.Logger
	Tokens         authmw.JWTValidator
	Accounts       authmw.AccountChecker
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	RequestTimeout time.Duration
	HealthChecks   map[string]HealthCheck
	// RateLimit may be nil, in which case no route is limited.
	RateLimit *ratelimitmw.Middleware
}

// NewRouter wires every endpoint behind the shared middleware stack.
func NewRouter(deps Deps, h Handlers) http.Handler {
	logger := deps.Logger
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(request.Recovery(logger))
	r.Use(request.Logger(logger))
	r.Use(platformmw.LatencyMiddleware(deps.Metrics))
	if deps.RequestTimeout > 0 {
		r.Use(request.Timeout(deps.RequestTimeout))
	}
	r.Use(request.ContentTypeJSON)

	r.Get("/healthz", healthHandler(deps.HealthChecks))
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	authenticated := authmw.RequireAuth(deps.Tokens, deps.Accounts, logger)
	allow := func(roles ...id.Role) func(http.Handler) http.Handler {
		return authmw.RequireRole(logger, roles...)
	}
	perIP := func(class ratelimitmodels.EndpointClass) func(http.Handler) http.Handler {
		if deps.RateLimit == nil {
			return passthrough
		}
		return deps.RateLimit.RateLimit(class)
	}
	perUser := func(class ratelimitmodels.EndpointClass) func(http.Handler) http.Handler {
		if deps.RateLimit == nil {
			return passthrough
		}
		return deps.RateLimit.RateLimitUser(class)
	}
	bulk := func(register func(chi.Router)) func(chi.Router) {
		return func(r chi.Router) {
			r.Use(perUser(ratelimitmodels.ClassBulk))
			register(r)
		}
	}

	r.Group(func(r chi.Router) {
		r.Use(perIP(ratelimitmodels.ClassPublicWrite))
		h.Outreach.RegisterPublic(r)
	})
	h.Vaccines.RegisterPublic(r)

	r.Group(func(r chi.Router) {
		r.Use(authenticated, allow(id.RoleAdmin))
		h.Vaccines.RegisterAdmin(r)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticated, allow(id.RoleAdmin))
		h.Accounts.Register(r)
		h.SalesTeam.Register(r)
		h.Farmers.Register(r)
		h.Paravets.Register(r)
		h.Animals.Register(r)
		r.Group(bulk(h.Registrations.RegisterAnimalBulk))
		h.Outreach.RegisterAdmin(r)
		h.Audit.Register(r)
	})

	r.Route("/sales", func(r chi.Router) {
		r.Use(authenticated, allow(id.RoleSales))
		h.Farmers.Register(r)
		h.Animals.Register(r)
		r.Group(bulk(h.Registrations.RegisterAnimalBulk))
		h.Paravets.RegisterReadOnly(r)
		h.SalesTeam.RegisterView(r)
	})

	r.Route("/vaccinations", func(r chi.Router) {
		r.Use(authenticated, allow(id.RoleAdmin, id.RoleSales, id.RoleParavet))
		h.Vaccinations.Register(r)
		h.Animals.RegisterFarmerLookup(r)
		r.Group(bulk(h.Registrations.Register))
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusNotFound, map[string]string{
			"error":             "not_found",
			"error_description": "Route not found",
		})
	})
	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		report := map[string]string{}
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				report[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			report[name] = "ok"
		}
		body := map[string]any{"status": "ok", "checks": report}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		httputil.WriteJSON(w, status, body)
	}
}
