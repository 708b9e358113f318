package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"zoopito/internal/vaccination/models"
	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	"zoopito/pkg/platform/httputil"
)

// Service defines the vaccination operations exposed over HTTP.
type Service interface {
	Record(ctx context.Context, req models.RecordRequest) (*models.Vaccination, error)
	Get(ctx context.Context, vaccinationID id.VaccinationID) (*models.Vaccination, error)
	Update(ctx context.Context, vaccinationID id.VaccinationID, req models.UpdateRequest) (*models.Vaccination, error)
	Delete(ctx context.Context, vaccinationID id.VaccinationID) error
	Verify(ctx context.Context, vaccinationID id.VaccinationID, req models.VerifyRequest) (*models.Vaccination, error)
	MarkMissed(ctx context.Context, vaccinationID id.VaccinationID, req models.MissedRequest) (*models.Vaccination, error)
	Reschedule(ctx context.Context, vaccinationID id.VaccinationID, req models.RescheduleRequest) (*models.Vaccination, error)
	MarkAdministered(ctx context.Context, vaccinationID id.VaccinationID, req models.AdministerRequest) (*models.Vaccination, error)
	CalculateNextDue(ctx context.Context, req models.NextDueRequest) (models.NextDueResult, error)
	Dashboard(ctx context.Context, filter models.DashboardFilter, offset, limit int) ([]*models.Vaccination, int, error)
	Stats(ctx context.Context) (models.Stats, error)
	Upcoming(ctx context.Context, days int) ([]*models.Vaccination, error)
	Overdue(ctx context.Context) ([]*models.Vaccination, error)
	FarmerStats(ctx context.Context, farmerID id.FarmerID) (models.FarmerStats, error)
	FindByBatch(ctx context.Context, batchID string) ([]*models.Vaccination, error)
}

type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the vaccination routes relative to the /vaccinations prefix.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.handleDashboard)
	r.Post("/", h.handleRecord)
	r.Get("/stats", h.handleStats)
	r.Post("/calculate-next-due", h.handleNextDue)
	r.Get("/upcoming", h.handleUpcoming)
	r.Get("/overdue", h.handleOverdue)
	r.Get("/farmers/{farmerId}/stats", h.handleFarmerStats)
	r.Get("/batch/{batchId}", h.handleBatch)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
	r.Patch("/{id}/verify", h.handleVerify)
	r.Patch("/{id}/missed", h.handleMissed)
	r.Patch("/{id}/reschedule", h.handleReschedule)
	r.Patch("/{id}/administer", h.handleAdminister)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	page := httputil.PageFromQuery(r, 10)
	q := r.URL.Query()
	filter := models.DashboardFilter{
		Window: models.Window(q.Get("status")),
		Search: q.Get("search"),
	}
	if filter.Window != "" && !filter.Window.Valid() {
		httputil.Fail(w, r, h.logger, "invalid dashboard window",
			dErrors.New(dErrors.CodeBadRequest, "status must be one of today, week, upcoming, overdue"))
		return
	}
	if raw := q.Get("vaccine"); raw != "" {
		vaccineID, err := id.ParseVaccineID(raw)
		if err != nil {
			httputil.Fail(w, r, h.logger, "invalid vaccine filter", err)
			return
		}
		filter.VaccineID = vaccineID
	}
	out, total, err := h.svc.Dashboard(r.Context(), filter, page.Offset(), page.Limit)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to load vaccination dashboard", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginated(out, page, total))
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	var req models.RecordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(w, r, h.logger, "invalid vaccination request", err)
		return
	}
	v, err := h.svc.Record(r.Context(), req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to record vaccination", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, v)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to compute vaccination stats", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleNextDue(w http.ResponseWriter, r *http.Request) {
	var req models.NextDueRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(w, r, h.logger, "invalid next due request", err)
		return
	}
	result, err := h.svc.CalculateNextDue(r.Context(), req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to calculate next due date", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	days := models.UpcomingDefaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httputil.Fail(w, r, h.logger, "invalid days",
				dErrors.New(dErrors.CodeBadRequest, "days must be a number"))
			return
		}
		days = n
	}
	out, err := h.svc.Upcoming(r.Context(), days)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to load upcoming vaccinations", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"data": out, "count": len(out)})
}

func (h *Handler) handleOverdue(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Overdue(r.Context())
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to load overdue vaccinations", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"data": out, "count": len(out)})
}

func (h *Handler) handleFarmerStats(w http.ResponseWriter, r *http.Request) {
	farmerID, err := id.ParseFarmerID(chi.URLParam(r, "farmerId"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid farmer id", err)
		return
	}
	stats, err := h.svc.FarmerStats(r.Context(), farmerID)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to compute farmer stats", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.FindByBatch(r.Context(), chi.URLParam(r, "batchId"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to load batch", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"data": out, "count": len(out)})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	vaccinationID, ok := h.vaccinationID(w, r)
	if !ok {
		return
	}
	v, err := h.svc.Get(r.Context(), vaccinationID)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to load vaccination", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	vaccinationID, ok := h.vaccinationID(w, r)
	if !ok {
		return
	}
	var req models.UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(w, r, h.logger, "invalid update vaccination request", err)
		return
	}
	v, err := h.svc.Update(r.Context(), vaccinationID, req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to update vaccination", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	vaccinationID, ok := h.vaccinationID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), vaccinationID); err != nil {
		httputil.Fail(w, r, h.logger, "failed to delete vaccination", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	vaccinationID, ok := h.vaccinationID(w, r)
	if !ok {
		return
	}
	var req models.VerifyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(w, r, h.logger, "invalid verify request", err)
		return
	}
	v, err := h.svc.Verify(r.Context(), vaccinationID, req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to verify vaccination", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleMissed(w http.ResponseWriter, r *http.Request) {
	vaccinationID, ok := h.vaccinationID(w, r)
	if !ok {
		return
	}
	var req models.MissedRequest
	if r.ContentLength != 0 {
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.Fail(w, r, h.logger, "invalid missed request", err)
			return
		}
	}
	v, err := h.svc.MarkMissed(r.Context(), vaccinationID, req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to mark vaccination missed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleReschedule(w http.ResponseWriter, r *http.Request) {
	vaccinationID, ok := h.vaccinationID(w, r)
	if !ok {
		return
	}
	var req models.RescheduleRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(w, r, h.logger, "invalid reschedule request", err)
		return
	}
	v, err := h.svc.Reschedule(r.Context(), vaccinationID, req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to reschedule vaccination", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleAdminister(w http.ResponseWriter, r *http.Request) {
	vaccinationID, ok := h.vaccinationID(w, r)
	if !ok {
		return
	}
	var req models.AdministerRequest
	if r.ContentLength != 0 {
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.Fail(w, r, h.logger, "invalid administer request", err)
			return
		}
	}
	v, err := h.svc.MarkAdministered(r.Context(), vaccinationID, req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to mark vaccination administered", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) vaccinationID(w http.ResponseWriter, r *http.Request) (id.VaccinationID, bool) {
	vaccinationID, err := id.ParseVaccinationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid vaccination id", err)
		return id.VaccinationID{}, false
	}
	return vaccinationID, true
}
