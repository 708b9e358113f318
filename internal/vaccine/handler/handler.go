package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"zoopito/internal/vaccine/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/httputil"
)

// Service defines the catalogue operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, in models.VaccineInput) (*models.Vaccine, error)
	Get(ctx context.Context, vaccineID id.VaccineID) (*models.Vaccine, error)
	List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Vaccine, int, error)
	Update(ctx context.Context, vaccineID id.VaccineID, in models.VaccineInput) (*models.Vaccine, error)
	ToggleActive(ctx context.Context, vaccineID id.VaccineID) (*models.ToggleResult, error)
	Delete(ctx context.Context, vaccineID id.VaccineID) error
	Dropdown(ctx context.Context, species string) ([]models.Option, error)
}

type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterPublic mounts the read routes, which need no authentication.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/vaccines", h.handleList)
	r.Get("/vaccines/dropdown", h.handleDropdown)
	r.Get("/vaccines/{id}", h.handleGet)
}

// RegisterAdmin mounts the write routes. r must enforce the ADMIN role.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/vaccines", h.handleCreate)
	r.Put("/vaccines/{id}", h.handleUpdate)
	r.Patch("/vaccines/{id}/toggle-active", h.handleToggle)
	r.Delete("/vaccines/{id}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := httputil.PageFromQuery(r, 10)
	q := r.URL.Query()
	filter := models.ListFilter{
		Search:   q.Get("search"),
		Species:  q.Get("species"),
		Category: q.Get("category"),
	}
	switch q.Get("isActive") {
	case "true":
		active := true
		filter.IsActive = &active
	case "false":
		inactive := false
		filter.IsActive = &inactive
	}

	vaccines, total, err := h.svc.List(r.Context(), filter, page.Offset(), page.Limit)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to list vaccines", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginated(vaccines, page, total))
}

func (h *Handler) handleDropdown(w http.ResponseWriter, r *http.Request) {
	options, err := h.svc.Dropdown(r.Context(), r.URL.Query().Get("species"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to list vaccine options", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"data": options})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	vaccineID, err := id.ParseVaccineID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid vaccine id", err)
		return
	}
	v, err := h.svc.Get(r.Context(), vaccineID)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to load vaccine", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in models.VaccineInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.Fail(w, r, h.logger, "invalid create vaccine request", err)
		return
	}
	v, err := h.svc.Create(r.Context(), in)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to create vaccine", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, v)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	vaccineID, err := id.ParseVaccineID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid vaccine id", err)
		return
	}
	var in models.VaccineInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.Fail(w, r, h.logger, "invalid update vaccine request", err)
		return
	}
	v, err := h.svc.Update(r.Context(), vaccineID, in)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to update vaccine", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	vaccineID, err := id.ParseVaccineID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid vaccine id", err)
		return
	}
	result, err := h.svc.ToggleActive(r.Context(), vaccineID)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to toggle vaccine", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	vaccineID, err := id.ParseVaccineID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid vaccine id", err)
		return
	}
	if err := h.svc.Delete(r.Context(), vaccineID); err != nil {
		httputil.Fail(w, r, h.logger, "failed to delete vaccine", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
