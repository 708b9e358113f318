package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"zoopito/internal/farmer/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/httputil"
)

// Service defines the farmer operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, req models.CreateFarmerRequest) (*models.CreatedFarmer, error)
	View(ctx context.Context, farmerID id.FarmerID) (*models.Farmer, error)
	List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Farmer, int, error)
	Update(ctx context.Context, farmerID id.FarmerID, req models.UpdateFarmerRequest) (*models.Farmer, error)
	ToggleStatus(ctx context.Context, farmerID id.FarmerID) (*models.ToggleResult, error)
	Delete(ctx context.Context, farmerID id.FarmerID) error
}

type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the farmer routes. Both the admin and sales groups mount them.
func (h *Handler) Register(r chi.Router) {
	r.Get("/farmers", h.handleList)
	r.Post("/farmers", h.handleCreate)
	r.Get("/farmers/{id}", h.handleView)
	r.Put("/farmers/{id}", h.handleUpdate)
	r.Patch("/farmers/{id}/toggle-status", h.handleToggle)
	r.Delete("/farmers/{id}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := httputil.PageFromQuery(r, 20)
	filter := models.ListFilter{
		Search:     r.URL.Query().Get("search"),
		ActiveOnly: r.URL.Query().Get("active") == "true",
	}
	farmers, total, err := h.svc.List(r.Context(), filter, page.Offset(), page.Limit)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to list farmers", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginated(farmers, page, total))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFarmerRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(w, r, h.logger, "invalid create farmer request", err)
		return
	}
	created, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to create farmer", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	farmerID, err := id.ParseFarmerID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid farmer id", err)
		return
	}
	farmer, err := h.svc.View(r.Context(), farmerID)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to load farmer", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, farmer)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	farmerID, err := id.ParseFarmerID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid farmer id", err)
		return
	}
	var req models.UpdateFarmerRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(w, r, h.logger, "invalid update farmer request", err)
		return
	}
	farmer, err := h.svc.Update(r.Context(), farmerID, req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to update farmer", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, farmer)
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	farmerID, err := id.ParseFarmerID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid farmer id", err)
		return
	}
	result, err := h.svc.ToggleStatus(r.Context(), farmerID)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to toggle farmer", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	farmerID, err := id.ParseFarmerID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid farmer id", err)
		return
	}
	if err := h.svc.Delete(r.Context(), farmerID); err != nil {
		httputil.Fail(w, r, h.logger, "failed to delete farmer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
