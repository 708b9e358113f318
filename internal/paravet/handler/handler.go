package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"zoopito/internal/paravet/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/httputil"
)

// Service defines the paravet operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, req models.CreateParavetRequest) (*models.CreatedParavet, error)
	View(ctx context.Context, paravetID id.ParavetID) (*models.Detail, error)
	List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Detail, int, error)
	Update(ctx context.Context, paravetID id.ParavetID, req models.UpdateParavetRequest) (*models.Detail, error)
	SetActive(ctx context.Context, paravetID id.ParavetID, active bool) (*models.Detail, error)
	Delete(ctx context.Context, paravetID id.ParavetID) error
}

type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the full paravet management routes (admin).
func (h *Handler) Register(r chi.Router) {
	h.RegisterReadOnly(r)
	r.Post("/paravets", h.handleCreate)
	r.Put("/paravets/{id}", h.handleUpdate)
	r.Patch("/paravets/{id}/activate", h.handleActivate)
	r.Patch("/paravets/{id}/deactivate", h.handleDeactivate)
	r.Delete("/paravets/{id}", h.handleDelete)
}

// RegisterReadOnly mounts list and view only (sales).
func (h *Handler) RegisterReadOnly(r chi.Router) {
	r.Get("/paravets", h.handleList)
	r.Get("/paravets/{id}", h.handleView)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := httputil.PageFromQuery(r, 20)
	filter := models.ListFilter{
		Area:       r.URL.Query().Get("area"),
		ActiveOnly: r.URL.Query().Get("active") == "true",
	}
	paravets, total, err := h.svc.List(r.Context(), filter, page.Offset(), page.Limit)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to list paravets", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginated(paravets, page, total))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateParavetRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(w, r, h.logger, "invalid create paravet request", err)
		return
	}
	created, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to create paravet", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	paravetID, err := id.ParseParavetID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid paravet id", err)
		return
	}
	paravet, err := h.svc.View(r.Context(), paravetID)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to load paravet", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, paravet)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	paravetID, err := id.ParseParavetID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid paravet id", err)
		return
	}
	var req models.UpdateParavetRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(w, r, h.logger, "invalid update paravet request", err)
		return
	}
	paravet, err := h.svc.Update(r.Context(), paravetID, req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to update paravet", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, paravet)
}

func (h *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	paravetID, err := id.ParseParavetID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid paravet id", err)
		return
	}
	paravet, err := h.svc.SetActive(r.Context(), paravetID, active)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to change paravet status", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, paravet)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	paravetID, err := id.ParseParavetID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid paravet id", err)
		return
	}
	if err := h.svc.Delete(r.Context(), paravetID); err != nil {
		httputil.Fail(w, r, h.logger, "failed to delete paravet", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
