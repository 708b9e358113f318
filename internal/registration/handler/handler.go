package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"zoopito/internal/registration/models"
	"zoopito/pkg/platform/httputil"
)

// Service registers batches of animals.
type Service interface {
	Register(ctx context.Context, req models.Request) (*models.Result, error)
}

type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts POST /bulk relative to the caller's prefix.
func (h *Handler) Register(r chi.Router) {
	r.Post("/bulk", h.handleRegister)
}

// RegisterAnimalBulk mounts POST /animals/bulk beside the animal routes.
func (h *Handler) RegisterAnimalBulk(r chi.Router) {
	r.Post("/animals/bulk", h.handleRegister)
}

// handleRegister answers 201 when at least one entry was written and 422 with
// the same result body when none was.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.Request
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(w, r, h.logger, "invalid bulk registration request", err)
		return
	}
	result, err := h.svc.Register(r.Context(), req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to register batch", err)
		return
	}
	status := http.StatusCreated
	if result.CreatedCount == 0 {
		status = http.StatusUnprocessableEntity
	}
	httputil.WriteJSON(w, status, result)
}
