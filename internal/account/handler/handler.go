package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"zoopito/internal/account/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/httputil"
)

// Service defines the account operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, req models.CreateUserRequest) (*models.CreatedUser, error)
	Get(ctx context.Context, userID id.UserID) (*models.User, error)
	List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.User, int, error)
	Update(ctx context.Context, userID id.UserID, req models.UpdateUserRequest) (*models.User, error)
	SetBlocked(ctx context.Context, userID id.UserID, blocked bool) (*models.User, error)
	Delete(ctx context.Context, userID id.UserID) error
}

// Handler serves the admin user-management endpoints.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the routes on r. r is expected to enforce the ADMIN role.
func (h *Handler) Register(r chi.Router) {
	r.Get("/users", h.handleList)
	r.Post("/users", h.handleCreate)
	r.Get("/users/{id}", h.handleGet)
	r.Patch("/users/{id}", h.handleUpdate)
	r.Post("/users/{id}/block", h.handleBlock)
	r.Post("/users/{id}/unblock", h.handleUnblock)
	r.Delete("/users/{id}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := httputil.PageFromQuery(r, 20)
	filter := models.ListFilter{Search: r.URL.Query().Get("search")}
	if role := r.URL.Query().Get("role"); role != "" {
		parsed, err := id.ParseRole(role)
		if err != nil {
			httputil.Fail(w, r, h.logger, "invalid role filter", err)
			return
		}
		filter.Role = parsed
	}

	users, total, err := h.svc.List(r.Context(), filter, page.Offset(), page.Limit)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to list users", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginated(users, page, total))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(w, r, h.logger, "invalid create user request", err)
		return
	}
	created, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to create user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid user id", err)
		return
	}
	user, err := h.svc.Get(r.Context(), userID)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to load user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid user id", err)
		return
	}
	var req models.UpdateUserRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(w, r, h.logger, "invalid update user request", err)
		return
	}
	user, err := h.svc.Update(r.Context(), userID, req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to update user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleBlock(w http.ResponseWriter, r *http.Request) {
	h.setBlocked(w, r, true)
}

func (h *Handler) handleUnblock(w http.ResponseWriter, r *http.Request) {
	h.setBlocked(w, r, false)
}

func (h *Handler) setBlocked(w http.ResponseWriter, r *http.Request, blocked bool) {
	userID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid user id", err)
		return
	}
	user, err := h.svc.SetBlocked(r.Context(), userID, blocked)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to change block state", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid user id", err)
		return
	}
	if err := h.svc.Delete(r.Context(), userID); err != nil {
		httputil.Fail(w, r, h.logger, "failed to delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
