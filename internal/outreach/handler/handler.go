package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"zoopito/internal/outreach/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/httputil"
)

// Service defines the outreach operations exposed over HTTP.
type Service interface {
	Contact(ctx context.Context, req models.ContactRequest) (*models.ContactMessage, error)
	Messages(ctx context.Context, unseenOnly bool, offset, limit int) ([]*models.ContactMessage, int, error)
	MarkSeen(ctx context.Context, contactID id.ContactID) (*models.ContactMessage, error)
	Subscribe(ctx context.Context, req models.SubscribeRequest) (*models.Subscriber, error)
}

type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterPublic mounts the unauthenticated contact form and newsletter routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/contact", h.handleContact)
	r.Post("/subscribe", h.handleSubscribe)
}

// RegisterAdmin mounts the contact inbox.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/contact-messages", h.handleMessages)
	r.Patch("/contact-messages/{id}/seen", h.handleSeen)
}

func (h *Handler) handleContact(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(w, r, h.logger, "invalid contact request", err)
		return
	}
	m, err := h.svc.Contact(r.Context(), req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to store contact message", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"id":      m.ID,
		"message": "Message sent successfully",
	})
}

func (h *Handler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req models.SubscribeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(w, r, h.logger, "invalid subscribe request", err)
		return
	}
	if _, err := h.svc.Subscribe(r.Context(), req); err != nil {
		httputil.Fail(w, r, h.logger, "failed to subscribe", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Successfully subscribed to newsletter",
	})
}

func (h *Handler) handleMessages(w http.ResponseWriter, r *http.Request) {
	page := httputil.PageFromQuery(r, 20)
	unseenOnly := r.URL.Query().Get("unseen") == "true"
	out, total, err := h.svc.Messages(r.Context(), unseenOnly, page.Offset(), page.Limit)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to list contact messages", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginated(out, page, total))
}

func (h *Handler) handleSeen(w http.ResponseWriter, r *http.Request) {
	contactID, err := id.ParseContactID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid contact message id", err)
		return
	}
	m, err := h.svc.MarkSeen(r.Context(), contactID)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to mark contact message seen", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}
