package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"zoopito/internal/salesteam/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/httputil"
)

// Service defines the sales team operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, req models.CreateSalesMemberRequest) (*models.CreatedSalesMember, error)
	View(ctx context.Context, memberID id.SalesMemberID) (*models.Detail, error)
	List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Detail, int, error)
}

type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts list, create and view (admin).
func (h *Handler) Register(r chi.Router) {
	r.Get("/sales-team", h.handleList)
	r.Post("/sales-team", h.handleCreate)
	h.RegisterView(r)
}

// RegisterView mounts the single-member view (sales).
func (h *Handler) RegisterView(r chi.Router) {
	r.Get("/sales-team/{id}", h.handleView)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := httputil.PageFromQuery(r, 20)
	filter := models.ListFilter{
		Area:       r.URL.Query().Get("area"),
		ActiveOnly: r.URL.Query().Get("active") == "true",
	}
	members, total, err := h.svc.List(r.Context(), filter, page.Offset(), page.Limit)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to list sales team", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginated(members, page, total))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSalesMemberRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(w, r, h.logger, "invalid create sales member request", err)
		return
	}
	created, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to create sales member", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	memberID, err := id.ParseSalesMemberID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid sales member id", err)
		return
	}
	member, err := h.svc.View(r.Context(), memberID)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to load sales member", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, member)
}
