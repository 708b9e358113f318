// Package audit serves the audit trail to administrators.
package audit

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "zoopito/pkg/domain"
	audit "zoopito/pkg/platform/audit"
	"zoopito/pkg/platform/httputil"
)

// Reader lists stored audit events, newest first.
type Reader interface {
	List(ctx context.Context, filter audit.Filter, offset, limit int) ([]audit.Event, int, error)
}

type Handler struct {
	reader Reader
	logger *slog.Logger
}

func NewHandler(reader Reader, logger *slog.Logger) *Handler {
	return &Handler{reader: reader, logger: logger}
}

// Register mounts GET /audit.
func (h *Handler) Register(r chi.Router) {
	r.Get("/audit", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := httputil.PageFromQuery(r, 50)
	q := r.URL.Query()
	filter := audit.Filter{
		Action:  q.Get("action"),
		Subject: q.Get("subject"),
	}
	if raw := q.Get("actor"); raw != "" {
		actorID, err := id.ParseUserID(raw)
		if err != nil {
			httputil.Fail(w, r, h.logger, "invalid actor filter", err)
			return
		}
		filter.ActorID = actorID
	}
	events, total, err := h.reader.List(r.Context(), filter, page.Offset(), page.Limit)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to list audit events", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginated(events, page, total))
}
