package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"zoopito/internal/animal/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/httputil"
)

// Service defines the animal operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, req models.CreateAnimalRequest) (*models.Animal, error)
	Get(ctx context.Context, animalID id.AnimalID) (*models.Animal, error)
	List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Animal, int, error)
	ListByFarmer(ctx context.Context, farmerID id.FarmerID) ([]*models.Animal, error)
	FindByBatch(ctx context.Context, batchID string) ([]*models.Animal, error)
	Update(ctx context.Context, animalID id.AnimalID, req models.UpdateAnimalRequest) (*models.Animal, error)
	MarkDeceased(ctx context.Context, animalID id.AnimalID, req models.DeceasedRequest) (*models.Animal, error)
	Transfer(ctx context.Context, animalID id.AnimalID, req models.TransferRequest) (*models.Animal, error)
	UpdateHealth(ctx context.Context, animalID id.AnimalID, req models.HealthUpdateRequest) (*models.Animal, error)
	AddMedicalRecord(ctx context.Context, animalID id.AnimalID, req models.MedicalRecordRequest) (*models.Animal, error)
	Delete(ctx context.Context, animalID id.AnimalID) error
}

type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the animal routes. Both the admin and sales groups mount them.
func (h *Handler) Register(r chi.Router) {
	r.Get("/animals", h.handleList)
	r.Post("/animals", h.handleCreate)
	r.Get("/animals/batch/{batchId}", h.handleBatch)
	r.Get("/animals/{id}", h.handleGet)
	r.Put("/animals/{id}", h.handleUpdate)
	r.Delete("/animals/{id}", h.handleDelete)
	r.Patch("/animals/{id}/deceased", h.handleDeceased)
	r.Patch("/animals/{id}/transfer", h.handleTransfer)
	r.Patch("/animals/{id}/health", h.handleHealth)
	r.Post("/animals/{id}/medical-records", h.handleMedicalRecord)
}

// RegisterFarmerLookup mounts the animals-of-a-farmer lookup used while recording vaccinations.
func (h *Handler) RegisterFarmerLookup(r chi.Router) {
	r.Get("/farmers/{farmerId}/animals", h.handleByFarmer)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := httputil.PageFromQuery(r, 10)
	q := r.URL.Query()
	filter := models.ListFilter{
		Status:     models.Status(q.Get("status")),
		AnimalType: models.AnimalType(q.Get("type")),
		Search:     q.Get("search"),
	}
	if raw := q.Get("farmer"); raw != "" {
		farmerID, err := id.ParseFarmerID(raw)
		if err != nil {
			httputil.Fail(w, r, h.logger, "invalid farmer filter", err)
			return
		}
		filter.FarmerID = farmerID
	}
	animals, total, err := h.svc.List(r.Context(), filter, page.Offset(), page.Limit)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to list animals", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginated(animals, page, total))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAnimalRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(w, r, h.logger, "invalid create animal request", err)
		return
	}
	a, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to register animal", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	animals, err := h.svc.FindByBatch(r.Context(), chi.URLParam(r, "batchId"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to load batch", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"data": animals, "count": len(animals)})
}

func (h *Handler) handleByFarmer(w http.ResponseWriter, r *http.Request) {
	farmerID, err := id.ParseFarmerID(chi.URLParam(r, "farmerId"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid farmer id", err)
		return
	}
	animals, err := h.svc.ListByFarmer(r.Context(), farmerID)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to list farmer animals", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"data": animals})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	animalID, ok := h.animalID(w, r)
	if !ok {
		return
	}
	a, err := h.svc.Get(r.Context(), animalID)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to load animal", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	animalID, ok := h.animalID(w, r)
	if !ok {
		return
	}
	var req models.UpdateAnimalRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(w, r, h.logger, "invalid update animal request", err)
		return
	}
	a, err := h.svc.Update(r.Context(), animalID, req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to update animal", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	animalID, ok := h.animalID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), animalID); err != nil {
		httputil.Fail(w, r, h.logger, "failed to delete animal", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeceased(w http.ResponseWriter, r *http.Request) {
	animalID, ok := h.animalID(w, r)
	if !ok {
		return
	}
	var req models.DeceasedRequest
	if r.ContentLength != 0 {
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.Fail(w, r, h.logger, "invalid deceased request", err)
			return
		}
	}
	a, err := h.svc.MarkDeceased(r.Context(), animalID, req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to mark animal deceased", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	animalID, ok := h.animalID(w, r)
	if !ok {
		return
	}
	var req models.TransferRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(w, r, h.logger, "invalid transfer request", err)
		return
	}
	a, err := h.svc.Transfer(r.Context(), animalID, req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to transfer animal", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	animalID, ok := h.animalID(w, r)
	if !ok {
		return
	}
	var req models.HealthUpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(w, r, h.logger, "invalid health update request", err)
		return
	}
	a, err := h.svc.UpdateHealth(r.Context(), animalID, req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to update health status", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleMedicalRecord(w http.ResponseWriter, r *http.Request) {
	animalID, ok := h.animalID(w, r)
	if !ok {
		return
	}
	var req models.MedicalRecordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(w, r, h.logger, "invalid medical record request", err)
		return
	}
	a, err := h.svc.AddMedicalRecord(r.Context(), animalID, req)
	if err != nil {
		httputil.Fail(w, r, h.logger, "failed to add medical record", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) animalID(w http.ResponseWriter, r *http.Request) (id.AnimalID, bool) {
	animalID, err := id.ParseAnimalID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(w, r, h.logger, "invalid animal id", err)
		return id.AnimalID{}, false
	}
	return animalID, true
}
