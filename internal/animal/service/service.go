package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"zoopito/internal/animal/models"
	farmermodels "zoopito/internal/farmer/models"
	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	audit "zoopito/pkg/platform/audit"
	"zoopito/pkg/platform/sentinel"
	"zoopito/pkg/platform/tx"
	"zoopito/pkg/requestcontext"
)

// uniqueIDAttempts bounds retries when a concurrent registration takes the same animal code.
const uniqueIDAttempts = 3

type Store interface {
	Create(ctx context.Context, a *models.Animal) error
	Update(ctx context.Context, a *models.Animal) error
	FindByID(ctx context.Context, animalID id.AnimalID) (*models.Animal, error)
	FirstFreeSequence(ctx context.Context, prefix string) (int, error)
	List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Animal, int, error)
	ListByFarmer(ctx context.Context, farmerID id.FarmerID, activeOnly bool) ([]*models.Animal, error)
	FindByBatch(ctx context.Context, batchID string) ([]*models.Animal, error)
	Counts(ctx context.Context) (models.Counts, error)
	Delete(ctx context.Context, animalID id.AnimalID) error
}

// Farmers is the slice of the farmer service animal registration needs.
type Farmers interface {
	ActiveFarmer(ctx context.Context, farmerID id.FarmerID) (*farmermodels.Farmer, error)
	AdjustAnimalCount(ctx context.Context, farmerID id.FarmerID, delta int) error
}

// RecordCleaner removes the vaccination records of a deleted animal.
type RecordCleaner interface {
	DeleteByAnimal(ctx context.Context, animalID id.AnimalID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages the animal registry.
type Service struct {
	animals        Store
	farmers        Farmers
	cleaner        RecordCleaner
	logger         *slog.Logger
	auditPublisher AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithRecordCleaner(cleaner RecordCleaner) Option {
	return func(s *Service) {
		s.cleaner = cleaner
	}
}

func New(animals Store, farmers Farmers, opts ...Option) (*Service, error) {
	if animals == nil {
		return nil, errors.New("animal store is required")
	}
	if farmers == nil {
		return nil, errors.New("farmer service is required")
	}
	s := &Service{animals: animals, farmers: farmers}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Create registers one animal for an active farmer.
func (s *Service) Create(ctx context.Context, req models.CreateAnimalRequest) (*models.Animal, error) {
	a, err := s.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.Insert(ctx, a); err != nil {
		return nil, err
	}
	s.emit(ctx, audit.EventAnimalCreated, a.ID, a.UniqueAnimalID)
	return a, nil
}

// Prepare validates req against an active farmer and builds the animal without storing it.
func (s *Service) Prepare(ctx context.Context, req models.CreateAnimalRequest) (*models.Animal, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.farmers.ActiveFarmer(ctx, req.FarmerID); err != nil {
		return nil, err
	}
	return req.Build(requestcontext.UserID(ctx), requestcontext.Now(ctx)), nil
}

// Insert assigns the next free ANI-YYYYMM-NNNN code, stores a and counts it against its farmer.
func (s *Service) Insert(ctx context.Context, a *models.Animal) error {
	prefix := models.UniqueAnimalIDPrefix(a.CreatedAt)
	for attempt := 0; ; attempt++ {
		seq, err := s.animals.FirstFreeSequence(ctx, prefix)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate animal id")
		}
		a.UniqueAnimalID = models.FormatUniqueAnimalID(prefix, seq)
		err = tx.WithSavepoint(ctx, "animal_insert", func(ctx context.Context) error {
			return s.animals.Create(ctx, a)
		})
		if err == nil {
			break
		}
		if field, ok := sentinel.DuplicateField(err); ok && field == "unique_animal_id" && attempt+1 < uniqueIDAttempts {
			continue
		}
		return translateWriteError(err, "Failed to register animal")
	}
	if a.IsActive {
		if err := s.farmers.AdjustAnimalCount(ctx, a.FarmerID, 1); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, animalID id.AnimalID) (*models.Animal, error) {
	a, err := s.animals.FindByID(ctx, animalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Animal not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Unable to fetch animal details")
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Animal, int, error) {
	animals, total, err := s.animals.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list animals")
	}
	return animals, total, nil
}

// ListByFarmer returns the active animals of a farmer, newest first.
func (s *Service) ListByFarmer(ctx context.Context, farmerID id.FarmerID) ([]*models.Animal, error) {
	animals, err := s.animals.ListByFarmer(ctx, farmerID, true)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list farmer animals")
	}
	return animals, nil
}

func (s *Service) FindByBatch(ctx context.Context, batchID string) ([]*models.Animal, error) {
	animals, err := s.animals.FindByBatch(ctx, batchID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load batch animals")
	}
	return animals, nil
}

func (s *Service) Counts(ctx context.Context) (models.Counts, error) {
	c, err := s.animals.Counts(ctx)
	if err != nil {
		return models.Counts{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count animals")
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, animalID id.AnimalID, req models.UpdateAnimalRequest) (*models.Animal, error) {
	a, err := s.Get(ctx, animalID)
	if err != nil {
		return nil, err
	}
	wasActive := a.IsActive
	req.Apply(a, requestcontext.Now(ctx))
	if err := s.animals.Update(ctx, a); err != nil {
		return nil, translateWriteError(err, "Failed to update animal")
	}
	if err := s.recount(ctx, a.FarmerID, wasActive, a.IsActive); err != nil {
		return nil, err
	}
	s.emit(ctx, audit.EventAnimalUpdated, a.ID, "")
	return a, nil
}

// MarkDeceased retires the animal. Reason defaults to "Unknown" and date to now.
func (s *Service) MarkDeceased(ctx context.Context, animalID id.AnimalID, req models.DeceasedRequest) (*models.Animal, error) {
	a, err := s.Get(ctx, animalID)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	at := now
	if req.Date != nil {
		at = *req.Date
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "Unknown"
	}
	wasActive := a.IsActive
	a.Status = models.StatusDeceased
	a.StatusChangeDate = &at
	a.StatusChangeReason = reason
	a.IsActive = false
	a.UpdatedAt = now
	if err := s.animals.Update(ctx, a); err != nil {
		return nil, translateWriteError(err, "Failed to update animal")
	}
	if err := s.recount(ctx, a.FarmerID, wasActive, false); err != nil {
		return nil, err
	}
	s.emit(ctx, audit.EventAnimalDeceased, a.ID, reason)
	return a, nil
}

// Transfer moves the animal to another active farmer and shifts the animal counts.
func (s *Service) Transfer(ctx context.Context, animalID id.AnimalID, req models.TransferRequest) (*models.Animal, error) {
	if req.FarmerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "farmer is required")
	}
	a, err := s.Get(ctx, animalID)
	if err != nil {
		return nil, err
	}
	if a.FarmerID == req.FarmerID {
		return nil, dErrors.New(dErrors.CodeValidation, "Animal already belongs to this farmer")
	}
	if _, err := s.farmers.ActiveFarmer(ctx, req.FarmerID); err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "Ownership transfer"
	}
	now := requestcontext.Now(ctx)
	previous := a.FarmerID
	a.FarmerID = req.FarmerID
	a.CurrentOwner = req.FarmerID
	a.SetStatus(models.StatusTransferred, reason, now)
	a.UpdatedAt = now
	if err := s.animals.Update(ctx, a); err != nil {
		return nil, translateWriteError(err, "Failed to transfer animal")
	}
	if a.IsActive {
		if err := s.farmers.AdjustAnimalCount(ctx, previous, -1); err != nil {
			return nil, err
		}
		if err := s.farmers.AdjustAnimalCount(ctx, a.FarmerID, 1); err != nil {
			return nil, err
		}
	}
	s.emit(ctx, audit.EventAnimalTransferred, a.ID, previous.String()+" -> "+a.FarmerID.String())
	return a, nil
}

// UpdateHealth sets the health status and stamps the checkup date.
func (s *Service) UpdateHealth(ctx context.Context, animalID id.AnimalID, req models.HealthUpdateRequest) (*models.Animal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a, err := s.Get(ctx, animalID)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	a.Health.Status = req.Status
	a.Health.LastCheckupDate = &now
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		a.Health.Notes = notes
	}
	a.UpdatedAt = now
	if err := s.animals.Update(ctx, a); err != nil {
		return nil, translateWriteError(err, "Failed to update health status")
	}
	s.emit(ctx, audit.EventAnimalUpdated, a.ID, "health: "+string(req.Status))
	return a, nil
}

// AddMedicalRecord appends to the medical history, attributed to the caller.
func (s *Service) AddMedicalRecord(ctx context.Context, animalID id.AnimalID, req models.MedicalRecordRequest) (*models.Animal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a, err := s.Get(ctx, animalID)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	date := now
	if req.Date != nil {
		date = *req.Date
	}
	a.MedicalHistory = append(a.MedicalHistory, models.MedicalRecord{
		Date:      date,
		Condition: strings.TrimSpace(req.Condition),
		Treatment: strings.TrimSpace(req.Treatment),
		TreatedBy: requestcontext.UserID(ctx),
		Resolved:  req.Resolved,
		Notes:     strings.TrimSpace(req.Notes),
	})
	a.UpdatedAt = now
	if err := s.animals.Update(ctx, a); err != nil {
		return nil, translateWriteError(err, "Failed to add medical record")
	}
	return a, nil
}

// RefreshVaccinationSummary recomputes the summary from the animal's administered doses.
func (s *Service) RefreshVaccinationSummary(ctx context.Context, animalID id.AnimalID, doses []models.Dose) error {
	a, err := s.Get(ctx, animalID)
	if err != nil {
		return err
	}
	a.VaccinationSummary = models.Summarize(doses, requestcontext.Now(ctx))
	if err := s.animals.Update(ctx, a); err != nil {
		return translateWriteError(err, "Failed to update vaccination summary")
	}
	return nil
}

// Delete removes the animal together with its vaccination records.
func (s *Service) Delete(ctx context.Context, animalID id.AnimalID) error {
	a, err := s.Get(ctx, animalID)
	if err != nil {
		return err
	}
	if s.cleaner != nil {
		if err := s.cleaner.DeleteByAnimal(ctx, animalID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "Failed to delete animal vaccinations")
		}
	}
	if err := s.animals.Delete(ctx, animalID); err != nil {
		return translateWriteError(err, "Failed to delete animal")
	}
	if err := s.recount(ctx, a.FarmerID, a.IsActive, false); err != nil {
		return err
	}
	s.emit(ctx, audit.EventAnimalDeleted, animalID, a.UniqueAnimalID)
	return nil
}

func (s *Service) recount(ctx context.Context, farmerID id.FarmerID, wasActive, isActive bool) error {
	switch {
	case wasActive && !isActive:
		return s.farmers.AdjustAnimalCount(ctx, farmerID, -1)
	case !wasActive && isActive:
		return s.farmers.AdjustAnimalCount(ctx, farmerID, 1)
	}
	return nil
}

func (s *Service) emit(ctx context.Context, event audit.AuditEvent, animalID id.AnimalID, note string) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:    string(event),
		Subject:   "animal",
		SubjectID: animalID.String(),
		Detail:    note,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", string(event),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func translateWriteError(err error, msg string) error {
	if field, ok := sentinel.DuplicateField(err); ok {
		if field == "tag_number" {
			return dErrors.New(dErrors.CodeConflict, "Tag number already registered")
		}
		return dErrors.New(dErrors.CodeConflict, field+" already exists")
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "Animal not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
