package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"zoopito/internal/vaccine/models"
	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	audit "zoopito/pkg/platform/audit"
	"zoopito/pkg/platform/sentinel"
	"zoopito/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, v *models.Vaccine) error
	Update(ctx context.Context, v *models.Vaccine) error
	FindByID(ctx context.Context, vaccineID id.VaccineID) (*models.Vaccine, error)
	List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Vaccine, int, error)
	Dropdown(ctx context.Context, species string) ([]*models.Vaccine, error)
	Delete(ctx context.Context, vaccineID id.VaccineID) error
}

// UsageCounter counts vaccination records that reference a vaccine.
type UsageCounter interface {
	CountByVaccine(ctx context.Context, vaccineID id.VaccineID) (int, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages the vaccine catalogue.
type Service struct {
	vaccines       Store
	usage          UsageCounter
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

// WithUsageCounter enables the in-use check on delete.
func WithUsageCounter(usage UsageCounter) Option {
	return func(s *Service) {
		s.usage = usage
	}
}

func New(vaccines Store, opts ...Option) (*Service, error) {
	if vaccines == nil {
		return nil, errors.New("vaccine store is required")
	}
	s := &Service{vaccines: vaccines}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

func (s *Service) Create(ctx context.Context, in models.VaccineInput) (*models.Vaccine, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	actor := requestcontext.UserID(ctx)
	now := requestcontext.Now(ctx)
	v := &models.Vaccine{
		ID:        id.NewVaccineID(),
		IsActive:  true,
		CreatedBy: actor,
		UpdatedBy: actor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.ApplyTo(v)
	if err := s.vaccines.Create(ctx, v); err != nil {
		return nil, translateWriteError(err, "Error creating vaccine")
	}
	s.emit(ctx, audit.EventVaccineCreated, v.ID, v.Name)
	return v, nil
}

func (s *Service) Get(ctx context.Context, vaccineID id.VaccineID) (*models.Vaccine, error) {
	v, err := s.vaccines.FindByID(ctx, vaccineID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Vaccine not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Error fetching vaccine details")
	}
	return v, nil
}

func (s *Service) List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Vaccine, int, error) {
	vaccines, total, err := s.vaccines.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "Error fetching vaccines")
	}
	return vaccines, total, nil
}

// Update replaces the catalogue fields of a vaccine.
func (s *Service) Update(ctx context.Context, vaccineID id.VaccineID, in models.VaccineInput) (*models.Vaccine, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	v, err := s.Get(ctx, vaccineID)
	if err != nil {
		return nil, err
	}
	in.ApplyTo(v)
	v.UpdatedBy = requestcontext.UserID(ctx)
	v.UpdatedAt = requestcontext.Now(ctx)
	if err := s.vaccines.Update(ctx, v); err != nil {
		return nil, translateWriteError(err, "Error updating vaccine")
	}
	s.emit(ctx, audit.EventVaccineUpdated, v.ID, "")
	return v, nil
}

func (s *Service) ToggleActive(ctx context.Context, vaccineID id.VaccineID) (*models.ToggleResult, error) {
	v, err := s.Get(ctx, vaccineID)
	if err != nil {
		return nil, err
	}
	v.IsActive = !v.IsActive
	v.UpdatedBy = requestcontext.UserID(ctx)
	v.UpdatedAt = requestcontext.Now(ctx)
	if err := s.vaccines.Update(ctx, v); err != nil {
		return nil, translateWriteError(err, "Error updating vaccine status")
	}
	word := "deactivated"
	if v.IsActive {
		word = "activated"
	}
	s.emit(ctx, audit.EventVaccineToggled, v.ID, word)
	return &models.ToggleResult{IsActive: v.IsActive, Message: "Vaccine " + word + " successfully"}, nil
}

// Delete removes a vaccine that no vaccination record references.
func (s *Service) Delete(ctx context.Context, vaccineID id.VaccineID) error {
	if s.usage != nil {
		used, err := s.usage.CountByVaccine(ctx, vaccineID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "Error deleting vaccine")
		}
		if used > 0 {
			return dErrors.New(dErrors.CodeConflict,
				fmt.Sprintf("Cannot delete vaccine. It has been used in %d vaccination records.", used))
		}
	}
	if err := s.vaccines.Delete(ctx, vaccineID); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "Cannot delete vaccine. It has been used in vaccination records.")
		}
		return translateWriteError(err, "Error deleting vaccine")
	}
	s.emit(ctx, audit.EventVaccineDeleted, vaccineID, "")
	return nil
}

// Dropdown lists active vaccines for species (or every active vaccine when species is empty).
func (s *Service) Dropdown(ctx context.Context, species string) ([]models.Option, error) {
	if species != "" {
		species, _ = models.CanonicalSpecies(species)
	}
	vaccines, err := s.vaccines.Dropdown(ctx, species)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Error fetching vaccines")
	}
	out := make([]models.Option, 0, len(vaccines))
	for _, v := range vaccines {
		out = append(out, models.Option{
			ID:            v.ID,
			Name:          v.Name,
			Brand:         v.Brand,
			DiseaseTarget: v.DiseaseTarget,
			Category:      v.Category,
		})
	}
	return out, nil
}

// Interval returns the booster interval of a vaccine for next-due estimation.
func (s *Service) Interval(ctx context.Context, vaccineID id.VaccineID) (models.Interval, error) {
	v, err := s.Get(ctx, vaccineID)
	if err != nil {
		return models.Interval{}, err
	}
	return v.Interval(), nil
}

func (s *Service) emit(ctx context.Context, event audit.AuditEvent, vaccineID id.VaccineID, note string) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:    string(event),
		Subject:   "vaccine",
		SubjectID: vaccineID.String(),
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
	if _, ok := sentinel.DuplicateField(err); ok {
		return dErrors.New(dErrors.CodeConflict, "A vaccine with this name already exists")
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "Vaccine not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
