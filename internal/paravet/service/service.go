package service

import (
	"context"
	"errors"
	"log/slog"

	accountmodels "zoopito/internal/account/models"
	"zoopito/internal/paravet/models"
	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	audit "zoopito/pkg/platform/audit"
	"zoopito/pkg/platform/sentinel"
	"zoopito/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, p *models.Paravet) error
	Update(ctx context.Context, p *models.Paravet) error
	FindByID(ctx context.Context, paravetID id.ParavetID) (*models.Paravet, error)
	FindByUserID(ctx context.Context, userID id.UserID) (*models.Paravet, error)
	List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Paravet, int, error)
	Delete(ctx context.Context, paravetID id.ParavetID) error
}

// Accounts is the slice of the account service paravet onboarding needs.
type Accounts interface {
	FindOrCreate(ctx context.Context, req accountmodels.CreateUserRequest) (*accountmodels.CreatedUser, bool, error)
	Get(ctx context.Context, userID id.UserID) (*accountmodels.User, error)
	Update(ctx context.Context, userID id.UserID, req accountmodels.UpdateUserRequest) (*accountmodels.User, error)
	SetActive(ctx context.Context, userID id.UserID, active bool) error
	Delete(ctx context.Context, userID id.UserID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages paravets and keeps their accounts in step.
type Service struct {
	paravets       Store
	accounts       Accounts
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

func New(paravets Store, accounts Accounts, opts ...Option) (*Service, error) {
	if paravets == nil {
		return nil, errors.New("paravet store is required")
	}
	if accounts == nil {
		return nil, errors.New("account service is required")
	}
	s := &Service{paravets: paravets, accounts: accounts}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Create onboards a paravet, reusing an account that matches the email or mobile.
func (s *Service) Create(ctx context.Context, req models.CreateParavetRequest) (*models.CreatedParavet, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	account, created, err := s.accounts.FindOrCreate(ctx, accountmodels.CreateUserRequest{
		Name:          req.Name,
		Email:         req.Email,
		Mobile:        req.Mobile,
		Role:          id.RoleParavet,
		Qualification: req.Qualification,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.paravets.FindByUserID(ctx, account.ID); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "User is already registered as a paravet")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up paravet")
	}

	now := requestcontext.Now(ctx)
	p := &models.Paravet{
		ID:            id.NewParavetID(),
		UserID:        account.ID,
		Qualification: req.Qualification,
		LicenseNumber: req.LicenseNumber,
		AssignedAreas: req.AssignedAreas,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if p.AssignedAreas == nil {
		p.AssignedAreas = []string{}
	}
	if err := s.paravets.Create(ctx, p); err != nil {
		if created {
			s.rollbackAccount(ctx, account.ID)
		}
		return nil, translateWriteError(err, "Failed to create paravet")
	}

	s.emit(ctx, audit.EventParavetCreated, p.ID, account.Name)
	return &models.CreatedParavet{
		Detail:       detail(p, account.User),
		TempPassword: account.TempPassword,
	}, nil
}

func (s *Service) rollbackAccount(ctx context.Context, userID id.UserID) {
	if err := s.accounts.Delete(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to roll back paravet account",
			"user_id", userID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func (s *Service) get(ctx context.Context, paravetID id.ParavetID) (*models.Paravet, error) {
	p, err := s.paravets.FindByID(ctx, paravetID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Paravet not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load paravet")
	}
	return p, nil
}

// View returns a paravet with its account contact fields.
func (s *Service) View(ctx context.Context, paravetID id.ParavetID) (*models.Detail, error) {
	p, err := s.get(ctx, paravetID)
	if err != nil {
		return nil, err
	}
	return s.withAccount(ctx, p)
}

func (s *Service) withAccount(ctx context.Context, p *models.Paravet) (*models.Detail, error) {
	account, err := s.accounts.Get(ctx, p.UserID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return detail(p, nil), nil
		}
		return nil, err
	}
	return detail(p, account), nil
}

// List returns one page of paravets, newest first.
func (s *Service) List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Detail, int, error) {
	paravets, total, err := s.paravets.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list paravets")
	}
	out := make([]*models.Detail, 0, len(paravets))
	for _, p := range paravets {
		d, err := s.withAccount(ctx, p)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, nil
}

// Update changes paravet fields and, when given, the linked account's profile.
func (s *Service) Update(ctx context.Context, paravetID id.ParavetID, req models.UpdateParavetRequest) (*models.Detail, error) {
	p, err := s.get(ctx, paravetID)
	if err != nil {
		return nil, err
	}
	if err := req.Apply(p, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}

	if err := s.paravets.Update(ctx, p); err != nil {
		return nil, translateWriteError(err, "Failed to update paravet")
	}
	var account *accountmodels.User
	if req.TouchesAccount() {
		account, err = s.accounts.Update(ctx, p.UserID, accountmodels.UpdateUserRequest{
			Name:          req.Name,
			Email:         req.Email,
			Mobile:        req.Mobile,
			Qualification: req.Qualification,
		})
		if err != nil {
			return nil, err
		}
	}
	s.emit(ctx, audit.EventParavetUpdated, p.ID, "")

	if account == nil {
		return s.withAccount(ctx, p)
	}
	return detail(p, account), nil
}

// SetActive activates or deactivates the paravet together with its account.
func (s *Service) SetActive(ctx context.Context, paravetID id.ParavetID, active bool) (*models.Detail, error) {
	p, err := s.get(ctx, paravetID)
	if err != nil {
		return nil, err
	}
	p.IsActive = active
	p.UpdatedAt = requestcontext.Now(ctx)
	if err := s.paravets.Update(ctx, p); err != nil {
		return nil, translateWriteError(err, "Failed to update paravet")
	}
	if err := s.accounts.SetActive(ctx, p.UserID, active); err != nil && !dErrors.HasCode(err, dErrors.CodeNotFound) {
		return nil, err
	}
	s.emit(ctx, audit.EventParavetToggled, p.ID, statusWord(active))
	return s.withAccount(ctx, p)
}

// Delete removes the paravet and its linked account.
func (s *Service) Delete(ctx context.Context, paravetID id.ParavetID) error {
	p, err := s.get(ctx, paravetID)
	if err != nil {
		return err
	}
	if err := s.paravets.Delete(ctx, paravetID); err != nil {
		return translateWriteError(err, "Failed to delete paravet")
	}
	if err := s.accounts.Delete(ctx, p.UserID); err != nil && !dErrors.HasCode(err, dErrors.CodeNotFound) {
		return err
	}
	s.emit(ctx, audit.EventParavetDeleted, paravetID, "")
	return nil
}

func detail(p *models.Paravet, account *accountmodels.User) *models.Detail {
	d := &models.Detail{Paravet: p}
	if account != nil {
		d.Name = account.Name
		d.Email = account.Email
		d.Mobile = account.Mobile
	}
	return d
}

func statusWord(active bool) string {
	if active {
		return "activated"
	}
	return "deactivated"
}

func (s *Service) emit(ctx context.Context, event audit.AuditEvent, paravetID id.ParavetID, note string) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:    string(event),
		Subject:   "paravet",
		SubjectID: paravetID.String(),
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
		switch field {
		case "license_number":
			return dErrors.New(dErrors.CodeConflict, "License number already exists")
		case "user_id":
			return dErrors.New(dErrors.CodeConflict, "User is already registered as a paravet")
		}
		return dErrors.New(dErrors.CodeConflict, field+" already exists")
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "Paravet not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
