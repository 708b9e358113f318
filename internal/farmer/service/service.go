package service

import (
	"context"
	"errors"
	"log/slog"

	accountmodels "zoopito/internal/account/models"
	"zoopito/internal/farmer/models"
	"zoopito/pkg/codegen"
	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	"zoopito/pkg/email"
	audit "zoopito/pkg/platform/audit"
	"zoopito/pkg/platform/sentinel"
	"zoopito/pkg/requestcontext"
)

// FarmerIDLength is the length of the public farmer code.
const FarmerIDLength = 6

type Store interface {
	Create(ctx context.Context, farmer *models.Farmer) error
	Update(ctx context.Context, farmer *models.Farmer) error
	FindByID(ctx context.Context, farmerID id.FarmerID) (*models.Farmer, error)
	UniqueIDExists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Farmer, int, error)
	SearchIDs(ctx context.Context, term string) ([]id.FarmerID, error)
	AdjustAnimalCount(ctx context.Context, farmerID id.FarmerID, delta int) error
	Delete(ctx context.Context, farmerID id.FarmerID) error
}

// Accounts is the slice of the account service farmer registration needs.
type Accounts interface {
	MobileRegistered(ctx context.Context, mobile string) (bool, error)
	Create(ctx context.Context, req accountmodels.CreateUserRequest) (*accountmodels.CreatedUser, error)
	Delete(ctx context.Context, userID id.UserID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages the farmer registry.
type Service struct {
	farmers        Store
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

func New(farmers Store, accounts Accounts, opts ...Option) (*Service, error) {
	if farmers == nil {
		return nil, errors.New("farmer store is required")
	}
	if accounts == nil {
		return nil, errors.New("account service is required")
	}
	s := &Service{farmers: farmers, accounts: accounts}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Create registers a farmer together with a FARMER account. If the farmer cannot be
// stored, the account created for it is removed again.
func (s *Service) Create(ctx context.Context, req models.CreateFarmerRequest) (*models.CreatedFarmer, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.accounts.MobileRegistered(ctx, req.MobileNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, dErrors.New(dErrors.CodeConflict, "Mobile number already registered")
	}

	accountEmail := req.Email
	if accountEmail == "" {
		accountEmail = email.Placeholder(req.MobileNumber)
	}
	user, err := s.accounts.Create(ctx, accountmodels.CreateUserRequest{
		Name:   req.Name,
		Email:  accountEmail,
		Mobile: req.MobileNumber,
		Role:   id.RoleFarmer,
	})
	if err != nil {
		return nil, err
	}

	farmer, err := s.insert(ctx, req, user.ID)
	if err != nil {
		if rbErr := s.accounts.Delete(ctx, user.ID); rbErr != nil {
			s.logger.ErrorContext(ctx, "failed to roll back farmer account",
				"user_id", user.ID,
				"error", rbErr,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		return nil, err
	}

	s.emit(ctx, audit.EventFarmerCreated, farmer.ID, farmer.UniqueFarmerID)
	return &models.CreatedFarmer{Farmer: farmer, TempPassword: user.TempPassword}, nil
}

// insert stores the farmer, drawing a fresh code once if the first one collides.
func (s *Service) insert(ctx context.Context, req models.CreateFarmerRequest, userID id.UserID) (*models.Farmer, error) {
	now := requestcontext.Now(ctx)
	farmer := &models.Farmer{
		ID:              id.NewFarmerID(),
		UserID:          userID,
		Name:            req.Name,
		MobileNumber:    req.MobileNumber,
		Address:         req.Address,
		Location:        models.NormalizeLocation(req.Location),
		AssignedParavet: req.AssignedParavet,
		IsActive:        true,
		RegisteredBy:    requestcontext.UserID(ctx),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for attempt := 0; attempt < 2; attempt++ {
		code, err := codegen.Unique(ctx, FarmerIDLength, codegen.UpperAlphaNumeric, s.farmers.UniqueIDExists)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate farmer id")
		}
		farmer.UniqueFarmerID = code
		err = s.farmers.Create(ctx, farmer)
		if err == nil {
			return farmer, nil
		}
		if field, ok := sentinel.DuplicateField(err); ok && field == "unique_farmer_id" {
			continue
		}
		return nil, translateWriteError(err, "Failed to create farmer")
	}
	return nil, dErrors.New(dErrors.CodeConflict, "could not allocate a unique farmer id")
}

// Get returns a farmer regardless of status.
func (s *Service) Get(ctx context.Context, farmerID id.FarmerID) (*models.Farmer, error) {
	f, err := s.farmers.FindByID(ctx, farmerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Farmer not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load farmer")
	}
	return f, nil
}

// View returns an active farmer; inactive farmers are hidden.
func (s *Service) View(ctx context.Context, farmerID id.FarmerID) (*models.Farmer, error) {
	f, err := s.Get(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	if !f.IsActive {
		return nil, dErrors.New(dErrors.CodeNotFound, "Farmer not found or inactive")
	}
	return f, nil
}

func (s *Service) List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Farmer, int, error) {
	farmers, total, err := s.farmers.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list farmers")
	}
	return farmers, total, nil
}

func (s *Service) Update(ctx context.Context, farmerID id.FarmerID, req models.UpdateFarmerRequest) (*models.Farmer, error) {
	f, err := s.Get(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	if err := req.Apply(f, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.farmers.Update(ctx, f); err != nil {
		return nil, translateWriteError(err, "Unable to update farmer")
	}
	s.emit(ctx, audit.EventFarmerUpdated, f.ID, "")
	return f, nil
}

// ToggleStatus flips the active flag.
func (s *Service) ToggleStatus(ctx context.Context, farmerID id.FarmerID) (*models.ToggleResult, error) {
	f, err := s.Get(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	f.IsActive = !f.IsActive
	f.UpdatedAt = requestcontext.Now(ctx)
	if err := s.farmers.Update(ctx, f); err != nil {
		return nil, translateWriteError(err, "Unable to update status")
	}
	s.emit(ctx, audit.EventFarmerToggled, f.ID, "")

	msg := "Farmer deactivated"
	if f.IsActive {
		msg = "Farmer activated"
	}
	return &models.ToggleResult{IsActive: f.IsActive, Message: msg}, nil
}

// Delete removes the farmer and its FARMER account.
func (s *Service) Delete(ctx context.Context, farmerID id.FarmerID) error {
	f, err := s.Get(ctx, farmerID)
	if err != nil {
		return err
	}
	if !f.UserID.IsNil() {
		if err := s.accounts.Delete(ctx, f.UserID); err != nil && !dErrors.HasCode(err, dErrors.CodeNotFound) {
			return err
		}
	}
	if err := s.farmers.Delete(ctx, farmerID); err != nil {
		return translateWriteError(err, "Unable to delete farmer")
	}
	s.emit(ctx, audit.EventFarmerDeleted, farmerID, f.UniqueFarmerID)
	return nil
}

// ActiveFarmer returns the farmer when it exists and is active. Used by animal registration.
func (s *Service) ActiveFarmer(ctx context.Context, farmerID id.FarmerID) (*models.Farmer, error) {
	f, err := s.Get(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	if !f.IsActive {
		return nil, dErrors.New(dErrors.CodeValidation, "Farmer is inactive")
	}
	return f, nil
}

// AdjustAnimalCount moves a farmer's animal counter by delta, never below zero.
func (s *Service) AdjustAnimalCount(ctx context.Context, farmerID id.FarmerID, delta int) error {
	if err := s.farmers.AdjustAnimalCount(ctx, farmerID, delta); err != nil {
		return translateWriteError(err, "failed to update animal count")
	}
	return nil
}

// SearchIDs returns farmers whose name or mobile matches term.
func (s *Service) SearchIDs(ctx context.Context, term string) ([]id.FarmerID, error) {
	ids, err := s.farmers.SearchIDs(ctx, term)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search farmers")
	}
	return ids, nil
}

func (s *Service) emit(ctx context.Context, event audit.AuditEvent, farmerID id.FarmerID, detail string) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:    string(event),
		Subject:   "farmer",
		SubjectID: farmerID.String(),
		Detail:    detail,
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
		if field == "mobile_number" {
			return dErrors.New(dErrors.CodeConflict, "Mobile number already exists")
		}
		return dErrors.New(dErrors.CodeConflict, field+" already exists")
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "Farmer not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
