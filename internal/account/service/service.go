package service

import (
	"context"
	"errors"
	"log/slog"

	"zoopito/internal/account/models"
	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	"zoopito/pkg/email"
	audit "zoopito/pkg/platform/audit"
	"zoopito/pkg/platform/sentinel"
	"zoopito/pkg/requestcontext"
	"zoopito/pkg/secrets"
)

// Store persists accounts.
type Store interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, address string) (*models.User, error)
	FindByMobile(ctx context.Context, mobile string) (*models.User, error)
	List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.User, int, error)
	Delete(ctx context.Context, userID id.UserID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages login accounts for every role.
type Service struct {
	users          Store
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

// New constructs a Service.
func New(users Store, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, errors.New("user store is required")
	}
	s := &Service{users: users}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Create registers a new account with a temporary password.
// The cleartext password is only returned here.
func (s *Service) Create(ctx context.Context, req models.CreateUserRequest) (*models.CreatedUser, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.CreatedBy.IsNil() {
		req.CreatedBy = requestcontext.UserID(ctx)
	}

	tempPassword, err := secrets.GenerateTempPassword()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate password")
	}
	hash, err := secrets.Hash(tempPassword)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	user, err := models.NewUser(id.NewUserID(), req, hash, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, err.Error())
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, translateWriteError(err, "failed to create user")
	}

	s.emit(ctx, audit.EventUserCreated, user.ID, string(user.Role))
	return &models.CreatedUser{User: user, TempPassword: tempPassword}, nil
}

// FindOrCreate returns the account matching the email or mobile in req, creating it when
// neither is registered. An existing account is promoted to req.Role.
// created reports whether a new account was made.
func (s *Service) FindOrCreate(ctx context.Context, req models.CreateUserRequest) (*models.CreatedUser, bool, error) {
	req.Normalize()
	existing, err := s.lookup(ctx, req.Email, req.Mobile)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		user, err := s.Create(ctx, req)
		if err != nil {
			return nil, false, err
		}
		return user, true, nil
	}

	changed := false
	if req.Role != "" && existing.Role != req.Role {
		s.emit(ctx, audit.EventRoleChanged, existing.ID, string(existing.Role)+" -> "+string(req.Role))
		existing.Role = req.Role
		changed = true
	}
	if req.Qualification != "" && existing.Qualification != req.Qualification {
		existing.Qualification = req.Qualification
		changed = true
	}
	if changed {
		existing.UpdatedAt = requestcontext.Now(ctx)
		if err := s.users.Update(ctx, existing); err != nil {
			return nil, false, translateWriteError(err, "failed to update user")
		}
	}
	return &models.CreatedUser{User: existing}, false, nil
}

// lookup finds an account by email first, then mobile. Returns nil when neither matches.
func (s *Service) lookup(ctx context.Context, address, mobile string) (*models.User, error) {
	if address != "" {
		u, err := s.users.FindByEmail(ctx, address)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
		}
	}
	if mobile != "" {
		u, err := s.users.FindByMobile(ctx, mobile)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
		}
	}
	return nil, nil
}

// MobileRegistered reports whether any account already uses mobile.
func (s *Service) MobileRegistered(ctx context.Context, mobile string) (bool, error) {
	_, err := s.users.FindByMobile(ctx, email.NormalizeMobile(mobile))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
}

func (s *Service) Get(ctx context.Context, userID id.UserID) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.User, int, error) {
	users, total, err := s.users.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return users, total, nil
}

// Update changes profile fields of an account.
func (s *Service) Update(ctx context.Context, userID id.UserID, req models.UpdateUserRequest) (*models.User, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := req.Apply(u, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, translateWriteError(err, "failed to update user")
	}
	return u, nil
}

// SetBlocked blocks or unblocks an account. Blocked accounts are refused by the auth middleware.
func (s *Service) SetBlocked(ctx context.Context, userID id.UserID, blocked bool) (*models.User, error) {
	if blocked && userID == requestcontext.UserID(ctx) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "you cannot block your own account")
	}
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.IsBlocked = blocked
	u.UpdatedAt = requestcontext.Now(ctx)
	if err := s.users.Update(ctx, u); err != nil {
		return nil, translateWriteError(err, "failed to update user")
	}
	event := audit.EventUserUnblocked
	if blocked {
		event = audit.EventUserBlocked
	}
	s.emit(ctx, event, u.ID, "")
	return u, nil
}

// SetActive activates or deactivates an account.
func (s *Service) SetActive(ctx context.Context, userID id.UserID, active bool) error {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if u.IsActive == active {
		return nil
	}
	u.IsActive = active
	u.UpdatedAt = requestcontext.Now(ctx)
	if err := s.users.Update(ctx, u); err != nil {
		return translateWriteError(err, "failed to update user")
	}
	return nil
}

// Delete removes an account. Missing accounts are reported as not found.
func (s *Service) Delete(ctx context.Context, userID id.UserID) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete user")
	}
	s.emit(ctx, audit.EventUserDeleted, userID, "")
	return nil
}

// IsAccountUsable implements the auth middleware's account check.
func (s *Service) IsAccountUsable(ctx context.Context, userID id.UserID) (bool, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.Usable(), nil
}

func (s *Service) emit(ctx context.Context, event audit.AuditEvent, userID id.UserID, detail string) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:    string(event),
		Subject:   "user",
		SubjectID: userID.String(),
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
		switch field {
		case "email":
			return dErrors.New(dErrors.CodeConflict, "Email already exists")
		case "mobile":
			return dErrors.New(dErrors.CodeConflict, "Mobile number already exists")
		}
		return dErrors.New(dErrors.CodeConflict, field+" already exists")
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
