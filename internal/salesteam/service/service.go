package service

import (
	"context"
	"errors"
	"log/slog"

	accountmodels "zoopito/internal/account/models"
	"zoopito/internal/salesteam/models"
	"zoopito/pkg/codegen"
	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	audit "zoopito/pkg/platform/audit"
	"zoopito/pkg/platform/sentinel"
	"zoopito/pkg/requestcontext"
)

// insertAttempts bounds the retries after an employee code collides on insert.
const insertAttempts = 3

type Store interface {
	Create(ctx context.Context, m *models.SalesMember) error
	FindByID(ctx context.Context, memberID id.SalesMemberID) (*models.SalesMember, error)
	FindByUserID(ctx context.Context, userID id.UserID) (*models.SalesMember, error)
	EmployeeCodeExists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.SalesMember, int, error)
}

// Accounts is the slice of the account service sales onboarding needs.
type Accounts interface {
	FindOrCreate(ctx context.Context, req accountmodels.CreateUserRequest) (*accountmodels.CreatedUser, bool, error)
	Get(ctx context.Context, userID id.UserID) (*accountmodels.User, error)
	Delete(ctx context.Context, userID id.UserID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages the sales team.
type Service struct {
	members        Store
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

func New(members Store, accounts Accounts, opts ...Option) (*Service, error) {
	if members == nil {
		return nil, errors.New("sales member store is required")
	}
	if accounts == nil {
		return nil, errors.New("account service is required")
	}
	s := &Service{members: members, accounts: accounts}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Create onboards a sales member with a fresh employee code.
func (s *Service) Create(ctx context.Context, req models.CreateSalesMemberRequest) (*models.CreatedSalesMember, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	account, created, err := s.accounts.FindOrCreate(ctx, accountmodels.CreateUserRequest{
		Name:         req.Name,
		Email:        req.Email,
		Mobile:       req.Mobile,
		Role:         id.RoleSales,
		AssignedArea: firstOrEmpty(req.AssignedAreas),
		Designation:  req.Designation,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.members.FindByUserID(ctx, account.ID); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "User is already a sales team member")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up sales member")
	}

	member, err := s.insert(ctx, req, account.ID)
	if err != nil {
		if created {
			if rbErr := s.accounts.Delete(ctx, account.ID); rbErr != nil {
				s.logger.ErrorContext(ctx, "failed to roll back sales account",
					"user_id", account.ID,
					"error", rbErr,
					"request_id", requestcontext.RequestID(ctx),
				)
			}
		}
		return nil, err
	}

	s.emit(ctx, member)
	return &models.CreatedSalesMember{
		Detail:       detail(member, account.User),
		TempPassword: account.TempPassword,
	}, nil
}

// insert draws employee codes until one is free, and retries when a concurrent
// writer takes the same code between the check and the insert.
func (s *Service) insert(ctx context.Context, req models.CreateSalesMemberRequest, userID id.UserID) (*models.SalesMember, error) {
	now := requestcontext.Now(ctx)
	member := &models.SalesMember{
		ID:            id.NewSalesMemberID(),
		UserID:        userID,
		AssignedAreas: req.AssignedAreas,
		Remarks:       req.Remarks,
		IsActive:      true,
		CreatedBy:     requestcontext.UserID(ctx),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if member.AssignedAreas == nil {
		member.AssignedAreas = []string{}
	}

	for range insertAttempts {
		code, err := codegen.Unique(ctx, models.EmployeeCodeLength, codegen.UpperAlphaNumeric, s.members.EmployeeCodeExists)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate employee code")
		}
		member.EmployeeCode = code
		err = s.members.Create(ctx, member)
		if err == nil {
			return member, nil
		}
		field, dup := sentinel.DuplicateField(err)
		switch {
		case dup && field == "employee_code":
			s.logger.WarnContext(ctx, "employee code collided, retrying",
				"request_id", requestcontext.RequestID(ctx),
			)
			continue
		case dup && field == "user_id":
			return nil, dErrors.New(dErrors.CodeConflict, "User is already a sales team member")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Failed to create sales member")
	}
	return nil, dErrors.New(dErrors.CodeConflict, "could not allocate a unique employee code")
}

// View returns a member with its account contact fields.
func (s *Service) View(ctx context.Context, memberID id.SalesMemberID) (*models.Detail, error) {
	m, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Sales member not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load sales member")
	}
	return s.withAccount(ctx, m)
}

func (s *Service) List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Detail, int, error) {
	members, total, err := s.members.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sales team")
	}
	out := make([]*models.Detail, 0, len(members))
	for _, m := range members {
		d, err := s.withAccount(ctx, m)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, nil
}

func (s *Service) withAccount(ctx context.Context, m *models.SalesMember) (*models.Detail, error) {
	account, err := s.accounts.Get(ctx, m.UserID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return detail(m, nil), nil
		}
		return nil, err
	}
	return detail(m, account), nil
}

func detail(m *models.SalesMember, account *accountmodels.User) *models.Detail {
	d := &models.Detail{SalesMember: m}
	if account != nil {
		d.Name = account.Name
		d.Email = account.Email
		d.Mobile = account.Mobile
		d.Designation = account.Designation
	}
	return d
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func (s *Service) emit(ctx context.Context, m *models.SalesMember) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:    string(audit.EventSalesMemberAdded),
		Subject:   "sales_member",
		SubjectID: m.ID.String(),
		Detail:    m.EmployeeCode,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", string(audit.EventSalesMemberAdded),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
