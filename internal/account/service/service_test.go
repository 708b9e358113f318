package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"zoopito/internal/account/models"
	userstore "zoopito/internal/account/store/user"
	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	audit "zoopito/pkg/platform/audit"
	"zoopito/pkg/platform/audit/publisher"
	auditmemory "zoopito/pkg/platform/audit/store/memory"
	"zoopito/pkg/requestcontext"
	"zoopito/pkg/secrets"
)

type AccountServiceSuite struct {
	suite.Suite
	ctx    context.Context
	admin  id.UserID
	store  *userstore.InMemoryUserStore
	audits *auditmemory.InMemoryStore
	svc    *Service
}

func TestAccountServiceSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceSuite))
}

func (s *AccountServiceSuite) SetupTest() {
	s.admin = id.NewUserID()
	s.ctx = requestcontext.WithPrincipal(context.Background(), s.admin, id.RoleAdmin)
	s.ctx = requestcontext.WithTime(s.ctx, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	s.store = userstore.New()
	s.audits = auditmemory.NewInMemoryStore()
	svc, err := New(s.store, WithAuditPublisher(publisher.NewPublisher(s.audits)))
	s.Require().NoError(err)
	s.svc = svc
}

func (s *AccountServiceSuite) TestNewRequiresStore() {
	_, err := New(nil)
	s.Error(err)
}

func (s *AccountServiceSuite) TestCreate() {
	s.Run("normalizes email and returns a verifiable temp password", func() {
		created, err := s.svc.Create(s.ctx, models.CreateUserRequest{
			Name:  "Sunita Rao",
			Email: "  Sunita@Example.com ",
			Role:  id.RoleSales,
		})
		s.Require().NoError(err)
		s.Equal("sunita@example.com", created.Email)
		s.Len(created.TempPassword, secrets.TempPasswordLength)
		s.NoError(secrets.Verify(created.TempPassword, created.PasswordHash))
		s.Equal(s.admin, created.CreatedBy)

		found, err := s.svc.Get(s.ctx, created.ID)
		s.Require().NoError(err)
		s.Equal("Sunita Rao", found.Name)
		s.Equal(id.RoleSales, found.Role)
	})

	s.Run("duplicate email is a conflict", func() {
		_, err := s.svc.Create(s.ctx, models.CreateUserRequest{Name: "Other", Email: "sunita@example.com"})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Contains(err.Error(), "Email already exists")
	})

	s.Run("email or mobile required", func() {
		_, err := s.svc.Create(s.ctx, models.CreateUserRequest{Name: "Nobody"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("name derived from email", func() {
		created, err := s.svc.Create(s.ctx, models.CreateUserRequest{Email: "kiran.more@example.com"})
		s.Require().NoError(err)
		s.Equal("Kiran More", created.Name)
		s.Equal(id.RoleUser, created.Role)
	})

	_, total, err := s.audits.List(s.ctx, audit.Filter{Action: string(audit.EventUserCreated)}, 0, 10)
	s.Require().NoError(err)
	s.Equal(2, total)
}

func (s *AccountServiceSuite) TestFindOrCreate() {
	s.Run("creates when unknown", func() {
		u, created, err := s.svc.FindOrCreate(s.ctx, models.CreateUserRequest{
			Name: "Vet One", Email: "vet.one@example.com", Role: id.RoleUser,
		})
		s.Require().NoError(err)
		s.True(created)
		s.NotEmpty(u.TempPassword)
	})

	s.Run("promotes an existing account", func() {
		u, created, err := s.svc.FindOrCreate(s.ctx, models.CreateUserRequest{
			Name: "Vet One", Email: "VET.ONE@example.com", Role: id.RoleParavet, Qualification: "Diploma",
		})
		s.Require().NoError(err)
		s.False(created)
		s.Empty(u.TempPassword)
		s.Equal(id.RoleParavet, u.Role)

		stored, err := s.svc.Get(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Equal(id.RoleParavet, stored.Role)
		s.Equal("Diploma", stored.Qualification)
	})
}

func (s *AccountServiceSuite) TestBlockingControlsUsability() {
	created, err := s.svc.Create(s.ctx, models.CreateUserRequest{Name: "Agent", Mobile: "9800000000", Role: id.RoleSales})
	s.Require().NoError(err)

	usable, err := s.svc.IsAccountUsable(s.ctx, created.ID)
	s.Require().NoError(err)
	s.True(usable)

	_, err = s.svc.SetBlocked(s.ctx, created.ID, true)
	s.Require().NoError(err)
	usable, err = s.svc.IsAccountUsable(s.ctx, created.ID)
	s.Require().NoError(err)
	s.False(usable)

	s.Run("cannot block yourself", func() {
		_, err := s.svc.SetBlocked(s.ctx, s.admin, true)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("unknown accounts are not usable", func() {
		usable, err := s.svc.IsAccountUsable(s.ctx, id.NewUserID())
		s.Require().NoError(err)
		s.False(usable)
	})
}

func (s *AccountServiceSuite) TestMobileRegistered() {
	_, err := s.svc.Create(s.ctx, models.CreateUserRequest{Name: "Farmer", Mobile: "98765 43210", Role: id.RoleFarmer})
	s.Require().NoError(err)

	taken, err := s.svc.MobileRegistered(s.ctx, "9876543210")
	s.Require().NoError(err)
	s.True(taken)

	taken, err = s.svc.MobileRegistered(s.ctx, "9000000009")
	s.Require().NoError(err)
	s.False(taken)
}

func (s *AccountServiceSuite) TestDelete() {
	created, err := s.svc.Create(s.ctx, models.CreateUserRequest{Name: "Temp", Email: "temp@example.com"})
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Delete(s.ctx, created.ID))
	_, err = s.svc.Get(s.ctx, created.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.True(dErrors.HasCode(s.svc.Delete(s.ctx, created.ID), dErrors.CodeNotFound))
}
