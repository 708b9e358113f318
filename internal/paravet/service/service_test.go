package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	accountmodels "zoopito/internal/account/models"
	accountservice "zoopito/internal/account/service"
	userstore "zoopito/internal/account/store/user"
	"zoopito/internal/paravet/models"
	paravetstore "zoopito/internal/paravet/store/paravet"
	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	"zoopito/pkg/requestcontext"
)

type ParavetServiceSuite struct {
	suite.Suite
	ctx      context.Context
	users    *userstore.InMemoryUserStore
	accounts *accountservice.Service
	svc      *Service
}

func TestParavetServiceSuite(t *testing.T) {
	suite.Run(t, new(ParavetServiceSuite))
}

func (s *ParavetServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithPrincipal(context.Background(), id.NewUserID(), id.RoleAdmin)
	s.ctx = requestcontext.WithTime(s.ctx, time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC))
	s.users = userstore.New()
	accounts, err := accountservice.New(s.users)
	s.Require().NoError(err)
	s.accounts = accounts
	svc, err := New(paravetstore.New(), accounts)
	s.Require().NoError(err)
	s.svc = svc
}

func (s *ParavetServiceSuite) TestCreateNewAccount() {
	created, err := s.svc.Create(s.ctx, models.CreateParavetRequest{
		Name:          "Dr. Sneha Pawar",
		Email:         "Sneha@Example.com",
		Qualification: "B.V.Sc",
		LicenseNumber: "MH-001",
		AssignedAreas: []string{"Wai", " Satara", "Wai"},
	})
	s.Require().NoError(err)
	s.NotEmpty(created.TempPassword)
	s.Equal("Dr. Sneha Pawar", created.Name)
	s.Equal("sneha@example.com", created.Email)
	s.Equal([]string{"Wai", "Satara"}, created.AssignedAreas)

	user, err := s.accounts.Get(s.ctx, created.UserID)
	s.Require().NoError(err)
	s.Equal(id.RoleParavet, user.Role)
	s.Equal("B.V.Sc", user.Qualification)
}

func (s *ParavetServiceSuite) TestCreatePromotesExistingAccount() {
	existing, err := s.accounts.Create(s.ctx, accountmodels.CreateUserRequest{
		Name: "Kiran", Mobile: "9812345678", Role: id.RoleUser,
	})
	s.Require().NoError(err)

	created, err := s.svc.Create(s.ctx, models.CreateParavetRequest{Mobile: "98123 45678", Qualification: "Diploma"})
	s.Require().NoError(err)
	s.Equal(existing.ID, created.UserID)
	s.Empty(created.TempPassword)

	user, err := s.accounts.Get(s.ctx, existing.ID)
	s.Require().NoError(err)
	s.Equal(id.RoleParavet, user.Role)

	s.Run("second onboarding of the same account is rejected", func() {
		_, err := s.svc.Create(s.ctx, models.CreateParavetRequest{Mobile: "9812345678", Qualification: "Diploma"})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *ParavetServiceSuite) TestDuplicateLicenseRollsBackNewAccount() {
	_, err := s.svc.Create(s.ctx, models.CreateParavetRequest{Email: "a@example.com", Qualification: "B.V.Sc", LicenseNumber: "L-7"})
	s.Require().NoError(err)

	_, err = s.svc.Create(s.ctx, models.CreateParavetRequest{Email: "b@example.com", Qualification: "B.V.Sc", LicenseNumber: "L-7"})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Contains(err.Error(), "License number already exists")

	_, err = s.users.FindByEmail(s.ctx, "b@example.com")
	s.Error(err)
}

func (s *ParavetServiceSuite) TestValidation() {
	_, err := s.svc.Create(s.ctx, models.CreateParavetRequest{Email: "c@example.com"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	_, err = s.svc.Create(s.ctx, models.CreateParavetRequest{Qualification: "B.V.Sc"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ParavetServiceSuite) TestUpdate() {
	created, err := s.svc.Create(s.ctx, models.CreateParavetRequest{Email: "d@example.com", Qualification: "B.V.Sc"})
	s.Require().NoError(err)

	name := "Dr. Desai"
	rating := 4.5
	updated, err := s.svc.Update(s.ctx, created.ID, models.UpdateParavetRequest{Name: &name, Rating: &rating})
	s.Require().NoError(err)
	s.Equal("Dr. Desai", updated.Name)
	s.Equal(4.5, updated.Rating)

	bad := 7.0
	_, err = s.svc.Update(s.ctx, created.ID, models.UpdateParavetRequest{Rating: &bad})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ParavetServiceSuite) TestSetActiveFollowsAccount() {
	created, err := s.svc.Create(s.ctx, models.CreateParavetRequest{Email: "e@example.com", Qualification: "B.V.Sc"})
	s.Require().NoError(err)

	d, err := s.svc.SetActive(s.ctx, created.ID, false)
	s.Require().NoError(err)
	s.False(d.IsActive)

	usable, err := s.accounts.IsAccountUsable(s.ctx, created.UserID)
	s.Require().NoError(err)
	s.False(usable)
}

func (s *ParavetServiceSuite) TestListAndDelete() {
	created, err := s.svc.Create(s.ctx, models.CreateParavetRequest{Email: "f@example.com", Qualification: "B.V.Sc", AssignedAreas: []string{"Pune"}})
	s.Require().NoError(err)

	list, total, err := s.svc.List(s.ctx, models.ListFilter{Area: "pune"}, 0, 20)
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Equal("f@example.com", list[0].Email)

	s.Require().NoError(s.svc.Delete(s.ctx, created.ID))
	_, err = s.svc.View(s.ctx, created.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = s.accounts.Get(s.ctx, created.UserID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
