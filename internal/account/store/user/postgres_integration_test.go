//go:build integration

package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"zoopito/internal/account/models"
	"zoopito/internal/account/store/user"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
	"zoopito/pkg/testutil/containers"
)

type PostgresUserStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *user.PostgresStore
	ctx      context.Context
}

func TestPostgresUserStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresUserStoreSuite))
}

func (s *PostgresUserStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = user.NewPostgres(s.postgres.DB)
	s.ctx = context.Background()
}

func (s *PostgresUserStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(s.ctx))
}

func (s *PostgresUserStoreSuite) newUser(emailAddr, mobile string) *models.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.User{
		ID:        id.NewUserID(),
		Name:      "Integration User",
		Email:     emailAddr,
		Mobile:    mobile,
		Role:      id.RoleParavet,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *PostgresUserStoreSuite) TestCreateAndFind() {
	u := s.newUser("ravi@example.com", "9811111111")
	s.Require().NoError(s.store.Create(s.ctx, u))

	found, err := s.store.FindByEmail(s.ctx, "ravi@example.com")
	s.Require().NoError(err)
	s.Equal(u.ID, found.ID)
	s.Equal(u.Name, found.Name)
	s.Equal(id.RoleParavet, found.Role)
	s.True(found.CreatedBy.IsNil())
}

func (s *PostgresUserStoreSuite) TestDuplicateMobileTranslated() {
	s.Require().NoError(s.store.Create(s.ctx, s.newUser("", "9822222222")))

	err := s.store.Create(s.ctx, s.newUser("other@example.com", "9822222222"))
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
	field, ok := sentinel.DuplicateField(err)
	s.True(ok)
	s.Equal("mobile", field)
}

func (s *PostgresUserStoreSuite) TestUpdateAndDelete() {
	u := s.newUser("meera@example.com", "")
	s.Require().NoError(s.store.Create(s.ctx, u))

	u.IsBlocked = true
	s.Require().NoError(s.store.Update(s.ctx, u))
	found, err := s.store.FindByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.True(found.IsBlocked)

	s.Require().NoError(s.store.Delete(s.ctx, u.ID))
	_, err = s.store.FindByID(s.ctx, u.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresUserStoreSuite) TestListSearch() {
	a := s.newUser("alpha@example.com", "")
	a.Name = "Alpha Farmer"
	b := s.newUser("beta@example.com", "")
	b.Name = "Beta Agent"
	s.Require().NoError(s.store.Create(s.ctx, a))
	s.Require().NoError(s.store.Create(s.ctx, b))

	users, total, err := s.store.List(s.ctx, models.ListFilter{Search: "alpha"}, 0, 10)
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Require().Len(users, 1)
	s.Equal(a.ID, users[0].ID)
}
