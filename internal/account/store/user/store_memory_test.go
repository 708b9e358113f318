package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"zoopito/internal/account/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
)

type InMemoryUserStoreSuite struct {
	suite.Suite
	store *InMemoryUserStore
	ctx   context.Context
}

func (s *InMemoryUserStoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func TestInMemoryUserStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryUserStoreSuite))
}

func newUser(emailAddr, mobile string) *models.User {
	now := time.Now()
	return &models.User{
		ID:        id.NewUserID(),
		Name:      "Test User",
		Email:     emailAddr,
		Mobile:    mobile,
		Role:      id.RoleSales,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *InMemoryUserStoreSuite) TestLookupBehavior() {
	u := newUser("asha@example.com", "9000000001")
	s.Require().NoError(s.store.Create(s.ctx, u))

	s.Run("returns user by ID", func() {
		found, err := s.store.FindByID(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Equal(*u, *found)
	})

	s.Run("returns user by email", func() {
		found, err := s.store.FindByEmail(s.ctx, "asha@example.com")
		s.Require().NoError(err)
		s.Equal(u.ID, found.ID)
	})

	s.Run("returns user by mobile", func() {
		found, err := s.store.FindByMobile(s.ctx, "9000000001")
		s.Require().NoError(err)
		s.Equal(u.ID, found.ID)
	})

	s.Run("empty email never matches", func() {
		_, err := s.store.FindByEmail(s.ctx, "")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, id.NewUserID())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryUserStoreSuite) TestUniqueKeys() {
	s.Require().NoError(s.store.Create(s.ctx, newUser("asha@example.com", "9000000001")))

	s.Run("duplicate email is rejected", func() {
		err := s.store.Create(s.ctx, newUser("asha@example.com", ""))
		s.ErrorIs(err, sentinel.ErrAlreadyUsed)
		field, ok := sentinel.DuplicateField(err)
		s.True(ok)
		s.Equal("email", field)
	})

	s.Run("duplicate mobile is rejected", func() {
		err := s.store.Create(s.ctx, newUser("", "9000000001"))
		field, ok := sentinel.DuplicateField(err)
		s.True(ok)
		s.Equal("mobile", field)
	})

	s.Run("empty values do not collide", func() {
		s.NoError(s.store.Create(s.ctx, newUser("", "9000000002")))
		s.NoError(s.store.Create(s.ctx, newUser("", "9000000003")))
	})
}

func (s *InMemoryUserStoreSuite) TestListFiltersAndPages() {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, role := range []id.Role{id.RoleSales, id.RoleParavet, id.RoleSales} {
		u := newUser("", "900000010"+string(rune('0'+i)))
		u.Role = role
		u.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		s.Require().NoError(s.store.Create(s.ctx, u))
	}

	users, total, err := s.store.List(s.ctx, models.ListFilter{Role: id.RoleSales}, 0, 1)
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Require().Len(users, 1)
	s.Equal(base.Add(2*time.Hour), users[0].CreatedAt)
}

func (s *InMemoryUserStoreSuite) TestDelete() {
	u := newUser("delete.me@example.com", "")
	s.Require().NoError(s.store.Create(s.ctx, u))
	s.Require().NoError(s.store.Delete(s.ctx, u.ID))

	_, err := s.store.FindByID(s.ctx, u.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(s.ctx, u.ID), sentinel.ErrNotFound)
}
