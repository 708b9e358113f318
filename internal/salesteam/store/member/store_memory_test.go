package member

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"zoopito/internal/salesteam/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
)

type InMemoryMemberStoreSuite struct {
	suite.Suite
	store *InMemoryMemberStore
	ctx   context.Context
}

func TestInMemoryMemberStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryMemberStoreSuite))
}

func (s *InMemoryMemberStoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func newMember(code string) *models.SalesMember {
	now := time.Now()
	return &models.SalesMember{
		ID:           id.NewSalesMemberID(),
		UserID:       id.NewUserID(),
		EmployeeCode: code,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *InMemoryMemberStoreSuite) TestDuplicateEmployeeCodeRejected() {
	s.Require().NoError(s.store.Create(s.ctx, newMember("ABC123")))

	field, ok := sentinel.DuplicateField(s.store.Create(s.ctx, newMember("ABC123")))
	s.True(ok)
	s.Equal("employee_code", field)

	exists, err := s.store.EmployeeCodeExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.True(exists)
	exists, err = s.store.EmployeeCodeExists(s.ctx, "ZZZ999")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *InMemoryMemberStoreSuite) TestFindByUserID() {
	m := newMember("QWE456")
	s.Require().NoError(s.store.Create(s.ctx, m))

	found, err := s.store.FindByUserID(s.ctx, m.UserID)
	s.Require().NoError(err)
	s.Equal(m.ID, found.ID)

	_, err = s.store.FindByUserID(s.ctx, id.NewUserID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}
