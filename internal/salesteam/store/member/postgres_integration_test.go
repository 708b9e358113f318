//go:build integration

package member_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"zoopito/internal/salesteam/models"
	"zoopito/internal/salesteam/store/member"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
	"zoopito/pkg/testutil/containers"
)

type PostgresMemberStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *member.PostgresStore
	ctx      context.Context
}

func TestPostgresMemberStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresMemberStoreSuite))
}

func (s *PostgresMemberStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = member.NewPostgres(s.postgres.DB)
	s.ctx = context.Background()
}

func (s *PostgresMemberStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(s.ctx))
}

func newMember(code string) *models.SalesMember {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.SalesMember{
		ID:            id.NewSalesMemberID(),
		UserID:        id.NewUserID(),
		EmployeeCode:  code,
		AssignedAreas: []string{"Wai"},
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (s *PostgresMemberStoreSuite) TestEmployeeCodeUniqueIndex() {
	s.Require().NoError(s.store.Create(s.ctx, newMember("ABC123")))

	field, ok := sentinel.DuplicateField(s.store.Create(s.ctx, newMember("ABC123")))
	s.Require().True(ok)
	s.Equal("employee_code", field)

	exists, err := s.store.EmployeeCodeExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *PostgresMemberStoreSuite) TestRoundTrip() {
	m := newMember("XYZ789")
	s.Require().NoError(s.store.Create(s.ctx, m))

	found, err := s.store.FindByUserID(s.ctx, m.UserID)
	s.Require().NoError(err)
	s.Equal(m.ID, found.ID)
	s.Equal([]string{"Wai"}, found.AssignedAreas)
	s.Nil(found.LastActiveAt)

	list, total, err := s.store.List(s.ctx, models.ListFilter{Area: "WAI"}, 0, 20)
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Equal("XYZ789", list[0].EmployeeCode)
}
