package paravet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"zoopito/internal/paravet/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
)

type InMemoryParavetStoreSuite struct {
	suite.Suite
	store *InMemoryParavetStore
	ctx   context.Context
}

func TestInMemoryParavetStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryParavetStoreSuite))
}

func (s *InMemoryParavetStoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func newParavet(license string, areas ...string) *models.Paravet {
	now := time.Now()
	return &models.Paravet{
		ID:            id.NewParavetID(),
		UserID:        id.NewUserID(),
		Qualification: "B.V.Sc",
		LicenseNumber: license,
		AssignedAreas: areas,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (s *InMemoryParavetStoreSuite) TestLicenseUniqueOnlyWhenSet() {
	s.Require().NoError(s.store.Create(s.ctx, newParavet("")))
	s.Require().NoError(s.store.Create(s.ctx, newParavet("")))
	s.Require().NoError(s.store.Create(s.ctx, newParavet("L-1")))

	field, ok := sentinel.DuplicateField(s.store.Create(s.ctx, newParavet("L-1")))
	s.True(ok)
	s.Equal("license_number", field)
}

func (s *InMemoryParavetStoreSuite) TestOneParavetPerUser() {
	p := newParavet("")
	s.Require().NoError(s.store.Create(s.ctx, p))

	again := newParavet("")
	again.UserID = p.UserID
	s.ErrorIs(s.store.Create(s.ctx, again), sentinel.ErrAlreadyUsed)

	found, err := s.store.FindByUserID(s.ctx, p.UserID)
	s.Require().NoError(err)
	s.Equal(p.ID, found.ID)
}

func (s *InMemoryParavetStoreSuite) TestReturnedCopiesAreDetached() {
	p := newParavet("", "Wai")
	s.Require().NoError(s.store.Create(s.ctx, p))
	p.AssignedAreas[0] = "Changed"

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal([]string{"Wai"}, found.AssignedAreas)
}

func (s *InMemoryParavetStoreSuite) TestListByArea() {
	s.Require().NoError(s.store.Create(s.ctx, newParavet("", "Wai", "Satara")))
	s.Require().NoError(s.store.Create(s.ctx, newParavet("", "Pune")))

	list, total, err := s.store.List(s.ctx, models.ListFilter{Area: "satara"}, 0, 10)
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Contains(list[0].AssignedAreas, "Satara")
}
