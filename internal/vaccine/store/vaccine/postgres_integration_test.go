//go:build integration

package vaccine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"zoopito/internal/vaccine/models"
	"zoopito/internal/vaccine/store/vaccine"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
	"zoopito/pkg/testutil/containers"
)

type PostgresVaccineStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *vaccine.PostgresStore
	ctx      context.Context
}

func TestPostgresVaccineStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresVaccineStoreSuite))
}

func (s *PostgresVaccineStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = vaccine.NewPostgres(s.postgres.DB)
	s.ctx = context.Background()
}

func (s *PostgresVaccineStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(s.ctx))
}

func newVaccine(name string, species ...string) *models.Vaccine {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Vaccine{
		ID:                    id.NewVaccineID(),
		Name:                  name,
		Brand:                 "Hester",
		VaccineType:           models.TypeInactivated,
		DiseaseTarget:         "Haemorrhagic Septicaemia",
		Category:              models.CategoryCore,
		TargetSpecies:         species,
		AdministrationRoute:   models.RouteSubcutaneous,
		DosageUnit:            "ml",
		StandardDosage:        2,
		BoosterIntervalWeeks:  26,
		DefaultNextDueMonths:  12,
		RequiresRefrigeration: true,
		IsActive:              true,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

func (s *PostgresVaccineStoreSuite) TestRoundTrip() {
	v := newVaccine("HS Vaccine", "Cattle", "Goat")
	s.Require().NoError(s.store.Create(s.ctx, v))

	got, err := s.store.FindByID(s.ctx, v.ID)
	s.Require().NoError(err)
	s.Equal(v.Name, got.Name)
	s.Equal([]string{"Cattle", "Goat"}, got.TargetSpecies)
	s.Equal(models.Interval{Months: 12, Weeks: 26}, got.Interval())
	s.True(got.CreatedBy.IsNil())

	got.IsActive = false
	s.Require().NoError(s.store.Update(s.ctx, got))
	again, err := s.store.FindByID(s.ctx, v.ID)
	s.Require().NoError(err)
	s.False(again.IsActive)
}

func (s *PostgresVaccineStoreSuite) TestNameUniqueIgnoringCase() {
	s.Require().NoError(s.store.Create(s.ctx, newVaccine("HS Vaccine", "Cattle")))
	err := s.store.Create(s.ctx, newVaccine("HS VACCINE", "Cattle"))
	field, ok := sentinel.DuplicateField(err)
	s.True(ok)
	s.Equal("name", field)
}

func (s *PostgresVaccineStoreSuite) TestListAndDropdown() {
	s.Require().NoError(s.store.Create(s.ctx, newVaccine("Goat Pox", "Goat")))
	s.Require().NoError(s.store.Create(s.ctx, newVaccine("Dewormer", "All")))
	s.Require().NoError(s.store.Create(s.ctx, newVaccine("Anthrax", "Cattle")))

	list, total, err := s.store.List(s.ctx, models.ListFilter{Search: "septic"}, 0, 2)
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Require().Len(list, 2)
	s.Equal("Anthrax", list[0].Name)

	list, total, err = s.store.List(s.ctx, models.ListFilter{Species: "Goat"}, 0, 10)
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Equal("Goat Pox", list[0].Name)

	options, err := s.store.Dropdown(s.ctx, "Goat")
	s.Require().NoError(err)
	s.Require().Len(options, 2)
	s.Equal("Dewormer", options[0].Name)
}

func (s *PostgresVaccineStoreSuite) TestDeleteMissing() {
	s.ErrorIs(s.store.Delete(s.ctx, id.NewVaccineID()), sentinel.ErrNotFound)
}
