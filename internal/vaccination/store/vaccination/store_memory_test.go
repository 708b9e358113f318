package vaccination

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"zoopito/internal/vaccination/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
	"zoopito/pkg/platform/tx"
)

type InMemoryVaccinationStoreSuite struct {
	suite.Suite
	store *InMemoryVaccinationStore
	ctx   context.Context
	now   time.Time
}

func TestInMemoryVaccinationStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryVaccinationStoreSuite))
}

func (s *InMemoryVaccinationStoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
	s.now = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
}

func newVaccination(farmerID id.FarmerID, animalID id.AnimalID, given time.Time, due *time.Time) *models.Vaccination {
	return &models.Vaccination{
		ID:                 id.NewVaccinationID(),
		FarmerID:           farmerID,
		AnimalID:           animalID,
		VaccineID:          id.NewVaccineID(),
		VaccineName:        "FMD",
		DoseNumber:         1,
		TotalDosesRequired: 2,
		DateAdministered:   given,
		NextDueDate:        due,
		Status:             models.StatusAdministered,
		Source:             models.SourceManualEntry,
		CreatedAt:          given,
		UpdatedAt:          given,
	}
}

func at(t time.Time) *time.Time { return &t }

func (s *InMemoryVaccinationStoreSuite) TestCrudAndCleanup() {
	animalID := id.NewAnimalID()
	v := newVaccination(id.NewFarmerID(), animalID, s.now, nil)
	s.Require().NoError(s.store.Create(s.ctx, v))
	s.ErrorIs(s.store.Create(s.ctx, v), sentinel.ErrAlreadyUsed)

	v.Notes = "updated"
	s.Require().NoError(s.store.Update(s.ctx, v))
	found, err := s.store.FindByID(s.ctx, v.ID)
	s.Require().NoError(err)
	s.Equal("updated", found.Notes)

	n, err := s.store.CountByVaccine(s.ctx, v.VaccineID)
	s.Require().NoError(err)
	s.Equal(1, n)

	s.Require().NoError(s.store.DeleteByAnimal(s.ctx, animalID))
	_, err = s.store.FindByID(s.ctx, v.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(s.ctx, v.ID), sentinel.ErrNotFound)
}

func (s *InMemoryVaccinationStoreSuite) TestQueryWindowsAndSearch() {
	farmerID, animalID := id.NewFarmerID(), id.NewAnimalID()
	first := newVaccination(farmerID, animalID, s.now.Add(-time.Hour), nil)
	first.Notes = "Left flank swelling"
	second := newVaccination(farmerID, animalID, s.now, at(s.now.AddDate(0, 0, -1)))
	done := newVaccination(farmerID, animalID, s.now, at(s.now.AddDate(0, 0, -1)))
	done.Status = models.StatusCompleted
	for _, v := range []*models.Vaccination{second, first, done} {
		s.Require().NoError(s.store.Create(s.ctx, v))
	}

	page, total, err := s.store.Query(s.ctx, models.Query{}, 0, 2)
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Equal(first.ID, page[0].ID)

	overdue, err := s.store.Count(s.ctx, models.Query{DueBefore: at(s.now), ExcludeStatus: models.StatusCompleted})
	s.Require().NoError(err)
	s.Equal(1, overdue)

	found, total, err := s.store.Query(s.ctx, models.Query{Search: "FLANK"}, 0, 10)
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Equal(first.ID, found[0].ID)

	empty, total, err := s.store.Query(s.ctx, models.Query{}, 10, 10)
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Empty(empty)
}

func (s *InMemoryVaccinationStoreSuite) TestDueQueries() {
	farmerID := id.NewFarmerID()
	soon := newVaccination(farmerID, id.NewAnimalID(), s.now, at(s.now.AddDate(0, 0, 2)))
	late := newVaccination(farmerID, id.NewAnimalID(), s.now, at(s.now.AddDate(0, 0, -3)))
	complete := newVaccination(farmerID, id.NewAnimalID(), s.now, at(s.now.AddDate(0, 0, 1)))
	complete.IsSeriesComplete = true
	for _, v := range []*models.Vaccination{soon, late, complete} {
		s.Require().NoError(s.store.Create(s.ctx, v))
	}

	due, err := s.store.DueBetween(s.ctx, s.now, s.now.AddDate(0, 0, 7))
	s.Require().NoError(err)
	s.Require().Len(due, 1)
	s.Equal(soon.ID, due[0].ID)

	overdue, err := s.store.OverdueBefore(s.ctx, s.now)
	s.Require().NoError(err)
	s.Require().Len(overdue, 1)
	s.Equal(late.ID, overdue[0].ID)

	stats, err := s.store.FarmerStats(s.ctx, farmerID, s.now, s.now.AddDate(0, 0, 7))
	s.Require().NoError(err)
	s.Equal(models.FarmerStats{TotalVaccinations: 3, UniqueAnimalCount: 3, OverdueCount: 1, UpcomingCount: 2}, stats)
}

func (s *InMemoryVaccinationStoreSuite) TestFindByBatchAndRollback() {
	animalID := id.NewAnimalID()
	kept := newVaccination(id.NewFarmerID(), animalID, s.now, nil)
	s.Require().NoError(s.store.Create(s.ctx, kept))

	err := tx.NewMemoryRunner().RunInTx(s.ctx, func(ctx context.Context) error {
		for i := range 3 {
			v := newVaccination(id.NewFarmerID(), id.NewAnimalID(), s.now, nil)
			idx := 2 - i
			v.RegistrationBatchID = "BATCH_1_xyz"
			v.RegistrationBatchIndex = &idx
			s.Require().NoError(s.store.Create(ctx, v))
		}

		batch, err := s.store.FindByBatch(ctx, "BATCH_1_xyz")
		s.Require().NoError(err)
		s.Require().Len(batch, 3)
		for i, v := range batch {
			s.Equal(i, *v.RegistrationBatchIndex)
		}
		s.Require().NoError(s.store.DeleteByAnimal(ctx, animalID))
		return errors.New("rolled back")
	})
	s.Require().Error(err)

	batch, err := s.store.FindByBatch(s.ctx, "BATCH_1_xyz")
	s.Require().NoError(err)
	s.Empty(batch)
	_, err = s.store.FindByID(s.ctx, kept.ID)
	s.NoError(err)
}
