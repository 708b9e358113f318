//go:build integration

package vaccination_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	accountmodels "zoopito/internal/account/models"
	"zoopito/internal/account/store/user"
	animalmodels "zoopito/internal/animal/models"
	"zoopito/internal/animal/store/animal"
	farmermodels "zoopito/internal/farmer/models"
	"zoopito/internal/farmer/store/farmer"
	"zoopito/internal/vaccination/models"
	"zoopito/internal/vaccination/store/vaccination"
	vaccinemodels "zoopito/internal/vaccine/models"
	"zoopito/internal/vaccine/store/vaccine"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
	"zoopito/pkg/testutil/containers"
)

type PostgresVaccinationStoreSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	store     *vaccination.PostgresStore
	farmerID  id.FarmerID
	animalID  id.AnimalID
	vaccineID id.VaccineID
	now       time.Time
	ctx       context.Context
}

func TestPostgresVaccinationStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresVaccinationStoreSuite))
}

func (s *PostgresVaccinationStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = vaccination.NewPostgres(s.postgres.DB)
	s.ctx = context.Background()
}

func (s *PostgresVaccinationStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(s.ctx))
	s.now = time.Now().UTC().Truncate(time.Microsecond)
	db := s.postgres.DB

	u := &accountmodels.User{
		ID: id.NewUserID(), Name: "Owner", Mobile: "9866666666", Email: "9866666666@zoopito.com",
		Role: id.RoleFarmer, IsActive: true, CreatedAt: s.now, UpdatedAt: s.now,
	}
	s.Require().NoError(user.NewPostgres(db).Create(s.ctx, u))
	f := &farmermodels.Farmer{
		ID:             id.NewFarmerID(),
		UserID:         u.ID,
		Name:           "Owner",
		MobileNumber:   "9866666666",
		Location:       farmermodels.Location{Type: "Point", Coordinates: []float64{0, 0}},
		UniqueFarmerID: "VAC001",
		IsActive:       true,
		CreatedAt:      s.now,
		UpdatedAt:      s.now,
	}
	s.Require().NoError(farmer.NewPostgres(db).Create(s.ctx, f))
	a := &animalmodels.Animal{
		ID: id.NewAnimalID(), FarmerID: f.ID, AnimalType: animalmodels.AnimalCow, Gender: animalmodels.GenderFemale,
		UniqueAnimalID: "ANI-202501-0001", Age: animalmodels.Age{Unit: animalmodels.AgeMonths},
		Health: animalmodels.Health{Status: animalmodels.HealthHealthy}, Status: animalmodels.StatusActive,
		IsActive: true, CurrentOwner: f.ID, CreatedAt: s.now, UpdatedAt: s.now,
	}
	s.Require().NoError(animal.NewPostgres(db).Create(s.ctx, a))
	v := &vaccinemodels.Vaccine{
		ID: id.NewVaccineID(), Name: "HS-BQ", Brand: "IIL", VaccineType: vaccinemodels.TypeInactivated,
		DiseaseTarget: "HS", Category: vaccinemodels.CategoryCore, TargetSpecies: []string{"Cattle"},
		AdministrationRoute: vaccinemodels.RouteSubcutaneous, DosageUnit: "ml", IsActive: true,
		CreatedAt: s.now, UpdatedAt: s.now,
	}
	s.Require().NoError(vaccine.NewPostgres(db).Create(s.ctx, v))
	s.farmerID, s.animalID, s.vaccineID = f.ID, a.ID, v.ID
}

func (s *PostgresVaccinationStoreSuite) newVaccination(given time.Time, due *time.Time) *models.Vaccination {
	return &models.Vaccination{
		ID:                   id.NewVaccinationID(),
		FarmerID:             s.farmerID,
		AnimalID:             s.animalID,
		VaccineID:            s.vaccineID,
		VaccineName:          "HS-BQ",
		VaccineType:          "Inactivated",
		DoseNumber:           1,
		TotalDosesRequired:   2,
		AdministrationMethod: models.MethodInjection,
		DosageUnit:           models.DosageML,
		DateAdministered:     given,
		NextDueDate:          due,
		AdministeredBy:       "Dr. Kale",
		Status:               models.StatusAdministered,
		VerificationStatus:   models.VerificationPending,
		Source:               models.SourceManualEntry,
		CreatedAt:            s.now,
		UpdatedAt:            s.now,
	}
}

func (s *PostgresVaccinationStoreSuite) TestCreateFindUpdate() {
	due := s.now.AddDate(1, 0, 0)
	v := s.newVaccination(s.now, &due)
	idx := 0
	v.RegistrationBatchID = "BATCH_1_pg"
	v.RegistrationBatchIndex = &idx
	s.Require().NoError(s.store.Create(s.ctx, v))

	found, err := s.store.FindByID(s.ctx, v.ID)
	s.Require().NoError(err)
	s.Equal("HS-BQ", found.VaccineName)
	s.Equal(due, found.NextDueDate.UTC())
	s.Equal(0, *found.RegistrationBatchIndex)

	v.VerificationStatus = models.VerificationVerified
	v.Notes = "ok"
	s.Require().NoError(s.store.Update(s.ctx, v))
	found, err = s.store.FindByID(s.ctx, v.ID)
	s.Require().NoError(err)
	s.Equal(models.VerificationVerified, found.VerificationStatus)

	batch, err := s.store.FindByBatch(s.ctx, "BATCH_1_pg")
	s.Require().NoError(err)
	s.Len(batch, 1)
}

func (s *PostgresVaccinationStoreSuite) TestQueriesAndStats() {
	soon := s.now.AddDate(0, 0, 2)
	late := s.now.AddDate(0, 0, -2)
	upcoming := s.newVaccination(s.now, &soon)
	overdue := s.newVaccination(s.now.AddDate(0, 0, -30), &late)
	overdue.Notes = "Second dose pending"
	s.Require().NoError(s.store.Create(s.ctx, upcoming))
	s.Require().NoError(s.store.Create(s.ctx, overdue))

	due, err := s.store.DueBetween(s.ctx, s.now, s.now.AddDate(0, 0, 7))
	s.Require().NoError(err)
	s.Require().Len(due, 1)
	s.Equal(upcoming.ID, due[0].ID)

	past, err := s.store.OverdueBefore(s.ctx, s.now)
	s.Require().NoError(err)
	s.Require().Len(past, 1)
	s.Equal(overdue.ID, past[0].ID)

	list, total, err := s.store.Query(s.ctx, models.Query{Search: "second"}, 0, 10)
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Equal(overdue.ID, list[0].ID)

	from := s.now.AddDate(0, 0, -1)
	n, err := s.store.Count(s.ctx, models.Query{AdministeredFrom: &from, ExcludeStatus: models.StatusCompleted})
	s.Require().NoError(err)
	s.Equal(1, n)

	stats, err := s.store.FarmerStats(s.ctx, s.farmerID, s.now, s.now.AddDate(0, 0, 7))
	s.Require().NoError(err)
	s.Equal(models.FarmerStats{TotalVaccinations: 2, UniqueAnimalCount: 1, OverdueCount: 1, UpcomingCount: 1}, stats)

	used, err := s.store.CountByVaccine(s.ctx, s.vaccineID)
	s.Require().NoError(err)
	s.Equal(2, used)
}

func (s *PostgresVaccinationStoreSuite) TestDeletes() {
	v := s.newVaccination(s.now, nil)
	s.Require().NoError(s.store.Create(s.ctx, v))

	s.Require().NoError(s.store.Delete(s.ctx, v.ID))
	s.ErrorIs(s.store.Delete(s.ctx, v.ID), sentinel.ErrNotFound)

	s.Require().NoError(s.store.Create(s.ctx, s.newVaccination(s.now, nil)))
	s.Require().NoError(s.store.DeleteByAnimal(s.ctx, s.animalID))
	list, err := s.store.ListByAnimal(s.ctx, s.animalID)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *PostgresVaccinationStoreSuite) TestMissingAnimalIsConflict() {
	v := s.newVaccination(s.now, nil)
	v.AnimalID = id.NewAnimalID()
	s.ErrorIs(s.store.Create(s.ctx, v), sentinel.ErrConflict)
}
