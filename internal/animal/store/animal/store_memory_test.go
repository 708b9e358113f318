package animal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"zoopito/internal/animal/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
	"zoopito/pkg/platform/tx"
)

type InMemoryAnimalStoreSuite struct {
	suite.Suite
	store *InMemoryAnimalStore
	ctx   context.Context
}

func TestInMemoryAnimalStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryAnimalStoreSuite))
}

func (s *InMemoryAnimalStoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func newAnimal(farmerID id.FarmerID, code, tag string, createdAt time.Time) *models.Animal {
	return &models.Animal{
		ID:             id.NewAnimalID(),
		FarmerID:       farmerID,
		AnimalType:     models.AnimalCow,
		Gender:         models.GenderFemale,
		TagNumber:      tag,
		UniqueAnimalID: code,
		Status:         models.StatusActive,
		IsActive:       true,
		CurrentOwner:   farmerID,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
}

func (s *InMemoryAnimalStoreSuite) TestUniqueKeys() {
	farmerID := id.NewFarmerID()
	now := time.Now()
	s.Require().NoError(s.store.Create(s.ctx, newAnimal(farmerID, "ANI-202501-0001", "T1", now)))
	s.Require().NoError(s.store.Create(s.ctx, newAnimal(farmerID, "ANI-202501-0002", "", now)))
	s.Require().NoError(s.store.Create(s.ctx, newAnimal(farmerID, "ANI-202501-0003", "", now)))

	field, ok := sentinel.DuplicateField(s.store.Create(s.ctx, newAnimal(farmerID, "ANI-202501-0009", "T1", now)))
	s.True(ok)
	s.Equal("tag_number", field)

	field, ok = sentinel.DuplicateField(s.store.Create(s.ctx, newAnimal(farmerID, "ANI-202501-0001", "T2", now)))
	s.True(ok)
	s.Equal("unique_animal_id", field)
}

func (s *InMemoryAnimalStoreSuite) TestFirstFreeSequenceFillsGaps() {
	farmerID := id.NewFarmerID()
	now := time.Now()
	s.Require().NoError(s.store.Create(s.ctx, newAnimal(farmerID, "ANI-202501-0001", "", now)))
	s.Require().NoError(s.store.Create(s.ctx, newAnimal(farmerID, "ANI-202501-0003", "", now)))
	s.Require().NoError(s.store.Create(s.ctx, newAnimal(farmerID, "ANI-202412-0002", "", now)))

	seq, err := s.store.FirstFreeSequence(s.ctx, "ANI-202501-")
	s.Require().NoError(err)
	s.Equal(2, seq)

	seq, err = s.store.FirstFreeSequence(s.ctx, "ANI-202502-")
	s.Require().NoError(err)
	s.Equal(1, seq)
}

func (s *InMemoryAnimalStoreSuite) TestListFiltersAndPaging() {
	farmerID := id.NewFarmerID()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, code := range []string{"ANI-202501-0001", "ANI-202501-0002", "ANI-202501-0003"} {
		a := newAnimal(farmerID, code, "", base.Add(time.Duration(i)*time.Hour))
		if i == 2 {
			a.Name = "Lakshmi"
			a.Pregnancy.IsPregnant = true
		}
		s.Require().NoError(s.store.Create(s.ctx, a))
	}
	other := newAnimal(id.NewFarmerID(), "ANI-202501-0004", "", base)
	other.AnimalType = models.AnimalGoat
	other.IsActive = false
	s.Require().NoError(s.store.Create(s.ctx, other))

	page, total, err := s.store.List(s.ctx, models.ListFilter{FarmerID: farmerID}, 0, 2)
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Require().Len(page, 2)
	s.Equal("ANI-202501-0003", page[0].UniqueAnimalID)

	found, total, err := s.store.List(s.ctx, models.ListFilter{Search: "laksh"}, 0, 10)
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Equal("Lakshmi", found[0].Name)

	goats, _, err := s.store.List(s.ctx, models.ListFilter{AnimalType: models.AnimalGoat}, 0, 10)
	s.Require().NoError(err)
	s.Len(goats, 1)

	counts, err := s.store.Counts(s.ctx)
	s.Require().NoError(err)
	s.Equal(models.Counts{Active: 3, Pregnant: 1}, counts)
}

func (s *InMemoryAnimalStoreSuite) TestFindByBatchOrdersByIndex() {
	farmerID := id.NewFarmerID()
	now := time.Now()
	for i, code := range []string{"ANI-202501-0001", "ANI-202501-0002"} {
		a := newAnimal(farmerID, code, "", now)
		idx := 1 - i
		a.RegistrationBatchID = "BATCH_1_abc"
		a.RegistrationBatchIndex = &idx
		s.Require().NoError(s.store.Create(s.ctx, a))
	}

	batch, err := s.store.FindByBatch(s.ctx, "BATCH_1_abc")
	s.Require().NoError(err)
	s.Require().Len(batch, 2)
	s.Equal("ANI-202501-0002", batch[0].UniqueAnimalID)
}

func (s *InMemoryAnimalStoreSuite) TestRollbackUndoesOnlyTransactionWrites() {
	farmerID := id.NewFarmerID()
	existing := newAnimal(farmerID, "ANI-202501-0001", "", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, existing))

	batch := newAnimal(farmerID, "ANI-202501-0002", "", time.Now())
	single := newAnimal(farmerID, "ANI-202501-0003", "", time.Now())
	err := tx.NewMemoryRunner().RunInTx(s.ctx, func(ctx context.Context) error {
		s.Require().NoError(s.store.Create(ctx, batch))
		renamed := *existing
		renamed.Name = "Lakshmi"
		s.Require().NoError(s.store.Update(ctx, &renamed))

		done := make(chan error, 1)
		go func() { done <- s.store.Create(s.ctx, single) }()
		s.Require().NoError(<-done)
		return errors.New("entry 2 failed")
	})
	s.Require().Error(err)

	_, err = s.store.FindByID(s.ctx, batch.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	got, err := s.store.FindByID(s.ctx, existing.ID)
	s.Require().NoError(err)
	s.Equal(existing.Name, got.Name)
	_, err = s.store.FindByID(s.ctx, single.ID)
	s.NoError(err)
}
