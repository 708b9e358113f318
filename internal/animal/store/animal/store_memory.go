package animal

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"zoopito/internal/animal/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
	"zoopito/pkg/platform/tx"
)

// InMemoryAnimalStore keeps animals in memory with the same unique keys as the table.
type InMemoryAnimalStore struct {
	mu      sync.RWMutex
	animals map[id.AnimalID]models.Animal
}

func New() *InMemoryAnimalStore {
	return &InMemoryAnimalStore{animals: make(map[id.AnimalID]models.Animal)}
}

func (s *InMemoryAnimalStore) Create(ctx context.Context, a *models.Animal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUnique(a); err != nil {
		return err
	}
	s.animals[a.ID] = clone(a)
	tx.OnRollback(ctx, s.undo(a.ID, nil))
	return nil
}

func (s *InMemoryAnimalStore) Update(ctx context.Context, a *models.Animal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.animals[a.ID]
	if !ok {
		return fmt.Errorf("animal %s: %w", a.ID, sentinel.ErrNotFound)
	}
	if err := s.checkUnique(a); err != nil {
		return err
	}
	s.animals[a.ID] = clone(a)
	tx.OnRollback(ctx, s.undo(a.ID, &prev))
	return nil
}

// undo puts prev back under animalID, or removes the key when prev is nil.
func (s *InMemoryAnimalStore) undo(animalID id.AnimalID, prev *models.Animal) func() {
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if prev == nil {
			delete(s.animals, animalID)
			return
		}
		s.animals[animalID] = *prev
	}
}

func (s *InMemoryAnimalStore) checkUnique(a *models.Animal) error {
	for _, other := range s.animals {
		if other.ID == a.ID {
			continue
		}
		if a.TagNumber != "" && other.TagNumber == a.TagNumber {
			return sentinel.Duplicate("tag_number")
		}
		if other.UniqueAnimalID == a.UniqueAnimalID {
			return sentinel.Duplicate("unique_animal_id")
		}
	}
	return nil
}

func (s *InMemoryAnimalStore) FindByID(_ context.Context, animalID id.AnimalID) (*models.Animal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.animals[animalID]
	if !ok {
		return nil, fmt.Errorf("animal %s: %w", animalID, sentinel.ErrNotFound)
	}
	out := clone(&a)
	return &out, nil
}

// FirstFreeSequence returns the lowest sequence not yet used under prefix.
func (s *InMemoryAnimalStore) FirstFreeSequence(_ context.Context, prefix string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	used := make(map[string]struct{})
	for _, a := range s.animals {
		if strings.HasPrefix(a.UniqueAnimalID, prefix) {
			used[a.UniqueAnimalID] = struct{}{}
		}
	}
	for seq := 1; ; seq++ {
		if _, taken := used[models.FormatUniqueAnimalID(prefix, seq)]; !taken {
			return seq, nil
		}
	}
}

// List returns animals newest first.
func (s *InMemoryAnimalStore) List(_ context.Context, filter models.ListFilter, offset, limit int) ([]*models.Animal, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.filter(filter)
	slices.SortFunc(matched, func(a, b models.Animal) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	total := len(matched)
	out := make([]*models.Animal, 0, limit)
	for i := offset; i < total && len(out) < limit; i++ {
		out = append(out, &matched[i])
	}
	return out, total, nil
}

// ListByFarmer returns every animal of a farmer, newest first.
func (s *InMemoryAnimalStore) ListByFarmer(_ context.Context, farmerID id.FarmerID, activeOnly bool) ([]*models.Animal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.filter(models.ListFilter{FarmerID: farmerID, ActiveOnly: activeOnly})
	slices.SortFunc(matched, func(a, b models.Animal) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return pointers(matched), nil
}

// FindByBatch returns the animals of a registration batch in batch order.
func (s *InMemoryAnimalStore) FindByBatch(_ context.Context, batchID string) ([]*models.Animal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.Animal
	for _, a := range s.animals {
		if a.RegistrationBatchID == batchID {
			matched = append(matched, clone(&a))
		}
	}
	slices.SortFunc(matched, func(a, b models.Animal) int {
		return cmp.Compare(batchIndex(a), batchIndex(b))
	})
	return pointers(matched), nil
}

func (s *InMemoryAnimalStore) Counts(_ context.Context) (models.Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var c models.Counts
	for _, a := range s.animals {
		if a.IsActive {
			c.Active++
		}
		if a.Pregnancy.IsPregnant {
			c.Pregnant++
		}
	}
	return c, nil
}

func (s *InMemoryAnimalStore) Delete(ctx context.Context, animalID id.AnimalID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.animals[animalID]
	if !ok {
		return fmt.Errorf("animal %s: %w", animalID, sentinel.ErrNotFound)
	}
	delete(s.animals, animalID)
	tx.OnRollback(ctx, s.undo(animalID, &prev))
	return nil
}

func (s *InMemoryAnimalStore) filter(filter models.ListFilter) []models.Animal {
	search := strings.ToLower(filter.Search)
	matched := make([]models.Animal, 0)
	for _, a := range s.animals {
		if !filter.FarmerID.IsNil() && a.FarmerID != filter.FarmerID {
			continue
		}
		if filter.ActiveOnly && !a.IsActive {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.AnimalType != "" && a.AnimalType != filter.AnimalType {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(a.Name), search) &&
			!strings.Contains(strings.ToLower(a.TagNumber), search) &&
			!strings.Contains(strings.ToLower(a.UniqueAnimalID), search) {
			continue
		}
		matched = append(matched, clone(&a))
	}
	return matched
}

func batchIndex(a models.Animal) int {
	if a.RegistrationBatchIndex == nil {
		return -1
	}
	return *a.RegistrationBatchIndex
}

func pointers(animals []models.Animal) []*models.Animal {
	out := make([]*models.Animal, len(animals))
	for i := range animals {
		out[i] = &animals[i]
	}
	return out
}

func clone(a *models.Animal) models.Animal {
	out := *a
	out.MedicalHistory = slices.Clone(a.MedicalHistory)
	out.VaccinationSummary.VaccinesGiven = slices.Clone(a.VaccinationSummary.VaccinesGiven)
	return out
}
