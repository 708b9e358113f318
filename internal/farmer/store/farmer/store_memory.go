package farmer

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"zoopito/internal/farmer/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
	"zoopito/pkg/platform/tx"
)

// InMemoryFarmerStore keeps farmers in memory and enforces the same unique keys as the table.
type InMemoryFarmerStore struct {
	mu      sync.RWMutex
	farmers map[id.FarmerID]models.Farmer
}

func New() *InMemoryFarmerStore {
	return &InMemoryFarmerStore{farmers: make(map[id.FarmerID]models.Farmer)}
}

func (s *InMemoryFarmerStore) Create(ctx context.Context, farmer *models.Farmer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUnique(farmer); err != nil {
		return err
	}
	s.farmers[farmer.ID] = *farmer
	tx.OnRollback(ctx, s.undo(farmer.ID, nil))
	return nil
}

func (s *InMemoryFarmerStore) Update(ctx context.Context, farmer *models.Farmer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.farmers[farmer.ID]
	if !ok {
		return fmt.Errorf("farmer %s: %w", farmer.ID, sentinel.ErrNotFound)
	}
	if err := s.checkUnique(farmer); err != nil {
		return err
	}
	s.farmers[farmer.ID] = *farmer
	tx.OnRollback(ctx, s.undo(farmer.ID, &prev))
	return nil
}

// undo puts prev back under farmerID, or removes the key when prev is nil.
func (s *InMemoryFarmerStore) undo(farmerID id.FarmerID, prev *models.Farmer) func() {
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if prev == nil {
			delete(s.farmers, farmerID)
			return
		}
		s.farmers[farmerID] = *prev
	}
}

func (s *InMemoryFarmerStore) checkUnique(farmer *models.Farmer) error {
	for _, other := range s.farmers {
		if other.ID == farmer.ID {
			continue
		}
		if other.MobileNumber == farmer.MobileNumber {
			return sentinel.Duplicate("mobile_number")
		}
		if other.UniqueFarmerID == farmer.UniqueFarmerID {
			return sentinel.Duplicate("unique_farmer_id")
		}
	}
	return nil
}

func (s *InMemoryFarmerStore) FindByID(_ context.Context, farmerID id.FarmerID) (*models.Farmer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f, ok := s.farmers[farmerID]; ok {
		return &f, nil
	}
	return nil, fmt.Errorf("farmer %s: %w", farmerID, sentinel.ErrNotFound)
}

func (s *InMemoryFarmerStore) UniqueIDExists(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.farmers {
		if f.UniqueFarmerID == code {
			return true, nil
		}
	}
	return false, nil
}

// List returns farmers newest first.
func (s *InMemoryFarmerStore) List(_ context.Context, filter models.ListFilter, offset, limit int) ([]*models.Farmer, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matched := make([]models.Farmer, 0, len(s.farmers))
	for _, f := range s.farmers {
		if filter.ActiveOnly && !f.IsActive {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(f.Name), search) &&
			!strings.Contains(f.MobileNumber, search) &&
			!strings.Contains(strings.ToLower(f.Address.Village), search) {
			continue
		}
		matched = append(matched, f)
	}
	slices.SortFunc(matched, func(a, b models.Farmer) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	total := len(matched)
	out := make([]*models.Farmer, 0, limit)
	for i := offset; i < total && len(out) < limit; i++ {
		out = append(out, &matched[i])
	}
	return out, total, nil
}

// SearchIDs returns the IDs of farmers whose name or mobile contains term.
func (s *InMemoryFarmerStore) SearchIDs(_ context.Context, term string) ([]id.FarmerID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	term = strings.ToLower(term)
	var ids []id.FarmerID
	for _, f := range s.farmers {
		if strings.Contains(strings.ToLower(f.Name), term) || strings.Contains(f.MobileNumber, term) {
			ids = append(ids, f.ID)
		}
	}
	return ids, nil
}

// AdjustAnimalCount applies delta to the farmer's animal count. A rollback
// applies the inverse, so concurrent adjustments by other requests survive it.
func (s *InMemoryFarmerStore) AdjustAnimalCount(ctx context.Context, farmerID id.FarmerID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.farmers[farmerID]
	if !ok {
		return fmt.Errorf("farmer %s: %w", farmerID, sentinel.ErrNotFound)
	}
	applied := max(f.TotalAnimals+delta, 0) - f.TotalAnimals
	f.TotalAnimals += applied
	s.farmers[farmerID] = f
	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if f, ok := s.farmers[farmerID]; ok {
			f.TotalAnimals = max(f.TotalAnimals-applied, 0)
			s.farmers[farmerID] = f
		}
	})
	return nil
}

func (s *InMemoryFarmerStore) Delete(ctx context.Context, farmerID id.FarmerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.farmers[farmerID]
	if !ok {
		return fmt.Errorf("farmer %s: %w", farmerID, sentinel.ErrNotFound)
	}
	delete(s.farmers, farmerID)
	tx.OnRollback(ctx, s.undo(farmerID, &prev))
	return nil
}
