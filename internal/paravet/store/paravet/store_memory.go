package paravet

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"zoopito/internal/paravet/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
	liststrings "zoopito/pkg/platform/strings"
)

// InMemoryParavetStore keeps paravets in memory with the table's unique keys.
type InMemoryParavetStore struct {
	mu       sync.RWMutex
	paravets map[id.ParavetID]models.Paravet
}

func New() *InMemoryParavetStore {
	return &InMemoryParavetStore{paravets: make(map[id.ParavetID]models.Paravet)}
}

func (s *InMemoryParavetStore) Create(_ context.Context, p *models.Paravet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUnique(p); err != nil {
		return err
	}
	s.paravets[p.ID] = clone(p)
	return nil
}

func (s *InMemoryParavetStore) Update(_ context.Context, p *models.Paravet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.paravets[p.ID]; !ok {
		return fmt.Errorf("paravet %s: %w", p.ID, sentinel.ErrNotFound)
	}
	if err := s.checkUnique(p); err != nil {
		return err
	}
	s.paravets[p.ID] = clone(p)
	return nil
}

func (s *InMemoryParavetStore) checkUnique(p *models.Paravet) error {
	for _, other := range s.paravets {
		if other.ID == p.ID {
			continue
		}
		if other.UserID == p.UserID {
			return sentinel.Duplicate("user_id")
		}
		if p.LicenseNumber != "" && other.LicenseNumber == p.LicenseNumber {
			return sentinel.Duplicate("license_number")
		}
	}
	return nil
}

func (s *InMemoryParavetStore) FindByID(_ context.Context, paravetID id.ParavetID) (*models.Paravet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.paravets[paravetID]; ok {
		out := clone(&p)
		return &out, nil
	}
	return nil, fmt.Errorf("paravet %s: %w", paravetID, sentinel.ErrNotFound)
}

func (s *InMemoryParavetStore) FindByUserID(_ context.Context, userID id.UserID) (*models.Paravet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.paravets {
		if p.UserID == userID {
			out := clone(&p)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("paravet for user %s: %w", userID, sentinel.ErrNotFound)
}

// List returns paravets newest first.
func (s *InMemoryParavetStore) List(_ context.Context, filter models.ListFilter, offset, limit int) ([]*models.Paravet, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Paravet, 0, len(s.paravets))
	for _, p := range s.paravets {
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		if filter.Area != "" && !liststrings.ContainsFold(p.AssignedAreas, filter.Area) {
			continue
		}
		matched = append(matched, clone(&p))
	}
	slices.SortFunc(matched, func(a, b models.Paravet) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	total := len(matched)
	out := make([]*models.Paravet, 0, limit)
	for i := offset; i < total && len(out) < limit; i++ {
		out = append(out, &matched[i])
	}
	return out, total, nil
}

func (s *InMemoryParavetStore) Delete(_ context.Context, paravetID id.ParavetID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.paravets[paravetID]; !ok {
		return fmt.Errorf("paravet %s: %w", paravetID, sentinel.ErrNotFound)
	}
	delete(s.paravets, paravetID)
	return nil
}

func clone(p *models.Paravet) models.Paravet {
	out := *p
	out.AssignedAreas = slices.Clone(p.AssignedAreas)
	return out
}
