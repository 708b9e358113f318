package member

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"zoopito/internal/salesteam/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
	liststrings "zoopito/pkg/platform/strings"
)

// InMemoryMemberStore keeps sales members in memory with the table's unique keys.
type InMemoryMemberStore struct {
	mu      sync.RWMutex
	members map[id.SalesMemberID]models.SalesMember
}

func New() *InMemoryMemberStore {
	return &InMemoryMemberStore{members: make(map[id.SalesMemberID]models.SalesMember)}
}

func (s *InMemoryMemberStore) Create(_ context.Context, m *models.SalesMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.members {
		if other.UserID == m.UserID {
			return sentinel.Duplicate("user_id")
		}
		if other.EmployeeCode == m.EmployeeCode {
			return sentinel.Duplicate("employee_code")
		}
	}
	stored := *m
	stored.AssignedAreas = slices.Clone(m.AssignedAreas)
	s.members[m.ID] = stored
	return nil
}

func (s *InMemoryMemberStore) FindByID(_ context.Context, memberID id.SalesMemberID) (*models.SalesMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.members[memberID]; ok {
		m.AssignedAreas = slices.Clone(m.AssignedAreas)
		return &m, nil
	}
	return nil, fmt.Errorf("sales member %s: %w", memberID, sentinel.ErrNotFound)
}

func (s *InMemoryMemberStore) FindByUserID(_ context.Context, userID id.UserID) (*models.SalesMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.UserID == userID {
			m.AssignedAreas = slices.Clone(m.AssignedAreas)
			return &m, nil
		}
	}
	return nil, fmt.Errorf("sales member for user %s: %w", userID, sentinel.ErrNotFound)
}

func (s *InMemoryMemberStore) EmployeeCodeExists(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.EmployeeCode == code {
			return true, nil
		}
	}
	return false, nil
}

// List returns members newest first.
func (s *InMemoryMemberStore) List(_ context.Context, filter models.ListFilter, offset, limit int) ([]*models.SalesMember, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.SalesMember, 0, len(s.members))
	for _, m := range s.members {
		if filter.ActiveOnly && !m.IsActive {
			continue
		}
		if filter.Area != "" && !liststrings.ContainsFold(m.AssignedAreas, filter.Area) {
			continue
		}
		m.AssignedAreas = slices.Clone(m.AssignedAreas)
		matched = append(matched, m)
	}
	slices.SortFunc(matched, func(a, b models.SalesMember) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	total := len(matched)
	out := make([]*models.SalesMember, 0, limit)
	for i := offset; i < total && len(out) < limit; i++ {
		out = append(out, &matched[i])
	}
	return out, total, nil
}
