package user

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"zoopito/internal/account/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
)

// Error Contract:
// - ErrNotFound when the user does not exist
// - Duplicate("email") / Duplicate("mobile") when a unique key is taken
// InMemoryUserStore keeps accounts in memory for tests and local runs.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[id.UserID]models.User
}

// New constructs an empty in-memory user store.
func New() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[id.UserID]models.User)}
}

func (s *InMemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUnique(user); err != nil {
		return err
	}
	s.users[user.ID] = *user
	return nil
}

func (s *InMemoryUserStore) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return fmt.Errorf("user %s: %w", user.ID, sentinel.ErrNotFound)
	}
	if err := s.checkUnique(user); err != nil {
		return err
	}
	s.users[user.ID] = *user
	return nil
}

// checkUnique emulates the partial unique indexes on email and mobile.
func (s *InMemoryUserStore) checkUnique(user *models.User) error {
	for _, other := range s.users {
		if other.ID == user.ID {
			continue
		}
		if user.Email != "" && other.Email == user.Email {
			return sentinel.Duplicate("email")
		}
		if user.Mobile != "" && other.Mobile == user.Mobile {
			return sentinel.Duplicate("mobile")
		}
	}
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[userID]; ok {
		return &u, nil
	}
	return nil, fmt.Errorf("user %s: %w", userID, sentinel.ErrNotFound)
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, address string) (*models.User, error) {
	return s.findBy(func(u models.User) bool { return address != "" && u.Email == address })
}

func (s *InMemoryUserStore) FindByMobile(_ context.Context, mobile string) (*models.User, error) {
	return s.findBy(func(u models.User) bool { return mobile != "" && u.Mobile == mobile })
}

func (s *InMemoryUserStore) findBy(match func(models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user: %w", sentinel.ErrNotFound)
}

// List returns users newest first.
func (s *InMemoryUserStore) List(_ context.Context, filter models.ListFilter, offset, limit int) ([]*models.User, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matched := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(u.Email, search) &&
			!strings.Contains(u.Mobile, search) {
			continue
		}
		matched = append(matched, u)
	}
	slices.SortFunc(matched, func(a, b models.User) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	total := len(matched)
	out := make([]*models.User, 0, limit)
	for i := offset; i < total && len(out) < limit; i++ {
		out = append(out, &matched[i])
	}
	return out, total, nil
}

func (s *InMemoryUserStore) Delete(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return fmt.Errorf("user %s: %w", userID, sentinel.ErrNotFound)
	}
	delete(s.users, userID)
	return nil
}
