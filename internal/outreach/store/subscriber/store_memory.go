package subscriber

import (
	"context"
	"sync"

	"zoopito/internal/outreach/models"
	"zoopito/pkg/platform/sentinel"
)

// InMemorySubscriberStore keeps subscribers keyed by email.
type InMemorySubscriberStore struct {
	mu      sync.RWMutex
	byEmail map[string]models.Subscriber
}

func New() *InMemorySubscriberStore {
	return &InMemorySubscriberStore{byEmail: make(map[string]models.Subscriber)}
}

func (s *InMemorySubscriberStore) Create(_ context.Context, sub *models.Subscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[sub.Email]; ok {
		return sentinel.Duplicate("email")
	}
	s.byEmail[sub.Email] = *sub
	return nil
}

func (s *InMemorySubscriberStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byEmail), nil
}
