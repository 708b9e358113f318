package contact

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"zoopito/internal/outreach/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
)

// InMemoryContactStore keeps contact messages in memory.
type InMemoryContactStore struct {
	mu       sync.RWMutex
	messages map[id.ContactID]models.ContactMessage
}

func New() *InMemoryContactStore {
	return &InMemoryContactStore{messages: make(map[id.ContactID]models.ContactMessage)}
}

func (s *InMemoryContactStore) Create(_ context.Context, m *models.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[m.ID]; ok {
		return fmt.Errorf("contact message %s: %w", m.ID, sentinel.ErrAlreadyUsed)
	}
	s.messages[m.ID] = clone(m)
	return nil
}

// List returns messages newest first, unseen ones only when unseenOnly is set.
func (s *InMemoryContactStore) List(_ context.Context, unseenOnly bool, offset, limit int) ([]*models.ContactMessage, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.ContactMessage, 0, len(s.messages))
	for _, m := range s.messages {
		if unseenOnly && m.IsSeen {
			continue
		}
		matched = append(matched, clone(&m))
	}
	slices.SortFunc(matched, func(a, b models.ContactMessage) int {
		return b.MsgDate.Compare(a.MsgDate)
	})

	total := len(matched)
	out := make([]*models.ContactMessage, 0, limit)
	for i := offset; i < total && len(out) < limit; i++ {
		out = append(out, &matched[i])
	}
	return out, total, nil
}

func (s *InMemoryContactStore) MarkSeen(_ context.Context, contactID id.ContactID) (*models.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[contactID]
	if !ok {
		return nil, fmt.Errorf("contact message %s: %w", contactID, sentinel.ErrNotFound)
	}
	m.IsSeen = true
	s.messages[contactID] = m
	out := clone(&m)
	return &out, nil
}

func clone(m *models.ContactMessage) models.ContactMessage {
	out := *m
	if m.GPS != nil {
		gps := *m.GPS
		out.GPS = &gps
	}
	return out
}
