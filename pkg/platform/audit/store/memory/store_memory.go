package memory

import (
	"context"
	"slices"
	"sync"

	audit "zoopito/pkg/platform/audit"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
	nextID int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	event.ID = s.nextID
	s.events = append(s.events, event)
	return nil
}

// List returns matching events, most recent first.
func (s *InMemoryStore) List(_ context.Context, filter audit.Filter, offset, limit int) ([]audit.Event, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []audit.Event
	for _, e := range slices.Backward(s.events) {
		if !filter.ActorID.IsNil() && e.ActorID != filter.ActorID {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.Subject != "" && e.Subject != filter.Subject {
			continue
		}
		matched = append(matched, e)
	}

	total := len(matched)
	if offset >= total {
		return []audit.Event{}, total, nil
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}
