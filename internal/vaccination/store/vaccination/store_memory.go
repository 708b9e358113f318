package vaccination

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"zoopito/internal/vaccination/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
	"zoopito/pkg/platform/tx"
)

// InMemoryVaccinationStore is a mutex-guarded vaccination store for tests and local runs.
type InMemoryVaccinationStore struct {
	mu           sync.RWMutex
	vaccinations map[id.VaccinationID]models.Vaccination
}

func New() *InMemoryVaccinationStore {
	return &InMemoryVaccinationStore{vaccinations: make(map[id.VaccinationID]models.Vaccination)}
}

func (s *InMemoryVaccinationStore) Create(ctx context.Context, v *models.Vaccination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vaccinations[v.ID]; ok {
		return fmt.Errorf("vaccination %s: %w", v.ID, sentinel.ErrAlreadyUsed)
	}
	s.vaccinations[v.ID] = *v
	tx.OnRollback(ctx, s.undo(map[id.VaccinationID]*models.Vaccination{v.ID: nil}))
	return nil
}

func (s *InMemoryVaccinationStore) Update(ctx context.Context, v *models.Vaccination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.vaccinations[v.ID]
	if !ok {
		return fmt.Errorf("vaccination %s: %w", v.ID, sentinel.ErrNotFound)
	}
	s.vaccinations[v.ID] = *v
	tx.OnRollback(ctx, s.undo(map[id.VaccinationID]*models.Vaccination{v.ID: &prev}))
	return nil
}

// undo restores each key to its previous record; a nil record removes the key.
func (s *InMemoryVaccinationStore) undo(prev map[id.VaccinationID]*models.Vaccination) func() {
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for vaccinationID, v := range prev {
			if v == nil {
				delete(s.vaccinations, vaccinationID)
				continue
			}
			s.vaccinations[vaccinationID] = *v
		}
	}
}

func (s *InMemoryVaccinationStore) FindByID(_ context.Context, vaccinationID id.VaccinationID) (*models.Vaccination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vaccinations[vaccinationID]
	if !ok {
		return nil, fmt.Errorf("vaccination %s: %w", vaccinationID, sentinel.ErrNotFound)
	}
	return &v, nil
}

func (s *InMemoryVaccinationStore) Delete(ctx context.Context, vaccinationID id.VaccinationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.vaccinations[vaccinationID]
	if !ok {
		return fmt.Errorf("vaccination %s: %w", vaccinationID, sentinel.ErrNotFound)
	}
	delete(s.vaccinations, vaccinationID)
	tx.OnRollback(ctx, s.undo(map[id.VaccinationID]*models.Vaccination{vaccinationID: &prev}))
	return nil
}

func (s *InMemoryVaccinationStore) DeleteByAnimal(ctx context.Context, animalID id.AnimalID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := make(map[id.VaccinationID]*models.Vaccination)
	maps.DeleteFunc(s.vaccinations, func(vaccinationID id.VaccinationID, v models.Vaccination) bool {
		if v.AnimalID != animalID {
			return false
		}
		removed[vaccinationID] = &v
		return true
	})
	tx.OnRollback(ctx, s.undo(removed))
	return nil
}

func (s *InMemoryVaccinationStore) CountByVaccine(_ context.Context, vaccineID id.VaccineID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, v := range s.vaccinations {
		if v.VaccineID == vaccineID {
			n++
		}
	}
	return n, nil
}

// ListByAnimal returns the vaccinations of an animal, most recently administered first.
func (s *InMemoryVaccinationStore) ListByAnimal(_ context.Context, animalID id.AnimalID) ([]*models.Vaccination, error) {
	out := s.collect(func(v models.Vaccination) bool { return v.AnimalID == animalID })
	slices.SortFunc(out, func(a, b *models.Vaccination) int {
		return b.DateAdministered.Compare(a.DateAdministered)
	})
	return out, nil
}

// Query returns the matching vaccinations ordered by administration date.
func (s *InMemoryVaccinationStore) Query(_ context.Context, q models.Query, offset, limit int) ([]*models.Vaccination, int, error) {
	matched := s.collect(func(v models.Vaccination) bool { return matches(v, q) })
	slices.SortFunc(matched, func(a, b *models.Vaccination) int {
		return a.DateAdministered.Compare(b.DateAdministered)
	})
	total := len(matched)
	if offset >= total {
		return []*models.Vaccination{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (s *InMemoryVaccinationStore) Count(_ context.Context, q models.Query) (int, error) {
	return len(s.collect(func(v models.Vaccination) bool { return matches(v, q) })), nil
}

// DueBetween returns administered, incomplete series due in [from, to], soonest first.
func (s *InMemoryVaccinationStore) DueBetween(_ context.Context, from, to time.Time) ([]*models.Vaccination, error) {
	out := s.collect(func(v models.Vaccination) bool {
		return pending(v) && !v.NextDueDate.Before(from) && !v.NextDueDate.After(to)
	})
	sortByDue(out)
	return out, nil
}

// OverdueBefore returns administered, incomplete series due before at, oldest first.
func (s *InMemoryVaccinationStore) OverdueBefore(_ context.Context, at time.Time) ([]*models.Vaccination, error) {
	out := s.collect(func(v models.Vaccination) bool {
		return pending(v) && v.NextDueDate.Before(at)
	})
	sortByDue(out)
	return out, nil
}

func (s *InMemoryVaccinationStore) FarmerStats(_ context.Context, farmerID id.FarmerID, now, until time.Time) (models.FarmerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stats models.FarmerStats
	animals := make(map[id.AnimalID]struct{})
	for _, v := range s.vaccinations {
		if v.FarmerID != farmerID {
			continue
		}
		stats.TotalVaccinations++
		animals[v.AnimalID] = struct{}{}
		if v.NextDueDate == nil {
			continue
		}
		if v.NextDueDate.Before(now) && v.Status == models.StatusAdministered {
			stats.OverdueCount++
		}
		if !v.NextDueDate.Before(now) && !v.NextDueDate.After(until) {
			stats.UpcomingCount++
		}
	}
	stats.UniqueAnimalCount = len(animals)
	return stats, nil
}

// FindByBatch returns the vaccinations of a registration batch in batch order.
func (s *InMemoryVaccinationStore) FindByBatch(_ context.Context, batchID string) ([]*models.Vaccination, error) {
	out := s.collect(func(v models.Vaccination) bool { return v.RegistrationBatchID == batchID })
	slices.SortFunc(out, func(a, b *models.Vaccination) int {
		return cmp.Or(
			cmp.Compare(batchIndex(a), batchIndex(b)),
			a.CreatedAt.Compare(b.CreatedAt),
		)
	})
	return out, nil
}

func (s *InMemoryVaccinationStore) collect(keep func(models.Vaccination) bool) []*models.Vaccination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Vaccination, 0)
	for _, v := range s.vaccinations {
		if keep(v) {
			out = append(out, &v)
		}
	}
	return out
}

func matches(v models.Vaccination, q models.Query) bool {
	if q.AdministeredFrom != nil && v.DateAdministered.Before(*q.AdministeredFrom) {
		return false
	}
	if q.AdministeredTo != nil && !v.DateAdministered.Before(*q.AdministeredTo) {
		return false
	}
	if q.DueBefore != nil && (v.NextDueDate == nil || !v.NextDueDate.Before(*q.DueBefore)) {
		return false
	}
	if q.ExcludeStatus != "" && v.Status == q.ExcludeStatus {
		return false
	}
	if !q.VaccineID.IsNil() && v.VaccineID != q.VaccineID {
		return false
	}
	if q.Search != "" {
		term := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(v.Notes), term) &&
			!strings.Contains(strings.ToLower(v.VaccineName), term) &&
			!strings.Contains(strings.ToLower(v.BatchNumber), term) {
			return false
		}
	}
	return true
}

func pending(v models.Vaccination) bool {
	return v.Status == models.StatusAdministered && !v.IsSeriesComplete && v.NextDueDate != nil
}

func sortByDue(out []*models.Vaccination) {
	slices.SortFunc(out, func(a, b *models.Vaccination) int {
		return a.NextDueDate.Compare(*b.NextDueDate)
	})
}

func batchIndex(v *models.Vaccination) int {
	if v.RegistrationBatchIndex == nil {
		return -1
	}
	return *v.RegistrationBatchIndex
}
