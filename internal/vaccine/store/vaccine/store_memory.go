package vaccine

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"zoopito/internal/vaccine/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
	liststrings "zoopito/pkg/platform/strings"
)

// InMemoryVaccineStore keeps the catalogue in memory. Names are unique ignoring case.
type InMemoryVaccineStore struct {
	mu       sync.RWMutex
	vaccines map[id.VaccineID]models.Vaccine
}

func New() *InMemoryVaccineStore {
	return &InMemoryVaccineStore{vaccines: make(map[id.VaccineID]models.Vaccine)}
}

func (s *InMemoryVaccineStore) Create(_ context.Context, v *models.Vaccine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkName(v); err != nil {
		return err
	}
	s.vaccines[v.ID] = clone(v)
	return nil
}

func (s *InMemoryVaccineStore) Update(_ context.Context, v *models.Vaccine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vaccines[v.ID]; !ok {
		return fmt.Errorf("vaccine %s: %w", v.ID, sentinel.ErrNotFound)
	}
	if err := s.checkName(v); err != nil {
		return err
	}
	s.vaccines[v.ID] = clone(v)
	return nil
}

func (s *InMemoryVaccineStore) checkName(v *models.Vaccine) error {
	for _, other := range s.vaccines {
		if other.ID != v.ID && strings.EqualFold(other.Name, v.Name) {
			return sentinel.Duplicate("name")
		}
	}
	return nil
}

func (s *InMemoryVaccineStore) FindByID(_ context.Context, vaccineID id.VaccineID) (*models.Vaccine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.vaccines[vaccineID]; ok {
		out := clone(&v)
		return &out, nil
	}
	return nil, fmt.Errorf("vaccine %s: %w", vaccineID, sentinel.ErrNotFound)
}

// List returns vaccines ordered by name.
func (s *InMemoryVaccineStore) List(_ context.Context, filter models.ListFilter, offset, limit int) ([]*models.Vaccine, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matched := make([]models.Vaccine, 0, len(s.vaccines))
	for _, v := range s.vaccines {
		if search != "" &&
			!strings.Contains(strings.ToLower(v.Name), search) &&
			!strings.Contains(strings.ToLower(v.DiseaseTarget), search) &&
			!strings.Contains(strings.ToLower(v.Brand), search) {
			continue
		}
		if filter.Species != "" && filter.Species != models.SpeciesAll && !slices.Contains(v.TargetSpecies, filter.Species) {
			continue
		}
		if filter.Category != "" && filter.Category != models.SpeciesAll && string(v.Category) != filter.Category {
			continue
		}
		if filter.IsActive != nil && v.IsActive != *filter.IsActive {
			continue
		}
		matched = append(matched, clone(&v))
	}
	sortByName(matched)

	total := len(matched)
	out := make([]*models.Vaccine, 0, limit)
	for i := offset; i < total && len(out) < limit; i++ {
		out = append(out, &matched[i])
	}
	return out, total, nil
}

// Dropdown returns active vaccines suitable for species, ordered by name.
// An empty species returns every active vaccine.
func (s *InMemoryVaccineStore) Dropdown(_ context.Context, species string) ([]*models.Vaccine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Vaccine, 0)
	for _, v := range s.vaccines {
		if !v.IsActive {
			continue
		}
		if species != "" && !slices.Contains(v.TargetSpecies, species) && !liststrings.ContainsFold(v.TargetSpecies, models.SpeciesAll) {
			continue
		}
		matched = append(matched, clone(&v))
	}
	sortByName(matched)

	out := make([]*models.Vaccine, len(matched))
	for i := range matched {
		out[i] = &matched[i]
	}
	return out, nil
}

func (s *InMemoryVaccineStore) Delete(_ context.Context, vaccineID id.VaccineID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vaccines[vaccineID]; !ok {
		return fmt.Errorf("vaccine %s: %w", vaccineID, sentinel.ErrNotFound)
	}
	delete(s.vaccines, vaccineID)
	return nil
}

func sortByName(vs []models.Vaccine) {
	slices.SortFunc(vs, func(a, b models.Vaccine) int {
		return strings.Compare(a.Name, b.Name)
	})
}

func clone(v *models.Vaccine) models.Vaccine {
	out := *v
	out.TargetSpecies = slices.Clone(v.TargetSpecies)
	return out
}
