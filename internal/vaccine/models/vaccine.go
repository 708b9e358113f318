package models

import (
	"slices"
	"strings"
	"time"

	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	liststrings "zoopito/pkg/platform/strings"
)

type VaccineType string

const (
	TypeLiveAttenuated VaccineType = "Live Attenuated"
	TypeInactivated    VaccineType = "Inactivated"
	TypeToxoid         VaccineType = "Toxoid"
	TypeSubunit        VaccineType = "Subunit"
	TypeConjugate      VaccineType = "Conjugate"
	TypeMRNA           VaccineType = "mRNA"
	TypeOther          VaccineType = "Other"
)

var vaccineTypes = []VaccineType{TypeLiveAttenuated, TypeInactivated, TypeToxoid, TypeSubunit, TypeConjugate, TypeMRNA, TypeOther}

func (t VaccineType) Valid() bool { return slices.Contains(vaccineTypes, t) }

type Category string

const (
	CategoryCore      Category = "Core"
	CategoryNonCore   Category = "Non-Core"
	CategoryOptional  Category = "Optional"
	CategorySeasonal  Category = "Seasonal"
	CategoryEmergency Category = "Emergency"
)

var categories = []Category{CategoryCore, CategoryNonCore, CategoryOptional, CategorySeasonal, CategoryEmergency}

func (c Category) Valid() bool { return slices.Contains(categories, c) }

// SpeciesAll marks a vaccine usable on every species.
const SpeciesAll = "All"

var species = []string{"Cattle", "Sheep", "Goat", "Pig", "Chicken", "Dog", "Cat", "Horse", SpeciesAll}

// ValidSpecies reports whether s names a catalogued species.
func ValidSpecies(s string) bool { return slices.Contains(species, s) }

// CanonicalSpecies returns the catalogued spelling of s, matching case-insensitively.
func CanonicalSpecies(s string) (string, bool) {
	for _, known := range species {
		if strings.EqualFold(known, s) {
			return known, true
		}
	}
	return s, false
}

type Route string

const (
	RouteSubcutaneous  Route = "Subcutaneous"
	RouteIntramuscular Route = "Intramuscular"
	RouteOral          Route = "Oral"
	RouteNasal         Route = "Nasal"
	RouteOcular        Route = "Ocular"
	RouteIntradermal   Route = "Intradermal"
	RouteTopical       Route = "Topical"
)

var routes = []Route{RouteSubcutaneous, RouteIntramuscular, RouteOral, RouteNasal, RouteOcular, RouteIntradermal, RouteTopical}

func (r Route) Valid() bool { return slices.Contains(routes, r) }

type DosageUnit string

var dosageUnits = []DosageUnit{"ml", "dose", "tablet", "drop", "spray"}

func (u DosageUnit) Valid() bool { return slices.Contains(dosageUnits, u) }

// Vaccine is a catalogue entry. The interval fields drive next-due estimation.
type Vaccine struct {
	ID                     id.VaccineID `json:"id"`
	Name                   string       `json:"name"`
	Brand                  string       `json:"brand"`
	Manufacturer           string       `json:"manufacturer,omitempty"`
	VaccineType            VaccineType  `json:"vaccine_type"`
	DiseaseTarget          string       `json:"disease_target"`
	Category               Category     `json:"category"`
	TargetSpecies          []string     `json:"target_species"`
	AdministrationRoute    Route        `json:"administration_route"`
	DosageUnit             DosageUnit   `json:"dosage_unit"`
	StandardDosage         float64      `json:"standard_dosage"`
	BoosterIntervalWeeks   int          `json:"booster_interval_weeks"`
	DefaultNextDueMonths   int          `json:"default_next_due_months"`
	ImmunityDurationMonths int          `json:"immunity_duration_months"`
	MinimumAgeWeeks        int          `json:"minimum_age_weeks"`
	WithdrawalPeriodDays   int          `json:"withdrawal_period_days"`
	RequiresRefrigeration  bool         `json:"requires_refrigeration"`
	Notes                  string       `json:"notes,omitempty"`
	IsActive               bool         `json:"is_active"`
	CreatedBy              id.UserID    `json:"created_by"`
	UpdatedBy              id.UserID    `json:"updated_by"`
	CreatedAt              time.Time    `json:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at"`
}

// Interval is the booster interval a vaccine contributes to next-due estimation.
type Interval struct {
	Months int
	Weeks  int
}

func (v *Vaccine) Interval() Interval {
	return Interval{Months: v.DefaultNextDueMonths, Weeks: v.BoosterIntervalWeeks}
}

// SuitableFor reports whether the vaccine targets species, or all species.
func (v *Vaccine) SuitableFor(s string) bool {
	return liststrings.ContainsFold(v.TargetSpecies, s) || liststrings.ContainsFold(v.TargetSpecies, SpeciesAll)
}

// VaccineInput is the create and full-update payload.
type VaccineInput struct {
	Name                   string      `json:"name"`
	Brand                  string      `json:"brand"`
	Manufacturer           string      `json:"manufacturer"`
	VaccineType            VaccineType `json:"vaccine_type"`
	DiseaseTarget          string      `json:"disease_target"`
	Category               Category    `json:"category"`
	TargetSpecies          []string    `json:"target_species"`
	AdministrationRoute    Route       `json:"administration_route"`
	DosageUnit             DosageUnit  `json:"dosage_unit"`
	StandardDosage         float64     `json:"standard_dosage"`
	BoosterIntervalWeeks   int         `json:"booster_interval_weeks"`
	DefaultNextDueMonths   int         `json:"default_next_due_months"`
	ImmunityDurationMonths int         `json:"immunity_duration_months"`
	MinimumAgeWeeks        int         `json:"minimum_age_weeks"`
	WithdrawalPeriodDays   int         `json:"withdrawal_period_days"`
	RequiresRefrigeration  *bool       `json:"requires_refrigeration"`
	Notes                  string      `json:"notes"`
}

// Normalize trims text, applies defaults and dedupes species case-insensitively.
func (in *VaccineInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Manufacturer = strings.TrimSpace(in.Manufacturer)
	in.DiseaseTarget = strings.TrimSpace(in.DiseaseTarget)
	in.Notes = strings.TrimSpace(in.Notes)
	if in.Category == "" {
		in.Category = CategoryCore
	}
	if in.DosageUnit == "" {
		in.DosageUnit = "ml"
	}
	in.TargetSpecies = liststrings.DedupeFold(in.TargetSpecies)
	for i, s := range in.TargetSpecies {
		in.TargetSpecies[i], _ = CanonicalSpecies(s)
	}
	if in.TargetSpecies == nil {
		in.TargetSpecies = []string{}
	}
}

func (in *VaccineInput) Validate() error {
	switch {
	case in.Name == "":
		return dErrors.New(dErrors.CodeValidation, "name is required")
	case in.Brand == "":
		return dErrors.New(dErrors.CodeValidation, "brand is required")
	case in.DiseaseTarget == "":
		return dErrors.New(dErrors.CodeValidation, "disease target is required")
	case !in.VaccineType.Valid():
		return dErrors.New(dErrors.CodeValidation, "vaccine type is invalid")
	case !in.Category.Valid():
		return dErrors.New(dErrors.CodeValidation, "category is invalid")
	case !in.AdministrationRoute.Valid():
		return dErrors.New(dErrors.CodeValidation, "administration route is invalid")
	case !in.DosageUnit.Valid():
		return dErrors.New(dErrors.CodeValidation, "dosage unit is invalid")
	case in.BoosterIntervalWeeks < 0 || in.DefaultNextDueMonths < 0 || in.ImmunityDurationMonths < 0:
		return dErrors.New(dErrors.CodeValidation, "intervals cannot be negative")
	}
	for _, s := range in.TargetSpecies {
		if !ValidSpecies(s) {
			return dErrors.New(dErrors.CodeValidation, "unknown species: "+s)
		}
	}
	return nil
}

// ApplyTo copies the input onto v.
func (in *VaccineInput) ApplyTo(v *Vaccine) {
	v.Name = in.Name
	v.Brand = in.Brand
	v.Manufacturer = in.Manufacturer
	v.VaccineType = in.VaccineType
	v.DiseaseTarget = in.DiseaseTarget
	v.Category = in.Category
	v.TargetSpecies = in.TargetSpecies
	v.AdministrationRoute = in.AdministrationRoute
	v.DosageUnit = in.DosageUnit
	v.StandardDosage = in.StandardDosage
	v.BoosterIntervalWeeks = in.BoosterIntervalWeeks
	v.DefaultNextDueMonths = in.DefaultNextDueMonths
	v.ImmunityDurationMonths = in.ImmunityDurationMonths
	v.MinimumAgeWeeks = in.MinimumAgeWeeks
	v.WithdrawalPeriodDays = in.WithdrawalPeriodDays
	v.RequiresRefrigeration = in.RequiresRefrigeration == nil || *in.RequiresRefrigeration
	v.Notes = in.Notes
}

// ListFilter narrows catalogue listings. Species and Category "All" match everything.
type ListFilter struct {
	Search   string
	Species  string
	Category string
	IsActive *bool
}

// Option is the dropdown projection of a vaccine.
type Option struct {
	ID            id.VaccineID `json:"id"`
	Name          string       `json:"name"`
	Brand         string       `json:"brand"`
	DiseaseTarget string       `json:"disease_target"`
	Category      Category     `json:"category"`
}

type ToggleResult struct {
	IsActive bool   `json:"is_active"`
	Message  string `json:"message"`
}
