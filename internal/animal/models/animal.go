package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"zoopito/internal/vaccination/schedule"
	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
)

type AnimalType string

const (
	AnimalCow     AnimalType = "Cow"
	AnimalBuffalo AnimalType = "Buffalo"
	AnimalGoat    AnimalType = "Goat"
	AnimalSheep   AnimalType = "Sheep"
	AnimalDog     AnimalType = "Dog"
	AnimalCat     AnimalType = "Cat"
	AnimalPoultry AnimalType = "Poultry"
	AnimalOther   AnimalType = "Other"
)

var animalTypes = []AnimalType{AnimalCow, AnimalBuffalo, AnimalGoat, AnimalSheep, AnimalDog, AnimalCat, AnimalPoultry, AnimalOther}

func (t AnimalType) Valid() bool { return slices.Contains(animalTypes, t) }

type Gender string

const (
	GenderMale    Gender = "Male"
	GenderFemale  Gender = "Female"
	GenderUnknown Gender = "Unknown"
)

func (g Gender) Valid() bool { return g == GenderMale || g == GenderFemale || g == GenderUnknown }

type AgeUnit string

const (
	AgeDays   AgeUnit = "Days"
	AgeMonths AgeUnit = "Months"
	AgeYears  AgeUnit = "Years"
)

func (u AgeUnit) Valid() bool { return u == AgeDays || u == AgeMonths || u == AgeYears }

type HealthStatus string

const (
	HealthHealthy        HealthStatus = "Healthy"
	HealthSick           HealthStatus = "Sick"
	HealthUnderTreatment HealthStatus = "Under Treatment"
	HealthRecovered      HealthStatus = "Recovered"
	HealthQuarantined    HealthStatus = "Quarantined"
	HealthChronic        HealthStatus = "Chronic Condition"
)

var healthStatuses = []HealthStatus{HealthHealthy, HealthSick, HealthUnderTreatment, HealthRecovered, HealthQuarantined, HealthChronic}

func (h HealthStatus) Valid() bool { return slices.Contains(healthStatuses, h) }

type Status string

const (
	StatusActive      Status = "active"
	StatusInactive    Status = "inactive"
	StatusSold        Status = "sold"
	StatusDeceased    Status = "deceased"
	StatusTransferred Status = "transferred"
	StatusMissing     Status = "missing"
)

var statuses = []Status{StatusActive, StatusInactive, StatusSold, StatusDeceased, StatusTransferred, StatusMissing}

func (s Status) Valid() bool { return slices.Contains(statuses, s) }

type Age struct {
	Value int     `json:"value"`
	Unit  AgeUnit `json:"unit"`
}

// AgeFromBirth expresses the time since dob in years, else months, else days.
func AgeFromBirth(dob, now time.Time) Age {
	years := now.Year() - dob.Year()
	months := int(now.Month()) - int(dob.Month())
	if months < 0 {
		years--
		months += 12
	}
	switch {
	case years > 0:
		return Age{Value: years, Unit: AgeYears}
	case months > 0:
		return Age{Value: months, Unit: AgeMonths}
	default:
		days := max(int(now.Sub(dob).Hours()/24), 0)
		return Age{Value: days, Unit: AgeDays}
	}
}

type Pregnancy struct {
	IsPregnant           bool       `json:"is_pregnant"`
	Month                int        `json:"month,omitempty"`
	ConfirmedDate        *time.Time `json:"confirmed_date,omitempty"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	PreviousPregnancies  int        `json:"previous_pregnancies"`
	Notes                string     `json:"notes,omitempty"`
}

type Health struct {
	Status             HealthStatus `json:"current_status"`
	LastCheckupDate    *time.Time   `json:"last_checkup_date,omitempty"`
	Notes              string       `json:"health_notes,omitempty"`
	BodyConditionScore int          `json:"body_condition_score"`
}

type MedicalRecord struct {
	Date      time.Time `json:"date"`
	Condition string    `json:"condition"`
	Treatment string    `json:"treatment,omitempty"`
	TreatedBy id.UserID `json:"treated_by"`
	Resolved  bool      `json:"resolved"`
	Notes     string    `json:"notes,omitempty"`
}

// VaccineStatus is the latest administered dose of one vaccine on an animal.
type VaccineStatus struct {
	VaccineID   id.VaccineID       `json:"vaccine_id"`
	VaccineName string             `json:"vaccine_name"`
	LastDate    time.Time          `json:"last_date"`
	NextDue     *time.Time         `json:"next_due,omitempty"`
	Status      schedule.DueStatus `json:"status"`
}

type VaccinationSummary struct {
	LastVaccinationDate *time.Time      `json:"last_vaccination_date,omitempty"`
	NextVaccinationDate *time.Time      `json:"next_vaccination_date,omitempty"`
	LastVaccineType     string          `json:"last_vaccine_type,omitempty"`
	TotalVaccinations   int             `json:"total_vaccinations"`
	IsUpToDate          bool            `json:"is_up_to_date"`
	VaccinesGiven       []VaccineStatus `json:"vaccines_given"`
	LastUpdated         *time.Time      `json:"last_updated,omitempty"`
}

// Dose is one administered vaccination as seen by the summary.
type Dose struct {
	VaccineID        id.VaccineID
	VaccineName      string
	VaccineType      string
	DateAdministered time.Time
	NextDueDate      *time.Time
}

// Summarize builds the vaccination summary of an animal from its administered doses.
func Summarize(doses []Dose, now time.Time) VaccinationSummary {
	summary := VaccinationSummary{VaccinesGiven: []VaccineStatus{}, LastUpdated: &now}
	if len(doses) == 0 {
		return summary
	}

	latest := doses[0]
	var earliest *time.Time
	given := make(map[id.VaccineID]int)
	for _, d := range doses {
		if d.DateAdministered.After(latest.DateAdministered) {
			latest = d
		}
		if d.NextDueDate != nil && (earliest == nil || d.NextDueDate.Before(*earliest)) {
			due := *d.NextDueDate
			earliest = &due
		}
		if d.VaccineID.IsNil() {
			continue
		}
		entry := VaccineStatus{
			VaccineID:   d.VaccineID,
			VaccineName: d.VaccineName,
			LastDate:    d.DateAdministered,
			NextDue:     d.NextDueDate,
			Status:      schedule.Status(d.NextDueDate, now),
		}
		if i, ok := given[d.VaccineID]; ok {
			if summary.VaccinesGiven[i].LastDate.Before(d.DateAdministered) {
				summary.VaccinesGiven[i] = entry
			}
			continue
		}
		given[d.VaccineID] = len(summary.VaccinesGiven)
		summary.VaccinesGiven = append(summary.VaccinesGiven, entry)
	}

	last := latest.DateAdministered
	summary.LastVaccinationDate = &last
	summary.LastVaccineType = latest.VaccineType
	summary.NextVaccinationDate = earliest
	summary.TotalVaccinations = len(doses)
	summary.IsUpToDate = earliest != nil && earliest.After(now)
	return summary
}

// Animal is a registered animal owned by a farmer.
type Animal struct {
	ID                     id.AnimalID        `json:"id"`
	FarmerID               id.FarmerID        `json:"farmer_id"`
	RegisteredBy           id.UserID          `json:"registered_by"`
	AnimalType             AnimalType         `json:"animal_type"`
	Breed                  string             `json:"breed,omitempty"`
	TagNumber              string             `json:"tag_number,omitempty"`
	UniqueAnimalID         string             `json:"unique_animal_id"`
	RegistrationBatchID    string             `json:"registration_batch_id,omitempty"`
	RegistrationBatchIndex *int               `json:"registration_batch_index,omitempty"`
	Name                   string             `json:"name,omitempty"`
	Gender                 Gender             `json:"gender"`
	Age                    Age                `json:"age"`
	DateOfBirth            *time.Time         `json:"date_of_birth,omitempty"`
	Pregnancy              Pregnancy          `json:"pregnancy_status"`
	Health                 Health             `json:"health_status"`
	VaccinationSummary     VaccinationSummary `json:"vaccination_summary"`
	MedicalHistory         []MedicalRecord    `json:"medical_history"`
	Status                 Status             `json:"status"`
	StatusChangeDate       *time.Time         `json:"status_change_date,omitempty"`
	StatusChangeReason     string             `json:"status_change_reason,omitempty"`
	IsActive               bool               `json:"is_active"`
	CurrentOwner           id.FarmerID        `json:"current_owner"`
	AdditionalNotes        string             `json:"additional_notes,omitempty"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

// SetStatus changes the lifecycle status and stamps the change.
func (a *Animal) SetStatus(status Status, reason string, at time.Time) {
	if a.Status != status {
		a.StatusChangeDate = &at
	}
	a.Status = status
	if reason != "" {
		a.StatusChangeReason = reason
	}
}

// UniqueAnimalIDPrefix returns the ANI-YYYYMM- prefix for the month of t.
func UniqueAnimalIDPrefix(t time.Time) string {
	return fmt.Sprintf("ANI-%04d%02d-", t.Year(), int(t.Month()))
}

// FormatUniqueAnimalID renders the public animal code for sequence seq.
func FormatUniqueAnimalID(prefix string, seq int) string {
	return fmt.Sprintf("%s%04d", prefix, seq)
}

// NormalizeTag trims and upper-cases a tag number.
func NormalizeTag(tag string) string {
	return strings.ToUpper(strings.TrimSpace(tag))
}

// CreateAnimalRequest is the registration payload of a single animal.
type CreateAnimalRequest struct {
	FarmerID        id.FarmerID  `json:"farmer_id"`
	AnimalType      AnimalType   `json:"animal_type"`
	Breed           string       `json:"breed"`
	TagNumber       string       `json:"tag_number"`
	Name            string       `json:"name"`
	Gender          Gender       `json:"gender"`
	Age             *Age         `json:"age"`
	DateOfBirth     *time.Time   `json:"date_of_birth"`
	Pregnancy       *Pregnancy   `json:"pregnancy_status"`
	HealthStatus    HealthStatus `json:"health_status"`
	AdditionalNotes string       `json:"additional_notes"`
}

func (r *CreateAnimalRequest) Normalize() {
	r.Breed = strings.TrimSpace(r.Breed)
	r.Name = strings.TrimSpace(r.Name)
	r.TagNumber = NormalizeTag(r.TagNumber)
	r.AdditionalNotes = strings.TrimSpace(r.AdditionalNotes)
	if r.HealthStatus == "" {
		r.HealthStatus = HealthHealthy
	}
	if r.Age != nil && r.Age.Unit == "" {
		r.Age.Unit = AgeMonths
	}
}

// FieldError names the offending field of an invalid request.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// Check validates the request and reports the first offending field.
func (r *CreateAnimalRequest) Check() *FieldError {
	switch {
	case r.FarmerID.IsNil():
		return &FieldError{Field: "farmer_id", Message: "farmer is required"}
	case !r.AnimalType.Valid():
		return &FieldError{Field: "animal_type", Message: "animal type is invalid"}
	case !r.Gender.Valid():
		return &FieldError{Field: "gender", Message: "gender is invalid"}
	case !r.HealthStatus.Valid():
		return &FieldError{Field: "health_status", Message: "health status is invalid"}
	case r.Age != nil && (r.Age.Value < 0 || !r.Age.Unit.Valid()):
		return &FieldError{Field: "age", Message: "age is invalid"}
	case r.Pregnancy != nil && (r.Pregnancy.Month < 0 || r.Pregnancy.Month > 12):
		return &FieldError{Field: "pregnancy_status", Message: "pregnancy month is invalid"}
	}
	return nil
}

func (r *CreateAnimalRequest) Validate() error {
	if fe := r.Check(); fe != nil {
		return dErrors.New(dErrors.CodeValidation, fe.Message)
	}
	return nil
}

// Build turns a validated request into an animal. The caller assigns the unique animal ID.
func (r *CreateAnimalRequest) Build(registeredBy id.UserID, now time.Time) *Animal {
	a := &Animal{
		ID:              id.NewAnimalID(),
		FarmerID:        r.FarmerID,
		RegisteredBy:    registeredBy,
		AnimalType:      r.AnimalType,
		Breed:           r.Breed,
		TagNumber:       r.TagNumber,
		Name:            r.Name,
		Gender:          r.Gender,
		Age:             Age{Unit: AgeMonths},
		DateOfBirth:     r.DateOfBirth,
		Health:          Health{Status: r.HealthStatus, BodyConditionScore: 3},
		MedicalHistory:  []MedicalRecord{},
		Status:          StatusActive,
		IsActive:        true,
		CurrentOwner:    r.FarmerID,
		AdditionalNotes: r.AdditionalNotes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if r.Age != nil {
		a.Age = *r.Age
	}
	if r.DateOfBirth != nil && a.Age.Value == 0 {
		a.Age = AgeFromBirth(*r.DateOfBirth, now)
	}
	if r.Pregnancy != nil {
		a.Pregnancy = *r.Pregnancy
	}
	a.VaccinationSummary = VaccinationSummary{VaccinesGiven: []VaccineStatus{}}
	return a
}

// UpdateAnimalRequest changes animal fields. Nil fields and invalid enum values are ignored.
type UpdateAnimalRequest struct {
	AnimalType      *AnimalType   `json:"animal_type"`
	Breed           *string       `json:"breed"`
	TagNumber       *string       `json:"tag_number"`
	Name            *string       `json:"name"`
	Gender          *Gender       `json:"gender"`
	Age             *Age          `json:"age"`
	DateOfBirth     *time.Time    `json:"date_of_birth"`
	Pregnancy       *Pregnancy    `json:"pregnancy_status"`
	HealthStatus    *HealthStatus `json:"health_status"`
	Status          *Status       `json:"status"`
	StatusReason    string        `json:"status_change_reason"`
	IsActive        *bool         `json:"is_active"`
	AdditionalNotes *string       `json:"additional_notes"`
}

// Apply copies the set fields onto a.
func (r *UpdateAnimalRequest) Apply(a *Animal, now time.Time) {
	if r.AnimalType != nil && r.AnimalType.Valid() {
		a.AnimalType = *r.AnimalType
	}
	if r.Breed != nil {
		if breed := strings.TrimSpace(*r.Breed); breed != "" {
			a.Breed = breed
		}
	}
	if r.TagNumber != nil {
		if tag := NormalizeTag(*r.TagNumber); tag != "" {
			a.TagNumber = tag
		}
	}
	if r.Name != nil {
		if name := strings.TrimSpace(*r.Name); name != "" {
			a.Name = name
		}
	}
	if r.Gender != nil && r.Gender.Valid() {
		a.Gender = *r.Gender
	}
	if r.Age != nil {
		if r.Age.Value > 0 {
			a.Age.Value = r.Age.Value
		}
		if r.Age.Unit.Valid() {
			a.Age.Unit = r.Age.Unit
		}
	}
	if r.DateOfBirth != nil {
		a.DateOfBirth = r.DateOfBirth
	}
	if r.Pregnancy != nil {
		a.Pregnancy = *r.Pregnancy
	}
	if r.HealthStatus != nil && r.HealthStatus.Valid() {
		a.Health.Status = *r.HealthStatus
	}
	if r.Status != nil && r.Status.Valid() {
		a.SetStatus(*r.Status, strings.TrimSpace(r.StatusReason), now)
	}
	if r.IsActive != nil {
		a.IsActive = *r.IsActive
	}
	if r.AdditionalNotes != nil {
		a.AdditionalNotes = strings.TrimSpace(*r.AdditionalNotes)
	}
	a.UpdatedAt = now
}

type DeceasedRequest struct {
	Reason string     `json:"reason"`
	Date   *time.Time `json:"date"`
}

type TransferRequest struct {
	FarmerID id.FarmerID `json:"farmer_id"`
	Reason   string      `json:"reason"`
}

type HealthUpdateRequest struct {
	Status HealthStatus `json:"status"`
	Notes  string       `json:"notes"`
}

func (r *HealthUpdateRequest) Validate() error {
	if !r.Status.Valid() {
		return dErrors.New(dErrors.CodeValidation, "health status is invalid")
	}
	return nil
}

type MedicalRecordRequest struct {
	Condition string     `json:"condition"`
	Treatment string     `json:"treatment"`
	Date      *time.Time `json:"date"`
	Resolved  bool       `json:"resolved"`
	Notes     string     `json:"notes"`
}

func (r *MedicalRecordRequest) Validate() error {
	if strings.TrimSpace(r.Condition) == "" {
		return dErrors.New(dErrors.CodeValidation, "condition is required")
	}
	return nil
}

// ListFilter narrows animal listings. Zero fields match everything.
type ListFilter struct {
	FarmerID   id.FarmerID
	Status     Status
	AnimalType AnimalType
	Search     string
	ActiveOnly bool
}

// Counts are the herd-wide figures shown on the vaccination dashboard.
type Counts struct {
	Active   int
	Pregnant int
}
