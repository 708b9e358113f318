package models

import (
	"slices"
	"strings"
	"time"

	"zoopito/internal/vaccination/schedule"
	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
)

type Status string

const (
	StatusScheduled       Status = "Scheduled"
	StatusAdministered    Status = "Administered"
	StatusCompleted       Status = "Completed"
	StatusMissed          Status = "Missed"
	StatusCancelled       Status = "Cancelled"
	StatusAdverseReaction Status = "Adverse Reaction"
)

var statuses = []Status{StatusScheduled, StatusAdministered, StatusCompleted, StatusMissed, StatusCancelled, StatusAdverseReaction}

func (s Status) Valid() bool { return slices.Contains(statuses, s) }

// Given reports whether the status records a dose that was actually administered.
func (s Status) Given() bool { return s == StatusAdministered || s == StatusCompleted }

type Verification string

const (
	VerificationPending  Verification = "Pending"
	VerificationVerified Verification = "Verified"
	VerificationRejected Verification = "Rejected"
)

func (v Verification) Valid() bool {
	return v == VerificationPending || v == VerificationVerified || v == VerificationRejected
}

type Source string

const (
	SourceBulkRegistration Source = "bulk_registration"
	SourceManualEntry      Source = "manual_entry"
	SourceSchedule         Source = "schedule"
	SourceImport           Source = "import"
)

type Method string

var methods = []Method{"Injection", "Oral", "Nasal", "Topical", "Other"}

// MethodInjection is the default administration method.
const MethodInjection Method = "Injection"

func (m Method) Valid() bool { return slices.Contains(methods, m) }

type DosageUnit string

var dosageUnits = []DosageUnit{"ml", "cc", "mg", "IU", "drops", "tablets", "Other"}

// DosageML is the default dosage unit.
const DosageML DosageUnit = "ml"

func (u DosageUnit) Valid() bool { return slices.Contains(dosageUnits, u) }

// Vaccination is one dose given, or scheduled, for an animal.
type Vaccination struct {
	ID                     id.VaccinationID `json:"id"`
	FarmerID               id.FarmerID      `json:"farmer_id"`
	AnimalID               id.AnimalID      `json:"animal_id"`
	VaccineID              id.VaccineID     `json:"vaccine_id"`
	VaccineName            string           `json:"vaccine_name"`
	VaccineType            string           `json:"vaccine_type"`
	BatchNumber            string           `json:"batch_number,omitempty"`
	DoseNumber             int              `json:"dose_number"`
	TotalDosesRequired     int              `json:"total_doses_required"`
	AdministrationMethod   Method           `json:"administration_method"`
	DosageAmount           float64          `json:"dosage_amount,omitempty"`
	DosageUnit             DosageUnit       `json:"dosage_unit"`
	DateAdministered       time.Time        `json:"date_administered"`
	NextDueDate            *time.Time       `json:"next_due_date,omitempty"`
	AdministeredBy         string           `json:"administered_by"`
	Status                 Status           `json:"status"`
	VerificationStatus     Verification     `json:"verification_status"`
	VerificationNotes      string           `json:"verification_notes,omitempty"`
	VerifiedBy             id.UserID        `json:"verified_by,omitzero"`
	HadAdverseReaction     bool             `json:"had_adverse_reaction"`
	AdverseReactionDetails string           `json:"adverse_reaction_details,omitempty"`
	Notes                  string           `json:"notes,omitempty"`
	Source                 Source           `json:"source"`
	RegistrationBatchID    string           `json:"registration_batch_id,omitempty"`
	RegistrationBatchIndex *int             `json:"registration_batch_index,omitempty"`
	IsSeriesComplete       bool             `json:"is_series_complete"`
	SeriesCompletionDate   *time.Time       `json:"series_completion_date,omitempty"`
	CreatedBy              id.UserID        `json:"created_by,omitzero"`
	UpdatedBy              id.UserID        `json:"updated_by,omitzero"`
	CreatedAt              time.Time        `json:"created_at"`
	UpdatedAt              time.Time        `json:"updated_at"`

	// Derived on read, never stored.
	IsOverdue    bool `json:"is_overdue"`
	DaysUntilDue *int `json:"days_until_due,omitempty"`
}

// Derive fills the read-time fields relative to now.
func (v *Vaccination) Derive(now time.Time) {
	v.IsOverdue = v.Status == StatusAdministered && v.NextDueDate != nil && v.NextDueDate.Before(now)
	v.DaysUntilDue = nil
	if v.NextDueDate != nil {
		days := schedule.DaysUntil(*v.NextDueDate, now)
		v.DaysUntilDue = &days
	}
}

// CompleteSeries marks the series complete once the final dose is recorded.
func (v *Vaccination) CompleteSeries(now time.Time) {
	if v.IsSeriesComplete || !schedule.SeriesComplete(v.DoseNumber, v.TotalDosesRequired) {
		return
	}
	v.IsSeriesComplete = true
	v.SeriesCompletionDate = &now
}

// AppendNote adds a line to the notes.
func (v *Vaccination) AppendNote(line string) {
	if v.Notes == "" {
		v.Notes = line
		return
	}
	v.Notes += "\n" + line
}

// FieldError names the offending field of an invalid request.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// RecordRequest records one vaccination. AnimalID is ignored inside bulk registration.
type RecordRequest struct {
	AnimalID             id.AnimalID  `json:"animal_id"`
	VaccineID            id.VaccineID `json:"vaccine_id"`
	BatchNumber          string       `json:"batch_number"`
	DoseNumber           int          `json:"dose_number"`
	TotalDosesRequired   int          `json:"total_doses_required"`
	AdministrationMethod Method       `json:"administration_method"`
	DosageAmount         float64      `json:"dosage_amount"`
	DosageUnit           DosageUnit   `json:"dosage_unit"`
	DateAdministered     *time.Time   `json:"date_administered"`
	NextDueDate          *time.Time   `json:"next_due_date"`
	AdministeredBy       string       `json:"administered_by"`
	Status               Status       `json:"status"`
	Notes                string       `json:"notes"`
}

func (r *RecordRequest) Normalize() {
	r.BatchNumber = strings.TrimSpace(r.BatchNumber)
	r.AdministeredBy = strings.TrimSpace(r.AdministeredBy)
	r.Notes = strings.TrimSpace(r.Notes)
	if r.DoseNumber == 0 {
		r.DoseNumber = 1
	}
	if r.TotalDosesRequired == 0 {
		r.TotalDosesRequired = 1
	}
	if r.AdministrationMethod == "" {
		r.AdministrationMethod = MethodInjection
	}
	if r.DosageUnit == "" {
		r.DosageUnit = DosageML
	}
	if r.Status == "" {
		r.Status = StatusAdministered
	}
}

// Check validates the request and reports the first offending field.
func (r *RecordRequest) Check() *FieldError {
	switch {
	case r.VaccineID.IsNil():
		return &FieldError{Field: "vaccine_id", Message: "vaccine is required"}
	case r.AdministeredBy == "":
		return &FieldError{Field: "administered_by", Message: "administered by is required"}
	case r.DoseNumber < 1 || r.TotalDosesRequired < 1:
		return &FieldError{Field: "dose_number", Message: "dose numbers must be at least 1"}
	case r.DoseNumber > r.TotalDosesRequired:
		return &FieldError{Field: "dose_number", Message: "dose number exceeds total doses required"}
	case !r.AdministrationMethod.Valid():
		return &FieldError{Field: "administration_method", Message: "administration method is invalid"}
	case !r.DosageUnit.Valid():
		return &FieldError{Field: "dosage_unit", Message: "dosage unit is invalid"}
	case r.DosageAmount < 0:
		return &FieldError{Field: "dosage_amount", Message: "dosage cannot be negative"}
	case !r.Status.Valid():
		return &FieldError{Field: "status", Message: "status is invalid"}
	case len(r.Notes) > 1000:
		return &FieldError{Field: "notes", Message: "notes cannot exceed 1000 characters"}
	}
	return nil
}

func (r *RecordRequest) Validate() error {
	if fe := r.Check(); fe != nil {
		return dErrors.New(dErrors.CodeValidation, fe.Message)
	}
	return nil
}

// UpdateRequest changes a vaccination. Nil fields and invalid enum values are ignored.
type UpdateRequest struct {
	BatchNumber            *string     `json:"batch_number"`
	DoseNumber             *int        `json:"dose_number"`
	TotalDosesRequired     *int        `json:"total_doses_required"`
	AdministrationMethod   *Method     `json:"administration_method"`
	DosageAmount           *float64    `json:"dosage_amount"`
	DosageUnit             *DosageUnit `json:"dosage_unit"`
	DateAdministered       *time.Time  `json:"date_administered"`
	NextDueDate            *time.Time  `json:"next_due_date"`
	AdministeredBy         *string     `json:"administered_by"`
	Status                 *Status     `json:"status"`
	HadAdverseReaction     *bool       `json:"had_adverse_reaction"`
	AdverseReactionDetails *string     `json:"adverse_reaction_details"`
	Notes                  *string     `json:"notes"`
}

// Apply copies the set fields onto v.
func (r *UpdateRequest) Apply(v *Vaccination) {
	if r.BatchNumber != nil {
		v.BatchNumber = strings.TrimSpace(*r.BatchNumber)
	}
	if r.DoseNumber != nil && *r.DoseNumber > 0 {
		v.DoseNumber = *r.DoseNumber
	}
	if r.TotalDosesRequired != nil && *r.TotalDosesRequired > 0 {
		v.TotalDosesRequired = *r.TotalDosesRequired
	}
	if r.AdministrationMethod != nil && r.AdministrationMethod.Valid() {
		v.AdministrationMethod = *r.AdministrationMethod
	}
	if r.DosageAmount != nil && *r.DosageAmount >= 0 {
		v.DosageAmount = *r.DosageAmount
	}
	if r.DosageUnit != nil && r.DosageUnit.Valid() {
		v.DosageUnit = *r.DosageUnit
	}
	if r.DateAdministered != nil {
		v.DateAdministered = *r.DateAdministered
	}
	if r.NextDueDate != nil {
		due := *r.NextDueDate
		v.NextDueDate = &due
	}
	if r.AdministeredBy != nil {
		if by := strings.TrimSpace(*r.AdministeredBy); by != "" {
			v.AdministeredBy = by
		}
	}
	if r.Status != nil && r.Status.Valid() {
		v.Status = *r.Status
	}
	if r.HadAdverseReaction != nil {
		v.HadAdverseReaction = *r.HadAdverseReaction
	}
	if r.AdverseReactionDetails != nil {
		v.AdverseReactionDetails = strings.TrimSpace(*r.AdverseReactionDetails)
	}
	if r.Notes != nil {
		v.Notes = strings.TrimSpace(*r.Notes)
	}
}

type VerifyRequest struct {
	Status Verification `json:"verification_status"`
	Notes  string       `json:"verification_notes"`
}

func (r *VerifyRequest) Validate() error {
	if !r.Status.Valid() {
		return dErrors.New(dErrors.CodeValidation, "Invalid verification status")
	}
	return nil
}

type MissedRequest struct {
	Reason string `json:"reason"`
}

type RescheduleRequest struct {
	NextDueDate time.Time `json:"next_due_date"`
	Reason      string    `json:"reason"`
}

func (r *RescheduleRequest) Validate() error {
	if r.NextDueDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "next due date is required")
	}
	return nil
}

type AdministerRequest struct {
	DateAdministered *time.Time `json:"date_administered"`
	AdministeredBy   string     `json:"administered_by"`
	BatchNumber      string     `json:"batch_number"`
	Notes            string     `json:"notes"`
}

// Apply marks v administered, keeping existing values where the request leaves them empty.
func (r *AdministerRequest) Apply(v *Vaccination, now time.Time) {
	v.Status = StatusAdministered
	v.DateAdministered = now
	if r.DateAdministered != nil {
		v.DateAdministered = *r.DateAdministered
	}
	if by := strings.TrimSpace(r.AdministeredBy); by != "" {
		v.AdministeredBy = by
	}
	if batch := strings.TrimSpace(r.BatchNumber); batch != "" {
		v.BatchNumber = batch
	}
	if notes := strings.TrimSpace(r.Notes); notes != "" {
		v.Notes = notes
	}
}

// NextDueRequest asks for the estimated next due date of a vaccine given on a date.
type NextDueRequest struct {
	VaccineID        id.VaccineID `json:"vaccine_id"`
	DateAdministered *time.Time   `json:"date_administered"`
}

// Basis names which rule produced a next due date.
type Basis string

const (
	BasisMonths  Basis = "default_next_due_months"
	BasisWeeks   Basis = "booster_interval_weeks"
	BasisDefault Basis = "default"
)

type NextDueResult struct {
	NextDueDate time.Time `json:"next_due_date"`
	Basis       Basis     `json:"basis"`
}
