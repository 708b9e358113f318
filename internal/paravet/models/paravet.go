package models

import (
	"strings"
	"time"

	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	"zoopito/pkg/email"
	liststrings "zoopito/pkg/platform/strings"
)

// MaxRating is the top of the paravet rating scale.
const MaxRating = 5

// Paravet is a field veterinary assistant linked to a PARAVET account.
type Paravet struct {
	ID            id.ParavetID `json:"id"`
	UserID        id.UserID    `json:"user_id"`
	Qualification string       `json:"qualification"`
	LicenseNumber string       `json:"license_number,omitempty"`
	AssignedAreas []string     `json:"assigned_areas"`
	IsActive      bool         `json:"is_active"`
	Rating        float64      `json:"rating"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Detail is a paravet with the contact fields of its account.
type Detail struct {
	*Paravet
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Mobile string `json:"mobile,omitempty"`
}

// CreateParavetRequest onboards a paravet. An existing account with the same email or
// mobile is reused and promoted.
type CreateParavetRequest struct {
	Name          string           `json:"name"`
	Email         string           `json:"email"`
	Mobile        string           `json:"mobile"`
	Qualification string           `json:"qualification"`
	LicenseNumber string           `json:"license_number"`
	AssignedAreas liststrings.List `json:"assigned_areas"`
}

func (r *CreateParavetRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = email.Normalize(r.Email)
	r.Mobile = email.NormalizeMobile(strings.TrimSpace(r.Mobile))
	r.Qualification = strings.TrimSpace(r.Qualification)
	r.LicenseNumber = strings.TrimSpace(r.LicenseNumber)
	r.AssignedAreas = liststrings.Dedupe(r.AssignedAreas)
}

func (r *CreateParavetRequest) Validate() error {
	if r.Email == "" && r.Mobile == "" {
		return dErrors.New(dErrors.CodeValidation, "email or mobile is required")
	}
	if r.Qualification == "" {
		return dErrors.New(dErrors.CodeValidation, "qualification is required")
	}
	return nil
}

// UpdateParavetRequest changes account and paravet fields. Nil fields are left alone.
type UpdateParavetRequest struct {
	Name          *string           `json:"name"`
	Email         *string           `json:"email"`
	Mobile        *string           `json:"mobile"`
	Qualification *string           `json:"qualification"`
	LicenseNumber *string           `json:"license_number"`
	AssignedAreas *liststrings.List `json:"assigned_areas"`
	Rating        *float64          `json:"rating"`
}

// TouchesAccount reports whether the request changes the linked account.
func (r *UpdateParavetRequest) TouchesAccount() bool {
	return r.Name != nil || r.Email != nil || r.Mobile != nil || r.Qualification != nil
}

// Apply copies the paravet fields onto p.
func (r *UpdateParavetRequest) Apply(p *Paravet, now time.Time) error {
	if r.Qualification != nil {
		q := strings.TrimSpace(*r.Qualification)
		if q == "" {
			return dErrors.New(dErrors.CodeValidation, "qualification cannot be empty")
		}
		p.Qualification = q
	}
	if r.LicenseNumber != nil {
		p.LicenseNumber = strings.TrimSpace(*r.LicenseNumber)
	}
	if r.AssignedAreas != nil {
		p.AssignedAreas = liststrings.Dedupe(*r.AssignedAreas)
	}
	if r.Rating != nil {
		if *r.Rating < 0 || *r.Rating > MaxRating {
			return dErrors.New(dErrors.CodeValidation, "rating must be between 0 and 5")
		}
		p.Rating = *r.Rating
	}
	p.UpdatedAt = now
	return nil
}

// ListFilter narrows paravet listings.
type ListFilter struct {
	Area       string
	ActiveOnly bool
}

// CreatedParavet is the onboarding response. TempPassword is set only when a new
// account was created.
type CreatedParavet struct {
	*Detail
	TempPassword string `json:"temp_password,omitempty"`
}
