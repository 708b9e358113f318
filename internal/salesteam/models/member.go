package models

import (
	"strings"
	"time"

	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	"zoopito/pkg/email"
	liststrings "zoopito/pkg/platform/strings"
)

// EmployeeCodeLength is the length of a sales member's employee code.
const EmployeeCodeLength = 6

// SalesMember is a field sales agent linked to a SALES account.
type SalesMember struct {
	ID            id.SalesMemberID `json:"id"`
	UserID        id.UserID        `json:"user_id"`
	EmployeeCode  string           `json:"employee_code"`
	AssignedAreas []string         `json:"assigned_areas"`
	Remarks       string           `json:"remarks,omitempty"`
	LastActiveAt  *time.Time       `json:"last_active_at,omitempty"`
	IsActive      bool             `json:"is_active"`
	CreatedBy     id.UserID        `json:"created_by"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Detail is a sales member with the contact fields of its account.
type Detail struct {
	*SalesMember
	Name        string `json:"name"`
	Email       string `json:"email"`
	Mobile      string `json:"mobile,omitempty"`
	Designation string `json:"designation,omitempty"`
}

type CreateSalesMemberRequest struct {
	Name          string           `json:"name"`
	Email         string           `json:"email"`
	Mobile        string           `json:"mobile"`
	Designation   string           `json:"designation"`
	AssignedAreas liststrings.List `json:"assigned_areas"`
	Remarks       string           `json:"remarks"`
}

func (r *CreateSalesMemberRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = email.Normalize(r.Email)
	r.Mobile = email.NormalizeMobile(strings.TrimSpace(r.Mobile))
	r.Designation = strings.TrimSpace(r.Designation)
	r.Remarks = strings.TrimSpace(r.Remarks)
	r.AssignedAreas = liststrings.Dedupe(r.AssignedAreas)
}

func (r *CreateSalesMemberRequest) Validate() error {
	if r.Name == "" || r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "Name and email are required")
	}
	if !email.Valid(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "email is invalid")
	}
	return nil
}

// ListFilter narrows sales team listings.
type ListFilter struct {
	Area       string
	ActiveOnly bool
}

// CreatedSalesMember is the onboarding response. TempPassword is set only when a new
// account was created.
type CreatedSalesMember struct {
	*Detail
	TempPassword string `json:"temp_password,omitempty"`
}
