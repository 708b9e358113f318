package models

import (
	"strings"
	"time"

	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	"zoopito/pkg/email"
)

// User is a login account. Farmers, paravets and sales members each link to one.
//
// Invariants:
//   - Email is lower-cased and trimmed
//   - At least one of Email or Mobile is set
//   - Role is one of the known roles
type User struct {
	ID            id.UserID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Mobile        string    `json:"mobile,omitempty"`
	Role          id.Role   `json:"role"`
	AssignedArea  string    `json:"assigned_area,omitempty"`
	Designation   string    `json:"designation,omitempty"`
	Qualification string    `json:"qualification,omitempty"`
	PasswordHash  string    `json:"-"`
	IsActive      bool      `json:"is_active"`
	IsBlocked     bool      `json:"is_blocked"`
	CreatedBy     id.UserID `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Usable reports whether the account may authenticate.
func (u *User) Usable() bool {
	return u.IsActive && !u.IsBlocked
}

// CreateUserRequest carries the fields accepted when creating an account.
type CreateUserRequest struct {
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Mobile        string    `json:"mobile"`
	Role          id.Role   `json:"role"`
	AssignedArea  string    `json:"assigned_area"`
	Designation   string    `json:"designation"`
	Qualification string    `json:"qualification"`
	CreatedBy     id.UserID `json:"-"`
}

// Normalize trims input and lower-cases the email.
func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = email.Normalize(r.Email)
	r.Mobile = email.NormalizeMobile(strings.TrimSpace(r.Mobile))
	r.AssignedArea = strings.TrimSpace(r.AssignedArea)
	r.Designation = strings.TrimSpace(r.Designation)
	r.Qualification = strings.TrimSpace(r.Qualification)
	if r.Role == "" {
		r.Role = id.RoleUser
	}
	if r.Name == "" && r.Email != "" {
		r.Name = email.DeriveName(r.Email)
	}
}

// Validate checks the request after Normalize.
func (r *CreateUserRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.Email == "" && r.Mobile == "" {
		return dErrors.New(dErrors.CodeValidation, "email or mobile is required")
	}
	if r.Email != "" && !email.Valid(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "email is invalid")
	}
	if !r.Role.Valid() {
		return dErrors.New(dErrors.CodeValidation, "role is invalid")
	}
	return nil
}

// NewUser builds an active account from a validated request.
func NewUser(userID id.UserID, req CreateUserRequest, passwordHash string, now time.Time) (*User, error) {
	if req.Email == "" && req.Mobile == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user needs an email or a mobile number")
	}
	return &User{
		ID:            userID,
		Name:          req.Name,
		Email:         req.Email,
		Mobile:        req.Mobile,
		Role:          req.Role,
		AssignedArea:  req.AssignedArea,
		Designation:   req.Designation,
		Qualification: req.Qualification,
		PasswordHash:  passwordHash,
		IsActive:      true,
		CreatedBy:     req.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// UpdateUserRequest carries the mutable profile fields. Nil fields are left alone.
type UpdateUserRequest struct {
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	Mobile        *string `json:"mobile"`
	AssignedArea  *string `json:"assigned_area"`
	Designation   *string `json:"designation"`
	Qualification *string `json:"qualification"`
}

// Apply copies the set fields onto u.
func (r *UpdateUserRequest) Apply(u *User, now time.Time) error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return dErrors.New(dErrors.CodeValidation, "name cannot be empty")
		}
		u.Name = name
	}
	if r.Email != nil {
		addr := email.Normalize(*r.Email)
		if addr != "" && !email.Valid(addr) {
			return dErrors.New(dErrors.CodeValidation, "email is invalid")
		}
		u.Email = addr
	}
	if r.Mobile != nil {
		u.Mobile = email.NormalizeMobile(strings.TrimSpace(*r.Mobile))
	}
	if u.Email == "" && u.Mobile == "" {
		return dErrors.New(dErrors.CodeValidation, "email or mobile is required")
	}
	if r.AssignedArea != nil {
		u.AssignedArea = strings.TrimSpace(*r.AssignedArea)
	}
	if r.Designation != nil {
		u.Designation = strings.TrimSpace(*r.Designation)
	}
	if r.Qualification != nil {
		u.Qualification = strings.TrimSpace(*r.Qualification)
	}
	u.UpdatedAt = now
	return nil
}

// ListFilter narrows account listings.
type ListFilter struct {
	Role   id.Role
	Search string
}

// CreatedUser is returned once after creation. TempPassword is never stored in clear.
type CreatedUser struct {
	*User
	TempPassword string `json:"temp_password,omitempty"`
}
