package models

import (
	"strings"
	"time"

	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
	"zoopito/pkg/email"
)

// Address is the postal address of a farm.
type Address struct {
	Village  string `json:"village,omitempty"`
	Taluka   string `json:"taluka,omitempty"`
	District string `json:"district,omitempty"`
	State    string `json:"state,omitempty"`
	Pincode  string `json:"pincode,omitempty"`
}

func (a *Address) trim() {
	a.Village = strings.TrimSpace(a.Village)
	a.Taluka = strings.TrimSpace(a.Taluka)
	a.District = strings.TrimSpace(a.District)
	a.State = strings.TrimSpace(a.State)
	a.Pincode = strings.TrimSpace(a.Pincode)
}

// Location is a GeoJSON point; Coordinates is [longitude, latitude].
type Location struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// NormalizeLocation returns loc when it carries exactly one coordinate pair,
// and the (0,0) point otherwise.
func NormalizeLocation(loc *Location) Location {
	if loc == nil || len(loc.Coordinates) != 2 {
		return Location{Type: "Point", Coordinates: []float64{0, 0}}
	}
	return Location{Type: "Point", Coordinates: []float64{loc.Coordinates[0], loc.Coordinates[1]}}
}

// Lng returns the longitude.
func (l Location) Lng() float64 {
	if len(l.Coordinates) != 2 {
		return 0
	}
	return l.Coordinates[0]
}

// Lat returns the latitude.
func (l Location) Lat() float64 {
	if len(l.Coordinates) != 2 {
		return 0
	}
	return l.Coordinates[1]
}

// Farmer owns animals. Each farmer has a FARMER login account keyed by mobile number.
type Farmer struct {
	ID              id.FarmerID   `json:"id"`
	UserID          id.UserID     `json:"user_id"`
	Name            string        `json:"name"`
	MobileNumber    string        `json:"mobile_number"`
	Address         Address       `json:"address"`
	Location        Location      `json:"location"`
	AssignedParavet *id.ParavetID `json:"assigned_paravet,omitempty"`
	TotalAnimals    int           `json:"total_animals"`
	IsActive        bool          `json:"is_active"`
	UniqueFarmerID  string        `json:"unique_farmer_id"`
	RegisteredBy    id.UserID     `json:"registered_by"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// CreateFarmerRequest is the registration payload.
type CreateFarmerRequest struct {
	Name            string        `json:"name"`
	MobileNumber    string        `json:"mobile_number"`
	Email           string        `json:"email"`
	Address         Address       `json:"address"`
	Location        *Location     `json:"location"`
	AssignedParavet *id.ParavetID `json:"assigned_paravet"`
}

func (r *CreateFarmerRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.MobileNumber = email.NormalizeMobile(strings.TrimSpace(r.MobileNumber))
	r.Email = email.Normalize(r.Email)
	r.Address.trim()
}

func (r *CreateFarmerRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.MobileNumber == "" {
		return dErrors.New(dErrors.CodeValidation, "mobile number is required")
	}
	if r.Email != "" && !email.Valid(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "email is invalid")
	}
	return nil
}

// UpdateFarmerRequest changes farmer fields. Nil fields are left alone.
type UpdateFarmerRequest struct {
	Name            *string       `json:"name"`
	MobileNumber    *string       `json:"mobile_number"`
	Address         *Address      `json:"address"`
	Location        *Location     `json:"location"`
	AssignedParavet *id.ParavetID `json:"assigned_paravet"`
	IsActive        *bool         `json:"is_active"`
}

// Apply copies the set fields onto f. A location without exactly two coordinates is ignored.
func (r *UpdateFarmerRequest) Apply(f *Farmer, now time.Time) error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return dErrors.New(dErrors.CodeValidation, "name cannot be empty")
		}
		f.Name = name
	}
	if r.MobileNumber != nil {
		mobile := email.NormalizeMobile(strings.TrimSpace(*r.MobileNumber))
		if mobile == "" {
			return dErrors.New(dErrors.CodeValidation, "mobile number cannot be empty")
		}
		f.MobileNumber = mobile
	}
	if r.Address != nil {
		addr := *r.Address
		addr.trim()
		f.Address = addr
	}
	if r.Location != nil && len(r.Location.Coordinates) == 2 {
		f.Location = NormalizeLocation(r.Location)
	}
	if r.AssignedParavet != nil {
		if r.AssignedParavet.IsNil() {
			f.AssignedParavet = nil
		} else {
			p := *r.AssignedParavet
			f.AssignedParavet = &p
		}
	}
	if r.IsActive != nil {
		f.IsActive = *r.IsActive
	}
	f.UpdatedAt = now
	return nil
}

// ListFilter narrows farmer listings.
type ListFilter struct {
	Search     string
	ActiveOnly bool
}

// CreatedFarmer is the registration response; TempPassword belongs to the farmer's new account.
type CreatedFarmer struct {
	*Farmer
	TempPassword string `json:"temp_password,omitempty"`
}

// ToggleResult reports the state after a toggle.
type ToggleResult struct {
	IsActive bool   `json:"is_active"`
	Message  string `json:"message"`
}
