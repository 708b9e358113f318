package domain

import (
	"strings"

	dErrors "zoopito/pkg/domain-errors"
)

// Role is the access role carried by a user account and its access token.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleSales   Role = "SALES"
	RoleParavet Role = "PARAVET"
	RoleFarmer  Role = "FARMER"
	RoleUser    Role = "USER"
)

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown role: "+s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSales, RoleParavet, RoleFarmer, RoleUser:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
