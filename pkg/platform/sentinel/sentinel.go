package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: record does not exist in the store
//   - ErrAlreadyUsed: a unique key (tag number, employee code, mobile, email) is taken
//   - ErrConflict: the record is referenced by others and cannot be removed
//   - ErrInvalidState: record is in the wrong state for the requested operation
//   - ErrUnavailable: backing service temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)

// UniqueViolation reports which unique key a write collided with.
// Stores wrap it so services can pick a field-specific message.
type UniqueViolation struct {
	Field string
}

func (e *UniqueViolation) Error() string {
	return e.Field + " already used"
}

func (e *UniqueViolation) Unwrap() error {
	return ErrAlreadyUsed
}

// Duplicate returns an ErrAlreadyUsed error naming the colliding field.
func Duplicate(field string) error {
	return &UniqueViolation{Field: field}
}

// DuplicateField returns the colliding field name, if err is a unique violation.
func DuplicateField(err error) (string, bool) {
	var uv *UniqueViolation
	if errors.As(err, &uv) {
		return uv.Field, true
	}
	return "", false
}
