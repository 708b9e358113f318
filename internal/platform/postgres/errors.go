package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"zoopito/pkg/platform/sentinel"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Constraints maps unique constraint or index names onto the field they protect.
type Constraints map[string]string

// Translate maps driver errors onto sentinel errors. Unique violations become
// sentinel.Duplicate(field) using constraints; foreign key violations become
// sentinel.ErrConflict. Other errors pass through unchanged.
func Translate(err error, constraints Constraints) error {
	if err == nil {
		return nil
	}
	code, constraint, ok := pgCode(err)
	if !ok {
		return err
	}
	switch code {
	case codeUniqueViolation:
		field := constraints[constraint]
		if field == "" {
			field = constraint
		}
		return sentinel.Duplicate(field)
	case codeForeignKeyViolation:
		return sentinel.ErrConflict
	}
	return err
}

// pgCode extracts the SQLSTATE and constraint name from a pgx error.
func pgCode(err error) (string, string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, true
	}
	return "", "", false
}
