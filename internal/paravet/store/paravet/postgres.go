package paravet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"zoopito/internal/paravet/models"
	"zoopito/internal/platform/postgres"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
)

var constraints = postgres.Constraints{
	"paravets_user_id_key":        "user_id",
	"paravets_license_number_key": "license_number",
}

const paravetColumns = `id, user_id, qualification, license_number, assigned_areas, is_active, rating, created_at, updated_at`

// PostgresStore persists paravets.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, p *models.Paravet) error {
	_, err := postgres.Querier(ctx, s.db).ExecContext(ctx,
		`INSERT INTO paravets (`+paravetColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(p.ID),
		uuid.UUID(p.UserID),
		p.Qualification,
		postgres.NullString(p.LicenseNumber),
		pq.Array(areas(p.AssignedAreas)),
		p.IsActive,
		p.Rating,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert paravet: %w", postgres.Translate(err, constraints))
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, p *models.Paravet) error {
	res, err := postgres.Querier(ctx, s.db).ExecContext(ctx,
		`UPDATE paravets SET qualification = $2, license_number = $3, assigned_areas = $4,
			is_active = $5, rating = $6, updated_at = $7
		WHERE id = $1`,
		uuid.UUID(p.ID),
		p.Qualification,
		postgres.NullString(p.LicenseNumber),
		pq.Array(areas(p.AssignedAreas)),
		p.IsActive,
		p.Rating,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update paravet: %w", postgres.Translate(err, constraints))
	}
	return expectOne(res, p.ID)
}

func (s *PostgresStore) FindByID(ctx context.Context, paravetID id.ParavetID) (*models.Paravet, error) {
	row := postgres.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+paravetColumns+` FROM paravets WHERE id = $1`, uuid.UUID(paravetID))
	p, err := scanParavet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("paravet %s: %w", paravetID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find paravet: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) FindByUserID(ctx context.Context, userID id.UserID) (*models.Paravet, error) {
	row := postgres.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+paravetColumns+` FROM paravets WHERE user_id = $1`, uuid.UUID(userID))
	p, err := scanParavet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("paravet for user %s: %w", userID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find paravet by user: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Paravet, int, error) {
	var (
		conds []string
		args  []any
	)
	if filter.ActiveOnly {
		conds = append(conds, "is_active")
	}
	if filter.Area != "" {
		args = append(args, strings.ToLower(filter.Area))
		conds = append(conds, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(assigned_areas) a WHERE lower(a) = $%d)", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	q := postgres.Querier(ctx, s.db)
	var total int
	if err := q.QueryRowContext(ctx, `SELECT count(*) FROM paravets`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count paravets: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := q.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM paravets%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		paravetColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list paravets: %w", err)
	}
	defer rows.Close()

	var paravets []*models.Paravet
	for rows.Next() {
		p, err := scanParavet(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan paravet: %w", err)
		}
		paravets = append(paravets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list paravets: %w", err)
	}
	return paravets, total, nil
}

func (s *PostgresStore) Delete(ctx context.Context, paravetID id.ParavetID) error {
	res, err := postgres.Querier(ctx, s.db).ExecContext(ctx, `DELETE FROM paravets WHERE id = $1`, uuid.UUID(paravetID))
	if err != nil {
		return fmt.Errorf("delete paravet: %w", err)
	}
	return expectOne(res, paravetID)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanParavet(row scanner) (*models.Paravet, error) {
	var (
		p       models.Paravet
		rawID   uuid.UUID
		userID  uuid.UUID
		license sql.NullString
		areaSet pq.StringArray
	)
	if err := row.Scan(&rawID, &userID, &p.Qualification, &license, &areaSet, &p.IsActive, &p.Rating,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ID = id.ParavetID(rawID)
	p.UserID = id.UserID(userID)
	p.LicenseNumber = license.String
	p.AssignedAreas = []string(areaSet)
	return &p, nil
}

func areas(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func expectOne(res sql.Result, paravetID id.ParavetID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("paravet %s: %w", paravetID, sentinel.ErrNotFound)
	}
	return nil
}
