package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"zoopito/internal/platform/postgres"
	"zoopito/internal/salesteam/models"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
)

var constraints = postgres.Constraints{
	"sales_members_user_id_key":       "user_id",
	"sales_members_employee_code_key": "employee_code",
}

const memberColumns = `id, user_id, employee_code, assigned_areas, remarks, last_active_at, is_active,
	created_by, created_at, updated_at`

// PostgresStore persists sales members.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, m *models.SalesMember) error {
	areas := m.AssignedAreas
	if areas == nil {
		areas = []string{}
	}
	_, err := postgres.Querier(ctx, s.db).ExecContext(ctx,
		`INSERT INTO sales_members (`+memberColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(m.ID),
		uuid.UUID(m.UserID),
		m.EmployeeCode,
		pq.Array(areas),
		m.Remarks,
		postgres.NullTime(m.LastActiveAt),
		m.IsActive,
		postgres.NullUUID(uuid.UUID(m.CreatedBy)),
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sales member: %w", postgres.Translate(err, constraints))
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, memberID id.SalesMemberID) (*models.SalesMember, error) {
	return s.findOne(ctx, `id = $1`, uuid.UUID(memberID))
}

func (s *PostgresStore) FindByUserID(ctx context.Context, userID id.UserID) (*models.SalesMember, error) {
	return s.findOne(ctx, `user_id = $1`, uuid.UUID(userID))
}

func (s *PostgresStore) findOne(ctx context.Context, where string, arg any) (*models.SalesMember, error) {
	row := postgres.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM sales_members WHERE `+where, arg)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sales member: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find sales member: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) EmployeeCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := postgres.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM sales_members WHERE employee_code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check employee code: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.SalesMember, int, error) {
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
	if err := q.QueryRowContext(ctx, `SELECT count(*) FROM sales_members`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales members: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := q.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM sales_members%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		memberColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales members: %w", err)
	}
	defer rows.Close()

	var members []*models.SalesMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sales member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list sales members: %w", err)
	}
	return members, total, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(row scanner) (*models.SalesMember, error) {
	var (
		m          models.SalesMember
		rawID      uuid.UUID
		userID     uuid.UUID
		createdBy  uuid.NullUUID
		areaSet    pq.StringArray
		lastActive sql.NullTime
	)
	if err := row.Scan(&rawID, &userID, &m.EmployeeCode, &areaSet, &m.Remarks, &lastActive, &m.IsActive,
		&createdBy, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.ID = id.SalesMemberID(rawID)
	m.UserID = id.UserID(userID)
	m.CreatedBy = id.UserID(createdBy.UUID)
	m.AssignedAreas = []string(areaSet)
	m.LastActiveAt = postgres.TimePtr(lastActive)
	return &m, nil
}
