package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"zoopito/internal/account/models"
	"zoopito/internal/platform/postgres"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
)

var constraints = postgres.Constraints{
	"users_email_key":  "email",
	"users_mobile_key": "mobile",
}

const userColumns = `id, name, email, mobile, role, assigned_area, designation, qualification,
	password_hash, is_active, is_blocked, created_by, created_at, updated_at`

// PostgresStore persists accounts in the users table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := postgres.Querier(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(user.ID),
		user.Name,
		postgres.NullString(user.Email),
		postgres.NullString(user.Mobile),
		string(user.Role),
		user.AssignedArea,
		user.Designation,
		user.Qualification,
		user.PasswordHash,
		user.IsActive,
		user.IsBlocked,
		postgres.NullUUID(uuid.UUID(user.CreatedBy)),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", postgres.Translate(err, constraints))
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET
			name = $2, email = $3, mobile = $4, role = $5, assigned_area = $6, designation = $7,
			qualification = $8, password_hash = $9, is_active = $10, is_blocked = $11, updated_at = $12
		WHERE id = $1`
	res, err := postgres.Querier(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(user.ID),
		user.Name,
		postgres.NullString(user.Email),
		postgres.NullString(user.Mobile),
		string(user.Role),
		user.AssignedArea,
		user.Designation,
		user.Qualification,
		user.PasswordHash,
		user.IsActive,
		user.IsBlocked,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", postgres.Translate(err, constraints))
	}
	return expectOne(res, user.ID)
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.findOne(ctx, `WHERE id = $1`, uuid.UUID(userID))
}

func (s *PostgresStore) FindByEmail(ctx context.Context, address string) (*models.User, error) {
	return s.findOne(ctx, `WHERE email = $1`, address)
}

func (s *PostgresStore) FindByMobile(ctx context.Context, mobile string) (*models.User, error) {
	return s.findOne(ctx, `WHERE mobile = $1`, mobile)
}

func (s *PostgresStore) findOne(ctx context.Context, where string, arg any) (*models.User, error) {
	row := postgres.Querier(ctx, s.db).QueryRowContext(ctx, `SELECT `+userColumns+` FROM users `+where, arg)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.User, int, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Role != "" {
		args = append(args, string(filter.Role))
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(lower(name) LIKE $%d OR email LIKE $%d OR mobile LIKE $%d)", n, n, n))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	q := postgres.Querier(ctx, s.db)
	var total int
	if err := q.QueryRowContext(ctx, `SELECT count(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)-1, len(args))
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID id.UserID) error {
	res, err := postgres.Querier(ctx, s.db).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, uuid.UUID(userID))
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectOne(res, userID)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	var (
		u         models.User
		rawID     uuid.UUID
		emailCol  sql.NullString
		mobileCol sql.NullString
		role      string
		createdBy uuid.NullUUID
	)
	err := row.Scan(&rawID, &u.Name, &emailCol, &mobileCol, &role, &u.AssignedArea, &u.Designation,
		&u.Qualification, &u.PasswordHash, &u.IsActive, &u.IsBlocked, &createdBy, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.ID = id.UserID(rawID)
	u.Email = emailCol.String
	u.Mobile = mobileCol.String
	u.Role = id.Role(role)
	u.CreatedBy = id.UserID(createdBy.UUID)
	return &u, nil
}

func expectOne(res sql.Result, userID id.UserID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", userID, sentinel.ErrNotFound)
	}
	return nil
}
