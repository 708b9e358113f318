package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"zoopito/internal/outreach/models"
	"zoopito/internal/platform/postgres"
	id "zoopito/pkg/domain"
	"zoopito/pkg/platform/sentinel"
)

const contactColumns = `id, user_id, name, email, subject, message, latitude, longitude, is_seen, msg_date`

// PostgresStore persists contact messages.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, m *models.ContactMessage) error {
	var lat, lng sql.NullFloat64
	if m.GPS != nil {
		lat = sql.NullFloat64{Float64: m.GPS.Latitude, Valid: true}
		lng = sql.NullFloat64{Float64: m.GPS.Longitude, Valid: true}
	}
	_, err := postgres.Querier(ctx, s.db).ExecContext(ctx,
		`INSERT INTO contact_messages (`+contactColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(m.ID),
		postgres.NullUUID(uuid.UUID(m.UserID)),
		m.Name,
		m.Email,
		string(m.Subject),
		m.Message,
		lat,
		lng,
		m.IsSeen,
		m.MsgDate,
	)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", postgres.Translate(err, nil))
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, unseenOnly bool, offset, limit int) ([]*models.ContactMessage, int, error) {
	where := ""
	if unseenOnly {
		where = " WHERE NOT is_seen"
	}
	q := postgres.Querier(ctx, s.db)
	var total int
	if err := q.QueryRowContext(ctx, `SELECT count(*) FROM contact_messages`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contact messages: %w", err)
	}
	rows, err := q.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contact_messages`+where+` ORDER BY msg_date DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	out := make([]*models.ContactMessage, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan contact message: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate contact messages: %w", err)
	}
	return out, total, nil
}

func (s *PostgresStore) MarkSeen(ctx context.Context, contactID id.ContactID) (*models.ContactMessage, error) {
	row := postgres.Querier(ctx, s.db).QueryRowContext(ctx,
		`UPDATE contact_messages SET is_seen = TRUE WHERE id = $1 RETURNING `+contactColumns,
		uuid.UUID(contactID))
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("contact message %s: %w", contactID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("mark contact message seen: %w", err)
	}
	return m, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(row scanner) (*models.ContactMessage, error) {
	var (
		m         models.ContactMessage
		contactID uuid.UUID
		userID    uuid.NullUUID
		subject   string
		lat, lng  sql.NullFloat64
	)
	if err := row.Scan(&contactID, &userID, &m.Name, &m.Email, &subject, &m.Message, &lat, &lng, &m.IsSeen, &m.MsgDate); err != nil {
		return nil, err
	}
	m.ID = id.ContactID(contactID)
	if userID.Valid {
		m.UserID = id.UserID(userID.UUID)
	}
	m.Subject = models.Subject(subject)
	if lat.Valid && lng.Valid {
		m.GPS = &models.GPS{Latitude: lat.Float64, Longitude: lng.Float64}
	}
	return &m, nil
}
