package subscriber

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"zoopito/internal/outreach/models"
	"zoopito/internal/platform/postgres"
)

var constraints = postgres.Constraints{
	"subscribers_email_key": "email",
}

// PostgresStore persists newsletter subscribers.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, sub *models.Subscriber) error {
	_, err := postgres.Querier(ctx, s.db).ExecContext(ctx,
		`INSERT INTO subscribers (id, email, is_active, subscribed_at) VALUES ($1, $2, $3, $4)`,
		uuid.UUID(sub.ID),
		sub.Email,
		sub.IsActive,
		sub.SubscribedAt,
	)
	if err != nil {
		return fmt.Errorf("insert subscriber: %w", postgres.Translate(err, constraints))
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := postgres.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT count(*) FROM subscribers WHERE is_active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return n, nil
}
