package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	id "zoopito/pkg/domain"
	audit "zoopito/pkg/platform/audit"
	txcontext "zoopito/pkg/platform/tx"
)

// Store appends audit events to the audit_events table. Inside a transaction
// the event commits or rolls back with the mutation it describes.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Append inserts one audit event.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (
			category, occurred_at, actor_id, actor_role, action, subject,
			subject_id, request_id, client_ip, device, detail
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	var actorID *uuid.UUID
	if !event.ActorID.IsNil() {
		aid := uuid.UUID(event.ActorID)
		actorID = &aid
	}

	_, err := s.execer(ctx).ExecContext(ctx, query,
		string(event.Category),
		event.Timestamp,
		actorID,
		string(event.ActorRole),
		event.Action,
		event.Subject,
		event.SubjectID,
		event.RequestID,
		event.ClientIP,
		event.Device,
		event.Detail,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// List returns matching events, most recent first.
func (s *Store) List(ctx context.Context, filter audit.Filter, offset, limit int) ([]audit.Event, int, error) {
	var (
		conds []string
		args  []any
	)
	if !filter.ActorID.IsNil() {
		args = append(args, uuid.UUID(filter.ActorID))
		conds = append(conds, fmt.Sprintf("actor_id = $%d", len(args)))
	}
	if filter.Action != "" {
		args = append(args, filter.Action)
		conds = append(conds, fmt.Sprintf("action = $%d", len(args)))
	}
	if filter.Subject != "" {
		args = append(args, filter.Subject)
		conds = append(conds, fmt.Sprintf("subject = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.execer(ctx).QueryRowContext(ctx, `SELECT count(*) FROM audit_events`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit events: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT id, category, occurred_at, actor_id, actor_role, action, subject,
			   subject_id, request_id, client_ip, device, detail
		FROM audit_events%s
		ORDER BY occurred_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event
	for rows.Next() {
		var (
			e        audit.Event
			category string
			role     string
			actorID  uuid.NullUUID
		)
		if err := rows.Scan(&e.ID, &category, &e.Timestamp, &actorID, &role, &e.Action, &e.Subject,
			&e.SubjectID, &e.RequestID, &e.ClientIP, &e.Device, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.EventCategory(category)
		e.ActorRole = id.Role(role)
		if actorID.Valid {
			e.ActorID = id.UserID(actorID.UUID)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
