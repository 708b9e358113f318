package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schema string

// Tables lists every table in dependency order (children first), for truncation in tests.
var Tables = []string{
	"audit_events",
	"subscribers",
	"contact_messages",
	"vaccinations",
	"animals",
	"vaccines",
	"sales_members",
	"paravets",
	"farmers",
	"users",
}

// ApplySchema creates all tables and indexes if they do not exist.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
