package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"zoopito/internal/platform/postgres"
)

// schemaCmd groups database schema operations
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage the Postgres schema",
}

// schemaApplyCmd creates missing tables and indexes
var schemaApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Create all tables and indexes that do not exist yet",
	RunE:  runSchemaApply,
}

func init() {
	schemaCmd.AddCommand(schemaApplyCmd)
}

func runSchemaApply(cmd *cobra.Command, args []string) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	db, err := postgres.Open(cmd.Context(), cfg.Postgres)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.ApplySchema(cmd.Context(), db); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
	return nil
}
