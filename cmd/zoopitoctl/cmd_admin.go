package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	accountmodels "zoopito/internal/account/models"
	"zoopito/internal/app"
	jwttoken "zoopito/internal/jwt_token"
	"zoopito/internal/platform/postgres"
	id "zoopito/pkg/domain"
)

var (
	adminName   string
	adminEmail  string
	adminMobile string
)

// createAdminCmd bootstraps an administrator account in Postgres
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an ADMIN account and print a token for it",
	Long: `Create (or promote) an ADMIN account in the configured database.

Prints the account id, the temporary password of a new account and an
access token valid for 24 hours.`,
	RunE: runCreateAdmin,
}

func init() {
	createAdminCmd.Flags().StringVar(&adminName, "name", "Administrator", "display name")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "login email")
	createAdminCmd.Flags().StringVar(&adminMobile, "mobile", "", "mobile number")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	db, err := postgres.Open(cmd.Context(), cfg.Postgres)
	if err != nil {
		return err
	}
	defer db.Close()

	services, err := app.NewServices(app.PostgresStores(db), app.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		return err
	}
	defer services.Close()

	user, created, err := services.Accounts.FindOrCreate(cmd.Context(), accountmodels.CreateUserRequest{
		Name:   adminName,
		Email:  adminEmail,
		Mobile: adminMobile,
		Role:   id.RoleAdmin,
	})
	if err != nil {
		return err
	}
	token, err := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer).
		GenerateAccessToken(user.ID, id.RoleAdmin, 24*time.Hour)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "user_id: %s\n", user.ID)
	if created {
		fmt.Fprintf(out, "temp_password: %s\n", user.TempPassword)
	}
	fmt.Fprintf(out, "token: %s\n", token)
	return nil
}
