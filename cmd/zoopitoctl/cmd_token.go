package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	jwttoken "zoopito/internal/jwt_token"
	id "zoopito/pkg/domain"
)

var (
	tokenUserID string
	tokenRole   string
	tokenTTL    time.Duration
)

// tokenCmd mints a bearer token signed with the configured key
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token for a user",
	Long: `Mint an HS256 access token carrying user_id and role.

The account must exist and be active for the server to accept the token.`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user-id", "", "account id (uuid)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(id.RoleAdmin), "ADMIN, SALES, PARAVET, FARMER or USER")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}

func runToken(cmd *cobra.Command, args []string) error {
	userID, err := id.ParseUserID(tokenUserID)
	if err != nil {
		return err
	}
	role, err := id.ParseRole(tokenRole)
	if err != nil {
		return err
	}
	svc := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer)
	token, err := svc.GenerateAccessToken(userID, role, tokenTTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
