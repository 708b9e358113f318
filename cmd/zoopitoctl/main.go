package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zoopito/internal/platform/config"
)

var (
	configPath string
	cfg        config.Config
)

// rootCmd is the operator entry point
var rootCmd = &cobra.Command{
	Use:   "zoopitoctl",
	Short: "Operator tooling for the Zoopito livestock service",
	Long: `zoopitoctl mints access tokens, bootstraps administrator accounts,
applies the Postgres schema and previews vaccination due dates.

Configuration follows the server: an optional YAML file (--config or
ZOOPITO_CONFIG) overridden by environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = os.Getenv("ZOOPITO_CONFIG")
		}
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.AddCommand(tokenCmd, nextDueCmd, schemaCmd, createAdminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
