package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"zoopito/internal/vaccination/schedule"
	vaccinemodels "zoopito/internal/vaccine/models"
)

var (
	nextDueAdministered string
	nextDueMonths       int
	nextDueWeeks        int
)

// nextDueCmd previews the due-date estimator without a running server
var nextDueCmd = &cobra.Command{
	Use:   "next-due",
	Short: "Compute the next due date for a dose",
	Long: `Compute the next due date of a vaccination.

Months take precedence over weeks; with neither set the default interval of
365 days applies.`,
	RunE: runNextDue,
}

func init() {
	nextDueCmd.Flags().StringVar(&nextDueAdministered, "administered", "", "administration date (YYYY-MM-DD), default today")
	nextDueCmd.Flags().IntVar(&nextDueMonths, "months", 0, "default next due months of the vaccine")
	nextDueCmd.Flags().IntVar(&nextDueWeeks, "weeks", 0, "booster interval weeks of the vaccine")
}

func runNextDue(cmd *cobra.Command, args []string) error {
	given := time.Now().UTC().Truncate(24 * time.Hour)
	if nextDueAdministered != "" {
		parsed, err := time.Parse(time.DateOnly, nextDueAdministered)
		if err != nil {
			return fmt.Errorf("invalid --administered date: %w", err)
		}
		given = parsed
	}
	if nextDueMonths < 0 || nextDueWeeks < 0 {
		return fmt.Errorf("intervals cannot be negative")
	}
	due := schedule.NextDueDate(given, vaccinemodels.Interval{Months: nextDueMonths, Weeks: nextDueWeeks})
	fmt.Fprintln(cmd.OutOrStdout(), due.Format(time.DateOnly))
	return nil
}
