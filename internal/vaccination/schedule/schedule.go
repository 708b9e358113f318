// Package schedule computes vaccination due dates and due status. It holds no
// state and performs no I/O.
package schedule

import (
	"math"
	"time"

	vaccinemodels "zoopito/internal/vaccine/models"
)

// DefaultIntervalDays applies when a vaccine carries no interval or cannot be loaded.
const DefaultIntervalDays = 365

// DueSoonWindow is how far ahead a due date counts as due soon.
const DueSoonWindow = 30 * 24 * time.Hour

// NextDueDate returns the next due date for a dose given on administered.
// Months take precedence over weeks; with neither, DefaultIntervalDays applies.
// Month overflow normalises like calendar addition: Jan 31 + 1 month is Mar 3 in a non-leap year.
func NextDueDate(administered time.Time, interval vaccinemodels.Interval) time.Time {
	switch {
	case interval.Months > 0:
		return administered.AddDate(0, interval.Months, 0)
	case interval.Weeks > 0:
		return administered.AddDate(0, 0, 7*interval.Weeks)
	default:
		return administered.AddDate(0, 0, DefaultIntervalDays)
	}
}

// Resolve returns explicit when set, and the estimated next due date otherwise.
func Resolve(administered time.Time, explicit *time.Time, interval vaccinemodels.Interval) time.Time {
	if explicit != nil && !explicit.IsZero() {
		return *explicit
	}
	return NextDueDate(administered, interval)
}

// DaysUntil returns the whole days from now until due, rounded up. Past dates are negative.
func DaysUntil(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

// SeriesComplete reports whether doseNumber closes a series of totalDoses.
func SeriesComplete(doseNumber, totalDoses int) bool {
	return doseNumber > 0 && doseNumber == totalDoses
}

type DueStatus string

const (
	StatusUpToDate      DueStatus = "up_to_date"
	StatusDueSoon       DueStatus = "due_soon"
	StatusOverdue       DueStatus = "overdue"
	StatusNotVaccinated DueStatus = "not_vaccinated"
)

// Status classifies a due date relative to now.
func Status(due *time.Time, now time.Time) DueStatus {
	switch {
	case due == nil || due.IsZero():
		return StatusNotVaccinated
	case due.Before(now):
		return StatusOverdue
	case !due.After(now.Add(DueSoonWindow)):
		return StatusDueSoon
	default:
		return StatusUpToDate
	}
}
