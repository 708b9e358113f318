package models

import (
	"time"

	id "zoopito/pkg/domain"
)

// Window selects the dashboard task list.
type Window string

const (
	WindowToday    Window = "today"
	WindowWeek     Window = "week"
	WindowUpcoming Window = "upcoming"
	WindowOverdue  Window = "overdue"
)

func (w Window) Valid() bool {
	return w == WindowToday || w == WindowWeek || w == WindowUpcoming || w == WindowOverdue
}

// DashboardFilter is the dashboard listing as requested.
type DashboardFilter struct {
	Window    Window
	VaccineID id.VaccineID
	Search    string
}

// Query is a resolved vaccination filter. Zero fields match everything.
type Query struct {
	AdministeredFrom *time.Time
	AdministeredTo   *time.Time
	DueBefore        *time.Time
	ExcludeStatus    Status
	VaccineID        id.VaccineID
	Search           string
}

// StartOfDay returns midnight of now's day in now's location.
func StartOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// Resolve turns the window into date bounds relative to now. Today is [midnight, +1d),
// week is [midnight, +7d), upcoming is [+7d, +14d) and overdue is due before midnight
// and not completed.
func (f DashboardFilter) Resolve(now time.Time) Query {
	q := Query{VaccineID: f.VaccineID, Search: f.Search}
	today := StartOfDay(now)
	switch f.Window {
	case WindowToday:
		q = q.administered(today, today.AddDate(0, 0, 1))
	case WindowWeek:
		q = q.administered(today, today.AddDate(0, 0, 7))
	case WindowUpcoming:
		q = q.administered(today.AddDate(0, 0, 7), today.AddDate(0, 0, 14))
	case WindowOverdue:
		q.DueBefore = &today
		q.ExcludeStatus = StatusCompleted
	}
	return q
}

func (q Query) administered(from, to time.Time) Query {
	q.AdministeredFrom = &from
	q.AdministeredTo = &to
	return q
}

// TaskQuery counts open tasks administered in [from, to).
func TaskQuery(from, to time.Time) Query {
	return Query{ExcludeStatus: StatusCompleted}.administered(from, to)
}

// AnnualVaccinationsPerAnimal is the protocol figure shown on the dashboard.
const AnnualVaccinationsPerAnimal = 3

// Stats is the dashboard summary.
type Stats struct {
	TotalAnimals                int `json:"total_animals"`
	PregnantAnimals             int `json:"pregnant_animals"`
	TodayTasks                  int `json:"today_tasks"`
	WeekTasks                   int `json:"week_tasks"`
	UpcomingTasks               int `json:"upcoming_tasks"`
	Overdue                     int `json:"overdue"`
	AnnualVaccinationsPerAnimal int `json:"annual_vaccinations_per_animal"`
}

// FarmerStats summarises the vaccinations of one farmer.
type FarmerStats struct {
	TotalVaccinations int `json:"total_vaccinations"`
	UniqueAnimalCount int `json:"unique_animal_count"`
	OverdueCount      int `json:"overdue_count"`
	UpcomingCount     int `json:"upcoming_count"`
}

// UpcomingDefaultDays is the horizon of the upcoming-due query when none is given.
const UpcomingDefaultDays = 7
