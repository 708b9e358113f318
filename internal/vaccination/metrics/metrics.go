package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// Metrics provides observability for vaccination records and bulk registration.
type Metrics struct {
	VaccinationsRecorded *prometheus.CounterVec
	StatsCacheLookups    *prometheus.CounterVec
	StatsDuration        prometheus.Histogram
	BulkEntries          *prometheus.CounterVec
	BulkDuration         prometheus.Histogram
	RemindersPublished   *prometheus.CounterVec
}

// New registers the vaccination metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		VaccinationsRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zoopito_vaccinations_recorded_total",
			Help: "Vaccinations recorded, by source",
		}, []string{"source"}),
		StatsCacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zoopito_vaccination_stats_cache_total",
			Help: "Dashboard stats cache lookups, by result",
		}, []string{"result"}),
		StatsDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "zoopito_vaccination_stats_duration_seconds",
			Help:    "Duration of dashboard stats computation on a cache miss",
			Buckets: durationBuckets,
		}),
		BulkEntries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zoopito_bulk_registration_entries_total",
			Help: "Bulk registration entries, by outcome",
		}, []string{"outcome"}),
		BulkDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "zoopito_bulk_registration_duration_seconds",
			Help:    "Duration of bulk registration requests",
			Buckets: durationBuckets,
		}),
		RemindersPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zoopito_vaccination_reminders_total",
			Help: "Vaccination reminders published, by kind",
		}, []string{"kind"}),
	}
}

func (m *Metrics) IncrementRecorded(source string) {
	m.VaccinationsRecorded.WithLabelValues(source).Inc()
}

// ObserveStatsCache records a stats cache hit or miss.
func (m *Metrics) ObserveStatsCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.StatsCacheLookups.WithLabelValues(result).Inc()
}

// ObserveStats records the duration of a stats computation.
// Call with time.Now() at the start of the computation.
func (m *Metrics) ObserveStats(start time.Time) {
	m.StatsDuration.Observe(time.Since(start).Seconds())
}

// ObserveBulk records a finished bulk registration.
func (m *Metrics) ObserveBulk(start time.Time, created, failed int) {
	m.BulkDuration.Observe(time.Since(start).Seconds())
	m.BulkEntries.WithLabelValues("created").Add(float64(created))
	m.BulkEntries.WithLabelValues("failed").Add(float64(failed))
}

func (m *Metrics) IncrementReminder(kind string) {
	m.RemindersPublished.WithLabelValues(kind).Inc()
}
