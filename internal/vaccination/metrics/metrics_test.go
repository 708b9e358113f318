package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCount(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementRecorded("manual_entry")
	m.ObserveStatsCache(true)
	m.ObserveStatsCache(false)
	m.ObserveStatsCache(false)
	m.ObserveBulk(time.Now(), 3, 1)
	m.IncrementReminder("overdue")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.VaccinationsRecorded.WithLabelValues("manual_entry")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StatsCacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.BulkEntries.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BulkEntries.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemindersPublished.WithLabelValues("overdue")))
}
