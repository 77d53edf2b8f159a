// Package metrics holds the Prometheus counters for rolls, level transitions,
// resource spends, rests and migrations.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Roll Metrics
var (
	RollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRollsTotal,
			Help: HelpTextRollsTotal,
		},
		[]string{LabelKind},
	)

	CriticalRollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCriticalRollsTotal,
			Help: HelpTextCriticalRollsTotal,
		},
		[]string{LabelResult},
	)
)

// Character Metrics
var (
	LevelTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLevelTransitionsTotal,
			Help: HelpTextLevelTransitionsTotal,
		},
		[]string{LabelDirection, LabelOutcome},
	)

	ResourceSpendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameResourceSpendsTotal,
			Help: HelpTextResourceSpendsTotal,
		},
		[]string{LabelOutcome},
	)

	RestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRestsTotal,
			Help: HelpTextRestsTotal,
		},
		[]string{LabelRest},
	)
)

// Storage Metrics
var (
	MigrationsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMigrationsApplied,
			Help: HelpTextMigrationsApplied,
		},
		[]string{LabelVersion},
	)

	RecordsPatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRecordsPatched,
			Help: HelpTextRecordsPatched,
		},
	)
)

// Outcome maps an applied flag to its label value
func Outcome(applied bool) string {
	if applied {
		return OutcomeApplied
	}
	return OutcomeDeclined
}

// RecordMigration counts one applied migration step
func RecordMigration(version int) {
	MigrationsApplied.WithLabelValues(strconv.Itoa(version)).Inc()
}

// WriteTextfile dumps every registered metric to path in the text exposition format
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
