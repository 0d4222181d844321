package assign

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the prometheus metrics for assignment runs
type Metrics struct {
	Runs           prometheus.Counter
	Students       *prometheus.CounterVec
	PrimaryRank    *prometheus.CounterVec
	ProjectFill    *prometheus.GaugeVec
	RunDuration    prometheus.Histogram
	ReloadFailures prometheus.Counter
}

// NewMetrics creates and registers the assignment metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assign_runs_total",
			Help: "Total number of assignment runs",
		}),

		Students: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assign_students_total",
				Help: "Students processed by outcome",
			},
			[]string{"outcome"},
		),

		PrimaryRank: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assign_primary_rank_total",
				Help: "Students placed in a ranked choice, by rank",
			},
			[]string{"rank"},
		),

		ProjectFill: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "assign_project_fill_ratio",
				Help: "Assigned students divided by capacity for the latest run",
			},
			[]string{"project"},
		),

		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "assign_run_duration_seconds",
			Help:    "Time spent assigning students in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		ReloadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assign_reload_failures_total",
			Help: "Input reloads that failed after retrying",
		}),
	}

	reg.MustRegister(
		m.Runs,
		m.Students,
		m.PrimaryRank,
		m.ProjectFill,
		m.RunDuration,
		m.ReloadFailures,
	)

	return m
}

// TrackRun records the counts of a finished run.
func (m *Metrics) TrackRun(res *Result, duration time.Duration) {
	st := res.Stats()

	m.Runs.Inc()
	m.RunDuration.Observe(duration.Seconds())

	m.Students.WithLabelValues(AssignedPrimary.String()).Add(float64(st.Primary))
	m.Students.WithLabelValues(AssignedBackup.String()).Add(float64(st.Backup))
	m.Students.WithLabelValues(Eliminated.String()).Add(float64(st.Eliminated))

	for i, n := range st.ByRank {
		m.PrimaryRank.WithLabelValues(strconv.Itoa(i + 1)).Add(float64(n))
	}

	// Fill ratios describe only the latest run
	m.ProjectFill.Reset()
	for _, p := range res.caps.Projects() {
		limit := res.Capacity(p)
		if limit == 0 {
			continue
		}
		m.ProjectFill.WithLabelValues(p).Set(float64(len(res.assignments[p])) / float64(limit))
	}
}

// TrackReloadFailure counts an input reload that gave up.
func (m *Metrics) TrackReloadFailure() {
	m.ReloadFailures.Inc()
}
