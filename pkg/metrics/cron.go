package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CronJobMetrics records metadata for scheduled jobs such as the nightly
// Nova Poshta warehouse sync.
type CronJobMetrics struct {
	duration   *prometheus.HistogramVec
	success    *prometheus.CounterVec
	failure    *prometheus.CounterVec
	rowsSynced *prometheus.GaugeVec
}

// NewCronJobMetrics registers the cron job metrics on the provided registerer.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sushka",
		Name:      "job_duration_seconds",
		Help:      "Duration of cron jobs in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sushka",
		Name:      "job_success",
		Help:      "Successful cron job executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sushka",
		Name:      "job_failure",
		Help:      "Failed cron job executions.",
	}, []string{"job"})
	rowsSynced := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sushka",
		Name:      "job_rows_synced",
		Help:      "Rows written by the most recent run of a sync job.",
	}, []string{"job"})
	reg.MustRegister(duration, success, failure, rowsSynced)
	return &CronJobMetrics{
		duration:   duration,
		success:    success,
		failure:    failure,
		rowsSynced: rowsSynced,
	}
}

// ObserveDuration records the duration for the named job.
func (c *CronJobMetrics) ObserveDuration(job string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (c *CronJobMetrics) IncSuccess(job string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncFailure increments the failure counter for the named job.
func (c *CronJobMetrics) IncFailure(job string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

// SetRowsSynced records how many rows the named job wrote on its last run.
func (c *CronJobMetrics) SetRowsSynced(job string, rows int) {
	if c == nil || c.rowsSynced == nil {
		return
	}
	c.rowsSynced.WithLabelValues(normalizeLabel(job)).Set(float64(rows))
}

func normalizeLabel(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
