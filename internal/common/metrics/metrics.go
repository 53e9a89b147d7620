package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	ROIEstimates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roi_estimates_total",
			Help: "ROI estimates computed, by industry and cache outcome",
		},
		[]string{"industry", "cache"},
	)

	ROIMonthlyImpact = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roi_monthly_impact_dollars",
			Help:    "Estimated combined monthly impact",
			Buckets: prometheus.ExponentialBuckets(1000, 4, 8),
		},
		[]string{"industry"},
	)

	LeadSignals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_capture_signals_total",
			Help: "Completion signals received, by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	LeadStageTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_capture_transitions_total",
			Help: "Lead-capture stage transitions",
		},
		[]string{"from", "to"},
	)

	LeadSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lead_capture_sessions_active",
			Help: "Lead-capture sessions currently held in memory",
		},
	)

	SchedulerInitAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_init_attempts_total",
			Help: "Scheduling widget init loops, by outcome",
		},
		[]string{"outcome"},
	)

	LeadsRegistered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_registered_total",
			Help: "Leads registered, by source and result",
		},
		[]string{"source", "result"},
	)
)
