package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reconstructDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clausetree_reconstruct_duration_seconds",
			Help:    "Outline reconstruction duration distribution",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		},
	)

	jobsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clausetree_jobs_finished_total",
			Help: "Total number of ingestion jobs by final status",
		},
		[]string{"status"},
	)

	clausesReconstructed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clausetree_clauses_reconstructed_total",
			Help: "Total number of clause nodes produced by reconstruction",
		},
	)

	storeRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clausetree_store_retries_total",
			Help: "Total number of retried pathstore writes",
		},
	)

	queueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clausetree_queue_depth",
			Help: "Number of jobs waiting for a worker",
		},
	)
)
