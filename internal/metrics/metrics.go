// Package metrics provides Prometheus metrics for the thumbnail worker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "thumbnailer"
)

// Message metrics track the processing pipeline.
var (
	// MessagesTotal counts processed messages by outcome and the step that decided it.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Total number of queue messages processed",
		},
		[]string{"outcome", "reason"},
	)

	ProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "processing_duration_seconds",
			Help:      "Time to process a single message in seconds",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 20, 50},
		},
		[]string{"outcome"},
	)

	TransformDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transform_duration_seconds",
			Help:      "Time to decode, scale and encode one image in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	ThumbnailBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "thumbnail_bytes",
			Help:      "Size of written thumbnails in bytes",
			Buckets:   prometheus.ExponentialBuckets(1024, 2, 12),
		},
	)
)

// Queue metrics track polling and acknowledgment.
var (
	PollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Total number of queue polls",
		},
		[]string{"result"}, // result: ok, empty, error
	)

	AcksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "acks_total",
			Help:      "Total number of message deletions",
		},
		[]string{"result"},
	)

	PanicsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "panics_total",
			Help:      "Total number of recovered panics while processing a message",
		},
	)
)

// NotificationsTotal counts completion announcements by result.
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of completion notification attempts",
	},
	[]string{"result"},
)

// LedgerWritesTotal counts ledger upserts.
var LedgerWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_writes_total",
		Help:      "Total number of thumbnail ledger writes",
	},
	[]string{"result"},
)

const (
	ResultOK    = "ok"
	ResultError = "error"
	ResultEmpty = "empty"
)
