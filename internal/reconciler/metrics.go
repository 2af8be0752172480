package reconciler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"
)

const (
	cycleResultSuccess           = "success"
	cycleResultSourceUnavailable = "source_unavailable"

	deliveryResultDelivered      = "delivered"
	deliveryResultAlreadyPresent = "already_present"
	deliveryResultFailed         = "failed"
	deliveryResultRejected       = "rejected"

	skipReasonNotReady     = "not_ready"
	skipReasonNotGenerated = "not_generated"
	skipReasonNoGenerator  = "no_generator"
	skipReasonPanic        = "panic"
)

var (
	cyclesTotal = promauto.With(ctrlmetrics.Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pull_request_bot_cycles_total",
			Help: "Total reconciliation cycles by result.",
		},
		[]string{"result"},
	)
	deliveriesTotal = promauto.With(ctrlmetrics.Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pull_request_bot_deliveries_total",
			Help: "Total pull request comment delivery attempts by provider and result.",
		},
		[]string{"provider", "result"},
	)
	skippedTotal = promauto.With(ctrlmetrics.Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pull_request_bot_candidates_skipped_total",
			Help: "Total candidate Applications skipped by reason.",
		},
		[]string{"reason"},
	)
	deliveryDuration = promauto.With(ctrlmetrics.Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pull_request_bot_delivery_duration_seconds",
			Help:    "Duration of pull request comment deliveries.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)
	ledgerSize = promauto.With(ctrlmetrics.Registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "pull_request_bot_ledger_size",
			Help: "Number of commits whose comment has been delivered.",
		},
	)
)
