package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts transfer submissions by network and final state
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_submissions_total",
			Help: "Total number of transfer submissions",
		},
		[]string{"network", "state"},
	)

	// DispatchDuration tracks how long chain dispatch takes
	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wallet_dispatch_duration_seconds",
			Help:    "Transfer dispatch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"network"},
	)

	// SimulationsTotal counts simulations by network and execution status
	SimulationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_simulations_total",
			Help: "Total number of transfer simulations",
		},
		[]string{"network", "status"},
	)

	// AuthorizationsTotal counts PIN authorizations by result
	AuthorizationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_authorizations_total",
			Help: "Total number of PIN authorizations",
		},
		[]string{"result"},
	)

	// ConfirmationsTotal counts confirmation status changes applied to records
	ConfirmationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_confirmations_total",
			Help: "Total number of transaction status updates from chain confirmations",
		},
		[]string{"network", "status"},
	)

	// PendingTransactions tracks pending records seen by the last confirmation run
	PendingTransactions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wallet_pending_transactions",
			Help: "Number of pending transactions in the last confirmation run",
		},
	)

	// SnapshotsTotal counts portfolio snapshot captures by network and result
	SnapshotsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_portfolio_snapshots_total",
			Help: "Total number of portfolio snapshot captures",
		},
		[]string{"network", "result"},
	)

	// ErrorsTotal counts errors by type
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)
