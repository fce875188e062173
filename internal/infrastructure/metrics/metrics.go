package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/corebank/ledger/internal/domain"
)

// Metrics holds the bank-domain Prometheus metrics. HTTP-level metrics live
// in the middleware package.
type Metrics struct {
	AccountsOpened prometheus.Counter
	AccountsClosed prometheus.Counter

	OperationsTotal   *prometheus.CounterVec
	OperationErrors   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	OperationAmount   *prometheus.HistogramVec
}

// New creates and registers the bank metrics.
func New() *Metrics {
	return &Metrics{
		AccountsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bank_accounts_opened_total",
			Help: "Total number of accounts opened",
		}),
		AccountsClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bank_accounts_closed_total",
			Help: "Total number of accounts closed",
		}),
		OperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bank_operations_total",
				Help: "Total number of completed ledger operations",
			},
			[]string{"operation"},
		),
		OperationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bank_operation_errors_total",
				Help: "Total number of failed ledger operations by reason",
			},
			[]string{"operation", "reason"},
		),
		OperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bank_operation_duration_seconds",
				Help:    "Duration of ledger operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		OperationAmount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bank_operation_amount",
				Help:    "Amounts moved by ledger operations",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"operation"},
		),
	}
}

// ErrorReason buckets a domain error into a low-cardinality metric label.
func ErrorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrAccountClosed):
		return "account_closed"
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrRecipientNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSelfTransfer):
		return "invalid"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return "storage"
	default:
		return "other"
	}
}
