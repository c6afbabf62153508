package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Expense metrics
	ExpensesRecorded *prometheus.CounterVec
	ExpensesDeleted  prometheus.Counter
	ExpenseAmount    prometheus.Histogram
	SplitsMarkedPaid prometheus.Counter
	ExpenseErrors    *prometheus.CounterVec

	// Balance metrics
	BalanceReports   prometheus.Counter
	BalanceCacheHits prometheus.Counter
	BalanceCacheMiss prometheus.Counter
	BalanceDuration  prometheus.Histogram
	TripOutstanding  *prometheus.GaugeVec

	// Settlement metrics
	SettlementsCreated   prometheus.Counter
	SettlementsCompleted prometheus.Counter
	SettlementsCancelled prometheus.Counter
	SettlementAmount     prometheus.Histogram

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Expense metrics
		ExpensesRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_expenses_recorded_total",
				Help: "Total number of expenses recorded by kind",
			},
			[]string{"kind"},
		),
		ExpensesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_expenses_deleted_total",
			Help: "Total number of expenses deleted",
		}),
		ExpenseAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripledger_expense_amount",
			Help:    "Recorded expense amounts",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 10000},
		}),
		SplitsMarkedPaid: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_splits_marked_paid_total",
			Help: "Total number of expense splits marked paid",
		}),
		ExpenseErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_expense_errors_total",
				Help: "Total number of expense errors by type",
			},
			[]string{"error_type"},
		),

		// Balance metrics
		BalanceReports: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_balance_reports_total",
			Help: "Total number of balance reports computed",
		}),
		BalanceCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_balance_cache_hits_total",
			Help: "Total number of balance reports served from cache",
		}),
		BalanceCacheMiss: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_balance_cache_misses_total",
			Help: "Total number of balance reports rebuilt on cache miss",
		}),
		BalanceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripledger_balance_duration_seconds",
			Help:    "Duration of balance report computation",
			Buckets: prometheus.DefBuckets,
		}),
		TripOutstanding: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tripledger_trip_outstanding",
				Help: "Outstanding total per trip",
			},
			[]string{"trip_id", "currency"},
		),

		// Settlement metrics
		SettlementsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_settlements_created_total",
			Help: "Total number of settlements created",
		}),
		SettlementsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_settlements_completed_total",
			Help: "Total number of settlements completed",
		}),
		SettlementsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_settlements_cancelled_total",
			Help: "Total number of settlements cancelled",
		}),
		SettlementAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripledger_settlement_amount",
			Help:    "Settlement amounts",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 10000},
		}),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tripledger_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tripledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),
	}
}
