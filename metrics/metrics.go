package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ledger
	LedgerTxTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "labshare",
		Subsystem: "ledger",
		Name:      "tx_total",
		Help:      "Processed transactions by action and result",
	}, []string{"action", "result"})

	LedgerTxDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "labshare",
		Subsystem: "ledger",
		Name:      "tx_duration_seconds",
		Help:      "Transaction execution duration including lock wait and commit",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"action"})

	LedgerEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "labshare",
		Subsystem: "ledger",
		Name:      "events_total",
		Help:      "Committed contract events by type",
	}, []string{"type"})

	LedgerLockWait = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "labshare",
		Subsystem: "ledger",
		Name:      "lock_wait_seconds",
		Help:      "Time spent acquiring object locks",
		Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	})

	LedgerSubscribersDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "labshare",
		Subsystem: "ledger",
		Name:      "subscribers_dropped_total",
		Help:      "Event subscribers dropped for falling behind",
	})

	// Indexer
	IndexerEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "labshare",
		Subsystem: "indexer",
		Name:      "events_total",
		Help:      "Events applied to materialized views by type",
	}, []string{"type"})

	IndexerDuplicatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "labshare",
		Subsystem: "indexer",
		Name:      "duplicates_total",
		Help:      "Redelivered events skipped by dedup",
	})

	IndexerLastSeq = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "labshare",
		Subsystem: "indexer",
		Name:      "last_sequence",
		Help:      "Sequence of the last applied event",
	})

	// API
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "labshare",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status",
	}, []string{"route", "status"})

	APIRateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "labshare",
		Subsystem: "api",
		Name:      "rate_limited_total",
		Help:      "Transaction submissions rejected by the per-sender limiter",
	})
)
