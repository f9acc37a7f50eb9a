package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds the transfer-coordinator metrics
type BusinessMetrics struct {
	ConnectsTotal          prometheus.Counter
	SubmissionsTotal       *prometheus.CounterVec // result: confirmed, partial, failed
	HistoryRefreshDuration prometheus.Histogram
	LedgerRecordCount      prometheus.Gauge
}

// Global Metrics Instance
var Business *BusinessMetrics

// InitBusinessMetrics registers the business metrics
func InitBusinessMetrics() {
	Business = &BusinessMetrics{
		ConnectsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "metasecure_wallet_connects_total",
			Help: "The total number of successful wallet connects",
		}),
		SubmissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "metasecure_submissions_total",
			Help: "The total number of transfer submissions by result",
		}, []string{"result"}),
		HistoryRefreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "metasecure_history_refresh_duration_seconds",
			Help:    "Duration of ledger history reconciliations",
			Buckets: prometheus.DefBuckets,
		}),
		LedgerRecordCount: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "metasecure_ledger_record_count",
			Help: "Last authoritative transaction count read from the ledger",
		}),
	}
}
