package scheduler

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	pendingSetSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wallet_submission_pending_size",
			Help: "Number of transactions currently in the pending set.",
		},
		[]string{"scheduler"},
	)
	nurserySize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wallet_submission_nursery_size",
			Help: "Number of send events currently deferred in the nursery.",
		},
		[]string{"scheduler"},
	)
	evictedTransactions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_submission_evicted_total",
			Help: "Number of transactions evicted for exceeding their retry budget.",
		},
		[]string{"scheduler"},
	)
	retransmittedTransactions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_submission_retransmitted_total",
			Help: "Number of transaction (re)transmissions delegated to the resubmission function.",
		},
		[]string{"scheduler"},
	)
	loopsDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_submission_loops_detected_total",
			Help: "Number of ticks aborted due to a dependency cycle among candidates.",
		},
		[]string{"scheduler"},
	)

	schedulerCollectors = []prometheus.Collector{
		pendingSetSize,
		nurserySize,
		evictedTransactions,
		retransmittedTransactions,
		loopsDetected,
	}

	metricsOnce sync.Once
)

func initMetrics() {
	metricsOnce.Do(func() {
		prometheus.MustRegister(schedulerCollectors...)
	})
}

func (s *Scheduler) metricLabels() prometheus.Labels {
	return prometheus.Labels{"scheduler": s.metricsLabel}
}
