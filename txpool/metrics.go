package txpool

import (
	"github.com/armon/go-metrics"
)

const (
	// txPoolMetrics is a prefix used for txpool-related metrics
	txPoolMetrics = "txpool"
)

var evictionCounters = map[TxStatus]string{
	TxEvictedGasLimit:          "evicted_gas_limit_tx",
	TxEvictedInsufficientFunds: "evicted_insufficient_funds_tx",
	TxEvictedStaleNonce:        "evicted_stale_nonce_tx",
}

func incrCounter(name string, val int) {
	if val == 0 {
		return
	}

	metrics.IncrCounter([]string{txPoolMetrics, name}, float32(val))
}

// updateGauges publishes the classification counters of s
func updateGauges(s *poolState) {
	metrics.SetGauge([]string{txPoolMetrics, "pending_transactions"}, float32(s.pending))
	metrics.SetGauge([]string{txPoolMetrics, "queued_transactions"}, float32(s.queued))
}
