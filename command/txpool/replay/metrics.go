package replay

import (
	"sort"
	"time"

	"github.com/armon/go-metrics"
)

// setupMetrics routes the global metrics into an in-memory sink
func setupMetrics() (*metrics.InmemSink, error) {
	inm := metrics.NewInmemSink(time.Hour, time.Hour)

	metricsConf := metrics.DefaultConfig("devpool")
	metricsConf.EnableHostname = false
	metricsConf.EnableRuntimeMetrics = false

	if _, err := metrics.NewGlobal(metricsConf, inm); err != nil {
		return nil, err
	}

	return inm, nil
}

// collectMetrics flattens the gauges and counters held by the sink,
// sorted by name. Counters report their sum over the interval.
func collectMetrics(inm *metrics.InmemSink) []MetricResult {
	values := make(map[string]float64)

	for _, interval := range inm.Data() {
		interval.RLock()

		for name, gauge := range interval.Gauges {
			values[name] = float64(gauge.Value)
		}

		for name, counter := range interval.Counters {
			values[name] += counter.Sum
		}

		interval.RUnlock()
	}

	result := make([]MetricResult, 0, len(values))
	for name, value := range values {
		result = append(result, MetricResult{Name: name, Value: value})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}
