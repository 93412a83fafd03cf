// Package metrics wires the engine's observable counters and gauges through
// prometheus/client_golang, the way Juneo-io-juneogo's network package
// registers its own metric set: one struct of collectors built once per
// registerer and handed out by reference.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collectors holds every prometheus collector the engine publishes.
// Namespaced under "fastlane" so a shared registry can host it alongside
// other subsystems without name collisions.
type Collectors struct {
	FastOrdersCreated  prometheus.Counter
	AuctionsStarted    prometheus.Counter
	AuctionsImproved   prometheus.Counter
	AuctionsExecuted   prometheus.Counter
	AuctionsSettled    prometheus.Counter
	ExecutionPenalties prometheus.Counter
	ActiveAuctions     prometheus.Gauge
	DigestFailures     prometheus.Counter
}

// New constructs and registers a Collectors set against registerer. Passing
// a fresh prometheus.NewRegistry() isolates metrics per-test; passing
// prometheus.DefaultRegisterer wires into the process-wide /metrics
// endpoint a gateway binary exposes.
func New(namespace string, registerer prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		FastOrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fast_orders_created_total",
			Help:      "Number of fast market order records initialized.",
		}),
		AuctionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auctions_started_total",
			Help:      "Number of auctions started by an initial offer.",
		}),
		AuctionsImproved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auctions_improved_total",
			Help:      "Number of accepted offer improvements.",
		}),
		AuctionsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auctions_executed_total",
			Help:      "Number of auctions that reached ExecuteOrder.",
		}),
		AuctionsSettled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auctions_settled_total",
			Help:      "Number of auctions settled via PrepareOrderResponse or a no-auction path.",
		}),
		ExecutionPenalties: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "execution_penalties_total",
			Help:      "Number of executions where a non-best executor incurred the late-execution penalty.",
		}),
		ActiveAuctions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_auctions",
			Help:      "Current number of auctions awaiting execution.",
		}),
		DigestFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "digest_failures_total",
			Help:      "Number of guardian digest verifications that failed.",
		}),
	}

	for _, coll := range []prometheus.Collector{
		c.FastOrdersCreated, c.AuctionsStarted, c.AuctionsImproved,
		c.AuctionsExecuted, c.AuctionsSettled, c.ExecutionPenalties,
		c.ActiveAuctions, c.DigestFailures,
	} {
		if err := registerer.Register(coll); err != nil {
			return nil, err
		}
	}
	return c, nil
}
