package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "catmint"

// Transaction states recorded by IncrementProcessedTxsTotal.
const (
	StateSuccess  = "success"
	StateRejected = "rejected"
	StateError    = "error"
)

type Indicators interface {
	ObserveSignLatencyMs(latencyMs int64)
	ObserveBroadcastLatencyMs(latencyMs int64)
	ObserveConfirmationLatencyMs(latencyMs int64)
	ObserveGasWanted(gas uint64)
	IncrementProcessedTxsTotal(state string)
}

type PromIndicators struct {
	signLatencyMs         prometheus.Summary
	broadcastLatencyMs    prometheus.Summary
	confirmationLatencyMs prometheus.Summary
	gasWanted             prometheus.Histogram
	processedTxsTotal     *prometheus.CounterVec
}

var _ Indicators = (*PromIndicators)(nil)

func NewPromIndicators(reg prometheus.Registerer, subsystem string) *PromIndicators {
	objectives := map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001}
	return &PromIndicators{
		signLatencyMs: promauto.With(reg).NewSummary(
			prometheus.SummaryOpts{
				Namespace:  Namespace,
				Subsystem:  subsystem,
				Name:       "sign_latency_ms",
				Help:       "latency of building, simulating and signing a transaction in milliseconds",
				Objectives: objectives,
			},
		),
		broadcastLatencyMs: promauto.With(reg).NewSummary(
			prometheus.SummaryOpts{
				Namespace:  Namespace,
				Subsystem:  subsystem,
				Name:       "broadcast_latency_ms",
				Help:       "latency until the node acknowledged a broadcast in milliseconds",
				Objectives: objectives,
			},
		),
		confirmationLatencyMs: promauto.With(reg).NewSummary(
			prometheus.SummaryOpts{
				Namespace:  Namespace,
				Subsystem:  subsystem,
				Name:       "confirmation_latency_ms",
				Help:       "latency until a broadcast transaction was found in a block in milliseconds",
				Objectives: objectives,
			},
		),
		gasWanted: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: subsystem,
				Name:      "gas_wanted",
				Help:      "gas limit of each signed transaction",
				Buckets:   prometheus.ExponentialBuckets(50_000, 2, 8),
			},
		),
		processedTxsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: subsystem,
				Name:      "processed_txs_total",
				Help:      "number of transactions processed by state (success, rejected, error)",
			},
			[]string{"state"},
		),
	}
}

func (p *PromIndicators) ObserveSignLatencyMs(latencyMs int64) {
	p.signLatencyMs.Observe(float64(latencyMs))
}

func (p *PromIndicators) ObserveBroadcastLatencyMs(latencyMs int64) {
	p.broadcastLatencyMs.Observe(float64(latencyMs))
}

func (p *PromIndicators) ObserveConfirmationLatencyMs(latencyMs int64) {
	p.confirmationLatencyMs.Observe(float64(latencyMs))
}

func (p *PromIndicators) ObserveGasWanted(gas uint64) {
	p.gasWanted.Observe(float64(gas))
}

func (p *PromIndicators) IncrementProcessedTxsTotal(state string) {
	p.processedTxsTotal.WithLabelValues(state).Inc()
}

type NoopIndicators struct{}

var _ Indicators = NoopIndicators{}

func (NoopIndicators) ObserveSignLatencyMs(int64)         {}
func (NoopIndicators) ObserveBroadcastLatencyMs(int64)    {}
func (NoopIndicators) ObserveConfirmationLatencyMs(int64) {}
func (NoopIndicators) ObserveGasWanted(uint64)            {}
func (NoopIndicators) IncrementProcessedTxsTotal(string)  {}
