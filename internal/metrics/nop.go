package metrics

// NopMetrics discards every metric.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements Collector.
var _ Collector = (*NopMetrics)(nil)

// NewNop creates a collector that records nothing.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// ObserveMove discards the move.
func (n *NopMetrics) ObserveMove(_ /* mode */, _ /* tier */ string) {}

// ObservePhase discards the phase.
func (n *NopMetrics) ObservePhase(_ /* mode */ string, _ /* seconds */ float64, _ /* optimum */ bool) {}

// SetMaxCoLocation discards the value.
func (n *NopMetrics) SetMaxCoLocation(_ /* mode */ string, _ /* value */ int) {}

// SetOptimalBound discards the value.
func (n *NopMetrics) SetOptimalBound(_ /* value */ int) {}
