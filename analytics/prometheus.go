package analytics

//
// PromFlowSink/PromLinkSink: a concrete FlowSink/LinkSink pair that exposes the same
// observations as Prometheus metrics, grounded on the
// github.com/prometheus/client_golang usage found throughout the
// retrieval pack (m-lab-etl, runZeroInc-sockstats). The core package only
// depends on the FlowSink/LinkSink interfaces above; wiring a PromSink in
// is the caller's choice, exactly as choosing apex/log vs. some other
// netsim.Logger implementation is the caller's choice.
//

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/xid"
)

// PromFlowSink implements [FlowSink] by publishing Prometheus gauges
// labeled with a short correlation id unique to the flow it was built for.
type PromFlowSink struct {
	id        string
	windowGa  prometheus.Gauge
	rateGa    prometheus.Gauge
}

var _ FlowSink = &PromFlowSink{}

// NewPromFlowSink registers (via registerer) and returns a [PromFlowSink]
// for one flow. flowLabel is typically the flow's human-readable id.
func NewPromFlowSink(registerer prometheus.Registerer, flowLabel string) *PromFlowSink {
	id := xid.New().String()
	windowGa := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "netsim",
		Subsystem:   "flow",
		Name:        "congestion_window_packets",
		Help:        "Current congestion window size, in packets.",
		ConstLabels: prometheus.Labels{"flow": flowLabel, "sink": id},
	})
	rateGa := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "netsim",
		Subsystem:   "flow",
		Name:        "rate_mbps",
		Help:        "Flow throughput averaged over the last tick, in Mbps.",
		ConstLabels: prometheus.Labels{"flow": flowLabel, "sink": id},
	})
	registerer.MustRegister(windowGa, rateGa)
	return &PromFlowSink{id: id, windowGa: windowGa, rateGa: rateGa}
}

// WindowSize implements FlowSink.
func (s *PromFlowSink) WindowSize(nowMS int64, packets int) {
	s.windowGa.Set(float64(packets))
}

// FlowRateMbps implements FlowSink.
func (s *PromFlowSink) FlowRateMbps(nowMS int64, mbps float64) {
	s.rateGa.Set(mbps)
}

// PromLinkSink implements [LinkSink] by publishing Prometheus gauges:
// occupancy and throughput labeled by direction, plus one cumulative drop
// count for the whole link.
type PromLinkSink struct {
	id         string
	occupancy  *prometheus.GaugeVec
	throughput *prometheus.GaugeVec
	drops      prometheus.Gauge
}

var _ LinkSink = &PromLinkSink{}

// NewPromLinkSink registers and returns a [PromLinkSink] for one link.
func NewPromLinkSink(registerer prometheus.Registerer, linkLabel string) *PromLinkSink {
	id := xid.New().String()
	occupancy := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   "netsim",
		Subsystem:   "link",
		Name:        "buffer_occupancy_bits",
		Help:        "Link buffer occupancy, in bits, per direction.",
		ConstLabels: prometheus.Labels{"link": linkLabel, "sink": id},
	}, []string{"direction"})
	throughput := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   "netsim",
		Subsystem:   "link",
		Name:        "throughput_mbps",
		Help:        "Link throughput, in Mbps, per direction.",
		ConstLabels: prometheus.Labels{"link": linkLabel, "sink": id},
	}, []string{"direction"})
	drops := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "netsim",
		Subsystem:   "link",
		Name:        "packet_drops_total",
		Help:        "Cumulative packets dropped for lack of buffer space.",
		ConstLabels: prometheus.Labels{"link": linkLabel, "sink": id},
	})
	registerer.MustRegister(occupancy, throughput, drops)
	return &PromLinkSink{id: id, occupancy: occupancy, throughput: throughput, drops: drops}
}

// BufferOccupancyBits implements LinkSink.
func (s *PromLinkSink) BufferOccupancyBits(nowMS int64, direction string, bits int64) {
	s.occupancy.WithLabelValues(direction).Set(float64(bits))
}

// ThroughputMbps implements LinkSink.
func (s *PromLinkSink) ThroughputMbps(nowMS int64, direction string, mbps float64) {
	s.throughput.WithLabelValues(direction).Set(mbps)
}

// PacketDrops implements LinkSink.
func (s *PromLinkSink) PacketDrops(nowMS int64, cumulative int64) {
	s.drops.Set(float64(cumulative))
}
