package analytics

// NullFlowSink is a [FlowSink] that discards every observation. It is the
// zero-dependency default for flows that are not being observed.
type NullFlowSink struct{}

var _ FlowSink = &NullFlowSink{}

// WindowSize implements FlowSink.
func (*NullFlowSink) WindowSize(nowMS int64, packets int) {}

// FlowRateMbps implements FlowSink.
func (*NullFlowSink) FlowRateMbps(nowMS int64, mbps float64) {}

// NullLinkSink is a [LinkSink] that discards every observation.
type NullLinkSink struct{}

var _ LinkSink = &NullLinkSink{}

// BufferOccupancyBits implements LinkSink.
func (*NullLinkSink) BufferOccupancyBits(nowMS int64, direction string, bits int64) {}

// ThroughputMbps implements LinkSink.
func (*NullLinkSink) ThroughputMbps(nowMS int64, direction string, mbps float64) {}

// PacketDrops implements LinkSink.
func (*NullLinkSink) PacketDrops(nowMS int64, cumulative int64) {}
