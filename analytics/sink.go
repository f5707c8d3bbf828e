// Package analytics defines the write-only observer interfaces the core
// simulator reports to (spec.md §2, §6: "Analytics sinks ... external
// collaborator"). The core never reads these back and never blocks on
// them; a sink that would block should buffer internally. This package
// also ships two ready-to-use implementations of each interface —
// [NullFlowSink]/[NullLinkSink] and [PromFlowSink]/[PromLinkSink] — the way the teacher ships both a no-op and a real
// implementation of the same external-facing interface (its
// internal.NullLogger next to apex/log-backed loggers, or its
// Stdlib/UNetStack pair implementing UnderlyingNetwork).
package analytics

// FlowSink receives per-flow observations keyed by simulated time.
type FlowSink interface {
	// WindowSize reports the current congestion window, in packets, at
	// simulated time nowMS.
	WindowSize(nowMS int64, packets int)

	// FlowRateMbps reports the flow's throughput, in Mbps, averaged over
	// the interval ending at nowMS.
	FlowRateMbps(nowMS int64, mbps float64)
}

// LinkSink receives per-link, per-direction observations keyed by
// simulated time.
type LinkSink interface {
	// BufferOccupancyBits reports the buffer occupancy of the named
	// direction, in bits, at nowMS. The core Link reports the instantaneous
	// occupancy once per tick; it does not average it over a second.
	BufferOccupancyBits(nowMS int64, direction string, bits int64)

	// ThroughputMbps reports the link's throughput, in Mbps, for the
	// named direction.
	ThroughputMbps(nowMS int64, direction string, mbps float64)

	// PacketDrops reports the cumulative packet-drop count.
	PacketDrops(nowMS int64, cumulative int64)
}
