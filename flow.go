package netsim

//
// Flow: the intent to move data_bits bits from a source Host to a
// destination Host. Per spec.md §9's "Flow ownership" design note, the
// static description (this file) is separated from the congestion-control
// runtime state (controller.go), which lives in the source Host's
// ActiveFlow, not duplicated on the Flow itself.
//

import (
	"math"
	"strconv"

	"github.com/nirkhe/networksimulation/analytics"
)

// Protocol selects which congestion-control behavior a Flow's packets are
// driven by.
type Protocol int

const (
	// ProtocolReno is classic TCP Reno: slow start, congestion avoidance,
	// fast retransmit / fast recovery on triple-duplicate ACK.
	ProtocolReno Protocol = iota

	// ProtocolFast is FAST-style: new-ACK window growth follows the FAST
	// equilibrium rule instead of Reno's +1 / +1/cwnd (spec.md §4.3, §9
	// open question 4 — this implementation computes the FAST window
	// directly on the RTT-sample path, see controller.go).
	ProtocolFast
)

// Flow describes the intent to transfer DataBits bits from Src to Dst
// starting at StartTimeMS. It is pure data: src, dst, size, start time,
// protocol, id, and an optional analytics handle. The zero value is
// invalid; use [NewFlow].
type Flow struct {
	ID          int64
	Src         *Host
	Dst         *Host
	DataBits    int64
	StartTimeMS int64
	Protocol    Protocol
	Sink        analytics.FlowSink
}

// NewFlow creates a [Flow]. It returns a [*ConfigError] if src or dst is
// nil or if src == dst, or if dataBits is non-positive (spec.md §7: "a
// Flow whose src or dst is not a Host" fails topology build).
func NewFlow(src, dst *Host, dataBits, startTimeMS int64, protocol Protocol, sink analytics.FlowSink) (*Flow, error) {
	id := newFlowID()
	entity := flowEntityName(id)
	if src == nil || dst == nil {
		return nil, newConfigError(entity, "src and dst must both be Hosts")
	}
	if src == dst {
		return nil, newConfigError(entity, "src and dst must differ")
	}
	if dataBits <= 0 {
		return nil, newConfigError(entity, "data_bits must be positive")
	}
	return &Flow{
		ID:          id,
		Src:         src,
		Dst:         dst,
		DataBits:    dataBits,
		StartTimeMS: startTimeMS,
		Protocol:    protocol,
		Sink:        sink,
	}, nil
}

// packetCount returns the number of DATA packets this flow materializes
// into: ceil(data_bits / DATA_PACKET_SIZE_BITS).
func (f *Flow) packetCount() int {
	return int(math.Ceil(float64(f.DataBits) / float64(DataPacketSizeBits)))
}

func flowEntityName(id int64) string {
	return "flow:" + strconv.FormatInt(id, 10)
}
