package netsim

//
// Congestion controller: per-flow Reno state machine plus a FAST-style
// window-update rule, consolidated onto the source Host's ActiveFlow per
// spec.md §9's "Flow ownership" design note (Flow itself carries no
// controller state). Grounded in shape on the teacher's connection-state
// bookkeeping in dissect.go/ca.go (before those were judged out of scope —
// see DESIGN.md) and on the state-machine table in spec.md §4.3.
//

import (
	"math"

	"github.com/nirkhe/networksimulation/internal/assert"
)

const (
	initCWnd        = 1
	initTimeoutMS   = 3000
	rttEWMAAlpha    = 0.1
	dupAckThreshold = 3

	// fastAlphaPackets and fastGamma parameterize the FAST window-update
	// rule applied on the new-ACK path for ProtocolFast flows (spec.md §9
	// open question 4: "a faithful implementation should either implement
	// FAST's equation on the RTT-sample path or explicitly treat protocol
	// as a no-op knob and document it" — this implementation takes the
	// former option). fastAlphaPackets is the classic FAST TCP additive
	// term, in packets; fastGamma paces how far each update moves toward
	// the new equilibrium target, avoiding single-tick oscillation.
	fastAlphaPackets = 1.0
	fastGamma        = 0.5
)

// initSSThresh represents the reference's ssthresh = +infinity initial
// value (spec.md §4.3, §6): a sentinel large enough that the first several
// slow-start doublings never cross it.
const initSSThresh = math.MaxInt32

// ControllerState is the mutable congestion-control state of one flow, per
// spec.md §3. Invariants: CWnd >= 1; SSThresh >= 2 once set; WindowOccupied
// <= CWnd; SendTimesMS keys are exactly the currently outstanding packet
// ids; MostRecentQueued >= MostRecentRetransmitted; in slow start CWnd <=
// SSThresh; in congestion avoidance 0 <= PartialCWnd < CWnd.
type ControllerState struct {
	CWnd                    int
	PartialCWnd             int
	SSThresh                int
	SlowStart               bool
	AwaitingRetransmit      bool
	LastAckID               int
	DupAckCount             int
	MostRecentRetransmitted int
	MostRecentQueued        int
	WindowOccupied          int
	SendTimesMS             map[int]int64
	RTTMinMS                int64
	RTTAvgMS                float64
	RTTStddevMS             float64
	TimeoutMS               int64

	// BitsAckedSinceReportBits accumulates the size of every packet newly
	// cumulative-acked since the last call to ActiveFlow.reportRate, which
	// resets it to 0. It backs FlowSink.FlowRateMbps (spec.md §6).
	BitsAckedSinceReportBits int64

	// rttSampled distinguishes "no RTT sample observed yet" from a
	// legitimate zero-ms sample; spec.md §4.3's data model does not name
	// this field because the reference's rtt_avg/rtt_stddev double as
	// their own "unset" sentinel (zero), which is ambiguous for a
	// same-tick ACK. This is implementation bookkeeping only.
	rttSampled bool
}

// newControllerState returns the initial ControllerState for a flow whose
// first DATA packet id is firstPacketID (spec.md §4.3: "Initial state:
// SlowStart, cwnd = 1, ssthresh = +infinity"). MostRecentQueued and
// MostRecentRetransmitted seed to firstPacketID-1 so the window-fill loop's
// first candidate is firstPacketID.
func newControllerState(firstPacketID int) *ControllerState {
	return &ControllerState{
		CWnd:                    initCWnd,
		SSThresh:                initSSThresh,
		SlowStart:               true,
		MostRecentRetransmitted: firstPacketID - 1,
		MostRecentQueued:        firstPacketID - 1,
		SendTimesMS:             make(map[int]int64),
		RTTMinMS:                math.MaxInt64,
		TimeoutMS:               initTimeoutMS,
	}
}

// sampleRTT folds one new RTT observation, in ms, into the EWMA statistics
// (spec.md §4.3: alpha = 0.1, first sample seeds both rtt_avg and
// rtt_stddev to the raw sample).
func (c *ControllerState) sampleRTT(rttMS int64) {
	if rttMS < 0 {
		rttMS = 0
	}
	if rttMS < c.RTTMinMS {
		c.RTTMinMS = rttMS
	}
	r := float64(rttMS)
	if !c.rttSampled {
		c.RTTAvgMS = r
		c.RTTStddevMS = r
		c.rttSampled = true
		return
	}
	c.RTTAvgMS = (1-rttEWMAAlpha)*c.RTTAvgMS + rttEWMAAlpha*r
	c.RTTStddevMS = (1-rttEWMAAlpha)*c.RTTStddevMS + rttEWMAAlpha*math.Abs(r-c.RTTAvgMS)
}

// ActiveFlow is a Flow that has been activated: the materialized DATA
// packet sequence plus the ControllerState driving it. Owned by the
// source Host (spec.md §9: consolidated here, not duplicated on Flow).
type ActiveFlow struct {
	Flow       *Flow
	Controller *ControllerState

	// Packets holds every DATA packet from the oldest outstanding-or-unsent
	// id through MaxID, in order; Packets[0].ID is Q, the flow's packet
	// queue front id used throughout spec.md §4.3's ACK-reception
	// algorithm. Packet ids are contiguous, so packetAt is an O(1) index.
	Packets []*Packet
	MaxID   int

	// Done is set once the cumulative ACK for MaxID+1 arrives.
	Done bool
}

// newActiveFlow materializes packets (already built by Host.AddFlow) into
// an ActiveFlow with a fresh ControllerState.
func newActiveFlow(flow *Flow, packets []*Packet) *ActiveFlow {
	assert.Invariant(len(packets) > 0, "activating a flow with zero packets")
	return &ActiveFlow{
		Flow:       flow,
		Controller: newControllerState(packets[0].ID),
		Packets:    packets,
		MaxID:      packets[len(packets)-1].ID,
	}
}

// packetAt returns the packet with the given id, or nil if id falls
// outside [Packets[0].ID, Packets[0].ID+len(Packets)).
func (af *ActiveFlow) packetAt(id int) *Packet {
	if len(af.Packets) == 0 {
		return nil
	}
	idx := id - af.Packets[0].ID
	if idx < 0 || idx >= len(af.Packets) {
		return nil
	}
	return af.Packets[idx]
}

// receiveAck dispatches an ACK packet to the new-cumulative-ACK or
// duplicate-ACK handler per spec.md §4.3. An ACK whose id is neither a new
// cumulative ACK nor a duplicate of the current front is stale (can arise
// from a retransmitted ACK racing a newer one) and is silently ignored, the
// same way out-of-window DATA is ignored in §4.2.
func (af *ActiveFlow) receiveAck(host *Host, ack *Packet, nowMS int64) {
	if af.Done || len(af.Packets) == 0 {
		return
	}
	q := af.Packets[0].ID
	switch {
	case ack.ID == q:
		af.onDuplicateAck(host, ack.ID, nowMS)
	case ack.ID > q && ack.ID-1 <= af.MaxID:
		af.onNewAck(host, ack.ID, nowMS)
	}
}

// onNewAck implements spec.md §4.3 case 1: a new cumulative ACK for id a.
func (af *ActiveFlow) onNewAck(host *Host, a int, nowMS int64) {
	c := af.Controller
	for len(af.Packets) > 0 && af.Packets[0].ID < a {
		pkt := af.Packets[0]
		if sendMS, ok := c.SendTimesMS[pkt.ID]; ok {
			c.sampleRTT(nowMS - sendMS)
			delete(c.SendTimesMS, pkt.ID)
		}
		c.BitsAckedSinceReportBits += int64(pkt.SizeBits)
		af.Packets = af.Packets[1:]
	}
	c.WindowOccupied--
	c.DupAckCount = 0
	c.LastAckID = a

	switch {
	case af.Flow.Protocol == ProtocolFast:
		af.applyFastWindowUpdate()
	case c.SlowStart:
		c.CWnd++
		if c.CWnd > c.SSThresh {
			c.SlowStart = false
		}
	default:
		c.PartialCWnd++
		if c.PartialCWnd >= c.CWnd {
			c.CWnd++
			c.PartialCWnd = 0
		}
	}

	if af.Flow.Sink != nil {
		af.Flow.Sink.WindowSize(nowMS, c.CWnd)
	}

	if a == af.MaxID+1 {
		af.Done = true
	}
}

// applyFastWindowUpdate computes the new cwnd for a ProtocolFast flow on
// the new-ACK path (spec.md §9 open question 4). It pulls cwnd toward
// (rtt_min/rtt_avg)*cwnd + alpha — the FAST equilibrium target — at a rate
// governed by fastGamma, clamped to never more than double in one step, the
// same ceiling slow start itself is bounded by.
func (af *ActiveFlow) applyFastWindowUpdate() {
	c := af.Controller
	if !c.rttSampled || c.RTTAvgMS <= 0 {
		c.CWnd++
		return
	}
	target := float64(c.RTTMinMS)/c.RTTAvgMS*float64(c.CWnd) + fastAlphaPackets
	next := (1-fastGamma)*float64(c.CWnd) + fastGamma*target
	if next > 2*float64(c.CWnd) {
		next = 2 * float64(c.CWnd)
	}
	newCWnd := int(math.Round(next))
	if newCWnd < 1 {
		newCWnd = 1
	}
	c.CWnd = newCWnd
}

// onDuplicateAck implements spec.md §4.3 case 2: a duplicate ACK for the
// current front id a.
func (af *ActiveFlow) onDuplicateAck(host *Host, a int, nowMS int64) {
	c := af.Controller
	c.DupAckCount++
	if c.DupAckCount < dupAckThreshold || c.MostRecentRetransmitted == a {
		return
	}

	c.MostRecentRetransmitted = a
	head := af.packetAt(a)
	assert.Invariant(head != nil, "duplicate ack references a packet outside the flow's outstanding range")

	c.SendTimesMS[head.ID] = nowMS
	host.link.ClearBuffer(host)
	host.link.AddPacket(head, host, nowMS)
	c.WindowOccupied = 1
	c.MostRecentQueued = head.ID

	if af.Flow.Protocol == ProtocolReno && !c.AwaitingRetransmit {
		c.SSThresh = maxInt(c.CWnd/2, 2)
		c.CWnd = c.SSThresh + c.DupAckCount
		c.SlowStart = false
		c.AwaitingRetransmit = true
	}
	c.DupAckCount = 0
}

// retransmitTimedOut implements spec.md §4.3's per-tick timer sweep: every
// outstanding packet whose send time plus TimeoutMS has elapsed is
// retransmitted. Iterating af.Packets (id order) rather than the
// SendTimesMS map keeps the sweep deterministic, per spec.md §5's ordering
// guarantee, since Go map iteration order is not.
func (af *ActiveFlow) retransmitTimedOut(host *Host, nowMS int64) {
	c := af.Controller
	for _, pkt := range af.Packets {
		sendMS, ok := c.SendTimesMS[pkt.ID]
		if !ok || sendMS+c.TimeoutMS >= nowMS {
			continue
		}
		c.SendTimesMS[pkt.ID] = nowMS
		host.link.ClearBuffer(host)
		host.link.AddPacket(pkt, host, nowMS)
		c.WindowOccupied = 1
		c.MostRecentQueued = pkt.ID
	}
}

// fillWindow implements spec.md §4.3's per-tick window fill: deflate cwnd
// on FR/FR exit, then send newly-queueable packets while window_occupied <
// cwnd.
func (af *ActiveFlow) fillWindow(host *Host, nowMS int64) {
	c := af.Controller
	if c.AwaitingRetransmit {
		c.CWnd = c.SSThresh
		c.AwaitingRetransmit = false
	}
	for c.WindowOccupied < c.CWnd {
		pkt := af.packetAt(c.MostRecentQueued + 1)
		if pkt == nil {
			break
		}
		c.WindowOccupied++
		host.link.AddPacket(pkt, host, nowMS)
		c.SendTimesMS[pkt.ID] = nowMS
		c.MostRecentQueued = pkt.ID
	}
}

// reportRate publishes this tick's throughput to the flow's analytics sink
// (spec.md §6) as bits acked since the last report, averaged over intervalMS,
// then resets the accumulator. Called once per tick from Host.Update so the
// rate reflects exactly one Δ of simulated time, independent of how many
// cumulative ACKs arrived within it.
func (af *ActiveFlow) reportRate(intervalMS, nowMS int64) {
	if af.Flow.Sink == nil || intervalMS <= 0 {
		return
	}
	mbps := float64(af.Controller.BitsAckedSinceReportBits) / (float64(intervalMS) * 1000.0)
	af.Flow.Sink.FlowRateMbps(nowMS, mbps)
	af.Controller.BitsAckedSinceReportBits = 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
