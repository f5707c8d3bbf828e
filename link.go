package netsim

//
// Link: bidirectional, half-duplex, store-and-forward pipe between two
// Nodes. Grounded on the teacher's linkfwdfull.go buffering/pacing model,
// reworked from a goroutine+channel+time.Ticker driver into an explicit
// Update(intervalMS, nowMS) tick-driven one (spec.md §5: no background
// goroutines, no suspension points within a tick). Transmission is
// implemented in linktransmit.go and the queuing-delay estimator in
// linkdelay.go.
//

import (
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/nirkhe/networksimulation/analytics"
	"github.com/nirkhe/networksimulation/internal/assert"
)

// LinkDirection names which way an in-flight packet is travelling.
type LinkDirection int

const (
	// LinkDirectionLeftToRight is the left->right direction.
	LinkDirectionLeftToRight LinkDirection = iota

	// LinkDirectionRightToLeft is the right->left direction.
	LinkDirectionRightToLeft
)

// inFlightPacket pairs a Packet with its buffer metadata: which direction
// it is travelling and when it was enqueued.
type inFlightPacket struct {
	packet        *Packet
	direction     LinkDirection
	enqueueTimeMS int64
}

// LinkConfig carries the fixed characteristics of a [Link].
type LinkConfig struct {
	// RateBitsPerMS is the link's transmission rate, shared by both
	// directions (the transmission slot is half-duplex).
	RateBitsPerMS int64

	// PropagationDelayMS is the one-way propagation delay.
	PropagationDelayMS int64

	// BufferCapacityBits is the per-direction FIFO buffer capacity.
	BufferCapacityBits int64
}

// Link is a bidirectional store-and-forward pipe with per-direction FIFO
// buffers of fixed bit capacity. It owns a single shared transmission slot
// and computes per-direction queuing-delay estimates. The zero value is
// invalid; use [NewLink].
type Link struct {
	id     int64
	cfg    LinkConfig
	left   Node
	right  Node
	logger Logger
	sink   analytics.LinkSink

	leftBuf       []*inFlightPacket
	rightBuf      []*inFlightPacket
	leftFreeBits  int64
	rightFreeBits int64

	inTransit                *inFlightPacket
	transmissionStartMS      int64
	bitsTransmittedOnCurrent int64

	// queuing-delay accounting, reset every bufferDelayPeriodMS; index 0
	// is the left-side buffer, index 1 the right-side buffer. samplesMS
	// holds one (now - enqueue_time) observation per packet dequeued from
	// that side during the current period.
	samplesMS    [2][]int64
	lastPeriodMS int64
	estimateMS   [2]int64

	drops int64

	// warnLimiter throttles the "buffer full" warning log under sustained
	// overflow so a saturated link does not flood the log; the drop
	// counter above is exact and untouched by this.
	warnLimiter *rate.Limiter
}

// NewLink creates a [Link] between left and right with the given
// configuration. It returns a [*ConfigError] if rate, capacity, or
// propagation delay are invalid (spec.md §7). sink may be nil, in which
// case buffer-occupancy, throughput, and drop observations are discarded
// (spec.md §6: analytics sinks are an optional external collaborator).
func NewLink(left, right Node, cfg LinkConfig, logger Logger, sink analytics.LinkSink) (*Link, error) {
	id := newLinkID()
	entity := "link:" + strconv.FormatInt(id, 10)
	if cfg.RateBitsPerMS <= 0 {
		return nil, newConfigError(entity, "rate_bpms must be positive")
	}
	if cfg.BufferCapacityBits <= 0 {
		return nil, newConfigError(entity, "buffer_capacity_bits must be positive")
	}
	if cfg.PropagationDelayMS < 0 {
		return nil, newConfigError(entity, "propagation_delay_ms must not be negative")
	}
	if left == nil || right == nil {
		return nil, newConfigError(entity, "both endpoints must be non-nil")
	}
	lnk := &Link{
		id:            id,
		cfg:           cfg,
		left:          left,
		right:         right,
		logger:        orNullLogger(logger),
		sink:          orNullLinkSink(sink),
		leftFreeBits:  cfg.BufferCapacityBits,
		rightFreeBits: cfg.BufferCapacityBits,
		warnLimiter:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
	return lnk, nil
}

// orNullLinkSink returns sink unchanged unless it is nil, in which case it
// returns a [analytics.NullLinkSink], mirroring orNullLogger.
func orNullLinkSink(sink analytics.LinkSink) analytics.LinkSink {
	if sink == nil {
		return &analytics.NullLinkSink{}
	}
	return sink
}

// ID returns this link's stable arena id.
func (l *Link) ID() int64 { return l.id }

// Drops returns the cumulative number of packets this link has rejected
// for lack of buffer space.
func (l *Link) Drops() int64 { return l.drops }

// sideFor returns which side (0 = left, 1 = right) sendingNode is on, or
// -1 if sendingNode is neither endpoint — a caller bug, not a drop.
func (l *Link) sideFor(sendingNode Node) int {
	switch sendingNode {
	case l.left:
		return 0
	case l.right:
		return 1
	default:
		return -1
	}
}

// AddPacket enqueues packet into the buffer associated with sendingNode if
// it fits in the remaining free capacity of that buffer; otherwise it
// increments the drop counter and returns false. A sendingNode that is
// neither endpoint of this link is an invariant violation, not a drop
// (spec.md §7: "sentinel in add_packet from an unconnected node: treated
// as a bug"). nowMS stamps the enqueue time used by both the transmission
// selection rule (earliest enqueue time wins the shared slot) and the
// queuing-delay estimator; per spec.md §9 there is no global clock, so the
// caller (always a Host or Router inside the same tick) passes its own
// nowMS through explicitly.
func (l *Link) AddPacket(packet *Packet, sendingNode Node, nowMS int64) bool {
	side := l.sideFor(sendingNode)
	assert.Invariant(side != -1, "add_packet from node not attached to this link")

	free, buf, direction := &l.leftFreeBits, &l.leftBuf, LinkDirectionLeftToRight
	if side == 1 {
		free, buf, direction = &l.rightFreeBits, &l.rightBuf, LinkDirectionRightToLeft
	}

	if int64(packet.SizeBits) > *free {
		l.drops++
		if l.warnLimiter.Allow() {
			l.logger.Warnf("netsim: link %d: buffer full on %s side, dropping packet %d (drops=%d)",
				l.id, sideName(side), packet.ID, l.drops)
		}
		l.sink.PacketDrops(nowMS, l.drops)
		return false
	}

	*free -= int64(packet.SizeBits)
	*buf = append(*buf, &inFlightPacket{packet: packet, direction: direction, enqueueTimeMS: nowMS})
	return true
}

// ClearBuffer atomically empties the buffer on sendingNode's side and
// restores its free capacity to full. Used by a sender on retransmit to
// avoid shipping stale window contents (spec.md §4.3). Calling it twice in
// a row is idempotent: the second call finds an already-empty buffer.
func (l *Link) ClearBuffer(sendingNode Node) {
	side := l.sideFor(sendingNode)
	assert.Invariant(side != -1, "clear_buffer from node not attached to this link")
	if side == 0 {
		l.leftBuf = nil
		l.leftFreeBits = l.cfg.BufferCapacityBits
	} else {
		l.rightBuf = nil
		l.rightFreeBits = l.cfg.BufferCapacityBits
	}
}

// DelayFor returns propagation_delay_ms plus the queuing-delay estimate of
// the buffer on the OPPOSITE side of node. This mirrors the behavior
// flagged as ambiguous in spec.md §9 (open question 5): the estimator
// used is the one for the side whose drain determines how long this
// node's own packets wait once they cross the link, not the side this
// node enqueues into.
func (l *Link) DelayFor(node Node) int64 {
	side := l.sideFor(node)
	assert.Invariant(side != -1, "delay_for node not attached to this link")
	return l.cfg.PropagationDelayMS + l.estimateMS[1-side]
}

func sideName(side int) string {
	if side == 0 {
		return "left"
	}
	return "right"
}
