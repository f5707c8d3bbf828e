package netsim

//
// Host: originates Flows, sends packets under a sliding window, receives
// ACKs, runs the congestion controller (controller.go), and acknowledges
// received DATA. Grounded in shape on the teacher's RouterPort pattern for
// the immediate (priority) egress queue, reworked around the tick-driven
// Update(intervalMS, nowMS) contract (spec.md §4.2).
//

import (
	"strconv"

	"github.com/nirkhe/networksimulation/internal/assert"
)

// Download is the receiver-side record of one in-progress incoming flow,
// keyed by its source Host (spec.md §3). Invariant: NextExpectedID <=
// MaxID+1; once equal the download is complete and removed.
type Download struct {
	NextExpectedID int
	MaxID          int
}

// Host originates and terminates Flows across a single attached Link. The
// zero value is invalid; use [NewHost] then [Host.AttachLink].
type Host struct {
	id   int64
	addr string
	link *Link

	totalPacketsGenerated int
	immediateQueue        []*Packet

	pending         []*Flow
	activeFlowOrder []*ActiveFlow
	flowsByDst      map[*Host][]*ActiveFlow
	downloadsBySrc  map[*Host][]*Download

	logger Logger
}

var _ Node = &Host{}
var _ Updatable = &Host{}

// NewHost creates a [Host] with no Link attached. Call [Host.AttachLink]
// before the simulation starts; [Host.Validate] reports the missing-link
// configuration error described in spec.md §7.
func NewHost(address string, logger Logger) *Host {
	return &Host{
		id:             newNodeID(),
		addr:           address,
		flowsByDst:     make(map[*Host][]*ActiveFlow),
		downloadsBySrc: make(map[*Host][]*Download),
		logger:         orNullLogger(logger),
	}
}

// AttachLink wires this Host's single Link. A topology builder calls this
// once, symmetrically with how [NewLink] records the Host as one of the
// Link's two endpoint Nodes.
func (h *Host) AttachLink(lnk *Link) { h.link = lnk }

// Validate returns a [*ConfigError] if this Host has no Link attached, or
// if the attached Link does not have this Host as one of its endpoints
// (spec.md §7: "a Host with no Link" is a fatal, pre-run configuration
// error, not a runtime condition).
func (h *Host) Validate() error {
	if h.link == nil {
		return newConfigError(hostEntityName(h.id), "host has no link attached")
	}
	if h.link.sideFor(h) == -1 {
		return newConfigError(hostEntityName(h.id), "host is not an endpoint of its attached link")
	}
	return nil
}

// NodeID implements Node.
func (h *Host) NodeID() int64 { return h.id }

// Address implements Node.
func (h *Host) Address() string { return h.addr }

func hostEntityName(id int64) string {
	return "host:" + strconv.FormatInt(id, 10)
}

// AddFlow registers flow as a pending send originating from this Host. It
// is materialized (packet sequence generated, SETUP pushed) on the first
// Update at or after flow.StartTimeMS (spec.md §3's Flow.activated
// transition).
func (h *Host) AddFlow(flow *Flow) error {
	if flow.Src != h {
		return newConfigError(hostEntityName(h.id), "flow's src must be this host")
	}
	h.pending = append(h.pending, flow)
	return nil
}

// activatePending materializes every pending flow whose start time has
// arrived.
func (h *Host) activatePending(nowMS int64) {
	remaining := h.pending[:0]
	for _, flow := range h.pending {
		if nowMS < flow.StartTimeMS {
			remaining = append(remaining, flow)
			continue
		}
		h.activate(flow, nowMS)
	}
	h.pending = remaining
}

// activate materializes flow's DATA packet sequence with contiguous ids
// starting at totalPacketsGenerated, registers the resulting ActiveFlow,
// and pushes a SETUP packet into the immediate queue (spec.md §3, §4.2).
func (h *Host) activate(flow *Flow, nowMS int64) {
	count := flow.packetCount()
	firstID := h.totalPacketsGenerated
	packets := make([]*Packet, count)
	for i := 0; i < count; i++ {
		packets[i] = newDataPacket(firstID+i, flow.Src, flow.Dst)
	}
	h.totalPacketsGenerated += count

	af := newActiveFlow(flow, packets)
	h.activeFlowOrder = append(h.activeFlowOrder, af)
	h.flowsByDst[flow.Dst] = append(h.flowsByDst[flow.Dst], af)

	setup := newSetupPacket(packets[0].ID, af.MaxID, flow.Src, flow.Dst)
	h.immediateQueue = append(h.immediateQueue, setup)
}

// ReceivePacket implements Node: dispatch by kind (spec.md §4.2).
func (h *Host) ReceivePacket(packet *Packet, link *Link, nowMS int64) {
	assert.Invariant(link == h.link, "host received a packet from a link it is not attached to")
	switch packet.Kind {
	case PacketKindSetup:
		h.receiveSetup(packet)
	case PacketKindData:
		h.receiveData(packet, nowMS)
	case PacketKindAck:
		h.receiveAck(packet, nowMS)
	}
}

// receiveSetup establishes a new Download from the SETUP packet's id range.
func (h *Host) receiveSetup(packet *Packet) {
	h.downloadsBySrc[packet.Src] = append(h.downloadsBySrc[packet.Src], &Download{
		NextExpectedID: packet.ID,
		MaxID:          packet.MaxID,
	})
}

// receiveData advances the matching Download's cumulative watermark and
// emits a cumulative ACK, or silently ignores a DATA packet that matches no
// registered Download's outstanding range (spec.md §4.2, §7).
func (h *Host) receiveData(packet *Packet, nowMS int64) {
	downloads := h.downloadsBySrc[packet.Src]
	for i, dl := range downloads {
		if packet.ID < dl.NextExpectedID || packet.ID > dl.MaxID {
			continue
		}
		if packet.ID == dl.NextExpectedID {
			dl.NextExpectedID++
		}
		ack := newAckPacket(dl.NextExpectedID, h, packet.Src)
		h.immediateQueue = append(h.immediateQueue, ack)
		if dl.NextExpectedID > dl.MaxID {
			h.downloadsBySrc[packet.Src] = append(downloads[:i:i], downloads[i+1:]...)
		}
		return
	}
}

// receiveAck routes an ACK to whichever of this Host's ActiveFlows to
// ack.Src has the matching outstanding range, and delegates to the
// controller (spec.md §4.3).
func (h *Host) receiveAck(ack *Packet, nowMS int64) {
	for _, af := range h.flowsByDst[ack.Src] {
		if af.Done || len(af.Packets) == 0 {
			continue
		}
		q := af.Packets[0].ID
		if ack.ID == q || (ack.ID > q && ack.ID-1 <= af.MaxID) {
			af.receiveAck(h, ack, nowMS)
			return
		}
	}
}

// Update implements Updatable: activate due flows, flush the immediate
// queue to the Link, then run the timer sweep, window fill, and analytics
// rate report for every active flow in activation order (spec.md §4.2, §5's
// "flows are processed in the iteration order of flows_by_dst" — activation
// order here, since a Go map has no stable iteration order).
func (h *Host) Update(intervalMS, nowMS int64) {
	h.activatePending(nowMS)
	h.flushImmediateQueue(nowMS)

	for _, af := range h.activeFlowOrder {
		if af.Done {
			continue
		}
		af.retransmitTimedOut(h, nowMS)
		af.fillWindow(h, nowMS)
		af.reportRate(intervalMS, nowMS)
	}

	h.pruneCompletedFlows()
}

// flushImmediateQueue pushes every queued ACK/SETUP packet onto the Link,
// logging (not failing) any that the Link's buffer rejects.
func (h *Host) flushImmediateQueue(nowMS int64) {
	for _, packet := range h.immediateQueue {
		if !h.link.AddPacket(packet, h, nowMS) {
			h.logger.Warnf("netsim: host %s: dropped %s packet %d, link buffer full", h.addr, packet.Kind, packet.ID)
		}
	}
	h.immediateQueue = h.immediateQueue[:0]
}

// pruneCompletedFlows removes every Done ActiveFlow from both
// activeFlowOrder and flowsByDst.
func (h *Host) pruneCompletedFlows() {
	live := h.activeFlowOrder[:0]
	for _, af := range h.activeFlowOrder {
		if !af.Done {
			live = append(live, af)
			continue
		}
		list := h.flowsByDst[af.Flow.Dst]
		for i, cand := range list {
			if cand == af {
				h.flowsByDst[af.Flow.Dst] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
	h.activeFlowOrder = live
}
