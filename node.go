package netsim

//
// Node: the abstract endpoint a Link connects. Host is the only variant
// with real send/receive logic; Router is a pass-through Node that simply
// relays whatever arrives on one side to the other, allowing a topology to
// place an extra hop between two Hosts without the core needing real
// routing tables (spec.md is explicit that routing is static, one link
// per host — see Non-goals: no IP routing, no multi-path).
//

// Node is the abstract endpoint a [Link] attaches to.
type Node interface {
	// NodeID returns this node's stable arena id.
	NodeID() int64

	// Address is a human-readable label, used only for logging.
	Address() string

	// ReceivePacket is invoked by a [Link] when a packet addressed to (or,
	// for a Router, merely routed through) this node completes
	// transmission across that link, at simulated time nowMS.
	ReceivePacket(packet *Packet, link *Link, nowMS int64)
}

// Router is a minimal pass-through [Node]: anything that arrives on one of
// its two links is immediately re-queued onto the other. It never
// originates or terminates traffic and carries no congestion-control
// state — the spec explicitly scopes real IP routing out.
type Router struct {
	id     int64
	addr   string
	left   *Link
	right  *Link
	logger Logger
}

var _ Node = &Router{}

// NewRouter creates a [Router]. Attach it to its two links with
// [Router.AttachLeft] and [Router.AttachRight] before traffic flows; a
// Router with only one side attached drops whatever arrives on it and logs
// a warning, which is a configuration bug the caller should avoid.
func NewRouter(address string, logger Logger) *Router {
	return &Router{
		id:     newNodeID(),
		addr:   address,
		logger: orNullLogger(logger),
	}
}

// AttachLeft wires this Router's left side to lnk.
func (r *Router) AttachLeft(lnk *Link) { r.left = lnk }

// AttachRight wires this Router's right side to lnk.
func (r *Router) AttachRight(lnk *Link) { r.right = lnk }

// NodeID implements Node.
func (r *Router) NodeID() int64 { return r.id }

// Address implements Node.
func (r *Router) Address() string { return r.addr }

// ReceivePacket implements Node: forward to whichever side did not deliver
// the packet.
func (r *Router) ReceivePacket(packet *Packet, link *Link, nowMS int64) {
	var out *Link
	switch {
	case link == r.left && r.right != nil:
		out = r.right
	case link == r.right && r.left != nil:
		out = r.left
	default:
		r.logger.Warnf("netsim: router %s: no far side to forward packet %d to", r.addr, packet.ID)
		return
	}
	if !out.AddPacket(packet, r, nowMS) {
		r.logger.Warnf("netsim: router %s: dropped packet %d, far link buffer full", r.addr, packet.ID)
	}
}
