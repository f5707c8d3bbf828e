// Package netsim is a discrete-event simulator of TCP-like congestion
// control running over a topology of hosts and finite-buffer
// store-and-forward links.
//
// The simulator has no notion of wall-clock time. An external driver
// advances simulated time in fixed increments by calling Update on every
// registered [Updatable] component, in the order: all [Host]s first, then
// all [Link]s. This package implements the components themselves — [Host],
// [Link], [Flow], and the congestion controller embedded in
// [ActiveFlow] — plus the plumbing an external topology loader needs to
// wire them together ([NewHost], [NewLink], [NewFlow], [NewRouter]).
//
// A [Flow] describes the intent to move a number of bits from a source
// [Host] to a destination [Host]. Once activated, it materializes into a
// sequence of DATA [Packet]s that the source [Host] pushes through its
// [Link] under the control of a sliding window. The window is grown and
// shrunk by a Reno-style state machine (slow start, congestion avoidance,
// fast retransmit / fast recovery) or, when a [Flow] requests the FAST
// protocol, by the window-update rule documented on
// ActiveFlow.applyFastWindowUpdate in controller.go.
//
// A [Link] is a bidirectional, half-duplex, store-and-forward pipe: each
// direction has its own finite-capacity FIFO buffer, but the two directions
// share a single transmission slot, so traffic in one direction can starve
// the other when both have pending packets. Buffer overflow is the only
// loss signal; there is no ECN and no explicit NACK.
//
// Topology/config loading, the CLI entry point, per-component file
// logging, and analytics/plotting sinks live outside this package; it
// accepts the FlowSink and LinkSink interfaces of the analytics subpackage and
// a [Logger] interface so an external caller can plug in whatever it needs,
// exactly as a caller of this module would plug in a config loader and a
// driver loop around [Updatable].
package netsim
