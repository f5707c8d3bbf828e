package netsim

//
// Stable integer ids for nodes and links (see spec.md §9: an arena of
// nodes and links addressed by stable ids avoids the mutual-pointer cycles
// a naive Host<->Link<->Host port would otherwise need).
//

import "sync/atomic"

// nodeID is the source of unique Host/Router ids.
var nodeID = &atomic.Int64{}

// linkID is the source of unique Link ids.
var linkID = &atomic.Int64{}

// flowID is the source of unique Flow ids.
var flowID = &atomic.Int64{}

// newNodeID returns a fresh, process-unique node id.
func newNodeID() int64 {
	return nodeID.Add(1)
}

// newLinkID returns a fresh, process-unique link id.
func newLinkID() int64 {
	return linkID.Add(1)
}

// newFlowID returns a fresh, process-unique flow id.
func newFlowID() int64 {
	return flowID.Add(1)
}
