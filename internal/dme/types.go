// Package dme implements the Ricart-Agrawala distributed mutual exclusion
// algorithm that serializes writes to the shared chat log across a fixed set
// of peer nodes.
package dme

import (
	"chatmesh/internal/timestamps"
	"fmt"
)

// NodeId uniquely identifies a node among its peer set. Ordering is
// lexicographic and is used only to break ties between equal timestamps.
type NodeId = timestamps.Pid

// RequestKey is the pair (timestamp, node_id) that totally orders competing
// requests for the critical section. Smaller is higher priority.
type RequestKey = timestamps.Timestamp

// PeerDescriptor names a peer's DME listening address.
type PeerDescriptor struct {
	NodeID NodeId
	Host   string
	Port   uint16
}

func (p PeerDescriptor) String() string {
	return fmt.Sprintf("%s@%s:%d", p.NodeID, p.Host, p.Port)
}

// CSState is the critical-section state of a node.
type CSState uint8

const (
	Released CSState = iota
	Requested
	Held
)

func (s CSState) String() string {
	switch s {
	case Released:
		return "RELEASED"
	case Requested:
		return "REQUESTED"
	case Held:
		return "HELD"
	default:
		return "UNKNOWN"
	}
}
