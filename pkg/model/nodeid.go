package model

import (
	"fmt"

	"github.com/awcullen/opcua/ua"
	"github.com/google/uuid"
)

// DefaultNodeIDBase is the allocator seed. Identifiers issued above it
// cannot collide with the standard namespace-0 numeric range.
const DefaultNodeIDBase uint32 = 0x80000000

// Allocator issues numeric node identifiers in strictly increasing order.
//
// An Allocator is owned by the model construction context. It is not safe
// for concurrent use; construction is single-threaded.
type Allocator struct {
	last uint32
}

// NewAllocator creates an allocator whose first identifier is base+1.
func NewAllocator(base uint32) *Allocator {
	return &Allocator{last: base}
}

// Next returns a numeric node id in namespace ns that is greater than
// every identifier issued before.
func (a *Allocator) Next(ns uint16) ua.NodeIDNumeric {
	a.last++
	return ua.NodeIDNumeric{NamespaceIndex: ns, ID: a.last}
}

// NextGUID returns a random GUID node id in namespace ns. GUID ids do not
// advance the numeric counter.
func (a *Allocator) NextGUID(ns uint16) ua.NodeIDGUID {
	return ua.NodeIDGUID{NamespaceIndex: ns, ID: uuid.New()}
}

// Last returns the most recently issued numeric identifier.
func (a *Allocator) Last() uint32 {
	return a.last
}

// NamespaceOf returns the namespace index of a node id.
func NamespaceOf(id ua.NodeID) uint16 {
	switch n := id.(type) {
	case ua.NodeIDNumeric:
		return n.NamespaceIndex
	case ua.NodeIDString:
		return n.NamespaceIndex
	case ua.NodeIDGUID:
		return n.NamespaceIndex
	default:
		return 0
	}
}

// FormatNodeID renders a node id in the standard text form
// ("ns=2;i=1234", "i=85", "ns=1;s=Name", "ns=1;g=<uuid>").
func FormatNodeID(id ua.NodeID) string {
	var ns uint16
	var body string
	switch n := id.(type) {
	case nil:
		return "<nil>"
	case ua.NodeIDNumeric:
		ns, body = n.NamespaceIndex, fmt.Sprintf("i=%d", n.ID)
	case ua.NodeIDString:
		ns, body = n.NamespaceIndex, "s="+n.ID
	case ua.NodeIDGUID:
		ns, body = n.NamespaceIndex, "g="+n.ID.String()
	default:
		return fmt.Sprint(id)
	}
	if ns == 0 {
		return body
	}
	return fmt.Sprintf("ns=%d;%s", ns, body)
}
