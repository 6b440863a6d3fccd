package model

import (
	"slices"
	"sync"
	"time"

	"github.com/awcullen/opcua/ua"
)

// NodeClass identifies the kind of a node.
type NodeClass uint8

const (
	NodeClassUnspecified NodeClass = iota
	NodeClassObject
	NodeClassVariable
	NodeClassObjectType
	NodeClassVariableType
	NodeClassReferenceType
	NodeClassDataType
)

// String returns the node class name.
func (c NodeClass) String() string {
	names := []string{
		"Unspecified", "Object", "Variable", "ObjectType",
		"VariableType", "ReferenceType", "DataType",
	}
	if int(c) < len(names) {
		return names[c]
	}
	return "Unspecified"
}

// AccessLevel is the access bitmask of a variable node.
type AccessLevel uint8

const (
	// AccessLevelCurrentRead allows reading the current value.
	AccessLevelCurrentRead AccessLevel = 1 << iota

	// AccessLevelCurrentWrite allows writing the current value.
	AccessLevelCurrentWrite

	// AccessLevelReadWrite is read and write.
	AccessLevelReadWrite = AccessLevelCurrentRead | AccessLevelCurrentWrite
)

// CanRead returns true if reading is allowed.
func (a AccessLevel) CanRead() bool { return a&AccessLevelCurrentRead != 0 }

// CanWrite returns true if writing is allowed.
func (a AccessLevel) CanWrite() bool { return a&AccessLevelCurrentWrite != 0 }

// String returns the access bits as a string.
func (a AccessLevel) String() string {
	var s string
	if a.CanRead() {
		s += "R"
	}
	if a.CanWrite() {
		s += "W"
	}
	if s == "" {
		return "-"
	}
	return s
}

// Value ranks.
const (
	ValueRankScalarOrOneDimension int32 = -3
	ValueRankAny                  int32 = -2
	ValueRankScalar               int32 = -1
	ValueRankOneOrMoreDimensions  int32 = 0
	ValueRankOneDimension         int32 = 1
)

// Attributes are the attribute values supplied when a node is added.
// Fields that do not apply to the node class are ignored.
type Attributes struct {
	DisplayName ua.LocalizedText
	Description ua.LocalizedText

	// Object
	EventNotifier uint8

	// Variable
	DataType        ua.NodeID
	ValueRank       int32
	ArrayDimensions []uint32
	AccessLevel     AccessLevel
	Value           any

	// DataType, ObjectType, VariableType, ReferenceType
	IsAbstract bool
}

// DefaultAttributes returns the attribute defaults for a node class,
// before caller overrides.
func DefaultAttributes(class NodeClass) Attributes {
	switch class {
	case NodeClassVariable, NodeClassVariableType:
		return Attributes{
			DataType:    BaseDataTypeID,
			ValueRank:   ValueRankAny,
			AccessLevel: AccessLevelCurrentRead,
		}
	default:
		return Attributes{}
	}
}

// Node is a vertex of the address space. Identity and structure are fixed
// after construction; the stored value of a variable is guarded by its own
// lock.
type Node struct {
	id             ua.NodeID
	class          NodeClass
	browseName     ua.QualifiedName
	displayName    ua.LocalizedText
	description    ua.LocalizedText
	typeDefinition ua.NodeID
	eventNotifier  uint8
	isAbstract     bool

	dataType        ua.NodeID
	valueRank       int32
	arrayDimensions []uint32
	accessLevel     AccessLevel
	source          DataSource

	mu          sync.RWMutex
	value       any
	sourceStamp time.Time

	references []Reference
}

// ID returns the node id.
func (n *Node) ID() ua.NodeID { return n.id }

// Class returns the node class.
func (n *Node) Class() NodeClass { return n.class }

// BrowseName returns the qualified browse name.
func (n *Node) BrowseName() ua.QualifiedName { return n.browseName }

// DisplayName returns the display name.
func (n *Node) DisplayName() ua.LocalizedText { return n.displayName }

// Description returns the description.
func (n *Node) Description() ua.LocalizedText { return n.description }

// TypeDefinition returns the type definition of an Object or Variable.
func (n *Node) TypeDefinition() ua.NodeID { return n.typeDefinition }

// EventNotifier returns the event notifier bits of an Object.
func (n *Node) EventNotifier() uint8 { return n.eventNotifier }

// IsAbstract reports whether a type node is abstract.
func (n *Node) IsAbstract() bool { return n.isAbstract }

// DataType returns the data type of a Variable.
func (n *Node) DataType() ua.NodeID { return n.dataType }

// ValueRank returns the value rank of a Variable.
func (n *Node) ValueRank() int32 { return n.valueRank }

// ArrayDimensions returns a copy of the array dimensions of a Variable.
func (n *Node) ArrayDimensions() []uint32 { return slices.Clone(n.arrayDimensions) }

// AccessLevel returns the access bitmask of a Variable.
func (n *Node) AccessLevel() AccessLevel { return n.accessLevel }

// HasDataSource reports whether the variable value is served by a binding.
func (n *Node) HasDataSource() bool { return n.source != nil }

// Value returns the stored value. Bound variables keep their initial value
// here; reads go through the binding.
func (n *Node) Value() any {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.value
}

// References returns a copy of the node's references.
func (n *Node) References() []Reference {
	return slices.Clone(n.references)
}

func (n *Node) storedValue() (any, time.Time) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.value, n.sourceStamp
}

func (n *Node) hasReference(ref Reference) bool {
	return slices.Contains(n.references, ref)
}
