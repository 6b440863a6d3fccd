package types

import (
	"fmt"
	"sync"
	"time"

	"github.com/awcullen/opcua/ua"
	"github.com/google/uuid"

	"github.com/infomodel/infomodel-go/pkg/log"
	"github.com/infomodel/infomodel-go/pkg/model"
)

// ErrRegistryFull is returned when registering beyond the registry capacity.
var ErrRegistryFull = model.NewStatusError(model.StatusBadResourceUnavailable, "type registry full")

// Kind is the encoding class of a data type.
type Kind uint8

const (
	KindBuiltin Kind = iota
	KindEnum
	KindStructure
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBuiltin:
		return "builtin"
	case KindEnum:
		return "enum"
	case KindStructure:
		return "structure"
	default:
		return "unknown"
	}
}

// DataTypeDescriptor is what the encoding layer needs to know about a data
// type. For registered custom types BinaryEncodingID equals TypeID.
type DataTypeDescriptor struct {
	TypeID           ua.NodeID
	BinaryEncodingID ua.NodeID
	Name             string
	Parent           ua.NodeID

	Kind        Kind
	Size        int
	PointerFree bool
	Overlayable bool
}

// Enumeration is the descriptor of the standard Enumeration type. Custom
// enumerations copy it and override identity and name.
var Enumeration = DataTypeDescriptor{
	TypeID:           model.EnumerationID,
	BinaryEncodingID: model.EnumerationID,
	Name:             "Enumeration",
	Parent:           model.BaseDataTypeID,
	Kind:             KindEnum,
	Size:             4,
	PointerFree:      true,
	Overlayable:      true,
}

// Registry holds custom data type descriptors up to a fixed capacity and
// mirrors each one as a DataType node in the address space.
//
// Registration is part of single-threaded model construction. Lookups are
// safe for concurrent use.
type Registry struct {
	mu sync.RWMutex

	space    *model.AddressSpace
	alloc    *model.Allocator
	capacity int

	descriptors map[ua.NodeID]DataTypeDescriptor
	order       []ua.NodeID

	logger log.Logger
}

// NewRegistry creates a registry that admits at most capacity types.
func NewRegistry(space *model.AddressSpace, alloc *model.Allocator, capacity int) *Registry {
	return &Registry{
		space:       space,
		alloc:       alloc,
		capacity:    capacity,
		descriptors: make(map[ua.NodeID]DataTypeDescriptor),
		logger:      log.NoopLogger{},
	}
}

// SetLogger sets the call tracer. Nil disables tracing.
func (r *Registry) SetLogger(l log.Logger) {
	if l == nil {
		l = log.NoopLogger{}
	}
	r.logger = l
}

// RegisterEnumeration registers a new enumeration type named name in
// namespace ns. The type gets a freshly allocated id, used for both its
// type and binary encoding id, and a DataType node that is a HasSubtype
// child of Enumeration.
func (r *Registry) RegisterEnumeration(ns uint16, name string) (DataTypeDescriptor, error) {
	start := time.Now()
	d, err := r.registerEnumeration(ns, name)
	r.trace(d.TypeID, err, start)
	return d, err
}

func (r *Registry) registerEnumeration(ns uint16, name string) (DataTypeDescriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.descriptors) >= r.capacity {
		return DataTypeDescriptor{}, fmt.Errorf("%w: capacity %d, registering %q", ErrRegistryFull, r.capacity, name)
	}

	d := Enumeration
	d.Name = name
	d.Parent = model.EnumerationID
	id := r.alloc.Next(ns)
	d.TypeID = id
	d.BinaryEncodingID = id

	if _, err := r.space.AddDataTypeNode(id, model.EnumerationID, ua.QualifiedName{NamespaceIndex: ns, Name: name}, name); err != nil {
		return DataTypeDescriptor{}, fmt.Errorf("register %q: %w", name, err)
	}

	r.descriptors[id] = d
	r.order = append(r.order, id)
	return d, nil
}

// Lookup returns the descriptor registered under typeID.
func (r *Registry) Lookup(typeID ua.NodeID) (DataTypeDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[typeID]
	return d, ok
}

// LookupByEncoding returns the descriptor whose binary encoding id is id.
func (r *Registry) LookupByEncoding(id ua.NodeID) (DataTypeDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.descriptors {
		if d.BinaryEncodingID == id {
			return d, true
		}
	}
	return DataTypeDescriptor{}, false
}

// Descriptors returns all registered descriptors in registration order.
func (r *Registry) Descriptors() []DataTypeDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]DataTypeDescriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.descriptors[id])
	}
	return out
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}

// Capacity returns the maximum number of types.
func (r *Registry) Capacity() int {
	return r.capacity
}

func (r *Registry) trace(id ua.NodeID, err error, start time.Time) {
	if _, off := r.logger.(log.NoopLogger); off {
		return
	}
	e := log.Event{
		Timestamp: start,
		CallID:    uuid.NewString(),
		Category:  log.CategoryConstruction,
		Operation: log.OpRegisterType,
		Status:    model.StatusCode(err),
		Duration:  time.Since(start),
	}
	if id != nil {
		e.NodeID = model.FormatNodeID(id)
	}
	if err != nil {
		e.Message = err.Error()
	}
	r.logger.Log(e)
}
