package model

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/awcullen/opcua/ua"
	"github.com/google/uuid"

	"github.com/infomodel/infomodel-go/pkg/log"
)

// AddNodeRequest describes a node to add.
type AddNodeRequest struct {
	Class NodeClass

	// RequestedID is the id to assign. When nil an id is allocated in the
	// namespace of BrowseName.
	RequestedID ua.NodeID

	ParentID        ua.NodeID
	ReferenceTypeID ua.NodeID
	BrowseName      ua.QualifiedName

	// TypeDefinition applies to Objects and Variables. When nil, Objects
	// get BaseObjectType and Variables BaseDataVariableType.
	TypeDefinition ua.NodeID

	Attributes Attributes

	// DataSource, when set on a Variable, serves its value.
	DataSource DataSource
}

// AddressSpace is the node and reference graph.
//
// Construction calls (AddNode, AddReference, BindDataSource) are made by a
// single goroutine while the model is assembled. After that the graph is
// read-only apart from stored variable values, and ReadValue/WriteValue may
// be called concurrently.
type AddressSpace struct {
	mu sync.RWMutex

	alloc      *Allocator
	namespaces []string
	nodes      map[ua.NodeID]*Node
	order      []ua.NodeID

	logger log.Logger
	now    func() time.Time
}

// NewAddressSpace creates an address space seeded with the standard
// namespace-0 nodes. Namespace 1 is applicationURI. Node ids requested as
// nil are drawn from alloc.
func NewAddressSpace(alloc *Allocator, applicationURI string) *AddressSpace {
	s := &AddressSpace{
		alloc:      alloc,
		namespaces: []string{StandardNamespaceURI, applicationURI},
		nodes:      make(map[ua.NodeID]*Node),
		logger:     log.NoopLogger{},
		now:        time.Now,
	}
	s.seedStandardNodes()
	return s
}

// SetLogger sets the call tracer. Nil disables tracing.
func (s *AddressSpace) SetLogger(l log.Logger) {
	if l == nil {
		l = log.NoopLogger{}
	}
	s.logger = l
}

// SetClock replaces the wall clock used for timestamps.
func (s *AddressSpace) SetClock(now func() time.Time) {
	s.now = now
}

// Allocator returns the allocator used for nil requested ids.
func (s *AddressSpace) Allocator() *Allocator {
	return s.alloc
}

// AddNamespace registers uri and returns its index. Registering a known
// uri returns the existing index.
func (s *AddressSpace) AddNamespace(uri string) uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.Index(s.namespaces, uri); i >= 0 {
		return uint16(i)
	}
	s.namespaces = append(s.namespaces, uri)
	return uint16(len(s.namespaces) - 1)
}

// NamespaceIndex returns the index of a registered uri.
func (s *AddressSpace) NamespaceIndex(uri string) (uint16, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.Index(s.namespaces, uri)
	return uint16(i), i >= 0
}

// Namespaces returns the namespace table.
func (s *AddressSpace) Namespaces() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.namespaces)
}

// GetDefaultAttributes returns the attribute defaults for a node class.
func (s *AddressSpace) GetDefaultAttributes(class NodeClass) Attributes {
	return DefaultAttributes(class)
}

// Node returns a node by id.
func (s *AddressSpace) Node(id ua.NodeID) (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	return n, ok
}

// Nodes returns all nodes in creation order.
func (s *AddressSpace) Nodes() []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id])
	}
	return out
}

// Len returns the number of nodes.
func (s *AddressSpace) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// AddNode validates and inserts a node, links it to its parent and to its
// type definition, and returns its id. All failures match
// ErrInvalidWiring.
func (s *AddressSpace) AddNode(req AddNodeRequest) (ua.NodeID, error) {
	start := s.now()
	id, err := s.addNode(req)
	target := id
	if target == nil {
		target = req.RequestedID
	}
	s.emitConstruction(log.OpAddNode, target, err, start)
	return id, err
}

func (s *AddressSpace) addNode(req AddNodeRequest) (ua.NodeID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch req.Class {
	case NodeClassObject, NodeClassVariable, NodeClassDataType:
	default:
		return nil, fmt.Errorf("%w: %s", ErrNodeClassInvalid, req.Class)
	}
	if req.BrowseName.Name == "" {
		return nil, ErrBrowseNameInvalid
	}

	id := req.RequestedID
	if id == nil {
		if int(req.BrowseName.NamespaceIndex) >= len(s.namespaces) {
			return nil, fmt.Errorf("%w: ns=%d", ErrNamespaceInvalid, req.BrowseName.NamespaceIndex)
		}
		id = s.alloc.Next(req.BrowseName.NamespaceIndex)
	}
	if int(NamespaceOf(id)) >= len(s.namespaces) {
		return nil, wrapNodeErr(ErrNamespaceInvalid, "node", id)
	}
	if _, exists := s.nodes[id]; exists {
		return nil, wrapNodeErr(ErrNodeIDExists, "node", id)
	}

	parent, ok := s.nodes[req.ParentID]
	if !ok {
		return nil, wrapNodeErr(ErrParentNodeIDInvalid, "parent", req.ParentID)
	}
	if !s.isReferenceTypeLocked(req.ReferenceTypeID) ||
		!s.isSubtypeLocked(req.ReferenceTypeID, HierarchicalReferencesID) {
		return nil, wrapNodeErr(ErrReferenceTypeIDInvalid, "reference type", req.ReferenceTypeID)
	}

	attrs := req.Attributes
	n := &Node{
		id:          id,
		class:       req.Class,
		browseName:  req.BrowseName,
		displayName: attrs.DisplayName,
		description: attrs.Description,
		isAbstract:  attrs.IsAbstract,
	}
	if n.displayName.Text == "" {
		n.displayName = ua.LocalizedText{Text: req.BrowseName.Name}
	}

	switch req.Class {
	case NodeClassDataType:
		if parent.class != NodeClassDataType {
			return nil, wrapNodeErr(ErrParentNodeIDInvalid, "data type parent", req.ParentID)
		}
		if req.ReferenceTypeID != HasSubtypeID {
			return nil, wrapNodeErr(ErrReferenceTypeIDInvalid, "data type reference", req.ReferenceTypeID)
		}
		if req.TypeDefinition != nil {
			return nil, wrapNodeErr(ErrTypeDefinitionInvalid, "data type", req.TypeDefinition)
		}
	case NodeClassObject:
		n.eventNotifier = attrs.EventNotifier
		td, err := s.typeDefinitionLocked(req.TypeDefinition, BaseObjectTypeID, NodeClassObjectType)
		if err != nil {
			return nil, err
		}
		n.typeDefinition = td
	case NodeClassVariable:
		td, err := s.typeDefinitionLocked(req.TypeDefinition, BaseDataVariableTypeID, NodeClassVariableType)
		if err != nil {
			return nil, err
		}
		n.typeDefinition = td
		if err := s.initVariableLocked(n, attrs); err != nil {
			return nil, err
		}
		n.source = req.DataSource
	}

	s.insertLocked(n)
	link(parent, n, req.ReferenceTypeID, true)
	if n.typeDefinition != nil {
		link(n, s.nodes[n.typeDefinition], HasTypeDefinitionID, true)
	}
	return id, nil
}

func (s *AddressSpace) typeDefinitionLocked(td, fallback ua.NodeID, class NodeClass) (ua.NodeID, error) {
	if td == nil {
		return fallback, nil
	}
	n, ok := s.nodes[td]
	if !ok || n.class != class {
		return nil, wrapNodeErr(ErrTypeDefinitionInvalid, "type definition", td)
	}
	return td, nil
}

func (s *AddressSpace) initVariableLocked(n *Node, attrs Attributes) error {
	dataType := attrs.DataType
	if dataType == nil {
		dataType = BaseDataTypeID
	}
	dt, ok := s.nodes[dataType]
	if !ok || dt.class != NodeClassDataType {
		return wrapNodeErr(ErrDataTypeInvalid, "data type", dataType)
	}
	n.dataType = dataType
	n.valueRank = attrs.ValueRank
	n.arrayDimensions = slices.Clone(attrs.ArrayDimensions)
	n.accessLevel = attrs.AccessLevel

	if err := s.checkValueLocked(n, attrs.Value); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidWiring, n.browseName.Name, err)
	}
	n.value = attrs.Value
	n.sourceStamp = s.now()
	return nil
}

func (s *AddressSpace) insertLocked(n *Node) {
	s.nodes[n.id] = n
	s.order = append(s.order, n.id)
}

// BindDataSource makes src serve the value of a variable node, replacing
// any earlier binding.
func (s *AddressSpace) BindDataSource(id ua.NodeID, src DataSource) error {
	start := s.now()
	err := s.bindDataSource(id, src)
	s.emitConstruction(log.OpBindDataSource, id, err, start)
	return err
}

func (s *AddressSpace) bindDataSource(id ua.NodeID, src DataSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[id]
	if !ok {
		return wrapNodeErr(ErrNodeIDUnknown, "node", id)
	}
	if n.class != NodeClassVariable {
		return wrapNodeErr(ErrNodeClassInvalid, "node", id)
	}
	if src == nil {
		return fmt.Errorf("%w: nil data source for %s", ErrInvalidWiring, FormatNodeID(id))
	}
	n.source = src
	return nil
}

// ReadValue serves a read of the Value attribute of node id: from the
// node's DataSource when bound, else from the stored value.
func (s *AddressSpace) ReadValue(ctx context.Context, id ua.NodeID, includeSourceTimestamp bool, rng *NumericRange) (DataValue, error) {
	start := s.now()
	dv, err := s.readValue(ctx, id, includeSourceTimestamp, rng)
	if err != nil {
		dv = DataValue{Status: StatusCode(err), ServerTimestamp: start}
	}
	s.emitService(log.OpRead, id, dv.Value, err, start)
	return dv, err
}

func (s *AddressSpace) readValue(ctx context.Context, id ua.NodeID, includeSourceTimestamp bool, rng *NumericRange) (DataValue, error) {
	n, err := s.variable(id)
	if err != nil {
		return DataValue{}, err
	}
	if !n.accessLevel.CanRead() {
		return DataValue{}, wrapNodeErr(ErrNotReadable, "node", id)
	}
	if rng != nil {
		if err := rng.Validate(); err != nil {
			return DataValue{}, err
		}
	}

	if n.source != nil {
		dv, err := n.source.Read(ctx, id, includeSourceTimestamp, rng)
		if err != nil {
			return DataValue{}, err
		}
		if dv.ServerTimestamp.IsZero() {
			dv.ServerTimestamp = s.now()
		}
		return dv, nil
	}

	v, stamp := n.storedValue()
	if rng != nil {
		if v, err = rng.Slice(v); err != nil {
			return DataValue{}, err
		}
	}
	dv := DataValue{Value: v, Status: StatusGood, ServerTimestamp: s.now()}
	if includeSourceTimestamp {
		dv.SourceTimestamp = stamp
	}
	return dv, nil
}

// WriteValue serves a write of the Value attribute of node id. A bound
// variable hands the write to its DataSource, which may reject it.
func (s *AddressSpace) WriteValue(ctx context.Context, id ua.NodeID, rng *NumericRange, value DataValue) error {
	start := s.now()
	err := s.writeValue(ctx, id, rng, value)
	s.emitService(log.OpWrite, id, value.Value, err, start)
	return err
}

func (s *AddressSpace) writeValue(ctx context.Context, id ua.NodeID, rng *NumericRange, value DataValue) error {
	n, err := s.variable(id)
	if err != nil {
		return err
	}
	if !n.accessLevel.CanWrite() {
		return wrapNodeErr(ErrNotWritable, "node", id)
	}
	if rng != nil {
		if err := rng.Validate(); err != nil {
			return err
		}
	}
	if n.source != nil {
		return n.source.Write(ctx, id, rng, value)
	}

	stamp := value.SourceTimestamp
	if stamp.IsZero() {
		stamp = s.now()
	}

	// A ranged write splices into the stored array, so the read, check
	// and store happen under one node lock.
	s.mu.RLock()
	defer s.mu.RUnlock()
	n.mu.Lock()
	defer n.mu.Unlock()

	v := value.Value
	if rng != nil {
		if v, err = rng.Replace(n.value, v); err != nil {
			return err
		}
	}
	if err := s.checkValueLocked(n, v); err != nil {
		return err
	}
	n.value = v
	n.sourceStamp = stamp
	return nil
}

func (s *AddressSpace) variable(id ua.NodeID) (*Node, error) {
	n, ok := s.Node(id)
	if !ok {
		return nil, wrapNodeErr(ErrNotFound, "node", id)
	}
	if n.class != NodeClassVariable {
		return nil, wrapNodeErr(ErrAttributeIDInvalid, "node", id)
	}
	return n, nil
}

func wrapNodeErr(err error, what string, id ua.NodeID) error {
	return fmt.Errorf("%w: %s %s", err, what, FormatNodeID(id))
}

func (s *AddressSpace) emitConstruction(op log.Operation, id ua.NodeID, err error, start time.Time) {
	s.emit(log.CategoryConstruction, op, id, nil, err, start)
}

func (s *AddressSpace) emitService(op log.Operation, id ua.NodeID, value any, err error, start time.Time) {
	s.emit(log.CategoryService, op, id, value, err, start)
}

func (s *AddressSpace) emit(cat log.Category, op log.Operation, id ua.NodeID, value any, err error, start time.Time) {
	if _, off := s.logger.(log.NoopLogger); off {
		return
	}
	e := log.Event{
		Timestamp: start,
		CallID:    uuid.NewString(),
		Category:  cat,
		Operation: op,
		Status:    StatusCode(err),
		Value:     value,
		Duration:  s.now().Sub(start),
	}
	if id != nil {
		e.NodeID = FormatNodeID(id)
	}
	if err != nil {
		e.Message = err.Error()
	}
	s.logger.Log(e)
}
