package examples

import (
	"fmt"
	"strings"

	"github.com/awcullen/opcua/ua"
	"go.uber.org/multierr"

	"github.com/infomodel/infomodel-go/pkg/model"
	"github.com/infomodel/infomodel-go/pkg/types"
)

// ConstructionError reports every construction operation that failed while
// a model was assembled.
type ConstructionError struct {
	// Ops names the failed operations in the order they were attempted.
	Ops []string

	err error
}

// Error lists each failed operation with its cause.
func (e *ConstructionError) Error() string {
	errs := multierr.Errors(e.err)
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("model construction failed (%d): %s", len(errs), strings.Join(parts, "; "))
}

// Unwrap returns the individual failures so errors.Is and errors.As see
// each of them.
func (e *ConstructionError) Unwrap() []error {
	return multierr.Errors(e.err)
}

// Builder assembles a model on an address space and type registry. Each
// step returns the new node id, or nil when the step failed; failures are
// collected and reported once by Err. A step whose input is the nil result
// of a failed step fails as well, so one root cause may be reported more
// than once.
type Builder struct {
	space    *model.AddressSpace
	registry *types.Registry

	ops []string
	err error
}

// NewBuilder creates a builder over space and registry.
func NewBuilder(space *model.AddressSpace, registry *types.Registry) *Builder {
	return &Builder{space: space, registry: registry}
}

// Space returns the address space being built.
func (b *Builder) Space() *model.AddressSpace { return b.space }

// Registry returns the type registry being built.
func (b *Builder) Registry() *types.Registry { return b.registry }

// Namespace registers uri and returns its index.
func (b *Builder) Namespace(uri string) uint16 {
	return b.space.AddNamespace(uri)
}

// Folder adds a folder named name under parent.
func (b *Builder) Folder(parent ua.NodeID, ns uint16, name string) ua.NodeID {
	id, err := b.space.AddFolder(parent, ns, name)
	b.record("addFolder "+name, err)
	return id
}

// Enumeration registers an enumeration type named name and attaches def
// to it as its EnumValues or EnumStrings property.
func (b *Builder) Enumeration(ns uint16, name string, def types.EnumDefinition) ua.NodeID {
	d, err := b.registry.RegisterEnumeration(ns, name)
	if b.record("registerEnumerationType "+name, err) {
		return nil
	}
	_, err = types.AttachEnumDefinition(b.space, d.TypeID, def)
	if b.record(fmt.Sprintf("add %s property %s", def.Representation(), name), err) {
		return nil
	}
	return d.TypeID
}

// Variable adds a scalar variable of dataType named name under parent.
func (b *Builder) Variable(parent ua.NodeID, ns uint16, name string, dataType ua.NodeID, binding model.ValueBinding) ua.NodeID {
	if dataType == nil {
		b.record("addVariableNode "+name, fmt.Errorf("%w: no data type", model.ErrDataTypeInvalid))
		return nil
	}
	id, err := b.space.AddVariableNode(parent, ns, name, dataType, binding)
	b.record("addVariableNode "+name, err)
	return id
}

// Bind binds src to the variable id.
func (b *Builder) Bind(id ua.NodeID, src model.DataSource) {
	b.record("bindDataSource "+model.FormatNodeID(id), b.space.BindDataSource(id, src))
}

// Reference adds a reference between two existing nodes.
func (b *Builder) Reference(source, refType, target ua.NodeID, isForward bool) {
	op := fmt.Sprintf("addReference %s -> %s", model.FormatNodeID(source), model.FormatNodeID(target))
	b.record(op, b.space.AddReference(source, refType, target, isForward))
}

// Err returns a *ConstructionError listing every failed step, or nil.
func (b *Builder) Err() error {
	if b.err == nil {
		return nil
	}
	return &ConstructionError{Ops: append([]string(nil), b.ops...), err: b.err}
}

func (b *Builder) record(op string, err error) bool {
	if err == nil {
		return false
	}
	b.ops = append(b.ops, op)
	b.err = multierr.Append(b.err, fmt.Errorf("%s: %w", op, err))
	return true
}
