package inspect

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/awcullen/opcua/ua"

	"github.com/infomodel/infomodel-go/pkg/model"
	"github.com/infomodel/infomodel-go/pkg/types"
)

// Inspector errors.
var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrNotVariable   = errors.New("node is not a variable")
	ErrNotEnumerated = errors.New("variable data type is not an enumeration")
	ErrInvalidValue  = errors.New("value cannot be parsed for data type")
)

// Inspector provides inspection and mutation capabilities for an address
// space.
type Inspector struct {
	space    *model.AddressSpace
	registry *types.Registry
}

// NewInspector creates a new Inspector. registry may be nil.
func NewInspector(space *model.AddressSpace, registry *types.Registry) *Inspector {
	return &Inspector{space: space, registry: registry}
}

// Space returns the underlying address space.
func (i *Inspector) Space() *model.AddressSpace {
	return i.space
}

// NodeInfo represents a node for display and dumps.
type NodeInfo struct {
	NodeID      string `cbor:"1,keyasint" yaml:"node_id"`
	Class       string `cbor:"2,keyasint" yaml:"class"`
	BrowseName  string `cbor:"3,keyasint" yaml:"browse_name"`
	Namespace   uint16 `cbor:"4,keyasint" yaml:"namespace"`
	DisplayName string `cbor:"5,keyasint,omitempty" yaml:"display_name,omitempty"`
	Path        string `cbor:"6,keyasint,omitempty" yaml:"path,omitempty"`

	TypeDefinition string `cbor:"7,keyasint,omitempty" yaml:"type_definition,omitempty"`
	IsAbstract     bool   `cbor:"8,keyasint,omitempty" yaml:"abstract,omitempty"`

	// Variable only.
	DataType        string   `cbor:"9,keyasint,omitempty" yaml:"data_type,omitempty"`
	ValueRank       int32    `cbor:"10,keyasint,omitempty" yaml:"value_rank,omitempty"`
	ArrayDimensions []uint32 `cbor:"11,keyasint,omitempty" yaml:"array_dimensions,omitempty,flow"`
	AccessLevel     string   `cbor:"12,keyasint,omitempty" yaml:"access,omitempty"`
	Bound           bool     `cbor:"13,keyasint,omitempty" yaml:"bound,omitempty"`
	Value           string   `cbor:"14,keyasint,omitempty" yaml:"value,omitempty"`

	References []ReferenceInfo `cbor:"15,keyasint,omitempty" yaml:"references,omitempty"`
}

// ReferenceInfo represents one reference of a node.
type ReferenceInfo struct {
	Type    string `cbor:"1,keyasint" yaml:"type"`
	Forward bool   `cbor:"2,keyasint" yaml:"forward"`
	Target  string `cbor:"3,keyasint" yaml:"target"`
}

// InspectNode returns information about a single node. The value shown for
// a bound variable is its stored initial value: inspecting never calls the
// data source.
func (i *Inspector) InspectNode(id ua.NodeID) (*NodeInfo, error) {
	n, ok := i.space.Node(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, model.FormatNodeID(id))
	}
	info := i.nodeInfo(n, NewFormatter())
	return &info, nil
}

// Snapshot returns every node in creation order. Namespace-0 nodes are
// included only when includeStandard is set.
func (i *Inspector) Snapshot(includeStandard bool) []NodeInfo {
	f := NewFormatter()
	var out []NodeInfo
	for _, n := range i.space.Nodes() {
		if !includeStandard && model.NamespaceOf(n.ID()) == 0 {
			continue
		}
		out = append(out, i.nodeInfo(n, f))
	}
	return out
}

func (i *Inspector) nodeInfo(n *model.Node, f *Formatter) NodeInfo {
	info := NodeInfo{
		NodeID:      model.FormatNodeID(n.ID()),
		Class:       n.Class().String(),
		BrowseName:  n.BrowseName().Name,
		Namespace:   n.BrowseName().NamespaceIndex,
		DisplayName: n.DisplayName().Text,
		Path:        BrowsePath(i.space, n.ID()),
		IsAbstract:  n.IsAbstract(),
	}
	if td := n.TypeDefinition(); td != nil {
		info.TypeDefinition = i.nameOf(td)
	}
	if n.Class() == model.NodeClassVariable {
		info.DataType = i.nameOf(n.DataType())
		info.ValueRank = n.ValueRank()
		info.ArrayDimensions = n.ArrayDimensions()
		info.AccessLevel = FormatAccess(n.AccessLevel())
		info.Bound = n.HasDataSource()
		info.Value = f.FormatValue(n.Value())
	}
	for _, ref := range n.References() {
		info.References = append(info.References, ReferenceInfo{
			Type:    i.nameOf(ref.ReferenceTypeID),
			Forward: ref.IsForward,
			Target:  model.FormatNodeID(ref.TargetID),
		})
	}
	return info
}

// nameOf returns the browse name of id, or its text form when unknown.
func (i *Inspector) nameOf(id ua.NodeID) string {
	if n, ok := i.space.Node(id); ok {
		return n.BrowseName().Name
	}
	return model.FormatNodeID(id)
}

// Types returns the registered custom data types.
func (i *Inspector) Types() []types.DataTypeDescriptor {
	if i.registry == nil {
		return nil
	}
	return i.registry.Descriptors()
}

// EnumDefinition returns the enumeration definition of id, which may be an
// enumeration data type or a variable of one.
func (i *Inspector) EnumDefinition(id ua.NodeID) (types.EnumDefinition, error) {
	n, ok := i.space.Node(id)
	if !ok {
		return types.EnumDefinition{}, fmt.Errorf("%w: %s", ErrNodeNotFound, model.FormatNodeID(id))
	}
	typeID := id
	if n.Class() == model.NodeClassVariable {
		typeID = n.DataType()
		if !i.space.IsSubtypeOf(typeID, model.EnumerationID) {
			return types.EnumDefinition{}, fmt.Errorf("%w: %s", ErrNotEnumerated, model.FormatNodeID(id))
		}
	}
	return types.LookupEnumDefinition(i.space, typeID)
}

// ReadValue reads the value of variable id. rangeText is an optional
// index range ("2" or "1:3").
func (i *Inspector) ReadValue(ctx context.Context, id ua.NodeID, rangeText string) (model.DataValue, error) {
	rng, err := model.ParseNumericRange(rangeText)
	if err != nil {
		return model.DataValue{}, err
	}
	return i.space.ReadValue(ctx, id, true, rng)
}

// WriteValue parses text according to the data type of variable id and
// writes it.
func (i *Inspector) WriteValue(ctx context.Context, id ua.NodeID, text string) error {
	n, ok := i.space.Node(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, model.FormatNodeID(id))
	}
	if n.Class() != model.NodeClassVariable {
		return fmt.Errorf("%w: %s", ErrNotVariable, model.FormatNodeID(id))
	}
	v, err := i.ParseValue(n.DataType(), text)
	if err != nil {
		return err
	}
	return i.space.WriteValue(ctx, id, nil, model.DataValue{Value: v})
}

// ParseValue converts text to the Go value carrying dataType. Enumeration
// values may be given by number or by label.
func (i *Inspector) ParseValue(dataType ua.NodeID, text string) (any, error) {
	text = strings.TrimSpace(text)
	switch {
	case dataType == model.BooleanID:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as Boolean", ErrInvalidValue, text)
		}
		return b, nil
	case dataType == model.StringID:
		if unq, err := strconv.Unquote(text); err == nil {
			return unq, nil
		}
		return text, nil
	case dataType == model.LocalizedTextID:
		return ua.LocalizedText{Text: text}, nil
	case dataType == model.Int32ID:
		return parseInt32(text)
	case i.space.IsSubtypeOf(dataType, model.EnumerationID):
		if v, err := parseInt32(text); err == nil {
			return v, nil
		}
		def, err := types.LookupEnumDefinition(i.space, dataType)
		if err != nil {
			return nil, err
		}
		for _, e := range def.Entries() {
			if strings.EqualFold(e.DisplayName.Text, text) {
				return int32(e.Value), nil
			}
		}
		return nil, fmt.Errorf("%w: %q is not a label of %s", ErrInvalidValue, text, i.nameOf(dataType))
	default:
		return nil, fmt.Errorf("%w: unsupported data type %s", ErrInvalidValue, i.nameOf(dataType))
	}
}

// Label returns the enumeration label of value for variable id, or "" when
// the variable is not enumerated or the value is not an entry.
func (i *Inspector) Label(id ua.NodeID, value any) string {
	v, ok := value.(int32)
	if !ok {
		return ""
	}
	def, err := i.EnumDefinition(id)
	if err != nil {
		return ""
	}
	label, _ := def.Label(int64(v))
	return label
}

func parseInt32(s string) (int32, error) {
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	v, err := strconv.ParseInt(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q as Int32", ErrInvalidValue, s)
	}
	return int32(v), nil
}
