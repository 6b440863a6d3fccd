package types

import (
	"errors"
	"fmt"
	"slices"

	"github.com/awcullen/opcua/ua"

	"github.com/infomodel/infomodel-go/pkg/model"
)

// Enumeration definition errors.
var (
	ErrNotEnumeration    = errors.New("data type is not an enumeration")
	ErrNoEnumDefinition  = errors.New("enumeration has no EnumValues or EnumStrings property")
	ErrEmptyEnumeration  = errors.New("enumeration has no entries")
	ErrUnknownEnumFormat = errors.New("unknown enumeration representation")
)

// Representation tells how an enumeration's labels map to values.
type Representation uint8

const (
	// Sparse enumerations carry an explicit value per entry (EnumValues).
	Sparse Representation = iota + 1
	// Dense enumerations use the entry position as value (EnumStrings).
	Dense
)

// String returns the representation name.
func (r Representation) String() string {
	switch r {
	case Sparse:
		return "sparse"
	case Dense:
		return "dense"
	default:
		return "unknown"
	}
}

// EnumDefinition describes the labels of an enumeration type in one of two
// representations. Sparse values may be any int64 and need not be
// contiguous; duplicates are not rejected. Dense values are 0..n-1 by
// position.
type EnumDefinition struct {
	representation Representation
	values         []ua.EnumValueType
	strings        []ua.LocalizedText
}

// SparseEnum defines an enumeration by explicit value descriptors.
func SparseEnum(values ...ua.EnumValueType) EnumDefinition {
	return EnumDefinition{representation: Sparse, values: slices.Clone(values)}
}

// DenseEnum defines an enumeration by ordered labels.
func DenseEnum(texts ...ua.LocalizedText) EnumDefinition {
	return EnumDefinition{representation: Dense, strings: slices.Clone(texts)}
}

// DenseEnumStrings is DenseEnum for plain strings without locale.
func DenseEnumStrings(texts ...string) EnumDefinition {
	lt := make([]ua.LocalizedText, len(texts))
	for i, t := range texts {
		lt[i] = ua.LocalizedText{Text: t}
	}
	return EnumDefinition{representation: Dense, strings: lt}
}

// Representation returns how values are encoded.
func (d EnumDefinition) Representation() Representation {
	return d.representation
}

// Len returns the number of entries.
func (d EnumDefinition) Len() int {
	if d.representation == Dense {
		return len(d.strings)
	}
	return len(d.values)
}

// Values returns the sparse value descriptors, or nil for a dense
// definition.
func (d EnumDefinition) Values() []ua.EnumValueType {
	return slices.Clone(d.values)
}

// Strings returns the dense labels, or nil for a sparse definition.
func (d EnumDefinition) Strings() []ua.LocalizedText {
	return slices.Clone(d.strings)
}

// Entries returns every entry with its value, whatever the representation.
// Dense entry i gets value i.
func (d EnumDefinition) Entries() []ua.EnumValueType {
	if d.representation == Sparse {
		return slices.Clone(d.values)
	}
	out := make([]ua.EnumValueType, len(d.strings))
	for i, s := range d.strings {
		out[i] = ua.EnumValueType{Value: int64(i), DisplayName: s}
	}
	return out
}

// Label returns the display name of value v.
func (d EnumDefinition) Label(v int64) (string, bool) {
	switch d.representation {
	case Dense:
		if v < 0 || v >= int64(len(d.strings)) {
			return "", false
		}
		return d.strings[v].Text, true
	case Sparse:
		for _, e := range d.values {
			if e.Value == v {
				return e.DisplayName.Text, true
			}
		}
	}
	return "", false
}

// AttachEnumDefinition adds the property node matching the definition's
// representation to the data type node typeID.
func AttachEnumDefinition(space *model.AddressSpace, typeID ua.NodeID, def EnumDefinition) (ua.NodeID, error) {
	if def.Len() == 0 {
		return nil, ErrEmptyEnumeration
	}
	switch def.representation {
	case Sparse:
		return space.AddEnumValuesProperty(typeID, def.values)
	case Dense:
		return space.AddEnumStringsProperty(typeID, def.strings)
	default:
		return nil, ErrUnknownEnumFormat
	}
}

// LookupEnumDefinition recovers the definition of enumeration type typeID
// by walking the address space: the type must derive from Enumeration
// through HasSubtype, and its EnumValues or EnumStrings property is found
// through HasProperty.
func LookupEnumDefinition(space *model.AddressSpace, typeID ua.NodeID) (EnumDefinition, error) {
	n, ok := space.Node(typeID)
	if !ok || n.Class() != model.NodeClassDataType || !space.IsSubtypeOf(typeID, model.EnumerationID) {
		return EnumDefinition{}, fmt.Errorf("%w: %s", ErrNotEnumeration, model.FormatNodeID(typeID))
	}

	for _, propID := range space.Browse(typeID, model.HasPropertyID, true, false) {
		prop, ok := space.Node(propID)
		if !ok {
			continue
		}
		switch prop.BrowseName().Name {
		case model.EnumValuesName:
			if values, ok := prop.Value().([]ua.EnumValueType); ok {
				return SparseEnum(values...), nil
			}
		case model.EnumStringsName:
			if texts, ok := prop.Value().([]ua.LocalizedText); ok {
				return DenseEnum(texts...), nil
			}
		}
	}
	return EnumDefinition{}, fmt.Errorf("%w: %s", ErrNoEnumDefinition, model.FormatNodeID(typeID))
}
