package model

import (
	"github.com/awcullen/opcua/ua"
)

// Property browse names of enumeration data types.
const (
	EnumValuesName  = "EnumValues"
	EnumStringsName = "EnumStrings"
)

// AddFolder adds a Folder object named name under parent via Organizes.
// Its id is allocated in namespace ns.
func (s *AddressSpace) AddFolder(parent ua.NodeID, ns uint16, name string) (ua.NodeID, error) {
	attrs := s.GetDefaultAttributes(NodeClassObject)
	attrs.DisplayName = ua.LocalizedText{Text: name}
	return s.AddNode(AddNodeRequest{
		Class:           NodeClassObject,
		ParentID:        parent,
		ReferenceTypeID: OrganizesID,
		BrowseName:      ua.QualifiedName{NamespaceIndex: ns, Name: name},
		TypeDefinition:  FolderTypeID,
		Attributes:      attrs,
	})
}

// AddDataTypeNode adds a DataType node with id as a HasSubtype child of
// parent.
func (s *AddressSpace) AddDataTypeNode(id, parent ua.NodeID, browseName ua.QualifiedName, displayName string) (ua.NodeID, error) {
	attrs := s.GetDefaultAttributes(NodeClassDataType)
	attrs.DisplayName = ua.LocalizedText{Text: displayName}
	return s.AddNode(AddNodeRequest{
		Class:           NodeClassDataType,
		RequestedID:     id,
		ParentID:        parent,
		ReferenceTypeID: HasSubtypeID,
		BrowseName:      browseName,
		Attributes:      attrs,
	})
}

// AddEnumValuesProperty adds the read-only EnumValues property of an
// enumeration data type. The array dimension is fixed to len(values).
func (s *AddressSpace) AddEnumValuesProperty(parent ua.NodeID, values []ua.EnumValueType) (ua.NodeID, error) {
	return s.addProperty(parent, EnumValuesName, EnumValueTypeID, uint32(len(values)), values)
}

// AddEnumStringsProperty adds the read-only EnumStrings property of an
// enumeration data type. The array dimension is left open (0).
func (s *AddressSpace) AddEnumStringsProperty(parent ua.NodeID, texts []ua.LocalizedText) (ua.NodeID, error) {
	return s.addProperty(parent, EnumStringsName, LocalizedTextID, 0, texts)
}

func (s *AddressSpace) addProperty(parent ua.NodeID, name string, dataType ua.NodeID, dim uint32, value any) (ua.NodeID, error) {
	attrs := s.GetDefaultAttributes(NodeClassVariable)
	attrs.DisplayName = ua.LocalizedText{Text: name}
	attrs.DataType = dataType
	attrs.ValueRank = ValueRankOneDimension
	attrs.ArrayDimensions = []uint32{dim}
	attrs.AccessLevel = AccessLevelCurrentRead
	attrs.Value = value

	return s.AddNode(AddNodeRequest{
		Class:           NodeClassVariable,
		RequestedID:     s.alloc.Next(NamespaceOf(parent)),
		ParentID:        parent,
		ReferenceTypeID: HasPropertyID,
		BrowseName:      ua.QualifiedName{NamespaceIndex: 0, Name: name},
		TypeDefinition:  PropertyTypeID,
		Attributes:      attrs,
	})
}

// ValueBinding is where a variable's value lives: a stored static value or
// a DataSource.
type ValueBinding struct {
	static any
	source DataSource
}

// StaticValue binds a variable to a stored value.
func StaticValue(v any) ValueBinding {
	return ValueBinding{static: v}
}

// BoundTo binds a variable to src.
func BoundTo(src DataSource) ValueBinding {
	return ValueBinding{source: src}
}

// Source returns the DataSource, or nil for a static binding.
func (b ValueBinding) Source() DataSource {
	return b.source
}

// AddVariableNode adds a scalar read/write variable of dataType named name
// under parent via Organizes. Its id is allocated in namespace ns.
//
// A variable bound to a DataSource still stores an initial zero value when
// its data type is carried as int32.
func (s *AddressSpace) AddVariableNode(parent ua.NodeID, ns uint16, name string, dataType ua.NodeID, binding ValueBinding) (ua.NodeID, error) {
	attrs := s.GetDefaultAttributes(NodeClassVariable)
	attrs.DisplayName = ua.LocalizedText{Text: name}
	attrs.DataType = dataType
	attrs.ValueRank = ValueRankScalar
	attrs.AccessLevel = AccessLevelReadWrite
	attrs.Value = binding.static
	if binding.source != nil && s.carriedAsInt32(dataType) {
		attrs.Value = int32(0)
	}

	return s.AddNode(AddNodeRequest{
		Class:           NodeClassVariable,
		ParentID:        parent,
		ReferenceTypeID: OrganizesID,
		BrowseName:      ua.QualifiedName{NamespaceIndex: ns, Name: name},
		TypeDefinition:  BaseDataVariableTypeID,
		Attributes:      attrs,
		DataSource:      binding.source,
	})
}

func (s *AddressSpace) carriedAsInt32(dataType ua.NodeID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.goTypeLocked(dataType) == int32Type
}
