package model

import (
	"github.com/awcullen/opcua/ua"
)

// StandardNamespaceURI is the URI of namespace 0.
const StandardNamespaceURI = "http://opcfoundation.org/UA/"

func ns0(id uint32) ua.NodeIDNumeric {
	return ua.NodeIDNumeric{NamespaceIndex: 0, ID: id}
}

// Standard data types.
var (
	BooleanID       = ns0(1)
	Int32ID         = ns0(6)
	StringID        = ns0(12)
	LocalizedTextID = ns0(21)
	StructureID     = ns0(22)
	BaseDataTypeID  = ns0(24)
	NumberID        = ns0(26)
	IntegerID       = ns0(27)
	EnumerationID   = ns0(29)
	EnumValueTypeID = ns0(7594)
)

// Standard reference types.
var (
	ReferencesID                = ns0(31)
	NonHierarchicalReferencesID = ns0(32)
	HierarchicalReferencesID    = ns0(33)
	HasChildID                  = ns0(34)
	OrganizesID                 = ns0(35)
	HasTypeDefinitionID         = ns0(40)
	AggregatesID                = ns0(44)
	HasSubtypeID                = ns0(45)
	HasPropertyID               = ns0(46)
	HasComponentID              = ns0(47)
)

// Standard object and variable types.
var (
	BaseObjectTypeID       = ns0(58)
	FolderTypeID           = ns0(61)
	BaseVariableTypeID     = ns0(62)
	BaseDataVariableTypeID = ns0(63)
	PropertyTypeID         = ns0(68)
)

// Standard objects.
var (
	RootFolderID    = ns0(84)
	ObjectsFolderID = ns0(85)
	TypesFolderID   = ns0(86)
)

type seedNode struct {
	id       ua.NodeIDNumeric
	class    NodeClass
	name     string
	parent   ua.NodeID
	refType  ua.NodeID
	abstract bool
}

// standardNodes is the namespace-0 subset the address space is seeded
// with. Parents precede children.
var standardNodes = []seedNode{
	{ReferencesID, NodeClassReferenceType, "References", nil, nil, true},
	{HierarchicalReferencesID, NodeClassReferenceType, "HierarchicalReferences", ReferencesID, HasSubtypeID, true},
	{NonHierarchicalReferencesID, NodeClassReferenceType, "NonHierarchicalReferences", ReferencesID, HasSubtypeID, true},
	{HasChildID, NodeClassReferenceType, "HasChild", HierarchicalReferencesID, HasSubtypeID, true},
	{OrganizesID, NodeClassReferenceType, "Organizes", HierarchicalReferencesID, HasSubtypeID, false},
	{AggregatesID, NodeClassReferenceType, "Aggregates", HasChildID, HasSubtypeID, true},
	{HasSubtypeID, NodeClassReferenceType, "HasSubtype", HasChildID, HasSubtypeID, false},
	{HasPropertyID, NodeClassReferenceType, "HasProperty", AggregatesID, HasSubtypeID, false},
	{HasComponentID, NodeClassReferenceType, "HasComponent", AggregatesID, HasSubtypeID, false},
	{HasTypeDefinitionID, NodeClassReferenceType, "HasTypeDefinition", NonHierarchicalReferencesID, HasSubtypeID, false},

	{BaseDataTypeID, NodeClassDataType, "BaseDataType", nil, nil, true},
	{BooleanID, NodeClassDataType, "Boolean", BaseDataTypeID, HasSubtypeID, false},
	{StringID, NodeClassDataType, "String", BaseDataTypeID, HasSubtypeID, false},
	{LocalizedTextID, NodeClassDataType, "LocalizedText", BaseDataTypeID, HasSubtypeID, false},
	{NumberID, NodeClassDataType, "Number", BaseDataTypeID, HasSubtypeID, true},
	{IntegerID, NodeClassDataType, "Integer", NumberID, HasSubtypeID, true},
	{Int32ID, NodeClassDataType, "Int32", IntegerID, HasSubtypeID, false},
	{StructureID, NodeClassDataType, "Structure", BaseDataTypeID, HasSubtypeID, true},
	{EnumValueTypeID, NodeClassDataType, "EnumValueType", StructureID, HasSubtypeID, false},
	{EnumerationID, NodeClassDataType, "Enumeration", BaseDataTypeID, HasSubtypeID, true},

	{BaseObjectTypeID, NodeClassObjectType, "BaseObjectType", nil, nil, false},
	{FolderTypeID, NodeClassObjectType, "FolderType", BaseObjectTypeID, HasSubtypeID, false},
	{BaseVariableTypeID, NodeClassVariableType, "BaseVariableType", nil, nil, true},
	{BaseDataVariableTypeID, NodeClassVariableType, "BaseDataVariableType", BaseVariableTypeID, HasSubtypeID, false},
	{PropertyTypeID, NodeClassVariableType, "PropertyType", BaseVariableTypeID, HasSubtypeID, false},

	{RootFolderID, NodeClassObject, "Root", nil, nil, false},
	{ObjectsFolderID, NodeClassObject, "Objects", RootFolderID, OrganizesID, false},
	{TypesFolderID, NodeClassObject, "Types", RootFolderID, OrganizesID, false},
}

// seedStandardNodes inserts the namespace-0 nodes without validation.
func (s *AddressSpace) seedStandardNodes() {
	for _, sn := range standardNodes {
		n := &Node{
			id:          sn.id,
			class:       sn.class,
			browseName:  ua.QualifiedName{NamespaceIndex: 0, Name: sn.name},
			displayName: ua.LocalizedText{Text: sn.name},
			isAbstract:  sn.abstract,
		}
		s.insertLocked(n)
		if sn.parent != nil {
			link(s.nodes[sn.parent], n, sn.refType, true)
		}
	}
	for _, id := range []ua.NodeID{RootFolderID, ObjectsFolderID, TypesFolderID} {
		n := s.nodes[id]
		n.typeDefinition = FolderTypeID
		link(n, s.nodes[FolderTypeID], HasTypeDefinitionID, true)
	}
}
