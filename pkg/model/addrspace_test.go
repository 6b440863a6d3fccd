package model

import (
	"errors"
	"testing"

	"github.com/awcullen/opcua/ua"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infomodel/infomodel-go/pkg/log"
)

const seedCount = 28

type captureLogger struct {
	events []log.Event
}

func (c *captureLogger) Log(e log.Event) { c.events = append(c.events, e) }

func newTestSpace(t *testing.T) (*AddressSpace, uint16) {
	t.Helper()
	space := NewAddressSpace(NewAllocator(DefaultNodeIDBase), "urn:test:app")
	ns := space.AddNamespace("http://example.org/test/")
	return space, ns
}

func TestNewAddressSpaceSeed(t *testing.T) {
	space, _ := newTestSpace(t)

	assert.Equal(t, seedCount, space.Len())
	assert.Equal(t, []string{StandardNamespaceURI, "urn:test:app", "http://example.org/test/"}, space.Namespaces())

	objects, ok := space.Node(ObjectsFolderID)
	require.True(t, ok)
	assert.Equal(t, NodeClassObject, objects.Class())
	assert.Equal(t, "Objects", objects.BrowseName().Name)
	assert.Equal(t, FolderTypeID, objects.TypeDefinition())
	assert.Equal(t, []ua.NodeID{RootFolderID}, space.Browse(ObjectsFolderID, OrganizesID, false, false))

	assert.True(t, space.IsSubtypeOf(Int32ID, BaseDataTypeID))
	assert.True(t, space.IsSubtypeOf(HasPropertyID, HierarchicalReferencesID))
	assert.False(t, space.IsSubtypeOf(HasTypeDefinitionID, HierarchicalReferencesID))
	assert.True(t, space.IsSubtypeOf(EnumerationID, EnumerationID))
	assert.False(t, space.IsSubtypeOf(Int32ID, EnumerationID))
}

func TestAddNamespace(t *testing.T) {
	space, ns := newTestSpace(t)

	assert.Equal(t, uint16(2), ns)
	assert.Equal(t, ns, space.AddNamespace("http://example.org/test/"), "registering twice returns the same index")
	assert.Equal(t, uint16(3), space.AddNamespace("urn:other"))

	idx, ok := space.NamespaceIndex("urn:test:app")
	assert.True(t, ok)
	assert.Equal(t, uint16(1), idx)
	_, ok = space.NamespaceIndex("urn:missing")
	assert.False(t, ok)
}

func TestAddFolder(t *testing.T) {
	space, ns := newTestSpace(t)

	id, err := space.AddFolder(ObjectsFolderID, ns, "MyFolder")
	require.NoError(t, err)
	assert.Equal(t, ua.NodeIDNumeric{NamespaceIndex: ns, ID: 0x80000001}, id)

	n, ok := space.Node(id)
	require.True(t, ok)
	assert.Equal(t, ua.QualifiedName{NamespaceIndex: ns, Name: "MyFolder"}, n.BrowseName())
	assert.Equal(t, "MyFolder", n.DisplayName().Text)
	assert.Equal(t, FolderTypeID, n.TypeDefinition())

	// Both ends record each reference.
	assert.Contains(t, n.References(), Reference{ReferenceTypeID: OrganizesID, IsForward: false, TargetID: ObjectsFolderID})
	assert.Contains(t, n.References(), Reference{ReferenceTypeID: HasTypeDefinitionID, IsForward: true, TargetID: FolderTypeID})
	assert.Contains(t, space.Browse(ObjectsFolderID, OrganizesID, true, false), ua.NodeID(id))
	assert.Contains(t, space.Browse(FolderTypeID, HasTypeDefinitionID, false, false), ua.NodeID(id))

	assert.Equal(t, seedCount+1, space.Len())
	nodes := space.Nodes()
	assert.Equal(t, ua.NodeID(id), nodes[len(nodes)-1].ID(), "creation order")
}

func TestAddNodeWiringErrors(t *testing.T) {
	space, ns := newTestSpace(t)
	folder, err := space.AddFolder(ObjectsFolderID, ns, "Folder")
	require.NoError(t, err)

	variable := func(mod func(*AddNodeRequest)) AddNodeRequest {
		attrs := DefaultAttributes(NodeClassVariable)
		attrs.DataType = Int32ID
		attrs.ValueRank = ValueRankScalar
		req := AddNodeRequest{
			Class:           NodeClassVariable,
			ParentID:        folder,
			ReferenceTypeID: OrganizesID,
			BrowseName:      ua.QualifiedName{NamespaceIndex: ns, Name: "V"},
			Attributes:      attrs,
		}
		mod(&req)
		return req
	}

	tests := []struct {
		name string
		req  AddNodeRequest
		want error
	}{
		{"ReferenceTypeClass", variable(func(r *AddNodeRequest) { r.Class = NodeClassReferenceType }), ErrNodeClassInvalid},
		{"EmptyBrowseName", variable(func(r *AddNodeRequest) { r.BrowseName.Name = "" }), ErrBrowseNameInvalid},
		{"UnknownNamespace", variable(func(r *AddNodeRequest) { r.BrowseName.NamespaceIndex = 9 }), ErrNamespaceInvalid},
		{"RequestedUnknownNamespace", variable(func(r *AddNodeRequest) { r.RequestedID = ua.NodeIDNumeric{NamespaceIndex: 7, ID: 1} }), ErrNamespaceInvalid},
		{"ExistingID", variable(func(r *AddNodeRequest) { r.RequestedID = folder }), ErrNodeIDExists},
		{"UnknownParent", variable(func(r *AddNodeRequest) { r.ParentID = ua.NodeIDNumeric{NamespaceIndex: ns, ID: 1} }), ErrParentNodeIDInvalid},
		{"NonHierarchicalReference", variable(func(r *AddNodeRequest) { r.ReferenceTypeID = HasTypeDefinitionID }), ErrReferenceTypeIDInvalid},
		{"ReferenceTypeNotAType", variable(func(r *AddNodeRequest) { r.ReferenceTypeID = ObjectsFolderID }), ErrReferenceTypeIDInvalid},
		{"ObjectTypeAsVariableType", variable(func(r *AddNodeRequest) { r.TypeDefinition = FolderTypeID }), ErrTypeDefinitionInvalid},
		{"UnknownDataType", variable(func(r *AddNodeRequest) { r.Attributes.DataType = ua.NodeIDNumeric{ID: 99999} }), ErrDataTypeInvalid},
		{"ObjectAsDataType", variable(func(r *AddNodeRequest) { r.Attributes.DataType = ObjectsFolderID }), ErrDataTypeInvalid},
		{"ValueTypeMismatch", variable(func(r *AddNodeRequest) { r.Attributes.Value = "seven" }), ErrTypeMismatch},
		{"ArrayForScalar", variable(func(r *AddNodeRequest) { r.Attributes.Value = []int32{1} }), ErrTypeMismatch},
		{"ScalarForArray", variable(func(r *AddNodeRequest) {
			r.Attributes.ValueRank = ValueRankOneDimension
			r.Attributes.Value = int32(1)
		}), ErrTypeMismatch},
		{"DimensionMismatch", variable(func(r *AddNodeRequest) {
			r.Attributes.ValueRank = ValueRankOneDimension
			r.Attributes.ArrayDimensions = []uint32{3}
			r.Attributes.Value = []int32{1, 2}
		}), ErrBadDataType},
		{"DataTypeUnderObject", AddNodeRequest{
			Class:           NodeClassDataType,
			RequestedID:     ua.NodeIDNumeric{NamespaceIndex: ns, ID: 5},
			ParentID:        folder,
			ReferenceTypeID: HasSubtypeID,
			BrowseName:      ua.QualifiedName{NamespaceIndex: ns, Name: "T"},
		}, ErrParentNodeIDInvalid},
		{"DataTypeViaOrganizes", AddNodeRequest{
			Class:           NodeClassDataType,
			RequestedID:     ua.NodeIDNumeric{NamespaceIndex: ns, ID: 6},
			ParentID:        EnumerationID,
			ReferenceTypeID: OrganizesID,
			BrowseName:      ua.QualifiedName{NamespaceIndex: ns, Name: "T"},
		}, ErrReferenceTypeIDInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := space.Len()
			id, err := space.AddNode(tt.req)
			require.Error(t, err)
			assert.Nil(t, id)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidWiring)
			assert.Equal(t, before, space.Len(), "failed AddNode must not insert")
		})
	}
}

func TestAddNodeDefaults(t *testing.T) {
	space, ns := newTestSpace(t)

	id, err := space.AddNode(AddNodeRequest{
		Class:           NodeClassVariable,
		ParentID:        ObjectsFolderID,
		ReferenceTypeID: HasComponentID,
		BrowseName:      ua.QualifiedName{NamespaceIndex: ns, Name: "Any"},
		Attributes:      Attributes{},
	})
	require.NoError(t, err)

	n, _ := space.Node(id)
	assert.Equal(t, "Any", n.DisplayName().Text, "display name defaults to the browse name")
	assert.Equal(t, BaseDataTypeID, n.DataType(), "nil data type defaults to BaseDataType")
	assert.Equal(t, BaseDataVariableTypeID, n.TypeDefinition())
	assert.Nil(t, n.Value())
	assert.False(t, n.HasDataSource())

	obj, err := space.AddNode(AddNodeRequest{
		Class:           NodeClassObject,
		ParentID:        ObjectsFolderID,
		ReferenceTypeID: OrganizesID,
		BrowseName:      ua.QualifiedName{NamespaceIndex: ns, Name: "Thing"},
		Attributes:      Attributes{EventNotifier: 1},
	})
	require.NoError(t, err)
	on, _ := space.Node(obj)
	assert.Equal(t, BaseObjectTypeID, on.TypeDefinition())
	assert.Equal(t, uint8(1), on.EventNotifier())
}

func TestDefaultAttributes(t *testing.T) {
	v := DefaultAttributes(NodeClassVariable)
	assert.Equal(t, BaseDataTypeID, v.DataType)
	assert.Equal(t, ValueRankAny, v.ValueRank)
	assert.Equal(t, AccessLevelCurrentRead, v.AccessLevel)

	assert.Equal(t, Attributes{}, DefaultAttributes(NodeClassObject))
}

func TestAddDataTypeAndProperties(t *testing.T) {
	space, ns := newTestSpace(t)
	typeID := space.Allocator().Next(ns)

	id, err := space.AddDataTypeNode(typeID, EnumerationID, ua.QualifiedName{NamespaceIndex: ns, Name: "Colour"}, "Colour")
	require.NoError(t, err)
	assert.Equal(t, ua.NodeID(typeID), id)
	assert.True(t, space.IsSubtypeOf(typeID, EnumerationID))
	assert.True(t, space.IsSubtypeOf(typeID, BaseDataTypeID))

	values := []ua.EnumValueType{
		{Value: 0, DisplayName: ua.LocalizedText{Text: "Red"}},
		{Value: 4, DisplayName: ua.LocalizedText{Text: "Blue"}},
	}
	prop, err := space.AddEnumValuesProperty(typeID, values)
	require.NoError(t, err)
	assert.Equal(t, ua.NodeIDNumeric{NamespaceIndex: ns, ID: typeID.ID + 1}, prop)

	n, _ := space.Node(prop)
	assert.Equal(t, ua.QualifiedName{Name: EnumValuesName}, n.BrowseName())
	assert.Equal(t, EnumValueTypeID, n.DataType())
	assert.Equal(t, ValueRankOneDimension, n.ValueRank())
	assert.Equal(t, []uint32{2}, n.ArrayDimensions())
	assert.Equal(t, AccessLevelCurrentRead, n.AccessLevel())
	assert.Equal(t, PropertyTypeID, n.TypeDefinition())
	assert.Equal(t, []ua.NodeID{prop}, space.Browse(typeID, HasPropertyID, true, false))

	// A variable of the new type carries int32.
	v, err := space.AddVariableNode(ObjectsFolderID, ns, "Paint", typeID, StaticValue(int32(4)))
	require.NoError(t, err)
	_, err = space.AddVariableNode(ObjectsFolderID, ns, "Bad", typeID, StaticValue(int64(4)))
	assert.ErrorIs(t, err, ErrTypeMismatch)
	vn, _ := space.Node(v)
	assert.Equal(t, int32(4), vn.Value())
	assert.Equal(t, AccessLevelReadWrite, vn.AccessLevel())

	strs, err := space.AddEnumStringsProperty(typeID, []ua.LocalizedText{{Text: "a"}})
	require.NoError(t, err)
	sn, _ := space.Node(strs)
	assert.Equal(t, []uint32{0}, sn.ArrayDimensions(), "open length")
	assert.Equal(t, LocalizedTextID, sn.DataType())
}

func TestAddNodeTrace(t *testing.T) {
	space, ns := newTestSpace(t)
	logger := &captureLogger{}
	space.SetLogger(logger)

	id, err := space.AddFolder(ObjectsFolderID, ns, "Traced")
	require.NoError(t, err)
	_, err = space.AddFolder(ua.NodeIDNumeric{NamespaceIndex: ns, ID: 1}, ns, "Orphan")
	require.Error(t, err)

	require.Len(t, logger.events, 2)
	ok, failed := logger.events[0], logger.events[1]
	assert.Equal(t, log.CategoryConstruction, ok.Category)
	assert.Equal(t, log.OpAddNode, ok.Operation)
	assert.Equal(t, FormatNodeID(id), ok.NodeID)
	assert.Equal(t, StatusGood, ok.Status)
	assert.NotEmpty(t, ok.CallID)

	assert.True(t, failed.Failed())
	assert.Equal(t, StatusBadParentNodeIDInvalid, failed.Status)
	assert.Contains(t, failed.Message, "parent")

	space.SetLogger(nil)
	_, err = space.AddFolder(ObjectsFolderID, ns, "Untraced")
	require.NoError(t, err)
	assert.Len(t, logger.events, 2)
}

func TestNodeClassAndAccessStrings(t *testing.T) {
	assert.Equal(t, "DataType", NodeClassDataType.String())
	assert.Equal(t, "Unspecified", NodeClass(42).String())
	assert.Equal(t, "RW", AccessLevelReadWrite.String())
	assert.Equal(t, "R", AccessLevelCurrentRead.String())
	assert.Equal(t, "-", AccessLevel(0).String())
	assert.True(t, errors.Is(ErrTypeMismatch, ErrInvalidWiring))
}

func TestAddReference(t *testing.T) {
	space, ns := newTestSpace(t)
	a, err := space.AddFolder(ObjectsFolderID, ns, "A")
	require.NoError(t, err)
	b, err := space.AddFolder(ObjectsFolderID, ns, "B")
	require.NoError(t, err)

	require.NoError(t, space.AddReference(a, OrganizesID, b, true))
	assert.Equal(t, []ua.NodeID{b}, space.Browse(a, OrganizesID, true, false))
	assert.Contains(t, space.Browse(b, OrganizesID, false, false), a)
	assert.Contains(t, space.Browse(a, HierarchicalReferencesID, true, true), b)
	assert.Empty(t, space.Browse(a, HierarchicalReferencesID, true, false), "subtypes only when asked")

	// The inverse direction is recorded the other way round.
	require.NoError(t, space.AddReference(a, HasComponentID, b, false))
	assert.Equal(t, []ua.NodeID{a}, space.Browse(b, HasComponentID, true, false))

	missing := ua.NodeIDNumeric{NamespaceIndex: ns, ID: 77}
	tests := []struct {
		name             string
		src, ref, target ua.NodeID
		want             error
	}{
		{"Duplicate", a, OrganizesID, b, ErrDuplicateReference},
		{"UnknownSource", missing, OrganizesID, b, ErrNodeIDUnknown},
		{"UnknownTarget", a, OrganizesID, missing, ErrNodeIDUnknown},
		{"NotAReferenceType", a, FolderTypeID, b, ErrReferenceTypeIDInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := space.AddReference(tt.src, tt.ref, tt.target, true)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidWiring)
		})
	}

	assert.Nil(t, space.Browse(missing, OrganizesID, true, false))
}
