package examples

import (
	"context"
	"errors"
	"testing"

	"github.com/awcullen/opcua/ua"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/infomodel/infomodel-go/pkg/model"
	"github.com/infomodel/infomodel-go/pkg/types"
)

// mockDataSource is a model.DataSource driven by testify expectations.
type mockDataSource struct {
	mock.Mock
}

func (m *mockDataSource) Read(ctx context.Context, nodeID ua.NodeID, includeSourceTimestamp bool, rng *model.NumericRange) (model.DataValue, error) {
	args := m.Called(ctx, nodeID, includeSourceTimestamp, rng)
	return args.Get(0).(model.DataValue), args.Error(1)
}

func (m *mockDataSource) Write(ctx context.Context, nodeID ua.NodeID, rng *model.NumericRange, value model.DataValue) error {
	args := m.Called(ctx, nodeID, rng, value)
	return args.Error(0)
}

func newBuilder(t *testing.T, capacity int) *Builder {
	t.Helper()
	alloc := model.NewAllocator(model.DefaultNodeIDBase)
	space := model.NewAddressSpace(alloc, DefaultApplicationURI)
	return NewBuilder(space, types.NewRegistry(space, alloc, capacity))
}

func TestBuilderSuccess(t *testing.T) {
	b := newBuilder(t, 1)
	ns := b.Namespace("urn:test")

	folder := b.Folder(model.ObjectsFolderID, ns, "Plant")
	mode := b.Enumeration(ns, "Mode", types.DenseEnumStrings("Off", "On"))
	v := b.Variable(folder, ns, "Mode", mode, model.StaticValue(int32(1)))
	b.Reference(v, model.HasComponentID, folder, false)

	require.NoError(t, b.Err())
	require.NotNil(t, v)

	dv, err := b.Space().ReadValue(context.Background(), v, false, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1), dv.Value)
}

func TestBuilderBindMockSource(t *testing.T) {
	b := newBuilder(t, 1)
	ns := b.Namespace("urn:test")
	v := b.Variable(model.ObjectsFolderID, ns, "Level", model.Int32ID, model.StaticValue(int32(7)))

	src := &mockDataSource{}
	b.Bind(v, src)
	require.NoError(t, b.Err())

	ctx := context.Background()
	src.On("Read", ctx, v, true, (*model.NumericRange)(nil)).
		Return(model.DataValue{Value: int32(42), Status: model.StatusGood}, nil).Once()
	src.On("Write", ctx, v, (*model.NumericRange)(nil), mock.Anything).
		Return(model.ErrNotWritable).Once()

	dv, err := b.Space().ReadValue(ctx, v, true, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(42), dv.Value)
	assert.False(t, dv.ServerTimestamp.IsZero())

	err = b.Space().WriteValue(ctx, v, nil, model.DataValue{Value: int32(1)})
	assert.ErrorIs(t, err, model.ErrNotWritable)

	src.AssertExpectations(t)
}

func TestBuilderAggregatesFailures(t *testing.T) {
	b := newBuilder(t, 1)
	ns := b.Namespace("urn:test")
	missing := ua.NodeIDNumeric{NamespaceIndex: ns, ID: 1}

	b.Folder(missing, ns, "Orphan")
	b.Enumeration(ns, "A", types.DenseEnumStrings("x"))
	b.Enumeration(ns, "B", types.DenseEnumStrings("y"))
	b.Bind(model.ObjectsFolderID, &mockDataSource{})
	b.Reference(model.ObjectsFolderID, model.OrganizesID, missing, true)

	err := b.Err()
	require.Error(t, err)

	var ce *ConstructionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []string{
		"addFolder Orphan",
		"registerEnumerationType B",
		"bindDataSource i=85",
		"addReference i=85 -> ns=2;i=1",
	}, ce.Ops)
	assert.Len(t, ce.Unwrap(), 4)

	assert.ErrorIs(t, err, model.ErrInvalidWiring)
	assert.ErrorIs(t, err, model.ErrParentNodeIDInvalid)
	assert.ErrorIs(t, err, types.ErrRegistryFull)
	assert.ErrorIs(t, err, model.ErrNodeClassInvalid)
	assert.ErrorIs(t, err, model.ErrNodeIDUnknown)
	assert.Contains(t, err.Error(), "model construction failed (4)")
}

func TestBuilderEmptyEnumeration(t *testing.T) {
	b := newBuilder(t, 2)
	ns := b.Namespace("urn:test")

	id := b.Enumeration(ns, "Empty", types.SparseEnum())
	assert.Nil(t, id)

	var ce *ConstructionError
	require.ErrorAs(t, b.Err(), &ce)
	assert.Equal(t, []string{"add sparse property Empty"}, ce.Ops)
	assert.ErrorIs(t, b.Err(), types.ErrEmptyEnumeration)
}
