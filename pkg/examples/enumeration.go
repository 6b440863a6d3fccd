package examples

import (
	"errors"
	"fmt"

	"github.com/awcullen/opcua/ua"
	"go.uber.org/multierr"

	"github.com/infomodel/infomodel-go/pkg/datasource"
	"github.com/infomodel/infomodel-go/pkg/log"
	"github.com/infomodel/infomodel-go/pkg/model"
	"github.com/infomodel/infomodel-go/pkg/types"
)

// Defaults of the enumeration example.
const (
	DefaultApplicationURI   = "urn:infomodel:server"
	DefaultNamespaceURI     = "http://yourorganisation.org/test/"
	DefaultRegistryCapacity = 2
	DefaultEnumValuesLen    = 5
)

// Browse names of the enumeration example.
const (
	FolderName                = "MyFolder"
	EnumValueTypeName         = "CustomEnumValueType"
	LocalizedTextTypeName     = "CustomLocalizedTextType"
	EnumValueTypeVariableName = "EnumValueTypeVariable"
	LocalizedTextVariableName = "LocalizedTextVariable"
)

// EnumerationConfig contains configuration for the enumeration example.
// Zero fields take the defaults above.
type EnumerationConfig struct {
	ApplicationURI   string
	NamespaceURI     string
	NodeIDBase       uint32
	RegistryCapacity int
	EnumValuesLen    int

	// Logger traces construction and service calls. Nil disables tracing.
	Logger log.Logger
}

func (c EnumerationConfig) withDefaults() EnumerationConfig {
	if c.ApplicationURI == "" {
		c.ApplicationURI = DefaultApplicationURI
	}
	if c.NamespaceURI == "" {
		c.NamespaceURI = DefaultNamespaceURI
	}
	if c.NodeIDBase == 0 {
		c.NodeIDBase = model.DefaultNodeIDBase
	}
	if c.RegistryCapacity == 0 {
		c.RegistryCapacity = DefaultRegistryCapacity
	}
	if c.EnumValuesLen == 0 {
		c.EnumValuesLen = DefaultEnumValuesLen
	}
	return c
}

// Configuration errors of the enumeration example.
var (
	ErrEnumValuesLen    = errors.New("enum values length must not be negative")
	ErrRegistryCapacity = errors.New("registry capacity must not be negative")
)

func (c EnumerationConfig) validate() error {
	var err error
	if c.EnumValuesLen < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: %d", ErrEnumValuesLen, c.EnumValuesLen))
	}
	if c.RegistryCapacity < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: %d", ErrRegistryCapacity, c.RegistryCapacity))
	}
	return err
}

// EnumerationModel is a server model with two custom enumeration types and
// one variable of each:
//
//   - CustomEnumValueType, sparse, labels "EnumValue i" / "Description i"
//   - CustomLocalizedTextType, dense, labels "EnumString i"
//
// Both variables live in MyFolder under Objects and are bound to one
// Cycling data source, so consecutive reads of either step through every
// label.
type EnumerationModel struct {
	Space    *model.AddressSpace
	Registry *types.Registry
	Source   *datasource.Cycling

	Namespace uint16

	Folder                ua.NodeID
	EnumValueType         ua.NodeID
	LocalizedTextType     ua.NodeID
	EnumValueTypeVariable ua.NodeID
	LocalizedTextVariable ua.NodeID
}

// NewEnumerationModel builds the enumeration example. Negative lengths or
// capacities are rejected before anything is built. It returns a
// *ConstructionError naming every failed step when the model could not be
// assembled.
func NewEnumerationModel(cfg EnumerationConfig) (*EnumerationModel, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	alloc := model.NewAllocator(cfg.NodeIDBase)
	space := model.NewAddressSpace(alloc, cfg.ApplicationURI)
	space.SetLogger(cfg.Logger)
	registry := types.NewRegistry(space, alloc, cfg.RegistryCapacity)
	registry.SetLogger(cfg.Logger)

	m := &EnumerationModel{
		Space:    space,
		Registry: registry,
		Source:   datasource.NewCycling(uint32(cfg.EnumValuesLen)),
	}

	b := NewBuilder(space, registry)
	m.Namespace = b.Namespace(cfg.NamespaceURI)
	m.Folder = b.Folder(model.ObjectsFolderID, m.Namespace, FolderName)

	m.EnumValueType = b.Enumeration(m.Namespace, EnumValueTypeName, SparseLabels(cfg.EnumValuesLen))
	m.EnumValueTypeVariable = b.Variable(m.Folder, m.Namespace, EnumValueTypeVariableName,
		m.EnumValueType, model.BoundTo(m.Source))

	m.LocalizedTextType = b.Enumeration(m.Namespace, LocalizedTextTypeName, DenseLabels(cfg.EnumValuesLen))
	m.LocalizedTextVariable = b.Variable(m.Folder, m.Namespace, LocalizedTextVariableName,
		m.LocalizedTextType, model.BoundTo(m.Source))

	if err := b.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// SparseLabels returns n entries with values 0..n-1 labelled "EnumValue i"
// and described "Description i".
func SparseLabels(n int) types.EnumDefinition {
	values := make([]ua.EnumValueType, max(n, 0))
	for i := range values {
		values[i] = ua.EnumValueType{
			Value:       int64(i),
			DisplayName: ua.LocalizedText{Text: fmt.Sprintf("EnumValue %d", i)},
			Description: ua.LocalizedText{Text: fmt.Sprintf("Description %d", i)},
		}
	}
	return types.SparseEnum(values...)
}

// DenseLabels returns n labels "EnumString i".
func DenseLabels(n int) types.EnumDefinition {
	texts := make([]string, max(n, 0))
	for i := range texts {
		texts[i] = fmt.Sprintf("EnumString %d", i)
	}
	return types.DenseEnumStrings(texts...)
}

// Variables returns the two bound variables.
func (m *EnumerationModel) Variables() []ua.NodeID {
	return []ua.NodeID{m.EnumValueTypeVariable, m.LocalizedTextVariable}
}
