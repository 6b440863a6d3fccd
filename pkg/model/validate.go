package model

import (
	"fmt"
	"reflect"

	"github.com/awcullen/opcua/ua"
)

var (
	boolType          = reflect.TypeFor[bool]()
	int32Type         = reflect.TypeFor[int32]()
	stringType        = reflect.TypeFor[string]()
	localizedTextType = reflect.TypeFor[ua.LocalizedText]()
	enumValueTypeType = reflect.TypeFor[ua.EnumValueType]()
)

// goTypeLocked returns the Go type that carries values of dataType, or nil
// when values are not checked (abstract or structured types this address
// space knows nothing about).
func (s *AddressSpace) goTypeLocked(dataType ua.NodeID) reflect.Type {
	switch {
	case dataType == BooleanID:
		return boolType
	case dataType == Int32ID:
		return int32Type
	case dataType == StringID:
		return stringType
	case dataType == LocalizedTextID:
		return localizedTextType
	case dataType == EnumValueTypeID:
		return enumValueTypeType
	case s.isSubtypeLocked(dataType, EnumerationID):
		return int32Type
	default:
		return nil
	}
}

// checkValueLocked validates v against the variable's data type, value rank
// and array dimensions. A nil value is always accepted.
func (s *AddressSpace) checkValueLocked(n *Node, v any) error {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	isArray := rv.Kind() == reflect.Slice

	switch n.valueRank {
	case ValueRankScalar:
		if isArray {
			return fmt.Errorf("%w: array value for scalar variable", ErrTypeMismatch)
		}
	case ValueRankOneDimension, ValueRankOneOrMoreDimensions:
		if !isArray {
			return fmt.Errorf("%w: scalar value for array variable", ErrTypeMismatch)
		}
	}

	if isArray {
		if err := checkDimensions(n, rv.Len()); err != nil {
			return err
		}
	}

	want := s.goTypeLocked(n.dataType)
	if want == nil {
		return nil
	}
	got := rv.Type()
	if isArray {
		got = got.Elem()
	}
	if got != want {
		return fmt.Errorf("%w: %s value for %s variable", ErrTypeMismatch, got, FormatNodeID(n.dataType))
	}
	return nil
}

// checkDimensions checks a one-dimensional value of length n against the
// declared dimensions. A declared length of 0 means any length.
func checkDimensions(n *Node, length int) error {
	dims := n.arrayDimensions
	if len(dims) == 0 {
		return nil
	}
	if n.valueRank > 0 && len(dims) != int(n.valueRank) {
		return fmt.Errorf("%w: %d dimensions for value rank %d", ErrBadDataType, len(dims), n.valueRank)
	}
	if dims[0] != 0 && int(dims[0]) != length {
		return fmt.Errorf("%w: declared %d, value has %d", ErrBadDataType, dims[0], length)
	}
	return nil
}
