package model

import (
	"errors"
	"fmt"

	"github.com/awcullen/opcua/ua"
)

// Status codes returned by the address space. Values are the OPC UA
// Part 4 Annex A codes.
const (
	StatusGood                            ua.StatusCode = 0x00000000
	StatusBadInternalError                ua.StatusCode = 0x80020000
	StatusBadResourceUnavailable          ua.StatusCode = 0x80040000
	StatusBadNodeIDInvalid                ua.StatusCode = 0x80330000
	StatusBadNodeIDUnknown                ua.StatusCode = 0x80340000
	StatusBadAttributeIDInvalid           ua.StatusCode = 0x80350000
	StatusBadIndexRangeInvalid            ua.StatusCode = 0x80360000
	StatusBadNotReadable                  ua.StatusCode = 0x803A0000
	StatusBadNotWritable                  ua.StatusCode = 0x803B0000
	StatusBadNotFound                     ua.StatusCode = 0x803E0000
	StatusBadReferenceTypeIDInvalid       ua.StatusCode = 0x804C0000
	StatusBadParentNodeIDInvalid          ua.StatusCode = 0x805B0000
	StatusBadNodeIDExists                 ua.StatusCode = 0x805E0000
	StatusBadNodeClassInvalid             ua.StatusCode = 0x805F0000
	StatusBadBrowseNameInvalid            ua.StatusCode = 0x80600000
	StatusBadTypeDefinitionInvalid        ua.StatusCode = 0x80630000
	StatusBadDuplicateReferenceNotAllowed ua.StatusCode = 0x80660000
	StatusBadTypeMismatch                 ua.StatusCode = 0x80740000
)

var statusNames = map[ua.StatusCode]string{
	StatusGood:                            "Good",
	StatusBadInternalError:                "BadInternalError",
	StatusBadResourceUnavailable:          "BadResourceUnavailable",
	StatusBadNodeIDInvalid:                "BadNodeIdInvalid",
	StatusBadNodeIDUnknown:                "BadNodeIdUnknown",
	StatusBadAttributeIDInvalid:           "BadAttributeIdInvalid",
	StatusBadIndexRangeInvalid:            "BadIndexRangeInvalid",
	StatusBadNotReadable:                  "BadNotReadable",
	StatusBadNotWritable:                  "BadNotWritable",
	StatusBadNotFound:                     "BadNotFound",
	StatusBadReferenceTypeIDInvalid:       "BadReferenceTypeIdInvalid",
	StatusBadParentNodeIDInvalid:          "BadParentNodeIdInvalid",
	StatusBadNodeIDExists:                 "BadNodeIdExists",
	StatusBadNodeClassInvalid:             "BadNodeClassInvalid",
	StatusBadBrowseNameInvalid:            "BadBrowseNameInvalid",
	StatusBadTypeDefinitionInvalid:        "BadTypeDefinitionInvalid",
	StatusBadDuplicateReferenceNotAllowed: "BadDuplicateReferenceNotAllowed",
	StatusBadTypeMismatch:                 "BadTypeMismatch",
}

// StatusName returns the symbolic name of a status code.
func StatusName(code ua.StatusCode) string {
	if name, ok := statusNames[code]; ok {
		return name
	}
	return fmt.Sprintf("0x%08X", uint32(code))
}

// IsGood reports whether the severity bits of code are Good.
func IsGood(code ua.StatusCode) bool {
	return uint32(code)&0xC0000000 == 0
}

// StatusError is an error carrying the status code reported to the
// service layer.
type StatusError struct {
	Code    ua.StatusCode
	message string
	wiring  bool
}

func (e *StatusError) Error() string {
	return e.message
}

// Is makes every wiring error match ErrInvalidWiring.
func (e *StatusError) Is(target error) bool {
	return target == ErrInvalidWiring && e.wiring
}

// NewStatusError returns a sentinel error reported to the service layer
// as code.
func NewStatusError(code ua.StatusCode, message string) *StatusError {
	return newStatusError(code, message)
}

func newStatusError(code ua.StatusCode, message string) *StatusError {
	return &StatusError{Code: code, message: message}
}

func newWiringError(code ua.StatusCode, message string) *StatusError {
	return &StatusError{Code: code, message: message, wiring: true}
}

// ErrInvalidWiring matches any failure of AddNode, AddReference or
// BindDataSource caused by a malformed model definition.
var ErrInvalidWiring = errors.New("invalid wiring")

// Wiring errors.
var (
	ErrNodeIDExists           = newWiringError(StatusBadNodeIDExists, "node id already exists")
	ErrNodeIDUnknown          = newWiringError(StatusBadNodeIDUnknown, "node id unknown")
	ErrNamespaceInvalid       = newWiringError(StatusBadNodeIDInvalid, "namespace index not registered")
	ErrParentNodeIDInvalid    = newWiringError(StatusBadParentNodeIDInvalid, "parent node id invalid")
	ErrReferenceTypeIDInvalid = newWiringError(StatusBadReferenceTypeIDInvalid, "reference type id invalid")
	ErrTypeDefinitionInvalid  = newWiringError(StatusBadTypeDefinitionInvalid, "type definition invalid")
	ErrDataTypeInvalid        = newWiringError(StatusBadTypeDefinitionInvalid, "data type invalid")
	ErrNodeClassInvalid       = newWiringError(StatusBadNodeClassInvalid, "node class invalid")
	ErrBrowseNameInvalid      = newWiringError(StatusBadBrowseNameInvalid, "browse name invalid")
	ErrDuplicateReference     = newWiringError(StatusBadDuplicateReferenceNotAllowed, "duplicate reference")
	ErrTypeMismatch           = newWiringError(StatusBadTypeMismatch, "value does not match data type or value rank")
)

// Service errors.
var (
	ErrBadDataType        = newStatusError(StatusBadTypeMismatch, "array dimensions do not match value length")
	ErrNotFound           = newStatusError(StatusBadNotFound, "not found")
	ErrNotReadable        = newStatusError(StatusBadNotReadable, "value not readable")
	ErrNotWritable        = newStatusError(StatusBadNotWritable, "value not writable")
	ErrAttributeIDInvalid = newStatusError(StatusBadAttributeIDInvalid, "node has no value attribute")
	ErrIndexRangeInvalid  = newStatusError(StatusBadIndexRangeInvalid, "index range invalid")
)

// StatusCode maps an error returned by this package (or a DataSource) to
// the status code seen by the service layer.
func StatusCode(err error) ua.StatusCode {
	if err == nil {
		return StatusGood
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return StatusBadInternalError
}
