package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/awcullen/opcua/ua"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ua.StatusCode
	}{
		{"Nil", nil, StatusGood},
		{"NotFound", ErrNotFound, StatusBadNotFound},
		{"WrappedNotFound", fmt.Errorf("write: %w", ErrNotFound), StatusBadNotFound},
		{"NotWritable", ErrNotWritable, StatusBadNotWritable},
		{"IndexRange", ErrIndexRangeInvalid, StatusBadIndexRangeInvalid},
		{"ParentInvalid", ErrParentNodeIDInvalid, StatusBadParentNodeIDInvalid},
		{"DuplicateReference", ErrDuplicateReference, StatusBadDuplicateReferenceNotAllowed},
		{"BadDataType", ErrBadDataType, StatusBadTypeMismatch},
		{"Custom", NewStatusError(StatusBadResourceUnavailable, "full"), StatusBadResourceUnavailable},
		{"Unknown", errors.New("boom"), StatusBadInternalError},
		{"InvalidWiringItself", ErrInvalidWiring, StatusBadInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.want {
				t.Errorf("StatusCode = 0x%08X, want 0x%08X", uint32(got), uint32(tt.want))
			}
		})
	}
}

func TestWiringErrorsMatchInvalidWiring(t *testing.T) {
	wiring := []error{
		ErrNodeIDExists, ErrNodeIDUnknown, ErrNamespaceInvalid, ErrParentNodeIDInvalid,
		ErrReferenceTypeIDInvalid, ErrTypeDefinitionInvalid, ErrDataTypeInvalid,
		ErrNodeClassInvalid, ErrBrowseNameInvalid, ErrDuplicateReference,
		ErrTypeMismatch,
	}
	for _, err := range wiring {
		if !errors.Is(fmt.Errorf("ctx: %w", err), ErrInvalidWiring) {
			t.Errorf("%v should match ErrInvalidWiring", err)
		}
	}

	service := []error{ErrNotFound, ErrNotReadable, ErrNotWritable, ErrAttributeIDInvalid, ErrIndexRangeInvalid, ErrBadDataType}
	for _, err := range service {
		if errors.Is(err, ErrInvalidWiring) {
			t.Errorf("%v must not match ErrInvalidWiring", err)
		}
	}

	if errors.Is(ErrNodeIDExists, ErrNodeIDUnknown) {
		t.Error("distinct sentinels must not match each other")
	}
}

func TestStatusName(t *testing.T) {
	if StatusName(StatusBadNotFound) != "BadNotFound" {
		t.Errorf("got %q", StatusName(StatusBadNotFound))
	}
	if StatusName(0x80AB0000) != "0x80AB0000" {
		t.Errorf("got %q", StatusName(0x80AB0000))
	}
}

func TestIsGood(t *testing.T) {
	if !IsGood(StatusGood) {
		t.Error("Good is good")
	}
	if IsGood(0x40000000) {
		t.Error("Uncertain is not good")
	}
	if IsGood(StatusBadNotFound) {
		t.Error("Bad is not good")
	}
}
