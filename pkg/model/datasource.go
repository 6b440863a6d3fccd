package model

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/awcullen/opcua/ua"
)

// DataValue is a value together with its status and timestamps.
type DataValue struct {
	Value           any
	Status          ua.StatusCode
	SourceTimestamp time.Time
	ServerTimestamp time.Time
}

// HasValue reports whether a value is present.
func (v DataValue) HasValue() bool {
	return v.Value != nil
}

// DataSource serves the value of a variable node in place of a stored
// value. The service layer may call Read and Write concurrently from many
// workers; implementations must be safe for concurrent use and must not
// block.
type DataSource interface {
	// Read returns the current value of nodeID. includeSourceTimestamp
	// reports whether the client asked for a source timestamp; rng is nil
	// when the whole value is requested.
	Read(ctx context.Context, nodeID ua.NodeID, includeSourceTimestamp bool, rng *NumericRange) (DataValue, error)

	// Write stores value for nodeID, or rejects it.
	Write(ctx context.Context, nodeID ua.NodeID, rng *NumericRange, value DataValue) error
}

// ReadFunc is the function form of DataSource.Read.
type ReadFunc func(ctx context.Context, nodeID ua.NodeID, includeSourceTimestamp bool, rng *NumericRange) (DataValue, error)

// WriteFunc is the function form of DataSource.Write.
type WriteFunc func(ctx context.Context, nodeID ua.NodeID, rng *NumericRange, value DataValue) error

// DataSourceFuncs adapts a read/write function pair to DataSource. A nil
// function rejects the operation.
type DataSourceFuncs struct {
	ReadFunc  ReadFunc
	WriteFunc WriteFunc
}

// Read calls ReadFunc.
func (f DataSourceFuncs) Read(ctx context.Context, nodeID ua.NodeID, includeSourceTimestamp bool, rng *NumericRange) (DataValue, error) {
	if f.ReadFunc == nil {
		return DataValue{}, ErrNotReadable
	}
	return f.ReadFunc(ctx, nodeID, includeSourceTimestamp, rng)
}

// Write calls WriteFunc.
func (f DataSourceFuncs) Write(ctx context.Context, nodeID ua.NodeID, rng *NumericRange, value DataValue) error {
	if f.WriteFunc == nil {
		return ErrNotWritable
	}
	return f.WriteFunc(ctx, nodeID, rng, value)
}

var _ DataSource = DataSourceFuncs{}

// NumericRange selects elements Low..High (inclusive) of a one-dimensional
// array value.
type NumericRange struct {
	Low  uint32
	High uint32
}

// ParseNumericRange parses "i" or "i:j". An empty string yields nil.
func ParseNumericRange(s string) (*NumericRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	lo, hi, isSpan := strings.Cut(s, ":")
	low, err := strconv.ParseUint(lo, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrIndexRangeInvalid, s)
	}
	r := &NumericRange{Low: uint32(low), High: uint32(low)}
	if isSpan {
		high, err := strconv.ParseUint(hi, 10, 32)
		if err != nil || uint32(high) <= r.Low {
			return nil, fmt.Errorf("%w: %q", ErrIndexRangeInvalid, s)
		}
		r.High = uint32(high)
	}
	return r, nil
}

// String returns the range in text form.
func (r NumericRange) String() string {
	if r.Low == r.High {
		return strconv.FormatUint(uint64(r.Low), 10)
	}
	return fmt.Sprintf("%d:%d", r.Low, r.High)
}

// Len returns the number of selected elements, or 0 for a reversed
// range.
func (r NumericRange) Len() int {
	if r.Low > r.High {
		return 0
	}
	return int(r.High-r.Low) + 1
}

// Validate rejects a range whose bounds are reversed.
func (r NumericRange) Validate() error {
	if r.Low > r.High {
		return fmt.Errorf("%w: low %d above high %d", ErrIndexRangeInvalid, r.Low, r.High)
	}
	return nil
}

// Slice returns the selected elements of a slice value.
func (r NumericRange) Slice(v any) (any, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%w: value is not an array", ErrIndexRangeInvalid)
	}
	if int(r.High) >= rv.Len() {
		return nil, fmt.Errorf("%w: %s exceeds length %d", ErrIndexRangeInvalid, r, rv.Len())
	}
	return rv.Slice(int(r.Low), int(r.High)+1).Interface(), nil
}

// Replace returns a copy of dst with the selected elements replaced by
// src, which must be a slice of the same element type and of length
// r.Len().
func (r NumericRange) Replace(dst, src any) (any, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	dv, sv := reflect.ValueOf(dst), reflect.ValueOf(src)
	if dv.Kind() != reflect.Slice || sv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%w: value is not an array", ErrIndexRangeInvalid)
	}
	if dv.Type() != sv.Type() {
		return nil, fmt.Errorf("%w: %s into %s", ErrTypeMismatch, sv.Type(), dv.Type())
	}
	if int(r.High) >= dv.Len() || sv.Len() != r.Len() {
		return nil, fmt.Errorf("%w: %s against length %d", ErrIndexRangeInvalid, r, dv.Len())
	}
	out := reflect.MakeSlice(dv.Type(), dv.Len(), dv.Len())
	reflect.Copy(out, dv)
	reflect.Copy(out.Slice(int(r.Low), int(r.High)+1), sv)
	return out.Interface(), nil
}
