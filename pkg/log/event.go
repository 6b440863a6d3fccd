package log

import (
	"time"

	"github.com/awcullen/opcua/ua"
)

// Event is one traced call against the address space or type registry.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the call started (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// CallID uniquely identifies the call (UUID).
	CallID string `cbor:"2,keyasint"`

	// Category separates model construction from request serving.
	Category Category `cbor:"3,keyasint"`

	// Operation is the call that was traced.
	Operation Operation `cbor:"4,keyasint"`

	// NodeID is the text form of the node the call targeted.
	NodeID string `cbor:"5,keyasint,omitempty"`

	// Status is the resulting status code.
	Status ua.StatusCode `cbor:"6,keyasint"`

	// Value is the value read or written, when there is one.
	Value any `cbor:"7,keyasint,omitempty"`

	// Duration is how long the call took. Stored as nanoseconds.
	Duration time.Duration `cbor:"8,keyasint,omitempty"`

	// Message is the error text of a failed call.
	Message string `cbor:"9,keyasint,omitempty"`
}

// Failed reports whether the traced call returned an error.
func (e Event) Failed() bool {
	return uint32(e.Status)&0x80000000 != 0
}

// Category classifies the event.
type Category uint8

const (
	// CategoryConstruction marks calls made while assembling the model.
	CategoryConstruction Category = 0
	// CategoryService marks read/write calls made by the service layer.
	CategoryService Category = 1
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryConstruction:
		return "CONSTRUCTION"
	case CategoryService:
		return "SERVICE"
	default:
		return "UNKNOWN"
	}
}

// Operation identifies the traced call.
type Operation uint8

const (
	OpAddNode Operation = iota
	OpAddReference
	OpBindDataSource
	OpRegisterType
	OpRead
	OpWrite
)

// String returns the operation name.
func (o Operation) String() string {
	switch o {
	case OpAddNode:
		return "ADD_NODE"
	case OpAddReference:
		return "ADD_REFERENCE"
	case OpBindDataSource:
		return "BIND_DATA_SOURCE"
	case OpRegisterType:
		return "REGISTER_TYPE"
	case OpRead:
		return "READ"
	case OpWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// Logger receives traced calls. Implementations must be safe for
// concurrent use and must return quickly: Log runs inside the traced call.
type Logger interface {
	Log(event Event)
}

// NoopLogger discards all events.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// MultiLogger sends each event to every logger in order.
type MultiLogger []Logger

// NewMultiLogger combines loggers, dropping nil entries.
func NewMultiLogger(loggers ...Logger) MultiLogger {
	var m MultiLogger
	for _, l := range loggers {
		if l != nil {
			m = append(m, l)
		}
	}
	return m
}

// Log sends the event to all loggers.
func (m MultiLogger) Log(event Event) {
	for _, l := range m {
		l.Log(event)
	}
}

var (
	_ Logger = NoopLogger{}
	_ Logger = MultiLogger(nil)
)
