package log

import (
	"bufio"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Events are written in core deterministic encoding with RFC 3339
// timestamps so that nanoseconds survive a round trip.
var (
	eventEncMode = mustEncMode(cbor.EncOptions{
		Sort: cbor.SortCoreDeterministic,
		Time: cbor.TimeRFC3339Nano,
	})
	eventDecMode = mustDecMode(cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	})
)

func mustEncMode(opts cbor.EncOptions) cbor.EncMode {
	em, err := opts.EncMode()
	if err != nil {
		panic("log: cbor encode options: " + err.Error())
	}
	return em
}

func mustDecMode(opts cbor.DecOptions) cbor.DecMode {
	dm, err := opts.DecMode()
	if err != nil {
		panic("log: cbor decode options: " + err.Error())
	}
	return dm
}

// EncodeEvent returns the CBOR form of one event.
func EncodeEvent(event Event) ([]byte, error) {
	return eventEncMode.Marshal(event)
}

// DecodeEvent parses one CBOR-encoded event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	err := eventDecMode.Unmarshal(data, &event)
	return event, err
}

// newEventDecoder reads a stream of concatenated events from r.
func newEventDecoder(r io.Reader) *cbor.Decoder {
	return eventDecMode.NewDecoder(bufio.NewReader(r))
}
