package datasource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/awcullen/opcua/ua"

	"github.com/infomodel/infomodel-go/pkg/model"
)

// DefaultModulus is the number of entries of the example enumerations.
const DefaultModulus = 5

// Cycling serves an int32 that steps through 0..n-1, one step per read.
// The counter is shared by every node bound to the same instance, so two
// variables bound to one Cycling observe a single interleaved sequence.
//
// Writes are always rejected with model.ErrNotFound, whatever the access
// level of the node advertises.
type Cycling struct {
	mu      sync.Mutex
	next    uint32
	modulus uint32
	reads   uint64
	now     func() time.Time
}

// NewCycling creates a Cycling data source with the given modulus. A
// modulus of zero is treated as DefaultModulus.
func NewCycling(modulus uint32) *Cycling {
	if modulus == 0 {
		modulus = DefaultModulus
	}
	return &Cycling{modulus: modulus, now: time.Now}
}

// SetClock replaces the wall clock used for source timestamps.
func (c *Cycling) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Modulus returns the cycle length.
func (c *Cycling) Modulus() uint32 {
	return c.modulus
}

// Reads returns how many reads have been served.
func (c *Cycling) Reads() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

// Read returns the current counter value and advances it. The node id and
// range are ignored. The source timestamp is taken under the same lock as
// the advance so timestamps never go backwards relative to the sequence.
func (c *Cycling) Read(_ context.Context, _ ua.NodeID, _ bool, _ *model.NumericRange) (model.DataValue, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.next
	c.next = (c.next + 1) % c.modulus
	c.reads++

	return model.DataValue{
		Value:           int32(v),
		Status:          model.StatusGood,
		SourceTimestamp: c.now(),
	}, nil
}

// Write rejects every write and leaves the counter unchanged.
func (c *Cycling) Write(_ context.Context, nodeID ua.NodeID, _ *model.NumericRange, _ model.DataValue) error {
	return fmt.Errorf("%w: write not supported for %s", model.ErrNotFound, model.FormatNodeID(nodeID))
}

var _ model.DataSource = (*Cycling)(nil)
