package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// SessionID identifies this process in clipboard payloads.
var SessionID = uuid.NewString()

// Clock hands out monotonically increasing stroke versions.
type Clock struct {
	counter atomic.Uint64
}

// Next returns a version id never returned before by this clock.
func (c *Clock) Next() StrokeID {
	return StrokeID(c.counter.Add(1))
}

// Last returns the most recent version id, or zero.
func (c *Clock) Last() StrokeID {
	return StrokeID(c.counter.Load())
}
