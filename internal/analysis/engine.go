// Package analysis schedules handwriting and shape recognition over the
// strokes of a store and answers hit tests against the last result.
package analysis

import (
	"context"
	"errors"

	"InkBoard/internal/state"
)

// Status reports whether a pass found anything new.
type Status int

const (
	StatusUnchanged Status = iota
	StatusUpdated
)

func (s Status) String() string {
	if s == StatusUpdated {
		return "updated"
	}
	return "unchanged"
}

// Result is the outcome of one recognition pass. Root is nil when the status
// is StatusUnchanged.
type Result struct {
	Status Status
	Root   *Node
}

// ErrBusy is returned by engines asked to analyze while a pass is in flight.
var ErrBusy = errors.New("analysis: engine busy")

// Engine is a recognizer. The core mirrors stroke membership into it and
// never reads its internal model.
//
// Analyze must not block. It calls done exactly once, on the goroutine that
// owns the store, when the pass completes or fails.
type Engine interface {
	AddData(strokes ...state.Stroke)
	RemoveData(ids ...state.StrokeID)
	// ReplaceData swaps the data of stroke old for s, as after a move.
	ReplaceData(old state.StrokeID, s state.Stroke)
	ClearAll()
	Analyze(ctx context.Context, done func(Result, error))
}
