package recognizer

import (
	"fmt"

	"InkBoard/internal/analysis"
	"InkBoard/internal/state"
)

// Request asks the recognizer service for one pass over Strokes.
type Request struct {
	ID      string       `json:"id"`
	Strokes []WireStroke `json:"strokes"`
}

// WireStroke is a stroke with its version id, which Stroke does not encode.
type WireStroke struct {
	ID state.StrokeID `json:"id"`
	state.Stroke
}

// Response answers the Request with the same ID.
type Response struct {
	ID     string         `json:"id"`
	Status string         `json:"status,omitempty"`
	Root   *analysis.Node `json:"root,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func toWire(strokes []state.Stroke) []WireStroke {
	out := make([]WireStroke, len(strokes))
	for i, s := range strokes {
		out[i] = WireStroke{ID: s.ID, Stroke: s}
	}
	return out
}

func fromWire(ws []WireStroke) []state.Stroke {
	out := make([]state.Stroke, len(ws))
	for i, w := range ws {
		out[i] = w.Stroke
		out[i].ID = w.ID
	}
	return out
}

// result converts a response into an analysis.Result.
func (r Response) result() (analysis.Result, error) {
	if r.Error != "" {
		return analysis.Result{}, fmt.Errorf("recognizer: %s", r.Error)
	}
	switch r.Status {
	case analysis.StatusUpdated.String():
		if r.Root == nil {
			return analysis.Result{}, fmt.Errorf("recognizer: updated response without a tree")
		}
		r.Root.Link()
		return analysis.Result{Status: analysis.StatusUpdated, Root: r.Root}, nil
	case analysis.StatusUnchanged.String():
		return analysis.Result{Status: analysis.StatusUnchanged}, nil
	}
	return analysis.Result{}, fmt.Errorf("recognizer: unknown status %q", r.Status)
}
