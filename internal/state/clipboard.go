package state

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Clipboard is where Copy and Cut put strokes and Paste reads them back.
// The method set matches github.com/atotto/clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

const (
	payloadFormat  = "inkboard/strokes"
	payloadVersion = 1
)

// ErrIncompatiblePayload is returned by DecodePayload for clipboard text that
// does not hold strokes written by EncodePayload.
var ErrIncompatiblePayload = errors.New("incompatible clipboard payload")

type payload struct {
	Format  string   `json:"format"`
	Version int      `json:"version"`
	Origin  string   `json:"origin"`
	Strokes []Stroke `json:"strokes"`
}

// EncodePayload serializes strokes for the clipboard. Identity and selection
// are not part of the payload.
func EncodePayload(strokes []Stroke) (string, error) {
	data, err := json.Marshal(payload{
		Format:  payloadFormat,
		Version: payloadVersion,
		Origin:  SessionID,
		Strokes: strokes,
	})
	if err != nil {
		return "", fmt.Errorf("encode clipboard payload: %w", err)
	}
	return string(data), nil
}

// DecodePayload parses clipboard text written by EncodePayload.
func DecodePayload(text string) ([]Stroke, error) {
	var p payload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompatiblePayload, err)
	}
	if p.Format != payloadFormat || p.Version != payloadVersion {
		return nil, fmt.Errorf("%w: format %q version %d", ErrIncompatiblePayload, p.Format, p.Version)
	}
	if len(p.Strokes) == 0 {
		return nil, fmt.Errorf("%w: no strokes", ErrIncompatiblePayload)
	}
	return p.Strokes, nil
}
