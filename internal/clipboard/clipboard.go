// Package clipboard provides the clipboards the stroke store copies to.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned by System when the platform has no clipboard
// utility available.
var ErrUnsupported = errors.New("system clipboard unsupported")

// System is the desktop clipboard.
type System struct{}

func (System) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnsupported
	}
	return clipboard.ReadAll()
}

func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// Memory is a process-local clipboard. The zero value is empty and ready.
type Memory struct {
	text string
	set  bool
}

func (m *Memory) ReadAll() (string, error) {
	return m.text, nil
}

func (m *Memory) WriteAll(text string) error {
	m.text = text
	m.set = true
	return nil
}

// Written reports whether anything was ever written.
func (m *Memory) Written() bool {
	return m.set
}
