package board

import (
	"errors"
	"fmt"
	"strings"

	"InkBoard/internal/event"
)

// DeviceKind is a kind of pointing device.
type DeviceKind int

const (
	DeviceMouse DeviceKind = iota
	DevicePen
	DeviceTouch
)

func (k DeviceKind) String() string {
	switch k {
	case DeviceMouse:
		return "mouse"
	case DevicePen:
		return "pen"
	case DeviceTouch:
		return "touch"
	default:
		return fmt.Sprintf("device(%d)", int(k))
	}
}

// ErrUnknownDevice is returned for device kinds outside mouse, pen and touch.
var ErrUnknownDevice = errors.New("board: unknown input device")

// ParseDeviceKind accepts "mouse", "pen" and "touch".
func ParseDeviceKind(s string) (DeviceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mouse":
		return DeviceMouse, nil
	case "pen", "stylus":
		return DevicePen, nil
	case "touch":
		return DeviceTouch, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDevice, s)
}

// DeviceChange is published when a device is enabled or disabled.
type DeviceChange struct {
	Kind    DeviceKind
	Enabled bool
}

// Devices tracks which pointing devices may draw ink.
type Devices struct {
	enabled [3]bool
	changes event.Bus[DeviceChange]
}

// NewDevices returns the device set with the given kinds enabled.
func NewDevices(mouse, pen, touch bool) *Devices {
	d := &Devices{}
	d.enabled[DeviceMouse] = mouse
	d.enabled[DevicePen] = pen
	d.enabled[DeviceTouch] = touch
	return d
}

func (d *Devices) Changes() *event.Bus[DeviceChange] {
	return &d.changes
}

// Enabled reports whether kind may draw.
func (d *Devices) Enabled(kind DeviceKind) (bool, error) {
	if err := check(kind); err != nil {
		return false, err
	}
	return d.enabled[kind], nil
}

// Set enables or disables kind.
func (d *Devices) Set(kind DeviceKind, enabled bool) error {
	if err := check(kind); err != nil {
		return err
	}
	if d.enabled[kind] == enabled {
		return nil
	}
	d.enabled[kind] = enabled
	d.changes.Publish(DeviceChange{Kind: kind, Enabled: enabled})
	return nil
}

// PointerEntered is called when a device enters the canvas. A pen turns
// touch input off so the hand resting on the screen does not draw.
func (d *Devices) PointerEntered(kind DeviceKind) error {
	if err := check(kind); err != nil {
		return err
	}
	if kind == DevicePen {
		return d.Set(DeviceTouch, false)
	}
	return nil
}

func check(kind DeviceKind) error {
	if kind < DeviceMouse || kind > DeviceTouch {
		return fmt.Errorf("%w: %v", ErrUnknownDevice, kind)
	}
	return nil
}
