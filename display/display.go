// Package display presents frames on a host device and reports the gadget's
// button as events.
package display

import (
	"fmt"

	"github.com/pthm-cable/lavafield/config"
	"github.com/pthm-cable/lavafield/renderer"
)

// Backend names accepted by Open.
const (
	BackendWindow   = "window"
	BackendTerminal = "terminal"
	BackendPNG      = "png"
	BackendNone     = "none"
)

// Events collects what happened since the last Poll.
type Events struct {
	Reset bool // Button tapped
	Quit  bool // Host asked to stop
}

// Device shows frames and reports input.
type Device interface {
	// Present shows a frame. It may block until the device is ready.
	Present(f *renderer.Frame) error
	// Poll drains pending input without blocking.
	Poll() Events
	// Close releases the device.
	Close() error
}

// OpenOptions holds backend-specific settings.
type OpenOptions struct {
	PNGDir    string
	MaxFrames int // PNG backend: stop after this many frames (0 = unlimited)
}

// Open creates the named backend.
func Open(name string, cfg *config.Config, opts OpenOptions) (Device, error) {
	switch name {
	case BackendWindow:
		return NewWindow(cfg), nil
	case BackendTerminal:
		t, err := NewTerminal()
		if err != nil {
			return nil, fmt.Errorf("opening terminal: %w", err)
		}
		return t, nil
	case BackendPNG:
		p, err := NewPNGSequence(opts.PNGDir, cfg.Display.WindowScale, opts.MaxFrames)
		if err != nil {
			return nil, fmt.Errorf("opening png sequence: %w", err)
		}
		return p, nil
	case BackendNone:
		return NewRecorder(0), nil
	default:
		return nil, fmt.Errorf("unknown display backend %q", name)
	}
}
