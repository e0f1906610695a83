//go:build !linux

package input

import (
	"context"
	"errors"
	"log/slog"
)

// ErrUnsupported is returned where evdev is unavailable.
var ErrUnsupported = errors.New("evdev input is only available on linux")

// Devices is unavailable on this platform.
type Devices struct{}

func Open(paths []string, grab bool, logger *slog.Logger) (*Devices, error) {
	return nil, ErrUnsupported
}

func (d *Devices) Run(ctx context.Context, out chan<- Event) error { return ErrUnsupported }

func (d *Devices) Close() error { return nil }
