// Package sink holds the report destinations the engine can drive.
package sink

import (
	"errors"
	"io"

	"github.com/Alia5/mousekeys/mousekey"
)

// Sink is a mousekey.Host that owns resources.
type Sink interface {
	mousekey.Host
	io.Closer
}

// Multi sends every report to all sinks in order.
type Multi []Sink

// SendMouse delivers r everywhere and joins the failures.
func (m Multi) SendMouse(r mousekey.Report) error {
	var errs []error
	for _, s := range m {
		if err := s.SendMouse(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes all sinks in reverse order.
func (m Multi) Close() error {
	var errs []error
	for i := len(m) - 1; i >= 0; i-- {
		if err := m[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
