// Package mouse holds the HID mouse encodings: the VIIPER stream state and
// the report of a Linux USB gadget.
package mouse

import (
	"sync"

	"github.com/Alia5/mousekeys/mousekey"
)

// Accumulator merges engine reports until the consumer is ready for one.
// Deltas add up and are handed out at most one int8 report at a time; the
// buttons always reflect the latest report.
type Accumulator struct {
	mu    sync.Mutex
	state InputState
	dirty bool
}

// Add merges r into the pending state.
func (a *Accumulator) Add(r mousekey.Report) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Buttons = r.Buttons
	a.state.DX = addSat(a.state.DX, r.X)
	a.state.DY = addSat(a.state.DY, r.Y)
	a.state.Wheel = addSat(a.state.Wheel, r.V)
	a.state.Pan = addSat(a.state.Pan, r.H)
	a.dirty = true
}

// Pending reports whether a report is waiting.
func (a *Accumulator) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dirty
}

// Take returns the next report and keeps whatever did not fit into int8.
func (a *Accumulator) Take() BootReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	r := BootReport{
		Buttons: a.state.Buttons,
		X:       takeInt8(&a.state.DX),
		Y:       takeInt8(&a.state.DY),
		Wheel:   takeInt8(&a.state.Wheel),
		Pan:     takeInt8(&a.state.Pan),
	}
	a.dirty = a.state.DX != 0 || a.state.DY != 0 || a.state.Wheel != 0 || a.state.Pan != 0
	return r
}

func addSat(v int16, d int8) int16 {
	s := int32(v) + int32(d)
	return int16(max(-32768, min(s, 32767)))
}

func takeInt8(v *int16) int8 {
	n := max(-127, min(*v, 127))
	*v -= n
	return int8(n)
}
