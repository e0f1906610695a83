// Package mousekey turns press and release events of mouse keys into relative
// HID mouse reports.
//
// A Keys value owns all engine state. Key dispatchers call On and Off as keys
// change; a poll loop calls Task as often as it can. Task asks the configured
// Model whether each pair (cursor, wheel) is due for a step and hands at most
// one Report per call to the Host.
//
// Three models are available: NewStepped (a repeat counted acceleration ramp),
// NewKinetic (velocity integrated under acceleration, drag and friction) and
// NewThreeSpeed (discrete speed levels picked with the accel keys).
package mousekey

import (
	"log/slog"
	"sync"
)

// Keys is the mouse key engine. It is safe for concurrent use. The host is
// called without the state lock held, so a slow host never stalls On, Off or
// Snapshot; reports still reach it in the order they were built.
type Keys struct {
	// sendMu serializes building and sending a report. It is taken before mu.
	sendMu sync.Mutex
	mu     sync.Mutex
	model  Model
	clock  Clock
	host   Host
	logger *slog.Logger

	cursor  axis
	wheel   axis
	buttons uint8
	// sent holds the buttons of the last report handed to the host.
	sent uint8
}

// Option configures a Keys.
type Option func(*Keys)

// WithLogger sets the logger used for report tracing and host errors.
func WithLogger(l *slog.Logger) Option {
	return func(k *Keys) {
		if l != nil {
			k.logger = l
		}
	}
}

// New returns an engine driving host with the given model and clock.
func New(model Model, clock Clock, host Host, opts ...Option) *Keys {
	k := &Keys{
		model:  model,
		clock:  clock,
		host:   host,
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(k)
	}
	return k
}

// Model returns the active motion model.
func (k *Keys) Model() Model { return k.model }

// On registers a key press. Codes outside the known set are ignored.
func (k *Keys) On(c Code) {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch {
	case c.IsMove() || c.IsWheel():
		a, horizontal, sign := k.target(c)
		wasRest := !k.model.active(a)
		*a.component(horizontal) = sign
		if wasRest {
			a.last = k.clock.Now()
		}
	case c.IsButton():
		k.buttons |= c.buttonBit()
	case c.IsAccel():
		k.model.accelOn(c)
	}
}

// Off registers a key release. A direction is only cleared while it still
// points the released way.
func (k *Keys) Off(c Code) {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch {
	case c.IsMove() || c.IsWheel():
		a, horizontal, sign := k.target(c)
		comp := a.component(horizontal)
		if *comp != sign {
			return
		}
		*comp = 0
		if a.dir.neutral() {
			k.model.release(a)
		}
	case c.IsButton():
		k.buttons &^= c.buttonBit()
	case c.IsAccel():
		k.model.accelOff(c)
	}
}

// target maps a direction code to its pair, component and sign.
func (k *Keys) target(c Code) (a *axis, horizontal bool, sign int8) {
	switch c {
	case MoveUp:
		return &k.cursor, false, -1
	case MoveDown:
		return &k.cursor, false, 1
	case MoveLeft:
		return &k.cursor, true, -1
	case MoveRight:
		return &k.cursor, true, 1
	case WheelUp:
		return &k.wheel, false, 1
	case WheelDown:
		return &k.wheel, false, -1
	case WheelLeft:
		return &k.wheel, true, -1
	default:
		return &k.wheel, true, 1
	}
}

// Task advances both pairs. It sends a report when a pair moved or when the
// buttons changed since the last report.
func (k *Keys) Task() {
	k.sendMu.Lock()
	defer k.sendMu.Unlock()

	if r, ok := k.tick(); ok {
		k.send(r)
	}
}

func (k *Keys) tick() (Report, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.clock.Now()
	cursor := k.advance(&k.cursor, cursorPair, now)
	wheel := k.advance(&k.wheel, wheelPair, now)

	r := Report{
		Buttons: k.buttons,
		X:       cursor.X,
		Y:       cursor.Y,
		V:       wheel.Y,
		H:       wheel.X,
	}
	if !r.HasMotion() && r.Buttons == k.sent {
		return Report{}, false
	}
	k.record(r)
	return r, true
}

func (k *Keys) advance(a *axis, p pairKind, now uint16) AxisPair {
	if !k.model.active(a) {
		return AxisPair{}
	}
	elapsed := Elapsed(a.last, now)
	if elapsed < k.model.interval(a, p) {
		return AxisPair{}
	}
	d := k.model.step(a, p, elapsed)
	a.last = now
	return d
}

// Send hands the current buttons to the host with no motion.
func (k *Keys) Send() {
	k.sendMu.Lock()
	defer k.sendMu.Unlock()

	k.mu.Lock()
	r := Report{Buttons: k.buttons}
	k.record(r)
	k.mu.Unlock()
	k.send(r)
}

// Clear drops every held key, the accel state and all accumulated motion. No
// report is sent.
func (k *Keys) Clear() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.cursor = axis{}
	k.wheel = axis{}
	k.buttons = 0
	k.model.clear()
}

// record notes r as the last report. Callers hold mu.
func (k *Keys) record(r Report) {
	k.sent = r.Buttons
	k.logger.Debug("mousekey report",
		"buttons", r.Buttons, "x", r.X, "y", r.Y, "v", r.V, "h", r.H,
		"repeat", k.cursor.repeat, "accel", k.model.accelState())
}

// send hands r to the host. Callers hold sendMu but not mu.
func (k *Keys) send(r Report) {
	if err := k.host.SendMouse(r); err != nil {
		k.logger.Warn("failed to send mouse report", "error", err)
	}
}

// State is a point in time view of the engine.
type State struct {
	Model       string
	Cursor      AxisPair
	Wheel       AxisPair
	Buttons     uint8
	Repeat      uint8
	WheelRepeat uint8
	Accel       uint8
}

// Snapshot returns the current engine state.
func (k *Keys) Snapshot() State {
	k.mu.Lock()
	defer k.mu.Unlock()
	return State{
		Model:       k.model.Name(),
		Cursor:      k.cursor.dir,
		Wheel:       k.wheel.dir,
		Buttons:     k.buttons,
		Repeat:      k.cursor.repeat,
		WheelRepeat: k.wheel.repeat,
		Accel:       k.model.accelState(),
	}
}
