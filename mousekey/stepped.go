package mousekey

// StepAxis configures the stepped model for one pair.
type StepAxis struct {
	// Delta is the displacement unit; a fully ramped step is Delta*MaxSpeed.
	Delta uint8
	// Max caps a single step (1-127).
	Max uint8
	// Delay is the wait in ms between the press and the first step.
	Delay uint16
	// Interval is the wait in ms between repeated steps.
	Interval uint16
	// MaxSpeed is the steady speed in Delta units.
	MaxSpeed uint8
	// TimeToMax is the number of steps spent accelerating to MaxSpeed.
	TimeToMax uint8
}

// StepParams configures the stepped (X11-style) model.
type StepParams struct {
	// Combined selects the alternative accel overrides: accel-0 moves by one,
	// accel-1 at half speed and accel-2 at Max.
	Combined bool
	Cursor   StepAxis
	Wheel    StepAxis
}

// DefaultStepParams returns the classic mouse keys tuning.
func DefaultStepParams() StepParams {
	return StepParams{
		Cursor: StepAxis{Delta: 5, Max: 127, Delay: 300, Interval: 50, MaxSpeed: 10, TimeToMax: 20},
		Wheel:  StepAxis{Delta: 1, Max: 127, Delay: 300, Interval: 100, MaxSpeed: 8, TimeToMax: 40},
	}
}

type stepped struct {
	params   StepParams
	defaults StepParams
	accel    uint8
}

// NewStepped returns the stepped acceleration model. Max values above 127 are
// capped.
func NewStepped(p StepParams) Model {
	p.Cursor.Max = capMax(p.Cursor.Max)
	p.Wheel.Max = capMax(p.Wheel.Max)
	return &stepped{params: p, defaults: p}
}

func capMax(m uint8) uint8 {
	if m > 127 {
		return 127
	}
	return m
}

func (m *stepped) Name() string {
	if m.params.Combined {
		return "x11-combined"
	}
	return "x11"
}

func (m *stepped) Defaults() { m.params = m.defaults }

func (m *stepped) Knobs() []Knob {
	delay := &m.params.Cursor.Delay
	return []Knob{
		{
			Name: "mk_delay", Min: 0, Max: 255,
			get: func() int { return int(*delay / 10) },
			set: func(v int) { *delay = uint16(v) * 10 },
		},
		{
			Name: "mk_interval", Min: 0, Max: 255,
			get: func() int { return int(m.params.Cursor.Interval) },
			set: func(v int) { m.params.Cursor.Interval = uint16(v) },
		},
		uint8Knob("mk_max_speed", &m.params.Cursor.MaxSpeed),
		uint8Knob("mk_time_to_max", &m.params.Cursor.TimeToMax),
		uint8Knob("mk_wheel_max_speed", &m.params.Wheel.MaxSpeed),
		uint8Knob("mk_wheel_time_to_max", &m.params.Wheel.TimeToMax),
	}
}

func (m *stepped) axisParams(p pairKind) *StepAxis {
	if p == wheelPair {
		return &m.params.Wheel
	}
	return &m.params.Cursor
}

func (m *stepped) accelOn(c Code)  { m.accel |= 1 << c.accelIndex() }
func (m *stepped) accelOff(c Code) { m.accel &^= 1 << c.accelIndex() }
func (m *stepped) accelState() uint8 {
	return m.accel
}
func (m *stepped) clear() { m.accel = 0 }

func (m *stepped) active(a *axis) bool { return !a.dir.neutral() }

func (m *stepped) interval(a *axis, p pairKind) uint16 {
	ax := m.axisParams(p)
	if a.repeat == 0 {
		return ax.Delay
	}
	return ax.Interval
}

func (m *stepped) step(a *axis, p pairKind, _ uint16) AxisPair {
	if a.repeat != 255 {
		a.repeat++
	}
	return scaleDir(a.dir, m.unit(a.repeat, p))
}

func (m *stepped) release(a *axis) { a.repeat = 0 }

// unit is the step magnitude for the given repeat count, clamped to [1, Max].
func (m *stepped) unit(repeat uint8, p pairKind) int {
	ax := m.axisParams(p)
	full := int(ax.Delta) * int(ax.MaxSpeed)
	var u int
	switch {
	case m.accel&(1<<0) != 0:
		if m.params.Combined {
			u = 1
		} else {
			u = full / 4
		}
	case m.accel&(1<<1) != 0:
		u = full / 2
	case m.accel&(1<<2) != 0:
		if m.params.Combined {
			u = int(ax.Max)
		} else {
			u = full
		}
	case ax.TimeToMax == 0 || repeat >= ax.TimeToMax:
		u = full
	default:
		u = full * int(repeat) / int(ax.TimeToMax)
	}
	if u > int(ax.Max) {
		u = int(ax.Max)
	}
	if u < 1 {
		u = 1
	}
	return u
}
