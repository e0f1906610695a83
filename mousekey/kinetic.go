package mousekey

// KineticAxis configures the kinetic model for one pair. Speeds are in counts
// per second, accelerations in counts per second per millisecond.
type KineticAxis struct {
	Accel    uint16
	Friction uint16
	// Drag is the quadratic loss coefficient: drag*v²/2^24 per ms.
	Drag     uint16
	MaxSpeed uint16
	// Max caps the displacement of a single tick (1-127).
	Max      uint8
	Interval uint16
}

// KineticParams configures the kinetic model.
type KineticParams struct {
	Cursor KineticAxis
	Wheel  KineticAxis
	// MaxTick bounds the time integrated by one tick, in ms.
	MaxTick uint16
	// Coast keeps a released pair moving until friction and drag stop it.
	Coast bool
}

// DefaultKineticParams returns a tuning that reaches roughly 1000 counts/s on
// the cursor in about a second.
func DefaultKineticParams() KineticParams {
	return KineticParams{
		Cursor:  KineticAxis{Accel: 8, Friction: 1, Drag: 120, MaxSpeed: 1000, Max: 127, Interval: 8},
		Wheel:   KineticAxis{Accel: 1, Friction: 1, Drag: 4000, MaxSpeed: 40, Max: 127, Interval: 8},
		MaxTick: 15,
		Coast:   true,
	}
}

const (
	minThrottle = -3
	maxThrottle = 2

	// Velocities are Q8 counts/s and never leave the int16 range of whole counts.
	velLimit = 32767 << 8
)

type kinetic struct {
	params   KineticParams
	defaults KineticParams
	accel    uint8
	// throttle is a power of two exponent applied to the whole motion curve.
	throttle int
}

// NewKinetic returns the kinetic model.
func NewKinetic(p KineticParams) Model {
	p.Cursor.Max = capMax(p.Cursor.Max)
	p.Wheel.Max = capMax(p.Wheel.Max)
	if p.MaxTick == 0 {
		p.MaxTick = 15
	}
	return &kinetic{params: p, defaults: p}
}

func (m *kinetic) Name() string { return "kinetic" }

func (m *kinetic) Defaults() { m.params = m.defaults }

func (m *kinetic) Knobs() []Knob {
	return []Knob{
		uint16Knob("mk_accel", &m.params.Cursor.Accel, 255),
		uint16Knob("mk_friction", &m.params.Cursor.Friction, 255),
		uint16Knob("mk_drag", &m.params.Cursor.Drag, 65535),
		uint16Knob("mk_max_speed", &m.params.Cursor.MaxSpeed, 32767),
		uint16Knob("mk_wheel_accel", &m.params.Wheel.Accel, 255),
		uint16Knob("mk_wheel_max_speed", &m.params.Wheel.MaxSpeed, 32767),
	}
}

// Throttle returns the current speed exponent.
func (m *kinetic) Throttle() int { return m.throttle }

func (m *kinetic) axisParams(p pairKind) *KineticAxis {
	if p == wheelPair {
		return &m.params.Wheel
	}
	return &m.params.Cursor
}

func (m *kinetic) accelOn(c Code) {
	m.accel |= 1 << c.accelIndex()
	switch c {
	case Accel0:
		m.throttle = max(m.throttle-1, minThrottle)
	case Accel1:
		m.throttle = 0
	case Accel2:
		m.throttle = min(m.throttle+1, maxThrottle)
	}
}

func (m *kinetic) accelOff(c Code) { m.accel &^= 1 << c.accelIndex() }

func (m *kinetic) accelState() uint8 { return m.accel }

func (m *kinetic) clear() {
	m.accel = 0
	m.throttle = 0
}

func (m *kinetic) active(a *axis) bool {
	if !a.dir.neutral() {
		return true
	}
	return m.params.Coast && (a.vel[0] != 0 || a.vel[1] != 0)
}

func (m *kinetic) interval(_ *axis, p pairKind) uint16 {
	return m.axisParams(p).Interval
}

func (m *kinetic) release(a *axis) {
	if !m.params.Coast || (a.vel[0] == 0 && a.vel[1] == 0) {
		a.resetMotion()
		return
	}
	a.repeat = 0
}

// curve is the throttled, diagonal corrected parameter set of one tick, in Q8.
type curve struct {
	accel, friction, drag, vmax int64
}

func (m *kinetic) curve(p pairKind, diag bool) curve {
	ax := m.axisParams(p)
	c := curve{
		accel:    shiftBy(int64(ax.Accel)<<8, m.throttle),
		friction: shiftBy(int64(ax.Friction)<<8, m.throttle),
		drag:     shiftBy(int64(ax.Drag), -m.throttle),
		vmax:     shiftBy(int64(ax.MaxSpeed)<<8, m.throttle),
	}
	if diag {
		c.accel = c.accel * 181 >> 8
		c.vmax = c.vmax * 181 >> 8
	}
	c.vmax = min(c.vmax, velLimit)
	return c
}

func shiftBy(v int64, s int) int64 {
	if s >= 0 {
		return v << s
	}
	return v >> -s
}

func (m *kinetic) step(a *axis, p pairKind, elapsed uint16) AxisPair {
	dt := int64(min(elapsed, m.params.MaxTick))
	if dt == 0 {
		return AxisPair{}
	}
	if a.repeat != 255 {
		a.repeat++
	}
	c := m.curve(p, a.dir.diagonal())
	limit := int64(m.axisParams(p).Max)

	var out [2]int
	for i, held := range [2]int8{a.dir.X, a.dir.Y} {
		v1, rem, n := integrate(int64(a.vel[i]), int64(a.rem[i]), int64(held), c, dt, limit)
		// A held component moves at least one count every due tick; the
		// count is owed back by the remainder.
		if n == 0 && held != 0 {
			n = int(held)
			rem = clamp64(rem-int64(held)*256, -256, 256)
		}
		a.vel[i] = int32(v1)
		a.rem[i] = int32(rem)
		out[i] = n
	}

	if a.dir.neutral() && a.vel[0] == 0 && a.vel[1] == 0 {
		a.resetMotion()
	}
	return AxisPair{X: int8(out[0]), Y: int8(out[1])}
}

// integrate advances one component by dt ms using a semi-implicit Euler step
// and returns the new velocity, the carried remainder and the whole counts to
// emit.
func integrate(v0, rem, held int64, c curve, dt, limit int64) (int64, int64, int) {
	v1 := v0
	if held != 0 {
		v1 += held * (c.friction + c.accel) * dt
	}
	v1 = clamp64(v1, -velLimit, velLimit)

	whole := v1 >> 8
	loss := (c.friction + c.drag*whole*whole>>16) * dt
	switch {
	case abs64(v1) <= loss:
		v1 = 0
	case v1 > 0:
		v1 -= loss
	default:
		v1 += loss
	}
	v1 = clamp64(v1, -c.vmax, c.vmax)

	disp := rem + (v0+v1)*dt/2000
	n := disp / 256
	if n > limit || n < -limit {
		n = clamp64(n, -limit, limit)
		return v1, 0, int(n)
	}
	return v1, disp - n*256, int(n)
}

func clamp64(v, lo, hi int64) int64 {
	return max(lo, min(v, hi))
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
