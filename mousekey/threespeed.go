package mousekey

// Level is the discrete speed of the three-speed model.
type Level uint8

const (
	LevelUnmod Level = iota
	Level0
	Level1
	Level2
	levelCount
)

func (l Level) String() string {
	switch l {
	case LevelUnmod:
		return "unmod"
	case Level0:
		return "0"
	case Level1:
		return "1"
	case Level2:
		return "2"
	}
	return "?"
}

// SpeedTable holds the per-level step offset and interval (ms) of one pair,
// indexed by Level.
type SpeedTable struct {
	Offsets   [levelCount]uint8
	Intervals [levelCount]uint16
}

// ThreeSpeedParams configures the three-speed model.
type ThreeSpeedParams struct {
	// Momentary resets the level to unmodified when an accel key is released.
	// Otherwise the last pressed level sticks.
	Momentary bool
	Cursor    SpeedTable
	Wheel     SpeedTable
}

// DefaultThreeSpeedParams returns the stock offset and interval tables.
func DefaultThreeSpeedParams() ThreeSpeedParams {
	return ThreeSpeedParams{
		Cursor: SpeedTable{
			Offsets:   [levelCount]uint8{16, 1, 4, 32},
			Intervals: [levelCount]uint16{16, 32, 16, 16},
		},
		Wheel: SpeedTable{
			Offsets:   [levelCount]uint8{1, 1, 1, 1},
			Intervals: [levelCount]uint16{40, 360, 120, 20},
		},
	}
}

type threeSpeed struct {
	params   ThreeSpeedParams
	defaults ThreeSpeedParams
	level    Level
}

// NewThreeSpeed returns the discrete three-speed model. A sticky model starts
// at Level1, a momentary one at LevelUnmod.
func NewThreeSpeed(p ThreeSpeedParams) Model {
	m := &threeSpeed{params: p, defaults: p}
	m.clear()
	return m
}

func (m *threeSpeed) Name() string {
	if m.params.Momentary {
		return "3-speed-momentary"
	}
	return "3-speed"
}

func (m *threeSpeed) Knobs() []Knob { return nil }
func (m *threeSpeed) Defaults()     { m.params = m.defaults }

// Level returns the current speed level.
func (m *threeSpeed) Level() Level { return m.level }

func (m *threeSpeed) table(p pairKind) *SpeedTable {
	if p == wheelPair {
		return &m.params.Wheel
	}
	return &m.params.Cursor
}

func (m *threeSpeed) accelOn(c Code) { m.level = Level0 + Level(c.accelIndex()) }

func (m *threeSpeed) accelOff(Code) {
	if m.params.Momentary {
		m.level = LevelUnmod
	}
}

func (m *threeSpeed) accelState() uint8 { return uint8(m.level) }

func (m *threeSpeed) clear() {
	if m.params.Momentary {
		m.level = LevelUnmod
	} else {
		m.level = Level1
	}
}

func (m *threeSpeed) active(a *axis) bool { return !a.dir.neutral() }

func (m *threeSpeed) interval(_ *axis, p pairKind) uint16 {
	return m.table(p).Intervals[m.level]
}

// step reads the offset of the current level, so a level change applies to
// motion already in flight.
func (m *threeSpeed) step(a *axis, p pairKind, _ uint16) AxisPair {
	u := clampInt(int(m.table(p).Offsets[m.level]), 1, 127)
	return scaleDir(a.dir, u)
}

func (m *threeSpeed) release(*axis) {}
