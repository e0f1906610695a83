package cmd

import (
	"fmt"

	"github.com/Alia5/mousekeys/mousekey"
)

// Motion selects the motion model and carries the parameters of each.
type Motion struct {
	Model      string          `help:"Motion model" enum:"x11,x11-combined,kinetic,3-speed,3-speed-momentary" default:"x11" env:"MOUSEKEYS_MODEL"`
	X11        SteppedFlags    `embed:"" prefix:"x11."`
	Kinetic    KineticFlags    `embed:"" prefix:"kinetic."`
	ThreeSpeed ThreeSpeedFlags `embed:"" prefix:"speed."`
}

type SteppedFlags struct {
	Cursor StepCursorFlags `embed:"" prefix:"cursor."`
	Wheel  StepWheelFlags  `embed:"" prefix:"wheel."`
}

type StepCursorFlags struct {
	Delta     uint8  `help:"Cursor counts per step unit" default:"5"`
	Max       uint8  `help:"Largest cursor step (1-127)" default:"127"`
	Delay     uint16 `help:"Milliseconds from press to the first repeat" default:"300"`
	Interval  uint16 `help:"Milliseconds between cursor repeats" default:"50"`
	MaxSpeed  uint8  `help:"Cursor speed at full acceleration, in step units" default:"10"`
	TimeToMax uint8  `help:"Cursor repeats until full speed" default:"20"`
}

type StepWheelFlags struct {
	Delta     uint8  `help:"Wheel counts per step unit" default:"1"`
	Max       uint8  `help:"Largest wheel step (1-127)" default:"127"`
	Delay     uint16 `help:"Milliseconds from press to the first wheel repeat" default:"300"`
	Interval  uint16 `help:"Milliseconds between wheel repeats" default:"100"`
	MaxSpeed  uint8  `help:"Wheel speed at full acceleration, in step units" default:"8"`
	TimeToMax uint8  `help:"Wheel repeats until full speed" default:"40"`
}

type KineticFlags struct {
	Cursor  KineticCursorFlags `embed:"" prefix:"cursor."`
	Wheel   KineticWheelFlags  `embed:"" prefix:"wheel."`
	MaxTick uint16             `help:"Longest integration step in ms after a stalled poll" default:"15"`
	Coast   bool               `help:"Keep gliding after release until friction stops the pointer" default:"true" negatable:""`
}

type KineticCursorFlags struct {
	Accel    uint16 `help:"Cursor acceleration" default:"8"`
	Friction uint16 `help:"Cursor friction" default:"1"`
	Drag     uint16 `help:"Cursor quadratic drag" default:"120"`
	MaxSpeed uint16 `help:"Cursor speed limit in counts per second" default:"1000"`
	Max      uint8  `help:"Largest cursor report (1-127)" default:"127"`
	Interval uint16 `help:"Milliseconds between cursor updates" default:"8"`
}

type KineticWheelFlags struct {
	Accel    uint16 `help:"Wheel acceleration" default:"1"`
	Friction uint16 `help:"Wheel friction" default:"1"`
	Drag     uint16 `help:"Wheel quadratic drag" default:"4000"`
	MaxSpeed uint16 `help:"Wheel speed limit in counts per second" default:"40"`
	Max      uint8  `help:"Largest wheel report (1-127)" default:"127"`
	Interval uint16 `help:"Milliseconds between wheel updates" default:"8"`
}

// ThreeSpeedFlags lists per level values in the order unmodified, accel-0,
// accel-1, accel-2.
type ThreeSpeedFlags struct {
	CursorOffsets   []int `help:"Cursor counts per step for each level" default:"16,1,4,32"`
	CursorIntervals []int `help:"Milliseconds between cursor steps for each level" default:"16,32,16,16"`
	WheelOffsets    []int `help:"Wheel counts per step for each level" default:"1,1,1,1"`
	WheelIntervals  []int `help:"Milliseconds between wheel steps for each level" default:"40,360,120,20"`
}

// Build returns the selected model.
func (m Motion) Build() (mousekey.Model, error) {
	switch m.Model {
	case "x11", "x11-combined", "":
		p := m.X11.params()
		p.Combined = m.Model == "x11-combined"
		return mousekey.NewStepped(p), nil
	case "kinetic":
		return mousekey.NewKinetic(m.Kinetic.params()), nil
	case "3-speed", "3-speed-momentary":
		p, err := m.ThreeSpeed.params()
		if err != nil {
			return nil, err
		}
		p.Momentary = m.Model == "3-speed-momentary"
		return mousekey.NewThreeSpeed(p), nil
	default:
		return nil, fmt.Errorf("unknown motion model %q", m.Model)
	}
}

// Absorb copies the current parameters of model back into the flags.
func (m *Motion) Absorb(model mousekey.Model) {
	m.Model = model.Name()
	switch p := mousekey.Params(model).(type) {
	case mousekey.StepParams:
		m.X11.Cursor = StepCursorFlags(p.Cursor)
		m.X11.Wheel = StepWheelFlags(p.Wheel)
	case mousekey.KineticParams:
		m.Kinetic.Cursor = KineticCursorFlags(p.Cursor)
		m.Kinetic.Wheel = KineticWheelFlags(p.Wheel)
		m.Kinetic.MaxTick = p.MaxTick
		m.Kinetic.Coast = p.Coast
	case mousekey.ThreeSpeedParams:
		m.ThreeSpeed.CursorOffsets = ints(p.Cursor.Offsets[:])
		m.ThreeSpeed.CursorIntervals = ints(p.Cursor.Intervals[:])
		m.ThreeSpeed.WheelOffsets = ints(p.Wheel.Offsets[:])
		m.ThreeSpeed.WheelIntervals = ints(p.Wheel.Intervals[:])
	}
}

func (f SteppedFlags) params() mousekey.StepParams {
	return mousekey.StepParams{
		Cursor: mousekey.StepAxis(f.Cursor),
		Wheel:  mousekey.StepAxis(f.Wheel),
	}
}

func (f KineticFlags) params() mousekey.KineticParams {
	return mousekey.KineticParams{
		Cursor:  mousekey.KineticAxis(f.Cursor),
		Wheel:   mousekey.KineticAxis(f.Wheel),
		MaxTick: f.MaxTick,
		Coast:   f.Coast,
	}
}

func (f ThreeSpeedFlags) params() (mousekey.ThreeSpeedParams, error) {
	var p mousekey.ThreeSpeedParams
	for _, t := range []struct {
		name string
		in   []int
		max  int
		out  func(i, v int)
	}{
		{"speed.cursor-offsets", f.CursorOffsets, 127, func(i, v int) { p.Cursor.Offsets[i] = uint8(v) }},
		{"speed.cursor-intervals", f.CursorIntervals, 65535, func(i, v int) { p.Cursor.Intervals[i] = uint16(v) }},
		{"speed.wheel-offsets", f.WheelOffsets, 127, func(i, v int) { p.Wheel.Offsets[i] = uint8(v) }},
		{"speed.wheel-intervals", f.WheelIntervals, 65535, func(i, v int) { p.Wheel.Intervals[i] = uint16(v) }},
	} {
		if len(t.in) != 4 {
			return p, fmt.Errorf("%s: want 4 values, got %d", t.name, len(t.in))
		}
		for i, v := range t.in {
			if v < 0 || v > t.max {
				return p, fmt.Errorf("%s: %d out of range 0-%d", t.name, v, t.max)
			}
			t.out(i, v)
		}
	}
	return p, nil
}

func ints[T uint8 | uint16](in []T) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}
