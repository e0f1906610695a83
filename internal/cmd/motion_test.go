package cmd_test

import (
	"testing"

	"github.com/Alia5/mousekeys/internal/cmd"
	"github.com/Alia5/mousekeys/mousekey"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseMotion(t *testing.T, args ...string) cmd.Motion {
	t.Helper()
	var cli struct {
		Motion cmd.Motion `embed:""`
	}
	parser, err := kong.New(&cli, kong.Exit(func(int) { t.Fatal("kong exited") }))
	require.NoError(t, err)
	_, err = parser.Parse(args)
	require.NoError(t, err)
	return cli.Motion
}

func TestMotionDefaults(t *testing.T) {
	combined := mousekey.DefaultStepParams()
	combined.Combined = true
	momentary := mousekey.DefaultThreeSpeedParams()
	momentary.Momentary = true

	tests := []struct {
		model string
		want  any
	}{
		{model: "x11", want: mousekey.DefaultStepParams()},
		{model: "x11-combined", want: combined},
		{model: "kinetic", want: mousekey.DefaultKineticParams()},
		{model: "3-speed", want: mousekey.DefaultThreeSpeedParams()},
		{model: "3-speed-momentary", want: momentary},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			m, err := parseMotion(t, "--model="+tt.model).Build()
			require.NoError(t, err)
			assert.Equal(t, tt.model, m.Name())
			assert.Equal(t, tt.want, mousekey.Params(m))
		})
	}
}

func TestMotionFlags(t *testing.T) {
	m, err := parseMotion(t,
		"--model=kinetic",
		"--kinetic.cursor.accel=20",
		"--kinetic.wheel.max-speed=80",
		"--no-kinetic.coast",
	).Build()
	require.NoError(t, err)
	p := mousekey.Params(m).(mousekey.KineticParams)
	assert.Equal(t, uint16(20), p.Cursor.Accel)
	assert.Equal(t, uint16(80), p.Wheel.MaxSpeed)
	assert.False(t, p.Coast)

	m, err = parseMotion(t, "--model=3-speed", "--speed.cursor-offsets=8,2,4,64").Build()
	require.NoError(t, err)
	ts := mousekey.Params(m).(mousekey.ThreeSpeedParams)
	assert.Equal(t, [4]uint8{8, 2, 4, 64}, ts.Cursor.Offsets)

	m, err = parseMotion(t, "--x11.cursor.delay=100", "--x11.wheel.interval=20").Build()
	require.NoError(t, err)
	sp := mousekey.Params(m).(mousekey.StepParams)
	assert.Equal(t, uint16(100), sp.Cursor.Delay)
	assert.Equal(t, uint16(20), sp.Wheel.Interval)
}

func TestMotionThreeSpeedValidation(t *testing.T) {
	tests := []struct {
		arg  string
		want string
	}{
		{arg: "--speed.wheel-offsets=1,2", want: "speed.wheel-offsets: want 4 values, got 2"},
		{arg: "--speed.cursor-offsets=1,1,1,200", want: "speed.cursor-offsets: 200 out of range 0-127"},
		{arg: "--speed.cursor-intervals=1,-1,1,1", want: "speed.cursor-intervals: -1 out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			_, err := parseMotion(t, "--model=3-speed", tt.arg).Build()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestMotionAbsorb(t *testing.T) {
	t.Run("stepped", func(t *testing.T) {
		motion := parseMotion(t, "--model=x11-combined")
		m, err := motion.Build()
		require.NoError(t, err)
		m.Knobs()[2].Set(14)

		motion.Absorb(m)
		assert.Equal(t, "x11-combined", motion.Model)
		assert.Equal(t, uint8(14), motion.X11.Cursor.MaxSpeed)

		again, err := motion.Build()
		require.NoError(t, err)
		assert.Equal(t, mousekey.Params(m), mousekey.Params(again))
	})

	t.Run("kinetic", func(t *testing.T) {
		motion := parseMotion(t, "--model=kinetic")
		m, err := motion.Build()
		require.NoError(t, err)
		m.Knobs()[2].Set(300)

		motion.Absorb(m)
		assert.Equal(t, uint16(300), motion.Kinetic.Cursor.Drag)
		assert.True(t, motion.Kinetic.Coast)
	})

	t.Run("three speed", func(t *testing.T) {
		var motion cmd.Motion
		motion.Absorb(mousekey.NewThreeSpeed(mousekey.DefaultThreeSpeedParams()))
		assert.Equal(t, "3-speed", motion.Model)
		assert.Equal(t, []int{40, 360, 120, 20}, motion.ThreeSpeed.WheelIntervals)
	})
}
