package mousekey_test

import (
	"testing"
	"time"

	"github.com/Alia5/mousekeys/mousekey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumX(reports []mousekey.Report) int {
	total := 0
	for _, r := range reports {
		total += int(r.X)
	}
	return total
}

func TestKineticFirstTickMoves(t *testing.T) {
	h := newHarness(mousekey.NewKinetic(mousekey.DefaultKineticParams()))
	h.keys.On(mousekey.MoveLeft)

	assert.Empty(t, h.poll(7*time.Millisecond, time.Millisecond))
	assert.Equal(t, []mousekey.Report{{X: -1}}, h.poll(time.Millisecond, time.Millisecond))
}

func TestKineticStallIsBounded(t *testing.T) {
	h := newHarness(mousekey.NewKinetic(mousekey.DefaultKineticParams()))
	h.keys.On(mousekey.MoveRight)

	h.clock.Advance(time.Second)
	h.keys.Task()
	assert.Equal(t, []mousekey.Report{{X: 1}}, h.rec.take(), "a stalled loop integrates at most one max tick")
}

func TestKineticSteadySpeed(t *testing.T) {
	tests := []struct {
		name  string
		accel []mousekey.Code
		want  int
	}{
		{name: "base", want: 986},
		{name: "accel-2 doubles", accel: []mousekey.Code{mousekey.Accel2}, want: 1972},
		{name: "accel-2 twice", accel: []mousekey.Code{mousekey.Accel2, mousekey.Accel2}, want: 3943},
		{name: "accel-2 clamps at two steps", accel: []mousekey.Code{mousekey.Accel2, mousekey.Accel2, mousekey.Accel2}, want: 3943},
		{name: "accel-0 halves", accel: []mousekey.Code{mousekey.Accel0}, want: 493},
		{name: "accel-0 clamps at three steps", accel: []mousekey.Code{mousekey.Accel0, mousekey.Accel0, mousekey.Accel0, mousekey.Accel0, mousekey.Accel0}, want: 124},
		{name: "accel-1 resets", accel: []mousekey.Code{mousekey.Accel2, mousekey.Accel2, mousekey.Accel1}, want: 986},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(mousekey.NewKinetic(mousekey.DefaultKineticParams()))
			for _, c := range tt.accel {
				h.keys.On(c)
				h.keys.Off(c)
			}
			h.keys.On(mousekey.MoveRight)
			h.poll(3*time.Second, time.Millisecond)

			reports := h.poll(time.Second, time.Millisecond)
			assert.InDelta(t, tt.want, sumX(reports), 2, "counts per second")
		})
	}
}

func TestKineticMaxSpeedClamp(t *testing.T) {
	p := mousekey.DefaultKineticParams()
	p.Cursor.Drag = 0
	h := newHarness(mousekey.NewKinetic(p))
	h.keys.On(mousekey.MoveDown)
	h.poll(3*time.Second, time.Millisecond)

	reports := h.poll(time.Second, time.Millisecond)
	require.Len(t, reports, 125)
	for _, r := range reports {
		// 1000 counts/s over an 8 ms tick.
		assert.Equal(t, int8(8), r.Y)
	}
}

func TestKineticPerTickLimit(t *testing.T) {
	p := mousekey.DefaultKineticParams()
	p.Cursor.MaxSpeed = 30000
	p.Cursor.Drag = 0
	p.Cursor.Accel = 255
	p.Cursor.Max = 20
	h := newHarness(mousekey.NewKinetic(p))
	h.keys.On(mousekey.MoveRight)

	reports := h.poll(2*time.Second, time.Millisecond)
	require.NotEmpty(t, reports)
	for _, r := range reports {
		assert.LessOrEqual(t, r.X, int8(20))
	}
	assert.Equal(t, int8(20), reports[len(reports)-1].X)
}

func TestKineticRemainderCarry(t *testing.T) {
	p := mousekey.DefaultKineticParams()
	// 200 counts/s is 1.6 counts per tick.
	p.Cursor.MaxSpeed = 200
	h := newHarness(mousekey.NewKinetic(p))
	h.keys.On(mousekey.MoveRight)
	h.poll(2*time.Second, time.Millisecond)

	reports := h.poll(time.Second, time.Millisecond)
	require.Len(t, reports, 125)
	assert.InDelta(t, 200, sumX(reports), 1)
	for _, r := range reports {
		assert.Contains(t, []int8{1, 2}, r.X)
	}
}

func TestKineticHeldEmitsEveryDueTick(t *testing.T) {
	slow := mousekey.DefaultKineticParams()
	// 100 counts/s is 0.8 counts per tick.
	slow.Cursor.MaxSpeed = 100

	tests := []struct {
		name   string
		params mousekey.KineticParams
		key    mousekey.Code
		axis   func(mousekey.Report) int8
		want   int8
	}{
		{"wheel up", mousekey.DefaultKineticParams(), mousekey.WheelUp, func(r mousekey.Report) int8 { return r.V }, 1},
		{"wheel left", mousekey.DefaultKineticParams(), mousekey.WheelLeft, func(r mousekey.Report) int8 { return r.H }, -1},
		{"slow cursor right", slow, mousekey.MoveRight, func(r mousekey.Report) int8 { return r.X }, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(mousekey.NewKinetic(tt.params))
			h.keys.On(tt.key)
			// Hold well past the first tick.
			h.poll(2*time.Second, time.Millisecond)
			h.rec.take()

			for i := 0; i < 40; i++ {
				h.clock.Advance(8 * time.Millisecond)
				h.keys.Task()
			}
			reports := h.rec.take()
			require.Len(t, reports, 40)
			for i, r := range reports {
				assert.Equal(t, tt.want, tt.axis(r), "tick %d", i)
			}
		})
	}
}

func TestKineticDiagonal(t *testing.T) {
	h := newHarness(mousekey.NewKinetic(mousekey.DefaultKineticParams()))
	h.keys.On(mousekey.MoveUp)
	h.keys.On(mousekey.MoveRight)
	h.poll(3*time.Second, time.Millisecond)

	var x, y int
	for _, r := range h.poll(time.Second, time.Millisecond) {
		x += int(r.X)
		y += int(r.Y)
	}
	assert.InDelta(t, 707, x, 2)
	assert.Equal(t, -x, y)
}

func TestKineticCoastToStop(t *testing.T) {
	tests := []struct {
		name  string
		accel []mousekey.Code
		want  int
	}{
		{name: "base", want: 141},
		{name: "fast", accel: []mousekey.Code{mousekey.Accel2}, want: 282},
		{name: "fastest", accel: []mousekey.Code{mousekey.Accel2, mousekey.Accel2}, want: 563},
		{name: "slow", accel: []mousekey.Code{mousekey.Accel0}, want: 71},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(mousekey.NewKinetic(mousekey.DefaultKineticParams()))
			for _, c := range tt.accel {
				h.keys.On(c)
			}
			h.keys.On(mousekey.MoveRight)
			var fastest int8
			for _, r := range h.poll(2*time.Second, time.Millisecond) {
				fastest = max(fastest, r.X)
			}

			h.keys.Off(mousekey.MoveRight)
			coast := h.poll(time.Second, time.Millisecond)
			require.NotEmpty(t, coast, "released pair keeps moving")
			for _, r := range coast {
				assert.GreaterOrEqual(t, r.X, int8(0), "coasting never reverses")
				assert.LessOrEqual(t, r.X, fastest, "coasting never speeds up past the held speed")
			}
			assert.InDelta(t, tt.want, sumX(coast), 2)

			assert.Empty(t, h.poll(5*time.Second, time.Millisecond), "velocity decays to zero")
		})
	}
}

func TestKineticReverseWhileCoasting(t *testing.T) {
	h := newHarness(mousekey.NewKinetic(mousekey.DefaultKineticParams()))
	h.keys.On(mousekey.MoveRight)
	h.poll(time.Second, time.Millisecond)
	h.keys.Off(mousekey.MoveRight)
	h.keys.On(mousekey.MoveLeft)

	reports := h.poll(2*time.Second, time.Millisecond)
	require.NotEmpty(t, reports)
	assert.Negative(t, sumX(reports[len(reports)-10:]), "motion turns around")
}

func TestKineticWithoutCoast(t *testing.T) {
	p := mousekey.DefaultKineticParams()
	p.Coast = false
	h := newHarness(mousekey.NewKinetic(p))
	h.keys.On(mousekey.MoveRight)
	assert.NotEmpty(t, h.poll(time.Second, time.Millisecond))

	h.keys.Off(mousekey.MoveRight)
	assert.Empty(t, h.poll(time.Second, time.Millisecond))

	// Restarting gets the first tick again.
	h.keys.On(mousekey.MoveRight)
	assert.Equal(t, []mousekey.Report{{X: 1}}, h.poll(8*time.Millisecond, time.Millisecond))
}

func TestKineticWheel(t *testing.T) {
	h := newHarness(mousekey.NewKinetic(mousekey.DefaultKineticParams()))
	h.keys.On(mousekey.WheelLeft)
	h.poll(3*time.Second, time.Millisecond)

	reports := h.poll(time.Second, time.Millisecond)
	// 40 counts/s is below one count per 8 ms tick, so every tick floors at one.
	require.Len(t, reports, 125)
	total := 0
	for _, r := range reports {
		assert.Equal(t, int8(-1), r.H)
		total += int(r.H)
	}
	assert.Equal(t, -125, total)
}

func TestKineticKnobs(t *testing.T) {
	m := mousekey.NewKinetic(mousekey.DefaultKineticParams())
	var names []string
	for _, k := range m.Knobs() {
		names = append(names, k.Name)
	}
	assert.Equal(t, []string{"mk_accel", "mk_friction", "mk_drag", "mk_max_speed", "mk_wheel_accel", "mk_wheel_max_speed"}, names)

	drag := m.Knobs()[2]
	assert.Equal(t, 120, drag.Value())
	assert.Equal(t, 65535, drag.Set(70000))
	m.Defaults()
	assert.Equal(t, 120, m.Knobs()[2].Value())
}
