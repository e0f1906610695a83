package mousekey_test

import (
	"testing"
	"time"

	"github.com/Alia5/mousekeys/mousekey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreeSpeedInitialLevel(t *testing.T) {
	tests := []struct {
		name      string
		momentary bool
		level     mousekey.Level
		interval  time.Duration
		offset    int
	}{
		{name: "sticky starts at level 1", level: mousekey.Level1, interval: 16 * time.Millisecond, offset: 4},
		{name: "momentary starts unmodified", momentary: true, level: mousekey.LevelUnmod, interval: 16 * time.Millisecond, offset: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mousekey.DefaultThreeSpeedParams()
			p.Momentary = tt.momentary
			h := newHarness(mousekey.NewThreeSpeed(p))
			assert.Equal(t, uint8(tt.level), h.keys.Snapshot().Accel)

			h.keys.On(mousekey.MoveRight)
			assert.Empty(t, h.poll(tt.interval-time.Millisecond, time.Millisecond))
			assert.Equal(t, []int{tt.offset}, xs(h.poll(time.Millisecond, time.Millisecond)))
		})
	}
}

func TestThreeSpeedLevelChangeRescalesInFlight(t *testing.T) {
	h := newHarness(mousekey.NewThreeSpeed(mousekey.DefaultThreeSpeedParams()))
	h.keys.On(mousekey.MoveRight)
	assert.Equal(t, []int{4}, xs(h.poll(16*time.Millisecond, time.Millisecond)))

	h.keys.On(mousekey.Accel2)
	assert.Equal(t, []int{32}, xs(h.poll(16*time.Millisecond, time.Millisecond)), "next step uses the new offset")

	h.keys.On(mousekey.Accel0)
	assert.Empty(t, h.poll(31*time.Millisecond, time.Millisecond), "level 0 waits its own interval")
	assert.Equal(t, []int{1}, xs(h.poll(time.Millisecond, time.Millisecond)))
}

func TestThreeSpeedAccelRelease(t *testing.T) {
	tests := []struct {
		name      string
		momentary bool
		want      mousekey.Level
	}{
		{name: "sticky keeps the level", want: mousekey.Level2},
		{name: "momentary resets", momentary: true, want: mousekey.LevelUnmod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mousekey.DefaultThreeSpeedParams()
			p.Momentary = tt.momentary
			h := newHarness(mousekey.NewThreeSpeed(p))

			h.keys.On(mousekey.Accel2)
			assert.Equal(t, uint8(mousekey.Level2), h.keys.Snapshot().Accel)
			h.keys.Off(mousekey.Accel2)
			assert.Equal(t, uint8(tt.want), h.keys.Snapshot().Accel)
		})
	}
}

func TestThreeSpeedDiagonal(t *testing.T) {
	tests := []struct {
		name  string
		accel mousekey.Code
		want  int8
	}{
		{name: "offset 32", accel: mousekey.Accel2, want: 22},
		{name: "offset 4", accel: mousekey.Accel1, want: 2},
		{name: "offset 1 floors to 1", accel: mousekey.Accel0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(mousekey.NewThreeSpeed(mousekey.DefaultThreeSpeedParams()))
			h.keys.On(tt.accel)
			h.keys.On(mousekey.MoveDown)
			h.keys.On(mousekey.MoveLeft)

			reports := h.poll(32*time.Millisecond, time.Millisecond)
			require.NotEmpty(t, reports)
			assert.Equal(t, -tt.want, reports[0].X)
			assert.Equal(t, tt.want, reports[0].Y)
		})
	}
}

func TestThreeSpeedWheelIntervals(t *testing.T) {
	tests := []struct {
		level mousekey.Code
		every time.Duration
	}{
		{level: mousekey.Accel0, every: 360 * time.Millisecond},
		{level: mousekey.Accel1, every: 120 * time.Millisecond},
		{level: mousekey.Accel2, every: 20 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			h := newHarness(mousekey.NewThreeSpeed(mousekey.DefaultThreeSpeedParams()))
			h.keys.On(tt.level)
			h.keys.On(mousekey.WheelUp)

			reports := h.poll(10*tt.every, time.Millisecond)
			assert.Len(t, reports, 10)
			for _, r := range reports {
				assert.Equal(t, mousekey.Report{V: 1}, r)
			}
		})
	}
}

func TestThreeSpeedHasNoKnobs(t *testing.T) {
	m := mousekey.NewThreeSpeed(mousekey.DefaultThreeSpeedParams())
	assert.Empty(t, m.Knobs())
	assert.Equal(t, "3-speed", m.Name())
	assert.Equal(t, "unmod", mousekey.LevelUnmod.String())
}
