package script_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Alia5/mousekeys/internal/script"
	"github.com/Alia5/mousekeys/mousekey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	src := `
# header
press KC_MS_R
wait 20ms   # trailing comment
TAP button-1
tick
tick 3
release move-right
`
	steps, err := script.Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []script.Step{
		{Line: 3, Op: script.OpPress, Code: mousekey.MoveRight},
		{Line: 4, Op: script.OpWait, Wait: 20 * time.Millisecond},
		{Line: 5, Op: script.OpTap, Code: mousekey.Button1},
		{Line: 6, Op: script.OpTick, N: 1},
		{Line: 7, Op: script.OpTick, N: 3},
		{Line: 8, Op: script.OpRelease, Code: mousekey.MoveRight},
	}, steps)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{src: "jump", want: `line 1: unknown instruction "jump"`},
		{src: "\npress", want: "line 2: press takes one key"},
		{src: "press fly", want: "line 1: unknown mouse key"},
		{src: "wait soon", want: "line 1: time: invalid duration"},
		{src: "wait -1s", want: "line 1: negative wait"},
		{src: "tick 0", want: `line 1: bad tick count "0"`},
		{src: "tick 1 2", want: "line 1: tick takes at most one count"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := script.Parse(strings.NewReader(tt.src))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

type recorder struct{ reports []mousekey.Report }

func (r *recorder) SendMouse(rep mousekey.Report) error {
	r.reports = append(r.reports, rep)
	return nil
}

func newRunner(poll time.Duration) (*script.Runner, *recorder) {
	rec := &recorder{}
	clk := &mousekey.ManualClock{}
	keys := mousekey.New(mousekey.NewStepped(mousekey.DefaultStepParams()), clk, rec)
	return &script.Runner{Keys: keys, Clock: clk, Poll: poll}, rec
}

func TestRunnerStepped(t *testing.T) {
	steps, err := script.Parse(strings.NewReader(`
press move-right
wait 350ms
release move-right
tap button-1
`))
	require.NoError(t, err)

	r, rec := newRunner(time.Millisecond)
	require.NoError(t, r.Run(context.Background(), steps))

	// First step after the 300ms delay, the second 50ms later.
	require.Len(t, rec.reports, 4)
	assert.Equal(t, mousekey.Report{X: 2}, rec.reports[0])
	assert.Equal(t, mousekey.Report{X: 5}, rec.reports[1])
	assert.Equal(t, mousekey.Report{Buttons: 1}, rec.reports[2])
	assert.Equal(t, mousekey.Report{}, rec.reports[3])
	assert.Equal(t, 351*time.Millisecond, r.Elapsed())
}

func TestRunnerCoarsePoll(t *testing.T) {
	steps, err := script.Parse(strings.NewReader("press move-down\ntick 40"))
	require.NoError(t, err)

	r, rec := newRunner(10 * time.Millisecond)
	require.NoError(t, r.Run(context.Background(), steps))
	assert.Len(t, rec.reports, 3, "steps at 300, 350 and 400ms")
	assert.Equal(t, 400*time.Millisecond, r.Elapsed())
}

func TestRunnerRejectsSubMillisecondPoll(t *testing.T) {
	r, _ := newRunner(time.Microsecond)
	assert.Error(t, r.Run(context.Background(), nil))
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, _ := newRunner(time.Millisecond)
	assert.ErrorIs(t, r.Run(ctx, []script.Step{{Op: script.OpTick, N: 1}}), context.Canceled)
}
