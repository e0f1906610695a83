package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Alia5/mousekeys/device/mouse"
	"github.com/Alia5/mousekeys/internal/log"
	"github.com/Alia5/mousekeys/internal/script"
	"github.com/Alia5/mousekeys/mousekey"
)

// Replay runs a key script on a simulated clock and prints every report.
type Replay struct {
	Script string        `arg:"" help:"Script file; - reads stdin"`
	Poll   time.Duration `help:"Simulated interval between engine ticks" default:"1ms"`
	Motion Motion        `embed:""`
}

// Run is called by Kong when the replay command is executed.
func (r *Replay) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	in := io.Reader(os.Stdin)
	if r.Script != "-" {
		f, err := os.Open(r.Script)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	return r.replay(context.Background(), in, os.Stdout, logger, rawLogger)
}

func (r *Replay) replay(ctx context.Context, in io.Reader, out io.Writer, logger *slog.Logger, rawLogger log.RawLogger) error {
	steps, err := script.Parse(in)
	if err != nil {
		return err
	}
	model, err := r.Motion.Build()
	if err != nil {
		return err
	}

	runner := &script.Runner{Clock: &mousekey.ManualClock{}, Poll: r.Poll}
	var werr error
	host := mousekey.HostFunc(func(rep mousekey.Report) error {
		if rawLogger != nil {
			rawLogger.Log("replay", mouse.BootFromReport(rep).BuildReport())
		}
		_, err := fmt.Fprintf(out, "%8s  buttons=0x%02x x=%d y=%d v=%d h=%d\n",
			runner.Elapsed(), rep.Buttons, rep.X, rep.Y, rep.V, rep.H)
		if err != nil && werr == nil {
			werr = err
		}
		return err
	})
	runner.Keys = mousekey.New(model, runner.Clock, host, mousekey.WithLogger(logger))

	logger.Debug("replaying script", "steps", len(steps), "model", model.Name(), "poll", r.Poll)
	if err := runner.Run(ctx, steps); err != nil {
		return err
	}
	logger.Debug("replay done", "elapsed", runner.Elapsed())
	return werr
}
