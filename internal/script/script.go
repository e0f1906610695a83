// Package script replays scripted key sessions against an engine on a
// manual clock, so a motion model can be inspected report by report.
//
//	# drag right with the first button held
//	press button-1
//	press move-right
//	wait 250ms
//	release move-right
//	release button-1
//	tap KC_WH_U
//	tick 10
package script

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Alia5/mousekeys/mousekey"
)

// Op is a script instruction.
type Op int

const (
	OpPress Op = iota
	OpRelease
	OpTap
	OpWait
	OpTick
)

var opNames = map[string]Op{
	"press":   OpPress,
	"release": OpRelease,
	"tap":     OpTap,
	"wait":    OpWait,
	"tick":    OpTick,
}

// Step is one parsed line.
type Step struct {
	Line int
	Op   Op
	Code mousekey.Code
	Wait time.Duration
	N    int
}

// Parse reads a script. Blank lines and text after # are ignored.
func Parse(r io.Reader) ([]Step, error) {
	var steps []Step
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text, _, _ := strings.Cut(sc.Text(), "#")
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		step, err := parseStep(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		step.Line = line
		steps = append(steps, step)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return steps, nil
}

func parseStep(fields []string) (Step, error) {
	op, ok := opNames[strings.ToLower(fields[0])]
	if !ok {
		return Step{}, fmt.Errorf("unknown instruction %q", fields[0])
	}
	args := fields[1:]
	switch op {
	case OpPress, OpRelease, OpTap:
		if len(args) != 1 {
			return Step{}, fmt.Errorf("%s takes one key", fields[0])
		}
		c, err := mousekey.ParseCode(args[0])
		if err != nil {
			return Step{}, err
		}
		return Step{Op: op, Code: c}, nil
	case OpWait:
		if len(args) != 1 {
			return Step{}, fmt.Errorf("wait takes one duration")
		}
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return Step{}, err
		}
		if d < 0 {
			return Step{}, fmt.Errorf("negative wait %s", d)
		}
		return Step{Op: op, Wait: d}, nil
	default:
		n := 1
		if len(args) > 1 {
			return Step{}, fmt.Errorf("tick takes at most one count")
		}
		if len(args) == 1 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 1 {
				return Step{}, fmt.Errorf("bad tick count %q", args[0])
			}
			n = v
		}
		return Step{Op: op, N: n}, nil
	}
}

// Runner drives Keys through a script. Every poll interval of script time
// the clock advances and Task runs, like the live poll loop.
type Runner struct {
	Keys  *mousekey.Keys
	Clock *mousekey.ManualClock
	Poll  time.Duration

	elapsed time.Duration
}

// Elapsed is the script time consumed so far.
func (r *Runner) Elapsed() time.Duration { return r.elapsed }

// Run executes steps in order. ctx is checked between steps.
func (r *Runner) Run(ctx context.Context, steps []Step) error {
	if r.Poll < time.Millisecond {
		return fmt.Errorf("poll interval %s below 1ms", r.Poll)
	}
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch s.Op {
		case OpPress:
			r.press(s.Code)
		case OpRelease:
			r.release(s.Code)
		case OpTap:
			r.press(s.Code)
			r.tick()
			r.release(s.Code)
		case OpWait:
			for waited := time.Duration(0); waited < s.Wait; waited += r.Poll {
				r.tick()
			}
		case OpTick:
			for range s.N {
				r.tick()
			}
		}
	}
	return nil
}

func (r *Runner) press(c mousekey.Code) {
	r.Keys.On(c)
	if c.IsButton() {
		r.Keys.Send()
	}
}

func (r *Runner) release(c mousekey.Code) {
	r.Keys.Off(c)
	if c.IsButton() {
		r.Keys.Send()
	}
}

func (r *Runner) tick() {
	r.Clock.Advance(r.Poll)
	r.elapsed += r.Poll
	r.Keys.Task()
}
