package sink

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/Alia5/mousekeys/device/mouse"
	"github.com/Alia5/mousekeys/internal/log"
	"github.com/Alia5/mousekeys/mousekey"
)

// Gadget feeds a Linux USB HID gadget (/dev/hidgN). Writes block until the
// host polls the endpoint, so reports are merged in an Accumulator and
// written by Run.
type Gadget struct {
	w      io.WriteCloser
	logger *slog.Logger
	raw    log.RawLogger

	mu    sync.Mutex
	acc   mouse.Accumulator
	ready chan struct{}
}

// OpenGadget opens the gadget device node for writing.
func OpenGadget(path string, logger *slog.Logger, raw log.RawLogger) (*Gadget, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open gadget %s: %w", path, err)
	}
	return NewGadget(f, logger, raw), nil
}

// NewGadget returns a gadget sink writing boot reports to w.
func NewGadget(w io.WriteCloser, logger *slog.Logger, raw log.RawLogger) *Gadget {
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	return &Gadget{w: w, logger: logger, raw: raw, ready: make(chan struct{}, 1)}
}

// SendMouse queues r and never blocks.
func (g *Gadget) SendMouse(r mousekey.Report) error {
	g.mu.Lock()
	g.acc.Add(r)
	g.mu.Unlock()
	select {
	case g.ready <- struct{}{}:
	default:
	}
	return nil
}

// Run writes queued reports until ctx is done or a write fails.
func (g *Gadget) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-g.ready:
		}
		if err := g.flush(); err != nil {
			return err
		}
	}
}

func (g *Gadget) flush() error {
	for {
		g.mu.Lock()
		if !g.acc.Pending() {
			g.mu.Unlock()
			return nil
		}
		report := g.acc.Take().BuildReport()
		g.mu.Unlock()

		if _, err := g.w.Write(report); err != nil {
			return fmt.Errorf("write gadget report: %w", err)
		}
		g.raw.Log("gadget", report)
	}
}

// Close writes what is still queued and closes the node.
func (g *Gadget) Close() error {
	ferr := g.flush()
	if err := g.w.Close(); err != nil {
		g.logger.Warn("close gadget", "error", err)
		return err
	}
	return ferr
}
