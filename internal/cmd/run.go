package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/mousekeys/internal/input"
	"github.com/Alia5/mousekeys/internal/log"
	"github.com/Alia5/mousekeys/internal/sink"
	"github.com/Alia5/mousekeys/mousekey"

	"golang.org/x/sync/errgroup"
)

// Run drives the mouse key engine from evdev keyboards.
type Run struct {
	Device []string      `help:"evdev keyboard nodes to read (/dev/input/eventN)" env:"MOUSEKEYS_DEVICE" sep:","`
	Grab   bool          `help:"Grab the keyboards exclusively; no key, bound or not, reaches other programs while running" default:"false" negatable:""`
	Keymap []string      `help:"Extra bindings KEY=code, applied over the default layer" sep:","`
	Poll   time.Duration `help:"Interval between engine ticks" default:"1ms"`
	Motion Motion        `embed:""`
	Sink   SinkFlags     `embed:"" prefix:"sink."`
}

// SinkFlags selects where reports go. Any number may be enabled.
type SinkFlags struct {
	Log     bool               `help:"Log every report" default:"true" negatable:""`
	Gadget  string             `help:"USB HID gadget node to write boot reports to (/dev/hidgN)" env:"MOUSEKEYS_GADGET"`
	Viiper  sink.ViiperConfig  `embed:"" prefix:"viiper."`
	Monitor sink.MonitorConfig `embed:"" prefix:"monitor."`
}

type eventSource interface {
	Run(ctx context.Context, out chan<- input.Event) error
	Close() error
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(r.Device) == 0 {
		return errors.New("no input device; pass --device /dev/input/eventN")
	}
	devs, err := input.Open(r.Device, r.Grab, logger)
	if err != nil {
		return err
	}
	defer devs.Close()
	return r.Serve(ctx, devs, logger, rawLogger)
}

// Serve runs the engine on events from src until ctx is done or a component
// fails. On the way out every key is released and a final report is sent.
func (r *Run) Serve(ctx context.Context, src eventSource, logger *slog.Logger, rawLogger log.RawLogger) error {
	model, err := r.Motion.Build()
	if err != nil {
		return err
	}
	extra, err := input.ParseKeymap(r.Keymap)
	if err != nil {
		return err
	}
	keymap := input.DefaultKeymap().Merge(extra)
	poll := r.Poll
	if poll <= 0 {
		poll = time.Millisecond
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	// Nothing ticks the engine before the sinks are open.
	var sinks sink.Multi
	host := mousekey.HostFunc(func(rep mousekey.Report) error { return sinks.SendMouse(rep) })
	keys := mousekey.New(model, mousekey.NewSystemClock(), host, mousekey.WithLogger(logger))
	sinks, err = r.Sink.open(gctx, g, logger, rawLogger, keys.Snapshot)
	if err != nil {
		return err
	}

	logger.Info("mouse keys running", "model", model.Name(), "devices", r.Device, "poll", poll, "sinks", len(sinks))
	for _, b := range keymap.Bindings() {
		logger.Debug("binding", "key", b)
	}

	events := make(chan input.Event, 64)
	g.Go(func() error { return src.Run(gctx, events) })
	g.Go(func() error {
		ticker := time.NewTicker(poll)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case ev := <-events:
				if keymap.Dispatch(keys, ev) {
					logger.Log(gctx, log.LevelTrace, "key", "event", ev.String())
				}
			case <-ticker.C:
				keys.Task()
			}
		}
	})

	err = g.Wait()
	if err != nil {
		logger.Error("mouse keys failed", "error", err)
	}

	keys.Clear()
	keys.Send()
	if cerr := sinks.Close(); cerr != nil {
		logger.Warn("closing sinks", "error", cerr)
	}
	logger.Info("mouse keys stopped")
	return err
}

// open builds the enabled sinks. Background loops they need join g.
func (f SinkFlags) open(ctx context.Context, g *errgroup.Group, logger *slog.Logger, raw log.RawLogger, snapshot func() mousekey.State) (sink.Multi, error) {
	var out sink.Multi
	fail := func(err error) (sink.Multi, error) {
		_ = out.Close()
		return nil, err
	}

	if f.Log {
		out = append(out, sink.NewLog(logger, raw))
	}
	if f.Gadget != "" {
		gadget, err := sink.OpenGadget(f.Gadget, logger, raw)
		if err != nil {
			return fail(err)
		}
		out = append(out, gadget)
		g.Go(func() error { return gadget.Run(ctx) })
	}
	if f.Viiper.Addr != "" {
		v, err := sink.OpenViiper(ctx, f.Viiper, logger, raw)
		if err != nil {
			return fail(err)
		}
		out = append(out, v)
	}
	if f.Monitor.Addr != "" {
		ln, err := net.Listen("tcp", f.Monitor.Addr)
		if err != nil {
			return fail(fmt.Errorf("monitor listen: %w", err))
		}
		mon := sink.NewMonitor(logger, f.Monitor, snapshot)
		out = append(out, mon)
		g.Go(func() error {
			mon.Run(ctx)
			return nil
		})
		g.Go(func() error { return serveMonitor(ctx, ln, mon, logger) })
	}
	return out, nil
}

func serveMonitor(ctx context.Context, ln net.Listener, h http.Handler, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	logger.Info("report monitor listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("monitor server: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("monitor shutdown: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}
