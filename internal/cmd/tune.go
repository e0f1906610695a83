package cmd

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"

	"github.com/Alia5/mousekeys/mousekey"

	"golang.org/x/term"
)

// Tune opens the parameter console on the terminal.
type Tune struct {
	Motion Motion `embed:""`
	Save   string `help:"Write the tuned motion parameters to this file on quit (.yaml, .toml or .json)" type:"path"`
}

// Run is called by Kong when the tune command is executed.
func (t *Tune) Run(logger *slog.Logger) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("tune needs a terminal on stdin")
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw terminal: %w", err)
	}
	defer func() {
		if err := term.Restore(fd, state); err != nil {
			logger.Warn("failed to restore terminal", "error", err)
		}
	}()
	return t.session(os.Stdin, crlf{os.Stdout}, logger)
}

func (t *Tune) session(in io.Reader, out io.Writer, logger *slog.Logger) error {
	model, err := t.Motion.Build()
	if err != nil {
		return err
	}
	keys := mousekey.New(model, mousekey.NewSystemClock(),
		mousekey.HostFunc(func(mousekey.Report) error { return nil }), mousekey.WithLogger(logger))
	console := mousekey.NewConsole(keys, out)
	console.Prompt()

	rd := bufio.NewReader(in)
	for {
		key, err := readConsoleKey(rd)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		// Ctrl-C arrives as a byte in raw mode.
		if key == 0x03 || !console.Handle(key) {
			break
		}
	}
	fmt.Fprintln(out)

	if t.Save == "" {
		return nil
	}
	format := formatOf(t.Save)
	if format == "" {
		return fmt.Errorf("unsupported config extension: %s", t.Save)
	}
	t.Motion.Absorb(model)
	if err := writeConfig(t.Save, format, buildMapFromStruct(reflect.ValueOf(t.Motion), false)); err != nil {
		return err
	}
	logger.Info("saved motion parameters", "file", t.Save, "model", t.Motion.Model)
	return nil
}

// readConsoleKey reads one key, folding arrow escape sequences into the
// console's arrow keys. A lone ESC is the escape key.
func readConsoleKey(rd *bufio.Reader) (mousekey.ConsoleKey, error) {
	r, _, err := rd.ReadRune()
	if err != nil {
		return 0, err
	}
	if r != 0x1b {
		return mousekey.ConsoleKey(r), nil
	}
	if rd.Buffered() < 2 {
		return mousekey.KeyEsc, nil
	}
	seq, err := rd.Peek(2)
	if err != nil || (seq[0] != '[' && seq[0] != 'O') {
		return mousekey.KeyEsc, nil
	}
	arrow, ok := map[byte]mousekey.ConsoleKey{
		'A': mousekey.KeyUp,
		'B': mousekey.KeyDown,
		'C': mousekey.KeyRight,
		'D': mousekey.KeyLeft,
	}[seq[1]]
	if !ok {
		return mousekey.KeyEsc, nil
	}
	_, _ = rd.Discard(2)
	return arrow, nil
}

// crlf restores line starts in raw terminal mode.
type crlf struct{ w io.Writer }

func (c crlf) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
