package sink

import (
	"log/slog"

	"github.com/Alia5/mousekeys/device/mouse"
	"github.com/Alia5/mousekeys/internal/log"
	"github.com/Alia5/mousekeys/mousekey"
)

// Log writes each report to the logger at info level and its boot encoding
// to the raw logger.
type Log struct {
	logger *slog.Logger
	raw    log.RawLogger
}

// NewLog returns a Log sink. raw may be nil.
func NewLog(logger *slog.Logger, raw log.RawLogger) *Log {
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	return &Log{logger: logger, raw: raw}
}

func (l *Log) SendMouse(r mousekey.Report) error {
	boot := mouse.BootFromReport(r).BuildReport()
	l.logger.Info("report", "buttons", r.Buttons, "x", r.X, "y", r.Y, "v", r.V, "h", r.H, "hid", log.Hex(boot))
	l.raw.Log("log", boot)
	return nil
}

func (l *Log) Close() error { return nil }
