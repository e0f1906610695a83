package log

import (
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger dumps the bytes a sink puts on the wire.
type RawLogger interface {
	Log(sink string, data []byte)
}

type rawLogger struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewRaw returns a RawLogger writing one line per report to w. A nil w
// discards everything.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w, now: time.Now}
}

func (r *rawLogger) Log(sink string, data []byte) {
	if r.w == nil || len(data) == 0 {
		return
	}
	line := fmt.Sprintf("%s %s %d bytes: % x\n", r.now().Format("15:04:05.000"), sink, len(data), data)

	r.mu.Lock()
	_, _ = io.WriteString(r.w, line)
	r.mu.Unlock()
}

// Hex is the compact form used in structured log attributes.
func Hex(data []byte) string { return hex.EncodeToString(data) }
