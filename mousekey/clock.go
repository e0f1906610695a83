package mousekey

import (
	"sync"
	"time"
)

// Clock is a free running millisecond timer that wraps at 65536 ms.
type Clock interface {
	Now() uint16
}

// Elapsed returns the wrap-safe number of milliseconds from since to now.
func Elapsed(since, now uint16) uint16 {
	return now - since
}

type systemClock struct{ start time.Time }

// NewSystemClock returns a Clock backed by the monotonic system time.
func NewSystemClock() Clock {
	return &systemClock{start: time.Now()}
}

func (c *systemClock) Now() uint16 {
	return uint16(time.Since(c.start).Milliseconds())
}

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	mu  sync.Mutex
	now uint16
}

func (c *ManualClock) Now() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to an absolute time.
func (c *ManualClock) Set(ms uint16) {
	c.mu.Lock()
	c.now = ms
	c.mu.Unlock()
}

// Advance moves the clock forward by d, truncated to whole milliseconds.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += uint16(d.Milliseconds())
	c.mu.Unlock()
}
