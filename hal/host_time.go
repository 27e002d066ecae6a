//go:build !tinygo

package hal

import (
	"sync"
	"time"
)

// hostClock is wall time since construction, or a virtual time that only
// moves when stepped.
type hostClock struct {
	mu      sync.Mutex
	start   time.Time
	virtual bool
	now     time.Duration
}

func newHostClock(virtual bool) *hostClock {
	return &hostClock{start: time.Now(), virtual: virtual}
}

func (c *hostClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.virtual {
		return c.now
	}
	return time.Since(c.start)
}

// Sleep blocks for d, or advances virtual time by d.
func (c *hostClock) Sleep(d time.Duration) {
	if c.virtual {
		c.step(d)
		return
	}
	time.Sleep(d)
}

func (c *hostClock) step(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}
