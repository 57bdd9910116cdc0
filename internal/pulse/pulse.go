// Package pulse captures shaft sensor pulse intervals.
// The real implementation uses Linux GPIO character device edge events,
// whose handler runs on a separate goroutine and plays the interrupt role.
// Capture is the single-producer/single-consumer exchange between that
// handler and the control loop.
package pulse

import (
	"sync"
	"time"
)

// Capture latches the interval between the two most recent sensor edges.
// Exactly one producer (the edge handler) and one consumer (the control
// loop) touch it; the mutex is held only for a few assignments so the
// exchange stays short and torn reads are impossible.
type Capture struct {
	mu             sync.Mutex
	lastEdge       time.Duration
	haveEdge       bool
	intervalMicros int64
	hasNew         bool
}

// Edge records a sensor edge at the given monotonic timestamp (the kernel
// event timestamp for real hardware). The first edge only establishes a
// reference; every later edge latches the elapsed interval. Must stay
// minimal: no logging, no floating point, no calls out.
func (c *Capture) Edge(timestamp time.Duration) {
	c.mu.Lock()
	if c.haveEdge {
		d := (timestamp - c.lastEdge).Microseconds()
		if d > 0 {
			c.intervalMicros = d
			c.hasNew = true
		}
	}
	c.lastEdge = timestamp
	c.haveEdge = true
	c.mu.Unlock()
}

// Inject latches a precomputed interval in microseconds. Synthetic pulse
// sources (the fake plant, the co-sim link) use this instead of Edge.
func (c *Capture) Inject(intervalMicros int64) {
	if intervalMicros <= 0 {
		return
	}
	c.mu.Lock()
	c.intervalMicros = intervalMicros
	c.hasNew = true
	c.mu.Unlock()
}

// Take atomically copies out the latched interval and clears the new-data
// flag. It returns 0 when no new pulse arrived since the last call.
func (c *Capture) Take() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasNew {
		return 0
	}
	c.hasNew = false
	return c.intervalMicros
}
