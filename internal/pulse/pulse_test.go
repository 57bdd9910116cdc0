package pulse

import (
	"sync"
	"testing"
	"time"
)

func TestFirstEdgeEstablishesReferenceOnly(t *testing.T) {
	var c Capture
	c.Edge(1000 * time.Millisecond)
	if got := c.Take(); got != 0 {
		t.Errorf("interval after single edge: got %d, want 0", got)
	}
}

func TestEdgeIntervalMath(t *testing.T) {
	var c Capture
	c.Edge(1000 * time.Millisecond)
	c.Edge(1000*time.Millisecond + 34286*time.Microsecond)
	if got := c.Take(); got != 34286 {
		t.Errorf("interval: got %d, want 34286", got)
	}
}

func TestTakeClearsNewDataFlag(t *testing.T) {
	var c Capture
	c.Edge(0)
	c.Edge(50 * time.Millisecond)

	if got := c.Take(); got != 50000 {
		t.Fatalf("first take: got %d, want 50000", got)
	}
	if got := c.Take(); got != 0 {
		t.Errorf("second take: got %d, want 0 (flag should be cleared)", got)
	}
}

func TestLatestEdgeWins(t *testing.T) {
	// Several pulses can accumulate between control-loop polls; only the
	// most recent interval is kept.
	var c Capture
	c.Edge(0)
	c.Edge(40 * time.Millisecond)
	c.Edge(100 * time.Millisecond)
	if got := c.Take(); got != 60000 {
		t.Errorf("interval: got %d, want 60000 (latest)", got)
	}
}

func TestNonMonotonicTimestampIgnored(t *testing.T) {
	var c Capture
	c.Edge(100 * time.Millisecond)
	c.Edge(100 * time.Millisecond) // same timestamp: zero interval
	if got := c.Take(); got != 0 {
		t.Errorf("zero-width interval latched: %d", got)
	}
}

func TestInject(t *testing.T) {
	var c Capture
	c.Inject(34286)
	if got := c.Take(); got != 34286 {
		t.Errorf("injected interval: got %d, want 34286", got)
	}

	c.Inject(0)
	if got := c.Take(); got != 0 {
		t.Errorf("zero injection latched: %d", got)
	}
}

func TestConcurrentProducerConsumer(t *testing.T) {
	var c Capture
	done := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ts := time.Duration(0)
		for i := 0; i < 10000; i++ {
			ts += 34286 * time.Microsecond
			c.Edge(ts)
		}
		close(done)
	}()

	// Consume in parallel; every observed interval must be the exact
	// producer interval, never a torn value.
	for {
		if got := c.Take(); got != 0 && got != 34286 {
			t.Fatalf("torn or corrupt interval: %d", got)
		}
		select {
		case <-done:
			wg.Wait()
			return
		default:
		}
	}
}
