package hal

import (
	"sync"
	"time"
)

// hostTime is the frame clock. The runners advance it once per tick, so
// every reader within a tick sees the same instant.
type hostTime struct {
	mu  sync.Mutex
	now time.Time
}

func newHostTime(start time.Time) *hostTime {
	return &hostTime{now: start}
}

func (t *hostTime) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now
}

// set moves the clock to now; it never goes backwards.
func (t *hostTime) set(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if now.After(t.now) {
		t.now = now
	}
}

// step advances the clock by d.
func (t *hostTime) step(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = t.now.Add(d)
}
