// Package sched holds the deferred work of the single-threaded frame loop:
// one-shot timers keyed by owner and event subscriptions that can remove
// themselves.
//
// Nothing here starts goroutines. The owner advances time explicitly, usually
// once per tick, and callbacks run on the caller's goroutine.
package sched

import (
	"sort"
	"time"
)

type task struct {
	key any
	due time.Time
	seq uint64
	fn  func()
}

// Scheduler runs one-shot callbacks at or after a deadline.
//
// At most one task is pending per key; scheduling under a key that already has
// a task replaces it.
type Scheduler struct {
	now   time.Time
	seq   uint64
	tasks map[any]*task
}

// NewScheduler returns a scheduler whose clock starts at now.
func NewScheduler(now time.Time) *Scheduler {
	return &Scheduler{now: now, tasks: make(map[any]*task)}
}

// Now returns the time of the last Advance.
func (s *Scheduler) Now() time.Time { return s.now }

// After schedules fn to run once d after the current clock, replacing any
// task pending under key.
func (s *Scheduler) After(key any, d time.Duration, fn func()) {
	s.seq++
	s.tasks[key] = &task{key: key, due: s.now.Add(d), seq: s.seq, fn: fn}
}

// Cancel drops the task pending under key. It reports whether one existed.
func (s *Scheduler) Cancel(key any) bool {
	if _, ok := s.tasks[key]; !ok {
		return false
	}
	delete(s.tasks, key)
	return true
}

// Pending reports whether a task is pending under key.
func (s *Scheduler) Pending(key any) bool {
	_, ok := s.tasks[key]
	return ok
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int { return len(s.tasks) }

// Advance moves the clock to now and runs every due task in deadline order.
// Tasks scheduled by a callback run no earlier than the next Advance.
func (s *Scheduler) Advance(now time.Time) int {
	if now.After(s.now) {
		s.now = now
	}
	var due []*task
	for _, t := range s.tasks {
		if !t.due.After(s.now) {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].seq < due[j].seq
		}
		return due[i].due.Before(due[j].due)
	})
	ran := 0
	for _, t := range due {
		// A previous callback may have cancelled or replaced this one.
		if cur, ok := s.tasks[t.key]; !ok || cur != t {
			continue
		}
		delete(s.tasks, t.key)
		t.fn()
		ran++
	}
	return ran
}
