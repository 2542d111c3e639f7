// Package rollertest provides a virtual-time scheduler for roller tests.
package rollertest

import (
	"sync"
	"time"

	"github.com/louisbranch/dualidade/internal/roller"
)

// ManualScheduler fires timers only when Advance moves its virtual clock.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	scheduler *ManualScheduler
	period    time.Duration
	next      time.Duration
	tick      func()
	stopped   bool
}

var _ roller.Scheduler = (*ManualScheduler)(nil)

// NewManualScheduler returns a scheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Every registers tick to fire each period of virtual time.
func (s *ManualScheduler) Every(period time.Duration, tick func()) roller.Timer {
	if period <= 0 {
		period = time.Nanosecond
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{scheduler: s, period: period, next: s.now + period, tick: tick}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves virtual time forward by d, firing due callbacks in time
// order. Callbacks run without the scheduler lock held.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		due := s.nextDue(target)
		if due == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = due.next
		due.next += due.period
		tick := due.tick
		s.mu.Unlock()

		tick()
	}
}

// Now reports the virtual time elapsed since creation.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Active reports how many timers are still running.
func (s *ManualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := 0
	for _, t := range s.timers {
		if !t.stopped {
			active++
		}
	}
	return active
}

func (s *ManualScheduler) nextDue(target time.Duration) *manualTimer {
	var due *manualTimer
	for _, t := range s.timers {
		if t.stopped || t.next > target {
			continue
		}
		if due == nil || t.next < due.next {
			due = t
		}
	}
	return due
}

func (t *manualTimer) Stop() {
	t.scheduler.mu.Lock()
	defer t.scheduler.mu.Unlock()
	t.stopped = true
}
