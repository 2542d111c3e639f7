package roller

import (
	"sync"
	"time"
)

// Timer is a repeating callback registration.
type Timer interface {
	// Stop cancels future callbacks. It is safe to call more than once and
	// from inside the callback itself.
	Stop()
}

// Scheduler runs a callback every period until the returned Timer stops.
// Callbacks for one Timer never overlap.
type Scheduler interface {
	Every(period time.Duration, tick func()) Timer
}

// TickerScheduler schedules callbacks on time.Ticker goroutines.
type TickerScheduler struct{}

// NewTickerScheduler returns the wall-clock scheduler.
func NewTickerScheduler() TickerScheduler {
	return TickerScheduler{}
}

// Every starts a ticker goroutine that invokes tick each period.
func (TickerScheduler) Every(period time.Duration, tick func()) Timer {
	t := &tickerTimer{
		ticker: time.NewTicker(period),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-t.done:
				return
			case <-t.ticker.C:
				select {
				case <-t.done:
					return
				default:
				}
				tick()
			}
		}
	}()
	return t
}

type tickerTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickerTimer) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
