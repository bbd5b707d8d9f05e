package typeahead

import (
	"sync"
	"time"
)

// debouncer collapses rapid schedule calls into the last one: fn runs only
// after the delay has elapsed without a newer schedule. A sequence number
// invalidates timers that have already fired but not yet run, so a reset
// never lets a stale callback through.
type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	seq   uint64
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

// schedule arranges for fn to run after the delay, replacing any pending
// callback. A zero delay runs fn synchronously on the caller.
func (d *debouncer) schedule(fn func()) {
	d.mu.Lock()
	d.seq++
	current := d.seq
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.delay <= 0 {
		d.mu.Unlock()
		fn()
		return
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.seq != current {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
	d.mu.Unlock()
}

// stop cancels any pending callback and invalidates one already fired.
func (d *debouncer) stop() {
	d.mu.Lock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
}
