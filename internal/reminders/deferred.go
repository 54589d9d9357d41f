package reminders

import (
	"sync"
	"time"
)

// deferred runs named callbacks after a delay. Scheduling a name that is
// already pending restarts its delay, so bursts collapse into one run.
type deferred struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	running sync.WaitGroup
}

func newDeferred() *deferred {
	return &deferred{timers: make(map[string]*time.Timer)}
}

func (d *deferred) schedule(name string, delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if t, ok := d.timers[name]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		d.mu.Lock()
		if d.stopped || d.timers[name] != t {
			d.mu.Unlock()
			return
		}
		delete(d.timers, name)
		d.running.Add(1)
		d.mu.Unlock()
		defer d.running.Done()
		fn()
	})
	d.timers[name] = t
}

func (d *deferred) cancel(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[name]; ok {
		t.Stop()
		delete(d.timers, name)
	}
}

func (d *deferred) pending(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.timers[name]
	return ok
}

// stop cancels everything pending and waits for callbacks already running.
func (d *deferred) stop() {
	d.mu.Lock()
	d.stopped = true
	for name, t := range d.timers {
		t.Stop()
		delete(d.timers, name)
	}
	d.mu.Unlock()
	d.running.Wait()
}
