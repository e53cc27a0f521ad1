// Package watch runs the file-watch daemon: an fsnotify subscription feeding
// a per-app debouncer that re-triggers synchronization on external edits.
package watch

import (
	"log/slog"
	"sync"
	"time"

	"github.com/thoreinstein/mcpsync/internal/logging"
)

// DefaultDebounceDelay is the window used when none is configured.
const DefaultDebounceDelay = 2 * time.Second

// SyncFunc is invoked once per settled burst of changes, with the app name
// and the path of the last event in the burst.
type SyncFunc func(app, path string)

// pendingSync is one armed debounce timer. gen increments on every re-arm so
// a timer callback that raced a reset can recognize it is stale.
type pendingSync struct {
	timer *time.Timer
	path  string
	gen   uint64
}

// Debouncer coalesces bursts of file-change events per application.
//
// Each event arms (or re-arms) a timer for its app; the sync function runs
// once the window elapses with no further events, receiving the last event's
// path. At most one timer exists per app, and events arriving while that
// app's sync is executing are dropped.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	pending  map[string]*pendingSync
	inFlight map[string]bool
	syncFn   SyncFunc
	log      *slog.Logger
}

// NewDebouncer creates a Debouncer invoking fn after delay. A non-positive
// delay falls back to DefaultDebounceDelay.
func NewDebouncer(delay time.Duration, fn SyncFunc, log *slog.Logger) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	if log == nil {
		log = logging.NewDiscard()
	}
	return &Debouncer{
		delay:    delay,
		pending:  make(map[string]*pendingSync),
		inFlight: make(map[string]bool),
		syncFn:   fn,
		log:      log,
	}
}

// Trigger records a change event for app. If a timer is already armed for
// the app it is reset, and the path replaced, so a burst of edits collapses
// into one sync using the burst's last path.
func (d *Debouncer) Trigger(app, path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.inFlight[app] {
		d.log.Debug("sync in flight, dropping event", "app", app, "path", path)
		return
	}

	if p, ok := d.pending[app]; ok {
		// Stop may return false when the old timer already fired and its
		// callback is waiting on the mutex; the bumped generation makes that
		// callback a no-op so only the fresh window counts.
		p.timer.Stop()
		p.path = path
		p.gen++
		gen := p.gen
		p.timer = time.AfterFunc(d.delay, func() { d.fire(app, gen) })
		d.log.Debug("debounce window reset", "app", app, "path", path)
		return
	}

	p := &pendingSync{path: path}
	p.timer = time.AfterFunc(d.delay, func() { d.fire(app, 0) })
	d.pending[app] = p
	d.log.Debug("sync scheduled", "app", app, "path", path, "delay", d.delay)
}

// fire runs on the timer goroutine once the window elapses. gen must match
// the pending entry's generation or the callback belongs to a superseded
// window and does nothing.
func (d *Debouncer) fire(app string, gen uint64) {
	d.mu.Lock()
	p, ok := d.pending[app]
	if !ok || p.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.pending, app)
	d.inFlight[app] = true
	d.mu.Unlock()

	defer func() {
		// The slot must clear even if the sync panics, or the app would be
		// stuck dropping every future event.
		if r := recover(); r != nil {
			d.log.Error("sync panicked", "app", app, "panic", r)
		}
		d.mu.Lock()
		delete(d.inFlight, app)
		d.mu.Unlock()
	}()

	d.syncFn(app, p.path)
}

// PendingCount returns the number of armed timers.
func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Stop cancels all armed timers. Syncs already executing are not interrupted.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for app, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, app)
	}
}
