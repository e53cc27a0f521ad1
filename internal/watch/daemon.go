package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
	"github.com/thoreinstein/mcpsync/internal/paths"
	"github.com/thoreinstein/mcpsync/internal/syncer"
	"github.com/thoreinstein/mcpsync/pkg/fileutil"
)

// Daemon watches every target's parent directory and re-synchronizes when a
// target file is edited externally.
//
// Directories are watched rather than files so targets that do not exist yet
// are still picked up on creation. Write events whose file content matches
// the digest of the Synchronizer's own last write are echoes and are ignored.
type Daemon struct {
	sync     *syncer.Synchronizer
	watcher  *fsnotify.Watcher
	debounce *Debouncer

	// pathApp maps cleaned target file paths to app names.
	pathApp map[string]string

	log *slog.Logger

	mu       sync.Mutex
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// Option configures a Daemon.
type Option func(*daemonConfig)

type daemonConfig struct {
	delay     time.Duration
	log       *slog.Logger
	watchApps []string
}

// WithDelay sets the debounce window.
func WithDelay(d time.Duration) Option {
	return func(c *daemonConfig) {
		c.delay = d
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *daemonConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// WithWatchApps narrows the watch subscriptions to the named apps. The
// Synchronizer's target set is untouched, so an edit to a watched app still
// propagates to every target. Empty means watch all targets.
func WithWatchApps(names []string) Option {
	return func(c *daemonConfig) {
		c.watchApps = names
	}
}

// NewDaemon creates a Daemon over the Synchronizer's targets.
// It subscribes one watch per distinct parent directory, creating the
// directory first if needed. WithWatchApps limits which targets are
// subscribed; syncs triggered by a watched app still write all targets.
func NewDaemon(s *syncer.Synchronizer, opts ...Option) (*Daemon, error) {
	cfg := daemonConfig{
		delay: DefaultDebounceDelay,
		log:   logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	targets := s.Targets()
	if len(cfg.watchApps) > 0 {
		allowed := make(map[string]bool, len(cfg.watchApps))
		for _, name := range cfg.watchApps {
			allowed[name] = true
		}
		watched := targets[:0]
		for _, t := range targets {
			if allowed[t.Name] {
				watched = append(watched, t)
			}
		}
		targets = watched
	}
	if len(targets) == 0 {
		return nil, errors.ErrNoAppsDetected
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating file watcher")
	}

	d := &Daemon{
		sync:    s,
		watcher: watcher,
		pathApp: make(map[string]string, len(targets)),
		log:     cfg.log,
		closeCh: make(chan struct{}),
	}
	d.debounce = NewDebouncer(cfg.delay, d.runSync, cfg.log)

	watched := make(map[string]bool)
	for _, t := range targets {
		d.pathApp[filepath.Clean(t.Path)] = t.Name

		dir := filepath.Dir(t.Path)
		if watched[dir] {
			continue
		}
		if err := paths.EnsureDir(dir, 0o755); err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "creating watch directory %s", dir)
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "watching %s", dir)
		}
		watched[dir] = true
		cfg.log.Debug("watching directory", "dir", dir)
	}

	return d, nil
}

// Run processes watch events until ctx is cancelled or Stop is called.
func (d *Daemon) Run(ctx context.Context) error {
	d.closedWg.Add(1)
	go d.processLoop()

	d.log.Info("watching for changes", "apps", len(d.pathApp))

	select {
	case <-ctx.Done():
		d.Stop()
	case <-d.closeCh:
		d.closedWg.Wait()
	}
	return nil
}

// Stop shuts the daemon down and blocks until the watch loop has quiesced.
// It is safe to call more than once.
func (d *Daemon) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.closedWg.Wait()
		return
	}
	d.closed = true
	close(d.closeCh)
	d.mu.Unlock()

	d.closedWg.Wait()
	d.debounce.Stop()
	d.watcher.Close()
	d.log.Info("watch stopped")
}

// processLoop handles incoming fsnotify events until closed.
func (d *Daemon) processLoop() {
	defer d.closedWg.Done()

	for {
		select {
		case <-d.closeCh:
			return

		case event, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			d.handleEvent(event)

		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.log.Warn("watch error", "error", err)
		}
	}
}

// handleEvent filters one fsnotify event down to a debouncer trigger.
func (d *Daemon) handleEvent(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
		return
	}

	path := filepath.Clean(event.Name)
	app, ok := d.pathApp[path]
	if !ok {
		return
	}

	if d.isEcho(path) {
		d.log.Debug("own write echoed, ignoring", "app", app, "path", path)
		return
	}

	d.log.Debug("change detected", "app", app, "path", path, "op", event.Op.String())
	d.debounce.Trigger(app, path)
}

// isEcho reports whether the file at path currently holds exactly what the
// Synchronizer last wrote there.
func (d *Daemon) isEcho(path string) bool {
	want, ok := d.sync.LastWrittenDigest(path)
	if !ok {
		return false
	}

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return false
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]) == want
}

// runSync is the debouncer's callback: re-synchronize from the edited app.
func (d *Daemon) runSync(app, path string) {
	d.log.Info("synchronizing", "source", app, "trigger", path)

	ok, err := d.sync.SyncFromSource(app, true)
	switch {
	case err != nil:
		d.log.Error("sync failed", "source", app, "error", err)
	case !ok:
		d.log.Warn("sync completed with mismatches", "source", app)
	default:
		d.log.Info("sync complete", "source", app)
	}
}
