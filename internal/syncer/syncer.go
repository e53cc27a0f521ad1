// Package syncer implements the synchronization engine.
//
// A Synchronizer owns the canonical MCP config for one pass and orchestrates
// load, merge, write, and validate across all target files. Targets are fixed
// at construction; passes are serialized by an internal mutex so overlapping
// watch-triggered and CLI-triggered syncs cannot interleave writes.
package syncer

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"sync"

	"github.com/thoreinstein/mcpsync/internal/apps"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/format"
	"github.com/thoreinstein/mcpsync/internal/logging"
	"github.com/thoreinstein/mcpsync/internal/paths"
	"github.com/thoreinstein/mcpsync/pkg/fileutil"
)

// Confirmer asks the operator whether a destructive sync should proceed.
// Implementations must treat an interrupt or closed input as "abort".
type Confirmer interface {
	ConfirmDestructive(changes []DestructiveChange) bool
}

// Reporter renders the outcome of one synchronization pass.
type Reporter interface {
	Report(source string, results map[string]SyncResult, validation map[string]ValidationResult)
}

// BackupFunc backs up an existing target file before it is overwritten.
type BackupFunc func(app, path string) error

// Synchronizer keeps N application config files consistent with one
// canonical MCP server set.
type Synchronizer struct {
	mu sync.Mutex

	targets   []apps.Target
	canonical format.Doc

	// digests maps target paths to the SHA-256 of the payload last written
	// there, so the watch loop can recognize echoes of our own writes.
	digests map[string]string

	log      *slog.Logger
	confirm  Confirmer
	report   Reporter
	backupFn BackupFunc
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Synchronizer) {
		if log != nil {
			s.log = log
		}
	}
}

// WithConfirmer sets the destructive-change confirmer. Without one,
// destructive syncs are cancelled unless forced.
func WithConfirmer(c Confirmer) Option {
	return func(s *Synchronizer) {
		s.confirm = c
	}
}

// WithReporter sets the pass reporter.
func WithReporter(r Reporter) Option {
	return func(s *Synchronizer) {
		s.report = r
	}
}

// WithBackup sets the pre-write backup function.
func WithBackup(fn BackupFunc) Option {
	return func(s *Synchronizer) {
		s.backupFn = fn
	}
}

// New creates a Synchronizer for the given targets.
// The canonical config starts empty.
func New(targets []apps.Target, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		targets:   slices.Clone(targets),
		canonical: format.Doc{"servers": map[string]any{}},
		digests:   make(map[string]string),
		log:       logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Targets returns a copy of the target set.
func (s *Synchronizer) Targets() []apps.Target {
	return slices.Clone(s.targets)
}

// Canonical returns a shallow copy of the current canonical config.
func (s *Synchronizer) Canonical() format.Doc {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(format.Doc, len(s.canonical))
	for k, v := range s.canonical {
		out[k] = v
	}
	return out
}

// LastWrittenDigest returns the SHA-256 digest of the payload last written to
// path by this Synchronizer, if any.
func (s *Synchronizer) LastWrittenDigest(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.digests[path]
	return d, ok
}

// SyncFromSource loads the MCP config of a source, makes it canonical, and
// writes it to every target. The source is either a known application name or
// a literal file path.
//
// An unreadable, unparsable, or empty-extract source fails the whole sync
// without mutating canonical state or touching any target. A recognized
// dialect whose server map is empty is still a valid source: propagating an
// intentionally emptied server set is allowed, guarded by the destructive
// change confirmation. User cancellation is reported via errors.ErrCancelled.
// The returned bool is true only when every target was written successfully
// and validated in sync.
func (s *Synchronizer) SyncFromSource(source string, force bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sourcePath := s.resolveSource(source)

	load := LoadDocument(sourcePath)
	switch load.State {
	case StateAbsent:
		return false, errors.Wrapf(errors.ErrSourceNotFound, "%s", sourcePath)
	case StateParseError:
		return false, load.Err
	}

	adapter := format.DetectFormat(load.Doc)
	extracted := adapter.Extract(load.Doc)
	if len(extracted) == 0 {
		return false, errors.Wrapf(errors.ErrSourceEmpty, "%s (%s)", sourcePath, adapter.Name())
	}

	s.log.Info("syncing from source",
		"source", source,
		"path", sourcePath,
		"format", adapter.Name(),
		"servers", len(format.Servers(extracted)))

	s.canonical = extracted

	results := s.applySync(nil, force, sourcePath)

	if allCancelled(results) {
		if s.report != nil {
			s.report.Report(source, results, nil)
		}
		return false, errors.ErrCancelled
	}

	allInSync, validation := s.validateAll(nil)

	if s.report != nil {
		s.report.Report(source, results, validation)
	}

	for _, r := range results {
		if !r.Success {
			return false, nil
		}
	}
	return allInSync, nil
}

// ApplySync writes the canonical config to every target. If overlay is
// non-nil it is deep-merged into canonical first. Destructive changes require
// confirmation unless force is true.
func (s *Synchronizer) ApplySync(overlay format.Doc, force bool) map[string]SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applySync(overlay, force, "")
}

// ValidateAll reloads every target, extracts its MCP config, and compares it
// against ref (defaults to canonical when nil). Returns true only when every
// target is in sync.
func (s *Synchronizer) ValidateAll(ref format.Doc) (bool, map[string]ValidationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateAll(ref)
}

// DetectDestructiveChanges reports every target that would lose server
// entries if the current canonical config were written to it.
func (s *Synchronizer) DetectDestructiveChanges() []DestructiveChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detectDestructive()
}

// resolveSource maps a source label to a file path. A known app name maps to
// its target path (honoring overrides captured in the target set); anything
// else is treated as a literal path.
func (s *Synchronizer) resolveSource(source string) string {
	for _, t := range s.targets {
		if t.Name == source {
			return t.Path
		}
	}
	if paths.ValidApp(source) {
		return paths.ConfigPath(source)
	}
	return source
}

func (s *Synchronizer) applySync(overlay format.Doc, force bool, sourcePath string) map[string]SyncResult {
	if overlay != nil {
		s.canonical = DeepMerge(s.canonical, overlay)
	}

	results := make(map[string]SyncResult, len(s.targets))

	destructive := s.detectDestructive()
	if len(destructive) > 0 && !force {
		if s.confirm == nil || !s.confirm.ConfirmDestructive(destructive) {
			s.log.Warn("sync cancelled", "destructive_targets", len(destructive))
			for _, t := range s.targets {
				results[t.Name] = SyncResult{
					Action: ActionCancelled,
					Path:   t.Path,
					Format: t.Writer.Name(),
				}
			}
			return results
		}
	}

	for _, t := range s.targets {
		results[t.Name] = s.syncTarget(t, sourcePath)
	}

	return results
}

// syncTarget writes canonical into one target. Failures are isolated to the
// target and recorded, never propagated.
func (s *Synchronizer) syncTarget(t apps.Target, sourcePath string) SyncResult {
	result := SyncResult{Path: t.Path, Format: t.Writer.Name()}

	if sourcePath != "" && sameFile(t.Path, sourcePath) {
		s.log.Debug("skipping source target", "app", t.Name)
		result.Success = true
		result.Action = ActionSkipped
		return result
	}

	if err := paths.EnsureDir(filepath.Dir(t.Path), 0o755); err != nil {
		result.Action = ActionFailed
		result.Err = errors.Wrapf(err, "creating directory for %s", t.Name)
		return result
	}

	load := LoadDocument(t.Path)
	if load.State == StateParseError {
		// Never overwrite content the operator might still recover.
		s.log.Warn("target unparsable, not writing", "app", t.Name, "path", t.Path)
		result.Action = ActionFailed
		result.Err = load.Err
		return result
	}
	existed := load.State == StateLoaded

	merged := t.Writer.Merge(load.Doc, s.canonical)

	payload, err := fileutil.MarshalJSONDoc(merged)
	if err != nil {
		result.Action = ActionFailed
		result.Err = err
		return result
	}

	if existed && s.backupFn != nil {
		if err := s.backupFn(t.Name, t.Path); err != nil {
			result.Action = ActionFailed
			result.Err = errors.Wrapf(err, "backing up %s", t.Name)
			return result
		}
	}

	if err := fileutil.AtomicWriteFile(t.Path, payload, 0o644); err != nil {
		result.Action = ActionFailed
		result.Err = err
		return result
	}

	s.digests[t.Path] = digest(payload)

	result.Success = true
	result.Size = len(payload)
	if existed {
		result.Action = ActionUpdated
	} else {
		result.Action = ActionCreated
	}

	s.log.Debug("target written",
		"app", t.Name,
		"action", result.Action,
		"bytes", result.Size,
		"format", result.Format)

	return result
}

func (s *Synchronizer) validateAll(ref format.Doc) (bool, map[string]ValidationResult) {
	if ref == nil {
		ref = s.canonical
	}

	results := make(map[string]ValidationResult, len(s.targets))
	allInSync := true

	for _, t := range s.targets {
		r := validateTarget(t, ref)
		results[t.Name] = r
		if !r.InSync {
			allInSync = false
		}
	}

	return allInSync, results
}

func validateTarget(t apps.Target, ref format.Doc) ValidationResult {
	load := LoadDocument(t.Path)
	switch load.State {
	case StateAbsent:
		return ValidationResult{Reason: ReasonMissing}
	case StateParseError:
		return ValidationResult{Reason: ReasonParseError}
	}

	adapter := format.DetectFormat(load.Doc)
	extracted := adapter.Extract(load.Doc)
	result := ValidationResult{Format: adapter.Name()}

	if _, ok := adapter.(format.ClaudeDesktop); ok {
		// The Claude dialect carries only servers. A non-empty reference
		// without a server set has nothing comparable, so it cannot disagree.
		if _, hasServers := ref["servers"]; !hasServers && len(ref) > 0 {
			result.InSync = true
			result.Reason = ReasonFormatSkip
			return result
		}
		if !reflect.DeepEqual(format.Servers(ref), format.Servers(extracted)) {
			result.Reason = ReasonMismatch
			result.MismatchedKeys = []string{"servers (value mismatch)"}
			return result
		}
		result.InSync = true
		return result
	}

	mismatched := compareKeys(ref, extracted, "")
	if len(mismatched) > 0 {
		result.Reason = ReasonMismatch
		result.MismatchedKeys = mismatched
		return result
	}

	result.InSync = true
	return result
}

// compareKeys walks the keys of ref and flags each one that is absent or
// unequal in got, recursing into nested objects. The synthetic "format"
// metadata key is not part of any on-disk dialect and is skipped.
func compareKeys(ref, got format.Doc, prefix string) []string {
	keys := make([]string, 0, len(ref))
	for k := range ref {
		if k == "format" {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var mismatched []string
	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}

		gotVal, ok := got[k]
		if !ok {
			mismatched = append(mismatched, path+" (missing)")
			continue
		}

		refMap, refIsMap := ref[k].(map[string]any)
		gotMap, gotIsMap := gotVal.(map[string]any)
		if refIsMap && gotIsMap {
			mismatched = append(mismatched, compareKeys(refMap, gotMap, path)...)
			continue
		}

		if !reflect.DeepEqual(ref[k], gotVal) {
			mismatched = append(mismatched, path+" (value mismatch)")
		}
	}

	return mismatched
}

// detectDestructive compares every parseable target against canonical.
// The superset test is by server count, with a non-empty key difference.
func (s *Synchronizer) detectDestructive() []DestructiveChange {
	canonicalServers := format.Servers(s.canonical)

	var changes []DestructiveChange
	for _, t := range s.targets {
		load := LoadDocument(t.Path)
		if load.State != StateLoaded {
			continue
		}

		adapter := format.DetectFormat(load.Doc)
		existing := format.Servers(adapter.Extract(load.Doc))
		if len(existing) <= len(canonicalServers) {
			continue
		}

		var lost []string
		for name := range existing {
			if _, ok := canonicalServers[name]; !ok {
				lost = append(lost, name)
			}
		}
		if len(lost) == 0 {
			continue
		}

		slices.Sort(lost)
		changes = append(changes, DestructiveChange{
			App:              t.Name,
			ExistingServers:  sortedKeys(existing),
			LostServers:      lost,
			RemainingServers: sortedKeys(canonicalServers),
		})
	}

	return changes
}

func allCancelled(results map[string]SyncResult) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if r.Action != ActionCancelled {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// sameFile reports whether two paths refer to the same file on disk.
// Falls back to path equality when either cannot be stat'ed.
func sameFile(a, b string) bool {
	if a == b {
		return true
	}
	ai, errA := os.Stat(a)
	bi, errB := os.Stat(b)
	if errA != nil || errB != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
