// Package backup stores timestamped copies of application config files
// before mcpsync overwrites them.
//
// Layout: <root>/<app>/<id>/ holds the copied config file plus a
// manifest.json recording the original path, a SHA-256 digest, and the file
// mode. Restore verifies the digest before copying anything back.
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/paths"
	"github.com/thoreinstein/mcpsync/pkg/fileutil"
)

// ManifestVersion is the manifest format version for forward compatibility.
const ManifestVersion = 1

// DefaultRetentionCount is the default number of backups retained per app.
const DefaultRetentionCount = 5

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no backups exist for the specified app.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates backup integrity verification failed.
	ErrBackupCorrupted = errors.New("backup corrupted")
)

// Manifest contains metadata about one backup.
// It is stored as manifest.json in the backup directory.
type Manifest struct {
	// Version is the manifest format version.
	Version int `json:"version"`

	// CreatedAt is when the backup was created.
	CreatedAt time.Time `json:"created_at"`

	// App is the application whose config file was backed up.
	App string `json:"app"`

	// OriginalPath is the absolute path the file was copied from.
	OriginalPath string `json:"original_path"`

	// Filename is the name of the copied file within the backup directory.
	Filename string `json:"filename"`

	// SHA256Hash is the hex-encoded digest of the file contents.
	SHA256Hash string `json:"sha256_hash"`

	// Mode is the file's permission bits.
	Mode fs.FileMode `json:"mode"`

	// ID is the backup identifier (timestamp based). Populated when loading
	// from disk, not stored in JSON.
	ID string `json:"-"`
}

// Manager handles backup creation, restoration, and pruning.
type Manager struct {
	rootDir        string
	retentionCount int
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		m.rootDir = dir
	}
}

// WithRetentionCount sets the number of backups to retain per app.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// NewManager creates a new backup Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        paths.BackupDir(),
		retentionCount: DefaultRetentionCount,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Backup copies the config file at path into a new backup for app and prunes
// old backups beyond the retention count. The source file must exist.
func (m *Manager) Backup(app, path string) (*Manifest, error) {
	if app == "" {
		return nil, errors.New("app is required")
	}

	// Nanosecond precision: successive syncs can land within one second.
	backupID := time.Now().UTC().Format("20060102T150405.000000000")
	backupPath := m.backupPath(app, backupID)

	if err := os.MkdirAll(backupPath, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating backup directory")
	}

	filename := filepath.Base(path)
	dst := filepath.Join(backupPath, filename)

	hash, mode, err := copyFile(path, dst)
	if err != nil {
		os.RemoveAll(backupPath)
		return nil, errors.Wrapf(err, "backing up %s", path)
	}

	manifest := &Manifest{
		Version:      ManifestVersion,
		CreatedAt:    time.Now().UTC(),
		App:          app,
		OriginalPath: path,
		Filename:     filename,
		SHA256Hash:   hash,
		Mode:         mode,
		ID:           backupID,
	}

	manifestPath := filepath.Join(backupPath, "manifest.json")
	if err := fileutil.AtomicWriteJSON(manifestPath, manifest); err != nil {
		os.RemoveAll(backupPath)
		return nil, errors.Wrap(err, "writing manifest")
	}

	if err := m.Prune(app, m.retentionCount); err != nil {
		return nil, errors.Wrap(err, "pruning old backups")
	}

	return manifest, nil
}

// Restore copies a backed-up file back to its original location after
// verifying its digest against the manifest.
func (m *Manager) Restore(app, backupID string) error {
	manifest, err := m.Get(app, backupID)
	if err != nil {
		return err
	}

	src := filepath.Join(m.backupPath(app, backupID), manifest.Filename)

	hash, err := hashFile(src)
	if err != nil {
		return errors.Wrapf(err, "reading backup file %s", manifest.Filename)
	}
	if hash != manifest.SHA256Hash {
		return errors.Wrapf(ErrBackupCorrupted, "file %s hash mismatch", manifest.Filename)
	}

	if err := os.MkdirAll(filepath.Dir(manifest.OriginalPath), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", manifest.OriginalPath)
	}

	if _, _, err := copyFile(src, manifest.OriginalPath); err != nil {
		return errors.Wrapf(err, "restoring %s", manifest.OriginalPath)
	}

	if err := os.Chmod(manifest.OriginalPath, manifest.Mode); err != nil {
		return errors.Wrapf(err, "setting permissions for %s", manifest.OriginalPath)
	}

	return nil
}

// List returns all backups for an app, sorted newest first.
func (m *Manager) List(app string) ([]Manifest, error) {
	if app == "" {
		return nil, errors.New("app is required")
	}

	appDir := filepath.Join(m.rootDir, app)

	entries, err := os.ReadDir(appDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.Get(app, entry.Name())
		if err != nil {
			// Skip invalid backup directories
			continue
		}
		manifests = append(manifests, *manifest)
	}

	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return manifests, nil
}

// Prune removes backups beyond the given retention count, keeping the
// newest ones.
func (m *Manager) Prune(app string, keep int) error {
	if keep < 0 {
		return errors.New("keep must be non-negative")
	}

	manifests, err := m.List(app)
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil
		}
		return err
	}

	for i := keep; i < len(manifests); i++ {
		if err := os.RemoveAll(m.backupPath(app, manifests[i].ID)); err != nil {
			return errors.Wrapf(err, "removing backup %s", manifests[i].ID)
		}
	}

	return nil
}

// Get returns the manifest for a specific backup.
func (m *Manager) Get(app, backupID string) (*Manifest, error) {
	if app == "" {
		return nil, errors.New("app is required")
	}
	if backupID == "" {
		return nil, errors.New("backup ID is required")
	}

	manifestPath := filepath.Join(m.backupPath(app, backupID), "manifest.json")

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", backupID)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}

	manifest.ID = backupID
	return &manifest, nil
}

// backupPath returns the full path to a backup directory.
func (m *Manager) backupPath(app, backupID string) string {
	return filepath.Join(m.rootDir, app, backupID)
}

// hashFile computes the SHA-256 hash of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "reading file")
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies src to dst, returning the SHA-256 hash and source mode.
func copyFile(src, dst string) (hash string, mode fs.FileMode, err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source file")
	}
	mode = srcInfo.Mode()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, errors.Wrap(err, "creating destination file")
	}

	h := sha256.New()
	w := io.MultiWriter(dstFile, h)

	if _, err := io.Copy(w, srcFile); err != nil {
		dstFile.Close()
		return "", 0, errors.Wrap(err, "copying file")
	}

	if err := dstFile.Close(); err != nil {
		return "", 0, errors.Wrap(err, "closing destination file")
	}

	if err := os.Chmod(dst, mode); err != nil {
		return "", 0, errors.Wrap(err, "setting permissions")
	}

	return hex.EncodeToString(h.Sum(nil)), mode, nil
}
