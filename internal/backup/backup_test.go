package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestBackupAndGet(t *testing.T) {
	m := NewManager(WithBackupDir(t.TempDir()))
	src := writeConfig(t, t.TempDir(), "mcp.json", `{"mcp":{}}`)

	manifest, err := m.Backup("Cursor", src)
	require.NoError(t, err)

	assert.Equal(t, "Cursor", manifest.App)
	assert.Equal(t, src, manifest.OriginalPath)
	assert.Equal(t, "mcp.json", manifest.Filename)
	assert.NotEmpty(t, manifest.SHA256Hash)
	assert.NotEmpty(t, manifest.ID)

	got, err := m.Get("Cursor", manifest.ID)
	require.NoError(t, err)
	assert.Equal(t, manifest.SHA256Hash, got.SHA256Hash)
}

func TestBackup_MissingSource(t *testing.T) {
	m := NewManager(WithBackupDir(t.TempDir()))
	_, err := m.Backup("Cursor", filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestRestore(t *testing.T) {
	m := NewManager(WithBackupDir(t.TempDir()))
	srcDir := t.TempDir()
	src := writeConfig(t, srcDir, "mcp.json", `{"mcp":{"servers":{"a":{}}}}`)

	manifest, err := m.Backup("Cursor", src)
	require.NoError(t, err)

	// Clobber the original, then restore
	require.NoError(t, os.WriteFile(src, []byte("garbage"), 0o644))
	require.NoError(t, m.Restore("Cursor", manifest.ID))

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, `{"mcp":{"servers":{"a":{}}}}`, string(data))

	info, err := os.Stat(src)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRestore_Corrupted(t *testing.T) {
	root := t.TempDir()
	m := NewManager(WithBackupDir(root))
	src := writeConfig(t, t.TempDir(), "mcp.json", "original")

	manifest, err := m.Backup("Cursor", src)
	require.NoError(t, err)

	// Tamper with the stored copy
	stored := filepath.Join(root, "Cursor", manifest.ID, "mcp.json")
	require.NoError(t, os.WriteFile(stored, []byte("tampered"), 0o644))

	err = m.Restore("Cursor", manifest.ID)
	assert.ErrorIs(t, err, ErrBackupCorrupted)
}

func TestList_SortedNewestFirst(t *testing.T) {
	m := NewManager(WithBackupDir(t.TempDir()))
	src := writeConfig(t, t.TempDir(), "mcp.json", "v1")

	first, err := m.Backup("Claude", src)
	require.NoError(t, err)
	second, err := m.Backup("Claude", src)
	require.NoError(t, err)

	manifests, err := m.List("Claude")
	require.NoError(t, err)
	require.Len(t, manifests, 2)
	assert.Equal(t, second.ID, manifests[0].ID)
	assert.Equal(t, first.ID, manifests[1].ID)
}

func TestList_NoBackups(t *testing.T) {
	m := NewManager(WithBackupDir(t.TempDir()))
	_, err := m.List("Claude")
	assert.ErrorIs(t, err, ErrNoBackupsFound)
}

func TestPrune_RetentionOnBackup(t *testing.T) {
	m := NewManager(WithBackupDir(t.TempDir()), WithRetentionCount(2))
	src := writeConfig(t, t.TempDir(), "mcp.json", "content")

	for i := 0; i < 4; i++ {
		_, err := m.Backup("VSCode", src)
		require.NoError(t, err)
	}

	manifests, err := m.List("VSCode")
	require.NoError(t, err)
	assert.Len(t, manifests, 2)
}
