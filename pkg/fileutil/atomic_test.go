package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	require.NoError(t, AtomicWriteFile(path, []byte(`{"a":1}`), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))
	require.NoError(t, AtomicWriteFile(path, []byte("new"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestAtomicWriteJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	require.NoError(t, AtomicWriteJSON(path, map[string]any{"servers": map[string]any{}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// 2-space indentation and trailing newline
	assert.Contains(t, string(data), "  \"servers\"")
	assert.Equal(t, byte('\n'), data[len(data)-1])

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Contains(t, parsed, "servers")
}

func TestAtomicWriteYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	require.NoError(t, AtomicWriteYAML(path, map[string]int{"retention": 5}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "retention: 5")
}

func TestAtomicWriteTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.toml")

	require.NoError(t, AtomicWriteTOML(path, map[string]string{"source": "Claude"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `source = 'Claude'`)
}

func TestReadFileWithLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "small.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	data, err := ReadFileWithLimit(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestReadFileWithLimit_TooLarge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.json")
	require.NoError(t, os.WriteFile(path, make([]byte, MaxFileSize+1), 0o644))

	_, err := ReadFileWithLimit(path)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestReadFileWithLimit_Missing(t *testing.T) {
	_, err := ReadFileWithLimit(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
