// Package fileutil provides file system utilities including atomic write operations.
package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/mcpsync/internal/errors"
)

// AtomicWriteFile writes data to a file atomically using a temp file + rename pattern.
// This ensures interrupted writes leave the original file intact.
//
// The caller is responsible for ensuring the parent directory exists.
// Permissions are applied to the final file via the perm parameter.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	// Temp file must live in the same directory so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(dir, ".mcpsync-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}

	tmpName := tmp.Name()
	defer func() {
		// Only remove if rename failed (file still exists)
		if _, statErr := os.Stat(tmpName); statErr == nil {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Wrap(err, "setting file permissions")
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}

	return nil
}

// MarshalJSONDoc renders v as 2-space-indented JSON with a trailing newline,
// matching the on-disk convention of every application config this tool touches.
func MarshalJSONDoc(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling JSON")
	}
	return append(data, '\n'), nil
}

// AtomicWriteJSON writes v as indented JSON to path atomically.
// The file is created with 0644 permissions.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicWriteJSON(path string, v any) error {
	data, err := MarshalJSONDoc(v)
	if err != nil {
		return err
	}
	return AtomicWriteFile(path, data, 0o644)
}

// MarshalYAMLDoc renders v as YAML with a trailing newline.
func MarshalYAMLDoc(v any) (data []byte, err error) {
	// yaml.Marshal panics on unmarshalable types; recover and return error
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("marshaling YAML: %v", r)
		}
	}()

	data, err = yaml.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling YAML")
	}

	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return data, nil
}

// AtomicWriteYAML writes v as YAML to path atomically with 0644 permissions.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicWriteYAML(path string, v any) error {
	data, err := MarshalYAMLDoc(v)
	if err != nil {
		return err
	}
	return AtomicWriteFile(path, data, 0o644)
}

// AtomicWriteTOML writes v as TOML to path atomically with 0644 permissions.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicWriteTOML(path string, v any) error {
	data, err := toml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling TOML")
	}

	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	return AtomicWriteFile(path, data, 0o644)
}
