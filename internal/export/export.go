// Package export renders a canonical MCP config to portable formats.
package export

import (
	"encoding/json"
	"io"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/format"
)

// Format represents the output format for an exported config.
type Format string

const (
	// FormatJSON exports the config as JSON.
	FormatJSON Format = "json"
	// FormatYAML exports the config as YAML.
	FormatYAML Format = "yaml"
	// FormatTOML exports the config as TOML.
	FormatTOML Format = "toml"
)

// IsValid returns true if the format is recognized.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTOML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// AllFormats returns all supported export formats.
func AllFormats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTOML}
}

// ParseFormat parses a string into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", errors.Newf("unsupported format %q (valid: json, yaml, toml)", s)
	}
	return f, nil
}

// Write renders a canonical config to w in the given format. The synthetic
// "format" metadata key is stripped; it describes where the config came from,
// not what it contains.
func Write(w io.Writer, canonical format.Doc, f Format) error {
	doc := make(format.Doc, len(canonical))
	for k, v := range canonical {
		if k == "format" {
			continue
		}
		doc[k] = v
	}

	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		if err := enc.Close(); err != nil {
			return errors.Wrap(err, "closing YAML encoder")
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return errors.Wrap(err, "encoding TOML")
		}
	default:
		return errors.Newf("unsupported format %q", f)
	}

	return nil
}
