// Package manifest records what a staging run materialized and writes
// the record as TOML or YAML.
package manifest

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/stagedir/pkg/errors"
	"github.com/arthur-debert/stagedir/pkg/mirror"
	"github.com/arthur-debert/stagedir/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a manifest serialization
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Manifest lists materialized entries in the order they were created
type Manifest struct {
	Key     string         `toml:"key,omitempty" yaml:"key,omitempty"`
	Root    string         `toml:"root,omitempty" yaml:"root,omitempty"`
	Entries []mirror.Entry `toml:"entry" yaml:"entries"`
}

// New returns an empty manifest
func New() *Manifest {
	return &Manifest{}
}

// Observe appends e. Pass it to mirror.WithObserver.
func (m *Manifest) Observe(e mirror.Entry) {
	m.Entries = append(m.Entries, e)
}

// Count returns how many entries of kind were recorded
func (m *Manifest) Count(kind mirror.Kind) int {
	n := 0
	for _, e := range m.Entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// FormatForPath picks a format from the file extension
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unsupported manifest extension %q", filepath.Ext(path)).
			WithDetail("path", path)
	}
}

// Encode writes m to w in format
func (m *Manifest) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(m); err != nil {
			return fmt.Errorf("failed to encode TOML manifest: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("failed to encode YAML manifest: %w", err)
		}
		return enc.Close()
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown manifest format %q", format)
	}
}

// Decode reads a manifest previously written by Encode
func Decode(r io.Reader, format Format) (*Manifest, error) {
	m := New()
	switch format {
	case FormatTOML:
		if err := toml.NewDecoder(r).Decode(m); err != nil {
			return nil, fmt.Errorf("failed to parse TOML manifest: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(m); err != nil {
			return nil, fmt.Errorf("failed to parse YAML manifest: %w", err)
		}
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown manifest format %q", format)
	}
	return m, nil
}

// WriteFile writes m to path, choosing the format from its extension
func (m *Manifest) WriteFile(fsys types.FS, path string) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := m.Encode(&buf, format); err != nil {
		return err
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to create %s", filepath.Dir(path)).
			WithDetail("path", path)
	}
	if err := fsys.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to write manifest %s", path).
			WithDetail("path", path)
	}
	return nil
}
