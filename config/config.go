// Package config persists the pair of project paths efmig operates on.
//
// The file is a single JSON object with two string fields:
//
//	{"startupProjectPath": "...", "dataProjectPath": "..."}
//
// It is written on first run, validated on every load, and deleted when a path
// it names no longer exists.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/teranos/efmig/errors"
)

// FileName is the default name of the persisted configuration.
const FileName = "efmig.json"

// Projects identifies the projects handed to every tool invocation.
type Projects struct {
	StartupProjectPath string `json:"startupProjectPath" yaml:"startupProjectPath" toml:"startupProjectPath"`
	DataProjectPath    string `json:"dataProjectPath" yaml:"dataProjectPath" toml:"dataProjectPath"`
}

// Probe reports whether a path exists. Validation takes it as a parameter so it
// stays free of filesystem access.
type Probe func(path string) bool

// OSProbe checks the real filesystem.
func OSProbe(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Validate checks that both paths are set and exist according to probe.
// Failures are marked as configuration errors.
func Validate(p Projects, probe Probe) error {
	fields := []struct {
		name, path string
	}{
		{"startupProjectPath", p.StartupProjectPath},
		{"dataProjectPath", p.DataProjectPath},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.path) == "" {
			return errors.NewConfiguration("%s is empty", f.name)
		}
		if !probe(f.path) {
			return errors.WithDetailf(
				errors.NewConfiguration("%s no longer exists", f.name),
				"path: %s", f.path)
		}
	}
	return nil
}

// DefaultPath returns efmig.json next to the running executable.
func DefaultPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(err, "failed to locate executable")
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), FileName), nil
}

// Store reads and writes the configuration file at Path.
type Store struct {
	Path string
}

// NewStore returns a store for path, or for DefaultPath when path is empty.
func NewStore(path string) (*Store, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	return &Store{Path: path}, nil
}

// Load reads the configuration. A missing file returns ErrNotFound.
func (s *Store) Load() (Projects, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return Projects{}, errors.NewNotFoundError("no configuration at %s", s.Path)
	}
	if err != nil {
		return Projects{}, errors.Wrapf(err, "failed to read %s", s.Path)
	}

	var p Projects
	if err := json.Unmarshal(data, &p); err != nil {
		return Projects{}, errors.Mark(
			errors.Wrapf(err, "failed to parse %s", s.Path), errors.ErrConfiguration)
	}
	return p, nil
}

// Save writes the configuration, creating the parent directory if needed.
func (s *Store) Save(p Projects) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode configuration")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o750); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", s.Path)
	}
	if err := os.WriteFile(s.Path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", s.Path)
	}
	return nil
}

// Delete removes the configuration file. A missing file is not an error.
func (s *Store) Delete() error {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to delete %s", s.Path)
	}
	return nil
}
