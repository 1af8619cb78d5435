package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file, resolved against the working directory.
const FileName = "bodot.config"

// ErrUnreadable is returned by Save when the existing file cannot be decoded.
var ErrUnreadable = errors.New("configuration file is unreadable")

// Store loads and saves the project configuration file.
type Store struct {
	path string
}

// NewStore returns a store for bodot.config inside dir.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName)}
}

// Path returns the configuration file path.
func (s *Store) Path() string { return s.path }

// Exists reports whether the configuration file is present.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Check returns the read or decode error of an existing configuration file.
// A missing file is not an error.
func (s *Store) Check() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, Default()); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Load reads the configuration file. It never fails: a missing file or a
// decode error yields a fresh default record. Callers that persist the
// record must consult Check first; Save does so itself.
func (s *Store) Load() *Project {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read configuration, using defaults", "path", s.path, "error", err)
		}
		return Default()
	}

	project := Default()
	if err := yaml.Unmarshal(data, project); err != nil {
		slog.Warn("Failed to parse configuration, using defaults", "path", s.path, "error", err)
		return Default()
	}
	project.normalize()
	return project
}

// Encode renders the record in its on-disk form.
func Encode(p *Project) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the record to the configuration file. It refuses to replace a
// file that exists but cannot be decoded, since p then holds defaults.
func (s *Store) Save(p *Project) error {
	if err := s.Check(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return s.Replace(p)
}

// Replace writes the record unconditionally, discarding prior contents.
func (s *Store) Replace(p *Project) error {
	data, err := Encode(p)
	if err != nil {
		return err
	}

	// #nosec G306 -- project config is meant to be shared in the repository
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
