// SPDX-License-Identifier: MPL-2.0

// Package state persists what the toolchain last installed, so later runs
// can tell the user when a newer heimdall release exists.
package state

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"bifrost-cli/internal/config"
)

// InstallSource describes how the current artifact was produced.
type InstallSource string

const (
	// SourceBuild means the artifact was compiled from a checkout.
	SourceBuild InstallSource = "source"
	// SourceBinary means a precompiled artifact was downloaded.
	SourceBinary InstallSource = "binary"
)

// Record is the install record persisted at the toolchain root.
type Record struct {
	// Version is the resolved version the artifact was installed from.
	Version string `toml:"version"`
	// Source is how the artifact was produced.
	Source InstallSource `toml:"source"`
	// InstalledAt is when the install completed.
	InstalledAt time.Time `toml:"installed_at"`
}

// Store reads and writes the install record file.
type Store struct {
	cfg *config.Config
	now func() time.Time
}

// NewStore creates a Store for the configured toolchain root.
func NewStore(cfg *config.Config) *Store {
	return &Store{cfg: cfg, now: time.Now}
}

// Save writes the record for a completed install, replacing any prior one.
func (s *Store) Save(version string, source InstallSource) error {
	rec := Record{
		Version:     version,
		Source:      source,
		InstalledAt: s.now().UTC(),
	}

	data, err := toml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding install record: %w", err)
	}
	if err := os.WriteFile(s.cfg.StatePath(), data, 0o644); err != nil {
		return fmt.Errorf("writing install record: %w", err)
	}
	return nil
}

// Load reads the current install record. A missing file returns (nil, nil):
// nothing has been installed yet, which is not an error.
func (s *Store) Load() (*Record, error) {
	data, err := os.ReadFile(s.cfg.StatePath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading install record: %w", err)
	}

	var rec Record
	if err := toml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding install record: %w", err)
	}
	return &rec, nil
}
