// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Profile directory preparation and cleanup

package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/sony-level/pgo-runner/internal/console"
	pgoerrors "github.com/sony-level/pgo-runner/internal/errors"
)

// NewProfileDir returns a handle on path. Nothing is created yet.
func NewProfileDir(path string, logger zerolog.Logger) *ProfileDir {
	return &ProfileDir{Path: path, logger: logger}
}

// Prepare makes sure the directory exists and, unless keepExisting is set,
// removes profiles gathered by previous runs. The directory itself is kept.
func (p *ProfileDir) Prepare(keepExisting bool) (string, error) {
	if !keepExisting {
		p.logger.Info().Msg("PGO profile directory will be cleared.")
		if err := p.Clear(); err != nil {
			return "", err
		}
	} else if err := p.ensure(); err != nil {
		return "", err
	}

	p.logger.Info().
		Str("dir", p.Path).
		Msgf("PGO profiles will be stored into %s.", console.FormatPath(p.Path))

	return p.Path, nil
}

// Clear removes everything inside the directory, creating it if missing.
func (p *ProfileDir) Clear() error {
	if err := p.ensure(); err != nil {
		return err
	}

	entries, err := os.ReadDir(p.Path)
	if err != nil {
		return pgoerrors.IO("read profile directory", p.Path, err)
	}

	for _, entry := range entries {
		entryPath := filepath.Join(p.Path, entry.Name())
		if err := os.RemoveAll(entryPath); err != nil {
			return pgoerrors.IO("clear profile directory", entryPath, err)
		}
	}

	return nil
}

func (p *ProfileDir) ensure() error {
	info, err := os.Stat(p.Path)
	if err == nil {
		if !info.IsDir() {
			return pgoerrors.IO("prepare profile directory", p.Path, fmt.Errorf("not a directory"))
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return pgoerrors.IO("stat profile directory", p.Path, err)
	}

	if err := os.MkdirAll(p.Path, 0755); err != nil {
		return pgoerrors.IO("create profile directory", p.Path, err)
	}
	return nil
}

// Exists checks if the profile directory exists
func (p *ProfileDir) Exists() bool {
	info, err := os.Stat(p.Path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// Profiles lists the raw profile files currently in the directory
func (p *ProfileDir) Profiles() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(p.Path, "*.profraw"))
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles in %s: %w", p.Path, err)
	}
	return matches, nil
}

// String returns a string representation of the profile directory
func (p *ProfileDir) String() string {
	return fmt.Sprintf("ProfileDir{Path: %s, Exists: %v}", p.Path, p.Exists())
}
