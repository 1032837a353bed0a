// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Cargo workspace resolution

package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Resolve asks cargo for the workspace layout of config.Dir.
// If config is nil, uses cargo from PATH and the current working directory.
func Resolve(ctx context.Context, config *ContextConfig) (*Context, error) {
	if config == nil {
		config = &ContextConfig{}
	}

	cargo := config.Cargo
	if cargo == "" {
		cargo = "cargo"
	}

	cmd := exec.CommandContext(ctx, cargo, "metadata", "--format-version", "1", "--no-deps")
	cmd.Dir = config.Dir

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("failed to read cargo metadata: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("failed to read cargo metadata: %w", err)
	}

	return parseMetadata(out, config)
}

// FromTargetDir builds a context without consulting cargo.
func FromTargetDir(targetDir, profileDir string) *Context {
	return &Context{
		Root:       filepath.Dir(targetDir),
		TargetDir:  targetDir,
		profileDir: profileDir,
	}
}

func parseMetadata(data []byte, config *ContextConfig) (*Context, error) {
	var meta cargoMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse cargo metadata: %w", err)
	}

	ws := &Context{
		Root:       meta.WorkspaceRoot,
		TargetDir:  meta.TargetDirectory,
		profileDir: config.ProfileDir,
	}

	if ws.Root == "" {
		dir := config.Dir
		if dir == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current working directory: %w", err)
			}
			dir = cwd
		}
		ws.Root = dir
	}
	if ws.TargetDir == "" {
		ws.TargetDir = filepath.Join(ws.Root, DefaultTargetDir)
	}

	return ws, nil
}

// ProfilePath returns the profile directory path without touching the disk
func (c *Context) ProfilePath() string {
	if c.profileDir != "" {
		return c.profileDir
	}
	return filepath.Join(c.TargetDir, ProfilesSubdir)
}

// ProfileDir returns the profile directory of this workspace
func (c *Context) ProfileDir(logger zerolog.Logger) *ProfileDir {
	return NewProfileDir(c.ProfilePath(), logger)
}

// String returns a string representation of the workspace
func (c *Context) String() string {
	return fmt.Sprintf("Workspace{Root: %s, TargetDir: %s, Profiles: %s}", c.Root, c.TargetDir, c.ProfilePath())
}
