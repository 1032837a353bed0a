// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// workspace types/constants

package workspace

import "github.com/rs/zerolog"

const (
	// ProfilesSubdir is where raw profiles live inside the cargo target directory
	ProfilesSubdir = "pgo-profiles"
	// DefaultTargetDir is used when cargo metadata does not report one
	DefaultTargetDir = "target"
)

// Context describes the cargo workspace a run operates on
type Context struct {
	Root       string // workspace root containing the top-level Cargo.toml
	TargetDir  string // cargo target directory
	profileDir string // explicit override of the profile directory
}

// ContextConfig holds configuration for workspace resolution
type ContextConfig struct {
	Cargo      string // cargo binary used for `cargo metadata`
	Dir        string // directory to resolve from, empty for the current one
	ProfileDir string // optional profile directory override
}

// ProfileDir is the on-disk location raw profiles are written to
type ProfileDir struct {
	Path   string
	logger zerolog.Logger
}

type cargoMetadata struct {
	WorkspaceRoot   string `json:"workspace_root"`
	TargetDirectory string `json:"target_directory"`
}
