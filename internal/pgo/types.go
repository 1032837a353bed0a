// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Instrumentation request and collaborator interfaces

package pgo

import (
	"context"
	"io"
	"iter"
	"maps"
	"slices"

	"github.com/sony-level/pgo-runner/internal/build"
)

// Request describes one instrumented cargo run
type Request struct {
	// Command is the cargo subcommand used for the instrumented compilation
	Command build.CommandKind
	// KeepProfiles skips removing profiles gathered during previous runs
	KeepProfiles bool
	// CargoArgs are passed to cargo verbatim, in order
	CargoArgs []string
	// CargoEnv is set for the cargo process on top of the inherited environment
	CargoEnv map[string]string
}

// NewRequest copies args and env so the request cannot change under a run
func NewRequest(command build.CommandKind, keepProfiles bool, args []string, env map[string]string) Request {
	return Request{
		Command:      command,
		KeepProfiles: keepProfiles,
		CargoArgs:    slices.Clone(args),
		CargoEnv:     maps.Clone(env),
	}
}

// ProfilePreparer readies the profile directory and returns its path
type ProfilePreparer interface {
	Prepare(keepExisting bool) (string, error)
}

// EventStream is a launched-on-demand toolchain process
type EventStream interface {
	Events() iter.Seq2[build.Event, error]
	CheckStatus() error
	io.Closer
}

// LaunchFunc turns a composed command into an event stream
type LaunchFunc func(ctx context.Context, cmd *build.Command) EventStream

// Launch is the LaunchFunc running real processes
func Launch(ctx context.Context, cmd *build.Command) EventStream {
	return build.NewStream(ctx, cmd)
}
