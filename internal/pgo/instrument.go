// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// PGO instrumentation: build with profiling counters and guide the operator

package pgo

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/sony-level/pgo-runner/internal/build"
	"github.com/sony-level/pgo-runner/internal/console"
	pgoerrors "github.com/sony-level/pgo-runner/internal/errors"
)

// ProfileFileEnv is the variable the instrumented binary reads its output pattern from
const ProfileFileEnv = "LLVM_PROFILE_FILE"

// Config wires an Orchestrator to its collaborators
type Config struct {
	Profiles ProfilePreparer
	Builder  *build.Builder
	Launch   LaunchFunc     // defaults to Launch
	Logger   zerolog.Logger // operator-facing status
	Output   io.Writer      // compiler diagnostics and program output, defaults to os.Stdout
}

// Orchestrator drives a single instrumented run at a time
type Orchestrator struct {
	profiles ProfilePreparer
	builder  *build.Builder
	launch   LaunchFunc
	logger   zerolog.Logger
	out      io.Writer
}

// New creates an orchestrator from cfg
func New(cfg Config) *Orchestrator {
	o := &Orchestrator{
		profiles: cfg.Profiles,
		builder:  cfg.Builder,
		launch:   cfg.Launch,
		logger:   cfg.Logger,
		out:      cfg.Output,
	}
	if o.launch == nil {
		o.launch = Launch
	}
	if o.builder == nil {
		o.builder = build.NewBuilder("cargo", "")
	}
	if o.out == nil {
		o.out = os.Stdout
	}
	return o
}

// SuggestedProfileFile returns the LLVM_PROFILE_FILE assignment that gives
// every process of target its own raw profile inside dir.
func SuggestedProfileFile(dir, target string) string {
	return fmt.Sprintf("%s=%s", ProfileFileEnv, filepath.Join(dir, target+"_%m_%p.profraw"))
}

// Instrument prepares the profile directory, runs the instrumented cargo
// command and reports its progress. The cargo exit status decides the result.
func (o *Orchestrator) Instrument(ctx context.Context, req Request) error {
	dir, err := o.profiles.Prepare(req.KeepProfiles)
	if err != nil {
		return err
	}

	cmd := o.builder.Build(req.Command, build.ProfileGenerateFlag(dir), req.CargoArgs, req.CargoEnv)
	o.logger.Debug().
		Str("command", cmd.String()).
		Strs("env", build.DisplayEnv(req.CargoEnv)).
		Msg("Starting instrumented build")

	stream := o.launch(ctx, cmd)
	for ev, err := range stream.Events() {
		if err != nil {
			pgoerrors.DeferClose(o.logger, stream, "failed to stop cargo")
			return err
		}
		o.handleEvent(req.Command, dir, ev)
	}

	return stream.CheckStatus()
}

func (o *Orchestrator) handleEvent(kind build.CommandKind, dir string, ev build.Event) {
	switch ev := ev.(type) {
	case build.ArtifactProduced:
		o.handleArtifact(kind, dir, ev)
	case build.BuildFinished:
		if ev.Success {
			o.logger.Info().Msgf("PGO instrumentation build finished %s.", console.Success("successfully"))
		} else {
			o.logger.Error().Msgf("PGO instrumentation build has %s.", console.Failure("failed"))
		}
	case build.Other:
		o.handleOther(ev)
	}
}

func (o *Orchestrator) handleArtifact(kind build.CommandKind, dir string, artifact build.ArtifactProduced) {
	if artifact.Executable == "" || kind != build.Build {
		return
	}

	o.logger.Info().
		Str("target", artifact.TargetName).
		Str("kind", string(artifact.Kind)).
		Msgf("PGO-instrumented %s %s built successfully.",
			console.Kind(string(artifact.Kind)), console.Highlight(artifact.TargetName))

	suggestion := SuggestedProfileFile(dir, artifact.TargetName)
	o.logger.Info().
		Str("executable", artifact.Executable).
		Msgf("Now run %s on your workload.\n"+
			"If your program creates multiple processes or you will execute it multiple times in parallel, "+
			"consider running it with the following environment variable to have more precise profiles:\n%s",
			console.FormatPath(artifact.Executable), console.Highlight(suggestion))
}

// handleOther forwards records this workflow does not act on
func (o *Orchestrator) handleOther(ev build.Other) {
	switch {
	case ev.Rendered != "":
		fmt.Fprint(o.out, ev.Rendered)
	case ev.Reason == build.ReasonTextLine:
		fmt.Fprintln(o.out, ev.Text)
	default:
		o.logger.Debug().Str("reason", ev.Reason).Msg("cargo message")
	}
}
