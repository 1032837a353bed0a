// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Running cargo process exposed as a stream of build events

package build

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"os/exec"

	pgoerrors "github.com/sony-level/pgo-runner/internal/errors"
)

// maxRecordSize bounds a single JSON record; cargo artifact records for
// large workspaces can exceed bufio's 64KiB default.
const maxRecordSize = 16 * 1024 * 1024

// Stream wraps one cargo process. It is single-use and single-consumer.
type Stream struct {
	// Stdin and Stderr are handed to the child; they default to the
	// parent's own streams so progress and prompts stay visible.
	Stdin  io.Reader
	Stderr io.Writer

	ctx     context.Context
	command *Command
	proc    *exec.Cmd
	stdout  io.ReadCloser

	pulled   bool
	drained  bool
	waited   bool
	exitCode int
}

// NewStream prepares a stream for cmd. Nothing is started until Events is ranged over.
func NewStream(ctx context.Context, cmd *Command) *Stream {
	return &Stream{
		Stdin:    os.Stdin,
		Stderr:   os.Stderr,
		ctx:      ctx,
		command:  cmd,
		exitCode: -1,
	}
}

func (s *Stream) start() error {
	proc := exec.CommandContext(s.ctx, s.command.Program, s.command.Args...)
	proc.Env = s.command.Env
	proc.Dir = s.command.Dir
	proc.Stdin = s.Stdin
	proc.Stderr = s.Stderr

	stdout, err := proc.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := proc.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", s.command.Program, err)
	}

	s.proc = proc
	s.stdout = stdout
	return nil
}

// Events launches cargo on the first pull and yields one event per output
// record. A malformed record yields an error and decoding continues if the
// consumer keeps pulling; a read failure ends the sequence.
func (s *Stream) Events() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		if s.pulled {
			yield(nil, fmt.Errorf("event stream of cargo %s can only be consumed once", s.command.Kind))
			return
		}
		s.pulled = true

		if err := s.start(); err != nil {
			yield(nil, pgoerrors.Launch(s.command.Kind.String(), err))
			return
		}

		scanner := bufio.NewScanner(s.stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)

		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := scanner.Bytes()
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}

			ev, err := DecodeEvent(line)
			if err != nil {
				if !yield(nil, pgoerrors.Decode(fmt.Sprintf("cargo output line %d", lineNo), err)) {
					return
				}
				continue
			}
			if !yield(ev, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield(nil, pgoerrors.Decode("read cargo output", err))
			return
		}
		s.drained = true
	}
}

// CheckStatus waits for cargo to exit. Call it once, after Events is consumed.
// Unread output is discarded first so the child cannot block on a full pipe.
func (s *Stream) CheckStatus() error {
	if s.proc == nil {
		return pgoerrors.Launch(s.command.Kind.String(), errors.New("process was never started"))
	}
	if s.waited {
		return fmt.Errorf("exit status of cargo %s already checked", s.command.Kind)
	}
	s.waited = true

	if !s.drained {
		_, _ = io.Copy(io.Discard, s.stdout)
		s.drained = true
	}

	err := s.proc.Wait()
	if s.proc.ProcessState != nil {
		s.exitCode = s.proc.ProcessState.ExitCode()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return pgoerrors.ToolchainFailed(s.command.Kind.String(), exitErr)
		}
		return pgoerrors.ToolchainFailed(s.command.Kind.String(), err)
	}
	return nil
}

// ExitCode returns the exit code after CheckStatus, or -1.
func (s *Stream) ExitCode() int {
	return s.exitCode
}

// Close kills and reaps a process whose stream was abandoned. It is a
// no-op after CheckStatus.
func (s *Stream) Close() error {
	if s.proc == nil || s.waited {
		return nil
	}
	s.waited = true

	if err := s.proc.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to kill cargo %s: %w", s.command.Kind, err)
	}
	_ = s.proc.Wait()
	if s.proc.ProcessState != nil {
		s.exitCode = s.proc.ProcessState.ExitCode()
	}
	return nil
}
