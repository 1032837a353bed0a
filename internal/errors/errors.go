// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Error kinds surfaced by an instrumentation run

// Package errors classifies the failures of an instrumentation run.
package errors

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Kind identifies which stage of a run failed
type Kind int

const (
	// KindUnknown is reported for errors that did not originate here
	KindUnknown Kind = iota
	// KindIO covers profile directory preparation and clearing
	KindIO
	// KindLaunch means the toolchain process could not be started
	KindLaunch
	// KindDecode means a structured record could not be decoded
	KindDecode
	// KindToolchainFailed means the toolchain exited unsuccessfully
	KindToolchainFailed
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io error"
	case KindLaunch:
		return "launch error"
	case KindDecode:
		return "decode error"
	case KindToolchainFailed:
		return "toolchain failed"
	default:
		return "unknown error"
	}
}

// Sentinels for errors.Is matching on kind alone.
var (
	ErrIO              = &Error{Kind: KindIO}
	ErrLaunch          = &Error{Kind: KindLaunch}
	ErrDecode          = &Error{Kind: KindDecode}
	ErrToolchainFailed = &Error{Kind: KindToolchainFailed}
)

// Error carries the failure kind together with enough context to diagnose it
type Error struct {
	Kind    Kind
	Op      string // what was being done, e.g. "clear profile directory"
	Path    string // filesystem path involved, if any
	Command string // toolchain command kind, if any
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Command != "" {
		msg += fmt.Sprintf(" (cargo %s)", e.Command)
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// IO wraps a filesystem failure on path
func IO(op, path string, err error) *Error {
	return &Error{Kind: KindIO, Op: op, Path: path, Err: err}
}

// Launch wraps a process start failure
func Launch(command string, err error) *Error {
	return &Error{Kind: KindLaunch, Op: "start toolchain", Command: command, Err: err}
}

// Decode wraps a malformed record failure
func Decode(op string, err error) *Error {
	return &Error{Kind: KindDecode, Op: op, Err: err}
}

// ToolchainFailed wraps a non-success exit
func ToolchainFailed(command string, err error) *Error {
	return &Error{Kind: KindToolchainFailed, Op: "toolchain exited unsuccessfully", Command: command, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// DeferClose properly closes an io.Closer with logging.
// Use this in defer statements to avoid suppressing close errors.
func DeferClose(logger zerolog.Logger, closer io.Closer, msg string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Warn().Err(err).Msg(msg)
	}
}
