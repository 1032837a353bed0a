// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Event stream tests against a scripted stand-in for cargo

package build_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sony-level/pgo-runner/internal/build"
	pgoerrors "github.com/sony-level/pgo-runner/internal/errors"
)

// fakeCargo returns a stream running a shell script in place of cargo.
func fakeCargo(t *testing.T, script string) *build.Stream {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("scripted toolchain requires sh")
	}
	cmd := &build.Command{
		Kind:    build.Build,
		Program: "sh",
		Args:    []string{"-c", script},
		Env:     os.Environ(),
	}
	s := build.NewStream(context.Background(), cmd)
	s.Stdin = strings.NewReader("")
	s.Stderr = &bytes.Buffer{}
	return s
}

type collected struct {
	events []build.Event
	errs   []error
}

func collect(s *build.Stream) collected {
	var c collected
	for ev, err := range s.Events() {
		if err != nil {
			c.errs = append(c.errs, err)
			continue
		}
		c.events = append(c.events, ev)
	}
	return c
}

func TestStream_SuccessfulBuild(t *testing.T) {
	s := fakeCargo(t, `
echo '{"reason":"compiler-artifact","package_id":"foo","target":{"name":"foo","kind":["bin"]},"executable":"/t/foo"}'
echo ''
echo '{"reason":"build-finished","success":true}'
echo 'trailing text'
`)

	c := collect(s)
	require.Empty(t, c.errs)
	require.Len(t, c.events, 3)
	assert.Equal(t, build.ArtifactProduced{PackageID: "foo", TargetName: "foo", Kind: build.ArtifactBinary, Executable: "/t/foo"}, c.events[0])
	assert.Equal(t, build.BuildFinished{Success: true}, c.events[1])
	assert.Equal(t, build.Other{Reason: build.ReasonTextLine, Text: "trailing text"}, c.events[2])

	require.NoError(t, s.CheckStatus())
	assert.Equal(t, 0, s.ExitCode())
}

func TestStream_NonZeroExit(t *testing.T) {
	s := fakeCargo(t, `
echo '{"reason":"build-finished","success":true}'
exit 101
`)

	c := collect(s)
	require.Empty(t, c.errs)

	err := s.CheckStatus()
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, pgoerrors.ErrToolchainFailed))
	assert.Contains(t, err.Error(), "cargo build")
	assert.Equal(t, 101, s.ExitCode())
}

func TestStream_DecodeErrorDoesNotStopStream(t *testing.T) {
	s := fakeCargo(t, `
echo '{"reason":"build-finished","success":"yes"}'
echo '{"reason":"build-finished","success":true}'
`)

	c := collect(s)
	require.Len(t, c.errs, 1)
	assert.Equal(t, pgoerrors.KindDecode, pgoerrors.KindOf(c.errs[0]))
	assert.Contains(t, c.errs[0].Error(), "line 1")
	require.Len(t, c.events, 1)
	assert.Equal(t, build.BuildFinished{Success: true}, c.events[0])

	require.NoError(t, s.CheckStatus())
}

func TestStream_ProgramPrintsMultilineJSON(t *testing.T) {
	s := fakeCargo(t, `
echo '{'
echo '  "a": 1'
echo '}'
echo '{"reason":"build-finished","success":true}'
`)

	c := collect(s)
	require.Empty(t, c.errs)
	require.Len(t, c.events, 4)
	assert.Equal(t, build.Other{Reason: build.ReasonTextLine, Text: "{"}, c.events[0])
	assert.Equal(t, build.Other{Reason: build.ReasonTextLine, Text: `  "a": 1`}, c.events[1])
	assert.Equal(t, build.Other{Reason: build.ReasonTextLine, Text: "}"}, c.events[2])
	assert.Equal(t, build.BuildFinished{Success: true}, c.events[3])

	require.NoError(t, s.CheckStatus())
}

func TestStream_LaunchError(t *testing.T) {
	cmd := &build.Command{Kind: build.Test, Program: "/nonexistent/cargo-for-tests"}
	s := build.NewStream(context.Background(), cmd)

	c := collect(s)
	require.Len(t, c.errs, 1)
	assert.True(t, stderrors.Is(c.errs[0], pgoerrors.ErrLaunch))
	assert.Empty(t, c.events)

	assert.True(t, stderrors.Is(s.CheckStatus(), pgoerrors.ErrLaunch))
}

func TestStream_SingleUse(t *testing.T) {
	s := fakeCargo(t, `echo '{"reason":"build-finished","success":true}'`)

	first := collect(s)
	require.Empty(t, first.errs)

	second := collect(s)
	require.Len(t, second.errs, 1)
	assert.Empty(t, second.events)

	require.NoError(t, s.CheckStatus())
	assert.Error(t, s.CheckStatus(), "status may only be checked once")
}

func TestStream_CheckStatusDrainsUnreadOutput(t *testing.T) {
	// Enough output to fill a pipe buffer several times over.
	s := fakeCargo(t, `
i=0
while [ $i -lt 5000 ]; do
  printf '%s\n' '{"reason":"compiler-message","message":{"rendered":"warning: padding padding padding padding padding"}}'
  i=$((i+1))
done
echo '{"reason":"build-finished","success":true}'
`)

	for _, err := range s.Events() {
		require.NoError(t, err)
		break
	}

	require.NoError(t, s.CheckStatus())
}

func TestStream_CloseAbandonedProcess(t *testing.T) {
	s := fakeCargo(t, `
echo '{"reason":"compiler-artifact","target":{"name":7}}'
exec sleep 30
`)

	for _, err := range s.Events() {
		require.Error(t, err)
		break
	}

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestStream_PassesEnvironment(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("scripted toolchain requires sh")
	}
	b := &build.Builder{Cargo: "sh", BaseEnv: os.Environ()}
	cmd := b.Build(build.Build, "-Cprofile-generate=/p", nil, map[string]string{"PGO_TEST_VAR": "hello"})
	// Replace the cargo arguments with a script echoing the received flags.
	cmd.Args = []string{"-c", `echo "$RUSTFLAGS|$PGO_TEST_VAR"`}

	s := build.NewStream(context.Background(), cmd)
	s.Stderr = &bytes.Buffer{}

	c := collect(s)
	require.Empty(t, c.errs)
	require.Len(t, c.events, 1)
	other := c.events[0].(build.Other)
	assert.True(t, strings.HasSuffix(other.Text, "-Cprofile-generate=/p|hello"), other.Text)
	require.NoError(t, s.CheckStatus())
}
