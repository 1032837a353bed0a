// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Prerequisite checker tests

package prereq

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rustcVerbose = `rustc 1.82.0 (f6e511eec 2024-10-15)
binary: rustc
commit-hash: f6e511eec7342f59a25f7c0534f1dbea00d01b14
commit-date: 2024-10-15
host: x86_64-unknown-linux-gnu
release: 1.82.0
LLVM version: 19.1.1
`

func TestParseRustcVerbose(t *testing.T) {
	info, err := ParseRustcVerbose(rustcVerbose)
	require.NoError(t, err)

	assert.Equal(t, "x86_64-unknown-linux-gnu", info.Host)
	assert.Equal(t, "1.82.0", info.Release)
	assert.Equal(t, "19.1.1", info.LLVMVersion)
	assert.True(t, strings.HasPrefix(info.CommitHash, "f6e511eec"))

	_, err = ParseRustcVerbose("garbage")
	assert.Error(t, err)
}

func TestRustcInfo_UsesConfiguredBinary(t *testing.T) {
	c := NewChecker("", "/opt/rust/bin/rustc")
	var called []string
	c.run = func(name string, args ...string) ([]byte, error) {
		called = append(called, name+" "+strings.Join(args, " "))
		return []byte(rustcVerbose), nil
	}

	info, err := c.RustcInfo()
	require.NoError(t, err)
	assert.Equal(t, "x86_64-unknown-linux-gnu", info.Host)
	assert.Equal(t, []string{"/opt/rust/bin/rustc -vV"}, called)
}

func TestRustcInfo_Failure(t *testing.T) {
	c := NewChecker("", "")
	c.run = func(string, ...string) ([]byte, error) { return nil, errors.New("not found") }

	_, err := c.RustcInfo()
	assert.Error(t, err)
}

func TestCheckTool_Missing(t *testing.T) {
	tools := DefaultTools()
	tools[ToolCargo].Command = "definitely-not-a-cargo-binary"
	c := NewCheckerWithTools(tools)

	summary := c.CheckMultiple([]string{ToolCargo})

	assert.False(t, summary.AllFound)
	assert.True(t, summary.RequiredMissing)
	assert.Equal(t, []string{ToolCargo}, summary.MissingTools)
	assert.Contains(t, c.FormatMissing(summary), "sh.rustup.rs")
}

func TestCheckTool_FoundWithVersion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the tool")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-cargo")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho 'cargo 1.82.0 (8f40fc59f 2024-08-21)'\necho second line\n"), 0755))

	tools := DefaultTools()
	tools[ToolCargo].Command = script
	c := NewCheckerWithTools(tools)

	result := c.CheckTool(ToolCargo)
	assert.True(t, result.Found)
	assert.True(t, result.Required)
	assert.Equal(t, script, result.Path)
	assert.Equal(t, "cargo 1.82.0 (8f40fc59f 2024-08-21)", result.Version)
	assert.NoError(t, result.Error)
}

func TestCheckTool_LLVMProfdataFromSysroot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the tool")
	}
	sysroot := t.TempDir()
	binDir := filepath.Join(sysroot, "lib", "rustlib", "x86_64-unknown-linux-gnu", "bin")
	require.NoError(t, os.MkdirAll(binDir, 0755))
	profdata := filepath.Join(binDir, "llvm-profdata")
	require.NoError(t, os.WriteFile(profdata, []byte("#!/bin/sh\necho 'LLVM version 19.1.1'\n"), 0755))

	c := NewChecker("", "")
	c.run = func(name string, args ...string) ([]byte, error) {
		switch strings.Join(args, " ") {
		case "-vV":
			return []byte(rustcVerbose), nil
		case "--print sysroot":
			return []byte(sysroot + "\n"), nil
		}
		return []byte("LLVM version 19.1.1\n"), nil
	}

	result := c.CheckTool(ToolLLVMProfdata)
	assert.True(t, result.Found)
	assert.False(t, result.Required)
	assert.Equal(t, profdata, result.Path)
	assert.Equal(t, "LLVM version 19.1.1", result.Version)
}

func TestCheckAll_Order(t *testing.T) {
	c := NewChecker("", "")
	c.run = func(string, ...string) ([]byte, error) { return nil, errors.New("offline") }

	summary := c.CheckAll()

	var names []string
	for _, r := range summary.Results {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{ToolCargo, ToolRustc, ToolRustup, ToolLLVMProfdata}, names)
}

func TestGetInstallGuide_Unknown(t *testing.T) {
	c := NewChecker("", "")
	assert.Equal(t, "No installation guide available for zig", c.GetInstallGuide("zig"))
}

func TestCheckTool_VersionFailureRecorded(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the tool")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-rustup")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit 3\n"), 0755))

	tools := DefaultTools()
	tools[ToolRustup].Command = script
	c := NewCheckerWithTools(tools)

	result := c.CheckTool(ToolRustup)
	assert.True(t, result.Found)
	assert.Empty(t, result.Version)
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), script)
}
