// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Cargo command kinds and invocation types

package build

import (
	"fmt"
	"sort"
	"strings"
)

// MessageFormat is passed to cargo so diagnostics arrive pre-rendered inside JSON records
const MessageFormat = "json-diagnostic-rendered-ansi"

// RustFlagsEnv is cargo's native mechanism for passing compiler flags
const RustFlagsEnv = "RUSTFLAGS"

// EncodedRustFlagsEnv overrides RUSTFLAGS inside cargo when set. Flags are
// separated by the 0x1f unit separator.
const EncodedRustFlagsEnv = "CARGO_ENCODED_RUSTFLAGS"

// CommandKind is the cargo subcommand used for an instrumented compilation
type CommandKind int

const (
	// Build runs `cargo build`
	Build CommandKind = iota
	// Test runs `cargo test`
	Test
	// Run runs `cargo run`
	Run
	// Bench runs `cargo bench`
	Bench
)

// CommandKinds lists every supported kind in CLI order
var CommandKinds = []CommandKind{Build, Test, Run, Bench}

func (k CommandKind) String() string {
	switch k {
	case Build:
		return "build"
	case Test:
		return "test"
	case Run:
		return "run"
	case Bench:
		return "bench"
	default:
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
}

// ParseCommandKind converts a subcommand name into a CommandKind
func ParseCommandKind(name string) (CommandKind, error) {
	for _, k := range CommandKinds {
		if strings.EqualFold(name, k.String()) {
			return k, nil
		}
	}
	return Build, fmt.Errorf("unsupported cargo command %q (expected build, test, run or bench)", name)
}

// Command is a fully composed toolchain invocation
type Command struct {
	Kind    CommandKind
	Program string
	Args    []string
	Env     []string // complete child environment, KEY=VALUE
	Dir     string   // working directory, empty for the current one
}

// Getenv returns the value of key in the command environment
func (c *Command) Getenv(key string) (string, bool) {
	prefix := key + "="
	for i := len(c.Env) - 1; i >= 0; i-- {
		if strings.HasPrefix(c.Env[i], prefix) {
			return strings.TrimPrefix(c.Env[i], prefix), true
		}
	}
	return "", false
}

// String returns the command line for display
func (c *Command) String() string {
	return strings.Join(append([]string{c.Program}, c.Args...), " ")
}

// DisplayEnv returns the given overrides formatted for logging, sensitive values masked
func DisplayEnv(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, key := range keys {
		displayValue := env[key]
		if isSensitiveKey(key) {
			displayValue = "[REDACTED]"
		}
		out = append(out, key+"="+displayValue)
	}
	return out
}

// isSensitiveKey checks if an env var key might contain sensitive data
func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	sensitivePatterns := []string{
		"password", "secret", "token", "key", "api_key",
		"apikey", "private", "credential", "auth",
	}
	for _, pattern := range sensitivePatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
