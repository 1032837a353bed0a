// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Composition of instrumented cargo invocations

package build

import (
	"os"
	"sort"
	"strings"
)

// Builder composes cargo invocations. It never launches anything.
type Builder struct {
	Cargo      string   // cargo binary, defaults to "cargo"
	HostTarget string   // host triple passed as --target when the caller gives none
	BaseEnv    []string // inherited environment, defaults to os.Environ()
	Dir        string
}

// NewBuilder creates a builder inheriting the current process environment
func NewBuilder(cargo, hostTarget string) *Builder {
	return &Builder{
		Cargo:      cargo,
		HostTarget: hostTarget,
		BaseEnv:    os.Environ(),
	}
}

// ProfileGenerateFlag returns the rustc flag writing raw profiles into dir
func ProfileGenerateFlag(dir string) string {
	return "-Cprofile-generate=" + dir
}

// Build composes `cargo <kind>` with flags appended to RUSTFLAGS, and to
// CARGO_ENCODED_RUSTFLAGS when that is set since cargo then ignores RUSTFLAGS.
// extraArgs are kept verbatim and in order after the defaults; extraEnv is
// applied over the inherited environment.
func (b *Builder) Build(kind CommandKind, flags string, extraArgs []string, extraEnv map[string]string) *Command {
	program := b.Cargo
	if program == "" {
		program = "cargo"
	}

	args := []string{kind.String(), "--message-format", MessageFormat}
	args = append(args, b.defaultArgs(extraArgs)...)
	args = append(args, extraArgs...)

	env := mergeEnv(b.BaseEnv, extraEnv)
	rustflags, _ := lookupEnv(env, RustFlagsEnv)
	env = setEnv(env, RustFlagsEnv, strings.TrimSpace(rustflags+" "+flags))
	if encoded, ok := lookupEnv(env, EncodedRustFlagsEnv); ok {
		env = setEnv(env, EncodedRustFlagsEnv, appendEncoded(encoded, flags))
	}

	return &Command{
		Kind:    kind,
		Program: program,
		Args:    args,
		Env:     env,
		Dir:     b.Dir,
	}
}

// defaultArgs returns the release/target arguments the caller did not provide.
// Only arguments before a `--` separator belong to cargo.
func (b *Builder) defaultArgs(extraArgs []string) []string {
	hasRelease, hasTarget := false, false
	for _, arg := range extraArgs {
		if arg == "--" {
			break
		}
		switch {
		case arg == "--release", arg == "-r",
			arg == "--profile", strings.HasPrefix(arg, "--profile="):
			hasRelease = true
		case arg == "--target", strings.HasPrefix(arg, "--target="):
			hasTarget = true
		}
	}

	var defaults []string
	if !hasRelease {
		defaults = append(defaults, "--release")
	}
	if !hasTarget && b.HostTarget != "" {
		defaults = append(defaults, "--target", b.HostTarget)
	}
	return defaults
}

// appendEncoded adds whitespace-separated flags to a 0x1f-separated list
func appendEncoded(encoded, flags string) string {
	parts := strings.Fields(flags)
	if encoded != "" {
		parts = append([]string{encoded}, parts...)
	}
	return strings.Join(parts, "\x1f")
}

// mergeEnv overlays overrides on base. Existing keys are replaced in place,
// new keys are appended in sorted order.
func mergeEnv(base []string, overrides map[string]string) []string {
	env := make([]string, len(base))
	copy(env, base)

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		env = setEnv(env, k, overrides[k])
	}
	return env
}

func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	replaced := false
	out := env[:0]
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			if replaced {
				continue
			}
			kv = prefix + value
			replaced = true
		}
		out = append(out, kv)
	}
	if !replaced {
		out = append(out, prefix+value)
	}
	return out
}

func lookupEnv(env []string, key string) (string, bool) {
	c := Command{Env: env}
	return c.Getenv(key)
}
