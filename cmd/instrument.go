/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sony-level/pgo-runner/internal/build"
	"github.com/sony-level/pgo-runner/internal/pgo"
)

// instrumentFlags are shared by `instrument` and its shortcuts
type instrumentFlags struct {
	keepProfiles bool
	env          []string
}

func (f *instrumentFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.keepProfiles, "keep-profiles", false, "Do not remove profiles gathered during previous runs")
	fs.StringArrayVar(&f.env, "env", nil, "Environment variable for the cargo process, KEY=VALUE (repeatable)")
}

var instrumentOpts instrumentFlags

// instrumentCmd represents the instrument command
var instrumentCmd = &cobra.Command{
	Use:   "instrument [build|test|run|bench] [-- cargo args...]",
	Short: "Build with PGO instrumentation",
	Long: `Run a cargo command with -Cprofile-generate so the produced binaries
record raw profiles when executed.

The cargo command defaults to build. Arguments after -- are passed to cargo
verbatim; --release and --target <host> are added unless you give your own.

Examples:
  pgr instrument
  pgr instrument test -- --workspace
  pgr instrument run -- --bin server -- --port 8080`,
	Args: func(cmd *cobra.Command, args []string) error {
		if before := argsBeforeDash(cmd, args); len(before) > 1 {
			return fmt.Errorf("unexpected argument %q, pass cargo arguments after --", before[1])
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := build.Build
		cargoArgs := args
		if before := argsBeforeDash(cmd, args); len(before) == 1 {
			parsed, err := build.ParseCommandKind(before[0])
			if err != nil {
				return err
			}
			kind = parsed
			cargoArgs = args[1:]
		}
		return runInstrument(cmd, kind, cargoArgs, &instrumentOpts)
	},
}

// argsBeforeDash returns the positional arguments given before `--`
func argsBeforeDash(cmd *cobra.Command, args []string) []string {
	if n := cmd.ArgsLenAtDash(); n >= 0 {
		return args[:n]
	}
	return args
}

// newShortcutCmd creates `pgr <kind>` as a shorthand for `pgr instrument <kind>`
func newShortcutCmd(kind build.CommandKind) *cobra.Command {
	opts := &instrumentFlags{}
	c := &cobra.Command{
		Use:   kind.String() + " [-- cargo args...]",
		Short: fmt.Sprintf("Shortcut for `instrument %s`", kind),
		Args: func(cmd *cobra.Command, args []string) error {
			if before := argsBeforeDash(cmd, args); len(before) > 0 {
				return fmt.Errorf("unexpected argument %q, pass cargo arguments after --", before[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstrument(cmd, kind, args, opts)
		},
	}
	opts.register(c.Flags())
	return c
}

// parseEnv splits KEY=VALUE assignments on the first '=' and keeps the value verbatim
func parseEnv(assignments []string) (map[string]string, error) {
	env := make(map[string]string, len(assignments))
	for _, a := range assignments {
		key, value, ok := strings.Cut(a, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --env %q, expected KEY=VALUE", a)
		}
		env[key] = value
	}
	return env, nil
}

func runInstrument(cmd *cobra.Command, kind build.CommandKind, cargoArgs []string, opts *instrumentFlags) error {
	env, err := parseEnv(opts.env)
	if err != nil {
		return err
	}

	s, err := newSession()
	if err != nil {
		return err
	}

	ws, err := s.resolveWorkspace(cmd.Context())
	if err != nil {
		return err
	}

	keep := s.cfg.KeepProfiles
	if cmd.Flags().Changed("keep-profiles") {
		keep = opts.keepProfiles
	}

	logger := s.componentLogger("instrument")
	orch := pgo.New(pgo.Config{
		Profiles: ws.ProfileDir(logger),
		Builder:  build.NewBuilder(s.cfg.Cargo, s.hostTarget()),
		Logger:   logger,
	})

	req := pgo.NewRequest(kind, keep, cargoArgs, s.cfg.MergeEnv(env))
	return orch.Instrument(cmd.Context(), req)
}

func init() {
	instrumentOpts.register(instrumentCmd.Flags())
	rootCmd.AddCommand(instrumentCmd)

	for _, kind := range build.CommandKinds {
		rootCmd.AddCommand(newShortcutCmd(kind))
	}
}
