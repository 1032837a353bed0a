/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose        bool
	noColor        bool
	logLevel       string
	configPath     string
	profileDirFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pgr",
	Short: "Profile-guided optimization helper for cargo projects",
	Long: `pgr (pgo-runner) drives the instrumentation phase of profile-guided
optimization for Rust projects.

It clears the profile directory, builds your crate with
-Cprofile-generate through cargo, follows cargo's JSON messages and tells
you how to run the instrumented binary so it writes usable profiles.

Examples:
  pgr build
  pgr instrument test -- --workspace
  pgr run -- --bin server -- --port 8080
  pgr build --keep-profiles --env CARGO_INCREMENTAL=0
  pgr clean
  pgr info`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Persistent flags - available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logging)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (env: PGR_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: .pgo-runner.yaml, then ~/.config/pgo-runner/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&profileDirFlag, "profile-dir", "", "Directory for raw profiles (default: <target dir>/pgo-profiles, env: PGR_PROFILE_DIR)")
}
