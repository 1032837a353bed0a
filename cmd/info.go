/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sony-level/pgo-runner/internal/console"
	"github.com/sony-level/pgo-runner/internal/prereq"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Check that the PGO toolchain is available",
	Long: `Report whether cargo, rustc, rustup and llvm-profdata can be found,
their versions, the host target and where profiles will be stored.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		checker := prereq.NewChecker(s.cfg.Cargo, s.cfg.Rustc)
		summary := checker.CheckAll()

		fmt.Fprintln(out, "Toolchain:")
		for _, r := range summary.Results {
			if r.Found && r.Error != nil {
				fmt.Fprintf(out, "  ⚠ %-14s %s (version unknown: %v)\n", r.Name, console.FormatPath(r.Path), r.Error)
			} else if r.Found {
				fmt.Fprintf(out, "  %s %-14s %s (%s)\n", console.Success("✓"), r.Name, r.Version, console.FormatPath(r.Path))
			} else if r.Required {
				fmt.Fprintf(out, "  %s %-14s not found\n", console.Failure("✗"), r.Name)
			} else {
				fmt.Fprintf(out, "  ⚠ %-14s not found (optional)\n", r.Name)
			}
		}

		if info, err := checker.RustcInfo(); err == nil {
			fmt.Fprintf(out, "\nHost target:   %s\n", console.Highlight(info.Host))
			if info.LLVMVersion != "" {
				fmt.Fprintf(out, "LLVM version:  %s\n", info.LLVMVersion)
			}
		}

		if ws, err := s.resolveWorkspace(cmd.Context()); err == nil {
			dir := ws.ProfileDir(s.logger)
			fmt.Fprintf(out, "Profiles:      %s\n", console.FormatPath(dir.Path))
			if profiles, err := dir.Profiles(); err == nil && len(profiles) > 0 {
				fmt.Fprintf(out, "               %d raw profile(s) gathered\n", len(profiles))
			}
		} else {
			s.logger.Debug().Err(err).Msg("Not inside a cargo workspace")
		}

		if !summary.AllFound {
			fmt.Fprintf(out, "\n%s", checker.FormatMissing(summary))
		}
		if summary.RequiredMissing {
			return fmt.Errorf("required tools are missing: %v", summary.MissingTools)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
