/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sony-level/pgo-runner/internal/console"
)

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove gathered PGO profiles",
	Long: `Remove every file from the profile directory of the current cargo
workspace. The directory itself is kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}

		ws, err := s.resolveWorkspace(cmd.Context())
		if err != nil {
			return err
		}

		logger := s.componentLogger("clean")
		dir := ws.ProfileDir(logger)
		if err := dir.Clear(); err != nil {
			return err
		}

		logger.Info().
			Str("dir", dir.Path).
			Msgf("PGO profile directory %s cleared.", console.FormatPath(dir.Path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
