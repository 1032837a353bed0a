/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sony-level/pgo-runner/internal/config"
	"github.com/sony-level/pgo-runner/internal/console"
	"github.com/sony-level/pgo-runner/internal/logging"
	"github.com/sony-level/pgo-runner/internal/prereq"
	"github.com/sony-level/pgo-runner/internal/workspace"
)

// session bundles what every subcommand needs
type session struct {
	cfg    *config.Config
	logCfg logging.Config
	logger zerolog.Logger
}

// newSession resolves configuration (CLI > ENV > file > defaults) and sets up logging
func newSession() (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyEnv(nil)

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if profileDirFlag != "" {
		cfg.ProfileDir = profileDirFlag
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	if noColor {
		logCfg.NoColor = true
	}
	console.SetColor(stylingEnabled(logCfg))
	logger := logging.New(logCfg)

	if cfg.Source != "" {
		logger.Debug().Str("path", cfg.Source).Msg("Loaded config")
	}

	return &session{cfg: cfg, logCfg: logCfg, logger: logger}, nil
}

// stylingEnabled reports whether log messages may carry ANSI styling.
// JSON records must stay plain whatever stdout is attached to.
func stylingEnabled(logCfg logging.Config) bool {
	return logCfg.Pretty && !logCfg.NoColor
}

// componentLogger returns the session logger tagged with component
func (s *session) componentLogger(component string) zerolog.Logger {
	return logging.NewWithComponent(s.logCfg, component)
}

// resolveWorkspace asks cargo where the target directory of the current project is
func (s *session) resolveWorkspace(ctx context.Context) (*workspace.Context, error) {
	ws, err := workspace.Resolve(ctx, &workspace.ContextConfig{
		Cargo:      s.cfg.Cargo,
		ProfileDir: s.cfg.ProfileDir,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("root", ws.Root).Str("target_dir", ws.TargetDir).Msg("Resolved cargo workspace")
	return ws, nil
}

// hostTarget returns rustc's host triple, or "" if rustc cannot tell
func (s *session) hostTarget() string {
	info, err := prereq.NewChecker(s.cfg.Cargo, s.cfg.Rustc).RustcInfo()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Could not determine host target, cargo will pick the default")
		return ""
	}
	return info.Host
}
