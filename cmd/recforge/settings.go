package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recforge/internal/config"
	"recforge/internal/logging"
	"recforge/internal/prof"
)

// settings is the project file merged with the command line.
type settings struct {
	cfg            *config.Config
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
	ui             uiMode
	log            *zap.Logger
	closeLog       func() error
	profile        *prof.Session
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Root().PersistentFlags()

	cfgPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg *config.Config
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return nil, err
	}

	if flags.Changed("jobs") {
		jobs, err := flags.GetInt("jobs")
		if err != nil {
			return nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
		if jobs > 0 {
			cfg.Derive.Jobs = jobs
		}
	}
	if flags.Changed("color") {
		if cfg.Output.Color, err = flags.GetString("color"); err != nil {
			return nil, fmt.Errorf("failed to get color flag: %w", err)
		}
	}
	if flags.Changed("log-level") {
		if cfg.Log.Level, err = flags.GetString("log-level"); err != nil {
			return nil, fmt.Errorf("failed to get log-level flag: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &settings{cfg: cfg}
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	uiFlag, err := flags.GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readUIMode(uiFlag); err != nil {
		return nil, err
	}

	switch strings.ToLower(cfg.Output.Color) {
	case "on":
		s.color = true
	case "off":
		s.color = false
	default:
		s.color = isTerminal(os.Stdout)
	}

	s.log, s.closeLog, err = logging.New(logging.Options{
		Level: strings.ToLower(cfg.Log.Level),
		File:  cfg.Log.File,
		Color: isTerminal(os.Stderr),
	})
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		s.log.Debug("using project file", zap.String("path", cfg.Path))
	}

	var popts prof.Options
	if popts.CPU, err = flags.GetString("cpuprofile"); err != nil {
		return nil, fmt.Errorf("failed to get cpuprofile flag: %w", err)
	}
	if popts.Mem, err = flags.GetString("memprofile"); err != nil {
		return nil, fmt.Errorf("failed to get memprofile flag: %w", err)
	}
	if popts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if popts.Enabled() {
		if s.profile, err = prof.Start(popts); err != nil {
			s.close()
			return nil, err
		}
	}
	return s, nil
}

// close stops profiling and flushes the logger.
func (s *settings) close() {
	if err := s.profile.Stop(); err != nil {
		s.log.Warn("failed to write profiles", zap.Error(err))
	}
	_ = s.log.Sync()
	_ = s.closeLog()
}

// inputs picks the declaration files: command-line arguments win over the
// project file.
func (s *settings) inputs(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	return s.cfg.RecordPaths()
}
