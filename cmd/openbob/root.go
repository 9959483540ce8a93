package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/openbob/openbob/internal/config"
	"github.com/openbob/openbob/internal/logger"
	"github.com/openbob/openbob/internal/render"
	"github.com/openbob/openbob/internal/tracker"
	"github.com/openbob/openbob/pkg/source"
	"github.com/openbob/openbob/pkg/window"
)

var version = "dev"

type rootFlags struct {
	configPath string
	simulate   bool
	interval   time.Duration
	logDir     string
	verbose    bool
	showHidden bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:     "openbob",
		Short:   "Watch your open windows live together like a little household",
		Long:    "openbob tracks your open windows, accounts how long each has been open and focused, and renders them as a live console household.",
		Version: version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to config file")
	cmd.PersistentFlags().StringVar(&flags.logDir, "log-dir", "", "directory for the rotating log file")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output to the console")
	cmd.Flags().BoolVar(&flags.simulate, "simulate", false, "use the simulated window source")
	cmd.Flags().DurationVar(&flags.interval, "interval", 0, "poll interval (overrides config)")
	cmd.Flags().BoolVar(&flags.showHidden, "show-hidden", false, "keep closed windows in the view")

	cmd.AddCommand(newSourcesCmd(flags))
	return cmd
}

func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	if flags.simulate {
		cfg.Source.Simulated = true
	}
	if flags.interval > 0 {
		cfg.Tracker.PollInterval = flags.interval
	}
	if flags.logDir != "" {
		cfg.Log.Dir = flags.logDir
	}
	if flags.verbose {
		cfg.Log.Verbose = true
	}
	if flags.showHidden {
		cfg.Render.ShowHidden = true
	}

	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, flags *rootFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	log, closeLog, err := logger.New(logger.Options{
		Dir:      cfg.Log.Dir,
		Verbose:  cfg.Log.Verbose,
		Compress: cfg.Log.Compress,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	opts := source.Options{Filter: cfg.Filter(), Log: log}

	var src window.Source
	if cfg.Source.Simulated {
		src = source.SelectSimulated(opts)
	} else {
		src, err = source.Select(opts)
		if err != nil {
			var unsupported *source.UnsupportedPlatformError
			if errors.As(err, &unsupported) {
				log.Warn("no native window source, falling back to simulation", "reason", unsupported.Error())
				src = source.SelectSimulated(opts)
			} else {
				return err
			}
		}
	}
	defer src.Close()

	engine := tracker.New(src, cfg.Tracker.PollInterval, log)
	engine.Start()
	defer engine.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	console := render.New(engine, cmd.OutOrStdout(), cfg.Render.FrameInterval, cfg.Render.ShowHidden)
	console.Run(ctx)

	return nil
}
