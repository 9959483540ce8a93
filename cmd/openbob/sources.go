package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/openbob/openbob/internal/logger"
	"github.com/openbob/openbob/pkg/source"
)

// newSourcesCmd reports which window sources are usable in this session.
func newSourcesCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "Show which window sources work here",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			log, closeLog, err := logger.New(logger.Options{Verbose: cfg.Log.Verbose})
			if err != nil {
				return err
			}
			defer closeLog()

			opts := source.Options{Filter: cfg.Filter(), Log: log}
			out := cmd.OutOrStdout()

			for _, probe := range source.Probe(opts) {
				mark := color.RedString("✗")
				if probe.Supported {
					mark = color.GreenString("✓")
				}
				fmt.Fprintf(out, "%s %s\n", mark, probe.Kind)
			}
			fmt.Fprintf(out, "%s simulated (always available)\n", color.GreenString("✓"))

			return nil
		},
	}
}
