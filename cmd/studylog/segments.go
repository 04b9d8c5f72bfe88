package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/studylog/internal/render"
)

func segmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "segments <log>",
		Short: "Print the per-task segment breakdown of a log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			report, key, err := analyzeFile(cfg, logger, args[0])
			if err != nil {
				return err
			}

			fmt.Print(render.Segments(report, render.Options{
				Title: key,
				Color: stdoutIsTerminal(),
			}))
			return nil
		},
	}
}
