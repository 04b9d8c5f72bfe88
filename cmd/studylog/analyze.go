package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/studylog/internal/render"
)

func analyzeCmd() *cobra.Command {
	var width int
	var events bool

	cmd := &cobra.Command{
		Use:   "analyze <log>",
		Short: "Compute homing time, typing rate and input correctness for a log",
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

			fmt.Print(render.Report(report, render.Options{
				Title:  key,
				Color:  stdoutIsTerminal(),
				Width:  width,
				Events: events,
			}))
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Wrap output at this width (0 = no wrap)")
	cmd.Flags().BoolVar(&events, "events", false, "List every event of each task")

	return cmd
}
