package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/studylog/internal/index"
	"github.com/Zuo-Peng/studylog/internal/metrics"
	"github.com/Zuo-Peng/studylog/internal/tui"
)

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <log|sessionKey>",
		Short: "Browse a session's metrics task by task",
		Long:  `Opens a TUI with the whole timeline and one entry per task. The argument is a log file path, or the key of an indexed session.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			target := args[0]
			if info, err := os.Stat(target); err == nil && !info.IsDir() {
				report, key, err := analyzeFile(cfg, logger, target)
				if err != nil {
					return err
				}
				return tui.Run(report, key)
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			session, err := db.GetSessionByKey(target)
			if err != nil {
				return fmt.Errorf("get session: %w", err)
			}
			if session == nil {
				return fmt.Errorf("no such log or indexed session: %s", target)
			}
			events, err := db.LoadEvents(target)
			if err != nil {
				return fmt.Errorf("load events: %w", err)
			}

			engine, err := metrics.NewEngine(cfg.MetricOptions(), logger)
			if err != nil {
				return err
			}
			report, err := engine.Analyze(events)
			if err != nil {
				return fmt.Errorf("%s: %w", target, err)
			}
			return tui.Run(report, target)
		},
	}
}
