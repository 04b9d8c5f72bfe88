package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/studylog/internal/index"
	"github.com/Zuo-Peng/studylog/internal/open"
)

func openCmd() *cobra.Command {
	var line int

	cmd := &cobra.Command{
		Use:   "open <sessionKey>",
		Short: "Open an indexed session's log in $EDITOR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			return open.OpenSession(db, args[0], line)
		},
	}

	cmd.Flags().IntVar(&line, "line", 0, "Line to jump to (0 = first task marker)")

	return cmd
}
