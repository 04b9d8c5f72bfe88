package main

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/studylog/internal/index"
	"github.com/Zuo-Peng/studylog/internal/parse"
)

func listCmd() *cobra.Command {
	var kinds bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			sessions, err := db.ListSessions()
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}
			if len(sessions) == 0 {
				fmt.Println("No sessions indexed (run 'studylog index' first)")
				return nil
			}

			keyWidth := len("SESSION")
			for _, s := range sessions {
				keyWidth = max(keyWidth, runewidth.StringWidth(s.SessionKey))
			}

			fmt.Printf("%s  %7s  %5s  %s\n", runewidth.FillRight("SESSION", keyWidth), "EVENTS", "TASKS", "SPAN")
			for _, s := range sessions {
				line := fmt.Sprintf("%s  %7d  %5d  %d..%d",
					runewidth.FillRight(s.SessionKey, keyWidth), s.EventCount, s.TaskCount, s.FirstTS, s.LastTS)
				if kinds {
					counts, err := db.KindCounts(s.SessionKey)
					if err != nil {
						return fmt.Errorf("count %s: %w", s.SessionKey, err)
					}
					line += "  " + formatKinds(counts)
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&kinds, "kinds", false, "Show event counts per kind")

	return cmd
}

func formatKinds(counts map[parse.Kind]int) string {
	parts := make([]string, 0, len(parse.Kinds))
	for _, k := range parse.Kinds {
		if n := counts[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", k, n))
		}
	}
	return strings.Join(parts, " ")
}
