package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/studylog/internal/config"
	"github.com/Zuo-Peng/studylog/internal/index"
	"github.com/Zuo-Peng/studylog/internal/scan"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config, log root and DB, and show stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("=== Config ===")
			path := configPath
			if path == "" {
				if p, err := config.DefaultPath(); err == nil {
					path = p
				}
			}
			if _, err := os.Stat(path); err != nil {
				fmt.Printf("  File: %s (not found, using defaults)\n", path)
			} else {
				fmt.Printf("  File: %s (OK)\n", path)
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			opts := cfg.MetricOptions()
			fmt.Printf("  WPM:  %.1f chars/word, %.0f units/minute\n", opts.CharsPerWord, opts.UnitsPerMinute)

			fmt.Println("\n=== Log Root ===")
			checkDir("Logs", cfg.LogRoot)
			files, scanErr := scan.ScanRoot(cfg.LogRoot)
			if scanErr != nil {
				fmt.Printf("  scan error: %v\n", scanErr)
			} else {
				fmt.Printf("  %s files: %d\n", scan.LogExt, len(files))
			}

			fmt.Println("\n=== Database ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'studylog index' first)")
				return nil
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			sessionCount, err := db.SessionCount()
			if err != nil {
				return fmt.Errorf("count sessions: %w", err)
			}
			eventCount, err := db.EventCount()
			if err != nil {
				return fmt.Errorf("count events: %w", err)
			}

			fmt.Printf("  Sessions: %d\n", sessionCount)
			fmt.Printf("  Events:   %d\n", eventCount)
			if scanErr == nil && sessionCount != len(files) {
				fmt.Printf("  Status: STALE (files=%d, sessions=%d; run 'studylog index')\n", len(files), sessionCount)
			} else {
				fmt.Println("  Status: OK")
			}

			if info, err := os.Stat(cfg.DBPath); err == nil {
				sizeMB := float64(info.Size()) / 1024 / 1024
				fmt.Printf("\n=== DB Size: %.1f MB ===\n", sizeMB)
			}

			return nil
		},
	}
}

func checkDir(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
