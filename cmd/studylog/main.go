package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Zuo-Peng/studylog/internal/config"
	"github.com/Zuo-Peng/studylog/internal/logging"
	"github.com/Zuo-Peng/studylog/internal/metrics"
	"github.com/Zuo-Peng/studylog/internal/parse"
)

var version = "dev"

var (
	configPath string
	verbose    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd wires every subcommand. Argument errors print the command's
// usage along with the error.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "studylog",
		Short:         "Analyze UI-study interaction logs per task",
		Version:       version,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/studylog/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(segmentsCmd())
	rootCmd.AddCommand(indexCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(browseCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(doctorCmd())
	return rootCmd
}

// setup loads the config and builds the logger shared by every command.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// analyzeFile parses one log and runs it through the metrics engine.
func analyzeFile(cfg *config.Config, logger *zap.Logger, path string) (*metrics.Report, string, error) {
	result, err := parse.ParseFile(path)
	if err != nil {
		return nil, "", err
	}
	logger.Debug("parsed log",
		zap.String("file", path),
		zap.Int("events", len(result.Events)))

	engine, err := metrics.NewEngine(cfg.MetricOptions(), logger)
	if err != nil {
		return nil, "", err
	}
	report, err := engine.Analyze(result.Events)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	// same key the index uses, so it can be passed to browse and open
	return report, parse.SessionKey(cfg.LogRoot, path), nil
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
