package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bookchat/internal/app"
	"bookchat/internal/config"
	"bookchat/internal/logger"
	"bookchat/internal/metrics"
	"bookchat/internal/tui"
)

type options struct {
	configPath  string
	logLevel    string
	metricsAddr string
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "bookchat",
		Short: "Book information and recommendation chatbot",
		Long: `Bookchat finds the book closest to a free-text query in a vector index,
recommends similar titles and expands their summaries with a language model.

Without a subcommand it starts the interactive terminal UI.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to YAML config file (optional; uses ~/.config/bookchat/config.yaml if not provided)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")

	cmd.AddCommand(newLookupCommand(opts), newAskCommand(opts))
	return cmd
}

func runTUI(ctx context.Context, opts *options) error {
	// The TUI owns the terminal, so logs go to the configured file.
	a, log, err := setup(ctx, opts, true)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck
	defer a.Close()  //nolint:errcheck

	if _, err := tea.NewProgram(tui.New(ctx, a.Service), tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// setup loads config, builds the logger and assembles the app. Logs go to
// stderr unless toFile is set.
func setup(ctx context.Context, opts *options, toFile bool) (*app.App, *zap.Logger, error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Logging.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	var outputs []string
	if toFile {
		outputs = []string{cfg.Logging.File}
	}
	log, err := logger.New(level, outputs...)
	if err != nil {
		return nil, nil, err
	}

	if opts.metricsAddr != "" {
		metrics.Register()
		go func() {
			if err := metrics.Serve(opts.metricsAddr); err != nil {
				log.Error("Metrics server stopped", zap.String("addr", opts.metricsAddr), zap.Error(err))
			}
		}()
		log.Info("Serving metrics", zap.String("addr", opts.metricsAddr))
	}

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, err
	}
	return a, log, nil
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		cfg, _, err := config.LoadDefault()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
