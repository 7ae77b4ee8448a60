package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/azure/mentions-sentiment-report/internal/config"
	"github.com/azure/mentions-sentiment-report/internal/monitoring"
	"github.com/azure/mentions-sentiment-report/internal/notifications"
	"github.com/azure/mentions-sentiment-report/internal/sources"
	"github.com/azure/mentions-sentiment-report/internal/storage"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mentions-report",
		Short: "Sentiment report for brand mentions on X (Twitter)",
		Long: `mentions-report searches recent X (Twitter) posts for a brand, labels each
mention positive, negative or neutral with a keyword heuristic, prints a daily
report and exports the daily counts to a CSV file.

When the search API cannot be used, simulated data is reported instead.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg, false)

			service := buildService(cfg)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			_, err = service.RunReport(ctx)
			return err
		},
	}

	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringP("query", "q", "", "Search query (overrides SEARCH_QUERY)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "CSV output file (overrides OUTPUT_FILE)")
	rootCmd.PersistentFlags().Int("max-retries", 0, "Search attempts before falling back (overrides MAX_RETRIES)")

	rootCmd.AddCommand(newServeCmd(), newCheckCmd())
	return rootCmd
}

// loadConfig reads .env and the environment, then applies explicitly set flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	cfg := config.Load()

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("query") {
		cfg.SearchQuery, _ = flags.GetString("query")
	}
	if flags.Changed("output") {
		cfg.OutputFile, _ = flags.GetString("output")
	}
	if flags.Changed("max-retries") {
		cfg.MaxRetries, _ = flags.GetInt("max-retries")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setupLogging(cfg *config.Config, jsonFormat bool) {
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if jsonFormat {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// buildService wires the search source, the local CSV store and the optional sinks.
// Optional sinks that fail to initialize are skipped.
func buildService(cfg *config.Config, extra ...monitoring.Option) *monitoring.Service {
	source := sources.NewTwitterSource(cfg.TwitterBearerToken, sources.WithBaseURL(cfg.TwitterAPIBaseURL))

	opts := append([]monitoring.Option{}, extra...)

	if cfg.StorageAccount != "" {
		archive, err := storage.NewAzureStorage(cfg.StorageAccount, cfg.StorageContainer)
		if err != nil {
			logrus.Errorf("Azure archive disabled: %v", err)
		} else {
			opts = append(opts, monitoring.WithArchive(archive))
		}
	}

	if notifier := notifications.NewService(cfg); notifier.Enabled() {
		opts = append(opts, monitoring.WithNotifications(notifier))
	}

	return monitoring.NewService(cfg, source, storage.NewLocalStorage(""), opts...)
}
