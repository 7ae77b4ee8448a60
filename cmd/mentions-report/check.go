package main

import (
	"context"
	"fmt"
	"time"

	"github.com/azure/mentions-sentiment-report/internal/sentiment"
	"github.com/azure/mentions-sentiment-report/internal/sources"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Test connectivity to the search API with a single attempt",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg, false)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "🔍 Search API Connectivity Test")
			fmt.Fprintln(out, "===============================")

			source := sources.NewTwitterSource(cfg.TwitterBearerToken, sources.WithBaseURL(cfg.TwitterAPIBaseURL))
			if !source.IsEnabled() {
				fmt.Fprintln(out, "⚠️  DISABLED (missing TWITTER_BEARER_TOKEN)")
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			mentions, err := source.FetchMentions(ctx, cfg.SearchQuery, 1)
			if err != nil {
				fmt.Fprintf(out, "❌ ERROR: %v\n", err)
				return err
			}

			fmt.Fprintf(out, "✅ SUCCESS (%d mentions found for '%s')\n", len(mentions), cfg.SearchQuery)
			if len(mentions) > 0 {
				fmt.Fprintf(out, "   📝 Sample [%s]: \"%s\"\n", sentiment.Classify(mentions[0].Text), mentions[0].Text)
			}
			return nil
		},
	}
}
