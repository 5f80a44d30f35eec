package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/threadlens/threadlens/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "threadlens",
	Short: "Subreddit thread retrieval, filtering, and comment analysis",
	Long:  "Fetches subreddit threads and comment trees under a request budget, filters by score and date, and runs local LLM analysis over flattened comments.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
