package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/threadlens/threadlens/internal/model"
	"github.com/threadlens/threadlens/internal/reddit"
)

var (
	scanSubreddit string
	scanMinScore  int
	scanStartDate string
	scanEndDate   string
	scanSort      string
	scanMaxScan   int
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a subreddit for threads matching score and date filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := initReddit()
		if err != nil {
			return err
		}

		maxScan := scanMaxScan
		if maxScan <= 0 {
			maxScan = cfg.Scan.MaxScan
		}

		results, err := client.Scan(cmd.Context(), reddit.ScanOptions{
			Subreddit:             scanSubreddit,
			MinScore:              scanMinScore,
			StartDate:             scanStartDate,
			EndDate:               scanEndDate,
			Sort:                  scanSort,
			MaxScan:               maxScan,
			MaxConsecutiveOutside: cfg.Scan.MaxConsecutiveOutside,
		})
		if err != nil {
			return err
		}

		zap.L().Info("scan complete",
			zap.String("subreddit", scanSubreddit),
			zap.Int("matched", len(results)),
		)
		writeThreadTable(os.Stdout, results)
		return nil
	},
}

func writeThreadTable(w *os.File, threads []model.ThreadSummary) {
	if len(threads) == 0 {
		fmt.Fprintln(w, "no matching threads")
		return
	}

	fmt.Fprintf(w, "%-8s %-60s %7s %9s %-10s\n", "ID", "Title", "Score", "Comments", "Date")
	fmt.Fprintln(w, strings.Repeat("-", 98))
	for _, t := range threads {
		title := t.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		date := time.Unix(t.CreatedUTC, 0).UTC().Format("2006-01-02")
		fmt.Fprintf(w, "%-8s %-60s %7d %9d %-10s\n", t.ID, title, t.Score, t.NumComments, date)
	}
}

func init() {
	scanCmd.Flags().StringVar(&scanSubreddit, "subreddit", "", "subreddit to scan (required)")
	scanCmd.Flags().IntVar(&scanMinScore, "min-score", 0, "minimum thread score")
	scanCmd.Flags().StringVar(&scanStartDate, "start-date", "", "inclusive start date, YYYY-MM-DD")
	scanCmd.Flags().StringVar(&scanEndDate, "end-date", "", "inclusive end date, YYYY-MM-DD")
	scanCmd.Flags().StringVar(&scanSort, "sort", reddit.SortTop, "scan order: top, new, hot, rising")
	scanCmd.Flags().IntVar(&scanMaxScan, "max-scan", 0, "cap on examined threads (0 uses config)")
	_ = scanCmd.MarkFlagRequired("subreddit")
	rootCmd.AddCommand(scanCmd)
}
