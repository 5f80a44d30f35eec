package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/threadlens/threadlens/internal/analyze"
	"github.com/threadlens/threadlens/internal/export"
	"github.com/threadlens/threadlens/internal/model"
	"github.com/threadlens/threadlens/internal/store"
)

var (
	analyzeInput string
	analyzeDelay time.Duration
	analyzeCSV   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run LLM analysis over a stored dump's comments",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore()
		if err != nil {
			return err
		}
		defer st.Close()

		var dump *store.Dump
		if analyzeInput != "" {
			dump, err = st.LoadDump(ctx, analyzeInput)
		} else {
			dump, err = st.LatestDump(ctx)
		}
		if err != nil {
			return err
		}

		comments := collectComments(dump)
		if len(comments) == 0 {
			return eris.Errorf("dump %s holds no comments", dump.Run.ID)
		}

		llm := initOllama()
		if err := llm.CheckModel(ctx); err != nil {
			return err
		}

		delay := analyzeDelay
		if delay == 0 && cfg.Analyze.DelaySecs > 0 {
			delay = time.Duration(cfg.Analyze.DelaySecs * float64(time.Second))
		}

		analyzer := analyze.NewAnalyzer(llm)
		results := analyzer.AnalyzeBatch(ctx, comments, delay)
		stats := analyze.SummaryStats(results)
		printStats(os.Stdout, stats)

		if analyzeCSV != "" {
			if err := export.WriteCSVFile(analyzeCSV, results); err != nil {
				return err
			}
			zap.L().Info("analysis exported", zap.String("path", analyzeCSV), zap.Int("rows", len(results)))
		}
		return nil
	},
}

// collectComments flattens a dump into one slice, threads in stored order.
func collectComments(dump *store.Dump) []model.CommentRecord {
	ids := make([]string, 0, len(dump.Threads))
	for id := range dump.Threads {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var comments []model.CommentRecord
	for _, id := range ids {
		comments = append(comments, dump.Threads[id].Comments...)
	}
	return comments
}

func printStats(w *os.File, stats model.BatchStats) {
	fmt.Fprintf(w, "analyzed %d comments (avg confidence %.3f)\n\n", stats.TotalComments, stats.AvgConfidence)

	fmt.Fprintln(w, "sentiment:")
	for _, s := range []model.Sentiment{model.SentimentPositive, model.SentimentNeutral, model.SentimentNegative} {
		if n := stats.Sentiments[s]; n > 0 {
			fmt.Fprintf(w, "  %-9s %d\n", s, n)
		}
	}

	fmt.Fprintln(w, "toxicity:")
	for _, tox := range []model.Toxicity{model.ToxicityLow, model.ToxicityMedium, model.ToxicityHigh} {
		if n := stats.Toxicities[tox]; n > 0 {
			fmt.Fprintf(w, "  %-9s %d\n", tox, n)
		}
	}

	fmt.Fprintln(w, "emotion:")
	for _, e := range []model.Emotion{
		model.EmotionJoy, model.EmotionAnger, model.EmotionFear,
		model.EmotionSadness, model.EmotionSurprise, model.EmotionDisgust, model.EmotionNeutral,
	} {
		if n := stats.Emotions[e]; n > 0 {
			fmt.Fprintf(w, "  %-9s %d\n", e, n)
		}
	}

	if len(stats.TopTopics) > 0 {
		fmt.Fprintln(w, "top topics:")
		for _, tc := range stats.TopTopics {
			fmt.Fprintf(w, "  %-20s %d\n", tc.Topic, tc.Count)
		}
	}
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "dump name to analyze (default: newest)")
	analyzeCmd.Flags().DurationVar(&analyzeDelay, "delay", 0, "pause between comments (default: config)")
	analyzeCmd.Flags().StringVar(&analyzeCSV, "csv", "", "also write results to this CSV file")
	rootCmd.AddCommand(analyzeCmd)
}
