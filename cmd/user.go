package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/threadlens/threadlens/internal/reddit"
)

var (
	userName  string
	userKind  string
	userLimit int
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "List a user's recent comments and submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := initReddit()
		if err != nil {
			return err
		}

		content := client.User(cmd.Context(), userName, userKind, userLimit)
		zap.L().Info("user content fetched",
			zap.String("user", userName),
			zap.Int("comments", len(content.Comments)),
			zap.Int("submissions", len(content.Submissions)),
		)

		for _, s := range content.Submissions {
			date := time.Unix(s.CreatedUTC, 0).UTC().Format("2006-01-02")
			fmt.Fprintf(os.Stdout, "[post] %s r/%-20s %5d  %s\n", date, s.Subreddit, s.Score, s.Title)
		}
		for _, c := range content.Comments {
			date := time.Unix(c.CreatedUTC, 0).UTC().Format("2006-01-02")
			fmt.Fprintf(os.Stdout, "[comm] %s r/%-20s %5d  %s\n", date, c.Subreddit, c.Score, firstLine(c.Body, 80))
		}
		if len(content.Submissions) == 0 && len(content.Comments) == 0 {
			fmt.Fprintf(os.Stdout, "no content for u/%s\n", userName)
		}
		return nil
	},
}

func firstLine(s string, max int) string {
	for i, r := range s {
		if r == '\n' {
			s = s[:i]
			break
		}
	}
	if len(s) > max {
		s = s[:max-3] + "..."
	}
	return s
}

func init() {
	userCmd.Flags().StringVar(&userName, "name", "", "username without the u/ prefix (required)")
	userCmd.Flags().StringVar(&userKind, "kind", reddit.UserBoth, "content kind: comments, submissions, both")
	userCmd.Flags().IntVar(&userLimit, "limit", 25, "items per kind")
	_ = userCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(userCmd)
}
