package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/threadlens/threadlens/internal/model"
	"github.com/threadlens/threadlens/internal/reddit"
)

// automodAuthor is dropped from dumps: its comments are boilerplate.
const automodAuthor = "AutoModerator"

var (
	fetchSubreddit   string
	fetchQuery       string
	fetchLimit       int
	fetchSort        string
	fetchCommentSort string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch threads and their comment trees into a dump",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, err := initReddit()
		if err != nil {
			return err
		}
		st, err := initStore()
		if err != nil {
			return err
		}
		defer st.Close()

		started := time.Now().UTC()
		threads := client.Fetch(ctx, fetchSubreddit, fetchQuery, fetchLimit, fetchSort)
		if len(threads) == 0 {
			return eris.Errorf("no threads found in r/%s", fetchSubreddit)
		}

		// Busiest threads first so an interrupted run still captured the
		// discussions worth analyzing.
		sort.SliceStable(threads, func(i, j int) bool {
			return threads[i].NumComments > threads[j].NumComments
		})

		dumps := make(map[string]model.ThreadDump, len(threads))
		var totalComments int
		for _, thread := range threads {
			comments := dropAuthor(client.Comments(ctx, thread.ID, fetchCommentSort), automodAuthor)
			totalComments += len(comments)
			dumps[thread.ID] = model.ThreadDump{
				ID:       thread.ID,
				Title:    thread.Title,
				Content:  thread.SelfText,
				Comments: comments,
				Thread:   thread,
			}
		}

		run := model.ScrapeRun{
			Subreddit:  fetchSubreddit,
			StartedAt:  started,
			FinishedAt: time.Now().UTC(),
			Threads:    len(dumps),
		}
		name, err := st.SaveDump(ctx, run, dumps)
		if err != nil {
			return err
		}

		zap.L().Info("fetch complete",
			zap.String("subreddit", fetchSubreddit),
			zap.Int("threads", len(dumps)),
			zap.Int("comments", totalComments),
			zap.String("dump", name),
		)
		fmt.Fprintf(os.Stdout, "saved %d threads (%d comments) to %s\n", len(dumps), totalComments, name)
		return nil
	},
}

func dropAuthor(comments []model.CommentRecord, author string) []model.CommentRecord {
	kept := comments[:0]
	for _, c := range comments {
		if c.Author == author {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

func init() {
	fetchCmd.Flags().StringVar(&fetchSubreddit, "subreddit", "", "subreddit to fetch (required)")
	fetchCmd.Flags().StringVar(&fetchQuery, "query", "", "search query; empty lists by sort")
	fetchCmd.Flags().IntVar(&fetchLimit, "limit", 10, "number of threads")
	fetchCmd.Flags().StringVar(&fetchSort, "sort", reddit.SortHot, "thread sort: hot, new, top, rising")
	fetchCmd.Flags().StringVar(&fetchCommentSort, "comment-sort", "best", "comment sort: best, top, new, controversial, old, qa")
	_ = fetchCmd.MarkFlagRequired("subreddit")
	rootCmd.AddCommand(fetchCmd)
}
