package model

import "time"

// ThreadDump is the persisted form of one scraped thread: the submission,
// its body, and its flattened comments.
type ThreadDump struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	Comments []CommentRecord `json:"comments"`
	Thread   ThreadSummary   `json:"full_thread_infos"`
}

// ScrapeRun records one fetch session over a subreddit.
type ScrapeRun struct {
	ID         string    `json:"id"`
	Subreddit  string    `json:"subreddit"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Threads    int       `json:"threads"`
}
