package store

import (
	"context"
	"time"

	"github.com/threadlens/threadlens/internal/model"
)

// Dump is one persisted scrape: the run record plus its threads keyed by
// thread id.
type Dump struct {
	Run     model.ScrapeRun             `json:"run"`
	Threads map[string]model.ThreadDump `json:"threads"`
}

// DumpInfo describes a stored dump without loading its threads.
type DumpInfo struct {
	Name      string    `json:"name"`
	Subreddit string    `json:"subreddit"`
	SavedAt   time.Time `json:"saved_at"`
	Threads   int       `json:"threads"`
}

// Store defines persistence for scraped thread dumps.
type Store interface {
	SaveDump(ctx context.Context, run model.ScrapeRun, threads map[string]model.ThreadDump) (name string, err error)
	LoadDump(ctx context.Context, name string) (*Dump, error)
	ListDumps(ctx context.Context) ([]DumpInfo, error)
	LatestDump(ctx context.Context) (*Dump, error)
	Close() error
}
