package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/threadlens/threadlens/internal/model"
)

const dumpTimeLayout = "20060102-150405"

// JSONStore persists each scrape as one compact JSON file named
// {timestamp}_{subreddit}.json whose body maps thread id to dump.
type JSONStore struct {
	dir string
}

// NewJSON creates the dump directory if needed and returns a file-backed store.
func NewJSON(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "store: create dump dir %s", dir)
	}
	return &JSONStore{dir: dir}, nil
}

func (s *JSONStore) SaveDump(_ context.Context, run model.ScrapeRun, threads map[string]model.ThreadDump) (string, error) {
	name := fmt.Sprintf("%s_%s.json", run.StartedAt.UTC().Format(dumpTimeLayout), sanitizeName(run.Subreddit))

	data, err := json.Marshal(threads)
	if err != nil {
		return "", eris.Wrap(err, "store: marshal dump")
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", eris.Wrapf(err, "store: write dump %s", name)
	}
	return name, nil
}

func (s *JSONStore) LoadDump(_ context.Context, name string) (*Dump, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, eris.Wrapf(err, "store: read dump %s", name)
	}

	var threads map[string]model.ThreadDump
	if err := json.Unmarshal(data, &threads); err != nil {
		return nil, eris.Wrapf(err, "store: decode dump %s", name)
	}

	run := runFromName(name)
	run.Threads = len(threads)
	return &Dump{Run: run, Threads: threads}, nil
}

func (s *JSONStore) ListDumps(_ context.Context) ([]DumpInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, eris.Wrapf(err, "store: read dump dir %s", s.dir)
	}

	var infos []DumpInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		run := runFromName(entry.Name())
		infos = append(infos, DumpInfo{
			Name:      entry.Name(),
			Subreddit: run.Subreddit,
			SavedAt:   run.StartedAt,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].SavedAt.After(infos[j].SavedAt)
	})
	return infos, nil
}

func (s *JSONStore) LatestDump(ctx context.Context) (*Dump, error) {
	infos, err := s.ListDumps(ctx)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, eris.Errorf("store: no dumps in %s", s.dir)
	}
	return s.LoadDump(ctx, infos[0].Name)
}

func (s *JSONStore) Close() error { return nil }

// runFromName reconstructs run metadata from a {timestamp}_{subreddit}.json
// file name. Unparseable names still load, they just carry empty metadata.
func runFromName(name string) model.ScrapeRun {
	base := strings.TrimSuffix(name, ".json")
	stamp, subreddit, ok := strings.Cut(base, "_")
	if !ok {
		return model.ScrapeRun{ID: name}
	}
	savedAt, err := time.Parse(dumpTimeLayout, stamp)
	if err != nil {
		return model.ScrapeRun{ID: name, Subreddit: subreddit}
	}
	return model.ScrapeRun{
		ID:         name,
		Subreddit:  subreddit,
		StartedAt:  savedAt.UTC(),
		FinishedAt: savedAt.UTC(),
	}
}

func sanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '-'
		}
	}, s)
}
