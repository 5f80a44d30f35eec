package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/threadlens/threadlens/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Dumps are addressed
// by run id.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path, configures WAL mode,
// and applies the schema.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	subreddit   TEXT NOT NULL,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	threads     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS thread_dumps (
	run_id    TEXT NOT NULL REFERENCES runs(id),
	thread_id TEXT NOT NULL,
	data      TEXT NOT NULL,
	PRIMARY KEY (run_id, thread_id)
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_runs_subreddit ON runs(subreddit);
`

func (s *SQLiteStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveDump(ctx context.Context, run model.ScrapeRun, threads map[string]model.ThreadDump) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: begin save")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, subreddit, started_at, finished_at, threads) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Subreddit, run.StartedAt.UTC(), run.FinishedAt.UTC(), len(threads),
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert run")
	}

	for threadID, dump := range threads {
		data, err := json.Marshal(dump)
		if err != nil {
			return "", eris.Wrapf(err, "sqlite: marshal thread %s", threadID)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO thread_dumps (run_id, thread_id, data) VALUES (?, ?, ?)`,
			run.ID, threadID, string(data),
		)
		if err != nil {
			return "", eris.Wrapf(err, "sqlite: insert thread %s", threadID)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", eris.Wrap(err, "sqlite: commit save")
	}
	return run.ID, nil
}

func (s *SQLiteStore) LoadDump(ctx context.Context, name string) (*Dump, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, subreddit, started_at, finished_at, threads FROM runs WHERE id = ?`,
		name,
	)
	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}
	return s.loadThreads(ctx, run)
}

func (s *SQLiteStore) ListDumps(ctx context.Context) ([]DumpInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, subreddit, started_at, threads FROM runs ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var infos []DumpInfo
	for rows.Next() {
		var info DumpInfo
		if err := rows.Scan(&info.Name, &info.Subreddit, &info.SavedAt, &info.Threads); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		infos = append(infos, info)
	}
	return infos, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) LatestDump(ctx context.Context) (*Dump, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, subreddit, started_at, finished_at, threads FROM runs
		 ORDER BY started_at DESC LIMIT 1`,
	)
	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}
	return s.loadThreads(ctx, run)
}

func (s *SQLiteStore) loadThreads(ctx context.Context, run model.ScrapeRun) (*Dump, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT thread_id, data FROM thread_dumps WHERE run_id = ?`,
		run.ID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: load threads for run %s", run.ID)
	}
	defer rows.Close()

	threads := make(map[string]model.ThreadDump)
	for rows.Next() {
		var threadID, data string
		if err := rows.Scan(&threadID, &data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan thread")
		}
		var dump model.ThreadDump
		if err := json.Unmarshal([]byte(data), &dump); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal thread %s", threadID)
		}
		threads[threadID] = dump
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: load threads iterate")
	}
	return &Dump{Run: run, Threads: threads}, nil
}

func scanRun(row *sql.Row) (model.ScrapeRun, error) {
	var run model.ScrapeRun
	err := row.Scan(&run.ID, &run.Subreddit, &run.StartedAt, &run.FinishedAt, &run.Threads)
	if err == sql.ErrNoRows {
		return run, eris.New("sqlite: no dumps stored")
	}
	if err != nil {
		return run, eris.Wrap(err, "sqlite: scan run")
	}
	run.StartedAt = run.StartedAt.UTC()
	run.FinishedAt = run.FinishedAt.UTC()
	return run, nil
}
