package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/custodia-labs/curricula/internal/core/domain"
	"github.com/custodia-labs/curricula/internal/core/ports/driven"
)

var _ driven.RunStore = (*runStore)(nil)

type runStore struct {
	db     *sql.DB
	closer io.Closer
}

const upsertRun = `
INSERT INTO ingest_runs (id, source, mode, skipped, chunks_created, stats, started_at, duration_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	source         = excluded.source,
	mode           = excluded.mode,
	skipped        = excluded.skipped,
	chunks_created = excluded.chunks_created,
	stats          = excluded.stats,
	started_at     = excluded.started_at,
	duration_ms    = excluded.duration_ms`

const selectRuns = `
SELECT id, source, mode, skipped, stats, started_at, duration_ms
FROM ingest_runs
ORDER BY started_at DESC, id DESC`

// Record stores run, replacing an earlier record with the same ID. The
// stats travel as a JSON column so new counters need no migration.
func (r *runStore) Record(ctx context.Context, run domain.IngestRun) error {
	stats, err := json.Marshal(run.Stats)
	if err != nil {
		return fmt.Errorf("encode run stats: %w", err)
	}
	_, err = r.db.ExecContext(ctx, upsertRun,
		run.ID, run.Source, string(run.Mode), run.Skipped, run.Stats.ChunksCreated,
		string(stats), run.StartedAt.UnixNano(), run.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

// Latest returns domain.ErrNotFound before the first ingestion.
func (r *runStore) Latest(ctx context.Context) (*domain.IngestRun, error) {
	runs, err := r.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, domain.ErrNotFound
	}
	return &runs[0], nil
}

// List returns runs newest first; limit <= 0 means all of them.
func (r *runStore) List(ctx context.Context, limit int) ([]domain.IngestRun, error) {
	query, args := selectRuns, []any(nil)
	if limit > 0 {
		query += "\nLIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.IngestRun
	for rows.Next() {
		var (
			run          domain.IngestRun
			mode, stats  string
			started, dur int64
		)
		if err := rows.Scan(&run.ID, &run.Source, &mode, &run.Skipped, &stats, &started, &dur); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(stats), &run.Stats); err != nil {
			return nil, fmt.Errorf("decode stats of run %s: %w", run.ID, err)
		}
		run.Mode = domain.ChunkingMode(mode)
		run.StartedAt = time.Unix(0, started).UTC()
		run.Duration = time.Duration(dur) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *runStore) Close() error {
	return r.closer.Close()
}
