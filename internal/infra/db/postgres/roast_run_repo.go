package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"roast-panel-service/internal/domain/model"
	"roast-panel-service/internal/domain/ports/repository"
)

var _ repository.RoastRunRepository = (*roastRunRepo)(nil)

// roastRunRepo persists finished runs and their per-persona outputs.
//
// Schema:
//
//	CREATE TABLE roast_runs (
//	  id UUID PRIMARY KEY,
//	  source TEXT NOT NULL,
//	  transcript TEXT NOT NULL,
//	  panel_size INT NOT NULL,
//	  succeeded INT NOT NULL,
//	  created_at TIMESTAMPTZ NOT NULL
//	);
//	CREATE TABLE roast_outputs (
//	  id UUID PRIMARY KEY,
//	  run_id UUID NOT NULL REFERENCES roast_runs(id) ON DELETE CASCADE,
//	  position INT NOT NULL,
//	  panel TEXT NOT NULL,
//	  roast TEXT NOT NULL,
//	  audio_url TEXT NOT NULL,
//	  thumbnail TEXT NOT NULL
//	);
type roastRunRepo struct {
	pool *pgxpool.Pool
}

func NewRoastRunRepo(pool *pgxpool.Pool) *roastRunRepo {
	return &roastRunRepo{pool: pool}
}

func (r *roastRunRepo) Save(ctx context.Context, run *model.RoastRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const runQ = `
INSERT INTO roast_runs (id, source, transcript, panel_size, succeeded, created_at)
VALUES ($1, $2, $3, $4, $5, $6);`
	if _, err := tx.Exec(ctx, runQ,
		run.ID, run.Source, run.Transcript, run.PanelSize, run.Succeeded, run.CreatedAt); err != nil {
		return err
	}

	const outQ = `
INSERT INTO roast_outputs (id, run_id, position, panel, roast, audio_url, thumbnail)
VALUES ($1, $2, $3, $4, $5, $6, $7);`
	for i, res := range run.Results {
		if _, err := tx.Exec(ctx, outQ,
			uuid.NewString(), run.ID, i, res.Panel, res.Roast, res.AudioURL, res.Thumbnail); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *roastRunRepo) ListRecent(ctx context.Context, limit int) ([]*model.RoastRun, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, source, transcript, panel_size, succeeded, created_at
FROM roast_runs
ORDER BY created_at DESC
LIMIT $1;`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*model.RoastRun
	byID := map[string]*model.RoastRun{}
	for rows.Next() {
		var run model.RoastRun
		if err := rows.Scan(&run.ID, &run.Source, &run.Transcript, &run.PanelSize, &run.Succeeded, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
		byID[run.ID] = &run
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return runs, nil
	}

	ids := make([]string, 0, len(runs))
	for _, run := range runs {
		ids = append(ids, run.ID)
	}
	const outQ = `
SELECT run_id, panel, roast, audio_url, thumbnail
FROM roast_outputs
WHERE run_id = ANY($1)
ORDER BY run_id, position;`
	outRows, err := r.pool.Query(ctx, outQ, ids)
	if err != nil {
		return nil, err
	}
	defer outRows.Close()
	for outRows.Next() {
		var runID string
		var res model.RoastResult
		if err := outRows.Scan(&runID, &res.Panel, &res.Roast, &res.AudioURL, &res.Thumbnail); err != nil {
			return nil, err
		}
		if run := byID[runID]; run != nil {
			run.Results = append(run.Results, res)
		}
	}
	return runs, outRows.Err()
}
