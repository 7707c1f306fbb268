package kv

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"orderpad/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Repository backed by the kv_entries table.
func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context, key string) (string, error) {
	const q = `
SELECT value
FROM kv_entries
WHERE key = $1
`
	var value string
	if err := r.pool.QueryRow(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *postgresRepo) Set(ctx context.Context, key, value string) error {
	const q = `
INSERT INTO kv_entries (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value, updated_at = now()
`
	_, err := r.pool.Exec(ctx, q, key, value)
	return err
}

func (r *postgresRepo) Remove(ctx context.Context, key string) error {
	const q = `
DELETE FROM kv_entries
WHERE key = $1
`
	_, err := r.pool.Exec(ctx, q, key)
	return err
}

type postgresSnapshots struct {
	pool *pgxpool.Pool
}

// NewPostgresSnapshots returns a Snapshots store backed by cart_snapshots.
func NewPostgresSnapshots(pool *pgxpool.Pool) Snapshots {
	return &postgresSnapshots{pool: pool}
}

func (r *postgresSnapshots) Insert(ctx context.Context, snap Snapshot) error {
	const q = `
INSERT INTO cart_snapshots (id, agent_id, label, saved_at, payload)
VALUES ($1, $2, $3, $4, $5)
`
	_, err := r.pool.Exec(ctx, q, snap.ID, snap.AgentID, snap.Label, snap.SavedAt, snap.Payload)
	return err
}

func (r *postgresSnapshots) List(ctx context.Context, agentID string) ([]Snapshot, error) {
	const q = `
SELECT id::text, agent_id, label, saved_at, payload
FROM cart_snapshots
WHERE agent_id = $1
ORDER BY saved_at DESC
`
	rows, err := r.pool.Query(ctx, q, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.AgentID, &s.Label, &s.SavedAt, &s.Payload); err != nil {
			return nil, err
		}
		snaps = append(snaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return snaps, nil
}

func (r *postgresSnapshots) Get(ctx context.Context, agentID, id string) (*Snapshot, error) {
	const q = `
SELECT id::text, agent_id, label, saved_at, payload
FROM cart_snapshots
WHERE agent_id = $1 AND id::text = $2
`
	var s Snapshot
	if err := r.pool.QueryRow(ctx, q, agentID, id).Scan(&s.ID, &s.AgentID, &s.Label, &s.SavedAt, &s.Payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresSnapshots) Delete(ctx context.Context, agentID, id string) error {
	const q = `
DELETE FROM cart_snapshots
WHERE agent_id = $1 AND id::text = $2
`
	cmd, err := r.pool.Exec(ctx, q, agentID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
