package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Snapshot is one stored world snapshot row.
type Snapshot struct {
	Seed      uint64
	Tick      uint64
	CombatPos uint64
	Data      []byte
}

// SnapshotRepo stores opaque world snapshots. Old rows for the same seed are
// pruned on save so the table holds a short history, not an archive.
type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

const keepSnapshots = 8

// Save inserts a snapshot and prunes history beyond the retention window.
func (r *SnapshotRepo) Save(ctx context.Context, s Snapshot) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("snapshot begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO world_snapshots (seed, tick, combat_pos, data) VALUES ($1, $2, $3, $4)`,
		int64(s.Seed), int64(s.Tick), int64(s.CombatPos), s.Data,
	); err != nil {
		return fmt.Errorf("snapshot insert: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM world_snapshots
		 WHERE seed = $1 AND id NOT IN (
		     SELECT id FROM world_snapshots WHERE seed = $1 ORDER BY tick DESC LIMIT $2
		 )`,
		int64(s.Seed), keepSnapshots,
	); err != nil {
		return fmt.Errorf("snapshot prune: %w", err)
	}
	return tx.Commit(ctx)
}

// LoadLatest returns the most recent snapshot for a seed, or (nil, nil) when
// none exists.
func (r *SnapshotRepo) LoadLatest(ctx context.Context, seed uint64) (*Snapshot, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT seed, tick, combat_pos, data FROM world_snapshots
		 WHERE seed = $1 ORDER BY tick DESC LIMIT 1`, int64(seed))

	var s Snapshot
	var dbSeed, dbTick, dbPos int64
	if err := row.Scan(&dbSeed, &dbTick, &dbPos, &s.Data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot load: %w", err)
	}
	s.Seed = uint64(dbSeed)
	s.Tick = uint64(dbTick)
	s.CombatPos = uint64(dbPos)
	return &s, nil
}
