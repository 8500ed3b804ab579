package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inamate/inamate/shapes-go/internal/db"
	"github.com/inamate/inamate/shapes-go/internal/typeid"
)

// Postgres stores scenes in a PostgreSQL database.
type Postgres struct {
	pool    *pgxpool.Pool
	queries *db.Queries
}

var _ Store = (*Postgres)(nil)

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, queries: db.New(pool)}
}

func (p *Postgres) CreateScene(ctx context.Context, s Scene) (Scene, error) {
	row, err := p.queries.CreateScene(ctx, db.CreateSceneParams{
		ID:          s.ID,
		Name:        s.Name,
		EditKeyHash: s.EditKeyHash,
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return Scene{}, ErrExists
		}
		return Scene{}, fmt.Errorf("create scene: %w", err)
	}
	return dbSceneToScene(row), nil
}

func (p *Postgres) GetScene(ctx context.Context, id string) (Scene, error) {
	row, err := p.queries.GetScene(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Scene{}, ErrNotFound
		}
		return Scene{}, fmt.Errorf("get scene: %w", err)
	}
	return dbSceneToScene(row), nil
}

func (p *Postgres) ListScenes(ctx context.Context) ([]Scene, error) {
	rows, err := p.queries.ListScenes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	scenes := make([]Scene, len(rows))
	for i, r := range rows {
		scenes[i] = dbSceneToScene(r)
	}
	return scenes, nil
}

func (p *Postgres) DeleteScene(ctx context.Context, id string) error {
	n, err := p.queries.DeleteScene(ctx, id)
	if err != nil {
		return fmt.Errorf("delete scene: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) SaveSnapshot(ctx context.Context, sceneID string, doc json.RawMessage) (Snapshot, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	q := p.queries.WithTx(tx)
	if _, err := q.GetScene(ctx, sceneID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("get scene: %w", err)
	}

	// Get current version to increment
	nextVersion := int32(1)
	current, err := q.GetLatestSnapshot(ctx, sceneID)
	switch {
	case err == nil:
		nextVersion = current.Version + 1
	case !errors.Is(err, pgx.ErrNoRows):
		return Snapshot{}, fmt.Errorf("get latest snapshot: %w", err)
	}

	row, err := q.CreateSnapshot(ctx, db.CreateSnapshotParams{
		ID:       typeid.NewSnapshotID(),
		SceneID:  sceneID,
		Version:  nextVersion,
		Document: doc,
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("create snapshot: %w", err)
	}
	if err := q.TouchScene(ctx, sceneID); err != nil {
		return Snapshot{}, fmt.Errorf("touch scene: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("commit: %w", err)
	}
	return dbSnapshotToSnapshot(row), nil
}

func (p *Postgres) LatestSnapshot(ctx context.Context, sceneID string) (Snapshot, error) {
	row, err := p.queries.GetLatestSnapshot(ctx, sceneID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}
	return dbSnapshotToSnapshot(row), nil
}

func dbSceneToScene(s db.Scene) Scene {
	return Scene{
		ID:          s.ID,
		Name:        s.Name,
		EditKeyHash: s.EditKeyHash,
		CreatedAt:   s.CreatedAt.Time,
		UpdatedAt:   s.UpdatedAt.Time,
	}
}

func dbSnapshotToSnapshot(s db.Snapshot) Snapshot {
	return Snapshot{
		ID:        s.ID,
		SceneID:   s.SceneID,
		Version:   int(s.Version),
		Document:  s.Document,
		CreatedAt: s.CreatedAt.Time,
	}
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
