package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

type Scene struct {
	ID          string
	Name        string
	EditKeyHash string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

type Snapshot struct {
	ID        string
	SceneID   string
	Version   int32
	Document  []byte
	CreatedAt pgtype.Timestamptz
}

const createScene = `
INSERT INTO scenes (id, name, edit_key_hash)
VALUES ($1, $2, $3)
RETURNING id, name, edit_key_hash, created_at, updated_at
`

type CreateSceneParams struct {
	ID          string
	Name        string
	EditKeyHash string
}

func (q *Queries) CreateScene(ctx context.Context, arg CreateSceneParams) (Scene, error) {
	row := q.db.QueryRow(ctx, createScene, arg.ID, arg.Name, arg.EditKeyHash)
	var i Scene
	err := row.Scan(&i.ID, &i.Name, &i.EditKeyHash, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const getScene = `
SELECT id, name, edit_key_hash, created_at, updated_at
FROM scenes WHERE id = $1
`

func (q *Queries) GetScene(ctx context.Context, id string) (Scene, error) {
	row := q.db.QueryRow(ctx, getScene, id)
	var i Scene
	err := row.Scan(&i.ID, &i.Name, &i.EditKeyHash, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const listScenes = `
SELECT id, name, edit_key_hash, created_at, updated_at
FROM scenes ORDER BY updated_at DESC
`

func (q *Queries) ListScenes(ctx context.Context) ([]Scene, error) {
	rows, err := q.db.Query(ctx, listScenes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Scene
	for rows.Next() {
		var i Scene
		if err := rows.Scan(&i.ID, &i.Name, &i.EditKeyHash, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteScene = `
DELETE FROM scenes WHERE id = $1
`

// DeleteScene returns the number of rows removed.
func (q *Queries) DeleteScene(ctx context.Context, id string) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteScene, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const touchScene = `
UPDATE scenes SET updated_at = now() WHERE id = $1
`

func (q *Queries) TouchScene(ctx context.Context, id string) error {
	_, err := q.db.Exec(ctx, touchScene, id)
	return err
}

const createSnapshot = `
INSERT INTO snapshots (id, scene_id, version, document)
VALUES ($1, $2, $3, $4)
RETURNING id, scene_id, version, document, created_at
`

type CreateSnapshotParams struct {
	ID       string
	SceneID  string
	Version  int32
	Document []byte
}

func (q *Queries) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) (Snapshot, error) {
	row := q.db.QueryRow(ctx, createSnapshot, arg.ID, arg.SceneID, arg.Version, arg.Document)
	var i Snapshot
	err := row.Scan(&i.ID, &i.SceneID, &i.Version, &i.Document, &i.CreatedAt)
	return i, err
}

const getLatestSnapshot = `
SELECT id, scene_id, version, document, created_at
FROM snapshots WHERE scene_id = $1
ORDER BY version DESC LIMIT 1
`

func (q *Queries) GetLatestSnapshot(ctx context.Context, sceneID string) (Snapshot, error) {
	row := q.db.QueryRow(ctx, getLatestSnapshot, sceneID)
	var i Snapshot
	err := row.Scan(&i.ID, &i.SceneID, &i.Version, &i.Document, &i.CreatedAt)
	return i, err
}
