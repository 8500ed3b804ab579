// Package store persists scenes and their document snapshots.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")
)

type Scene struct {
	ID          string
	Name        string
	EditKeyHash string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Snapshot struct {
	ID        string
	SceneID   string
	Version   int
	Document  json.RawMessage
	CreatedAt time.Time
}

// Store is implemented by the Postgres and in-memory backends.
// Lookups of missing rows fail with ErrNotFound.
type Store interface {
	CreateScene(ctx context.Context, s Scene) (Scene, error)
	GetScene(ctx context.Context, id string) (Scene, error)
	ListScenes(ctx context.Context) ([]Scene, error)
	DeleteScene(ctx context.Context, id string) error

	// SaveSnapshot stores doc as the scene's next version.
	SaveSnapshot(ctx context.Context, sceneID string, doc json.RawMessage) (Snapshot, error)
	LatestSnapshot(ctx context.Context, sceneID string) (Snapshot, error)
}
