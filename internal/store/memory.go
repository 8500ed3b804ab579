package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/inamate/inamate/shapes-go/internal/typeid"
)

// Memory keeps scenes in process memory. It is used when no database is
// configured and in tests.
type Memory struct {
	mu        sync.RWMutex
	scenes    map[string]Scene
	snapshots map[string][]Snapshot // sceneID -> versions, oldest first
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		scenes:    make(map[string]Scene),
		snapshots: make(map[string][]Snapshot),
	}
}

func (m *Memory) CreateScene(_ context.Context, s Scene) (Scene, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.scenes[s.ID]; ok {
		return Scene{}, ErrExists
	}
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	m.scenes[s.ID] = s
	return s, nil
}

func (m *Memory) GetScene(_ context.Context, id string) (Scene, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.scenes[id]
	if !ok {
		return Scene{}, ErrNotFound
	}
	return s, nil
}

func (m *Memory) ListScenes(_ context.Context) ([]Scene, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Scene, 0, len(m.scenes))
	for _, s := range m.scenes {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (m *Memory) DeleteScene(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.scenes[id]; !ok {
		return ErrNotFound
	}
	delete(m.scenes, id)
	delete(m.snapshots, id)
	return nil
}

func (m *Memory) SaveSnapshot(_ context.Context, sceneID string, doc json.RawMessage) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.scenes[sceneID]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	versions := m.snapshots[sceneID]
	snap := Snapshot{
		ID:        typeid.NewSnapshotID(),
		SceneID:   sceneID,
		Version:   len(versions) + 1,
		Document:  append([]byte(nil), doc...),
		CreatedAt: time.Now().UTC(),
	}
	m.snapshots[sceneID] = append(versions, snap)
	s.UpdatedAt = snap.CreatedAt
	m.scenes[sceneID] = s
	return snap, nil
}

func (m *Memory) LatestSnapshot(_ context.Context, sceneID string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	versions := m.snapshots[sceneID]
	if len(versions) == 0 {
		return Snapshot{}, ErrNotFound
	}
	return versions[len(versions)-1], nil
}
