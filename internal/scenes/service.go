// Package scenes implements the scene REST API on top of the store and the
// live session hub.
package scenes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/inamate/inamate/shapes-go/internal/auth"
	"github.com/inamate/inamate/shapes-go/internal/document"
	"github.com/inamate/inamate/shapes-go/internal/engine"
	"github.com/inamate/inamate/shapes-go/internal/render"
	"github.com/inamate/inamate/shapes-go/internal/session"
	"github.com/inamate/inamate/shapes-go/internal/store"
	"github.com/inamate/inamate/shapes-go/internal/typeid"
)

var (
	ErrNotFound   = errors.New("scene not found")
	ErrBadRequest = errors.New("bad request")
)

// Largest PNG the render endpoint produces, per side.
const maxRenderSize = 4096

type Service struct {
	store store.Store
	auth  *auth.Service
	hub   *session.Hub

	// Logical width of new scenes.
	width float64
}

func NewService(st store.Store, authSvc *auth.Service, sceneWidth float64) *Service {
	return &Service{store: st, auth: authSvc, width: sceneWidth}
}

// SetHub attaches the live session hub. The hub itself loads and saves
// through LoadDocument and SaveDocument.
func (s *Service) SetHub(hub *session.Hub) {
	s.hub = hub
}

type Scene struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type CreateResult struct {
	Scene   Scene  `json:"scene"`
	EditKey string `json:"editKey"`
	Token   string `json:"token"`
}

type SceneDetail struct {
	Scene
	Document *document.InDocument `json:"document"`
}

// Create stores a new scene with its first snapshot. The edit key is only
// returned here.
func (s *Service) Create(ctx context.Context, name string, sample bool) (*CreateResult, error) {
	sceneID := typeid.NewSceneID()
	key, hash, err := s.auth.NewEditKey()
	if err != nil {
		return nil, err
	}

	sc, err := s.store.CreateScene(ctx, store.Scene{ID: sceneID, Name: name, EditKeyHash: hash})
	if err != nil {
		return nil, fmt.Errorf("create scene: %w", err)
	}

	// Seed document snapshot
	doc := document.NewEmptyDocument(sceneID, name)
	if sample {
		doc = document.NewSampleDocument(sceneID)
		doc.Scene.Name = name
	}
	doc.Scene.Width = s.width
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	if _, err := s.store.SaveSnapshot(ctx, sceneID, docJSON); err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	token, err := s.auth.IssueToken(sceneID)
	if err != nil {
		return nil, err
	}
	return &CreateResult{Scene: storeSceneToScene(sc), EditKey: key, Token: token.Token}, nil
}

func (s *Service) Get(ctx context.Context, sceneID string) (*SceneDetail, error) {
	sc, err := s.getScene(ctx, sceneID)
	if err != nil {
		return nil, err
	}
	detail := &SceneDetail{Scene: sc}
	err = s.hub.Do(ctx, sceneID, func(e *engine.Engine) error {
		detail.Document = e.Document()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *Service) List(ctx context.Context) ([]Scene, error) {
	rows, err := s.store.ListScenes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	scenes := make([]Scene, len(rows))
	for i, r := range rows {
		scenes[i] = storeSceneToScene(r)
	}
	return scenes, nil
}

// Delete removes a scene and disconnects its live clients.
func (s *Service) Delete(ctx context.Context, sceneID string) error {
	if err := s.store.DeleteScene(ctx, sceneID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete scene: %w", err)
	}
	return s.hub.Evict(ctx, sceneID)
}

func (s *Service) AddShape(ctx context.Context, sceneID string, node document.ShapeNode) (string, error) {
	var id string
	err := s.do(ctx, sceneID, func(e *engine.Engine) error {
		var err error
		id, err = e.AddShape(node)
		return err
	})
	return id, err
}

func (s *Service) RemoveShape(ctx context.Context, sceneID, shapeID string) error {
	return s.do(ctx, sceneID, func(e *engine.Engine) error {
		return e.RemoveShape(shapeID)
	})
}

// Commit folds every pending transform into its shape's geometry.
func (s *Service) Commit(ctx context.Context, sceneID string) error {
	return s.do(ctx, sceneID, func(e *engine.Engine) error {
		e.CommitTransforms()
		return nil
	})
}

func (s *Service) Intersects(ctx context.Context, sceneID, a, b string) (bool, error) {
	var hit bool
	err := s.do(ctx, sceneID, func(e *engine.Engine) error {
		var err error
		hit, err = e.Intersects(a, b)
		return err
	})
	return hit, err
}

// HitTest returns the topmost shape at scene point (x, y), or "".
func (s *Service) HitTest(ctx context.Context, sceneID string, x, y float64) (string, error) {
	var id string
	err := s.do(ctx, sceneID, func(e *engine.Engine) error {
		id = e.HitTest(x, y)
		return nil
	})
	return id, err
}

func (s *Service) Render(ctx context.Context, sceneID string) ([]render.DrawCommand, error) {
	var cmds []render.DrawCommand
	err := s.do(ctx, sceneID, func(e *engine.Engine) error {
		cmds = e.Frame()
		return nil
	})
	return cmds, err
}

func (s *Service) RenderPNG(ctx context.Context, sceneID string, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 || width > maxRenderSize || height > maxRenderSize {
		return nil, fmt.Errorf("%w: size %dx%d", ErrBadRequest, width, height)
	}
	var buf bytes.Buffer
	err := s.do(ctx, sceneID, func(e *engine.Engine) error {
		return e.RenderPNG(&buf, width, height)
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadDocument returns a scene's latest snapshot. It is the hub's loader.
func (s *Service) LoadDocument(sceneID string) (*document.InDocument, error) {
	// Use a background context since this runs in the hub goroutine
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snap, err := s.store.LatestSnapshot(ctx, sceneID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	var doc document.InDocument
	if err := json.Unmarshal(snap.Document, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot %d: %w", snap.Version, err)
	}
	return &doc, nil
}

// SaveDocument stores doc as the scene's next snapshot. It is the hub's
// saver.
func (s *Service) SaveDocument(sceneID string, doc *document.InDocument) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if _, err := s.store.SaveSnapshot(ctx, sceneID, docJSON); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *Service) getScene(ctx context.Context, sceneID string) (Scene, error) {
	sc, err := s.store.GetScene(ctx, sceneID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Scene{}, ErrNotFound
		}
		return Scene{}, fmt.Errorf("get scene: %w", err)
	}
	return storeSceneToScene(sc), nil
}

// do runs fn on the scene's live engine after checking the scene exists.
func (s *Service) do(ctx context.Context, sceneID string, fn func(*engine.Engine) error) error {
	if _, err := s.getScene(ctx, sceneID); err != nil {
		return err
	}
	return s.hub.Do(ctx, sceneID, fn)
}

func storeSceneToScene(sc store.Scene) Scene {
	return Scene{
		ID:        sc.ID,
		Name:      sc.Name,
		CreatedAt: sc.CreatedAt.Format(time.RFC3339),
		UpdatedAt: sc.UpdatedAt.Format(time.RFC3339),
	}
}
