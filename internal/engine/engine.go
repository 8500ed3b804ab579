package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"time"

	"github.com/inamate/inamate/shapes-go/internal/document"
	"github.com/inamate/inamate/shapes-go/internal/geometry"
	"github.com/inamate/inamate/shapes-go/internal/input"
	"github.com/inamate/inamate/shapes-go/internal/render"
	"github.com/inamate/inamate/shapes-go/internal/scene"
	"github.com/inamate/inamate/shapes-go/internal/shape"
	"github.com/inamate/inamate/shapes-go/internal/typeid"
	"github.com/inamate/inamate/shapes-go/internal/viewport"
)

var (
	ErrShapeExists  = errors.New("shape already exists")
	ErrInvalidShape = errors.New("invalid shape")
)

// RotateStep is the rotation applied per arrow key press, in radians.
const RotateStep = 0.2

// Default window size until the front end reports one.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// Engine owns a scene's shapes and view and implements the interactive
// behavior on top of them. It processes commands from the frontend and
// returns query results. An Engine is not safe for concurrent use.
type Engine struct {
	// Scene metadata; Order and DrawOrder are rebuilt on Document.
	meta document.Scene

	manager *scene.Manager
	view    viewport.View

	// Circle whose overlaps are highlighted each render.
	pivot *shape.Shape

	// Changed since the last MarkClean.
	dirty bool
}

// NewEngine creates an engine with an empty scene.
func NewEngine() *Engine {
	e := &Engine{manager: scene.NewManager()}
	e.meta = document.NewEmptyDocument("", "Untitled").Scene
	e.view = viewport.NewView(viewport.Default(e.meta.Width), DefaultWidth, DefaultHeight)
	return e
}

// --- Commands (frontend → backend) ---

// LoadDocument loads a document from JSON.
func (e *Engine) LoadDocument(jsonData string) error {
	var doc document.InDocument
	if err := json.Unmarshal([]byte(jsonData), &doc); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return e.SetDocument(&doc)
}

// SetDocument replaces the scene with doc.
func (e *Engine) SetDocument(doc *document.InDocument) error {
	m, err := BuildManager(doc)
	if err != nil {
		return err
	}

	e.meta = doc.Scene
	if e.meta.Width <= 0 {
		e.meta.Width = 100
	}
	e.manager = m
	e.pivot = m.Find(doc.Scene.Pivot)
	e.view.Space = viewport.Default(e.meta.Width)
	e.dirty = false
	return nil
}

// LoadSampleDocument loads the built-in sample scene.
func (e *Engine) LoadSampleDocument(sceneID string) {
	if err := e.SetDocument(document.NewSampleDocument(sceneID)); err != nil {
		// The sample is static and always valid.
		panic(err)
	}
}

// Resize sets the window size in pixels.
func (e *Engine) Resize(width, height int) {
	e.view.Width, e.view.Height = width, height
}

// HandlePointer recolors shapes from the palette and then tries to drag the
// topmost shape under the pointer. It reports whether a shape was dragged.
func (e *Engine) HandlePointer(ev input.PointerEvent) bool {
	e.manager.AssignPaletteColors()
	dragged := e.manager.TryDragAll(ev, e.view)
	if dragged {
		e.dirty = true
		slog.Debug("shape dragged", "scene", e.meta.ID, "x", ev.Position.X, "y", ev.Position.Y)
	}
	return dragged
}

// HandleKey applies a key press:
//
//	left / right  rotate the first triangle by ±RotateStep
//	c             commit every pending transform
//	r             discard every pending transform
//	b             toggle borders on every shape
//
// It reports whether the scene changed.
func (e *Engine) HandleKey(ev input.KeyEvent) bool {
	switch ev.Key {
	case input.KeyLeft, input.KeyRight:
		tri := e.firstTriangle()
		if tri == nil {
			return false
		}
		step := RotateStep
		if ev.Key == input.KeyRight {
			step = -step
		}
		tri.Rotate(step)
	case "c":
		e.CommitTransforms()
	case "r":
		e.ResetTransforms()
	case "b":
		e.ToggleBorders()
	default:
		return false
	}
	e.dirty = true
	return true
}

// CommitTransforms folds every pending transform into committed geometry.
func (e *Engine) CommitTransforms() {
	e.manager.ApplyTransforms()
	e.dirty = true
}

// ResetTransforms discards every pending transform.
func (e *Engine) ResetTransforms() {
	e.manager.ResetTransforms()
	e.dirty = true
}

// ToggleBorders flips border drawing on every shape, following the first.
func (e *Engine) ToggleBorders() {
	shapes := e.manager.Shapes()
	if len(shapes) == 0 {
		return
	}
	on := !shapes[0].DrawBorder()
	for _, s := range shapes {
		s.SetDrawBorder(on)
	}
	e.dirty = true
}

// AddShape adds a shape described by node and returns its ID. A missing ID
// is generated. The first circle added to a scene without one becomes the
// pivot.
func (e *Engine) AddShape(node document.ShapeNode) (string, error) {
	if node.ID == "" {
		node.ID = typeid.NewShapeID()
	}
	if e.manager.Find(node.ID) != nil {
		return "", fmt.Errorf("%w: %s", ErrShapeExists, node.ID)
	}
	s, err := BuildShape(node)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	e.manager.Add(s)
	if e.pivot == nil && s.Kind() == shape.KindCircle {
		e.pivot = s
	}
	e.dirty = true
	return s.ID(), nil
}

// RemoveShape removes a shape. Removing the pivot hands the role to the
// first remaining circle, if any.
func (e *Engine) RemoveShape(id string) error {
	s, err := e.manager.Remove(id)
	if err != nil {
		return err
	}
	if s == e.pivot {
		e.pivot = nil
		for _, c := range e.manager.Shapes() {
			if c.Kind() == shape.KindCircle {
				e.pivot = c
				break
			}
		}
	}
	e.dirty = true
	return nil
}

// MarkClean clears the dirty flag after the scene was persisted.
func (e *Engine) MarkClean() { e.dirty = false }

// --- Queries (frontend ← backend) ---

// Highlight colors every shape that overlaps the pivot circle magenta.
func (e *Engine) Highlight() {
	if e.pivot == nil {
		return
	}
	for _, s := range e.manager.Shapes() {
		if s == e.pivot {
			continue
		}
		hit, err := s.IntersectsWith(e.pivot)
		if err != nil {
			slog.Debug("intersection skipped", "scene", e.meta.ID, "shape", s.ID(), "error", err)
			continue
		}
		if hit {
			s.SetColor(shape.Magenta)
		}
	}
}

// Draw highlights overlaps and draws the scene back to front into r.
func (e *Engine) Draw(r shape.Renderer) {
	e.Highlight()
	e.manager.DrawAll(r)
}

// Frame returns the draw commands for the current scene.
func (e *Engine) Frame() []render.DrawCommand {
	e.Highlight()
	return render.CompileDrawCommands(e.manager.DrawOrder())
}

// Render returns the draw commands as JSON.
func (e *Engine) Render() string {
	result, _ := render.DrawCommandsToJSON(e.Frame())
	return result
}

// RenderPNG rasterizes the scene at width by height pixels and writes a PNG.
func (e *Engine) RenderPNG(w io.Writer, width, height int) error {
	r := render.NewRaster(viewport.NewView(e.view.Space, width, height))
	r.Clear(e.Background())
	e.Draw(r)
	return r.EncodePNG(w)
}

// Background returns the scene background color.
func (e *Engine) Background() color.Color {
	if c, err := shape.ParseColor(e.meta.Background); err == nil {
		return c
	}
	return render.Background
}

// HitTest returns the ID of the topmost shape containing the scene point
// (x, y), or empty string.
func (e *Engine) HitTest(x, y float64) string {
	if s := e.manager.HitTest(geometry.Pt(x, y)); s != nil {
		return s.ID()
	}
	return ""
}

// HitTestPixel is HitTest for a window pixel position.
func (e *Engine) HitTestPixel(x, y float64) string {
	p := e.view.PointToScene(input.PixelPoint{X: x, Y: y})
	return e.HitTest(p.X, p.Y)
}

// Intersects reports whether two shapes overlap. Pairs without a circle
// fail with shape.ErrPairUnimplemented.
func (e *Engine) Intersects(a, b string) (bool, error) {
	sa, sb := e.manager.Find(a), e.manager.Find(b)
	if sa == nil {
		return false, fmt.Errorf("%w: %s", scene.ErrShapeNotFound, a)
	}
	if sb == nil {
		return false, fmt.Errorf("%w: %s", scene.ErrShapeNotFound, b)
	}
	return sa.IntersectsWith(sb)
}

// Document returns a snapshot of the scene as a document.
func (e *Engine) Document() *document.InDocument {
	doc := &document.InDocument{Scene: e.meta}
	if e.pivot != nil {
		doc.Scene.Pivot = e.pivot.ID()
	} else {
		doc.Scene.Pivot = ""
	}
	doc.Scene.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	snapshot(doc, e.manager)
	return doc
}

// GetDocument returns the full document as JSON (for debugging/sync).
func (e *Engine) GetDocument() string {
	data, _ := json.Marshal(e.Document())
	return string(data)
}

func (e *Engine) SceneID() string         { return e.meta.ID }
func (e *Engine) Name() string            { return e.meta.Name }
func (e *Engine) View() viewport.View     { return e.view }
func (e *Engine) Manager() *scene.Manager { return e.manager }
func (e *Engine) Dirty() bool             { return e.dirty }

// Pivot returns the pivot circle's ID, or empty string.
func (e *Engine) Pivot() string {
	if e.pivot == nil {
		return ""
	}
	return e.pivot.ID()
}

func (e *Engine) firstTriangle() *shape.Shape {
	for _, s := range e.manager.Shapes() {
		if s.Kind() == shape.KindTriangle {
			return s
		}
	}
	return nil
}
