// Package scene manages an ordered collection of shapes: the sequence they
// were added in, the order they are drawn in, and pointer dragging with
// promotion of the dragged shape to the top of the draw order.
package scene

import (
	"errors"

	"github.com/inamate/inamate/shapes-go/internal/geometry"
	"github.com/inamate/inamate/shapes-go/internal/input"
	"github.com/inamate/inamate/shapes-go/internal/shape"
	"github.com/inamate/inamate/shapes-go/internal/viewport"
)

var ErrShapeNotFound = errors.New("shape not found")

// Manager owns a set of shapes.
//
// shapes keeps insertion order and drives palette assignment. order is the
// paint order, back to front; the last entry is topmost.
type Manager struct {
	shapes []*shape.Shape
	order  []*shape.Shape
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Add appends s to the sequence and draws it on top.
func (m *Manager) Add(s *shape.Shape) {
	if s == nil {
		return
	}
	m.shapes = append(m.shapes, s)
	m.order = append(m.order, s)
}

// Remove removes the shape with the given ID and returns it.
func (m *Manager) Remove(id string) (*shape.Shape, error) {
	i := indexByID(m.shapes, id)
	if i < 0 {
		return nil, ErrShapeNotFound
	}
	s := m.shapes[i]
	m.shapes = append(m.shapes[:i], m.shapes[i+1:]...)
	j := indexOf(m.order, s)
	m.order = append(m.order[:j], m.order[j+1:]...)
	return s, nil
}

// Clear removes every shape.
func (m *Manager) Clear() {
	m.shapes = nil
	m.order = nil
}

// Find returns the shape with the given ID, or nil.
func (m *Manager) Find(id string) *shape.Shape {
	if i := indexByID(m.shapes, id); i >= 0 {
		return m.shapes[i]
	}
	return nil
}

// Len returns the number of shapes.
func (m *Manager) Len() int { return len(m.shapes) }

// At returns the shape at sequence position i.
func (m *Manager) At(i int) *shape.Shape { return m.shapes[i] }

// Shapes returns the shapes in insertion order.
func (m *Manager) Shapes() []*shape.Shape {
	return append([]*shape.Shape(nil), m.shapes...)
}

// DrawOrder returns the shapes back to front.
func (m *Manager) DrawOrder() []*shape.Shape {
	return append([]*shape.Shape(nil), m.order...)
}

// BringToFront moves s to the top of the draw order.
func (m *Manager) BringToFront(s *shape.Shape) {
	i := indexOf(m.order, s)
	if i < 0 || i == len(m.order)-1 {
		return
	}
	copy(m.order[i:], m.order[i+1:])
	m.order[len(m.order)-1] = s
}

// DrawAll draws every shape back to front.
func (m *Manager) DrawAll(r shape.Renderer) {
	for _, s := range m.order {
		s.Draw(r)
	}
}

// HitTest returns the topmost shape containing p, or nil.
func (m *Manager) HitTest(p geometry.Point) *shape.Shape {
	for i := len(m.order) - 1; i >= 0; i-- {
		if m.order[i].ContainsPoint(p) {
			return m.order[i]
		}
	}
	return nil
}

// TryDragAll drags the topmost shape under the pointer. Only moves with the
// primary button held are considered. The hit shape is moved by the event's
// delta, highlighted and brought to the front. It reports whether a shape
// was dragged; at most one is per event.
func (m *Manager) TryDragAll(ev input.PointerEvent, mapper viewport.Mapper) bool {
	if !ev.IsDrag() {
		return false
	}
	hit := m.HitTest(mapper.PointToScene(ev.Position))
	if hit == nil {
		return false
	}
	drag(hit, ev, mapper)
	m.BringToFront(hit)
	return true
}

// TryDrag drags s alone if the pointer is over it. Draw order is untouched.
func TryDrag(s *shape.Shape, ev input.PointerEvent, mapper viewport.Mapper) bool {
	if !ev.IsDrag() || !s.ContainsPoint(mapper.PointToScene(ev.Position)) {
		return false
	}
	drag(s, ev, mapper)
	return true
}

func drag(s *shape.Shape, ev input.PointerEvent, mapper viewport.Mapper) {
	s.Move(mapper.VecToScene(ev.Delta))
	s.SetColor(shape.Highlight)
}

// AssignPaletteColors colors each shape by its insertion position.
func (m *Manager) AssignPaletteColors() {
	for i, s := range m.shapes {
		s.SetColor(shape.PaletteColor(i))
	}
}

// ApplyTransforms commits every shape's pending transform.
func (m *Manager) ApplyTransforms() {
	for _, s := range m.shapes {
		s.ApplyTransform()
	}
}

// ResetTransforms discards every shape's pending transform.
func (m *Manager) ResetTransforms() {
	for _, s := range m.shapes {
		s.ResetTransform()
	}
}

func indexOf(list []*shape.Shape, s *shape.Shape) int {
	for i, e := range list {
		if e == s {
			return i
		}
	}
	return -1
}

func indexByID(list []*shape.Shape, id string) int {
	for i, e := range list {
		if e.ID() == id {
			return i
		}
	}
	return -1
}
