package scene

import (
	"errors"
	"fmt"
	"testing"

	"github.com/inamate/inamate/shapes-go/internal/geometry"
	"github.com/inamate/inamate/shapes-go/internal/input"
	"github.com/inamate/inamate/shapes-go/internal/shape"
)

// identity maps pixels straight to scene units.
type identity struct{}

func (identity) PointToScene(p input.PixelPoint) geometry.Point { return geometry.Pt(p.X, p.Y) }
func (identity) VecToScene(d input.PixelPoint) geometry.Vector  { return geometry.Pt(d.X, d.Y) }

// fillLog records the kind of each filled primitive.
type fillLog struct{ kinds []string }

func (l *fillLog) SetDrawColor(shape.Color)         {}
func (l *fillLog) SetOffset(geometry.Vector)        {}
func (l *fillLog) SetRotationAngle(float64)         {}
func (l *fillLog) FillCircle(geometry.Circle)       { l.kinds = append(l.kinds, "circle") }
func (l *fillLog) FillRect(geometry.Rect)           { l.kinds = append(l.kinds, "rect") }
func (l *fillLog) FillTriangle(geometry.Triangle)   { l.kinds = append(l.kinds, "triangle") }
func (l *fillLog) StrokeCircle(geometry.Circle)     {}
func (l *fillLog) StrokeRect(geometry.Rect)         {}
func (l *fillLog) StrokeTriangle(geometry.Triangle) {}

// sampleManager builds overlapping shapes that all contain (1,1).
func sampleManager() (*Manager, *shape.Shape, *shape.Shape, *shape.Shape) {
	tri := shape.NewTriangle(geometry.Tri(geometry.Pt(25, 25), geometry.Pt(25, 0), geometry.Pt(0, 0)))
	rect := shape.NewRectAt(geometry.Pt(0, 0), 15, 15)
	circle := shape.NewCircleRadius(8)
	for i, s := range []*shape.Shape{tri, rect, circle} {
		s.SetID(fmt.Sprintf("s%d", i))
	}
	m := NewManager()
	m.Add(tri)
	m.Add(rect)
	m.Add(circle)
	return m, tri, rect, circle
}

func dragEvent(x, y, dx, dy float64) input.PointerEvent {
	return input.PointerEvent{
		Type:     input.PointerMove,
		Position: input.PixelPoint{X: x, Y: y},
		Delta:    input.PixelPoint{X: dx, Y: dy},
		Buttons:  input.ButtonPrimary,
	}
}

func TestDrawAllBackToFront(t *testing.T) {
	m, _, _, _ := sampleManager()
	var log fillLog
	m.DrawAll(&log)
	if fmt.Sprint(log.kinds) != "[triangle rect circle]" {
		t.Fatalf("draw order = %v", log.kinds)
	}
}

func TestTryDragAllHitsTopmost(t *testing.T) {
	m, tri, rect, circle := sampleManager()

	if !m.TryDragAll(dragEvent(1, 1, 2, 3), identity{}) {
		t.Fatalf("expected a drag")
	}
	if circle.Offset() != geometry.Pt(2, 3) || circle.Color() != shape.Highlight {
		t.Fatalf("circle not dragged: offset=%v color=%v", circle.Offset(), circle.Color())
	}
	if rect.Transformed() || tri.Transformed() {
		t.Fatalf("more than one shape dragged")
	}
}

func TestDraggedShapeIsDrawnLast(t *testing.T) {
	m, tri, rect, _ := sampleManager()

	// (20,10) lies only in the triangle, which is drawn first.
	if !m.TryDragAll(dragEvent(20, 10, 1, 0), identity{}) {
		t.Fatalf("expected triangle drag")
	}
	var log fillLog
	m.DrawAll(&log)
	if got := log.kinds[len(log.kinds)-1]; got != "triangle" {
		t.Fatalf("topmost = %s, order %v", got, log.kinds)
	}
	if order := m.DrawOrder(); order[len(order)-1] != tri {
		t.Fatalf("DrawOrder not promoted")
	}
	if seq := m.Shapes(); seq[0] != tri || seq[1] != rect {
		t.Fatalf("sequence order changed")
	}

	// (10,5) is in both the moved triangle and the rect; the triangle is on top.
	if !m.TryDragAll(dragEvent(10, 5, 1, 0), identity{}) {
		t.Fatalf("expected drag")
	}
	if tri.Offset() != geometry.Pt(2, 0) {
		t.Fatalf("triangle offset = %v, want (2,0)", tri.Offset())
	}
}

func TestTryDragAllIgnoresNonDrags(t *testing.T) {
	m, _, _, _ := sampleManager()
	events := []input.PointerEvent{
		{Type: input.PointerMove, Position: input.PixelPoint{X: 1, Y: 1}},
		{Type: input.PointerPress, Position: input.PixelPoint{X: 1, Y: 1}, Buttons: input.ButtonPrimary},
		{Type: input.PointerMove, Position: input.PixelPoint{X: 1, Y: 1}, Buttons: input.ButtonSecondary},
	}
	for _, ev := range events {
		if m.TryDragAll(ev, identity{}) {
			t.Errorf("%+v should not drag", ev)
		}
	}
	if m.TryDragAll(dragEvent(500, 500, 1, 1), identity{}) {
		t.Errorf("drag over empty space should miss")
	}
}

func TestTryDragAllSkipsDisabled(t *testing.T) {
	m, _, rect, circle := sampleManager()
	circle.SetEnabled(false)
	if !m.TryDragAll(dragEvent(1, 1, 1, 1), identity{}) {
		t.Fatalf("expected drag")
	}
	if !rect.Transformed() || circle.Transformed() {
		t.Fatalf("disabled circle should be skipped in favor of rect")
	}
}

func TestTryDragSingle(t *testing.T) {
	_, _, rect, _ := sampleManager()
	if TryDrag(rect, dragEvent(100, 100, 1, 1), identity{}) {
		t.Fatalf("miss should not drag")
	}
	if !TryDrag(rect, dragEvent(5, 5, 1, 1), identity{}) || rect.Offset() != geometry.Pt(1, 1) {
		t.Fatalf("rect not dragged")
	}
}

func TestAssignPaletteColorsUsesSequence(t *testing.T) {
	m, tri, rect, circle := sampleManager()
	m.BringToFront(tri)
	m.AssignPaletteColors()
	for i, s := range []*shape.Shape{tri, rect, circle} {
		if s.Color() != shape.PaletteColor(i) {
			t.Errorf("shape %d color = %v, want %v", i, s.Color(), shape.PaletteColor(i))
		}
	}
}

func TestRemoveAndFind(t *testing.T) {
	m, tri, _, circle := sampleManager()
	if m.Find("s2") != circle {
		t.Fatalf("Find did not return circle")
	}
	if _, err := m.Remove("s1"); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 2 || len(m.DrawOrder()) != 2 {
		t.Fatalf("remove left %d shapes", m.Len())
	}
	if _, err := m.Remove("s1"); !errors.Is(err, ErrShapeNotFound) {
		t.Fatalf("err = %v, want ErrShapeNotFound", err)
	}
	if m.At(0) != tri || m.At(1) != circle {
		t.Fatalf("sequence after remove wrong")
	}
}

func TestApplyAndResetTransforms(t *testing.T) {
	m, tri, rect, _ := sampleManager()
	tri.Move(geometry.Pt(1, 0))
	rect.Move(geometry.Pt(0, 1))
	m.ApplyTransforms()
	if r, _ := rect.Rect(); r.Y != 1 || rect.Transformed() {
		t.Fatalf("rect not committed: %v", r)
	}

	tri.Move(geometry.Pt(5, 5))
	m.ResetTransforms()
	if tri.Transformed() {
		t.Fatalf("reset did not clear")
	}
	if got, _ := tri.Triangle(); got.Points[2] != geometry.Pt(1, 0) {
		t.Fatalf("triangle = %v", got)
	}
}
