// Package shape implements the drawable scene shapes: a closed set of
// geometry kinds carrying committed geometry, a pending transform and draw
// attributes.
//
// A pending transform (rotation phi about the world origin, then translation
// by origin) accumulates through Rotate and Move and is folded into the
// geometry only by ApplyTransform. Queries and drawing always see the
// effective geometry, computed from the committed geometry and the pending
// transform without mutating the shape.
package shape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/inamate/inamate/shapes-go/internal/geometry"
)

// Kind identifies the geometry a Shape carries.
type Kind int

const (
	KindCircle Kind = iota
	KindRect
	KindTriangle

	numKinds
)

// DefaultRadius is the radius of a circle created without one.
const DefaultRadius = 5.0

var ErrUnknownKind = errors.New("unknown shape kind")

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindRect:
		return "rect"
	case KindTriangle:
		return "triangle"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "circle":
		return KindCircle, nil
	case "rect", "rectangle":
		return KindRect, nil
	case "triangle", "tri":
		return KindTriangle, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Shape is one of a circle, rectangle or triangle. Only the geometry field
// matching kind is meaningful.
type Shape struct {
	id   string
	kind Kind

	circle geometry.Circle
	rect   geometry.Rect
	tri    geometry.Triangle

	// Pending transform: rotate by phi about the world origin, then move by origin.
	phi         float64
	origin      geometry.Vector
	transformed bool

	color      Color
	drawBorder bool
	fillIn     bool
	enabled    bool
}

func newShape(kind Kind) *Shape {
	return &Shape{
		kind:    kind,
		color:   DefaultColor,
		fillIn:  true,
		enabled: true,
	}
}

// NewCircle creates a circle shape with committed geometry c.
func NewCircle(c geometry.Circle) *Shape {
	s := newShape(KindCircle)
	s.circle = c
	return s
}

// NewCircleAt creates a circle of radius r centered on center.
func NewCircleAt(center geometry.Point, r float64) *Shape {
	return NewCircle(geometry.Circle{Center: center, Radius: r})
}

// NewCircleRadius creates a circle of radius r centered on the world origin.
func NewCircleRadius(r float64) *Shape {
	return NewCircleAt(geometry.Point{}, r)
}

// NewRect creates a rectangle shape with committed geometry r.
func NewRect(r geometry.Rect) *Shape {
	s := newShape(KindRect)
	s.rect = r
	return s
}

// NewRectAt creates a rectangle anchored at start with extent w by h.
func NewRectAt(start geometry.Point, w, h float64) *Shape {
	return NewRect(geometry.Rect{X: start.X, Y: start.Y, W: w, H: h})
}

// NewRectBetween creates the rectangle spanning from start to dest.
func NewRectBetween(start, dest geometry.Point) *Shape {
	return NewRect(geometry.RectFromPoints(start, dest))
}

// NewTriangle creates a triangle shape with committed geometry t.
func NewTriangle(t geometry.Triangle) *Shape {
	s := newShape(KindTriangle)
	s.tri = t
	return s
}

// NewTriangleFrom creates a triangle from exactly three points.
func NewTriangleFrom(points []geometry.Point) (*Shape, error) {
	if len(points) != 3 {
		return nil, fmt.Errorf("triangle needs 3 points, got %d", len(points))
	}
	return NewTriangle(geometry.Tri(points[0], points[1], points[2])), nil
}

// Clone returns an independent copy of s, including its pending transform.
func (s *Shape) Clone() *Shape {
	c := *s
	return &c
}

func (s *Shape) ID() string      { return s.id }
func (s *Shape) SetID(id string) { s.id = id }
func (s *Shape) Kind() Kind      { return s.kind }

// Circle returns the committed circle geometry, if s is a circle.
func (s *Shape) Circle() (geometry.Circle, bool) {
	return s.circle, s.kind == KindCircle
}

// Rect returns the committed rectangle geometry, if s is a rectangle.
func (s *Shape) Rect() (geometry.Rect, bool) {
	return s.rect, s.kind == KindRect
}

// Triangle returns the committed triangle geometry, if s is a triangle.
func (s *Shape) Triangle() (geometry.Triangle, bool) {
	return s.tri, s.kind == KindTriangle
}

// --- Pending transform ---

// Rotate adds dphi radians to the pending rotation.
func (s *Shape) Rotate(dphi float64) {
	s.phi += dphi
	s.transformed = true
}

// Move adds v to the pending translation.
func (s *Shape) Move(v geometry.Vector) {
	s.origin = s.origin.Add(v)
	s.transformed = true
}

// SetRotation replaces the pending rotation.
func (s *Shape) SetRotation(phi float64) {
	s.phi = phi
	s.transformed = true
}

// SetOrigin replaces the pending translation.
func (s *Shape) SetOrigin(offset geometry.Vector) {
	s.origin = offset
	s.transformed = true
}

// Rotation returns the pending rotation.
func (s *Shape) Rotation() float64 { return s.phi }

// Offset returns the pending translation.
func (s *Shape) Offset() geometry.Vector { return s.origin }

// Transformed reports whether a pending transform is set.
func (s *Shape) Transformed() bool { return s.transformed }

// ApplyTransform folds the pending transform into the committed geometry and
// clears it. Rotation only applies to triangles: circles and rectangles keep
// their committed orientation and only the translation is folded in.
func (s *Shape) ApplyTransform() {
	switch s.kind {
	case KindCircle:
		s.circle = s.EffectiveCircle()
	case KindRect:
		s.rect = s.EffectiveRect()
	case KindTriangle:
		s.tri = s.EffectiveTriangle()
	}
	s.ResetTransform()
}

// ResetTransform discards the pending transform.
func (s *Shape) ResetTransform() {
	s.phi = 0
	s.origin = geometry.Vector{}
	s.transformed = false
}

// EffectiveCircle returns the circle as it would be after ApplyTransform.
func (s *Shape) EffectiveCircle() geometry.Circle {
	if !s.transformed {
		return s.circle
	}
	return geometry.MoveCircle(s.circle, s.origin)
}

// EffectiveRect returns the rectangle as it would be after ApplyTransform.
func (s *Shape) EffectiveRect() geometry.Rect {
	if !s.transformed {
		return s.rect
	}
	return geometry.MoveRect(s.rect, s.origin)
}

// EffectiveTriangle returns the triangle as it would be after ApplyTransform.
func (s *Shape) EffectiveTriangle() geometry.Triangle {
	if !s.transformed {
		return s.tri
	}
	return geometry.MoveTriangle(geometry.RotateTriangle(s.tri, s.phi), s.origin)
}

// Bounds returns the normalized bounding box of the effective geometry.
func (s *Shape) Bounds() geometry.Rect {
	switch s.kind {
	case KindCircle:
		c := s.EffectiveCircle()
		return geometry.Rect{X: c.Center.X - c.Radius, Y: c.Center.Y - c.Radius, W: 2 * c.Radius, H: 2 * c.Radius}
	case KindRect:
		return s.EffectiveRect().Normalize()
	case KindTriangle:
		t := s.EffectiveTriangle()
		return geometry.BoundingBox(t.Points[:]...)
	}
	return geometry.Rect{}
}

// --- Queries ---

// ContainsPoint reports whether p lies in the effective geometry.
// Disabled shapes contain nothing.
func (s *Shape) ContainsPoint(p geometry.Point) bool {
	if !s.enabled {
		return false
	}
	switch s.kind {
	case KindCircle:
		return geometry.PointInCircle(p, s.EffectiveCircle())
	case KindRect:
		return geometry.PointInRect(p, s.EffectiveRect())
	case KindTriangle:
		return geometry.PointInTriangle(p, s.EffectiveTriangle())
	}
	return false
}

// --- Draw attributes ---

func (s *Shape) Color() Color            { return s.color }
func (s *Shape) SetColor(c Color)        { s.color = c }
func (s *Shape) DrawBorder() bool        { return s.drawBorder }
func (s *Shape) SetDrawBorder(draw bool) { s.drawBorder = draw }
func (s *Shape) FillIn() bool            { return s.fillIn }
func (s *Shape) SetFillIn(fill bool)     { s.fillIn = fill }
func (s *Shape) Enabled() bool           { return s.enabled }
func (s *Shape) SetEnabled(enable bool)  { s.enabled = enable }
