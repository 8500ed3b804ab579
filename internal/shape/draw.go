package shape

import "github.com/inamate/inamate/shapes-go/internal/geometry"

// Renderer is the drawing capability shapes render through.
//
// SetOffset and SetRotationAngle set a view transform held by the backend and
// applied by its primitives to everything drawn afterwards. Shape.Draw clears
// it, since shapes pass geometry with their pending transform already resolved.
type Renderer interface {
	SetDrawColor(c Color)
	SetOffset(v geometry.Vector)
	SetRotationAngle(phi float64)

	FillCircle(c geometry.Circle)
	FillRect(r geometry.Rect)
	FillTriangle(t geometry.Triangle)

	StrokeCircle(c geometry.Circle)
	StrokeRect(r geometry.Rect)
	StrokeTriangle(t geometry.Triangle)
}

// Draw renders s. Disabled shapes draw nothing. The fill uses the shape's
// color; the border uses its RGB complement.
func (s *Shape) Draw(r Renderer) {
	if !s.enabled {
		return
	}

	r.SetOffset(geometry.Vector{})
	r.SetRotationAngle(0)
	r.SetDrawColor(s.color)
	if s.fillIn {
		s.fill(r)
	}
	if s.drawBorder {
		r.SetDrawColor(s.color.Complement())
		s.stroke(r)
	}
}

func (s *Shape) fill(r Renderer) {
	switch s.kind {
	case KindCircle:
		r.FillCircle(s.EffectiveCircle())
	case KindRect:
		r.FillRect(s.EffectiveRect())
	case KindTriangle:
		r.FillTriangle(s.EffectiveTriangle())
	}
}

func (s *Shape) stroke(r Renderer) {
	switch s.kind {
	case KindCircle:
		r.StrokeCircle(s.EffectiveCircle())
	case KindRect:
		r.StrokeRect(s.EffectiveRect())
	case KindTriangle:
		r.StrokeTriangle(s.EffectiveTriangle())
	}
}
