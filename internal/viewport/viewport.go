// Package viewport maps between window pixels and scene space.
//
// A Space places the scene in normalized window coordinates: the window's
// width spans [0,1] horizontally and the same unit is used vertically, with
// y growing upwards from the bottom edge. Within that frame the scene origin
// sits at Space.Origin and WInt scene units span |WLoc| normalized units.
package viewport

import (
	"math"

	"github.com/inamate/inamate/shapes-go/internal/geometry"
	"github.com/inamate/inamate/shapes-go/internal/input"
)

// Mapper converts pointer coordinates into scene space.
type Mapper interface {
	PointToScene(p input.PixelPoint) geometry.Point
	VecToScene(d input.PixelPoint) geometry.Vector
}

// Space describes where the scene is drawn within the window.
// A negative WLoc or HLoc mirrors the corresponding axis.
type Space struct {
	Origin geometry.Point `json:"origin"`
	WLoc   float64        `json:"wLoc"`
	HLoc   float64        `json:"hLoc"`
	WInt   float64        `json:"wInt"`
}

// UseRectangle returns the space that draws into the normalized rectangle
// drawing, with logicalWidth scene units across its width.
func UseRectangle(drawing geometry.Rect, logicalWidth float64) Space {
	return Space{
		Origin: geometry.Pt(drawing.X, drawing.Y),
		WLoc:   drawing.W,
		HLoc:   drawing.H,
		WInt:   logicalWidth,
	}
}

// Default is the full window with logicalWidth scene units across it.
func Default(logicalWidth float64) Space {
	return UseRectangle(geometry.Rect{W: 1, H: 1}, logicalWidth)
}

// scale returns the normalized units per scene unit on each axis.
func (s Space) scale() (sx, sy float64) {
	if s.WInt == 0 {
		return 0, 0
	}
	k := math.Abs(s.WLoc) / s.WInt
	sx, sy = k, k
	if s.WLoc < 0 {
		sx = -k
	}
	if s.HLoc < 0 {
		sy = -k
	}
	return sx, sy
}

// View is a Space bound to a window size in pixels.
type View struct {
	Space  Space `json:"space"`
	Width  int   `json:"width"`
	Height int   `json:"height"`
}

// NewView binds s to a width by height pixel window.
func NewView(s Space, width, height int) View {
	return View{Space: s, Width: width, Height: height}
}

func (v View) valid() bool {
	sx, _ := v.Space.scale()
	return v.Width > 0 && sx != 0
}

// PointToScene maps a window pixel position (y down) to scene space.
// A zero-sized view maps every point to the scene origin.
func (v View) PointToScene(p input.PixelPoint) geometry.Point {
	if !v.valid() {
		return geometry.Point{}
	}
	w, h := float64(v.Width), float64(v.Height)
	sx, sy := v.Space.scale()
	nx := p.X / w
	ny := (h - p.Y) / w
	return geometry.Pt((nx-v.Space.Origin.X)/sx, (ny-v.Space.Origin.Y)/sy)
}

// VecToScene maps a pixel displacement (y down) to a scene-space vector.
func (v View) VecToScene(d input.PixelPoint) geometry.Vector {
	if !v.valid() {
		return geometry.Vector{}
	}
	w := float64(v.Width)
	sx, sy := v.Space.scale()
	return geometry.Pt(d.X/w/sx, -d.Y/w/sy)
}

// SceneToPixel maps a scene point to window pixels (y down). It inverts
// PointToScene.
func (v View) SceneToPixel(p geometry.Point) input.PixelPoint {
	w, h := float64(v.Width), float64(v.Height)
	sx, sy := v.Space.scale()
	nx := sx*p.X + v.Space.Origin.X
	ny := sy*p.Y + v.Space.Origin.Y
	return input.PixelPoint{X: nx * w, Y: h - ny*w}
}

// PixelsPerUnit returns how many pixels one scene unit covers.
func (v View) PixelsPerUnit() float64 {
	sx, _ := v.Space.scale()
	return math.Abs(sx) * float64(v.Width)
}

// SceneBounds returns the scene-space rectangle visible in the window.
func (v View) SceneBounds() geometry.Rect {
	a := v.PointToScene(input.PixelPoint{X: 0, Y: float64(v.Height)})
	b := v.PointToScene(input.PixelPoint{X: float64(v.Width), Y: 0})
	return geometry.RectFromPoints(a, b).Normalize()
}
