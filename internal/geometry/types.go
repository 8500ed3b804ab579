// Package geometry provides the 2D primitives the scene is built from:
// points, circles, rectangles, triangles and segments, together with the
// containment, intersection and rigid-transform routines over them.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Point is a position in scene space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vector is a Point used as a displacement.
type Vector = Point

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the vector from o to p.
func (p Point) Sub(o Point) Vector {
	return Vector{X: p.X - o.X, Y: p.Y - o.Y}
}

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Dot returns the dot product of p and o.
func (p Point) Dot(o Point) float64 {
	return p.X*o.X + p.Y*o.Y
}

// Cross returns the z component of the 3D cross product of p and o.
func (p Point) Cross(o Point) float64 {
	return p.X*o.Y - p.Y*o.X
}

// DistSq returns the squared distance between p and o.
func (p Point) DistSq(o Point) float64 {
	d := p.Sub(o)
	return d.Dot(d)
}

// ApproxEqual reports whether p and o agree on both axes within tol.
func (p Point) ApproxEqual(o Point, tol float64) bool {
	return scalar.EqualWithinAbs(p.X, o.X, tol) && scalar.EqualWithinAbs(p.Y, o.Y, tol)
}

// Circle is a closed disk.
// A negative radius is a caller error and is not checked.
type Circle struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

// Rect is an axis-aligned rectangle anchored at one corner (X, Y).
// W and H may be negative, in which case the rectangle extends in the
// negative direction from the anchor.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RectFromPoints returns the rectangle spanning from start to dest.
func RectFromPoints(start, dest Point) Rect {
	return Rect{X: start.X, Y: start.Y, W: dest.X - start.X, H: dest.Y - start.Y}
}

// Bounds returns the normalized extent of r.
func (r Rect) Bounds() (minX, minY, maxX, maxY float64) {
	minX, maxX = r.X, r.X+r.W
	minY, maxY = r.Y, r.Y+r.H
	if r.W < 0 {
		minX, maxX = maxX, minX
	}
	if r.H < 0 {
		minY, maxY = maxY, minY
	}
	return minX, minY, maxX, maxY
}

// Normalize returns the equivalent rectangle with non-negative W and H.
func (r Rect) Normalize() Rect {
	minX, minY, maxX, maxY := r.Bounds()
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Corners returns the four corners of r in edge order, starting at the anchor.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.X, Y: r.Y},
		{X: r.X + r.W, Y: r.Y},
		{X: r.X + r.W, Y: r.Y + r.H},
		{X: r.X, Y: r.Y + r.H},
	}
}

// Triangle holds three ordered vertices. Order only affects winding.
type Triangle struct {
	Points [3]Point `json:"points"`
}

// Tri builds a triangle from three vertices.
func Tri(a, b, c Point) Triangle {
	return Triangle{Points: [3]Point{a, b, c}}
}

// Edges returns the three edges of t as segments.
func (t Triangle) Edges() [3]Segment {
	return [3]Segment{
		{Start: t.Points[0], End: t.Points[1]},
		{Start: t.Points[1], End: t.Points[2]},
		{Start: t.Points[2], End: t.Points[0]},
	}
}

// Segment is a line segment.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// BoundingBox returns the normalized axis-aligned box around a set of points.
func BoundingBox(points ...Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
