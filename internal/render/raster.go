package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"

	"github.com/inamate/inamate/shapes-go/internal/geometry"
	"github.com/inamate/inamate/shapes-go/internal/shape"
	"github.com/inamate/inamate/shapes-go/internal/viewport"
)

// DefaultStrokeWidth is the border width in pixels.
const DefaultStrokeWidth = 1.5

// Background is the color Clear paints by default.
var Background = color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}

// Raster is a shape.Renderer that paints into an RGBA image through a view.
type Raster struct {
	img  *image.RGBA
	view viewport.View
	z    *vector.Rasterizer

	color  shape.Color
	offset geometry.Vector
	phi    float64

	StrokeWidth float64
}

var _ shape.Renderer = (*Raster)(nil)

// NewRaster creates a raster sized to view.
func NewRaster(view viewport.View) *Raster {
	r := &Raster{StrokeWidth: DefaultStrokeWidth, color: shape.DefaultColor}
	r.Resize(view)
	return r
}

// Resize replaces the view, reallocating the image when the size changes.
func (r *Raster) Resize(view viewport.View) {
	w, h := max(view.Width, 1), max(view.Height, 1)
	r.view = view
	if r.img == nil || r.img.Rect.Dx() != w || r.img.Rect.Dy() != h {
		r.img = image.NewRGBA(image.Rect(0, 0, w, h))
		r.z = vector.NewRasterizer(w, h)
	}
}

// View returns the current view.
func (r *Raster) View() viewport.View { return r.view }

// Image returns the backing image.
func (r *Raster) Image() *image.RGBA { return r.img }

// Clear fills the image with bg and resets the view transform.
func (r *Raster) Clear(bg color.Color) {
	draw.Draw(r.img, r.img.Rect, image.NewUniform(bg), image.Point{}, draw.Src)
	r.offset = geometry.Vector{}
	r.phi = 0
}

// EncodePNG writes the image as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, r.img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (r *Raster) SetDrawColor(c shape.Color)   { r.color = c }
func (r *Raster) SetOffset(v geometry.Vector)  { r.offset = v }
func (r *Raster) SetRotationAngle(phi float64) { r.phi = phi }

func (r *Raster) FillCircle(c geometry.Circle) {
	center, radius := r.circleToPixels(c)
	r.begin()
	r.circle(center, radius, false)
	r.flush()
}

func (r *Raster) FillRect(rc geometry.Rect) {
	c := rc.Corners()
	r.fillPolygon(r.toPixels(c[:]))
}

func (r *Raster) FillTriangle(t geometry.Triangle) {
	r.fillPolygon(r.toPixels(t.Points[:]))
}

// StrokeCircle draws a ring straddling the circle's edge.
func (r *Raster) StrokeCircle(c geometry.Circle) {
	center, radius := r.circleToPixels(c)
	half := r.StrokeWidth / 2
	r.begin()
	r.circle(center, radius+half, false)
	if inner := radius - half; inner > 0 {
		r.circle(center, inner, true)
	}
	r.flush()
}

func (r *Raster) StrokeRect(rc geometry.Rect) {
	c := rc.Corners()
	r.strokePolygon(r.toPixels(c[:]))
}

func (r *Raster) StrokeTriangle(t geometry.Triangle) {
	r.strokePolygon(r.toPixels(t.Points[:]))
}

// toPixels applies the view transform then maps to window pixels.
func (r *Raster) toPixels(points []geometry.Point) []geometry.Point {
	m := geometry.RotateThenTranslate(r.phi, r.offset)
	out := make([]geometry.Point, len(points))
	for i, p := range points {
		px := r.view.SceneToPixel(m.Apply(p))
		out[i] = geometry.Pt(px.X, px.Y)
	}
	return out
}

func (r *Raster) circleToPixels(c geometry.Circle) (geometry.Point, float64) {
	center := r.toPixels([]geometry.Point{c.Center})[0]
	return center, c.Radius * r.view.PixelsPerUnit()
}

func (r *Raster) fillPolygon(points []geometry.Point) {
	r.begin()
	r.polygon(points)
	r.flush()
}

// strokePolygon draws each edge as a quad of StrokeWidth.
func (r *Raster) strokePolygon(points []geometry.Point) {
	half := r.StrokeWidth / 2
	for i := range points {
		a, b := points[i], points[(i+1)%len(points)]
		d := b.Sub(a)
		l := math.Hypot(d.X, d.Y)
		if l == 0 {
			continue
		}
		// Extend by half the width so corners close.
		u := d.Scale(half / l)
		n := geometry.Pt(-u.Y, u.X)
		a, b = a.Sub(u), b.Add(u)
		r.begin()
		r.polygon([]geometry.Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)})
		r.flush()
	}
}

func (r *Raster) begin() {
	b := r.img.Rect
	r.z.Reset(b.Dx(), b.Dy())
	r.z.DrawOp = draw.Over
}

func (r *Raster) flush() {
	r.z.Draw(r.img, r.img.Rect, image.NewUniform(r.color), image.Point{})
}

func (r *Raster) polygon(points []geometry.Point) {
	if len(points) == 0 {
		return
	}
	r.z.MoveTo(float32(points[0].X), float32(points[0].Y))
	for _, p := range points[1:] {
		r.z.LineTo(float32(p.X), float32(p.Y))
	}
	r.z.ClosePath()
}

// circle adds a four-curve circle. reverse flips the winding so the circle
// cuts a hole in a larger one.
func (r *Raster) circle(c geometry.Point, radius float64, reverse bool) {
	const k = 0.5522847498
	kr := radius * k
	x, y := c.X, c.Y
	sy := 1.0
	if reverse {
		sy = -1
	}
	f := func(v float64) float32 { return float32(v) }
	r.z.MoveTo(f(x+radius), f(y))
	r.z.CubeTo(f(x+radius), f(y+sy*kr), f(x+kr), f(y+sy*radius), f(x), f(y+sy*radius))
	r.z.CubeTo(f(x-kr), f(y+sy*radius), f(x-radius), f(y+sy*kr), f(x-radius), f(y))
	r.z.CubeTo(f(x-radius), f(y-sy*kr), f(x-kr), f(y-sy*radius), f(x), f(y-sy*radius))
	r.z.CubeTo(f(x+kr), f(y-sy*radius), f(x+radius), f(y-sy*kr), f(x+radius), f(y))
	r.z.ClosePath()
}
