// Package render provides the shape.Renderer backends: a recorder that
// compiles draw commands for a canvas front end, and a rasterizer that
// paints into an image.
package render

import (
	"encoding/json"

	"github.com/inamate/inamate/shapes-go/internal/geometry"
	"github.com/inamate/inamate/shapes-go/internal/shape"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op        string        `json:"op"`                  // "fill" or "stroke"
	ObjectID  string        `json:"objectId,omitempty"`  // For hit correlation
	Kind      string        `json:"kind"`                // circle, rect, triangle
	Transform []float64     `json:"transform,omitempty"` // [a, b, c, d, e, f] view transform
	Path      []PathCommand `json:"path"`                // Path data in scene units
	Color     string        `json:"color"`               // #rrggbb or #rrggbbaa
}

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["C", x1, y1, x2, y2, x, y], ["Z"].
type PathCommand []interface{}

// Recorder is a shape.Renderer that records draw commands.
type Recorder struct {
	commands []DrawCommand
	objectID string

	color  shape.Color
	offset geometry.Vector
	phi    float64
}

var _ shape.Renderer = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{color: shape.DefaultColor}
}

// Reset drops recorded commands and the view transform.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
	r.objectID = ""
	r.offset = geometry.Vector{}
	r.phi = 0
}

// SetObject tags subsequent commands with id.
func (r *Recorder) SetObject(id string) { r.objectID = id }

// Commands returns the recorded commands.
func (r *Recorder) Commands() []DrawCommand {
	return append([]DrawCommand(nil), r.commands...)
}

func (r *Recorder) SetDrawColor(c shape.Color)   { r.color = c }
func (r *Recorder) SetOffset(v geometry.Vector)  { r.offset = v }
func (r *Recorder) SetRotationAngle(phi float64) { r.phi = phi }
func (r *Recorder) FillCircle(c geometry.Circle) { r.emit("fill", "circle", circlePath(c)) }
func (r *Recorder) FillRect(rc geometry.Rect)    { r.emit("fill", "rect", rectPath(rc)) }
func (r *Recorder) FillTriangle(t geometry.Triangle) {
	r.emit("fill", "triangle", polygonPath(t.Points[:]))
}
func (r *Recorder) StrokeCircle(c geometry.Circle) { r.emit("stroke", "circle", circlePath(c)) }
func (r *Recorder) StrokeRect(rc geometry.Rect)    { r.emit("stroke", "rect", rectPath(rc)) }
func (r *Recorder) StrokeTriangle(t geometry.Triangle) {
	r.emit("stroke", "triangle", polygonPath(t.Points[:]))
}

func (r *Recorder) emit(op, kind string, path []PathCommand) {
	cmd := DrawCommand{
		Op:       op,
		ObjectID: r.objectID,
		Kind:     kind,
		Path:     path,
		Color:    r.color.Hex(),
	}
	if m := geometry.RotateThenTranslate(r.phi, r.offset); !m.IsIdentity() {
		cmd.Transform = m.ToSlice()
	}
	r.commands = append(r.commands, cmd)
}

// CompileDrawCommands generates a draw command buffer for shapes listed back
// to front. Commands are in painter's order.
func CompileDrawCommands(shapes []*shape.Shape) []DrawCommand {
	rec := NewRecorder()
	for _, s := range shapes {
		rec.SetObject(s.ID())
		s.Draw(rec)
	}
	return rec.commands
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

func rectPath(rc geometry.Rect) []PathCommand {
	c := rc.Corners()
	return polygonPath(c[:])
}

func polygonPath(points []geometry.Point) []PathCommand {
	path := make([]PathCommand, 0, len(points)+1)
	for i, p := range points {
		op := "L"
		if i == 0 {
			op = "M"
		}
		path = append(path, PathCommand{op, p.X, p.Y})
	}
	return append(path, PathCommand{"Z"})
}

// circlePath approximates c with four cubic bezier curves.
func circlePath(c geometry.Circle) []PathCommand {
	// k = 4 * (sqrt(2) - 1) / 3
	const k = 0.5522847498
	x, y, r := c.Center.X, c.Center.Y, c.Radius
	kr := r * k
	return []PathCommand{
		{"M", x + r, y},
		{"C", x + r, y + kr, x + kr, y + r, x, y + r},
		{"C", x - kr, y + r, x - r, y + kr, x - r, y},
		{"C", x - r, y - kr, x - kr, y - r, x, y - r},
		{"C", x + kr, y - r, x + r, y - kr, x + r, y},
		{"Z"},
	}
}
