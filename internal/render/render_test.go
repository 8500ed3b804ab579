package render

import (
	"bytes"
	"encoding/json"
	"image/color"
	"image/png"
	"testing"

	"github.com/inamate/inamate/shapes-go/internal/geometry"
	"github.com/inamate/inamate/shapes-go/internal/shape"
	"github.com/inamate/inamate/shapes-go/internal/viewport"
)

func TestCompileDrawCommands(t *testing.T) {
	rect := shape.NewRectAt(geometry.Pt(0, 0), 15, 15)
	rect.SetID("r")
	rect.SetDrawBorder(true)
	circle := shape.NewCircleRadius(8)
	circle.SetID("c")
	circle.Move(geometry.Pt(2, 0))
	hidden := shape.NewCircleRadius(1)
	hidden.SetEnabled(false)

	cmds := CompileDrawCommands([]*shape.Shape{rect, circle, hidden})
	if len(cmds) != 3 {
		t.Fatalf("got %d commands, want 3: %+v", len(cmds), cmds)
	}

	want := []struct{ op, kind, id string }{
		{"fill", "rect", "r"},
		{"stroke", "rect", "r"},
		{"fill", "circle", "c"},
	}
	for i, w := range want {
		if cmds[i].Op != w.op || cmds[i].Kind != w.kind || cmds[i].ObjectID != w.id {
			t.Errorf("command %d = %s %s %s, want %v", i, cmds[i].Op, cmds[i].Kind, cmds[i].ObjectID, w)
		}
	}
	if cmds[1].Color != shape.DefaultColor.Complement().Hex() {
		t.Errorf("border color = %s", cmds[1].Color)
	}
	// The pending move is resolved into the path, not the transform.
	if cmds[2].Transform != nil {
		t.Errorf("unexpected view transform %v", cmds[2].Transform)
	}
	if start := cmds[2].Path[0]; start[1] != 10.0 || start[2] != 0.0 {
		t.Errorf("circle path starts at %v, want (10,0)", start)
	}
}

func TestRecorderViewTransform(t *testing.T) {
	rec := NewRecorder()
	rec.SetOffset(geometry.Pt(3, 4))
	rec.FillTriangle(geometry.Tri(geometry.Pt(0, 0), geometry.Pt(1, 0), geometry.Pt(0, 1)))

	cmds := rec.Commands()
	if len(cmds) != 1 {
		t.Fatalf("got %d commands", len(cmds))
	}
	if got := cmds[0].Transform; len(got) != 6 || got[4] != 3 || got[5] != 4 {
		t.Fatalf("transform = %v", got)
	}
	if len(cmds[0].Path) != 4 {
		t.Fatalf("triangle path = %v", cmds[0].Path)
	}

	rec.Reset()
	if len(rec.Commands()) != 0 {
		t.Fatalf("reset kept commands")
	}

	// Shapes draw with the view transform cleared.
	rec.SetOffset(geometry.Pt(3, 4))
	rec.SetRotationAngle(1)
	shape.NewCircleRadius(2).Draw(rec)
	if cmds := rec.Commands(); len(cmds) != 1 || cmds[0].Transform != nil {
		t.Fatalf("shape drew under a stale view transform: %+v", cmds)
	}
}

func TestDrawCommandsToJSON(t *testing.T) {
	s, err := DrawCommandsToJSON(nil)
	if err != nil || s != "[]" {
		t.Fatalf("empty = %q, %v", s, err)
	}

	s, err = DrawCommandsToJSON(CompileDrawCommands([]*shape.Shape{shape.NewCircleRadius(2)}))
	if err != nil {
		t.Fatal(err)
	}
	var decoded []map[string]interface{}
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded[0]["op"] != "fill" || decoded[0]["kind"] != "circle" {
		t.Fatalf("decoded %v", decoded[0])
	}
}

func rgba(c shape.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func TestRasterFillRect(t *testing.T) {
	// One scene unit per pixel, scene y up from the bottom edge.
	r := NewRaster(viewport.NewView(viewport.Default(100), 100, 100))
	r.Clear(color.Black)

	s := shape.NewRectAt(geometry.Pt(10, 10), 20, 20)
	s.SetColor(shape.RGB(200, 10, 10))
	s.Draw(r)

	img := r.Image()
	if got := img.RGBAAt(20, 80); got != rgba(shape.RGB(200, 10, 10)) {
		t.Errorf("inside pixel = %v", got)
	}
	if got := img.RGBAAt(20, 20); got != (color.RGBA{A: 0xff}) {
		t.Errorf("outside pixel = %v", got)
	}
}

func TestRasterResolvesPendingTransform(t *testing.T) {
	r := NewRaster(viewport.NewView(viewport.Default(100), 100, 100))
	r.Clear(color.Black)

	s := shape.NewCircleAt(geometry.Pt(20, 20), 5)
	s.SetColor(shape.Magenta)
	s.Move(geometry.Pt(50, 50))
	s.Draw(r)

	img := r.Image()
	if got := img.RGBAAt(70, 30); got != rgba(shape.Magenta) {
		t.Errorf("moved circle center = %v", got)
	}
	if got := img.RGBAAt(20, 80); got != (color.RGBA{A: 0xff}) {
		t.Errorf("original position painted: %v", got)
	}
}

func TestRasterStrokeLeavesInterior(t *testing.T) {
	r := NewRaster(viewport.NewView(viewport.Default(100), 100, 100))
	r.Clear(color.Black)
	r.SetDrawColor(shape.RGB(0, 255, 0))
	r.StrokeCircle(geometry.Circle{Center: geometry.Pt(50, 50), Radius: 20})

	img := r.Image()
	if got := img.RGBAAt(50, 50); got != (color.RGBA{A: 0xff}) {
		t.Errorf("ring interior painted: %v", got)
	}
	if got := img.RGBAAt(50, 30); got.G == 0 {
		t.Errorf("ring edge not painted: %v", got)
	}
}

func TestRasterEncodePNG(t *testing.T) {
	r := NewRaster(viewport.NewView(viewport.Default(100), 64, 48))
	r.Clear(Background)

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("decoded size %v", b)
	}
}
