package shape

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/inamate/inamate/shapes-go/internal/geometry"
)

// recorder captures renderer calls as strings.
type recorder struct {
	calls []string
}

func (r *recorder) SetDrawColor(c Color)                   { r.add("color %s", c.Hex()) }
func (r *recorder) SetOffset(v geometry.Vector)            { r.add("offset %v", v) }
func (r *recorder) SetRotationAngle(phi float64)           { r.add("rotation %v", phi) }
func (r *recorder) FillCircle(c geometry.Circle)           { r.add("fill circle %v", c) }
func (r *recorder) FillRect(rc geometry.Rect)              { r.add("fill rect %v", rc) }
func (r *recorder) FillTriangle(t geometry.Triangle)       { r.add("fill tri %v", t) }
func (r *recorder) StrokeCircle(c geometry.Circle)         { r.add("stroke circle %v", c) }
func (r *recorder) StrokeRect(rc geometry.Rect)            { r.add("stroke rect %v", rc) }
func (r *recorder) StrokeTriangle(t geometry.Triangle)     { r.add("stroke tri %v", t) }
func (r *recorder) add(format string, args ...interface{}) { r.calls = append(r.calls, fmt.Sprintf(format, args...)) }

func unitTri() geometry.Triangle {
	return geometry.Tri(geometry.Pt(0, 0), geometry.Pt(10, 0), geometry.Pt(0, 10))
}

func TestApplyTransformMatchesExternalComposition(t *testing.T) {
	base := geometry.Tri(geometry.Pt(25, 25), geometry.Pt(25, 0), geometry.Pt(0, 0))
	phi := 0.37
	v := geometry.Pt(-4, 12.5)

	s := NewTriangle(base)
	s.Rotate(phi)
	s.Move(v)
	s.ApplyTransform()

	got, ok := s.Triangle()
	if !ok {
		t.Fatalf("kind changed to %s", s.Kind())
	}
	want := geometry.MoveTriangle(geometry.RotateTriangle(base, phi), v)
	if got != want {
		t.Fatalf("committed %v, want %v", got, want)
	}
	if s.Transformed() || s.Rotation() != 0 || s.Offset() != (geometry.Vector{}) {
		t.Fatalf("pending transform not cleared: phi=%v origin=%v transformed=%v", s.Rotation(), s.Offset(), s.Transformed())
	}
}

func TestRotateAndMoveAccumulate(t *testing.T) {
	s := NewTriangle(unitTri())
	s.Rotate(0.1)
	s.Rotate(0.2)
	s.Move(geometry.Pt(1, 2))
	s.Move(geometry.Pt(3, -1))

	if math.Abs(s.Rotation()-0.3) > 1e-12 {
		t.Errorf("rotation = %v, want 0.3", s.Rotation())
	}
	if s.Offset() != geometry.Pt(4, 1) {
		t.Errorf("offset = %v, want (4,1)", s.Offset())
	}
	if !s.Transformed() {
		t.Errorf("expected transformed")
	}

	s.SetRotation(1)
	s.SetOrigin(geometry.Pt(7, 7))
	if s.Rotation() != 1 || s.Offset() != geometry.Pt(7, 7) {
		t.Errorf("setters did not overwrite: %v %v", s.Rotation(), s.Offset())
	}
}

func TestResetTransformDiscards(t *testing.T) {
	s := NewRectAt(geometry.Pt(0, 0), 10, 10)
	s.Move(geometry.Pt(50, 50))
	s.ResetTransform()
	s.ApplyTransform()

	r, _ := s.Rect()
	if r != (geometry.Rect{X: 0, Y: 0, W: 10, H: 10}) {
		t.Fatalf("rect moved after reset: %v", r)
	}
}

func TestCircleAndRectDropRotationOnCommit(t *testing.T) {
	c := NewCircleAt(geometry.Pt(10, 0), 2)
	c.Rotate(math.Pi / 2)
	c.Move(geometry.Pt(1, 1))
	c.ApplyTransform()
	if got, _ := c.Circle(); got.Center != geometry.Pt(11, 1) || got.Radius != 2 {
		t.Errorf("circle committed to %v, want center (11,1)", got)
	}

	r := NewRectAt(geometry.Pt(10, 0), 2, 3)
	r.Rotate(math.Pi / 2)
	r.ApplyTransform()
	if got, _ := r.Rect(); got != (geometry.Rect{X: 10, Y: 0, W: 2, H: 3}) {
		t.Errorf("rect committed to %v, want unrotated", got)
	}
}

func TestContainsPointResolvesPendingWithoutMutation(t *testing.T) {
	s := NewTriangle(unitTri())
	s.Move(geometry.Pt(100, 0))

	if !s.ContainsPoint(geometry.Pt(101, 1)) {
		t.Errorf("moved triangle should contain (101,1)")
	}
	if s.ContainsPoint(geometry.Pt(1, 1)) {
		t.Errorf("moved triangle should not contain (1,1)")
	}
	if got, _ := s.Triangle(); got != unitTri() {
		t.Errorf("query mutated geometry: %v", got)
	}
	if !s.Transformed() || s.Offset() != geometry.Pt(100, 0) {
		t.Errorf("query cleared pending transform")
	}
}

func TestContainsPointExamples(t *testing.T) {
	if !NewCircleRadius(5).ContainsPoint(geometry.Pt(5, 0)) {
		t.Errorf("closed disk should contain its boundary")
	}
	if !NewRectAt(geometry.Pt(0, 0), -10, -10).ContainsPoint(geometry.Pt(-5, -5)) {
		t.Errorf("negative rect should contain (-5,-5)")
	}
	tri := NewTriangle(unitTri())
	if !tri.ContainsPoint(geometry.Pt(1, 1)) || tri.ContainsPoint(geometry.Pt(20, 20)) {
		t.Errorf("triangle containment wrong")
	}
}

func TestDisabledShape(t *testing.T) {
	s := NewCircleRadius(5)
	s.SetEnabled(false)
	if s.ContainsPoint(geometry.Pt(0, 0)) {
		t.Errorf("disabled shape must not contain points")
	}
	var r recorder
	s.Draw(&r)
	if len(r.calls) != 0 {
		t.Errorf("disabled shape drew: %v", r.calls)
	}
}

func TestDrawFillAndBorder(t *testing.T) {
	s := NewTriangle(unitTri())
	s.SetColor(Color{R: 10, G: 20, B: 30, A: 40})
	s.SetDrawBorder(true)
	s.Move(geometry.Pt(1, 0))

	var r recorder
	s.Draw(&r)

	moved := geometry.MoveTriangle(unitTri(), geometry.Pt(1, 0))
	want := []string{
		fmt.Sprintf("offset %v", geometry.Vector{}),
		"rotation 0",
		"color #0a141e28",
		fmt.Sprintf("fill tri %v", moved),
		"color #f5ebe128",
		fmt.Sprintf("stroke tri %v", moved),
	}
	if fmt.Sprint(r.calls) != fmt.Sprint(want) {
		t.Fatalf("calls = %v\nwant %v", r.calls, want)
	}
	if got, _ := s.Triangle(); got != unitTri() {
		t.Errorf("draw committed the pending transform")
	}
}

func TestDrawBorderOnly(t *testing.T) {
	s := NewRectAt(geometry.Pt(0, 0), 4, 4)
	s.SetFillIn(false)
	s.SetDrawBorder(true)

	var r recorder
	s.Draw(&r)
	if len(r.calls) != 5 || r.calls[4] != fmt.Sprintf("stroke rect %v", geometry.Rect{W: 4, H: 4}) {
		t.Fatalf("calls = %v", r.calls)
	}
}

func TestIntersectsWith(t *testing.T) {
	circle := NewCircleRadius(5)
	farRect := NewRectAt(geometry.Pt(10, 0), 5, 5)
	nearRect := NewRectAt(geometry.Pt(4, 0), 5, 5)
	tri := NewTriangle(unitTri())

	tests := []struct {
		name string
		a, b *Shape
		want bool
	}{
		{"circle-rect gap", circle, farRect, false},
		{"rect-circle gap", farRect, circle, false},
		{"circle-rect overlap", circle, nearRect, true},
		{"rect-circle overlap", nearRect, circle, true},
		{"circle-tri", circle, tri, true},
		{"tri-circle", tri, circle, true},
		{"circle-circle tangent", circle, NewCircleAt(geometry.Pt(10, 0), 5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.IntersectsWith(tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntersectsWithUnimplementedPairs(t *testing.T) {
	rect := NewRectAt(geometry.Pt(0, 0), 5, 5)
	tri := NewTriangle(unitTri())
	pairs := [][2]*Shape{{rect, rect}, {rect, tri}, {tri, rect}, {tri, tri}}
	for _, p := range pairs {
		_, err := p[0].IntersectsWith(p[1])
		if !errors.Is(err, ErrPairUnimplemented) {
			t.Errorf("%s-%s: err = %v, want ErrPairUnimplemented", p[0].Kind(), p[1].Kind(), err)
		}
		if Implemented(p[0].Kind(), p[1].Kind()) {
			t.Errorf("%s-%s reported as implemented", p[0].Kind(), p[1].Kind())
		}
	}
}

func TestIntersectsWithPendingTransforms(t *testing.T) {
	circle := NewCircleAt(geometry.Pt(-100, 0), 1)
	rect := NewRectAt(geometry.Pt(0, 0), 5, 5)

	circle.Move(geometry.Pt(102, 2))
	got, err := circle.IntersectsWith(rect)
	if err != nil || !got {
		t.Fatalf("moved circle should hit rect: %v %v", got, err)
	}
	if c, _ := circle.Circle(); c.Center != geometry.Pt(-100, 0) {
		t.Errorf("intersection query mutated circle: %v", c)
	}

	rect.Move(geometry.Pt(50, 50))
	got, err = rect.IntersectsWith(circle)
	if err != nil || got {
		t.Fatalf("moved rect should miss circle: %v %v", got, err)
	}
}

func TestColorHelpers(t *testing.T) {
	c := RGB(230, 25, 75)
	if c.Complement() != RGB(25, 230, 180) {
		t.Errorf("complement = %v", c.Complement())
	}
	for _, s := range []string{"#e6194b", "#00000000", "#ffffff80"} {
		parsed, err := ParseColor(s)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", s, err)
		}
		if parsed.Hex() != s {
			t.Errorf("round trip %q -> %q", s, parsed.Hex())
		}
	}
	if _, err := ParseColor("red"); err == nil {
		t.Errorf("expected error for named color")
	}
	if PaletteColor(PaletteSize) != PaletteColor(0) || PaletteColor(-1) != PaletteColor(PaletteSize-1) {
		t.Errorf("palette does not wrap")
	}
	p := Palette()
	p[0] = Color{}
	if PaletteColor(0) == (Color{}) {
		t.Errorf("Palette returned the backing table")
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindCircle, KindRect, KindTriangle} {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("hexagon"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("err = %v, want ErrUnknownKind", err)
	}
}
