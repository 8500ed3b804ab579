package engine

import (
	"encoding/json"
	"fmt"

	"github.com/inamate/inamate/shapes-go/internal/document"
	"github.com/inamate/inamate/shapes-go/internal/geometry"
	"github.com/inamate/inamate/shapes-go/internal/scene"
	"github.com/inamate/inamate/shapes-go/internal/shape"
)

// BuildManager builds a shape manager from a validated document. Shapes are
// added in document order, then promoted in draw order so the manager paints
// them exactly as the document lists.
func BuildManager(doc *document.InDocument) (*scene.Manager, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	m := scene.NewManager()
	for _, id := range doc.Scene.Order {
		s, err := BuildShape(doc.Shapes[id])
		if err != nil {
			return nil, fmt.Errorf("build shape %s: %w", id, err)
		}
		m.Add(s)
	}
	for _, id := range doc.Scene.DrawOrder {
		m.BringToFront(m.Find(id))
	}
	return m, nil
}

// BuildShape converts a document node into a shape, including its pending
// transform and style. The type name is matched case-insensitively, and
// omitted fillIn and enabled flags keep the shape defaults.
func BuildShape(node document.ShapeNode) (*shape.Shape, error) {
	kind, err := shape.ParseKind(string(node.Type))
	if err != nil {
		return nil, err
	}

	var s *shape.Shape
	switch kind {
	case shape.KindCircle:
		var c geometry.Circle
		if err := json.Unmarshal(node.Data, &c); err != nil {
			return nil, fmt.Errorf("decode circle: %w", err)
		}
		s = shape.NewCircle(c)

	case shape.KindRect:
		var r geometry.Rect
		if err := json.Unmarshal(node.Data, &r); err != nil {
			return nil, fmt.Errorf("decode rect: %w", err)
		}
		s = shape.NewRect(r)

	case shape.KindTriangle:
		var triData struct {
			Points []geometry.Point `json:"points"`
		}
		if err := json.Unmarshal(node.Data, &triData); err != nil {
			return nil, fmt.Errorf("decode triangle: %w", err)
		}
		if s, err = shape.NewTriangleFrom(triData.Points); err != nil {
			return nil, err
		}
	}

	s.SetID(node.ID)
	if node.Transform != (document.Transform{}) {
		s.SetRotation(node.Transform.R)
		s.SetOrigin(geometry.Pt(node.Transform.X, node.Transform.Y))
	}

	if node.Style.Fill != "" {
		c, err := shape.ParseColor(node.Style.Fill)
		if err != nil {
			return nil, err
		}
		s.SetColor(c)
	}
	s.SetDrawBorder(node.Style.Border)
	s.SetFillIn(node.IsFilled())
	s.SetEnabled(node.IsEnabled())
	return s, nil
}

// ShapeNode converts a shape back into its document node. The committed
// geometry goes into Data and the pending transform into Transform.
func ShapeNode(s *shape.Shape) document.ShapeNode {
	node := document.ShapeNode{
		ID: s.ID(),
		Transform: document.Transform{
			X: s.Offset().X,
			Y: s.Offset().Y,
			R: s.Rotation(),
		},
		Style: document.Style{
			Fill:   s.Color().Hex(),
			Border: s.DrawBorder(),
			FillIn: document.Flag(s.FillIn()),
		},
		Enabled: document.Flag(s.Enabled()),
	}

	var data interface{}
	switch s.Kind() {
	case shape.KindCircle:
		node.Type = document.ShapeTypeCircle
		data, _ = s.Circle()
	case shape.KindRect:
		node.Type = document.ShapeTypeRect
		data, _ = s.Rect()
	case shape.KindTriangle:
		node.Type = document.ShapeTypeTriangle
		data, _ = s.Triangle()
	}
	node.Data, _ = json.Marshal(data)
	return node
}

// snapshot writes the manager's shapes and ordering into doc.
func snapshot(doc *document.InDocument, m *scene.Manager) {
	shapes := m.Shapes()
	doc.Shapes = make(map[string]document.ShapeNode, len(shapes))
	doc.Scene.Order = make([]string, 0, len(shapes))
	for _, s := range shapes {
		doc.Shapes[s.ID()] = ShapeNode(s)
		doc.Scene.Order = append(doc.Scene.Order, s.ID())
	}
	drawOrder := m.DrawOrder()
	doc.Scene.DrawOrder = make([]string, 0, len(drawOrder))
	for _, s := range drawOrder {
		doc.Scene.DrawOrder = append(doc.Scene.DrawOrder, s.ID())
	}
}
