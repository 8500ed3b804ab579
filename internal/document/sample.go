package document

import (
	"encoding/json"
	"time"

	"github.com/inamate/inamate/shapes-go/internal/typeid"
)

// NewSampleDocument returns the demo scene: a triangle, a square and the
// pivot circle at the origin, all overlapping.
func NewSampleDocument(sceneID string) *InDocument {
	now := time.Now().UTC().Format(time.RFC3339)

	triangleID := typeid.NewShapeID()
	rectID := typeid.NewShapeID()
	circleID := typeid.NewShapeID()
	order := []string{triangleID, rectID, circleID}

	return &InDocument{
		Scene: Scene{
			ID:         sceneID,
			Name:       "Demo",
			Version:    1,
			CreatedAt:  now,
			UpdatedAt:  now,
			Width:      100,
			Background: "#660066",
			Pivot:      circleID,
			Order:      order,
			DrawOrder:  append([]string(nil), order...),
		},
		Shapes: map[string]ShapeNode{
			triangleID: {
				ID:    triangleID,
				Type:  ShapeTypeTriangle,
				Style: Style{Fill: "#7d7d7d"},
				Data:  json.RawMessage(`{"points": [{"x": 25, "y": 25}, {"x": 25, "y": 0}, {"x": 0, "y": 0}]}`),
			},
			rectID: {
				ID:    rectID,
				Type:  ShapeTypeRect,
				Style: Style{Fill: "#7d7d7d"},
				Data:  json.RawMessage(`{"x": 0, "y": 0, "w": 15, "h": 15}`),
			},
			circleID: {
				ID:    circleID,
				Type:  ShapeTypeCircle,
				Style: Style{Fill: "#7d7d7d"},
				Data:  json.RawMessage(`{"center": {"x": 0, "y": 0}, "radius": 8}`),
			},
		},
	}
}
