package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidDocument = errors.New("invalid document")

type InDocument struct {
	Scene  Scene                `json:"scene"`
	Shapes map[string]ShapeNode `json:"shapes"`
}

type Scene struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Version    int     `json:"version"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
	Width      float64 `json:"width"` // scene units across the window
	Background string  `json:"background"`
	// Pivot is the circle whose overlaps are highlighted on render.
	Pivot     string   `json:"pivot,omitempty"`
	Order     []string `json:"order"`     // insertion order
	DrawOrder []string `json:"drawOrder"` // back to front
}

type ShapeType string

const (
	ShapeTypeCircle   ShapeType = "Circle"
	ShapeTypeRect     ShapeType = "Rect"
	ShapeTypeTriangle ShapeType = "Triangle"
)

// Transform is a pending, uncommitted transform: rotate by R radians about
// the world origin, then translate by (X, Y).
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

// Style holds draw attributes. A nil FillIn means filled.
type Style struct {
	Fill   string `json:"fill"`
	Border bool   `json:"border"`
	FillIn *bool  `json:"fillIn,omitempty"`
}

// ShapeNode is one shape in a document. A nil Enabled means enabled.
type ShapeNode struct {
	ID        string          `json:"id"`
	Type      ShapeType       `json:"type"`
	Transform Transform       `json:"transform"`
	Style     Style           `json:"style"`
	Enabled   *bool           `json:"enabled,omitempty"`
	Data      json.RawMessage `json:"data"`
}

// IsFilled reports the node's fill flag, defaulting to true.
func (n ShapeNode) IsFilled() bool { return n.Style.FillIn == nil || *n.Style.FillIn }

// IsEnabled reports the node's enabled flag, defaulting to true.
func (n ShapeNode) IsEnabled() bool { return n.Enabled == nil || *n.Enabled }

// Flag returns a pointer to b for the optional node fields.
func Flag(b bool) *bool { return &b }

// IsCircle reports whether t names a circle, ignoring case.
func (t ShapeType) IsCircle() bool { return strings.EqualFold(string(t), string(ShapeTypeCircle)) }

// Validate checks that the ordering lists and shape map agree.
func (d *InDocument) Validate() error {
	if d.Scene.ID == "" {
		return fmt.Errorf("%w: missing scene id", ErrInvalidDocument)
	}
	if len(d.Scene.Order) != len(d.Shapes) {
		return fmt.Errorf("%w: order lists %d shapes, have %d", ErrInvalidDocument, len(d.Scene.Order), len(d.Shapes))
	}
	seen := make(map[string]bool, len(d.Scene.Order))
	for _, id := range d.Scene.Order {
		if _, ok := d.Shapes[id]; !ok {
			return fmt.Errorf("%w: unknown shape %q in order", ErrInvalidDocument, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: shape %q listed twice", ErrInvalidDocument, id)
		}
		seen[id] = true
	}
	if d.Scene.DrawOrder != nil {
		if len(d.Scene.DrawOrder) != len(d.Scene.Order) {
			return fmt.Errorf("%w: draw order lists %d shapes, have %d", ErrInvalidDocument, len(d.Scene.DrawOrder), len(d.Scene.Order))
		}
		drawn := make(map[string]bool, len(d.Scene.DrawOrder))
		for _, id := range d.Scene.DrawOrder {
			if !seen[id] || drawn[id] {
				return fmt.Errorf("%w: bad draw order entry %q", ErrInvalidDocument, id)
			}
			drawn[id] = true
		}
	}
	if d.Scene.Pivot != "" {
		node, ok := d.Shapes[d.Scene.Pivot]
		if !ok || !node.Type.IsCircle() {
			return fmt.Errorf("%w: pivot %q is not a circle", ErrInvalidDocument, d.Scene.Pivot)
		}
	}
	return nil
}

// NewEmptyDocument creates an empty scene document
func NewEmptyDocument(sceneID, name string) *InDocument {
	return &InDocument{
		Scene: Scene{
			ID:         sceneID,
			Name:       name,
			Version:    1,
			CreatedAt:  "", // Will be set by caller
			UpdatedAt:  "",
			Width:      100,
			Background: "#660066",
			Order:      []string{},
			DrawOrder:  []string{},
		},
		Shapes: map[string]ShapeNode{},
	}
}
