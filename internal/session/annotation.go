// Package session holds the per-analysis interactive state: the loaded
// critique with its view state, and the user's annotation layer. Each state
// object is a single-writer store mutated only through its own methods.
package session

import (
	"time"

	"design-insight-backend/internal/geometry"
)

// Tool is the active annotation tool.
type Tool string

const (
	ToolSelect  Tool = "select"
	ToolBox     Tool = "box"
	ToolMarker  Tool = "marker"
	ToolComment Tool = "comment"
)

// Valid reports whether t is a known tool.
func (t Tool) Valid() bool {
	switch t {
	case ToolSelect, ToolBox, ToolMarker, ToolComment:
		return true
	}
	return false
}

// AnnotationType tags an annotation variant.
type AnnotationType string

const (
	AnnotationBox     AnnotationType = "box"
	AnnotationMarker  AnnotationType = "marker"
	AnnotationComment AnnotationType = "comment"
)

// Valid reports whether t is a known annotation type.
func (t AnnotationType) Valid() bool {
	switch t {
	case AnnotationBox, AnnotationMarker, AnnotationComment:
		return true
	}
	return false
}

// Color is one of the fixed annotation palette values.
type Color string

// Colors is the fixed seven-entry annotation palette.
var Colors = []Color{
	"#ef4444", // red
	"#f97316", // orange
	"#eab308", // yellow
	"#22c55e", // green
	"#3b82f6", // blue
	"#8b5cf6", // purple
	"#ec4899", // pink
}

// DefaultColor is the palette blue.
const DefaultColor Color = "#3b82f6"

// Valid reports whether c is in the palette.
func (c Color) Valid() bool {
	for _, known := range Colors {
		if c == known {
			return true
		}
	}
	return false
}

// Position is an annotation's percentage-space location. Width/height are
// present only for box annotations.
type Position struct {
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// BoxPosition builds a box-shaped position from a geometry box.
func BoxPosition(b geometry.Box) Position {
	w, h := b.Width, b.Height
	return Position{X: b.X, Y: b.Y, Width: &w, Height: &h}
}

// PointPosition builds a zero-size position for marker/comment annotations.
func PointPosition(p geometry.Point) Position {
	return Position{X: p.X, Y: p.Y}
}

// Box returns the position as a geometry box. Zero-size for point variants.
func (p Position) Box() geometry.Box {
	out := geometry.Box{X: p.X, Y: p.Y}
	if p.Width != nil {
		out.Width = *p.Width
	}
	if p.Height != nil {
		out.Height = *p.Height
	}
	return out
}

// Annotation is a user-authored overlay mark.
type Annotation struct {
	ID        string         `json:"id"`
	Type      AnnotationType `json:"type"`
	Position  Position       `json:"position"`
	Content   string         `json:"content"`
	Color     Color          `json:"color"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt *time.Time     `json:"updatedAt,omitempty"`
}

// CreateAnnotationInput is the caller-supplied part of a new annotation.
type CreateAnnotationInput struct {
	Type     AnnotationType `json:"type"`
	Position Position       `json:"position"`
	Content  string         `json:"content"`
	Color    Color          `json:"color"`
}

// UpdateAnnotationInput carries the fields an update may change. Nil means
// leave unchanged.
type UpdateAnnotationInput struct {
	Position *Position `json:"position,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Color    *Color    `json:"color,omitempty"`
}
