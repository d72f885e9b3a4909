// Package geometry models percentage-space rectangles and points over an
// analyzed image. Coordinates are offsets from the image's top-left corner,
// expressed as percentages of its rendered size, so they survive any display
// scaling of the underlying screenshot.
package geometry

// MinDragSize is the smallest width/height, in percent units, a drag must
// cover before it is committed as a box. Anything smaller is treated as an
// accidental click.
const MinDragSize = 1.0

// Point is a percentage-space position on the image.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is a percentage-space rectangle, top-left origin.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect describes a rendered container in device pixels.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// PointFromPixels converts a client pixel coordinate to percentage space
// relative to the container. The result is clamped into [0,100] on both axes
// so a pointer that leaves the container mid-drag still maps to a valid
// position.
func PointFromPixels(rect Rect, clientX, clientY float64) Point {
	if rect.Width <= 0 || rect.Height <= 0 {
		return Point{}
	}
	return Point{
		X: clampPercent((clientX - rect.Left) / rect.Width * 100),
		Y: clampPercent((clientY - rect.Top) / rect.Height * 100),
	}
}

// BoxFromDrag builds the rectangle spanned by a drag gesture. Start and end
// may be in any relative order.
func BoxFromDrag(start, end Point) Box {
	return Box{
		X:      min(start.X, end.X),
		Y:      min(start.Y, end.Y),
		Width:  abs(end.X - start.X),
		Height: abs(end.Y - start.Y),
	}
}

// MeetsMinSize reports whether a drawn box is large enough to commit as an
// annotation.
func (b Box) MeetsMinSize() bool {
	return b.Width > MinDragSize && b.Height > MinDragSize
}

// Contains reports whether the point lies inside the box, edges inclusive.
func (b Box) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.Width && p.Y >= b.Y && p.Y <= b.Y+b.Height
}

// Clamp returns the box constrained to the [0,100] frame. The origin is
// clamped first, then width/height are shrunk so the box never extends past
// the bottom-right corner.
func (b Box) Clamp() Box {
	out := Box{
		X:      clampPercent(b.X),
		Y:      clampPercent(b.Y),
		Width:  clampPercent(b.Width),
		Height: clampPercent(b.Height),
	}
	if out.X+out.Width > 100 {
		out.Width = 100 - out.X
	}
	if out.Y+out.Height > 100 {
		out.Height = 100 - out.Y
	}
	return out
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
