// Package canvas bridges pointer events on the rendered image surface to
// geometry-space operations against the session stores. The controller is a
// per-gesture state machine; the only state it owns is the drag in progress.
package canvas

import (
	"design-insight-backend/internal/geometry"
	"design-insight-backend/internal/session"
)

// EventKind is the pointer event type.
type EventKind string

const (
	PointerDown  EventKind = "down"
	PointerMove  EventKind = "move"
	PointerUp    EventKind = "up"
	PointerLeave EventKind = "leave"
)

// TargetKind identifies what the pointer event landed on. Events carry the
// innermost matched target; a hit on a region or annotation overlay must not
// also trigger the background behavior.
type TargetKind string

const (
	TargetBackground TargetKind = "background"
	TargetRegion     TargetKind = "region"
	TargetAnnotation TargetKind = "annotation"
)

// Target is the event target resolved by the presentation layer.
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id,omitempty"`
}

// PointerEvent is one pointer interaction in percentage space.
type PointerEvent struct {
	Kind   EventKind      `json:"kind"`
	Point  geometry.Point `json:"point"`
	Target Target         `json:"target"`
}

// Controller drives annotation creation and selection for one session.
type Controller struct {
	analysis    *session.AnalysisState
	annotations *session.AnnotationState

	drag *dragState
}

type dragState struct {
	start geometry.Point
	last  geometry.Point
}

// NewController builds a controller over the session's two stores.
func NewController(sess *session.Session) *Controller {
	return &Controller{
		analysis:    sess.Analysis,
		annotations: sess.Annotations,
	}
}

// Handle processes one pointer event and returns the committed annotation,
// if the event produced one.
func (c *Controller) Handle(ev PointerEvent) *session.Annotation {
	switch ev.Kind {
	case PointerDown:
		return c.pointerDown(ev)
	case PointerMove:
		if c.drag != nil {
			c.drag.last = ev.Point
		}
		return nil
	case PointerUp, PointerLeave:
		// A drag is never left dangling: leaving the surface commits or
		// discards using the last known position.
		return c.finishDrag(ev.Point)
	}
	return nil
}

// Dragging reports whether a box drag is being tracked.
func (c *Controller) Dragging() bool {
	return c.drag != nil
}

// Preview returns the box the in-flight drag currently spans.
func (c *Controller) Preview() (geometry.Box, bool) {
	if c.drag == nil {
		return geometry.Box{}, false
	}
	return geometry.BoxFromDrag(c.drag.start, c.drag.last), true
}

func (c *Controller) pointerDown(ev PointerEvent) *session.Annotation {
	if c.drag != nil {
		// A new gesture cannot start while another tracks.
		return nil
	}

	switch c.annotations.SelectedTool() {
	case session.ToolSelect:
		c.selectAt(ev.Target)
		return nil
	case session.ToolMarker:
		a := c.annotations.Add(session.CreateAnnotationInput{
			Type:     session.AnnotationMarker,
			Position: session.PointPosition(ev.Point),
		})
		return &a
	case session.ToolComment:
		a := c.annotations.Add(session.CreateAnnotationInput{
			Type:     session.AnnotationComment,
			Position: session.PointPosition(ev.Point),
		})
		return &a
	case session.ToolBox:
		c.drag = &dragState{start: ev.Point, last: ev.Point}
		return nil
	}
	return nil
}

// selectAt applies the select tool to the innermost event target only.
func (c *Controller) selectAt(target Target) {
	switch target.Kind {
	case TargetAnnotation:
		c.annotations.Select(target.ID)
	case TargetRegion:
		c.analysis.ToggleRegion(target.ID)
	default:
		c.annotations.Select("")
	}
}

func (c *Controller) finishDrag(end geometry.Point) *session.Annotation {
	if c.drag == nil {
		return nil
	}
	c.drag.last = end
	box := geometry.BoxFromDrag(c.drag.start, c.drag.last)
	c.drag = nil

	if !box.MeetsMinSize() {
		// Sub-threshold drags are accidental clicks, not errors.
		return nil
	}
	a := c.annotations.Add(session.CreateAnnotationInput{
		Type:     session.AnnotationBox,
		Position: session.BoxPosition(box),
	})
	return &a
}
