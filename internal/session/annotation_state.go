package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"design-insight-backend/internal/shared/metrics"
)

// AnnotationState owns the annotation list plus tool and overlay view state
// for one analysis session. The list is append-ordered; insertion order is
// z-order, later entries stack on top.
type AnnotationState struct {
	mu sync.RWMutex

	annotations          []Annotation
	selectedTool         Tool
	selectedColor        Color
	selectedAnnotationID string

	showAiRegions bool
	showGrid      bool
}

// NewAnnotationState returns an empty state with the select tool active,
// the palette blue selected, AI regions visible and the grid hidden.
func NewAnnotationState() *AnnotationState {
	return &AnnotationState{
		annotations:   []Annotation{},
		selectedTool:  ToolSelect,
		selectedColor: DefaultColor,
		showAiRegions: true,
	}
}

// Add generates an id and creation timestamp, appends the annotation, and
// returns the stored record.
func (s *AnnotationState) Add(input CreateAnnotationInput) Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()

	color := input.Color
	if !color.Valid() {
		color = s.selectedColor
	}
	a := Annotation{
		ID:        uuid.NewString(),
		Type:      input.Type,
		Position:  input.Position,
		Content:   input.Content,
		Color:     color,
		CreatedAt: time.Now().UTC(),
	}
	s.annotations = append(s.annotations, a)
	metrics.IncAnnotationCreated()
	return a
}

// Update merges the provided fields into the annotation and stamps
// updatedAt. A missing id is a silent no-op: async UI events can race with
// deletion and that is not an error.
func (s *AnnotationState) Update(id string, input UpdateAnnotationInput) (Annotation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.annotations {
		if s.annotations[i].ID != id {
			continue
		}
		if input.Position != nil {
			s.annotations[i].Position = *input.Position
		}
		if input.Content != nil {
			s.annotations[i].Content = *input.Content
		}
		if input.Color != nil && input.Color.Valid() {
			s.annotations[i].Color = *input.Color
		}
		now := time.Now().UTC()
		s.annotations[i].UpdatedAt = &now
		return s.annotations[i], true
	}
	return Annotation{}, false
}

// Delete removes the annotation by id. If it was selected, the selection is
// cleared in the same update so no dangling reference survives.
func (s *AnnotationState) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.annotations {
		if s.annotations[i].ID != id {
			continue
		}
		s.annotations = append(s.annotations[:i], s.annotations[i+1:]...)
		if s.selectedAnnotationID == id {
			s.selectedAnnotationID = ""
		}
		return true
	}
	return false
}

// Select marks at most one annotation as selected; empty id deselects.
func (s *AnnotationState) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedAnnotationID = id
}

// SetTool switches the active tool; unknown tools are ignored.
func (s *AnnotationState) SetTool(tool Tool) {
	if !tool.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedTool = tool
}

// SetColor switches the active color; out-of-palette values are ignored.
func (s *AnnotationState) SetColor(color Color) {
	if !color.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedColor = color
}

// ToggleAiRegions flips detected-region overlay visibility.
func (s *AnnotationState) ToggleAiRegions() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showAiRegions = !s.showAiRegions
	return s.showAiRegions
}

// ToggleGrid flips grid overlay visibility.
func (s *AnnotationState) ToggleGrid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showGrid = !s.showGrid
	return s.showGrid
}

// Load replaces the annotation list wholesale, used when restoring a saved
// session. The stale selection is cleared.
func (s *AnnotationState) Load(annotations []Annotation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.annotations = append([]Annotation{}, annotations...)
	s.selectedAnnotationID = ""
}

// Clear empties the list and clears the selection.
func (s *AnnotationState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.annotations = []Annotation{}
	s.selectedAnnotationID = ""
}

// Annotations returns a copy of the list in z-order.
func (s *AnnotationState) Annotations() []Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Annotation{}, s.annotations...)
}

// Get returns the annotation with the given id.
func (s *AnnotationState) Get(id string) (Annotation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.annotations {
		if a.ID == id {
			return a, true
		}
	}
	return Annotation{}, false
}

// SelectedAnnotationID returns the current selection, empty when none.
func (s *AnnotationState) SelectedAnnotationID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedAnnotationID
}

// SelectedTool returns the active tool.
func (s *AnnotationState) SelectedTool() Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedTool
}

// SelectedColor returns the active color.
func (s *AnnotationState) SelectedColor() Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedColor
}

// ShowAiRegions reports whether detected-region overlays are visible.
func (s *AnnotationState) ShowAiRegions() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.showAiRegions
}

// ShowGrid reports whether the grid overlay is visible.
func (s *AnnotationState) ShowGrid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.showGrid
}
