package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"design-insight-backend/internal/geometry"
)

func TestAddGeneratesUniqueIDsAndAppends(t *testing.T) {
	s := NewAnnotationState()

	seen := map[string]struct{}{}
	for i := 0; i < 5; i++ {
		a := s.Add(CreateAnnotationInput{
			Type:     AnnotationMarker,
			Position: PointPosition(geometry.Point{X: float64(i), Y: float64(i)}),
		})
		require.NotEmpty(t, a.ID)
		_, dup := seen[a.ID]
		require.False(t, dup, "annotation id %q reused", a.ID)
		seen[a.ID] = struct{}{}
		require.False(t, a.CreatedAt.IsZero())
	}

	list := s.Annotations()
	require.Len(t, list, 5)
	// Insertion order is z-order.
	assert.Equal(t, float64(0), list[0].Position.X)
	assert.Equal(t, float64(4), list[4].Position.X)
}

func TestAddFallsBackToSelectedColor(t *testing.T) {
	s := NewAnnotationState()
	s.SetColor("#ef4444")

	a := s.Add(CreateAnnotationInput{Type: AnnotationBox, Color: "#123456"})
	assert.Equal(t, Color("#ef4444"), a.Color)

	b := s.Add(CreateAnnotationInput{Type: AnnotationBox, Color: "#22c55e"})
	assert.Equal(t, Color("#22c55e"), b.Color)
}

func TestUpdateMergesAndStampsUpdatedAt(t *testing.T) {
	s := NewAnnotationState()
	a := s.Add(CreateAnnotationInput{
		Type:     AnnotationComment,
		Position: PointPosition(geometry.Point{X: 10, Y: 10}),
		Content:  "before",
	})

	content := "after"
	updated, ok := s.Update(a.ID, UpdateAnnotationInput{Content: &content})
	require.True(t, ok)
	assert.Equal(t, "after", updated.Content)
	assert.Equal(t, a.Position, updated.Position, "unspecified fields stay put")
	require.NotNil(t, updated.UpdatedAt)
}

func TestUpdateMissingIDIsSilentNoOp(t *testing.T) {
	s := NewAnnotationState()
	s.Add(CreateAnnotationInput{Type: AnnotationMarker})

	content := "x"
	_, ok := s.Update("missing", UpdateAnnotationInput{Content: &content})
	assert.False(t, ok)
	assert.Len(t, s.Annotations(), 1)
	assert.Empty(t, s.Annotations()[0].Content)
}

func TestDeleteClearsSelectionAtomically(t *testing.T) {
	s := NewAnnotationState()
	a := s.Add(CreateAnnotationInput{Type: AnnotationBox})
	b := s.Add(CreateAnnotationInput{Type: AnnotationBox})

	s.Select(a.ID)
	require.True(t, s.Delete(a.ID))
	assert.Empty(t, s.SelectedAnnotationID(), "deleting the selected annotation must clear selection")

	s.Select(b.ID)
	require.False(t, s.Delete("missing"))
	assert.Equal(t, b.ID, s.SelectedAnnotationID(), "unrelated delete keeps selection")
}

func TestToolAndColorValidation(t *testing.T) {
	s := NewAnnotationState()
	assert.Equal(t, ToolSelect, s.SelectedTool())
	assert.Equal(t, DefaultColor, s.SelectedColor())

	s.SetTool(ToolBox)
	assert.Equal(t, ToolBox, s.SelectedTool())
	s.SetTool("lasso")
	assert.Equal(t, ToolBox, s.SelectedTool(), "unknown tool ignored")

	s.SetColor("#fff")
	assert.Equal(t, DefaultColor, s.SelectedColor(), "out-of-palette color ignored")
}

func TestViewToggleDefaultsAndFlips(t *testing.T) {
	s := NewAnnotationState()
	assert.True(t, s.ShowAiRegions())
	assert.False(t, s.ShowGrid())

	assert.False(t, s.ToggleAiRegions())
	assert.True(t, s.ToggleGrid())
}

func TestLoadAndClear(t *testing.T) {
	s := NewAnnotationState()
	a := s.Add(CreateAnnotationInput{Type: AnnotationMarker})
	s.Select(a.ID)

	restored := []Annotation{
		{ID: "a1", Type: AnnotationBox, Color: DefaultColor},
		{ID: "a2", Type: AnnotationComment, Color: DefaultColor},
	}
	s.Load(restored)
	assert.Len(t, s.Annotations(), 2)
	assert.Empty(t, s.SelectedAnnotationID(), "load replaces, selection cleared")

	s.Select("a2")
	s.Clear()
	assert.Empty(t, s.Annotations())
	assert.Empty(t, s.SelectedAnnotationID())
}
