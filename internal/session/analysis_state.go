package session

import (
	"sync"

	"design-insight-backend/internal/analysis"
)

// ImageMeta describes the analyzed screenshot.
type ImageMeta struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
}

// AnalysisState owns one analysis session: the loaded result and image, the
// in-flight/error flags, and the category/highlight view state. All fields
// are replaced atomically by SetAnalysis so a reader never sees a result
// paired with a stale image.
type AnalysisState struct {
	mu sync.RWMutex

	analysisID string
	current    *analysis.Result
	imageData  string
	imageMeta  *ImageMeta

	analyzing bool
	err       string

	activeCategory     analysis.Category
	highlightedRegions []string
}

// NewAnalysisState returns an empty state with the user-flow category
// active.
func NewAnalysisState() *AnalysisState {
	return &AnalysisState{
		activeCategory:     analysis.CategoryUserFlow,
		highlightedRegions: []string{},
	}
}

// SetAnalysis loads a result with its image in a single atomic replace and
// clears the transient flags. Partial updates are not supported.
func (s *AnalysisState) SetAnalysis(id string, result analysis.Result, imageData string, meta *ImageMeta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysisID = id
	s.current = &result
	s.imageData = imageData
	s.imageMeta = meta
	s.analyzing = false
	s.err = ""
}

// SetActiveCategory switches the active view; unknown categories are
// ignored so the state always holds one valid value.
func (s *AnalysisState) SetActiveCategory(category analysis.Category) {
	if !category.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeCategory = category
}

// HighlightRegion adds a region id to the highlight set if not present.
func (s *AnalysisState) HighlightRegion(regionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.highlightedRegions {
		if id == regionID {
			return
		}
	}
	s.highlightedRegions = append(s.highlightedRegions, regionID)
}

// HighlightRegions replaces the highlight set.
func (s *AnalysisState) HighlightRegions(regionIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.highlightedRegions = append([]string{}, regionIDs...)
}

// ClearHighlights empties the highlight set.
func (s *AnalysisState) ClearHighlights() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.highlightedRegions = []string{}
}

// ToggleRegion implements the region-click policy: clicking a highlighted
// region clears all highlights; clicking any other region focuses it alone.
func (s *AnalysisState) ToggleRegion(regionID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.highlightedRegions {
		if id == regionID {
			s.highlightedRegions = []string{}
			return s.copyHighlightsLocked()
		}
	}
	s.highlightedRegions = []string{regionID}
	return s.copyHighlightsLocked()
}

// SetAnalyzing flags an outstanding analysis request.
func (s *AnalysisState) SetAnalyzing(analyzing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzing = analyzing
}

// SetError records a request error; a non-empty error clears the analyzing
// flag.
func (s *AnalysisState) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = msg
	if msg != "" {
		s.analyzing = false
	}
}

// Reset returns the state to empty: no result, no image, view state back to
// defaults.
func (s *AnalysisState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysisID = ""
	s.current = nil
	s.imageData = ""
	s.imageMeta = nil
	s.analyzing = false
	s.err = ""
	s.activeCategory = analysis.CategoryUserFlow
	s.highlightedRegions = []string{}
}

// Ready reports whether a result and image are loaded.
func (s *AnalysisState) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.imageData != ""
}

// Current returns the loaded result, nil when the state is empty.
func (s *AnalysisState) Current() *analysis.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	out := *s.current
	return &out
}

// AnalysisID returns the loaded analysis id, empty when none.
func (s *AnalysisState) AnalysisID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analysisID
}

// ImageData returns the loaded base64 image payload.
func (s *AnalysisState) ImageData() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.imageData
}

// ImageMeta returns the loaded image metadata, nil when unknown.
func (s *AnalysisState) ImageMeta() *ImageMeta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.imageMeta == nil {
		return nil
	}
	out := *s.imageMeta
	return &out
}

// Analyzing reports whether a request is outstanding.
func (s *AnalysisState) Analyzing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analyzing
}

// Error returns the last request error, empty when none.
func (s *AnalysisState) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// ActiveCategory returns the active view category.
func (s *AnalysisState) ActiveCategory() analysis.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeCategory
}

// HighlightedRegions returns a copy of the highlight set.
func (s *AnalysisState) HighlightedRegions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyHighlightsLocked()
}

func (s *AnalysisState) copyHighlightsLocked() []string {
	return append([]string{}, s.highlightedRegions...)
}
