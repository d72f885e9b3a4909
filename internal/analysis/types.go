// Package analysis defines the strict critique schema produced by the
// response normalizer and consumed by every downstream view. The model's raw
// output is never exposed; callers only ever see a fully-populated Result.
package analysis

import "design-insight-backend/internal/geometry"

// Category identifies one of the ten fixed critique dimensions.
type Category string

const (
	CategoryUserFlow      Category = "user-flow"
	CategoryHeuristics    Category = "heuristics"
	CategoryGestalt       Category = "gestalt"
	CategoryCognitive     Category = "cognitive"
	CategoryAccessibility Category = "accessibility"
	CategoryIA            Category = "information-architecture"
	CategoryLayout        Category = "layout"
	CategoryTypography    Category = "typography"
	CategoryColor         Category = "color"
	CategoryMotion        Category = "motion"
)

// Categories lists every critique dimension in presentation order.
var Categories = []Category{
	CategoryUserFlow,
	CategoryHeuristics,
	CategoryGestalt,
	CategoryCognitive,
	CategoryAccessibility,
	CategoryIA,
	CategoryLayout,
	CategoryTypography,
	CategoryColor,
	CategoryMotion,
}

// Valid reports whether c is one of the ten known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// RegionType classifies an AI-detected UI element.
type RegionType string

const (
	RegionNavigation RegionType = "navigation"
	RegionCTA        RegionType = "cta"
	RegionContent    RegionType = "content"
	RegionForm       RegionType = "form"
	RegionImage      RegionType = "image"
	RegionHeader     RegionType = "header"
	RegionFooter     RegionType = "footer"
	RegionSidebar    RegionType = "sidebar"
	RegionCard       RegionType = "card"
	RegionButton     RegionType = "button"
	RegionInput      RegionType = "input"
	RegionLink       RegionType = "link"
)

// DetectedRegion is an AI-identified UI element with its location. Immutable
// once produced by normalization.
type DetectedRegion struct {
	ID            string       `json:"id"`
	Type          RegionType   `json:"type"`
	BoundingBox   geometry.Box `json:"boundingBox"`
	Label         string       `json:"label"`
	Confidence    float64      `json:"confidence"`
	AnalysisNotes string       `json:"analysisNotes"`
}

// Finding is a single positive/negative/neutral observation.
type Finding struct {
	Type        string `json:"type"` // positive|negative|neutral
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
}

// Improvement is a prioritized, category-tagged suggestion.
type Improvement struct {
	ID             string   `json:"id"`
	Category       Category `json:"category"`
	Priority       string   `json:"priority"` // high|medium|low
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RelatedRegions []string `json:"relatedRegions"`
}

// FlowStep is one node in the inferred user flow.
type FlowStep struct {
	ID          string       `json:"id"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
	BoundingBox geometry.Box `json:"boundingBox"`
	Order       int          `json:"order"`
	Type        string       `json:"type"` // entry|action|decision|exit
}

// FlowConnection links two flow steps.
type FlowConnection struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// UserFlowAnalysis covers task flow through the screen.
type UserFlowAnalysis struct {
	Score           float64          `json:"score"`
	FlowSteps       []FlowStep       `json:"flowSteps"`
	Connections     []FlowConnection `json:"connections"`
	Findings        []Finding        `json:"findings"`
	Recommendations []string         `json:"recommendations"`
}

// HeuristicItem scores one of Nielsen's ten usability heuristics.
type HeuristicItem struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Score          float64   `json:"score"`
	Findings       []Finding `json:"findings"`
	RelatedRegions []string  `json:"relatedRegions"`
}

// HeuristicAnalysis always carries the fixed ten-item list; the heuristics
// view renders against it unconditionally.
type HeuristicAnalysis struct {
	Score      float64         `json:"score"`
	Heuristics []HeuristicItem `json:"heuristics"`
}

// GestaltPrinciple scores one of the six fixed perception principles.
type GestaltPrinciple struct {
	Name           string    `json:"name"` // proximity|similarity|continuity|closure|figure-ground|common-region
	Score          float64   `json:"score"`
	Findings       []Finding `json:"findings"`
	RelatedRegions []string  `json:"relatedRegions"`
}

// GestaltAnalysis always carries the fixed six-principle list.
type GestaltAnalysis struct {
	Score      float64            `json:"score"`
	Principles []GestaltPrinciple `json:"principles"`
}

// CognitiveLoad summarizes perceived mental effort.
type CognitiveLoad struct {
	Level    string   `json:"level"` // low|medium|high
	Analysis string   `json:"analysis"`
	Factors  []string `json:"factors"`
}

// FittsFinding evaluates target acquisition for one element.
type FittsFinding struct {
	Element        string `json:"element"`
	Analysis       string `json:"analysis"`
	Recommendation string `json:"recommendation"`
}

// HicksFinding evaluates choice overload for one element.
type HicksFinding struct {
	Element        string `json:"element"`
	OptionCount    int    `json:"optionCount"`
	Analysis       string `json:"analysis"`
	Recommendation string `json:"recommendation"`
}

// CognitiveAnalysis covers cognitive load plus Fitts/Hicks law findings.
type CognitiveAnalysis struct {
	Score         float64       `json:"score"`
	CognitiveLoad CognitiveLoad `json:"cognitiveLoad"`
	FittsLaw      struct {
		Findings []FittsFinding `json:"findings"`
	} `json:"fittsLaw"`
	HicksLaw struct {
		Findings []HicksFinding `json:"findings"`
	} `json:"hicksLaw"`
}

// AccessibilityIssue is one WCAG criterion violation.
type AccessibilityIssue struct {
	Criterion      string   `json:"criterion"`
	Level          string   `json:"level"` // A|AA|AAA
	Description    string   `json:"description"`
	Suggestion     string   `json:"suggestion"`
	RelatedRegions []string `json:"relatedRegions"`
}

// ColorContrast summarizes contrast conformance.
type ColorContrast struct {
	Score  float64  `json:"score"`
	Issues []string `json:"issues"`
}

// AccessibilityAnalysis covers WCAG conformance of the screen.
type AccessibilityAnalysis struct {
	Score         float64              `json:"score"`
	WCAGLevel     string               `json:"wcagLevel"` // A|AA|AAA
	Issues        []AccessibilityIssue `json:"issues"`
	ColorContrast ColorContrast        `json:"colorContrast"`
}

// IAStructure describes hierarchy depth and breadth.
type IAStructure struct {
	Depth    int    `json:"depth"`
	Breadth  string `json:"breadth"` // narrow|balanced|wide
	Analysis string `json:"analysis"`
}

// IANavigation describes the detected navigation pattern.
type IANavigation struct {
	Type        string  `json:"type"` // horizontal|vertical|hamburger|mixed
	Clarity     float64 `json:"clarity"`
	Findability float64 `json:"findability"`
}

// IAGrouping scores content grouping quality.
type IAGrouping struct {
	Score    float64 `json:"score"`
	Analysis string  `json:"analysis"`
}

// IAAnalysis covers information architecture.
type IAAnalysis struct {
	Score           float64      `json:"score"`
	Structure       IAStructure  `json:"structure"`
	Navigation      IANavigation `json:"navigation"`
	ContentGrouping IAGrouping   `json:"contentGrouping"`
}

// GridSystem describes a detected column grid, if any.
type GridSystem struct {
	Detected    bool   `json:"detected"`
	Columns     int    `json:"columns,omitempty"`
	GutterWidth string `json:"gutterWidth,omitempty"`
	Analysis    string `json:"analysis"`
}

// ScoredIssues pairs a score with free-text issues.
type ScoredIssues struct {
	Score  float64  `json:"score"`
	Issues []string `json:"issues"`
}

// ConsistencyNote pairs a low/medium/high rating with commentary.
type ConsistencyNote struct {
	Consistency string `json:"consistency"` // low|medium|high
	Analysis    string `json:"analysis"`
}

// ScoredNote pairs a score with commentary.
type ScoredNote struct {
	Score    float64 `json:"score"`
	Analysis string  `json:"analysis"`
}

// LayoutAnalysis covers grid, alignment, spacing and hierarchy.
type LayoutAnalysis struct {
	Score           float64         `json:"score"`
	GridSystem      GridSystem      `json:"gridSystem"`
	Alignment       ScoredIssues    `json:"alignment"`
	Spacing         ConsistencyNote `json:"spacing"`
	VisualHierarchy ScoredNote      `json:"visualHierarchy"`
}

// DetectedFont is one typeface usage observation.
type DetectedFont struct {
	Name     string `json:"name"`
	Usage    string `json:"usage"` // heading|body|caption
	Analysis string `json:"analysis"`
}

// TypeHierarchy describes the detected type scale.
type TypeHierarchy struct {
	Levels      int    `json:"levels"`
	Consistency string `json:"consistency"` // low|medium|high
	Analysis    string `json:"analysis"`
}

// Readability scores text legibility.
type Readability struct {
	Score         float64  `json:"score"`
	LineHeight    string   `json:"lineHeight"`
	LetterSpacing string   `json:"letterSpacing"`
	Issues        []string `json:"issues"`
}

// TypographyAnalysis covers fonts, hierarchy and readability.
type TypographyAnalysis struct {
	Score         float64        `json:"score"`
	DetectedFonts []DetectedFont `json:"detectedFonts"`
	Hierarchy     TypeHierarchy  `json:"hierarchy"`
	Readability   Readability    `json:"readability"`
}

// ColorInfo is one palette entry.
type ColorInfo struct {
	Hex        string  `json:"hex"`
	Usage      string  `json:"usage"` // primary|secondary|accent|neutral|background
	Percentage float64 `json:"percentage"`
}

// ColorHarmony describes the palette's harmony scheme.
type ColorHarmony struct {
	Type     string  `json:"type"`
	Score    float64 `json:"score"`
	Analysis string  `json:"analysis"`
}

// ColorAnalysis covers palette, harmony, contrast and emotional impact.
type ColorAnalysis struct {
	Score           float64      `json:"score"`
	Palette         []ColorInfo  `json:"palette"`
	Harmony         ColorHarmony `json:"harmony"`
	Contrast        ScoredIssues `json:"contrast"`
	EmotionalImpact string       `json:"emotionalImpact"`
}

// PotentialAnimation is a motion suggestion for a static element.
type PotentialAnimation struct {
	Element         string `json:"element"`
	SuggestedMotion string `json:"suggestedMotion"`
	Purpose         string `json:"purpose"`
}

// MotionAnalysis covers detected or suggested motion design.
type MotionAnalysis struct {
	Score               float64              `json:"score"`
	Detected            bool                 `json:"detected"`
	Analysis            string               `json:"analysis"`
	PotentialAnimations []PotentialAnimation `json:"potentialAnimations"`
}

// CategorySet holds the ten fixed sub-analyses. Every field is always
// populated; downstream rendering indexes them unconditionally.
type CategorySet struct {
	UserFlow                UserFlowAnalysis      `json:"userFlow"`
	Heuristics              HeuristicAnalysis     `json:"heuristics"`
	Gestalt                 GestaltAnalysis       `json:"gestalt"`
	Cognitive               CognitiveAnalysis     `json:"cognitive"`
	Accessibility           AccessibilityAnalysis `json:"accessibility"`
	InformationArchitecture IAAnalysis            `json:"informationArchitecture"`
	Layout                  LayoutAnalysis        `json:"layout"`
	Typography              TypographyAnalysis    `json:"typography"`
	Color                   ColorAnalysis         `json:"color"`
	Motion                  MotionAnalysis        `json:"motion"`
}

// Result is the full normalized critique for one screenshot.
type Result struct {
	Summary         string           `json:"summary"`
	Score           float64          `json:"score"`
	Categories      CategorySet      `json:"categories"`
	DetectedRegions []DetectedRegion `json:"detectedRegions"`
	Improvements    []Improvement    `json:"improvements"`
}

// Depth selects how thorough the model critique should be.
type Depth string

const (
	DepthQuick    Depth = "quick"
	DepthStandard Depth = "standard"
	DepthDeep     Depth = "deep"
)

// Options selects which categories to analyze and how deeply.
type Options struct {
	Categories []Category `json:"categories"`
	Depth      Depth      `json:"depth"`
}

// DefaultOptions requests a standard-depth pass over every category.
func DefaultOptions() Options {
	cats := make([]Category, len(Categories))
	copy(cats, Categories)
	return Options{Categories: cats, Depth: DepthStandard}
}
