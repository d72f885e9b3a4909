package analysis

// Fixed messages substituted when the model response cannot be used.
const (
	parseFailureSummary = "The analysis response could not be parsed."
	noDataMessage       = "No analysis data available."
	motionDefaultNote   = "Motion cannot be analyzed from a static image."
)

// nielsenHeuristics is the fixed list every heuristics view renders against,
// regardless of what the model returned.
var nielsenHeuristics = []struct {
	id   string
	name string
}{
	{"visibility", "Visibility of system status"},
	{"match", "Match between system and the real world"},
	{"control", "User control and freedom"},
	{"consistency", "Consistency and standards"},
	{"error-prevention", "Error prevention"},
	{"recognition", "Recognition rather than recall"},
	{"flexibility", "Flexibility and efficiency of use"},
	{"aesthetic", "Aesthetic and minimalist design"},
	{"error-recovery", "Help users recognize, diagnose, and recover from errors"},
	{"help", "Help and documentation"},
}

// gestaltPrincipleNames is the fixed six-principle list.
var gestaltPrincipleNames = []string{
	"proximity",
	"similarity",
	"continuity",
	"closure",
	"figure-ground",
	"common-region",
}

func defaultUserFlow() UserFlowAnalysis {
	return UserFlowAnalysis{
		FlowSteps:       []FlowStep{},
		Connections:     []FlowConnection{},
		Findings:        []Finding{},
		Recommendations: []string{},
	}
}

func defaultHeuristics() HeuristicAnalysis {
	items := make([]HeuristicItem, 0, len(nielsenHeuristics))
	for _, h := range nielsenHeuristics {
		items = append(items, HeuristicItem{
			ID:             h.id,
			Name:           h.name,
			Findings:       []Finding{},
			RelatedRegions: []string{},
		})
	}
	return HeuristicAnalysis{Heuristics: items}
}

func defaultGestalt() GestaltAnalysis {
	principles := make([]GestaltPrinciple, 0, len(gestaltPrincipleNames))
	for _, name := range gestaltPrincipleNames {
		principles = append(principles, GestaltPrinciple{
			Name:           name,
			Findings:       []Finding{},
			RelatedRegions: []string{},
		})
	}
	return GestaltAnalysis{Principles: principles}
}

func defaultCognitive() CognitiveAnalysis {
	out := CognitiveAnalysis{
		CognitiveLoad: CognitiveLoad{
			Level:    "medium",
			Analysis: noDataMessage,
			Factors:  []string{},
		},
	}
	out.FittsLaw.Findings = []FittsFinding{}
	out.HicksLaw.Findings = []HicksFinding{}
	return out
}

func defaultAccessibility() AccessibilityAnalysis {
	return AccessibilityAnalysis{
		WCAGLevel:     "A",
		Issues:        []AccessibilityIssue{},
		ColorContrast: ColorContrast{Issues: []string{}},
	}
}

func defaultIA() IAAnalysis {
	return IAAnalysis{
		Structure: IAStructure{
			Breadth:  "balanced",
			Analysis: noDataMessage,
		},
		Navigation:      IANavigation{Type: "horizontal"},
		ContentGrouping: IAGrouping{Analysis: noDataMessage},
	}
}

func defaultLayout() LayoutAnalysis {
	return LayoutAnalysis{
		GridSystem: GridSystem{Analysis: noDataMessage},
		Alignment:  ScoredIssues{Issues: []string{}},
		Spacing: ConsistencyNote{
			Consistency: "medium",
			Analysis:    noDataMessage,
		},
		VisualHierarchy: ScoredNote{Analysis: noDataMessage},
	}
}

func defaultTypography() TypographyAnalysis {
	return TypographyAnalysis{
		DetectedFonts: []DetectedFont{},
		Hierarchy: TypeHierarchy{
			Consistency: "medium",
			Analysis:    noDataMessage,
		},
		Readability: Readability{
			LineHeight:    noDataMessage,
			LetterSpacing: noDataMessage,
			Issues:        []string{},
		},
	}
}

func defaultColor() ColorAnalysis {
	return ColorAnalysis{
		Palette: []ColorInfo{},
		Harmony: ColorHarmony{
			Type:     "unknown",
			Analysis: noDataMessage,
		},
		Contrast:        ScoredIssues{Issues: []string{}},
		EmotionalImpact: noDataMessage,
	}
}

func defaultMotion() MotionAnalysis {
	return MotionAnalysis{
		Analysis:            motionDefaultNote,
		PotentialAnimations: []PotentialAnimation{},
	}
}

// FallbackResult is the fully-populated zero-score result substituted when
// the raw response cannot be parsed at all. Every category is present so
// downstream rendering never has to branch on absence.
func FallbackResult() Result {
	return Result{
		Summary:         parseFailureSummary,
		Score:           0,
		Categories:      defaultCategorySet(),
		DetectedRegions: []DetectedRegion{},
		Improvements:    []Improvement{},
	}
}

func defaultCategorySet() CategorySet {
	return CategorySet{
		UserFlow:                defaultUserFlow(),
		Heuristics:              defaultHeuristics(),
		Gestalt:                 defaultGestalt(),
		Cognitive:               defaultCognitive(),
		Accessibility:           defaultAccessibility(),
		InformationArchitecture: defaultIA(),
		Layout:                  defaultLayout(),
		Typography:              defaultTypography(),
		Color:                   defaultColor(),
		Motion:                  defaultMotion(),
	}
}
