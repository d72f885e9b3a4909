package analysis

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"design-insight-backend/internal/shared/metrics"
	"design-insight-backend/internal/shared/telemetry"
)

const rawLogLimit = 500

var (
	jsonBlockRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	codeBlockRe = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// Normalize turns the model's raw text output into a strictly valid Result.
// It is a total function: any input, including garbage, yields a
// fully-populated result. Malformation is absorbed per category, not
// all-or-nothing.
func Normalize(raw string) Result {
	payload := extractStructuredBlock(raw)

	var envelope rawEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		logParseFailure("unmarshal failed", err, raw)
		return FallbackResult()
	}
	if envelope.Summary == nil || strings.TrimSpace(*envelope.Summary) == "" || envelope.Score == nil {
		logParseFailure("required fields missing", nil, raw)
		return FallbackResult()
	}

	result := Result{
		Summary:         *envelope.Summary,
		Score:           clampScore(*envelope.Score),
		Categories:      normalizeCategories(envelope.Categories),
		DetectedRegions: decodeRegions(envelope.DetectedRegions),
		Improvements:    []Improvement{},
	}
	result.Improvements = decodeImprovements(envelope.Improvements, result.DetectedRegions)
	return result
}

// rawEnvelope is the optional-everything intermediate representation the
// normalizer folds against the default record. Pointer and RawMessage fields
// distinguish absent from zero.
type rawEnvelope struct {
	Summary         *string                    `json:"summary"`
	Score           *float64                   `json:"score"`
	Categories      map[string]json.RawMessage `json:"categories"`
	DetectedRegions json.RawMessage            `json:"detectedRegions"`
	Improvements    json.RawMessage            `json:"improvements"`
}

// extractStructuredBlock locates the fenced JSON block inside the model's
// prose. Preference order: a ```json fence, then any fence, then the raw
// text verbatim.
func extractStructuredBlock(raw string) string {
	if m := jsonBlockRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := codeBlockRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(raw)
}

func normalizeCategories(raw map[string]json.RawMessage) CategorySet {
	out := defaultCategorySet()
	if raw == nil {
		return out
	}
	// Each category is substituted independently: a present subtree is
	// decoded over its default so partially-shaped objects keep correct
	// defaults for whatever they omit, and a subtree that fails to decode
	// falls back alone without poisoning its siblings.
	decodeCategory(raw, "userFlow", &out.UserFlow, defaultUserFlow)
	decodeCategory(raw, "heuristics", &out.Heuristics, defaultHeuristics)
	decodeCategory(raw, "gestalt", &out.Gestalt, defaultGestalt)
	decodeCategory(raw, "cognitive", &out.Cognitive, defaultCognitive)
	decodeCategory(raw, "accessibility", &out.Accessibility, defaultAccessibility)
	decodeCategory(raw, "informationArchitecture", &out.InformationArchitecture, defaultIA)
	decodeCategory(raw, "layout", &out.Layout, defaultLayout)
	decodeCategory(raw, "typography", &out.Typography, defaultTypography)
	decodeCategory(raw, "color", &out.Color, defaultColor)
	decodeCategory(raw, "motion", &out.Motion, defaultMotion)

	out.UserFlow = ensureUserFlow(out.UserFlow)
	out.Heuristics = ensureHeuristics(out.Heuristics)
	out.Gestalt = ensureGestalt(out.Gestalt)
	out.Cognitive = ensureCognitive(out.Cognitive)
	out.Accessibility = ensureAccessibility(out.Accessibility)
	out.InformationArchitecture = ensureIA(out.InformationArchitecture)
	out.Layout = ensureLayout(out.Layout)
	out.Typography = ensureTypography(out.Typography)
	out.Color = ensureColor(out.Color)
	out.Motion = ensureMotion(out.Motion)
	return out
}

func decodeCategory[T any](raw map[string]json.RawMessage, key string, dst *T, fallback func() T) {
	sub, ok := raw[key]
	if !ok || len(sub) == 0 || string(sub) == "null" {
		return
	}
	if err := json.Unmarshal(sub, dst); err != nil {
		*dst = fallback()
	}
}

func ensureUserFlow(v UserFlowAnalysis) UserFlowAnalysis {
	v.Score = clampScore(v.Score)
	if v.FlowSteps == nil {
		v.FlowSteps = []FlowStep{}
	}
	for i := range v.FlowSteps {
		v.FlowSteps[i].BoundingBox = v.FlowSteps[i].BoundingBox.Clamp()
	}
	if v.Connections == nil {
		v.Connections = []FlowConnection{}
	}
	v.Findings = ensureFindings(v.Findings)
	if v.Recommendations == nil {
		v.Recommendations = []string{}
	}
	return v
}

// ensureHeuristics keeps the fixed ten-item list intact. Model-supplied
// items are matched by id; everything unmatched stays at its default, so the
// heuristics view always has exactly ten rows.
func ensureHeuristics(v HeuristicAnalysis) HeuristicAnalysis {
	v.Score = clampScore(v.Score)
	supplied := make(map[string]HeuristicItem, len(v.Heuristics))
	for _, item := range v.Heuristics {
		supplied[item.ID] = item
	}
	fixed := defaultHeuristics().Heuristics
	for i := range fixed {
		item, ok := supplied[fixed[i].ID]
		if !ok {
			continue
		}
		fixed[i].Score = clampScore(item.Score)
		fixed[i].Findings = ensureFindings(item.Findings)
		fixed[i].RelatedRegions = ensureStrings(item.RelatedRegions)
		if strings.TrimSpace(item.Name) != "" {
			fixed[i].Name = item.Name
		}
	}
	v.Heuristics = fixed
	return v
}

// ensureGestalt keeps the fixed six-principle list, matched by name.
func ensureGestalt(v GestaltAnalysis) GestaltAnalysis {
	v.Score = clampScore(v.Score)
	supplied := make(map[string]GestaltPrinciple, len(v.Principles))
	for _, p := range v.Principles {
		supplied[p.Name] = p
	}
	fixed := defaultGestalt().Principles
	for i := range fixed {
		p, ok := supplied[fixed[i].Name]
		if !ok {
			continue
		}
		fixed[i].Score = clampScore(p.Score)
		fixed[i].Findings = ensureFindings(p.Findings)
		fixed[i].RelatedRegions = ensureStrings(p.RelatedRegions)
	}
	v.Principles = fixed
	return v
}

func ensureCognitive(v CognitiveAnalysis) CognitiveAnalysis {
	v.Score = clampScore(v.Score)
	switch v.CognitiveLoad.Level {
	case "low", "medium", "high":
	default:
		v.CognitiveLoad.Level = "medium"
	}
	if v.CognitiveLoad.Factors == nil {
		v.CognitiveLoad.Factors = []string{}
	}
	if v.FittsLaw.Findings == nil {
		v.FittsLaw.Findings = []FittsFinding{}
	}
	if v.HicksLaw.Findings == nil {
		v.HicksLaw.Findings = []HicksFinding{}
	}
	return v
}

func ensureAccessibility(v AccessibilityAnalysis) AccessibilityAnalysis {
	v.Score = clampScore(v.Score)
	switch v.WCAGLevel {
	case "A", "AA", "AAA":
	default:
		v.WCAGLevel = "A"
	}
	if v.Issues == nil {
		v.Issues = []AccessibilityIssue{}
	}
	for i := range v.Issues {
		v.Issues[i].RelatedRegions = ensureStrings(v.Issues[i].RelatedRegions)
	}
	v.ColorContrast.Score = clampScore(v.ColorContrast.Score)
	if v.ColorContrast.Issues == nil {
		v.ColorContrast.Issues = []string{}
	}
	return v
}

func ensureIA(v IAAnalysis) IAAnalysis {
	v.Score = clampScore(v.Score)
	switch v.Structure.Breadth {
	case "narrow", "balanced", "wide":
	default:
		v.Structure.Breadth = "balanced"
	}
	switch v.Navigation.Type {
	case "horizontal", "vertical", "hamburger", "mixed":
	default:
		v.Navigation.Type = "horizontal"
	}
	v.ContentGrouping.Score = clampScore(v.ContentGrouping.Score)
	return v
}

func ensureLayout(v LayoutAnalysis) LayoutAnalysis {
	v.Score = clampScore(v.Score)
	v.Alignment.Score = clampScore(v.Alignment.Score)
	if v.Alignment.Issues == nil {
		v.Alignment.Issues = []string{}
	}
	switch v.Spacing.Consistency {
	case "low", "medium", "high":
	default:
		v.Spacing.Consistency = "medium"
	}
	v.VisualHierarchy.Score = clampScore(v.VisualHierarchy.Score)
	return v
}

func ensureTypography(v TypographyAnalysis) TypographyAnalysis {
	v.Score = clampScore(v.Score)
	if v.DetectedFonts == nil {
		v.DetectedFonts = []DetectedFont{}
	}
	switch v.Hierarchy.Consistency {
	case "low", "medium", "high":
	default:
		v.Hierarchy.Consistency = "medium"
	}
	v.Readability.Score = clampScore(v.Readability.Score)
	if v.Readability.Issues == nil {
		v.Readability.Issues = []string{}
	}
	return v
}

func ensureColor(v ColorAnalysis) ColorAnalysis {
	v.Score = clampScore(v.Score)
	if v.Palette == nil {
		v.Palette = []ColorInfo{}
	}
	v.Harmony.Score = clampScore(v.Harmony.Score)
	v.Contrast.Score = clampScore(v.Contrast.Score)
	if v.Contrast.Issues == nil {
		v.Contrast.Issues = []string{}
	}
	return v
}

func ensureMotion(v MotionAnalysis) MotionAnalysis {
	v.Score = clampScore(v.Score)
	if v.PotentialAnimations == nil {
		v.PotentialAnimations = []PotentialAnimation{}
	}
	return v
}

func ensureFindings(v []Finding) []Finding {
	if v == nil {
		return []Finding{}
	}
	return v
}

func ensureStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func logParseFailure(reason string, err error, raw string) {
	metrics.IncParseFallback()
	fields := map[string]any{
		"reason": reason,
		"raw":    truncate(raw, rawLogLimit),
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	telemetry.Error("analysis.parse_failed", fields)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
