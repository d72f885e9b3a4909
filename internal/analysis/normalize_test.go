package analysis

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"
)

func assertFullShape(t *testing.T, result Result) {
	t.Helper()
	if len(result.Categories.Heuristics.Heuristics) != 10 {
		t.Fatalf("expected 10 heuristic items, got %d", len(result.Categories.Heuristics.Heuristics))
	}
	if len(result.Categories.Gestalt.Principles) != 6 {
		t.Fatalf("expected 6 gestalt principles, got %d", len(result.Categories.Gestalt.Principles))
	}
	if result.DetectedRegions == nil || result.Improvements == nil {
		t.Fatal("region/improvement lists must never be nil")
	}
	if result.Categories.UserFlow.FlowSteps == nil || result.Categories.Typography.DetectedFonts == nil {
		t.Fatal("category list fields must never be nil")
	}
}

func TestNormalizeGarbageInputs(t *testing.T) {
	inputs := map[string]string{
		"empty":            "",
		"plain prose":      "The layout looks fine to me overall.",
		"broken json":      `{"summary": "oops", "score": `,
		"non-object json":  `[1, 2, 3]`,
		"fence no payload": "```json\n\n```",
	}
	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			result := Normalize(raw)
			if result.Score != 0 {
				t.Fatalf("fallback score must be 0, got %v", result.Score)
			}
			if result.Summary != parseFailureSummary {
				t.Fatalf("unexpected fallback summary: %q", result.Summary)
			}
			assertFullShape(t, result)
		})
	}
}

func TestNormalizeMissingRequiredFields(t *testing.T) {
	cases := map[string]string{
		"no summary":        `{"score": 80}`,
		"no score":          `{"summary": "decent"}`,
		"score not numeric": `{"summary": "decent", "score": "eighty"}`,
		"summary blank":     `{"summary": "   ", "score": 80}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			result := Normalize(raw)
			if result.Summary != parseFailureSummary || result.Score != 0 {
				t.Fatalf("expected full fallback, got summary=%q score=%v", result.Summary, result.Score)
			}
			assertFullShape(t, result)
		})
	}
}

func TestNormalizeExtractsFencedJSONBlock(t *testing.T) {
	raw := "Here is the critique you asked for.\n```json\n{\"summary\": \"Good layout\", \"score\": 72}\n```\nLet me know if you need more."
	result := Normalize(raw)
	if result.Summary != "Good layout" || result.Score != 72 {
		t.Fatalf("fenced block not extracted: %+v", result)
	}
	assertFullShape(t, result)
}

func TestNormalizePrefersJSONFenceOverPlainFence(t *testing.T) {
	raw := "```\nnot the payload\n```\n```json\n{\"summary\": \"ok\", \"score\": 10}\n```"
	result := Normalize(raw)
	if result.Summary != "ok" {
		t.Fatalf("expected json fence to win, got %q", result.Summary)
	}
}

func TestNormalizePlainFenceFallback(t *testing.T) {
	raw := "```\n{\"summary\": \"ok\", \"score\": 10}\n```"
	if result := Normalize(raw); result.Summary != "ok" || result.Score != 10 {
		t.Fatalf("plain fence not used: %+v", result)
	}
}

func TestNormalizePerCategoryIndependence(t *testing.T) {
	raw := `{
  "summary": "color only",
  "score": 55,
  "categories": {
    "color": {
      "score": 88,
      "palette": [{"hex": "#112233", "usage": "primary", "percentage": 40}],
      "harmony": {"type": "analogous", "score": 70, "analysis": "calm"},
      "contrast": {"score": 60, "issues": []},
      "emotionalImpact": "serene"
    }
  }
}`
	result := Normalize(raw)
	assertFullShape(t, result)

	color := result.Categories.Color
	if color.Score != 88 || len(color.Palette) != 1 || color.Harmony.Type != "analogous" {
		t.Fatalf("supplied color subtree not kept intact: %+v", color)
	}

	if result.Categories.Layout.Score != 0 || result.Categories.Layout.Spacing.Consistency != "medium" {
		t.Fatalf("layout should be default: %+v", result.Categories.Layout)
	}
	if result.Categories.Accessibility.WCAGLevel != "A" {
		t.Fatalf("accessibility wcagLevel default should be A, got %q", result.Categories.Accessibility.WCAGLevel)
	}
	if result.Categories.Cognitive.CognitiveLoad.Level != "medium" {
		t.Fatalf("cognitive load default should be medium, got %q", result.Categories.Cognitive.CognitiveLoad.Level)
	}
	if result.Categories.InformationArchitecture.Structure.Breadth != "balanced" {
		t.Fatalf("ia breadth default should be balanced, got %q", result.Categories.InformationArchitecture.Structure.Breadth)
	}
}

func TestNormalizeMalformedCategoryFallsBackAlone(t *testing.T) {
	raw := `{
  "summary": "mixed",
  "score": 40,
  "categories": {
    "layout": "not an object",
    "motion": {"score": 65, "detected": true, "analysis": "subtle", "potentialAnimations": []}
  }
}`
	result := Normalize(raw)
	if result.Categories.Layout.Score != 0 {
		t.Fatalf("malformed layout should fall back: %+v", result.Categories.Layout)
	}
	if result.Categories.Motion.Score != 65 || !result.Categories.Motion.Detected {
		t.Fatalf("motion sibling should survive: %+v", result.Categories.Motion)
	}
}

func TestNormalizeHeuristicsKeepFixedList(t *testing.T) {
	raw := `{
  "summary": "ok",
  "score": 50,
  "categories": {
    "heuristics": {
      "score": 61,
      "heuristics": [
        {"id": "visibility", "name": "Visibility of system status", "score": 90, "findings": [{"type": "positive", "description": "clear loading states"}], "relatedRegions": ["r1"]},
        {"id": "bogus", "name": "Not a heuristic", "score": 99}
      ]
    }
  }
}`
	result := Normalize(raw)
	items := result.Categories.Heuristics.Heuristics
	if len(items) != 10 {
		t.Fatalf("fixed list must stay at 10 entries, got %d", len(items))
	}
	if items[0].ID != "visibility" || items[0].Score != 90 || len(items[0].Findings) != 1 {
		t.Fatalf("supplied heuristic not merged: %+v", items[0])
	}
	for _, item := range items {
		if item.ID == "bogus" {
			t.Fatal("unknown heuristic id must be dropped")
		}
	}
	if items[4].ID != "error-prevention" || items[4].Score != 0 {
		t.Fatalf("unsupplied heuristic should stay default: %+v", items[4])
	}
}

func TestNormalizeClampsScoresAndRegions(t *testing.T) {
	raw := `{
  "summary": "wild values",
  "score": 250,
  "detectedRegions": [
    {"id": "r1", "type": "cta", "boundingBox": {"x": 90, "y": -5, "width": 40, "height": 20}, "label": "Buy", "confidence": 1.7},
    {"type": "button", "boundingBox": {"x": 10, "y": 10, "width": 5, "height": 5}, "label": "Menu", "confidence": 0.5}
  ],
  "improvements": [
    {"category": "color", "priority": "urgent", "title": "t", "description": "d", "relatedRegions": ["r1", "ghost"]}
  ]
}`
	result := Normalize(raw)
	if result.Score != 100 {
		t.Fatalf("score should clamp to 100, got %v", result.Score)
	}

	r1 := result.DetectedRegions[0]
	if r1.BoundingBox.X+r1.BoundingBox.Width > 100 || r1.BoundingBox.Y < 0 {
		t.Fatalf("bounding box not clamped: %+v", r1.BoundingBox)
	}
	if r1.Confidence != 1 {
		t.Fatalf("confidence should clamp to 1, got %v", r1.Confidence)
	}
	if result.DetectedRegions[1].ID == "" {
		t.Fatal("missing region id should be filled")
	}

	imp := result.Improvements[0]
	if imp.ID == "" {
		t.Fatal("missing improvement id should be filled")
	}
	if imp.Priority != "medium" {
		t.Fatalf("invalid priority should default to medium, got %q", imp.Priority)
	}
	if len(imp.RelatedRegions) != 1 || imp.RelatedRegions[0] != "r1" {
		t.Fatalf("unresolved related region should be dropped: %v", imp.RelatedRegions)
	}
}

func TestNormalizedResultRoundTripsAllCategories(t *testing.T) {
	payload, err := json.Marshal(Normalize(""))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(payload, &top); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	var cats map[string]json.RawMessage
	if err := json.Unmarshal(top["categories"], &cats); err != nil {
		t.Fatalf("unmarshal categories: %v", err)
	}
	for _, key := range []string{"userFlow", "heuristics", "gestalt", "cognitive", "accessibility", "informationArchitecture", "layout", "typography", "color", "motion"} {
		if _, ok := cats[key]; !ok {
			t.Fatalf("serialized result missing category %q", key)
		}
	}
}

func TestExtractStructuredBlockRawPassthrough(t *testing.T) {
	raw := "   {\"summary\": \"s\", \"score\": 1}   "
	if got := extractStructuredBlock(raw); got != `{"summary": "s", "score": 1}` {
		t.Fatalf("raw text should be trimmed and passed through, got %q", got)
	}
	if strings.Contains(extractStructuredBlock("```json\n{}\n```"), "`") {
		t.Fatal("fence markers must be stripped")
	}
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	s := strings.Repeat("a", rawLogLimit-1) + "日本語"
	got := truncate(s, rawLogLimit)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated string splits a rune: %q", got)
	}
	if len(got) > rawLogLimit {
		t.Fatalf("truncated to %d bytes, want at most %d", len(got), rawLogLimit)
	}
	if got != strings.Repeat("a", rawLogLimit-1) {
		t.Fatal("expected the cut to land before the multi-byte rune")
	}
	if short := truncate("日本語", 64); short != "日本語" {
		t.Fatalf("short input must pass through unchanged, got %q", short)
	}
}
