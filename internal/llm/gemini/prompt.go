package gemini

import (
	"strings"

	"design-insight-backend/internal/analysis"
)

// BuildPrompt assembles the critique instruction sent alongside the
// screenshot. The model is asked for a single fenced JSON block matching the
// normalizer's schema; the normalizer tolerates it failing to comply.
func BuildPrompt(opts analysis.Options) string {
	if len(opts.Categories) == 0 {
		opts = analysis.DefaultOptions()
	}

	var b strings.Builder
	b.WriteString("You are a UX/UI design expert. Analyze the provided website screenshot and produce a detailed UX/UI critique.\n\n")
	b.WriteString("Guidelines:\n")
	b.WriteString("1. Observe the screen carefully: position, size, color, and arrangement of every element.\n")
	b.WriteString("2. Experience the screen from the user's point of view and identify usability problems and improvements.\n")
	b.WriteString("3. Express every boundingBox in percent units (0-100) with the image's top-left corner as (0,0).\n")
	b.WriteString(depthInstruction(opts.Depth))
	b.WriteString("\nAnalyze these categories: ")
	b.WriteString(categoryList(opts.Categories))
	b.WriteString(".\n\n")
	b.WriteString("Respond with a single ```json fenced block and no other text, shaped as:\n")
	b.WriteString(schemaOutline)
	return b.String()
}

func depthInstruction(depth analysis.Depth) string {
	switch depth {
	case analysis.DepthQuick:
		return "4. Keep the pass quick: top-level scores, the most important findings only.\n"
	case analysis.DepthDeep:
		return "4. Go deep: exhaustive findings per category, every detectable region, concrete improvement steps.\n"
	default:
		return "4. Provide a standard-depth pass: meaningful findings per category without exhaustive enumeration.\n"
	}
}

func categoryList(categories []analysis.Category) string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

const schemaOutline = "```json\n" + `{
  "summary": "2-3 sentence overall assessment",
  "score": 0-100,
  "categories": {
    "userFlow": {"score": 0-100, "flowSteps": [{"id": "step-1", "label": "", "description": "", "boundingBox": {"x": 0, "y": 0, "width": 0, "height": 0}, "order": 1, "type": "entry|action|decision|exit"}], "connections": [{"from": "step-1", "to": "step-2", "label": ""}], "findings": [{"type": "positive|negative|neutral", "description": "", "location": ""}], "recommendations": [""]},
    "heuristics": {"score": 0-100, "heuristics": [{"id": "visibility|match|control|consistency|error-prevention|recognition|flexibility|aesthetic|error-recovery|help", "name": "", "score": 0-100, "findings": [], "relatedRegions": []}]},
    "gestalt": {"score": 0-100, "principles": [{"name": "proximity|similarity|continuity|closure|figure-ground|common-region", "score": 0-100, "findings": [], "relatedRegions": []}]},
    "cognitive": {"score": 0-100, "cognitiveLoad": {"level": "low|medium|high", "analysis": "", "factors": []}, "fittsLaw": {"findings": [{"element": "", "analysis": "", "recommendation": ""}]}, "hicksLaw": {"findings": [{"element": "", "optionCount": 0, "analysis": "", "recommendation": ""}]}},
    "accessibility": {"score": 0-100, "wcagLevel": "A|AA|AAA", "issues": [{"criterion": "", "level": "A|AA|AAA", "description": "", "suggestion": "", "relatedRegions": []}], "colorContrast": {"score": 0-100, "issues": []}},
    "informationArchitecture": {"score": 0-100, "structure": {"depth": 0, "breadth": "narrow|balanced|wide", "analysis": ""}, "navigation": {"type": "horizontal|vertical|hamburger|mixed", "clarity": 0-100, "findability": 0-100}, "contentGrouping": {"score": 0-100, "analysis": ""}},
    "layout": {"score": 0-100, "gridSystem": {"detected": true, "columns": 12, "gutterWidth": "", "analysis": ""}, "alignment": {"score": 0-100, "issues": []}, "spacing": {"consistency": "low|medium|high", "analysis": ""}, "visualHierarchy": {"score": 0-100, "analysis": ""}},
    "typography": {"score": 0-100, "detectedFonts": [{"name": "", "usage": "heading|body|caption", "analysis": ""}], "hierarchy": {"levels": 0, "consistency": "low|medium|high", "analysis": ""}, "readability": {"score": 0-100, "lineHeight": "", "letterSpacing": "", "issues": []}},
    "color": {"score": 0-100, "palette": [{"hex": "#000000", "usage": "primary|secondary|accent|neutral|background", "percentage": 0}], "harmony": {"type": "", "score": 0-100, "analysis": ""}, "contrast": {"score": 0-100, "issues": []}, "emotionalImpact": ""},
    "motion": {"score": 0-100, "detected": false, "analysis": "", "potentialAnimations": [{"element": "", "suggestedMotion": "", "purpose": ""}]}
  },
  "detectedRegions": [{"id": "region-1", "type": "navigation|cta|content|form|image|header|footer|sidebar|card|button|input|link", "boundingBox": {"x": 0, "y": 0, "width": 0, "height": 0}, "label": "", "confidence": 0.0-1.0, "analysisNotes": ""}],
  "improvements": [{"id": "improvement-1", "category": "user-flow|heuristics|gestalt|cognitive|accessibility|information-architecture|layout|typography|color|motion", "priority": "high|medium|low", "title": "", "description": "", "relatedRegions": []}]
}` + "\n```\n"
