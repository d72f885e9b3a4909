package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeRegions decodes the detectedRegions list, defaulting to empty when
// absent or undecodable. Bounding boxes are clamped into the image frame and
// missing ids are filled so downstream highlight cross-linking always has a
// stable key to work with.
func decodeRegions(raw json.RawMessage) []DetectedRegion {
	var regions []DetectedRegion
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &regions); err != nil {
			regions = nil
		}
	}
	if regions == nil {
		return []DetectedRegion{}
	}
	for i := range regions {
		if strings.TrimSpace(regions[i].ID) == "" {
			regions[i].ID = fmt.Sprintf("region-%d", i+1)
		}
		regions[i].BoundingBox = regions[i].BoundingBox.Clamp()
		if regions[i].Confidence < 0 {
			regions[i].Confidence = 0
		}
		if regions[i].Confidence > 1 {
			regions[i].Confidence = 1
		}
	}
	return regions
}

// decodeImprovements decodes the improvements list, defaulting to empty.
// relatedRegions entries that do not resolve to a detected region are
// dropped, and unknown category tags collapse to user-flow so the category
// index never sees an out-of-enum value.
func decodeImprovements(raw json.RawMessage, regions []DetectedRegion) []Improvement {
	var improvements []Improvement
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &improvements); err != nil {
			improvements = nil
		}
	}
	if improvements == nil {
		return []Improvement{}
	}

	known := make(map[string]struct{}, len(regions))
	for _, r := range regions {
		known[r.ID] = struct{}{}
	}

	for i := range improvements {
		if strings.TrimSpace(improvements[i].ID) == "" {
			improvements[i].ID = fmt.Sprintf("improvement-%d", i+1)
		}
		if !improvements[i].Category.Valid() {
			improvements[i].Category = CategoryUserFlow
		}
		switch improvements[i].Priority {
		case "high", "medium", "low":
		default:
			improvements[i].Priority = "medium"
		}
		resolved := make([]string, 0, len(improvements[i].RelatedRegions))
		for _, id := range improvements[i].RelatedRegions {
			if _, ok := known[id]; ok {
				resolved = append(resolved, id)
			}
		}
		improvements[i].RelatedRegions = resolved
	}
	return improvements
}
