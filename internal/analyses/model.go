// Package analyses contains the business logic for the screenshot critique
// entry operation and the per-analysis history and session surface.
package analyses

import (
	"time"

	"design-insight-backend/internal/analysis"
	"design-insight-backend/internal/session"
)

// AllowedMIMETypes are the only accepted screenshot formats.
var AllowedMIMETypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/webp": "webp",
}

const (
	// MaxImageBytes is the raw payload ceiling.
	MaxImageBytes = 10 << 20
	// MaxImageBase64Len adjusts the ceiling for base64 inflation.
	MaxImageBase64Len = MaxImageBytes * 137 / 100
)

// Record is the full persisted analysis payload.
type Record struct {
	ID          string               `json:"id"`
	OwnerID     string               `json:"ownerId"`
	FileName    string               `json:"fileName"`
	ImageData   string               `json:"imageData"`
	ImageMeta   session.ImageMeta    `json:"imageMeta"`
	Result      analysis.Result      `json:"result"`
	Options     analysis.Options     `json:"options"`
	Annotations []session.Annotation `json:"annotations"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// Meta is the listing projection of a record.
type Meta struct {
	ID        string            `json:"id"`
	OwnerID   string            `json:"-"`
	FileName  string            `json:"fileName"`
	ImageMeta session.ImageMeta `json:"imageMeta"`
	Summary   string            `json:"summary"`
	Score     float64           `json:"score"`
	CreatedAt time.Time         `json:"createdAt"`
}

// MetaOf projects a record to its listing form.
func MetaOf(rec Record) Meta {
	return Meta{
		ID:        rec.ID,
		OwnerID:   rec.OwnerID,
		FileName:  rec.FileName,
		ImageMeta: rec.ImageMeta,
		Summary:   rec.Result.Summary,
		Score:     rec.Result.Score,
		CreatedAt: rec.CreatedAt,
	}
}

// AnalyzeInput is one critique request before validation.
type AnalyzeInput struct {
	ImageBase64 string
	MIMEType    string
	FileName    string
	APIKey      string
	Options     analysis.Options
}

// AnalyzeOutput is the entry operation's success payload.
type AnalyzeOutput struct {
	ID        string            `json:"id"`
	Result    analysis.Result   `json:"result"`
	ImageData string            `json:"imageData"`
	ImageMeta session.ImageMeta `json:"imageMeta"`
	CreatedAt time.Time         `json:"createdAt"`
}
