package analyses

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"design-insight-backend/internal/analysis"
	"design-insight-backend/internal/canvas"
	"design-insight-backend/internal/llm"
	"design-insight-backend/internal/session"
	"design-insight-backend/internal/shared/server/middleware"
	"design-insight-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis and session routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.analyze)
	rg.GET("/analyses", h.list)
	rg.GET("/analyses/:id", h.get)
	rg.DELETE("/analyses/:id", h.remove)
	rg.PUT("/analyses/:id/annotations", h.saveAnnotations)

	rg.PUT("/analyses/:id/category", h.setCategory)
	rg.POST("/analyses/:id/regions/:regionId/toggle", h.toggleRegion)

	rg.GET("/analyses/:id/session/annotations", h.listAnnotations)
	rg.POST("/analyses/:id/session/annotations", h.createAnnotation)
	rg.PATCH("/analyses/:id/session/annotations/:annotationId", h.updateAnnotation)
	rg.DELETE("/analyses/:id/session/annotations/:annotationId", h.deleteAnnotation)
	rg.POST("/analyses/:id/session/gesture", h.gesture)
	rg.PUT("/analyses/:id/session/tool", h.setTool)
}

type analyzeRequest struct {
	Image    string            `json:"image"`
	MIMEType string            `json:"mimeType"`
	FileName string            `json:"fileName"`
	APIKey   string            `json:"apiKey"`
	Options  *analysis.Options `json:"options"`
}

func (h *Handler) analyze(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(c.GetHeader("X-Api-Key"))
	}

	opts := analysis.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
		if opts.Depth == "" {
			opts.Depth = analysis.DepthStandard
		}
		if len(opts.Categories) == 0 {
			opts.Categories = analysis.DefaultOptions().Categories
		}
	}

	// Strip a data URL prefix if the client sent one.
	image := req.Image
	if idx := strings.Index(image, ";base64,"); idx >= 0 {
		image = image[idx+len(";base64,"):]
	}

	out, err := h.Svc.Analyze(c.Request.Context(), ownerID, AnalyzeInput{
		ImageBase64: image,
		MIMEType:    req.MIMEType,
		FileName:    req.FileName,
		APIKey:      apiKey,
		Options:     opts,
	})
	if err != nil {
		h.respondAnalyzeError(c, err)
		return
	}

	c.Set("analysisId", out.ID)
	respond.JSON(c, http.StatusCreated, out)
}

func (h *Handler) respondAnalyzeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMissingAPIKey):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "API key is required", nil)
	case errors.Is(err, ErrEmptyImage), errors.Is(err, ErrUnsupportedMIME), errors.Is(err, ErrImageTooLarge):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrAnalysisInFlight):
		respond.Error(c, http.StatusConflict, "analysis_in_flight", err.Error(), nil)
	case errors.Is(err, llm.ErrInvalidAPIKey):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "The provider rejected the API key", nil)
	case errors.Is(err, llm.ErrRateLimited):
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "The provider rate limit was hit, try again shortly", nil)
	case errors.Is(err, llm.ErrSafetyBlocked):
		respond.Error(c, http.StatusUnprocessableEntity, "ai_provider_error", "The provider declined to analyze this image", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "ai_provider_error", "analysis failed", nil)
	}
}

func (h *Handler) list(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	metas, err := h.Svc.List(c.Request.Context(), ownerID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to list analyses", nil)
		return
	}
	if metas == nil {
		metas = []Meta{}
	}
	respond.OK(c, metas)
}

func (h *Handler) get(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)
	analysisID := c.Param("id")
	c.Set("analysisId", analysisID)

	rec, err := h.Svc.Get(c.Request.Context(), ownerID, analysisID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to load analysis", nil)
		return
	}
	respond.OK(c, rec)
}

func (h *Handler) remove(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)
	analysisID := c.Param("id")
	c.Set("analysisId", analysisID)

	if err := h.Svc.Delete(c.Request.Context(), ownerID, analysisID); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to delete analysis", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

type saveAnnotationsRequest struct {
	Annotations []session.Annotation `json:"annotations"`
}

func (h *Handler) saveAnnotations(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)
	analysisID := c.Param("id")
	c.Set("analysisId", analysisID)

	var req saveAnnotationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	rec, err := h.Svc.SaveAnnotations(c.Request.Context(), ownerID, analysisID, req.Annotations)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to save annotations", nil)
		return
	}

	if sess, ok := h.Svc.Session(analysisID); ok {
		sess.Annotations.Load(rec.Annotations)
	}
	respond.OK(c, gin.H{"id": rec.ID, "updatedAt": rec.UpdatedAt, "annotations": rec.Annotations})
}

// sessionFor loads the analysis session, pulling the record from storage
// when the process has not seen this analysis yet.
func (h *Handler) sessionFor(c *gin.Context) (*session.Session, bool) {
	ownerID := middleware.OwnerIDFromContext(c)
	analysisID := c.Param("id")
	c.Set("analysisId", analysisID)

	if sess, ok := h.Svc.Session(analysisID); ok {
		return sess, true
	}
	if _, err := h.Svc.Get(c.Request.Context(), ownerID, analysisID); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		} else {
			respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to load analysis", nil)
		}
		return nil, false
	}
	sess, ok := h.Svc.Session(analysisID)
	if !ok {
		respond.Error(c, http.StatusInternalServerError, "internal", "session unavailable", nil)
	}
	return sess, ok
}

type setCategoryRequest struct {
	Category string `json:"category"`
}

func (h *Handler) setCategory(c *gin.Context) {
	sess, ok := h.sessionFor(c)
	if !ok {
		return
	}

	var req setCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	category := analysis.Category(req.Category)
	if !category.Valid() {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown category", nil)
		return
	}

	sess.Analysis.SetActiveCategory(category)
	respond.OK(c, gin.H{"activeCategory": sess.Analysis.ActiveCategory()})
}

func (h *Handler) toggleRegion(c *gin.Context) {
	sess, ok := h.sessionFor(c)
	if !ok {
		return
	}
	highlighted := sess.Analysis.ToggleRegion(c.Param("regionId"))
	respond.OK(c, gin.H{"highlightedRegions": highlighted})
}

func (h *Handler) listAnnotations(c *gin.Context) {
	sess, ok := h.sessionFor(c)
	if !ok {
		return
	}
	respond.OK(c, gin.H{
		"annotations":   sess.Annotations.Annotations(),
		"selectedId":    sess.Annotations.SelectedAnnotationID(),
		"selectedTool":  sess.Annotations.SelectedTool(),
		"selectedColor": sess.Annotations.SelectedColor(),
		"showAiRegions": sess.Annotations.ShowAiRegions(),
		"showGrid":      sess.Annotations.ShowGrid(),
	})
}

type createAnnotationRequest struct {
	Type     string           `json:"type"`
	Position session.Position `json:"position"`
	Content  string           `json:"content"`
	Color    string           `json:"color"`
}

func (h *Handler) createAnnotation(c *gin.Context) {
	sess, ok := h.sessionFor(c)
	if !ok {
		return
	}

	var req createAnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	annType := session.AnnotationType(req.Type)
	if !annType.Valid() {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown annotation type", nil)
		return
	}

	a := sess.Annotations.Add(session.CreateAnnotationInput{
		Type:     annType,
		Position: req.Position,
		Content:  req.Content,
		Color:    session.Color(req.Color),
	})
	respond.JSON(c, http.StatusCreated, a)
}

type updateAnnotationRequest struct {
	Position *session.Position `json:"position"`
	Content  *string           `json:"content"`
	Color    *string           `json:"color"`
}

func (h *Handler) updateAnnotation(c *gin.Context) {
	sess, ok := h.sessionFor(c)
	if !ok {
		return
	}

	var req updateAnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	input := session.UpdateAnnotationInput{
		Position: req.Position,
		Content:  req.Content,
	}
	if req.Color != nil {
		color := session.Color(*req.Color)
		if !color.Valid() {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unknown color", nil)
			return
		}
		input.Color = &color
	}

	a, found := sess.Annotations.Update(c.Param("annotationId"), input)
	if !found {
		respond.Error(c, http.StatusNotFound, "not_found", "annotation not found", nil)
		return
	}
	respond.OK(c, a)
}

func (h *Handler) deleteAnnotation(c *gin.Context) {
	sess, ok := h.sessionFor(c)
	if !ok {
		return
	}
	if !sess.Annotations.Delete(c.Param("annotationId")) {
		respond.Error(c, http.StatusNotFound, "not_found", "annotation not found", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

type gestureRequest struct {
	Tool   string                `json:"tool"`
	Events []canvas.PointerEvent `json:"events"`
}

// gesture replays a recorded pointer sequence through the canvas
// controller and commits at most one annotation.
func (h *Handler) gesture(c *gin.Context) {
	sess, ok := h.sessionFor(c)
	if !ok {
		return
	}

	var req gestureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if len(req.Events) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "events are required", nil)
		return
	}
	if req.Tool != "" {
		tool := session.Tool(req.Tool)
		if !tool.Valid() {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unknown tool", nil)
			return
		}
		sess.Annotations.SetTool(tool)
	}

	ctrl := canvas.NewController(sess)
	var committed *session.Annotation
	for _, ev := range req.Events {
		if a := ctrl.Handle(ev); a != nil && committed == nil {
			committed = a
		}
	}

	resp := gin.H{
		"annotation":         committed,
		"highlightedRegions": sess.Analysis.HighlightedRegions(),
		"selectedId":         sess.Annotations.SelectedAnnotationID(),
	}
	respond.OK(c, resp)
}

type setToolRequest struct {
	Tool  string `json:"tool"`
	Color string `json:"color"`
}

func (h *Handler) setTool(c *gin.Context) {
	sess, ok := h.sessionFor(c)
	if !ok {
		return
	}

	var req setToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Tool != "" {
		tool := session.Tool(req.Tool)
		if !tool.Valid() {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unknown tool", nil)
			return
		}
		sess.Annotations.SetTool(tool)
	}
	if req.Color != "" {
		color := session.Color(req.Color)
		if !color.Valid() {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unknown color", nil)
			return
		}
		sess.Annotations.SetColor(color)
	}
	respond.OK(c, gin.H{
		"selectedTool":  sess.Annotations.SelectedTool(),
		"selectedColor": sess.Annotations.SelectedColor(),
	})
}
