package analyses

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"strings"
	"sync"
	"testing"

	"design-insight-backend/internal/analysis"
	"design-insight-backend/internal/llm"
	"design-insight-backend/internal/session"
	"design-insight-backend/internal/shared/storage/record/local"
)

type stubLLM struct {
	mu      sync.Mutex
	calls   int
	last    llm.AnalyzeInput
	raw     string
	err     error
	started chan struct{}
	block   chan struct{}
}

func (s *stubLLM) AnalyzeImage(ctx context.Context, input llm.AnalyzeInput) (string, error) {
	s.mu.Lock()
	s.calls++
	s.last = input
	started := s.started
	s.started = nil
	block := s.block
	s.mu.Unlock()
	if started != nil {
		close(started)
	}
	if block != nil {
		<-block
	}
	if s.err != nil {
		return "", s.err
	}
	return s.raw, nil
}

func (s *stubLLM) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testPNG(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newTestService(t *testing.T, client llm.Client) *Service {
	t.Helper()
	store := local.New(t.TempDir())
	return NewService(NewMemoryRepo(), store, client, session.NewManager(), "test-model")
}

const layoutOnlyResponse = "```json\n" + `{
  "summary": "A clean grid with generous spacing.",
  "score": 72,
  "categories": {
    "layout": {
      "score": 80,
      "gridSystem": {"detected": true, "columns": 12, "analysis": "12-column grid"},
      "alignment": {"score": 75, "issues": ["sidebar edge drifts"]},
      "spacing": {"consistency": "high", "analysis": "even rhythm"},
      "visualHierarchy": {"score": 78, "analysis": "clear primary action"}
    }
  },
  "detectedRegions": [],
  "improvements": []
}` + "\n```"

func TestAnalyzePersistsNormalizedResult(t *testing.T) {
	client := &stubLLM{raw: layoutOnlyResponse}
	svc := newTestService(t, client)

	out, err := svc.Analyze(context.Background(), "guest:g1", AnalyzeInput{
		ImageBase64: testPNG(t, 320, 240),
		MIMEType:    "image/png",
		APIKey:      "key-1",
		Options:     analysis.DefaultOptions(),
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if out.ID == "" {
		t.Fatalf("expected analysis id")
	}
	if out.Result.Score != 72 {
		t.Fatalf("expected score 72, got %v", out.Result.Score)
	}
	if out.Result.Categories.Layout.Score != 80 {
		t.Fatalf("expected layout score 80, got %v", out.Result.Categories.Layout.Score)
	}
	if out.Result.Categories.Color.Score != 0 {
		t.Fatalf("expected default color score, got %v", out.Result.Categories.Color.Score)
	}
	if out.ImageMeta.Width != 320 || out.ImageMeta.Height != 240 {
		t.Fatalf("unexpected image meta: %+v", out.ImageMeta)
	}
	if !strings.HasPrefix(out.ImageData, "data:image/png;base64,") {
		t.Fatalf("expected data URL prefix, got %q", out.ImageData)
	}

	rec, err := svc.Get(context.Background(), "guest:g1", out.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Result.Summary != "A clean grid with generous spacing." {
		t.Fatalf("unexpected persisted summary: %q", rec.Result.Summary)
	}
	if rec.Annotations == nil {
		t.Fatalf("annotations should be initialized")
	}

	metas, err := svc.List(context.Background(), "guest:g1", 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(metas) != 1 || metas[0].ID != out.ID {
		t.Fatalf("unexpected listing: %+v", metas)
	}
}

func TestAnalyzeMissingAPIKeySkipsProvider(t *testing.T) {
	client := &stubLLM{raw: layoutOnlyResponse}
	svc := newTestService(t, client)

	_, err := svc.Analyze(context.Background(), "guest:g1", AnalyzeInput{
		ImageBase64: testPNG(t, 10, 10),
		MIMEType:    "image/png",
	})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if client.callCount() != 0 {
		t.Fatalf("provider should not be called, got %d calls", client.callCount())
	}
}

func TestAnalyzeRejectsUnsupportedMIME(t *testing.T) {
	client := &stubLLM{raw: layoutOnlyResponse}
	svc := newTestService(t, client)

	_, err := svc.Analyze(context.Background(), "guest:g1", AnalyzeInput{
		ImageBase64: testPNG(t, 10, 10),
		MIMEType:    "image/gif",
		APIKey:      "key-1",
	})
	if !errors.Is(err, ErrUnsupportedMIME) {
		t.Fatalf("expected ErrUnsupportedMIME, got %v", err)
	}
	if client.callCount() != 0 {
		t.Fatalf("provider should not be called, got %d calls", client.callCount())
	}
}

func TestImagePayloadCeilingAccountsForBase64(t *testing.T) {
	if MaxImageBase64Len <= MaxImageBytes || MaxImageBase64Len >= 2*MaxImageBytes {
		t.Fatalf("base64 ceiling %d out of range for raw ceiling %d", MaxImageBase64Len, MaxImageBytes)
	}
}

func TestAnalyzeRejectsOversizedPayload(t *testing.T) {
	client := &stubLLM{raw: layoutOnlyResponse}
	svc := newTestService(t, client)

	_, err := svc.Analyze(context.Background(), "guest:g1", AnalyzeInput{
		ImageBase64: strings.Repeat("A", MaxImageBase64Len+1),
		MIMEType:    "image/png",
		APIKey:      "key-1",
	})
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}
}

func TestAnalyzeRejectsMismatchedPayload(t *testing.T) {
	client := &stubLLM{raw: layoutOnlyResponse}
	svc := newTestService(t, client)

	_, err := svc.Analyze(context.Background(), "guest:g1", AnalyzeInput{
		ImageBase64: testPNG(t, 10, 10),
		MIMEType:    "image/jpeg",
		APIKey:      "key-1",
	})
	if !errors.Is(err, ErrUnsupportedMIME) {
		t.Fatalf("expected ErrUnsupportedMIME for mismatched payload, got %v", err)
	}
}

func TestAnalyzeProviderErrorPropagates(t *testing.T) {
	client := &stubLLM{err: llm.ErrRateLimited}
	svc := newTestService(t, client)

	_, err := svc.Analyze(context.Background(), "guest:g1", AnalyzeInput{
		ImageBase64: testPNG(t, 10, 10),
		MIMEType:    "image/png",
		APIKey:      "key-1",
	})
	if !errors.Is(err, llm.ErrRateLimited) {
		t.Fatalf("expected rate limit error, got %v", err)
	}

	metas, err := svc.List(context.Background(), "guest:g1", 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(metas) != 0 {
		t.Fatalf("failed analysis must not be persisted: %+v", metas)
	}
}

func TestAnalyzeGarbageResponseFallsBackToDefaults(t *testing.T) {
	client := &stubLLM{raw: "I could not produce JSON, sorry."}
	svc := newTestService(t, client)

	out, err := svc.Analyze(context.Background(), "guest:g1", AnalyzeInput{
		ImageBase64: testPNG(t, 10, 10),
		MIMEType:    "image/png",
		APIKey:      "key-1",
	})
	if err != nil {
		t.Fatalf("analyze should absorb malformed responses: %v", err)
	}
	if out.Result.Score != 0 {
		t.Fatalf("expected fallback score 0, got %v", out.Result.Score)
	}
	if out.Result.Summary == "" {
		t.Fatalf("fallback summary should be populated")
	}
	if len(out.Result.Categories.Heuristics.Heuristics) != 10 {
		t.Fatalf("fallback must keep the fixed heuristic list")
	}
}

func TestAnalyzeDuplicateSubmissionRejected(t *testing.T) {
	client := &stubLLM{
		raw:     layoutOnlyResponse,
		started: make(chan struct{}),
		block:   make(chan struct{}),
	}
	svc := newTestService(t, client)

	img := testPNG(t, 10, 10)
	started := client.started
	done := make(chan error, 1)
	go func() {
		_, err := svc.Analyze(context.Background(), "guest:g1", AnalyzeInput{
			ImageBase64: img,
			MIMEType:    "image/png",
			APIKey:      "key-1",
		})
		done <- err
	}()

	// Wait until the first submission reaches the provider.
	<-started

	_, err := svc.Analyze(context.Background(), "guest:g1", AnalyzeInput{
		ImageBase64: img,
		MIMEType:    "image/png",
		APIKey:      "key-1",
	})
	if !errors.Is(err, ErrAnalysisInFlight) {
		t.Fatalf("expected ErrAnalysisInFlight, got %v", err)
	}

	close(client.block)
	if err := <-done; err != nil {
		t.Fatalf("first submission should succeed: %v", err)
	}
}

func TestDeleteRemovesRecordAndSession(t *testing.T) {
	client := &stubLLM{raw: layoutOnlyResponse}
	svc := newTestService(t, client)

	out, err := svc.Analyze(context.Background(), "guest:g1", AnalyzeInput{
		ImageBase64: testPNG(t, 10, 10),
		MIMEType:    "image/png",
		APIKey:      "key-1",
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if err := svc.Delete(context.Background(), "guest:g1", out.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), "guest:g1", out.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, ok := svc.Session(out.ID); ok {
		t.Fatalf("session should be dropped on delete")
	}
	if err := svc.Delete(context.Background(), "guest:g1", out.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete should report not found, got %v", err)
	}
}

func TestSaveAnnotationsRoundTrip(t *testing.T) {
	client := &stubLLM{raw: layoutOnlyResponse}
	svc := newTestService(t, client)

	out, err := svc.Analyze(context.Background(), "guest:g1", AnalyzeInput{
		ImageBase64: testPNG(t, 10, 10),
		MIMEType:    "image/png",
		APIKey:      "key-1",
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	sess, ok := svc.Session(out.ID)
	if !ok {
		t.Fatalf("expected session")
	}
	a := sess.Annotations.Add(session.CreateAnnotationInput{
		Type:     session.AnnotationMarker,
		Position: session.Position{X: 25, Y: 75},
		Content:  "logo feels cramped",
	})

	rec, err := svc.SaveAnnotations(context.Background(), "guest:g1", out.ID, sess.Annotations.Annotations())
	if err != nil {
		t.Fatalf("save annotations: %v", err)
	}
	if len(rec.Annotations) != 1 || rec.Annotations[0].ID != a.ID {
		t.Fatalf("unexpected saved annotations: %+v", rec.Annotations)
	}
	if rec.UpdatedAt.Before(rec.CreatedAt) {
		t.Fatalf("UpdatedAt must not precede CreatedAt")
	}

	reloaded, err := svc.Get(context.Background(), "guest:g1", out.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(reloaded.Annotations) != 1 {
		t.Fatalf("annotations should persist, got %+v", reloaded.Annotations)
	}
}
