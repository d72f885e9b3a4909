package analyses

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"design-insight-backend/internal/analysis"
	"design-insight-backend/internal/llm"
	"design-insight-backend/internal/session"
	"design-insight-backend/internal/shared/metrics"
	"design-insight-backend/internal/shared/storage/record"
	"design-insight-backend/internal/shared/telemetry"
	"design-insight-backend/internal/shared/util"
)

// Service contains business logic for screenshot analyses.
type Service struct {
	Repo     Repo
	Store    record.Store
	LLM      llm.Client
	Sessions *session.Manager
	Model    string

	mu       sync.Mutex
	inFlight map[string]struct{} // ownerId -> submission in progress
}

// NewService constructs a Service.
func NewService(repo Repo, store record.Store, client llm.Client, sessions *session.Manager, model string) *Service {
	return &Service{
		Repo:     repo,
		Store:    store,
		LLM:      client,
		Sessions: sessions,
		Model:    model,
		inFlight: make(map[string]struct{}),
	}
}

// Analyze runs one critique end to end: validation, the provider call,
// normalization, persistence, and session bootstrap.
func (s *Service) Analyze(ctx context.Context, ownerID string, input AnalyzeInput) (AnalyzeOutput, error) {
	if err := validateInput(input); err != nil {
		return AnalyzeOutput{}, err
	}

	if !s.acquire(ownerID) {
		return AnalyzeOutput{}, ErrAnalysisInFlight
	}
	defer s.release(ownerID)

	data, err := base64.StdEncoding.DecodeString(input.ImageBase64)
	if err != nil {
		return AnalyzeOutput{}, fmt.Errorf("%w: invalid base64 payload", ErrEmptyImage)
	}
	if len(data) > MaxImageBytes {
		return AnalyzeOutput{}, ErrImageTooLarge
	}

	meta, err := decodeImageMeta(data, AllowedMIMETypes[input.MIMEType])
	if err != nil {
		if errors.Is(err, ErrUnsupportedMIME) {
			return AnalyzeOutput{}, err
		}
		return AnalyzeOutput{}, fmt.Errorf("%w: %v", ErrUnsupportedMIME, err)
	}

	payload, mime, err := downscaleForModel(data, meta)
	if err != nil {
		return AnalyzeOutput{}, err
	}

	metrics.IncAnalysisStarted()
	startedAt := time.Now().UTC()

	raw, err := s.LLM.AnalyzeImage(ctx, llm.AnalyzeInput{
		ImageBase64: encodeBase64(payload),
		MIMEType:    mime,
		APIKey:      input.APIKey,
		Options:     input.Options,
	})
	if err != nil {
		metrics.IncAnalysisFailed()
		telemetry.Error("analysis.provider_failed", map[string]any{
			"owner_id": ownerID,
			"error":    err.Error(),
		})
		return AnalyzeOutput{}, err
	}

	result := analysis.Normalize(raw)
	now := time.Now().UTC()

	fileName := "screenshot." + AllowedMIMETypes[input.MIMEType]
	if trimmed := strings.TrimSpace(input.FileName); trimmed != "" {
		if safe, err := util.SanitizeFileName(trimmed); err == nil {
			fileName = safe
		}
	}

	rec := Record{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		FileName:    fileName,
		ImageData:   dataURL(input.MIMEType, input.ImageBase64),
		ImageMeta:   meta,
		Result:      result,
		Options:     input.Options,
		Annotations: []session.Annotation{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.saveRecord(ctx, rec); err != nil {
		metrics.IncAnalysisFailed()
		return AnalyzeOutput{}, err
	}
	if err := s.Repo.Create(ctx, MetaOf(rec)); err != nil {
		metrics.IncAnalysisFailed()
		return AnalyzeOutput{}, err
	}

	sess := s.Sessions.GetOrCreate(rec.ID)
	sess.Analysis.SetAnalysis(rec.ID, result, rec.ImageData, &meta)

	completedAt := time.Now().UTC()
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(completedAt.Sub(startedAt).Milliseconds()))
	telemetry.Info("analysis.completed", map[string]any{
		"owner_id":    ownerID,
		"analysis_id": rec.ID,
		"score":       result.Score,
		"duration_ms": completedAt.Sub(startedAt).Milliseconds(),
		"model":       s.Model,
	})

	return AnalyzeOutput{
		ID:        rec.ID,
		Result:    result,
		ImageData: rec.ImageData,
		ImageMeta: meta,
		CreatedAt: rec.CreatedAt,
	}, nil
}

// Get loads a full analysis record and ensures its session exists.
func (s *Service) Get(ctx context.Context, ownerID, analysisID string) (Record, error) {
	if analysisID == "" {
		return Record{}, ErrNotFound
	}
	rec, err := s.loadRecord(ctx, ownerID, analysisID)
	if err != nil {
		return Record{}, err
	}

	sess := s.Sessions.GetOrCreate(rec.ID)
	if !sess.Analysis.Ready() {
		sess.Analysis.SetAnalysis(rec.ID, rec.Result, rec.ImageData, &rec.ImageMeta)
		sess.Annotations.Load(rec.Annotations)
	}
	return rec, nil
}

// List returns analysis metadata for an owner, newest first.
func (s *Service) List(ctx context.Context, ownerID string, limit, offset int) ([]Meta, error) {
	return s.Repo.ListByOwner(ctx, ownerID, limit, offset)
}

// Delete removes an analysis, its stored record, and its session.
func (s *Service) Delete(ctx context.Context, ownerID, analysisID string) error {
	if err := s.Repo.Delete(ctx, ownerID, analysisID); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, recordKey(ownerID, analysisID)); err != nil && !errors.Is(err, record.ErrNotFound) {
		telemetry.Error("analysis.record_delete_failed", map[string]any{
			"analysis_id": analysisID,
			"error":       err.Error(),
		})
	}
	s.Sessions.Delete(analysisID)
	return nil
}

// SaveAnnotations replaces the persisted annotation set for an analysis.
func (s *Service) SaveAnnotations(ctx context.Context, ownerID, analysisID string, annotations []session.Annotation) (Record, error) {
	rec, err := s.loadRecord(ctx, ownerID, analysisID)
	if err != nil {
		return Record{}, err
	}
	if annotations == nil {
		annotations = []session.Annotation{}
	}
	rec.Annotations = annotations
	rec.UpdatedAt = time.Now().UTC()
	if err := s.saveRecord(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Session returns the live session for an analysis, if it exists.
func (s *Service) Session(analysisID string) (*session.Session, bool) {
	return s.Sessions.Get(analysisID)
}

func (s *Service) acquire(ownerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[ownerID]; busy {
		return false
	}
	s.inFlight[ownerID] = struct{}{}
	return true
}

func (s *Service) release(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, ownerID)
}

func (s *Service) saveRecord(ctx context.Context, rec Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return s.Store.Put(ctx, recordKey(rec.OwnerID, rec.ID), body)
}

func (s *Service) loadRecord(ctx context.Context, ownerID, analysisID string) (Record, error) {
	body, err := s.Store.Get(ctx, recordKey(ownerID, analysisID))
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return Record{}, fmt.Errorf("unmarshal record: %w", err)
	}
	return rec, nil
}

// recordKey hashes the owner so keys stay safe for every store backend.
func recordKey(ownerID, analysisID string) string {
	return path.Join("analyses", util.HashUserKey(ownerID), analysisID+".json")
}

func validateInput(input AnalyzeInput) error {
	if strings.TrimSpace(input.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if strings.TrimSpace(input.ImageBase64) == "" {
		return ErrEmptyImage
	}
	if _, ok := AllowedMIMETypes[input.MIMEType]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedMIME, input.MIMEType)
	}
	if len(input.ImageBase64) > MaxImageBase64Len {
		return ErrImageTooLarge
	}
	return nil
}

func dataURL(mime, b64 string) string {
	return "data:" + mime + ";base64," + b64
}
