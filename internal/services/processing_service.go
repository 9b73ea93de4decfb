package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/arielbeck/go-halakha-backend/internal/adapters/ai"
	"github.com/arielbeck/go-halakha-backend/internal/adapters/publish"
	"github.com/arielbeck/go-halakha-backend/internal/apperr"
	"github.com/arielbeck/go-halakha-backend/internal/repo"
)

// ProcessingService runs the content pipeline: raw text goes through AI
// structuring, is persisted as a halakha aggregate, and is published as an
// external page. Only the final state is stored; the intermediate
// AI-processed form lives in memory for the duration of the call.
type ProcessingService struct {
	DB        *gorm.DB
	Generator ai.Generator
	Publisher publish.Publisher

	// MaxContentRunes bounds the raw content accepted for processing.
	MaxContentRunes int
	// RecordTTL is how long a publish record shields a key from re-publish.
	RecordTTL time.Duration
	// ScheduleDays shifts the published page's date forward from today.
	ScheduleDays int
}

// ProcessInput is the payload for processing raw content end to end.
type ProcessInput struct {
	Content  string
	SourceID string
	// IdempotencyKey, when set, makes retries of the same request return the
	// previously published reference instead of publishing twice.
	IdempotencyKey string
	Temperature    float32
	// ScheduleDays overrides the service default when > 0.
	ScheduleDays int
	// ImageURL, when set, attaches an external image to the published page.
	ImageURL string
}

// ProcessResult is the outcome of a pipeline run.
type ProcessResult struct {
	HalakhaID string `json:"halakha_id,omitempty"`
	Reference string `json:"reference"`
	// Replayed is true when the result was served from a publish record.
	Replayed bool `json:"replayed,omitempty"`
}

// ProcessAndPublish validates the input, structures it with the AI generator,
// persists the resulting halakha, publishes it, and returns the page
// reference. A failed AI or publish call surfaces as an
// ExternalServiceFailure; nothing of the intermediate state is persisted when
// generation fails.
func (s *ProcessingService) ProcessAndPublish(ctx context.Context, in ProcessInput) (*ProcessResult, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, apperr.Validation("content must not be empty", nil)
	}
	if s.MaxContentRunes > 0 && utf8.RuneCountInString(in.Content) > s.MaxContentRunes {
		return nil, apperr.Validation("content exceeds the maximum length", map[string]any{
			"max_runes": s.MaxContentRunes,
		})
	}
	if strings.TrimSpace(in.SourceID) == "" {
		return nil, apperr.Validation("source_id is required", nil)
	}
	if _, err := repo.GetSource(ctx, s.DB, in.SourceID); err != nil {
		return nil, apperr.FromDB(err, "source")
	}

	if res, ok := s.replay(ctx, in.IdempotencyKey); ok {
		return res, nil
	}

	structured, err := s.Generator.Generate(ctx, in.Content, ai.Options{Temperature: in.Temperature})
	if err != nil {
		return nil, err
	}

	h, err := repo.CreateHalakha(ctx, s.DB, repo.HalakhaInput{
		Title:      structured.Title,
		Content:    in.Content,
		ThemeLabel: structured.Theme,
		SourceID:   in.SourceID,
		Question:   structured.Question,
		Answer:     structured.Answer,
	})
	if err != nil {
		return nil, apperr.FromDB(err, "halakha")
	}
	log.Info().Str("halakha_id", h.ID).Msg("halakha structured and stored")

	ref, err := s.Publisher.Publish(ctx, publish.Page{
		Title:        structured.Title,
		Question:     structured.Question,
		Answer:       structured.Answer,
		Caption:      structured.Caption,
		ImageURL:     in.ImageURL,
		ScheduleDays: s.scheduleDays(in.ScheduleDays),
	})
	if err != nil {
		// The aggregate is already stored; the client can retry the publish
		// step alone via the per-halakha endpoint.
		return nil, err
	}

	return s.record(ctx, in.IdempotencyKey, h.ID, ref), nil
}

// ProcessExisting re-runs the pipeline on a stored halakha: its raw content
// goes back through the generator, the refreshed structure overwrites the
// stored title, theme, question and answer, and the result is published.
func (s *ProcessingService) ProcessExisting(ctx context.Context, halakhaID, idempotencyKey string) (*ProcessResult, error) {
	h, err := repo.GetHalakha(ctx, s.DB, halakhaID)
	if err != nil {
		return nil, apperr.FromDB(err, "halakha")
	}

	if res, ok := s.replay(ctx, idempotencyKey); ok {
		res.HalakhaID = h.ID
		return res, nil
	}

	structured, err := s.Generator.Generate(ctx, h.Content, ai.Options{})
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"title":       structured.Title,
		"theme_label": structured.Theme,
		"question":    structured.Question,
		"answer":      structured.Answer,
	}
	if err := repo.UpdateHalakha(ctx, s.DB, h.ID, updates, nil, nil); err != nil {
		return nil, apperr.FromDB(err, "halakha")
	}

	ref, err := s.Publisher.Publish(ctx, publish.Page{
		Title:        structured.Title,
		Question:     structured.Question,
		Answer:       structured.Answer,
		Caption:      structured.Caption,
		ScheduleDays: s.scheduleDays(0),
	})
	if err != nil {
		return nil, err
	}

	res := s.record(ctx, idempotencyKey, h.ID, ref)
	res.HalakhaID = h.ID
	return res, nil
}

// PublishExisting publishes an already-stored halakha and returns the page
// reference. Used to retry publishing after a pipeline run that stored the
// aggregate but failed at the publish step.
func (s *ProcessingService) PublishExisting(ctx context.Context, halakhaID, idempotencyKey string) (*ProcessResult, error) {
	h, err := repo.GetHalakha(ctx, s.DB, halakhaID)
	if err != nil {
		return nil, apperr.FromDB(err, "halakha")
	}

	if res, ok := s.replay(ctx, idempotencyKey); ok {
		return res, nil
	}

	ref, err := s.Publisher.Publish(ctx, publish.Page{
		Title:        h.Title,
		Question:     h.Question.Content,
		Answer:       h.Answer.Content,
		ScheduleDays: s.scheduleDays(0),
	})
	if err != nil {
		return nil, err
	}

	res := s.record(ctx, idempotencyKey, h.ID, ref)
	res.HalakhaID = h.ID
	return res, nil
}

// scheduleDays resolves the per-request override against the service default.
func (s *ProcessingService) scheduleDays(override int) int {
	if override > 0 {
		return override
	}
	return s.ScheduleDays
}

// replay answers from the publish record store when the key has already been
// published within the record TTL.
func (s *ProcessingService) replay(ctx context.Context, key string) (*ProcessResult, bool) {
	if strings.TrimSpace(key) == "" {
		return nil, false
	}
	rec, err := repo.GetPublishRecord(ctx, s.DB, key, time.Now().UTC())
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			log.Warn().Err(err).Msg("publish record lookup failed, proceeding without replay")
		}
		return nil, false
	}
	return &ProcessResult{Reference: rec.Reference, Replayed: true}, true
}

// record stores the publish outcome under the idempotency key. A losing race
// against a concurrent publish keeps the first recorded reference.
func (s *ProcessingService) record(ctx context.Context, key, halakhaID, ref string) *ProcessResult {
	res := &ProcessResult{HalakhaID: halakhaID, Reference: ref}
	if strings.TrimSpace(key) == "" {
		return res
	}
	_, err := repo.CreatePublishRecord(ctx, s.DB, key, ref, http.StatusOK, s.RecordTTL)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			if rec, gerr := repo.GetPublishRecord(ctx, s.DB, key, time.Now().UTC()); gerr == nil {
				res.Reference = rec.Reference
				res.Replayed = true
				return res
			}
		}
		// The publish itself succeeded; a failed record write only weakens
		// replay protection, it must not fail the request.
		log.Warn().Err(err).Msg("publish record write failed")
	}
	return res
}
