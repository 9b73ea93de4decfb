package ai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/arielbeck/go-halakha-backend/internal/apperr"
	"github.com/arielbeck/go-halakha-backend/internal/config"
)

// prompt sent ahead of the raw content. The response is requested as strict
// JSON matching StructuredResult.
const structuringPrompt = `You are given the full text of a halakha (a Jewish law ruling).
Extract and return a single JSON object with exactly these string fields:
  "title":    a short descriptive title (max 12 words)
  "question": the practical question the text answers
  "answer":   the ruling, concise but complete
  "theme":    one broad topical category (one or two words)
  "caption":  a one-sentence caption suitable for a social post
Answer in the language of the input text. Return only the JSON object.

Text:
`

// Gemini implements Generator on top of the Google GenAI SDK. The client is
// constructed once and shared; it holds no per-call state.
type Gemini struct {
	client      *genai.Client
	model       string
	timeout     time.Duration
	maxAttempts int
}

var _ Generator = (*Gemini)(nil)

// NewGemini builds the adapter from configuration. A missing API key is a
// configuration fault surfaced as an internal failure; SDK construction
// errors surface as external failures of the "ai" service.
func NewGemini(ctx context.Context, cfg config.AIConfig) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, apperr.Internal(errors.New("ai: AI_API_KEY is not configured"))
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, apperr.External(apperr.ServiceAI, "client construction failed", err)
	}
	return &Gemini{
		client:      client,
		model:       cfg.Model,
		timeout:     cfg.Timeout,
		maxAttempts: cfg.MaxAttempts,
	}, nil
}

// Generate asks the model for a JSON rendition of the raw text. Transient
// failures are retried within the adapter's bounded budget; the final error
// is always an ExternalServiceFailure carrying no remote internals in its
// client-facing message.
func (g *Gemini) Generate(ctx context.Context, raw string, opts Options) (*StructuredResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if opts.Temperature > 0 {
		cfg.Temperature = genai.Ptr(opts.Temperature)
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(structuringPrompt+raw), cfg)
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Int("attempt", attempt).Str("model", g.model).Msg("ai generation attempt failed")
			if ctx.Err() != nil {
				break // deadline or cancellation; retrying is pointless
			}
			continue
		}
		res, perr := parseStructured(resp.Text())
		if perr != nil {
			// A malformed body is worth one more attempt: generation is
			// non-deterministic and side-effect free.
			lastErr = perr
			log.Warn().Err(perr).Int("attempt", attempt).Msg("ai returned malformed structure")
			continue
		}
		return res, nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, apperr.External(apperr.ServiceAI, "generation timed out", lastErr)
	}
	return nil, apperr.External(apperr.ServiceAI, "generation failed", lastErr)
}

// Ping issues the cheapest call the API offers to confirm reachability.
func (g *Gemini) Ping(ctx context.Context) error {
	_, err := g.client.Models.CountTokens(ctx, g.model, genai.Text("ping"), nil)
	if err != nil {
		return apperr.External(apperr.ServiceAI, "backend unreachable", err)
	}
	return nil
}

// parseStructured decodes the model output into a StructuredResult and
// checks the fields the rest of the pipeline depends on. Models sometimes
// wrap JSON in a markdown fence even in JSON mode; strip it before decoding.
func parseStructured(text string) (*StructuredResult, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var res StructuredResult
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return nil, err
	}
	if strings.TrimSpace(res.Question) == "" {
		return nil, errors.New("structured result is missing the question field")
	}
	if strings.TrimSpace(res.Answer) == "" {
		return nil, errors.New("structured result is missing the answer field")
	}
	return &res, nil
}
