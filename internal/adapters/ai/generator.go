// Package ai wraps the AI text-generation dependency behind a small
// interface. The adapter owns the boundary: it validates its own
// configuration, applies a bounded timeout and retry budget, and translates
// every native failure into the application error taxonomy
// (ExternalServiceFailure with service "ai"). Callers above this package
// never see raw SDK errors.
package ai

import "context"

// Options tunes a single generation call.
type Options struct {
	// Temperature in [0,2]; zero means the backend default.
	Temperature float32
}

// StructuredResult is the structured interpretation of a raw halakha text:
// a short title, the isolated question, the reasoned answer, a topical theme
// and a social-post caption.
type StructuredResult struct {
	Title    string `json:"title"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Theme    string `json:"theme"`
	Caption  string `json:"caption"`
}

// Generator produces a StructuredResult from raw content. Implementations
// must be safe for concurrent use, must honor the context, and must return
// taxonomy errors only. The call has no side effects on the store, so
// adapter-internal retries are safe.
type Generator interface {
	// Generate transforms raw content into structured fields, or fails with
	// an ExternalServiceFailure.
	Generate(ctx context.Context, raw string, opts Options) (*StructuredResult, error)
	// Ping reports whether the backend is reachable. Used by the health
	// endpoint; a failure is reported, never raised to clients.
	Ping(ctx context.Context) error
}
