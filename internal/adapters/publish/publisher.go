// Package publish wraps the external document-publishing dependency behind a
// small interface. Like the ai adapter it owns its boundary: bounded timeout
// and retry budget, and every native failure translated into the error
// taxonomy (ExternalServiceFailure with service "publishing").
package publish

import "context"

// Page is the content to publish as a single document.
type Page struct {
	Title    string
	Question string
	Answer   string
	Caption  string
	ImageURL string // optional cover/illustration
	// ScheduleDays shifts the page's publication date forward from today.
	ScheduleDays int
}

// Publisher creates a page in the external system and returns a stable URL
// reference to it. Implementations must be safe for concurrent use, honor the
// context, and return taxonomy errors only.
type Publisher interface {
	// Publish creates the page and returns its URL, or fails with an
	// ExternalServiceFailure. Publishing is NOT idempotent on the remote
	// side; retry decisions above this adapter must go through the publish
	// record store.
	Publish(ctx context.Context, page Page) (string, error)
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
