package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/arielbeck/go-halakha-backend/internal/apperr"
	"github.com/arielbeck/go-halakha-backend/internal/config"
)

const (
	notionVersion = "2022-06-28"
	// maxRichTextRunes is the hard per-block limit the API enforces.
	maxRichTextRunes = 2000
)

// Notion implements Publisher against the Notion REST API. It talks to the
// API directly over net/http; the payload surface we need (one page-create
// call and one database lookup) does not warrant an SDK.
type Notion struct {
	http        *http.Client
	baseURL     string
	token       string
	databaseID  string
	maxAttempts int
}

var _ Publisher = (*Notion)(nil)

// NewNotion builds the adapter from configuration. A missing token or
// database ID is a configuration fault, not a remote failure.
func NewNotion(cfg config.PublishConfig) (*Notion, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, apperr.Internal(errors.New("publish: PUBLISH_API_TOKEN is not configured"))
	}
	if strings.TrimSpace(cfg.DatabaseID) == "" {
		return nil, apperr.Internal(errors.New("publish: PUBLISH_DATABASE_ID is not configured"))
	}
	return &Notion{
		http:        &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		token:       cfg.Token,
		databaseID:  cfg.DatabaseID,
		maxAttempts: cfg.MaxAttempts,
	}, nil
}

// Publish creates the page and returns its URL. Transient failures (429,
// 5xx, network) are retried within the adapter's budget; other 4xx responses
// fail fast since resending the same payload cannot succeed.
func (n *Notion) Publish(ctx context.Context, page Page) (string, error) {
	body, err := json.Marshal(n.pagePayload(page, time.Now().UTC()))
	if err != nil {
		return "", apperr.Internal(err)
	}

	var lastErr error
	for attempt := 1; attempt <= n.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", apperr.External(apperr.ServicePublishing, "publish cancelled", ctx.Err())
			case <-time.After(time.Duration(attempt-1) * 500 * time.Millisecond):
			}
		}
		ref, err := n.createPage(ctx, body)
		if err == nil {
			return ref, nil
		}
		lastErr = err
		if !isRetryable(err) {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("publish attempt failed")
	}
	if e, ok := apperr.As(lastErr); ok {
		return "", e
	}
	return "", apperr.External(apperr.ServicePublishing, "publish failed", lastErr)
}

// Ping checks reachability by looking up the target database.
func (n *Notion) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/v1/databases/"+n.databaseID, nil)
	if err != nil {
		return apperr.Internal(err)
	}
	n.setHeaders(req)
	resp, err := n.http.Do(req)
	if err != nil {
		return apperr.External(apperr.ServicePublishing, "backend unreachable", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apperr.External(apperr.ServicePublishing, "backend unhealthy",
			fmt.Errorf("database lookup returned %d", resp.StatusCode))
	}
	return nil
}

// retryableError marks a failure worth another attempt.
type retryableError struct{ err error }

func (r *retryableError) Error() string { return r.err.Error() }
func (r *retryableError) Unwrap() error { return r.err }

func isRetryable(err error) bool {
	var r *retryableError
	return errors.As(err, &r)
}

func (n *Notion) createPage(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/v1/pages", bytes.NewReader(body))
	if err != nil {
		return "", apperr.Internal(err)
	}
	n.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return "", &retryableError{err}
	}
	defer resp.Body.Close()
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", &retryableError{fmt.Errorf("page create returned %d", resp.StatusCode)}
	default:
		// Other 4xx: the payload itself is rejected, retrying is pointless.
		log.Error().Int("status", resp.StatusCode).Str("body", string(payload)).Msg("publish rejected")
		return "", apperr.External(apperr.ServicePublishing, "publish rejected",
			fmt.Errorf("page create returned %d", resp.StatusCode))
	}

	var out struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", apperr.External(apperr.ServicePublishing, "malformed publish response", err)
	}
	if out.URL == "" {
		return "", apperr.External(apperr.ServicePublishing, "publish response carries no page URL", nil)
	}
	return out.URL, nil
}

func (n *Notion) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+n.token)
	req.Header.Set("Notion-Version", notionVersion)
}

// pagePayload renders the page-create body. The question doubles as the page
// title; long rich-text values are truncated to the API's per-block limit.
func (n *Notion) pagePayload(page Page, now time.Time) map[string]any {
	title := page.Question
	if strings.TrimSpace(title) == "" {
		title = page.Title
	}
	props := map[string]any{
		"Name":     map[string]any{"title": richText(title)},
		"Question": map[string]any{"rich_text": richText(page.Question)},
		"Answer":   map[string]any{"rich_text": richText(page.Answer)},
		"Date": map[string]any{
			"date": map[string]any{
				"start": now.AddDate(0, 0, page.ScheduleDays).Format("2006-01-02"),
			},
		},
	}
	if page.Caption != "" {
		props["Caption"] = map[string]any{"rich_text": richText(page.Caption)}
	}
	if page.ImageURL != "" {
		props["Image"] = map[string]any{
			"files": []map[string]any{{
				"name":     "illustration",
				"type":     "external",
				"external": map[string]any{"url": page.ImageURL},
			}},
		}
	}
	return map[string]any{
		"parent":     map[string]any{"database_id": n.databaseID},
		"properties": props,
	}
}

func richText(s string) []map[string]any {
	return []map[string]any{{
		"type": "text",
		"text": map[string]any{"content": truncate(s)},
	}}
}

// truncate caps a value at the per-block rune limit, marking the cut.
func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxRichTextRunes {
		return s
	}
	return string(runes[:maxRichTextRunes-3]) + "..."
}
