// Package services implements the application's business logic on top of the
// repo layer. Services validate input, enforce cross-entity rules, and
// translate persistence failures into the error taxonomy; handlers above them
// stay thin and adapters below them stay dumb.
package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/arielbeck/go-halakha-backend/internal/apperr"
	"github.com/arielbeck/go-halakha-backend/internal/domain"
	"github.com/arielbeck/go-halakha-backend/internal/repo"
)

// titleMaxWords caps derived titles at a readable length.
const titleMaxWords = 8

// HalakhaService manages the halakha aggregate: the content row, its owned
// question and answer, and its tag/theme links.
type HalakhaService struct {
	DB *gorm.DB
	// MaxContentRunes bounds the raw content accepted on create/update.
	MaxContentRunes int
	// TitleLocale drives casing when a title is derived from the question.
	TitleLocale language.Tag
}

// HalakhaInput is the payload for creating a halakha. Tags and Themes are
// names; missing ones are created on the fly.
type HalakhaInput struct {
	Title      string
	Content    string
	ThemeLabel string
	SourceID   string
	Question   string
	Answer     string
	Tags       []string
	Themes     []string
}

// HalakhaUpdate carries a partial update. Nil pointers leave the field
// untouched; nil slices leave the links untouched, empty slices clear them.
type HalakhaUpdate struct {
	Title      *string
	Content    *string
	ThemeLabel *string
	Question   *string
	Answer     *string
	Tags       []string
	Themes     []string
}

// Create validates the input, resolves the source and taxonomy links, and
// persists the aggregate.
func (s *HalakhaService) Create(ctx context.Context, in HalakhaInput) (*domain.Halakha, error) {
	if err := s.validateContent(in.Content); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Question) == "" {
		return nil, apperr.Validation("question must not be empty", nil)
	}
	if strings.TrimSpace(in.Answer) == "" {
		return nil, apperr.Validation("answer must not be empty", nil)
	}
	if strings.TrimSpace(in.SourceID) == "" {
		return nil, apperr.Validation("source_id is required", nil)
	}
	if _, err := repo.GetSource(ctx, s.DB, in.SourceID); err != nil {
		return nil, apperr.FromDB(err, "source")
	}

	tags, err := repo.FindOrCreateTags(ctx, s.DB, normalizeNames(in.Tags))
	if err != nil {
		return nil, apperr.FromDB(err, "tag")
	}
	themes, err := repo.FindOrCreateThemes(ctx, s.DB, normalizeNames(in.Themes))
	if err != nil {
		return nil, apperr.FromDB(err, "theme")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = deriveTitle(in.Question, s.TitleLocale)
	}

	h, err := repo.CreateHalakha(ctx, s.DB, repo.HalakhaInput{
		Title:      title,
		Content:    in.Content,
		ThemeLabel: strings.TrimSpace(in.ThemeLabel),
		SourceID:   in.SourceID,
		Question:   in.Question,
		Answer:     in.Answer,
		Tags:       tags,
		Themes:     themes,
	})
	if err != nil {
		return nil, apperr.FromDB(err, "halakha")
	}
	return h, nil
}

// Get returns the aggregate with all associations loaded.
func (s *HalakhaService) Get(ctx context.Context, id string) (*domain.Halakha, error) {
	h, err := repo.GetHalakha(ctx, s.DB, id)
	if err != nil {
		return nil, apperr.FromDB(err, "halakha")
	}
	return h, nil
}

// List returns one page of halakhot plus the total match count.
func (s *HalakhaService) List(ctx context.Context, search string, offset, limit int) ([]domain.Halakha, int64, error) {
	total, err := repo.CountHalakhot(ctx, s.DB, search)
	if err != nil {
		return nil, 0, apperr.FromDB(err, "halakha")
	}
	items, err := repo.ListHalakhotPage(ctx, s.DB, search, offset, limit)
	if err != nil {
		return nil, 0, apperr.FromDB(err, "halakha")
	}
	return items, total, nil
}

// Update applies a partial update and returns the refreshed aggregate.
func (s *HalakhaService) Update(ctx context.Context, id string, in HalakhaUpdate) (*domain.Halakha, error) {
	updates := map[string]any{}
	if in.Title != nil {
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		if err := s.validateContent(*in.Content); err != nil {
			return nil, err
		}
		updates["content"] = *in.Content
	}
	if in.ThemeLabel != nil {
		updates["theme_label"] = strings.TrimSpace(*in.ThemeLabel)
	}
	if in.Question != nil {
		if strings.TrimSpace(*in.Question) == "" {
			return nil, apperr.Validation("question must not be empty", nil)
		}
		updates["question"] = *in.Question
	}
	if in.Answer != nil {
		if strings.TrimSpace(*in.Answer) == "" {
			return nil, apperr.Validation("answer must not be empty", nil)
		}
		updates["answer"] = *in.Answer
	}

	var tags []domain.Tag
	if in.Tags != nil {
		var err error
		tags, err = repo.FindOrCreateTags(ctx, s.DB, normalizeNames(in.Tags))
		if err != nil {
			return nil, apperr.FromDB(err, "tag")
		}
		if tags == nil {
			tags = []domain.Tag{}
		}
	}
	var themes []domain.Theme
	if in.Themes != nil {
		var err error
		themes, err = repo.FindOrCreateThemes(ctx, s.DB, normalizeNames(in.Themes))
		if err != nil {
			return nil, apperr.FromDB(err, "theme")
		}
		if themes == nil {
			themes = []domain.Theme{}
		}
	}

	if err := repo.UpdateHalakha(ctx, s.DB, id, updates, tags, themes); err != nil {
		return nil, apperr.FromDB(err, "halakha")
	}
	return s.Get(ctx, id)
}

// Delete removes the aggregate: the halakha row, its owned question and
// answer, and its join rows. The cited source stays.
func (s *HalakhaService) Delete(ctx context.Context, id string) error {
	if err := repo.DeleteHalakha(ctx, s.DB, id); err != nil {
		return apperr.FromDB(err, "halakha")
	}
	return nil
}

func (s *HalakhaService) validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return apperr.Validation("content must not be empty", nil)
	}
	if s.MaxContentRunes > 0 && utf8.RuneCountInString(content) > s.MaxContentRunes {
		return apperr.Validation("content exceeds the maximum length", map[string]any{
			"max_runes": s.MaxContentRunes,
		})
	}
	return nil
}

// deriveTitle builds a display title from the question when none was
// provided: the leading words, trailing punctuation stripped, first letter
// cased per the content locale.
func deriveTitle(question string, loc language.Tag) string {
	if loc == (language.Tag{}) {
		loc = language.French
	}
	words := strings.Fields(question)
	if len(words) > titleMaxWords {
		words = words[:titleMaxWords]
	}
	t := strings.Join(words, " ")
	t = strings.TrimRight(t, " ?!.,;:")
	if t == "" {
		return ""
	}
	first := cases.Title(loc, cases.NoLower).String(t[:1])
	return first + t[1:]
}

// normalizeNames trims entries and drops blanks and duplicates, preserving
// first-seen order.
func normalizeNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}
