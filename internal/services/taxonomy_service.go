package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/arielbeck/go-halakha-backend/internal/apperr"
	"github.com/arielbeck/go-halakha-backend/internal/domain"
	"github.com/arielbeck/go-halakha-backend/internal/repo"
)

// TagService manages free-form keywords. Tag names are unique.
type TagService struct {
	DB *gorm.DB
}

// Create registers a tag.
func (s *TagService) Create(ctx context.Context, name string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name must not be empty", nil)
	}
	t, err := repo.CreateTag(ctx, s.DB, name)
	if err != nil {
		return nil, apperr.FromDB(err, "tag")
	}
	return t, nil
}

// Get returns a tag by id.
func (s *TagService) Get(ctx context.Context, id string) (*domain.Tag, error) {
	t, err := repo.GetTag(ctx, s.DB, id)
	if err != nil {
		return nil, apperr.FromDB(err, "tag")
	}
	return t, nil
}

// List returns tags, optionally filtered by name substring.
func (s *TagService) List(ctx context.Context, name string, offset, limit int) ([]domain.Tag, error) {
	out, err := repo.ListTags(ctx, s.DB, strings.TrimSpace(name), offset, limit)
	if err != nil {
		return nil, apperr.FromDB(err, "tag")
	}
	return out, nil
}

// Rename changes a tag's name.
func (s *TagService) Rename(ctx context.Context, id, name string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name must not be empty", nil)
	}
	if err := repo.UpdateTagName(ctx, s.DB, id, name); err != nil {
		return nil, apperr.FromDB(err, "tag")
	}
	return s.Get(ctx, id)
}

// Delete removes a tag and detaches it from every halakha.
func (s *TagService) Delete(ctx context.Context, id string) error {
	if err := repo.DeleteTag(ctx, s.DB, id); err != nil {
		return apperr.FromDB(err, "tag")
	}
	return nil
}

// Halakhot lists the halakhot carrying the tag.
func (s *TagService) Halakhot(ctx context.Context, id string, offset, limit int) ([]domain.Halakha, error) {
	if _, err := repo.GetTag(ctx, s.DB, id); err != nil {
		return nil, apperr.FromDB(err, "tag")
	}
	out, err := repo.ListHalakhotByJoin(ctx, s.DB, "halakha_tags", "tag_id", id, offset, limit)
	if err != nil {
		return nil, apperr.FromDB(err, "halakha")
	}
	return out, nil
}

// ThemeService manages broad topical categories. Theme names are unique.
type ThemeService struct {
	DB *gorm.DB
}

// Create registers a theme.
func (s *ThemeService) Create(ctx context.Context, name string) (*domain.Theme, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name must not be empty", nil)
	}
	t, err := repo.CreateTheme(ctx, s.DB, name)
	if err != nil {
		return nil, apperr.FromDB(err, "theme")
	}
	return t, nil
}

// Get returns a theme by id.
func (s *ThemeService) Get(ctx context.Context, id string) (*domain.Theme, error) {
	t, err := repo.GetTheme(ctx, s.DB, id)
	if err != nil {
		return nil, apperr.FromDB(err, "theme")
	}
	return t, nil
}

// List returns themes, optionally filtered by name substring.
func (s *ThemeService) List(ctx context.Context, name string, offset, limit int) ([]domain.Theme, error) {
	out, err := repo.ListThemes(ctx, s.DB, strings.TrimSpace(name), offset, limit)
	if err != nil {
		return nil, apperr.FromDB(err, "theme")
	}
	return out, nil
}

// Rename changes a theme's name.
func (s *ThemeService) Rename(ctx context.Context, id, name string) (*domain.Theme, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name must not be empty", nil)
	}
	if err := repo.UpdateThemeName(ctx, s.DB, id, name); err != nil {
		return nil, apperr.FromDB(err, "theme")
	}
	return s.Get(ctx, id)
}

// Delete removes a theme and detaches it from every halakha.
func (s *ThemeService) Delete(ctx context.Context, id string) error {
	if err := repo.DeleteTheme(ctx, s.DB, id); err != nil {
		return apperr.FromDB(err, "theme")
	}
	return nil
}

// Halakhot lists the halakhot under the theme.
func (s *ThemeService) Halakhot(ctx context.Context, id string, offset, limit int) ([]domain.Halakha, error) {
	if _, err := repo.GetTheme(ctx, s.DB, id); err != nil {
		return nil, apperr.FromDB(err, "theme")
	}
	out, err := repo.ListHalakhotByJoin(ctx, s.DB, "halakha_themes", "theme_id", id, offset, limit)
	if err != nil {
		return nil, apperr.FromDB(err, "halakha")
	}
	return out, nil
}
