package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/arielbeck/go-halakha-backend/internal/apperr"
	"github.com/arielbeck/go-halakha-backend/internal/domain"
	"github.com/arielbeck/go-halakha-backend/internal/repo"
)

// SourceService manages halakhic reference works.
type SourceService struct {
	DB *gorm.DB
}

// Create registers a new source. Names are unique.
func (s *SourceService) Create(ctx context.Context, name string) (*domain.Source, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name must not be empty", nil)
	}
	src, err := repo.CreateSource(ctx, s.DB, name)
	if err != nil {
		return nil, apperr.FromDB(err, "source")
	}
	return src, nil
}

// Get returns a source by id.
func (s *SourceService) Get(ctx context.Context, id string) (*domain.Source, error) {
	src, err := repo.GetSource(ctx, s.DB, id)
	if err != nil {
		return nil, apperr.FromDB(err, "source")
	}
	return src, nil
}

// List returns sources, optionally filtered by name substring.
func (s *SourceService) List(ctx context.Context, name string, offset, limit int) ([]domain.Source, error) {
	out, err := repo.ListSources(ctx, s.DB, strings.TrimSpace(name), offset, limit)
	if err != nil {
		return nil, apperr.FromDB(err, "source")
	}
	return out, nil
}

// Rename changes a source's name.
func (s *SourceService) Rename(ctx context.Context, id, name string) (*domain.Source, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name must not be empty", nil)
	}
	if err := repo.UpdateSourceName(ctx, s.DB, id, name); err != nil {
		return nil, apperr.FromDB(err, "source")
	}
	return s.Get(ctx, id)
}

// Delete removes a source that no halakha cites anymore. Deleting a cited
// source is a conflict, not a cascade.
func (s *SourceService) Delete(ctx context.Context, id string) error {
	n, err := repo.CountHalakhotForSource(ctx, s.DB, id)
	if err != nil {
		return apperr.FromDB(err, "source")
	}
	if n > 0 {
		return apperr.Conflict("source is still cited by halakhot")
	}
	if err := repo.DeleteSource(ctx, s.DB, id); err != nil {
		return apperr.FromDB(err, "source")
	}
	return nil
}

// Halakhot lists the halakhot citing the source.
func (s *SourceService) Halakhot(ctx context.Context, id string, offset, limit int) ([]domain.Halakha, error) {
	if _, err := repo.GetSource(ctx, s.DB, id); err != nil {
		return nil, apperr.FromDB(err, "source")
	}
	out, err := repo.ListHalakhotBySource(ctx, s.DB, id, offset, limit)
	if err != nil {
		return nil, apperr.FromDB(err, "halakha")
	}
	return out, nil
}
