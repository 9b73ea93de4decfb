// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Tag and
// Theme models, which share the same shape (id + unique name) and the same
// operations.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arielbeck/go-halakha-backend/internal/domain"
)

//
// Tags
//

// CreateTag inserts a tag. Unique-name violations propagate as raw driver
// errors for the service layer to classify.
func CreateTag(ctx context.Context, db *gorm.DB, name string) (*domain.Tag, error) {
	t := &domain.Tag{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// GetTag fetches a tag by ID, or ErrNotFound if missing.
func GetTag(ctx context.Context, db *gorm.DB, id string) (*domain.Tag, error) {
	var t domain.Tag
	if err := db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTags returns tags ordered by name, optionally filtered by substring.
func ListTags(ctx context.Context, db *gorm.DB, name string, offset, limit int) ([]domain.Tag, error) {
	q := db.WithContext(ctx)
	if name != "" {
		q = q.Where("name LIKE ?", "%"+name+"%")
	}
	var out []domain.Tag
	err := q.Order("name asc").Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// FindOrCreateTags resolves names to tag rows, creating missing ones.
// Used when attaching tags to a halakha by name.
func FindOrCreateTags(ctx context.Context, db *gorm.DB, names []string) ([]domain.Tag, error) {
	out := make([]domain.Tag, 0, len(names))
	for _, name := range names {
		var t domain.Tag
		err := db.WithContext(ctx).
			Where(domain.Tag{Name: name}).
			Attrs(domain.Tag{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}).
			FirstOrCreate(&t).Error
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// UpdateTagName renames a tag. Returns ErrNotFound when no row is affected.
func UpdateTagName(ctx context.Context, db *gorm.DB, id, name string) error {
	res := db.WithContext(ctx).Model(&domain.Tag{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTag removes a tag and its halakha join rows.
func DeleteTag(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM halakha_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Tag{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

//
// Themes
//

// CreateTheme inserts a theme.
func CreateTheme(ctx context.Context, db *gorm.DB, name string) (*domain.Theme, error) {
	t := &domain.Theme{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// GetTheme fetches a theme by ID, or ErrNotFound if missing.
func GetTheme(ctx context.Context, db *gorm.DB, id string) (*domain.Theme, error) {
	var t domain.Theme
	if err := db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ListThemes returns themes ordered by name, optionally filtered by
// substring.
func ListThemes(ctx context.Context, db *gorm.DB, name string, offset, limit int) ([]domain.Theme, error) {
	q := db.WithContext(ctx)
	if name != "" {
		q = q.Where("name LIKE ?", "%"+name+"%")
	}
	var out []domain.Theme
	err := q.Order("name asc").Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// FindOrCreateThemes resolves names to theme rows, creating missing ones.
func FindOrCreateThemes(ctx context.Context, db *gorm.DB, names []string) ([]domain.Theme, error) {
	out := make([]domain.Theme, 0, len(names))
	for _, name := range names {
		var t domain.Theme
		err := db.WithContext(ctx).
			Where(domain.Theme{Name: name}).
			Attrs(domain.Theme{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}).
			FirstOrCreate(&t).Error
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// UpdateThemeName renames a theme. Returns ErrNotFound when no row is
// affected.
func UpdateThemeName(ctx context.Context, db *gorm.DB, id, name string) error {
	res := db.WithContext(ctx).Model(&domain.Theme{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTheme removes a theme and its halakha join rows.
func DeleteTheme(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM halakha_themes WHERE theme_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Theme{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
