// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Source
// model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arielbeck/go-halakha-backend/internal/domain"
)

// CreateSource inserts a new source with the given name. The ID is a
// randomly generated UUID and CreatedAt is set to UTC.
func CreateSource(ctx context.Context, db *gorm.DB, name string) (*domain.Source, error) {
	s := &domain.Source{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetSource fetches a source by ID, or ErrNotFound if missing.
func GetSource(ctx context.Context, db *gorm.DB, id string) (*domain.Source, error) {
	var s domain.Source
	if err := db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSources returns sources ordered by name, optionally filtered by a
// case-insensitive name substring.
func ListSources(ctx context.Context, db *gorm.DB, name string, offset, limit int) ([]domain.Source, error) {
	q := db.WithContext(ctx)
	if name != "" {
		q = q.Where("name LIKE ?", "%"+name+"%")
	}
	var out []domain.Source
	err := q.Order("name asc").Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// UpdateSourceName renames a source. Returns ErrNotFound when no row is
// affected.
func UpdateSourceName(ctx context.Context, db *gorm.DB, id, name string) error {
	res := db.WithContext(ctx).
		Model(&domain.Source{}).
		Where("id = ?", id).
		Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountHalakhotForSource returns how many halakhot reference the source.
// Used to refuse deleting a source that is still cited.
func CountHalakhotForSource(ctx context.Context, db *gorm.DB, id string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Halakha{}).
		Where("source_id = ?", id).
		Count(&n).Error
	return n, err
}

// DeleteSource removes an unreferenced source. The reference check is the
// caller's responsibility (service layer). Returns ErrNotFound when the row
// does not exist.
func DeleteSource(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Delete(&domain.Source{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
