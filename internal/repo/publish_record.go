// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the
// PublishRecord model used to implement safe-retry semantics for the
// processing workflow: a retried ProcessAndPublish with the same
// Idempotency-Key returns the recorded page reference instead of
// publishing a second page.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arielbeck/go-halakha-backend/internal/domain"
)

// ErrDuplicate indicates that a publish record already exists for the key.
var ErrDuplicate = errors.New("duplicate")

// GetPublishRecord returns a non-expired record for the key, or ErrNotFound.
func GetPublishRecord(ctx context.Context, db *gorm.DB, key string, now time.Time) (*domain.PublishRecord, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.PublishRecord
	err := db.WithContext(ctx).
		Where("key = ? AND expires_at > ?", key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreatePublishRecord inserts a record and returns ErrDuplicate on unique
// violation (a concurrent request won the race; its reference stands).
func CreatePublishRecord(ctx context.Context, db *gorm.DB, key, reference string, status int, ttl time.Duration) (*domain.PublishRecord, error) {
	now := time.Now().UTC()
	rec := &domain.PublishRecord{
		ID:        uuid.NewString(),
		Key:       key,
		Reference: reference,
		Status:    status,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") ||
			strings.Contains(low, "sqlstate 23505") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}
