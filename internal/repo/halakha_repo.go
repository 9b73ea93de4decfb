// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Halakha
// aggregate (halakha row plus its owned question and answer and its tag and
// theme links).
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a record is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated. Classification into the error
//     taxonomy happens one layer up, in the services.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arielbeck/go-halakha-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// HalakhaInput carries the columns and associations needed to create or
// replace a halakha. Question and Answer are the owned texts; Tags and Themes
// are resolved/attached by the caller.
type HalakhaInput struct {
	Title      string
	Content    string
	ThemeLabel string
	SourceID   string
	Question   string
	Answer     string
	Tags       []domain.Tag
	Themes     []domain.Theme
}

// CreateHalakha inserts a halakha with its owned question and answer rows in
// one transaction and returns the persisted aggregate with associations
// loaded.
func CreateHalakha(ctx context.Context, db *gorm.DB, in HalakhaInput) (*domain.Halakha, error) {
	now := time.Now().UTC()
	h := &domain.Halakha{
		ID:         uuid.NewString(),
		Title:      in.Title,
		Content:    in.Content,
		ThemeLabel: in.ThemeLabel,
		SourceID:   in.SourceID,
		CreatedAt:  now,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := &domain.Question{ID: uuid.NewString(), Content: in.Question, CreatedAt: now}
		a := &domain.Answer{ID: uuid.NewString(), Content: in.Answer, CreatedAt: now}
		if err := tx.Create(q).Error; err != nil {
			return err
		}
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		h.QuestionID, h.AnswerID = q.ID, a.ID
		if err := tx.Create(h).Error; err != nil {
			return err
		}
		if len(in.Tags) > 0 {
			if err := tx.Model(h).Association("Tags").Append(in.Tags); err != nil {
				return err
			}
		}
		if len(in.Themes) > 0 {
			if err := tx.Model(h).Association("Themes").Append(in.Themes); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetHalakha(ctx, db, h.ID)
}

// GetHalakha fetches a halakha by ID with source, question, answer, tags and
// themes preloaded, or ErrNotFound if missing.
func GetHalakha(ctx context.Context, db *gorm.DB, id string) (*domain.Halakha, error) {
	var h domain.Halakha
	err := db.WithContext(ctx).
		Preload("Source").
		Preload("Question").
		Preload("Answer").
		Preload("Tags").
		Preload("Themes").
		First(&h, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// CountHalakhot returns the number of halakhot matching the optional search
// term (title or content, case-insensitive).
func CountHalakhot(ctx context.Context, db *gorm.DB, search string) (int64, error) {
	var total int64
	err := halakhaQuery(db.WithContext(ctx), search).
		Model(&domain.Halakha{}).
		Count(&total).Error
	return total, err
}

// ListHalakhotPage returns a page of halakhot ordered by creation time
// descending, with associations preloaded. The caller computes offset/limit.
func ListHalakhotPage(ctx context.Context, db *gorm.DB, search string, offset, limit int) ([]domain.Halakha, error) {
	var out []domain.Halakha
	err := halakhaQuery(db.WithContext(ctx), search).
		Preload("Source").
		Preload("Question").
		Preload("Answer").
		Preload("Tags").
		Preload("Themes").
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListHalakhotBySource returns halakhot citing the given source.
func ListHalakhotBySource(ctx context.Context, db *gorm.DB, sourceID string, offset, limit int) ([]domain.Halakha, error) {
	var out []domain.Halakha
	err := db.WithContext(ctx).
		Preload("Question").
		Preload("Answer").
		Where("source_id = ?", sourceID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListHalakhotByJoin returns halakhot linked through a many2many join table
// (halakha_tags or halakha_themes) to the given tag/theme id.
func ListHalakhotByJoin(ctx context.Context, db *gorm.DB, joinTable, fkColumn, id string, offset, limit int) ([]domain.Halakha, error) {
	var out []domain.Halakha
	err := db.WithContext(ctx).
		Preload("Question").
		Preload("Answer").
		Joins("JOIN "+joinTable+" j ON j.halakha_id = halakhot.id").
		Where("j."+fkColumn+" = ?", id).
		Order("halakhot.created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateHalakha applies the given column updates to a halakha. Association
// replacement (tags/themes) is passed separately; nil slices leave the links
// untouched. Returns ErrNotFound when the row does not exist.
func UpdateHalakha(ctx context.Context, db *gorm.DB, id string, updates map[string]any, tags []domain.Tag, themes []domain.Theme) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var h domain.Halakha
		if err := tx.First(&h, "id = ?", id).Error; err != nil {
			return err
		}
		// Owned texts are updated in place, not re-created. They are not
		// halakha columns, so they are split off before the column update.
		if q, ok := updates["question"]; ok {
			delete(updates, "question")
			if err := tx.Model(&domain.Question{}).Where("id = ?", h.QuestionID).Update("content", q).Error; err != nil {
				return err
			}
		}
		if a, ok := updates["answer"]; ok {
			delete(updates, "answer")
			if err := tx.Model(&domain.Answer{}).Where("id = ?", h.AnswerID).Update("content", a).Error; err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&h).Updates(updates).Error; err != nil {
				return err
			}
		}
		if tags != nil {
			if err := tx.Model(&h).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		if themes != nil {
			if err := tx.Model(&h).Association("Themes").Replace(themes); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteHalakha removes a halakha together with its owned question and
// answer and its tag/theme join rows, all in one transaction. The referenced
// source is left untouched. Returns ErrNotFound when the row does not exist.
func DeleteHalakha(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var h domain.Halakha
		if err := tx.First(&h, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&h).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&h).Association("Themes").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(&h).Error; err != nil {
			return err
		}
		// Owned-side cascade: the FK points halakha→question/answer, so the
		// owned rows are removed explicitly after the halakha row.
		if err := tx.Delete(&domain.Question{}, "id = ?", h.QuestionID).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Answer{}, "id = ?", h.AnswerID).Error
	})
}

// halakhaQuery applies the optional search filter over title and content.
func halakhaQuery(db *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return db
	}
	like := "%" + search + "%"
	return db.Where("title LIKE ? OR content LIKE ?", like, like)
}
