// Package domain defines the persistence models for the halakha content
// database. These types are mapped with GORM and form the core data layer
// of the application.
package domain

import "time"

// Source is a halakhic reference work (e.g. "Choulhan Aroukh"). Many halakhot
// may cite the same source; a source is never deleted while referenced.
type Source struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name"       gorm:"type:varchar(255);not null;uniqueIndex:ux_sources_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Source.
func (Source) TableName() string { return "sources" }

// Question is the question text of a halakha. Each question is owned by
// exactly one halakha and is deleted together with it.
type Question struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Content   string    `json:"content"    gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Question.
func (Question) TableName() string { return "questions" }

// Answer is the ruling text of a halakha. Ownership and lifecycle mirror
// Question.
type Answer struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Content   string    `json:"content"    gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Answer.
func (Answer) TableName() string { return "answers" }

// Tag is a free-form keyword attached to halakhot. Names are unique.
type Tag struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name"       gorm:"type:varchar(128);not null;uniqueIndex:ux_tags_name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Tag.
func (Tag) TableName() string { return "tags" }

// Theme is a broad topical category (e.g. "fêtes", "kashrut"). Names are
// unique.
type Theme struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name"       gorm:"type:varchar(128);not null;uniqueIndex:ux_themes_name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Theme.
func (Theme) TableName() string { return "themes" }

// Halakha is the primary content entity: a single question/answer record with
// its source and taxonomy links.
//
// Ownership:
//   - Question and Answer belong exclusively to this halakha. The FK sits on
//     the halakha row, so the owned-side cascade (delete question/answer when
//     the halakha goes) is enforced by the repository inside one transaction.
//   - Source is shared; deleting a halakha never touches it.
//   - Tags and Themes are many-to-many; join rows are removed when either
//     side is deleted.
type Halakha struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Title      string    `json:"title,omitempty"       gorm:"type:varchar(255)"`
	Content    string    `json:"content"     gorm:"type:text;not null"`
	ThemeLabel string    `json:"theme_label,omitempty" gorm:"type:varchar(128)"`
	SourceID   string    `json:"source_id"   gorm:"type:char(36);not null;index"`
	QuestionID string    `json:"question_id" gorm:"type:char(36);not null;uniqueIndex:ux_halakhot_question"`
	AnswerID   string    `json:"answer_id"   gorm:"type:char(36);not null;uniqueIndex:ux_halakhot_answer"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Source   Source   `json:"source"   gorm:"foreignKey:SourceID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Question Question `json:"question" gorm:"foreignKey:QuestionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Answer   Answer   `json:"answer"   gorm:"foreignKey:AnswerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Tags     []Tag    `json:"tags,omitempty"   gorm:"many2many:halakha_tags;constraint:OnDelete:CASCADE"`
	Themes   []Theme  `json:"themes,omitempty" gorm:"many2many:halakha_themes;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for Halakha.
func (Halakha) TableName() string { return "halakhot" }

// PublishRecord caches the outcome of a successful publish, keyed by a
// client-supplied Idempotency-Key. Replaying the orchestration with the same
// key returns the recorded page reference instead of publishing again.
type PublishRecord struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	Key       string    `gorm:"type:varchar(200);not null;uniqueIndex:ux_publish_key"`
	Reference string    `gorm:"type:varchar(500);not null"`
	Status    int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt time.Time `gorm:"index"`
}

// TableName implements the GORM tabler interface.
func (PublishRecord) TableName() string { return "publish_records" }
