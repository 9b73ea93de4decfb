package repo

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/arielbeck/go-halakha-backend/internal/domain"
)

// seedHalakha creates a source and a halakha citing it, returning both.
func seedHalakha(t *testing.T, db *gorm.DB, content string, tags, themes []string) (*domain.Source, *domain.Halakha) {
	t.Helper()
	ctx := context.Background()

	src, err := CreateSource(ctx, db, "Choulhan Aroukh")
	if err != nil {
		t.Fatalf("CreateSource: %v", err)
	}

	tagRows, err := FindOrCreateTags(ctx, db, tags)
	if err != nil {
		t.Fatalf("FindOrCreateTags: %v", err)
	}
	themeRows, err := FindOrCreateThemes(ctx, db, themes)
	if err != nil {
		t.Fatalf("FindOrCreateThemes: %v", err)
	}

	h, err := CreateHalakha(ctx, db, HalakhaInput{
		Title:    "Kiddouch du vendredi soir",
		Content:  content,
		SourceID: src.ID,
		Question: "Peut-on réciter le kiddouch assis ?",
		Answer:   "Oui, selon la plupart des décisionnaires.",
		Tags:     tagRows,
		Themes:   themeRows,
	})
	if err != nil {
		t.Fatalf("CreateHalakha: %v", err)
	}
	return src, h
}

func TestCreateHalakha_PersistsAggregate(t *testing.T) {
	db := newTestDB(t)
	src, h := seedHalakha(t, db, "texte intégral", []string{"chabbat", "vin"}, []string{"fêtes"})

	if h.ID == "" || h.SourceID != src.ID {
		t.Fatalf("unexpected halakha: %+v", h)
	}
	if h.Question.Content == "" || h.Answer.Content == "" {
		t.Fatalf("owned texts not preloaded: %+v", h)
	}
	if len(h.Tags) != 2 || len(h.Themes) != 1 {
		t.Fatalf("associations not attached: tags=%d themes=%d", len(h.Tags), len(h.Themes))
	}
}

func TestGetHalakha_NotFound(t *testing.T) {
	db := newTestDB(t)
	if _, err := GetHalakha(context.Background(), db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListHalakhotPage_SearchFilter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedHalakha(t, db, "les lois de pourim", nil, nil)

	src, err := CreateSource(ctx, db, "Michna Beroura")
	if err != nil {
		t.Fatalf("CreateSource: %v", err)
	}
	if _, err := CreateHalakha(ctx, db, HalakhaInput{
		Title:    "Hanoucca",
		Content:  "allumage des bougies",
		SourceID: src.ID,
		Question: "q",
		Answer:   "a",
	}); err != nil {
		t.Fatalf("CreateHalakha: %v", err)
	}

	total, err := CountHalakhot(ctx, db, "pourim")
	if err != nil || total != 1 {
		t.Fatalf("CountHalakhot(pourim) = %d, %v", total, err)
	}
	items, err := ListHalakhotPage(ctx, db, "pourim", 0, 10)
	if err != nil || len(items) != 1 {
		t.Fatalf("ListHalakhotPage(pourim) = %d items, %v", len(items), err)
	}

	all, err := ListHalakhotPage(ctx, db, "", 0, 10)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListHalakhotPage(all) = %d items, %v", len(all), err)
	}
}

// Deleting a halakha must remove its owned question and answer and the join
// rows, while the shared source survives.
func TestDeleteHalakha_CascadesOwnedRows(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	src, h := seedHalakha(t, db, "contenu", []string{"kashrut"}, []string{"cuisine"})

	if err := DeleteHalakha(ctx, db, h.ID); err != nil {
		t.Fatalf("DeleteHalakha: %v", err)
	}

	if _, err := GetHalakha(ctx, db, h.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("halakha still present: %v", err)
	}
	var qCount, aCount, joinCount int64
	db.Model(&domain.Question{}).Where("id = ?", h.QuestionID).Count(&qCount)
	db.Model(&domain.Answer{}).Where("id = ?", h.AnswerID).Count(&aCount)
	db.Table("halakha_tags").Where("halakha_id = ?", h.ID).Count(&joinCount)
	if qCount != 0 || aCount != 0 || joinCount != 0 {
		t.Fatalf("owned rows survived delete: q=%d a=%d joins=%d", qCount, aCount, joinCount)
	}

	// Source remains.
	if _, err := GetSource(ctx, db, src.ID); err != nil {
		t.Fatalf("source should survive halakha delete: %v", err)
	}
}

func TestDeleteHalakha_NotFound(t *testing.T) {
	db := newTestDB(t)
	if err := DeleteHalakha(context.Background(), db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateHalakha_ColumnsAndOwnedTexts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, h := seedHalakha(t, db, "contenu", nil, nil)

	err := UpdateHalakha(ctx, db, h.ID, map[string]any{
		"title":    "Nouveau titre",
		"question": "Question corrigée ?",
		"answer":   "Réponse corrigée.",
	}, nil, nil)
	if err != nil {
		t.Fatalf("UpdateHalakha: %v", err)
	}

	got, err := GetHalakha(ctx, db, h.ID)
	if err != nil {
		t.Fatalf("GetHalakha: %v", err)
	}
	if got.Title != "Nouveau titre" {
		t.Fatalf("title = %q", got.Title)
	}
	if got.Question.Content != "Question corrigée ?" || got.Answer.Content != "Réponse corrigée." {
		t.Fatalf("owned texts not updated: q=%q a=%q", got.Question.Content, got.Answer.Content)
	}
}

func TestUpdateHalakha_ReplacesAssociations(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, h := seedHalakha(t, db, "contenu", []string{"old"}, nil)

	newTags, err := FindOrCreateTags(ctx, db, []string{"new-a", "new-b"})
	if err != nil {
		t.Fatalf("FindOrCreateTags: %v", err)
	}
	if err := UpdateHalakha(ctx, db, h.ID, map[string]any{}, newTags, nil); err != nil {
		t.Fatalf("UpdateHalakha: %v", err)
	}

	got, err := GetHalakha(ctx, db, h.ID)
	if err != nil {
		t.Fatalf("GetHalakha: %v", err)
	}
	if len(got.Tags) != 2 {
		t.Fatalf("tags = %v", got.Tags)
	}
}

func TestListHalakhotByJoin(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, h := seedHalakha(t, db, "contenu", []string{"vin"}, []string{"fêtes"})

	tags, err := ListTags(ctx, db, "vin", 0, 10)
	if err != nil || len(tags) != 1 {
		t.Fatalf("ListTags: %v (%d)", err, len(tags))
	}
	byTag, err := ListHalakhotByJoin(ctx, db, "halakha_tags", "tag_id", tags[0].ID, 0, 10)
	if err != nil || len(byTag) != 1 || byTag[0].ID != h.ID {
		t.Fatalf("ListHalakhotByJoin(tag) = %v, %v", byTag, err)
	}

	themes, err := ListThemes(ctx, db, "fêtes", 0, 10)
	if err != nil || len(themes) != 1 {
		t.Fatalf("ListThemes: %v (%d)", err, len(themes))
	}
	byTheme, err := ListHalakhotByJoin(ctx, db, "halakha_themes", "theme_id", themes[0].ID, 0, 10)
	if err != nil || len(byTheme) != 1 {
		t.Fatalf("ListHalakhotByJoin(theme) = %v, %v", byTheme, err)
	}
}
