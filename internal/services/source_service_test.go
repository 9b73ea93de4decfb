package services

import (
	"context"
	"testing"

	"github.com/arielbeck/go-halakha-backend/internal/apperr"
)

func TestSourceService_CRUD(t *testing.T) {
	db := newTestDB(t)
	svc := &SourceService{DB: db}
	ctx := context.Background()

	_, err := svc.Create(ctx, "  ")
	wantKind(t, err, apperr.KindValidation)

	src, err := svc.Create(ctx, "Michna Beroura")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Create(ctx, "Michna Beroura")
	wantKind(t, err, apperr.KindConflict)

	renamed, err := svc.Rename(ctx, src.ID, "Michna Beroura (complet)")
	if err != nil || renamed.Name != "Michna Beroura (complet)" {
		t.Fatalf("Rename: %+v, %v", renamed, err)
	}

	_, err = svc.Get(ctx, "missing")
	wantKind(t, err, apperr.KindNotFound)

	if err := svc.Delete(ctx, src.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	wantKind(t, svc.Delete(ctx, src.ID), apperr.KindNotFound)
}

func TestSourceDelete_RefusedWhileCited(t *testing.T) {
	db := newTestDB(t)
	srcSvc := &SourceService{DB: db}
	hSvc := &HalakhaService{DB: db}
	ctx := context.Background()

	src, err := srcSvc.Create(ctx, "Kitsour")
	if err != nil {
		t.Fatalf("Create source: %v", err)
	}
	h, err := hSvc.Create(ctx, HalakhaInput{
		Content: "contenu", SourceID: src.ID, Question: "q", Answer: "a",
	})
	if err != nil {
		t.Fatalf("Create halakha: %v", err)
	}

	wantKind(t, srcSvc.Delete(ctx, src.ID), apperr.KindConflict)

	// Deleting the citing halakha frees the source.
	if err := hSvc.Delete(ctx, h.ID); err != nil {
		t.Fatalf("Delete halakha: %v", err)
	}
	if err := srcSvc.Delete(ctx, src.ID); err != nil {
		t.Fatalf("Delete source after halakha removal: %v", err)
	}
}

func TestSourceHalakhot(t *testing.T) {
	db := newTestDB(t)
	srcSvc := &SourceService{DB: db}
	hSvc := &HalakhaService{DB: db}
	ctx := context.Background()

	src := seedSource(t, db)
	if _, err := hSvc.Create(ctx, HalakhaInput{
		Content: "contenu", SourceID: src.ID, Question: "q", Answer: "a",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	out, err := srcSvc.Halakhot(ctx, src.ID, 0, 10)
	if err != nil || len(out) != 1 {
		t.Fatalf("Halakhot: %v (%d)", err, len(out))
	}

	_, err = srcSvc.Halakhot(ctx, "missing", 0, 10)
	wantKind(t, err, apperr.KindNotFound)
}
