package services

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arielbeck/go-halakha-backend/internal/adapters/ai"
	"github.com/arielbeck/go-halakha-backend/internal/adapters/publish"
	"github.com/arielbeck/go-halakha-backend/internal/apperr"
	"github.com/arielbeck/go-halakha-backend/internal/domain"
	"github.com/arielbeck/go-halakha-backend/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedSource(t *testing.T, db *gorm.DB) *domain.Source {
	t.Helper()
	src, err := repo.CreateSource(context.Background(), db, "Source "+uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("seed source: %v", err)
	}
	return src
}

// fakeGenerator returns a canned result or error and counts calls.
type fakeGenerator struct {
	result *ai.StructuredResult
	err    error
	calls  int
}

func (f *fakeGenerator) Generate(ctx context.Context, raw string, opts ai.Options) (*ai.StructuredResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeGenerator) Ping(context.Context) error { return f.err }

// fakePublisher returns a canned reference or error and counts calls.
type fakePublisher struct {
	ref   string
	err   error
	calls int
	last  publish.Page
}

func (f *fakePublisher) Publish(ctx context.Context, page publish.Page) (string, error) {
	f.calls++
	f.last = page
	if f.err != nil {
		return "", f.err
	}
	return f.ref, nil
}

func (f *fakePublisher) Ping(context.Context) error { return f.err }

func wantKind(t *testing.T, err error, k apperr.Kind) {
	t.Helper()
	if !apperr.IsKind(err, k) {
		t.Fatalf("expected kind %v, got %v", k, err)
	}
}
