package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"gorm.io/gorm"
)

// The kind→status/code table is the repo-wide contract: only the HTTP error
// mapper writes error responses, so asserting the table here covers every
// endpoint.
func TestKindTable(t *testing.T) {
	cases := []struct {
		kind   Kind
		status int
		code   string
	}{
		{KindValidation, http.StatusUnprocessableEntity, "validation_failure"},
		{KindNotFound, http.StatusNotFound, "not_found"},
		{KindConflict, http.StatusConflict, "conflict"},
		{KindExternal, http.StatusBadGateway, "external_service_failure"},
		{KindDatabase, http.StatusInternalServerError, "database_failure"},
		{KindUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{KindInternal, http.StatusInternalServerError, "internal_failure"},
	}
	for _, tc := range cases {
		if got := StatusOf(tc.kind); got != tc.status {
			t.Errorf("StatusOf(%v) = %d, want %d", tc.kind, got, tc.status)
		}
		if got := CodeOf(tc.kind); got != tc.code {
			t.Errorf("CodeOf(%v) = %q, want %q", tc.kind, got, tc.code)
		}
	}
}

func TestErrorString_IncludesServiceAndCause(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	e := External(ServiceAI, "generation failed", cause)

	s := e.Error()
	for _, want := range []string{"external_service_failure", "(ai)", "generation failed", "i/o timeout"} {
		if !strings.Contains(s, want) {
			t.Fatalf("Error() = %q, missing %q", s, want)
		}
	}
	if !errors.Is(e, cause) {
		t.Fatal("expected errors.Is to reach the wrapped cause")
	}
}

func TestAs_FindsWrappedTaxonomyError(t *testing.T) {
	inner := NotFound("halakha", "h1")
	wrapped := fmt.Errorf("loading: %w", inner)

	e, ok := As(wrapped)
	if !ok || e.Kind != KindNotFound {
		t.Fatalf("As(%v) = %v, %v", wrapped, e, ok)
	}
	if !IsKind(wrapped, KindNotFound) {
		t.Fatal("IsKind should see through wrapping")
	}
}

func TestFromDB(t *testing.T) {
	if err := FromDB(nil, "source"); err != nil {
		t.Fatalf("nil should pass through, got %v", err)
	}

	if e, ok := As(FromDB(gorm.ErrRecordNotFound, "source")); !ok || e.Kind != KindNotFound {
		t.Fatalf("record-not-found should map to KindNotFound, got %v", e)
	}

	dup := errors.New("UNIQUE constraint failed: tags.name")
	if e, ok := As(FromDB(dup, "tag")); !ok || e.Kind != KindConflict {
		t.Fatalf("unique violation should map to KindConflict, got %v", e)
	}

	pgDup := errors.New(`ERROR: duplicate key value violates unique constraint "themes_name_key" (SQLSTATE 23505)`)
	if e, ok := As(FromDB(pgDup, "theme")); !ok || e.Kind != KindConflict {
		t.Fatalf("postgres duplicate should map to KindConflict, got %v", e)
	}

	other := errors.New("connection refused")
	e, ok := As(FromDB(other, "halakha"))
	if !ok || e.Kind != KindDatabase {
		t.Fatalf("unexpected store error should map to KindDatabase, got %v", e)
	}
	if !errors.Is(e, other) {
		t.Fatal("cause should be retained for logs")
	}

	// Already-typed errors pass through unchanged.
	typed := Conflict("tag already exists")
	if got := FromDB(typed, "tag"); got != error(typed) {
		t.Fatalf("typed error should pass through, got %v", got)
	}
}
