package slots

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"dondar/apperr"
)

func TestWriteStoreErrorMapsNotFoundTo404(t *testing.T) {
	rec := httptest.NewRecorder()
	writeStoreError(rec, apperr.ErrNotFound)
	if rec.Code != 404 {
		t.Fatalf("status %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	writeStoreError(rec, fmt.Errorf("edit slot: %w", apperr.ErrNotFound))
	if rec.Code != 404 {
		t.Fatalf("wrapped sentinel: status %d, want 404", rec.Code)
	}
}

func TestWriteStoreErrorMapsOtherFailuresTo500(t *testing.T) {
	rec := httptest.NewRecorder()
	writeStoreError(rec, errors.New("connection reset"))
	if rec.Code != 500 {
		t.Fatalf("status %d, want 500", rec.Code)
	}
}
