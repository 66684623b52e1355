package pagination

import (
	"net/http/httptest"
	"testing"
)

func TestNormalizeDefaults(t *testing.T) {
	p := Normalize(Params{})
	if p.Page != 1 {
		t.Fatalf("expected page 1, got %d", p.Page)
	}
	if p.PageSize != DefaultPageSize {
		t.Fatalf("expected default size, got %d", p.PageSize)
	}
}

func TestNormalizeCapsPageSize(t *testing.T) {
	p := Normalize(Params{Page: 2, PageSize: 10_000})
	if p.PageSize != MaxPageSize {
		t.Fatalf("expected capped size, got %d", p.PageSize)
	}
}

func TestOffset(t *testing.T) {
	p := Normalize(Params{Page: 3, PageSize: 20})
	if p.Offset() != 40 {
		t.Fatalf("expected offset 40, got %d", p.Offset())
	}
	if p.Limit() != 20 {
		t.Fatalf("expected limit 20, got %d", p.Limit())
	}
}

func TestFromRequestIgnoresGarbage(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/vehicles?page=abc&pageSize=-5", nil)
	p := FromRequest(req)
	if p.Page != 1 || p.PageSize != DefaultPageSize {
		t.Fatalf("expected defaults for garbage input, got %+v", p)
	}
}

func TestWriteHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteHeaders(rec, Params{Page: 2, PageSize: 50}, 123)
	if rec.Header().Get(HeaderTotalCount) != "123" {
		t.Fatalf("total count header: %q", rec.Header().Get(HeaderTotalCount))
	}
	if rec.Header().Get(HeaderPageNumber) != "2" {
		t.Fatalf("page number header: %q", rec.Header().Get(HeaderPageNumber))
	}
	if rec.Header().Get(HeaderPageSize) != "50" {
		t.Fatalf("page size header: %q", rec.Header().Get(HeaderPageSize))
	}
}
