package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireMultipartContentType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/media", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=abc")
	rr := httptest.NewRecorder()

	if !RequireMultipartContentType(rr, req) {
		t.Fatalf("expected multipart content type to be accepted")
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status code %d", rr.Code)
	}
}

func TestRequireMultipartContentTypeRejectsOthers(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/media", nil)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	if RequireMultipartContentType(rr, req) {
		t.Fatalf("expected non-multipart content type to be rejected")
	}
	if rr.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rr.Code)
	}
}

func TestExtractMediaType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/media", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=abc")
	rr := httptest.NewRecorder()

	mediaType, ok := ExtractMediaType(rr, req)
	if !ok {
		t.Fatalf("expected media type to parse")
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("unexpected media type %q", mediaType)
	}
}

func TestExtractMediaTypeMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/media", nil)
	rr := httptest.NewRecorder()

	if _, ok := ExtractMediaType(rr, req); ok {
		t.Fatalf("expected missing content type to fail")
	}
	if rr.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rr.Code)
	}
}

func TestExtractMediaTypeMalformed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/media", nil)
	req.Header.Set("Content-Type", "multipart/; ;;")
	rr := httptest.NewRecorder()

	if _, ok := ExtractMediaType(rr, req); ok {
		t.Fatalf("expected malformed content type to fail")
	}
}
