package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestIDEchoedFromHeader(t *testing.T) {
	const supplied = "trace-abc-1"
	var seen string
	handler := WithRequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromRequest(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/account/me", nil)
	req.Header.Set("X-Request-Id", supplied)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != supplied {
		t.Fatalf("context request id = %q, want %q", seen, supplied)
	}
	if got := rec.Header().Get("X-Request-Id"); got != supplied {
		t.Fatalf("response request id = %q, want %q", got, supplied)
	}
}

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	var seen string
	handler := WithRequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromRequest(r)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/account/me", nil))

	if seen == "" {
		t.Fatal("expected a generated request id in context")
	}
	if got := rec.Header().Get("X-Request-Id"); got != seen {
		t.Fatalf("response request id = %q, want the context value %q", got, seen)
	}
}
