package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBodyLimitRejectsOversizeDeclaredBody(t *testing.T) {
	handler := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("way past the limit"))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "payload_too_large") {
		t.Errorf("body = %q, want payload_too_large code", rec.Body.String())
	}
}

func TestBodyLimitCapsUndeclaredBody(t *testing.T) {
	var readErr error
	handler := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	// Chunked-style request: no Content-Length, so the cap must come from the
	// wrapped reader.
	req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(strings.NewReader("way past the limit")))
	req.ContentLength = -1
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if readErr == nil {
		t.Fatal("expected read past limit to fail")
	}
}

func TestBodyLimitAllowsSmallBody(t *testing.T) {
	var got []byte
	handler := BodyLimit(64)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = io.ReadAll(r.Body)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("ok"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if string(got) != "ok" {
		t.Errorf("handler read %q, want %q", got, "ok")
	}
}

func TestBodyLimitDisabledWhenZero(t *testing.T) {
	var got []byte
	handler := BodyLimit(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = io.ReadAll(r.Body)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 1024)))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if len(got) != 1024 {
		t.Errorf("handler read %d bytes, want 1024", len(got))
	}
}
