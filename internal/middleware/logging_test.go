package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, r *http.Request) {
		if RequestID(r.Context()) == "" {
			t.Error("request id missing from context")
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("gone"))
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/items/7", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	req.Header.Set("X-Forwarded-For", "6.6.6.6")
	clientIP, err := NewClientIP(nil)
	if err != nil {
		t.Fatal(err)
	}
	RequestLogger(logger, clientIP.Resolve)(mux).ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", rec.Header().Get("X-Request-ID"))
	}
	out := buf.String()
	for _, want := range []string{"level=WARN", "status=404", "request_id=abc-123", `route="GET /items/{id}"`, "bytes=4", "remote=192.0.2.1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	h := Recover(slog.New(slog.NewTextHandler(&buf, nil)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(buf.String(), "handler panic") {
		t.Errorf("panic not logged: %s", buf.String())
	}
}
