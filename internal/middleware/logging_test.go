package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Varun5711/contatos/internal/logger"
)

func TestLogging_SetsRequestIDAndLogs(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New("test").WithOutput(&buf)

	h := Logging(log, false, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hello"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/contatos/7", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected generated request id")
	}
	out := buf.String()
	if !strings.Contains(out, "GET /contatos/7 418 5B") {
		t.Errorf("unexpected log line %q", out)
	}
}

func TestLogging_KeepsClientRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New("test").WithOutput(&buf)

	h := Logging(log, false, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("expected client request id to be echoed, got %q", rec.Header().Get(RequestIDHeader))
	}
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New("test").WithOutput(&buf)

	h := Recover(log, func(w http.ResponseWriter, status int, message string) {
		http.Error(w, message, status)
	}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("expected panic to be logged, got %q", buf.String())
	}
}

func TestRecover_AfterHeadersWritten(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New("test").WithOutput(&buf)

	errorWrites := 0
	h := Recover(log, func(w http.ResponseWriter, status int, message string) {
		errorWrites++
		http.Error(w, message, status)
	}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("partial"))
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if errorWrites != 0 {
		t.Errorf("expected no error body after headers were sent, got %d writes", errorWrites)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected original status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "partial" {
		t.Errorf("expected body untouched, got %q", rec.Body.String())
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("expected panic to be logged, got %q", buf.String())
	}
}

func TestStatusWriter_IgnoresSecondWriteHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec, status: http.StatusOK}

	sw.WriteHeader(http.StatusCreated)
	sw.WriteHeader(http.StatusInternalServerError)

	if sw.status != http.StatusCreated || rec.Code != http.StatusCreated {
		t.Errorf("expected 201 to stick, got writer=%d recorder=%d", sw.status, rec.Code)
	}
}
