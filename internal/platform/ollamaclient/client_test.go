package ollamaclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestGenerateSucceedsFirstTry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(generateResponse{Response: `{"predicate":"related_to","confidence":0.9}`})
	}))
	defer srv.Close()

	c := New(Config{Endpoint: srv.URL, Model: "m", MaxRetries: 2, Timeout: time.Second}, testLogger(t))
	text, err := c.Generate(t.Context(), "prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text == "" {
		t.Fatal("expected non-empty response")
	}
}

func TestGenerateRetriesThenFails(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Config{Endpoint: srv.URL, Model: "m", MaxRetries: 3, Timeout: time.Second}, testLogger(t))
	start := time.Now()
	_, err := c.Generate(t.Context(), "prompt")
	elapsed := time.Since(start)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	// linear backoff of 1s + 2s between the 3 attempts
	if elapsed < 3*time.Second {
		t.Fatalf("expected backoff to elapse at least 3s, got %s", elapsed)
	}
}

func TestAvailableTrueAndFalse(t *testing.T) {
	srvOK := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srvOK.Close()
	c := New(Config{Endpoint: srvOK.URL}, testLogger(t))
	if !c.Available(t.Context()) {
		t.Fatal("expected available")
	}

	srvDown := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srvDown.Close()
	c2 := New(Config{Endpoint: srvDown.URL}, testLogger(t))
	if c2.Available(t.Context()) {
		t.Fatal("expected unavailable")
	}
}
