package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClientLimiter(t *testing.T) {
	l := NewClientLimiter(1, time.Hour, 2)

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("burst of 2 should be allowed")
	}
	if l.Allow("a") {
		t.Error("third request should be throttled")
	}
	if !l.Allow("b") {
		t.Error("other clients have their own bucket")
	}
}

func TestClientLimiter_Disabled(t *testing.T) {
	l := NewClientLimiter(0, time.Minute, 0)
	for i := 0; i < 100; i++ {
		if !l.Allow("a") {
			t.Fatalf("request %d throttled with limiting disabled", i)
		}
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewClientLimiter(1, time.Hour, 1)
	h := RateLimitMiddleware(limiter, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for _, addr := range []string{"10.0.0.1:1000", "10.0.0.1:2000", "10.0.0.2:1000"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/reels/quote", nil)
		req.RemoteAddr = addr
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	want := []int{http.StatusOK, http.StatusTooManyRequests, http.StatusOK}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d status = %d, want %d", i, codes[i], want[i])
		}
	}
}

func TestClientLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := NewClientLimiter(12, time.Minute, 3)
	l.now = func() time.Time { return now }
	l.lastSweep = now

	for i := 0; i < 50; i++ {
		l.Allow(fmt.Sprintf("10.0.0.%d", i))
	}
	if l.Len() != 50 {
		t.Fatalf("Len() = %d, want 50", l.Len())
	}

	now = now.Add(l.idleTTL)
	if !l.Allow("10.0.1.1") {
		t.Fatal("new client throttled")
	}
	if l.Len() != 1 {
		t.Errorf("Len() after idle sweep = %d, want 1", l.Len())
	}
}

func TestRateLimitMiddleware_RefundsRequestsWithoutRender(t *testing.T) {
	limiter := NewClientLimiter(1, time.Hour, 1)
	status := http.StatusNoContent
	h := RateLimitMiddleware(limiter, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	post := func() int {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/reels/quote", nil)
		req.RemoteAddr = "10.0.0.1:1000"
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	for _, s := range []int{http.StatusNoContent, http.StatusBadRequest, http.StatusRequestEntityTooLarge} {
		status = s
		if got := post(); got != s {
			t.Fatalf("status = %d, want %d (token not refunded)", got, s)
		}
	}

	status = http.StatusOK
	if got := post(); got != http.StatusOK {
		t.Fatalf("render request status = %d, want 200", got)
	}
	if got := post(); got != http.StatusTooManyRequests {
		t.Errorf("status after a render = %d, want 429", got)
	}
}

func TestRateLimitMiddleware_NilLimiter(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := RateLimitMiddleware(nil, testLogger())(next)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestMaxBodyMiddleware(t *testing.T) {
	var readErr error
	h := MaxBodyMiddleware(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("short")))
	if readErr != nil {
		t.Errorf("small body: %v", readErr)
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("much too long body")))
	var tooLarge *http.MaxBytesError
	if !errors.As(readErr, &tooLarge) {
		t.Errorf("large body error = %v, want *http.MaxBytesError", readErr)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(RequestIDKey).(string)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if len(seen) != 8 {
		t.Errorf("request id = %q, want 8 chars", seen)
	}
	if rr.Header().Get("X-Request-ID") != seen {
		t.Errorf("header = %q, context = %q", rr.Header().Get("X-Request-ID"), seen)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rr.Code)
	}
	if body := decodeJSONBody(t, rr); body["code"] != "INTERNAL_ERROR" {
		t.Errorf("body = %v", body)
	}
}

func TestClientAddr(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"192.0.2.1:5555", "192.0.2.1"},
		{"[::1]:8080", "::1"},
		{"pipe", "pipe"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remote
		if got := clientAddr(req); got != tt.want {
			t.Errorf("clientAddr(%q) = %q, want %q", tt.remote, got, tt.want)
		}
	}
}
