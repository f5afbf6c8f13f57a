package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitBurstThenBlock(t *testing.T) {
	handler := RateLimit(RateLimitConfig{Burst: 2, RefillPerMin: 1})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	do := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/send-verification-code", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := do(); got != http.StatusOK {
		t.Errorf("first request = %d, want 200", got)
	}
	if got := do(); got != http.StatusOK {
		t.Errorf("second request = %d, want 200", got)
	}
	if got := do(); got != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", got)
	}
}

func TestRateLimitIsPerIP(t *testing.T) {
	handler := RateLimit(RateLimitConfig{Burst: 1, RefillPerMin: 1})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := do("10.0.0.1:1"); got != http.StatusOK {
		t.Errorf("first ip = %d, want 200", got)
	}
	if got := do("10.0.0.1:2"); got != http.StatusTooManyRequests {
		t.Errorf("same ip again = %d, want 429", got)
	}
	if got := do("10.0.0.2:1"); got != http.StatusOK {
		t.Errorf("other ip = %d, want 200", got)
	}
}

func TestRateLimitRefills(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 1, RefillPerMin: 60}) // one token per second

	now := time.Now()
	if ok, _ := l.allow("ip", now); !ok {
		t.Fatal("first call must pass")
	}
	if ok, retry := l.allow("ip", now); ok {
		t.Fatal("second immediate call must be blocked")
	} else if retry < 1 {
		t.Errorf("retry hint = %d, want >= 1", retry)
	}
	if ok, _ := l.allow("ip", now.Add(2*time.Second)); !ok {
		t.Error("call after refill window must pass")
	}
}
