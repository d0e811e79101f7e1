package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func testRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(1.0),
		GeneralBurst:    3,
		SubscribeRate:   rate.Limit(1.0),
		SubscribeBurst:  2,
		CleanupInterval: time.Hour,
	}
}

func doRequest(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/subscribe", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// バーストを超えた購読リクエストが429で拒否されることを検証する。
func TestSubscribeMiddleware_BlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.SubscribeMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		if w := doRequest(handler, "10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}

	w := doRequest(handler, "10.0.0.1:1234")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header should be set")
	}
}

// レート制限がクライアントIPごとに独立していることを検証する。
func TestSubscribeMiddleware_IndependentPerClient(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.SubscribeMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// 1つ目のIPでバーストを使い切る
	doRequest(handler, "10.0.0.1:1234")
	doRequest(handler, "10.0.0.1:1234")
	if w := doRequest(handler, "10.0.0.1:1234"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("first client should be limited, got %d", w.Code)
	}

	// 別のIPは制限されない
	if w := doRequest(handler, "10.0.0.2:1234"); w.Code != http.StatusOK {
		t.Errorf("second client status = %d, want 200", w.Code)
	}
}

// API全般と購読登録のレート制限が独立に動作することを検証する。
func TestRateLimiter_GeneralAndSubscribeIndependent(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	subscribeHandler := rl.SubscribeMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	generalHandler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// 購読のバーストを使い切る
	doRequest(subscribeHandler, "10.0.0.1:1234")
	doRequest(subscribeHandler, "10.0.0.1:1234")
	if w := doRequest(subscribeHandler, "10.0.0.1:1234"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("subscribe should be limited, got %d", w.Code)
	}

	// API全般はまだ利用できる
	if w := doRequest(generalHandler, "10.0.0.1:1234"); w.Code != http.StatusOK {
		t.Errorf("general status = %d, want 200", w.Code)
	}
}

// X-Forwarded-Forの先頭エントリがキーとして使われることを検証する。
func TestClientIP_PrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "127.0.0.1:9999"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	if ip := clientIP(req); ip != "203.0.113.7" {
		t.Errorf("clientIP = %q, want 203.0.113.7", ip)
	}
}

// X-Forwarded-Forがない場合はRemoteAddrのホスト部が使われることを検証する。
func TestClientIP_FallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.5:4321"

	if ip := clientIP(req); ip != "192.0.2.5" {
		t.Errorf("clientIP = %q, want 192.0.2.5", ip)
	}
}

// cleanupで期限切れエントリが削除されることを検証する。
func TestRateLimiter_CleanupRemovesStaleEntries(t *testing.T) {
	cfg := testRateLimiterConfig()
	cfg.CleanupInterval = time.Millisecond
	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	doRequest(handler, "10.0.0.1:1234")

	if count := rl.GeneralLimiterCount(); count != 1 {
		t.Fatalf("limiter count = %d, want 1", count)
	}

	// TTL（CleanupInterval * 2）経過後にクリーンアップされる
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if rl.GeneralLimiterCount() == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("stale limiter entry was not cleaned up")
}
