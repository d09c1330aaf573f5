package cache_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"

	"driver-license-portal/internal/adapter/middleware"
	"driver-license-portal/internal/infrastructure/cache"
	"driver-license-portal/internal/infrastructure/logger"
	"driver-license-portal/internal/infrastructure/ratelimit"
)

func TestKey(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"ratelimit", "login", "User@Mail.com"}, "dlportal:ratelimit:login:user@mail.com"},
		{[]string{"idemp", "POST", "/api/applications/payment", "Key-1"}, "dlportal:idemp:post:/api/applications/payment:key-1"},
		{nil, "dlportal:"},
	}
	for _, tt := range tests {
		if got := cache.Key(tt.parts...); got != tt.want {
			t.Errorf("Key(%q) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func TestOpenRedis_SelectsDB(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := cache.OpenRedis(mr.Addr(), 3)
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	f := ratelimit.NewFailureCounter(rdb, "login", 5, 15*time.Minute)
	if _, err := f.Fail(context.Background(), "Alice@Mail.bi"); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	mr.Select(3)
	key := "dlportal:ratelimit:login:alice@mail.bi"
	if v, err := mr.Get(key); err != nil || v != "1" {
		t.Fatalf("counter %s = %q err=%v (db 3)", key, v, err)
	}
	if ttl := mr.TTL(key); ttl <= 0 || ttl > 15*time.Minute {
		t.Fatalf("counter ttl = %v", ttl)
	}
	mr.Select(0)
	if mr.Exists(key) {
		t.Fatal("counter written to db 0")
	}
}

func TestOpenRedis_IdempotencyKeysAreNamespaced(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := cache.OpenRedis(mr.Addr(), 0)
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	e := echo.New()
	e.Use(middleware.Idempotency(rdb, time.Hour, logger.Discard()))
	e.POST("/api/applications/payment", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	})
	req := httptest.NewRequest(http.MethodPost, "/api/applications/payment", strings.NewReader(`{"amount":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(middleware.HeaderIdempotencyKey, "Pay-Key-0001")
	e.ServeHTTP(httptest.NewRecorder(), req)

	keys := mr.Keys()
	if len(keys) != 1 || keys[0] != "dlportal:idemp:post:/api/applications/payment:pay-key-0001" {
		t.Fatalf("keys = %v", keys)
	}
	if ttl := mr.TTL(keys[0]); ttl <= 0 || ttl > time.Hour {
		t.Fatalf("entry ttl = %v", ttl)
	}
}

func TestOpenRedis_Unreachable(t *testing.T) {
	if _, err := cache.OpenRedis("127.0.0.1:1", 0); err == nil {
		t.Fatal("expected error for unreachable redis")
	}
}
