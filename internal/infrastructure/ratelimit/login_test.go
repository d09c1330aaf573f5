package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newCounter(t *testing.T, limit int) (*FailureCounter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewFailureCounter(rdb, "login", limit, 15*time.Minute), mr
}

func TestFailureCounter_BlocksAfterMax(t *testing.T) {
	ctx := context.Background()
	f, mr := newCounter(t, 3)

	for i := 1; i <= 3; i++ {
		blocked, _, err := f.Blocked(ctx, "a@mail.bi")
		if err != nil || blocked {
			t.Fatalf("attempt %d blocked=%v err=%v", i, blocked, err)
		}
		if n, err := f.Fail(ctx, "a@mail.bi"); err != nil || n != i {
			t.Fatalf("Fail = %d, %v", n, err)
		}
	}
	blocked, retryIn, err := f.Blocked(ctx, "a@mail.bi")
	if err != nil || !blocked || retryIn <= 0 {
		t.Fatalf("blocked=%v retryIn=%v err=%v", blocked, retryIn, err)
	}

	mr.FastForward(16 * time.Minute)
	if blocked, _, _ := f.Blocked(ctx, "a@mail.bi"); blocked {
		t.Fatal("window did not expire")
	}
}

func TestFailureCounter_Reset(t *testing.T) {
	ctx := context.Background()
	f, _ := newCounter(t, 1)
	_, _ = f.Fail(ctx, "x")
	if blocked, _, _ := f.Blocked(ctx, "x"); !blocked {
		t.Fatal("expected block")
	}
	if err := f.Reset(ctx, "x"); err != nil {
		t.Fatal(err)
	}
	if blocked, _, _ := f.Blocked(ctx, "x"); blocked {
		t.Fatal("reset did not clear")
	}
}
