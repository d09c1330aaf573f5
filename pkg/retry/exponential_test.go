package retry

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestRetrier(cfg Config) (*Retrier, *[]time.Duration) {
	r := New(cfg, quietLogger())
	var slept []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return r, &slept
}

func TestExecute_SucceedsAfterTransientFailures(t *testing.T) {
	r, slept := newTestRetrier(DefaultConfig())
	calls := 0
	err := r.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection reset")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Execute err: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(*slept) != len(want) {
		t.Fatalf("slept %v, want %v", *slept, want)
	}
	for i := range want {
		if (*slept)[i] != want[i] {
			t.Fatalf("delay[%d] = %v, want %v", i, (*slept)[i], want[i])
		}
	}
}

func TestExecute_ReturnsLastErrorAfterAllAttempts(t *testing.T) {
	r, slept := newTestRetrier(DefaultConfig())
	calls := 0
	err := r.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return errors.New("attempt failed")
	})
	if err == nil || err.Error() != "attempt failed" {
		t.Fatalf("err = %v, want last error", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	if len(*slept) != 2 {
		t.Fatalf("sleeps = %d, want 2 (no sleep after last attempt)", len(*slept))
	}
}

func TestExecute_StopsOnNonRetryable(t *testing.T) {
	permanent := errors.New("not found")
	cfg := DefaultConfig()
	cfg.Retryable = func(err error) bool { return !errors.Is(err, permanent) }
	r, _ := newTestRetrier(cfg)

	calls := 0
	err := r.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("err = %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestExecute_CancelledContext(t *testing.T) {
	r, _ := newTestRetrier(DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := r.Execute(ctx, "op", func(context.Context) error {
		t.Fatal("fn must not run on a cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestDelay_CappedByMaxDelay(t *testing.T) {
	r := New(Config{MaxAttempts: 10, BaseDelay: time.Second, MaxDelay: 3 * time.Second, Multiplier: 2}, quietLogger())
	if got := r.Delay(5); got != 3*time.Second {
		t.Fatalf("Delay(5) = %v, want 3s", got)
	}
}
