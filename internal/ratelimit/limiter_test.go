package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestEleventhRequestDenied(t *testing.T) {
	l := NewMemoryLimiter(10, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		ok, err := l.Allow(ctx, "user1")
		if err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
		if !ok {
			t.Fatalf("Request %d should be allowed", i)
		}
	}

	ok, err := l.Allow(ctx, "user1")
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if ok {
		t.Error("11th request within window should be denied")
	}
}

func TestWindowResetAllows(t *testing.T) {
	l := NewMemoryLimiter(10, time.Minute)
	ctx := context.Background()

	now := time.Now()
	l.now = func() time.Time { return now }

	for i := 0; i < 11; i++ {
		if _, err := l.Allow(ctx, "user1"); err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
	}

	// Cross the window boundary.
	l.now = func() time.Time { return now.Add(61 * time.Second) }

	ok, err := l.Allow(ctx, "user1")
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if !ok {
		t.Error("First request after window boundary should be allowed")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := l.Allow(ctx, "heavy"); err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
	}

	ok, err := l.Allow(ctx, "light")
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if !ok {
		t.Error("Separate key should have its own quota")
	}
}
