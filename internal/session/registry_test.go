package session

import (
	"context"
	"testing"
	"time"
)

func TestGetOrCreateFresh(t *testing.T) {
	reg := NewRegistry(NewMemoryStore(), DefaultTTL)
	ctx := context.Background()

	entry, err := reg.GetOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if entry.QuestionCount != 0 {
		t.Errorf("Expected question count 0, got %d", entry.QuestionCount)
	}
	if len(entry.AnswerHistory) != 0 {
		t.Errorf("Expected empty answer history, got %d entries", len(entry.AnswerHistory))
	}
	if entry.LastActivity.IsZero() {
		t.Error("Expected last activity to be stamped")
	}
}

func TestResetThenGetOrCreate(t *testing.T) {
	reg := NewRegistry(NewMemoryStore(), DefaultTTL)
	ctx := context.Background()

	if err := reg.RecordAnswer(ctx, "s1", "I run an online store"); err != nil {
		t.Fatalf("RecordAnswer failed: %v", err)
	}
	entry, err := reg.GetOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	entry.QuestionCount = 3
	if err := reg.Save(ctx, entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := reg.Reset(ctx, "s1"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	entry, err = reg.GetOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("GetOrCreate after reset failed: %v", err)
	}
	if entry.QuestionCount != 0 {
		t.Errorf("Expected question count 0 after reset, got %d", entry.QuestionCount)
	}
	if len(entry.AnswerHistory) != 0 {
		t.Errorf("Expected empty history after reset, got %d entries", len(entry.AnswerHistory))
	}
}

func TestResetAllClearsEveryEntry(t *testing.T) {
	store := NewMemoryStore()
	reg := NewRegistry(store, DefaultTTL)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := reg.GetOrCreate(ctx, id); err != nil {
			t.Fatalf("GetOrCreate(%s) failed: %v", id, err)
		}
	}

	if err := reg.Reset(ctx, ""); err != nil {
		t.Fatalf("Reset all failed: %v", err)
	}

	for _, id := range []string{"a", "b", "c"} {
		entry, err := store.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get(%s) failed: %v", id, err)
		}
		if entry != nil {
			t.Errorf("Expected entry %s to be cleared", id)
		}
	}
}

func TestExpiredEntryRecreated(t *testing.T) {
	store := NewMemoryStore()
	reg := NewRegistry(store, 10*time.Millisecond)
	ctx := context.Background()

	if err := reg.RecordAnswer(ctx, "s1", "first"); err != nil {
		t.Fatalf("RecordAnswer failed: %v", err)
	}

	time.Sleep(25 * time.Millisecond)

	entry, err := reg.GetOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if len(entry.AnswerHistory) != 0 {
		t.Errorf("Expected expired session to start fresh, got %d answers", len(entry.AnswerHistory))
	}
}

func TestUsageMonotonic(t *testing.T) {
	reg := NewRegistry(NewMemoryStore(), DefaultTTL)
	ctx := context.Background()

	prev := 0
	var prevCost float64
	for i := 0; i < 4; i++ {
		entry, err := reg.GetOrCreate(ctx, "s1")
		if err != nil {
			t.Fatalf("GetOrCreate failed: %v", err)
		}
		entry.AddUsage(50, 0.001)
		if err := reg.Save(ctx, entry); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		tokens, cost, err := reg.Usage(ctx, "s1")
		if err != nil {
			t.Fatalf("Usage failed: %v", err)
		}
		if tokens < prev {
			t.Errorf("Token count decreased: %d -> %d", prev, tokens)
		}
		if cost < prevCost {
			t.Errorf("Cost decreased: %f -> %f", prevCost, cost)
		}
		prev = tokens
		prevCost = cost
	}
	if prev != 200 {
		t.Errorf("Expected 200 tokens after 4 calls, got %d", prev)
	}
}

func TestUsageMissingSession(t *testing.T) {
	reg := NewRegistry(NewMemoryStore(), DefaultTTL)

	tokens, cost, err := reg.Usage(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Usage failed: %v", err)
	}
	if tokens != 0 || cost != 0 {
		t.Errorf("Expected zero usage for missing session, got %d/%f", tokens, cost)
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	fresh, err := NewRegistry(store, DefaultTTL).GetOrCreate(ctx, "fresh")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	stale, err := NewRegistry(store, DefaultTTL).GetOrCreate(ctx, "stale")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	stale.LastActivity = time.Now().Add(-time.Hour)
	if err := store.Put(ctx, stale); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	removed, err := store.Sweep(ctx, 30*time.Minute)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 removed, got %d", removed)
	}

	got, err := store.Get(ctx, fresh.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Error("Fresh entry should survive sweep")
	}
}
