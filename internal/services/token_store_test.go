package services

import (
	"testing"
	"time"
)

func TestTokenStore_IssueAndFind(t *testing.T) {
	store := NewTokenStore(time.Hour)
	issued := store.Issue("test@example.com")

	found, ok := store.Find(issued.Token)
	if !ok {
		t.Fatalf("expected token to be found")
	}
	if found.Email != "test@example.com" {
		t.Fatalf("unexpected email: %q", found.Email)
	}
}

func TestTokenStore_ExpiredTokenIsAbsent(t *testing.T) {
	store := NewTokenStore(time.Hour)
	issued := store.Issue("test@example.com")

	// Move the clock past expiry.
	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if _, ok := store.Find(issued.Token); ok {
		t.Fatalf("expected expired token to be treated as absent")
	}
}

func TestTokenStore_ConsumeRemovesToken(t *testing.T) {
	store := NewTokenStore(time.Hour)
	issued := store.Issue("test@example.com")

	store.Consume(issued.Token)
	if _, ok := store.Find(issued.Token); ok {
		t.Fatalf("expected consumed token to be gone")
	}
}

func TestTokenStore_SweepDropsOnlyExpired(t *testing.T) {
	store := NewTokenStore(time.Hour)
	old := store.Issue("old@example.com")

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	fresh := store.Issue("fresh@example.com")
	store.Sweep()

	if _, ok := store.Find(old.Token); ok {
		t.Fatalf("expected swept token to be gone")
	}
	if _, ok := store.Find(fresh.Token); !ok {
		t.Fatalf("expected unexpired token to survive the sweep")
	}
}

func TestTokenStore_ZeroTTLDefaultsToAnHour(t *testing.T) {
	store := NewTokenStore(0)
	if store.ttl != time.Hour {
		t.Fatalf("expected default ttl of one hour, got %v", store.ttl)
	}
}
