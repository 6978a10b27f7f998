package bot

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	err := store.Put(ctx, &Session{ChatID: 42, Flow: flowNewLead, Step: stepCompany})
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	session, err := store.Get(ctx, 42)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if session == nil {
		t.Fatal("expected session, got nil")
	}
	if session.Flow != flowNewLead || session.Step != stepCompany {
		t.Fatalf("unexpected session: flow=%q step=%q", session.Flow, session.Step)
	}
	if session.UpdatedAt.IsZero() {
		t.Fatal("Put should stamp UpdatedAt")
	}
}

func TestMemoryStoreMissReturnsNil(t *testing.T) {
	store := NewMemorySessionStore()

	session, err := store.Get(context.Background(), 99)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if session != nil {
		t.Fatalf("expected nil for unknown chat, got %+v", session)
	}
}

func TestMemoryStoreExpiresIdleSessions(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	if err := store.Put(ctx, &Session{ChatID: 7, Flow: flowLink, Step: stepEmail}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Backdate the session past the TTL as if the user walked away.
	mem := store.(*memorySessionStore)
	mem.mu.Lock()
	mem.sessions[7].UpdatedAt = time.Now().Add(-SessionTTL - time.Second)
	mem.mu.Unlock()

	session, err := store.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if session != nil {
		t.Fatal("expected expired session to be dropped")
	}

	mem.mu.Lock()
	_, still := mem.sessions[7]
	mem.mu.Unlock()
	if still {
		t.Fatal("expired session should be removed from the map")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	if err := store.Put(ctx, &Session{ChatID: 1, Flow: flowNewLead, Step: stepConfirm}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	session, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if session != nil {
		t.Fatal("deleted session should not be returned")
	}
}

func TestMemoryStorePutRefreshesExpiry(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := &Session{ChatID: 5, Flow: flowNewLead, Step: stepCompany}
	if err := store.Put(ctx, session); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	first := session.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	session.Step = stepSector
	if err := store.Put(ctx, session); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, err := store.Get(ctx, 5)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected session after refresh")
	}
	if !got.UpdatedAt.After(first) {
		t.Fatal("Put should advance UpdatedAt")
	}
	if got.Step != stepSector {
		t.Fatalf("expected step %q, got %q", stepSector, got.Step)
	}
}
