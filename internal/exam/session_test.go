package exam

import (
	"testing"
	"time"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	if _, ok := store.Get(1); ok {
		t.Fatal("expected no session for fresh store")
	}

	session := &Session{LevelID: "2", StartedAt: time.Now()}
	store.Put(1, session)

	got, ok := store.Get(1)
	if !ok {
		t.Fatal("expected session after Put")
	}
	if got != session {
		t.Fatal("Get returned a different session")
	}

	store.Remove(1)
	if _, ok := store.Get(1); ok {
		t.Fatal("expected session gone after Remove")
	}

	// Removing an absent key is a no-op.
	store.Remove(1)
}

func TestSessionStoreLastWriteWins(t *testing.T) {
	store := NewSessionStore()

	first := &Session{LevelID: "1"}
	second := &Session{LevelID: "5"}
	store.Put(7, first)
	store.Put(7, second)

	got, ok := store.Get(7)
	if !ok {
		t.Fatal("expected a session")
	}
	if got != second {
		t.Fatal("double start must leave only the second session reachable")
	}
}
