package chat

import (
	"testing"

	"github.com/google/uuid"
)

func TestRegistry_RegisterRejectsDuplicateName(t *testing.T) {
	r := NewRegistry(discardLogger())

	alice := &Session{ID: uuid.New(), Name: "alice"}
	if err := r.Register(alice); err != nil {
		t.Fatalf("register(alice) error: %v", err)
	}

	impostor := &Session{ID: uuid.New(), Name: "Alice"}
	if err := r.Register(impostor); err != ErrNameTaken {
		t.Fatalf("expected ErrNameTaken for duplicate name, got %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 registered session, got %d", r.Len())
	}
}

func TestRegistry_SnapshotSortedAndReflectsLeave(t *testing.T) {
	r := NewRegistry(discardLogger())

	bob := &Session{ID: uuid.New(), Name: "bob"}
	alice := &Session{ID: uuid.New(), Name: "alice"}
	for _, s := range []*Session{bob, alice} {
		if err := r.Register(s); err != nil {
			t.Fatalf("register(%s) error: %v", s.Name, err)
		}
	}

	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "alice" || snap[1].Name != "bob" {
		t.Fatalf("unexpected snapshot order: %v", names(snap))
	}

	if name, ok := r.Unregister(bob.ID); !ok || name != "bob" {
		t.Fatalf("unregister(bob) = %q, %v", name, ok)
	}
	snap = r.Snapshot()
	if len(snap) != 1 || snap[0].Name != "alice" {
		t.Fatalf("unexpected snapshot after leave: %v", names(snap))
	}
}

func TestRegistry_UnregisterIsIdempotent(t *testing.T) {
	r := NewRegistry(discardLogger())

	alice := &Session{ID: uuid.New(), Name: "alice"}
	if err := r.Register(alice); err != nil {
		t.Fatalf("register(alice) error: %v", err)
	}
	if _, ok := r.Unregister(alice.ID); !ok {
		t.Fatal("first unregister reported absent")
	}
	if name, ok := r.Unregister(alice.ID); ok {
		t.Fatalf("second unregister reported present as %q", name)
	}
}

func TestRegistry_LookupIsCaseInsensitive(t *testing.T) {
	r := NewRegistry(discardLogger())

	alice := &Session{ID: uuid.New(), Name: "Alice"}
	if err := r.Register(alice); err != nil {
		t.Fatalf("register(Alice) error: %v", err)
	}

	got, ok := r.Lookup("alice")
	if !ok || got.ID != alice.ID {
		t.Fatalf("lookup(alice) = %v, %v", got, ok)
	}
	if _, ok := r.Lookup("nobody"); ok {
		t.Fatal("lookup(nobody) unexpectedly found a session")
	}
}

func names(sessions []*Session) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.Name
	}
	return out
}
