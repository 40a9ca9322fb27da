package chat

import (
	"reflect"
	"testing"
)

func TestModeration_SuspendIsIdempotent(t *testing.T) {
	m := NewModeration()

	if !m.Suspend("alice") {
		t.Fatal("first suspend reported already suspended")
	}
	if m.Suspend("alice") {
		t.Fatal("second suspend did not report already suspended")
	}
	if !m.IsSuspended("alice") {
		t.Fatal("alice should be suspended")
	}

	if !m.Unsuspend("alice") {
		t.Fatal("unsuspend reported not suspended")
	}
	if m.Unsuspend("alice") {
		t.Fatal("second unsuspend did not report not suspended")
	}
	if m.IsSuspended("alice") {
		t.Fatal("alice should no longer be suspended")
	}
}

func TestModeration_KickRecordsAddressAndClearsSuspension(t *testing.T) {
	m := NewModeration()

	m.Suspend("bob")
	m.Kick("bob", "203.0.113.7:4242")

	if !m.IsKicked("bob") {
		t.Fatal("bob should be kicked")
	}
	if m.IsSuspended("bob") {
		t.Fatal("kick should clear the suspension entry")
	}
	want := []KickedUser{{Name: "bob", Addr: "203.0.113.7:4242"}}
	if got := m.Kicked(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected kicked listing: %v", got)
	}
}

func TestModeration_ReviveLiftsBan(t *testing.T) {
	m := NewModeration()

	if m.Revive("bob") {
		t.Fatal("revive of never-kicked name reported success")
	}
	m.Kick("bob", "203.0.113.7:4242")
	if !m.Revive("bob") {
		t.Fatal("revive reported name not kicked")
	}
	if m.IsKicked("bob") {
		t.Fatal("bob should be allowed back in")
	}
}

func TestModeration_NamesMatchAnyCase(t *testing.T) {
	m := NewModeration()

	m.Kick("Bob", "203.0.113.7:4242")
	if !m.IsKicked("bob") || !m.IsKicked("BOB") {
		t.Fatal("kick entry should match any case of the name")
	}
	if !m.Revive("bob") {
		t.Fatal("revive should match the kicked name case-insensitively")
	}
	if m.IsKicked("Bob") {
		t.Fatal("Bob should be allowed back in")
	}

	m.Suspend("Alice")
	if !m.IsSuspended("alice") {
		t.Fatal("suspension should match any case of the name")
	}
	if m.Suspend("ALICE") {
		t.Fatal("case variant treated as a distinct suspension")
	}
	if !m.Unsuspend("aLiCe") {
		t.Fatal("unsuspend should match the suspended name case-insensitively")
	}
	if got := m.Suspended(); len(got) != 0 {
		t.Fatalf("suspended listing should be empty, got %v", got)
	}
}

func TestModeration_ListingsAreSorted(t *testing.T) {
	m := NewModeration()

	m.Suspend("carol")
	m.Suspend("alice")
	m.Suspend("bob")

	want := []string{"alice", "bob", "carol"}
	if got := m.Suspended(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected suspended listing: %v", got)
	}

	m.Kick("zed", "z")
	m.Kick("ann", "a")
	kicked := m.Kicked()
	if len(kicked) != 2 || kicked[0].Name != "ann" || kicked[1].Name != "zed" {
		t.Fatalf("unexpected kicked order: %v", kicked)
	}
}
