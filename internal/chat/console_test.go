package chat

import (
	"strings"
	"testing"
)

func newConsoleServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(Options{
		HistoryLimit: 10,
		Logger:       discardLogger(),
	})
}

func TestConsole_UsersAndListReflectSuspension(t *testing.T) {
	srv := newConsoleServer(t)
	alice := newTestPeer(t, srv.Registry(), "alice")
	newTestPeer(t, srv.Registry(), "bob")

	out := runConsole(t, srv, "/users\n/suspend alice\n/list\n")

	if !strings.Contains(out, "1. alice") || !strings.Contains(out, "2. bob") {
		t.Fatalf("user listing incomplete:\n%s", out)
	}
	if !strings.Contains(out, "Suspended user: alice") {
		t.Fatalf("missing suspend confirmation:\n%s", out)
	}
	if !strings.Contains(out, "alice (pipe) - SUSPENDED") || !strings.Contains(out, "bob (pipe) - ACTIVE") {
		t.Fatalf("detailed listing missing status:\n%s", out)
	}
	waitForLine(t, alice.lines, "You have been suspended by the server admin")
}

func TestConsole_SuspendLifecycle(t *testing.T) {
	srv := newConsoleServer(t)
	alice := newTestPeer(t, srv.Registry(), "alice")

	out := runConsole(t, srv, "/suspend alice\n/suspend alice\n/suspend -ls\n/!suspend alice\n/suspend -ls\n")

	if !strings.Contains(out, "already suspended") {
		t.Fatalf("second suspend not reported as no-op:\n%s", out)
	}
	if !strings.Contains(out, "1. alice") {
		t.Fatalf("suspend listing missing alice:\n%s", out)
	}
	if !strings.Contains(out, "Removed suspension for user: alice") {
		t.Fatalf("missing unsuspend confirmation:\n%s", out)
	}
	if !strings.Contains(out, "No users are currently suspended.") {
		t.Fatalf("suspend listing not emptied:\n%s", out)
	}
	if srv.Moderation().IsSuspended("alice") {
		t.Fatal("alice should not be suspended after /!suspend")
	}
	waitForLine(t, alice.lines, "You have been unsuspended by the server admin.")
}

func TestConsole_UnsuspendWorksForOfflineNames(t *testing.T) {
	srv := newConsoleServer(t)
	srv.Moderation().Suspend("ghost")

	out := runConsole(t, srv, "/!suspend ghost\n")

	if !strings.Contains(out, "Removed suspension for user: ghost") {
		t.Fatalf("offline unsuspend failed:\n%s", out)
	}
	if srv.Moderation().IsSuspended("ghost") {
		t.Fatal("ghost should not be suspended")
	}
}

func TestConsole_KickAndRevive(t *testing.T) {
	srv := newConsoleServer(t)
	alice := newTestPeer(t, srv.Registry(), "alice")

	out := runConsole(t, srv, "/kick alice\n/kick -ls\n/kick nobody\n/revive alice\n/kick -ls\n")

	if !strings.Contains(out, "Kicked user: alice") {
		t.Fatalf("missing kick confirmation:\n%s", out)
	}
	if !strings.Contains(out, "1. alice - pipe") {
		t.Fatalf("kick listing missing alice:\n%s", out)
	}
	if !strings.Contains(out, `User "nobody" not found or already kicked`) {
		t.Fatalf("missing not-found report:\n%s", out)
	}
	if !strings.Contains(out, `User "alice" can now reconnect`) {
		t.Fatalf("missing revive confirmation:\n%s", out)
	}
	if !strings.Contains(out, "No users have been kicked.") {
		t.Fatalf("kick listing not emptied:\n%s", out)
	}

	waitForLine(t, alice.lines, "You have been kicked by the server admin.")
	waitClosed(t, alice.lines)
	if srv.Registry().Len() != 0 {
		t.Fatal("kicked session should be unregistered")
	}
	if srv.Moderation().IsKicked("alice") {
		t.Fatal("alice should be revived")
	}
}

func TestConsole_ChatModeReplaysHistory(t *testing.T) {
	srv := newConsoleServer(t)
	srv.History().Append(RecordMessage, "alice: hello")
	srv.History().Append(RecordSystem, "bob has left the chat.")

	out := runConsole(t, srv, "/chat\n/kick alice\n/back\n")

	if !strings.Contains(out, "Chat history (last 10 messages):") {
		t.Fatalf("missing replay header:\n%s", out)
	}
	if !strings.Contains(out, "alice: hello") {
		t.Fatalf("missing message record:\n%s", out)
	}
	if !strings.Contains(out, "SYSTEM: bob has left the chat.") {
		t.Fatalf("missing system record:\n%s", out)
	}
	if !strings.Contains(out, "Commands are not supported in chat mode.") {
		t.Fatalf("chat mode accepted a command:\n%s", out)
	}
	if !strings.Contains(out, "Exiting chat mode.") {
		t.Fatalf("missing /back confirmation:\n%s", out)
	}
	if srv.Moderation().IsKicked("alice") {
		t.Fatal("chat mode must not execute moderation commands")
	}
}

func TestConsole_ChatModeWithEmptyHistory(t *testing.T) {
	srv := newConsoleServer(t)
	out := runConsole(t, srv, "/chat\n")
	if !strings.Contains(out, "No recent messages.") {
		t.Fatalf("missing empty-history notice:\n%s", out)
	}
}

func TestConsole_InputErrors(t *testing.T) {
	srv := newConsoleServer(t)
	out := runConsole(t, srv, "/bogus\n/kick\n/suspend nobody\n/revive\n")

	if !strings.Contains(out, "Unknown command.") {
		t.Fatalf("missing unknown-command report:\n%s", out)
	}
	if !strings.Contains(out, "Usage: /kick <username>") {
		t.Fatalf("missing kick usage:\n%s", out)
	}
	if !strings.Contains(out, `User "nobody" not found`) {
		t.Fatalf("missing suspend not-found report:\n%s", out)
	}
	if !strings.Contains(out, "Usage: /revive <username>") {
		t.Fatalf("missing revive usage:\n%s", out)
	}
}
