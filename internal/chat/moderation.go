package chat

import (
	"sort"
	"strings"
	"sync"
)

// Moderation tracks the two operator-imposed states: suspended names,
// which stay connected but cannot send, and kicked names, which are
// disconnected and barred from the handshake until revived. Entries are
// keyed by display name, folded for case, so they outlive any one
// connection and match however the operator or a reconnecting client
// types the name.
type Moderation struct {
	mu        sync.Mutex
	suspended map[string]string     // folded name -> display name
	kicked    map[string]KickedUser // folded name -> listing entry
}

// KickedUser is one entry of the operator's kick listing.
type KickedUser struct {
	Name string
	Addr string
}

func NewModeration() *Moderation {
	return &Moderation{
		suspended: make(map[string]string),
		kicked:    make(map[string]KickedUser),
	}
}

func fold(name string) string { return strings.ToLower(name) }

// Suspend adds the name to the suspended set. Reports false when the
// name was already suspended.
func (m *Moderation) Suspend(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fold(name)
	if _, ok := m.suspended[key]; ok {
		return false
	}
	m.suspended[key] = name
	moderationActions.WithLabelValues("suspend").Inc()
	return true
}

// Unsuspend removes the name. Reports false when it was not suspended.
func (m *Moderation) Unsuspend(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fold(name)
	if _, ok := m.suspended[key]; !ok {
		return false
	}
	delete(m.suspended, key)
	moderationActions.WithLabelValues("unsuspend").Inc()
	return true
}

func (m *Moderation) IsSuspended(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.suspended[fold(name)]
	return ok
}

// Kick records the ban; addr is informational for the operator listing.
// A kicked name also loses any suspension entry, since the kick
// supersedes it.
func (m *Moderation) Kick(name, addr string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fold(name)
	m.kicked[key] = KickedUser{Name: name, Addr: addr}
	delete(m.suspended, key)
	moderationActions.WithLabelValues("kick").Inc()
}

// Revive lifts the ban. Reports false when the name was not kicked.
func (m *Moderation) Revive(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fold(name)
	if _, ok := m.kicked[key]; !ok {
		return false
	}
	delete(m.kicked, key)
	moderationActions.WithLabelValues("revive").Inc()
	return true
}

func (m *Moderation) IsKicked(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.kicked[fold(name)]
	return ok
}

// Suspended returns the suspended display names, sorted.
func (m *Moderation) Suspended() []string {
	m.mu.Lock()
	names := make([]string, 0, len(m.suspended))
	for _, name := range m.suspended {
		names = append(names, name)
	}
	m.mu.Unlock()
	sort.Strings(names)
	return names
}

// Kicked returns the kicked users with their last observed addresses,
// sorted by name.
func (m *Moderation) Kicked() []KickedUser {
	m.mu.Lock()
	users := make([]KickedUser, 0, len(m.kicked))
	for _, u := range m.kicked {
		users = append(users, u)
	}
	m.mu.Unlock()
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users
}
