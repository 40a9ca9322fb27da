package chat

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Registry is the single source of truth for who is online. The mutex is
// held only long enough to read, copy, or mutate the map; network writes
// always happen outside it.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	logger   *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		logger:   logger,
	}
}

// Register inserts the session under its display name. Names are unique
// while connected: a second session under a live name is rejected so
// private routing stays unambiguous.
func (r *Registry) Register(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; ok {
		return nil
	}
	for _, other := range r.sessions {
		if strings.EqualFold(other.Name, s.Name) {
			return ErrNameTaken
		}
	}
	r.sessions[s.ID] = s
	connectedClients.Set(float64(len(r.sessions)))
	r.logger.Info("user registered", "name", s.Name, "addr", s.Addr)
	return nil
}

// Unregister removes the session and reports the name it was registered
// under. Safe to call twice; the second call reports absent so teardown
// paths that overlap never double-announce a departure.
func (r *Registry) Unregister(id uuid.UUID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return "", false
	}
	delete(r.sessions, id)
	connectedClients.Set(float64(len(r.sessions)))
	r.logger.Info("user left", "name", s.Name)
	return s.Name, true
}

// Snapshot returns a name-sorted copy of the live sessions so callers can
// iterate and send without holding the lock.
func (r *Registry) Snapshot() []*Session {
	r.mu.Lock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a session by display name, case-insensitively.
func (r *Registry) Lookup(name string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return nil, false
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
