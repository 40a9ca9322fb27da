package chat

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Router formats messages and fans them out. Every fan-out iterates a
// registry snapshot with no registry lock held; a failed write marks
// that session and the marks are applied after the loop, so delivery
// never mutates the collection it is iterating.
type Router struct {
	reg      *Registry
	history  *History
	shutdown *atomic.Bool
	logger   *slog.Logger

	// mu couples one broadcast's history append with its fan-out, so
	// every recipient observes public messages in history order. It is
	// a router-level lock; registry operations never wait on it.
	mu sync.Mutex
}

func NewRouter(reg *Registry, history *History, shutdown *atomic.Bool, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{reg: reg, history: history, shutdown: shutdown, logger: logger}
}

// BroadcastChat delivers an ordinary chat line to every connected
// session, the sender included: the room echoes your own words back.
func (rt *Router) BroadcastChat(sender, text string) {
	start := time.Now()
	rt.mu.Lock()
	if !rt.shutdown.Load() {
		rt.history.Append(RecordMessage, sender+": "+text)
	}
	dead := rt.fanOut(formatChat(sender, text), nil)
	rt.mu.Unlock()
	rt.prune(dead)
	messagesTotal.WithLabelValues("broadcast").Inc()
	broadcastDuration.Observe(time.Since(start).Seconds())
}

// BroadcastSystem delivers a system notice, optionally skipping one
// session. Whether the notice belongs in the history is the caller's
// call; join and leave notices never go through the broadcast append.
func (rt *Router) BroadcastSystem(text string, exclude *Session) {
	rt.mu.Lock()
	dead := rt.fanOut(formatSystem(text), exclude)
	rt.mu.Unlock()
	rt.prune(dead)
	messagesTotal.WithLabelValues("system").Inc()
}

// SendPrivate routes one line to the named recipient and echoes a
// confirmation to the sender. Private traffic never touches the shared
// history.
func (rt *Router) SendPrivate(from *Session, toName, text string) error {
	to, ok := rt.reg.Lookup(toName)
	if !ok || to.ID == from.ID {
		return ErrRecipientNotFound
	}
	if err := to.WriteLine(fmt.Sprintf("[%s] [PM from %s]: %s", timestamp(), from.Name, text)); err != nil {
		return ErrRecipientNotFound
	}
	messagesTotal.WithLabelValues("private").Inc()
	return from.WriteLine(fmt.Sprintf("[%s] [PM to %s]: %s", timestamp(), to.Name, text))
}

func (rt *Router) fanOut(line string, exclude *Session) []*Session {
	var dead []*Session
	for _, s := range rt.reg.Snapshot() {
		if exclude != nil && s.ID == exclude.ID {
			continue
		}
		if err := s.WriteLine(line); err != nil {
			dead = append(dead, s)
		}
	}
	return dead
}

// prune removes unreachable peers silently; their own handlers notice
// the closed connection and tear down without a second removal.
func (rt *Router) prune(dead []*Session) {
	for _, s := range dead {
		if _, ok := rt.reg.Unregister(s.ID); ok {
			rt.logger.Warn("dropped unreachable peer", "name", s.Name)
		}
		s.Conn.Close()
	}
}
