package chat

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"
)

// The handshake is the only read with an application timeout; after a
// session is registered, reads block until the peer speaks or drops.
const handshakeTimeout = 5 * time.Second

// handler runs one session's state machine: handshake, active dispatch,
// the DM sub-mode, and teardown.
type handler struct {
	srv    *Server
	sess   *Session
	reader *bufio.Reader
	logger *slog.Logger
	dmWith string // bound DM recipient name, empty while not in DM mode
}

func (s *Server) handleSession(conn net.Conn) {
	defer s.wg.Done()
	sess := newSession(conn)
	h := &handler{srv: s, sess: sess, reader: bufio.NewReader(conn), logger: s.logger}
	if !h.handshake() {
		conn.Close()
		return
	}
	h.loop()
	h.teardown()
}

// handshake reads the candidate display name and either registers the
// session or reports false, leaving the caller to drop the connection.
func (h *handler) handshake() bool {
	h.sess.Conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	line, err := readLine(h.reader)
	if err != nil {
		return false
	}
	h.sess.Conn.SetReadDeadline(time.Time{})

	name := strings.TrimSpace(line)
	if name == "" {
		return false
	}
	if h.srv.moderation.IsKicked(name) {
		h.sess.WriteLine("You have been kicked from the server.")
		return false
	}
	h.sess.Name = name
	if err := h.srv.register(h.sess); err != nil {
		if err == ErrNameTaken {
			h.sess.WriteLine("[SERVER] That name is already in use. Reconnect with another name.")
		}
		// Shutdown refusals close silently.
		return false
	}

	h.sess.WriteLine(formatSystem("Welcome to the chat! Type /q or /quit to exit."))
	h.srv.router.BroadcastSystem(name+" has joined the chat.", h.sess)
	return true
}

func (h *handler) loop() {
	for {
		line, err := readLine(h.reader)
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if h.dmWith != "" {
			h.dmLine(line)
			continue
		}
		if h.activeLine(line) {
			return
		}
	}
}

// activeLine dispatches one line in the Active state. It reports true
// when the client asked to quit.
func (h *handler) activeLine(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case lower == "/q" || lower == "/quit":
		return true
	case lower == "/list_users" || lower == "/dm":
		h.sendUserList()
	case strings.HasPrefix(lower, "/dm "):
		h.enterDM(strings.TrimSpace(line[4:]))
	case lower == "/save":
		h.saveHistory()
	default:
		if h.srv.moderation.IsSuspended(h.sess.Name) {
			h.sess.WriteLine("[ERROR] You are suspended and cannot send messages.")
			return false
		}
		h.srv.router.BroadcastChat(h.sess.Name, line)
	}
	return false
}

// dmLine handles one line inside the DM sub-mode.
func (h *handler) dmLine(line string) {
	if strings.EqualFold(line, "/back") {
		h.sess.WriteLine("[SERVER] Exited DM mode.")
		h.dmWith = ""
		return
	}
	if h.srv.moderation.IsSuspended(h.sess.Name) {
		h.sess.WriteLine("[ERROR] You are suspended and cannot send messages.")
		return
	}
	if err := h.srv.router.SendPrivate(h.sess, h.dmWith, line); err != nil {
		h.sess.WriteLine("[SERVER] Failed to send private message. User may have disconnected.")
		h.dmWith = ""
	}
}

// others is the name-sorted snapshot minus this session; its 1-based
// indexes are what /dm <n> selects against.
func (h *handler) others() []*Session {
	all := h.srv.registry.Snapshot()
	out := make([]*Session, 0, len(all))
	for _, s := range all {
		if s.ID != h.sess.ID {
			out = append(out, s)
		}
	}
	return out
}

func (h *handler) sendUserList() {
	others := h.others()
	if len(others) == 0 {
		h.sess.WriteLine("[SERVER] No other users are online.")
		return
	}
	lines := make([]string, len(others))
	for i, s := range others {
		lines[i] = fmt.Sprintf("%d. %s", i+1, s.Name)
	}
	h.sess.WriteLine(strings.Join(lines, "\n"))
}

func (h *handler) enterDM(arg string) {
	n, err := strconv.Atoi(arg)
	others := h.others()
	if err != nil || n < 1 || n > len(others) {
		h.sess.WriteLine("[SERVER] Invalid selection. Use /dm to list users and try again.")
		return
	}
	h.dmWith = others[n-1].Name
	h.sess.WriteLine(fmt.Sprintf("[SERVER] DM session started with %s. Type /back to exit.", h.dmWith))
}

func (h *handler) saveHistory() {
	dest, err := h.srv.history.Export(h.srv.exporter)
	if err != nil {
		h.logger.Warn("chat log export failed", "name", h.sess.Name, "error", err)
		h.sess.WriteLine(formatSystem("[SERVER] Failed to save chat log."))
		return
	}
	h.sess.WriteLine(formatSystem("[SERVER] Chat log saved to: " + dest))
}

// teardown runs once per session, on quit, read error, kick, or server
// shutdown. Only an ordinary departure announces itself.
func (h *handler) teardown() {
	name, ok := h.srv.registry.Unregister(h.sess.ID)
	if ok && !h.srv.shuttingDown() && !h.srv.moderation.IsKicked(name) {
		h.srv.history.Append(RecordSystem, name+" has left the chat.")
		h.srv.router.BroadcastSystem(name+" has left the chat.", nil)
	}
	h.sess.Conn.Close()
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err == nil {
		return strings.TrimRight(line, "\r\n"), nil
	}
	if err == io.EOF && line != "" {
		// last line without newline
		return strings.TrimRight(line, "\r\n"), nil
	}
	if err == io.EOF {
		return "", io.EOF
	}
	return "", fmt.Errorf("read: %w", err)
}
