package chat

import (
	"net"

	"github.com/google/uuid"
)

// Session is one client's live connection plus its server-side identity.
// It is owned by the goroutine handling that connection; everyone else
// only sees it through Registry snapshots.
type Session struct {
	ID   uuid.UUID
	Conn net.Conn
	Name string
	Addr string
}

func newSession(conn net.Conn) *Session {
	return &Session{
		ID:   uuid.New(),
		Conn: conn,
		Addr: conn.RemoteAddr().String(),
	}
}

// WriteLine delivers one line with a single Write call so concurrent
// senders cannot interleave bytes within a message.
func (s *Session) WriteLine(line string) error {
	_, err := s.Conn.Write([]byte(line + "\n"))
	return err
}

var (
	ErrNameTaken         = errorString("name_taken")
	ErrRecipientNotFound = errorString("recipient_not_found")
	ErrNoExporter        = errorString("no_exporter")
	ErrShuttingDown      = errorString("shutting_down")
)

type errorString string

func (e errorString) Error() string { return string(e) }
