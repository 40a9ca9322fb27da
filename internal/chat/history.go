package chat

import "sync"

// RecordKind distinguishes operator-visible system records from ordinary
// chat records.
type RecordKind string

const (
	RecordSystem  RecordKind = "system"
	RecordMessage RecordKind = "message"
)

// Record is one entry of the chat history.
type Record struct {
	Time    string
	Kind    RecordKind
	Content string
}

// Exporter is the seam to the export collaborator. The core renders
// records into it and reports the destination hint it returns; how the
// export is presented or stored is not the core's concern.
type Exporter interface {
	Export(records []Record) (string, error)
}

// History is a bounded drop-oldest ring of chat records. Join notices and
// private messages are never recorded; leave records are appended at
// session teardown.
type History struct {
	mu   sync.Mutex
	max  int
	data []Record
}

func NewHistory(max int) *History {
	if max <= 0 {
		max = 1000
	}
	return &History{max: max}
}

// Append records one entry, stamped with the current wall clock, dropping
// the oldest entry once the ring is full.
func (h *History) Append(kind RecordKind, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.data) == h.max {
		h.data = h.data[1:]
	}
	h.data = append(h.data, Record{Time: timestamp(), Kind: kind, Content: content})
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.data)
}

// Tail copies the last n records, oldest first.
func (h *History) Tail(n int) []Record {
	if n <= 0 {
		return []Record{}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if n > len(h.data) {
		n = len(h.data)
	}
	tail := make([]Record, n)
	copy(tail, h.data[len(h.data)-n:])
	return tail
}

// Export hands the full history to the exporter.
func (h *History) Export(e Exporter) (string, error) {
	if e == nil {
		return "", ErrNoExporter
	}
	return e.Export(h.Tail(h.Len()))
}
