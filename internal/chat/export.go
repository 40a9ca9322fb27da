package chat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileExporter renders the history into a timestamped text file under
// Dir, one file per save.
type FileExporter struct {
	Dir string
}

func (f FileExporter) Export(records []Record) (string, error) {
	name := fmt.Sprintf("chat_log_%s.txt", time.Now().Format("20060102_150405"))
	path := filepath.Join(f.Dir, name)

	var b strings.Builder
	b.WriteString("=== Chat Log ===\n\n")
	for _, rec := range records {
		if rec.Kind == RecordSystem {
			fmt.Fprintf(&b, "%s\n", rec.Content)
		} else {
			fmt.Fprintf(&b, "[%s] %s\n", rec.Time, rec.Content)
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write chat log: %w", err)
	}
	return path, nil
}
