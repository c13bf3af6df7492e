package recorder

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TextLog appends human-readable report snapshots, one entry per cycle.
type TextLog struct {
	path string
	mu   sync.Mutex
}

func NewTextLog(path string) *TextLog {
	return &TextLog{path: path}
}

// Write appends "<timestamp>\n<report>\n\n" to the log file.
func (l *TextLog) Write(ts time.Time, report string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open report log: %w", err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "%s\n%s\n\n", ts.Format(TimestampLayout), report); err != nil {
		return fmt.Errorf("write report log: %w", err)
	}
	return nil
}
