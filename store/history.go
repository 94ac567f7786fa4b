package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// DefaultHistoryFile is the history location relative to the working directory
const DefaultHistoryFile = "history.txt"

// Ledger is the append-only batch history. It is kept as display text and
// the whole text is rewritten to disk on every change.
type Ledger struct {
	mu   sync.Mutex
	path string
	text string

	// Now is the clock used for block timestamps
	Now func() time.Time
}

// LoadLedger reads the history file verbatim. A missing file is an empty
// history. On a read error the ledger starts empty and the error is returned.
func LoadLedger(path string) (*Ledger, error) {
	l := &Ledger{path: path, Now: time.Now}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return l, nil
		}
		return l, fmt.Errorf("failed to read history %s: %w", path, err)
	}
	l.text = string(data)
	return l, nil
}

// Text returns the full history text
func (l *Ledger) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

// Append adds a timestamped block for one batch and persists the log.
// The block stays in memory even if persisting fails.
func (l *Ledger) Append(category string, lines []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var b strings.Builder
	b.WriteString(l.text)
	fmt.Fprintf(&b, "\n--- %s - Category: %s ---\n", l.Now().Format("2006-01-02 15:04:05"), category)
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	l.text = b.String()

	return l.persist()
}

// Clear wipes the history and rewrites the (now empty) file
func (l *Ledger) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.text = ""
	return l.persist()
}

func (l *Ledger) persist() error {
	if err := os.WriteFile(l.path, []byte(l.text), 0644); err != nil {
		return fmt.Errorf("failed to save history %s: %w", l.path, err)
	}
	return nil
}
