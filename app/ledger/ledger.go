package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const DefaultLimit = 1000

// Ledger is the set of article links already processed, persisted as one
// link per line. It grows by appending and is reset wholesale once the file
// holds more than limit lines.
type Ledger struct {
	path  string
	limit int
	seen  map[string]struct{}
}

func New(path string, limit int) *Ledger {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Ledger{
		path:  path,
		limit: limit,
		seen:  make(map[string]struct{}),
	}
}

// Load replaces the in-memory snapshot with the persisted ledger. A missing
// file is an empty ledger; an oversized one is truncated and treated as empty.
func (l *Ledger) Load() error {
	l.seen = make(map[string]struct{})

	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	var links []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		links = append(links, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}

	if len(links) > l.limit {
		if err := os.Truncate(l.path, 0); err != nil {
			return fmt.Errorf("failed to reset ledger: %w", err)
		}
		slog.Info("Ledger reset", "path", l.path, "lines", len(links), "limit", l.limit)
		return nil
	}

	for _, link := range links {
		if link != "" {
			l.seen[link] = struct{}{}
		}
	}

	slog.Debug("Ledger loaded", "path", l.path, "links", len(l.seen))
	return nil
}

func (l *Ledger) Contains(link string) bool {
	_, ok := l.seen[link]
	return ok
}

// Record marks link as seen and appends it to the file before returning.
// The file is opened and closed per call so every recorded link survives a crash.
func (l *Ledger) Record(link string) error {
	l.seen[link] = struct{}{}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open ledger for append: %w", err)
	}

	if _, err := f.WriteString(link + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to ledger: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close ledger: %w", err)
	}

	return nil
}

func (l *Ledger) Len() int {
	return len(l.seen)
}
