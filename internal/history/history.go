// Package history keeps the append-only record of every article link
// the bot has posted.
package history

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	werr "wikibot/internal/errors"
)

// Recorder accepts one entry at a time and is closed exactly once.
type Recorder interface {
	Record(entry string) error
	Close() error
}

// File appends entries to a text file, one per line, flushing after
// every entry so a crash never loses a posted link.
type File struct {
	path string
	mu   sync.Mutex
	f    *os.File
	w    *bufio.Writer
}

// Open creates path (and its directory) if needed and opens it for
// appending.  created reports whether the file was new.
func Open(path string) (file *File, created bool, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, false, fmt.Errorf("history dir: %w", err)
	}

	_, statErr := os.Stat(path)
	created = os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, false, fmt.Errorf("history: %w", err)
	}
	return &File{path: path, f: f, w: bufio.NewWriter(f)}, created, nil
}

// Path returns the file location.
func (h *File) Path() string { return h.path }

// Record appends entry and flushes it.
func (h *File) Record(entry string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.f == nil {
		return werr.ErrHistoryClosed
	}
	if _, err := h.w.WriteString(entry + "\n"); err != nil {
		return fmt.Errorf("history %s: %w", h.path, err)
	}
	if err := h.w.Flush(); err != nil {
		return fmt.Errorf("history %s: %w", h.path, err)
	}
	return nil
}

// Close flushes and closes the file.  Only the first call does any
// work; later calls return ErrHistoryClosed.
func (h *File) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.f == nil {
		return werr.ErrHistoryClosed
	}
	flushErr := h.w.Flush()
	closeErr := h.f.Close()
	h.f = nil
	return werr.Join(flushErr, closeErr)
}
