// Package history persists a log of generation runs to the state directory.
// Logging is best-effort: a run never fails because its history entry could
// not be written.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// FileName is the history file inside the state directory.
const FileName = "history.yaml"

// Entry records one generation run.
type Entry struct {
	ID           string    `yaml:"id"`
	Timestamp    time.Time `yaml:"timestamp"`
	Requirement  string    `yaml:"requirement"`
	Status       string    `yaml:"status"`
	OutputDir    string    `yaml:"output_dir"`
	FilesWritten int       `yaml:"files_written"`
	Duration     string    `yaml:"duration"`
}

// History is the on-disk document.
type History struct {
	Entries []Entry `yaml:"entries"`
}

// Writer appends run entries with automatic pruning.
type Writer struct {
	// StateDir is the directory containing the history file.
	StateDir string
	// MaxEntries caps retained entries; 0 disables pruning.
	MaxEntries int
}

// NewWriter builds a writer for the state directory.
func NewWriter(stateDir string, maxEntries int) *Writer {
	return &Writer{StateDir: stateDir, MaxEntries: maxEntries}
}

// NewEntry builds an entry for a finished run with a fresh ID.
func NewEntry(requirement, status, outputDir string, filesWritten int, duration time.Duration) Entry {
	return Entry{
		ID:           uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Requirement:  requirement,
		Status:       status,
		OutputDir:    outputDir,
		FilesWritten: filesWritten,
		Duration:     duration.String(),
	}
}

// Log appends an entry. Errors go to stderr and are otherwise swallowed;
// history must never fail a run.
func (w *Writer) Log(entry Entry) {
	if err := w.append(entry); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to log history: %v\n", err)
	}
}

func (w *Writer) append(entry Entry) error {
	h, err := Load(w.StateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	h.Entries = append(h.Entries, entry)
	if w.MaxEntries > 0 && len(h.Entries) > w.MaxEntries {
		h.Entries = h.Entries[len(h.Entries)-w.MaxEntries:]
	}

	if err := Save(w.StateDir, h); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

// Load reads the history file. A missing file yields an empty history.
func Load(stateDir string) (*History, error) {
	data, err := os.ReadFile(filepath.Join(stateDir, FileName))
	if os.IsNotExist(err) {
		return &History{}, nil
	}
	if err != nil {
		return nil, err
	}

	var h History
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parsing history file: %w", err)
	}
	return &h, nil
}

// Save writes the history file, creating the state directory if needed.
func Save(stateDir string, h *History) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(h)
	if err != nil {
		return err
	}

	path := filepath.Join(stateDir, FileName)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (h *History) Recent(limit int) []Entry {
	n := len(h.Entries)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]Entry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, h.Entries[i])
	}
	return out
}
