// Package progress tracks each file of a run through its processing states
// and writes an optional JSON report at the end.
package progress

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileState is where a file stands in the per-file pipeline.
type FileState string

const (
	StateDiscovered FileState = "discovered"
	StateDecoded    FileState = "decoded"
	StateRewritten  FileState = "rewritten"
	StateWritten    FileState = "written"
	StateSkipped    FileState = "skipped"
)

// next lists the states reachable from each state.
var next = map[FileState][]FileState{
	StateDiscovered: {StateDecoded, StateSkipped},
	StateDecoded:    {StateRewritten, StateSkipped},
	StateRewritten:  {StateWritten, StateSkipped},
}

// Final reports whether no further transition is possible from s.
func (s FileState) Final() bool {
	return s == StateWritten || s == StateSkipped
}

// FileEntry is the tracked state of one file.
type FileEntry struct {
	Path        string    `json:"path"`
	State       FileState `json:"state"`
	Fingerprint string    `json:"fingerprint"`
	Output      string    `json:"output,omitempty"`
	Bytes       int64     `json:"bytes,omitempty"`
	Error       string    `json:"error,omitempty"`
	Timestamp   string    `json:"timestamp"`
}

// Summary counts files per final state.
type Summary struct {
	Written int `json:"written"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
}

// Report is the JSON structure written by Save.
type Report struct {
	Files   []*FileEntry `json:"files"`
	Updated string       `json:"updated"`
	Summary Summary      `json:"summary"`
}

// Tracker records per-file state in discovery order.
type Tracker struct {
	mu    sync.Mutex
	order []string
	files map[string]*FileEntry
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{files: make(map[string]*FileEntry)}
}

// fingerprint is a quick hash of the file's size and modification time.
func fingerprint(filePath string) string {
	info, err := os.Stat(filePath)
	if err != nil {
		return ""
	}
	hashInput := fmt.Sprintf("%d_%d", info.Size(), info.ModTime().Unix())
	hash := md5.Sum([]byte(hashInput))
	return fmt.Sprintf("%x", hash[:4])
}

// Discover starts tracking filePath. Discovering a file twice restarts it.
func (t *Tracker) Discover(filePath string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.files[filePath]; !ok {
		t.order = append(t.order, filePath)
	}
	t.files[filePath] = &FileEntry{
		Path:        filePath,
		State:       StateDiscovered,
		Fingerprint: fingerprint(filePath),
		Timestamp:   now(),
	}
}

// Advance moves filePath to state. Only forward transitions are allowed.
func (t *Tracker) Advance(filePath string, state FileState) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := t.advance(filePath, state)
	return err
}

func (t *Tracker) advance(filePath string, state FileState) (*FileEntry, error) {
	entry, ok := t.files[filePath]
	if !ok {
		return nil, fmt.Errorf("file %s was never discovered", filePath)
	}
	allowed := false
	for _, s := range next[entry.State] {
		if s == state {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("file %s cannot go from %s to %s", filePath, entry.State, state)
	}
	entry.State = state
	entry.Timestamp = now()
	return entry, nil
}

// MarkWritten records a successful write of filePath to outputPath.
func (t *Tracker) MarkWritten(filePath, outputPath string, bytes int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, err := t.advance(filePath, StateWritten)
	if err != nil {
		return err
	}
	entry.Output = outputPath
	entry.Bytes = bytes
	return nil
}

// MarkSkipped records that filePath was abandoned because of cause.
func (t *Tracker) MarkSkipped(filePath string, cause error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, err := t.advance(filePath, StateSkipped)
	if err != nil {
		return err
	}
	if cause != nil {
		entry.Error = cause.Error()
	}
	return nil
}

// State returns the current state of filePath.
func (t *Tracker) State(filePath string) (FileState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.files[filePath]
	if !ok {
		return "", false
	}
	return entry.State, true
}

// Entries returns copies of the tracked entries in discovery order.
func (t *Tracker) Entries() []FileEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]FileEntry, 0, len(t.order))
	for _, p := range t.order {
		out = append(out, *t.files[p])
	}
	return out
}

// Summary counts tracked files per final state.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.summary()
}

func (t *Tracker) summary() Summary {
	s := Summary{Total: len(t.files)}
	for _, entry := range t.files {
		switch entry.State {
		case StateWritten:
			s.Written++
		case StateSkipped:
			s.Skipped++
		}
	}
	return s
}

// Save writes the report to reportFile, creating parent directories.
func (t *Tracker) Save(reportFile string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	report := Report{
		Files:   make([]*FileEntry, 0, len(t.order)),
		Updated: now(),
		Summary: t.summary(),
	}
	for _, p := range t.order {
		report.Files = append(report.Files, t.files[p])
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(reportFile), 0755); err != nil {
		return fmt.Errorf("could not create report directory: %w", err)
	}
	if err := os.WriteFile(reportFile, data, 0644); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	return nil
}

func now() string {
	return time.Now().Format(time.RFC3339)
}
