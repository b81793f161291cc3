package instrument

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Store persists recordings as one JSON file per name under a
// directory.
type Store struct {
	dir string
}

// Persistence failure classes. I/O failures are returned wrapped with
// their underlying os error.
var (
	ErrNotFound  = errors.New("recording not found")
	ErrMalformed = errors.New("recording file malformed")
)

// NewStore creates a store rooted at dir. The directory is created on
// first save, not here.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// storedRecording is the on-disk document. Offsets are seconds with
// sub-millisecond precision.
type storedRecording struct {
	CreatedAt time.Time    `json:"createdAt"`
	Events    []storedNote `json:"events"`
}

type storedNote struct {
	Note          string  `json:"note"`
	OffsetSeconds float64 `json:"offset"`
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, sanitizeFilename(name)+".json")
}

// Save writes the recording under name. The write is atomic: the
// document goes to a temp file in the same directory and is renamed
// into place, so a failed write never truncates an existing recording.
func (s *Store) Save(rec Recording, name string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create recordings dir: %w", err)
	}

	doc := storedRecording{
		CreatedAt: rec.CreatedAt,
		Events:    make([]storedNote, len(rec.Events)),
	}
	for i, ev := range rec.Events {
		doc.Events[i] = storedNote{Note: ev.Note, OffsetSeconds: ev.Offset.Seconds()}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode recording: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, sanitizeFilename(name)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write recording: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write recording: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write recording: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write recording: %w", err)
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write recording: %w", err)
	}
	return nil
}

// Load reads the recording stored under name. Returns ErrNotFound if
// no such recording exists and ErrMalformed if the file does not parse.
func (s *Store) Load(name string) (Recording, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return Recording{}, fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		return Recording{}, fmt.Errorf("read recording %q: %w", name, err)
	}

	var doc storedRecording
	if err := json.Unmarshal(data, &doc); err != nil {
		return Recording{}, fmt.Errorf("%q: %w: %v", name, ErrMalformed, err)
	}

	rec := Recording{
		CreatedAt: doc.CreatedAt,
		Events:    make([]NoteEvent, len(doc.Events)),
	}
	for i, ev := range doc.Events {
		// Offsets are captured at microsecond resolution; rounding here
		// undoes the float encoding exactly.
		us := math.Round(ev.OffsetSeconds * 1e6)
		rec.Events[i] = NoteEvent{
			Note:   ev.Note,
			Offset: time.Duration(us) * time.Microsecond,
		}
	}
	return rec, nil
}

// ListNames returns the names of all stored recordings, sorted. A
// missing directory is an empty library, not an error.
func (s *Store) ListNames() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(names)
	return names
}

// sanitizeFilename strips characters that are unsafe in filenames.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, " ", "-")
	for _, bad := range []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"} {
		name = strings.ReplaceAll(name, bad, "")
	}
	if name == "" {
		name = "untitled"
	}
	return name
}
