// Package library provides the persistent sequence store: an in-memory index
// of named sequences backed by one JSON file per sequence on disk.
package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specter-dev/specter/internal/action"
)

// ErrSequenceNotFound is returned when the requested name is absent.
var ErrSequenceNotFound = errors.New("sequence not found")

// Library indexes sequences by name. The directory is scanned once at
// startup; afterwards all reads go through the in-memory map and every
// mutation writes through to disk before it is visible. Not safe for
// concurrent use; the owning session serializes access.
type Library struct {
	dir       string
	sequences map[string]*action.Sequence
}

// New creates a library rooted at dir. The directory is created if missing.
func New(dir string) (*Library, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create library directory: %w", err)
	}
	return &Library{
		dir:       dir,
		sequences: make(map[string]*action.Sequence),
	}, nil
}

// Dir returns the storage directory.
func (l *Library) Dir() string { return l.dir }

// LoadAll scans the storage directory and rebuilds the in-memory index.
// Malformed entries are skipped and logged, never fatal.
func (l *Library) LoadAll() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("read library directory: %w", err)
	}

	l.sequences = make(map[string]*action.Sequence)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		seq, err := readSequence(path)
		if err != nil {
			log.Printf("Skipping malformed sequence file %s: %v", path, err)
			continue
		}
		l.sequences[seq.Name] = seq
	}
	return nil
}

// Save writes the sequence to disk and inserts it into the index, replacing
// any existing sequence of the same name. The file write completes before
// the in-memory map changes, so a failed save is never visible in listings.
func (l *Library) Save(seq *action.Sequence) error {
	if err := seq.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(seq, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sequence: %w", err)
	}

	path := l.pathFor(seq.Name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write sequence file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write sequence file: %w", err)
	}

	l.sequences[seq.Name] = seq.Clone()
	return nil
}

// Get returns a copy of the named sequence.
func (l *Library) Get(name string) (*action.Sequence, error) {
	seq, ok := l.sequences[name]
	if !ok {
		return nil, ErrSequenceNotFound
	}
	return seq.Clone(), nil
}

// Names returns all stored sequence names, sorted.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.sequences))
	for name := range l.sequences {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of stored sequences.
func (l *Library) Len() int { return len(l.sequences) }

// Delete removes the sequence from both the index and disk. Deleting an
// absent name is an error, including a repeated delete.
func (l *Library) Delete(name string) error {
	if _, ok := l.sequences[name]; !ok {
		return ErrSequenceNotFound
	}

	path := l.pathFor(name)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete sequence file: %w", err)
	}
	delete(l.sequences, name)
	return nil
}

func (l *Library) pathFor(name string) string {
	return filepath.Join(l.dir, sanitizeName(name)+".json")
}

// sanitizeName maps a sequence name onto a safe file stem.
func sanitizeName(name string) string {
	s := strings.ReplaceAll(name, " ", "_")
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '-'
		}
		return r
	}, s)
	return s
}

func readSequence(path string) (*action.Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var seq action.Sequence
	if err := json.Unmarshal(data, &seq); err != nil {
		return nil, fmt.Errorf("decode sequence: %w", err)
	}
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	return &seq, nil
}
