package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specter-dev/specter/internal/action"
)

func newTestLibrary(t *testing.T) *Library {
	lib, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create library: %v", err)
	}
	return lib
}

func demoSequence(name string) *action.Sequence {
	seq := action.NewSequence(name, "test sequence")
	seq.Append(action.MoveMouse(10, 20), 0)
	seq.Append(action.ClickMouse("left"), 150)
	return seq
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "sequences")

	if _, err := New(dir); err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Directory was not created: %v", err)
	}
}

func TestSaveAndGet(t *testing.T) {
	lib := newTestLibrary(t)

	if err := lib.Save(demoSequence("demo")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := lib.Get("demo")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "demo" {
		t.Errorf("Expected name demo, got %s", got.Name)
	}
	if len(got.Actions) != 2 {
		t.Errorf("Expected 2 actions, got %d", len(got.Actions))
	}

	// The file must exist on disk after a save.
	path := filepath.Join(lib.Dir(), "demo.json")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Sequence file was not written: %v", err)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	lib := newTestLibrary(t)
	lib.Save(demoSequence("demo"))

	first, _ := lib.Get("demo")
	first.Actions[0].Action.X = 999

	second, _ := lib.Get("demo")
	if second.Actions[0].Action.X != 10 {
		t.Errorf("Get must return an isolated copy, got X=%d", second.Actions[0].Action.X)
	}
}

func TestGetMissing(t *testing.T) {
	lib := newTestLibrary(t)

	_, err := lib.Get("absent")
	if !errors.Is(err, ErrSequenceNotFound) {
		t.Errorf("Expected ErrSequenceNotFound, got %v", err)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	lib := newTestLibrary(t)

	seq := action.NewSequence("", "")
	if err := lib.Save(seq); err == nil {
		t.Error("Saving a nameless sequence should fail")
	}
	if lib.Len() != 0 {
		t.Errorf("Failed save must not appear in the index, len=%d", lib.Len())
	}
}

func TestSaveOverwrites(t *testing.T) {
	lib := newTestLibrary(t)
	lib.Save(demoSequence("demo"))

	replacement := action.NewSequence("demo", "updated")
	replacement.Append(action.TypeText("hi"), 0)
	if err := lib.Save(replacement); err != nil {
		t.Fatalf("Overwrite save failed: %v", err)
	}

	got, _ := lib.Get("demo")
	if got.Description != "updated" {
		t.Errorf("Expected updated description, got %s", got.Description)
	}
	if len(got.Actions) != 1 {
		t.Errorf("Expected 1 action after overwrite, got %d", len(got.Actions))
	}
	if lib.Len() != 1 {
		t.Errorf("Overwrite should not grow the index, len=%d", lib.Len())
	}
}

func TestLoadAllRoundTrip(t *testing.T) {
	dir := t.TempDir()

	lib, _ := New(dir)
	lib.Save(demoSequence("alpha"))
	lib.Save(demoSequence("beta"))

	// A fresh library over the same directory sees the saved sequences.
	reopened, _ := New(dir)
	if err := reopened.LoadAll(); err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if reopened.Len() != 2 {
		t.Fatalf("Expected 2 sequences, got %d", reopened.Len())
	}

	got, err := reopened.Get("alpha")
	if err != nil {
		t.Fatalf("Get after reload failed: %v", err)
	}
	if got.Actions[1].DelayMS != 150 {
		t.Errorf("Delay not preserved across reload: %d", got.Actions[1].DelayMS)
	}
}

func TestLoadAllSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	lib, _ := New(dir)
	lib.Save(demoSequence("good"))

	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644)

	reopened, _ := New(dir)
	if err := reopened.LoadAll(); err != nil {
		t.Fatalf("LoadAll should tolerate malformed files: %v", err)
	}
	if reopened.Len() != 1 {
		t.Errorf("Expected only the good sequence, got %d", reopened.Len())
	}
}

func TestNamesSorted(t *testing.T) {
	lib := newTestLibrary(t)
	lib.Save(demoSequence("zulu"))
	lib.Save(demoSequence("alpha"))
	lib.Save(demoSequence("mike"))

	names := lib.Names()
	want := []string{"alpha", "mike", "zulu"}
	if len(names) != len(want) {
		t.Fatalf("Expected %d names, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestDelete(t *testing.T) {
	lib := newTestLibrary(t)
	lib.Save(demoSequence("demo"))

	if err := lib.Delete("demo"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := lib.Get("demo"); !errors.Is(err, ErrSequenceNotFound) {
		t.Error("Sequence should be gone after delete")
	}
	if _, err := os.Stat(filepath.Join(lib.Dir(), "demo.json")); !os.IsNotExist(err) {
		t.Error("Sequence file should be removed from disk")
	}

	// A second delete of the same name is an error.
	if err := lib.Delete("demo"); !errors.Is(err, ErrSequenceNotFound) {
		t.Errorf("Expected ErrSequenceNotFound on double delete, got %v", err)
	}
}

func TestSanitizedFilenames(t *testing.T) {
	lib := newTestLibrary(t)

	seq := demoSequence("my cool/sequence")
	if err := lib.Save(seq); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	path := filepath.Join(lib.Dir(), "my_cool-sequence.json")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected sanitized filename, stat failed: %v", err)
	}

	// Lookup still uses the original name.
	if _, err := lib.Get("my cool/sequence"); err != nil {
		t.Errorf("Get by original name failed: %v", err)
	}
	if err := lib.Delete("my cool/sequence"); err != nil {
		t.Errorf("Delete by original name failed: %v", err)
	}
}
