package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveAssignsUniqueNames(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	name1, path1, size, err := store.Save(bytes.NewReader([]byte("hello")), "report.pdf")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != 5 {
		t.Errorf("expected size 5, got %d", size)
	}
	if !strings.HasSuffix(name1, ".pdf") {
		t.Errorf("blob name should keep the extension, got %s", name1)
	}
	if name1 == "report.pdf" {
		t.Error("blob name must be system-assigned")
	}

	data, err := os.ReadFile(path1)
	if err != nil {
		t.Fatalf("blob not readable: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("blob content wrong: %q", data)
	}

	name2, _, _, err := store.Save(bytes.NewReader([]byte("hello")), "report.pdf")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if name1 == name2 {
		t.Error("two saves of the same filename must get distinct blob names")
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	_, path, _, err := store.Save(bytes.NewReader([]byte("x")), "a.txt")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("blob should be gone after Remove")
	}

	// Removing an already-missing blob is not an error.
	if err := store.Remove(filepath.Join(dir, "missing.bin")); err != nil {
		t.Errorf("Remove of missing blob: %v", err)
	}
}
