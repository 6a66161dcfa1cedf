package layout_test

import (
	"os"
	"path/filepath"
	"testing"

	"siteproof/internal/storage/layout"
)

func TestAllocatePath(t *testing.T) {
	t.Parallel()

	m := layout.NewManager("")

	got := m.AllocatePath("siteA", "bs1", 1)
	want := "uploads/siteA/bs1/bs1-001.jpg"
	if got != want {
		t.Fatalf("AllocatePath: got=%q want=%q", got, want)
	}

	if got := m.AllocatePath("siteA", "bs1", 12); got != "uploads/siteA/bs1/bs1-012.jpg" {
		t.Fatalf("AllocatePath seq=12: got=%q", got)
	}
	if got := m.AllocatePath("siteA", "bs1", 123); got != "uploads/siteA/bs1/bs1-123.jpg" {
		t.Fatalf("AllocatePath seq=123: got=%q", got)
	}
}

func TestEnsureDirectory_Idempotent(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "uploads")
	m := layout.NewManager(root)

	if err := m.EnsureDirectory("siteA", "bs1"); err != nil {
		t.Fatalf("first EnsureDirectory: %v", err)
	}
	if err := m.EnsureDirectory("siteA", "bs1"); err != nil {
		t.Fatalf("second EnsureDirectory: %v", err)
	}

	info, err := os.Stat(filepath.Join(root, "siteA", "bs1"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("expected directory")
	}
}

// Sequence numbers restart at 1 per batch, so a second batch for the same
// (task, location) pair hits the same path and replaces the first file. This
// pins the current overwrite contract.
func TestWrite_RepeatedBatchOverwrites(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "uploads")
	m := layout.NewManager(root)

	if err := m.EnsureDirectory("siteA", "bs1"); err != nil {
		t.Fatalf("EnsureDirectory: %v", err)
	}

	first := m.AllocatePath("siteA", "bs1", 1)
	second := m.AllocatePath("siteA", "bs1", 1)
	if first != second {
		t.Fatalf("paths differ across batches: %q vs %q", first, second)
	}

	if err := m.Write(first, []byte("batch one")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := m.Write(second, []byte("batch two")); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, err := os.ReadFile(filepath.FromSlash(first))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "batch two" {
		t.Fatalf("expected second batch to win, got %q", data)
	}
}
