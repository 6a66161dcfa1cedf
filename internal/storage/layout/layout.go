package layout

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"siteproof/pkg/e"
)

const DefaultRoot = "uploads"

// Manager computes the deterministic on-disk layout for annotated photos:
// {root}/{task}/{locationID}/{locationID}-{seq:03d}.jpg. Paths returned by
// AllocatePath use forward slashes and are relative to the working directory,
// matching the references persisted with each report.
type Manager struct {
	root string
}

func NewManager(root string) *Manager {
	if root == "" {
		root = DefaultRoot
	}
	return &Manager{root: path.Clean(filepath.ToSlash(root))}
}

func (m *Manager) AllocatePath(task, locationID string, seq int) string {
	return path.Join(m.root, task, locationID, fmt.Sprintf("%s-%03d.jpg", locationID, seq))
}

// EnsureDirectory is idempotent create-if-absent.
func (m *Manager) EnsureDirectory(task, locationID string) error {
	dir := filepath.Join(filepath.FromSlash(m.root), task, locationID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return e.Wrap("layout.EnsureDirectory", err)
	}
	return nil
}

// Write stores data at a path from AllocatePath, silently replacing whatever
// is already there. Sequence numbers restart per batch, so a repeated batch
// for the same (task, location) pair overwrites the previous one.
func (m *Manager) Write(relPath string, data []byte) error {
	if err := os.WriteFile(filepath.FromSlash(relPath), data, 0o644); err != nil {
		return e.Wrap("layout.Write", err)
	}
	return nil
}
