package catalog

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// pruneEmptyDirs removes now-empty directories bottom-up from the
// source root, the root itself included when it ends up empty.
// Directories that still hold any file or subdirectory are left alone;
// removal failures are warnings and the run continues.
func (o *Organizer) pruneEmptyDirs() {
	var dirs []string
	_ = filepath.WalkDir(o.source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})

	// Children sort after their parents by path length, so walking the
	// list longest-first empties leaves before their parents.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err != nil {
			o.log.Warn("cannot remove empty directory", "dir", dir, "error", err)
			continue
		}
		o.log.Info("removed empty directory", "dir", dir)
	}
}
