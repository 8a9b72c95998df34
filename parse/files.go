package parse

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// skippedDirs are build output and tooling directories never holding migration sources.
var skippedDirs = map[string]bool{
	"bin":          true,
	"obj":          true,
	"node_modules": true,
}

// FileIndex maps file names (without extension) to the first path carrying them.
type FileIndex struct {
	paths map[string]string
}

// IndexFiles walks root in lexical order and indexes every regular file.
// An unreadable or missing root yields an empty index: source files are best-effort.
func IndexFiles(root string) *FileIndex {
	idx := &FileIndex{paths: make(map[string]string)}
	if root == "" {
		return idx
	}

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (skippedDirs[name] || strings.HasPrefix(name, ".")) {
				return fs.SkipDir
			}
			return nil
		}

		base := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		if _, seen := idx.paths[base]; !seen {
			idx.paths[base] = path
		}
		return nil
	})

	return idx
}

// Lookup returns the path of the file named id, or "" when there is none.
// Companion files such as "<id>.Designer.cs" never match.
func (idx *FileIndex) Lookup(id string) string {
	if idx == nil {
		return ""
	}
	return idx.paths[id]
}

// Len returns the number of indexed names.
func (idx *FileIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.paths)
}
