// Package discover locates the startup and data project manifests for a
// first run by scanning a directory tree.
//
// The data project is the project owning the migrations folder. Every other
// manifest in the tree is a startup candidate.
package discover

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/teranos/efmig/errors"
	"github.com/teranos/efmig/settings"
)

// skipped directory names, matching the names build tools write into
var skipDirs = map[string]bool{
	"bin":          true,
	"obj":          true,
	"node_modules": true,
}

// Options controls what the scan looks for.
type Options struct {
	// FolderName is the migrations folder name ("Migrations")
	FolderName string
	// ManifestPattern is a filepath.Match pattern for project manifests ("*.csproj")
	ManifestPattern string
}

// OptionsFrom builds scan options from settings.
func OptionsFrom(s settings.MigrationSettings) Options {
	return Options{FolderName: s.FolderName, ManifestPattern: s.ManifestPattern}
}

// Candidates is the result of a scan.
type Candidates struct {
	// DataProject is the manifest owning the migrations folder
	DataProject string
	// MigrationsDir is the migrations folder that identified DataProject
	MigrationsDir string
	// Startup lists the other manifests, sorted. Empty means the data
	// project is its own startup project.
	Startup []string
}

// Scan walks root and resolves the data project and startup candidates.
// All failures are setup errors.
func Scan(root string, opts Options) (*Candidates, error) {
	defaults := settings.Defaults().Migrations
	if opts.FolderName == "" {
		opts.FolderName = defaults.FolderName
	}
	if opts.ManifestPattern == "" {
		opts.ManifestPattern = defaults.ManifestPattern
	}
	if _, err := filepath.Match(opts.ManifestPattern, ""); err != nil {
		return nil, errors.WithDetail(errors.NewSetup("invalid manifest pattern %q", opts.ManifestPattern), err.Error())
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve scan root")
	}

	// manifests per directory
	byDir := map[string][]string{}
	var folders []string

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable subtrees are skipped, the root must be readable
			if path == root {
				return err
			}
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (skipDirs[strings.ToLower(name)] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			if path != root && strings.EqualFold(name, opts.FolderName) {
				folders = append(folders, path)
			}
			return nil
		}
		if ok, _ := filepath.Match(opts.ManifestPattern, name); ok {
			dir := filepath.Dir(path)
			byDir[dir] = append(byDir[dir], path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, errors.WithDetail(errors.NewSetup("cannot scan %s", root), walkErr.Error())
	}

	if len(byDir) == 0 {
		return nil, errors.WithHint(
			errors.NewSetup("no project manifest (%s) found under %s", opts.ManifestPattern, root),
			"run efmig from the solution directory")
	}
	if len(folders) == 0 {
		return nil, errors.WithHint(
			errors.NewSetup("no %s folder found under %s", opts.FolderName, root),
			"create the first migration with the tool directly, then run efmig again")
	}

	owners := map[string]string{}
	for _, folder := range folders {
		manifest, err := owner(folder, root, byDir)
		if err != nil {
			return nil, err
		}
		if manifest != "" {
			if _, seen := owners[manifest]; !seen {
				owners[manifest] = folder
			}
		}
	}

	switch len(owners) {
	case 0:
		return nil, errors.NewSetup("no project manifest owns a %s folder under %s", opts.FolderName, root)
	case 1:
	default:
		names := make([]string, 0, len(owners))
		for m := range owners {
			names = append(names, m)
		}
		sort.Strings(names)
		return nil, errors.WithDetailf(
			errors.NewSetup("ambiguous data project: %d projects contain a %s folder", len(owners), opts.FolderName),
			"projects: %s", strings.Join(names, ", "))
	}

	c := &Candidates{}
	for m, folder := range owners {
		c.DataProject, c.MigrationsDir = m, folder
	}
	for _, manifests := range byDir {
		for _, m := range manifests {
			if m != c.DataProject {
				c.Startup = append(c.Startup, m)
			}
		}
	}
	sort.Strings(c.Startup)
	return c, nil
}

// owner walks up from a migrations folder to the nearest directory holding a
// manifest. More than one manifest in that directory is ambiguous.
func owner(folder, root string, byDir map[string][]string) (string, error) {
	for dir := filepath.Dir(folder); ; dir = filepath.Dir(dir) {
		if manifests := byDir[dir]; len(manifests) > 0 {
			if len(manifests) > 1 {
				sorted := append([]string(nil), manifests...)
				sort.Strings(sorted)
				return "", errors.WithDetailf(
					errors.NewSetup("ambiguous project manifest in %s", dir),
					"manifests: %s", strings.Join(sorted, ", "))
			}
			return manifests[0], nil
		}
		if dir == root || dir == filepath.Dir(dir) {
			return "", nil
		}
	}
}

// Single reports whether startup needs no user choice, returning the pick.
func (c *Candidates) Single() (string, bool) {
	switch len(c.Startup) {
	case 0:
		return c.DataProject, true
	case 1:
		return c.Startup[0], true
	default:
		return "", false
	}
}

// FindFolder returns the first directory named name under root, in lexical
// walk order, skipping build output and hidden directories.
func FindFolder(root, name string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() || path == root {
			return nil
		}
		if skipDirs[strings.ToLower(d.Name())] || strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if strings.EqualFold(d.Name(), name) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrapf(err, "cannot scan %s", root)
	}
	if found == "" {
		return "", errors.NewNotFoundError("no %s folder under %s", name, root)
	}
	return found, nil
}
