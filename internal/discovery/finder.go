package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/indaco/pkgmeta/internal/core"
)

// MaxDepth bounds how deep package nesting is followed.
const MaxDepth = 32

// alwaysExcluded are skipped regardless of the configured exclude list.
var alwaysExcluded = []string{"ez_setup", "*__pycache__"}

// Options controls package discovery.
type Options struct {
	// Where is the directory to search. Empty means ".".
	Where string

	// Include lists patterns a package must match. Empty means all.
	Include []string

	// Exclude lists patterns that drop a package. Subpackages of an excluded
	// package are still considered on their own, so "tests" and "tests.*"
	// are usually listed together.
	Exclude []string
}

// Finder discovers packages through a core.FileSystem.
type Finder struct {
	fs core.FileSystem
}

// NewFinder creates a Finder. A nil fs uses the OS filesystem.
func NewFinder(fsys core.FileSystem) *Finder {
	if fsys == nil {
		fsys = core.NewOSFileSystem()
	}
	return &Finder{fs: fsys}
}

// Find returns the sorted dotted names of all packages below opts.Where.
// A directory is a package when it holds an __init__.py; the walk does not
// descend into directories that are not packages.
func (f *Finder) Find(ctx context.Context, opts Options) ([]string, error) {
	root := opts.Where
	if root == "" {
		root = "."
	}

	if err := validatePatterns(opts.Include, opts.Exclude); err != nil {
		return nil, err
	}

	info, err := f.fs.Stat(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat package root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("package root %q is not a directory", root)
	}

	exclude := append(slices.Clone(opts.Exclude), alwaysExcluded...)

	var packages []string
	if err := f.walk(ctx, root, "", 0, opts.Include, exclude, &packages); err != nil {
		return nil, err
	}

	slices.Sort(packages)
	return slices.Compact(packages), nil
}

func (f *Finder) walk(ctx context.Context, dir, prefix string, depth int, include, exclude []string, out *[]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth >= MaxDepth {
		return nil
	}

	entries, err := f.fs.ReadDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %q: %w", dir, err)
	}

	for _, entry := range entries {
		if skipDir(entry.Name()) {
			continue
		}

		full := filepath.Join(dir, entry.Name())
		if !f.isDir(ctx, full, entry) {
			continue
		}

		isPkg, err := f.isPackage(ctx, full)
		if err != nil {
			return err
		}
		if !isPkg {
			continue
		}

		name := entry.Name()
		if prefix != "" {
			name = prefix + "." + name
		}

		if matchesAny(name, include, true) && !matchesAny(name, exclude, false) {
			*out = append(*out, name)
		}

		// Subpackages of an excluded package may still be wanted.
		if err := f.walk(ctx, full, name, depth+1, include, exclude, out); err != nil {
			return err
		}
	}

	return nil
}

// isDir reports whether entry is a directory, following symlinks. MaxDepth
// bounds link cycles.
func (f *Finder) isDir(ctx context.Context, full string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := f.fs.Stat(ctx, full)
	return err == nil && info.IsDir()
}

func (f *Finder) isPackage(ctx context.Context, dir string) (bool, error) {
	info, err := f.fs.Stat(ctx, filepath.Join(dir, "__init__.py"))
	switch {
	case err == nil:
		return !info.IsDir(), nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to stat %q: %w", dir, err)
	}
}

// skipDir reports directories that can never be importable packages.
func skipDir(name string) bool {
	return strings.Contains(name, ".") || name == "__pycache__"
}

// matchesAny reports whether name matches one of patterns. An empty list
// yields whenEmpty.
func matchesAny(name string, patterns []string, whenEmpty bool) bool {
	if len(patterns) == 0 {
		return whenEmpty
	}
	for _, p := range patterns {
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}

func validatePatterns(lists ...[]string) error {
	for _, list := range lists {
		for _, p := range list {
			if _, err := path.Match(p, ""); err != nil {
				return fmt.Errorf("invalid package pattern %q: %w", p, err)
			}
		}
	}
	return nil
}
