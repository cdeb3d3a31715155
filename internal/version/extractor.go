package version

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/indaco/pkgmeta/internal/core"
	"github.com/indaco/pkgmeta/internal/parser"
)

// DefaultVersion is used when the version source does not declare one.
const DefaultVersion = "0.0.0"

// DefaultKey is the identifier holding the version in Python modules.
const DefaultKey = parser.DefaultPythonKey

var (
	// ErrFileNotFound is returned when the version source does not exist.
	ErrFileNotFound = errors.New("version file not found")

	// ErrMissingVersionKey is returned by strict sources that lack the version key.
	ErrMissingVersionKey = errors.New("version key not found")
)

// Source describes where the version lives.
type Source struct {
	// Path is the version file. Required.
	Path string

	// Format of the file. Empty means detect from the file name.
	Format parser.Format

	// Key is the identifier (Python) or dot-notation field (JSON/YAML/TOML).
	// Empty means the conventional field for the file name.
	Key string

	// Pattern is the capturing regex for FormatRegex.
	Pattern string

	// Default replaces a missing version. Empty means DefaultVersion.
	Default string

	// Strict turns a missing version key into ErrMissingVersionKey.
	Strict bool

	// RequireSemver rejects versions that are not MAJOR.MINOR.PATCH[-pre][+build].
	RequireSemver bool
}

// Resolved returns a copy of s with format, key and default filled in.
func (s Source) Resolved() Source {
	if s.Format == "" {
		s.Format = parser.FormatForFile(s.Path)
	}
	if s.Key == "" && s.Format != parser.FormatRaw && s.Format != parser.FormatRegex {
		s.Key = parser.FieldForFormat(s.Path)
	}
	if s.Default == "" {
		s.Default = DefaultVersion
	}
	return s
}

// Result is the outcome of a successful extraction.
type Result struct {
	// Version is the extracted (or defaulted) version string.
	Version string

	// Source is the resolved source the version was read from.
	Source Source

	// Defaulted is true when the key was absent and Source.Default was used.
	Defaulted bool
}

// DefaultedWarning describes why Source.Default was used, worded for the
// kind of source.
func (r Result) DefaultedWarning() string {
	switch {
	case r.Source.Format == parser.FormatRaw:
		return fmt.Sprintf("%s is empty, using %s", r.Source.Path, r.Version)
	case r.Source.Format == parser.FormatRegex:
		return fmt.Sprintf("%s has no match for %q, using %s", r.Source.Path, r.Source.Pattern, r.Version)
	default:
		return fmt.Sprintf("%s declares no %s, using %s", r.Source.Path, r.Source.Key, r.Version)
	}
}

// Extractor reads versions through a core.FileSystem.
type Extractor struct {
	reader *parser.Reader
}

// NewExtractor creates an Extractor. A nil fs uses the OS filesystem.
func NewExtractor(fsys core.FileSystem) *Extractor {
	if fsys == nil {
		fsys = core.NewOSFileSystem()
	}
	return &Extractor{reader: parser.NewReader(fsys)}
}

// Extract reads the version declared by src.
//
// Errors:
//   - ErrFileNotFound when src.Path does not exist
//   - *parser.ParseError when a Python module holds anything but literal assignments
//   - ErrMissingVersionKey when src.Strict is set and the key is absent
//   - ErrInvalidVersion when src.RequireSemver is set and the version is not semver
func (e *Extractor) Extract(ctx context.Context, src Source) (Result, error) {
	if src.Path == "" {
		return Result{}, fmt.Errorf("version file path is required")
	}

	src = src.Resolved()
	if !src.Format.IsValid() {
		return Result{}, fmt.Errorf("invalid version file format: %s", src.Format)
	}

	res := Result{Source: src}

	version, err := e.reader.ReadVersion(ctx, parser.FileConfig{
		Path:    src.Path,
		Format:  src.Format,
		Field:   src.Key,
		Pattern: src.Pattern,
	})
	switch {
	case err == nil:
		res.Version = version
	case errors.Is(err, fs.ErrNotExist):
		return Result{}, fmt.Errorf("%w: %q", ErrFileNotFound, src.Path)
	case errors.Is(err, parser.ErrFieldNotFound):
		if src.Strict {
			return Result{}, fmt.Errorf("%w: %w", ErrMissingVersionKey, err)
		}
		res.Version = src.Default
		res.Defaulted = true
	default:
		return Result{}, err
	}

	if src.RequireSemver {
		if err := ValidateSemver(res.Version); err != nil {
			return Result{}, fmt.Errorf("version in %q: %w", src.Path, err)
		}
	}

	return res, nil
}

// Extract reads the `__version__` of the Python module at path from disk,
// falling back to DefaultVersion when it is not assigned.
func Extract(ctx context.Context, path string) (string, error) {
	res, err := NewExtractor(nil).Extract(ctx, Source{Path: path, Format: parser.FormatPython})
	if err != nil {
		return "", err
	}
	return res.Version, nil
}
