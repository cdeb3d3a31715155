package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/indaco/pkgmeta/internal/core"
	"github.com/pelletier/go-toml/v2"
)

// ErrFieldNotFound is returned (wrapped) when the requested field or
// identifier is not present in an otherwise valid file.
var ErrFieldNotFound = errors.New("field not found")

// Reader provides version reading capabilities for multiple file formats.
type Reader struct {
	fs core.FileSystem
}

// NewReader creates a new Reader with the given filesystem.
func NewReader(fs core.FileSystem) *Reader {
	return &Reader{fs: fs}
}

// Read reads a version from a file based on the provided configuration.
func (r *Reader) Read(ctx context.Context, cfg FileConfig) (*Result, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("file path is required")
	}

	if !cfg.Format.IsValid() {
		return nil, fmt.Errorf("invalid format: %s", cfg.Format)
	}

	data, err := r.fs.ReadFile(ctx, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", cfg.Path, err)
	}

	var version string
	switch cfg.Format {
	case FormatJSON:
		version, err = r.readStructured(data, cfg.Path, cfg.Field, cfg.Format, json.Unmarshal)
	case FormatYAML:
		version, err = r.readStructured(data, cfg.Path, cfg.Field, cfg.Format, unmarshalYAML)
	case FormatTOML:
		version, err = r.readStructured(data, cfg.Path, cfg.Field, cfg.Format, toml.Unmarshal)
	case FormatRaw:
		version, err = r.readRaw(data, cfg.Path)
	case FormatRegex:
		version, err = r.readRegex(data, cfg.Path, cfg.Pattern)
	case FormatPython:
		version, err = r.readPython(data, cfg.Path, cfg.Field)
	default:
		return nil, fmt.Errorf("unsupported format: %s", cfg.Format)
	}

	if err != nil {
		return nil, err
	}

	return &Result{
		Version: version,
		Path:    cfg.Path,
		Format:  cfg.Format,
		Field:   cfg.Field,
	}, nil
}

// ReadVersion is a convenience method that reads and returns just the version string.
func (r *Reader) ReadVersion(ctx context.Context, cfg FileConfig) (string, error) {
	result, err := r.Read(ctx, cfg)
	if err != nil {
		return "", err
	}
	return result.Version, nil
}

// ReadAssignments reads a Python module and returns its literal bindings.
func (r *Reader) ReadAssignments(ctx context.Context, path string) (Assignments, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is required")
	}

	data, err := r.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}

	return parseAssignmentsAt(data, path)
}

// readPython extracts the value bound to key by a top-level assignment.
func (r *Reader) readPython(data []byte, path, key string) (string, error) {
	if key == "" {
		key = DefaultPythonKey
	}

	assignments, err := parseAssignmentsAt(data, path)
	if err != nil {
		return "", err
	}

	version, ok := assignments[key]
	if !ok {
		return "", fmt.Errorf("in file %q: %w: %q", path, ErrFieldNotFound, key)
	}

	return version, nil
}

func parseAssignmentsAt(data []byte, path string) (Assignments, error) {
	assignments, err := ParseAssignments(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	return assignments, nil
}

// unmarshalFunc decodes a structured document into a generic map.
type unmarshalFunc func(data []byte, v any) error

func unmarshalYAML(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// readStructured decodes data with unmarshal and resolves the dot-notation
// field to a string value.
func (r *Reader) readStructured(data []byte, path, field string, format Format, unmarshal unmarshalFunc) (string, error) {
	if field == "" {
		return "", fmt.Errorf("field is required for %s format", strings.ToUpper(format.String()))
	}

	var obj map[string]any
	if err := unmarshal(data, &obj); err != nil {
		return "", fmt.Errorf("failed to parse %s in %q: %w", strings.ToUpper(format.String()), path, err)
	}

	value, err := getNestedValue(obj, field)
	if err != nil {
		return "", fmt.Errorf("in file %q: %w", path, err)
	}

	version, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("field %q in %q is not a string", field, path)
	}

	return version, nil
}

// readRaw reads the entire file contents as the version (trimmed).
// An empty file carries no version.
func (r *Reader) readRaw(data []byte, path string) (string, error) {
	version := strings.TrimSpace(string(data))
	if version == "" {
		return "", fmt.Errorf("in file %q: %w: file is empty", path, ErrFieldNotFound)
	}
	return version, nil
}

// readRegex extracts a version using a regex pattern with a capturing group.
func (r *Reader) readRegex(data []byte, path, pattern string) (string, error) {
	if pattern == "" {
		return "", fmt.Errorf("pattern is required for regex format")
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
	}

	if re.NumSubexp() < 1 {
		return "", fmt.Errorf("regex pattern %q must have a capturing group", pattern)
	}

	matches := re.FindSubmatch(data)
	if matches == nil {
		return "", fmt.Errorf("in file %q: %w: no match for pattern %q", path, ErrFieldNotFound, pattern)
	}

	return string(matches[1]), nil
}

// getNestedValue retrieves a value from a nested map using dot notation.
// "project.version" resolves obj["project"]["version"] in a pyproject.toml.
func getNestedValue(obj map[string]any, field string) (any, error) {
	if field == "" {
		return nil, fmt.Errorf("field path cannot be empty")
	}

	parts := strings.Split(field, ".")
	current := any(obj)

	for i, part := range parts {
		currentMap, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q is not an object at path %q", strings.Join(parts[:i], "."), part)
		}

		value, exists := currentMap[part]
		if !exists {
			return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, field)
		}

		current = value
	}

	return current, nil
}
