package parser

import (
	"path/filepath"
	"strings"
)

// FormatForFile guesses the Format of a version source from its file name.
func FormatForFile(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return FormatPython
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatRaw
	}
}

// FieldForFormat returns the conventional version field for a file name.
func FieldForFormat(path string) string {
	base := filepath.Base(path)
	switch {
	case base == "pyproject.toml":
		return "project.version"
	case base == "Cargo.toml":
		return "package.version"
	case strings.EqualFold(filepath.Ext(base), ".py"):
		return DefaultPythonKey
	default:
		return "version"
	}
}
