// Package parser reads version strings out of project files without
// executing them. Structured formats (JSON, YAML, TOML) are addressed with a
// dot-notation field, raw files are the version themselves, regex sources use
// a capturing group, and Python modules are read as restricted literal
// assignments (see ParseAssignments).
package parser
