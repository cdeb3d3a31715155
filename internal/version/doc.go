// Package version single-sources a project version from a file that already
// declares it, typically the `__version__` assignment of a package's
// __init__.py. The file is parsed as data, never executed.
//
// A missing version key falls back to DefaultVersion unless the source is
// strict. A missing file or unparsable content is always an error.
package version
