// Package discovery finds the Python packages below a source root, the same
// set a setuptools find_packages call would return, without importing them.
package discovery
