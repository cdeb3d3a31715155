// Package descriptor assembles the package descriptor handed to the external
// build tool: static metadata, the single-sourced version and the discovered
// package set.
package descriptor

import (
	"fmt"
	"slices"
	"strings"
)

// Metadata is the static part of a descriptor, as declared by the project.
type Metadata struct {
	Name            string
	Author          string
	AuthorEmail     string
	URL             string
	Description     string
	InstallRequires []string
	Classifiers     []string
}

// Descriptor is an immutable package descriptor. Accessors return copies.
type Descriptor struct {
	meta     Metadata
	version  string
	packages []string
}

// New validates meta and returns a Descriptor. Packages are deduplicated and
// sorted; install requirements and classifiers keep their declared order.
func New(meta Metadata, version string, packages []string) (*Descriptor, error) {
	if strings.TrimSpace(meta.Name) == "" {
		return nil, fmt.Errorf("package name is required")
	}
	if strings.TrimSpace(version) == "" {
		return nil, fmt.Errorf("package version is required")
	}

	pkgs := slices.Clone(packages)
	slices.Sort(pkgs)
	pkgs = slices.Compact(pkgs)

	meta.InstallRequires = slices.Clone(meta.InstallRequires)
	meta.Classifiers = slices.Clone(meta.Classifiers)

	return &Descriptor{meta: meta, version: version, packages: pkgs}, nil
}

func (d *Descriptor) Name() string        { return d.meta.Name }
func (d *Descriptor) Author() string      { return d.meta.Author }
func (d *Descriptor) AuthorEmail() string { return d.meta.AuthorEmail }
func (d *Descriptor) URL() string         { return d.meta.URL }
func (d *Descriptor) Description() string { return d.meta.Description }
func (d *Descriptor) Version() string     { return d.version }

// Packages returns the sorted package set.
func (d *Descriptor) Packages() []string { return slices.Clone(d.packages) }

// InstallRequires returns the dependency declarations in declared order.
func (d *Descriptor) InstallRequires() []string { return slices.Clone(d.meta.InstallRequires) }

// Classifiers returns the trove classifiers in declared order.
func (d *Descriptor) Classifiers() []string { return slices.Clone(d.meta.Classifiers) }

// Metadata returns a copy of the static metadata.
func (d *Descriptor) Metadata() Metadata {
	m := d.meta
	m.InstallRequires = slices.Clone(m.InstallRequires)
	m.Classifiers = slices.Clone(m.Classifiers)
	return m
}
