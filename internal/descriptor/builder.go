package descriptor

import (
	"context"
	"fmt"

	"github.com/indaco/pkgmeta/internal/core"
	"github.com/indaco/pkgmeta/internal/discovery"
	"github.com/indaco/pkgmeta/internal/version"
)

// Input is everything needed to build a descriptor.
type Input struct {
	Metadata Metadata
	Version  version.Source
	Packages discovery.Options
}

// Build holds the artifacts of one build pass.
type Build struct {
	Descriptor *Descriptor
	Version    version.Result
}

// Builder runs the single sequential pass: extract the version, discover
// packages, then construct the descriptor.
type Builder struct {
	extractor *version.Extractor
	finder    *discovery.Finder
}

// NewBuilder creates a Builder. A nil fs uses the OS filesystem.
func NewBuilder(fsys core.FileSystem) *Builder {
	if fsys == nil {
		fsys = core.NewOSFileSystem()
	}
	return &Builder{
		extractor: version.NewExtractor(fsys),
		finder:    discovery.NewFinder(fsys),
	}
}

// Build extracts the version, discovers packages and returns the descriptor.
// Any failure aborts the pass before a descriptor exists.
func (b *Builder) Build(ctx context.Context, in Input) (*Build, error) {
	res, err := b.extractor.Extract(ctx, in.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to extract version: %w", err)
	}

	packages, err := b.finder.Find(ctx, in.Packages)
	if err != nil {
		return nil, fmt.Errorf("failed to discover packages: %w", err)
	}

	d, err := New(in.Metadata, res.Version, packages)
	if err != nil {
		return nil, err
	}

	return &Build{Descriptor: d, Version: res}, nil
}
