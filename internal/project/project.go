package project

import (
	"fmt"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"

	"github.com/agentic-research/cardweave/api"
)

// Project couples an Index with the filesystem it was built from and caches
// sidecar metadata, which is only loaded for fragments that are asked about.
type Project struct {
	FS     billy.Filesystem
	Index  *Index
	logger *zap.Logger
	meta   map[string]*api.Metadata
}

// Open indexes root and returns a Project over it.
func Open(fsys billy.Filesystem, root string, opts IndexOptions) (*Project, error) {
	idx, err := Scan(fsys, root, opts)
	if err != nil {
		return nil, err
	}
	return New(fsys, idx, opts.Logger), nil
}

// New wraps an existing index.
func New(fsys billy.Filesystem, idx *Index, logger *zap.Logger) *Project {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Project{
		FS:     fsys,
		Index:  idx,
		logger: logger,
		meta:   make(map[string]*api.Metadata),
	}
}

// Text returns the raw content of the named fragment.
func (p *Project) Text(name string) (string, error) {
	path, ok := p.Index.Path(name)
	if !ok {
		return "", api.Errorf(api.ErrNotFound, "fragment %q is not in the project", name)
	}
	content, err := util.ReadFile(p.FS, path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(content), nil
}

// Metadata returns the sidecar record of a geometry fragment. Missing
// sidecars yield ErrNotFound.
func (p *Project) Metadata(name string) (*api.Metadata, error) {
	if m, ok := p.meta[name]; ok {
		return m, nil
	}
	entry, ok := p.Index.Lookup(name)
	if !ok {
		return nil, api.Errorf(api.ErrNotFound, "fragment %q is not in the project", name)
	}
	if entry.Kind != KindGeometry {
		return nil, api.Errorf(api.ErrNotFound, "fragment %q is a %s fragment and has no metadata", name, entry.Kind)
	}

	m, err := LoadMetadata(p.FS, MetadataPath(entry.Path))
	if err != nil {
		return nil, err
	}
	p.logger.Debug("metadata loaded", zap.String("fragment", name), zap.Int("transformations", len(m.Transformations)))
	p.meta[name] = m
	return m, nil
}

// Transform returns the transform registered by filler for envelope. A
// missing key is ErrNotFound; an empty transform is valid.
func (p *Project) Transform(filler, envelope string) (string, error) {
	m, err := p.Metadata(filler)
	if err != nil {
		return "", err
	}
	t, ok := m.Transformations[envelope]
	if !ok {
		return "", api.Errorf(api.ErrNotFound, "filler %q has no transformation for envelope %q", filler, envelope)
	}
	return t, nil
}
