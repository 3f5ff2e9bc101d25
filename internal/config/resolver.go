package config

import (
	"fmt"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"

	"github.com/agentic-research/cardweave/api"
	"github.com/agentic-research/cardweave/internal/project"
)

// Resolver turns configuration names into fully concrete configurations.
type Resolver struct {
	fsys   billy.Filesystem
	idx    *project.Index
	logger *zap.Logger
}

// NewResolver returns a Resolver reading configuration files from fsys.
func NewResolver(fsys billy.Filesystem, idx *project.Index, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{fsys: fsys, idx: idx, logger: logger}
}

// Resolve loads the named configuration and folds its overrides chain into
// it. A configuration that overrides itself, directly or through its bases,
// fails with ErrCyclicOverride.
func (r *Resolver) Resolve(name string) (*api.Configuration, error) {
	return r.resolve(name, nil)
}

func (r *Resolver) resolve(name string, chain []string) (*api.Configuration, error) {
	for _, n := range chain {
		if n == name {
			return nil, api.Errorf(api.ErrCyclicOverride, "%s", strings.Join(append(chain, name), " -> "))
		}
	}

	rec, err := r.Load(name)
	if err != nil {
		if len(chain) > 0 {
			return nil, fmt.Errorf("base of %q: %w", chain[len(chain)-1], err)
		}
		return nil, err
	}
	if rec.Overrides == "" {
		return rec.Configuration(name), nil
	}

	next := make([]string, len(chain), len(chain)+1)
	copy(next, chain)
	base, err := r.resolve(rec.Overrides, append(next, name))
	if err != nil {
		return nil, err
	}

	cfg := Merge(base, rec)
	cfg.Name = name
	r.logger.Debug("configuration override applied",
		zap.String("configuration", name),
		zap.String("base", rec.Overrides))
	return cfg, nil
}

// Load reads and decodes the named configuration without following its
// overrides.
func (r *Resolver) Load(name string) (*Record, error) {
	entry, ok := r.idx.Lookup(name)
	if !ok {
		return nil, api.Errorf(api.ErrNotFound, "configuration %q is not in the project", name)
	}
	if entry.Kind != project.KindConfig {
		return nil, api.Errorf(api.ErrNotFound, "%q is a %s fragment, not a configuration", name, entry.Kind)
	}

	content, err := util.ReadFile(r.fsys, entry.Path)
	if err != nil {
		return nil, fmt.Errorf("read configuration %s: %w", entry.Path, err)
	}
	return Decode(content, entry.Path)
}
