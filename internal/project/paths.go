package project

import (
	"github.com/agentic-research/cardweave/api"
)

// ResolvePaths lists the fragment files selected by cfg: structure, fillers
// (envelope order), source, tallies, materials, transforms. Paths are
// de-duplicated keeping the first occurrence. cfg is expected to have been
// validated; unknown names still fail with ErrNotFound.
func ResolvePaths(idx *Index, cfg *api.Configuration) ([]string, error) {
	var (
		paths []string
		seen  = make(map[string]struct{})
	)
	add := func(role, name string) error {
		path, ok := idx.Path(name)
		if !ok {
			return api.Errorf(api.ErrNotFound, "%s %q is not in the project", role, name)
		}
		if _, dup := seen[path]; dup {
			return nil
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
		return nil
	}

	if err := add("envelope structure", cfg.EnvelopeStructure); err != nil {
		return nil, err
	}
	for _, env := range cfg.Envelopes {
		if env.Filler == "" {
			continue
		}
		if err := add("filler", env.Filler); err != nil {
			return nil, err
		}
	}
	if cfg.Source != "" {
		if err := add("source", cfg.Source); err != nil {
			return nil, err
		}
	}
	groups := []struct {
		role  string
		names []string
	}{
		{"tally", cfg.Tallies},
		{"material", cfg.Materials},
		{"transform", cfg.Transforms},
	}
	for _, g := range groups {
		for _, name := range g.names {
			if err := add(g.role, name); err != nil {
				return nil, err
			}
		}
	}
	return paths, nil
}
