// Package check cross-checks resolved configurations against the project they
// belong to.
package check

import (
	"errors"

	"go.uber.org/zap"

	"github.com/agentic-research/cardweave/api"
	"github.com/agentic-research/cardweave/internal/cards"
	"github.com/agentic-research/cardweave/internal/config"
	"github.com/agentic-research/cardweave/internal/project"
)

// Validator checks configurations of one project.
type Validator struct {
	project  *project.Project
	resolver *config.Resolver
	logger   *zap.Logger
}

// Report is the outcome of checking one configuration.
type Report struct {
	Name string
	Err  error
}

// OK reports whether the configuration passed.
func (r Report) OK() bool { return r.Err == nil }

// NewValidator returns a Validator for p.
func NewValidator(p *project.Project, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{
		project:  p,
		resolver: config.NewResolver(p.FS, p.Index, logger),
		logger:   logger,
	}
}

// Validate returns the first problem found in cfg, or nil. Checks run in
// order: envelope structure, envelope placeholders, fillers and their
// transformations, remaining fragment references.
func (v *Validator) Validate(cfg *api.Configuration) error {
	idx := v.project.Index

	if cfg.EnvelopeStructure == "" {
		return api.Errorf(api.ErrInvalidConfig, "configuration %q: envelope structure is not defined", cfg.Name)
	}
	structure, ok := idx.Lookup(cfg.EnvelopeStructure)
	if !ok {
		return api.Errorf(api.ErrInvalidConfig, "configuration %q: envelope structure %q is not in the project", cfg.Name, cfg.EnvelopeStructure)
	}
	if structure.Kind != project.KindGeometry {
		return api.Errorf(api.ErrInvalidConfig, "configuration %q: envelope structure %q is a %s fragment", cfg.Name, cfg.EnvelopeStructure, structure.Kind)
	}

	if len(cfg.Envelopes) > 0 {
		if err := v.checkPlaceholders(cfg); err != nil {
			return err
		}
	}

	for _, env := range cfg.Envelopes {
		if env.Filler == "" {
			continue
		}
		if err := v.checkFiller(cfg.Name, env); err != nil {
			return err
		}
	}

	type ref struct {
		role  string
		names []string
	}
	var refs []ref
	if cfg.Source != "" {
		refs = append(refs, ref{"source", []string{cfg.Source}})
	}
	refs = append(refs,
		ref{"tally", cfg.Tallies},
		ref{"material", cfg.Materials},
		ref{"transform", cfg.Transforms})
	for _, r := range refs {
		for _, name := range r.names {
			if !idx.Has(name) {
				return api.Errorf(api.ErrInvalidConfig, "configuration %q: %s %q is not in the project", cfg.Name, r.role, name)
			}
		}
	}

	if cfg.Source == "" {
		v.logger.Warn("no source defined in the configuration", zap.String("configuration", cfg.Name))
	}
	if len(cfg.Materials) == 0 {
		v.logger.Warn("no materials defined in the configuration", zap.String("configuration", cfg.Name))
	}
	return nil
}

func (v *Validator) checkPlaceholders(cfg *api.Configuration) error {
	text, err := v.project.Text(cfg.EnvelopeStructure)
	if err != nil {
		return err
	}
	found := cards.Placeholders(text)
	present := make(map[string]struct{}, len(found))
	for _, name := range found {
		present[name] = struct{}{}
	}

	for _, env := range cfg.Envelopes {
		if _, ok := present[env.Name]; !ok {
			return api.Errorf(api.ErrInvalidConfig, "configuration %q: envelope %q has no placeholder in %q", cfg.Name, env.Name, cfg.EnvelopeStructure)
		}
	}

	unused := 0
	for _, name := range found {
		if !cfg.Envelopes.Has(name) {
			unused++
		}
	}
	if unused > 0 {
		v.logger.Warn("envelope placeholders not named in the configuration",
			zap.String("configuration", cfg.Name),
			zap.String("structure", cfg.EnvelopeStructure),
			zap.Int("count", unused))
	}
	return nil
}

func (v *Validator) checkFiller(cfgName string, env api.Envelope) error {
	entry, ok := v.project.Index.Lookup(env.Filler)
	if !ok {
		return api.Errorf(api.ErrInvalidConfig, "configuration %q: filler %q of envelope %q is not in the project", cfgName, env.Filler, env.Name)
	}
	if entry.Kind != project.KindGeometry {
		return api.Errorf(api.ErrInvalidConfig, "configuration %q: filler %q of envelope %q is a %s fragment", cfgName, env.Filler, env.Name, entry.Kind)
	}

	meta, err := v.project.Metadata(env.Filler)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return api.Wrap(api.ErrInvalidConfig, err, "configuration %q: filler %q has no metadata", cfgName, env.Filler)
		}
		return err
	}
	if _, ok := meta.Transformations[env.Name]; !ok {
		return api.Errorf(api.ErrInvalidConfig, "configuration %q: filler %q has no transformation for envelope %q", cfgName, env.Filler, env.Name)
	}
	return nil
}

// Check resolves the named configuration and validates it.
func (v *Validator) Check(name string) Report {
	cfg, err := v.resolver.Resolve(name)
	if err == nil {
		err = v.Validate(cfg)
	}
	if err != nil {
		v.logger.Debug("configuration rejected", zap.String("configuration", name), zap.Error(err))
	}
	return Report{Name: name, Err: err}
}

// ValidateAll checks every configuration of the project. Reports are sorted
// by name.
func (v *Validator) ValidateAll() []Report {
	names := v.project.Index.Configurations()
	reports := make([]Report, 0, len(names))
	for _, name := range names {
		reports = append(reports, v.Check(name))
	}
	return reports
}
