package config

import (
	"gopkg.in/yaml.v3"

	"github.com/agentic-research/cardweave/api"
)

// Record is a configuration file as written, before its overrides chain is
// folded in. List fields are pointers so that an explicit empty list can be
// told apart from an absent (or null) one.
type Record struct {
	Overrides         string        `yaml:"overrides"`
	EnvelopeStructure string        `yaml:"envelope_structure"`
	Envelopes         api.Envelopes `yaml:"envelopes"`
	Source            string        `yaml:"source"`
	Tallies           *[]string     `yaml:"tallies"`
	Materials         *[]string     `yaml:"materials"`
	Transforms        *[]string     `yaml:"transforms"`

	// Older projects spell transforms this way.
	Transformations *[]string `yaml:"transformations"`
}

// Decode parses one configuration file. Syntax is checked first so that
// errors point at a line and column.
func Decode(content []byte, path string) (*Record, error) {
	if err := CheckSyntax(content, path); err != nil {
		return nil, api.Wrap(api.ErrInvalidConfig, err, "configuration %s", path)
	}
	var rec Record
	if err := yaml.Unmarshal(content, &rec); err != nil {
		return nil, api.Wrap(api.ErrInvalidConfig, err, "decode configuration %s", path)
	}
	if rec.Transforms == nil {
		rec.Transforms = rec.Transformations
	}
	rec.Transformations = nil
	return &rec, nil
}

// Configuration returns the record as a standalone configuration, ignoring
// its overrides.
func (r *Record) Configuration(name string) *api.Configuration {
	return &api.Configuration{
		Name:              name,
		EnvelopeStructure: r.EnvelopeStructure,
		Envelopes:         append(api.Envelopes(nil), r.Envelopes...),
		Source:            r.Source,
		Tallies:           cloneList(r.Tallies),
		Materials:         cloneList(r.Materials),
		Transforms:        cloneList(r.Transforms),
	}
}

// Merge folds child over base and returns a new configuration. base is not
// modified.
//
// Scalars replace only when non-empty in the child. Envelopes are updated key
// by key. Lists replace wholesale when the child defines them, even as [].
func Merge(base *api.Configuration, child *Record) *api.Configuration {
	out := &api.Configuration{
		Name:              base.Name,
		EnvelopeStructure: base.EnvelopeStructure,
		Envelopes:         child.Envelopes.Merge(base.Envelopes),
		Source:            base.Source,
		Tallies:           base.Tallies,
		Materials:         base.Materials,
		Transforms:        base.Transforms,
	}
	if child.EnvelopeStructure != "" {
		out.EnvelopeStructure = child.EnvelopeStructure
	}
	if child.Source != "" {
		out.Source = child.Source
	}
	if child.Tallies != nil {
		out.Tallies = cloneList(child.Tallies)
	}
	if child.Materials != nil {
		out.Materials = cloneList(child.Materials)
	}
	if child.Transforms != nil {
		out.Transforms = cloneList(child.Transforms)
	}
	return out
}

func cloneList(l *[]string) []string {
	if l == nil {
		return nil
	}
	return append(make([]string, 0, len(*l)), (*l)...)
}
