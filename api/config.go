package api

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Configuration selects the fragments that make up one assembled model.
// A resolved Configuration never carries Overrides: the whole chain has
// already been folded into its fields.
type Configuration struct {
	// Name of the configuration file (stem) this was resolved from.
	Name string `json:"name"`
	// Overrides names the base configuration. Empty once resolved.
	Overrides string `json:"overrides,omitempty"`
	// EnvelopeStructure is the geometry fragment holding the envelope placeholders.
	EnvelopeStructure string `json:"envelope_structure"`
	// Envelopes maps envelope names to filler fragments, in declaration order.
	Envelopes Envelopes `json:"envelopes,omitempty"`
	// Source is the single source fragment.
	Source string `json:"source,omitempty"`
	// Data card fragments. nil means the list was never defined.
	Tallies    []string `json:"tallies,omitempty"`
	Materials  []string `json:"materials,omitempty"`
	Transforms []string `json:"transforms,omitempty"`
}

// Envelope binds one placeholder in the envelope structure to a filler.
// An empty Filler leaves the placeholder unfilled.
type Envelope struct {
	Name   string `json:"name"`
	Filler string `json:"filler,omitempty"`
}

// Envelopes is an ordered envelope -> filler mapping.
type Envelopes []Envelope

// Get returns the filler bound to name.
func (e Envelopes) Get(name string) (string, bool) {
	for _, env := range e {
		if env.Name == name {
			return env.Filler, true
		}
	}
	return "", false
}

// Has reports whether name is declared.
func (e Envelopes) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Names returns the envelope names in declaration order.
func (e Envelopes) Names() []string {
	names := make([]string, len(e))
	for i, env := range e {
		names[i] = env.Name
	}
	return names
}

// Merge returns base updated with e: existing names keep their position and
// take e's filler, unknown names are appended in e's order.
func (e Envelopes) Merge(base Envelopes) Envelopes {
	out := make(Envelopes, len(base), len(base)+len(e))
	copy(out, base)
	for _, env := range e {
		replaced := false
		for i := range out {
			if out[i].Name == env.Name {
				out[i].Filler = env.Filler
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, env)
		}
	}
	return out
}

// UnmarshalYAML decodes a mapping while keeping key order. Null values mean
// "leave this envelope unfilled".
func (e *Envelopes) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		*e = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: envelopes must be a mapping", value.Line)
	}
	out := make(Envelopes, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		env := Envelope{Name: key.Value}
		switch {
		case val.Kind == yaml.ScalarNode && val.Tag == "!!null":
		case val.Kind == yaml.ScalarNode:
			env.Filler = val.Value
		default:
			return fmt.Errorf("line %d: filler of envelope %q must be a fragment name", val.Line, key.Value)
		}
		out = append(out, env)
	}
	*e = out
	return nil
}
