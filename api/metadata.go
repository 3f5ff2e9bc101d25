package api

import "strings"

// Metadata is the sidecar record stored next to a geometry fragment as
// <stem>.metadata.
type Metadata struct {
	// Transformations maps envelope names to the transform applied when this
	// fragment fills that envelope.
	Transformations map[string]string `yaml:"transformations" json:"transformations"`
}

// StarTagged reports whether a transform asks for the *FILL form, and returns
// the expression without the tag.
func StarTagged(transform string) (string, bool) {
	t := strings.TrimSpace(transform)
	if strings.HasPrefix(t, "*") {
		return strings.TrimSpace(t[1:]), true
	}
	return t, false
}
