// Package fill wires filler universes and transforms into the envelope
// placeholders of a structure's cells.
package fill

import (
	"fmt"
	"strings"

	"github.com/agentic-research/cardweave/api"
	"github.com/agentic-research/cardweave/internal/cards"
	"github.com/agentic-research/cardweave/internal/project"
)

// commentIndent starts the echo comment on a continuation line.
const commentIndent = "           "

// Lookup gives access to fragment text and sidecar transforms.
// *project.Project implements it.
type Lookup interface {
	Text(name string) (string, error)
	Transform(filler, envelope string) (string, error)
}

// Fill rewrites the cells block of cfg's envelope structure in m. Each
// placeholder naming an envelope with a filler becomes
//
//	FILL = <universe>  <transform>
//	           $ <envelope>
//
// Placeholders of envelopes left unfilled are not touched.
func Fill(m *cards.Model, cfg *api.Configuration, lookup Lookup) error {
	origin, ok := m.Origin(cfg.EnvelopeStructure)
	if !ok || origin.Kind != project.KindGeometry {
		return api.Errorf(api.ErrInvalidConfig, "envelope structure %q was not read into the model", cfg.EnvelopeStructure)
	}
	cells, ok := m.Cells[origin.ID]
	if !ok {
		return api.Errorf(api.ErrInvalidConfig, "cells %d of envelope structure %q are missing from the model", origin.ID, cfg.EnvelopeStructure)
	}
	if owner, ok := m.Owner(cards.SectionCells, origin.ID); ok && owner != origin.Path {
		return api.Errorf(api.ErrInvalidConfig, "cells %d of envelope structure %q were overwritten by %s", origin.ID, cfg.EnvelopeStructure, owner)
	}
	if len(cfg.Envelopes) == 0 {
		return nil
	}

	universes := make(map[string]int)
	lines := strings.SplitAfter(cells, "\n")
	for i, line := range lines {
		p, ok := cards.MatchPlaceholder(line)
		if !ok {
			continue
		}
		filler, _ := cfg.Envelopes.Get(p.Envelope)
		if filler == "" {
			continue
		}

		uid, ok := universes[filler]
		if !ok {
			var err error
			if uid, err = universeOf(lookup, filler); err != nil {
				return err
			}
			universes[filler] = uid
		}

		transform, err := lookup.Transform(filler, p.Envelope)
		if err != nil {
			return api.Wrap(api.ErrInvalidConfig, err, "envelope %q", p.Envelope)
		}

		lines[i] = line[:p.Start] + directive(p, uid, transform) + line[p.End:]
	}

	m.Cells[origin.ID] = strings.Join(lines, "")
	return nil
}

func universeOf(lookup Lookup, filler string) (int, error) {
	text, err := lookup.Text(filler)
	if err != nil {
		return 0, err
	}
	uid, ok := cards.UniverseID(text)
	if !ok {
		return 0, api.Errorf(api.ErrInvalidConfig, "filler %q declares no universe", filler)
	}
	return uid, nil
}

// directive builds the text that replaces a placeholder marker. A star-tagged
// transform, or a *FILL placeholder, selects the *FILL keyword.
func directive(p cards.Placeholder, uid int, transform string) string {
	expr, star := api.StarTagged(transform)
	keyword := "FILL"
	if star || strings.HasPrefix(p.Keyword, "*") {
		keyword = "*FILL"
	}

	var b strings.Builder
	fmt.Fprintf(&b, " %s = %d", keyword, uid)
	if expr != "" {
		b.WriteString("  ")
		b.WriteString(expr)
	}
	b.WriteString(" \n")
	b.WriteString(commentIndent)
	b.WriteString("$ ")
	b.WriteString(p.Envelope)
	return b.String()
}
