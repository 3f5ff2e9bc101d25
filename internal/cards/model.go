package cards

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/agentic-research/cardweave/internal/project"
)

// Section names one id -> text map of a Model.
type Section int

const (
	SectionCells Section = iota + 1
	SectionSurfaces
	SectionTallies
	SectionMaterials
	SectionTransforms
)

func (s Section) String() string {
	switch s {
	case SectionCells:
		return "cells"
	case SectionSurfaces:
		return "surfaces"
	case SectionTallies:
		return "tallies"
	case SectionMaterials:
		return "materials"
	case SectionTransforms:
		return "transforms"
	default:
		return "unknown"
	}
}

// Collision reports that a fragment reused an id already present in its
// section. The later fragment wins.
type Collision struct {
	Section  Section
	ID       int
	Previous string // path of the fragment that is overwritten
	Current  string
}

// Origin records what one fragment contributed to the model.
type Origin struct {
	Path      string
	Kind      project.Kind
	ID        int // cells id for geometry, card id otherwise; unset for sources
	SurfaceID int // geometry only
}

// Model is the composition target of one generation run.
type Model struct {
	Cells      map[int]string
	Surfaces   map[int]string
	Tallies    map[int]string
	Materials  map[int]string
	Transforms map[int]string
	Source     string

	origins     map[string]Origin
	seen        map[Section]*roaring.Bitmap
	dups        map[Section]*roaring.Bitmap
	owners      map[Section]map[int]string
	onCollision func(Collision)
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		Cells:      make(map[int]string),
		Surfaces:   make(map[int]string),
		Tallies:    make(map[int]string),
		Materials:  make(map[int]string),
		Transforms: make(map[int]string),
		origins:    make(map[string]Origin),
		seen:       make(map[Section]*roaring.Bitmap),
		dups:       make(map[Section]*roaring.Bitmap),
		owners:     make(map[Section]map[int]string),
	}
}

// Section returns the map backing s.
func (m *Model) Section(s Section) map[int]string {
	switch s {
	case SectionCells:
		return m.Cells
	case SectionSurfaces:
		return m.Surfaces
	case SectionTallies:
		return m.Tallies
	case SectionMaterials:
		return m.Materials
	case SectionTransforms:
		return m.Transforms
	default:
		return nil
	}
}

// Origin returns what the fragment with the given logical name contributed.
func (m *Model) Origin(name string) (Origin, bool) {
	o, ok := m.origins[name]
	return o, ok
}

// SetOrigin records the contribution of a fragment.
func (m *Model) SetOrigin(name string, o Origin) {
	if m.origins == nil {
		m.origins = make(map[string]Origin)
	}
	m.origins[name] = o
}

// Collisions returns, ascending, the ids of s that were written more than
// once.
func (m *Model) Collisions(s Section) []int {
	bm := m.dups[s]
	if bm == nil {
		return nil
	}
	out := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// Owner returns the path of the fragment whose text currently sits under id
// in s. Entries set directly on the section maps have no owner.
func (m *Model) Owner(s Section, id int) (string, bool) {
	path, ok := m.owners[s][id]
	return path, ok
}

// put stores text under id, reporting a collision when the id was already
// taken in s.
func (m *Model) put(s Section, id int, text, path string) {
	bm := m.seen[s]
	if bm == nil {
		bm = roaring.New()
		m.seen[s] = bm
	}
	owners := m.owners[s]
	if owners == nil {
		owners = make(map[int]string)
		m.owners[s] = owners
	}

	if !bm.CheckedAdd(uint32(id)) {
		dups := m.dups[s]
		if dups == nil {
			dups = roaring.New()
			m.dups[s] = dups
		}
		dups.Add(uint32(id))
		if m.onCollision != nil {
			m.onCollision(Collision{Section: s, ID: id, Previous: owners[id], Current: path})
		}
	}
	owners[id] = path
	m.Section(s)[id] = text
}
