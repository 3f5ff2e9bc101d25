package cards

import (
	"fmt"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"

	"github.com/agentic-research/cardweave/api"
	"github.com/agentic-research/cardweave/internal/project"
)

// ReadOptions tunes Read.
type ReadOptions struct {
	Logger *zap.Logger
	// OnCollision, when set, is called each time a fragment overwrites an id
	// already present in its section.
	OnCollision func(Collision)
}

// Read loads every path into a new Model, classifying each file by suffix.
// Later fragments overwrite earlier ones that share an id.
func Read(fsys billy.Filesystem, paths []string, opts ReadOptions) (*Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := NewModel()
	m.onCollision = opts.OnCollision
	sourceFrom := ""

	for _, path := range paths {
		kind, ok := project.KindFromPath(path)
		if !ok || kind == project.KindConfig {
			return nil, api.Errorf(api.ErrMalformedFragment, "%s is not a card fragment", path)
		}

		logger.Info("reading fragment", zap.String("path", path), zap.Stringer("kind", kind))
		content, err := util.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read fragment %s: %w", path, err)
		}
		text := string(content)
		name := project.Stem(path)

		switch kind {
		case project.KindGeometry:
			origin, err := readGeometry(m, text, path)
			if err != nil {
				return nil, err
			}
			m.SetOrigin(name, origin)

		case project.KindTally, project.KindMaterial, project.KindTransform:
			block := SplitBlocks(text)[0]
			id, ok := DataCardID(block)
			if !ok {
				return nil, api.Errorf(api.ErrMalformedFragment, "no card id in %s", path)
			}
			m.put(dataSection(kind), id, withNewline(block), path)
			m.SetOrigin(name, Origin{Path: path, Kind: kind, ID: id})

		case project.KindSource:
			if sourceFrom != "" {
				logger.Warn("more than one source fragment; the later one is kept",
					zap.String("previous", sourceFrom),
					zap.String("path", path))
			}
			m.Source = SplitBlocks(text)[0]
			sourceFrom = path
			m.SetOrigin(name, Origin{Path: path, Kind: kind})
		}
	}
	return m, nil
}

func readGeometry(m *Model, text, path string) (Origin, error) {
	blocks := SplitBlocks(text)
	if len(blocks) < 2 {
		return Origin{}, api.Errorf(api.ErrMalformedFragment, "%s does not contain both a cells and a surfaces block", path)
	}
	cells, surfaces := blocks[0], blocks[1]

	cellID, ok := CellID(cells)
	if !ok {
		return Origin{}, api.Errorf(api.ErrMalformedFragment, "no cell id in %s", path)
	}
	surfaceID, ok := SurfaceID(surfaces)
	if !ok {
		return Origin{}, api.Errorf(api.ErrMalformedFragment, "no surface id in %s", path)
	}

	m.put(SectionCells, cellID, withNewline(cells), path)
	m.put(SectionSurfaces, surfaceID, withNewline(surfaces), path)
	return Origin{Path: path, Kind: project.KindGeometry, ID: cellID, SurfaceID: surfaceID}, nil
}

func dataSection(kind project.Kind) Section {
	switch kind {
	case project.KindTally:
		return SectionTallies
	case project.KindMaterial:
		return SectionMaterials
	default:
		return SectionTransforms
	}
}

// withNewline terminates a card block so that consecutive blocks never run
// into each other.
func withNewline(block string) string {
	if block == "" || strings.HasSuffix(block, "\n") {
		return block
	}
	return block + "\n"
}
