package cards

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Compose renders the model: cells, blank line, surfaces, blank line, then
// materials, tallies and transforms, each sorted by id, and the source last.
func Compose(m *Model, logger *zap.Logger) string {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m.Source == "" {
		logger.Warn("no source included in the model")
	}
	if len(m.Materials) == 0 {
		logger.Warn("no materials included in the model")
	}
	if len(m.Cells) == 0 {
		logger.Warn("no cells included in the model")
	}

	var b strings.Builder
	writeCards(&b, m.Cells)
	b.WriteString("\n")
	writeCards(&b, m.Surfaces)
	b.WriteString("\n")
	writeCards(&b, m.Materials)
	writeCards(&b, m.Tallies)
	writeCards(&b, m.Transforms)
	b.WriteString(m.Source)

	logger.Debug("model composed",
		zap.Int("cells", len(m.Cells)),
		zap.Int("surfaces", len(m.Surfaces)),
		zap.Int("materials", len(m.Materials)),
		zap.Int("tallies", len(m.Tallies)),
		zap.Int("transforms", len(m.Transforms)))
	return b.String()
}

func writeCards(b *strings.Builder, cards map[int]string) {
	ids := make([]int, 0, len(cards))
	for id := range cards {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		b.WriteString(cards[id])
	}
}
