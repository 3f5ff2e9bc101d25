package cards

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitBlocks(t *testing.T) {
	blocks := SplitBlocks("1 0 -1\n2 0 1\n\n1 so 5\n  \n m1 1001 1\n")
	assert.Equal(t, []string{"1 0 -1\n2 0 1\n", "1 so 5\n", " m1 1001 1\n"}, blocks)

	assert.Len(t, SplitBlocks("1 0 -1\n"), 1)
}

func TestIDMatchers(t *testing.T) {
	cases := []struct {
		name  string
		match func(string) (int, bool)
		text  string
		want  int
		ok    bool
	}{
		{"cell", CellID, "c comment\n10 0 -1 imp:n=1\n", 10, true},
		{"cell without id", CellID, "c only comments\n", 0, false},
		{"cell rejects star", CellID, "*5 so 1\n", 0, false},
		{"surface", SurfaceID, "15 pz 0\n", 15, true},
		{"reflecting surface", SurfaceID, "*16 pz 0\n", 16, true},
		{"material", DataCardID, "c water\nm21 1001.31c 2\n", 21, true},
		{"tally", DataCardID, "f14:n 1\n", 14, true},
		{"starred transform", DataCardID, "*tr3 0 0 0 90 0 90\n", 3, true},
		{"bare number", DataCardID, "7 1 2 3\n", 7, true},
		{"data card without id", DataCardID, "c nothing\n", 0, false},
		{"overflow", CellID, "99999999999 0 -1\n", 0, false},
		{"universe", UniverseID, "1 0 -1 U = 121 imp:n=1\n2 0 1 u=3\n", 121, true},
		{"universe lowercase", UniverseID, "1 0 -1 u=42\n", 42, true},
		{"no universe", UniverseID, "1 0 -1 fill=4\n", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.match(tc.text)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMatchPlaceholder(t *testing.T) {
	line := "100 0 -10 imp:n=1 $ FILL = zone_a"
	p, ok := MatchPlaceholder(line)
	assert.True(t, ok)
	assert.Equal(t, "FILL", p.Keyword)
	assert.Equal(t, "zone_a", p.Envelope)
	assert.Equal(t, "$ FILL = zone_a", line[p.Start:p.End])

	p, ok = MatchPlaceholder("101 0 -11 $  *FILL=rotated")
	assert.True(t, ok)
	assert.Equal(t, "*FILL", p.Keyword)
	assert.Equal(t, "rotated", p.Envelope)

	_, ok = MatchPlaceholder("102 0 -12 fill=3 $ regular comment")
	assert.False(t, ok)
	_, ok = MatchPlaceholder("102 0 -12 $FILL = tight")
	assert.False(t, ok, "marker requires whitespace after $")
}

func TestPlaceholders(t *testing.T) {
	text := "1 0 -1 $ FILL = a\n2 0 -2 $ FILL = b\n3 0 -3 $ *FILL = a\n4 0 4\n"
	assert.Equal(t, []string{"a", "b"}, Placeholders(text))
	assert.Empty(t, Placeholders("1 0 -1\n"))
}

func TestPlaceholders_MarkerStaysOnOneLine(t *testing.T) {
	text := "1 0 -1 $ FILL =\n  zone\n2 0 -2 $ FILL\n= other\n"
	assert.Empty(t, Placeholders(text))
	for _, line := range strings.Split(text, "\n") {
		_, ok := MatchPlaceholder(line)
		assert.False(t, ok, line)
	}

	text = "1 0 -1 $ FILL =\n3 0 -3 $\tFILL\t=\tz\n"
	assert.Equal(t, []string{"z"}, Placeholders(text), "cell numbers on the next line are not envelope names")
}
