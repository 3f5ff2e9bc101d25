package cards

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	blankLine     = regexp.MustCompile(`(?m)^\s*\n`)
	cellIDPat     = regexp.MustCompile(`(?m)^(\d+)`)
	surfaceIDPat  = regexp.MustCompile(`(?m)^\*?(\d+)`)
	dataCardIDPat = regexp.MustCompile(`(?m)^\*?[a-zA-Z]*(\d+)`)
	placeholder   = regexp.MustCompile(`\$[ \t]+(\*?FILL)[ \t]*=[ \t]*(\w+)`)
	universePat   = regexp.MustCompile(`(?i)\bu\s*=\s*(\d+)`)
)

// SplitBlocks splits text at blank lines. Block text keeps its trailing
// newline.
func SplitBlocks(text string) []string {
	return blankLine.Split(text, -1)
}

// CellID returns the leading id of a cells block: digits at the start of the
// first line that has them.
func CellID(block string) (int, bool) {
	return firstID(cellIDPat, block)
}

// SurfaceID is CellID allowing a leading '*' (reflecting surfaces).
func SurfaceID(block string) (int, bool) {
	return firstID(surfaceIDPat, block)
}

// DataCardID returns the number of the first data card in block, allowing an
// optional '*' and a mnemonic such as "m", "f" or "tr" before it.
func DataCardID(block string) (int, bool) {
	return firstID(dataCardIDPat, block)
}

// UniverseID returns the first "u=<n>" in text.
func UniverseID(text string) (int, bool) {
	return firstID(universePat, text)
}

// firstID reports ok=false both when nothing matches and when the digits do
// not fit an id.
func firstID(re *regexp.Regexp, text string) (int, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return 0, false
	}
	return int(id), true
}

// Placeholder is one "$ FILL = <envelope>" marker.
type Placeholder struct {
	Keyword  string // FILL or *FILL
	Envelope string
	Start    int // byte offsets of the marker within the line
	End      int
}

// MatchPlaceholder finds the first placeholder marker in line.
func MatchPlaceholder(line string) (Placeholder, bool) {
	m := placeholder.FindStringSubmatchIndex(line)
	if m == nil {
		return Placeholder{}, false
	}
	return Placeholder{
		Keyword:  line[m[2]:m[3]],
		Envelope: line[m[4]:m[5]],
		Start:    m[0],
		End:      m[1],
	}, true
}

// Placeholders returns the envelope names of every placeholder in text, in
// order of appearance, without duplicates. A marker never spans lines.
func Placeholders(text string) []string {
	var (
		names []string
		seen  = make(map[string]struct{})
	)
	for _, line := range strings.Split(text, "\n") {
		p, ok := MatchPlaceholder(line)
		if !ok {
			continue
		}
		if _, dup := seen[p.Envelope]; dup {
			continue
		}
		seen[p.Envelope] = struct{}{}
		names = append(names, p.Envelope)
	}
	return names
}
