package project

import (
	"path/filepath"
	"strings"
)

// Kind classifies a fragment by file suffix.
type Kind int

const (
	KindGeometry Kind = iota + 1
	KindTally
	KindMaterial
	KindTransform
	KindSource
	KindConfig
)

// MetadataSuffix is the sidecar suffix for geometry fragments. It is not a
// recognized fragment suffix.
const MetadataSuffix = ".metadata"

func (k Kind) String() string {
	switch k {
	case KindGeometry:
		return "geometry"
	case KindTally:
		return "tally"
	case KindMaterial:
		return "material"
	case KindTransform:
		return "transform"
	case KindSource:
		return "source"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// KindFromExt returns the fragment kind for a file extension (with the dot).
// Returns ok=false for unrecognized extensions.
func KindFromExt(ext string) (kind Kind, ok bool) {
	switch strings.ToLower(ext) {
	case ".mcnp":
		return KindGeometry, true
	case ".tally":
		return KindTally, true
	case ".mat":
		return KindMaterial, true
	case ".transform":
		return KindTransform, true
	case ".source":
		return KindSource, true
	case ".yaml", ".yml":
		return KindConfig, true
	default:
		return 0, false
	}
}

// KindFromPath classifies path by its suffix.
func KindFromPath(path string) (Kind, bool) {
	return KindFromExt(filepath.Ext(path))
}

// Stem returns the logical name of a fragment: its base name without suffix.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// MetadataPath returns the co-located sidecar path for a geometry fragment.
func MetadataPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + MetadataSuffix
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k := KindGeometry; k <= KindConfig; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}
