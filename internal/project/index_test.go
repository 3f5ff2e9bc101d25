package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/cardweave/api"
)

func writeFiles(t *testing.T, fsys billy.Filesystem, files map[string]string, order []string) {
	t.Helper()
	for _, name := range order {
		require.NoError(t, util.WriteFile(fsys, name, []byte(files[name]), 0o644))
	}
}

var sampleProject = map[string]string{
	"/proj/models/envelope_structure.mcnp":     "1 0 -1\n\n1 so 5\n",
	"/proj/models/envelope_structure.metadata": "transformations: {}\n",
	"/proj/models/fillers/filler_a.mcnp":       "10 0 -10 u=5\n\n10 so 1\n",
	"/proj/models/fillers/filler_a.metadata":   "transformations:\n  e1: (1)\n",
	"/proj/data/materials.mat":                 "m1 1001.31c 1\n",
	"/proj/data/fine.tally":                    "f4:n 1\n",
	"/proj/data/rot.transform":                 "*tr1 0 0 0\n",
	"/proj/data/point.source":                  "sdef pos=0 0 0\n",
	"/proj/configurations/base.yaml":           "envelope_structure: envelope_structure\n",
	"/proj/configurations/child.yml":           "overrides: base\n",
	"/proj/README.md":                          "not a fragment\n",
}

func sampleOrder(reverse bool) []string {
	order := []string{
		"/proj/models/envelope_structure.mcnp",
		"/proj/models/envelope_structure.metadata",
		"/proj/models/fillers/filler_a.mcnp",
		"/proj/models/fillers/filler_a.metadata",
		"/proj/data/materials.mat",
		"/proj/data/fine.tally",
		"/proj/data/rot.transform",
		"/proj/data/point.source",
		"/proj/configurations/base.yaml",
		"/proj/configurations/child.yml",
		"/proj/README.md",
	}
	if reverse {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}
	return order
}

func TestScan_IndexesRecognizedSuffixes(t *testing.T) {
	fsys := memfs.New()
	writeFiles(t, fsys, sampleProject, sampleOrder(false))

	idx, err := Scan(fsys, "/proj", IndexOptions{Strict: true})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"base", "child", "envelope_structure", "filler_a", "fine", "materials", "point", "rot",
	}, idx.Names())

	e, ok := idx.Lookup("filler_a")
	require.True(t, ok)
	assert.Equal(t, KindGeometry, e.Kind)
	assert.True(t, e.HasMetadata)
	assert.Equal(t, filepath.Join("/proj", "models", "fillers", "filler_a.mcnp"), e.Path)

	assert.Equal(t, []string{"base", "child"}, idx.Configurations())
	assert.False(t, idx.Has("README"), "unrecognized suffixes are skipped")
	assert.False(t, idx.Has("envelope_structure.metadata"))
}

func TestScan_OrderIndependent(t *testing.T) {
	a := memfs.New()
	writeFiles(t, a, sampleProject, sampleOrder(false))
	b := memfs.New()
	writeFiles(t, b, sampleProject, sampleOrder(true))

	idxA, err := Scan(a, "/proj", IndexOptions{})
	require.NoError(t, err)
	idxB, err := Scan(b, "/proj", IndexOptions{})
	require.NoError(t, err)

	assert.Equal(t, idxA.Entries(), idxB.Entries())
}

func TestScan_RootMissing(t *testing.T) {
	_, err := Scan(memfs.New(), "/nope", IndexOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrNotFound))
}

func TestScan_RootIsFile(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "/proj.mcnp", []byte("1 0\n\n1 so 1\n"), 0o644))

	_, err := Scan(fsys, "/proj.mcnp", IndexOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrNotFound)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestScan_DuplicateStemAcrossKinds(t *testing.T) {
	fsys := memfs.New()
	files := map[string]string{
		"/proj/a/shared.mcnp":  "1 0\n\n1 so 1\n",
		"/proj/b/c/shared.mat": "m1 1001 1\n",
	}
	writeFiles(t, fsys, files, []string{"/proj/a/shared.mcnp", "/proj/b/c/shared.mat"})

	_, err := Scan(fsys, "/proj", IndexOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrDuplicateName)
	assert.Contains(t, err.Error(), `"shared"`)
}

func TestScan_StrictRequiresMetadata(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "/proj/lonely.mcnp", []byte("1 0\n\n1 so 1\n"), 0o644))

	idx, err := Scan(fsys, "/proj", IndexOptions{})
	require.NoError(t, err, "lenient mode tolerates missing sidecars")
	e, _ := idx.Lookup("lonely")
	assert.False(t, e.HasMetadata)

	_, err = Scan(fsys, "/proj", IndexOptions{Strict: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrMissingMetadata)
}

func TestScan_OSFilesystem(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "models"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models", "main.mcnp"), []byte("1 0\n\n1 so 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models", "main.metadata"), []byte("transformations: {}\n"), 0o644))

	idx, err := Scan(osfs.New("/"), dir, IndexOptions{Strict: true})
	require.NoError(t, err)

	path, ok := idx.Path("main")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "models", "main.mcnp"), path)
}

func TestKindFromPath(t *testing.T) {
	cases := map[string]Kind{
		"a.mcnp":      KindGeometry,
		"a.tally":     KindTally,
		"a.mat":       KindMaterial,
		"a.transform": KindTransform,
		"a.source":    KindSource,
		"a.yaml":      KindConfig,
		"a.YML":       KindConfig,
	}
	for path, want := range cases {
		got, ok := KindFromPath(path)
		assert.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}
	_, ok := KindFromPath("a.metadata")
	assert.False(t, ok)
	assert.Equal(t, "dir/a.metadata", MetadataPath("dir/a.mcnp"))
}
