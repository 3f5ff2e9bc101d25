package summary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/cardweave/internal/project"
)

func openProject(t *testing.T) *project.Project {
	t.Helper()
	fsys := memfs.New()
	files := map[string]string{
		"/proj/main.mcnp":         "1 0 -1\n\n1 so 1\n",
		"/proj/main.metadata":     "transformations: {}\n",
		"/proj/loose.mcnp":        "2 0 -2\n\n2 so 1\n",
		"/proj/water.mat":         "m1 1001 1\n",
		"/proj/conf/base.yaml":    "envelope_structure: main\n",
		"/proj/conf/child.yaml":   "overrides: base\n",
		"/proj/conf/corrupt.yaml": "materials: [a, b\n",
	}
	for name, content := range files {
		require.NoError(t, util.WriteFile(fsys, name, []byte(content), 0o644))
	}
	p, err := project.Open(fsys, "/proj", project.IndexOptions{})
	require.NoError(t, err)
	return p
}

func TestWriteLoad(t *testing.T) {
	p := openProject(t)
	dbPath := filepath.Join(t.TempDir(), "summary.db")

	require.NoError(t, Write(dbPath, p))
	s, err := Load(dbPath)
	require.NoError(t, err)

	assert.Equal(t, p.Index.Entries(), s.Fragments)

	require.Len(t, s.Configurations, 3)
	assert.Equal(t, Configuration{Name: "base"}, s.Configurations[0])
	assert.Equal(t, Configuration{Name: "child", Overrides: "base"}, s.Configurations[1])
	assert.Equal(t, "corrupt", s.Configurations[2].Name)
	assert.NotEmpty(t, s.Configurations[2].Error)
}

func TestWrite_ReplacesExisting(t *testing.T) {
	p := openProject(t)
	dbPath := filepath.Join(t.TempDir(), "summary.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("stale"), 0o644))

	require.NoError(t, Write(dbPath, p))
	require.NoError(t, Write(dbPath, p))

	s, err := Load(dbPath)
	require.NoError(t, err)
	assert.Len(t, s.Fragments, p.Index.Len())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.db"))
	assert.Error(t, err)
}
