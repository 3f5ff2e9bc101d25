package cmd

import (
	"encoding/json"
	"path/filepath"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/agentic-research/cardweave/api"
	"github.com/agentic-research/cardweave/internal/build"
)

// metadataName is written next to assembled.i.
const metadataName = "assembled.meta.json"

// BuildMetadata records how an assembled.i was produced.
type BuildMetadata struct {
	Tool          string             `json:"tool"`
	Version       string             `json:"version"`
	Configuration string             `json:"configuration"`
	Root          string             `json:"root"`
	Timestamp     time.Time          `json:"timestamp"`
	Fragments     []string           `json:"fragments"`
	Resolved      *api.Configuration `json:"resolved"`
}

func newBuildMetadata(root string, res *build.Result) *BuildMetadata {
	return &BuildMetadata{
		Tool:          "cardweave",
		Version:       Version,
		Configuration: res.Configuration.Name,
		Root:          root,
		Timestamp:     time.Now().UTC(),
		Fragments:     res.Paths,
		Resolved:      res.Configuration,
	}
}

// saveBuildMetadata writes the metadata sidecar into outDir.
func saveBuildMetadata(fsys billy.Filesystem, outDir string, meta *BuildMetadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return build.WriteFile(fsys, filepath.Join(outDir, metadataName), data)
}

// loadBuildMetadata reads the metadata sidecar from outDir.
func loadBuildMetadata(fsys billy.Filesystem, outDir string) (*BuildMetadata, error) {
	data, err := util.ReadFile(fsys, filepath.Join(outDir, metadataName))
	if err != nil {
		return nil, err
	}
	var meta BuildMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
