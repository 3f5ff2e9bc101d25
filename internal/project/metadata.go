package project

import (
	"fmt"
	"os"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/ohler55/ojg/jp"
	"gopkg.in/yaml.v3"

	"github.com/agentic-research/cardweave/api"
)

// transformationsPath selects the envelope -> transform mapping of a sidecar.
var transformationsPath = jp.MustParseString("$.transformations")

// LoadMetadata reads and decodes the sidecar at path. A missing file yields
// ErrNotFound.
func LoadMetadata(fsys billy.Filesystem, path string) (*api.Metadata, error) {
	content, err := util.ReadFile(fsys, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, api.Errorf(api.ErrNotFound, "metadata file %s does not exist", path)
		}
		return nil, fmt.Errorf("read metadata %s: %w", path, err)
	}
	return DecodeMetadata(content, path)
}

// DecodeMetadata parses sidecar YAML. Keys of the transformations mapping
// are kept even when their value is empty or null: presence is what the
// validator checks.
func DecodeMetadata(content []byte, path string) (*api.Metadata, error) {
	var data any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, api.Wrap(api.ErrInvalidConfig, err, "parse metadata %s", path)
	}

	meta := &api.Metadata{Transformations: map[string]string{}}
	if data == nil {
		return meta, nil
	}

	if m, ok := data.(map[any]any); ok {
		data = stringKeys(m)
	}
	tv := transformationsPath.First(data)
	if m, ok := tv.(map[any]any); ok {
		tv = stringKeys(m)
	}
	switch tv := tv.(type) {
	case nil:
	case map[string]any:
		for envelope, v := range tv {
			switch s := v.(type) {
			case nil:
				meta.Transformations[envelope] = ""
			case string:
				meta.Transformations[envelope] = s
			default:
				meta.Transformations[envelope] = fmt.Sprint(s)
			}
		}
	default:
		return nil, api.Errorf(api.ErrInvalidConfig, "metadata %s: transformations must be a mapping", path)
	}
	return meta, nil
}

// stringKeys rewrites a mapping decoded with non-string keys, such as an
// all-digit envelope name.
func stringKeys(m map[any]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[fmt.Sprint(k)] = v
	}
	return out
}
