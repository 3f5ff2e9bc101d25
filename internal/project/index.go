package project

import (
	"os"
	"sort"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"

	"github.com/agentic-research/cardweave/api"
)

// Entry is one indexed fragment.
type Entry struct {
	Name        string // logical name (file stem)
	Kind        Kind
	Path        string // path within the project filesystem
	HasMetadata bool   // geometry only: a <stem>.metadata sidecar exists
}

// IndexOptions tunes Scan.
type IndexOptions struct {
	// Strict requires every geometry fragment to carry a sidecar metadata file.
	Strict bool
	Logger *zap.Logger
}

// Index maps logical fragment names to their location in the project.
type Index struct {
	root    string
	entries map[string]Entry
}

// Scan walks root and indexes every file with a recognized suffix.
func Scan(fsys billy.Filesystem, root string, opts IndexOptions) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := fsys.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, api.Errorf(api.ErrNotFound, "project root %s does not exist", root)
		}
		return nil, api.Wrap(api.ErrNotFound, err, "stat project root %s", root)
	}
	if !info.IsDir() {
		return nil, api.Errorf(api.ErrNotFound, "project root %s is not a directory", root)
	}

	idx := &Index{root: root, entries: make(map[string]Entry)}
	err = util.Walk(fsys, root, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.Mode().IsRegular() {
			return nil
		}
		kind, ok := KindFromPath(p)
		if !ok {
			return nil // sidecars and unrelated files
		}

		name := Stem(p)
		if prev, dup := idx.entries[name]; dup {
			return api.Errorf(api.ErrDuplicateName, "%q is used by both %s and %s", name, prev.Path, p)
		}

		entry := Entry{Name: name, Kind: kind, Path: p}
		if kind == KindGeometry {
			entry.HasMetadata = isRegular(fsys, MetadataPath(p))
			if opts.Strict && !entry.HasMetadata {
				return api.Errorf(api.ErrMissingMetadata, "no %s sidecar for %s", MetadataSuffix, p)
			}
		}
		idx.entries[name] = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("project indexed", zap.String("root", root), zap.Int("fragments", len(idx.entries)))
	return idx, nil
}

func isRegular(fsys billy.Filesystem, path string) bool {
	fi, err := fsys.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// Root returns the directory the index was built from.
func (idx *Index) Root() string { return idx.root }

// Len returns the number of indexed fragments.
func (idx *Index) Len() int { return len(idx.entries) }

// Lookup returns the entry for name.
func (idx *Index) Lookup(name string) (Entry, bool) {
	e, ok := idx.entries[name]
	return e, ok
}

// Has reports whether name is indexed.
func (idx *Index) Has(name string) bool {
	_, ok := idx.entries[name]
	return ok
}

// Path returns the location of name.
func (idx *Index) Path(name string) (string, bool) {
	e, ok := idx.entries[name]
	return e.Path, ok
}

// Names returns every indexed name, sorted.
func (idx *Index) Names() []string {
	names := make([]string, 0, len(idx.entries))
	for n := range idx.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Entries returns every entry sorted by name.
func (idx *Index) Entries() []Entry {
	out := make([]Entry, 0, len(idx.entries))
	for _, n := range idx.Names() {
		out = append(out, idx.entries[n])
	}
	return out
}

// Configurations returns the names of all configuration files, sorted.
func (idx *Index) Configurations() []string {
	var names []string
	for _, e := range idx.Entries() {
		if e.Kind == KindConfig {
			names = append(names, e.Name)
		}
	}
	return names
}
