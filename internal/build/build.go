// Package build runs the whole pipeline for one configuration: index, resolve,
// validate, read, fill and compose.
package build

import (
	"path/filepath"

	billy "github.com/go-git/go-billy/v5"
	"go.uber.org/zap"

	"github.com/agentic-research/cardweave/api"
	"github.com/agentic-research/cardweave/internal/cards"
	"github.com/agentic-research/cardweave/internal/check"
	"github.com/agentic-research/cardweave/internal/config"
	"github.com/agentic-research/cardweave/internal/fill"
	"github.com/agentic-research/cardweave/internal/project"
)

// OutputName is the file Generate writes into the output directory.
const OutputName = "assembled.i"

// Run holds everything one generation needs. The zero Logger is a no-op.
type Run struct {
	FS     billy.Filesystem
	Root   string
	Strict bool
	Logger *zap.Logger

	// OnCollision is called whenever a fragment overwrites a card id.
	OnCollision func(cards.Collision)
}

// Result is an assembled model.
type Result struct {
	Configuration *api.Configuration
	Paths         []string // fragments read, in read order
	Text          string
	Output        string // set by Generate
}

func (r *Run) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// Open indexes the project root.
func (r *Run) Open() (*project.Project, error) {
	return project.Open(r.FS, r.Root, project.IndexOptions{Strict: r.Strict, Logger: r.logger()})
}

// Assemble builds the model text for the named configuration without
// writing anything.
func (r *Run) Assemble(name string) (*Result, error) {
	p, err := r.Open()
	if err != nil {
		return nil, err
	}
	return r.AssembleIn(p, name)
}

// AssembleIn is Assemble over an already indexed project.
func (r *Run) AssembleIn(p *project.Project, name string) (*Result, error) {
	logger := r.logger().With(zap.String("configuration", name))

	cfg, err := config.NewResolver(p.FS, p.Index, logger).Resolve(name)
	if err != nil {
		return nil, err
	}
	if err := check.NewValidator(p, logger).Validate(cfg); err != nil {
		return nil, err
	}

	paths, err := project.ResolvePaths(p.Index, cfg)
	if err != nil {
		return nil, err
	}

	model, err := cards.Read(p.FS, paths, cards.ReadOptions{
		Logger: logger,
		OnCollision: func(c cards.Collision) {
			logger.Debug("card id reused",
				zap.Stringer("section", c.Section),
				zap.Int("id", c.ID),
				zap.String("previous", c.Previous),
				zap.String("path", c.Current))
			if r.OnCollision != nil {
				r.OnCollision(c)
			}
		},
	})
	if err != nil {
		return nil, err
	}
	if err := fill.Fill(model, cfg, p); err != nil {
		return nil, err
	}

	return &Result{
		Configuration: cfg,
		Paths:         paths,
		Text:          cards.Compose(model, logger),
	}, nil
}

// Generate assembles the named configuration and writes it to
// outDir/assembled.i. Nothing is written unless every step succeeds.
func (r *Run) Generate(name, outDir string) (*Result, error) {
	res, err := r.Assemble(name)
	if err != nil {
		return nil, err
	}

	out := filepath.Join(outDir, OutputName)
	if err := WriteFile(r.FS, out, []byte(res.Text)); err != nil {
		return nil, err
	}
	res.Output = out
	r.logger().Info("model written",
		zap.String("configuration", name),
		zap.String("path", out),
		zap.Int("fragments", len(res.Paths)))
	return res, nil
}
