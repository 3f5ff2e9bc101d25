// Package mcpserver exposes the pipeline as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/agentic-research/cardweave/internal/build"
	"github.com/agentic-research/cardweave/internal/check"
	"github.com/agentic-research/cardweave/internal/project"
)

// Tools holds the tool handlers for one project.
type Tools struct {
	run    *build.Run
	logger *zap.Logger
}

// NewTools returns handlers bound to run. Every call re-indexes the project
// so that edits made between calls are seen.
func NewTools(run *build.Run) *Tools {
	logger := run.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tools{run: run, logger: logger}
}

// New builds an MCP server with every tool registered.
func New(run *build.Run, version string) *server.MCPServer {
	t := NewTools(run)
	s := server.NewMCPServer(
		"cardweave",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s.AddTool(mcp.NewTool("list_fragments",
		mcp.WithDescription("List the fragments of the project with their kind and path."),
		mcp.WithString("kind",
			mcp.Description("Only list fragments of this kind (geometry, tally, material, transform, source, config)."),
		),
	), t.ListFragments)

	s.AddTool(mcp.NewTool("check_configuration",
		mcp.WithDescription("Resolve and validate a configuration. Without a name, every configuration is checked."),
		mcp.WithString("name",
			mcp.Description("Configuration name (file stem)."),
		),
	), t.CheckConfiguration)

	s.AddTool(mcp.NewTool("build_model",
		mcp.WithDescription("Assemble the model of a configuration and return its text."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Configuration name (file stem)."),
		),
		mcp.WithString("out_dir",
			mcp.Description("If set, also write assembled.i into this directory. Relative paths are taken from the server's working directory."),
		),
	), t.BuildModel)

	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
func Serve(run *build.Run, version string) error {
	return server.ServeStdio(New(run, version))
}

// ListFragments handles list_fragments.
func (t *Tools) ListFragments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var filter project.Kind
	if k := req.GetString("kind", ""); k != "" {
		var ok bool
		if filter, ok = project.ParseKind(k); !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown kind %q", k)), nil
		}
	}

	p, err := t.run.Open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	for _, e := range p.Index.Entries() {
		if filter != 0 && e.Kind != filter {
			continue
		}
		fmt.Fprintf(&b, "%s\t%s\t%s\n", e.Name, e.Kind, e.Path)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// CheckConfiguration handles check_configuration.
func (t *Tools) CheckConfiguration(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := t.run.Open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var reports []check.Report
	if name := req.GetString("name", ""); name != "" {
		_, err := t.run.AssembleIn(p, name)
		reports = []check.Report{{Name: name, Err: err}}
	} else {
		reports = check.NewValidator(p, t.logger).ValidateAll()
	}

	var (
		b      strings.Builder
		failed bool
	)
	for _, r := range reports {
		if r.OK() {
			fmt.Fprintf(&b, "%s: ok\n", r.Name)
			continue
		}
		failed = true
		fmt.Fprintf(&b, "%s: %v\n", r.Name, r.Err)
	}
	if failed {
		return mcp.NewToolResultError(b.String()), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

// BuildModel handles build_model.
func (t *Tools) BuildModel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var res *build.Result
	if outDir := req.GetString("out_dir", ""); outDir != "" {
		abs, aerr := filepath.Abs(outDir)
		if aerr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("resolve out_dir: %v", aerr)), nil
		}
		res, err = t.run.Generate(name, abs)
	} else {
		res, err = t.run.Assemble(name)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t.logger.Info("model built over MCP", zap.String("configuration", name), zap.Int("fragments", len(res.Paths)))
	return mcp.NewToolResultText(res.Text), nil
}
