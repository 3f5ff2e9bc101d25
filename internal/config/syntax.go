package config

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/yaml"
)

// SyntaxError locates the first syntax error of a configuration file.
type SyntaxError struct {
	Path   string
	Line   int // 1-based
	Column int // 1-based
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: syntax error", e.Path, e.Line, e.Column)
}

// CheckSyntax parses content with the tree-sitter YAML grammar and returns a
// *SyntaxError pointing at the first ERROR or MISSING node, or nil.
func CheckSyntax(content []byte, path string) error {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(yaml.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return fmt.Errorf("tree-sitter parse failed for %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || !root.HasError() {
		return nil
	}

	node := firstError(root)
	if node == nil {
		return &SyntaxError{Path: path, Line: 1, Column: 1}
	}
	pt := node.StartPoint()
	return &SyntaxError{Path: path, Line: int(pt.Row) + 1, Column: int(pt.Column) + 1}
}

// firstError does a depth-first search for the first ERROR or MISSING node.
func firstError(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.HasError() || child.IsError() || child.IsMissing() {
			if found := firstError(child); found != nil {
				return found
			}
		}
	}
	return nil
}
