// Package adapter contains infrastructure adapters for the oxmut CLI.
package adapter

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// RustFileAdapter encapsulates Rust-specific parsing so the domain layer can
// focus on mutation rules while delegating grammar details to an
// infrastructure component.
type RustFileAdapter interface {
	// Parse builds a syntax tree for the provided source bytes. The returned
	// tree must be closed by the caller. A tree is returned even for
	// malformed input; syntax errors are reported as error nodes inside it.
	Parse(ctx context.Context, src []byte) (*sitter.Tree, error)
}

// TreeSitterRustAdapter provides a concrete RustFileAdapter backed by the
// tree-sitter Rust grammar.
type TreeSitterRustAdapter struct{}

// NewTreeSitterRustAdapter constructs a TreeSitterRustAdapter.
func NewTreeSitterRustAdapter() *TreeSitterRustAdapter {
	return &TreeSitterRustAdapter{}
}

// Parse builds a syntax tree for the provided source bytes. Each call uses
// its own parser instance, so the adapter is safe for concurrent use.
func (a *TreeSitterRustAdapter) Parse(ctx context.Context, src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(rust.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}

	return tree, nil
}
