// Package parser provides tree-sitter based parsing of C++ sources.
//
// The interface extractor in cppiface reads declarations shallowly. This
// package parses the same input with the full tree-sitter C++ grammar so
// the two readings can be compared.
package parser

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// maxNearLen truncates SyntaxError.Near.
const maxNearLen = 40

// Parser wraps tree-sitter for C++ parsing. A Parser is not safe for
// concurrent use.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult holds a parse tree and the source it was built from.
type ParseResult struct {
	Tree   *sitter.Tree
	Root   *sitter.Node
	Source []byte
	// FilePath is empty for in-memory parsing.
	FilePath string
}

// NewParser creates a C++ parser.
func NewParser() (*Parser, error) {
	p, err := newCppParser()
	if err != nil {
		return nil, err
	}
	return &Parser{parser: p}, nil
}

// Parse builds a syntax tree for source. Syntax errors do not fail the
// parse; see ParseResult.FirstSyntaxError. An error is returned only when
// ctx is canceled or tree-sitter gives up.
func (p *Parser) Parse(ctx context.Context, source []byte) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}
	return &ParseResult{
		Tree:   tree,
		Root:   tree.RootNode(),
		Source: source,
	}, nil
}

// ParseFile parses a file from disk.
func (p *Parser) ParseFile(ctx context.Context, path string) (*ParseResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}

	result, err := p.Parse(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	result.FilePath = path
	return result, nil
}

// Close releases parser resources.
// After calling Close, the parser should not be used.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
		p.parser = nil
	}
}

// Close releases the parse tree resources.
func (r *ParseResult) Close() {
	if r.Tree != nil {
		r.Tree.Close()
		r.Tree = nil
		r.Root = nil
	}
}

// HasErrors returns true if the parse tree contains syntax errors.
func (r *ParseResult) HasErrors() bool {
	return r.Root != nil && r.Root.HasError()
}

// FirstSyntaxError returns the first ERROR or MISSING node in source
// order, or nil when the tree is clean.
func (r *ParseResult) FirstSyntaxError() *SyntaxError {
	if !r.HasErrors() {
		return nil
	}

	var found *SyntaxError
	r.WalkNodes(func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		switch {
		case n.IsMissing():
			found = r.syntaxError(n, n.Type(), true)
		case n.Type() == nodeError:
			found = r.syntaxError(n, r.NodeText(n), false)
		}
		return found == nil
	})
	return found
}

func (r *ParseResult) syntaxError(n *sitter.Node, near string, missing bool) *SyntaxError {
	near = strings.Join(strings.Fields(near), " ")
	if len(near) > maxNearLen {
		near = near[:maxNearLen] + "..."
	}
	pt := n.StartPoint()
	return &SyntaxError{
		File:    r.FilePath,
		Line:    pt.Row + 1,
		Column:  pt.Column + 1,
		Near:    near,
		Missing: missing,
	}
}

// WalkNodes traverses the AST depth-first, calling the visitor function
// for each node. If the visitor returns false, traversal stops.
func (r *ParseResult) WalkNodes(visitor func(*sitter.Node) bool) {
	if r.Root != nil {
		walkNode(r.Root, visitor)
	}
}

func walkNode(node *sitter.Node, visitor func(*sitter.Node) bool) bool {
	if !visitor(node) {
		return false
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if !walkNode(node.Child(i), visitor) {
			return false
		}
	}
	return true
}

// FindNodesByType returns all nodes of the specified type.
func (r *ParseResult) FindNodesByType(nodeType string) []*sitter.Node {
	var nodes []*sitter.Node
	r.WalkNodes(func(node *sitter.Node) bool {
		if node.Type() == nodeType {
			nodes = append(nodes, node)
		}
		return true
	})
	return nodes
}

// NodeText returns the source text for a node.
func (r *ParseResult) NodeText(node *sitter.Node) string {
	if node == nil || r.Source == nil {
		return ""
	}
	return node.Content(r.Source)
}

// IsCppSource reports whether ext is a C or C++ source or header extension.
func IsCppSource(ext string) bool {
	switch ext {
	case ".h", ".hh", ".hpp", ".hxx", ".cc", ".cpp", ".cxx", ".c++", ".h++":
		return true
	}
	return false
}
