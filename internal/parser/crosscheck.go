package parser

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/hargabyte/bridgegen/internal/cppiface"
)

// Report compares the extractor's reading of a declaration with the
// tree-sitter grammar's.
type Report struct {
	Function string
	// Found is false when no function declarator has the extracted name.
	Found bool
	// TreeParams is the parameter count tree-sitter sees.
	TreeParams int
	// ExtractorParams is len(pi.Parameters).
	ExtractorParams int
	// SyntaxErrors is set when the grammar reported errors anywhere in
	// the source. FirstError locates the first one.
	SyntaxErrors bool
	FirstError   *SyntaxError
	// Agrees is true when the declaration was found and both parameter
	// counts match.
	Agrees bool
}

// CrossCheck parses source with tree-sitter and compares the first
// function declarator named pi.FunctionName against pi.
func (p *Parser) CrossCheck(ctx context.Context, source string, pi *cppiface.ParsedInterface) (*Report, error) {
	result, err := p.Parse(ctx, []byte(source))
	if err != nil {
		return nil, err
	}
	defer result.Close()
	return compare(result, pi), nil
}

// CrossCheckFile is CrossCheck for a file on disk. FirstError carries the
// file path.
func (p *Parser) CrossCheckFile(ctx context.Context, path string, pi *cppiface.ParsedInterface) (*Report, error) {
	result, err := p.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	defer result.Close()
	return compare(result, pi), nil
}

func compare(result *ParseResult, pi *cppiface.ParsedInterface) *Report {
	rep := &Report{
		Function:        pi.FunctionName,
		ExtractorParams: len(pi.Parameters),
		SyntaxErrors:    result.HasErrors(),
		FirstError:      result.FirstSyntaxError(),
	}

	var decl *sitter.Node
	result.WalkNodes(func(n *sitter.Node) bool {
		if n.Type() != nodeFunctionDeclarator {
			return true
		}
		if declaratorName(result, n.ChildByFieldName("declarator")) == pi.FunctionName {
			decl = n
			return false
		}
		return true
	})
	if decl == nil {
		return rep
	}

	rep.Found = true
	rep.TreeParams = countParams(result, decl.ChildByFieldName("parameters"))
	rep.Agrees = rep.TreeParams == rep.ExtractorParams
	return rep
}

// CrossCheck runs a one-off cross-check with a fresh parser.
func CrossCheck(ctx context.Context, source string, pi *cppiface.ParsedInterface) (*Report, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.CrossCheck(ctx, source, pi)
}

// CrossCheckFile runs a one-off file cross-check with a fresh parser.
func CrossCheckFile(ctx context.Context, path string, pi *cppiface.ParsedInterface) (*Report, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.CrossCheckFile(ctx, path, pi)
}
