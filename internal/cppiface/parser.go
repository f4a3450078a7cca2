// Package cppiface extracts a structured description of a C++ free-function
// declaration from source text.
//
// Parsing runs five stages strictly forward: Clean strips comments and
// whitespace, ExtractNamespace finds the enclosing namespace, ExtractSignature
// locates the first declaration, SplitParameters cuts the parameter list at
// top-level commas and ParseParameter with Normalize turn each piece into a
// Parameter. Only the first declaration in the input is extracted; ParseAll
// walks every declaration.
package cppiface

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DefaultMaxInputBytes bounds the input accepted by Parse.
const DefaultMaxInputBytes = 64 << 10

// Options configures a Parser.
type Options struct {
	// MaxInputBytes rejects larger inputs with a ParseError. Zero means
	// DefaultMaxInputBytes; a negative value disables the limit.
	MaxInputBytes int

	// Logger receives warnings about dropped parameters. Nil means no logging.
	Logger *zap.Logger
}

// Parser extracts interfaces from C++ source. It holds no mutable state and
// is safe for concurrent use.
type Parser struct {
	maxInput int
	log      *zap.Logger
}

// New creates a Parser.
func New(opts Options) *Parser {
	p := &Parser{
		maxInput: opts.MaxInputBytes,
		log:      opts.Logger,
	}
	if p.maxInput == 0 {
		p.maxInput = DefaultMaxInputBytes
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	return p
}

var defaultParser = New(Options{})

// Parse extracts the first function declaration in source using default
// options.
func Parse(source string) (*ParsedInterface, error) {
	return defaultParser.Parse(source)
}

// ParseAll extracts every function declaration in source using default
// options.
func ParseAll(source string) ([]*ParsedInterface, error) {
	return defaultParser.ParseAll(source)
}

// Parse extracts the first function declaration in source. Later
// declarations are ignored. The returned error wraps a *ParseError.
func (p *Parser) Parse(source string) (*ParsedInterface, error) {
	cleaned, err := p.prepare(source)
	if err != nil {
		return nil, err
	}
	sig, err := ExtractSignature(cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to parse C++ interface: %w", err)
	}
	return p.build(source, ExtractNamespace(cleaned), sig), nil
}

// ParseAll extracts every function declaration in source, in textual order.
// Later results take the namespace of the nearest preceding `namespace`
// keyword; the first result is identical to what Parse returns.
// It fails only when there is no declaration at all.
func (p *Parser) ParseAll(source string) ([]*ParsedInterface, error) {
	cleaned, err := p.prepare(source)
	if err != nil {
		return nil, err
	}

	toks := tokenize(cleaned)
	var (
		out []*ParsedInterface
		ns  string
	)
	for from := 0; from < len(toks); {
		sig, next, ok := findSignature(cleaned, toks, from)
		if !ok {
			break
		}
		if k := lastNamespaceBefore(toks, from, next); k != "" {
			ns = k
		}
		if len(out) == 0 {
			// The first result matches Parse exactly.
			out = append(out, p.build(source, ExtractNamespace(cleaned), sig))
		} else {
			out = append(out, p.build(source, ns, sig))
		}
		from = next
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("failed to parse C++ interface: %w", &ParseError{Message: NoDeclarationMessage})
	}
	return out, nil
}

func (p *Parser) prepare(source string) (string, error) {
	if p.maxInput > 0 && len(source) > p.maxInput {
		return "", fmt.Errorf("failed to parse C++ interface: %w", inputTooLarge(len(source), p.maxInput))
	}
	return Clean(source), nil
}

func (p *Parser) build(source, namespace string, sig Signature) *ParsedInterface {
	pi := &ParsedInterface{
		Namespace:    namespace,
		FunctionName: sig.FunctionName,
		ReturnType:   Normalize(sig.ReturnTypeText),
		Parameters:   []Parameter{},
		IsStatic:     sig.HasModifier("static"),
		IsVirtual:    sig.HasModifier("virtual"),
		IsConst:      sig.IsConst,
		OriginalCode: strings.TrimSpace(source),
	}

	texts := SplitParameters(sig.ParamText)
	if len(texts) == 1 && texts[0] == "void" {
		texts = nil
	}
	for _, text := range texts {
		param, ok := ParseParameter(text)
		if !ok {
			pi.Diagnostics.Unparsed = append(pi.Diagnostics.Unparsed, text)
			p.log.Warn("dropped unparseable parameter",
				zap.String("function", sig.FunctionName),
				zap.String("parameter", text))
			continue
		}
		pi.Parameters = append(pi.Parameters, param)
	}
	assignNames(pi.Parameters)

	return pi
}

// lastNamespaceBefore returns the identifier after the last `namespace`
// keyword in toks[from:upto], or "".
func lastNamespaceBefore(toks []token, from, upto int) string {
	name := ""
	for k := from; k+1 < upto && k+1 < len(toks); k++ {
		if toks[k].kind == tokIdent && toks[k].text == "namespace" && toks[k+1].kind == tokIdent {
			name = toks[k+1].text
		}
	}
	return name
}
