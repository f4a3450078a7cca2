package output

import (
	"strings"
	"time"

	"github.com/hargabyte/bridgegen/internal/cppiface"
)

// InterfaceOutput represents one parsed declaration.
type InterfaceOutput struct {
	// Function is the bare function name
	Function string `yaml:"function" json:"function"`

	// Namespace is omitted for global functions
	Namespace string `yaml:"namespace,omitempty" json:"namespace,omitempty"`

	// Signature is the declaration rendered with canonical types
	// Example: "double MathUtils::multiply(double x, double y)"
	Signature string `yaml:"signature" json:"signature"`

	// Returns is the canonical return type (medium and dense)
	Returns string `yaml:"returns,omitempty" json:"returns,omitempty"`

	// Modifiers lists static, virtual and const when present
	Modifiers []string `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`

	// Parameters in declaration order (medium and dense)
	Parameters []ParameterOutput `yaml:"parameters,omitempty" json:"parameters,omitempty"`

	// Unparsed holds parameters the extractor had to drop (dense only)
	Unparsed []string `yaml:"unparsed,omitempty" json:"unparsed,omitempty"`

	// Source is the original declaration text (dense only)
	Source string `yaml:"source,omitempty" json:"source,omitempty"`
}

// ParameterOutput represents one parameter.
type ParameterOutput struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`

	// Passing is "pointer" or "reference", omitted for by-value parameters
	Passing string `yaml:"passing,omitempty" json:"passing,omitempty"`

	Const   bool   `yaml:"const,omitempty" json:"const,omitempty"`
	Default string `yaml:"default,omitempty" json:"default,omitempty"`
}

// NewInterfaceOutput converts a parse result at the given density.
func NewInterfaceOutput(pi *cppiface.ParsedInterface, density Density) *InterfaceOutput {
	out := &InterfaceOutput{
		Function:  pi.FunctionName,
		Namespace: pi.Namespace,
		Signature: Signature(pi),
	}
	if !density.IncludesParameters() {
		return out
	}

	out.Returns = pi.ReturnType.String()
	if pi.IsStatic {
		out.Modifiers = append(out.Modifiers, "static")
	}
	if pi.IsVirtual {
		out.Modifiers = append(out.Modifiers, "virtual")
	}
	if pi.IsConst {
		out.Modifiers = append(out.Modifiers, "const")
	}
	for _, p := range pi.Parameters {
		po := ParameterOutput{
			Name:    p.Name,
			Type:    p.Type.String(),
			Const:   p.IsConst,
			Default: p.DefaultValue,
		}
		switch {
		case p.IsPointer:
			po.Passing = "pointer"
		case p.IsReference:
			po.Passing = "reference"
		}
		out.Parameters = append(out.Parameters, po)
	}

	if density.IncludesSource() {
		out.Unparsed = pi.Diagnostics.Unparsed
		out.Source = pi.OriginalCode
	}
	return out
}

// Signature renders pi as a single declaration line using canonical types.
func Signature(pi *cppiface.ParsedInterface) string {
	var b strings.Builder
	if pi.IsStatic {
		b.WriteString("static ")
	}
	if pi.IsVirtual {
		b.WriteString("virtual ")
	}
	b.WriteString(pi.ReturnType.String())
	b.WriteByte(' ')
	b.WriteString(pi.QualifiedName())
	b.WriteByte('(')
	for i, p := range pi.Parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(ParameterDecl(p))
	}
	b.WriteByte(')')
	if pi.IsConst {
		b.WriteString(" const")
	}
	return b.String()
}

// ParameterDecl renders one parameter, e.g. "const string& name = \"x\"".
func ParameterDecl(p cppiface.Parameter) string {
	var b strings.Builder
	if p.IsConst {
		b.WriteString("const ")
	}
	typ := p.Type.String()
	b.WriteString(typ)
	switch {
	case p.IsPointer && !strings.HasSuffix(typ, "*"):
		// Opaque pointer types already carry their `*`.
		b.WriteByte('*')
	case p.IsReference:
		b.WriteByte('&')
	}
	b.WriteByte(' ')
	b.WriteString(p.Name)
	if p.HasDefault() {
		b.WriteString(" = ")
		b.WriteString(p.DefaultValue)
	}
	return b.String()
}

// ListOutput represents every declaration found in one input.
type ListOutput struct {
	Declarations []*InterfaceOutput `yaml:"declarations" json:"declarations"`
	Count        int                `yaml:"count" json:"count"`
}

// NewListOutput converts a batch of parse results.
func NewListOutput(all []*cppiface.ParsedInterface, density Density) *ListOutput {
	out := &ListOutput{Declarations: make([]*InterfaceOutput, 0, len(all))}
	for _, pi := range all {
		out.Declarations = append(out.Declarations, NewInterfaceOutput(pi, density))
	}
	out.Count = len(out.Declarations)
	return out
}

// PlatformOutput lists the files generated for one platform.
type PlatformOutput struct {
	Platform string   `yaml:"platform" json:"platform"`
	Files    []string `yaml:"files" json:"files"`
}

// GenerationOutput reports one generation run.
type GenerationOutput struct {
	// RunID is set when the run was recorded in history
	RunID     string           `yaml:"run_id,omitempty" json:"run_id,omitempty"`
	Function  string           `yaml:"function" json:"function"`
	OutputDir string           `yaml:"output_dir" json:"output_dir"`
	DryRun    bool             `yaml:"dry_run,omitempty" json:"dry_run,omitempty"`
	Platforms []PlatformOutput `yaml:"platforms" json:"platforms"`
}

// PlatformNames returns the platform names in report order.
func (g *GenerationOutput) PlatformNames() []string {
	names := make([]string, 0, len(g.Platforms))
	for _, p := range g.Platforms {
		names = append(names, p.Platform)
	}
	return names
}

// FileCount returns the total number of generated files.
func (g *GenerationOutput) FileCount() int {
	n := 0
	for _, p := range g.Platforms {
		n += len(p.Files)
	}
	return n
}

// PlatformInfo describes one supported target platform.
type PlatformInfo struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// RunOutput represents one recorded generation run.
type RunOutput struct {
	ID        string    `yaml:"id" json:"id"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
	Function  string    `yaml:"function" json:"function"`
	Namespace string    `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	Platforms []string  `yaml:"platforms" json:"platforms"`
	OutputDir string    `yaml:"output_dir" json:"output_dir"`
	FileCount int       `yaml:"file_count" json:"file_count"`
	Files     []string  `yaml:"files,omitempty" json:"files,omitempty"`
}

// HistoryOutput lists recorded runs, newest first.
type HistoryOutput struct {
	Runs  []RunOutput `yaml:"runs" json:"runs"`
	Count int         `yaml:"count" json:"count"`
}

// VerifyOutput reports a syntax cross-check of one declaration.
type VerifyOutput struct {
	Function        string `yaml:"function" json:"function"`
	Found           bool   `yaml:"found" json:"found"`
	TreeParams      int    `yaml:"tree_params" json:"tree_params"`
	ExtractorParams int    `yaml:"extractor_params" json:"extractor_params"`
	SyntaxErrors    bool   `yaml:"syntax_errors" json:"syntax_errors"`
	FirstError      string `yaml:"first_error,omitempty" json:"first_error,omitempty"`
	Agrees          bool   `yaml:"agrees" json:"agrees"`
}
