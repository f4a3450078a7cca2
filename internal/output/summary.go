package output

import (
	"fmt"
	"strings"

	"github.com/hargabyte/bridgegen/internal/cppiface"
)

// ParseSummary renders the plain-text parse report returned by the
// parse_cpp_interface tool.
func ParseSummary(pi *cppiface.ParsedInterface) string {
	var b strings.Builder
	b.WriteString("Parsed C++ interface:\n\n")
	fmt.Fprintf(&b, "Function: %s\n", pi.FunctionName)
	fmt.Fprintf(&b, "Return Type: %s\n", pi.ReturnType)
	b.WriteString("Parameters:\n")
	for i, p := range pi.Parameters {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "  - %s %s", p.Type, p.Name)
	}

	namespace := pi.Namespace
	if namespace == "" {
		namespace = "global"
	}
	fmt.Fprintf(&b, "\n\nNamespace: %s", namespace)

	if !pi.Diagnostics.Empty() {
		fmt.Fprintf(&b, "\n\nUnparsed parameters: %s", strings.Join(pi.Diagnostics.Unparsed, ", "))
	}
	return b.String()
}

// GenerationSummary renders the plain-text report returned by the
// generate_multiplatform_code tool.
func GenerationSummary(g *GenerationOutput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Successfully generated cross-platform code for %s!\n\nGenerated files:\n",
		strings.Join(g.PlatformNames(), ", "))

	for i, p := range g.Platforms {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "\n%s:", strings.ToUpper(p.Platform))
		for _, f := range p.Files {
			fmt.Fprintf(&b, "\n  - %s", f)
		}
	}
	return b.String()
}

// PlatformsSummary renders the list_supported_platforms report.
func PlatformsSummary(platforms []PlatformInfo) string {
	lines := make([]string, 0, len(platforms))
	for _, p := range platforms {
		lines = append(lines, fmt.Sprintf("- %s: %s", p.Name, p.Description))
	}
	return "Supported platforms:\n" + strings.Join(lines, "\n")
}
