package output

import (
	"fmt"
	"strings"
)

// Format represents the output format type.
type Format string

const (
	// FormatYAML is the default self-documenting YAML output
	FormatYAML Format = "yaml"

	// FormatJSON is the JSON output format
	FormatJSON Format = "json"
)

// ParseFormat parses a format string into a Format value.
// Accepts: "yaml", "json" (case-insensitive)
// Returns an error for invalid format values.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid format: %q (expected yaml or json)", s)
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// Density represents the level of detail in interface output.
//   - Sparse: one-line signature only, for listing many declarations
//   - Medium: signature plus structured parameters (default)
//   - Dense: everything, including the original source and diagnostics
type Density string

const (
	// DensitySparse provides the signature line only
	// Example: add: int add(int a, int b)
	DensitySparse Density = "sparse"

	// DensityMedium adds return type, modifiers and parameters
	DensityMedium Density = "medium"

	// DensityDense adds the original source text and unparsed parameters
	DensityDense Density = "dense"
)

// ParseDensity parses a density string into a Density value.
// Accepts: "sparse", "medium", "dense" (case-insensitive)
// Returns an error for invalid density values.
func ParseDensity(s string) (Density, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sparse":
		return DensitySparse, nil
	case "medium":
		return DensityMedium, nil
	case "dense":
		return DensityDense, nil
	default:
		return "", fmt.Errorf("invalid density: %q (expected sparse, medium, or dense)", s)
	}
}

// String returns the string representation of the density.
func (d Density) String() string {
	return string(d)
}

// IncludesParameters returns true if this density level includes the
// structured parameter list.
func (d Density) IncludesParameters() bool {
	return d == DensityMedium || d == DensityDense
}

// IncludesSource returns true if this density level includes the original
// source and diagnostics.
func (d Density) IncludesSource() bool {
	return d == DensityDense
}

// DefaultFormat is the default output format when none is specified.
const DefaultFormat = FormatYAML

// DefaultDensity is the default density level when none is specified.
const DefaultDensity = DensityMedium
