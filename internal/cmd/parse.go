package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hargabyte/bridgegen/internal/output"
	"github.com/hargabyte/bridgegen/internal/parser"
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Extract the function declaration from C++ source",
	Long: `Extract the first function declaration from a C++ header or snippet and
print its name, return type, modifiers, parameters and namespace.

Comments, preprocessor lines and attributes are ignored. Parameters that
cannot be understood are dropped and listed under unparsed (dense output).

With --verify the same source is also parsed with a tree-sitter C++ grammar
and the two parameter counts are compared.

Examples:
  bridgegen parse math.hpp
  bridgegen parse math.hpp --density dense
  bridgegen parse math.hpp --verify --format json
  echo 'std::string greet(const std::string& name);' | bridgegen parse`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

var (
	parseVerify  bool
	parseDensity string
)

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&parseVerify, "verify", false, "Cross-check the extraction with the tree-sitter C++ grammar")
	parseCmd.Flags().StringVar(&parseDensity, "density", "medium", "Output density (sparse|medium|dense)")
}

// parseReport is the parse output with the optional cross-check attached.
type parseReport struct {
	output.InterfaceOutput `yaml:",inline"`
	Verify                 *output.VerifyOutput `yaml:"verify,omitempty" json:"verify,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	density, err := output.ParseDensity(parseDensity)
	if err != nil {
		return err
	}

	source, path, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	pi, err := newParser().Parse(source)
	if err != nil {
		return err
	}

	if !parseVerify {
		return printOutput(cmd, output.NewInterfaceOutput(pi, density))
	}

	var rep *parser.Report
	if path != "" {
		rep, err = parser.CrossCheckFile(cmd.Context(), path, pi)
	} else {
		rep, err = parser.CrossCheck(cmd.Context(), source, pi)
	}
	if err != nil {
		return err
	}
	verify := &output.VerifyOutput{
		Function:        rep.Function,
		Found:           rep.Found,
		TreeParams:      rep.TreeParams,
		ExtractorParams: rep.ExtractorParams,
		SyntaxErrors:    rep.SyntaxErrors,
		Agrees:          rep.Agrees,
	}
	if rep.FirstError != nil {
		verify.FirstError = rep.FirstError.Error()
	}
	return printOutput(cmd, parseReport{
		InterfaceOutput: *output.NewInterfaceOutput(pi, density),
		Verify:          verify,
	})
}
