package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hargabyte/bridgegen/internal/output"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [file|-]",
	Short: "List every function declaration in C++ source",
	Long: `List every function declaration in a header, in textual order.

'parse' and 'generate' only use the first declaration; use list to see what
else the input contains. Each declaration takes the namespace of the nearest
preceding namespace block.

Examples:
  bridgegen list api.hpp                   # One signature per declaration
  bridgegen list api.hpp --density medium  # Include parameters`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

var listDensity string

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listDensity, "density", "sparse", "Output density (sparse|medium|dense)")
}

func runList(cmd *cobra.Command, args []string) error {
	density, err := output.ParseDensity(listDensity)
	if err != nil {
		return err
	}

	source, _, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	all, err := newParser().ParseAll(source)
	if err != nil {
		return err
	}
	return printOutput(cmd, output.NewListOutput(all, density))
}
