package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hargabyte/bridgegen/internal/generate"
	"github.com/hargabyte/bridgegen/internal/output"
)

// platformsCmd represents the platforms command
var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List supported target platforms",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printOutput(cmd, platformsOutput{Platforms: generate.Platforms()})
	},
}

type platformsOutput struct {
	Platforms []output.PlatformInfo `yaml:"platforms" json:"platforms"`
}

func init() {
	rootCmd.AddCommand(platformsCmd)
}
