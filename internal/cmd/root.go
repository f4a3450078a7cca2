// Package cmd contains all CLI commands for bridgegen.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/hargabyte/bridgegen/internal/config"
	"github.com/hargabyte/bridgegen/internal/logging"
)

var (
	// Version is the current version of bridgegen
	Version = "0.1.0"

	// Global flags
	verbose      bool
	configPath   string
	outputFormat string
	forAgents    bool

	// Set by PersistentPreRunE for every command.
	logger *zap.Logger
	cfg    *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bridgegen",
	Short: "Generate mobile platform bindings from a C++ function declaration",
	Long: `bridgegen reads a single C++ free-function declaration and generates the
glue code needed to call it from Android (JNI with Java or Kotlin), iOS
(Objective-C++ and Swift) and HarmonyOS (NAPI with ArkTS).

The declaration is read from a file or stdin. Only the first function-shaped
declaration is used; 'bridgegen list' shows every declaration in the input.

Output Format:
  Reports are YAML by default. Use --format json for JSON.

Main capabilities:
  - Extract a function's name, return type, parameters and namespace
  - Generate JNI, Objective-C/Swift and NAPI bindings plus build files
  - Cross-check the extraction against a tree-sitter C++ grammar
  - Regenerate when the header changes
  - Serve the same operations to AI agents over MCP

Examples:
  bridgegen parse math.hpp                     # Show the extracted declaration
  bridgegen generate math.hpp --out generated  # Generate every platform
  bridgegen generate math.hpp --platforms ios,harmony --dry-run
  echo 'int add(int a, int b);' | bridgegen parse -
  bridgegen serve --mcp                        # Start the MCP server

See 'bridgegen <command> --help' for command-specific options.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: .bridgegen/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "", "Output format (yaml|json, default from config)")
	rootCmd.Flags().BoolVar(&forAgents, "for-agents", false, "Output machine-readable capability discovery JSON")

	// Set custom help function to intercept --for-agents flag
	originalHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if forAgents {
			outputAgentHelp(cmd)
			return
		}
		originalHelp(cmd, args)
	})
}

// setup builds the logger and loads configuration before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	l, err := logging.New(verbose)
	if err != nil {
		return err
	}
	logger = l

	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		var cwd string
		if cwd, err = os.Getwd(); err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		cfg, err = config.Load(cwd)
	}
	if err != nil {
		return err
	}

	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	logger.Debug("configuration loaded",
		zap.String("format", cfg.Output.Format),
		zap.Strings("platforms", cfg.Platforms),
	)
	return nil
}

// CommandInfo represents a command for agent discovery
type CommandInfo struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Usage       string        `json:"usage"`
	Flags       []FlagInfo    `json:"flags,omitempty"`
	Subcommands []CommandInfo `json:"subcommands,omitempty"`
	Examples    []string      `json:"examples,omitempty"`
}

// FlagInfo represents a command flag for agent discovery
type FlagInfo struct {
	Name        string `json:"name"`
	Shorthand   string `json:"shorthand,omitempty"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Default     string `json:"default,omitempty"`
}

// outputAgentHelp outputs machine-readable JSON describing all commands
func outputAgentHelp(cmd *cobra.Command) {
	root := buildCommandInfo(cmd.Root())

	out := map[string]interface{}{
		"version":      Version,
		"commands":     root.Subcommands,
		"global_flags": root.Flags,
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

// buildCommandInfo recursively builds command information for agent discovery
func buildCommandInfo(cmd *cobra.Command) CommandInfo {
	info := CommandInfo{
		Name:        cmd.Name(),
		Description: cmd.Short,
		Usage:       cmd.UseLine(),
	}

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		info.Flags = append(info.Flags, FlagInfo{
			Name:        f.Name,
			Shorthand:   f.Shorthand,
			Description: f.Usage,
			Type:        f.Value.Type(),
			Default:     f.DefValue,
		})
	})

	for _, sub := range cmd.Commands() {
		if !sub.Hidden {
			info.Subcommands = append(info.Subcommands, buildCommandInfo(sub))
		}
	}

	if cmd.Example != "" {
		for _, line := range strings.Split(cmd.Example, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				info.Examples = append(info.Examples, trimmed)
			}
		}
	}

	return info
}
