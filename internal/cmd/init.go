package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hargabyte/bridgegen/internal/config"
	"github.com/hargabyte/bridgegen/internal/history"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize .bridgegen directory, config and history",
	Long: `Initialize the .bridgegen directory in the current directory.

This writes .bridgegen/config.yaml with the default settings and creates
history.db, where generation runs are recorded. Edit the config to set the
Android package and class names and the default platforms.

Examples:
  bridgegen init          # Initialize in current directory
  bridgegen init --force  # Rewrite the config and clear history`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Reinitialize even if .bridgegen already exists")
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	configDir := filepath.Join(cwd, config.ConfigDirName)
	configFile := filepath.Join(configDir, config.ConfigFileName)

	_, err = os.Stat(configFile)
	switch {
	case err == nil && !initForce:
		relPath, _ := filepath.Rel(cwd, configDir)
		fmt.Fprintf(out, "Already initialized at %s\n", relPath)
		return nil
	case err == nil:
		if err := os.Remove(configFile); err != nil {
			return fmt.Errorf("removing existing config: %w", err)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("checking config path: %w", err)
	}

	if _, err := config.SaveDefault(cwd); err != nil {
		return err
	}

	store, err := history.Open(configDir)
	if err != nil {
		return fmt.Errorf("initializing history: %w", err)
	}
	defer store.Close()
	if initForce {
		if err := store.Clear(); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
	}

	relPath, _ := filepath.Rel(cwd, configDir)
	fmt.Fprintf(out, "Initialized bridgegen at %s\n", relPath)
	return nil
}
