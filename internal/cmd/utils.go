package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hargabyte/bridgegen/internal/config"
	"github.com/hargabyte/bridgegen/internal/cppiface"
	"github.com/hargabyte/bridgegen/internal/history"
	"github.com/hargabyte/bridgegen/internal/output"
)

// Shared utility functions for command implementations

// readSource returns the declaration text from the file named by args[0],
// or from stdin when there is no argument or it is "-". path is empty for
// stdin.
func readSource(cmd *cobra.Command, args []string) (source, path string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "", nil
	}

	path = args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), path, nil
}

// newParser builds the extractor with the configured input limit.
func newParser() *cppiface.Parser {
	return cppiface.New(cppiface.Options{
		MaxInputBytes: cfg.Parser.MaxInputBytes,
		Logger:        logger,
	})
}

// printOutput renders v in the configured format to the command's stdout.
func printOutput(cmd *cobra.Command, v interface{}) error {
	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return err
	}
	return formatter.FormatToWriter(cmd.OutOrStdout(), v)
}

// openHistory opens the run history in the nearest .bridgegen directory.
// It returns nil without error when history is disabled or the project has
// not been initialized.
func openHistory() (*history.Store, error) {
	if !cfg.History.IsEnabled() {
		return nil, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	configDir, err := config.FindConfigDir(cwd)
	if errors.Is(err, config.ErrConfigNotFound) {
		logger.Debug("history not recorded: no .bridgegen directory")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	store, err := history.Open(configDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("history opened", zap.String("path", store.Path()))
	return store, nil
}
