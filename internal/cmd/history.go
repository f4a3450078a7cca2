package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hargabyte/bridgegen/internal/config"
	"github.com/hargabyte/bridgegen/internal/history"
	"github.com/hargabyte/bridgegen/internal/output"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recorded generation runs",
	Long: `Display the generation runs recorded in .bridgegen/history.db, newest first.

Each entry includes the run ID, time, function, platforms, output directory
and number of files written. Pass a run ID to see the files of one run.

Examples:
  bridgegen history                 # Show the last 10 runs
  bridgegen history --limit 0       # Show every run
  bridgegen history 6f1c...         # Show one run and its files
  bridgegen history --clear         # Forget all runs`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var (
	historyLimit int
	historyClear bool
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of runs to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete all recorded runs")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	configDir, err := config.FindConfigDir(cwd)
	if err != nil {
		return fmt.Errorf("bridgegen not initialized (run 'bridgegen init'): %w", err)
	}

	store, err := history.Open(configDir)
	if err != nil {
		return err
	}
	defer store.Close()

	if historyClear {
		stats, err := store.GetStats()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d runs\n", stats.RunCount)
		return nil
	}

	if len(args) == 1 {
		run, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printOutput(cmd, toRunOutput(*run, true))
	}

	runs, err := store.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	out := &output.HistoryOutput{Runs: make([]output.RunOutput, 0, len(runs))}
	for _, run := range runs {
		out.Runs = append(out.Runs, toRunOutput(run, false))
	}
	out.Count = len(out.Runs)
	return printOutput(cmd, out)
}

func toRunOutput(run history.Run, withFiles bool) output.RunOutput {
	ro := output.RunOutput{
		ID:        run.ID,
		CreatedAt: run.CreatedAt,
		Function:  run.Function,
		Namespace: run.Namespace,
		Platforms: run.Platforms,
		OutputDir: run.OutputDir,
		FileCount: run.FileCount,
	}
	if withFiles {
		for _, f := range run.Files {
			ro.Files = append(ro.Files, f.Path)
		}
	}
	return ro
}
