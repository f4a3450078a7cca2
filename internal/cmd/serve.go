package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hargabyte/bridgegen/internal/config"
	"github.com/hargabyte/bridgegen/internal/mcp"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server for AI agent integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

AI agents can then parse declarations and generate bindings through MCP
tools instead of spawning CLI commands. Parsed declarations are cached, so
repeated calls with the same source skip the extractor.

Available Tools:
  generate_multiplatform_code   Generate cross-platform code from C++ interface
  parse_cpp_interface           Parse C++ interface and extract function information
  list_supported_platforms      List all supported target platforms

Examples:
  bridgegen serve --mcp                   # Start the server
  bridgegen serve --mcp --timeout 30m     # Stop after 30 idle minutes
  bridgegen serve --status                # Check if server is running
  bridgegen serve --stop                  # Stop running server
  bridgegen serve --list-tools            # Show available tools`,
	RunE: runServe,
}

var (
	serveMCP       bool
	serveTimeout   string
	serveStatus    bool
	serveStop      bool
	serveListTools bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "Start MCP server (stdio transport)")
	serveCmd.Flags().StringVar(&serveTimeout, "timeout", "", "Inactivity timeout, 0 for none (default from config)")
	serveCmd.Flags().BoolVar(&serveStatus, "status", false, "Check if server is running")
	serveCmd.Flags().BoolVar(&serveStop, "stop", false, "Stop running server")
	serveCmd.Flags().BoolVar(&serveListTools, "list-tools", false, "List available tools")
}

func runServe(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if serveListTools {
		fmt.Fprintln(out, "Available MCP tools:")
		fmt.Fprintln(out)
		for _, schema := range mcp.ToolSchemas() {
			fmt.Fprintf(out, "  %-29s %s\n", schema.Name, schema.Description)
		}
		return nil
	}

	if serveStatus {
		return checkServerStatus(cmd)
	}

	if serveStop {
		return stopServer(cmd)
	}

	if !serveMCP {
		return fmt.Errorf("use --mcp to start the MCP server, or --help for usage")
	}

	timeout := cfg.Serve.Timeout
	if serveTimeout != "" {
		var err error
		if timeout, err = parseDuration(serveTimeout); err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
	}

	srvCfg := mcp.Config{
		Timeout:   timeout,
		CacheSize: cfg.Serve.CacheSize,
		Parser:    newParser(),
		Logger:    logger,
	}
	store, err := openHistory()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		srvCfg.History = store
	}

	server, err := mcp.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if err := writePIDFile(); err != nil {
		logger.Debug("could not write PID file", zap.Error(err))
	}
	defer removePIDFile()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// stdout carries the protocol; everything else goes to the stderr logger.
	logger.Info("starting MCP server",
		zap.Strings("tools", mcp.AllTools),
		zap.Duration("timeout", timeout),
	)
	return server.Serve(ctx, cmd.InOrStdin(), out)
}

func parseDuration(s string) (time.Duration, error) {
	if s == "0" || s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func getPIDFilePath() (string, error) {
	configDir, err := config.FindConfigDir(".")
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "serve.pid"), nil
}

func writePIDFile() error {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return err
	}
	return os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0644)
}

func removePIDFile() {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return
	}
	os.Remove(pidPath)
}

// readPID returns the recorded server PID.
func readPID() (int, error) {
	pidPath, err := getPIDFilePath()
	if err != nil {
		return 0, err
	}
	data, err := os.ReadFile(pidPath)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		removePIDFile()
		return 0, errors.New("invalid PID file")
	}
	return pid, nil
}

func checkServerStatus(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	pid, err := readPID()
	if errors.Is(err, config.ErrConfigNotFound) {
		fmt.Fprintln(out, "Status: not running (bridgegen not initialized)")
		return nil
	}
	if err != nil {
		fmt.Fprintln(out, "Status: not running")
		return nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		fmt.Fprintln(out, "Status: not running")
		removePIDFile()
		return nil
	}

	// On Unix, FindProcess always succeeds, so we need to send signal 0 to check
	if err := process.Signal(syscall.Signal(0)); err != nil {
		fmt.Fprintln(out, "Status: not running (stale PID file)")
		removePIDFile()
		return nil
	}

	fmt.Fprintf(out, "Status: running (PID %d)\n", pid)
	return nil
}

func stopServer(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	pid, err := readPID()
	if errors.Is(err, config.ErrConfigNotFound) {
		return fmt.Errorf("bridgegen not initialized")
	}
	if err != nil {
		fmt.Fprintln(out, "No server running")
		return nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		removePIDFile()
		fmt.Fprintln(out, "No server running")
		return nil
	}

	// Send SIGTERM for graceful shutdown
	if err := process.Signal(syscall.SIGTERM); err != nil {
		removePIDFile()
		fmt.Fprintln(out, "Server already stopped")
		return nil
	}

	fmt.Fprintf(out, "Stopped server (PID %d)\n", pid)
	return nil
}
