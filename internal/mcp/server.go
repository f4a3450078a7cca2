// Package mcp provides an MCP (Model Context Protocol) server for bridgegen.
// This lets AI agents parse C++ declarations and generate platform bindings
// through MCP tools instead of CLI commands.
package mcp

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/hargabyte/bridgegen/internal/config"
	"github.com/hargabyte/bridgegen/internal/cppiface"
	"github.com/hargabyte/bridgegen/internal/emit"
	"github.com/hargabyte/bridgegen/internal/files"
	"github.com/hargabyte/bridgegen/internal/generate"
	"github.com/hargabyte/bridgegen/internal/logging"
	"github.com/hargabyte/bridgegen/internal/output"
)

// Server identity reported to MCP clients.
const (
	ServerName    = "multiplatform-code-generator"
	ServerVersion = "1.0.0"
)

// Tool names.
const (
	ToolGenerate  = "generate_multiplatform_code"
	ToolParse     = "parse_cpp_interface"
	ToolPlatforms = "list_supported_platforms"
)

// AllTools lists all available tools
var AllTools = []string{ToolGenerate, ToolParse, ToolPlatforms}

// DefaultCacheSize bounds the parse cache when Config.CacheSize is unset.
const DefaultCacheSize = 128

// Server wraps the MCP server with bridgegen-specific functionality
type Server struct {
	mcpServer *server.MCPServer
	parser    *cppiface.Parser
	gen       *generate.Generator
	cache     *lru.Cache[string, *cppiface.ParsedInterface]
	log       *zap.Logger

	lastActivity time.Time
	timeout      time.Duration
	mu           sync.RWMutex
}

// Config holds server configuration
type Config struct {
	Timeout   time.Duration // Inactivity timeout (0 = no timeout)
	CacheSize int           // Parse cache entries (0 = DefaultCacheSize)

	// Parser and History are shared with the CLI; both are optional.
	Parser  *cppiface.Parser
	History generate.Recorder
	Logger  *zap.Logger
}

// New creates a new MCP server
func New(cfg Config) (*Server, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *cppiface.ParsedInterface](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create parse cache: %w", err)
	}

	log := logging.OrNop(cfg.Logger)
	parser := cfg.Parser
	if parser == nil {
		parser = cppiface.New(cppiface.Options{Logger: log})
	}

	s := &Server{
		mcpServer: server.NewMCPServer(
			ServerName,
			ServerVersion,
			server.WithToolCapabilities(false),
		),
		parser:       parser,
		gen:          generate.New(generate.Options{Parser: parser, History: cfg.History, Logger: log}),
		cache:        cache,
		log:          log,
		lastActivity: time.Now(),
		timeout:      cfg.Timeout,
	}

	s.registerGenerateTool()
	s.registerParseTool()
	s.registerPlatformsTool()
	return s, nil
}

// Serve runs the stdio transport on in/out until ctx is canceled, the
// client disconnects or the inactivity timeout fires.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.timeout > 0 {
		go s.timeoutChecker(ctx, cancel, tickInterval(s.timeout))
	}

	err := server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func tickInterval(timeout time.Duration) time.Duration {
	return min(30*time.Second, max(timeout/4, 10*time.Millisecond))
}

// timeoutChecker cancels the server context after s.timeout without a
// tool call.
func (s *Server) timeoutChecker(ctx context.Context, cancel context.CancelFunc, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.RLock()
			elapsed := time.Since(s.lastActivity)
			s.mu.RUnlock()

			if elapsed > s.timeout {
				s.log.Info("shutting down after inactivity", zap.Duration("timeout", s.timeout))
				cancel()
				return
			}
		}
	}
}

// updateActivity updates the last activity timestamp
func (s *Server) updateActivity() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// parse returns the cached parse of source, parsing on a miss. Failures are
// not cached.
func (s *Server) parse(source string) (*cppiface.ParsedInterface, error) {
	if pi, ok := s.cache.Get(source); ok {
		return pi, nil
	}
	pi, err := s.parser.Parse(source)
	if err != nil {
		return nil, err
	}
	s.cache.Add(source, pi)
	return pi, nil
}

// ToolSchema describes a tool's name, description, and parameters.
type ToolSchema struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Parameters  []ParameterSchema `json:"parameters" yaml:"parameters"`
}

// ParameterSchema describes a single tool parameter.
type ParameterSchema struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

// toolSchemaRegistry holds the schema definitions for all tools.
// These mirror the mcp.NewTool() definitions in the register*Tool() functions.
var toolSchemaRegistry = map[string]ToolSchema{
	ToolGenerate: {
		Name:        ToolGenerate,
		Description: "Generate cross-platform code from C++ interface",
		Parameters: []ParameterSchema{
			{Name: "cpp_interface", Type: "string", Description: "C++ interface function code", Required: true},
			{Name: "output_directory", Type: "string", Description: "Base output directory for generated files", Required: true},
			{Name: "platforms", Type: "array", Description: "Target platforms to generate code for", Required: true},
			{Name: "android_config", Type: "object", Description: "Android-specific configuration"},
			{Name: "ios_config", Type: "object", Description: "iOS-specific configuration"},
			{Name: "harmony_config", Type: "object", Description: "HarmonyOS-specific configuration"},
		},
	},
	ToolParse: {
		Name:        ToolParse,
		Description: "Parse C++ interface and extract function information",
		Parameters: []ParameterSchema{
			{Name: "cpp_interface", Type: "string", Description: "C++ interface function code to parse", Required: true},
		},
	},
	ToolPlatforms: {
		Name:        ToolPlatforms,
		Description: "List all supported target platforms",
	},
}

// ToolSchemas returns schemas for all tools, sorted by name.
func ToolSchemas() []ToolSchema {
	schemas := make([]ToolSchema, 0, len(toolSchemaRegistry))
	for _, schema := range toolSchemaRegistry {
		schemas = append(schemas, schema)
	}
	sort.Slice(schemas, func(i, j int) bool { return schemas[i].Name < schemas[j].Name })
	return schemas
}

// CallTool dispatches a tool call by name, as the stdio transport would.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	switch name {
	case ToolGenerate:
		return s.handleGenerate(ctx, req)
	case ToolParse:
		return s.handleParse(ctx, req)
	case ToolPlatforms:
		return s.handlePlatforms(ctx, req)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

func (s *Server) registerGenerateTool() {
	tool := mcp.NewTool(ToolGenerate,
		mcp.WithDescription(toolSchemaRegistry[ToolGenerate].Description),
		mcp.WithString("cpp_interface",
			mcp.Required(),
			mcp.Description("C++ interface function code"),
		),
		mcp.WithString("output_directory",
			mcp.Required(),
			mcp.Description("Base output directory for generated files"),
		),
		mcp.WithArray("platforms",
			mcp.Required(),
			mcp.Description("Target platforms to generate code for"),
			mcp.Items(map[string]any{
				"type": "string",
				"enum": generate.PlatformNames(),
			}),
		),
		mcp.WithObject("android_config",
			mcp.Description("Android-specific configuration"),
			mcp.Properties(map[string]any{
				"package_name": map[string]any{"type": "string", "description": "Java/Kotlin package name for Android"},
				"class_name":   map[string]any{"type": "string", "description": "Java/Kotlin class name for Android"},
				"language": map[string]any{
					"type":        "string",
					"enum":        config.ValidLanguages,
					"description": "Programming language for Android wrapper",
				},
			}),
		),
		mcp.WithObject("ios_config",
			mcp.Description("iOS-specific configuration"),
			mcp.Properties(map[string]any{
				"class_prefix":   map[string]any{"type": "string", "description": "Objective-C class prefix"},
				"framework_name": map[string]any{"type": "string", "description": "iOS framework name"},
			}),
		),
		mcp.WithObject("harmony_config",
			mcp.Description("HarmonyOS-specific configuration"),
			mcp.Properties(map[string]any{
				"module_name": map[string]any{"type": "string", "description": "HarmonyOS module name"},
				"namespace":   map[string]any{"type": "string", "description": "NAPI namespace"},
			}),
		),
	)

	s.mcpServer.AddTool(tool, s.handleGenerate)
}

func (s *Server) registerParseTool() {
	tool := mcp.NewTool(ToolParse,
		mcp.WithDescription(toolSchemaRegistry[ToolParse].Description),
		mcp.WithString("cpp_interface",
			mcp.Required(),
			mcp.Description("C++ interface function code to parse"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleParse)
}

func (s *Server) registerPlatformsTool() {
	tool := mcp.NewTool(ToolPlatforms,
		mcp.WithDescription(toolSchemaRegistry[ToolPlatforms].Description),
	)

	s.mcpServer.AddTool(tool, s.handlePlatforms)
}

// toolError renders err the way every tool reports failures.
func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError("Error: " + err.Error())
}

func (s *Server) handleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	source, _ := args["cpp_interface"].(string)
	if source == "" {
		return toolError(fmt.Errorf("cpp_interface parameter is required")), nil
	}
	outDir, _ := args["output_directory"].(string)
	if outDir == "" {
		return toolError(fmt.Errorf("output_directory parameter is required")), nil
	}
	platforms := stringList(args["platforms"])
	if len(platforms) == 0 {
		return toolError(fmt.Errorf("platforms parameter is required")), nil
	}

	pi, err := s.parse(source)
	if err != nil {
		return toolError(err), nil
	}

	w, err := files.NewDirWriter(outDir)
	if err != nil {
		return toolError(err), nil
	}

	android := object(args["android_config"])
	ios := object(args["ios_config"])
	harmony := object(args["harmony_config"])

	res, err := s.gen.Emit(ctx, pi, generate.Request{
		Platforms: platforms,
		Android: emit.AndroidConfig{
			PackageName: str(android, "package_name"),
			ClassName:   str(android, "class_name"),
			Language:    str(android, "language"),
		},
		IOS: emit.IOSConfig{
			ClassPrefix:   str(ios, "class_prefix"),
			FrameworkName: str(ios, "framework_name"),
		},
		Harmony: emit.HarmonyConfig{
			ModuleName: str(harmony, "module_name"),
			Namespace:  str(harmony, "namespace"),
		},
		Writer:    w,
		OutputDir: w.Root(),
	})
	if err != nil {
		return toolError(err), nil
	}

	s.log.Debug("tool call", zap.String("tool", ToolGenerate), zap.String("function", pi.FunctionName))
	return mcp.NewToolResultText(output.GenerationSummary(res.Report(w.Root(), false))), nil
}

func (s *Server) handleParse(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	source, _ := req.GetArguments()["cpp_interface"].(string)
	if source == "" {
		return toolError(fmt.Errorf("cpp_interface parameter is required")), nil
	}

	pi, err := s.parse(source)
	if err != nil {
		return toolError(err), nil
	}

	s.log.Debug("tool call", zap.String("tool", ToolParse), zap.String("function", pi.FunctionName))
	return mcp.NewToolResultText(output.ParseSummary(pi)), nil
}

func (s *Server) handlePlatforms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()
	return mcp.NewToolResultText(output.PlatformsSummary(generate.Platforms())), nil
}

// stringList accepts a JSON array of strings or a comma separated string.
func stringList(v any) []string {
	switch v := v.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	case string:
		return config.SplitList(v)
	}
	return nil
}

func object(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
