// Package generate turns one C++ declaration into bindings for every
// requested platform.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hargabyte/bridgegen/internal/cppiface"
	"github.com/hargabyte/bridgegen/internal/emit"
	"github.com/hargabyte/bridgegen/internal/files"
	"github.com/hargabyte/bridgegen/internal/history"
	"github.com/hargabyte/bridgegen/internal/logging"
	"github.com/hargabyte/bridgegen/internal/output"
)

// Supported platform identifiers, in report order.
const (
	Android = "android"
	IOS     = "ios"
	Harmony = "harmony"
)

var platforms = []output.PlatformInfo{
	{Name: Android, Description: "Android JNI bindings (Java/Kotlin)"},
	{Name: IOS, Description: "iOS Objective-C bindings"},
	{Name: Harmony, Description: "HarmonyOS NAPI bindings"},
}

// Platforms lists the supported target platforms.
func Platforms() []output.PlatformInfo {
	return append([]output.PlatformInfo(nil), platforms...)
}

// PlatformNames returns the supported platform identifiers.
func PlatformNames() []string {
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = p.Name
	}
	return names
}

// UnsupportedPlatformError is returned for a platform name outside
// PlatformNames.
type UnsupportedPlatformError struct {
	Platform string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform: %s", e.Platform)
}

// ConfigError reports a missing or malformed platform setting.
type ConfigError = emit.ConfigError

// Recorder stores finished runs.
type Recorder interface {
	Record(ctx context.Context, run history.Run) (string, error)
}

// Request describes one generation.
type Request struct {
	// Source is the C++ declaration text.
	Source string

	// Platforms to generate, in report order. Empty means all.
	Platforms []string

	Android emit.AndroidConfig
	IOS     emit.IOSConfig
	Harmony emit.HarmonyConfig

	// Writer receives the generated files. Required.
	Writer files.Writer

	// OutputDir is recorded in history and reports only.
	OutputDir string
}

// PlatformResult lists the files written for one platform.
type PlatformResult struct {
	Platform string
	Files    []string
}

// Result is a finished generation.
type Result struct {
	// RunID is set when the run was recorded in history.
	RunID     string
	Interface *cppiface.ParsedInterface
	Platforms []PlatformResult
}

// Report converts r for output.
func (r *Result) Report(outputDir string, dryRun bool) *output.GenerationOutput {
	out := &output.GenerationOutput{
		RunID:     r.RunID,
		Function:  r.Interface.FunctionName,
		OutputDir: outputDir,
		DryRun:    dryRun,
		Platforms: make([]output.PlatformOutput, 0, len(r.Platforms)),
	}
	for _, p := range r.Platforms {
		out.Platforms = append(out.Platforms, output.PlatformOutput{Platform: p.Platform, Files: p.Files})
	}
	return out
}

// Options configures a Generator.
type Options struct {
	// Parser defaults to a parser with default limits.
	Parser *cppiface.Parser
	// History is optional; runs are not recorded when nil.
	History Recorder
	Logger  *zap.Logger
}

// Generator runs the emitters for parsed declarations.
type Generator struct {
	parser  *cppiface.Parser
	history Recorder
	log     *zap.Logger
}

// New creates a Generator.
func New(opts Options) *Generator {
	p := opts.Parser
	if p == nil {
		p = cppiface.New(cppiface.Options{Logger: opts.Logger})
	}
	return &Generator{
		parser:  p,
		history: opts.History,
		log:     logging.OrNop(opts.Logger),
	}
}

// Generate parses req.Source and writes bindings with a default Generator.
func Generate(ctx context.Context, req Request) (*Result, error) {
	return New(Options{}).Generate(ctx, req)
}

// Generate parses req.Source and emits bindings for it. Nothing is
// written if parsing fails.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	pi, err := g.parser.Parse(req.Source)
	if err != nil {
		return nil, err
	}
	return g.Emit(ctx, pi, req)
}

// Emit validates every requested platform and then runs the emitters
// concurrently. req.Source is ignored. Nothing is written if validation
// fails. Results keep the request's platform order.
func (g *Generator) Emit(ctx context.Context, pi *cppiface.ParsedInterface, req Request) (*Result, error) {
	if req.Writer == nil {
		return nil, errors.New("generate: no writer")
	}

	names, err := NormalizePlatforms(req.Platforms)
	if err != nil {
		return nil, err
	}

	emitters := make([]emit.Emitter, len(names))
	for i, name := range names {
		if emitters[i], err = newEmitter(name, req); err != nil {
			return nil, err
		}
	}

	results := make([]PlatformResult, len(emitters))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, e := range emitters {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			start := time.Now()
			written, err := e.Emit(pi, req.Writer)
			if err != nil {
				return fmt.Errorf("%s: %w", e.Platform(), err)
			}
			g.log.Info("generated bindings",
				zap.String("platform", e.Platform()),
				zap.String("function", pi.FunctionName),
				zap.Int("files", len(written)),
				zap.Duration("elapsed", time.Since(start)),
			)
			results[i] = PlatformResult{Platform: e.Platform(), Files: written}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Interface: pi, Platforms: results}
	if g.history != nil {
		// A failed history write does not undo the files already written.
		id, err := g.history.Record(ctx, toRun(res, req.OutputDir))
		if err != nil {
			g.log.Warn("failed to record run", zap.Error(err))
		} else {
			res.RunID = id
		}
	}
	return res, nil
}

// NormalizePlatforms lower-cases and de-duplicates names, keeping the
// first occurrence. An empty list selects every platform.
func NormalizePlatforms(names []string) ([]string, error) {
	if len(names) == 0 {
		return PlatformNames(), nil
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if !isSupported(name) {
			return nil, &UnsupportedPlatformError{Platform: raw}
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}

func isSupported(name string) bool {
	for _, p := range platforms {
		if p.Name == name {
			return true
		}
	}
	return false
}

func newEmitter(name string, req Request) (emit.Emitter, error) {
	switch name {
	case Android:
		a, err := emit.NewAndroid(req.Android)
		if err != nil {
			return nil, err
		}
		return a, nil
	case IOS:
		return emit.NewIOS(req.IOS), nil
	case Harmony:
		return emit.NewHarmony(req.Harmony), nil
	}
	return nil, &UnsupportedPlatformError{Platform: name}
}

func toRun(res *Result, outputDir string) history.Run {
	run := history.Run{
		Function:  res.Interface.FunctionName,
		Namespace: res.Interface.Namespace,
		OutputDir: outputDir,
	}
	for _, p := range res.Platforms {
		run.Platforms = append(run.Platforms, p.Platform)
		for _, f := range p.Files {
			run.Files = append(run.Files, history.File{Platform: p.Platform, Path: f})
		}
	}
	return run
}
