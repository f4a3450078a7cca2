package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hargabyte/bridgegen/internal/emit"
	"github.com/hargabyte/bridgegen/internal/files"
	"github.com/hargabyte/bridgegen/internal/generate"
	"github.com/hargabyte/bridgegen/internal/watch"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [file|-]",
	Short: "Generate platform bindings for a C++ function",
	Long: `Generate binding code for the first function declaration in the input.

Each platform gets its wrapper sources plus build files:
  android   JNI C++ bridge, Java or Kotlin class, CMakeLists.txt, Gradle snippet
  ios       Objective-C++ wrapper, C++ bridge, Swift extension, podspec, xcconfig
  harmony   NAPI module, ArkTS wrapper and typings, CMake and package files

Android needs a package and class name, from the flags below or the android
section of .bridgegen/config.yaml. Every platform is validated before any
file is written.

With --dry-run nothing is written; the report lists the files that would be.
With --watch the file is regenerated whenever it changes, until interrupted.
Runs are recorded in .bridgegen/history.db when the project is initialized.

Examples:
  bridgegen generate math.hpp --out generated
  bridgegen generate math.hpp --platforms ios,harmony --dry-run
  bridgegen generate math.hpp --package com.example.math --class MathBridge --language kotlin
  bridgegen generate math.hpp --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

var (
	genPlatforms []string
	genOut       string
	genDryRun    bool
	genWatch     bool

	genPackage     string
	genClass       string
	genLanguage    string
	genClassPrefix string
	genFramework   string
	genModule      string
	genNamespace   string
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringSliceVar(&genPlatforms, "platforms", nil, "Target platforms (android,ios,harmony; default from config)")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "Output directory (default from config)")
	generateCmd.Flags().BoolVar(&genDryRun, "dry-run", false, "Report the files without writing them")
	generateCmd.Flags().BoolVar(&genWatch, "watch", false, "Regenerate when the input file changes")

	generateCmd.Flags().StringVar(&genPackage, "package", "", "Android package name")
	generateCmd.Flags().StringVar(&genClass, "class", "", "Android class name")
	generateCmd.Flags().StringVar(&genLanguage, "language", "", "Android wrapper language (java|kotlin)")
	generateCmd.Flags().StringVar(&genClassPrefix, "class-prefix", "", "Objective-C class prefix")
	generateCmd.Flags().StringVar(&genFramework, "framework", "", "iOS framework name")
	generateCmd.Flags().StringVar(&genModule, "module", "", "HarmonyOS module name")
	generateCmd.Flags().StringVar(&genNamespace, "namespace", "", "HarmonyOS NAPI namespace")
}

// generateRequest builds a request from config with flag overrides.
func generateRequest(source string, w files.Writer, outDir string) generate.Request {
	platforms := cfg.Platforms
	if len(genPlatforms) > 0 {
		platforms = genPlatforms
	}
	return generate.Request{
		Source:    source,
		Platforms: platforms,
		Android: emit.AndroidConfig{
			PackageName: override(genPackage, cfg.Android.PackageName),
			ClassName:   override(genClass, cfg.Android.ClassName),
			Language:    override(genLanguage, cfg.Android.Language),
		},
		IOS: emit.IOSConfig{
			ClassPrefix:   override(genClassPrefix, cfg.IOS.ClassPrefix),
			FrameworkName: override(genFramework, cfg.IOS.FrameworkName),
		},
		Harmony: emit.HarmonyConfig{
			ModuleName: override(genModule, cfg.Harmony.ModuleName),
			Namespace:  override(genNamespace, cfg.Harmony.Namespace),
		},
		Writer:    w,
		OutputDir: outDir,
	}
}

func override(flag, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}

func runGenerate(cmd *cobra.Command, args []string) error {
	source, path, err := readSource(cmd, args)
	if err != nil {
		return err
	}
	if genWatch && path == "" {
		return errors.New("--watch needs a file argument")
	}

	outDir := override(genOut, cfg.Output.Directory)

	opts := generate.Options{Parser: newParser(), Logger: logger}
	if !genDryRun {
		store, err := openHistory()
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
			opts.History = store
		}
	}
	gen := generate.New(opts)

	run := func(ctx context.Context, source string) error {
		var w files.Writer
		reportDir := outDir
		if genDryRun {
			w = files.NewMemWriter()
		} else {
			dw, err := files.NewDirWriter(outDir)
			if err != nil {
				return err
			}
			w = dw
			reportDir = dw.Root()
		}

		res, err := gen.Generate(ctx, generateRequest(source, w, reportDir))
		if err != nil {
			return err
		}
		return printOutput(cmd, res.Report(reportDir, genDryRun))
	}

	if err := run(cmd.Context(), source); err != nil {
		return err
	}
	if !genWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watch.File(ctx, path, watch.Options{Logger: logger}, func(ctx context.Context) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		logger.Info("regenerating", zap.String("path", path))
		return run(ctx, string(data))
	})
}
