package generate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hargabyte/bridgegen/internal/cppiface"
	"github.com/hargabyte/bridgegen/internal/emit"
	"github.com/hargabyte/bridgegen/internal/files"
	"github.com/hargabyte/bridgegen/internal/history"
)

const addSource = "namespace MathUtils { int add(int a, int b); }"

var androidCfg = emit.AndroidConfig{PackageName: "com.example.math", ClassName: "MathBridge"}

func TestGenerateAllPlatforms(t *testing.T) {
	w := files.NewMemWriter()
	res, err := Generate(context.Background(), Request{
		Source:  addSource,
		Android: androidCfg,
		Writer:  w,
	})
	require.NoError(t, err)

	assert.Equal(t, "add", res.Interface.FunctionName)
	require.Len(t, res.Platforms, 3)
	assert.Equal(t, []string{"android", "ios", "harmony"},
		[]string{res.Platforms[0].Platform, res.Platforms[1].Platform, res.Platforms[2].Platform})
	assert.Len(t, res.Platforms[0].Files, 5)
	assert.Len(t, res.Platforms[1].Files, 7)
	assert.Len(t, res.Platforms[2].Files, 8)
	assert.Len(t, w.Paths(), 20)
	assert.Empty(t, res.RunID)
}

func TestGenerateKeepsRequestOrder(t *testing.T) {
	res, err := Generate(context.Background(), Request{
		Source:    addSource,
		Platforms: []string{"harmony", "IOS", "harmony"},
		Writer:    files.NewMemWriter(),
	})
	require.NoError(t, err)

	require.Len(t, res.Platforms, 2)
	assert.Equal(t, "harmony", res.Platforms[0].Platform)
	assert.Equal(t, "ios", res.Platforms[1].Platform)
}

func TestGenerateUnsupportedPlatform(t *testing.T) {
	w := files.NewMemWriter()
	_, err := Generate(context.Background(), Request{
		Source:    addSource,
		Platforms: []string{"ios", "windows"},
		Writer:    w,
	})

	var upe *UnsupportedPlatformError
	require.True(t, errors.As(err, &upe), "got %v", err)
	assert.Equal(t, "windows", upe.Platform)
	assert.Empty(t, w.Paths(), "nothing is written when validation fails")
}

func TestGenerateAndroidNeedsConfig(t *testing.T) {
	w := files.NewMemWriter()
	_, err := Generate(context.Background(), Request{
		Source:    addSource,
		Platforms: []string{"ios", "android"},
		Writer:    w,
	})

	var ce *ConfigError
	require.True(t, errors.As(err, &ce), "got %v", err)
	assert.Equal(t, "package_name", ce.Field)
	assert.Empty(t, w.Paths())
}

func TestGenerateParseError(t *testing.T) {
	_, err := Generate(context.Background(), Request{Source: "not a declaration", Writer: files.NewMemWriter()})

	var pe *cppiface.ParseError
	require.True(t, errors.As(err, &pe), "got %v", err)
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Generate(ctx, Request{Source: addSource, Platforms: []string{"ios"}, Writer: files.NewMemWriter()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateToDisk(t *testing.T) {
	dir := t.TempDir()
	w, err := files.NewDirWriter(dir)
	require.NoError(t, err)

	_, err = Generate(context.Background(), Request{
		Source:    addSource,
		Platforms: []string{"android"},
		Android:   androidCfg,
		Writer:    w,
		OutputDir: dir,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "android", "jni", "add_jni.cpp"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Java_com_example_math_MathBridge_addNative")
}

type fakeRecorder struct {
	mu   sync.Mutex
	runs []history.Run
	err  error
}

func (f *fakeRecorder) Record(_ context.Context, run history.Run) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.runs = append(f.runs, run)
	return "run-1", nil
}

func TestGenerateRecordsHistory(t *testing.T) {
	rec := &fakeRecorder{}
	g := New(Options{History: rec})

	res, err := g.Generate(context.Background(), Request{
		Source:    addSource,
		Platforms: []string{"ios", "harmony"},
		Writer:    files.NewMemWriter(),
		OutputDir: "out",
	})
	require.NoError(t, err)
	assert.Equal(t, "run-1", res.RunID)

	require.Len(t, rec.runs, 1)
	run := rec.runs[0]
	assert.Equal(t, "add", run.Function)
	assert.Equal(t, "MathUtils", run.Namespace)
	assert.Equal(t, []string{"ios", "harmony"}, run.Platforms)
	assert.Equal(t, "out", run.OutputDir)
	assert.Len(t, run.Files, 15)
	assert.Equal(t, history.File{Platform: "ios", Path: "ios/CPPAdd.h"}, run.Files[0])
}

func TestGenerateHistoryFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	g := New(Options{History: &fakeRecorder{err: errors.New("disk full")}, Logger: zap.New(core)})

	res, err := g.Generate(context.Background(), Request{
		Source:    addSource,
		Platforms: []string{"ios"},
		Writer:    files.NewMemWriter(),
	})
	require.NoError(t, err)
	assert.Empty(t, res.RunID)
	assert.Equal(t, 1, logs.FilterMessage("failed to record run").Len())
}

func TestGenerateWithHistoryStore(t *testing.T) {
	store, err := history.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	g := New(Options{History: store})
	res, err := g.Generate(context.Background(), Request{
		Source:    addSource,
		Platforms: []string{"harmony"},
		Writer:    files.NewMemWriter(),
		OutputDir: "out",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.RunID)

	run, err := store.Get(context.Background(), res.RunID)
	require.NoError(t, err)
	assert.Equal(t, 8, run.FileCount)
	assert.Equal(t, []string{"harmony"}, run.Platforms)
}

func TestReport(t *testing.T) {
	res, err := Generate(context.Background(), Request{
		Source:    addSource,
		Platforms: []string{"ios"},
		Writer:    files.NewMemWriter(),
	})
	require.NoError(t, err)

	out := res.Report("gen", true)
	assert.Equal(t, "add", out.Function)
	assert.Equal(t, "gen", out.OutputDir)
	assert.True(t, out.DryRun)
	assert.Equal(t, []string{"ios"}, out.PlatformNames())
	assert.Equal(t, 7, out.FileCount())
}

func TestPlatforms(t *testing.T) {
	ps := Platforms()
	require.Len(t, ps, 3)
	assert.Equal(t, "Android JNI bindings (Java/Kotlin)", ps[0].Description)

	ps[0].Name = "changed"
	assert.Equal(t, "android", Platforms()[0].Name)
}

func TestNormalizePlatforms(t *testing.T) {
	got, err := NormalizePlatforms(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"android", "ios", "harmony"}, got)

	got, err = NormalizePlatforms([]string{" Android ", "android", "ios"})
	require.NoError(t, err)
	assert.Equal(t, []string{"android", "ios"}, got)
}
