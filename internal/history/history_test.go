package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	if want := filepath.Join(dir, DBFileName); s.Path() != want {
		t.Errorf("path = %q, want %q", s.Path(), want)
	}
	if err := s.Close(); err != nil {
		t.Errorf("close: %v", err)
	}

	// Reopen should keep the schema
	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen history: %v", err)
	}
	defer s2.Close()
}

func TestRecordAndGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.Record(ctx, Run{
		Function:  "add",
		Namespace: "MathUtils",
		Platforms: []string{"android", "ios"},
		OutputDir: "/tmp/out",
		Files: []File{
			{Platform: "android", Path: "android/jni/add_jni.cpp"},
			{Platform: "ios", Path: "ios/CPPAdd.h"},
		},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if id == "" {
		t.Fatal("record returned empty ID")
	}

	run, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if run.Function != "add" || run.Namespace != "MathUtils" || run.OutputDir != "/tmp/out" {
		t.Errorf("run = %+v", run)
	}
	if run.FileCount != 2 {
		t.Errorf("file count = %d, want 2", run.FileCount)
	}
	if len(run.Platforms) != 2 || run.Platforms[0] != "android" || run.Platforms[1] != "ios" {
		t.Errorf("platforms = %v", run.Platforms)
	}
	if len(run.Files) != 2 || run.Files[1].Path != "ios/CPPAdd.h" {
		t.Errorf("files = %v", run.Files)
	}
	if run.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}
}

func TestRecordKeepsGivenID(t *testing.T) {
	s := setupTestStore(t)

	id, err := s.Record(context.Background(), Run{ID: "fixed", Function: "f", Platforms: []string{"harmony"}, OutputDir: "out"})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if id != "fixed" {
		t.Errorf("id = %q, want fixed", id)
	}

	if _, err := s.Record(context.Background(), Run{ID: "fixed", Function: "f", OutputDir: "out"}); err == nil {
		t.Error("duplicate ID should fail")
	}
}

func TestListNewestFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, fn := range []string{"first", "second", "third"} {
		_, err := s.Record(ctx, Run{
			Function:  fn,
			Platforms: []string{"android"},
			OutputDir: "out",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("record %s: %v", fn, err)
		}
	}

	runs, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	if runs[0].Function != "third" || runs[2].Function != "first" {
		t.Errorf("order = %s, %s, %s", runs[0].Function, runs[1].Function, runs[2].Function)
	}
	if !runs[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("created_at = %v", runs[0].CreatedAt)
	}

	limited, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d runs, want 2", len(limited))
	}
}

func TestGetUnknown(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestClear(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Record(ctx, Run{Function: "f", OutputDir: "out", Files: []File{{Platform: "ios", Path: "ios/Config.xcconfig"}}})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	stats, err := s.GetStats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.RunCount != 1 || stats.FileCount != 1 {
		t.Errorf("stats = %+v", stats)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	stats, err = s.GetStats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.RunCount != 0 || stats.FileCount != 0 {
		t.Errorf("stats after clear = %+v", stats)
	}
}
