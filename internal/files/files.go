// Package files persists generated sources. Emitters write through the
// Writer interface with paths relative to an output root.
package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
)

// Writer persists one generated file. relPath uses "/" separators and is
// relative to the writer's root. Missing parent directories are created and
// existing files are overwritten.
type Writer interface {
	WriteFile(relPath, content string) error
}

// WriteError is returned when a file cannot be persisted.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ErrUnsafePath is returned for absolute paths and paths escaping the root.
var ErrUnsafePath = errors.New("path escapes output root")

// DirWriter writes files below a base directory on disk.
type DirWriter struct {
	root string
}

// NewDirWriter creates a writer rooted at dir. The directory itself is
// created on first write.
func NewDirWriter(dir string) (*DirWriter, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("files: empty output directory")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving output directory: %w", err)
	}
	return &DirWriter{root: abs}, nil
}

// Root returns the absolute output directory.
func (w *DirWriter) Root() string {
	return w.root
}

// WriteFile writes content as UTF-8 text to relPath below the root.
func (w *DirWriter) WriteFile(relPath, content string) error {
	full, err := w.resolve(relPath)
	if err != nil {
		return &WriteError{Path: relPath, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return &WriteError{Path: relPath, Err: err}
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		return &WriteError{Path: relPath, Err: err}
	}
	return nil
}

func (w *DirWriter) resolve(relPath string) (string, error) {
	clean, err := CleanPath(relPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(w.root, filepath.FromSlash(clean)), nil
}

// CleanPath validates a relative output path and returns it cleaned, with
// "/" separators.
func CleanPath(relPath string) (string, error) {
	if strings.TrimSpace(relPath) == "" {
		return "", errors.New("empty path")
	}
	native := filepath.FromSlash(relPath)
	if filepath.IsAbs(native) || strings.HasPrefix(relPath, "/") ||
		(runtime.GOOS == "windows" && filepath.VolumeName(native) != "") {
		return "", ErrUnsafePath
	}
	clean := filepath.Clean(native)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", ErrUnsafePath
	}
	return filepath.ToSlash(clean), nil
}

// MemWriter keeps files in memory. It backs dry runs and tests and is safe
// for concurrent use.
type MemWriter struct {
	mu    sync.Mutex
	files map[string]string
}

// NewMemWriter creates an empty in-memory writer.
func NewMemWriter() *MemWriter {
	return &MemWriter{files: make(map[string]string)}
}

// WriteFile records content under relPath, replacing earlier content.
func (m *MemWriter) WriteFile(relPath, content string) error {
	clean, err := CleanPath(relPath)
	if err != nil {
		return &WriteError{Path: relPath, Err: err}
	}
	m.mu.Lock()
	m.files[clean] = content
	m.mu.Unlock()
	return nil
}

// Get returns the content written to relPath.
func (m *MemWriter) Get(relPath string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.files[relPath]
	return content, ok
}

// Paths returns every written path in sorted order.
func (m *MemWriter) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
