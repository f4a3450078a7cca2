package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvOutputDir, EnvFormat, EnvPlatforms, EnvAndroidPackage, EnvAndroidClass} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Parser.MaxInputBytes != 65536 {
		t.Errorf("expected max_input_bytes 65536, got %d", cfg.Parser.MaxInputBytes)
	}

	if cfg.Output.Format != "yaml" {
		t.Errorf("expected format yaml, got %s", cfg.Output.Format)
	}

	if cfg.Android.Language != "java" {
		t.Errorf("expected android language java, got %s", cfg.Android.Language)
	}

	if cfg.IOS.ClassPrefix != "CPP" || cfg.IOS.FrameworkName != "CppBridge" {
		t.Errorf("unexpected ios defaults: %+v", cfg.IOS)
	}

	if cfg.Harmony.ModuleName != "CppBridge" || cfg.Harmony.Namespace != "cppbridge" {
		t.Errorf("unexpected harmony defaults: %+v", cfg.Harmony)
	}

	if len(cfg.Platforms) != 3 {
		t.Errorf("expected 3 default platforms, got %v", cfg.Platforms)
	}

	if !cfg.History.IsEnabled() {
		t.Error("expected history enabled by default")
	}

	if cfg.Serve.CacheSize != 128 {
		t.Errorf("expected cache_size 128, got %d", cfg.Serve.CacheSize)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestIsValidFormat(t *testing.T) {
	tests := []struct {
		format string
		valid  bool
	}{
		{"yaml", true},
		{"json", true},
		{"xml", false},
		{"", false},
		{"YAML", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := IsValidFormat(tt.format); got != tt.valid {
				t.Errorf("IsValidFormat(%q) = %v, want %v", tt.format, got, tt.valid)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "valid android settings",
			modify: func(c *Config) {
				c.Android.PackageName = "com.example.math"
				c.Android.ClassName = "MathUtils"
				c.Android.Language = "kotlin"
			},
			wantErr: false,
		},
		{
			name: "invalid format",
			modify: func(c *Config) {
				c.Output.Format = "xml"
			},
			wantErr: true,
		},
		{
			name: "empty output directory",
			modify: func(c *Config) {
				c.Output.Directory = ""
			},
			wantErr: true,
		},
		{
			name: "invalid language",
			modify: func(c *Config) {
				c.Android.Language = "scala"
			},
			wantErr: true,
		},
		{
			name: "malformed package",
			modify: func(c *Config) {
				c.Android.PackageName = "com..example"
			},
			wantErr: true,
		},
		{
			name: "malformed class",
			modify: func(c *Config) {
				c.Android.ClassName = "Math Utils"
			},
			wantErr: true,
		},
		{
			name: "empty class prefix",
			modify: func(c *Config) {
				c.IOS.ClassPrefix = ""
			},
			wantErr: true,
		},
		{
			name: "unknown platform",
			modify: func(c *Config) {
				c.Platforms = []string{"android", "windows"}
			},
			wantErr: true,
		},
		{
			name: "negative timeout",
			modify: func(c *Config) {
				c.Serve.Timeout = -time.Second
			},
			wantErr: true,
		},
		{
			name: "zero cache size",
			modify: func(c *Config) {
				c.Serve.CacheSize = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	defaults := DefaultConfig()

	t.Run("empty loaded uses all defaults", func(t *testing.T) {
		merged := Merge(&Config{}, defaults)

		if merged.Output.Format != defaults.Output.Format {
			t.Errorf("expected format %s, got %s", defaults.Output.Format, merged.Output.Format)
		}
		if merged.IOS.FrameworkName != defaults.IOS.FrameworkName {
			t.Errorf("expected framework %s, got %s", defaults.IOS.FrameworkName, merged.IOS.FrameworkName)
		}
		if !merged.History.IsEnabled() {
			t.Error("expected history enabled")
		}
	})

	t.Run("loaded values take precedence", func(t *testing.T) {
		disabled := false
		loaded := &Config{
			Output:    OutputConfig{Format: "json"},
			Android:   AndroidConfig{PackageName: "com.example", ClassName: "Native"},
			Platforms: []string{"ios"},
			History:   HistoryConfig{Enabled: &disabled},
			Serve:     ServeConfig{Timeout: 5 * time.Minute},
		}
		merged := Merge(loaded, defaults)

		if merged.Output.Format != "json" {
			t.Errorf("expected format json, got %s", merged.Output.Format)
		}
		if merged.Android.PackageName != "com.example" {
			t.Errorf("expected package com.example, got %s", merged.Android.PackageName)
		}
		if len(merged.Platforms) != 1 || merged.Platforms[0] != "ios" {
			t.Errorf("expected platforms [ios], got %v", merged.Platforms)
		}
		if merged.History.IsEnabled() {
			t.Error("explicit false should survive the merge")
		}
		if merged.Serve.Timeout != 5*time.Minute {
			t.Errorf("expected timeout 5m, got %s", merged.Serve.Timeout)
		}

		// Unset values should use defaults
		if merged.Output.Directory != defaults.Output.Directory {
			t.Errorf("expected directory %s, got %s", defaults.Output.Directory, merged.Output.Directory)
		}
		if merged.Android.Language != "java" {
			t.Errorf("expected language java, got %s", merged.Android.Language)
		}
	})
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvOutputDir, "out/native")
	t.Setenv(EnvFormat, "json")
	t.Setenv(EnvPlatforms, "ios, harmony,")
	t.Setenv(EnvAndroidPackage, "com.example.env")
	t.Setenv(EnvAndroidClass, "EnvBridge")

	cfg := DefaultConfig()
	ApplyEnv(cfg)

	if cfg.Output.Directory != "out/native" {
		t.Errorf("expected directory out/native, got %s", cfg.Output.Directory)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected format json, got %s", cfg.Output.Format)
	}
	if len(cfg.Platforms) != 2 || cfg.Platforms[0] != "ios" || cfg.Platforms[1] != "harmony" {
		t.Errorf("expected platforms [ios harmony], got %v", cfg.Platforms)
	}
	if cfg.Android.PackageName != "com.example.env" || cfg.Android.ClassName != "EnvBridge" {
		t.Errorf("unexpected android config: %+v", cfg.Android)
	}
}

func TestFindConfigDir(t *testing.T) {
	tmpDir := t.TempDir()

	// Create nested directories: tmpDir/project/subdir
	projectDir := filepath.Join(tmpDir, "project")
	subDir := filepath.Join(projectDir, "subdir")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("no config dir returns error", func(t *testing.T) {
		_, err := FindConfigDir(subDir)
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	configDir := filepath.Join(projectDir, ConfigDirName)
	if err := os.Mkdir(configDir, 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("finds config dir in current directory", func(t *testing.T) {
		found, err := FindConfigDir(projectDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if found != configDir {
			t.Errorf("expected %s, got %s", configDir, found)
		}
	})

	t.Run("finds config dir in parent directory", func(t *testing.T) {
		found, err := FindConfigDir(subDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if found != configDir {
			t.Errorf("expected %s, got %s", configDir, found)
		}
	})
}

func TestEnsureConfigDir(t *testing.T) {
	tmpDir := t.TempDir()

	dir, err := EnsureConfigDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedDir := filepath.Join(tmpDir, ConfigDirName)
	if dir != expectedDir {
		t.Errorf("expected %s, got %s", expectedDir, dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("config directory not created: %v", err)
	}

	// Second call returns the same directory
	again, err := EnsureConfigDir(tmpDir)
	if err != nil || again != expectedDir {
		t.Errorf("EnsureConfigDir again = %s, %v", again, err)
	}
}

func TestLoadFromPath(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()

	t.Run("loads valid config file", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		content := `
output:
  format: json
android:
  package_name: com.example.math
  class_name: MathUtils
platforms: [android, harmony]
serve:
  timeout: 90s
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadFromPath(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Output.Format != "json" {
			t.Errorf("expected format json, got %s", cfg.Output.Format)
		}
		if cfg.Android.ClassName != "MathUtils" {
			t.Errorf("expected class MathUtils, got %s", cfg.Android.ClassName)
		}
		if len(cfg.Platforms) != 2 {
			t.Errorf("expected 2 platforms, got %v", cfg.Platforms)
		}
		if cfg.Serve.Timeout != 90*time.Second {
			t.Errorf("expected timeout 90s, got %s", cfg.Serve.Timeout)
		}

		// Check defaults were applied for missing values
		if cfg.Output.Directory != "generated" {
			t.Errorf("expected default directory, got %s", cfg.Output.Directory)
		}
		if cfg.IOS.ClassPrefix != "CPP" {
			t.Errorf("expected default class prefix, got %s", cfg.IOS.ClassPrefix)
		}
	})

	t.Run("returns defaults for non-existent file", func(t *testing.T) {
		cfg, err := LoadFromPath(filepath.Join(tmpDir, "nonexistent.yaml"))
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if cfg.Output.Format != DefaultConfig().Output.Format {
			t.Errorf("expected default format, got %s", cfg.Output.Format)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "invalid.yaml")
		if err := os.WriteFile(configPath, []byte("invalid: yaml: content"), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadFromPath(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("returns error for invalid config values", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "bad-values.yaml")
		content := `
android:
  language: cobol
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := LoadFromPath(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "env.yaml")
		if err := os.WriteFile(configPath, []byte("output:\n  directory: from-file\n"), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv(EnvOutputDir, "from-env")

		cfg, err := LoadFromPath(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Output.Directory != "from-env" {
			t.Errorf("expected from-env, got %s", cfg.Output.Directory)
		}
	})
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()

	t.Run("returns defaults when no config dir exists", func(t *testing.T) {
		cfg, err := Load(tmpDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if cfg.Output.Format != DefaultConfig().Output.Format {
			t.Errorf("expected default config")
		}
	})

	t.Run("loads config from .bridgegen directory", func(t *testing.T) {
		configDir := filepath.Join(tmpDir, ConfigDirName)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			t.Fatal(err)
		}

		content := `
ios:
  class_prefix: MU
`
		configPath := filepath.Join(configDir, ConfigFileName)
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.IOS.ClassPrefix != "MU" {
			t.Errorf("expected class prefix MU, got %s", cfg.IOS.ClassPrefix)
		}
	})

	t.Run("loads .env file", func(t *testing.T) {
		envDir := t.TempDir()
		if err := os.WriteFile(filepath.Join(envDir, ".env"), []byte(EnvAndroidClass+"=DotEnvBridge\n"), 0644); err != nil {
			t.Fatal(err)
		}
		// godotenv never overrides variables that are already set.
		if err := os.Unsetenv(EnvAndroidClass); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { os.Unsetenv(EnvAndroidClass) })

		cfg, err := Load(envDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Android.ClassName != "DotEnvBridge" {
			t.Errorf("expected class from .env, got %q", cfg.Android.ClassName)
		}
	})
}

func TestSaveDefault(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()

	t.Run("creates default config file", func(t *testing.T) {
		configPath, err := SaveDefault(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expectedPath := filepath.Join(tmpDir, ConfigDirName, ConfigFileName)
		if configPath != expectedPath {
			t.Errorf("expected path %s, got %s", expectedPath, configPath)
		}

		cfg, err := LoadFromPath(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if cfg.Harmony.Namespace != DefaultConfig().Harmony.Namespace {
			t.Errorf("saved config doesn't match defaults")
		}
	})

	t.Run("fails if config already exists", func(t *testing.T) {
		if _, err := SaveDefault(tmpDir); err == nil {
			t.Error("expected error when config already exists")
		}
	})
}
