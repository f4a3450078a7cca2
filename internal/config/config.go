package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the bridgegen configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the bridgegen configuration directory
const ConfigDirName = ".bridgegen"

// Config holds all bridgegen configuration
type Config struct {
	Parser    ParserConfig  `yaml:"parser"`
	Output    OutputConfig  `yaml:"output"`
	Android   AndroidConfig `yaml:"android"`
	IOS       IOSConfig     `yaml:"ios"`
	Harmony   HarmonyConfig `yaml:"harmony"`
	Platforms []string      `yaml:"platforms"`
	History   HistoryConfig `yaml:"history"`
	Serve     ServeConfig   `yaml:"serve"`
}

// ParserConfig holds configuration for the interface extractor
type ParserConfig struct {
	// MaxInputBytes rejects larger declarations; negative disables the limit.
	MaxInputBytes int `yaml:"max_input_bytes"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	Format    string `yaml:"format"`
	Directory string `yaml:"directory"`
}

// AndroidConfig holds the JNI wrapper settings
type AndroidConfig struct {
	PackageName string `yaml:"package_name"`
	ClassName   string `yaml:"class_name"`
	Language    string `yaml:"language"`
}

// IOSConfig holds the Objective-C/Swift wrapper settings
type IOSConfig struct {
	ClassPrefix   string `yaml:"class_prefix"`
	FrameworkName string `yaml:"framework_name"`
}

// HarmonyConfig holds the NAPI wrapper settings
type HarmonyConfig struct {
	ModuleName string `yaml:"module_name"`
	Namespace  string `yaml:"namespace"`
}

// HistoryConfig controls recording of generation runs
type HistoryConfig struct {
	// Enabled is a pointer so an explicit false survives the merge with defaults.
	Enabled *bool `yaml:"enabled"`
}

// IsEnabled reports whether history recording is on.
func (h HistoryConfig) IsEnabled() bool {
	return h.Enabled != nil && *h.Enabled
}

// ServeConfig holds configuration for the MCP server
type ServeConfig struct {
	// Timeout shuts the server down after this long without a tool call.
	// Zero disables it.
	Timeout   time.Duration `yaml:"timeout"`
	CacheSize int           `yaml:"cache_size"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Environment variables that override file values.
const (
	EnvOutputDir      = "BRIDGEGEN_OUTPUT_DIR"
	EnvFormat         = "BRIDGEGEN_FORMAT"
	EnvPlatforms      = "BRIDGEGEN_PLATFORMS"
	EnvAndroidPackage = "BRIDGEGEN_ANDROID_PACKAGE"
	EnvAndroidClass   = "BRIDGEGEN_ANDROID_CLASS"
)

// Load reads config from .bridgegen/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. A .env file in workDir is loaded first, and BRIDGEGEN_*
// environment variables override file values.
func Load(workDir string) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load(filepath.Join(workDir, ".env"))

	configDir, err := FindConfigDir(workDir)
	if err != nil {
		cfg := DefaultConfig()
		ApplyEnv(cfg)
		if err := Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return LoadFromPath(filepath.Join(configDir, ConfigFileName))
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults, applies environment overrides and
// validates the result.
func LoadFromPath(path string) (*Config, error) {
	loaded := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, loaded); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	merged := Merge(loaded, DefaultConfig())
	ApplyEnv(merged)

	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// ApplyEnv overrides cfg with any BRIDGEGEN_* variables that are set.
func ApplyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvOutputDir)); v != "" {
		cfg.Output.Directory = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFormat)); v != "" {
		cfg.Output.Format = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPlatforms)); v != "" {
		cfg.Platforms = SplitList(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvAndroidPackage)); v != "" {
		cfg.Android.PackageName = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAndroidClass)); v != "" {
		cfg.Android.ClassName = v
	}
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FindConfigDir locates the .bridgegen directory by walking up from startDir.
// Returns the path to the .bridgegen directory if found.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .bridgegen directory if it doesn't exist.
// Returns the path to the .bridgegen directory.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

var (
	javaPackageRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
	identifierRe  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Validate checks that config values are valid.
// Returns an error if validation fails.
func Validate(cfg *Config) error {
	if !IsValidFormat(cfg.Output.Format) {
		return fmt.Errorf("%w: output.format must be one of %v, got %q",
			ErrInvalidConfig, ValidFormats, cfg.Output.Format)
	}

	if cfg.Output.Directory == "" {
		return fmt.Errorf("%w: output.directory must not be empty", ErrInvalidConfig)
	}

	if !IsValidLanguage(cfg.Android.Language) {
		return fmt.Errorf("%w: android.language must be one of %v, got %q",
			ErrInvalidConfig, ValidLanguages, cfg.Android.Language)
	}

	// Package and class are only required once Android is generated, but
	// must be well formed when given.
	if cfg.Android.PackageName != "" && !javaPackageRe.MatchString(cfg.Android.PackageName) {
		return fmt.Errorf("%w: android.package_name %q is not a valid package name",
			ErrInvalidConfig, cfg.Android.PackageName)
	}
	if cfg.Android.ClassName != "" && !identifierRe.MatchString(cfg.Android.ClassName) {
		return fmt.Errorf("%w: android.class_name %q is not a valid identifier",
			ErrInvalidConfig, cfg.Android.ClassName)
	}

	if !identifierRe.MatchString(cfg.IOS.ClassPrefix) {
		return fmt.Errorf("%w: ios.class_prefix %q is not a valid identifier",
			ErrInvalidConfig, cfg.IOS.ClassPrefix)
	}
	if !identifierRe.MatchString(cfg.Harmony.ModuleName) {
		return fmt.Errorf("%w: harmony.module_name %q is not a valid identifier",
			ErrInvalidConfig, cfg.Harmony.ModuleName)
	}

	for _, p := range cfg.Platforms {
		if !IsValidPlatform(p) {
			return fmt.Errorf("%w: platforms must be drawn from %v, got %q",
				ErrInvalidConfig, ValidPlatforms, p)
		}
	}

	if cfg.Serve.Timeout < 0 {
		return fmt.Errorf("%w: serve.timeout must be non-negative, got %s",
			ErrInvalidConfig, cfg.Serve.Timeout)
	}

	if cfg.Serve.CacheSize <= 0 {
		return fmt.Errorf("%w: serve.cache_size must be positive, got %d",
			ErrInvalidConfig, cfg.Serve.CacheSize)
	}

	return nil
}

// SaveDefault writes the default configuration to .bridgegen/config.yaml in
// workDir. Creates the .bridgegen directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# bridgegen configuration\n" +
		"# android.package_name and android.class_name are required to generate Android bindings.\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}
