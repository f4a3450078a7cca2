package config

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	enabled := true
	return &Config{
		Parser: ParserConfig{
			MaxInputBytes: 64 << 10,
		},
		Output: OutputConfig{
			Format:    "yaml",
			Directory: "generated",
		},
		Android: AndroidConfig{
			Language: "java",
		},
		IOS: IOSConfig{
			ClassPrefix:   "CPP",
			FrameworkName: "CppBridge",
		},
		Harmony: HarmonyConfig{
			ModuleName: "CppBridge",
			Namespace:  "cppbridge",
		},
		Platforms: []string{"android", "ios", "harmony"},
		History: HistoryConfig{
			Enabled: &enabled,
		},
		Serve: ServeConfig{
			CacheSize: 128,
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	result.Parser.MaxInputBytes = pickInt(loaded.Parser.MaxInputBytes, defaults.Parser.MaxInputBytes)

	result.Output = OutputConfig{
		Format:    pick(loaded.Output.Format, defaults.Output.Format),
		Directory: pick(loaded.Output.Directory, defaults.Output.Directory),
	}

	result.Android = AndroidConfig{
		PackageName: pick(loaded.Android.PackageName, defaults.Android.PackageName),
		ClassName:   pick(loaded.Android.ClassName, defaults.Android.ClassName),
		Language:    pick(loaded.Android.Language, defaults.Android.Language),
	}

	result.IOS = IOSConfig{
		ClassPrefix:   pick(loaded.IOS.ClassPrefix, defaults.IOS.ClassPrefix),
		FrameworkName: pick(loaded.IOS.FrameworkName, defaults.IOS.FrameworkName),
	}

	result.Harmony = HarmonyConfig{
		ModuleName: pick(loaded.Harmony.ModuleName, defaults.Harmony.ModuleName),
		Namespace:  pick(loaded.Harmony.Namespace, defaults.Harmony.Namespace),
	}

	// Use loaded platforms if provided, otherwise defaults
	if len(loaded.Platforms) > 0 {
		result.Platforms = loaded.Platforms
	} else {
		result.Platforms = defaults.Platforms
	}

	// Enabled: nil means unset, so an explicit false wins over the default
	if loaded.History.Enabled != nil {
		result.History.Enabled = loaded.History.Enabled
	} else {
		result.History.Enabled = defaults.History.Enabled
	}

	// Timeout: zero is both the default and "disabled"
	result.Serve.Timeout = loaded.Serve.Timeout
	if result.Serve.Timeout == 0 {
		result.Serve.Timeout = defaults.Serve.Timeout
	}
	result.Serve.CacheSize = pickInt(loaded.Serve.CacheSize, defaults.Serve.CacheSize)

	return result
}

// pick returns loaded if non-empty, otherwise def.
func pick(loaded, def string) string {
	if loaded != "" {
		return loaded
	}
	return def
}

// pickInt returns loaded if non-zero, otherwise def.
func pickInt(loaded, def int) int {
	if loaded != 0 {
		return loaded
	}
	return def
}

// ValidFormats lists the valid values for output format
var ValidFormats = []string{"yaml", "json"}

// ValidLanguages lists the Android wrapper languages
var ValidLanguages = []string{"java", "kotlin"}

// ValidPlatforms lists the supported target platforms
var ValidPlatforms = []string{"android", "ios", "harmony"}

// IsValidFormat checks if the given output format is valid
func IsValidFormat(format string) bool {
	return contains(ValidFormats, format)
}

// IsValidLanguage checks if the given Android language is valid
func IsValidLanguage(lang string) bool {
	return contains(ValidLanguages, lang)
}

// IsValidPlatform checks if the given platform is supported
func IsValidPlatform(platform string) bool {
	return contains(ValidPlatforms, platform)
}

func contains(list []string, s string) bool {
	for _, valid := range list {
		if s == valid {
			return true
		}
	}
	return false
}
