package output

import (
	"strings"
	"testing"
)

// TestGetFormatterYAML tests that GetFormatter returns a YAML formatter
func TestGetFormatterYAML(t *testing.T) {
	formatter, err := GetFormatter(FormatYAML)
	if err != nil {
		t.Fatalf("GetFormatter(FormatYAML) failed: %v", err)
	}

	if _, ok := formatter.(*YAMLFormatter); !ok {
		t.Errorf("expected *YAMLFormatter, got %T", formatter)
	}
}

// TestGetFormatterJSON tests that GetFormatter returns a JSON formatter
func TestGetFormatterJSON(t *testing.T) {
	formatter, err := GetFormatter(FormatJSON)
	if err != nil {
		t.Fatalf("GetFormatter(FormatJSON) failed: %v", err)
	}

	if _, ok := formatter.(*JSONFormatter); !ok {
		t.Errorf("expected *JSONFormatter, got %T", formatter)
	}
}

// TestGetFormatterInvalid tests that GetFormatter returns error for invalid format
func TestGetFormatterInvalid(t *testing.T) {
	if _, err := GetFormatter(Format("cgf")); err == nil {
		t.Error("GetFormatter should return error for invalid format")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"yaml", FormatYAML, false},
		{"YAML", FormatYAML, false},
		{" json ", FormatJSON, false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDensity(t *testing.T) {
	tests := []struct {
		input      string
		want       Density
		wantErr    bool
		params     bool
		withSource bool
	}{
		{"sparse", DensitySparse, false, false, false},
		{"Medium", DensityMedium, false, true, false},
		{"dense", DensityDense, false, true, true},
		{"smart", "", true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDensity(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDensity(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDensity(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if got.IncludesParameters() != tt.params {
				t.Errorf("IncludesParameters() = %v, want %v", got.IncludesParameters(), tt.params)
			}
			if got.IncludesSource() != tt.withSource {
				t.Errorf("IncludesSource() = %v, want %v", got.IncludesSource(), tt.withSource)
			}
		})
	}
}

func TestYAMLFormatter(t *testing.T) {
	out := &GenerationOutput{
		Function:  "add",
		OutputDir: "out",
		Platforms: []PlatformOutput{{Platform: "ios", Files: []string{"ios/CPPAdd.h"}}},
	}

	got, err := NewYAMLFormatter().Format(out)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	for _, want := range []string{"function: add", "output_dir: out", "- platform: ios", "- ios/CPPAdd.h"} {
		if !strings.Contains(got, want) {
			t.Errorf("YAML output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "run_id") || strings.Contains(got, "dry_run") {
		t.Errorf("empty optional fields should be omitted:\n%s", got)
	}
}

func TestJSONFormatter(t *testing.T) {
	got, err := NewJSONFormatter().Format(&VerifyOutput{Function: "add", Found: true, TreeParams: 2, ExtractorParams: 2, Agrees: true})
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	for _, want := range []string{`"function": "add"`, `"tree_params": 2`, `"agrees": true`} {
		if !strings.Contains(got, want) {
			t.Errorf("JSON output missing %q:\n%s", want, got)
		}
	}
}
