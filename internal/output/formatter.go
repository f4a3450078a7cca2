// Package output renders parse results, generation reports and history as
// YAML, JSON or the plain-text summaries returned by the MCP tools.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Formatter is the interface for formatting output in different formats.
type Formatter interface {
	// Format formats v and returns the formatted string or an error.
	Format(v interface{}) (string, error)

	// FormatToWriter writes formatted output directly to a writer.
	FormatToWriter(w io.Writer, v interface{}) error
}

// YAMLFormatter formats output as YAML.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Format formats v as YAML.
func (f *YAMLFormatter) Format(v interface{}) (string, error) {
	var buf bytes.Buffer
	if err := f.FormatToWriter(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatToWriter writes YAML output to a writer.
func (f *YAMLFormatter) FormatToWriter(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(v)
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format formats v as JSON.
func (f *JSONFormatter) Format(v interface{}) (string, error) {
	var buf bytes.Buffer
	if err := f.FormatToWriter(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatToWriter writes JSON output to a writer.
func (f *JSONFormatter) FormatToWriter(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

// GetFormatter returns a formatter for the specified format.
func GetFormatter(format Format) (Formatter, error) {
	switch format {
	case FormatYAML:
		return NewYAMLFormatter(), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
