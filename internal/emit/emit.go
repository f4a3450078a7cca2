// Package emit renders platform bindings for a parsed C++ declaration.
//
// Each emitter owns a type table keyed by cppiface.Kind. Opaque types fall
// back to the target's object type, so an emitter never fails on a type it
// does not know.
package emit

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/hargabyte/bridgegen/internal/cppiface"
	"github.com/hargabyte/bridgegen/internal/files"
)

// Emitter generates the bindings for one target platform.
type Emitter interface {
	// Platform returns the platform identifier, e.g. "android".
	Platform() string

	// Emit writes the bindings for pi through w and returns the relative
	// paths written, in write order. pi is not modified.
	Emit(pi *cppiface.ParsedInterface, w files.Writer) ([]string, error)
}

// ConfigError reports an emitter setting that is missing or malformed.
type ConfigError struct {
	Platform string
	Field    string
	Reason   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s config: %s %s", e.Platform, e.Field, e.Reason)
}

// typeTable maps canonical kinds to a target language's type names.
type typeTable struct {
	names  map[cppiface.Kind]string
	opaque string
}

func (t typeTable) name(typ cppiface.Type) string {
	if typ.IsOpaque() {
		return t.opaque
	}
	if n, ok := t.names[typ.Kind]; ok {
		return n
	}
	return t.opaque
}

// cppTypes spells canonical kinds as C++ for bridge signatures. Opaque
// types keep their original spelling.
var cppTypes = map[cppiface.Kind]string{
	cppiface.KindVoid:    "void",
	cppiface.KindBoolean: "bool",
	cppiface.KindByte:    "int8_t",
	cppiface.KindShort:   "short",
	cppiface.KindInt:     "int",
	cppiface.KindLong:    "long",
	cppiface.KindFloat:   "float",
	cppiface.KindDouble:  "double",
	cppiface.KindString:  "std::string",
}

func cppType(typ cppiface.Type) string {
	if typ.IsOpaque() {
		return typ.Raw
	}
	return cppTypes[typ.Kind]
}

var funcs = template.FuncMap{
	"lower":      strings.ToLower,
	"upper":      strings.ToUpper,
	"capitalize": capitalize,
}

func mustTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).Parse(text))
}

// file pairs an output path with the template that renders it.
type file struct {
	path string
	tmpl *template.Template
}

// writeFiles renders every template with data and writes the results in
// order. Paths written before a failure are returned with the error.
func writeFiles(w files.Writer, data any, list []file) ([]string, error) {
	paths := make([]string, 0, len(list))
	for _, f := range list {
		var buf bytes.Buffer
		if err := f.tmpl.Execute(&buf, data); err != nil {
			return paths, fmt.Errorf("rendering %s: %w", f.path, err)
		}
		if err := w.WriteFile(f.path, buf.String()); err != nil {
			return paths, err
		}
		paths = append(paths, f.path)
	}
	return paths, nil
}

// includeLine is the header include for the wrapped function.
func includeLine(pi *cppiface.ParsedInterface) string {
	if pi.HasNamespace() {
		return fmt.Sprintf("#include %q", pi.Namespace+".h")
	}
	return "// Include your C++ header file here"
}

func paramNames(pi *cppiface.ParsedInterface) string {
	names := make([]string, len(pi.Parameters))
	for i, p := range pi.Parameters {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

// capitalize upper-cases the first rune of s.
func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
