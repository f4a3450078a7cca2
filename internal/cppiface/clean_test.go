package cppiface

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "int add(int a, int b);", "int add(int a, int b);"},
		{"line comment", "int a; // trailing\nint b;", "int a; int b;"},
		{"block comment", "int /* inline */ f();", "int f();"},
		{"block comment joins nothing", "int/**/f();", "int f();"},
		{"multiline block", "/*\n * doc\n */\nvoid run();", "void run();"},
		{"whitespace runs", "  int\t\tadd (\n int a )  ; ", "int add ( int a ) ;"},
		{"url in string", `const char* u = "http://x";`, `const char* u = "http://x";`},
		{"block marker in string", `f("/* not a comment */");`, `f("/* not a comment */");`},
		{"quote in char literal", `char q = '"'; // c`, `char q = '"';`},
		{"unterminated block", "int f(); /* open", "int f();"},
		{"include", "#include <string>\nint add(int a, int b);", "int add(int a, int b);"},
		{"indented directive", "  #  pragma once\n\tvoid run();", "void run();"},
		{"continued define", "#define MAX(a, b) \\\n  ((a) > (b))\nint f();", "int f();"},
		{"directive with comment", "#if 0 /* spans\n lines */\nint f();\n#endif", "int f();"},
		{"hash mid line", `const char* h = "#x"; int a # b;`, `const char* h = "#x"; int a # b;`},
		{"attribute", "[[nodiscard]] int f();", "int f();"},
		{"digit separator", "int f(int n = 1'000, int m);", "int f(int n = 1'000, int m);"},
		{"hex digit separator", "unsigned g = 0xFF'FF; // x", "unsigned g = 0xFF'FF;"},
		{"prefixed char literal", "char8_t c = u8'/'; // x", "char8_t c = u8'/';"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractNamespace(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"namespace MathUtils { double f(); }", "MathUtils"},
		{"namespace A { namespace B { int g(); } }", "A"},
		{"int f();", ""},
		{"int namespaced();", ""},
		{"namespace { int anon(); }", ""},
		{"namespace\tspaced_1 {}", "spaced_1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ExtractNamespace(tt.input); got != tt.want {
				t.Errorf("ExtractNamespace(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
