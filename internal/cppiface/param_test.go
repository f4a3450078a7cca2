package cppiface

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseParameter(t *testing.T) {
	tests := []struct {
		text string
		want Parameter
	}{
		{"int a", Parameter{Type: Type{Kind: KindInt}, Name: "a"}},
		{"int", Parameter{Type: Type{Kind: KindInt}}},
		{"const std::string& name", Parameter{Type: Type{Kind: KindString}, Name: "name", IsConst: true, IsReference: true}},
		{"const char* label", Parameter{Type: Type{Kind: KindString}, Name: "label", IsConst: true, IsPointer: true}},
		{"char *buf", Parameter{Type: Type{Kind: KindString}, Name: "buf", IsPointer: true}},
		{"int* values", Parameter{Type: Type{Kind: KindInt}, Name: "values", IsPointer: true}},
		{"Widget&& w", Parameter{Type: Type{Raw: "Widget"}, Name: "w", IsReference: true}},
		{"Widget*", Parameter{Type: Type{Raw: "Widget*"}, IsPointer: true}},
		{"double samples[16]", Parameter{Type: Type{Kind: KindDouble}, Name: "samples", IsPointer: true}},
		{"struct Point p", Parameter{Type: Type{Raw: "struct Point"}, Name: "p"}},
		{"struct Point", Parameter{Type: Type{Raw: "struct Point"}}},
		{"std::string", Parameter{Type: Type{Kind: KindString}}},
		{"std::vector<int> v", Parameter{Type: Type{Raw: "std::vector<int>"}, Name: "v"}},
		{
			"const std::map<std::string, std::vector<int>>& index",
			Parameter{Type: Type{Raw: "std::map<std::string, std::vector<int>>"}, Name: "index", IsConst: true, IsReference: true},
		},
		{"int x = 5", Parameter{Type: Type{Kind: KindInt}, Name: "x", DefaultValue: "5"}},
		{`const char* sep = ", "`, Parameter{Type: Type{Kind: KindString}, Name: "sep", IsConst: true, IsPointer: true, DefaultValue: `", "`}},
		{"bool strict = a == b", Parameter{Type: Type{Kind: KindBoolean}, Name: "strict", DefaultValue: "a == b"}},
		{"std::map<int, int> m = std::map<int, int>()", Parameter{Type: Type{Raw: "std::map<int, int>"}, Name: "m", DefaultValue: "std::map<int, int>()"}},
		// Function pointers do not fit the declarator shape; only the
		// leading type run survives.
		{"int (*cb)(int)", Parameter{Type: Type{Kind: KindInt}}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParseParameter(tt.text)
			if !ok {
				t.Fatalf("ParseParameter(%q) failed", tt.text)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
			if got.IsPointer && got.IsReference {
				t.Error("parameter is both pointer and reference")
			}
		})
	}
}

func TestParseParameterDropped(t *testing.T) {
	for _, text := range []string{"", "...", "= 5", "&"} {
		t.Run(text, func(t *testing.T) {
			if got, ok := ParseParameter(text); ok {
				t.Errorf("ParseParameter(%q) = %+v, want failure", text, got)
			}
		})
	}
}

func TestAssignNames(t *testing.T) {
	params := []Parameter{{Name: ""}, {Name: "arg1"}, {Name: ""}, {Name: "x"}, {Name: ""}}
	assignNames(params)

	var got []string
	for _, p := range params {
		got = append(got, p.Name)
	}
	want := []string{"arg0", "arg1", "arg2", "x", "arg3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
