package cppiface

import (
	"encoding/json"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want Type
	}{
		{"void", Type{Kind: KindVoid}},
		{"bool", Type{Kind: KindBoolean}},
		{"char", Type{Kind: KindByte}},
		{"unsigned char", Type{Kind: KindByte}},
		{"short", Type{Kind: KindShort}},
		{"unsigned short", Type{Kind: KindShort}},
		{"int", Type{Kind: KindInt}},
		{"unsigned int", Type{Kind: KindInt}},
		{"long", Type{Kind: KindLong}},
		{"unsigned long", Type{Kind: KindLong}},
		{"long long", Type{Kind: KindLong}},
		{"float", Type{Kind: KindFloat}},
		{"double", Type{Kind: KindDouble}},
		{"char*", Type{Kind: KindString}},
		{"const char*", Type{Kind: KindString}},
		{"const char *", Type{Kind: KindString}},
		{"std::string", Type{Kind: KindString}},
		{"string", Type{Kind: KindString}},
		{"  unsigned   int ", Type{Kind: KindInt}},
		{"int*", Type{Kind: KindInt}},
		{"const double", Type{Kind: KindDouble}},
		{"const std::string", Type{Kind: KindString}},
		{"std::string*", Type{Kind: KindString}},
		{"Widget", Type{Raw: "Widget"}},
		{"Widget *", Type{Raw: "Widget*"}},
		{"const Widget", Type{Raw: "Widget"}},
		{"std::vector<int>", Type{Raw: "std::vector<int>"}},
		{"std::map< std::string , int >", Type{Raw: "std::map<std::string, int>"}},
		{"unsigned long long", Type{Raw: "unsigned long long"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"void", "bool", "unsigned char", "long long", "const char*",
		"std::string", "const std::string", "int*", "Widget", "const Widget*",
		"std::vector<std::string>", "std::map<int, std::vector<int>>",
		"struct Point", "",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once.String())
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %#v then %#v", in, once, twice)
		}
	}
}

func TestTypeJSON(t *testing.T) {
	p := Parameter{Type: Normalize("const std::string"), Name: "s", IsConst: true}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"type":"string","name":"s","isConst":true,"isPointer":false,"isReference":false}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}

	var back Parameter
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != p {
		t.Errorf("round trip = %#v, want %#v", back, p)
	}
}

func TestKindString(t *testing.T) {
	if KindOpaque.String() != "opaque" {
		t.Errorf("KindOpaque.String() = %q", KindOpaque.String())
	}
	if Kind(99).String() != "opaque" {
		t.Errorf("unknown kind should render as opaque")
	}
	if got := (Type{Raw: "Foo"}).String(); got != "Foo" {
		t.Errorf("opaque Type.String() = %q", got)
	}
}
