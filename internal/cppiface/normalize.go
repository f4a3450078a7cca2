package cppiface

import "strings"

// typeAliases maps raw C++ spellings to canonical kinds. Canonical names map
// to themselves so that normalizing a normalized type is a no-op.
var typeAliases = map[string]Kind{
	"void":           KindVoid,
	"bool":           KindBoolean,
	"boolean":        KindBoolean,
	"char":           KindByte,
	"unsigned char":  KindByte,
	"byte":           KindByte,
	"short":          KindShort,
	"unsigned short": KindShort,
	"int":            KindInt,
	"unsigned int":   KindInt,
	"long":           KindLong,
	"unsigned long":  KindLong,
	"long long":      KindLong,
	"float":          KindFloat,
	"double":         KindDouble,
	"char*":          KindString,
	"const char*":    KindString,
	"std::string":    KindString,
	"string":         KindString,
}

// Normalize maps raw C++ type text to a canonical Type. Resolution order:
//
//  1. alias table lookup
//  2. strip one trailing `*` and retry
//  3. strip a leading `const ` and retry
//  4. strip a leading `std::` and retry
//  5. otherwise opaque, carrying the whitespace-normalized text
//
// Steps 2 and 4 only accept a resolved result; step 3 keeps the stripped
// text even when it stays opaque.
func Normalize(raw string) Type {
	text := joinTokens(tokenize(raw))

	if k, ok := typeAliases[text]; ok {
		return Type{Kind: k}
	}
	if base, ok := strings.CutSuffix(text, "*"); ok {
		if t := Normalize(base); !t.IsOpaque() {
			return t
		}
	}
	if base, ok := strings.CutPrefix(text, "const "); ok {
		return Normalize(base)
	}
	if base, ok := strings.CutPrefix(text, "std::"); ok {
		if t := Normalize(base); !t.IsOpaque() {
			return t
		}
	}
	return Type{Kind: KindOpaque, Raw: text}
}
