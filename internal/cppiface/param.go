package cppiface

import (
	"strconv"
	"strings"
)

// builtinTypeWords can never be a parameter name.
var builtinTypeWords = map[string]bool{
	"void": true, "bool": true, "char": true, "short": true, "int": true,
	"long": true, "float": true, "double": true, "signed": true,
	"unsigned": true, "const": true, "volatile": true, "auto": true,
	"wchar_t": true, "char16_t": true, "char32_t": true, "char8_t": true,
}

// elaboratedWords introduce a type name and cannot stand alone as a type.
var elaboratedWords = map[string]bool{
	"struct": true, "class": true, "enum": true, "union": true, "typename": true,
}

// ParseParameter converts one parameter text of the shape
//
//	[const] <type-tokens> [*|&] [identifier] [= default-expr]
//
// into a Parameter. An anonymous parameter comes back with an empty Name;
// Parse assigns positional names afterwards. When the shape does not fit,
// only a leading run of type tokens is kept. ok is false when even that
// fails and the parameter has to be dropped.
func ParseParameter(text string) (param Parameter, ok bool) {
	text = strings.TrimSpace(text)
	toks := tokenize(text)
	if len(toks) == 0 {
		return Parameter{}, false
	}

	decl := toks
	if eq := topLevelAssign(toks); eq >= 0 {
		decl = toks[:eq]
		param.DefaultValue = strings.TrimSpace(text[toks[eq].end:])
	}

	if p, ok := parseDeclarator(decl); ok {
		p.DefaultValue = param.DefaultValue
		return p, true
	}
	return fallbackParameter(toks)
}

// parseDeclarator handles the well-formed shape without the default value.
func parseDeclarator(decl []token) (Parameter, bool) {
	var p Parameter

	if len(decl) > 0 && decl[0].kind == tokIdent && decl[0].text == "const" {
		p.IsConst = true
		decl = decl[1:]
	}

	// `name[N]` decays to a pointer.
	arrayDecay := false
	if n := len(decl); n > 0 && decl[n-1].is("]") {
		open := -1
		for k := n - 1; k >= 0; k-- {
			if decl[k].is("[") {
				open = k
				break
			}
		}
		if open < 1 {
			return Parameter{}, false
		}
		decl = decl[:open]
		arrayDecay = true
	}

	if !typeShaped(decl) {
		return Parameter{}, false
	}

	typeToks := decl
	if n := len(decl); n > 1 && isNameToken(decl[n-1]) && !decl[n-2].is("::") &&
		!onlyElaborated(decl[:n-1]) && angleDepth(decl[:n-1]) == 0 {
		p.Name = decl[n-1].text
		typeToks = decl[:n-1]
	}
	if arrayDecay && p.Name == "" {
		return Parameter{}, false
	}

	// The first character of the trailing qualifier run decides.
	qual := len(typeToks)
	for qual > 0 && isQualifier(typeToks[qual-1]) {
		qual--
	}
	if qual == 0 {
		return Parameter{}, false
	}
	base := typeToks[:qual]
	stars := make([]token, 0, len(typeToks)-qual+1)
	if qual < len(typeToks) {
		if typeToks[qual].is("*") {
			p.IsPointer = true
		} else {
			p.IsReference = true
		}
		for _, t := range typeToks[qual:] {
			if t.is("*") {
				stars = append(stars, t)
			}
		}
	}
	if arrayDecay {
		p.IsPointer = !p.IsReference
		stars = append(stars, token{kind: tokPunct, text: "*"})
	}

	p.Type = Normalize(joinTokens(append(append([]token(nil), base...), stars...)))
	return p, true
}

// fallbackParameter keeps only the leading run of type tokens.
func fallbackParameter(toks []token) (Parameter, bool) {
	end := 0
	for end < len(toks) {
		t := toks[end]
		if t.kind == tokIdent || t.is("::") || t.is("<") || t.is(">") || isQualifier(t) {
			end++
			continue
		}
		break
	}
	run := toks[:end]
	if !hasIdent(run) {
		return Parameter{}, false
	}
	return Parameter{Type: Normalize(joinTokens(run))}, true
}

// typeShaped reports whether every token can belong to a type, with commas
// and numbers only inside template arguments.
func typeShaped(toks []token) bool {
	if !hasIdent(toks) {
		return false
	}
	angle := 0
	for _, t := range toks {
		switch {
		case t.kind == tokIdent, t.is("::"), isQualifier(t):
		case t.is("<"):
			angle++
		case t.is(">"):
			angle--
			if angle < 0 {
				return false
			}
		case t.is(","), t.kind == tokNumber, t.is("("), t.is(")"):
			if angle == 0 {
				return false
			}
		default:
			return false
		}
	}
	return angle == 0
}

// topLevelAssign returns the index of the first `=` outside brackets, or -1.
func topLevelAssign(toks []token) int {
	depth := 0
	for k, t := range toks {
		switch {
		case t.is("<"), t.is("("), t.is("["), t.is("{"):
			depth++
		case t.is(">"), t.is(")"), t.is("]"), t.is("}"):
			if depth > 0 {
				depth--
			}
		case t.is("=") && depth == 0:
			return k
		}
	}
	return -1
}

func angleDepth(toks []token) int {
	depth := 0
	for _, t := range toks {
		switch {
		case t.is("<"):
			depth++
		case t.is(">"):
			depth--
		}
	}
	return depth
}

func isNameToken(t token) bool {
	return t.kind == tokIdent && !builtinTypeWords[t.text] && !elaboratedWords[t.text]
}

func isQualifier(t token) bool {
	return t.is("*") || t.is("&") || t.is("&&")
}

func onlyElaborated(toks []token) bool {
	for _, t := range toks {
		if t.kind != tokIdent || !elaboratedWords[t.text] {
			return false
		}
	}
	return true
}

// assignNames gives anonymous parameters positional names arg0, arg1, ...
// counted among anonymous parameters only and skipping names already taken.
func assignNames(params []Parameter) {
	used := make(map[string]bool, len(params))
	for _, p := range params {
		if p.Name != "" {
			used[p.Name] = true
		}
	}
	next := 0
	for i := range params {
		if params[i].Name != "" {
			continue
		}
		name := "arg" + strconv.Itoa(next)
		for used[name] {
			next++
			name = "arg" + strconv.Itoa(next)
		}
		used[name] = true
		params[i].Name = name
		next++
	}
}
