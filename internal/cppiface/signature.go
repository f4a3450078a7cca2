package cppiface

// Signature is the raw shape of one matched function declaration.
type Signature struct {
	Modifiers      []string
	ReturnTypeText string
	FunctionName   string
	ParamText      string
	IsConst        bool
}

// HasModifier reports whether mod appeared before the return type.
func (s Signature) HasModifier(mod string) bool {
	for _, m := range s.Modifiers {
		if m == mod {
			return true
		}
	}
	return false
}

var modifierWords = map[string]bool{
	"static":  true,
	"virtual": true,
	"inline":  true,
}

// skippedSpecifiers may lead a declaration but are not recorded.
var skippedSpecifiers = map[string]bool{
	"extern":    true,
	"constexpr": true,
}

// statementWords can never be part of a return type; hitting one while
// walking back from a name means the `(` is a call, not a declaration.
var statementWords = map[string]bool{
	"return": true, "if": true, "else": true, "while": true, "for": true,
	"switch": true, "case": true, "do": true, "new": true, "delete": true,
	"throw": true, "sizeof": true, "goto": true, "co_return": true,
}

// boundaryWords end a return-type run without invalidating it.
var boundaryWords = map[string]bool{
	"namespace": true, "template": true, "using": true, "typedef": true,
	"public": true, "private": true, "protected": true,
}

// ExtractSignature finds the first function declaration in cleaned text:
//
//	[modifier]... <return-type> <name> ( <params> ) [const] ;|{
//
// The name is always the identifier directly before `(`, so it is never
// folded into the return type. It fails with a ParseError when nothing in
// text has that shape.
func ExtractSignature(text string) (Signature, error) {
	sig, _, ok := findSignature(text, tokenize(text), 0)
	if !ok {
		return Signature{}, &ParseError{Message: NoDeclarationMessage}
	}
	return sig, nil
}

// findSignature scans toks from index from and returns the first matching
// declaration plus the token index where scanning for the next one should
// resume.
func findSignature(src string, toks []token, from int) (Signature, int, bool) {
	for i := from; i < len(toks); i++ {
		if !toks[i].is("(") || i == 0 {
			continue
		}
		name := toks[i-1]
		if name.kind != tokIdent || statementWords[name.text] || modifierWords[name.text] {
			continue
		}

		closing := matchClose(toks, i, "(", ")")
		if closing < 0 {
			continue
		}

		j := closing + 1
		isConst := false
		if j < len(toks) && toks[j].kind == tokIdent && toks[j].text == "const" {
			isConst = true
			j++
		}
		if j >= len(toks) || !(toks[j].is(";") || toks[j].is("{")) {
			continue
		}

		mods, ret := splitReturnRun(returnRun(toks, i-1))
		if len(ret) == 0 || !hasIdent(ret) {
			continue
		}

		next := j + 1
		if toks[j].is("{") {
			if end := matchClose(toks, j, "{", "}"); end >= 0 {
				next = end + 1
			} else {
				next = len(toks)
			}
		}

		return Signature{
			Modifiers:      mods,
			ReturnTypeText: joinTokens(ret),
			FunctionName:   name.text,
			ParamText:      src[toks[i].end:toks[closing].pos],
			IsConst:        isConst,
		}, next, true
	}
	return Signature{}, len(toks), false
}

// returnRun walks backwards from the name at index nameIdx and returns the
// contiguous run of tokens that can form modifiers plus a return type.
func returnRun(toks []token, nameIdx int) []token {
	start := nameIdx
	angle := 0
	for k := nameIdx - 1; k >= 0; k-- {
		t := toks[k]
		ok := false
		switch {
		case t.kind == tokIdent:
			if statementWords[t.text] {
				// A statement keyword makes the whole run invalid.
				return nil
			}
			ok = !boundaryWords[t.text]
		case t.is("::"), t.is("*"), t.is("&"), t.is("&&"):
			ok = true
		case t.is(">"):
			angle++
			ok = true
		case t.is("<"):
			if angle == 0 {
				// Unbalanced `<`: the tail of a template header.
				ok = false
			} else {
				angle--
				ok = true
			}
		case t.is(","), t.is("("), t.is(")"), t.kind == tokNumber:
			// Only inside template arguments, e.g. std::function<void(int)>.
			ok = angle > 0
		}
		if !ok {
			break
		}
		start = k
	}
	if angle != 0 {
		return nil
	}
	return toks[start:nameIdx]
}

// splitReturnRun peels leading modifiers and ignorable specifiers off run.
func splitReturnRun(run []token) (mods []string, ret []token) {
	// Drop the parameter list of a preceding template header.
	if len(run) > 0 && run[0].is("<") {
		end := matchClose(run, 0, "<", ">")
		if end < 0 {
			return nil, nil
		}
		run = run[end+1:]
	}
	for len(run) > 0 && run[0].kind == tokIdent {
		word := run[0].text
		switch {
		case modifierWords[word]:
			mods = append(mods, word)
		case skippedSpecifiers[word]:
		default:
			return mods, run
		}
		run = run[1:]
	}
	return mods, run
}

// matchClose returns the index of the token closing the bracket opened at
// toks[open], or -1.
func matchClose(toks []token, open int, opener, closer string) int {
	depth := 0
	for k := open; k < len(toks); k++ {
		switch {
		case toks[k].is(opener):
			depth++
		case toks[k].is(closer):
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return -1
}

func hasIdent(toks []token) bool {
	for _, t := range toks {
		if t.kind == tokIdent {
			return true
		}
	}
	return false
}
