package cppiface

import "strings"

// tokenKind classifies a lexical token.
type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNumber
	tokLiteral
	tokPunct
)

// token is a single lexical unit of cleaned C++ text. pos and end are byte
// offsets into the tokenized string.
type token struct {
	kind tokenKind
	text string
	pos  int
	end  int
}

func (t token) is(text string) bool {
	return t.kind == tokPunct && t.text == text
}

func (t token) isWord() bool {
	return t.kind == tokIdent || t.kind == tokNumber || t.kind == tokLiteral
}

// twoCharPuncts are joined into one token. `<=` and `>=` are deliberately
// absent so closing template brackets never merge with a following `=`.
var twoCharPuncts = []string{"::", "&&", "==", "!=", "->"}

// tokenize splits s into identifiers, numbers, string/char literals and
// punctuation. Whitespace is dropped. It never fails: unterminated literals
// run to the end of input.
func tokenize(s string) []token {
	var toks []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case isSpace(c):
			i++
		case isIdentStart(c):
			j := i + 1
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: s[i:j], pos: i, end: j})
			i = j
		case isDigit(c):
			j := i + 1
			for j < len(s) && (isIdentByte(s[j]) || s[j] == '.' || isDigitSeparator(s, j)) {
				j++
			}
			toks = append(toks, token{kind: tokNumber, text: s[i:j], pos: i, end: j})
			i = j
		case c == '"' || c == '\'':
			j := skipLiteral(s, i)
			toks = append(toks, token{kind: tokLiteral, text: s[i:j], pos: i, end: j})
			i = j
		default:
			n := 1
			for _, p := range twoCharPuncts {
				if strings.HasPrefix(s[i:], p) {
					n = 2
					break
				}
			}
			toks = append(toks, token{kind: tokPunct, text: s[i : i+n], pos: i, end: i + n})
			i += n
		}
	}
	return toks
}

// skipLiteral returns the offset just past the literal opening at s[start].
// Backslash escapes are honoured.
func skipLiteral(s string, start int) int {
	quote := s[start]
	for j := start + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		}
	}
	return len(s)
}

// isDigitSeparator reports whether the `'` at s[i] separates digits of a
// numeric literal, as in 1'000 or 0xFF'FF, rather than opening a character
// literal. Prefixed character literals such as u8'a' are not numbers.
func isDigitSeparator(s string, i int) bool {
	if s[i] != '\'' || i+1 >= len(s) || !isIdentByte(s[i+1]) {
		return false
	}
	k := i
	for k > 0 && (isIdentByte(s[k-1]) || s[k-1] == '.' || s[k-1] == '\'') {
		k--
	}
	return k < i && isDigit(s[k])
}

// joinTokens renders tokens as canonical type text: words separated by a
// single space, no space around `::`, `<`, `>`, `*` or `&`, and ", " after
// commas.
func joinTokens(toks []token) string {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 {
			prev := toks[i-1]
			if (prev.isWord() && t.isWord()) || prev.is(",") || (prev.is(">") && t.isWord()) {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.text)
	}
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
