package cppiface

import (
	"regexp"
	"strings"
)

var (
	multiSpaceRe = regexp.MustCompile(`\s+`)
	namespaceRe  = regexp.MustCompile(`\bnamespace\s+([A-Za-z_][A-Za-z0-9_]*)`)
)

// Clean strips `//` and `/* */` comments, preprocessor lines and `[[...]]`
// attributes, collapses whitespace runs to a single space and trims the
// result. A preprocessor line starts with `#` after optional indentation
// and continues across backslash-newline pairs. Markers inside string or
// character literals are left alone; a `'` digit separator (1'000) does not
// open a literal. An unterminated block comment runs to the end of input.
func Clean(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	lineStart := true
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case lineStart && c == '#':
			i = skipDirective(text, i)
		case c == '"' || (c == '\'' && !isDigitSeparator(text, i)):
			j := skipLiteral(text, i)
			b.WriteString(text[i:j])
			i = j
			lineStart = false
		case strings.HasPrefix(text[i:], "//"):
			j := strings.IndexByte(text[i:], '\n')
			if j < 0 {
				i = len(text)
			} else {
				i += j
			}
		case strings.HasPrefix(text[i:], "/*"):
			j := strings.Index(text[i+2:], "*/")
			if j < 0 {
				i = len(text)
			} else {
				i += j + 4
			}
			// A block comment separates tokens.
			b.WriteByte(' ')
		case strings.HasPrefix(text[i:], "[["):
			j := strings.Index(text[i+2:], "]]")
			if j < 0 {
				i = len(text)
			} else {
				i += j + 4
			}
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
			i++
			if c == '\n' {
				lineStart = true
			} else if !isSpace(c) {
				lineStart = false
			}
		}
	}

	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(b.String(), " "))
}

// skipDirective returns the offset of the newline ending the preprocessor
// directive at s[start], or len(s). Backslash-newline continues the
// directive and a block comment inside it may span lines.
func skipDirective(s string, start int) int {
	for j := start; j < len(s); j++ {
		switch {
		case s[j] == '\\' && strings.HasPrefix(s[j+1:], "\n"):
			j++
		case s[j] == '\\' && strings.HasPrefix(s[j+1:], "\r\n"):
			j += 2
		case strings.HasPrefix(s[j:], "/*"):
			k := strings.Index(s[j+2:], "*/")
			if k < 0 {
				return len(s)
			}
			j += k + 3
		case s[j] == '\n':
			return j
		}
	}
	return len(s)
}

// ExtractNamespace returns the identifier following the first `namespace`
// keyword, or "" when there is none. It is a lexical hint only: braces are
// not balanced and closed scopes are not tracked.
func ExtractNamespace(text string) string {
	m := namespaceRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
