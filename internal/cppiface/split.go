package cppiface

import "strings"

// SplitParameters divides a raw parameter list into individual parameter
// texts. Commas split only at depth zero; `<` and `(` (and `[`, `{`) open a
// level, their partners close it. Characters inside string or character
// literals are never treated as brackets or separators.
//
// Inside a default value a `<` only opens a template level when it follows an
// identifier directly, so `x = a < b, int y` still splits at the comma while
// `m = std::map<int, int>()` does not. When such a `<` is never closed, as in
// `x = a<b, int y`, it is read as a comparison and the list is split again.
// A comparison whose `>` partner appears later in the list, as in
// `x = a<b, int y = c>d`, stays ambiguous and is read as a template.
func SplitParameters(paramText string) []string {
	comparisons := map[int]bool{}
	for {
		params, open := splitAt(paramText, comparisons)
		if open < 0 || comparisons[open] {
			return params
		}
		comparisons[open] = true
	}
}

// splitAt performs one splitting pass. A `<` whose offset is in comparisons
// never opens a level. open is the offset of the outermost `<` opened inside
// a default value and left unclosed, or -1.
func splitAt(paramText string, comparisons map[int]bool) (params []string, open int) {
	var (
		current   strings.Builder
		depth     int
		angles    []int
		inDefault bool
	)
	open = -1

	flush := func() {
		if p := strings.TrimSpace(current.String()); p != "" {
			params = append(params, p)
		}
		current.Reset()
		inDefault = false
	}

	for i := 0; i < len(paramText); i++ {
		c := paramText[i]
		switch c {
		case '"', '\'':
			if isDigitSeparator(paramText, i) {
				break
			}
			j := skipLiteral(paramText, i)
			current.WriteString(paramText[i:j])
			i = j - 1
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case '<':
			if comparisons[i] {
				break
			}
			if !inDefault || (i > 0 && isIdentByte(paramText[i-1])) {
				if inDefault && len(angles) == 0 && open < 0 {
					open = i
				}
				angles = append(angles, i)
			}
		case '>':
			if len(angles) > 0 && (i == 0 || paramText[i-1] != '-') {
				angles = angles[:len(angles)-1]
				if len(angles) == 0 {
					open = -1
				}
			}
		case '=':
			if depth == 0 && len(angles) == 0 && !isComparisonAt(paramText, i) {
				inDefault = true
			}
		case ',':
			if depth == 0 && len(angles) == 0 {
				flush()
				continue
			}
		}
		current.WriteByte(c)
	}
	flush()

	if len(angles) == 0 {
		open = -1
	}
	return params, open
}

// isComparisonAt reports whether the `=` at s[i] belongs to ==, !=, <= or >=.
func isComparisonAt(s string, i int) bool {
	if i+1 < len(s) && s[i+1] == '=' {
		return true
	}
	if i > 0 {
		switch s[i-1] {
		case '=', '!', '<', '>':
			return true
		}
	}
	return false
}
