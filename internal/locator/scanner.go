package locator

// lineLex accumulates brace balance across the lines of a function body.
// Braces inside string literals and # comments do not count toward the
// balance. R has no block comments, so comment state never survives a
// line boundary; string state does, since a quoted literal may span lines.
type lineLex struct {
	opens  int
	closes int
	quote  rune // 0 when outside a string literal
}

// feed scans one line of source, updating the running brace counts.
// Single and double quoted strings honor backslash escapes; backtick
// names do not. A # outside any string ends the line.
func (lx *lineLex) feed(line string) {
	escaped := false
	for _, r := range line {
		if lx.quote != 0 {
			switch {
			case escaped:
				escaped = false
			case r == '\\' && lx.quote != '`':
				escaped = true
			case r == lx.quote:
				lx.quote = 0
			}
			continue
		}
		switch r {
		case '\'', '"', '`':
			lx.quote = r
		case '#':
			return
		case '{':
			lx.opens++
		case '}':
			lx.closes++
		}
	}
}

// balanced reports whether a body has been opened and fully closed.
func (lx *lineLex) balanced() bool {
	return lx.opens > 0 && lx.closes >= lx.opens
}
