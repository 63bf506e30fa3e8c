package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func feedAll(lines ...string) *lineLex {
	lx := &lineLex{}
	for _, line := range lines {
		lx.feed(line)
	}
	return lx
}

func TestLineLex_CountsBraces(t *testing.T) {
	lx := feedAll("f <- function(x) {", "  x + 1", "}")
	assert.Equal(t, 1, lx.opens)
	assert.Equal(t, 1, lx.closes)
	assert.True(t, lx.balanced())
}

func TestLineLex_NestedBraces(t *testing.T) {
	lx := feedAll("f <- function(x) {", "  if (x > 0) {", "    x", "  }")
	assert.Equal(t, 2, lx.opens)
	assert.Equal(t, 1, lx.closes)
	assert.False(t, lx.balanced())
}

func TestLineLex_BracesInStrings(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"double quoted", `x <- "{"`},
		{"single quoted", `x <- '}'`},
		{"both braces quoted", `x <- "{}{}{"`},
		{"escaped quote inside", `x <- "a\"{"`},
		{"backtick name", "`weird{name` <- 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx := feedAll(tt.line)
			assert.Equal(t, 0, lx.opens, "opens")
			assert.Equal(t, 0, lx.closes, "closes")
		})
	}
}

func TestLineLex_BracesInComments(t *testing.T) {
	lx := feedAll("x <- 1 # } } }")
	assert.Equal(t, 0, lx.closes)

	lx = feedAll("{ # {")
	assert.Equal(t, 1, lx.opens)
}

func TestLineLex_HashInsideString(t *testing.T) {
	// The # is quoted, so the brace after it still counts.
	lx := feedAll(`x <- "#" ; {`)
	assert.Equal(t, 1, lx.opens)
}

func TestLineLex_MultilineString(t *testing.T) {
	// String opened on one line and closed on the next: the brace on
	// the second line is still inside the literal.
	lx := feedAll(`x <- "abc`, `} def"`, "{")
	assert.Equal(t, 1, lx.opens)
	assert.Equal(t, 0, lx.closes)
}

func TestLineLex_NoEscapeInBackticks(t *testing.T) {
	// Backslash does not escape inside backticks, so the second
	// backtick closes the name and the brace counts.
	lx := feedAll("`a\\` <- 1 ; {")
	assert.Equal(t, 1, lx.opens)
}

func TestLineLex_BalancedRequiresOpen(t *testing.T) {
	lx := feedAll("x <- 1")
	assert.False(t, lx.balanced())

	// A stray close without an open never balances.
	lx = feedAll("}")
	assert.False(t, lx.balanced())
}
