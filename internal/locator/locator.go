package locator

import (
	"regexp"
	"strings"

	"github.com/rassist/rassist-mcp/pkg/types"
)

// Options configures a locate call. The zero value is ready to use.
type Options struct {
	// Lookback caps how many lines above the cursor the backward phase
	// inspects before falling through to the forward phase. 0 scans all
	// the way to the top of the file. Editors that want the historical
	// near-cursor behavior can set a small cap such as 10, at the cost
	// of mis-attaching to the next function when the cursor sits deep
	// inside a long body.
	Lookback int
}

// An R identifier, or any backtick-quoted name.
const identPat = "(?:`[^`]+`|[A-Za-z.][A-Za-z0-9._]*)"

// The defining keyword: `function` or the \(x) lambda shorthand.
const funcPat = `(?:function\b|\\)`

var (
	// name <- function(  in any of its one-line assignment forms.
	defLineRe = regexp.MustCompile(identPat + `\s*(?:<<?-|=)\s*` + funcPat + `\s*\(`)
	// The keyword opening a split-form definition, alone at line start.
	kwLineRe = regexp.MustCompile(`^\s*` + funcPat + `\s*\(`)
	// An assignee with nothing after the operator: the top half of a
	// split-form definition.
	assignLineRe = regexp.MustCompile(`^\s*(` + identPat + `)\s*(?:<<?-|=)\s*$`)
	// First assignment-to-function in a span's joined text, for name
	// capture. \s* crosses the newline of a split-form definition.
	nameRe = regexp.MustCompile(`(` + identPat + `)\s*(?:<<?-|=)\s*` + funcPat + `\s*\(`)
	// A roxygen marker line: optional indent, then #'.
	docLineRe = regexp.MustCompile(`^\s*#'`)
)

const advisoryNotFound = "no function definition at or below the cursor"
const advisoryUnterminated = "function body is not closed before end of file"

// Locate finds the function definition enclosing (or nearest below) the
// cursor line. It is a pure function of its inputs: no I/O, no mutation
// of doc, and no error returns. Malformed input degrades to a not_found
// or partial result carrying an advisory message.
func Locate(doc types.Document, cursorLine int, opts Options) *types.LocateResult {
	if !doc.InRange(cursorLine) {
		return &types.LocateResult{Outcome: types.OutcomeNotFound, Advisory: advisoryNotFound}
	}

	outcome := types.OutcomeBackward
	first := scanBackward(doc, cursorLine, opts.Lookback)
	if first == 0 {
		outcome = types.OutcomeForward
		first = scanForward(doc, cursorLine)
	}
	if first == 0 {
		return &types.LocateResult{Outcome: types.OutcomeNotFound, Advisory: advisoryNotFound}
	}

	fn, advisory := details(doc, first)
	return &types.LocateResult{Outcome: outcome, Function: fn, Advisory: advisory}
}

// ScanDocument enumerates every top-level function definition in the
// document from top to bottom. Definitions nested inside a located body
// are skipped along with it. An unterminated body ends the scan, since
// the rest of the file belongs to it as far as brace balance can tell.
func ScanDocument(doc types.Document) []*types.FunctionDetails {
	var out []*types.FunctionDetails
	for n := 1; n <= doc.Len(); {
		first := scanForward(doc, n)
		if first == 0 {
			break
		}
		fn, _ := details(doc, first)
		out = append(out, fn)
		if !fn.Terminated() {
			break
		}
		n = fn.Span.End + 1
	}
	return out
}

// details assembles span, name, and doc block for a definition starting
// at line first.
func details(doc types.Document, first int) (*types.FunctionDetails, string) {
	fn := &types.FunctionDetails{Span: types.Span{Start: first}}
	advisory := ""
	if end := findEnd(doc, first); end != 0 {
		fn.Span.End = end
	} else {
		advisory = advisoryUnterminated
	}
	fn.Name = extractName(doc, fn.Span)
	fn.Doc = docBlock(doc, first)
	return fn, advisory
}

// startAt reports the definition start line if line n begins a function
// definition, or 0. For the split form, where the keyword sits alone on
// line n and the assignee alone on line n-1, the assignee line is the
// true start.
func startAt(doc types.Document, n int) int {
	if defLineRe.MatchString(doc.Line(n)) {
		return n
	}
	if kwLineRe.MatchString(doc.Line(n)) && n > 1 && assignLineRe.MatchString(doc.Line(n-1)) {
		return n - 1
	}
	return 0
}

// scanBackward walks from the cursor line toward line 1, inspecting at
// most lookback lines above the cursor when lookback > 0.
func scanBackward(doc types.Document, from, lookback int) int {
	low := 1
	if lookback > 0 && from-lookback > low {
		low = from - lookback
	}
	for n := from; n >= low; n-- {
		if start := startAt(doc, n); start != 0 {
			return start
		}
	}
	return 0
}

// scanForward walks from the cursor line toward end of document.
func scanForward(doc types.Document, from int) int {
	if from < 1 {
		from = 1
	}
	for n := from; n <= doc.Len(); n++ {
		if start := startAt(doc, n); start != 0 {
			return start
		}
	}
	return 0
}

// findEnd returns the line on which the function body opened at or after
// line first closes, or 0 when end of document is reached with the body
// still open.
func findEnd(doc types.Document, first int) int {
	var lx lineLex
	for n := first; n <= doc.Len(); n++ {
		lx.feed(doc.Line(n))
		if lx.balanced() {
			return n
		}
	}
	return 0
}

// extractName pulls the assigned identifier out of the span's source
// text. For an unterminated span the search runs through end of document.
// Backticks around quoted names are stripped. Returns "" when no
// assignment-to-function appears, which is not an error.
func extractName(doc types.Document, span types.Span) string {
	end := span.End
	if end == 0 {
		end = doc.Len()
	}
	var b strings.Builder
	for n := span.Start; n <= end; n++ {
		b.WriteString(doc.Line(n))
		b.WriteByte('\n')
	}
	m := nameRe.FindStringSubmatch(b.String())
	if m == nil {
		return ""
	}
	return strings.Trim(m[1], "`")
}

// docBlock finds the roxygen block directly above line first: blank
// lines under it are skipped, then the maximal contiguous run of #'
// lines is collected. A non-blank, non-marker line in between means no
// block.
func docBlock(doc types.Document, first int) *types.Span {
	n := first - 1
	for n >= 1 && strings.TrimSpace(doc.Line(n)) == "" {
		n--
	}
	if n < 1 || !docLineRe.MatchString(doc.Line(n)) {
		return nil
	}
	last := n
	for n >= 1 && docLineRe.MatchString(doc.Line(n)) {
		n--
	}
	return &types.Span{Start: n + 1, End: last}
}
