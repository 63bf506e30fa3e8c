package types

import "strings"

// Document is the full text of a source file as an ordered sequence of
// lines. Lines are addressed 1-indexed throughout. A Document is input
// only; nothing in this module mutates one after construction.
type Document []string

// NewDocument splits full file text into a Document. Both LF and CRLF
// line endings are accepted.
func NewDocument(text string) Document {
	if text == "" {
		return Document{}
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return Document(lines)
}

// Len returns the number of lines in the document.
func (d Document) Len() int {
	return len(d)
}

// Line returns the 1-indexed line n, or the empty string when n is out
// of range.
func (d Document) Line(n int) string {
	if n < 1 || n > len(d) {
		return ""
	}
	return d[n-1]
}

// InRange reports whether n addresses a line of the document.
func (d Document) InRange(n int) bool {
	return n >= 1 && n <= len(d)
}

// Slice returns the lines covered by span as a new Document. Returns
// nil when the span does not fit inside the document.
func (d Document) Slice(span Span) Document {
	if !span.Valid() || span.End > len(d) {
		return nil
	}
	out := make(Document, span.Lines())
	copy(out, d[span.Start-1:span.End])
	return out
}

// Text joins the document back into a single string with LF separators.
func (d Document) Text() string {
	return strings.Join(d, "\n")
}
