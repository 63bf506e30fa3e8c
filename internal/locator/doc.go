// Package locator finds R function definitions lexically in source text.
//
// Given a document and a cursor line, Locate resolves the enclosing
// function definition: its inclusive line span, the name it is assigned
// to, and any roxygen (#') documentation block directly above it. No AST
// is built; the package understands exactly as much R as the job needs:
// assignment-to-function patterns, brace balance, string literals, and
// line comments.
//
// # Search Strategy
//
// The search runs in two phases. Phase one scans backward from the
// cursor toward the top of the file looking for a definition start,
// matching both the one-line form
//
//	fit_model <- function(data, tol = 1e-8) {
//
// and the split form where the assignee and keyword sit on adjacent
// lines:
//
//	fit_model <-
//	function(data, tol = 1e-8) {
//
// Phase two, entered only when phase one fails, scans forward to the end
// of the document with the same patterns. The result's Outcome field
// records which phase matched, so callers can tell an enclosing function
// from the next one below the cursor.
//
// # End Detection
//
// The end of the body is the first line on which the running count of
// closing braces catches up with a positive count of opening braces.
// Counting is done by a character scanner that skips string literals
// (single, double, and backtick quoted, with backslash escapes where R
// has them) and # comments, so braces embedded in strings or comments do
// not skew the balance. A body still open at end of file produces a
// partial result: start line and name are reported, the span end is left
// unset, and an advisory message explains why.
//
// # Purity
//
// Locate and ScanDocument are pure functions of their inputs. They never
// return errors and never panic; every degenerate input maps to a
// not_found or partial result.
package locator
