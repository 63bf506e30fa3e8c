// Package types provides shared type definitions for the rassist MCP server.
//
// This package defines the domain types used across the module: source
// documents, inclusive line spans, located function details, and tagged
// locate results.
//
// # Core Types
//
// Document is a source file as 1-indexed lines:
//
//	doc := types.NewDocument(fileText)
//	line := doc.Line(12)
//
// Span is an inclusive 1-indexed line range:
//
//	span := types.Span{Start: 4, End: 9}
//	body := doc.Slice(span)
//
// FunctionDetails describes one located R function definition, including
// its span, assigned name, and any roxygen documentation block directly
// above it:
//
//	details := &types.FunctionDetails{
//	    Name: "fit_model",
//	    Span: types.Span{Start: 10, End: 42},
//	    Doc:  &types.Span{Start: 6, End: 9},
//	}
//
// LocateResult pairs the details with an Outcome tag telling callers which
// search phase produced the match (backward from the cursor, forward
// fallback, or not found at all). Locate failures are values, never errors:
// malformed input degrades to a not_found or partial result with an
// advisory message.
//
// # Validation
//
// The locate types implement validation methods to ensure structural
// integrity:
//
//	if err := result.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package types
