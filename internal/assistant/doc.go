// Package assistant coordinates the editing pipeline: locate the
// function under the cursor, render a task prompt, run the chat
// completion, and record the interaction.
//
// The three per-function operations mirror the MCP tools that call
// them:
//
//	result, err := a.EditFunction(ctx, doc, cursorLine, "vectorize the loop", path)
//	result, err := a.DocumentFunction(ctx, doc, cursorLine, path)
//	result, err := a.ExplainFunction(ctx, doc, cursorLine, path)
//
// A locate miss is not an error: the result carries the tagged locate
// outcome and its advisory, and no completion is attempted. Only
// provider and storage failures surface as errors.
//
// ScanFiles is the batch entry point: it lists every function in a set
// of files concurrently, bounded by a worker limit, without touching
// the chat provider.
package assistant
