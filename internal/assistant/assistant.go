package assistant

import (
	"context"
	"fmt"

	"github.com/rassist/rassist-mcp/internal/history"
	"github.com/rassist/rassist-mcp/internal/llm"
	"github.com/rassist/rassist-mcp/internal/locator"
	"github.com/rassist/rassist-mcp/internal/prompt"
	"github.com/rassist/rassist-mcp/pkg/types"
)

// Config carries the knobs shared by every assistant request.
type Config struct {
	// Locator controls the function search.
	Locator locator.Options
	// Temperature is the sampling temperature for every chat request.
	Temperature float64
	// MaxTokens caps completion length; 0 means the provider default.
	MaxTokens int
}

// Assistant coordinates the pipeline: locate -> prompt -> complete -> record.
type Assistant struct {
	client  llm.Client
	builder *prompt.Builder
	store   *history.Store // nil disables history recording
	cfg     Config
}

// New creates an Assistant. store may be nil when no history should be
// kept.
func New(client llm.Client, builder *prompt.Builder, store *history.Store, cfg Config) *Assistant {
	return &Assistant{
		client:  client,
		builder: builder,
		store:   store,
		cfg:     cfg,
	}
}

// EditResult is the outcome of an instruction-driven rewrite.
type EditResult struct {
	Locate *types.LocateResult
	// Replacement is the rewritten function text to substitute for the
	// located span. Empty when the locate failed or was partial.
	Replacement string
	RecordID    string
	Usage       llm.Usage
}

// DocResult is the outcome of a documentation generation request.
type DocResult struct {
	Locate *types.LocateResult
	// DocBlock is the generated roxygen text.
	DocBlock string
	// InsertLine is where the block belongs: the first line of the
	// existing doc block when one is being replaced, otherwise the
	// function's first line.
	InsertLine int
	// ReplaceExisting is true when the function already had a doc
	// block, which DocBlock should replace.
	ReplaceExisting bool
	RecordID        string
	Usage           llm.Usage
}

// ExplainResult is the outcome of an explanation request.
type ExplainResult struct {
	Locate      *types.LocateResult
	Explanation string
	RecordID    string
	Usage       llm.Usage
}

// EditFunction rewrites the function at the cursor according to the
// instruction. A failed or partial locate is not an error: the result
// carries the locate outcome and no replacement, and the caller relays
// the advisory.
func (a *Assistant) EditFunction(ctx context.Context, doc types.Document, line int, instruction, filePath string) (*EditResult, error) {
	res := locator.Locate(doc, line, a.cfg.Locator)
	out := &EditResult{Locate: res}
	if !a.actionable(res) {
		return out, nil
	}

	resp, recID, err := a.complete(ctx, prompt.TaskEdit, doc, res.Function, instruction, filePath)
	if err != nil {
		return nil, err
	}
	out.Replacement = resp.Text
	out.RecordID = recID
	out.Usage = resp.Usage
	return out, nil
}

// DocumentFunction generates a roxygen block for the function at the
// cursor.
func (a *Assistant) DocumentFunction(ctx context.Context, doc types.Document, line int, filePath string) (*DocResult, error) {
	res := locator.Locate(doc, line, a.cfg.Locator)
	out := &DocResult{Locate: res}
	if !a.actionable(res) {
		return out, nil
	}

	resp, recID, err := a.complete(ctx, prompt.TaskDocument, doc, res.Function, "", filePath)
	if err != nil {
		return nil, err
	}
	out.DocBlock = resp.Text
	out.RecordID = recID
	out.Usage = resp.Usage
	out.InsertLine = res.Function.Span.Start
	if res.Function.Doc != nil {
		out.InsertLine = res.Function.Doc.Start
		out.ReplaceExisting = true
	}
	return out, nil
}

// ExplainFunction asks the model to explain the function at the cursor.
// Unlike the editing tasks, a partial span is still explainable.
func (a *Assistant) ExplainFunction(ctx context.Context, doc types.Document, line int, filePath string) (*ExplainResult, error) {
	res := locator.Locate(doc, line, a.cfg.Locator)
	out := &ExplainResult{Locate: res}
	if !res.Found() {
		return out, nil
	}

	resp, recID, err := a.complete(ctx, prompt.TaskExplain, doc, res.Function, "", filePath)
	if err != nil {
		return nil, err
	}
	out.Explanation = resp.Text
	out.RecordID = recID
	out.Usage = resp.Usage
	return out, nil
}

// actionable reports whether a locate result identifies a complete span
// that can be edited in place.
func (a *Assistant) actionable(res *types.LocateResult) bool {
	return res.Found() && res.Function.Terminated()
}

// complete renders the prompt, runs the chat request, and records the
// interaction.
func (a *Assistant) complete(ctx context.Context, task prompt.Task, doc types.Document, fn *types.FunctionDetails, instruction, filePath string) (*llm.Response, string, error) {
	system, user, err := a.builder.Build(task, prompt.FunctionContext(doc, fn, instruction))
	if err != nil {
		return nil, "", fmt.Errorf("build prompt: %w", err)
	}

	req := llm.Request{
		System:      system,
		User:        user,
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
	}
	resp, err := a.client.Complete(ctx, req)
	if err != nil {
		return nil, "", fmt.Errorf("chat completion: %w", err)
	}

	recID := ""
	if a.store != nil {
		rec := &history.Record{
			Tool:             string(task) + "_function",
			FilePath:         filePath,
			Span:             fn.Span,
			FunctionName:     fn.Name,
			PromptHash:       llm.RequestHash(resp.Provider, resp.Model, req),
			Response:         resp.Text,
			Provider:         resp.Provider,
			Model:            resp.Model,
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		}
		if err := a.store.Save(ctx, rec); err != nil {
			return nil, "", fmt.Errorf("record interaction: %w", err)
		}
		recID = rec.ID
	}

	return resp, recID, nil
}
