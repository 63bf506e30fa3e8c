package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rassist/rassist-mcp/internal/history"
	"github.com/rassist/rassist-mcp/internal/locator"
	"github.com/rassist/rassist-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeHistoryDisabled = -32001 // History recording is turned off
	ErrorCodeProviderFailed  = -32002 // Chat provider returned an error
)

// handleLocateFunction handles the locate_function tool invocation
func (s *Server) handleLocateFunction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	doc, line, err := documentArgs(args)
	if err != nil {
		return nil, err
	}

	opts := s.opts
	if lookback := getIntDefault(args, "lookback", -1); lookback >= 0 {
		opts.Lookback = lookback
	}

	res := locator.Locate(doc, line, opts)
	return mcp.NewToolResultText(formatJSON(locateResponse(res))), nil
}

// handleListFunctions handles the list_functions tool invocation
func (s *Server) handleListFunctions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	text, ok := args["text"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "text parameter is required", map[string]interface{}{
			"param":  "text",
			"reason": "missing",
		})
	}

	doc := types.NewDocument(text)
	functions := locator.ScanDocument(doc)

	listed := make([]map[string]interface{}, 0, len(functions))
	for _, fn := range functions {
		listed = append(listed, functionJSON(fn))
	}

	response := map[string]interface{}{
		"count":     len(listed),
		"functions": listed,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleEditFunction handles the edit_function tool invocation
func (s *Server) handleEditFunction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	doc, line, err := documentArgs(args)
	if err != nil {
		return nil, err
	}

	instruction, ok := args["instruction"].(string)
	if !ok || strings.TrimSpace(instruction) == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "instruction parameter is required", map[string]interface{}{
			"param":  "instruction",
			"reason": "missing or empty",
		})
	}

	filePath := getStringDefault(args, "file_path", "")

	result, err := s.assistant.EditFunction(ctx, doc, line, instruction, filePath)
	if err != nil {
		return nil, newMCPError(ErrorCodeProviderFailed, "edit failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := locateResponse(result.Locate)
	if result.Replacement != "" {
		response["replacement"] = result.Replacement
		response["record_id"] = result.RecordID
		response["usage"] = usageJSON(result.Usage.PromptTokens, result.Usage.CompletionTokens)
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleDocumentFunction handles the document_function tool invocation
func (s *Server) handleDocumentFunction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	doc, line, err := documentArgs(args)
	if err != nil {
		return nil, err
	}

	filePath := getStringDefault(args, "file_path", "")

	result, err := s.assistant.DocumentFunction(ctx, doc, line, filePath)
	if err != nil {
		return nil, newMCPError(ErrorCodeProviderFailed, "documentation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := locateResponse(result.Locate)
	if result.DocBlock != "" {
		response["doc_block"] = result.DocBlock
		response["insert_line"] = result.InsertLine
		response["replace_existing"] = result.ReplaceExisting
		response["record_id"] = result.RecordID
		response["usage"] = usageJSON(result.Usage.PromptTokens, result.Usage.CompletionTokens)
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleExplainFunction handles the explain_function tool invocation
func (s *Server) handleExplainFunction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	doc, line, err := documentArgs(args)
	if err != nil {
		return nil, err
	}

	filePath := getStringDefault(args, "file_path", "")

	result, err := s.assistant.ExplainFunction(ctx, doc, line, filePath)
	if err != nil {
		return nil, newMCPError(ErrorCodeProviderFailed, "explanation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := locateResponse(result.Locate)
	if result.Explanation != "" {
		response["explanation"] = result.Explanation
		response["record_id"] = result.RecordID
		response["usage"] = usageJSON(result.Usage.PromptTokens, result.Usage.CompletionTokens)
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetHistory handles the get_history tool invocation
func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return nil, newMCPError(ErrorCodeHistoryDisabled, "history recording is disabled", nil)
	}

	args, _ := request.Params.Arguments.(map[string]interface{})

	limit := getIntDefault(args, "limit", 20)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	records, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read history", map[string]interface{}{
			"error": err.Error(),
		})
	}

	listed := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		listed = append(listed, recordJSON(rec))
	}

	response := map[string]interface{}{
		"count":   len(listed),
		"records": listed,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := map[string]interface{}{
		"server": map[string]interface{}{
			"name":       ServerName,
			"version":    ServerVersion,
			"build_mode": history.BuildMode,
		},
		"provider": map[string]interface{}{
			"name":  s.client.Provider(),
			"model": s.client.Model(),
		},
		"history": map[string]interface{}{
			"enabled": s.store != nil,
		},
	}

	if s.store != nil {
		stats, err := s.store.GetStats(ctx)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to get history statistics", map[string]interface{}{
				"error": err.Error(),
			})
		}
		hist := map[string]interface{}{
			"enabled":    true,
			"path":       s.store.Path(),
			"records":    stats.Records,
			"by_tool":    stats.ByTool,
			"size_bytes": stats.SizeBytes,
		}
		if stats.Records > 0 {
			hist["oldest"] = stats.Oldest.Format("2006-01-02T15:04:05Z07:00")
			hist["newest"] = stats.Newest.Format("2006-01-02T15:04:05Z07:00")
		}
		response["history"] = hist
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// documentArgs extracts the shared text and line parameters.
func documentArgs(args map[string]interface{}) (types.Document, int, error) {
	text, ok := args["text"].(string)
	if !ok {
		return nil, 0, newMCPError(ErrorCodeInvalidParams, "text parameter is required", map[string]interface{}{
			"param":  "text",
			"reason": "missing",
		})
	}

	line := getIntDefault(args, "line", 0)
	if line < 1 {
		return nil, 0, newMCPError(ErrorCodeInvalidParams, "line must be a positive integer", map[string]interface{}{
			"param": "line",
			"value": line,
		})
	}

	return types.NewDocument(text), line, nil
}

// locateResponse renders a locate result. A failed or partial locate is
// a normal response, not a protocol error.
func locateResponse(res *types.LocateResult) map[string]interface{} {
	response := map[string]interface{}{
		"found":   res.Found(),
		"outcome": string(res.Outcome),
	}
	if res.Function != nil {
		response["function"] = functionJSON(res.Function)
	}
	if res.Advisory != "" {
		response["advisory"] = res.Advisory
	}
	return response
}

// functionJSON renders located function details.
func functionJSON(fn *types.FunctionDetails) map[string]interface{} {
	out := map[string]interface{}{
		"name":       fn.Name,
		"start_line": fn.Span.Start,
		"terminated": fn.Terminated(),
	}
	if fn.Terminated() {
		out["end_line"] = fn.Span.End
	}
	if fn.Doc != nil {
		out["doc"] = map[string]interface{}{
			"start_line": fn.Doc.Start,
			"end_line":   fn.Doc.End,
		}
	}
	return out
}

// recordJSON renders a history record.
func recordJSON(rec *history.Record) map[string]interface{} {
	out := map[string]interface{}{
		"id":         rec.ID,
		"tool":       rec.Tool,
		"function":   rec.FunctionName,
		"provider":   rec.Provider,
		"model":      rec.Model,
		"created_at": rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		"usage":      usageJSON(rec.PromptTokens, rec.CompletionTokens),
	}
	if rec.FilePath != "" {
		out["file_path"] = rec.FilePath
	}
	if rec.Span.Valid() {
		out["start_line"] = rec.Span.Start
		out["end_line"] = rec.Span.End
	}
	return out
}

// usageJSON renders token accounting.
func usageJSON(promptTokens, completionTokens int) map[string]interface{} {
	return map[string]interface{}{
		"prompt_tokens":     promptTokens,
		"completion_tokens": completionTokens,
	}
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
