package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = `#' Add two numbers
#' @param x first
add <- function(x, y) {
  x + y
}

helper <- function(n) {
  n * 2
}
`

// callTool invokes a handler with raw arguments and decodes the JSON
// text result.
func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) map[string]interface{} {
	t.Helper()

	var req mcp.CallToolRequest
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &decoded))
	return decoded
}

// callToolErr invokes a handler expecting a protocol error.
func callToolErr(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) *MCPError {
	t.Helper()

	var req mcp.CallToolRequest
	req.Params.Arguments = args

	_, err := handler(context.Background(), req)
	require.Error(t, err)

	mcpErr, ok := err.(*MCPError)
	require.True(t, ok, "expected *MCPError, got %T", err)
	return mcpErr
}

func TestLocateFunctionTool(t *testing.T) {
	s := newTestServer(t)

	t.Run("finds enclosing function", func(t *testing.T) {
		resp := callTool(t, s.handleLocateFunction, map[string]interface{}{
			"text": sampleSource,
			"line": float64(4),
		})

		assert.Equal(t, true, resp["found"])
		assert.Equal(t, "backward", resp["outcome"])

		fn := resp["function"].(map[string]interface{})
		assert.Equal(t, "add", fn["name"])
		assert.Equal(t, float64(3), fn["start_line"])
		assert.Equal(t, float64(5), fn["end_line"])

		doc := fn["doc"].(map[string]interface{})
		assert.Equal(t, float64(1), doc["start_line"])
		assert.Equal(t, float64(2), doc["end_line"])
	})

	t.Run("no function below cursor is a normal response", func(t *testing.T) {
		resp := callTool(t, s.handleLocateFunction, map[string]interface{}{
			"text": "x <- 1\ny <- 2\n",
			"line": float64(1),
		})

		assert.Equal(t, false, resp["found"])
		assert.Equal(t, "not_found", resp["outcome"])
		assert.NotEmpty(t, resp["advisory"])
		assert.Nil(t, resp["function"])
	})

	t.Run("lookback override forces forward fallback", func(t *testing.T) {
		resp := callTool(t, s.handleLocateFunction, map[string]interface{}{
			"text":     sampleSource,
			"line":     float64(6),
			"lookback": float64(1),
		})

		assert.Equal(t, "forward", resp["outcome"])
		fn := resp["function"].(map[string]interface{})
		assert.Equal(t, "helper", fn["name"])
	})

	t.Run("unterminated body carries advisory", func(t *testing.T) {
		resp := callTool(t, s.handleLocateFunction, map[string]interface{}{
			"text": "broken <- function(x) {\n  x\n",
			"line": float64(2),
		})

		assert.Equal(t, true, resp["found"])
		fn := resp["function"].(map[string]interface{})
		assert.Equal(t, false, fn["terminated"])
		assert.Nil(t, fn["end_line"])
		assert.NotEmpty(t, resp["advisory"])
	})

	t.Run("missing line is invalid params", func(t *testing.T) {
		mcpErr := callToolErr(t, s.handleLocateFunction, map[string]interface{}{
			"text": sampleSource,
		})
		assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
	})

	t.Run("missing text is invalid params", func(t *testing.T) {
		mcpErr := callToolErr(t, s.handleLocateFunction, map[string]interface{}{
			"line": float64(1),
		})
		assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
	})
}

func TestListFunctionsTool(t *testing.T) {
	s := newTestServer(t)

	t.Run("lists every definition in order", func(t *testing.T) {
		resp := callTool(t, s.handleListFunctions, map[string]interface{}{
			"text": sampleSource,
		})

		assert.Equal(t, float64(2), resp["count"])
		functions := resp["functions"].([]interface{})
		require.Len(t, functions, 2)

		first := functions[0].(map[string]interface{})
		second := functions[1].(map[string]interface{})
		assert.Equal(t, "add", first["name"])
		assert.Equal(t, "helper", second["name"])
	})

	t.Run("empty file lists nothing", func(t *testing.T) {
		resp := callTool(t, s.handleListFunctions, map[string]interface{}{
			"text": "",
		})
		assert.Equal(t, float64(0), resp["count"])
	})
}

func TestEditFunctionTool(t *testing.T) {
	s := newTestServer(t)

	t.Run("returns replacement and records history", func(t *testing.T) {
		resp := callTool(t, s.handleEditFunction, map[string]interface{}{
			"text":        sampleSource,
			"line":        float64(4),
			"instruction": "add input validation",
		})

		assert.Equal(t, true, resp["found"])
		assert.NotEmpty(t, resp["replacement"])
		assert.NotEmpty(t, resp["record_id"])
	})

	t.Run("no function yields advisory without replacement", func(t *testing.T) {
		resp := callTool(t, s.handleEditFunction, map[string]interface{}{
			"text":        "x <- 1\n",
			"line":        float64(1),
			"instruction": "rename",
		})

		assert.Equal(t, false, resp["found"])
		assert.Nil(t, resp["replacement"])
		assert.NotEmpty(t, resp["advisory"])
	})

	t.Run("empty instruction is invalid params", func(t *testing.T) {
		mcpErr := callToolErr(t, s.handleEditFunction, map[string]interface{}{
			"text":        sampleSource,
			"line":        float64(4),
			"instruction": "   ",
		})
		assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
	})
}

func TestDocumentFunctionTool(t *testing.T) {
	s := newTestServer(t)

	t.Run("replaces an existing doc block", func(t *testing.T) {
		resp := callTool(t, s.handleDocumentFunction, map[string]interface{}{
			"text": sampleSource,
			"line": float64(4),
		})

		assert.NotEmpty(t, resp["doc_block"])
		assert.Equal(t, float64(1), resp["insert_line"])
		assert.Equal(t, true, resp["replace_existing"])
	})

	t.Run("inserts above an undocumented function", func(t *testing.T) {
		resp := callTool(t, s.handleDocumentFunction, map[string]interface{}{
			"text": sampleSource,
			"line": float64(8),
		})

		assert.Equal(t, float64(7), resp["insert_line"])
		assert.Equal(t, false, resp["replace_existing"])
	})
}

func TestExplainFunctionTool(t *testing.T) {
	s := newTestServer(t)

	resp := callTool(t, s.handleExplainFunction, map[string]interface{}{
		"text": sampleSource,
		"line": float64(3),
	})

	assert.Equal(t, true, resp["found"])
	assert.NotEmpty(t, resp["explanation"])
	assert.NotEmpty(t, resp["record_id"])
}

func TestGetHistoryTool(t *testing.T) {
	t.Run("returns recorded interactions newest first", func(t *testing.T) {
		s := newTestServer(t)

		callTool(t, s.handleExplainFunction, map[string]interface{}{
			"text": sampleSource,
			"line": float64(3),
		})
		callTool(t, s.handleEditFunction, map[string]interface{}{
			"text":        sampleSource,
			"line":        float64(8),
			"instruction": "simplify",
		})

		resp := callTool(t, s.handleGetHistory, map[string]interface{}{})
		assert.Equal(t, float64(2), resp["count"])

		records := resp["records"].([]interface{})
		require.Len(t, records, 2)
		newest := records[0].(map[string]interface{})
		assert.Equal(t, "edit_function", newest["tool"])
		assert.Equal(t, "helper", newest["function"])
	})

	t.Run("limit out of range is invalid params", func(t *testing.T) {
		s := newTestServer(t)
		mcpErr := callToolErr(t, s.handleGetHistory, map[string]interface{}{
			"limit": float64(500),
		})
		assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
	})

	t.Run("disabled history is a domain error", func(t *testing.T) {
		s := newTestServer(t)
		s.store = nil

		mcpErr := callToolErr(t, s.handleGetHistory, map[string]interface{}{})
		assert.Equal(t, ErrorCodeHistoryDisabled, mcpErr.Code)
	})
}

func TestGetStatusTool(t *testing.T) {
	s := newTestServer(t)

	callTool(t, s.handleExplainFunction, map[string]interface{}{
		"text": sampleSource,
		"line": float64(3),
	})

	resp := callTool(t, s.handleGetStatus, map[string]interface{}{})

	provider := resp["provider"].(map[string]interface{})
	assert.Equal(t, "static", provider["name"])

	hist := resp["history"].(map[string]interface{})
	assert.Equal(t, true, hist["enabled"])
	assert.Equal(t, float64(1), hist["records"])

	byTool := hist["by_tool"].(map[string]interface{})
	assert.Equal(t, float64(1), byTool["explain_function"])
}
