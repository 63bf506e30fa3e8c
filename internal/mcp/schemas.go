package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// textProperty is the shared schema for the R source text parameter.
func textProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Full text of the R source file",
	}
}

// lineProperty is the shared schema for the cursor line parameter.
func lineProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "1-indexed cursor line within the source text",
		"minimum":     1,
	}
}

// locateFunctionTool returns the tool definition for locate_function
func locateFunctionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "locate_function",
		Description: "Find the R function definition enclosing or following a cursor line, with its span and roxygen doc block",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": textProperty(),
				"line": lineProperty(),
				"lookback": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum lines to scan above the cursor (0 scans to the top of the file)",
					"default":     0,
					"minimum":     0,
				},
			},
			Required: []string{"text", "line"},
		},
	}
}

// listFunctionsTool returns the tool definition for list_functions
func listFunctionsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_functions",
		Description: "List every function definition in an R source file with names and line spans",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": textProperty(),
			},
			Required: []string{"text"},
		},
	}
}

// editFunctionTool returns the tool definition for edit_function
func editFunctionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "edit_function",
		Description: "Rewrite the R function at the cursor according to a natural-language instruction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": textProperty(),
				"line": lineProperty(),
				"instruction": map[string]interface{}{
					"type":        "string",
					"description": "What to change about the function",
				},
				"file_path": map[string]interface{}{
					"type":        "string",
					"description": "Optional source file path, recorded in history",
				},
			},
			Required: []string{"text", "line", "instruction"},
		},
	}
}

// documentFunctionTool returns the tool definition for document_function
func documentFunctionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "document_function",
		Description: "Generate a roxygen2 documentation block for the R function at the cursor",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": textProperty(),
				"line": lineProperty(),
				"file_path": map[string]interface{}{
					"type":        "string",
					"description": "Optional source file path, recorded in history",
				},
			},
			Required: []string{"text", "line"},
		},
	}
}

// explainFunctionTool returns the tool definition for explain_function
func explainFunctionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "explain_function",
		Description: "Explain what the R function at the cursor does",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": textProperty(),
				"line": lineProperty(),
				"file_path": map[string]interface{}{
					"type":        "string",
					"description": "Optional source file path, recorded in history",
				},
			},
			Required: []string{"text", "line"},
		},
	}
}

// getHistoryTool returns the tool definition for get_history
func getHistoryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_history",
		Description: "List recent assistant interactions, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of records to return (1-100)",
					"default":     20,
					"minimum":     1,
					"maximum":     100,
				},
			},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report the active chat provider, model, and history statistics",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
