// Package mcp implements the Model Context Protocol (MCP) server for rassist.
//
// The MCP server exposes the R assistant tools to AI coding clients:
//   - locate_function: Find the function definition at a cursor position
//   - list_functions: List every function definition in a file
//   - edit_function: Rewrite the function at the cursor from an instruction
//   - document_function: Generate a roxygen2 block for the function at the cursor
//   - explain_function: Explain the function at the cursor
//   - get_history: List recent assistant interactions
//   - get_status: Report provider, model, and history statistics
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server is typically started via the serve command:
//
//	rassist serve
//
// It then listens on stdin for MCP protocol messages and writes
// responses to stdout. Logging goes to stderr; stdout is reserved for
// the protocol.
//
// # Tool: locate_function
//
//	Request:
//	{
//	  "name": "locate_function",
//	  "arguments": {
//	    "text": "parse <- function(x) {\n  x\n}\n",
//	    "line": 2
//	  }
//	}
//
//	Response:
//	{
//	  "found": true,
//	  "outcome": "backward",
//	  "function": {
//	    "name": "parse",
//	    "start_line": 1,
//	    "end_line": 3,
//	    "terminated": true
//	  }
//	}
//
// A cursor with no function at or below it, or a body that is never
// closed, still yields a normal response carrying an advisory message;
// those are not protocol errors.
//
// # Tool: edit_function
//
//	Request:
//	{
//	  "name": "edit_function",
//	  "arguments": {
//	    "text": "...full file text...",
//	    "line": 12,
//	    "instruction": "vectorize the loop"
//	  }
//	}
//
//	Response:
//	{
//	  "found": true,
//	  "outcome": "backward",
//	  "function": {...},
//	  "replacement": "parse <- function(x) {...}",
//	  "record_id": "0b8f...",
//	  "usage": {"prompt_tokens": 180, "completion_tokens": 64}
//	}
//
// document_function and explain_function follow the same shape, with
// doc_block/insert_line/replace_existing and explanation fields
// respectively.
//
// # Error Handling
//
// The server returns standard JSON-RPC error responses:
//
//	{
//	  "error": {
//	    "code": -32602,
//	    "message": "Invalid params",
//	    "data": {
//	      "param": "line",
//	      "reason": "missing or not a positive integer"
//	    }
//	  }
//	}
//
// Error codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error (database, filesystem, etc.)
//   - -32001: History recording is disabled
//   - -32002: Chat provider failed
//
// # MCP Client Configuration
//
// Configure in the client's MCP settings:
//
//	{
//	  "mcpServers": {
//	    "rassist": {
//	      "command": "/usr/local/bin/rassist",
//	      "args": ["serve"],
//	      "env": {
//	        "OPENAI_API_KEY": "your-api-key"
//	      }
//	    }
//	  }
//	}
package mcp
