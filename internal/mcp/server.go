package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/rassist/rassist-mcp/internal/assistant"
	"github.com/rassist/rassist-mcp/internal/config"
	"github.com/rassist/rassist-mcp/internal/history"
	"github.com/rassist/rassist-mcp/internal/llm"
	"github.com/rassist/rassist-mcp/internal/locator"
	"github.com/rassist/rassist-mcp/internal/prompt"
)

const (
	// ServerName is the MCP server name
	ServerName = "rassist-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp       *server.MCPServer
	assistant *assistant.Assistant
	client    llm.Client
	store     *history.Store // nil when history is disabled
	opts      locator.Options
}

// NewServer creates a new MCP server instance from the configuration.
func NewServer(cfg *config.Config) (*Server, error) {
	client, err := cfg.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat client: %w", err)
	}

	builder, err := prompt.NewBuilder(cfg.Prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prompt builder: %w", err)
	}

	var store *history.Store
	if !cfg.HistoryDisabled() {
		dbPath := cfg.History.Path
		if dbPath == "" {
			dbPath, err = config.DefaultDBPath()
			if err != nil {
				return nil, err
			}
		}
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		store, err = history.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open history database: %w", err)
		}
		if cfg.History.MaxAgeDays > 0 {
			maxAge := time.Duration(cfg.History.MaxAgeDays) * 24 * time.Hour
			if _, err := store.Prune(context.Background(), maxAge); err != nil {
				// Pruning is housekeeping; a failure should not block startup.
				log.Printf("history prune failed: %v", err)
			}
		}
	}

	opts := locator.Options{Lookback: cfg.Locator.Lookback}
	assistantCfg := assistant.Config{
		Locator:     opts,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:       mcpServer,
		assistant: assistant.New(client, builder, store, assistantCfg),
		client:    client,
		store:     store,
		opts:      opts,
	}

	// Register tools
	if err := s.registerTools(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.Close() }()
	return server.ServeStdio(s.mcp)
}

// Close releases the history database and chat client.
func (s *Server) Close() error {
	var firstErr error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			firstErr = err
		}
	}
	if err := s.client.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(locateFunctionTool(), s.handleLocateFunction)
	s.mcp.AddTool(listFunctionsTool(), s.handleListFunctions)
	s.mcp.AddTool(editFunctionTool(), s.handleEditFunction)
	s.mcp.AddTool(documentFunctionTool(), s.handleDocumentFunction)
	s.mcp.AddTool(explainFunctionTool(), s.handleExplainFunction)
	s.mcp.AddTool(getHistoryTool(), s.handleGetHistory)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)

	return nil
}
