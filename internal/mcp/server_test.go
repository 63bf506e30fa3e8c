package mcp

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rassist/rassist-mcp/internal/config"
	"github.com/rassist/rassist-mcp/internal/llm"
)

// newTestServer builds a server on the static provider with a
// throwaway history database.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.Default()
	cfg.LLM.Provider = llm.ProviderStatic
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")

	s, err := NewServer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestServer_Initialization(t *testing.T) {
	t.Run("server has all required components", func(t *testing.T) {
		s := newTestServer(t)

		assert.NotNil(t, s.mcp, "MCP server should be initialized")
		assert.NotNil(t, s.assistant, "Assistant should be initialized")
		assert.NotNil(t, s.client, "Chat client should be initialized")
		assert.NotNil(t, s.store, "History store should be initialized")
	})

	t.Run("history off leaves store nil", func(t *testing.T) {
		cfg := config.Default()
		cfg.LLM.Provider = llm.ProviderStatic
		cfg.History.Path = "off"

		s, err := NewServer(cfg)
		require.NoError(t, err)
		defer func() { _ = s.Close() }()

		assert.Nil(t, s.store)
	})

	t.Run("lookback flows into locator options", func(t *testing.T) {
		cfg := config.Default()
		cfg.LLM.Provider = llm.ProviderStatic
		cfg.History.Path = "off"
		cfg.Locator.Lookback = 25

		s, err := NewServer(cfg)
		require.NoError(t, err)
		defer func() { _ = s.Close() }()

		assert.Equal(t, 25, s.opts.Lookback)
	})

	t.Run("unknown provider fails", func(t *testing.T) {
		cfg := config.Default()
		cfg.LLM.Provider = "teleport"
		cfg.History.Path = "off"

		_, err := NewServer(cfg)
		assert.Error(t, err)
	})
}
