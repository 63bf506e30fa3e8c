package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rassist/rassist-mcp/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := &Record{
		Tool:             "edit_function",
		FilePath:         "R/model.R",
		Span:             types.Span{Start: 10, End: 42},
		FunctionName:     "fit_model",
		PromptHash:       "abc123",
		Response:         "fit_model <- function() NULL",
		Provider:         "static",
		Model:            "static",
		PromptTokens:     100,
		CompletionTokens: 20,
	}
	require.NoError(t, store.Save(ctx, rec))
	assert.NotEmpty(t, rec.ID, "Save assigns an ID")
	assert.False(t, rec.CreatedAt.IsZero(), "Save assigns CreatedAt")

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Tool, got.Tool)
	assert.Equal(t, rec.FilePath, got.FilePath)
	assert.Equal(t, rec.Span, got.Span)
	assert.Equal(t, rec.FunctionName, got.FunctionName)
	assert.Equal(t, rec.Response, got.Response)
	assert.Equal(t, rec.PromptTokens, got.PromptTokens)
}

func TestGet_NotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		rec := &Record{
			Tool:      "explain_function",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Response:  "r",
		}
		require.NoError(t, store.Save(ctx, rec))
	}

	records, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Newest first.
	assert.True(t, records[0].CreatedAt.After(records[1].CreatedAt))
	assert.True(t, records[1].CreatedAt.After(records[2].CreatedAt))
}

func TestRecent_DefaultLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &Record{Tool: "t", Response: "r"}))

	records, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestPrune(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	old := &Record{Tool: "t", Response: "old", CreatedAt: time.Now().UTC().Add(-48 * time.Hour)}
	fresh := &Record{Tool: "t", Response: "fresh"}
	require.NoError(t, store.Save(ctx, old))
	require.NoError(t, store.Save(ctx, fresh))

	pruned, err := store.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pruned)

	_, err = store.Get(ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestGetStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &Record{Tool: "edit_function", Response: "a"}))
	require.NoError(t, store.Save(ctx, &Record{Tool: "edit_function", Response: "b"}))
	require.NoError(t, store.Save(ctx, &Record{Tool: "explain_function", Response: "c"}))

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Records)
	assert.EqualValues(t, 2, stats.ByTool["edit_function"])
	assert.EqualValues(t, 1, stats.ByTool["explain_function"])
	assert.Greater(t, stats.SizeBytes, int64(0))
}

func TestGetStats_Empty(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetStats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.Records)
	assert.True(t, stats.Oldest.IsZero())
}

func TestSave_PreservesExplicitID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := &Record{ID: "fixed-id", Tool: "t", Response: "r"}
	require.NoError(t, store.Save(ctx, rec))
	assert.Equal(t, "fixed-id", rec.ID)

	got, err := store.Get(ctx, "fixed-id")
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", got.ID)
}
