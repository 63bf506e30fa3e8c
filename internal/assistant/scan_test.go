package assistant

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestScanFiles(t *testing.T) {
	dir := t.TempDir()
	one := writeFile(t, dir, "one.R", "f <- function() { 1 }\ng <- function() { 2 }\n")
	two := writeFile(t, dir, "two.R", "x <- 1\n")
	missing := filepath.Join(dir, "missing.R")

	report, err := ScanFiles(context.Background(), []string{one, two, missing}, 2)
	require.NoError(t, err)
	require.Len(t, report.Files, 3)

	// Listings come back in input order regardless of which worker ran
	// them.
	assert.Equal(t, one, report.Files[0].Path)
	assert.Len(t, report.Files[0].Functions, 2)
	assert.Equal(t, "f", report.Files[0].Functions[0].Name)

	assert.Equal(t, two, report.Files[1].Path)
	assert.Empty(t, report.Files[1].Functions)

	assert.NotEmpty(t, report.Files[2].Error)

	assert.Equal(t, 2, report.Stats.FilesScanned)
	assert.Equal(t, 1, report.Stats.FilesFailed)
	assert.Equal(t, 2, report.Stats.FunctionsFound)
	assert.Greater(t, report.Stats.Duration, time.Duration(0))
}

func TestScanFiles_DefaultWorkers(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.R", "f <- function() { 1 }\n")

	report, err := ScanFiles(context.Background(), []string{path}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Stats.FilesScanned)
}

func TestScanFiles_Empty(t *testing.T) {
	report, err := ScanFiles(context.Background(), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, report.Files)
	assert.Equal(t, 0, report.Stats.FilesScanned)
}

func TestScanFiles_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	path := writeFile(t, dir, "a.R", "f <- function() { 1 }\n")

	_, err := ScanFiles(ctx, []string{path}, 1)
	assert.Error(t, err)
}
