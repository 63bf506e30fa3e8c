package assistant

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rassist/rassist-mcp/internal/locator"
	"github.com/rassist/rassist-mcp/pkg/types"
)

// FileListing holds the functions found in one file. Error is the read
// failure message, "" on success; a file that fails to read does not
// fail the scan.
type FileListing struct {
	Path      string                   `json:"path"`
	Functions []*types.FunctionDetails `json:"functions"`
	Error     string                   `json:"error,omitempty"`
}

// ScanStats summarizes a multi-file scan.
type ScanStats struct {
	FilesScanned   int           `json:"files_scanned"`
	FilesFailed    int           `json:"files_failed"`
	FunctionsFound int           `json:"functions_found"`
	Duration       time.Duration `json:"duration"`
}

// ScanReport is the full result of ScanFiles, listings in input order.
type ScanReport struct {
	Files []FileListing `json:"files"`
	Stats ScanStats     `json:"stats"`
}

// ScanFiles reads each file and lists its function definitions, using
// up to workers goroutines. workers <= 0 means runtime.NumCPU().
func ScanFiles(ctx context.Context, paths []string, workers int) (*ScanReport, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	start := time.Now()
	report := &ScanReport{Files: make([]FileListing, len(paths))}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			listing := FileListing{Path: path}
			content, err := os.ReadFile(path)
			if err != nil {
				listing.Error = err.Error()
			} else {
				listing.Functions = locator.ScanDocument(types.NewDocument(string(content)))
			}
			report.Files[i] = listing
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan interrupted: %w", err)
	}

	for _, listing := range report.Files {
		if listing.Error != "" {
			report.Stats.FilesFailed++
			continue
		}
		report.Stats.FilesScanned++
		report.Stats.FunctionsFound += len(listing.Functions)
	}
	report.Stats.Duration = time.Since(start)

	return report, nil
}
