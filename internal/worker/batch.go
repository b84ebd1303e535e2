package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/psethzp/rosti/internal/model"
)

// Reviewer runs one claims file through the verification pipeline
type Reviewer interface {
	ReviewFile(ctx context.Context, path string) (*model.ReviewReport, error)
}

// FileResult is the outcome of reviewing one claims file
type FileResult struct {
	Path   string
	Report *model.ReviewReport
	Err    error
}

// BatchProcessor reviews multiple claims files concurrently
type BatchProcessor struct {
	reviewer    Reviewer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(reviewer Reviewer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		reviewer:    reviewer,
		concurrency: concurrency,
	}
}

// ProcessPaths reviews the given claims files concurrently.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []FileResult {
	if len(paths) == 0 {
		return []FileResult{}
	}

	pool := NewPool[FileResult](ctx, b.concurrency)
	pool.Start()

	for _, path := range paths {
		path := path
		pool.Submit(func(ctx context.Context) FileResult {
			report, err := b.reviewer.ReviewFile(ctx, path)
			return FileResult{Path: path, Report: report, Err: err}
		})
	}

	return pool.Wait()
}

// ProcessFile reads claims-file paths from a list file and reviews them
// concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]FileResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads entries from a list file (one per line).
// Blank lines and #-comments are skipped, duplicates removed.
func ReadPathsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
