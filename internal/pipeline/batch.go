package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/blindcheck/internal/model"
)

// DefaultConcurrency is the number of files checked at once when no
// concurrency is configured.
const DefaultConcurrency = 4

// BatchProcessor handles concurrent checking of multiple submission files.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-file execution
// 2. It isolates failures: one broken PDF never stops the others
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each file.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent checks.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// now returns the check time; replaced in tests.
	now func() time.Time
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent checks.
// Non-positive values keep DefaultConcurrency.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each file to create a fresh
// pipeline instance, so pipeline state never leaks between files.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch checks multiple files concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
//
// Results keep the order of paths. Every path gets a result; files that
// failed carry the error message. The error return is only set when the
// batch was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, paths []string) ([]*model.PaperResult, error) {
	results := make([]*model.PaperResult, len(paths))
	err := bp.ProcessBatchWithCallback(ctx, paths, func(result *model.PaperResult, index int) {
		// Each index is written by exactly one goroutine.
		results[index] = result
	})

	FillCancelled(paths, results, err)
	return results, err
}

// FillCancelled records a failed result for every path whose entry in
// results is still nil because the batch stopped before reaching it.
// The error message is batchErr, or context.Canceled when batchErr is nil.
func FillCancelled(paths []string, results []*model.PaperResult, batchErr error) {
	message := context.Canceled.Error()
	if batchErr != nil {
		message = batchErr.Error()
	}
	for i, result := range results {
		if result != nil {
			continue
		}
		result = model.NewPaperResult(filepath.Base(paths[i]))
		result.Path = paths[i]
		result.Error = message
		results[i] = result
	}
}

// ProcessBatchWithCallback checks multiple files and calls a callback
// for each completed check. This is useful for streaming results.
//
// The callback receives the result and the index of the file in the
// original slice. The callback is called from the goroutine that completed
// the check, so it should be thread-safe if it accesses shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	paths []string,
	callback func(result *model.PaperResult, index int),
) error {
	bp.logger.Info("starting batch processing",
		"total_files", len(paths),
		"concurrency", bp.concurrency,
	)
	startTime := bp.now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			callback(bp.process(ctx, path, i, len(paths)), i)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_files", len(paths),
		"elapsed", bp.now().Sub(startTime),
	)

	return err
}

// process checks one file. Failures are recorded in the result, never returned,
// so the errgroup keeps running the other files.
func (bp *BatchProcessor) process(ctx context.Context, path string, index, total int) *model.PaperResult {
	bp.logger.Debug("checking file",
		"file", path,
		"index", index+1,
		"total", total,
	)

	result := model.NewPaperResult(filepath.Base(path))
	result.Path = path

	if err := bp.pipelineFactory().Execute(ctx, NewJob(path), result); err != nil {
		bp.logger.Warn("check failed", "file", path, "error", err)
	}
	result.CheckedAt = bp.now()

	return result
}
