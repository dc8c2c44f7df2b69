// Package pipeline runs the parser over batches of documents.
package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/logger"
	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/store"
	"github.com/jonathan/resume-parser/internal/types"
)

// DefaultConcurrency is used when Options.Concurrency is not positive.
const DefaultConcurrency = 4

// Progress event stages
const (
	StageStarted = "started"
	StageParsed  = "parsed"
	StageFailed  = "failed"
	StageSaved   = "saved"
)

// ProgressEvent represents a progress update during a batch run
type ProgressEvent struct {
	Path      string `json:"path"`
	Stage     string `json:"stage"`
	Message   string `json:"message"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// ProgressCallback is called when batch progress occurs. It may be called
// from several goroutines at once.
type ProgressCallback func(event ProgressEvent)

// Options holds configuration for a batch run
type Options struct {
	Parser      *parsing.Parser
	Concurrency int
	// Store, when set, receives every successful result.
	Store      store.Store
	OnProgress ProgressCallback
}

// FileResult is the outcome for one input path. Err is set when the file
// could not be read or parsed; SaveErr when persisting the result failed.
type FileResult struct {
	Path     string
	Result   *types.ParseResult
	Metadata *ingestion.Metadata
	RecordID uuid.UUID
	Duration time.Duration
	Err      error
	SaveErr  error
}

// Failed reports whether the file produced no result.
func (r FileResult) Failed() bool {
	return r.Err != nil
}

// ParseFiles parses every path with at most Options.Concurrency workers.
// Results come back in input order. A failing file does not stop the batch;
// only context cancellation does, in which case ctx.Err() is returned along
// with whatever finished.
func ParseFiles(ctx context.Context, paths []string, opts Options) ([]FileResult, error) {
	parser := opts.Parser
	if parser == nil {
		var err error
		parser, err = parsing.New()
		if err != nil {
			return nil, err
		}
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]FileResult, len(paths))
	var completed atomic.Int64
	total := len(paths)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				results[i] = FileResult{Path: path, Err: err}
				return err
			}

			emit(opts.OnProgress, ProgressEvent{Path: path, Stage: StageStarted, Message: "parsing", Completed: int(completed.Load()), Total: total})
			results[i] = parseOne(gCtx, parser, opts.Store, path)
			done := int(completed.Add(1))

			r := results[i]
			if r.Err != nil {
				logger.Warn().Str("file", path).Err(r.Err).Msg("parse failed")
				emit(opts.OnProgress, ProgressEvent{Path: path, Stage: StageFailed, Message: r.Err.Error(), Completed: done, Total: total})
				return nil
			}

			logger.Info().
				Str("file", path).
				Dur("duration", r.Duration).
				Int("sections", len(r.Result.Metadata.SectionsFound)).
				Msg("parsed")
			emit(opts.OnProgress, ProgressEvent{
				Path:      path,
				Stage:     StageParsed,
				Message:   fmt.Sprintf("found %d sections", len(r.Result.Metadata.SectionsFound)),
				Completed: done,
				Total:     total,
			})
			if r.RecordID != uuid.Nil {
				emit(opts.OnProgress, ProgressEvent{Path: path, Stage: StageSaved, Message: r.RecordID.String(), Completed: done, Total: total})
			}
			return nil
		})
	}

	// Workers only return the context error.
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		fillCancelled(results, paths, err)
		return results, err
	}
	return results, nil
}

func parseOne(ctx context.Context, parser *parsing.Parser, st store.Store, path string) FileResult {
	start := time.Now()
	result, meta, err := parser.ParseFile(path)
	r := FileResult{Path: path, Result: result, Metadata: meta, Duration: time.Since(start), Err: err}
	if err != nil || st == nil {
		return r
	}

	rec := store.NewRecord(meta.Filename, meta.Hash, result)
	if err := st.SaveParse(ctx, rec); err != nil {
		logger.Warn().Str("file", path).Err(err).Msg("failed to save parse result")
		r.SaveErr = err
		return r
	}
	r.RecordID = rec.ID
	return r
}

// fillCancelled marks paths that never ran.
func fillCancelled(results []FileResult, paths []string, err error) {
	for i := range results {
		if results[i].Path == "" {
			results[i] = FileResult{Path: paths[i], Err: err}
		}
	}
}

// emit calls the progress callback if configured
func emit(cb ProgressCallback, event ProgressEvent) {
	if cb != nil {
		cb(event)
	}
}
