package engine

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"drone-media-map/internal/logging"
	"drone-media-map/internal/metrics"
	"drone-media-map/internal/registry"
	"drone-media-map/internal/workers"
)

// Extraction is CPU-bound, blob writes are I/O-bound; cap the pool so a
// huge batch cannot starve interactive requests.
const maxBatchWorkers = 8

// BatchFile is one file submitted to a batch ingest.
type BatchFile struct {
	Name string
	Data []byte
	// Override applies caller-supplied coordinates to this file only.
	Override *Override
}

// BatchResult reports the outcome for one file of a batch. Failures
// are isolated; a bad file never aborts its siblings.
type BatchResult struct {
	Name   string               `json:"name"`
	Record registry.MediaRecord `json:"record,omitempty"`
	Err    error                `json:"-"`
	Error  string               `json:"error,omitempty"`
}

// batchJob carries one file and its position, so results come back in
// submission order.
type batchJob struct {
	index int
	file  BatchFile
}

// IngestBatch ingests many files concurrently and returns one result
// per input, in input order. Cancelling the context stops scheduling
// new files; files already being processed finish normally.
func (e *Engine) IngestBatch(ctx context.Context, files []BatchFile) []BatchResult {
	if len(files) == 0 {
		return []BatchResult{}
	}

	numWorkers := workers.ForIngest(maxBatchWorkers)
	if numWorkers > len(files) {
		numWorkers = len(files)
	}
	metrics.BatchWorkers.Set(float64(numWorkers))

	start := time.Now()
	logging.Info("Batch ingest: %d files across %d workers", len(files), numWorkers)

	jobs := make(chan batchJob)
	results := make([]BatchResult, len(files))

	var wg sync.WaitGroup
	var okCount, errCount atomic.Int64

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				rec, err := e.Ingest(ctx, job.file.Name, bytes.NewReader(job.file.Data), job.file.Override)
				res := BatchResult{Name: job.file.Name, Record: rec, Err: err}
				if err != nil {
					res.Error = err.Error()
					errCount.Add(1)
					logging.Warn("Batch ingest failed for %s: %v", job.file.Name, err)
				} else {
					okCount.Add(1)
				}
				results[job.index] = res
			}
		}()
	}

	for i, f := range files {
		select {
		case <-ctx.Done():
			// Mark everything not yet scheduled as cancelled.
			for j := i; j < len(files); j++ {
				results[j] = BatchResult{
					Name:  files[j].Name,
					Err:   ctx.Err(),
					Error: ctx.Err().Error(),
				}
			}
			close(jobs)
			wg.Wait()
			return results
		case jobs <- batchJob{index: i, file: f}:
		}
	}
	close(jobs)
	wg.Wait()

	logging.Info("Batch ingest complete: %d ok, %d failed in %v",
		okCount.Load(), errCount.Load(), time.Since(start))
	return results
}
