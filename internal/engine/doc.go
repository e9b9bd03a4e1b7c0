// Package engine is the facade over the media map's core operations.
//
// An Engine ties the registry, spatial index, cluster engine and blob
// store together behind four operations: ingest (single and batched),
// remove, lookup and marker computation. The registry is the single
// source of truth; the spatial index and the persistent catalog follow
// it synchronously through registry listeners, so every operation
// observes a consistent view.
//
// Batch ingest fans files out over a bounded worker pool sized from
// available CPUs. Failures are per-file; one unreadable upload never
// affects the rest of its batch.
package engine
