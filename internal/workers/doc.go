// Package workers sizes the batch ingest worker pool for containerized
// environments.
//
// Go 1.19+ sets GOMAXPROCS from container CPU limits, while
// runtime.NumCPU still reports the host machine's CPU count, so the
// pool is sized from GOMAXPROCS:
//
//	n := workers.ForIngest(8)
//
// The INGEST_WORKERS environment variable overrides the calculation,
// which is useful when tuning bulk-upload throughput in a deployment.
package workers
