package workers

import (
	"os"
	"runtime"
	"strconv"
)

// ForIngest returns the worker count for the batch ingest pool.
// Ingest is mixed work: image decode and metadata parsing burn CPU
// while blob writes wait on disk, so the pool runs three workers per
// two available CPUs. The limit parameter caps the count; use 0 for
// no limit.
//
// The INGEST_WORKERS environment variable overrides the calculation.
func ForIngest(limit int) int {
	if override := os.Getenv("INGEST_WORKERS"); override != "" {
		if n, err := strconv.Atoi(override); err == nil && n > 0 {
			return capped(n, limit)
		}
	}

	// GOMAXPROCS tracks container CPU limits in Go 1.19+,
	// unlike runtime.NumCPU which reports the host.
	n := runtime.GOMAXPROCS(0) * 3 / 2
	if n < 1 {
		n = 1
	}
	return capped(n, limit)
}

func capped(n, limit int) int {
	if limit > 0 && n > limit {
		return limit
	}
	return n
}
