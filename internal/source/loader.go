package source

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// LoadResult is every export file parsed, in scan order.
type LoadResult struct {
	Files       []ParseResult
	TotalFiles  int
	ParsedFiles int
	FileErrors  int
	ParseErrors int
	Skipped     int
}

// Gifts returns the parsed gifts of every readable file in order.
func (r *LoadResult) Gifts() []Entry {
	var out []Entry
	for _, f := range r.Files {
		if f.Err == nil {
			out = append(out, f.Gifts...)
		}
	}
	return out
}

// ProgressFunc is called as files finish parsing.
type ProgressFunc func(current, total int)

// Load parses files with a bounded worker pool.
func Load(files []DiscoveredFile, progressFn ProgressFunc) *LoadResult {
	result := &LoadResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result
	}

	numWorkers := min(max(runtime.GOMAXPROCS(0), 1), len(files))

	work := make(chan int, len(files))
	results := make([]ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for range numWorkers {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = ParseFile(files[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(files))
				}
			}
		}()
	}
	wg.Wait()

	result.Files = results
	for _, pr := range results {
		if pr.Err != nil {
			result.FileErrors++
			continue
		}
		result.ParsedFiles++
		result.ParseErrors += pr.ParseErrors
		result.Skipped += pr.Skipped
	}
	return result
}
