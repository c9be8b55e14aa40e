package commands

import (
	"context"
	"sync"

	"github.com/jmylchreest/tidyedit/internal/logger"
)

// processAll cleans sources with up to jobs workers and writes the results
// in input order. It returns the number of inputs that failed.
func (j *cleanJob) processAll(ctx context.Context, sources []string, jobs int) int {
	if jobs < 1 {
		jobs = 1
	}

	outcomes := make([]outcome, len(sources))
	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup

	for i, source := range sources {
		wg.Add(1)
		go func(i int, source string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				outcomes[i] = outcome{source: source, err: err}
				return
			}
			outcomes[i] = j.prepare(source)
		}(i, source)
	}
	wg.Wait()

	failed := 0
	for _, o := range outcomes {
		if err := j.emit(o); err != nil {
			logger.Error("failed to clean", "source", o.source, "error", err)
			failed++
		}
	}
	return failed
}
