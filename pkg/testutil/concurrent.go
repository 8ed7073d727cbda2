// Package testutil holds helpers shared by package tests.
package testutil

import (
	"errors"
	"sync"
	"sync/atomic"

	"staffdir/pkg/platform/sentinel"
)

// ConcurrentResult tracks outcomes of concurrent test operations.
type ConcurrentResult struct {
	Successes            int32
	Errors               int32
	ConstraintViolations int32
}

// Total returns the total number of operations executed.
func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Errors + r.ConstraintViolations
}

// RunConcurrent runs fn in goroutines parallel goroutines, each receiving
// its index, and tallies the outcomes once all have returned.
func RunConcurrent(goroutines int, fn func(idx int) error) *ConcurrentResult {
	var wg sync.WaitGroup
	var successes, errs, violations atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			err := fn(idx)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, sentinel.ErrConstraintViolation):
				violations.Add(1)
			default:
				errs.Add(1)
			}
		}(i)
	}

	wg.Wait()

	return &ConcurrentResult{
		Successes:            successes.Load(),
		Errors:               errs.Load(),
		ConstraintViolations: violations.Load(),
	}
}

// RunConcurrentCollect is RunConcurrent for callers that need the errors
// themselves rather than counts.
func RunConcurrentCollect(goroutines int, fn func(idx int) error) (successes int32, errs []error) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var successCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if err := fn(idx); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}
			successCount.Add(1)
		}(i)
	}

	wg.Wait()
	return successCount.Load(), errs
}
