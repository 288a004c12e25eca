package utils

import (
	"context"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ParallelFactor controls the default number of workers. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
	quarterProcs := float64(ParallelFactor) * .25
	if quarterProcs > 8 {
		ParallelFactor = int(quarterProcs)
	}
}

// SplitWork divides total items between groups as evenly as possible; the last group takes the remainder.
func SplitWork(total, groups int) []int {
	if groups <= 0 {
		return nil
	}
	sizes := make([]int, groups)
	if total <= 0 {
		return sizes
	}
	each := total / groups
	for i := range sizes {
		sizes[i] = each
	}
	sizes[groups-1] += total % groups
	return sizes
}

// SimpleFunc is for RunInParallel.
type SimpleFunc func(ctx context.Context) error

// RunInParallel runs all functions in parallel and returns the elapsed time and the first error. The context passed
// to each function is canceled as soon as one of them fails or panics.
func RunInParallel(ctx context.Context, fs []SimpleFunc) (time.Duration, error) {
	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for _, f := range fs {
		f := f
		g.Go(func() (err error) {
			defer func() {
				if thePanic := recover(); thePanic != nil {
					err = errors.Errorf("got panic running something in parallel: %v", thePanic)
				}
			}()
			return f(ctx)
		})
	}
	err := g.Wait()
	return time.Since(start), err
}
