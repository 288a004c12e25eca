package motionplan

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"go.viam.com/dualarm/logging"
	"go.viam.com/dualarm/referenceframe"
	"go.viam.com/dualarm/utils"
)

// BenchmarkWorker is the private set of objects one benchmark goroutine evaluates. Nothing in it may be shared with
// another worker.
type BenchmarkWorker struct {
	Constraint *ClosedChainConstraint
	Validity   *SelfCollisionValidity
	Space      *referenceframe.JointSpace
}

// BenchmarkWorkerFactory builds the objects for the numbered worker.
type BenchmarkWorkerFactory func(worker int) (*BenchmarkWorker, error)

// BenchmarkConfig controls a benchmark run.
type BenchmarkConfig struct {
	// Workers defaults to utils.ParallelFactor.
	Workers int
	// Samples is the total number of random configurations, split between the workers.
	Samples int
	Seed    int64
}

// TimingSummary describes the durations of one operation, in microseconds.
type TimingSummary struct {
	Count  int
	Mean   float64
	Median float64
	P95    float64
	Max    float64
}

// BenchmarkResult is the outcome of RunBenchmark.
type BenchmarkResult struct {
	Workers   int
	Samples   int
	Satisfied int
	Elapsed   time.Duration

	Function TimingSummary
	Jacobian TimingSummary
	IsValid  TimingSummary

	Validity *ValidityStats
}

// RunBenchmark evaluates the constraint function, its Jacobian and the validity check at random configurations,
// with one independent set of objects per worker.
func RunBenchmark(ctx context.Context, cfg BenchmarkConfig, factory BenchmarkWorkerFactory, logger logging.Logger) (*BenchmarkResult, error) {
	if cfg.Workers == 0 {
		cfg.Workers = utils.ParallelFactor
	}
	if cfg.Workers < 0 {
		return nil, errors.Errorf("worker count must not be negative, got %d", cfg.Workers)
	}
	if cfg.Samples <= 0 {
		return nil, errors.Errorf("sample count must be positive, got %d", cfg.Samples)
	}

	workers := make([]*BenchmarkWorker, cfg.Workers)
	for i := range workers {
		w, err := factory(i)
		if err != nil {
			return nil, errors.Wrapf(err, "creating benchmark worker %d", i)
		}
		if w.Constraint == nil || w.Validity == nil || w.Space == nil {
			return nil, errors.Errorf("benchmark worker %d is incomplete", i)
		}
		workers[i] = w
	}

	var (
		mu                                       sync.Mutex
		functionTimes, jacobianTimes, validTimes []float64
		satisfied                                int
	)
	validity := &ValidityStats{}
	sizes := utils.SplitWork(cfg.Samples, cfg.Workers)
	fs := make([]utils.SimpleFunc, 0, len(workers))
	for i, w := range workers {
		n := sizes[i]
		w.Validity.SetStats(validity)
		r := rand.New(rand.NewSource(cfg.Seed + int64(i)))
		fs = append(fs, func(ctx context.Context) error {
			fTimes := make([]float64, 0, n)
			jTimes := make([]float64, 0, n)
			vTimes := make([]float64, 0, n)
			ok := 0
			for s := 0; s < n; s++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				x := w.Space.RandomInputs(r)

				start := time.Now()
				value, err := w.Constraint.Function(x)
				if err != nil {
					return err
				}
				fTimes = append(fTimes, micros(time.Since(start)))
				if len(value) > 0 && value[0] <= w.Constraint.Tolerance() {
					ok++
				}

				start = time.Now()
				if _, err := w.Constraint.Jacobian(x); err != nil {
					return err
				}
				jTimes = append(jTimes, micros(time.Since(start)))

				start = time.Now()
				// a failed evaluation is counted by the stats and does not stop the run
				_, _ = w.Validity.IsValid(x)
				vTimes = append(vTimes, micros(time.Since(start)))
			}
			mu.Lock()
			defer mu.Unlock()
			functionTimes = append(functionTimes, fTimes...)
			jacobianTimes = append(jacobianTimes, jTimes...)
			validTimes = append(validTimes, vTimes...)
			satisfied += ok
			return nil
		})
	}

	if logger != nil {
		logger.Infow("starting benchmark", "workers", cfg.Workers, "samples", cfg.Samples)
	}
	elapsed, err := utils.RunInParallel(ctx, fs)
	for _, w := range workers {
		w.Validity.SetStats(nil)
	}
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Infow("benchmark done",
			"elapsed", elapsed,
			"checked", validity.Checked(),
			"valid", validity.Valid(),
			"invalid", validity.Invalid(),
			"failed", validity.Failed())
		if failed := validity.Failed(); failed > 0 {
			logger.Warnw("some validity checks could not be evaluated", "failed", failed)
		}
	}

	result := &BenchmarkResult{
		Workers:   cfg.Workers,
		Samples:   cfg.Samples,
		Satisfied: satisfied,
		Elapsed:   elapsed,
		Validity:  validity,
	}
	if result.Function, err = summarize(functionTimes); err != nil {
		return nil, err
	}
	if result.Jacobian, err = summarize(jacobianTimes); err != nil {
		return nil, err
	}
	if result.IsValid, err = summarize(validTimes); err != nil {
		return nil, err
	}
	return result, nil
}

func micros(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}

func summarize(samples []float64) (TimingSummary, error) {
	data := stats.Float64Data(samples)
	mean, err := data.Mean()
	if err != nil {
		return TimingSummary{}, errors.Wrap(err, "mean")
	}
	median, err := data.Median()
	if err != nil {
		return TimingSummary{}, errors.Wrap(err, "median")
	}
	p95, err := data.Percentile(95)
	if err != nil {
		return TimingSummary{}, errors.Wrap(err, "95th percentile")
	}
	maximum, err := data.Max()
	if err != nil {
		return TimingSummary{}, errors.Wrap(err, "max")
	}
	return TimingSummary{Count: len(samples), Mean: mean, Median: median, P95: p95, Max: maximum}, nil
}
