package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jzx17/gotaskqueue/internal/config"
	"github.com/jzx17/gotaskqueue/pkg/future"
	"github.com/jzx17/gotaskqueue/pkg/types"
	"github.com/jzx17/gotaskqueue/pkg/worker"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var errReadingFailed = errors.New("sensor reading failed")

type outcome int

const (
	outcomeSucceeded outcome = iota
	outcomeFailed
	outcomeAbandoned
	outcomeTimedOut
	outcomeRejected
)

func (o outcome) String() string {
	switch o {
	case outcomeSucceeded:
		return "ok"
	case outcomeFailed:
		return "failed"
	case outcomeAbandoned:
		return "abandoned"
	case outcomeTimedOut:
		return "timed out"
	case outcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

type taskResult struct {
	Index   int
	Value   string
	Err     error
	Outcome outcome
}

// classify maps a future's error to an outcome
func classify(err error) outcome {
	switch {
	case err == nil:
		return outcomeSucceeded
	case types.IsAbandoned(err):
		return outcomeAbandoned
	case types.IsRejected(err):
		return outcomeRejected
	case errors.Is(err, types.ErrTimeout):
		return outcomeTimedOut
	default:
		return outcomeFailed
	}
}

// sensorTask simulates reading sensor index. Every FailEvery-th task returns
// an error and every 3*FailEvery-th panics.
func sensorTask(index int, demo config.DemoConfig) func() (string, error) {
	return func() (string, error) {
		if demo.TaskDelay > 0 {
			time.Sleep(demo.TaskDelay)
		}
		if demo.FailEvery > 0 {
			n := index + 1
			if n%(demo.FailEvery*3) == 0 {
				panic(fmt.Sprintf("sensor %d: driver fault", index))
			}
			if n%demo.FailEvery == 0 {
				return "", fmt.Errorf("sensor %d: %w", index, errReadingFailed)
			}
		}
		return fmt.Sprintf("reading-%03d", index), nil
	}
}

func newLimiter(demo config.DemoConfig) *rate.Limiter {
	if demo.SubmitRate <= 0 {
		return rate.NewLimiter(rate.Inf, demo.SubmitBurst)
	}
	return rate.NewLimiter(rate.Limit(demo.SubmitRate), demo.SubmitBurst)
}

// submitAll spreads demo.Tasks across demo.Producers goroutines. Slots for
// tasks that were rejected or never submitted stay nil. Rejection ends a
// producer quietly; only context and unexpected errors are returned.
func submitAll(ctx context.Context, m *worker.Manager[string], demo config.DemoConfig, limiter *rate.Limiter) ([]*future.Future[string], error) {
	futures := make([]*future.Future[string], demo.Tasks)

	g, gctx := errgroup.WithContext(ctx)
	for p := 0; p < demo.Producers; p++ {
		g.Go(func() error {
			for i := p; i < demo.Tasks; i += demo.Producers {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}

				f, err := m.Submit(sensorTask(i, demo))
				if types.IsRejected(err) {
					return nil
				}
				if err != nil {
					return err
				}
				futures[i] = f
			}
			return nil
		})
	}

	return futures, g.Wait()
}

// collect waits for every future, calling progress after each one
func collect(futures []*future.Future[string], timeout time.Duration, progress func()) []taskResult {
	results := make([]taskResult, len(futures))

	for i, f := range futures {
		r := taskResult{Index: i}
		if f == nil {
			r.Err = types.ErrSubmissionRejected
		} else {
			r.Value, r.Err = f.GetWithTimeout(timeout)
		}
		r.Outcome = classify(r.Err)
		results[i] = r

		if progress != nil {
			progress()
		}
	}

	return results
}
