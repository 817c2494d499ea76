// Package throttle runs a list of tasks with bounded concurrency.
//
// A buffered channel with one slot per allowed task acts as the semaphore:
// a slot is put before a task starts and taken back as soon as it settles.
// Results keep the order of the input tasks, and a failing or panicking task
// never stops the others.
package throttle

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/vnykmshr/gocsp/pkg/common/delay"
	gferrors "github.com/vnykmshr/gocsp/pkg/common/errors"
	"github.com/vnykmshr/gocsp/pkg/common/logging"
	"github.com/vnykmshr/gocsp/pkg/common/validation"
	"github.com/vnykmshr/gocsp/pkg/csp/channel"
	"github.com/vnykmshr/gocsp/pkg/metrics"
)

// Task is a unit of work run by Run.
type Task[R any] func(ctx context.Context) (R, error)

// Result is the settled outcome of a Task. Err holds the task's error, a
// recovered panic, or ctx.Err() for tasks that were never started.
type Result[R any] struct {
	Value R
	Err   error
}

// Config holds configuration for RunWithConfig.
type Config struct {
	// Name labels the throttle in logs and metrics.
	Name string

	// Logger receives lifecycle events and recovered panics. Nil discards them.
	Logger logrus.FieldLogger

	// Metrics enables task counters, an in-flight gauge and a duration histogram.
	Metrics metrics.Config
}

// Run executes tasks with at most concurrency of them in flight and returns
// one Result per task, in input order. A negative concurrency is treated as 1
// and zero is a validation error. Once ctx is done no further task is
// started; tasks already running receive the same ctx.
func Run[R any](ctx context.Context, tasks []Task[R], concurrency int) ([]Result[R], error) {
	return RunWithConfig(ctx, Config{}, tasks, concurrency)
}

// RunWithConfig is Run with logging and metrics.
func RunWithConfig[R any](ctx context.Context, config Config, tasks []Task[R], concurrency int) ([]Result[R], error) {
	if concurrency < 0 {
		concurrency = 1
	}
	if err := validation.ValidatePositive("throttle", "concurrency", concurrency); err != nil {
		return nil, err
	}
	for i, task := range tasks {
		if task == nil {
			return nil, gferrors.NewValidationError("throttle", fmt.Sprintf("tasks[%d]", i), nil, "must not be nil")
		}
	}

	t := &throttle[R]{
		logger:   logging.Component(config.Logger, "throttle", config.Name),
		registry: metrics.ForConfig(config.Metrics),
		name:     config.Name,
	}
	if t.name == "" {
		t.name = "unnamed"
	}
	return t.run(ctx, tasks, concurrency)
}

type throttle[R any] struct {
	logger   logrus.FieldLogger
	registry *metrics.Registry
	name     string
}

func (t *throttle[R]) run(ctx context.Context, tasks []Task[R], concurrency int) ([]Result[R], error) {
	slots, err := channel.NewWithConfigSafe[int](channel.Config{Capacity: concurrency})
	if err != nil {
		return nil, err
	}
	defer slots.Close()

	t.logger.WithFields(logrus.Fields{
		"tasks":       len(tasks),
		"concurrency": concurrency,
	}).Debug("throttle started")

	results := make([]Result[R], len(tasks))
	wg := conc.NewWaitGroup()

	for i, task := range tasks {
		if err := t.acquire(ctx, slots, i); err != nil {
			t.skip(results[i:], err)
			break
		}
		wg.Go(func() {
			// release a slot; this task's token is buffered, so the take never comes up empty
			defer func() { _, _, _ = slots.STake() }()
			results[i] = t.execute(ctx, i, task)
		})
	}
	wg.Wait()

	t.logger.Debug("throttle finished")
	return results, nil
}

// acquire puts a slot token, blocking while every slot is taken.
func (t *throttle[R]) acquire(ctx context.Context, slots *channel.Channel[int], i int) error {
	if delay.IsCanceled(ctx) {
		return ctx.Err()
	}
	outcome, err := slots.Put(ctx, i)
	if err != nil {
		return err
	}
	if outcome != channel.Accepted {
		return gferrors.NewOperationError("throttle", "acquire", gferrors.ErrClosed)
	}
	return nil
}

func (t *throttle[R]) execute(ctx context.Context, i int, task Task[R]) Result[R] {
	if t.registry != nil {
		t.registry.ThrottleInFlight.WithLabelValues(t.name).Inc()
		defer t.registry.ThrottleInFlight.WithLabelValues(t.name).Dec()
	}

	var (
		result Result[R]
		pc     panics.Catcher
	)
	start := time.Now()
	pc.Try(func() {
		result.Value, result.Err = task(ctx)
	})

	status := "ok"
	if r := pc.Recovered(); r != nil {
		result = Result[R]{Err: r.AsError()}
		status = "panic"
		t.logger.WithFields(logrus.Fields{
			"task":  i,
			"panic": r.Value,
		}).Warn("throttled task panicked")
	} else if result.Err != nil {
		status = "error"
	}

	if t.registry != nil {
		t.registry.ThrottleTasks.WithLabelValues(t.name, status).Inc()
		t.registry.ThrottleTaskDuration.WithLabelValues(t.name).Observe(time.Since(start).Seconds())
	}
	return result
}

// skip settles tasks that were never started.
func (t *throttle[R]) skip(results []Result[R], err error) {
	for i := range results {
		results[i].Err = err
	}
	if t.registry != nil {
		t.registry.ThrottleTasks.WithLabelValues(t.name, "skipped").Add(float64(len(results)))
	}
	t.logger.WithError(err).WithField("skipped", len(results)).Debug("throttle stopped launching")
}
