// Package combiner fans one query out over its partitions, drives the per
// task retry policy against an execution context and merges the surviving
// partial results into a single bounded output stream.
package combiner

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/grafana/dskit/backoff"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/thanos-io/objstore"

	"github.com/colibri-io/colibri/pkg/executor"
	"github.com/colibri-io/colibri/pkg/fabricpb"
	"github.com/colibri-io/colibri/pkg/invoke"
	"github.com/colibri-io/colibri/pkg/queryplan"
)

// Request is one fan-out: a plan fragment, the partitions this combiner
// owns, and the effective retry options.
type Request struct {
	QueryID    string
	Plan       *queryplan.Fragment
	Partitions []*fabricpb.PartitionDesc
	Options    Options
}

// Combiner owns the tasks of the partitions assigned to it.
type Combiner struct {
	cfg     Config
	ec      invoke.Context
	logger  log.Logger
	metrics *metrics
}

// New creates a combiner dispatching task attempts through ec.
func New(cfg Config, ec invoke.Context, logger log.Logger, reg prometheus.Registerer) *Combiner {
	return &Combiner{
		cfg:     cfg,
		ec:      ec,
		logger:  logger,
		metrics: newMetrics(reg),
	}
}

// NewFromConfig builds the execution context named by the worker mode. The
// bucket is only used in local mode.
func NewFromConfig(cfg Config, bkt objstore.Bucket, logger log.Logger, reg prometheus.Registerer) (*Combiner, error) {
	var (
		ec  invoke.Context
		err error
	)
	switch cfg.WorkerMode {
	case WorkerModeLocal:
		ec = invoke.NewLocal(bkt, logger)
	case WorkerModeGRPC:
		ec, err = invoke.NewGRPC(cfg.GRPC)
	case WorkerModeLambda:
		ec, err = invoke.NewLambda(cfg.Lambda)
	default:
		err = errors.Errorf("unsupported worker mode %q", cfg.WorkerMode)
	}
	if err != nil {
		return nil, err
	}
	return New(cfg, ec, logger, reg), nil
}

// Options returns the combiner's configured defaults.
func (c *Combiner) Options() Options {
	return c.cfg.options()
}

// Close releases the execution context.
func (c *Combiner) Close() error {
	return c.ec.Close()
}

// ExecuteQuery fans req out and returns the merged result stream. Plan
// validation failures return an error without dispatching any task. A
// batch only enters the stream once its task succeeded, so a retried
// attempt never leaks half a partition downstream.
func (c *Combiner) ExecuteQuery(ctx context.Context, req *Request) (*ResultStream, error) {
	if err := req.Plan.Validate(); err != nil {
		return nil, invoke.PermanentPlan(err)
	}

	opts := req.Options
	if opts.MaxInFlight <= 0 {
		opts = c.cfg.options()
	}

	stream := newResultStream(2 * opts.MaxInFlight)
	go c.run(ctx, req, opts, stream)
	return stream, nil
}

func (c *Combiner) run(ctx context.Context, req *Request, opts Options, stream *ResultStream) {
	start := time.Now()
	logger := log.With(c.logger, "query_id", req.QueryID)
	level.Debug(logger).Log("msg", "fanning out", "partitions", len(req.Partitions), "max_in_flight", opts.MaxInFlight)

	var aggState *executor.AggState
	if req.Plan.Aggregation != nil {
		aggState = executor.NewAggState(req.Plan.Aggregation)
	}

	tasks := make([]*Task, 0, len(req.Partitions))
	for _, part := range req.Partitions {
		tasks = append(tasks, newTask(req.QueryID, req.Plan, part))
	}

	sem := make(chan struct{}, opts.MaxInFlight)
	var wg sync.WaitGroup
	for _, task := range tasks {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			task.failPermanent(ctx.Err())
			continue
		}

		wg.Add(1)
		go func(task *Task) {
			defer wg.Done()
			defer func() { <-sem }()

			c.metrics.inFlight.Inc()
			defer c.metrics.inFlight.Dec()

			c.runTask(ctx, task, opts, aggState, stream)
			c.metrics.tasksTotal.WithLabelValues(task.State().String()).Inc()
		}(task)
	}
	wg.Wait()

	trailer, err := c.conclude(ctx, logger, tasks, opts, aggState, stream)
	c.metrics.queryDuration.WithLabelValues(trailer.Status.String()).Observe(time.Since(start).Seconds())
	stream.finish(trailer, err)
}

// conclude is the merge barrier: every task is terminal, so the folded
// aggregate is final and the trailer can be computed.
func (c *Combiner) conclude(ctx context.Context, logger log.Logger, tasks []*Task, opts Options, aggState *executor.AggState, stream *ResultStream) (*fabricpb.Trailer, error) {
	var (
		failed   []string
		firstErr error
	)
	for _, task := range tasks {
		if task.State() != TaskSucceeded {
			failed = append(failed, task.Partition.GetID())
			if firstErr == nil {
				firstErr = errors.Wrapf(task.LastErr(), "partition %s failed permanently", task.Partition.GetID())
			}
		}
	}
	sort.Strings(failed)

	if ctx.Err() != nil {
		level.Warn(logger).Log("msg", "query aborted", "err", ctx.Err())
		return &fabricpb.Trailer{
			Status:           fabricpb.RESULT_FAILED,
			FailedPartitions: failed,
			Error:            ctx.Err().Error(),
		}, ctx.Err()
	}

	if len(failed) > 0 && !opts.AllowPartial {
		level.Warn(logger).Log("msg", "failing output stream", "failed_partitions", len(failed), "err", firstErr)
		return &fabricpb.Trailer{
			Status:           fabricpb.RESULT_FAILED,
			FailedPartitions: failed,
			Error:            firstErr.Error(),
			ErrorClass:       invoke.Classify(firstErr).String(),
		}, firstErr
	}

	if aggState != nil {
		rec, err := aggState.Emit()
		if err != nil {
			return &fabricpb.Trailer{
				Status:           fabricpb.RESULT_FAILED,
				FailedPartitions: failed,
				Error:            err.Error(),
				ErrorClass:       invoke.ClassPermanentData.String(),
			}, err
		}
		if err := stream.send(ctx, "", rec); err != nil {
			return &fabricpb.Trailer{Status: fabricpb.RESULT_FAILED, Error: err.Error()}, err
		}
	}

	if len(failed) > 0 {
		level.Warn(logger).Log("msg", "emitting partial result", "failed_partitions", len(failed))
		return &fabricpb.Trailer{
			Status:           fabricpb.RESULT_PARTIAL,
			FailedPartitions: failed,
			Error:            firstErr.Error(),
			ErrorClass:       invoke.Classify(firstErr).String(),
		}, nil
	}
	return &fabricpb.Trailer{Status: fabricpb.RESULT_COMPLETE}, nil
}

// runTask drives one task to a terminal state under the retry policy.
func (c *Combiner) runTask(ctx context.Context, task *Task, opts Options, aggState *executor.AggState, stream *ResultStream) {
	logger := log.With(c.logger, "query_id", task.QueryID, "partition", task.Partition.GetID())

	bk := backoff.New(ctx, backoff.Config{
		MinBackoff: opts.MinBackoff,
		MaxBackoff: opts.MaxBackoff,
		MaxRetries: opts.MaxAttempts,
	})

	var lastErr error
	for bk.Ongoing() {
		attempt := task.beginAttempt()
		c.metrics.attemptsTotal.Inc()
		if attempt > 1 {
			c.metrics.retriesTotal.Inc()
		}

		recs, err := c.attempt(ctx, task, opts)
		if err == nil {
			if err := c.deliver(ctx, task, recs, aggState, stream); err != nil {
				task.failPermanent(err)
				return
			}
			task.succeed()
			return
		}
		lastErr = err

		if ctx.Err() != nil {
			task.failPermanent(ctx.Err())
			return
		}
		class := invoke.Classify(err)
		if !class.Retryable() {
			level.Warn(logger).Log("msg", "task failed permanently", "class", class, "attempt", attempt, "err", err)
			task.failPermanent(err)
			return
		}

		level.Debug(logger).Log("msg", "task attempt failed, backing off", "class", class, "attempt", attempt, "err", err)
		task.failTransient(err)
		bk.Wait()
	}

	if lastErr == nil {
		lastErr = bk.Err()
	}
	level.Warn(logger).Log("msg", "task exhausted attempt budget", "attempts", task.Attempts(), "err", lastErr)
	task.failPermanent(lastErr)
}

// attempt runs one invocation to completion, buffering its batches. The
// buffer only survives a fully successful attempt; the retry of a half
// streamed attempt starts from nothing.
func (c *Combiner) attempt(ctx context.Context, task *Task, opts Options) ([]arrow.Record, error) {
	attemptCtx := ctx
	if opts.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, opts.AttemptTimeout)
		defer cancel()
	}

	p, err := c.ec.Invoke(attemptCtx, &invoke.Request{
		QueryID:   task.QueryID,
		Plan:      task.Plan,
		Partition: task.Partition,
		BatchSize: opts.BatchSize,
	})
	if err != nil {
		return nil, err
	}
	defer p.Close()

	recs, err := executor.Drain(attemptCtx, p)
	if err != nil {
		if attemptCtx.Err() != nil && ctx.Err() == nil {
			return nil, invoke.Transient(errors.Wrap(err, "attempt timed out"))
		}
		return nil, err
	}
	return recs, nil
}

// deliver releases a succeeded task's output downstream: folded into the
// shared aggregate at the merge barrier, or streamed through as is.
func (c *Combiner) deliver(ctx context.Context, task *Task, recs []arrow.Record, aggState *executor.AggState, stream *ResultStream) error {
	if aggState != nil {
		defer executor.ReleaseAll(recs)
		for _, rec := range recs {
			if err := aggState.Fold(rec); err != nil {
				return invoke.PermanentData(err)
			}
		}
		return nil
	}

	for i, rec := range recs {
		if err := stream.send(ctx, task.Partition.GetID(), rec); err != nil {
			executor.ReleaseAll(recs[i+1:])
			return err
		}
	}
	// The completion mark lets the reader tell a fully delivered partition
	// from one truncated by a lost stream.
	return stream.mark(ctx, task.Partition.GetID())
}
