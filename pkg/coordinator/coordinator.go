// Package coordinator is the query entrypoint of the fabric. It resolves a
// query's dataset into partitions, scatters them across combiners, gathers
// the combiners' streams into one result and applies the partial failure
// policy.
package coordinator

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/thanos-io/objstore"

	"github.com/colibri-io/colibri/pkg/combiner"
	"github.com/colibri-io/colibri/pkg/executor"
	"github.com/colibri-io/colibri/pkg/fabricpb"
	"github.com/colibri-io/colibri/pkg/invoke"
	"github.com/colibri-io/colibri/pkg/queryplan"
)

// Coordinator scatters queries over a fixed set of combiner targets.
type Coordinator struct {
	cfg     Config
	bkt     objstore.Bucket
	targets []target
	logger  log.Logger
	metrics *metrics
}

// New creates a coordinator. In inprocess mode the caller supplies the
// combiners; in grpc mode they are dialed from the configured addresses.
func New(cfg Config, bkt objstore.Bucket, combiners []*combiner.Combiner, logger log.Logger, reg prometheus.Registerer) (*Coordinator, error) {
	var targets []target
	switch cfg.Mode {
	case ModeInProcess:
		if len(combiners) == 0 {
			return nil, errors.New("inprocess mode needs at least one combiner")
		}
		for _, c := range combiners {
			targets = append(targets, newLocalTarget(c))
		}
	case ModeGRPC:
		for _, addr := range cfg.CombinerAddresses {
			t, err := newGRPCTarget(addr, cfg.GRPCClientConfig)
			if err != nil {
				return nil, err
			}
			targets = append(targets, t)
		}
	default:
		return nil, errors.Errorf("unsupported coordinator mode %q", cfg.Mode)
	}

	return &Coordinator{
		cfg:     cfg,
		bkt:     bkt,
		targets: targets,
		logger:  logger,
		metrics: newMetrics(reg),
	}, nil
}

// Close releases every combiner target.
func (c *Coordinator) Close() error {
	var firstErr error
	for _, t := range c.targets {
		if err := t.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Submit starts a query. Plan validation and partition resolution happen
// before fan-out, so an invalid plan or an unlistable table fails here and
// dispatches nothing.
func (c *Coordinator) Submit(ctx context.Context, plan *queryplan.Fragment) (*Result, error) {
	if err := plan.Validate(); err != nil {
		return nil, invoke.PermanentPlan(err)
	}

	parts, err := resolvePartitions(ctx, c.bkt, plan.Table)
	if err != nil {
		return nil, err
	}

	queryID := ulid.Make().String()
	c.metrics.partitionsPerQuery.Observe(float64(len(parts)))
	level.Debug(c.logger).Log("msg", "query submitted", "query_id", queryID, "table", plan.Table, "partitions", len(parts), "combiners", len(c.targets))

	res := newResult(queryID, 4*len(c.targets))
	go c.run(ctx, queryID, plan, parts, res)
	return res, nil
}

func (c *Coordinator) run(ctx context.Context, queryID string, plan *queryplan.Fragment, parts []*fabricpb.PartitionDesc, res *Result) {
	start := time.Now()
	logger := log.With(c.logger, "query_id", queryID)

	var aggState *executor.AggState
	if plan.Aggregation != nil {
		aggState = executor.NewAggState(plan.Aggregation)
	}

	queryCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	gather := &gatherState{}
	subsets := splitPartitions(parts, len(c.targets), c.cfg.SplitStrategy)

	var wg sync.WaitGroup
	for i, t := range c.targets {
		if len(subsets[i]) == 0 {
			continue
		}
		wg.Add(1)
		go func(t target, subset []*fabricpb.PartitionDesc) {
			defer wg.Done()
			c.gatherOne(queryCtx, cancel, queryID, plan, t, subset, aggState, res, gather)
		}(t, subsets[i])
	}
	wg.Wait()

	status, err := c.conclude(queryCtx, logger, gather, aggState, res)
	c.metrics.queriesTotal.WithLabelValues(status.Status.String()).Inc()
	c.metrics.queryDuration.WithLabelValues(status.Status.String()).Observe(time.Since(start).Seconds())
	res.finish(status, err)
}

// gatherState accumulates failure bookkeeping across combiner readers.
type gatherState struct {
	mtx      sync.Mutex
	failed   []string
	fatalErr error
}

func (g *gatherState) addFailed(ids ...string) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	g.failed = append(g.failed, ids...)
}

func (g *gatherState) setFatal(err error) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	if g.fatalErr == nil {
		g.fatalErr = err
	}
}

func (g *gatherState) snapshot() ([]string, error) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	failed := make([]string, len(g.failed))
	copy(failed, g.failed)
	return failed, g.fatalErr
}

// gatherOne reads one combiner's stream to its trailer, forwarding batches
// or folding partial aggregates.
func (c *Coordinator) gatherOne(ctx context.Context, abort context.CancelFunc, queryID string, plan *queryplan.Fragment, t target, subset []*fabricpb.PartitionDesc, aggState *executor.AggState, res *Result, gather *gatherState) {
	allowPartial := !c.cfg.AbortOnPartialFailure

	// A lost stream fails the subset, minus partitions whose completion mark
	// arrived before the loss: their batches are already downstream.
	delivered := make(map[string]bool, len(subset))
	fail := func(err error) {
		var missing []string
		for _, id := range partitionIDs(subset) {
			if !delivered[id] {
				missing = append(missing, id)
			}
		}
		gather.addFailed(missing...)
		if c.cfg.AbortOnPartialFailure {
			gather.setFatal(err)
			abort()
		}
	}

	ps, err := t.execute(ctx, queryID, plan, subset, allowPartial)
	if err != nil {
		fail(err)
		return
	}
	defer ps.close()

	for {
		partitionID, rec, err := ps.readTagged(ctx)
		if errors.Is(err, executor.EOF) {
			break
		}
		if err != nil {
			fail(err)
			return
		}
		if rec == nil {
			delivered[partitionID] = true
			continue
		}

		if aggState != nil {
			foldErr := aggState.Fold(rec)
			rec.Release()
			if foldErr != nil {
				fail(invoke.PermanentData(foldErr))
				return
			}
			continue
		}
		if err := res.send(ctx, partitionID, rec); err != nil {
			fail(err)
			return
		}
	}

	trailer := ps.trailer()
	if trailer == nil {
		fail(errors.New("combiner stream ended without a trailer"))
		return
	}
	switch trailer.Status {
	case fabricpb.RESULT_COMPLETE:
	case fabricpb.RESULT_PARTIAL:
		gather.addFailed(trailer.FailedPartitions...)
		if c.cfg.AbortOnPartialFailure {
			gather.setFatal(errors.Errorf("partition %s failed permanently: %s", firstOf(trailer.FailedPartitions), trailer.Error))
			abort()
		}
	default:
		gather.addFailed(trailer.FailedPartitions...)
		gather.setFatal(errors.New(trailer.Error))
		abort()
	}
}

func (c *Coordinator) conclude(ctx context.Context, logger log.Logger, gather *gatherState, aggState *executor.AggState, res *Result) (*fabricpb.Trailer, error) {
	failed, fatalErr := gather.snapshot()
	sort.Strings(failed)
	failed = dedupe(failed)

	if fatalErr == nil && ctx.Err() != nil {
		fatalErr = ctx.Err()
	}
	if fatalErr != nil {
		level.Warn(logger).Log("msg", "query failed", "err", fatalErr, "failed_partitions", len(failed))
		return &fabricpb.Trailer{
			Status:           fabricpb.RESULT_FAILED,
			FailedPartitions: failed,
			Error:            fatalErr.Error(),
			ErrorClass:       invoke.Classify(fatalErr).String(),
		}, fatalErr
	}

	if aggState != nil {
		rec, err := aggState.Emit()
		if err != nil {
			return &fabricpb.Trailer{Status: fabricpb.RESULT_FAILED, Error: err.Error()}, err
		}
		if err := res.send(ctx, "", rec); err != nil {
			return &fabricpb.Trailer{Status: fabricpb.RESULT_FAILED, Error: err.Error()}, err
		}
	}

	if len(failed) > 0 {
		level.Warn(logger).Log("msg", "query complete with missing partitions", "failed_partitions", len(failed))
		return &fabricpb.Trailer{Status: fabricpb.RESULT_PARTIAL, FailedPartitions: failed}, nil
	}
	return &fabricpb.Trailer{Status: fabricpb.RESULT_COMPLETE}, nil
}

func partitionIDs(parts []*fabricpb.PartitionDesc) []string {
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		ids = append(ids, p.GetID())
	}
	return ids
}

func firstOf(ids []string) string {
	if len(ids) == 0 {
		return "unknown"
	}
	return ids[0]
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
