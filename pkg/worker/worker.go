// Package worker executes plan fragments against single partitions. The
// same execution path is exposed two ways: a long-lived gRPC service
// streaming record batches as they are produced, and a serverless handler
// that buffers the partition's result into one invocation response.
package worker

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/thanos-io/objstore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/colibri-io/colibri/pkg/arrowio"
	"github.com/colibri-io/colibri/pkg/executor"
	"github.com/colibri-io/colibri/pkg/fabricpb"
	"github.com/colibri-io/colibri/pkg/invoke"
	"github.com/colibri-io/colibri/pkg/queryplan"
)

// Config configures task execution.
type Config struct {
	BatchSize int64 `yaml:"batch_size"`
}

func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	f.Int64Var(&cfg.BatchSize, "worker.batch-size", 8192, "Maximum number of rows per record batch emitted by a scan.")
}

// Worker runs plan fragments over partitions read from a bucket.
type Worker struct {
	cfg     Config
	bkt     objstore.Bucket
	logger  log.Logger
	metrics *metrics
}

// New creates a Worker reading partitions from bkt.
func New(cfg Config, bkt objstore.Bucket, logger log.Logger, reg prometheus.Registerer) *Worker {
	return &Worker{
		cfg:     cfg,
		bkt:     bkt,
		logger:  logger,
		metrics: newMetrics(reg),
	}
}

// Run implements fabricpb.WorkerServer. Batches stream out as the scan
// produces them; the gRPC flow window is the only buffer, so a slow
// combiner stalls the scan instead of growing memory here.
func (w *Worker) Run(req *fabricpb.RunRequest, stream fabricpb.Worker_RunServer) error {
	ctx := stream.Context()
	start := time.Now()

	fragment, err := decodePlan(req.Plan)
	if err != nil {
		w.metrics.tasksTotal.WithLabelValues("invalid_plan").Inc()
		return status.Error(codes.InvalidArgument, err.Error())
	}

	logger := log.With(w.logger, "query_id", req.QueryID, "partition", req.Partition.GetID())
	level.Debug(logger).Log("msg", "task attempt started")

	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = w.cfg.BatchSize
	}
	p := executor.Run(executor.Config{Bucket: w.bkt, BatchSize: batchSize}, fragment, req.Partition, logger)
	defer p.Close()

	var batches, rows int64
	for {
		rec, err := p.Read(ctx)
		if errors.Is(err, executor.EOF) {
			break
		}
		if err != nil {
			w.metrics.tasksTotal.WithLabelValues("failed").Inc()
			level.Warn(logger).Log("msg", "task attempt failed", "err", err, "duration", time.Since(start))
			return toStatusError(ctx, err)
		}

		data, err := arrowio.Marshal(rec)
		rows += rec.NumRows()
		rec.Release()
		if err != nil {
			w.metrics.tasksTotal.WithLabelValues("failed").Inc()
			return status.Error(codes.Internal, err.Error())
		}
		if err := stream.Send(&fabricpb.ResultFrame{Records: data, PartitionID: req.Partition.GetID()}); err != nil {
			w.metrics.tasksTotal.WithLabelValues("send_failed").Inc()
			return err
		}
		batches++
	}

	if err := stream.Send(&fabricpb.ResultFrame{
		PartitionID: req.Partition.GetID(),
		Trailer:     &fabricpb.Trailer{Status: fabricpb.RESULT_COMPLETE},
	}); err != nil {
		w.metrics.tasksTotal.WithLabelValues("send_failed").Inc()
		return err
	}

	w.metrics.tasksTotal.WithLabelValues("success").Inc()
	w.metrics.taskDuration.Observe(time.Since(start).Seconds())
	w.metrics.batchesEmitted.Add(float64(batches))
	w.metrics.rowsEmitted.Add(float64(rows))
	level.Debug(logger).Log("msg", "task attempt complete", "batches", batches, "rows", rows, "duration", time.Since(start))
	return nil
}

// HandleInvoke executes one serverless invocation envelope. Unlike Run the
// whole partition result is buffered: the invocation API returns a single
// payload, so results are capped at maxResponsePayload.
func (w *Worker) HandleInvoke(ctx context.Context, payload *invoke.WorkerPayload) *invoke.WorkerResponse {
	start := time.Now()

	fragment, err := decodePlan(payload.Plan)
	if err != nil {
		w.metrics.tasksTotal.WithLabelValues("invalid_plan").Inc()
		return failedResponse(invoke.PermanentPlan(err))
	}

	partition := &fabricpb.PartitionDesc{
		ID:       payload.Partition.ID,
		Location: payload.Partition.Location,
		Offset:   payload.Partition.Offset,
		Length:   payload.Partition.Length,
		Size_:    payload.Partition.Size,
	}
	logger := log.With(w.logger, "query_id", payload.QueryID, "partition", partition.ID)

	batchSize := payload.BatchSize
	if batchSize <= 0 {
		batchSize = w.cfg.BatchSize
	}
	p := executor.Run(executor.Config{Bucket: w.bkt, BatchSize: batchSize}, fragment, partition, logger)
	defer p.Close()

	var (
		records [][]byte
		total   int
		rows    int64
	)
	for {
		rec, err := p.Read(ctx)
		if errors.Is(err, executor.EOF) {
			break
		}
		if err != nil {
			w.metrics.tasksTotal.WithLabelValues("failed").Inc()
			level.Warn(logger).Log("msg", "invocation failed", "err", err)
			return failedResponse(classifyExecutionError(ctx, err))
		}

		data, err := arrowio.Marshal(rec)
		rows += rec.NumRows()
		rec.Release()
		if err != nil {
			w.metrics.tasksTotal.WithLabelValues("failed").Inc()
			return failedResponse(invoke.PermanentData(err))
		}
		total += len(data)
		if total > maxResponsePayload {
			w.metrics.tasksTotal.WithLabelValues("oversized").Inc()
			return failedResponse(invoke.ResourceExhausted(errors.New("result exceeds invocation payload limit")))
		}
		records = append(records, data)
	}

	w.metrics.tasksTotal.WithLabelValues("success").Inc()
	w.metrics.taskDuration.Observe(time.Since(start).Seconds())
	w.metrics.batchesEmitted.Add(float64(len(records)))
	w.metrics.rowsEmitted.Add(float64(rows))
	return &invoke.WorkerResponse{Status: invoke.WorkerStatusComplete, Records: records}
}

// maxResponsePayload bounds the raw IPC bytes of one invocation response.
// Records travel base64-encoded inside the JSON envelope, growing 4/3 over
// the raw size, so the budget is 3/4 of the 6 MB synchronous Lambda response
// cap minus headroom for the envelope fields.
const maxResponsePayload = (6_291_456 - 64<<10) * 3 / 4

func decodePlan(data []byte) (*queryplan.Fragment, error) {
	fragment, err := queryplan.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if err := fragment.Validate(); err != nil {
		return nil, err
	}
	return fragment, nil
}

func failedResponse(err error) *invoke.WorkerResponse {
	return &invoke.WorkerResponse{
		Status:     invoke.WorkerStatusFailed,
		Error:      err.Error(),
		ErrorClass: invoke.Classify(err).String(),
	}
}

func classifyExecutionError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return invoke.Transient(err)
	}
	var classified *invoke.Error
	if errors.As(err, &classified) {
		return err
	}
	return invoke.PermanentData(err)
}

// toStatusError maps execution failures onto gRPC codes so remote callers
// recover the retry class from the status alone.
func toStatusError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return status.FromContextError(ctx.Err()).Err()
	}
	switch invoke.Classify(classifyExecutionError(ctx, err)) {
	case invoke.ClassPermanentPlan:
		return status.Error(codes.InvalidArgument, err.Error())
	case invoke.ClassResourceExhaustion:
		return status.Error(codes.ResourceExhausted, err.Error())
	case invoke.ClassTransient:
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.FailedPrecondition, err.Error())
	}
}
