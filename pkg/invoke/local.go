package invoke

import (
	"context"
	"errors"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/go-kit/log"
	"github.com/thanos-io/objstore"

	"github.com/colibri-io/colibri/pkg/executor"
)

// NewLocal returns a context that runs the worker executor in process,
// reading partitions straight from bkt. Plan validation failures classify
// as permanent plan errors; anything the pipeline hits afterwards is a data
// failure, except deadline expiry which stays transient.
func NewLocal(bkt objstore.Bucket, logger log.Logger) Context {
	return &localContext{bkt: bkt, logger: logger}
}

type localContext struct {
	bkt    objstore.Bucket
	logger log.Logger
}

func (l *localContext) Invoke(_ context.Context, req *Request) (executor.Pipeline, error) {
	if err := req.Plan.Validate(); err != nil {
		return nil, PermanentPlan(err)
	}
	p := executor.Run(executor.Config{Bucket: l.bkt, BatchSize: req.BatchSize}, req.Plan, req.Partition, l.logger)
	return &classifyingPipeline{Pipeline: p}, nil
}

func (l *localContext) Close() error { return nil }

// classifyingPipeline tags in-process execution failures as data errors.
type classifyingPipeline struct {
	executor.Pipeline
}

func (p *classifyingPipeline) Read(ctx context.Context) (arrow.Record, error) {
	rec, err := p.Pipeline.Read(ctx)
	if err == nil || errors.Is(err, executor.EOF) {
		return rec, err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil, err
	}
	var classified *Error
	if errors.As(err, &classified) {
		return nil, err
	}
	return nil, PermanentData(err)
}
