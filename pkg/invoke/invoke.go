// Package invoke provides the execution contexts a combiner dispatches
// tasks through. A context hides where the worker executor actually runs:
// in the combiner's own process, behind a gRPC worker service, or as an
// on-demand serverless function invocation. Every context classifies its
// failures with the retry taxonomy in this package so the combiner's retry
// policy never inspects substrate specific errors.
package invoke

import (
	"context"

	"github.com/colibri-io/colibri/pkg/executor"
	"github.com/colibri-io/colibri/pkg/fabricpb"
	"github.com/colibri-io/colibri/pkg/queryplan"
)

// Request describes one plan fragment to execute against one partition.
type Request struct {
	QueryID   string
	Plan      *queryplan.Fragment
	Partition *fabricpb.PartitionDesc
	BatchSize int64
}

// Context executes plan fragments on some substrate. Invoke issues one
// attempt; the returned pipeline streams the attempt's record batches and
// surfaces classified errors from Read. Implementations must be safe for
// concurrent Invoke calls.
type Context interface {
	Invoke(ctx context.Context, req *Request) (executor.Pipeline, error)
	Close() error
}
