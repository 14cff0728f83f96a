package coordinator

import (
	"context"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/colibri-io/colibri/pkg/executor"
	"github.com/colibri-io/colibri/pkg/fabricpb"
)

// Result is the merged output of one query: an executor.Stream of record
// batches from every combiner, then EOF, then the final status. The buffer
// is bounded; a slow consumer backpressures the combiners through it.
type Result struct {
	queryID string

	stream *executor.Stream
	sender *executor.StreamSender

	statusMtx sync.Mutex
	status    *fabricpb.Trailer
}

func newResult(queryID string, capacity int) *Result {
	stream, sender := executor.NewStream(capacity)
	return &Result{queryID: queryID, stream: stream, sender: sender}
}

// QueryID returns the query's assigned ulid.
func (r *Result) QueryID() string { return r.queryID }

// Read implements executor.Pipeline.
func (r *Result) Read(ctx context.Context) (arrow.Record, error) {
	return r.stream.Read(ctx)
}

// ReadTagged returns the next batch with its originating partition id.
// Merged aggregate batches carry an empty id.
func (r *Result) ReadTagged(ctx context.Context) (string, arrow.Record, error) {
	return r.stream.ReadTagged(ctx)
}

// Status reports the final trailer: complete, partial with the missing
// partitions enumerated, or failed. Nil until the stream has ended.
func (r *Result) Status() *fabricpb.Trailer {
	r.statusMtx.Lock()
	defer r.statusMtx.Unlock()
	return r.status
}

// Close abandons the result. Inbound records are drained and released.
func (r *Result) Close() {
	r.stream.Close()
}

func (r *Result) send(ctx context.Context, partitionID string, rec arrow.Record) error {
	return r.sender.SendTagged(ctx, partitionID, rec)
}

func (r *Result) finish(status *fabricpb.Trailer, err error) {
	r.statusMtx.Lock()
	if r.status == nil {
		r.status = status
	}
	r.statusMtx.Unlock()
	r.sender.CloseSend(err)
}
