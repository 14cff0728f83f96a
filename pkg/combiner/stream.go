package combiner

import (
	"context"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/colibri-io/colibri/pkg/executor"
	"github.com/colibri-io/colibri/pkg/fabricpb"
)

// ResultStream is the merged output of one fan-out, an executor.Stream with
// records tagged by their originating partition. Batches appear as their
// task succeeds; the buffer is bounded, so a slow reader backpressures the
// producing tasks. After the stream ends, Trailer reports the final status
// and the failed partitions.
type ResultStream struct {
	stream *executor.Stream
	sender *executor.StreamSender

	trailerMtx sync.Mutex
	trailer    *fabricpb.Trailer
}

func newResultStream(capacity int) *ResultStream {
	stream, sender := executor.NewStream(capacity)
	return &ResultStream{stream: stream, sender: sender}
}

// Read implements executor.Pipeline.
func (s *ResultStream) Read(ctx context.Context) (arrow.Record, error) {
	return s.stream.Read(ctx)
}

// ReadTagged returns the next batch along with the partition it came from.
// Batches produced by the combiner's own merge stage carry an empty
// partition id. A nil record with a nil error marks the named partition as
// fully delivered.
func (s *ResultStream) ReadTagged(ctx context.Context) (string, arrow.Record, error) {
	return s.stream.ReadTagged(ctx)
}

// Trailer returns the final status once the stream has ended, nil before.
func (s *ResultStream) Trailer() *fabricpb.Trailer {
	s.trailerMtx.Lock()
	defer s.trailerMtx.Unlock()
	return s.trailer
}

// Close abandons the stream. Buffered and still inbound records are
// released.
func (s *ResultStream) Close() {
	s.stream.Close()
}

// send blocks while the buffer is full. Ownership of rec passes to the
// stream; on error the record is released.
func (s *ResultStream) send(ctx context.Context, partitionID string, rec arrow.Record) error {
	return s.sender.SendTagged(ctx, partitionID, rec)
}

// mark records that every batch of the partition has been sent.
func (s *ResultStream) mark(ctx context.Context, partitionID string) error {
	return s.sender.SendMark(ctx, partitionID)
}

// finish ends the stream with its trailer. A non-nil err surfaces to the
// reader after the buffered records; otherwise the reader sees EOF.
func (s *ResultStream) finish(trailer *fabricpb.Trailer, err error) {
	s.trailerMtx.Lock()
	if s.trailer == nil {
		s.trailer = trailer
	}
	s.trailerMtx.Unlock()
	s.sender.CloseSend(err)
}
