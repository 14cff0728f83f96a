package worker

import (
	"bytes"
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/go-kit/log"
	jsoniter "github.com/json-iterator/go"
	"github.com/parquet-go/parquet-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/thanos-io/objstore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/colibri-io/colibri/pkg/arrowio"
	"github.com/colibri-io/colibri/pkg/fabricpb"
	"github.com/colibri-io/colibri/pkg/invoke"
	"github.com/colibri-io/colibri/pkg/queryplan"
)

type trip struct {
	City string  `parquet:"city"`
	Fare float64 `parquet:"fare"`
}

func newTestWorker(t *testing.T) *Worker {
	t.Helper()

	bkt := objstore.NewInMemBucket()
	var buf bytes.Buffer
	w := parquet.NewGenericWriter[trip](&buf)
	_, err := w.Write([]trip{
		{City: "paris", Fare: 10},
		{City: "lyon", Fare: 20},
		{City: "paris", Fare: 30},
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, bkt.Upload(context.Background(), "trips.parquet", bytes.NewReader(buf.Bytes())))

	return New(Config{BatchSize: 1024}, bkt, log.NewNopLogger(), prometheus.NewRegistry())
}

func marshalPlan(t *testing.T, fragment *queryplan.Fragment) []byte {
	t.Helper()
	data, err := fragment.Marshal()
	require.NoError(t, err)
	return data
}

// fakeRunStream collects the frames a Run call sends.
type fakeRunStream struct {
	grpc.ServerStream

	ctx    context.Context
	frames []*fabricpb.ResultFrame
}

func (s *fakeRunStream) Send(frame *fabricpb.ResultFrame) error {
	s.frames = append(s.frames, frame)
	return nil
}

func (s *fakeRunStream) Context() context.Context { return s.ctx }

func countPlan() *queryplan.Fragment {
	return &queryplan.Fragment{
		Table: "trips",
		Aggregation: &queryplan.Aggregation{
			Aggregates: []queryplan.Aggregate{
				{Func: queryplan.AggCount},
				{Func: queryplan.AggSum, Column: "fare"},
			},
		},
	}
}

func TestWorkerRun(t *testing.T) {
	w := newTestWorker(t)
	stream := &fakeRunStream{ctx: context.Background()}

	err := w.Run(&fabricpb.RunRequest{
		QueryID:   "q1",
		Plan:      marshalPlan(t, countPlan()),
		Partition: &fabricpb.PartitionDesc{ID: "p0", Location: "trips.parquet"},
	}, stream)
	require.NoError(t, err)

	require.Len(t, stream.frames, 2)
	require.Nil(t, stream.frames[0].Trailer)
	require.Equal(t, "p0", stream.frames[0].PartitionID)

	rec, err := arrowio.Unmarshal(stream.frames[0].Records)
	require.NoError(t, err)
	defer rec.Release()
	require.Equal(t, int64(3), rec.Column(0).(*array.Int64).Value(0))
	require.Equal(t, float64(60), rec.Column(1).(*array.Float64).Value(0))

	require.NotNil(t, stream.frames[1].Trailer)
	require.Equal(t, fabricpb.RESULT_COMPLETE, stream.frames[1].Trailer.Status)
}

// Re-running the same task must produce an identical result; retries rely
// on attempts being repeatable.
func TestWorkerRunIdempotent(t *testing.T) {
	w := newTestWorker(t)
	req := &fabricpb.RunRequest{
		QueryID:   "q1",
		Plan:      marshalPlan(t, countPlan()),
		Partition: &fabricpb.PartitionDesc{ID: "p0", Location: "trips.parquet"},
	}

	s1 := &fakeRunStream{ctx: context.Background()}
	require.NoError(t, w.Run(req, s1))
	s2 := &fakeRunStream{ctx: context.Background()}
	require.NoError(t, w.Run(req, s2))

	r1, err := arrowio.Unmarshal(s1.frames[0].Records)
	require.NoError(t, err)
	defer r1.Release()
	r2, err := arrowio.Unmarshal(s2.frames[0].Records)
	require.NoError(t, err)
	defer r2.Release()
	require.True(t, array.RecordEqual(r1, r2))
}

func TestWorkerRunInvalidPlan(t *testing.T) {
	w := newTestWorker(t)
	stream := &fakeRunStream{ctx: context.Background()}

	err := w.Run(&fabricpb.RunRequest{QueryID: "q1", Plan: []byte(`{}`)}, stream)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestWorkerRunMissingPartition(t *testing.T) {
	w := newTestWorker(t)
	stream := &fakeRunStream{ctx: context.Background()}

	err := w.Run(&fabricpb.RunRequest{
		QueryID:   "q1",
		Plan:      marshalPlan(t, countPlan()),
		Partition: &fabricpb.PartitionDesc{ID: "p9", Location: "missing.parquet"},
	}, stream)
	require.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestWorkerHandleInvoke(t *testing.T) {
	w := newTestWorker(t)

	resp := w.HandleInvoke(context.Background(), &invoke.WorkerPayload{
		QueryID:   "q1",
		Plan:      marshalPlan(t, countPlan()),
		Partition: invoke.WorkerPartition{ID: "p0", Location: "trips.parquet"},
	})
	require.Equal(t, invoke.WorkerStatusComplete, resp.Status)
	require.Len(t, resp.Records, 1)

	rec, err := arrowio.Unmarshal(resp.Records[0])
	require.NoError(t, err)
	defer rec.Release()
	require.Equal(t, int64(3), rec.Column(0).(*array.Int64).Value(0))
}

func TestWorkerHandleInvokeFailure(t *testing.T) {
	w := newTestWorker(t)

	resp := w.HandleInvoke(context.Background(), &invoke.WorkerPayload{
		QueryID:   "q1",
		Plan:      marshalPlan(t, countPlan()),
		Partition: invoke.WorkerPartition{ID: "p9", Location: "missing.parquet"},
	})
	require.Equal(t, invoke.WorkerStatusFailed, resp.Status)
	require.Equal(t, invoke.ClassPermanentData, invoke.ParseClass(resp.ErrorClass))
	require.NotEmpty(t, resp.Error)
}

// Records are base64-encoded inside the JSON envelope, so a response
// admitted by the raw-byte cap must still encode under the 6 MB synchronous
// Lambda response limit.
func TestMaxResponsePayloadFitsEncoded(t *testing.T) {
	resp := &invoke.WorkerResponse{
		Status:  invoke.WorkerStatusComplete,
		Records: [][]byte{make([]byte, maxResponsePayload)},
	}
	payload, err := jsoniter.Marshal(resp)
	require.NoError(t, err)
	require.LessOrEqual(t, len(payload), 6_291_456)
}

func TestWorkerHandleInvokeInvalidPlan(t *testing.T) {
	w := newTestWorker(t)

	resp := w.HandleInvoke(context.Background(), &invoke.WorkerPayload{QueryID: "q1", Plan: []byte(`{}`)})
	require.Equal(t, invoke.WorkerStatusFailed, resp.Status)
	require.Equal(t, invoke.ClassPermanentPlan, invoke.ParseClass(resp.ErrorClass))
}
