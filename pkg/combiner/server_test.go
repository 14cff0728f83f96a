package combiner

import (
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/colibri-io/colibri/pkg/arrowio"
	"github.com/colibri-io/colibri/pkg/fabricpb"
	"github.com/colibri-io/colibri/pkg/invoke"
)

type fakeExecuteStream struct {
	grpc.ServerStream

	ctx    context.Context
	frames []*fabricpb.ResultFrame
}

func (s *fakeExecuteStream) Send(frame *fabricpb.ResultFrame) error {
	s.frames = append(s.frames, frame)
	return nil
}

func (s *fakeExecuteStream) Context() context.Context { return s.ctx }

func marshalPlan(t *testing.T, plan interface{ Marshal() ([]byte, error) }) []byte {
	t.Helper()
	data, err := plan.Marshal()
	require.NoError(t, err)
	return data
}

func TestServerExecute(t *testing.T) {
	c := newTestCombiner(newFakeContext())
	stream := &fakeExecuteStream{ctx: context.Background()}

	err := c.Execute(&fabricpb.ExecuteRequest{
		QueryID:    "q1",
		Plan:       marshalPlan(t, countAggPlan()),
		Partitions: partitions("p0", "p1"),
	}, stream)
	require.NoError(t, err)

	require.Len(t, stream.frames, 2)
	rec, err := arrowio.Unmarshal(stream.frames[0].Records)
	require.NoError(t, err)
	defer rec.Release()
	require.Equal(t, int64(2), rec.Column(0).(*array.Int64).Value(0))

	require.NotNil(t, stream.frames[1].Trailer)
	require.Equal(t, fabricpb.RESULT_COMPLETE, stream.frames[1].Trailer.Status)
}

// Streaming results carry one empty completion frame per delivered
// partition, so the reader of a lost stream can tell fully delivered
// partitions from truncated ones.
func TestServerExecuteCompletionFrames(t *testing.T) {
	c := newTestCombiner(newFakeContext())
	stream := &fakeExecuteStream{ctx: context.Background()}

	err := c.Execute(&fabricpb.ExecuteRequest{
		QueryID:    "q1",
		Plan:       marshalPlan(t, streamingPlan()),
		Partitions: partitions("p0", "p1"),
	}, stream)
	require.NoError(t, err)

	var records int
	marks := map[string]bool{}
	for _, frame := range stream.frames {
		switch {
		case frame.Trailer != nil:
		case len(frame.Records) == 0:
			marks[frame.PartitionID] = true
		default:
			records++
		}
	}
	require.Equal(t, 2, records)
	require.Equal(t, map[string]bool{"p0": true, "p1": true}, marks)
}

func TestServerExecuteMalformedPlan(t *testing.T) {
	c := newTestCombiner(newFakeContext())
	stream := &fakeExecuteStream{ctx: context.Background()}

	err := c.Execute(&fabricpb.ExecuteRequest{QueryID: "q1", Plan: []byte(`{garbage`)}, stream)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

// A permanent partition failure must still deliver the trailer so the
// caller learns which partitions are missing.
func TestServerExecuteFailedTrailer(t *testing.T) {
	ec := newFakeContext()
	ec.script["p0"] = []error{invoke.PermanentData(errors.New("corrupt row group"))}
	c := newTestCombiner(ec)
	stream := &fakeExecuteStream{ctx: context.Background()}

	err := c.Execute(&fabricpb.ExecuteRequest{
		QueryID:    "q1",
		Plan:       marshalPlan(t, countAggPlan()),
		Partitions: partitions("p0"),
	}, stream)
	require.NoError(t, err)

	require.Len(t, stream.frames, 1)
	trailer := stream.frames[0].Trailer
	require.NotNil(t, trailer)
	require.Equal(t, fabricpb.RESULT_FAILED, trailer.Status)
	require.Equal(t, []string{"p0"}, trailer.FailedPartitions)
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{MaxInFlight: 1, MaxAttempts: 1, WorkerMode: WorkerModeLocal}
	require.NoError(t, cfg.Validate())

	cfg.WorkerMode = "carrier-pigeon"
	require.Error(t, cfg.Validate())

	cfg = Config{MaxInFlight: 0, MaxAttempts: 1, WorkerMode: WorkerModeLocal}
	require.Error(t, cfg.Validate())
}
