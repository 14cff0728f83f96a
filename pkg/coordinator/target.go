package coordinator

import (
	"context"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/grafana/dskit/grpcclient"
	"github.com/grafana/dskit/middleware"
	"github.com/pkg/errors"
	"google.golang.org/grpc"

	"github.com/colibri-io/colibri/pkg/arrowio"
	"github.com/colibri-io/colibri/pkg/combiner"
	"github.com/colibri-io/colibri/pkg/executor"
	"github.com/colibri-io/colibri/pkg/fabricpb"
	"github.com/colibri-io/colibri/pkg/invoke"
	"github.com/colibri-io/colibri/pkg/queryplan"
)

// target is one combiner the coordinator can hand a partition subset to.
type target interface {
	execute(ctx context.Context, queryID string, plan *queryplan.Fragment, parts []*fabricpb.PartitionDesc, allowPartial bool) (partialStream, error)
	close() error
}

// partialStream is one combiner's merged output as the coordinator reads
// it back: tagged record batches, then EOF, then a trailer. A nil record
// with a nil error marks the named partition as fully delivered.
type partialStream interface {
	readTagged(ctx context.Context) (string, arrow.Record, error)
	trailer() *fabricpb.Trailer
	close()
}

// localTarget runs a combiner in process, skipping serialization but
// keeping the streaming contract.
type localTarget struct {
	c *combiner.Combiner
}

func newLocalTarget(c *combiner.Combiner) target {
	return &localTarget{c: c}
}

func (t *localTarget) execute(ctx context.Context, queryID string, plan *queryplan.Fragment, parts []*fabricpb.PartitionDesc, allowPartial bool) (partialStream, error) {
	opts := t.c.Options()
	opts.AllowPartial = allowPartial
	rs, err := t.c.ExecuteQuery(ctx, &combiner.Request{
		QueryID:    queryID,
		Plan:       plan,
		Partitions: parts,
		Options:    opts,
	})
	if err != nil {
		return nil, err
	}
	return &localStream{rs: rs}, nil
}

func (t *localTarget) close() error {
	return t.c.Close()
}

type localStream struct {
	rs *combiner.ResultStream
}

func (s *localStream) readTagged(ctx context.Context) (string, arrow.Record, error) {
	return s.rs.ReadTagged(ctx)
}

func (s *localStream) trailer() *fabricpb.Trailer { return s.rs.Trailer() }

func (s *localStream) close() { s.rs.Close() }

// grpcTarget submits the subset over one Combiner.Execute call.
type grpcTarget struct {
	addr   string
	conn   *grpc.ClientConn
	client fabricpb.CombinerClient
}

func newGRPCTarget(addr string, cfg grpcclient.Config) (target, error) {
	opts, err := cfg.DialOption(nil, nil, middleware.NoOpInvalidClusterValidationReporter)
	if err != nil {
		return nil, err
	}
	// nolint:staticcheck // grpc.Dial() has been deprecated; we'll address it before upgrading to gRPC 2.
	conn, err := grpc.Dial(addr, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing combiner %s", addr)
	}
	return &grpcTarget{addr: addr, conn: conn, client: fabricpb.NewCombinerClient(conn)}, nil
}

func (t *grpcTarget) execute(ctx context.Context, queryID string, plan *queryplan.Fragment, parts []*fabricpb.PartitionDesc, allowPartial bool) (partialStream, error) {
	data, err := plan.Marshal()
	if err != nil {
		return nil, invoke.PermanentPlan(err)
	}
	stream, err := t.client.Execute(ctx, &fabricpb.ExecuteRequest{
		QueryID:    queryID,
		Plan:       data,
		Partitions: parts,
		Options:    &fabricpb.ExecOptions{AllowPartial: allowPartial},
	})
	if err != nil {
		return nil, &invoke.Error{Class: invoke.Classify(err), Err: err}
	}
	return &grpcStream{stream: stream}, nil
}

func (t *grpcTarget) close() error {
	return t.conn.Close()
}

type grpcStream struct {
	stream fabricpb.Combiner_ExecuteClient
	final  *fabricpb.Trailer
	done   bool
}

func (s *grpcStream) readTagged(_ context.Context) (string, arrow.Record, error) {
	if s.done {
		return "", nil, executor.EOF
	}
	for {
		frame, err := s.stream.Recv()
		if err == io.EOF {
			s.done = true
			return "", nil, &invoke.Error{Class: invoke.ClassTransient, Err: errors.New("combiner stream closed before trailer")}
		}
		if err != nil {
			s.done = true
			return "", nil, &invoke.Error{Class: invoke.Classify(err), Err: err}
		}

		if frame.GetTrailer() != nil {
			s.done = true
			s.final = frame.GetTrailer()
			return "", nil, executor.EOF
		}
		if len(frame.Records) == 0 {
			if frame.PartitionID != "" {
				// Completion mark for the partition.
				return frame.PartitionID, nil, nil
			}
			continue
		}
		rec, err := arrowio.Unmarshal(frame.Records)
		if err != nil {
			s.done = true
			return "", nil, invoke.PermanentData(errors.Wrap(err, "decoding combiner frame"))
		}
		return frame.PartitionID, rec, nil
	}
}

func (s *grpcStream) trailer() *fabricpb.Trailer { return s.final }

func (s *grpcStream) close() {}
