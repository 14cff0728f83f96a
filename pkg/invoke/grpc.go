package invoke

import (
	"context"
	"flag"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/grafana/dskit/grpcclient"
	"github.com/grafana/dskit/middleware"
	"github.com/pkg/errors"
	"google.golang.org/grpc"

	"github.com/colibri-io/colibri/pkg/arrowio"
	"github.com/colibri-io/colibri/pkg/executor"
	"github.com/colibri-io/colibri/pkg/fabricpb"
)

// GRPCConfig configures the connection to a long-lived gRPC worker.
type GRPCConfig struct {
	Address          string            `yaml:"address"`
	GRPCClientConfig grpcclient.Config `yaml:"grpc_client_config"`
}

func (cfg *GRPCConfig) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.Address, prefix+"worker.address", "", "Address of the gRPC worker service, in host:port format.")
	cfg.GRPCClientConfig.RegisterFlagsWithPrefix(prefix+"worker.grpc-client", f)
}

// NewGRPC returns a context that dispatches each task as one server
// streaming Run call against a worker service.
func NewGRPC(cfg GRPCConfig) (Context, error) {
	opts, err := cfg.GRPCClientConfig.DialOption(nil, nil, middleware.NoOpInvalidClusterValidationReporter)
	if err != nil {
		return nil, err
	}
	// nolint:staticcheck // grpc.DialContext() has been deprecated; we'll address it before upgrading to gRPC 2.
	conn, err := grpc.Dial(cfg.Address, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing worker %s", cfg.Address)
	}
	return &grpcContext{conn: conn, client: fabricpb.NewWorkerClient(conn)}, nil
}

type grpcContext struct {
	conn   *grpc.ClientConn
	client fabricpb.WorkerClient
}

func (g *grpcContext) Invoke(ctx context.Context, req *Request) (executor.Pipeline, error) {
	plan, err := req.Plan.Marshal()
	if err != nil {
		return nil, PermanentPlan(err)
	}
	stream, err := g.client.Run(ctx, &fabricpb.RunRequest{
		QueryID:   req.QueryID,
		Plan:      plan,
		Partition: req.Partition,
		BatchSize: req.BatchSize,
	})
	if err != nil {
		return nil, &Error{Class: Classify(err), Err: err}
	}
	return &grpcPipeline{stream: stream}, nil
}

func (g *grpcContext) Close() error {
	return g.conn.Close()
}

// grpcPipeline adapts a Run response stream to a record pipeline. The gRPC
// flow window is the backpressure boundary; a slow reader here stalls the
// worker's sends.
type grpcPipeline struct {
	stream fabricpb.Worker_RunClient
	done   bool
}

func (p *grpcPipeline) Read(_ context.Context) (arrow.Record, error) {
	if p.done {
		return nil, executor.EOF
	}
	for {
		frame, err := p.stream.Recv()
		if err == io.EOF {
			p.done = true
			return nil, &Error{Class: ClassTransient, Err: errors.New("stream closed before completion trailer")}
		}
		if err != nil {
			p.done = true
			return nil, &Error{Class: Classify(err), Err: err}
		}

		if t := frame.GetTrailer(); t != nil {
			p.done = true
			if t.Status == fabricpb.RESULT_COMPLETE {
				return nil, executor.EOF
			}
			return nil, &Error{Class: ParseClass(t.ErrorClass), Err: errors.New(t.Error)}
		}
		if len(frame.Records) == 0 {
			continue
		}
		rec, err := arrowio.Unmarshal(frame.Records)
		if err != nil {
			p.done = true
			return nil, PermanentData(errors.Wrap(err, "decoding record frame"))
		}
		return rec, nil
	}
}

func (p *grpcPipeline) Close() {
	// Recv loop owns the stream; cancellation of the call context tears the
	// stream down server side.
}
