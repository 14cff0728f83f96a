package fabricpb

import (
	context "context"

	grpc "google.golang.org/grpc"
)

// CombinerClient is the client API for the Combiner service.
type CombinerClient interface {
	Execute(ctx context.Context, in *ExecuteRequest, opts ...grpc.CallOption) (Combiner_ExecuteClient, error)
}

type combinerClient struct {
	cc *grpc.ClientConn
}

func NewCombinerClient(cc *grpc.ClientConn) CombinerClient {
	return &combinerClient{cc}
}

func (c *combinerClient) Execute(ctx context.Context, in *ExecuteRequest, opts ...grpc.CallOption) (Combiner_ExecuteClient, error) {
	stream, err := c.cc.NewStream(ctx, &_Combiner_serviceDesc.Streams[0], "/fabricpb.Combiner/Execute", opts...)
	if err != nil {
		return nil, err
	}
	x := &combinerExecuteClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type Combiner_ExecuteClient interface {
	Recv() (*ResultFrame, error)
	grpc.ClientStream
}

type combinerExecuteClient struct {
	grpc.ClientStream
}

func (x *combinerExecuteClient) Recv() (*ResultFrame, error) {
	m := new(ResultFrame)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// CombinerServer is the server API for the Combiner service.
type CombinerServer interface {
	Execute(*ExecuteRequest, Combiner_ExecuteServer) error
}

func RegisterCombinerServer(s *grpc.Server, srv CombinerServer) {
	s.RegisterService(&_Combiner_serviceDesc, srv)
}

func _Combiner_Execute_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(ExecuteRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(CombinerServer).Execute(m, &combinerExecuteServer{stream})
}

type Combiner_ExecuteServer interface {
	Send(*ResultFrame) error
	grpc.ServerStream
}

type combinerExecuteServer struct {
	grpc.ServerStream
}

func (x *combinerExecuteServer) Send(m *ResultFrame) error {
	return x.ServerStream.SendMsg(m)
}

var _Combiner_serviceDesc = grpc.ServiceDesc{
	ServiceName: "fabricpb.Combiner",
	HandlerType: (*CombinerServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Execute",
			Handler:       _Combiner_Execute_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "pkg/fabricpb/fabric.proto",
}

// WorkerClient is the client API for the Worker service.
type WorkerClient interface {
	Run(ctx context.Context, in *RunRequest, opts ...grpc.CallOption) (Worker_RunClient, error)
}

type workerClient struct {
	cc *grpc.ClientConn
}

func NewWorkerClient(cc *grpc.ClientConn) WorkerClient {
	return &workerClient{cc}
}

func (c *workerClient) Run(ctx context.Context, in *RunRequest, opts ...grpc.CallOption) (Worker_RunClient, error) {
	stream, err := c.cc.NewStream(ctx, &_Worker_serviceDesc.Streams[0], "/fabricpb.Worker/Run", opts...)
	if err != nil {
		return nil, err
	}
	x := &workerRunClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type Worker_RunClient interface {
	Recv() (*ResultFrame, error)
	grpc.ClientStream
}

type workerRunClient struct {
	grpc.ClientStream
}

func (x *workerRunClient) Recv() (*ResultFrame, error) {
	m := new(ResultFrame)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// WorkerServer is the server API for the Worker service.
type WorkerServer interface {
	Run(*RunRequest, Worker_RunServer) error
}

func RegisterWorkerServer(s *grpc.Server, srv WorkerServer) {
	s.RegisterService(&_Worker_serviceDesc, srv)
}

func _Worker_Run_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(RunRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(WorkerServer).Run(m, &workerRunServer{stream})
}

type Worker_RunServer interface {
	Send(*ResultFrame) error
	grpc.ServerStream
}

type workerRunServer struct {
	grpc.ServerStream
}

func (x *workerRunServer) Send(m *ResultFrame) error {
	return x.ServerStream.SendMsg(m)
}

var _Worker_serviceDesc = grpc.ServiceDesc{
	ServiceName: "fabricpb.Worker",
	HandlerType: (*WorkerServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Run",
			Handler:       _Worker_Run_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "pkg/fabricpb/fabric.proto",
}
