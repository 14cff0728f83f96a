package invoke

import (
	"context"
	"flag"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/lambda/lambdaiface"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/colibri-io/colibri/pkg/arrowio"
	"github.com/colibri-io/colibri/pkg/executor"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WorkerPayload is the JSON request envelope of one serverless worker
// invocation.
type WorkerPayload struct {
	QueryID   string              `json:"query_id"`
	Plan      jsoniter.RawMessage `json:"plan"`
	Partition WorkerPartition     `json:"partition"`
	BatchSize int64               `json:"batch_size,omitempty"`
}

// WorkerPartition mirrors fabricpb.PartitionDesc in the JSON envelope.
type WorkerPartition struct {
	ID       string `json:"id"`
	Location string `json:"location"`
	Offset   int64  `json:"offset,omitempty"`
	Length   int64  `json:"length,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// WorkerResponse is the JSON response envelope. Records carries the
// attempt's batches as Arrow IPC payloads; serverless workers buffer the
// whole partition result because the invocation API returns one payload.
type WorkerResponse struct {
	Status     string   `json:"status"`
	Records    [][]byte `json:"records,omitempty"`
	Error      string   `json:"error,omitempty"`
	ErrorClass string   `json:"error_class,omitempty"`
}

const (
	// WorkerStatusComplete marks a successful invocation envelope.
	WorkerStatusComplete = "complete"
	// WorkerStatusFailed marks a failed invocation envelope.
	WorkerStatusFailed = "failed"
)

// LambdaConfig configures serverless worker invocations.
type LambdaConfig struct {
	FunctionName string `yaml:"function_name"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
}

func (cfg *LambdaConfig) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.FunctionName, prefix+"lambda.function-name", "", "Name of the worker Lambda function to invoke per task attempt.")
	f.StringVar(&cfg.Region, prefix+"lambda.region", "", "AWS region of the worker Lambda function.")
	f.StringVar(&cfg.Endpoint, prefix+"lambda.endpoint", "", "Custom Lambda API endpoint, useful against local stacks.")
}

// NewLambda returns a context that runs every task attempt as one
// synchronous Lambda invocation.
func NewLambda(cfg LambdaConfig) (Context, error) {
	awsCfg := aws.NewConfig()
	if cfg.Region != "" {
		awsCfg = awsCfg.WithRegion(cfg.Region)
	}
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, errors.Wrap(err, "creating aws session")
	}
	return NewLambdaWithClient(lambda.New(sess), cfg.FunctionName), nil
}

// NewLambdaWithClient is NewLambda with an injected API client.
func NewLambdaWithClient(client lambdaiface.LambdaAPI, functionName string) Context {
	return &lambdaContext{client: client, functionName: functionName}
}

type lambdaContext struct {
	client       lambdaiface.LambdaAPI
	functionName string
}

func (l *lambdaContext) Invoke(ctx context.Context, req *Request) (executor.Pipeline, error) {
	plan, err := req.Plan.Marshal()
	if err != nil {
		return nil, PermanentPlan(err)
	}
	payload, err := json.Marshal(&WorkerPayload{
		QueryID: req.QueryID,
		Plan:    plan,
		Partition: WorkerPartition{
			ID:       req.Partition.GetID(),
			Location: req.Partition.GetLocation(),
			Offset:   req.Partition.GetOffset(),
			Length:   req.Partition.GetLength(),
			Size:     req.Partition.GetSize_(),
		},
		BatchSize: req.BatchSize,
	})
	if err != nil {
		return nil, PermanentPlan(err)
	}

	out, err := l.client.InvokeWithContext(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(l.functionName),
		Payload:      payload,
	})
	if err != nil {
		return nil, &Error{Class: Classify(err), Err: err}
	}
	if out.FunctionError != nil {
		// Unhandled runtime failures, e.g. the function timing out or
		// running out of memory, look like cold start and sizing issues.
		return nil, Transient(errors.Errorf("function error %s: %s", aws.StringValue(out.FunctionError), out.Payload))
	}

	var resp WorkerResponse
	if err := json.Unmarshal(out.Payload, &resp); err != nil {
		return nil, Transient(errors.Wrap(err, "decoding invocation response"))
	}
	if resp.Status != WorkerStatusComplete {
		return nil, &Error{Class: ParseClass(resp.ErrorClass), Err: errors.New(resp.Error)}
	}

	recs, err := arrowio.UnmarshalAll(resp.Records)
	if err != nil {
		return nil, PermanentData(errors.Wrap(err, "decoding invocation records"))
	}
	return executor.SlicePipeline(recs...), nil
}

func (l *lambdaContext) Close() error { return nil }
