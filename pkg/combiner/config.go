package combiner

import (
	"flag"
	"time"

	"github.com/pkg/errors"

	"github.com/colibri-io/colibri/pkg/fabricpb"
	"github.com/colibri-io/colibri/pkg/invoke"
)

// Worker execution substrates.
const (
	// WorkerModeLocal runs the executor inside the combiner process.
	WorkerModeLocal = "local"
	// WorkerModeGRPC dispatches tasks to a long-lived gRPC worker service.
	WorkerModeGRPC = "grpc"
	// WorkerModeLambda dispatches each task attempt as a serverless
	// function invocation.
	WorkerModeLambda = "lambda"
)

// Config configures task fan-out and the retry policy.
type Config struct {
	MaxInFlight    int           `yaml:"max_in_flight"`
	MaxAttempts    int           `yaml:"max_attempts"`
	MinBackoff     time.Duration `yaml:"min_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`

	// AllowPartial emits a partial result annotated with the failed
	// partitions instead of failing the whole output stream when a task
	// exhausts its attempts. Off by default, failing whole is the safest.
	AllowPartial bool `yaml:"allow_partial"`

	BatchSize int64 `yaml:"batch_size"`

	WorkerMode string              `yaml:"worker_mode"`
	GRPC       invoke.GRPCConfig   `yaml:"grpc_worker"`
	Lambda     invoke.LambdaConfig `yaml:"lambda_worker"`
}

func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	f.IntVar(&cfg.MaxInFlight, "combiner.max-in-flight", 16, "Maximum number of tasks with a running attempt at any instant. Remaining tasks queue.")
	f.IntVar(&cfg.MaxAttempts, "combiner.max-attempts", 3, "Attempt budget per task, first attempt included.")
	f.DurationVar(&cfg.MinBackoff, "combiner.min-backoff", 100*time.Millisecond, "Initial backoff between task attempts.")
	f.DurationVar(&cfg.MaxBackoff, "combiner.max-backoff", 10*time.Second, "Maximum backoff between task attempts.")
	f.DurationVar(&cfg.AttemptTimeout, "combiner.attempt-timeout", 30*time.Second, "Wall clock timeout for one task attempt. An expired attempt counts as a transient failure.")
	f.BoolVar(&cfg.AllowPartial, "combiner.allow-partial", false, "Emit a partial result naming the failed partitions instead of failing the whole stream when a task exhausts its attempts.")
	f.Int64Var(&cfg.BatchSize, "combiner.batch-size", 8192, "Maximum number of rows per record batch requested from workers.")
	f.StringVar(&cfg.WorkerMode, "combiner.worker-mode", WorkerModeLocal, "Where task attempts execute. One of: local, grpc, lambda.")
	cfg.GRPC.RegisterFlagsWithPrefix("combiner.", f)
	cfg.Lambda.RegisterFlagsWithPrefix("combiner.", f)
}

func (cfg *Config) Validate() error {
	if cfg.MaxInFlight <= 0 {
		return errors.New("max in-flight must be positive")
	}
	if cfg.MaxAttempts <= 0 {
		return errors.New("attempt budget must be positive")
	}
	switch cfg.WorkerMode {
	case WorkerModeLocal, WorkerModeGRPC, WorkerModeLambda:
	default:
		return errors.Errorf("unsupported worker mode %q", cfg.WorkerMode)
	}
	return nil
}

// Options are the per-query effective retry settings: the combiner's
// configuration with the coordinator's overrides applied.
type Options struct {
	MaxInFlight    int
	MaxAttempts    int
	MinBackoff     time.Duration
	MaxBackoff     time.Duration
	AttemptTimeout time.Duration
	AllowPartial   bool
	BatchSize      int64
}

func (cfg Config) options() Options {
	return Options{
		MaxInFlight:    cfg.MaxInFlight,
		MaxAttempts:    cfg.MaxAttempts,
		MinBackoff:     cfg.MinBackoff,
		MaxBackoff:     cfg.MaxBackoff,
		AttemptTimeout: cfg.AttemptTimeout,
		AllowPartial:   cfg.AllowPartial,
		BatchSize:      cfg.BatchSize,
	}
}

// optionsFrom applies the wire overrides in o on top of the configured
// defaults. Zero values leave the default untouched except AllowPartial,
// which the coordinator always decides.
func (cfg Config) optionsFrom(o *fabricpb.ExecOptions) Options {
	opts := cfg.options()
	if o == nil {
		return opts
	}
	if o.MaxInFlight > 0 {
		opts.MaxInFlight = int(o.MaxInFlight)
	}
	if o.MaxAttempts > 0 {
		opts.MaxAttempts = int(o.MaxAttempts)
	}
	if o.MinBackoffMs > 0 {
		opts.MinBackoff = time.Duration(o.MinBackoffMs) * time.Millisecond
	}
	if o.MaxBackoffMs > 0 {
		opts.MaxBackoff = time.Duration(o.MaxBackoffMs) * time.Millisecond
	}
	if o.AttemptTimeoutMs > 0 {
		opts.AttemptTimeout = time.Duration(o.AttemptTimeoutMs) * time.Millisecond
	}
	if o.BatchSize > 0 {
		opts.BatchSize = o.BatchSize
	}
	opts.AllowPartial = o.AllowPartial
	return opts
}
