package coordinator

import (
	"flag"

	"github.com/grafana/dskit/flagext"
	"github.com/grafana/dskit/grpcclient"
	"github.com/pkg/errors"
)

// Combiner deployment modes.
const (
	// ModeInProcess runs combiners inside the coordinator process.
	ModeInProcess = "inprocess"
	// ModeGRPC dials remote combiner services.
	ModeGRPC = "grpc"
)

// Config configures query fan-out across combiners.
type Config struct {
	Mode               string                 `yaml:"mode"`
	CombinerAddresses  flagext.StringSliceCSV `yaml:"combiner_addresses"`
	InProcessCombiners int                    `yaml:"in_process_combiners"`
	SplitStrategy      string                 `yaml:"split_strategy"`

	// AbortOnPartialFailure decides the partial failure policy: abort the
	// whole query as soon as any combiner reports a permanently failed
	// partition, or drain the remaining combiners and report the failed
	// partitions as missing. This is an explicit choice, the engine never
	// decides it silently.
	AbortOnPartialFailure bool `yaml:"abort_on_partial_failure"`

	GRPCClientConfig grpcclient.Config `yaml:"grpc_client_config"`
}

func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	f.StringVar(&cfg.Mode, "coordinator.mode", ModeInProcess, "How combiners run. One of: inprocess, grpc.")
	f.Var(&cfg.CombinerAddresses, "coordinator.combiner-addresses", "Comma separated host:port addresses of combiner services, grpc mode only.")
	f.IntVar(&cfg.InProcessCombiners, "coordinator.in-process-combiners", 2, "Number of combiners to run inside the coordinator process, inprocess mode only.")
	f.StringVar(&cfg.SplitStrategy, "coordinator.split-strategy", SplitSizeBalanced, "How partitions split across combiners. One of: round-robin, size-balanced.")
	f.BoolVar(&cfg.AbortOnPartialFailure, "coordinator.abort-on-partial-failure", true, "Fail the whole query as soon as any partition fails permanently. When disabled the query drains and reports a partial result naming the missing partitions.")
	cfg.GRPCClientConfig.RegisterFlagsWithPrefix("coordinator.combiner-client", f)
}

func (cfg *Config) Validate() error {
	switch cfg.Mode {
	case ModeInProcess:
		if cfg.InProcessCombiners <= 0 {
			return errors.New("in-process combiner count must be positive")
		}
	case ModeGRPC:
		if len(cfg.CombinerAddresses) == 0 {
			return errors.New("grpc mode needs at least one combiner address")
		}
	default:
		return errors.Errorf("unsupported coordinator mode %q", cfg.Mode)
	}
	switch cfg.SplitStrategy {
	case SplitRoundRobin, SplitSizeBalanced:
	default:
		return errors.Errorf("unsupported split strategy %q", cfg.SplitStrategy)
	}
	return nil
}
