// Package colibri assembles the process roles behind the colibri binary.
// One process runs exactly one target: coordinator, combiner or worker.
package colibri

import (
	"context"
	"flag"
	"net"
	"strconv"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/grafana/dskit/server"
	"github.com/grafana/dskit/services"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/thanos-io/objstore"

	"github.com/colibri-io/colibri/pkg/bucket"
	"github.com/colibri-io/colibri/pkg/combiner"
	"github.com/colibri-io/colibri/pkg/coordinator"
	"github.com/colibri-io/colibri/pkg/fabricpb"
	"github.com/colibri-io/colibri/pkg/worker"
)

// Process targets.
const (
	TargetCoordinator = "coordinator"
	TargetCombiner    = "combiner"
	TargetWorker      = "worker"
)

// Config holds the configuration of a colibri process. All component
// sections are always registered so every target shares one flag surface;
// Validate only checks the sections the selected target uses.
type Config struct {
	Target string `yaml:"target"`

	Server      server.Config      `yaml:"server"`
	Storage     bucket.Config      `yaml:"storage"`
	Worker      worker.Config      `yaml:"worker"`
	Combiner    combiner.Config    `yaml:"combiner"`
	Coordinator coordinator.Config `yaml:"coordinator"`
}

func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	f.StringVar(&cfg.Target, "target", TargetCoordinator, "Role this process runs. One of: coordinator, combiner, worker.")
	cfg.Server.RegisterFlags(f)
	cfg.Storage.RegisterFlagsWithPrefix("store.", f)
	cfg.Worker.RegisterFlags(f)
	cfg.Combiner.RegisterFlags(f)
	cfg.Coordinator.RegisterFlags(f)
}

func (cfg *Config) Validate() error {
	if err := cfg.Storage.Validate(); err != nil {
		return errors.Wrap(err, "invalid storage config")
	}
	switch cfg.Target {
	case TargetWorker:
	case TargetCombiner:
		if err := cfg.Combiner.Validate(); err != nil {
			return errors.Wrap(err, "invalid combiner config")
		}
	case TargetCoordinator:
		if err := cfg.Coordinator.Validate(); err != nil {
			return errors.Wrap(err, "invalid coordinator config")
		}
		if cfg.Coordinator.Mode == coordinator.ModeInProcess {
			if err := cfg.Combiner.Validate(); err != nil {
				return errors.Wrap(err, "invalid combiner config")
			}
		}
	default:
		return errors.Errorf("unsupported target %q", cfg.Target)
	}
	return nil
}

// App is a single colibri process wired for its configured target.
type App struct {
	cfg     Config
	logger  log.Logger
	server  *server.Server
	service services.Service

	bkt         objstore.Bucket
	worker      *worker.Worker
	combiner    *combiner.Combiner
	coordinator *coordinator.Coordinator
}

// New builds the process for cfg.Target. The gRPC services of the target
// are registered on the embedded server before it starts listening.
func New(cfg Config, logger log.Logger, reg prometheus.Registerer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bkt, err := bucket.NewClient(cfg.Storage, cfg.Target, logger, reg)
	if err != nil {
		return nil, errors.Wrap(err, "creating storage client")
	}

	cfg.Server.Log = log.With(logger, "component", "server")
	cfg.Server.Registerer = reg
	serv, err := server.New(cfg.Server)
	if err != nil {
		return nil, errors.Wrap(err, "creating server")
	}

	app := &App{
		cfg:    cfg,
		logger: logger,
		server: serv,
		bkt:    bkt,
	}

	switch cfg.Target {
	case TargetWorker:
		app.worker = worker.New(cfg.Worker, bkt, log.With(logger, "component", "worker"), reg)
		fabricpb.RegisterWorkerServer(serv.GRPC, app.worker)

	case TargetCombiner:
		app.combiner, err = combiner.NewFromConfig(cfg.Combiner, bkt, log.With(logger, "component", "combiner"), reg)
		if err != nil {
			return nil, errors.Wrap(err, "creating combiner")
		}
		fabricpb.RegisterCombinerServer(serv.GRPC, app.combiner)

	case TargetCoordinator:
		// In-process combiners are owned, and closed, by the coordinator.
		var combiners []*combiner.Combiner
		if cfg.Coordinator.Mode == coordinator.ModeInProcess {
			for i := 0; i < cfg.Coordinator.InProcessCombiners; i++ {
				id := strconv.Itoa(i)
				cmb, err := combiner.NewFromConfig(cfg.Combiner, bkt,
					log.With(logger, "component", "combiner", "combiner", id),
					prometheus.WrapRegistererWith(prometheus.Labels{"combiner": id}, reg))
				if err != nil {
					return nil, errors.Wrapf(err, "creating in-process combiner %d", i)
				}
				combiners = append(combiners, cmb)
			}
		}
		app.coordinator, err = coordinator.New(cfg.Coordinator, bkt, combiners, log.With(logger, "component", "coordinator"), reg)
		if err != nil {
			return nil, errors.Wrap(err, "creating coordinator")
		}
	}

	app.service = newServerService(serv, logger)
	return app, nil
}

// Coordinator returns the query submission API. Nil unless the process
// runs the coordinator target.
func (a *App) Coordinator() *coordinator.Coordinator {
	return a.coordinator
}

// HTTPListenAddr returns the address the HTTP server listens on.
func (a *App) HTTPListenAddr() net.Addr {
	return a.server.HTTPListenAddr()
}

// GRPCListenAddr returns the address the gRPC server listens on.
func (a *App) GRPCListenAddr() net.Addr {
	return a.server.GRPCListenAddr()
}

// Run starts the server and blocks until it stops, normally on SIGTERM.
func (a *App) Run() error {
	defer a.close()

	if err := services.StartAndAwaitRunning(context.Background(), a.service); err != nil {
		return errors.Wrap(err, "starting server")
	}
	level.Info(a.logger).Log("msg", "colibri started", "target", a.cfg.Target)
	return a.service.AwaitTerminated(context.Background())
}

// Stop shuts the server down and waits for Run to return.
func (a *App) Stop() error {
	return services.StopAndAwaitTerminated(context.Background(), a.service)
}

func (a *App) close() {
	if a.coordinator != nil {
		if err := a.coordinator.Close(); err != nil {
			level.Warn(a.logger).Log("msg", "closing coordinator", "err", err)
		}
	}
	if a.combiner != nil {
		if err := a.combiner.Close(); err != nil {
			level.Warn(a.logger).Log("msg", "closing combiner", "err", err)
		}
	}
	if err := a.bkt.Close(); err != nil {
		level.Warn(a.logger).Log("msg", "closing storage client", "err", err)
	}
}

func newServerService(serv *server.Server, logger log.Logger) services.Service {
	done := make(chan error, 1)
	return services.NewBasicService(
		nil,
		func(ctx context.Context) error {
			go func() {
				defer close(done)
				done <- serv.Run()
			}()
			select {
			case <-ctx.Done():
				return nil
			case err := <-done:
				return err
			}
		},
		func(_ error) error {
			level.Info(logger).Log("msg", "server shutting down")
			serv.Shutdown()
			<-done
			return nil
		},
	)
}
