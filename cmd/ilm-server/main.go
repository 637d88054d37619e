package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	"github.com/signalsfoundry/lunar-propagation/internal/config"
	"github.com/signalsfoundry/lunar-propagation/internal/logging"
	"github.com/signalsfoundry/lunar-propagation/internal/nbi"
	"github.com/signalsfoundry/lunar-propagation/internal/observability"
	"github.com/signalsfoundry/lunar-propagation/kb"
)

func main() {
	configPath := flag.String("config", "", "Path to an ilm-server.yaml configuration file")
	flag.String("grpc-addr", ":50051", "TCP address the propagation gRPC server listens on")
	flag.String("metrics-addr", ":9090", "HTTP address for Prometheus /metrics (empty disables)")
	flag.String("catalog", "", "Path to a YAML ground/site preset catalog")
	flag.String("log-level", "", "Log level: debug, info, warn, error")
	flag.String("log-format", "", "Log format: text or json")
	flag.Parse()

	cfg, err := config.Load(*configPath, flagOverrides(flag.CommandLine))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lis, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		log.Error(ctx, "failed to listen for gRPC", logging.String("addr", cfg.ListenAddress), logging.Err(err))
		os.Exit(1)
	}

	if err := run(ctx, cfg, log, lis); err != nil {
		log.Error(ctx, "server exited", logging.Err(err))
		os.Exit(1)
	}
}

// flagOverrides maps explicitly set flags onto configuration keys so they
// win over the file and environment.
func flagOverrides(fs *flag.FlagSet) map[string]any {
	keys := map[string]string{
		"grpc-addr":    "listen_address",
		"metrics-addr": "metrics_address",
		"catalog":      "catalog_path",
		"log-level":    "log.level",
		"log-format":   "log.format",
	}
	out := make(map[string]any)
	fs.Visit(func(f *flag.Flag) {
		if key, ok := keys[f.Name]; ok {
			out[key] = f.Value.String()
		}
	})
	return out
}

// run serves the propagation API on lis until ctx is cancelled.
func run(ctx context.Context, cfg config.Config, log logging.Logger, lis net.Listener) error {
	if log == nil {
		log = logging.Noop()
	}

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	reg := prometheus.NewRegistry()
	rpcMetrics, err := observability.NewRPCCollector(reg)
	if err != nil {
		return fmt.Errorf("rpc metrics: %w", err)
	}
	compMetrics, err := observability.NewComputationCollector(reg)
	if err != nil {
		return fmt.Errorf("computation metrics: %w", err)
	}

	catalog, _, err := loadCatalog(ctx, cfg.CatalogPath, log)
	if err != nil {
		return err
	}

	metricsSrv := serveMetrics(cfg.MetricsAddress, rpcMetrics, log)

	opts := append(nbi.ServerOptions(log, rpcMetrics.UnaryServerInterceptor()),
		grpc.StatsHandler(otelgrpc.NewServerHandler()))
	server := grpc.NewServer(opts...)
	nbi.RegisterPropagationServiceServer(server, nbi.NewPropagationService(catalog, log, compMetrics))

	errCh := make(chan error, 1)
	log.Info(ctx, "starting propagation gRPC server", logging.String("addr", lis.Addr().String()))
	go func() {
		errCh <- server.Serve(lis)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info(context.Background(), "shutting down propagation server")
		server.GracefulStop()
		<-errCh
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	if serveErr != nil && !errors.Is(serveErr, grpc.ErrServerStopped) {
		return serveErr
	}
	return nil
}

// catalogLoad counts the presets a catalog file added on top of the
// built-in ones.
type catalogLoad struct {
	grounds, sites int
}

func loadCatalog(ctx context.Context, path string, log logging.Logger) (*kb.Catalog, catalogLoad, error) {
	var added catalogLoad
	catalog := kb.DefaultCatalog()
	if path == "" {
		return catalog, added, nil
	}

	unsubscribe := catalog.Subscribe(func(ev kb.Event) {
		switch ev.Type {
		case kb.EventGroundAdded:
			added.grounds++
		case kb.EventSiteAdded:
			added.sites++
		}
		log.Debug(ctx, "catalog preset added", logging.Any("kind", ev.Type), logging.String("name", ev.Name))
	})
	err := catalog.LoadFile(path)
	unsubscribe()
	if err != nil {
		return nil, added, fmt.Errorf("load catalog %s: %w", path, err)
	}

	log.Info(ctx, "loaded preset catalog",
		logging.String("path", path),
		logging.Int("grounds_added", added.grounds),
		logging.Int("sites_added", added.sites),
		logging.Int("grounds", len(catalog.GroundNames())),
		logging.Int("sites", len(catalog.ListSites())),
	)
	return catalog, added, nil
}

func serveMetrics(addr string, collector *observability.RPCCollector, log logging.Logger) *http.Server {
	if addr == "" || collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.Err(err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
