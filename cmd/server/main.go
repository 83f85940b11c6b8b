package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	grpcapi "github.com/xtding233/wishmachine/internal/api/grpc"
	httpapi "github.com/xtding233/wishmachine/internal/api/http"
	"github.com/xtding233/wishmachine/internal/config"
	"github.com/xtding233/wishmachine/internal/profile"
	"github.com/xtding233/wishmachine/internal/telemetry"
	"github.com/xtding233/wishmachine/internal/wish"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.ConfigureLogging(); err != nil {
		log.Fatalf("configure logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
	log.Info("Shutdown complete")
}

func run(ctx context.Context, cfg config.Config) error {
	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName:    "wishmachine",
		Environment:    cfg.Environment,
		MetricExporter: cfg.OTelMetricExporter,
		MetricEndpoint: cfg.OTelMetricEndpoint,
		ExportInterval: cfg.OTelExportInterval,
		TraceEndpoint:  cfg.OTelTraceEndpoint,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			log.Warnf("Telemetry shutdown: %v", err)
		}
	}()

	loader := profile.NewLoader(cfg.ConfigDir)
	registry := profile.NewRegistry(loader)
	// fail fast on a broken default profile rather than on the first request
	if _, err := registry.Engine(cfg.Profile); err != nil {
		return fmt.Errorf("profile %s: %w", cfg.Profile, err)
	}

	if cfg.WatchInterval > 0 {
		watcher := profile.WatchLoader(loader, cfg.WatchInterval, func(path string) {
			log.WithField("path", path).Info("Profile changed, reloading engines")
			registry.Reload()
		})
		watcher.Start(ctx)
		defer watcher.Stop()
	}

	metrics, err := telemetry.NewRecorder(nil)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	svc := wish.NewService(registry, cfg.Profile, metrics)

	router := httpapi.NewRouter(svc, httpapi.RouterOptions{
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, "wishmachine.http"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer, err := grpcapi.NewServer(cfg.GRPCAddr, svc)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(log.Fields{
			"addr":    cfg.HTTPAddr,
			"profile": cfg.Profile,
			"env":     cfg.Environment,
		}).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return grpcServer.Serve(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP: %w", err)
		}
		return nil
	})
	return g.Wait()
}
