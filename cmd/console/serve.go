package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/xela07ax/intellibridge-console/internal/console/handler"
	"github.com/xela07ax/intellibridge-console/internal/console/notify"
	"github.com/xela07ax/intellibridge-console/internal/console/server"
	"github.com/xela07ax/intellibridge-console/internal/console/service"
	"github.com/xela07ax/intellibridge-console/internal/console/view"
	"github.com/xela07ax/intellibridge-console/internal/fixtures"
	"github.com/xela07ax/intellibridge-console/internal/infra"
	"github.com/xela07ax/intellibridge-console/internal/infra/auth"
	"github.com/xela07ax/intellibridge-console/internal/repository"
)

const (
	grpcServiceName = "intellibridge.console"
	sweepInterval   = time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the console HTTP, metrics and gRPC health listeners",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := infra.LoadConfig(configFile)
	if err != nil {
		return err
	}

	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logger)
}

func serve(ctx context.Context, cfg *infra.Config, logger *zap.Logger) error {
	// 1. Инфраструктура: метрики, хранилище предпочтений, фикстуры
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := infra.NewMetrics(reg)

	store, err := repository.Open(ctx, cfg.Storage, func(st gobreaker.State) {
		metrics.StoreBreakerState.Set(float64(st))
	}, logger)
	if err != nil {
		return fmt.Errorf("preference store: %w", err)
	}
	defer store.Close()

	catalog, err := fixtures.Default()
	if err != nil {
		return err
	}

	issuer, err := auth.NewSessionIssuer([]byte(cfg.Session.Secret), cfg.Session.TTL)
	if err != nil {
		return err
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return err
	}

	// 2. Инициализация слоев (Dependency Injection)
	hub := notify.NewHub(metrics, logger)

	// С общим Redis события идут через Pub/Sub, чтобы их видели все инстансы
	var notifier service.Notifier = hub
	var bridge *notify.RedisBridge
	if cfg.Storage.Driver == infra.StorageRedis {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		defer rdb.Close()
		bridge = notify.NewRedisBridge(rdb, hub, logger)
		notifier = bridge
	}

	themeSvc := service.NewThemeService(store, notifier, metrics, logger)
	workspaceSvc := service.NewWorkspaceService(catalog, service.Delays{
		Scan:     cfg.Simulation.ScanDelay,
		Generate: cfg.Simulation.GenerateDelay,
	}, cfg.Session.IdleTTL, notifier, metrics, logger)
	catalogSvc := service.NewCatalogService(catalog)
	assistantSvc := service.NewAssistantService(catalog.Assistant)

	console := server.NewConsoleServer(cfg, logger, issuer,
		handler.NewPageHandler(renderer, themeSvc, workspaceSvc, catalogSvc, assistantSvc, metrics, logger),
		handler.NewAPIHandler(themeSvc, workspaceSvc, catalogSvc, assistantSvc, logger),
		handler.NewNotifyHandler(hub),
	)
	srv := console.HTTPServer()

	metricsSrv := newMetricsServer(cfg.Metrics.Addr, reg)
	healthL, err := newHealthListener(cfg.GRPC.Addr)
	if err != nil {
		return err
	}

	// 3. Запуск. Любая ошибка одного слушателя останавливает остальные
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error { return workspaceSvc.RunSweeper(gctx, sweepInterval) })
	if bridge != nil {
		g.Go(func() error { return bridge.Run(gctx) })
	}

	g.Go(func() error {
		logger.Info("console started", zap.String("addr", srv.Addr), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("console listener: %w", err)
		}
		return nil
	})

	if metricsSrv != nil {
		g.Go(func() error {
			logger.Info("metrics started", zap.String("addr", metricsSrv.Addr))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics listener: %w", err)
			}
			return nil
		})
	} else {
		logger.Info("metrics listener disabled")
	}

	if healthL != nil {
		g.Go(func() error {
			logger.Info("grpc health started", zap.String("addr", healthL.lis.Addr().String()))
			if err := healthL.srv.Serve(healthL.lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("grpc listener: %w", err)
			}
			return nil
		})
	} else {
		logger.Info("grpc health listener disabled")
	}

	// 4. Graceful Shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("console stopping...")

		if healthL != nil {
			healthL.health.Shutdown()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		if metricsSrv != nil {
			err = errors.Join(err, metricsSrv.Shutdown(shutdownCtx))
		}
		if healthL != nil {
			healthL.srv.GracefulStop()
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("console exited properly")
	return nil
}

// newMetricsServer возвращает nil, если addr пустой: listener отключен.
func newMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

type healthListener struct {
	srv    *grpc.Server
	health *health.Server
	lis    net.Listener
}

// newHealthListener поднимает gRPC health check. Пустой addr отключает его (nil, nil).
func newHealthListener(addr string) (*healthListener, error) {
	if addr == "" {
		return nil, nil
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen gRPC: %w", err)
	}

	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(grpcServiceName, healthpb.HealthCheckResponse_SERVING)

	return &healthListener{srv: srv, health: hs, lis: lis}, nil
}
