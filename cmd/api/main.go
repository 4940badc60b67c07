package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/counterpos/api"
	"github.com/angelmondragon/counterpos/api/routes"
	"github.com/angelmondragon/counterpos/internal/cart"
	"github.com/angelmondragon/counterpos/internal/catalog"
	"github.com/angelmondragon/counterpos/internal/checkout"
	"github.com/angelmondragon/counterpos/internal/cron"
	"github.com/angelmondragon/counterpos/internal/maintenance"
	"github.com/angelmondragon/counterpos/internal/receipts"
	"github.com/angelmondragon/counterpos/internal/reports"
	"github.com/angelmondragon/counterpos/internal/resolve"
	"github.com/angelmondragon/counterpos/internal/sales"
	"github.com/angelmondragon/counterpos/internal/settings"
	"github.com/angelmondragon/counterpos/pkg/config"
	"github.com/angelmondragon/counterpos/pkg/db"
	"github.com/angelmondragon/counterpos/pkg/logger"
	"github.com/angelmondragon/counterpos/pkg/metrics"
	"github.com/angelmondragon/counterpos/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api stopped with error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("bootstrap store: %w", err)
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeAutoRun(ctx, cfg, logg, dbClient); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	saleMetrics := metrics.NewSaleMetrics(reg)
	httpMetrics := metrics.NewHTTPMetrics(reg)

	itemsRepo := catalog.NewRepository(dbClient.DB())
	salesRepo := sales.NewRepository(dbClient.DB())

	catalogService, err := catalog.NewService(itemsRepo, logg)
	if err != nil {
		return fmt.Errorf("catalog service: %w", err)
	}
	resolveService, err := resolve.NewService(itemsRepo)
	if err != nil {
		return fmt.Errorf("resolve service: %w", err)
	}
	cartService, err := cart.NewService(itemsRepo, catalogService, logg)
	if err != nil {
		return fmt.Errorf("cart service: %w", err)
	}
	checkoutService, err := checkout.NewService(dbClient, salesRepo, itemsRepo, saleMetrics, logg)
	if err != nil {
		return fmt.Errorf("checkout service: %w", err)
	}
	salesService, err := sales.NewService(salesRepo, itemsRepo, dbClient, logg)
	if err != nil {
		return fmt.Errorf("sales service: %w", err)
	}
	settingsService, err := settings.NewService(settings.NewRepository(dbClient.DB()))
	if err != nil {
		return fmt.Errorf("settings service: %w", err)
	}
	receiptService, err := receipts.NewService(salesService, settingsService)
	if err != nil {
		return fmt.Errorf("receipt service: %w", err)
	}
	reportService, err := reports.NewService(salesRepo, itemsRepo)
	if err != nil {
		return fmt.Errorf("report service: %w", err)
	}
	maintenanceService, err := maintenance.NewService(dbClient, cfg.Store.BackupDir, logg)
	if err != nil {
		return fmt.Errorf("maintenance service: %w", err)
	}

	handler := routes.NewRouter(
		cfg,
		logg,
		dbClient,
		reg,
		httpMetrics,
		catalogService,
		resolveService,
		cart.NewRegistry(),
		cartService,
		checkoutService,
		salesService,
		receiptService,
		settingsService,
		reportService,
		maintenanceService,
	)
	server := api.NewServer(cfg.HTTP, handler)

	ctx = logg.WithFields(ctx, map[string]any{
		"env":   cfg.App.Env,
		"addr":  cfg.HTTP.Addr,
		"store": cfg.DB.Path,
	})

	scheduler, err := newScheduler(cfg, logg, maintenanceService, metrics.NewJobMetrics(reg))
	if err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	if scheduler != nil {
		g.Go(func() error {
			return scheduler.Run(gctx)
		})
	}
	g.Go(func() error {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newScheduler returns nil when scheduled backups are disabled.
func newScheduler(cfg *config.Config, logg *logger.Logger, maintenanceService maintenance.Service, jobMetrics *metrics.JobMetrics) (*cron.Service, error) {
	if cfg.Store.BackupInterval <= 0 {
		return nil, nil
	}
	backupJob, err := cron.NewBackupJob(cron.BackupJobParams{
		Logger:      logg,
		Maintenance: maintenanceService,
		Dir:         cfg.Store.BackupDir,
		Keep:        cfg.Store.BackupKeep,
	})
	if err != nil {
		return nil, err
	}
	registry, err := cron.NewRegistry(backupJob)
	if err != nil {
		return nil, err
	}
	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Metrics:  jobMetrics,
		Interval: cfg.Store.BackupInterval,
	})
}
