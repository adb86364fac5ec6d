package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/aeroagri/internal/config"
	"github.com/mamadbah2/aeroagri/internal/repository"
	"github.com/mamadbah2/aeroagri/internal/repository/memory"
	"github.com/mamadbah2/aeroagri/internal/repository/mongodb"
	"github.com/mamadbah2/aeroagri/internal/repository/sheets"
	"github.com/mamadbah2/aeroagri/internal/scheduler"
	"github.com/mamadbah2/aeroagri/internal/server/handlers"
	"github.com/mamadbah2/aeroagri/internal/server/router"
	bookkeepingsvc "github.com/mamadbah2/aeroagri/internal/service/bookkeeping"
	notifysvc "github.com/mamadbah2/aeroagri/internal/service/notify"
	registrysvc "github.com/mamadbah2/aeroagri/internal/service/registry"
	reportingsvc "github.com/mamadbah2/aeroagri/internal/service/reporting"
	whatsappclient "github.com/mamadbah2/aeroagri/pkg/clients/whatsapp"
	"github.com/mamadbah2/aeroagri/pkg/logger"
)

func main() {
	envFile := flag.String("env", "", "path to a .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)
	decimal.MarshalJSONWithoutQuotes = true

	store, err := openStore(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init store", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close store", zap.Error(err))
		}
	}()

	registrySvc := registrysvc.NewService(store, baseLogger.Named("svc.registry"))
	bookkeepingSvc := bookkeepingsvc.NewService(store, baseLogger.Named("svc.bookkeeping"))
	reportingSvc := reportingsvc.NewService(store, baseLogger.Named("svc.reporting"))

	var exporter scheduler.Exporter
	if cfg.Sheets.Enabled() {
		sheetClient, err := sheets.NewClient(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		snapshotExporter := sheets.NewSnapshotExporter(sheetClient, cfg.Sheets.ReportRange, baseLogger.Named("repo.sheets.export"))
		if err := snapshotExporter.EnsureHeader(context.Background()); err != nil {
			baseLogger.Warn("failed to prepare report sheet", zap.Error(err))
		}
		exporter = snapshotExporter
	} else {
		baseLogger.Warn("google sheets not configured, snapshot export disabled")
	}

	var (
		notifier        scheduler.Notifier
		notifierHandler handlers.Notifier
	)
	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		notifySvc := notifysvc.NewService(cfg.WhatsApp, whatsClient, reportingSvc, baseLogger.Named("svc.notify"))
		notifier, notifierHandler = notifySvc, notifySvc
	} else {
		baseLogger.Warn("whatsapp not configured, report notifications disabled")
	}

	engine := router.New(router.Handlers{
		Fleet:         handlers.NewFleetHandler(registrySvc, baseLogger.Named("handlers.fleet")),
		Bookkeeping:   handlers.NewBookkeepingHandler(bookkeepingSvc, baseLogger.Named("handlers.bookkeeping")),
		Reports:       handlers.NewReportHandler(reportingSvc, baseLogger.Named("handlers.reports")),
		Notifications: handlers.NewNotificationHandler(notifierHandler, baseLogger.Named("handlers.notifications")),
	}, cfg.Server.GinMode, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, exporter, notifier, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}

	select {
	case <-sched.Stop().Done():
	case <-shutdownCtx.Done():
		baseLogger.Warn("scheduled report still running at shutdown")
	}
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Store, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return memory.New(), nil
	case config.StorageMongoDB:
		repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, log.Named("repo.mongodb"))
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
