package main

import (
	"chat-attachments/internal/adapters/eventbroker"
	"chat-attachments/internal/adapters/eventbroker/nats"
	"chat-attachments/internal/adapters/handlers/http/chi"
	"chat-attachments/internal/adapters/handlers/http/chi/v1/attachment"
	"chat-attachments/internal/adapters/repository"
	"chat-attachments/internal/adapters/repository/postgres"
	"chat-attachments/internal/adapters/storage/minio"
	"chat-attachments/internal/config"
	"chat-attachments/internal/core/port"
	attachmentservice "chat-attachments/internal/core/service/attachment"
	"chat-attachments/internal/core/service/cleanup"
	"chat-attachments/internal/core/service/naming"
	"chat-attachments/internal/core/service/usage"
	"chat-attachments/internal/observability"
	"chat-attachments/internal/scheduler"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/semaphore"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	//observability
	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}
	var traceOut io.Writer = io.Discard
	if cfg.Env.Env == "DEV" {
		traceOut = os.Stdout
	}
	tp, err := observability.InitTracerProvider(traceOut, logger)
	if err != nil {
		logger.Error("failed to init tracing", "error", err)
		os.Exit(1)
	}

	//storage
	minioAdapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
	if err != nil {
		logger.Error("failed to init minio", "error", err)
		os.Exit(1)
	}

	//journal
	journal := repository.NewNopJournal()
	if cfg.Database.Enabled() {
		db, err := initDB(cfg.Database)
		if err != nil {
			logger.Error("failed to init database", "error", err)
			os.Exit(1)
		}
		defer func(db *sql.DB) {
			if err := db.Close(); err != nil {
				logger.Error("failed to close database", "error", err)
			}
		}(db)
		logger.Info("db connection established")
		journal = postgres.NewSQLUploadJournal(db)
	} else {
		logger.Warn("no database configured, upload journal disabled")
	}

	//events
	publisher := eventbroker.NewNopPublisher()
	if cfg.NATS.Enabled() {
		natsPublisher, err := nats.NewNATSPublisher(ctx, cfg.NATS, logger)
		if err != nil {
			logger.Error("failed to init NATS publisher", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := natsPublisher.Close(); err != nil {
				logger.Error("failed to close NATS publisher", "error", err)
			}
		}()
		publisher = natsPublisher
	}

	tempDir := cfg.Upload.SpoolDir()
	if err := os.MkdirAll(tempDir, 0o700); err != nil {
		logger.Error("failed to create temp dir", "dir", tempDir, "error", err)
		os.Exit(1)
	}

	//services
	attachmentService := attachmentservice.NewAttachmentService(minioAdapter, journal, publisher, cfg.Minio, cfg.Upload, logger,
		attachmentservice.WithMetrics(metrics))
	usageService := usage.NewUsageService(minioAdapter, cfg.Minio.AttachmentBucket, cfg.Minio.AvatarBucket, logger)
	cleanupService := cleanup.NewCleanupService(journal, minioAdapter, tempDir, logger, cleanup.WithMetrics(metrics))

	//http
	namer := naming.NewNamer(cfg.Minio.AttachmentBucket, cfg.Minio.AvatarBucket, time.Now)
	batches := semaphore.NewWeighted(max(cfg.Upload.MaxConcurrentBatches, 1))
	attachmentHandler := attachment.NewAttachmentHandlerV1(attachmentService, usageService, namer, tempDir, batches, logger)

	router := chi.NewRouter(logger, attachmentHandler, chi.RouterConfig{
		Env:            cfg.Env.Env,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		Metrics:        metrics.Handler(),
	})
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// init cleanup tasks
	tasks, err := initCleanupTasks(ctx, cleanupService, cfg.Cleanup, logger)
	if err != nil {
		logger.Error("failed to schedule cleanup tasks", "error", err)
		os.Exit(1)
	}
	tasks.Start()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	tasks.Stop(shutdownCtx)
	observability.ShutdownTracerProvider(shutdownCtx, tp, logger)

	wg.Wait()
	logger.Info("app shutdown complete")

}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}

func initCleanupTasks(ctx context.Context, service port.CleanupService, cfg config.CleanupConfig, logger *slog.Logger) (*scheduler.Scheduler, error) {
	tasks := scheduler.New(logger)

	err := tasks.Add("temp-sweep", cfg.SweepSchedule, func() {
		report := service.Sweep(ctx, cfg.TempMaxAge)
		logger.Info("temp sweep completed", "scanned", report.Scanned, "removed", report.Removed, "failed", report.Failed)
	})
	if err != nil {
		return nil, err
	}

	err = tasks.Add("stale-uploads", cfg.StaleUploadSchedule, func() {
		if err := service.CleanupStaleUploads(ctx, time.Now().Add(-cfg.StaleUploadAfter)); err != nil {
			logger.Error("failed to cleanup stale uploads", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}

	return tasks, nil
}
