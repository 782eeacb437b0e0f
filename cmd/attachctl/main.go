package main

import (
	"chat-attachments/internal/adapters/eventbroker"
	"chat-attachments/internal/adapters/repository"
	"chat-attachments/internal/adapters/storage/minio"
	"chat-attachments/internal/config"
	"chat-attachments/internal/core/service/attachment"
	"chat-attachments/internal/core/service/cleanup"
	"chat-attachments/internal/core/service/usage"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "help" {
		printUsage()
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	minioAdapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
	if err != nil {
		logger.Error("failed to init minio", "error", err)
		os.Exit(1)
	}

	tempDir := cfg.Upload.SpoolDir()
	if err := os.MkdirAll(tempDir, 0o700); err != nil {
		logger.Error("failed to create temp dir", "dir", tempDir, "error", err)
		os.Exit(1)
	}

	journal := repository.NewNopJournal()
	c := &cli{
		attachments: attachment.NewAttachmentService(minioAdapter, journal, eventbroker.NewNopPublisher(), cfg.Minio, cfg.Upload, logger),
		usage:       usage.NewUsageService(minioAdapter, cfg.Minio.AttachmentBucket, cfg.Minio.AvatarBucket, logger),
		cleanup:     cleanup.NewCleanupService(journal, minioAdapter, tempDir, logger),
		out:         os.Stdout,
		errOut:      os.Stderr,
	}

	if err := c.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: attachctl <command> [flags]

commands:
  upload   -owner ID -conversation ID -message ID FILE...
  avatar   -owner ID FILE
  resolve  -bucket NAME -key KEY
  usage    -owner ID
  sweep    [-max-age 24h]`)
}
