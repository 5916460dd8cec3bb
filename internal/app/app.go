package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/anonshare/anonshare/config"
	"github.com/anonshare/anonshare/internal/controller/restapi"
	"github.com/anonshare/anonshare/internal/infrastructure/processor"
	"github.com/anonshare/anonshare/internal/repo"
	"github.com/anonshare/anonshare/internal/repo/persistent"
	"github.com/anonshare/anonshare/internal/usecase/artifact"
	"github.com/anonshare/anonshare/pkg/httpserver"
	"github.com/anonshare/anonshare/pkg/logger"
	"github.com/anonshare/anonshare/pkg/s3client"
)

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Repository

	// blob storage
	var blobRepo repo.BlobRepo

	switch cfg.Storage.Backend {
	case "s3":
		s3Ctx, s3Cancel := context.WithTimeout(ctx, cfg.S3.CfgLoadTimeout)
		defer s3Cancel()

		s3c, err := s3client.New(s3Ctx, cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - s3client.New: %w", err))
		}

		blobRepo = persistent.NewS3BlobRepo(s3c, cfg.S3.Bucket)
	case "fs":
		fsRepo, err := persistent.NewFSBlobRepo(cfg.Storage.FSRoot)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - persistent.NewFSBlobRepo: %w", err))
		}

		blobRepo = fsRepo
	default:
		l.Fatal(fmt.Errorf("app - Run - unknown storage backend: %s", cfg.Storage.Backend))
	}

	// metadata store
	metadataRepo, err := persistent.NewMetadataRepo(cfg.Storage.MetadataFile, l)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - persistent.NewMetadataRepo: %w", err))
	}

	// Use-Case
	artifactUseCase := artifact.New(
		metadataRepo,
		blobRepo,
		processor.New(),
		artifact.Policy{
			MaxUploadSize:   cfg.Upload.MaxSizeBytes,
			ThumbnailWidth:  cfg.Thumbnail.MaxWidth,
			ThumbnailHeight: cfg.Thumbnail.MaxHeight,
			RetentionWindow: cfg.Retention.Window,
		},
		l,
	)

	// HTTP Server
	httpServer := httpserver.New(l, httpserver.Port(cfg.HTTP.Port), httpserver.Prefork(cfg.HTTP.UsePreforkMode))
	restapi.NewRouter(httpServer.App, cfg, artifactUseCase, l)

	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	err = httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}
}
