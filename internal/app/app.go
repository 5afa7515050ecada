package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andreyxaxa/thumbnail-worker/config"
	"github.com/andreyxaxa/thumbnail-worker/internal/controller/restapi"
	sqsctrl "github.com/andreyxaxa/thumbnail-worker/internal/controller/sqs"
	"github.com/andreyxaxa/thumbnail-worker/internal/infrastructure/processor"
	infrasqs "github.com/andreyxaxa/thumbnail-worker/internal/infrastructure/sqs"
	"github.com/andreyxaxa/thumbnail-worker/internal/repo/persistent"
	"github.com/andreyxaxa/thumbnail-worker/internal/usecase"
	"github.com/andreyxaxa/thumbnail-worker/internal/usecase/ledger"
	"github.com/andreyxaxa/thumbnail-worker/internal/usecase/thumbnail"
	"github.com/andreyxaxa/thumbnail-worker/migrations"
	"github.com/andreyxaxa/thumbnail-worker/pkg/awscfg"
	"github.com/andreyxaxa/thumbnail-worker/pkg/httpserver"
	"github.com/andreyxaxa/thumbnail-worker/pkg/logger"
	"github.com/andreyxaxa/thumbnail-worker/pkg/postgres"
	"github.com/andreyxaxa/thumbnail-worker/pkg/s3client"
	"github.com/andreyxaxa/thumbnail-worker/pkg/sqsclient"
)

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// AWS
	awsCfg, err := awscfg.Load(ctx,
		awscfg.FallbackRegion(cfg.AWS.DefaultRegion),
		awscfg.Endpoint(cfg.AWS.Endpoint),
		awscfg.StaticCredentials(cfg.AWS.AccessKey, cfg.AWS.SecretKey),
		awscfg.MaxAttempts(cfg.AWS.MaxAttempts),
	)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - awscfg.Load: %w", err))
	}

	// Repository

	// s3
	s3c, err := s3client.New(ctx, awsCfg, cfg.Storage.Bucket, s3client.UsePathStyle(cfg.Storage.UsePathStyle))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - s3client.New: %w", err))
	}

	// postgres ledger, optional
	var ledgerUseCase usecase.LedgerUseCase
	if cfg.PG.URL != "" {
		if cfg.PG.AutoMigrate {
			if err := migrations.Up(cfg.PG.URL); err != nil {
				l.Fatal(fmt.Errorf("app - Run - migrations.Up: %w", err))
			}
		}

		pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - postgres.New: %w", err))
		}
		defer pg.Close()

		ledgerUseCase = ledger.New(persistent.NewThumbnailRepo(pg))
	}

	// Notifier, optional
	notifier, err := newNotifier(ctx, cfg, awsCfg)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - newNotifier: %w", err))
	}
	if notifier != nil {
		defer func() {
			if err := notifier.Close(); err != nil {
				l.Error(fmt.Errorf("app - Run - notifier.Close: %w", err))
			}
		}()
	}

	// Use-Case
	thumbnailUseCase := thumbnail.New(
		persistent.NewObjectRepo(s3c),
		processor.New(),
		notifier,
		ledgerUseCase,
		l,
		thumbnail.Config{
			DefaultBucket:    cfg.Storage.Bucket,
			SourcePrefix:     cfg.Storage.UploadsPrefix,
			ThumbPrefix:      cfg.Thumbnail.Prefix,
			MaxWidth:         cfg.Thumbnail.MaxWidth,
			CPUTimeout:       cfg.Thumbnail.CPUTimeout,
			RetryCodecErrors: cfg.Thumbnail.RetryCodecErrors,
		},
	)

	// SQS as Controller
	sqsc, err := sqsclient.New(ctx, awsCfg, cfg.Queue.URL)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - sqsclient.New: %w", err))
	}

	sqsController := sqsctrl.New(
		infrasqs.NewQueue(sqsc),
		thumbnailUseCase,
		l,
		sqsctrl.Config{
			MaxMessages:      cfg.Queue.MaxMessages,
			WaitSeconds:      cfg.Queue.WaitTimeSeconds,
			VisibilityBuffer: cfg.Queue.VisibilityBuffer,
			AckTimeout:       cfg.Queue.AckTimeout,
			PollErrorBackoff: cfg.Queue.PollErrorBackoff,
		},
	)

	// HTTP Server, optional
	var httpServer *httpserver.Server
	var httpNotify <-chan error
	if cfg.HTTP.Enabled {
		httpServer = httpserver.New(l, httpserver.Port(cfg.HTTP.Port))
		restapi.NewRouter(httpServer.App, sqsController, ledgerUseCase, l)
		httpNotify = httpServer.Notify()
	}

	// Start Components
	err = sqsController.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - sqsController.Start: %w", err))
	}
	if httpServer != nil {
		httpServer.Start()
	}

	l.Info("Worker started. queue=%s bucket=%s region=%s", cfg.Queue.URL, cfg.Storage.Bucket, awsCfg.Region)

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpNotify:
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	l.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Queue.ShutdownTimeout)
	defer shutdownCancel()
	err = sqsController.Shutdown(shutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - sqsController.Shutdown: %w", err))
	}

	if httpServer != nil {
		err = httpServer.Shutdown()
		if err != nil {
			l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
		}
	}
}
