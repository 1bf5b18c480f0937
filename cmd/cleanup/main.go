// Command cleanup releases stored audio objects that no voice record
// references anymore, such as blobs left behind when a release failed after
// a delete or replace. It is intended to be invoked by an external cron job,
// not as an in-process goroutine.
//
// Only the disk and minio storage backends keep external objects; with inline
// storage the command exits immediately.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/instant-voices/internal/adapter/audiostore"
	"github.com/heartmarshall/instant-voices/internal/adapter/postgres"
	pgvoice "github.com/heartmarshall/instant-voices/internal/adapter/postgres/voice"
	"github.com/heartmarshall/instant-voices/internal/app"
	"github.com/heartmarshall/instant-voices/internal/config"
	"github.com/heartmarshall/instant-voices/internal/domain"
)

func main() {
	grace := flag.Duration("grace", time.Hour, "keep unreferenced objects younger than this")
	dryRun := flag.Bool("dry-run", false, "only report orphaned objects")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	if cfg.Database.Driver != config.DriverPostgres {
		logger.Error("cleanup needs the postgres driver", slog.String("driver", cfg.Database.Driver))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var store audiostore.Sweepable
	switch cfg.Storage.Backend {
	case config.StorageDisk:
		d, err := audiostore.NewDisk(cfg.Storage.DiskDir, cfg.Storage.PublicPath, cfg.Storage.PublicBaseURL)
		if err != nil {
			logger.Error("open disk storage", slog.String("error", err.Error()))
			os.Exit(1)
		}
		store = d
	case config.StorageMinio:
		m, err := audiostore.NewMinio(ctx, audiostore.MinioConfig{
			Endpoint:  cfg.Storage.MinioEndpoint,
			AccessKey: cfg.Storage.MinioAccessKey,
			SecretKey: cfg.Storage.MinioSecretKey,
			Bucket:    cfg.Storage.MinioBucket,
			UseSSL:    cfg.Storage.MinioUseSSL,
			BaseURL:   cfg.Storage.PublicBaseURL,
		})
		if err != nil {
			logger.Error("open minio storage", slog.String("error", err.Error()))
			os.Exit(1)
		}
		store = m
	default:
		logger.Info("nothing to clean", slog.String("storage", cfg.Storage.Backend))
		return
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	voices, err := pgvoice.New(pool).List(ctx, domain.VoiceFilter{})
	if err != nil {
		logger.Error("list voices", slog.String("error", err.Error()))
		os.Exit(1)
	}

	res, err := audiostore.Sweep(ctx, store, audiostore.ReferencedKeys(voices), *grace, *dryRun, logger)
	if err != nil {
		logger.Error("sweep failed",
			slog.String("error", err.Error()),
			slog.Int("released", res.Released),
		)
		os.Exit(1)
	}

	logger.Info("sweep completed",
		slog.Int("scanned", res.Scanned),
		slog.Int("orphaned", res.Orphaned),
		slog.Int("released", res.Released),
		slog.Bool("dry_run", *dryRun),
	)
}
