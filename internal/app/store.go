package app

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/heartmarshall/instant-voices/internal/adapter/audiostore"
	"github.com/heartmarshall/instant-voices/internal/adapter/memory"
	"github.com/heartmarshall/instant-voices/internal/adapter/postgres"
	pgvoice "github.com/heartmarshall/instant-voices/internal/adapter/postgres/voice"
	"github.com/heartmarshall/instant-voices/internal/config"
	"github.com/heartmarshall/instant-voices/internal/domain"
	"github.com/heartmarshall/instant-voices/internal/transport/rest"
	"github.com/heartmarshall/instant-voices/migrations"
)

type voiceRepo interface {
	GetByID(ctx context.Context, recordID string) (*domain.Voice, error)
	GetForUpdate(ctx context.Context, recordID string) (*domain.Voice, error)
	List(ctx context.Context, filter domain.VoiceFilter) ([]*domain.Voice, error)
	Upsert(ctx context.Context, v *domain.Voice, replaceAudio bool) (*domain.Voice, error)
	Delete(ctx context.Context, recordID string, ownerID *string) (*domain.Voice, error)
}

type txRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type store struct {
	repo  voiceRepo
	tx    txRunner
	ping  rest.Pinger
	close func()
}

// openStore connects the record store selected by cfg.Driver.
func openStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory voice store; records are lost on restart")
		repo := memory.NewVoiceRepo()
		return &store{repo: repo, tx: repo, close: func() {}}, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}

		if !cfg.SkipMigrate {
			var fsys fs.FS = migrations.FS
			if cfg.MigrationsDir != "" {
				fsys = os.DirFS(cfg.MigrationsDir)
			}
			if err := postgres.Migrate(ctx, pool, fsys, logger); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}

		return &store{
			repo:  pgvoice.New(pool),
			tx:    postgres.NewTxManager(pool),
			ping:  pool,
			close: pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

type audioStore interface {
	Put(ctx context.Context, recordID string, p *domain.AudioPayload) (domain.AudioRef, error)
	Release(ctx context.Context, ref domain.AudioRef) error
}

type audioBackend struct {
	store     audioStore
	ping      rest.Pinger
	files     http.Handler
	filesPath string
}

// openAudioStore builds the payload storage selected by cfg.Backend.
func openAudioStore(ctx context.Context, cfg config.StorageConfig) (*audioBackend, error) {
	switch cfg.Backend {
	case config.StorageInline:
		return &audioBackend{store: audiostore.NewInline()}, nil

	case config.StorageDisk:
		d, err := audiostore.NewDisk(cfg.DiskDir, cfg.PublicPath, cfg.PublicBaseURL)
		if err != nil {
			return nil, fmt.Errorf("disk storage: %w", err)
		}
		return &audioBackend{store: d, files: d.Handler(), filesPath: d.PublicPath()}, nil

	case config.StorageMinio:
		m, err := audiostore.NewMinio(ctx, audiostore.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			BaseURL:   cfg.PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("minio storage: %w", err)
		}
		return &audioBackend{store: m, ping: m}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
