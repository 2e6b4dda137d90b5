package data

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/osint-analysis-backend/internal/conf"
	"github.com/lk2023060901/osint-analysis-backend/internal/export"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/database"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/logger"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/minio"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/redis"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/store"
)

// Data holds the persistence resources selected by configuration
type Data struct {
	Store  store.Store
	DB     *database.DB
	Redis  *redis.Client
	Logger *logger.Logger
}

// NewData opens the configured store backend. The cleanup func releases every
// connection it opened.
func NewData(config *conf.Config, log *logger.Logger) (*Data, func(), error) {
	d := &Data{Logger: log}

	switch config.Storage.Backend {
	case store.BackendRedis:
		rdb, err := redis.New(&config.Redis, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init redis: %w", err)
		}
		d.Redis = rdb
		d.Store = store.NewRedis(rdb)

	case store.BackendDatabase:
		db, err := database.New(&config.Database, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init database: %w", err)
		}
		s, err := store.NewGorm(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to auto migrate: %w", err)
		}
		d.DB = db
		d.Store = s

	default:
		d.Store = store.NewMemory()
	}

	log.Info("store initialized", zap.String("backend", config.Storage.Backend))

	cleanup := func() {
		log.Info("cleaning up data resources")

		if d.DB != nil {
			if err := d.DB.Close(); err != nil {
				log.Warn("failed to close database", zap.Error(err))
			}
		}

		if d.Redis != nil {
			if err := d.Redis.Close(); err != nil {
				log.Warn("failed to close redis", zap.Error(err))
			}
		}
	}

	return d, cleanup, nil
}

// NewExportSink builds the configured export target. A nil sink means export
// is disabled.
func NewExportSink(config *conf.Config, log *logger.Logger) (export.Sink, func(), error) {
	cfg := config.Export
	switch cfg.Backend {
	case "":
		log.Warn("export disabled, no backend configured")
		return nil, func() {}, nil

	case export.BackendMinIO:
		client, err := minio.NewClient(&cfg.MinIO, log.Logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init minio: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sink, err := export.NewMinIOSink(ctx, client, cfg.Prefix)
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to prepare export bucket: %w", err)
		}
		return sink, func() { _ = client.Close() }, nil

	default:
		sink, err := export.NewLocalSink(cfg.Dir, log)
		if err != nil {
			return nil, nil, err
		}
		return sink, func() {}, nil
	}
}
