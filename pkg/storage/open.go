package storage

import (
	"context"
	"fmt"

	"github.com/lnmedico/lnmedico-backend/pkg/config"
	"github.com/lnmedico/lnmedico-backend/pkg/db"
	"github.com/lnmedico/lnmedico-backend/pkg/logger"
	"github.com/lnmedico/lnmedico-backend/pkg/migrate"
	"github.com/lnmedico/lnmedico-backend/pkg/redis"
)

// Open selects and boots the driver named by the storage config.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (Backend, error) {
	driver := cfg.Storage.NormalizedDriver()
	if logg != nil {
		ctx = logg.WithField(ctx, "storage_driver", driver)
	}

	var (
		backend Backend
		err     error
	)
	switch driver {
	case config.StorageDriverFile:
		backend, err = NewFileBackend(cfg.Storage.DataDir)
	case config.StorageDriverSQLite, config.StorageDriverPostgres:
		backend, err = openSQL(ctx, driver, cfg.DB, logg)
	case config.StorageDriverRedis:
		var client *redis.Client
		client, err = redis.New(ctx, cfg.Redis, logg)
		if err == nil {
			backend, err = NewRedisBackend(client)
		}
	case config.StorageDriverS3:
		backend, err = NewS3Backend(ctx, cfg.S3)
	default:
		err = fmt.Errorf("unsupported storage driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	if logg != nil {
		logg.Info(ctx, "storage backend ready")
	}
	return backend, nil
}

func openSQL(ctx context.Context, driver string, cfg config.DBConfig, logg *logger.Logger) (Backend, error) {
	client, err := db.New(ctx, driver, cfg, logg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		sqlDB, err := client.SQLDB()
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("extracting sql.DB: %w", err)
		}
		if err := migrate.Up(ctx, sqlDB, client.Dialect()); err != nil {
			_ = client.Close()
			return nil, err
		}
	}
	return NewSQLBackend(client)
}
