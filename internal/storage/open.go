package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"citizenvoice/backend/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects the backend selected by cfg.StorageDriver.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (Backend, error) {
	switch cfg.StorageDriver {
	case "memory":
		log.Warn("using in-memory storage, nothing survives a restart")
		return NewMemoryKV(), nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect redis at %s: %w", cfg.RedisAddr, err)
		}
		log.Info("storage connected", zap.String("driver", "redis"), zap.String("addr", cfg.RedisAddr))
		return NewRedisKV(rdb, cfg.RedisPrefix), nil

	case "postgres":
		db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), gormConfig(log))
		if err != nil {
			return nil, fmt.Errorf("failed to connect postgres: %w", err)
		}
		log.Info("storage connected", zap.String("driver", "postgres"))
		return NewGormKV(db)

	case "sqlite":
		return OpenSQLite(cfg.SQLitePath, log)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// OpenSQLite opens (and creates if needed) the on-device database file.
func OpenSQLite(path string, log *zap.Logger) (*GormKV, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	log.Info("storage connected", zap.String("driver", "sqlite"), zap.String("path", path))
	return NewGormKV(db)
}

func gormConfig(log *zap.Logger) *gorm.Config {
	return &gorm.Config{
		Logger: logger.New(
			zap.NewStdLog(log.Named("gorm")),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}
}
