// Package bootstrap opens the storage backends selected by configuration.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/elhossary/offerwall-api/internal/config"
	"github.com/elhossary/offerwall-api/internal/domain/earning"
	"github.com/elhossary/offerwall-api/internal/pkg/database"
	"github.com/elhossary/offerwall-api/internal/pkg/kv"
)

// OpenStore returns the kv.Store for cfg.StorageDriver.
func OpenStore(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (kv.Store, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		log.Warn().Msg("Using in-memory storage, data is lost on restart")
		return kv.NewMemoryStore(), nil
	case config.StorageDriverFile:
		return kv.NewFileStore(cfg.StorageFileDir, cfg.StorageKeyPrefix)
	case config.StorageDriverRedis:
		return kv.NewRedisStore(redisClient, cfg.StorageKeyPrefix)
	case config.StorageDriverS3:
		return kv.NewS3Store(ctx, kv.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			AccessKeySecret: cfg.S3SecretAccessKey,
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.StorageKeyPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// Ledger is an opened earning repository and whatever must be closed with it.
type Ledger struct {
	Repo earning.Repository
	db   *sqlx.DB
}

// Close releases the SQL pool if one was opened.
func (l *Ledger) Close() {
	database.ClosePostgres(l.db)
}

// OpenLedger returns the earning repository for cfg.LedgerDriver.
func OpenLedger(ctx context.Context, cfg *config.Config, store kv.Store) (*Ledger, error) {
	switch cfg.LedgerDriver {
	case config.LedgerDriverKV:
		return &Ledger{Repo: earning.NewKVRepository(store, cfg.LedgerStrictReads)}, nil
	case config.LedgerDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		repo := earning.NewPostgresRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			database.ClosePostgres(db)
			return nil, err
		}
		return &Ledger{Repo: repo, db: db}, nil
	default:
		return nil, fmt.Errorf("unknown ledger driver %q", cfg.LedgerDriver)
	}
}
