package store

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm/logger"

	"campus-scheduler/internal/account"
	"campus-scheduler/internal/booking"
	"campus-scheduler/internal/config"
	"campus-scheduler/internal/store/gormstore"
)

// Backend is everything the services need from a store.
type Backend interface {
	booking.Store
	account.Store
	Ping(ctx context.Context) error
}

var (
	_ Backend = (*Store)(nil)
	_ Backend = (*gormstore.Store)(nil)
)

// Open connects to the configured driver and applies the schema. The pgx
// driver uses this package; postgres and sqlite go through gormstore.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Backend, func(), error) {
	if cfg.Driver != config.DriverPgx {
		st, err := gormstore.Open(gormstore.Config{
			Driver:                 cfg.Driver,
			DSN:                    cfg.DSN,
			MaxOpenConns:           cfg.MaxOpenConns,
			MaxIdleConns:           cfg.MaxIdleConns,
			ConnMaxLifetimeMinutes: cfg.ConnMaxLifetimeMinutes,
			LogLevel:               logger.Warn,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Printf("connected to %s via gorm", cfg.Driver)
		return st, func() { st.Close() }, nil
	}

	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("db ping: %w", err)
	}
	log.Println("connected to postgres")

	st := New(pool)
	if err := st.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	log.Println("migration applied")
	return st, pool.Close, nil
}
