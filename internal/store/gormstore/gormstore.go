// Package gormstore implements the booking, identity and token stores on
// gorm. The sqlite dialect backs single-node deployments and tests; the
// postgres dialect is an alternative to the pgx store.
package gormstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campus-scheduler/internal/model"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// serialization failures are retried this many times before giving up.
const maxCommitAttempts = 3

type Config struct {
	Driver                 string
	DSN                    string
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeMinutes int
	LogLevel               logger.LogLevel
}

type Store struct {
	db *gorm.DB
}

// MemoryDSN names a private in-memory sqlite database.
func MemoryDSN() string {
	return "file:" + uuid.NewString() + "?mode=memory&cache=shared"
}

// New wraps an open connection. Migrate must have run.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects, sizes the pool and migrates.
func Open(cfg Config) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(cfg.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// one writer at a time; this is what makes Commit atomic on sqlite
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetimeMinutes > 0 {
			sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
		}
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return New(db), nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userRow{},
		&refreshTokenRow{},
		&slotRow{},
		&appointmentRow{},
		&participantRow{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// txOptions asks postgres for SERIALIZABLE; sqlite is already single-writer.
func (s *Store) txOptions() []*sql.TxOptions {
	if s.db.Dialector.Name() == DriverPostgres {
		return []*sql.TxOptions{{Isolation: sql.LevelSerializable}}
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}
