package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/medocs/internal/common"
)

type Config struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ConfigFrom maps the application store settings.
func ConfigFrom(c common.StoreConfig) Config {
	return Config{
		DSN:              c.DSN,
		MaxConns:         c.MaxConns,
		MinConns:         c.MinConns,
		MaxConnLifetime:  c.MaxConnLifetime,
		MaxConnIdleTime:  c.MaxConnIdleTime,
		DialTimeout:      c.DialTimeout,
		StatementTimeout: c.StatementTimeout,
	}
}

// OpenPostgres creates a pgx pool, wraps it for the ent driver, and returns both.
func OpenPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*SQLStore, *pgxpool.Pool, error) {
	logger.Info("connecting to database", "driver", "postgres")
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse database dsn", "error", err)
		return nil, nil, err
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "medocs"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprintf("%d", cfg.StatementTimeout.Milliseconds())
	}

	dialCtx, cancel := common.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, nil, err
	}

	db := stdlib.OpenDBFromPool(pool)
	store := NewSQLStore(entsql.OpenDB(dialect.Postgres, db), logger)
	logger.Info("successfully connected to database")
	return store, pool, nil
}

// OpenSQLite opens (or creates) a SQLite database file. ":memory:" is
// supported; the pool is pinned to one connection so every query sees the
// same in-memory database.
func OpenSQLite(ctx context.Context, dsn string, logger *slog.Logger) (*SQLStore, *sql.DB, error) {
	logger.Info("opening database", "driver", "sqlite", "dsn", dsn)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, err
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		logger.Error("failed to open sqlite database", "error", err)
		return nil, nil, err
	}
	return NewSQLStore(entsql.OpenDB(dialect.SQLite, db), logger), db, nil
}

// Open builds the store the configuration names, runs its migration and
// returns a closer for the underlying connections.
func Open(ctx context.Context, cfg common.StoreConfig, logger *slog.Logger) (DocumentStore, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Driver {
	case "memory", "":
		return NewMemoryStore(), func() {}, nil
	case "sqlite":
		store, db, err := OpenSQLite(ctx, cfg.DSN, logger)
		if err != nil {
			return nil, nil, common.NewAppError(common.CodeStore, "open sqlite", err)
		}
		closer := func() { Close(db, nil, logger) }
		if err := store.Migrate(ctx); err != nil {
			closer()
			return nil, nil, err
		}
		return store, closer, nil
	case "postgres":
		store, pool, err := OpenPostgres(ctx, ConfigFrom(cfg), logger)
		if err != nil {
			return nil, nil, common.NewAppError(common.CodeStore, "open postgres", err)
		}
		closer := func() { Close(nil, pool, logger) }
		if err := HealthCheck(ctx, pool, cfg.DialTimeout, logger); err != nil {
			closer()
			return nil, nil, common.NewAppError(common.CodeStore, "ping postgres", err)
		}
		if err := store.Migrate(ctx); err != nil {
			closer()
			return nil, nil, err
		}
		return store, closer, nil
	default:
		return nil, nil, common.NewAppError("CONFIG_ERROR", "unknown store driver "+cfg.Driver, common.ErrInvalidInput)
	}
}

// Close closes the database connections gracefully
func Close(db *sql.DB, pool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("closing database connections")
	if pool != nil {
		pool.Close()
	}
	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}
	logger.Info("database connections closed")
}

// HealthCheck pings the pool to catch DSN issues early.
func HealthCheck(ctx context.Context, pool *pgxpool.Pool, timeout time.Duration, logger *slog.Logger) error {
	logger.Debug("pinging database")
	ctx, cancel := common.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		return err
	}
	logger.Debug("database ping successful")
	return nil
}
