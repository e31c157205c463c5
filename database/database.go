package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"legalaid-backend/logger"
	"legalaid-backend/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB is the gorm handle plus the pgx pool underneath it, when there is one
type DB struct {
	*gorm.DB
	pool *pgxpool.Pool
	log  *logger.Logger
}

// Open connects to the configured database. For postgres the pgx pool is
// pinged first and gorm runs on top of it through the stdlib bridge.
func Open(ctx context.Context, driver, dsn string, log *logger.Logger) (*DB, error) {
	if log == nil {
		log = logger.Nop()
	}
	dbLog := log.With("service", "Database")
	gcfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	}

	switch driver {
	case DriverPostgres:
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping postgres: %w", err)
		}
		sqlDB := stdlib.OpenDBFromPool(pool)
		gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gcfg)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to open gorm on postgres: %w", err)
		}
		dbLog.Info("Postgres connection established")
		return &DB{DB: gdb, pool: pool, log: dbLog}, nil

	case DriverSQLite:
		gdb, err := gorm.Open(sqlite.Open(dsn), gcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		// In-memory databases exist per connection
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
		dbLog.Info("SQLite database opened", "dsn", dsn)
		return &DB{DB: gdb, log: dbLog}, nil

	default:
		return nil, fmt.Errorf("unknown database driver: %s", driver)
	}
}

// Migrate creates or updates every table the service uses
func (d *DB) Migrate(ctx context.Context) error {
	start := time.Now()
	err := d.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Case{},
		&models.Feedback{},
		&models.Attachment{},
	)
	if err != nil {
		d.log.Error("Auto migration failed", "error", err)
		return fmt.Errorf("auto migration failed: %w", err)
	}
	d.log.Info("Auto migration complete", "took", time.Since(start))
	return nil
}

// Ping checks that the database answers
func (d *DB) Ping(ctx context.Context) error {
	if d.pool != nil {
		return d.pool.Ping(ctx)
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *DB) Close() {
	if sqlDB, err := d.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if d.pool != nil {
		d.pool.Close()
	}
}

// SQL exposes the underlying *sql.DB
func (d *DB) SQL() (*sql.DB, error) {
	return d.DB.DB()
}

// IsUniqueViolation reports whether err came from a unique constraint
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
