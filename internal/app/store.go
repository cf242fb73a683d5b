package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"billiard/internal/config"
	"billiard/internal/repository"
	"billiard/internal/repository/file"
	"billiard/internal/repository/gormstore"
	"billiard/internal/repository/memory"
	"billiard/internal/repository/postgres"
)

const defaultSQLitePath = ".data/pos.db"

// NewDocumentStore opens the store selected by cfg.Store.Driver. The
// returned close func releases any database handle.
func NewDocumentStore(ctx context.Context, cfg *config.Config, nrApp *newrelic.Application, log logrus.FieldLogger) (repository.DocumentStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Driver {
	case config.StoreDriverFile, "":
		return file.NewStore(cfg.Store.Path), noop, nil

	case config.StoreDriverMemory:
		return memory.NewStore(), noop, nil

	case config.StoreDriverPostgres:
		db, err := NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewDocumentStore(db), db.Close, nil

	case config.StoreDriverSQLite:
		dsn := cfg.Store.DSN
		if dsn == "" {
			dsn = defaultSQLitePath
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, nil, err
			}
		}
		return openGormStore(sqlite.Open(dsn), log)

	case config.StoreDriverMySQL:
		if cfg.Store.DSN == "" {
			return nil, nil, fmt.Errorf("STORE_DSN is required for the %s store", cfg.Store.Driver)
		}
		return openGormStore(mysql.Open(cfg.Store.DSN), log)

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func openGormStore(dialector gorm.Dialector, log logrus.FieldLogger) (repository.DocumentStore, func() error, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", dialector.Name(), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}

	store, err := gormstore.NewStore(db)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to migrate %s: %w", dialector.Name(), err)
	}

	return store, sqlDB.Close, nil
}
