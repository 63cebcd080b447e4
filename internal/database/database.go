// Package database opens the gorm connection shared by all modules.
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/lineup/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	db   *gorm.DB
	dbMu sync.RWMutex
)

// Connect opens a database connection for the given configuration
func Connect(cfg config.DatabaseConfig, log hclog.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: newGormLogger(log, cfg.LogQueries),
	}

	var (
		conn *gorm.DB
		err  error
	)
	switch cfg.Type {
	case "postgres":
		conn, err = gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	case "sqlite":
		path := cfg.DSN()
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		conn, err = gorm.Open(sqlite.Open(path), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Type, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	log.Info("database connected", "type", cfg.Type)
	return conn, nil
}

// Initialize connects and stores the connection as the process-wide handle
func Initialize(cfg config.DatabaseConfig, log hclog.Logger) (*gorm.DB, error) {
	conn, err := Connect(cfg, log)
	if err != nil {
		return nil, err
	}
	dbMu.Lock()
	db = conn
	dbMu.Unlock()
	return conn, nil
}

// GetDB returns the database instance set by Initialize
func GetDB() *gorm.DB {
	dbMu.RLock()
	defer dbMu.RUnlock()
	return db
}

// Close closes the process-wide connection, if any
func Close() error {
	dbMu.Lock()
	defer dbMu.Unlock()
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	db = nil
	return sqlDB.Close()
}

func newGormLogger(log hclog.Logger, logQueries bool) gormlogger.Interface {
	level := gormlogger.Silent
	if logQueries {
		level = gormlogger.Info
	}
	std := log.Named("gorm").StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true})
	return gormlogger.New(std, gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
