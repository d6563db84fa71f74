package database

import (
	"fmt"
	"time"

	"lantern/internal/config"
	"lantern/internal/middleware"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// readDBInstance is the optional read-replica connection. Nil when no
// replica is configured; readers fall back to the primary.
var readDBInstance *gorm.DB

// ConnectRead opens the read-replica connection if DB_READ_HOST is set.
// A replica failure is not fatal; reads fall back to the primary.
func ConnectRead(cfg *config.Config) {
	if cfg.DBReadHost == "" {
		return
	}

	sslMode := cfg.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBReadHost,
		cfg.DBReadPort,
		cfg.DBReadUser,
		cfg.DBReadPassword,
		cfg.DBName,
		sslMode,
	)

	gormLogger := &CustomGormLogger{
		logger: middleware.Logger,
		Config: logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		middleware.Logger.Warn("Read replica unavailable, falling back to primary", "error", err.Error())
		readDBInstance = nil
		return
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	readDBInstance = db
	middleware.Logger.Info("Read replica connected successfully")
}

// GetReadDB returns the read-replica connection, or nil if none is configured.
func GetReadDB() *gorm.DB {
	return readDBInstance
}
