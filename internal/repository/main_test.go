package repository

import (
	"log"
	"os"
	"testing"

	"lantern/internal/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")

	var err error
	testDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Printf("Repository tests skipped: sqlite unavailable: %v", err)
		os.Exit(0)
	}

	if err := testDB.AutoMigrate(database.AllModels()...); err != nil {
		log.Fatalf("failed to migrate test schema: %v", err)
	}

	os.Exit(m.Run())
}
