package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"salle-backend/models"
)

// testDB opens an isolated in-memory SQLite database per test.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A shared-cache memory database vanishes when its last connection
	// closes; keep a single one for the test's lifetime.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Admin{},
		&models.AdminSession{},
		&models.Room{},
		&models.Reservation{},
		&models.Advertisement{},
	))
	return db
}

func testRoom(t *testing.T, db *gorm.DB, capacity int, pricePerDay int64) *models.Room {
	t.Helper()
	room := &models.Room{
		Name:        "Salle Test",
		Capacity:    capacity,
		PricePerDay: pricePerDay,
		Available:   true,
	}
	require.NoError(t, db.Create(room).Error)
	return room
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
