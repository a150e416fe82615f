package repository

import (
	"testing"
	"time"

	"nativore/internal/database"
	"nativore/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB returns a Postgres-dialect gorm DB backed by sqlmock for exact-SQL tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

// setupSQLiteDB returns a migrated in-memory database for behavioural tests.
// A single connection keeps the in-memory database alive for the test.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	u := &models.User{Username: username, Email: username + "@example.com", Password: "x", FullName: username}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedListing(t *testing.T, db *gorm.DB, l models.Listing) *models.Listing {
	if l.Area == "" {
		l.Area = "T Nagar"
	}
	if l.Cuisine == "" {
		l.Cuisine = "South Indian"
	}
	if l.City == "" {
		l.City = "Chennai"
	}
	if l.AvgPrice == 0 {
		l.AvgPrice = 400
	}
	require.NoError(t, db.Create(&l).Error)
	return &l
}

func seedReview(t *testing.T, db *gorm.DB, userID, listingID uint, score float64) *models.Review {
	r := &models.Review{UserID: userID, ListingID: listingID, Rating: score, CreatedAt: time.Now()}
	require.NoError(t, db.Omit("User", "Listing").Create(r).Error)
	return r
}

func ptr[T any](v T) *T {
	return &v
}
