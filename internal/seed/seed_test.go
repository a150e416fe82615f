package seed

import (
	"context"
	"math"
	"testing"

	"nativore/internal/database"
	"nativore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func newTestSeeder(t *testing.T, db *gorm.DB, opts Options) *Seeder {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	opts.PasswordCost = bcrypt.MinCost
	return NewSeeder(db, NewFakeGenerator(catalog, 42), opts)
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSeeder_Run(t *testing.T) {
	db := setupSQLiteDB(t)
	s := newTestSeeder(t, db, Options{Listings: 30, Reviews: 120})

	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(DemoAccounts), sum.Users)
	assert.Equal(t, 30, sum.Listings)
	assert.Equal(t, 120, sum.Reviews)
	assert.Equal(t, int64(30), sum.Rated)

	assert.Equal(t, int64(len(DemoAccounts)), count(t, db, &models.User{}))
	assert.Equal(t, int64(30), count(t, db, &models.Listing{}))
	assert.Equal(t, int64(120), count(t, db, &models.Review{}))

	var admin models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("admin123")))

	t.Run("ratings match reviews", func(t *testing.T) {
		var listings []models.Listing
		require.NoError(t, db.Preload("Reviews").Find(&listings).Error)
		for _, l := range listings {
			require.Equal(t, len(l.Reviews), l.ReviewCount, "listing %d", l.ID)
			if len(l.Reviews) == 0 {
				assert.Zero(t, l.Rating)
				continue
			}
			assert.Equal(t, meanRating(l.Reviews), l.Rating, "listing %d", l.ID)
		}
	})
}

func TestSeeder_AccountsIdempotent(t *testing.T) {
	db := setupSQLiteDB(t)
	s := newTestSeeder(t, db, Options{})
	ctx := context.Background()

	first, err := s.SeedAccounts(ctx)
	require.NoError(t, err)
	second, err := s.SeedAccounts(ctx)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
	assert.Equal(t, int64(len(DemoAccounts)), count(t, db, &models.User{}))
}

func TestSeeder_CleanRun(t *testing.T) {
	db := setupSQLiteDB(t)
	ctx := context.Background()

	_, err := newTestSeeder(t, db, Options{Listings: 10, Reviews: 20}).Run(ctx)
	require.NoError(t, err)
	_, err = newTestSeeder(t, db, Options{Listings: 5, Reviews: 8, Clean: true}).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(len(DemoAccounts)), count(t, db, &models.User{}))
	assert.Equal(t, int64(5), count(t, db, &models.Listing{}))
	assert.Equal(t, int64(8), count(t, db, &models.Review{}))
}

func TestSeeder_DryRun(t *testing.T) {
	db := setupSQLiteDB(t)
	s := newTestSeeder(t, db, Options{Listings: 10, Reviews: 25, Clean: true, DryRun: true})

	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, sum.Listings)
	assert.Equal(t, 25, sum.Reviews)
	assert.Zero(t, sum.Rated)

	assert.Zero(t, count(t, db, &models.User{}))
	assert.Zero(t, count(t, db, &models.Listing{}))
	assert.Zero(t, count(t, db, &models.Review{}))
}

// meanRating is the mean score in tenths, rounded half up to one decimal.
func meanRating(reviews []models.Review) float64 {
	var tenths int64
	for _, r := range reviews {
		tenths += int64(math.Round(r.Rating * 10))
	}
	n := int64(len(reviews))
	return float64((2*tenths+n)/(2*n)) / 10
}

func TestMeanRating(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   float64
	}{
		{"Single", []float64{3.7}, 3.7},
		{"HalfRoundsUp", []float64{3.5, 3.6}, 3.6},
		{"ThirdsRoundDown", []float64{4, 5, 4}, 4.3},
		{"ThirdsRoundUp", []float64{2.8, 2.9, 2.9}, 2.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews := make([]models.Review, len(tt.scores))
			for i, s := range tt.scores {
				reviews[i].Rating = s
			}
			assert.Equal(t, tt.want, meanRating(reviews))
		})
	}
}
