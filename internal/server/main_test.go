package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"nativore/internal/cache"
	"nativore/internal/config"
	"nativore/internal/database"
	"nativore/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

// testEnv is a server wired to an in-memory database and a miniredis instance.
type testEnv struct {
	srv *Server
	app *fiber.App
	db  *gorm.DB
	mr  *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() { cache.SetClient(nil) })

	cfg := &config.Config{
		JWTSecret:                testSecret,
		JWTTTLHours:              1,
		Env:                      "test",
		FeatureFlags:             "analytics_cache=on",
		AnalyticsCacheTTLSeconds: 60,
		AllowedOrigins:           "http://localhost:3000",
	}
	srv, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)

	return &testEnv{srv: srv, app: srv.NewApp(), db: db, mr: mr}
}

// createUser stores an account and returns it with a valid bearer token.
func (e *testEnv) createUser(t *testing.T, username string, role models.Role) (*models.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Filter-Coffee42"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, e.db.Create(u).Error)

	token, _, err := e.srv.tokens.Issue(u.ID, u.Username)
	require.NoError(t, err)
	return u, token
}

func (e *testEnv) createListing(t *testing.T, l models.Listing) *models.Listing {
	t.Helper()
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
	if l.SpendingIndex == 0 {
		l.SpendingIndex = 1.2
	}
	l.IsActive = true
	require.NoError(t, e.db.Create(&l).Error)
	return &l
}

// do sends a request and returns the response with its body read.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

// doHeader sends a bodiless request with a raw Authorization header.
func (e *testEnv) doHeader(t *testing.T, method, path, authorization string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeMap(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
