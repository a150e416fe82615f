// Package bootstrap wires the runtime dependencies shared by the server and
// the maintenance commands.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"nativore/internal/cache"
	"nativore/internal/config"
	"nativore/internal/database"
	"nativore/internal/models"
	"nativore/internal/seed"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemoData loads the demo dataset when the restaurants table is empty.
	SeedDemoData bool
}

// InitRuntime connects to DB and Redis and optionally seeds an empty database.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Nil client when Redis is unreachable; callers degrade.
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := EnsureDevAdmin(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
	}

	if opts.SeedDemoData {
		if err := seedIfEmpty(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

func seedIfEmpty(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.Listing{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	catalog, err := seed.DefaultCatalog()
	if err != nil {
		return err
	}
	_, err = seed.NewSeeder(db, seed.NewFakeGenerator(catalog, 0), seed.DefaultOptions()).Run(context.Background())
	return err
}

// EnsureDevAdmin creates or promotes the configured admin account in
// development when DEV_BOOTSTRAP_ADMIN is set.
func EnsureDevAdmin(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapAdmin {
		return nil
	}

	username := strings.TrimSpace(cfg.DevAdminUsername)
	if username == "" {
		username = "admin"
	}
	email := strings.TrimSpace(strings.ToLower(cfg.DevAdminEmail))
	if email == "" {
		email = "admin@nativore.com"
	}
	password := cfg.DevAdminPassword
	if password == "" {
		return fmt.Errorf("DEV_ADMIN_PASSWORD must be set when DEV_BOOTSTRAP_ADMIN is enabled")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	var adminID uint
	if err := db.Transaction(func(tx *gorm.DB) error {
		var admin models.User
		findErr := tx.Where("username = ?", username).First(&admin).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			admin = models.User{
				Username: username,
				Email:    email,
				Password: string(hashedPassword),
				FullName: "Admin User",
				Role:     models.RoleAdmin,
				IsActive: true,
			}
			if err := tx.Create(&admin).Error; err != nil {
				return err
			}
		case findErr != nil:
			return findErr
		default:
			if err := tx.Model(&models.User{}).Where("id = ?", admin.ID).
				Updates(map[string]any{"role": models.RoleAdmin, "is_active": true}).Error; err != nil {
				return err
			}
		}
		adminID = admin.ID

		// Keep the users sequence ahead of rows inserted with explicit IDs
		// by earlier seed runs. PostgreSQL only.
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec(`
				SELECT setval(
					pg_get_serial_sequence('users', 'id'),
					GREATEST((SELECT COALESCE(MAX(id), 1) FROM users), 1),
					true
				)
			`).Error; err != nil {
				return fmt.Errorf("failed to reset users sequence: %w", err)
			}
		}

		return nil
	}); err != nil {
		return err
	}

	cache.InvalidateUser(context.Background(), adminID)
	log.Printf("development admin bootstrap ensured for user ID %d (%s)", adminID, email)
	return nil
}
