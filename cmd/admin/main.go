// Command admin manages account roles and listing maintenance.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"nativore/internal/cache"
	"nativore/internal/config"
	"nativore/internal/database"
	"nativore/internal/models"
	"nativore/internal/repository"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Role changes drop the cached account so the next request sees them.
	cache.InitRedis(cfg.RedisURL)
	defer cache.Close()

	ctx := context.Background()
	switch command := os.Args[1]; command {
	case "promote":
		requireArg("promote <username>")
		setRole(ctx, db, os.Args[2], models.RoleAdmin)
	case "demote":
		requireArg("demote <username>")
		setRole(ctx, db, os.Args[2], models.RoleUser)
	case "list-admins":
		listAdmins(db)
	case "recompute-ratings":
		recomputeRatings(ctx, db)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin promote <username>   - Grant the admin role")
	fmt.Println("  go run ./cmd/admin demote <username>    - Revoke the admin role")
	fmt.Println("  go run ./cmd/admin list-admins          - List all admins")
	fmt.Println("  go run ./cmd/admin recompute-ratings    - Rebuild every restaurant rating from its reviews")
}

func requireArg(usage string) {
	if len(os.Args) < 3 {
		fmt.Printf("Usage: go run ./cmd/admin %s\n", usage)
		os.Exit(1)
	}
}

func setRole(ctx context.Context, db *gorm.DB, username string, role models.Role) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User %s not found\n", username)
			os.Exit(1)
		}
		log.Fatalf("Database error: %v", err)
	}

	if user.Role == role {
		fmt.Printf("User %s (ID: %d) already has role %s\n", user.Username, user.ID, role)
		return
	}

	if err := db.Model(&user).Update("role", role).Error; err != nil {
		log.Fatalf("Failed to update role: %v", err)
	}
	cache.InvalidateUser(ctx, user.ID)

	fmt.Printf("✅ %s (ID: %d) now has role %s\n", user.Username, user.ID, role)
}

func listAdmins(db *gorm.DB) {
	var admins []models.User
	if err := db.Where("role = ?", models.RoleAdmin).Order("id").Find(&admins).Error; err != nil {
		log.Fatalf("Failed to fetch admins: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No admins found in the system")
		return
	}

	fmt.Println("\n📋 Current Admins:")
	fmt.Println("─────────────────────────────────────")
	for _, admin := range admins {
		fmt.Printf("ID: %d | Username: %s | Email: %s | Active: %t\n", admin.ID, admin.Username, admin.Email, admin.IsActive)
	}
	fmt.Println("─────────────────────────────────────")
}

func recomputeRatings(ctx context.Context, db *gorm.DB) {
	n, err := repository.NewListingRepository(db).RecomputeAllRatings(ctx)
	if err != nil {
		log.Fatalf("Failed to recompute ratings: %v", err)
	}
	if err := cache.BumpAnalyticsGeneration(ctx); err != nil {
		log.Printf("Warning: could not invalidate analytics cache: %v", err)
	}
	fmt.Printf("✅ Recomputed ratings for %d restaurants\n", n)
}
