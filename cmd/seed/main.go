// Command seed loads the demo dataset: accounts, restaurants and reviews.
package main

import (
	"context"
	"flag"
	"log"

	"nativore/internal/cache"
	"nativore/internal/config"
	"nativore/internal/database"
	"nativore/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numListings := flag.Int("listings", defaults.Listings, "Number of restaurants to create")
	numReviews := flag.Int("reviews", defaults.Reviews, "Number of reviews to create")
	shouldClean := flag.Bool("clean", false, "Delete every account, restaurant and review before seeding")
	dryRun := flag.Bool("dry-run", false, "Generate data without writing to the database")
	randomSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 uses the clock)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d restaurants, %d reviews, clean=%v, dry-run=%v\n", *numListings, *numReviews, *shouldClean, *dryRun)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Seeding bumps the analytics cache generation when Redis is reachable.
	cache.InitRedis(cfg.RedisURL)
	defer cache.Close()

	catalog, err := seed.DefaultCatalog()
	if err != nil {
		log.Fatalf("❌ Catalog failed to load: %v", err)
	}

	s := seed.NewSeeder(db, seed.NewFakeGenerator(catalog, *randomSeed), seed.Options{
		Listings: *numListings,
		Reviews:  *numReviews,
		Clean:    *shouldClean,
		DryRun:   *dryRun,
	})
	sum, err := s.Run(context.Background())
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("   👥 Users: %d", sum.Users)
	log.Printf("   🍽️  Restaurants: %d", sum.Listings)
	log.Printf("   ⭐ Reviews: %d", sum.Reviews)
	log.Println("🔐 Demo credentials: admin / admin123, demo / demo123")
}
