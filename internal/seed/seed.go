// Package seed provides database seeding utilities for development and demos.
package seed

import (
	"context"
	"fmt"
	"log"

	"nativore/internal/cache"
	"nativore/internal/models"
	"nativore/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configure a seeding run.
type Options struct {
	Listings int
	Reviews  int
	Clean    bool
	// DryRun generates rows and assigns synthetic IDs without writing.
	DryRun bool
	// PasswordCost is the bcrypt cost for demo accounts. Zero means bcrypt.DefaultCost.
	PasswordCost int
}

// DefaultOptions matches the demo dataset: 150 restaurants and 800 reviews.
func DefaultOptions() Options {
	return Options{Listings: 150, Reviews: 800}
}

// DemoAccount is a fixed account created by SeedAccounts.
type DemoAccount struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     models.Role
}

// DemoAccounts are the accounts every seeded database starts with.
var DemoAccounts = []DemoAccount{
	{Username: "admin", Email: "admin@nativore.com", Password: "admin123", FullName: "Admin User", Role: models.RoleAdmin},
	{Username: "demo", Email: "demo@nativore.com", Password: "demo123", FullName: "Demo User", Role: models.RoleUser},
	{Username: "foodlover", Email: "user1@example.com", Password: "password123", FullName: "Food Lover", Role: models.RoleUser},
	{Username: "chennaiexplorer", Email: "user2@example.com", Password: "password123", FullName: "Chennai Explorer", Role: models.RoleUser},
	{Username: "coimbatorefoodie", Email: "user3@example.com", Password: "password123", FullName: "Coimbatore Foodie", Role: models.RoleUser},
}

// Summary reports what a run created.
type Summary struct {
	Users    int
	Listings int
	Reviews  int
	Rated    int64
}

// Seeder writes generated data through GORM.
type Seeder struct {
	db       *gorm.DB
	gen      Generator
	listings repository.ListingRepository
	opts     Options
	nextID   uint
}

// NewSeeder binds a generator to db.
func NewSeeder(db *gorm.DB, gen Generator, opts Options) *Seeder {
	if opts.PasswordCost == 0 {
		opts.PasswordCost = bcrypt.DefaultCost
	}
	s := &Seeder{db: db, gen: gen, opts: opts, nextID: 1000}
	if db != nil {
		s.listings = repository.NewListingRepository(db)
	}
	return s
}

// Run seeds accounts, listings and reviews, then recomputes every rating.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	log.Printf("🌱 Seeding %d restaurants and %d reviews (dry-run=%v)", s.opts.Listings, s.opts.Reviews, s.opts.DryRun)

	if s.opts.Clean {
		if err := s.ClearAll(ctx); err != nil {
			return sum, fmt.Errorf("clear data: %w", err)
		}
	}

	users, err := s.SeedAccounts(ctx)
	if err != nil {
		return sum, fmt.Errorf("seed accounts: %w", err)
	}
	sum.Users = len(users)
	log.Printf("✓ %d accounts available", len(users))

	listings, err := s.SeedListings(ctx, s.opts.Listings)
	if err != nil {
		return sum, fmt.Errorf("seed listings: %w", err)
	}
	sum.Listings = len(listings)
	log.Printf("✓ %d restaurants created", len(listings))

	userIDs := make([]uint, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}
	listingIDs := make([]uint, 0, len(listings))
	for _, l := range listings {
		listingIDs = append(listingIDs, l.ID)
	}

	reviews, err := s.SeedReviews(ctx, s.opts.Reviews, userIDs, listingIDs)
	if err != nil {
		return sum, fmt.Errorf("seed reviews: %w", err)
	}
	sum.Reviews = len(reviews)
	log.Printf("✓ %d reviews created", len(reviews))

	rated, err := s.RecomputeAllRatings(ctx)
	if err != nil {
		return sum, fmt.Errorf("recompute ratings: %w", err)
	}
	sum.Rated = rated

	log.Println("🎉 Database seeding completed successfully!")
	return sum, nil
}

// ClearAll hard-deletes every review, listing and account. It is the only
// hard delete in the system.
func (s *Seeder) ClearAll(ctx context.Context) error {
	if s.opts.DryRun {
		log.Println("[dry-run] ClearAll skipped")
		return nil
	}
	log.Println("🗑️  Clearing existing data...")

	db := s.db.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`TRUNCATE TABLE reviews, restaurants, users RESTART IDENTITY CASCADE`).Error
	}
	return db.Transaction(func(tx *gorm.DB) error {
		all := tx.Unscoped().Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, m := range []any{&models.Review{}, &models.Listing{}, &models.User{}} {
			if err := all.Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SeedAccounts ensures every DemoAccount exists and returns them all.
// Existing accounts are left untouched.
func (s *Seeder) SeedAccounts(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0, len(DemoAccounts))
	for _, acct := range DemoAccounts {
		if s.opts.DryRun {
			s.nextID++
			users = append(users, models.User{ID: s.nextID, Username: acct.Username, Email: acct.Email, Role: acct.Role})
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(acct.Password), s.opts.PasswordCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", acct.Username, err)
		}
		attrs := models.User{
			Username: acct.Username,
			Email:    acct.Email,
			Password: string(hashed),
			FullName: acct.FullName,
			Role:     acct.Role,
			IsActive: true,
		}
		var user models.User
		if err := s.db.WithContext(ctx).
			Where(models.User{Username: acct.Username}).
			Attrs(attrs).
			FirstOrCreate(&user).Error; err != nil {
			return nil, fmt.Errorf("create account %s: %w", acct.Username, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedListings generates and stores n listings.
func (s *Seeder) SeedListings(ctx context.Context, n int) ([]models.Listing, error) {
	listings := s.gen.Listings(n)
	if len(listings) == 0 {
		return listings, nil
	}
	if s.opts.DryRun {
		for i := range listings {
			s.nextID++
			listings[i].ID = s.nextID
		}
		log.Printf("[dry-run] SeedListings: %d restaurants (no DB write)", len(listings))
		return listings, nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&listings, 100).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// SeedReviews generates and stores m reviews over the given users and listings.
func (s *Seeder) SeedReviews(ctx context.Context, m int, userIDs, listingIDs []uint) ([]models.Review, error) {
	reviews := s.gen.Reviews(m, userIDs, listingIDs)
	if len(reviews) == 0 {
		return reviews, nil
	}
	if s.opts.DryRun {
		for i := range reviews {
			s.nextID++
			reviews[i].ID = s.nextID
		}
		log.Printf("[dry-run] SeedReviews: %d reviews (no DB write)", len(reviews))
		return reviews, nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&reviews, 200).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// RecomputeAllRatings brings every listing's rating and review count in line
// with its reviews and drops cached analytics.
func (s *Seeder) RecomputeAllRatings(ctx context.Context) (int64, error) {
	if s.opts.DryRun {
		return 0, nil
	}
	n, err := s.listings.RecomputeAllRatings(ctx)
	if err != nil {
		return 0, err
	}
	if err := cache.BumpAnalyticsGeneration(ctx); err != nil {
		log.Printf("⚠️  Warning: could not invalidate analytics cache: %v", err)
	}
	return n, nil
}
