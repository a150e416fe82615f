package seed

import (
	"fmt"
	"time"

	"nativore/internal/analytics"
	"nativore/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// Generator produces unsaved synthetic rows. Implementations can be swapped
// for fixture files or recorded data without touching the Seeder.
type Generator interface {
	Listings(n int) []models.Listing
	Reviews(m int, userIDs, listingIDs []uint) []models.Review
}

// FakeGenerator draws listings and reviews from a Catalog using gofakeit.
type FakeGenerator struct {
	catalog *Catalog
	faker   *gofakeit.Faker
}

// NewFakeGenerator returns a generator over catalog. A zero seed uses the
// current time, any other value gives a reproducible sequence.
func NewFakeGenerator(catalog *Catalog, seed int64) *FakeGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &FakeGenerator{catalog: catalog, faker: gofakeit.New(seed)}
}

// Listings returns n active listings spread across the catalog's cities.
func (g *FakeGenerator) Listings(n int) []models.Listing {
	out := make([]models.Listing, 0, max(n, 0))
	for i := 0; i < n; i++ {
		city := g.catalog.Cities[g.faker.IntRange(0, len(g.catalog.Cities)-1)]
		area := g.faker.RandomString(city.Areas)
		cuisine := g.faker.RandomString(g.catalog.Cuisines)
		band := g.catalog.PriceBands[g.faker.IntRange(0, len(g.catalog.PriceBands)-1)]

		out = append(out, models.Listing{
			Name:          g.name(),
			City:          city.Name,
			Area:          area,
			Cuisine:       cuisine,
			AvgPrice:      float64(g.faker.IntRange(band.Min, band.Max)),
			Rating:        analytics.Round(g.faker.Float64Range(2.5, 5.0), 1),
			Latitude:      analytics.Round(city.Latitude+g.faker.Float64Range(-0.05, 0.05), 6),
			Longitude:     analytics.Round(city.Longitude+g.faker.Float64Range(-0.05, 0.05), 6),
			SpendingIndex: analytics.Round(g.faker.Float64Range(0.5, 2.5), 2),
			Description:   g.description(cuisine, city.Name),
			Phone:         fmt.Sprintf("+91 %d %d", g.faker.IntRange(90000, 99999), g.faker.IntRange(10000, 99999)),
			Address:       fmt.Sprintf("%d, %s, %s, Tamil Nadu", g.faker.IntRange(1, 999), area, city.Name),
			ImageURL:      fmt.Sprintf("https://picsum.photos/seed/%d/800/600", g.faker.IntRange(1, 1000)),
			IsActive:      true,
		})
	}
	return out
}

// Reviews returns m reviews pairing random users with random listings.
// Roughly seven in ten carry a comment.
func (g *FakeGenerator) Reviews(m int, userIDs, listingIDs []uint) []models.Review {
	if len(userIDs) == 0 || len(listingIDs) == 0 {
		return nil
	}
	out := make([]models.Review, 0, max(m, 0))
	for i := 0; i < m; i++ {
		r := models.Review{
			UserID:    userIDs[g.faker.IntRange(0, len(userIDs)-1)],
			ListingID: listingIDs[g.faker.IntRange(0, len(listingIDs)-1)],
			Rating:    analytics.Round(g.faker.Float64Range(models.MinReviewScore, models.MaxReviewScore), 1),
		}
		if len(g.catalog.ReviewComments) > 0 && g.faker.Float64Range(0, 1) > 0.3 {
			comment := g.faker.RandomString(g.catalog.ReviewComments)
			r.Comment = &comment
		}
		out = append(out, r)
	}
	return out
}

func (g *FakeGenerator) name() string {
	prefix := g.faker.RandomString(g.catalog.NamePrefixes)
	suffix := g.faker.RandomString(g.catalog.NameSuffixes)
	if g.faker.Float64Range(0, 1) < 0.3 {
		return suffix + " " + prefix
	}
	return prefix + " " + suffix
}

func (g *FakeGenerator) description(cuisine, city string) string {
	dish := func() string { return g.faker.RandomString(g.catalog.Dishes) }
	switch g.faker.IntRange(0, 4) {
	case 0:
		return fmt.Sprintf("Authentic %s restaurant in %s. Famous for our %s.", cuisine, city, dish())
	case 1:
		return fmt.Sprintf("Experience the best %s cuisine in %s. Specializing in %s and %s.", cuisine, city, dish(), dish())
	case 2:
		return fmt.Sprintf("Family-friendly %s restaurant serving delicious %s since %d.", cuisine, dish(), g.faker.IntRange(1990, 2020))
	case 3:
		return fmt.Sprintf("Premium %s dining experience. Must try our signature %s.", cuisine, dish())
	default:
		return fmt.Sprintf("Traditional %s flavors with modern presentation. Popular for %s.", cuisine, dish())
	}
}
