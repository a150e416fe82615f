package analytics

import "nativore/internal/models"

// Overview holds platform-wide totals.
type Overview struct {
	TotalRestaurants int     `json:"total_restaurants"`
	TotalReviews     int64   `json:"total_reviews"`
	TotalCities      int     `json:"total_cities"`
	AvgRating        float64 `json:"avg_rating"`
	AvgPrice         float64 `json:"avg_price"`
}

// MostReviewed identifies the listing with the most reviews.
type MostReviewed struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	City        string  `json:"city"`
	ReviewCount int     `json:"review_count"`
	Rating      float64 `json:"rating"`
}

// Dashboard aggregates the headline numbers shown to signed-in users.
type Dashboard struct {
	Overview               Overview      `json:"overview"`
	TopCuisine             string        `json:"top_cuisine"`
	MostReviewedRestaurant *MostReviewed `json:"most_reviewed_restaurant"`
}

// BuildDashboard computes dashboard statistics. totalReviews is counted by the store.
func BuildDashboard(listings []models.Listing, totalReviews int64) Dashboard {
	var all stats
	cities := make(map[string]struct{})
	cuisines := make(map[string]int)
	var most *models.Listing
	for i := range listings {
		l := &listings[i]
		all.add(l)
		cities[l.City] = struct{}{}
		cuisines[l.Cuisine]++
		if most == nil || l.ReviewCount > most.ReviewCount ||
			(l.ReviewCount == most.ReviewCount && l.ID < most.ID) {
			most = l
		}
	}

	d := Dashboard{
		Overview: Overview{
			TotalRestaurants: all.count,
			TotalReviews:     totalReviews,
			TotalCities:      len(cities),
			AvgRating:        round2(all.meanRating()),
			AvgPrice:         round2(all.meanPrice()),
		},
		TopCuisine: "N/A",
	}
	if len(cuisines) > 0 {
		d.TopCuisine = modal(cuisines)
	}
	if most != nil {
		d.MostReviewedRestaurant = &MostReviewed{
			ID:          most.ID,
			Name:        most.Name,
			City:        most.City,
			ReviewCount: most.ReviewCount,
			Rating:      most.Rating,
		}
	}
	return d
}
