package analytics

import (
	"sort"

	"nativore/internal/models"
)

// RatedListing is one entry of the top-rated list.
type RatedListing struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	City        string  `json:"city"`
	Area        string  `json:"area"`
	Cuisine     string  `json:"cuisine"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	AvgPrice    float64 `json:"avg_price"`
}

// TopRated returns reviewed listings ordered by rating, then review count.
func TopRated(listings []models.Listing, limit int) []RatedListing {
	out := make([]RatedListing, 0, len(listings))
	for _, l := range listings {
		if l.ReviewCount <= 0 {
			continue
		}
		out = append(out, RatedListing{
			ID:          l.ID,
			Name:        l.Name,
			City:        l.City,
			Area:        l.Area,
			Cuisine:     l.Cuisine,
			Rating:      l.Rating,
			ReviewCount: l.ReviewCount,
			AvgPrice:    l.AvgPrice,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if a.ReviewCount != b.ReviewCount {
			return a.ReviewCount > b.ReviewCount
		}
		return a.ID < b.ID
	})
	return out[:capAt(len(out), limit)]
}
