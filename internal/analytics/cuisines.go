package analytics

import (
	"sort"

	"nativore/internal/models"
)

// DefaultCuisineLimit is the cuisine ranking size when the caller gives none.
const DefaultCuisineLimit = 10

// CuisineStat is one row of the cuisine ranking.
type CuisineStat struct {
	Cuisine         string  `json:"cuisine"`
	RestaurantCount int     `json:"restaurant_count"`
	Percentage      float64 `json:"percentage"`
	AvgRating       float64 `json:"avg_rating"`
	AvgPrice        float64 `json:"avg_price"`
}

// CuisineRanking groups listings by cuisine, most common first. A
// non-positive limit returns every cuisine.
func CuisineRanking(listings []models.Listing, limit int) []CuisineStat {
	groups := groupBy(listings, byCuisine, nil)
	out := make([]CuisineStat, 0, len(groups))
	for _, g := range groups {
		out = append(out, CuisineStat{
			Cuisine:         g.key,
			RestaurantCount: g.stats.count,
			Percentage:      percent(g.stats.count, len(listings)),
			AvgRating:       round2(g.stats.meanRating()),
			AvgPrice:        round2(g.stats.meanPrice()),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RestaurantCount != out[j].RestaurantCount {
			return out[i].RestaurantCount > out[j].RestaurantCount
		}
		return out[i].Cuisine < out[j].Cuisine
	})
	return out[:capAt(len(out), limit)]
}
