package analytics

import (
	"sort"

	"nativore/internal/models"
)

// CityStat compares one city against the others.
type CityStat struct {
	City             string  `json:"city"`
	TotalRestaurants int     `json:"total_restaurants"`
	AvgRating        float64 `json:"avg_rating"`
	AvgPrice         float64 `json:"avg_price"`
	SpendingIndex    float64 `json:"spending_index"`
	TopCuisine       string  `json:"top_cuisine"`
}

// CityComparison reports every city present in listings, largest first.
// The top cuisine is the modal cuisine; ties go to the lexically smallest name.
func CityComparison(listings []models.Listing) []CityStat {
	groups := groupBy(listings, byCity, byCuisine)
	out := make([]CityStat, 0, len(groups))
	for _, g := range groups {
		out = append(out, CityStat{
			City:             g.key,
			TotalRestaurants: g.stats.count,
			AvgRating:        round2(g.stats.meanRating()),
			AvgPrice:         round2(g.stats.meanPrice()),
			SpendingIndex:    round2(g.stats.meanSpending()),
			TopCuisine:       modal(g.distinct),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalRestaurants != out[j].TotalRestaurants {
			return out[i].TotalRestaurants > out[j].TotalRestaurants
		}
		return out[i].City < out[j].City
	})
	return out
}
