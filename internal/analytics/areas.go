package analytics

import (
	"sort"

	"nativore/internal/models"
)

// AreaStat describes demand within one area of a city.
type AreaStat struct {
	Area            string  `json:"area"`
	RestaurantCount int     `json:"restaurant_count"`
	AvgRating       float64 `json:"avg_rating"`
	AvgPrice        float64 `json:"avg_price"`
	SpendingIndex   float64 `json:"spending_index"`
	DemandScore     float64 `json:"demand_score"`
}

// DemandScore is count × mean rating × mean spending index, rounded to 2 decimals.
func DemandScore(count int, meanRating, meanSpending float64) float64 {
	return round2(float64(count) * meanRating * meanSpending)
}

// AreaInsights groups a city's listings by area, highest demand first.
func AreaInsights(listings []models.Listing) []AreaStat {
	groups := groupBy(listings, byArea, nil)
	out := make([]AreaStat, 0, len(groups))
	for _, g := range groups {
		out = append(out, AreaStat{
			Area:            g.key,
			RestaurantCount: g.stats.count,
			AvgRating:       round2(g.stats.meanRating()),
			AvgPrice:        round2(g.stats.meanPrice()),
			SpendingIndex:   round2(g.stats.meanSpending()),
			DemandScore:     DemandScore(g.stats.count, g.stats.meanRating(), g.stats.meanSpending()),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DemandScore != out[j].DemandScore {
			return out[i].DemandScore > out[j].DemandScore
		}
		return out[i].Area < out[j].Area
	})
	return out
}
