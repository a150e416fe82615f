package analytics

import (
	"sort"

	"nativore/internal/models"
)

// TrendTopN is how many cuisines a trend summary reports.
const TrendTopN = 10

// CuisineShare is a cuisine's count and share of the whole set.
type CuisineShare struct {
	Cuisine    string  `json:"cuisine"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TrendSummary describes the cuisine mix and price/rating levels of a set of listings.
type TrendSummary struct {
	TotalRestaurants int            `json:"total_restaurants"`
	TopCuisines      []CuisineShare `json:"top_cuisines"`
	AvgPrice         float64        `json:"avg_price"`
	AvgRating        float64        `json:"avg_rating"`
	NoData           bool           `json:"no_data"`
}

// Trends summarizes listings by cuisine share. Empty input yields a zeroed
// summary with NoData set.
func Trends(listings []models.Listing) TrendSummary {
	if len(listings) == 0 {
		return TrendSummary{TopCuisines: []CuisineShare{}, NoData: true}
	}

	var all stats
	for i := range listings {
		all.add(&listings[i])
	}

	shares := cuisineShares(listings)
	return TrendSummary{
		TotalRestaurants: all.count,
		TopCuisines:      shares[:capAt(len(shares), TrendTopN)],
		AvgPrice:         round2(all.meanPrice()),
		AvgRating:        round2(all.meanRating()),
	}
}

// cuisineShares returns every cuisine with its share, count descending.
func cuisineShares(listings []models.Listing) []CuisineShare {
	groups := groupBy(listings, byCuisine, nil)
	out := make([]CuisineShare, 0, len(groups))
	for _, g := range groups {
		out = append(out, CuisineShare{
			Cuisine:    g.key,
			Count:      g.stats.count,
			Percentage: percent(g.stats.count, len(listings)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Cuisine < out[j].Cuisine
	})
	return out
}
