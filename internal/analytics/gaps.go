package analytics

import (
	"sort"

	"nativore/internal/models"
)

// Market gap report sizes and thresholds.
const (
	CuisineOpportunitiesTopN = 5
	UnderservedAreasTopN     = 10
	UnderservedThreshold     = 5
	HighOpportunityThreshold = 3
)

// Saturation and opportunity levels.
const (
	LevelHigh   = "high"
	LevelMedium = "medium"
	LevelLow    = "low"
)

// Saturation labels a market share percentage.
func Saturation(marketShare float64) string {
	switch {
	case marketShare > 20:
		return LevelHigh
	case marketShare > 10:
		return LevelMedium
	default:
		return LevelLow
	}
}

// InverseLevel maps saturation to opportunity.
func InverseLevel(level string) string {
	switch level {
	case LevelHigh:
		return LevelLow
	case LevelMedium:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// CuisineGap is a cuisine's footprint in a city's market.
type CuisineGap struct {
	Cuisine         string  `json:"cuisine"`
	RestaurantCount int     `json:"restaurant_count"`
	MarketShare     float64 `json:"market_share"`
	Saturation      string  `json:"saturation"`
	Opportunity     string  `json:"opportunity"`
}

// UnderservedArea is an area with few listings.
type UnderservedArea struct {
	Area            string `json:"area"`
	RestaurantCount int    `json:"restaurant_count"`
	CuisineVariety  int    `json:"cuisine_variety"`
	Opportunity     string `json:"opportunity"`
}

// GapSummary condenses a market gap report.
type GapSummary struct {
	TotalCuisines           int `json:"total_cuisines"`
	HighOpportunityCuisines int `json:"high_opportunity_cuisines"`
	UnderservedAreasCount   int `json:"underserved_areas_count"`
}

// MarketGaps lists the least served cuisines and areas of a city.
type MarketGaps struct {
	CuisineOpportunities []CuisineGap      `json:"cuisine_opportunities"`
	UnderservedAreas     []UnderservedArea `json:"underserved_areas"`
	Summary              GapSummary        `json:"summary"`
}

// FindMarketGaps analyses the cuisine saturation and thin areas of one city's listings.
func FindMarketGaps(listings []models.Listing) MarketGaps {
	total := len(listings)

	cuisines := groupBy(listings, byCuisine, nil)
	gaps := make([]CuisineGap, 0, len(cuisines))
	highOpportunity := 0
	for _, g := range cuisines {
		share := 0.0
		if total > 0 {
			share = float64(g.stats.count) * 100 / float64(total)
		}
		saturation := Saturation(share)
		opportunity := InverseLevel(saturation)
		if opportunity == LevelHigh {
			highOpportunity++
		}
		gaps = append(gaps, CuisineGap{
			Cuisine:         g.key,
			RestaurantCount: g.stats.count,
			MarketShare:     round2(share),
			Saturation:      saturation,
			Opportunity:     opportunity,
		})
	}
	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].RestaurantCount != gaps[j].RestaurantCount {
			return gaps[i].RestaurantCount < gaps[j].RestaurantCount
		}
		return gaps[i].Cuisine < gaps[j].Cuisine
	})

	var underserved []UnderservedArea
	for _, g := range groupBy(listings, byArea, byCuisine) {
		if g.stats.count >= UnderservedThreshold {
			continue
		}
		opportunity := LevelMedium
		if g.stats.count < HighOpportunityThreshold {
			opportunity = LevelHigh
		}
		underserved = append(underserved, UnderservedArea{
			Area:            g.key,
			RestaurantCount: g.stats.count,
			CuisineVariety:  len(g.distinct),
			Opportunity:     opportunity,
		})
	}
	sort.SliceStable(underserved, func(i, j int) bool {
		if underserved[i].RestaurantCount != underserved[j].RestaurantCount {
			return underserved[i].RestaurantCount < underserved[j].RestaurantCount
		}
		return underserved[i].Area < underserved[j].Area
	})
	if underserved == nil {
		underserved = []UnderservedArea{}
	}

	return MarketGaps{
		CuisineOpportunities: gaps[:capAt(len(gaps), CuisineOpportunitiesTopN)],
		UnderservedAreas:     underserved[:capAt(len(underserved), UnderservedAreasTopN)],
		Summary: GapSummary{
			TotalCuisines:           len(gaps),
			HighOpportunityCuisines: highOpportunity,
			UnderservedAreasCount:   len(underserved),
		},
	}
}
