package analytics

import (
	"math"

	"nativore/internal/models"
)

// Projection constants.
const (
	RevenueRate   = 0.05
	ProfitMargin  = 0.15
	SmallCeiling  = 1_000_000.0
	MediumCeiling = 5_000_000.0
)

const projectionNote = "These are rough estimates based on market averages"

// Investment categories.
const (
	CategorySmall  = "small"
	CategoryMedium = "medium"
	CategoryLarge  = "large"
)

type categoryInfo struct {
	scale     string
	suggested string
}

var categories = map[string]categoryInfo{
	CategorySmall:  {"Small Scale", "Cloud Kitchen / Street Food"},
	CategoryMedium: {"Medium Scale", "Casual Dining / Quick Service"},
	CategoryLarge:  {"Large Scale", "Fine Dining / Multi-Cuisine"},
}

// InvestmentCategory buckets a budget.
func InvestmentCategory(budget float64) string {
	switch {
	case budget < SmallCeiling:
		return CategorySmall
	case budget < MediumCeiling:
		return CategoryMedium
	default:
		return CategoryLarge
	}
}

// CompetitionLevel buckets the number of listings in a market.
func CompetitionLevel(count int) string {
	switch {
	case count > 100:
		return LevelHigh
	case count > 50:
		return LevelMedium
	default:
		return LevelLow
	}
}

// MarketAnalysis summarizes a city's market.
type MarketAnalysis struct {
	AvgPricePoint    float64 `json:"avg_price_point"`
	AvgMarketRating  float64 `json:"avg_market_rating"`
	SpendingIndex    float64 `json:"spending_index"`
	CompetitionLevel string  `json:"competition_level"`
	RestaurantCount  int     `json:"restaurant_count"`
}

// ROIProjection is the simplified return estimate for a budget.
type ROIProjection struct {
	EstimatedMonthlyRevenue float64 `json:"estimated_monthly_revenue"`
	EstimatedProfitMargin   string  `json:"estimated_profit_margin"`
	EstimatedMonthlyProfit  float64 `json:"estimated_monthly_profit"`
	BreakevenPeriodMonths   int     `json:"breakeven_period_months"`
	Note                    string  `json:"note"`
}

// InvestmentProjection is the full investment insight for a budget in a city.
type InvestmentProjection struct {
	Budget                float64        `json:"budget"`
	InvestmentCategory    string         `json:"investment_category"`
	InvestmentScale       string         `json:"investment_scale"`
	SuggestedBusinessType string         `json:"suggested_business_type"`
	MarketAnalysis        MarketAnalysis `json:"market_analysis"`
	ROIProjection         ROIProjection  `json:"roi_projection"`
	NoData                bool           `json:"no_data"`
}

// Project computes the ROI projection for budget against a city's listings.
func Project(budget float64, listings []models.Listing) InvestmentProjection {
	var all stats
	for i := range listings {
		all.add(&listings[i])
	}

	revenue := budget * RevenueRate
	profit := revenue * ProfitMargin
	breakeven := 0
	if profit > 0 {
		breakeven = int(math.RoundToEven(budget / profit))
	}

	category := InvestmentCategory(budget)
	info := categories[category]

	return InvestmentProjection{
		Budget:                budget,
		InvestmentCategory:    category,
		InvestmentScale:       info.scale,
		SuggestedBusinessType: info.suggested,
		MarketAnalysis: MarketAnalysis{
			AvgPricePoint:    round2(all.meanPrice()),
			AvgMarketRating:  round2(all.meanRating()),
			SpendingIndex:    round2(all.meanSpending()),
			CompetitionLevel: CompetitionLevel(all.count),
			RestaurantCount:  all.count,
		},
		ROIProjection: ROIProjection{
			EstimatedMonthlyRevenue: round2(revenue),
			EstimatedProfitMargin:   "15%",
			EstimatedMonthlyProfit:  round2(profit),
			BreakevenPeriodMonths:   breakeven,
			Note:                    projectionNote,
		},
		NoData: all.count == 0,
	}
}
