package analytics

import (
	"sort"

	"nativore/internal/models"
)

// BestLocationsTopN is how many areas a best-locations report returns.
const BestLocationsTopN = 10

// Opportunity tiers.
const (
	TierExcellent   = "excellent"
	TierGood        = "good"
	TierModerate    = "moderate"
	TierChallenging = "challenging"
)

var tierAdvice = map[string]string{
	TierExcellent:   "Excellent opportunity! High demand with manageable competition.",
	TierGood:        "Good potential. Consider entering this market.",
	TierModerate:    "Moderate opportunity. Requires differentiation strategy.",
	TierChallenging: "High competition. Challenging market conditions.",
}

// OpportunityFactors are the three inputs averaged into an opportunity score.
type OpportunityFactors struct {
	Competition float64 `json:"competition_factor"`
	Spending    float64 `json:"spending_factor"`
	Rating      float64 `json:"rating_factor"`
}

// Factors derives the opportunity inputs for an area.
func Factors(count int, meanRating, meanSpending float64) OpportunityFactors {
	competition := 10 - float64(count)
	if competition < 0 {
		competition = 0
	}
	return OpportunityFactors{
		Competition: competition,
		Spending:    meanSpending * 3,
		Rating:      meanRating,
	}
}

// Score averages the factors, rounded to 2 decimals.
func (f OpportunityFactors) Score() float64 {
	return round2((f.Competition + f.Spending + f.Rating) / 3)
}

// OpportunityTier labels a score.
func OpportunityTier(score float64) string {
	switch {
	case score > 8:
		return TierExcellent
	case score > 6:
		return TierGood
	case score > 4:
		return TierModerate
	default:
		return TierChallenging
	}
}

// LocationOpportunity scores one area as a site for a new restaurant.
type LocationOpportunity struct {
	Area               string  `json:"area"`
	City               string  `json:"city"`
	CurrentRestaurants int     `json:"current_restaurants"`
	AvgRating          float64 `json:"avg_rating"`
	AvgPrice           float64 `json:"avg_price"`
	SpendingIndex      float64 `json:"spending_index"`
	OpportunityScore   float64 `json:"opportunity_score"`
	Tier               string  `json:"tier"`
	Recommendation     string  `json:"recommendation"`
}

// LocationSummary condenses a best-locations report.
type LocationSummary struct {
	TotalAreasAnalyzed int     `json:"total_areas_analyzed"`
	BestOpportunity    *string `json:"best_opportunity"`
	HighestCompetition *string `json:"highest_competition"`
}

// BestLocations is the ranked opportunity report for a city.
type BestLocations struct {
	TopLocations    []LocationOpportunity `json:"top_locations"`
	AnalysisSummary LocationSummary       `json:"analysis_summary"`
}

// RankLocations scores every area of city found in listings. Listings should
// already be restricted to the city and, optionally, a cuisine.
func RankLocations(city string, listings []models.Listing) BestLocations {
	groups := groupBy(listings, byArea, nil)
	ranked := make([]LocationOpportunity, 0, len(groups))

	var busiest *group
	for _, g := range groups {
		score := Factors(g.stats.count, g.stats.meanRating(), g.stats.meanSpending()).Score()
		tier := OpportunityTier(score)
		ranked = append(ranked, LocationOpportunity{
			Area:               g.key,
			City:               city,
			CurrentRestaurants: g.stats.count,
			AvgRating:          round2(g.stats.meanRating()),
			AvgPrice:           round2(g.stats.meanPrice()),
			SpendingIndex:      round2(g.stats.meanSpending()),
			OpportunityScore:   score,
			Tier:               tier,
			Recommendation:     tierAdvice[tier],
		})
		// groups are in key order, so the first maximum wins ties lexically
		if busiest == nil || g.stats.count > busiest.stats.count {
			busiest = g
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].OpportunityScore != ranked[j].OpportunityScore {
			return ranked[i].OpportunityScore > ranked[j].OpportunityScore
		}
		return ranked[i].Area < ranked[j].Area
	})

	summary := LocationSummary{TotalAreasAnalyzed: len(groups)}
	if len(ranked) > 0 {
		best := ranked[0].Area
		summary.BestOpportunity = &best
	}
	if busiest != nil {
		name := busiest.key
		summary.HighestCompetition = &name
	}

	return BestLocations{
		TopLocations:    ranked[:capAt(len(ranked), BestLocationsTopN)],
		AnalysisSummary: summary,
	}
}
