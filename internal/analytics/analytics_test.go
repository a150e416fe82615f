package analytics

import (
	"testing"

	"nativore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listing(id uint, city, area, cuisine string, price, rating, spending float64) models.Listing {
	return models.Listing{
		ID:            id,
		Name:          cuisine + " place",
		City:          city,
		Area:          area,
		Cuisine:       cuisine,
		AvgPrice:      price,
		Rating:        rating,
		SpendingIndex: spending,
		IsActive:      true,
	}
}

func sampleListings() []models.Listing {
	return []models.Listing{
		listing(1, "Chennai", "T. Nagar", "South Indian", 250, 4.1, 1.2),
		listing(2, "Chennai", "T. Nagar", "Chettinad", 450, 3.9, 1.5),
		listing(3, "Chennai", "Adyar", "South Indian", 700, 4.5, 2.1),
		listing(4, "Chennai", "Adyar", "Chinese", 299.99, 3.2, 0.9),
		listing(5, "Madurai", "Anna Nagar", "South Indian", 300, 4.0, 1.0),
		listing(6, "Madurai", "Anna Nagar", "Biryani Specialist", 600, 4.4, 1.8),
		listing(7, "Coimbatore", "RS Puram", "Kerala", 150, 2.8, 0.6),
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in       float64
		decimals int
		want     float64
	}{
		{0.125, 2, 0.13},
		{-0.125, 2, -0.13},
		{2.346, 2, 2.35},
		{5.5, 0, 6},
		{33.333333, 1, 33.3},
		{0, 2, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Round(tt.in, tt.decimals), 1e-9)
	}
}

func TestTrends(t *testing.T) {
	t.Run("empty input is zeroed with no data marker", func(t *testing.T) {
		got := Trends(nil)
		assert.True(t, got.NoData)
		assert.Zero(t, got.TotalRestaurants)
		assert.Zero(t, got.AvgPrice)
		assert.Zero(t, got.AvgRating)
		assert.Empty(t, got.TopCuisines)
	})

	t.Run("cuisine shares ordered by count then name", func(t *testing.T) {
		got := Trends(sampleListings())
		require.False(t, got.NoData)
		assert.Equal(t, 7, got.TotalRestaurants)
		require.Len(t, got.TopCuisines, 5)
		assert.Equal(t, "South Indian", got.TopCuisines[0].Cuisine)
		assert.Equal(t, 3, got.TopCuisines[0].Count)
		assert.InDelta(t, 42.9, got.TopCuisines[0].Percentage, 1e-9)
		// ties on count=1 break lexically
		assert.Equal(t, "Biryani Specialist", got.TopCuisines[1].Cuisine)
		assert.Equal(t, "Chettinad", got.TopCuisines[2].Cuisine)
		assert.InDelta(t, 392.86, got.AvgPrice, 1e-9)
		assert.InDelta(t, 3.84, got.AvgRating, 1e-9)
	})

	t.Run("caps at ten cuisines", func(t *testing.T) {
		var many []models.Listing
		for i := 0; i < 12; i++ {
			many = append(many, listing(uint(i+1), "Chennai", "A", string(rune('A'+i)), 100, 3, 1))
		}
		assert.Len(t, Trends(many).TopCuisines, TrendTopN)
	})
}

func TestSpending(t *testing.T) {
	got := Spending(sampleListings())
	b := got.PriceRanges

	assert.Equal(t, 7, got.TotalRestaurants)
	assert.Equal(t, 3, b.Budget.Count, "250, 299.99 and 150 are budget")
	assert.Equal(t, 2, b.MidRange.Count, "300 is the first mid-range price")
	assert.Equal(t, 2, b.Premium.Count, "600 is the first premium price")
	assert.Equal(t, got.TotalRestaurants, b.Budget.Count+b.MidRange.Count+b.Premium.Count)
	assert.InDelta(t, 100, b.Budget.Percentage+b.MidRange.Percentage+b.Premium.Percentage, 0.2)
	assert.InDelta(t, 233.33, b.Budget.AvgPrice, 1e-9)
	assert.Equal(t, "< ₹300", b.Budget.Range)
	assert.InDelta(t, 1.3, got.AvgSpendingIndex, 1e-9)

	t.Run("empty buckets report zero", func(t *testing.T) {
		got := Spending([]models.Listing{listing(1, "Chennai", "A", "X", 100, 3, 1)})
		assert.Zero(t, got.PriceRanges.Premium.Count)
		assert.Zero(t, got.PriceRanges.Premium.AvgPrice)
		assert.Zero(t, got.PriceRanges.Premium.Percentage)
	})

	t.Run("empty input", func(t *testing.T) {
		got := Spending(nil)
		assert.Zero(t, got.TotalRestaurants)
		assert.Zero(t, got.AvgSpendingIndex)
	})
}

func TestCuisineRanking(t *testing.T) {
	got := CuisineRanking(sampleListings(), 0)
	require.Len(t, got, 5)

	total := 0.0
	for _, c := range got {
		total += c.Percentage
	}
	assert.InDelta(t, 100, total, 0.2)

	assert.Equal(t, "South Indian", got[0].Cuisine)
	assert.InDelta(t, 4.2, got[0].AvgRating, 1e-9)
	assert.InDelta(t, 416.67, got[0].AvgPrice, 1e-9)

	assert.Len(t, CuisineRanking(sampleListings(), 2), 2)
	assert.Empty(t, CuisineRanking(nil, 10))
}

func TestCityComparison(t *testing.T) {
	got := CityComparison(sampleListings())
	require.Len(t, got, 3)
	assert.Equal(t, "Chennai", got[0].City)
	assert.Equal(t, 4, got[0].TotalRestaurants)
	assert.Equal(t, "South Indian", got[0].TopCuisine)
	assert.InDelta(t, 1.43, got[0].SpendingIndex, 0.01)

	// Madurai has a one-one tie; the lexically smaller cuisine wins
	assert.Equal(t, "Madurai", got[1].City)
	assert.Equal(t, "Biryani Specialist", got[1].TopCuisine)
	assert.Equal(t, "Coimbatore", got[2].City)
}

func TestTopRated(t *testing.T) {
	ls := []models.Listing{
		{ID: 1, Rating: 4.5, ReviewCount: 3},
		{ID: 2, Rating: 4.8, ReviewCount: 0},
		{ID: 3, Rating: 4.5, ReviewCount: 10},
		{ID: 4, Rating: 3.0, ReviewCount: 1},
		{ID: 5, Rating: 4.5, ReviewCount: 10},
	}
	got := TopRated(ls, 3)
	require.Len(t, got, 3)
	assert.Equal(t, []uint{3, 5, 1}, []uint{got[0].ID, got[1].ID, got[2].ID})

	for _, r := range TopRated(ls, 0) {
		assert.NotEqual(t, uint(2), r.ID, "unreviewed listings are excluded")
	}
}

func TestDemandScore(t *testing.T) {
	assert.InDelta(t, 22.68, DemandScore(3, 4.2, 1.8), 1e-9)
	assert.Zero(t, DemandScore(0, 0, 0))
}

func TestAreaInsights(t *testing.T) {
	ls := []models.Listing{
		listing(1, "Chennai", "Velachery", "X", 200, 4.2, 1.8),
		listing(2, "Chennai", "Velachery", "Y", 400, 4.2, 1.8),
		listing(3, "Chennai", "Velachery", "Z", 600, 4.2, 1.8),
		listing(4, "Chennai", "Mylapore", "X", 300, 4.0, 1.0),
	}
	got := AreaInsights(ls)
	require.Len(t, got, 2)
	assert.Equal(t, "Velachery", got[0].Area)
	assert.InDelta(t, 22.68, got[0].DemandScore, 1e-9)
	assert.InDelta(t, 400, got[0].AvgPrice, 1e-9)
	assert.Equal(t, "Mylapore", got[1].Area)
	assert.InDelta(t, 4.0, got[1].DemandScore, 1e-9)
}

func TestOpportunityScore(t *testing.T) {
	f := Factors(2, 4.0, 1.5)
	assert.InDelta(t, 8, f.Competition, 1e-9)
	assert.InDelta(t, 4.5, f.Spending, 1e-9)
	assert.InDelta(t, 4.0, f.Rating, 1e-9)
	assert.InDelta(t, 5.5, f.Score(), 1e-9)
	assert.Equal(t, TierModerate, OpportunityTier(f.Score()))

	assert.Zero(t, Factors(15, 0, 0).Competition, "competition factor never goes negative")
}

func TestOpportunityTier(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{8.01, TierExcellent},
		{8, TierGood},
		{6.5, TierGood},
		{6, TierModerate},
		{4.01, TierModerate},
		{4, TierChallenging},
		{0, TierChallenging},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OpportunityTier(tt.score), "score %v", tt.score)
	}
}

func TestRankLocations(t *testing.T) {
	ls := []models.Listing{
		listing(1, "Chennai", "Adyar", "X", 300, 4.0, 1.5),
		listing(2, "Chennai", "Adyar", "Y", 300, 4.0, 1.5),
		listing(3, "Chennai", "Guindy", "X", 300, 2.0, 0.5),
		listing(4, "Chennai", "Guindy", "X", 300, 2.0, 0.5),
		listing(5, "Chennai", "Guindy", "X", 300, 2.0, 0.5),
	}
	got := RankLocations("Chennai", ls)
	require.Len(t, got.TopLocations, 2)

	top := got.TopLocations[0]
	assert.Equal(t, "Adyar", top.Area)
	assert.Equal(t, "Chennai", top.City)
	assert.InDelta(t, 5.5, top.OpportunityScore, 1e-9)
	assert.Equal(t, TierModerate, top.Tier)
	assert.Equal(t, "Moderate opportunity. Requires differentiation strategy.", top.Recommendation)

	assert.Equal(t, 2, got.AnalysisSummary.TotalAreasAnalyzed)
	require.NotNil(t, got.AnalysisSummary.BestOpportunity)
	assert.Equal(t, "Adyar", *got.AnalysisSummary.BestOpportunity)
	require.NotNil(t, got.AnalysisSummary.HighestCompetition)
	assert.Equal(t, "Guindy", *got.AnalysisSummary.HighestCompetition)

	empty := RankLocations("Chennai", nil)
	assert.Empty(t, empty.TopLocations)
	assert.Nil(t, empty.AnalysisSummary.BestOpportunity)
	assert.Nil(t, empty.AnalysisSummary.HighestCompetition)
}

func TestMarketGaps(t *testing.T) {
	var ls []models.Listing
	id := uint(1)
	add := func(n int, area, cuisine string) {
		for i := 0; i < n; i++ {
			ls = append(ls, listing(id, "Chennai", area, cuisine, 300, 4, 1))
			id++
		}
	}
	// 20 listings: 10 South Indian (50%), 3 Chinese (15%), 2 Kerala (10%),
	// 5 Italian (25%)
	add(6, "Adyar", "South Indian")
	add(4, "Anna Nagar", "South Indian")
	add(3, "Adyar", "Chinese")
	add(2, "Guindy", "Kerala")
	add(1, "Besant Nagar", "Italian")
	add(4, "Anna Nagar", "Italian")

	got := FindMarketGaps(ls)
	require.Len(t, got.CuisineOpportunities, 4)

	byName := map[string]CuisineGap{}
	for _, c := range got.CuisineOpportunities {
		byName[c.Cuisine] = c
	}
	assert.Equal(t, LevelHigh, byName["South Indian"].Saturation)
	assert.Equal(t, LevelLow, byName["South Indian"].Opportunity)
	assert.Equal(t, LevelMedium, byName["Chinese"].Saturation)
	assert.Equal(t, LevelMedium, byName["Chinese"].Opportunity)
	assert.Equal(t, LevelLow, byName["Kerala"].Saturation, "exactly 10% is not above the medium threshold")
	assert.Equal(t, LevelHigh, byName["Kerala"].Opportunity)
	assert.InDelta(t, 10, byName["Kerala"].MarketShare, 1e-9)

	// least represented cuisine first
	assert.Equal(t, "Kerala", got.CuisineOpportunities[0].Cuisine)

	require.Len(t, got.UnderservedAreas, 2)
	assert.Equal(t, UnderservedArea{Area: "Besant Nagar", RestaurantCount: 1, CuisineVariety: 1, Opportunity: LevelHigh}, got.UnderservedAreas[0])
	assert.Equal(t, UnderservedArea{Area: "Guindy", RestaurantCount: 2, CuisineVariety: 1, Opportunity: LevelHigh}, got.UnderservedAreas[1])

	assert.Equal(t, 4, got.Summary.TotalCuisines)
	assert.Equal(t, 1, got.Summary.HighOpportunityCuisines)
	assert.Equal(t, 2, got.Summary.UnderservedAreasCount)

	t.Run("medium underserved tier", func(t *testing.T) {
		got := FindMarketGaps([]models.Listing{
			listing(1, "Chennai", "Adyar", "A", 100, 3, 1),
			listing(2, "Chennai", "Adyar", "B", 100, 3, 1),
			listing(3, "Chennai", "Adyar", "A", 100, 3, 1),
			listing(4, "Chennai", "Adyar", "C", 100, 3, 1),
		})
		require.Len(t, got.UnderservedAreas, 1)
		assert.Equal(t, LevelMedium, got.UnderservedAreas[0].Opportunity)
		assert.Equal(t, 3, got.UnderservedAreas[0].CuisineVariety)
	})

	t.Run("empty city", func(t *testing.T) {
		got := FindMarketGaps(nil)
		assert.Empty(t, got.CuisineOpportunities)
		assert.Empty(t, got.UnderservedAreas)
		assert.Zero(t, got.Summary.TotalCuisines)
	})
}

func TestSimilarityScore(t *testing.T) {
	a := listing(1, "Chennai", "Adyar", "Chettinad", 300, 4.0, 1)
	b := listing(2, "Chennai", "Guindy", "Chettinad", 320, 4.0, 1)

	assert.InDelta(t, 89, SimilarityScore(a, b), 1e-9)
	assert.InDelta(t, 89, SimilarityScore(b, a), 1e-9)

	c := listing(3, "Chennai", "Guindy", "Chettinad", 2000, 3.0, 1)
	assert.InDelta(t, 30, SimilarityScore(a, c), 1e-9, "price score floors at zero")
	assert.NotEqual(t, SimilarityScore(a, c), SimilarityScore(c, a))
}

func TestSimilar(t *testing.T) {
	ref := listing(1, "Chennai", "Adyar", "Chettinad", 300, 4.0, 1)
	inactive := listing(5, "Chennai", "Adyar", "Chettinad", 300, 5.0, 1)
	inactive.IsActive = false
	candidates := []models.Listing{
		ref,
		listing(2, "Chennai", "Guindy", "Chettinad", 320, 4.0, 1),
		listing(3, "Chennai", "Guindy", "Chettinad", 300, 4.5, 1),
		listing(4, "Madurai", "Guindy", "Chettinad", 300, 5.0, 1),
		inactive,
		listing(6, "Chennai", "Guindy", "Chinese", 300, 5.0, 1),
		listing(7, "Chennai", "Mylapore", "Chettinad", 320, 4.0, 1),
	}

	got := Similar(ref, candidates, 5)
	require.Len(t, got, 3)
	assert.Equal(t, uint(3), got[0].ID)
	assert.InDelta(t, 95, got[0].SimilarityScore, 1e-9)
	assert.Equal(t, uint(2), got[1].ID, "equal scores break by id")
	assert.Equal(t, uint(7), got[2].ID)

	assert.Len(t, Similar(ref, candidates, 1), 1)
}

func TestProject(t *testing.T) {
	ls := []models.Listing{
		listing(1, "Chennai", "Adyar", "X", 400, 4.0, 1.5),
		listing(2, "Chennai", "Adyar", "X", 200, 3.0, 0.5),
	}
	got := Project(2_000_000, ls)
	assert.Equal(t, CategoryMedium, got.InvestmentCategory)
	assert.Equal(t, "Medium Scale", got.InvestmentScale)
	assert.Equal(t, "Casual Dining / Quick Service", got.SuggestedBusinessType)
	assert.InDelta(t, 100_000, got.ROIProjection.EstimatedMonthlyRevenue, 1e-9)
	assert.InDelta(t, 15_000, got.ROIProjection.EstimatedMonthlyProfit, 1e-9)
	assert.Equal(t, 133, got.ROIProjection.BreakevenPeriodMonths)
	assert.Equal(t, "15%", got.ROIProjection.EstimatedProfitMargin)
	assert.InDelta(t, 300, got.MarketAnalysis.AvgPricePoint, 1e-9)
	assert.Equal(t, LevelLow, got.MarketAnalysis.CompetitionLevel)
	assert.False(t, got.NoData)

	t.Run("empty city", func(t *testing.T) {
		got := Project(500_000, nil)
		assert.True(t, got.NoData)
		assert.Equal(t, CategorySmall, got.InvestmentCategory)
		assert.Zero(t, got.MarketAnalysis.AvgPricePoint)
	})
}

func TestInvestmentCategory(t *testing.T) {
	assert.Equal(t, CategorySmall, InvestmentCategory(999_999))
	assert.Equal(t, CategoryMedium, InvestmentCategory(1_000_000))
	assert.Equal(t, CategoryMedium, InvestmentCategory(4_999_999))
	assert.Equal(t, CategoryLarge, InvestmentCategory(5_000_000))
}

func TestCompetitionLevel(t *testing.T) {
	assert.Equal(t, LevelLow, CompetitionLevel(50))
	assert.Equal(t, LevelMedium, CompetitionLevel(51))
	assert.Equal(t, LevelMedium, CompetitionLevel(100))
	assert.Equal(t, LevelHigh, CompetitionLevel(101))
}

func TestBuildDashboard(t *testing.T) {
	ls := sampleListings()
	ls[2].ReviewCount = 12
	ls[4].ReviewCount = 12

	got := BuildDashboard(ls, 42)
	assert.Equal(t, 7, got.Overview.TotalRestaurants)
	assert.Equal(t, int64(42), got.Overview.TotalReviews)
	assert.Equal(t, 3, got.Overview.TotalCities)
	assert.Equal(t, "South Indian", got.TopCuisine)
	require.NotNil(t, got.MostReviewedRestaurant)
	assert.Equal(t, uint(3), got.MostReviewedRestaurant.ID)

	empty := BuildDashboard(nil, 0)
	assert.Equal(t, "N/A", empty.TopCuisine)
	assert.Nil(t, empty.MostReviewedRestaurant)
}
