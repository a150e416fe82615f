package service

import (
	"context"
	"math"
	"testing"
	"time"

	"nativore/internal/analytics"
	"nativore/internal/cache"
	"nativore/internal/featureflags"
	"nativore/internal/models"
	"nativore/internal/policy"
	"nativore/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleListings() []models.Listing {
	return []models.Listing{
		{ID: 1, Name: "Amma Mess", City: "Madurai", Area: "Goripalayam", Cuisine: "Chettinad", AvgPrice: 400, Rating: 4.5, ReviewCount: 12, SpendingIndex: 1.5, IsActive: true},
		{ID: 2, Name: "Kumar Mess", City: "Madurai", Area: "Goripalayam", Cuisine: "Chettinad", AvgPrice: 420, Rating: 4.1, ReviewCount: 8, SpendingIndex: 1.5, IsActive: true},
		{ID: 3, Name: "Famous Jigarthanda", City: "Madurai", Area: "Simmakkal", Cuisine: "Desserts", AvgPrice: 150, Rating: 4.8, ReviewCount: 30, SpendingIndex: 1.1, IsActive: true},
		{ID: 4, Name: "Konar Kadai", City: "Madurai", Area: "Simmakkal", Cuisine: "Chettinad", AvgPrice: 650, Rating: 0, ReviewCount: 0, SpendingIndex: 2.0, IsActive: true},
	}
}

func scopedRepo(listings []models.Listing) *listingRepoStub {
	repo := noopListingRepo()
	repo.inScopeFn = func(_ context.Context, scope repository.AnalysisScope) ([]models.Listing, error) {
		var out []models.Listing
		for _, l := range listings {
			if scope.City != "" && l.City != scope.City {
				continue
			}
			if scope.Cuisine != "" && l.Cuisine != scope.Cuisine {
				continue
			}
			out = append(out, l)
		}
		return out, nil
	}
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Listing, error) {
		for i := range listings {
			if listings[i].ID == id {
				l := listings[i]
				return &l, nil
			}
		}
		return nil, models.NewNotFoundError("Restaurant", id)
	}
	return repo
}

func TestAnalyticsService_Trends(t *testing.T) {
	svc := NewAnalyticsService(scopedRepo(sampleListings()), noopReviewRepo(), nil, time.Minute)

	report, err := svc.Trends(context.Background(), "Madurai")
	require.NoError(t, err)
	assert.Equal(t, "Madurai", report.City)
	assert.Equal(t, 4, report.TotalRestaurants)
	require.NotEmpty(t, report.TopCuisines)
	assert.Equal(t, "Chettinad", report.TopCuisines[0].Cuisine)
	assert.Equal(t, 75.0, report.TopCuisines[0].Percentage)

	empty, err := svc.Trends(context.Background(), "Thoothukudi")
	require.NoError(t, err)
	assert.True(t, empty.NoData)
	assert.Zero(t, empty.TotalRestaurants)

	all, err := svc.Trends(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "All Cities", all.City)
}

func TestAnalyticsService_LimitsAndRequiredCity(t *testing.T) {
	svc := NewAnalyticsService(scopedRepo(sampleListings()), noopReviewRepo(), nil, time.Minute)
	ctx := context.Background()

	_, err := svc.TopCuisines(ctx, "", 0)
	assertAppErrorCode(t, err, models.CodeValidation)
	_, err = svc.TopRated(ctx, "", MaxReportLimit+1)
	assertAppErrorCode(t, err, models.CodeValidation)
	_, err = svc.AreaInsights(ctx, "")
	assertAppErrorCode(t, err, models.CodeValidation)

	rated, err := svc.TopRated(ctx, "Madurai", 2)
	require.NoError(t, err)
	require.Len(t, rated.TopRated, 2)
	assert.Equal(t, uint(3), rated.TopRated[0].ID)
	assert.Equal(t, uint(1), rated.TopRated[1].ID)
}

func TestAnalyticsService_AreaInsights(t *testing.T) {
	svc := NewAnalyticsService(scopedRepo(sampleListings()), noopReviewRepo(), nil, time.Minute)

	report, err := svc.AreaInsights(context.Background(), "Madurai")
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalAreas)
	// Goripalayam: 2 × 4.3 × 1.5 = 12.9; Simmakkal: 2 × 2.4 × 1.55 = 7.44
	assert.Equal(t, "Goripalayam", report.Areas[0].Area)
	assert.InDelta(t, 12.9, report.Areas[0].DemandScore, 1e-9)
}

func TestAnalyticsService_CacheAside(t *testing.T) {
	useMiniredis(t)
	ctx := context.Background()
	repo := scopedRepo(sampleListings())
	svc := NewAnalyticsService(repo, noopReviewRepo(), featureflags.NewManager("analytics_cache=on"), time.Minute)

	first, err := svc.CityComparison(ctx)
	require.NoError(t, err)
	second, err := svc.CityComparison(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.inScopeCalls, "second call should be served from cache")
	assert.Equal(t, first, second)

	require.NoError(t, cache.BumpAnalyticsGeneration(ctx))
	_, err = svc.CityComparison(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.inScopeCalls, "a new generation forces recomputation")

	_, err = svc.Trends(ctx, "Madurai")
	require.NoError(t, err)
	assert.Equal(t, 3, repo.inScopeCalls, "different reports use different keys")
}

func TestAnalyticsService_CacheFlagOff(t *testing.T) {
	useMiniredis(t)
	ctx := context.Background()
	repo := scopedRepo(sampleListings())
	svc := NewAnalyticsService(repo, noopReviewRepo(), featureflags.NewManager("analytics_cache=off"), time.Minute)

	for i := 0; i < 3; i++ {
		_, err := svc.Spending(ctx, "Madurai")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, repo.inScopeCalls)
}

func TestAnalyticsService_Dashboard(t *testing.T) {
	reviews := noopReviewRepo()
	reviews.countFn = func(_ context.Context) (int64, error) { return 50, nil }
	svc := NewAnalyticsService(scopedRepo(sampleListings()), reviews, featureflags.NewManager("analytics_cache=on"), time.Minute)

	_, err := svc.Dashboard(context.Background(), nil)
	assertAppErrorCode(t, err, models.CodeUnauthorized)

	user := &models.User{ID: 2, Username: "meena", Role: models.RoleUser, IsActive: true}
	report, err := svc.Dashboard(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, int64(50), report.Overview.TotalReviews)
	assert.Equal(t, 4, report.Overview.TotalRestaurants)
	assert.Equal(t, "Chettinad", report.TopCuisine)
	require.NotNil(t, report.MostReviewedRestaurant)
	assert.Equal(t, "Famous Jigarthanda", report.MostReviewedRestaurant.Name)
	assert.Equal(t, "meena", report.User.Username)
}

func TestRecommendationService_BestLocations(t *testing.T) {
	svc := NewRecommendationService(scopedRepo(sampleListings()), nil, time.Minute)

	_, err := svc.BestLocations(context.Background(), "", "")
	assertAppErrorCode(t, err, models.CodeValidation)

	report, err := svc.BestLocations(context.Background(), "Madurai", "")
	require.NoError(t, err)
	assert.Equal(t, "All", report.Cuisine)
	assert.Equal(t, 2, report.AnalysisSummary.TotalAreasAnalyzed)

	filtered, err := svc.BestLocations(context.Background(), "Madurai", "Desserts")
	require.NoError(t, err)
	assert.Equal(t, "Desserts", filtered.Cuisine)
	require.Len(t, filtered.TopLocations, 1)
	assert.Equal(t, "Simmakkal", filtered.TopLocations[0].Area)
}

func TestRecommendationService_Similar(t *testing.T) {
	repo := scopedRepo(sampleListings())
	svc := NewRecommendationService(repo, nil, time.Minute)
	ctx := context.Background()

	report, err := svc.Similar(ctx, 1, analytics.DefaultSimilarLimit)
	require.NoError(t, err)
	assert.Equal(t, "Amma Mess", report.ReferenceRestaurant.Name)
	require.Len(t, report.SimilarRestaurants, 2)
	for _, s := range report.SimilarRestaurants {
		assert.NotEqual(t, uint(1), s.ID)
	}

	_, err = svc.Similar(ctx, 404, 5)
	assertAppErrorCode(t, err, models.CodeNotFound)

	_, err = svc.Similar(ctx, 1, 0)
	assertAppErrorCode(t, err, models.CodeValidation)
	_, err = svc.Similar(ctx, 1, analytics.MaxSimilarLimit+1)
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestRecommendationService_Investment(t *testing.T) {
	svc := NewRecommendationService(scopedRepo(sampleListings()), nil, time.Minute)
	ctx := context.Background()
	actor := &policy.Actor{ID: 2, Role: models.RoleUser, Active: true}

	_, err := svc.Investment(ctx, nil, "Madurai", 2_000_000)
	assertAppErrorCode(t, err, models.CodeUnauthorized)
	for _, budget := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err = svc.Investment(ctx, actor, "Madurai", budget)
		assertAppErrorCode(t, err, models.CodeValidation)
	}

	report, err := svc.Investment(ctx, actor, "Madurai", 2_000_000)
	require.NoError(t, err)
	assert.Equal(t, "medium", report.InvestmentCategory)
	assert.Equal(t, 100000.0, report.ROIProjection.EstimatedMonthlyRevenue)
	assert.Equal(t, 15000.0, report.ROIProjection.EstimatedMonthlyProfit)
	assert.Equal(t, 133, report.ROIProjection.BreakevenPeriodMonths)

	empty, err := svc.Investment(ctx, actor, "Tiruppur", 500_000)
	require.NoError(t, err)
	assert.True(t, empty.NoData)
}
