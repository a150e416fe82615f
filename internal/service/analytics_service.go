package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"nativore/internal/analytics"
	"nativore/internal/cache"
	"nativore/internal/featureflags"
	"nativore/internal/models"
	"nativore/internal/observability"
	"nativore/internal/policy"
	"nativore/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// Report names, used in cache keys and metrics labels.
const (
	ReportTrends         = "trends"
	ReportSpending       = "spending"
	ReportTopCuisines    = "top_cuisines"
	ReportCityComparison = "city_comparison"
	ReportTopRated       = "top_rated"
	ReportAreaInsights   = "area_insights"
	ReportDashboard      = "dashboard"
	ReportBestLocations  = "best_locations"
	ReportMarketGaps     = "market_gaps"
	ReportSimilar        = "similar"
	ReportInvestment     = "investment"
)

// Report limits.
const (
	DefaultReportLimit = 10
	MaxReportLimit     = 100
)

const allCities = "All Cities"

// reportRunner loads listings in scope and serves computed reports through
// the analytics cache when the analytics_cache flag is on.
type reportRunner struct {
	listings repository.ListingRepository
	flags    *featureflags.Manager
	ttl      time.Duration
}

func newReportRunner(listings repository.ListingRepository, flags *featureflags.Manager, ttl time.Duration) reportRunner {
	if ttl <= 0 {
		ttl = cache.AnalyticsTTL
	}
	return reportRunner{listings: listings, flags: flags, ttl: ttl}
}

func (r reportRunner) load(ctx context.Context, scope repository.AnalysisScope) ([]models.Listing, error) {
	return r.listings.InScope(ctx, scope)
}

func runReport[T any](ctx context.Context, r reportRunner, report, params string, userID uint, compute func(context.Context) (T, error)) (*T, error) {
	span, ctx := observability.StartServiceSpan(ctx, "analytics", report)
	defer span.End()
	span.AddAttributes(attribute.String("report.params", params))
	defer observability.TrackReport(report)()

	var out T
	fetch := func() error {
		v, err := compute(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	}

	outcome := observability.CacheBypass
	var err error
	if r.flags.Enabled(featureflags.AnalyticsCache, userID) {
		outcome, err = cache.AsideOutcome(ctx, cache.AnalyticsKey(ctx, report, params), &out, r.ttl, fetch)
	} else {
		err = fetch()
	}
	observability.RecordCacheLookup(report, outcome)
	span.AddAttributes(attribute.String("cache.outcome", outcome))
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return &out, nil
}

func checkReportLimit(limit int) error {
	if limit < 1 || limit > MaxReportLimit {
		return models.NewValidationError(fmt.Sprintf("limit must be between 1 and %d", MaxReportLimit))
	}
	return nil
}

func requireCity(city string) error {
	if city == "" {
		return models.NewValidationError("city is required")
	}
	return nil
}

func cityLabel(city string) string {
	if city == "" {
		return allCities
	}
	return city
}

func withLimit(scope repository.AnalysisScope, limit int) string {
	v, _ := url.ParseQuery(scope.Key())
	v.Set("limit", strconv.Itoa(limit))
	return v.Encode()
}

type TrendsReport struct {
	City string `json:"city"`
	analytics.TrendSummary
}

type SpendingReport struct {
	City string `json:"city"`
	analytics.SpendingDistribution
}

type TopCuisinesReport struct {
	City        string                  `json:"city"`
	TopCuisines []analytics.CuisineStat `json:"top_cuisines"`
}

type CityComparisonReport struct {
	Cities []analytics.CityStat `json:"cities"`
}

type TopRatedReport struct {
	City     string                   `json:"city"`
	TopRated []analytics.RatedListing `json:"top_rated"`
}

type AreaInsightsReport struct {
	City       string               `json:"city"`
	Areas      []analytics.AreaStat `json:"areas"`
	TotalAreas int                  `json:"total_areas"`
}

// DashboardUser identifies the caller on the dashboard.
type DashboardUser struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

type DashboardReport struct {
	analytics.Dashboard
	User DashboardUser `json:"user"`
}

type AnalyticsService struct {
	runner  reportRunner
	reviews repository.ReviewRepository
}

func NewAnalyticsService(listings repository.ListingRepository, reviews repository.ReviewRepository, flags *featureflags.Manager, ttl time.Duration) *AnalyticsService {
	return &AnalyticsService{
		runner:  newReportRunner(listings, flags, ttl),
		reviews: reviews,
	}
}

// Trends summarizes the cuisine mix of a city, or of every city when city is empty.
func (s *AnalyticsService) Trends(ctx context.Context, city string) (*TrendsReport, error) {
	scope := repository.AnalysisScope{City: city}
	return runReport(ctx, s.runner, ReportTrends, scope.Key(), 0, func(ctx context.Context) (TrendsReport, error) {
		listings, err := s.runner.load(ctx, scope)
		if err != nil {
			return TrendsReport{}, err
		}
		return TrendsReport{City: cityLabel(city), TrendSummary: analytics.Trends(listings)}, nil
	})
}

func (s *AnalyticsService) Spending(ctx context.Context, city string) (*SpendingReport, error) {
	scope := repository.AnalysisScope{City: city}
	return runReport(ctx, s.runner, ReportSpending, scope.Key(), 0, func(ctx context.Context) (SpendingReport, error) {
		listings, err := s.runner.load(ctx, scope)
		if err != nil {
			return SpendingReport{}, err
		}
		return SpendingReport{City: cityLabel(city), SpendingDistribution: analytics.Spending(listings)}, nil
	})
}

func (s *AnalyticsService) TopCuisines(ctx context.Context, city string, limit int) (*TopCuisinesReport, error) {
	if err := checkReportLimit(limit); err != nil {
		return nil, err
	}
	scope := repository.AnalysisScope{City: city}
	return runReport(ctx, s.runner, ReportTopCuisines, withLimit(scope, limit), 0, func(ctx context.Context) (TopCuisinesReport, error) {
		listings, err := s.runner.load(ctx, scope)
		if err != nil {
			return TopCuisinesReport{}, err
		}
		return TopCuisinesReport{City: cityLabel(city), TopCuisines: analytics.CuisineRanking(listings, limit)}, nil
	})
}

func (s *AnalyticsService) CityComparison(ctx context.Context) (*CityComparisonReport, error) {
	scope := repository.AnalysisScope{}
	return runReport(ctx, s.runner, ReportCityComparison, scope.Key(), 0, func(ctx context.Context) (CityComparisonReport, error) {
		listings, err := s.runner.load(ctx, scope)
		if err != nil {
			return CityComparisonReport{}, err
		}
		return CityComparisonReport{Cities: analytics.CityComparison(listings)}, nil
	})
}

func (s *AnalyticsService) TopRated(ctx context.Context, city string, limit int) (*TopRatedReport, error) {
	if err := checkReportLimit(limit); err != nil {
		return nil, err
	}
	scope := repository.AnalysisScope{City: city}
	return runReport(ctx, s.runner, ReportTopRated, withLimit(scope, limit), 0, func(ctx context.Context) (TopRatedReport, error) {
		listings, err := s.runner.load(ctx, scope)
		if err != nil {
			return TopRatedReport{}, err
		}
		return TopRatedReport{City: cityLabel(city), TopRated: analytics.TopRated(listings, limit)}, nil
	})
}

// AreaInsights ranks the areas of one city by demand score.
func (s *AnalyticsService) AreaInsights(ctx context.Context, city string) (*AreaInsightsReport, error) {
	if err := requireCity(city); err != nil {
		return nil, err
	}
	scope := repository.AnalysisScope{City: city}
	return runReport(ctx, s.runner, ReportAreaInsights, scope.Key(), 0, func(ctx context.Context) (AreaInsightsReport, error) {
		listings, err := s.runner.load(ctx, scope)
		if err != nil {
			return AreaInsightsReport{}, err
		}
		areas := analytics.AreaInsights(listings)
		return AreaInsightsReport{City: city, Areas: areas, TotalAreas: len(areas)}, nil
	})
}

// Dashboard returns platform totals for a signed-in account. It is never cached.
func (s *AnalyticsService) Dashboard(ctx context.Context, user *models.User) (*DashboardReport, error) {
	if err := policy.Authorize(policy.Authenticated, policy.ActorFromUser(user)); err != nil {
		return nil, err
	}

	span, ctx := observability.StartServiceSpan(ctx, "analytics", ReportDashboard)
	defer span.End()
	defer observability.TrackReport(ReportDashboard)()
	observability.RecordCacheLookup(ReportDashboard, observability.CacheBypass)

	listings, err := s.runner.load(ctx, repository.AnalysisScope{})
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	total, err := s.reviews.Count(ctx)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return &DashboardReport{
		Dashboard: analytics.BuildDashboard(listings, total),
		User:      DashboardUser{Username: user.Username, Role: user.Role},
	}, nil
}
