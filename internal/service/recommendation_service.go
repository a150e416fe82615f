package service

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"nativore/internal/analytics"
	"nativore/internal/featureflags"
	"nativore/internal/models"
	"nativore/internal/policy"
	"nativore/internal/repository"
)

const allCuisines = "All"

type BestLocationsReport struct {
	City    string `json:"city"`
	Cuisine string `json:"cuisine"`
	analytics.BestLocations
}

type MarketGapsReport struct {
	City string `json:"city"`
	analytics.MarketGaps
}

// ReferenceListing is the listing similar restaurants are compared against.
type ReferenceListing struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Cuisine  string  `json:"cuisine"`
	City     string  `json:"city"`
	AvgPrice float64 `json:"avg_price"`
}

type SimilarReport struct {
	ReferenceRestaurant ReferenceListing           `json:"reference_restaurant"`
	SimilarRestaurants  []analytics.SimilarListing `json:"similar_restaurants"`
}

type InvestmentReport struct {
	City string `json:"city"`
	analytics.InvestmentProjection
}

type RecommendationService struct {
	runner reportRunner
}

func NewRecommendationService(listings repository.ListingRepository, flags *featureflags.Manager, ttl time.Duration) *RecommendationService {
	return &RecommendationService{runner: newReportRunner(listings, flags, ttl)}
}

// BestLocations ranks a city's areas by opportunity score, optionally for one cuisine.
func (s *RecommendationService) BestLocations(ctx context.Context, city, cuisine string) (*BestLocationsReport, error) {
	if err := requireCity(city); err != nil {
		return nil, err
	}
	scope := repository.AnalysisScope{City: city, Cuisine: cuisine}
	return runReport(ctx, s.runner, ReportBestLocations, scope.Key(), 0, func(ctx context.Context) (BestLocationsReport, error) {
		listings, err := s.runner.load(ctx, scope)
		if err != nil {
			return BestLocationsReport{}, err
		}
		label := cuisine
		if label == "" {
			label = allCuisines
		}
		return BestLocationsReport{City: city, Cuisine: label, BestLocations: analytics.RankLocations(city, listings)}, nil
	})
}

// MarketGaps reports cuisine saturation and underserved areas in a city.
func (s *RecommendationService) MarketGaps(ctx context.Context, city string) (*MarketGapsReport, error) {
	if err := requireCity(city); err != nil {
		return nil, err
	}
	scope := repository.AnalysisScope{City: city}
	return runReport(ctx, s.runner, ReportMarketGaps, scope.Key(), 0, func(ctx context.Context) (MarketGapsReport, error) {
		listings, err := s.runner.load(ctx, scope)
		if err != nil {
			return MarketGapsReport{}, err
		}
		return MarketGapsReport{City: city, MarketGaps: analytics.FindMarketGaps(listings)}, nil
	})
}

// Similar finds active listings of the same cuisine and city as listingID.
// A missing reference listing is NOT_FOUND.
func (s *RecommendationService) Similar(ctx context.Context, listingID uint, limit int) (*SimilarReport, error) {
	if limit < 1 || limit > analytics.MaxSimilarLimit {
		return nil, models.NewValidationError(fmt.Sprintf("limit must be between 1 and %d", analytics.MaxSimilarLimit))
	}
	params := url.Values{
		"id":    {strconv.FormatUint(uint64(listingID), 10)},
		"limit": {strconv.Itoa(limit)},
	}.Encode()

	return runReport(ctx, s.runner, ReportSimilar, params, 0, func(ctx context.Context) (SimilarReport, error) {
		ref, err := s.runner.listings.GetByID(ctx, listingID)
		if err != nil {
			return SimilarReport{}, err
		}
		candidates, err := s.runner.load(ctx, repository.AnalysisScope{City: ref.City, Cuisine: ref.Cuisine})
		if err != nil {
			return SimilarReport{}, err
		}
		return SimilarReport{
			ReferenceRestaurant: ReferenceListing{
				ID:       ref.ID,
				Name:     ref.Name,
				Cuisine:  ref.Cuisine,
				City:     ref.City,
				AvgPrice: ref.AvgPrice,
			},
			SimilarRestaurants: analytics.Similar(*ref, candidates, limit),
		}, nil
	})
}

// Investment projects returns for budget in city. Only signed-in accounts may
// request it; a city without listings yields a zeroed projection marked no_data.
func (s *RecommendationService) Investment(ctx context.Context, actor *policy.Actor, city string, budget float64) (*InvestmentReport, error) {
	if err := policy.Authorize(policy.Authenticated, actor); err != nil {
		return nil, err
	}
	if err := requireCity(city); err != nil {
		return nil, err
	}
	if !(budget > 0) || math.IsInf(budget, 1) {
		return nil, models.NewValidationError("budget must be a finite number greater than 0")
	}

	scope := repository.AnalysisScope{City: city}
	params := scope.Key() + "&budget=" + strconv.FormatFloat(budget, 'f', -1, 64)
	return runReport(ctx, s.runner, ReportInvestment, params, actor.ID, func(ctx context.Context) (InvestmentReport, error) {
		listings, err := s.runner.load(ctx, scope)
		if err != nil {
			return InvestmentReport{}, err
		}
		return InvestmentReport{City: city, InvestmentProjection: analytics.Project(budget, listings)}, nil
	})
}
