package server

import (
	"strconv"

	"nativore/internal/analytics"

	"github.com/gofiber/fiber/v2"
)

// GetBestLocations handles GET /api/v1/recommendations/best-locations
// @Summary Best areas to open a restaurant
// @Tags recommendations
// @Produce json
// @Param city query string true "City"
// @Param cuisine query string false "Cuisine"
// @Success 200 {object} service.BestLocationsReport
// @Failure 400 {object} models.ErrorResponse
// @Router /recommendations/best-locations [get]
func (s *Server) GetBestLocations(c *fiber.Ctx) error {
	report, err := s.recommendationService.BestLocations(c.UserContext(),
		queryString(c, "city"), queryString(c, "cuisine"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetMarketGaps handles GET /api/v1/recommendations/market-gaps
// @Summary Under-served cuisines in a city
// @Tags recommendations
// @Produce json
// @Param city query string true "City"
// @Success 200 {object} service.MarketGapsReport
// @Failure 400 {object} models.ErrorResponse
// @Router /recommendations/market-gaps [get]
func (s *Server) GetMarketGaps(c *fiber.Ctx) error {
	report, err := s.recommendationService.MarketGaps(c.UserContext(), queryString(c, "city"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetSimilarRestaurants handles GET /api/v1/recommendations/similar-restaurants
// @Summary Restaurants similar to a reference one
// @Tags recommendations
// @Produce json
// @Param restaurant_id query int true "Reference restaurant ID"
// @Param limit query int false "Number of results (1-20)" default(5)
// @Success 200 {object} service.SimilarReport
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /recommendations/similar-restaurants [get]
func (s *Server) GetSimilarRestaurants(c *fiber.Ctx) error {
	rawID := queryString(c, "restaurant_id")
	if rawID == "" {
		_ = badRequest(c, "restaurant_id is required")
		return nil
	}
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil || id == 0 {
		_ = badRequest(c, "Invalid restaurant ID")
		return nil
	}
	limit, err := queryInt(c, "limit", analytics.DefaultSimilarLimit)
	if err != nil {
		return nil
	}

	report, err := s.recommendationService.Similar(c.UserContext(), uint(id), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetInvestmentInsights handles GET /api/v1/recommendations/investment-insights
// @Summary Investment projection for a budget
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Param city query string true "City"
// @Param budget query number true "Budget in INR"
// @Success 200 {object} service.InvestmentReport
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /recommendations/investment-insights [get]
func (s *Server) GetInvestmentInsights(c *fiber.Ctx) error {
	budget, err := queryFloat(c, "budget")
	if err != nil {
		return nil
	}
	if budget == nil {
		_ = badRequest(c, "budget is required")
		return nil
	}

	report, err := s.recommendationService.Investment(c.UserContext(), currentActor(c),
		queryString(c, "city"), *budget)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
