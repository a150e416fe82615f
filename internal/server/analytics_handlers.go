package server

import (
	"nativore/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetTrends handles GET /api/v1/analytics/trends
// @Summary Market trend summary
// @Tags analytics
// @Produce json
// @Param city query string false "City"
// @Success 200 {object} service.TrendsReport
// @Router /analytics/trends [get]
func (s *Server) GetTrends(c *fiber.Ctx) error {
	report, err := s.analyticsService.Trends(c.UserContext(), queryString(c, "city"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetSpending handles GET /api/v1/analytics/spending
// @Summary Price band distribution
// @Tags analytics
// @Produce json
// @Param city query string false "City"
// @Success 200 {object} service.SpendingReport
// @Router /analytics/spending [get]
func (s *Server) GetSpending(c *fiber.Ctx) error {
	report, err := s.analyticsService.Spending(c.UserContext(), queryString(c, "city"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetTopCuisines handles GET /api/v1/analytics/top-cuisines
// @Summary Cuisine ranking
// @Tags analytics
// @Produce json
// @Param city query string false "City"
// @Param limit query int false "Number of cuisines (1-100)" default(10)
// @Success 200 {object} service.TopCuisinesReport
// @Failure 400 {object} models.ErrorResponse
// @Router /analytics/top-cuisines [get]
func (s *Server) GetTopCuisines(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit", service.DefaultReportLimit)
	if err != nil {
		return nil
	}
	report, err := s.analyticsService.TopCuisines(c.UserContext(), queryString(c, "city"), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetCityComparison handles GET /api/v1/analytics/city-comparison
// @Summary Per-city comparison
// @Tags analytics
// @Produce json
// @Success 200 {object} service.CityComparisonReport
// @Router /analytics/city-comparison [get]
func (s *Server) GetCityComparison(c *fiber.Ctx) error {
	report, err := s.analyticsService.CityComparison(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetTopRated handles GET /api/v1/analytics/top-rated
// @Summary Top-rated restaurants
// @Description Restaurants with at least one review, best rated first
// @Tags analytics
// @Produce json
// @Param city query string false "City"
// @Param limit query int false "Number of restaurants (1-100)" default(10)
// @Success 200 {object} service.TopRatedReport
// @Failure 400 {object} models.ErrorResponse
// @Router /analytics/top-rated [get]
func (s *Server) GetTopRated(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit", service.DefaultReportLimit)
	if err != nil {
		return nil
	}
	report, err := s.analyticsService.TopRated(c.UserContext(), queryString(c, "city"), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetAreaInsights handles GET /api/v1/analytics/area-insights
// @Summary Area demand scores within a city
// @Tags analytics
// @Produce json
// @Param city query string true "City"
// @Success 200 {object} service.AreaInsightsReport
// @Failure 400 {object} models.ErrorResponse
// @Router /analytics/area-insights [get]
func (s *Server) GetAreaInsights(c *fiber.Ctx) error {
	report, err := s.analyticsService.AreaInsights(c.UserContext(), queryString(c, "city"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetDashboardStats handles GET /api/v1/analytics/dashboard-stats
// @Summary Platform overview for the caller
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DashboardReport
// @Failure 401 {object} models.ErrorResponse
// @Router /analytics/dashboard-stats [get]
func (s *Server) GetDashboardStats(c *fiber.Ctx) error {
	report, err := s.analyticsService.Dashboard(c.UserContext(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
