package server

import (
	"bytes"
	"fmt"
	"time"

	"nativore/internal/models"
	"nativore/internal/report"

	"github.com/gofiber/fiber/v2"
)

// ExportCityComparison handles GET /api/v1/analytics/city-comparison/export
// @Summary Download the city comparison as a spreadsheet
// @Tags analytics
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 401 {object} models.ErrorResponse
// @Router /analytics/city-comparison/export [get]
func (s *Server) ExportCityComparison(c *fiber.Ctx) error {
	comparison, err := s.analyticsService.CityComparison(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	var buf bytes.Buffer
	if err := report.WriteCityComparison(&buf, comparison.Cities); err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	filename := fmt.Sprintf("city-comparison-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Set(fiber.HeaderContentType, report.ContentTypeXLSX)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}
