package server

import (
	"nativore/internal/models"
	"nativore/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetListingReviews handles GET /api/v1/listings/:id/reviews
// @Summary Reviews of a restaurant
// @Description Newest first
// @Tags reviews
// @Produce json
// @Param id path int true "Restaurant ID"
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size (1-100)" default(20)
// @Success 200 {array} models.Review
// @Failure 404 {object} models.ErrorResponse
// @Router /listings/{id}/reviews [get]
func (s *Server) GetListingReviews(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page, err := parsePagination(c, service.DefaultReviewLimit)
	if err != nil {
		return nil
	}

	reviews, err := s.reviewService.ListForListing(c.UserContext(), id, page.Offset, page.Limit)
	if err != nil {
		return respondError(c, err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return c.JSON(reviews)
}

// SubmitReview handles POST /api/v1/listings/:id/reviews
// @Summary Review a restaurant
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Restaurant ID"
// @Param request body service.SubmitReviewInput true "Review"
// @Success 201 {object} models.Review
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /listings/{id}/reviews [post]
func (s *Server) SubmitReview(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.SubmitReviewInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviewService.Submit(c.UserContext(), currentActor(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}
