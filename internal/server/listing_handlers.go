package server

import (
	"nativore/internal/models"
	"nativore/internal/repository"
	"nativore/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetListings handles GET /api/v1/listings
// @Summary List restaurants
// @Description Active restaurants matching every supplied filter, ordered by id
// @Tags listings
// @Produce json
// @Param city query string false "City"
// @Param cuisine query string false "Cuisine"
// @Param min_rating query number false "Minimum rating (0-5)"
// @Param max_price query number false "Maximum average price"
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size (1-100)" default(50)
// @Success 200 {array} models.Listing
// @Failure 400 {object} models.ErrorResponse
// @Router /listings [get]
func (s *Server) GetListings(c *fiber.Ctx) error {
	page, err := parsePagination(c, repository.DefaultListingLimit)
	if err != nil {
		return nil
	}
	minRating, err := queryFloat(c, "min_rating")
	if err != nil {
		return nil
	}
	maxPrice, err := queryFloat(c, "max_price")
	if err != nil {
		return nil
	}

	filter := repository.NewListingFilter()
	filter.City = queryString(c, "city")
	filter.Cuisine = queryString(c, "cuisine")
	filter.MinRating = minRating
	filter.MaxPrice = maxPrice
	filter.Offset = page.Offset
	filter.Limit = page.Limit

	listings, err := s.listingService.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	return c.JSON(listings)
}

// SearchListings handles GET /api/v1/listings/search/by-name
// @Summary Search restaurants by name
// @Description Case-insensitive substring match over active restaurants, at most 20 results
// @Tags listings
// @Produce json
// @Param q query string true "Search text (min 2 characters)"
// @Success 200 {object} object{query=string,results=[]models.ListingSummary}
// @Failure 400 {object} models.ErrorResponse
// @Router /listings/search/by-name [get]
func (s *Server) SearchListings(c *fiber.Ctx) error {
	q := c.Query("q")
	results, err := s.listingService.SearchByName(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	if results == nil {
		results = []models.ListingSummary{}
	}
	return c.JSON(fiber.Map{
		"query":   q,
		"results": results,
	})
}

// GetCities handles GET /api/v1/listings/cities/list
// @Summary Cities with restaurant counts
// @Tags listings
// @Produce json
// @Success 200 {object} object{cities=[]models.CityCount}
// @Router /listings/cities/list [get]
func (s *Server) GetCities(c *fiber.Ctx) error {
	cities, err := s.listingService.Cities(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if cities == nil {
		cities = []models.CityCount{}
	}
	return c.JSON(fiber.Map{"cities": cities})
}

// GetCuisines handles GET /api/v1/listings/cuisines/list
// @Summary Cuisines with restaurant counts
// @Tags listings
// @Produce json
// @Success 200 {object} object{cuisines=[]models.CuisineCount}
// @Router /listings/cuisines/list [get]
func (s *Server) GetCuisines(c *fiber.Ctx) error {
	cuisines, err := s.listingService.Cuisines(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if cuisines == nil {
		cuisines = []models.CuisineCount{}
	}
	return c.JSON(fiber.Map{"cuisines": cuisines})
}

// GetListing handles GET /api/v1/listings/:id
// @Summary Get a restaurant
// @Description Soft-deleted restaurants are still returned
// @Tags listings
// @Produce json
// @Param id path int true "Restaurant ID"
// @Success 200 {object} models.Listing
// @Failure 404 {object} models.ErrorResponse
// @Router /listings/{id} [get]
func (s *Server) GetListing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	listing, err := s.listingService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(listing)
}

// CreateListing handles POST /api/v1/listings
// @Summary Create a restaurant
// @Tags listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateListingInput true "Restaurant"
// @Success 201 {object} models.Listing
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /listings [post]
func (s *Server) CreateListing(c *fiber.Ctx) error {
	var req service.CreateListingInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	listing, err := s.listingService.Create(c.UserContext(), currentActor(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(listing)
}

// UpdateListing handles PUT /api/v1/listings/:id
// @Summary Update a restaurant
// @Description Only supplied fields change; rating and review count are never client-writable
// @Tags listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Restaurant ID"
// @Param request body service.UpdateListingInput true "Fields to change"
// @Success 200 {object} models.Listing
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /listings/{id} [put]
func (s *Server) UpdateListing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.UpdateListingInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	listing, err := s.listingService.Update(c.UserContext(), currentActor(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(listing)
}

// DeleteListing handles DELETE /api/v1/listings/:id
// @Summary Deactivate a restaurant
// @Tags listings
// @Security BearerAuth
// @Param id path int true "Restaurant ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /listings/{id} [delete]
func (s *Server) DeleteListing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.listingService.Delete(c.UserContext(), currentActor(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RecomputeListingRating handles POST /api/v1/listings/:id/recompute-rating
// @Summary Recompute one restaurant's rating
// @Tags listings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Restaurant ID"
// @Success 200 {object} models.Listing
// @Failure 404 {object} models.ErrorResponse
// @Router /listings/{id}/recompute-rating [post]
func (s *Server) RecomputeListingRating(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	listing, err := s.listingService.RecomputeRating(c.UserContext(), currentActor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(listing)
}

// RecomputeAllRatings handles POST /api/v1/listings/recompute-ratings
// @Summary Recompute every restaurant's rating
// @Tags listings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{updated=int}
// @Router /listings/recompute-ratings [post]
func (s *Server) RecomputeAllRatings(c *fiber.Ctx) error {
	n, err := s.listingService.RecomputeAllRatings(c.UserContext(), currentActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}
