package server

import (
	"nativore/internal/models"
	"nativore/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /api/v1/auth/signup
// @Summary User signup
// @Description Register a new account with the user role
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.SignupInput true "Signup request"
// @Success 201 {object} service.AuthResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req service.SignupInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	res, err := s.userService.Signup(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Login handles POST /api/v1/auth/login
// @Summary User login
// @Description Authenticate by username or email and return a bearer token. Accepts JSON or form bodies.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body service.LoginInput true "Login credentials"
// @Success 200 {object} service.AuthResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	res, err := s.userService.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// GetMe handles GET /api/v1/auth/me
// @Summary Current account
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/me [get]
func (s *Server) GetMe(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

// Refresh handles POST /api/v1/auth/refresh
// @Summary Refresh token
// @Description Issue a new token and revoke the presented one
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.AuthResult
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/refresh [post]
func (s *Server) Refresh(c *fiber.Ctx) error {
	res, err := s.userService.Refresh(c.UserContext(), currentUser(c), currentClaims(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// Logout handles POST /api/v1/auth/logout
// @Summary Logout
// @Description Revoke the presented token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	s.userService.Logout(c.UserContext(), currentClaims(c))
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// DeleteMe handles DELETE /api/v1/auth/me
// @Summary Delete account
// @Description Permanently delete the caller's account and its reviews
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/me [delete]
func (s *Server) DeleteMe(c *fiber.Ctx) error {
	user := currentUser(c)
	if err := s.userService.DeleteAccount(c.UserContext(), user.ID, currentClaims(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
