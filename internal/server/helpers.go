package server

import (
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"nativore/internal/middleware"
	"nativore/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed skip/limit query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

// respondError writes err with the status derived from its code.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code == models.CodeInternal {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return models.RespondWithAppError(c, err)
}

// badRequest writes a 400 validation error and returns errResponseWritten.
func badRequest(c *fiber.Ctx, message string) error {
	_ = models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(message))
	return errResponseWritten
}

// parsePagination extracts skip and limit with the given default limit.
// Range checks are left to the caller's service; malformed numbers are
// answered here with a 400 and errResponseWritten.
func parsePagination(c *fiber.Ctx, defaultLimit int) (Pagination, error) {
	offset, err := queryInt(c, "skip", 0)
	if err != nil {
		return Pagination{}, err
	}
	limit, err := queryInt(c, "limit", defaultLimit)
	if err != nil {
		return Pagination{}, err
	}
	return Pagination{Limit: limit, Offset: offset}, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest(c, name+" must be an integer")
	}
	return v, nil
}

// queryFloat parses an optional finite number query parameter. A missing
// value is nil; NaN and infinities are rejected like any malformed number.
func queryFloat(c *fiber.Ctx, name string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, badRequest(c, name+" must be a number")
	}
	return &v, nil
}

// queryString returns the trimmed query parameter.
func queryString(c *fiber.Ctx, name string) string {
	return strings.TrimSpace(c.Query(name))
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, badRequest(c, "Invalid "+humanizeParam(param))
	}
	return uint(id), nil
}

// humanizeParam labels a route parameter in error messages.
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	return param
}
