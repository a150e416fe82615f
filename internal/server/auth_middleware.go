package server

import (
	"log/slog"

	"nativore/internal/cache"
	"nativore/internal/middleware"
	"nativore/internal/models"
	"nativore/internal/policy"

	"github.com/gofiber/fiber/v2"
)

// Fiber locals set by Require.
const (
	localUserID = "userID"
	localUser   = "user"
	localClaims = "claims"
)

// Require returns middleware admitting only callers that satisfy tier.
// It verifies the bearer token, rejects revoked tokens, loads the account
// and then asks the access policy.
func (s *Server) Require(tier policy.Tier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tier == policy.Anonymous {
			return c.Next()
		}
		ctx := c.UserContext()

		raw, err := middleware.BearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		claims, err := s.tokens.Parse(raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		revoked, err := cache.IsTokenRevoked(ctx, claims.JTI)
		if err != nil {
			// Revocation store errors do not lock everyone out.
			middleware.Logger.WarnContext(ctx, "token revocation check failed",
				slog.String("error", err.Error()))
		}
		if revoked {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Token has been revoked"))
		}

		user, err := s.userRepo.GetByID(ctx, claims.UserID)
		if err != nil {
			if models.IsCode(err, models.CodeNotFound) {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Account no longer exists"))
			}
			return respondError(c, err)
		}

		if err := policy.Authorize(tier, policy.ActorFromUser(user)); err != nil {
			return respondError(c, err)
		}

		c.Locals(localUserID, user.ID)
		c.Locals(localUser, user)
		c.Locals(localClaims, claims)
		c.SetUserContext(middleware.WithUserID(ctx, user.ID))

		return c.Next()
	}
}

// currentUser returns the account loaded by Require, or nil.
func currentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(localUser).(*models.User)
	return u
}

// currentActor returns the policy actor for the caller, or nil.
func currentActor(c *fiber.Ctx) *policy.Actor {
	return policy.ActorFromUser(currentUser(c))
}

// currentClaims returns the verified token claims, or nil.
func currentClaims(c *fiber.Ctx) *middleware.TokenClaims {
	tc, _ := c.Locals(localClaims).(*middleware.TokenClaims)
	return tc
}
