package middleware

import (
	"go-procure/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireRole guards a route so only users holding one of the given role
// names may pass. Master-data routes use this with the admin role; the
// approval gate itself is evaluated in the approval feature, not here.
func RequireRole(skipAuth bool, roleNames ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipAuth {
			return c.Next()
		}

		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		for _, name := range roleNames {
			if claims.HasRole(name) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: Insufficient permissions",
		})
	}
}
