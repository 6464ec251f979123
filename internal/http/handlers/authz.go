package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"sugarstudio/internal/domain"
	applog "sugarstudio/internal/log"
	"sugarstudio/internal/services"
)

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequireStaff admits STAFF and ADMIN tokens and stashes the user in
// locals for the handler.
func RequireStaff(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return failWith(c, fiber.StatusUnauthorized, "authentication required")
		}
		u, err := auth.Verify(token)
		if err != nil {
			applog.Security(c, "access.denied.staff", nil)
			return failWith(c, fiber.StatusUnauthorized, "invalid or expired token")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireAdmin admits ADMIN tokens only.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return failWith(c, fiber.StatusUnauthorized, "authentication required")
		}
		u, err := auth.Verify(token)
		if err != nil {
			applog.Security(c, "access.denied.admin", nil)
			return failWith(c, fiber.StatusUnauthorized, "invalid or expired token")
		}
		if u.Role != domain.RoleAdmin {
			applog.Security(c, "access.denied.admin", map[string]any{"user_id": u.ID})
			return failWith(c, fiber.StatusForbidden, "admin access required")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
