package middleware

import (
	"strings"

	"ecobloom/internal/apperrors"
	"ecobloom/internal/models"
	"ecobloom/internal/services"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// AuthRequired accepts a session token from the cookie, or from an
// "Authorization: Bearer" header when no cookie is sent.
func AuthRequired(authService *services.AuthService, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = strings.TrimSpace(parts[1])
			}
		}
		if token == "" {
			return apperrors.Unauthenticated("Unauthorized")
		}

		principal, err := authService.ValidateToken(token)
		if err != nil {
			return err
		}
		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// AdminOnly rejects callers whose token does not carry admin rights.
// It must run after AuthRequired.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := Principal(c)
		if !ok || !p.IsAdmin {
			return apperrors.Forbidden("Admin only")
		}
		return c.Next()
	}
}

// Principal returns the identity stored by AuthRequired.
func Principal(c *fiber.Ctx) (models.Principal, bool) {
	p, ok := c.Locals(principalKey).(*models.Principal)
	if !ok || p == nil {
		return models.Principal{}, false
	}
	return *p, true
}
