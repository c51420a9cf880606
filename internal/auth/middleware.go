package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/adminconsole/admin-console/internal/db/models"
	"github.com/adminconsole/admin-console/internal/identity"
)

// LocalsUser is the fiber.Locals key holding the authenticated *models.User.
const LocalsUser = "user"

const bearerPrefix = "bearer "

// Authenticate creates Fiber middleware that resolves the bearer token into a user.
// With authentication disabled every request passes without a user.
func Authenticate(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !authService.Enabled() {
			return c.Next()
		}

		header := c.Get(fiber.HeaderAuthorization)
		if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			log.Debug().Str("path", c.Path()).Msg("No bearer token found")
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		u, err := authService.Authenticate(c.UserContext(), strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			if errors.Is(err, ErrUserAccountDisabled) {
				log.Warn().Err(err).Msg("Disabled account tried to sign in")
				return c.Status(fiber.StatusForbidden).SendString("Forbidden: account disabled")
			}

			if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrMissingEmail) || errors.Is(err, ErrNoToken) {
				log.Warn().Err(err).Msg("Rejected token")
				return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
			}

			log.Error().Err(err).Msg("Failed to authenticate user")

			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		}

		c.Locals(LocalsUser, u)
		c.SetUserContext(identity.WithUser(c.UserContext(), Identity(u)))

		return c.Next()
	}
}

// RequireAdmin creates Fiber middleware that requires the admin role.
// It passes when authentication is disabled.
func RequireAdmin(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !authService.Enabled() {
			return c.Next()
		}

		u := CurrentUser(c)
		if u == nil {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		if !u.IsAdmin() {
			log.Warn().Uint64("user_id", u.ID).Str("path", c.Path()).Msg("User lacks admin role")

			return c.Status(fiber.StatusForbidden).SendString("Forbidden: You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// ClientInfo stores the caller's address and user agent in the request context.
func ClientInfo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(identity.WithClient(c.UserContext(), identity.Client{
			IP:        c.IP(),
			UserAgent: c.Get(fiber.HeaderUserAgent),
		}))

		return c.Next()
	}
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(LocalsUser).(*models.User)

	return u
}
