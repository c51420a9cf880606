// Package maintenance rejects writes of non-admin users while the system is in maintenance mode.
package maintenance

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/adminconsole/admin-console/internal/auth"
	"github.com/adminconsole/admin-console/internal/settings"
)

// DefaultRefresh is used when no refresh interval is configured.
const DefaultRefresh = 30 * time.Second

// Loader reads the current settings of a domain.
type Loader interface {
	Load(ctx context.Context, domain string) (working, snapshot settings.Values, err error)
}

// Policy caches the system settings for a refresh interval.
type Policy struct {
	loader  Loader
	refresh time.Duration
	now     func() time.Time

	mu       sync.Mutex
	system   settings.System
	loadedAt time.Time
}

// New creates a policy. refresh <= 0 selects DefaultRefresh.
func New(loader Loader, refresh time.Duration) *Policy {
	if refresh <= 0 {
		refresh = DefaultRefresh
	}

	return &Policy{loader: loader, refresh: refresh, now: time.Now}
}

// System returns the cached system settings, reloading them when stale.
// A failed reload keeps the previous values.
func (p *Policy) System(ctx context.Context) settings.System {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loadedAt.IsZero() && p.now().Sub(p.loadedAt) < p.refresh {
		return p.system
	}

	working, _, err := p.loader.Load(ctx, settings.DomainSystem)
	if err != nil {
		log.Warn().Err(err).Msg("could not refresh system settings")
	}

	var sys settings.System
	if bindErr := settings.Bind(working, &sys); bindErr != nil {
		log.Error().Err(bindErr).Msg("could not bind system settings")
		return p.system
	}

	p.system = sys
	p.loadedAt = p.now()

	return p.system
}

// Invalidate forces a reload on the next request.
func (p *Policy) Invalidate() {
	p.mu.Lock()
	p.loadedAt = time.Time{}
	p.mu.Unlock()
}

// Middleware rejects non GET requests of non-admin users with 503 during maintenance.
func (p *Policy) Middleware(authService *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodGet || c.Method() == fiber.MethodHead {
			return c.Next()
		}

		if !p.System(c.UserContext()).MaintenanceMode {
			return c.Next()
		}

		if !authService.Enabled() {
			return c.Next()
		}

		if u := auth.CurrentUser(c); u != nil && u.IsAdmin() {
			return c.Next()
		}

		log.Info().Str("path", c.Path()).Msg("request rejected, maintenance mode")

		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "maintenance mode"})
	}
}
