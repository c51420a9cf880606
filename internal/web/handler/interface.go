package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"gorm.io/gorm"

	"github.com/adminconsole/admin-console/internal/activity"
	"github.com/adminconsole/admin-console/internal/auth"
	"github.com/adminconsole/admin-console/internal/config"
	"github.com/adminconsole/admin-console/internal/settings"
	"github.com/adminconsole/admin-console/internal/web/middleware/maintenance"
)

// Deps are the collaborators shared by the api handlers.
type Deps struct {
	Auth     *auth.Service
	Sessions *session.Store
	Registry *settings.Registry
	Recorder *activity.Recorder
	Policy   *maintenance.Policy
	Started  time.Time
}

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router, cfg *config.Config, db *gorm.DB, deps *Deps)
}
