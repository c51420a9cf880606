// Package dashboard provides the dashboard statistics.
package dashboard

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/adminconsole/admin-console/internal/config"
	dbactivity "github.com/adminconsole/admin-console/internal/db/controller/activity"
	"github.com/adminconsole/admin-console/internal/db/controller/setting"
	"github.com/adminconsole/admin-console/internal/db/controller/user"
	"github.com/adminconsole/admin-console/internal/db/models"
	"github.com/adminconsole/admin-console/internal/web/handler"
)

const (
	// Path is the path of the dashboard.
	Path = "/dashboard"

	// RecentActivity is the number of entries in the activity feed.
	RecentActivity = 5
)

// Data is the dashboard payload.
type Data struct {
	Title          string               `json:"title"`
	TotalUsers     int64                `json:"totalUsers"`
	StoredSettings int64                `json:"storedSettings"`
	UptimeSeconds  int64                `json:"uptimeSeconds"`
	Recent         []models.ActivityLog `json:"recentActivity"`
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg     *config.Config
	db      *gorm.DB
	started time.Time
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, deps *handler.Deps) {
	if router == nil || cfg == nil || db == nil || deps == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	s.started = deps.Started
	if s.started.IsZero() {
		s.started = time.Now()
	}

	router.Get(Path, s.Get)
}

// Get returns the dashboard statistics.
func (s *Service) Get(c *fiber.Ctx) error {
	db := s.db.WithContext(c.UserContext())

	users, err := user.Count(db)
	if err != nil {
		log.Error().Err(err).Msg("failed to count users")
		return handler.Error(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}

	stored, err := setting.Count(db)
	if err != nil {
		log.Error().Err(err).Msg("failed to count settings")
		return handler.Error(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}

	recent, err := dbactivity.List(db, RecentActivity)
	if err != nil {
		log.Error().Err(err).Msg("failed to load recent activity")
		return handler.Error(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}

	log.Debug().
		Int64("users", users).
		Int64("settings", stored).
		Int("recent", len(recent)).
		Msg("Dashboard statistics retrieved successfully")

	return c.JSON(Data{
		Title:          s.cfg.Title,
		TotalUsers:     users,
		StoredSettings: stored,
		UptimeSeconds:  int64(time.Since(s.started).Seconds()),
		Recent:         recent,
	})
}
