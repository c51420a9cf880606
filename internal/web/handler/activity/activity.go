// Package activity serves the activity log viewer and its CSV export.
package activity

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	appactivity "github.com/adminconsole/admin-console/internal/activity"
	"github.com/adminconsole/admin-console/internal/auth"
	"github.com/adminconsole/admin-console/internal/config"
	dbactivity "github.com/adminconsole/admin-console/internal/db/controller/activity"
	"github.com/adminconsole/admin-console/internal/db/models"
	"github.com/adminconsole/admin-console/internal/web/handler"
)

const (
	// Path lists entries.
	Path = "/activity"
	// ExportPath downloads entries as CSV.
	ExportPath = Path + "/export"
)

// ListResponse is the body of a list call.
type ListResponse struct {
	Entries     []models.ActivityLog `json:"entries"`
	Total       int                  `json:"total"`
	ActionTypes []models.ActionType  `json:"actionTypes"`
}

// Service is the activity handler service.
type Service struct {
	handler.Service
	repo *dbactivity.Repository
}

// Handler is the activity handler.
var Handler = Service{}

// Init initializes the activity handler.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, deps *handler.Deps) {
	if router == nil || cfg == nil || db == nil || deps == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.repo = dbactivity.NewRepository(db)

	router.Get(Path, auth.RequireAdmin(deps.Auth), s.List)
	router.Get(ExportPath, auth.RequireAdmin(deps.Auth), s.Export)
}

// filter reads year, month, search and action from the query string.
// Year and month default to the current month, year=0 disables the period filter.
func filter(c *fiber.Ctx) appactivity.Filter {
	now := time.Now().UTC()

	return appactivity.Filter{
		Year:       c.QueryInt("year", now.Year()),
		Month:      c.QueryInt("month", int(now.Month())),
		Search:     c.Query("search"),
		ActionType: c.Query("action", appactivity.ActionAll),
	}
}

// List returns the filtered entries, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	entries, err := appactivity.Browse(c.UserContext(), s.repo, filter(c), c.QueryInt("limit", appactivity.DefaultListLimit))
	if err != nil {
		log.Error().Err(err).Msg("failed to list activity")
		return handler.Error(c, fiber.StatusInternalServerError, "failed to list activity")
	}

	return c.JSON(ListResponse{
		Entries:     entries,
		Total:       len(entries),
		ActionTypes: models.ActionTypes(),
	})
}

// Export downloads the filtered entries as CSV.
func (s *Service) Export(c *fiber.Ctx) error {
	f := filter(c)

	entries, err := appactivity.Browse(c.UserContext(), s.repo, f, c.QueryInt("limit", appactivity.DefaultListLimit))
	if err != nil {
		log.Error().Err(err).Msg("failed to export activity")
		return handler.Error(c, fiber.StatusInternalServerError, "failed to export activity")
	}

	var buf bytes.Buffer
	if err = appactivity.ExportCSV(&buf, entries, nil); err != nil {
		log.Error().Err(err).Msg("failed to render activity export")
		return handler.Error(c, fiber.StatusInternalServerError, "failed to export activity")
	}

	c.Attachment(appactivity.FileName(f.Year, f.Month))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")

	return c.Send(buf.Bytes())
}
