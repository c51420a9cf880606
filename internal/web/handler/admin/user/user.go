// Package user provides the user management api of the admin area.
package user

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/adminconsole/admin-console/internal/activity"
	"github.com/adminconsole/admin-console/internal/auth"
	"github.com/adminconsole/admin-console/internal/config"
	dbuser "github.com/adminconsole/admin-console/internal/db/controller/user"
	"github.com/adminconsole/admin-console/internal/db/models"
	"github.com/adminconsole/admin-console/internal/web/handler"
)

const (
	// Path is the base path for user management.
	Path = "/users"

	// MaxPageSize caps the page size a client may request.
	MaxPageSize = 100
)

// ListResponse is one page of users.
type ListResponse struct {
	Users    []models.User `json:"users"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

// UpdateRequest changes role and active flag. Omitted fields stay as they are.
type UpdateRequest struct {
	Role   *string `json:"role" validate:"omitempty,oneof=admin user"`
	Active *bool   `json:"active"`
}

// Service provides user management.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	recorder  *activity.Recorder
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, deps *handler.Deps) {
	if router == nil || cfg == nil || db == nil || deps == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.recorder = deps.Recorder
	s.validator = validator.New()

	router.Get(Path, auth.RequireAdmin(deps.Auth), s.List)
	router.Patch(Path+"/:id", auth.RequireAdmin(deps.Auth), s.Update)
}

// List returns users filtered by search and role.
func (s *Service) List(c *fiber.Ctx) error {
	q := dbuser.Query{
		Search:   c.Query("search"),
		Role:     c.Query("role", dbuser.RoleAll),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", dbuser.DefaultPageSize),
	}

	if q.Role != dbuser.RoleAll && q.Role != string(models.RoleAdmin) && q.Role != string(models.RoleUser) {
		return handler.Error(c, fiber.StatusBadRequest, "role must be all, admin or user")
	}

	if q.Page < 1 {
		q.Page = 1
	}

	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		q.PageSize = dbuser.DefaultPageSize
	}

	users, total, err := dbuser.List(s.db.WithContext(c.UserContext()), q)
	if err != nil {
		log.Error().Err(err).Msg("query users failed")
		return handler.Error(c, fiber.StatusInternalServerError, "failed to load users")
	}

	return c.JSON(ListResponse{Users: users, Total: total, Page: q.Page, PageSize: q.PageSize})
}

// Update changes role and active flag of a user and records user_modified.
// Administrators cannot demote or disable themselves.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	var req UpdateRequest
	if err = c.BodyParser(&req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err = s.validator.Struct(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	db := s.db.WithContext(c.UserContext())

	u, err := dbuser.Get(db, id)
	if err != nil {
		if errors.Is(err, dbuser.ErrUserNotFound) {
			return handler.Error(c, fiber.StatusNotFound, err.Error())
		}

		log.Error().Err(err).Uint64("user_id", id).Msg("failed to load user")

		return handler.Error(c, fiber.StatusInternalServerError, "failed to load user")
	}

	role, active := u.Role, u.Active
	if req.Role != nil {
		role = models.Role(*req.Role)
	}

	if req.Active != nil {
		active = *req.Active
	}

	if current := auth.CurrentUser(c); current != nil && current.ID == u.ID && (role != models.RoleAdmin || !active) {
		return handler.Error(c, fiber.StatusConflict, "you cannot demote or disable your own account")
	}

	if role == u.Role && active == u.Active {
		return c.JSON(u)
	}

	before := map[string]any{"role": u.Role, "active": u.Active}

	if u, err = dbuser.Update(db, id, role, active); err != nil {
		log.Error().Err(err).Uint64("user_id", id).Msg("failed to update user")
		return handler.Error(c, fiber.StatusInternalServerError, "failed to update user")
	}

	s.recorder.Dispatch(c.UserContext(), models.ActionUserModified, "User Modified",
		fmt.Sprintf("Updated %s: role %s, active %t", u.Email, u.Role, u.Active),
		map[string]any{
			"userId": u.ID,
			"before": before,
			"after":  map[string]any{"role": u.Role, "active": u.Active},
		})

	return c.JSON(u)
}
