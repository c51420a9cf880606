// Package settings serves the settings groups: load into the session, edit, save.
package settings

import (
	"errors"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/adminconsole/admin-console/internal/auth"
	"github.com/adminconsole/admin-console/internal/config"
	"github.com/adminconsole/admin-console/internal/db/controller/setting"
	appsettings "github.com/adminconsole/admin-console/internal/settings"
	"github.com/adminconsole/admin-console/internal/web/handler"
	"github.com/adminconsole/admin-console/internal/web/middleware/maintenance"
	"github.com/adminconsole/admin-console/internal/web/session"
)

const (
	// Path is the route of a settings group.
	Path = "/settings/:group"
	// ResetPath replaces the session working set by the defaults.
	ResetPath = Path + "/reset"
)

// Request is the body of a save. Values are keyed by domain, then setting key.
// An empty Values map saves the session working set as it is.
type Request struct {
	Values   map[string]map[string]any `json:"values"`
	Strategy string                    `json:"strategy" validate:"omitempty,oneof=incremental replace-all"`
}

// Response describes the session's view of a group.
type Response struct {
	Group      string         `json:"group"`
	Title      string         `json:"title"`
	Working    map[string]any `json:"working"`
	HasChanges bool           `json:"hasChanges"`
	Strategy   string         `json:"strategy"`
	Degraded   bool           `json:"degraded,omitempty"`
}

// Service is the settings handler service.
type Service struct {
	handler.Service
	cfg        *config.Config
	sessions   *fibersession.Store
	registry   *appsettings.Registry
	reconciler *appsettings.Reconciler
	syncer     *appsettings.Synchronizer
	policy     *maintenance.Policy
	validate   *validator.Validate
}

// Handler is the settings handler.
var Handler = Service{}

// Init initializes the settings handler.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, deps *handler.Deps) {
	if router == nil || cfg == nil || db == nil || deps == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	repo := setting.NewRepository(db)

	s.cfg = cfg
	s.sessions = deps.Sessions
	s.registry = deps.Registry
	s.policy = deps.Policy
	s.validate = validator.New(validator.WithRequiredStructEnabled())
	s.reconciler = appsettings.NewReconciler(repo, deps.Registry)
	s.syncer = appsettings.NewSynchronizer(repo, deps.Registry,
		appsettings.WithRecorder(deps.Recorder),
		appsettings.WithConcurrency(cfg.Settings.MaxConcurrency),
	)

	router.Get(Path, s.Get)
	router.Put(Path, auth.RequireAdmin(deps.Auth), s.Put)
	router.Post(ResetPath, auth.RequireAdmin(deps.Auth), s.Reset)
}

// Get loads the group from the store and makes it the session's snapshot.
// Unsaved edits of the session are discarded.
func (s *Service) Get(c *fiber.Ctx) error {
	group, err := s.registry.LookupGroup(c.Params("group"))
	if err != nil {
		return handler.Error(c, fiber.StatusNotFound, err.Error())
	}

	sess, err := s.sessions.Get(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to get session")
		return handler.Error(c, fiber.StatusInternalServerError, errSessionUnavailable.Error())
	}

	working, snapshot, err := s.reconciler.LoadState(c.UserContext(), group.Domains...)

	degraded := false

	if err != nil {
		if !errors.Is(err, appsettings.ErrStoreUnavailable) {
			log.Error().Err(err).Str("group", group.Name).Msg("failed to load settings")
			return handler.Error(c, fiber.StatusInternalServerError, "failed to load settings")
		}

		// defaults are served, the next save compares against them
		log.Warn().Err(err).Str("group", group.Name).Msg("settings store unavailable, serving defaults")

		degraded = true
	}

	draft := session.Draft{Working: working, Snapshot: snapshot}
	if err = s.storeDraft(sess, group.Name, draft); err != nil {
		return handler.Error(c, fiber.StatusInternalServerError, errSessionUnavailable.Error())
	}

	resp := s.response(group, draft)
	resp.Degraded = degraded

	return c.JSON(resp)
}

// Put merges the request values onto the session working set and saves it.
func (s *Service) Put(c *fiber.Ctx) error {
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validate.Struct(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	group, err := s.registry.LookupGroup(c.Params("group"))
	if err != nil {
		return handler.Error(c, fiber.StatusNotFound, err.Error())
	}

	sess, draft, status, err := s.draft(c, group)
	if err != nil {
		return handler.Error(c, status, err.Error())
	}

	if err = s.merge(group, draft.Working, req.Values); err != nil {
		return handler.Error(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	if err = s.registry.ValidateChanged(draft.Working, draft.Snapshot); err != nil {
		return handler.Error(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	strategy := group.Strategy
	if req.Strategy != "" {
		strategy = appsettings.Strategy(req.Strategy)
	}

	next, err := s.syncer.SaveState(c.UserContext(), draft.Working, draft.Snapshot, strategy)
	if err != nil {
		// keep the edits so the client can retry
		if storeErr := s.storeDraft(sess, group.Name, draft); storeErr != nil {
			return handler.Error(c, fiber.StatusInternalServerError, errSessionUnavailable.Error())
		}

		return handler.Error(c, fiber.StatusServiceUnavailable, err.Error())
	}

	draft = session.Draft{Working: next.Clone(), Snapshot: next}
	if err = s.storeDraft(sess, group.Name, draft); err != nil {
		return handler.Error(c, fiber.StatusInternalServerError, errSessionUnavailable.Error())
	}

	if s.policy != nil && containsDomain(group, appsettings.DomainSystem) {
		s.policy.Invalidate()
	}

	resp := s.response(group, draft)
	resp.Strategy = string(strategy)

	return c.JSON(resp)
}

// Reset replaces the session working set by the defaults without saving.
func (s *Service) Reset(c *fiber.Ctx) error {
	group, err := s.registry.LookupGroup(c.Params("group"))
	if err != nil {
		return handler.Error(c, fiber.StatusNotFound, err.Error())
	}

	sess, draft, status, err := s.draft(c, group)
	if err != nil {
		return handler.Error(c, status, err.Error())
	}

	if draft.Working, err = s.registry.Defaults(group.Domains...); err != nil {
		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if err = s.storeDraft(sess, group.Name, draft); err != nil {
		return handler.Error(c, fiber.StatusInternalServerError, errSessionUnavailable.Error())
	}

	return c.JSON(s.response(group, draft))
}

var (
	errSessionUnavailable = errors.New("session unavailable")
	errStoreUnavailable   = errors.New("settings store unavailable")
)

// draft returns the session's draft of group, loading it from the store when the session has none.
func (s *Service) draft(c *fiber.Ctx, group appsettings.Group) (*fibersession.Session, session.Draft, int, error) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to get session")
		return nil, session.Draft{}, fiber.StatusInternalServerError, errSessionUnavailable
	}

	draft, ok, err := session.LoadDraft(sess, group.Name)
	if err != nil {
		log.Warn().Err(err).Str("group", group.Name).Msg("dropping unreadable settings draft")
	}

	if ok {
		return sess, draft, fiber.StatusOK, nil
	}

	working, snapshot, err := s.reconciler.LoadState(c.UserContext(), group.Domains...)
	if err != nil {
		log.Error().Err(err).Str("group", group.Name).Msg("failed to load settings")
		return nil, session.Draft{}, fiber.StatusServiceUnavailable, errStoreUnavailable
	}

	return sess, session.Draft{Working: working, Snapshot: snapshot}, fiber.StatusOK, nil
}

// merge applies the request values to working. Flipping theme.isDarkMode resets
// the palette before the other values of the request are applied.
func (s *Service) merge(group appsettings.Group, working appsettings.State, values map[string]map[string]any) error {
	for domain, kv := range values {
		if !containsDomain(group, domain) {
			return appsettings.ErrUnknownDomain
		}

		schema, err := s.registry.Lookup(domain)
		if err != nil {
			return err
		}

		current := working[domain]
		if current == nil {
			current = schema.Defaults()
			working[domain] = current
		}

		if raw, ok := kv["isDarkMode"]; ok && domain == appsettings.DomainTheme {
			dark, err := schema.Coerce("isDarkMode", raw)
			if err != nil {
				return err
			}

			if !dark.Equal(current["isDarkMode"]) {
				on, _ := dark.AsBool()
				appsettings.ApplyThemeMode(current, on)
			}
		}

		keys := make([]string, 0, len(kv))
		for k := range kv {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		for _, k := range keys {
			v, err := schema.Coerce(k, kv[k])
			if err != nil {
				return err
			}

			current.Set(k, v)
		}
	}

	return nil
}

func (s *Service) storeDraft(sess *fibersession.Session, group string, draft session.Draft) error {
	if err := session.StoreDraft(sess, group, draft); err != nil {
		log.Error().Err(err).Str("group", group).Msg("failed to encode settings draft")
		return err
	}

	if err := sess.Save(); err != nil {
		log.Error().Err(err).Str("group", group).Msg("failed to save session")
		return err
	}

	return nil
}

func (s *Service) response(group appsettings.Group, draft session.Draft) Response {
	return Response{
		Group:      group.Name,
		Title:      group.Title,
		Working:    draft.Working.Plain(),
		HasChanges: draft.HasChanges(),
		Strategy:   string(group.Strategy),
	}
}

func containsDomain(group appsettings.Group, domain string) bool {
	for _, d := range group.Domains {
		if d == domain {
			return true
		}
	}

	return false
}
